package models

import "time"

// TaskAssignment links a task to one assigned member.
type TaskAssignment struct {
	TaskID    string    `gorm:"primaryKey;type:varchar(24)"`
	MemberID  string    `gorm:"primaryKey;type:varchar(24);index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TaskDependency records that TaskID cannot finish before DependsOnID.
type TaskDependency struct {
	TaskID      string `gorm:"primaryKey;type:varchar(24)"`
	DependsOnID string `gorm:"primaryKey;type:varchar(24);index"`
}
