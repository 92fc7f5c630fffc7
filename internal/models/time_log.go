package models

import "time"

type TimeLog struct {
	ID         string    `gorm:"primaryKey;type:varchar(24)" bson:"_id" json:"id"`
	TaskID     string    `gorm:"type:varchar(24);not null;index" bson:"task_id" json:"task_id"`
	MemberID   string    `gorm:"type:varchar(24);not null;index" bson:"member_id" json:"member_id"`
	HoursSpent float64   `gorm:"not null" bson:"hours_spent" json:"hours_spent"`
	LogDate    time.Time `gorm:"not null" bson:"log_date" json:"log_date"`
	Notes      string    `gorm:"type:text" bson:"notes" json:"notes"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
}
