package models

import "time"

type ProjectStatus string

const (
	ProjectStatusNotStarted ProjectStatus = "Not Started"
	ProjectStatusInProgress ProjectStatus = "In Progress"
	ProjectStatusOnHold     ProjectStatus = "On Hold"
	ProjectStatusCompleted  ProjectStatus = "Completed"
)

// ProjectStatuses lists every accepted project status in display order.
var ProjectStatuses = []ProjectStatus{
	ProjectStatusNotStarted,
	ProjectStatusInProgress,
	ProjectStatusOnHold,
	ProjectStatusCompleted,
}

type Project struct {
	ID          string        `gorm:"primaryKey;type:varchar(24)" bson:"_id" json:"id"`
	Name        string        `gorm:"type:varchar(200);not null" bson:"name" json:"name"`
	Description string        `gorm:"type:text" bson:"description" json:"description"`
	Status      ProjectStatus `gorm:"type:varchar(20);not null;index" bson:"status" json:"status"`
	Milestones  []string      `gorm:"type:text;serializer:json" bson:"milestones" json:"milestones"`
	Deadline    *time.Time    `bson:"deadline,omitempty" json:"deadline"`
	CreatedAt   time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `bson:"updated_at" json:"updated_at"`

	// Stored in project_members on relational backends
	TeamMemberIDs []string `gorm:"-" bson:"team_member_ids" json:"team_member_ids"`
}
