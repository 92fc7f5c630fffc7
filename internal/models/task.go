package models

import "time"

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "To Do"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusDone       TaskStatus = "Done"
)

// TaskStatuses lists every accepted task status in workflow order.
var TaskStatuses = []TaskStatus{TaskStatusTodo, TaskStatusInProgress, TaskStatusDone}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "Low"
	PriorityMedium TaskPriority = "Medium"
	PriorityHigh   TaskPriority = "High"
)

type Task struct {
	ID                     string       `gorm:"primaryKey;type:varchar(24)" bson:"_id" json:"id"`
	ProjectID              string       `gorm:"type:varchar(24);not null;index" bson:"project_id" json:"project_id"`
	Name                   string       `gorm:"type:varchar(200);not null" bson:"name" json:"name"`
	Description            string       `gorm:"type:text" bson:"description" json:"description"`
	Status                 TaskStatus   `gorm:"type:varchar(20);not null;index" bson:"status" json:"status"`
	Priority               TaskPriority `gorm:"type:varchar(10);not null" bson:"priority" json:"priority"`
	EstimatedDurationHours float64      `gorm:"not null" bson:"estimated_duration_hours" json:"estimated_duration_hours"`
	DueDate                *time.Time   `bson:"due_date,omitempty" json:"due_date"`
	CreatedAt              time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt              time.Time    `bson:"updated_at" json:"updated_at"`

	// Stored in task_assignments and task_dependencies on relational backends
	AssignedToIDs []string `gorm:"-" bson:"assigned_to_ids" json:"assigned_to_ids"`
	DependencyIDs []string `gorm:"-" bson:"dependency_ids" json:"dependency_ids"`
}
