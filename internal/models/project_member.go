package models

import "time"

// ProjectMember is the relational row behind Project.TeamMemberIDs.
type ProjectMember struct {
	ProjectID string    `gorm:"primaryKey;type:varchar(24)"`
	MemberID  string    `gorm:"primaryKey;type:varchar(24);index"`
	JoinedAt  time.Time `gorm:"autoCreateTime"`
}
