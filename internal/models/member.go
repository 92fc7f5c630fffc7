package models

import "time"

const DefaultAvailabilityPercent = 100.0

type Member struct {
	ID                  string    `gorm:"primaryKey;type:varchar(24)" bson:"_id" json:"id"`
	Name                string    `gorm:"type:varchar(100);not null" bson:"name" json:"name"`
	Email               string    `gorm:"type:varchar(255);uniqueIndex;not null" bson:"email" json:"email"`
	Role                string    `gorm:"type:varchar(100);not null" bson:"role" json:"role"`
	Skills              []string  `gorm:"type:text;serializer:json" bson:"skills" json:"skills"`
	ExperienceYears     int       `gorm:"not null;default:0" bson:"experience_years" json:"experience_years"`
	AvailabilityPercent float64   `gorm:"not null" bson:"availability_percent" json:"availability_percent"`
	CreatedAt           time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt           time.Time `bson:"updated_at" json:"updated_at"`
}
