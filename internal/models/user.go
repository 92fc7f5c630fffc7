package models

import "time"

// User is an API account. It is unrelated to Member.
type User struct {
	ID           string    `gorm:"primaryKey;type:varchar(24)" bson:"_id" json:"id"`
	Username     string    `gorm:"type:varchar(50);uniqueIndex;not null" bson:"username" json:"username"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" bson:"email" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" bson:"hashed_password" json:"-"`
	FullName     string    `gorm:"type:varchar(100)" bson:"full_name" json:"full_name"`
	IsActive     bool      `gorm:"not null" bson:"is_active" json:"is_active"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}
