package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// NewID returns a new 24 character hex identifier. Both storage backends use it
// so ids have the same shape regardless of DB_DRIVER.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// IsValidID reports whether id has the shape produced by NewID.
func IsValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}
