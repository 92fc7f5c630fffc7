package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// NewGormStore builds a Store backed by a relational database.
func NewGormStore(db *gorm.DB) Store {
	return Store{
		Members:  NewMemberRepository(db),
		Projects: NewProjectRepository(db),
		Tasks:    NewTaskRepository(db),
		TimeLogs: NewTimeLogRepository(db),
		Users:    NewUserRepository(db),
	}
}

func translateGormError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}

// affectedOrNotFound turns a delete or update that touched no rows into ErrNotFound.
func affectedOrNotFound(result *gorm.DB) error {
	if result.Error != nil {
		return translateGormError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
