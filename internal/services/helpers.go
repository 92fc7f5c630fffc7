package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/pm-assistant-api/internal/repository"
	"github.com/yukikurage/pm-assistant-api/internal/validation"
)

var (
	// ErrInvalidID is returned before any store access when an id is malformed.
	ErrInvalidID = errors.New("invalid id")
)

// checkID rejects malformed ids. The result also unwraps to *validation.Error.
func checkID(field, id string) error {
	if err := validation.ID(field, id); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidID, err)
	}
	return nil
}

func checkIDs(field string, ids []string) error {
	for i, id := range ids {
		if err := checkID(fmt.Sprintf("%s[%d]", field, i), id); err != nil {
			return err
		}
	}
	return nil
}

// lookupError maps a failed fetch of id onto the entity's not-found sentinel.
func lookupError(err error, notFound error, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s", notFound, id)
	}
	return fmt.Errorf("failed to find %s: %w", id, err)
}

// uniqueStrings removes duplicate values while keeping first-seen order
func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}

// trimmed returns a copy of an optional string without surrounding whitespace
func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	return &v
}
