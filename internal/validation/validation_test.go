package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/pm-assistant-api/internal/models"
)

type sampleInput struct {
	Name         string   `json:"name" validate:"required,max=10"`
	Email        string   `json:"email" validate:"required,email"`
	Hours        *float64 `json:"hours" validate:"omitnil,gt=0"`
	Availability float64  `json:"availability_percent" validate:"gte=0,lte=100"`
	Status       string   `json:"status" validate:"omitempty,taskstatus"`
	Priority     string   `json:"priority" validate:"omitempty,priority"`
	ProjectState string   `json:"project_status" validate:"omitempty,projectstatus"`
	MemberIDs    []string `json:"member_ids" validate:"dive,objectid"`
}

func fieldNames(err error) []string {
	var verr *Error
	if !errors.As(err, &verr) {
		return nil
	}
	names := make([]string, len(verr.Fields))
	for i, f := range verr.Fields {
		names[i] = f.Field
	}
	return names
}

func TestStruct_Valid(t *testing.T) {
	hours := 2.5
	err := Struct(sampleInput{
		Name:         "Alice",
		Email:        "alice@example.com",
		Hours:        &hours,
		Availability: 100,
		Status:       "In Progress",
		Priority:     "High",
		ProjectState: "On Hold",
		MemberIDs:    []string{models.NewID()},
	})
	require.NoError(t, err)
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	zero := 0.0
	err := Struct(sampleInput{
		Name:         "",
		Email:        "not-an-email",
		Hours:        &zero,
		Availability: 120,
		Status:       "Blocked",
		Priority:     "Urgent",
		ProjectState: "Archived",
		MemberIDs:    []string{"123"},
	})
	require.Error(t, err)

	assert.ElementsMatch(t, []string{
		"name", "email", "hours", "availability_percent", "status", "priority", "project_status", "member_ids[0]",
	}, fieldNames(err))
	assert.Contains(t, err.Error(), "hours must be greater than 0")
}

func TestID(t *testing.T) {
	assert.NoError(t, ID("task_id", models.NewID()))

	err := ID("task_id", "not-an-id")
	require.Error(t, err)
	assert.Equal(t, []string{"task_id"}, fieldNames(err))
}
