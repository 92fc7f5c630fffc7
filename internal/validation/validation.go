package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/yukikurage/pm-assistant-api/internal/models"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// FieldError describes one rejected field using its JSON name.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is returned when a struct fails validation.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + " " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator returns the shared validator with the domain rules registered.
func Validator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonName)
		mustRegister(validate, "objectid", func(fl validator.FieldLevel) bool {
			return models.IsValidID(fl.Field().String())
		})
		mustRegister(validate, "taskstatus", func(fl validator.FieldLevel) bool {
			return IsTaskStatus(fl.Field().String())
		})
		mustRegister(validate, "projectstatus", func(fl validator.FieldLevel) bool {
			return IsProjectStatus(fl.Field().String())
		})
		mustRegister(validate, "priority", func(fl validator.FieldLevel) bool {
			switch models.TaskPriority(fl.Field().String()) {
			case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
				return true
			}
			return false
		})
	})
	return validate
}

// Struct validates v and converts failures into *Error.
func Struct(v interface{}) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]FieldError, len(verrs))
	for i, fe := range verrs {
		fields[i] = FieldError{Field: fieldPath(fe), Message: message(fe)}
	}
	return &Error{Fields: fields}
}

// ID rejects identifiers that do not have the stored id shape.
func ID(field, id string) error {
	if models.IsValidID(id) {
		return nil
	}
	return &Error{Fields: []FieldError{{Field: field, Message: "must be a 24 character hex id"}}}
}

func IsTaskStatus(s string) bool {
	for _, status := range models.TaskStatuses {
		if string(status) == s {
			return true
		}
	}
	return false
}

func IsProjectStatus(s string) bool {
	for _, status := range models.ProjectStatuses {
		if string(status) == s {
			return true
		}
	}
	return false
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s: %v", tag, err))
	}
}

func jsonName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

// fieldPath drops the top-level struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "objectid":
		return "must be a 24 character hex id"
	case "taskstatus":
		return "must be one of To Do, In Progress, Done"
	case "projectstatus":
		return "must be one of Not Started, In Progress, On Hold, Completed"
	case "priority":
		return "must be one of Low, Medium, High"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
