package profile

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrValidation is matched by every error returned from Validate.
var ErrValidation = errors.New("validation failed")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	// Work types are compared normalized, so any accepted spelling is valid.
	_ = v.RegisterValidation("worktype", func(fl validator.FieldLevel) bool {
		return WorkType(fl.Field().String()).Valid()
	})
	return v
}

// ValidationError lists the problems found on a single record.
type ValidationError struct {
	Record   string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Record, ErrValidation, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ValidateResource checks that the resource carries the keys needed for scoring.
func ValidateResource(r *Resource) error {
	if r == nil {
		return &ValidationError{Record: "resource", Problems: []string{"resource is nil"}}
	}
	return check("resource "+quoted(r.ID), r)
}

// ValidateRequirement checks that the requirement carries the keys needed for scoring.
func ValidateRequirement(r *Requirement) error {
	if r == nil {
		return &ValidationError{Record: "requirement", Problems: []string{"requirement is nil"}}
	}
	return check("requirement "+quoted(r.ID), r)
}

func check(record string, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%s: %w", record, err)
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, describe(fe))
	}
	return &ValidationError{Record: record, Problems: problems}
}

func describe(fe validator.FieldError) string {
	// Namespace is prefixed with the struct name, e.g. Resource.primary_skills[0].name.
	field := fe.Namespace()
	if idx := strings.Index(field, "."); idx >= 0 {
		field = field[idx+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %v", field, fe.Param(), fe.Value())
	case "worktype":
		return fmt.Sprintf("%s must be one of [REMOTE HYBRID ONSITE], got %v", field, fe.Value())
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s, got %v", field, fe.Param(), fe.Value())
	case "lte", "max":
		return fmt.Sprintf("%s must be at most %s, got %v", field, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %q check", field, fe.Tag())
	}
}

func quoted(id string) string {
	if id == "" {
		return `""`
	}
	return fmt.Sprintf("%q", id)
}
