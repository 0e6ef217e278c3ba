// Package validate wraps a shared go-playground validator with the domain
// enum rules registered.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"kaizen-ideas/internal/domain"
)

var (
	once     sync.Once
	instance *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})

		_ = v.RegisterValidation("department", func(fl validator.FieldLevel) bool {
			return domain.Department(fl.Field().String()).IsValid()
		})
		_ = v.RegisterValidation("benefit", func(fl validator.FieldLevel) bool {
			return domain.Benefit(fl.Field().String()).IsValid()
		})
		_ = v.RegisterValidation("idea_status", func(fl validator.FieldLevel) bool {
			return domain.IdeaStatus(fl.Field().String()).IsValid()
		})
		_ = v.RegisterValidation("review_status", func(fl validator.FieldLevel) bool {
			return domain.IdeaStatus(fl.Field().String()).IsReviewStatus()
		})
		_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
			return domain.UserRole(fl.Field().String()).IsValid()
		})

		instance = v
	})
	return instance
}

// Struct validates s and converts failures into a *domain.ValidationError.
func Struct(s any) error {
	err := get().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &domain.ValidationError{Fields: make([]domain.FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, domain.FieldError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return out
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "e164":
		return fmt.Sprintf("%s must be an E.164 phone number", field)
	case "numeric":
		return fmt.Sprintf("%s must contain digits only", field)
	case "department", "benefit", "idea_status", "review_status", "role":
		return fmt.Sprintf("%s has an unsupported value %q", field, fe.Value())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
