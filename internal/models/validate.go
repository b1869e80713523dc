package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"realestatecrm/internal/common"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names so errors match what callers sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("listing_status", func(fl validator.FieldLevel) bool {
		return ListingStatus(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		return Role(fl.Field().String()).Valid()
	})

	return v
}

// Validator returns the shared validator with the model tags registered.
func Validator() *validator.Validate {
	return validate
}

// ValidateStruct runs tag validation and converts the first failure into a
// *common.ValidationError.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return common.NewValidationError(fe.Field(), describe(fe))
	}
	return fmt.Errorf("validate: %w", err)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "email":
		return "must be a valid email address"
	case "listing_status":
		return "must be one of Available, Reserved, Sold"
	case "user_role":
		return "must be one of Worker, Admin, CEO"
	default:
		return fmt.Sprintf("failed on the '%s' tag", fe.Tag())
	}
}
