package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator is a wrapper around the validator library with the
// marketplace's custom tags registered.
type Validator struct {
	validate *validator.Validate
}

// New creates a new Validator instance.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("bilingual", validateBilingual)
	return &Validator{validate: v}
}

// ValidateStruct validates a struct based on its tags.
func (v *Validator) ValidateStruct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("validation failed: %s", strings.Join(fields, ", "))
	}
	return fmt.Errorf("validation failed: %w", err)
}

// validateBilingual requires a string-to-string map to carry non-blank
// "ar" and "en" entries.
func validateBilingual(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Map || field.Type().Key().Kind() != reflect.String || field.Type().Elem().Kind() != reflect.String {
		return false
	}
	for _, lang := range []string{"ar", "en"} {
		v := field.MapIndex(reflect.ValueOf(lang).Convert(field.Type().Key()))
		if !v.IsValid() || strings.TrimSpace(v.String()) == "" {
			return false
		}
	}
	return true
}
