// Package validation registers the application's custom validator tags on
// gin's binding engine and translates validation failures into readable messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/GabyPng/Happ/internal/models"
)

var accessCodePattern = regexp.MustCompile(`^[A-Z]{4}[0-9]{4}$`)

// ErrEngineUnavailable is returned when gin is not backed by go-playground/validator.
var ErrEngineUnavailable = errors.New("gin validator engine is not a *validator.Validate")

// NormalizeAccessCode trims and upper-cases an access code typed by a user.
func NormalizeAccessCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsAccessCode reports whether code, once normalized, has the [A-Z]{4}[0-9]{4} shape.
func IsAccessCode(code string) bool {
	return accessCodePattern.MatchString(NormalizeAccessCode(code))
}

// RegisterWithGin installs the custom tags on gin's default validator.
func RegisterWithGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return ErrEngineUnavailable
	}
	return Register(v)
}

// Register installs the custom tags and reports field names by their json key.
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	rules := map[string]validator.Func{
		"accesscode": func(fl validator.FieldLevel) bool {
			return IsAccessCode(fl.Field().String())
		},
		"gardentheme": func(fl validator.FieldLevel) bool {
			return models.ThemeName(fl.Field().String()).Valid()
		},
		"memorytype": func(fl validator.FieldLevel) bool {
			return models.MemoryType(fl.Field().String()).Valid()
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

var errorMessageTemplates = map[string]string{
	"required":    "%s is required",
	"email":       "%s must be a valid email address",
	"accesscode":  "%s must be 4 letters followed by 4 digits",
	"gardentheme": "%s must be one of: rosado, azul, verde",
	"memorytype":  "%s must be one of: Text, Image, Audio, Video, Location",
	"latitude":    "%s must be a valid latitude (-90 to 90)",
	"longitude":   "%s must be a valid longitude (-180 to 180)",
	"url":         "%s must be a valid URL",
}

// FieldErrors converts validator errors into a field -> message map.
// It returns false when err is not a validation failure.
func FieldErrors(err error) (map[string]string, bool) {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil, false
	}

	fields := make(map[string]string, len(validationErrs))
	for _, fe := range validationErrs {
		fields[fe.Field()] = translateError(fe)
	}
	return fields, true
}

// Message joins the field errors of err into a single sentence.
func Message(err error) string {
	fields, ok := FieldErrors(err)
	if !ok || len(fields) == 0 {
		return "Validation failed"
	}

	messages := make([]string, 0, len(fields))
	for _, msg := range fields {
		messages = append(messages, msg)
	}
	sort.Strings(messages)
	return strings.Join(messages, "; ")
}

func translateError(fe validator.FieldError) string {
	field := fe.Field()
	if template, ok := errorMessageTemplates[fe.Tag()]; ok {
		return fmt.Sprintf(template, field)
	}

	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
