// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package mapsource

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
)

// TagName is the struct tag used to decode and name configuration fields.
const TagName = "koanf"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report configuration keys rather than Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get(TagName), ",")
		if name == "-" {
			return ""
		}

		if len(name) == 0 {
			return f.Name
		}

		return name
	})

	return v
}

// Decode copies a raw configuration block into out, which must be a pointer
// to a struct tagged with TagName.  Scalars are converted weakly, so values
// supplied as strings (e.g. from environment variables) decode into numbers.
func Decode(input interface{}, out interface{}) error {
	d, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          TagName,
		WeaklyTypedInput: true,
		Result:           out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})

	if err != nil {
		return err
	}

	return d.Decode(input)
}

// FieldError describes one failed validation rule.
type FieldError struct {
	// Field is the dotted configuration path, e.g. req.url
	Field string

	// Message describes the failed rule
	Message string

	// Value is the rejected value
	Value string
}

// ValidationError carries every FieldError from one validation pass.
type ValidationError struct {
	Errors []FieldError
}

// Error fulfills the error interface
func (ve *ValidationError) Error() string {
	switch len(ve.Errors) {
	case 0:
		return "validation failed"

	case 1:
		return fmt.Sprintf("validation failed: %s", ve.Errors[0].Message)

	default:
		messages := make([]string, 0, len(ve.Errors))
		for _, fe := range ve.Errors {
			messages = append(messages, fe.Message)
		}

		return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
	}
}

// Validate runs the validate struct tags of v.  Rule failures are returned
// as a *ValidationError.
func Validate(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}

	fieldErrors := make([]FieldError, 0, len(ves))
	for _, fe := range ves {
		path := fe.Namespace()
		if _, rest, ok := strings.Cut(path, "."); ok {
			// drop the root struct name
			path = rest
		}

		fieldErrors = append(fieldErrors, FieldError{
			Field:   path,
			Message: message(path, fe),
			Value:   fmt.Sprintf("%v", fe.Value()),
		})
	}

	return &ValidationError{Errors: fieldErrors}
}

func message(path string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", path)
	case "min":
		return fmt.Sprintf("%s must be at least %s", path, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", path, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", path)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", path, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", path, fe.Tag())
	}
}
