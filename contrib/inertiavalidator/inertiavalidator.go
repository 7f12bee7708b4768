// Package inertiavalidator validates request messages with
// github.com/go-playground/validator struct tags.
//
// Rule failures surface as validation errors, so the default endpoint error
// handling flashes them back to the client form instead of failing the
// request.
package inertiavalidator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nytodev/inertia-go"
	"github.com/nytodev/inertia-go/inertiaframe"
)

var _ inertiaframe.Validator = (*Validator)(nil)

// MessageFunc renders a failed rule into the message shown to the user.
type MessageFunc func(fe validator.FieldError) string

// Config configures a Validator.
type Config struct {
	// Validate is the underlying validator instance. Leave nil to get a
	// fresh instance with required-struct validation enabled.
	Validate *validator.Validate

	// Message renders a failed rule into the user-facing message.
	//
	// Defaults to DefaultMessage.
	Message MessageFunc
}

// Validator checks request messages against their validate struct tags.
type Validator struct {
	validate *validator.Validate
	message  MessageFunc
}

// New creates a Validator.
//
// Failed fields are reported under the name the client sent them as: the
// form tag, then the json tag, then the Go field name.
func New(config *Config) *Validator {
	if config == nil {
		//nolint:exhaustruct
		config = &Config{}
	}

	validate := config.Validate
	if validate == nil {
		validate = validator.New(validator.WithRequiredStructEnabled())
	}

	validate.RegisterTagNameFunc(tagName)

	message := config.Message
	if message == nil {
		message = DefaultMessage
	}

	return &Validator{validate: validate, message: message}
}

// Validate implements inertiaframe.Validator.
func (v *Validator) Validate(msg any) error {
	err := v.validate.Struct(msg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("inertiavalidator: failed to validate message: %w", err)
	}

	out := make(inertia.ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, inertia.NewValidationError(fe.Field(), v.message(fe)))
	}

	return out
}

// DefaultMessage renders the most common rules into plain sentences and
// falls back to naming the failed rule.
func DefaultMessage(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s long", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed on the %s rule", field, fe.Tag())
	}
}

// tagName picks the name a failed field is reported under, matching the
// order request messages decode with: form, json, then the Go field name.
func tagName(fld reflect.StructField) string {
	for _, tag := range []string{"form", "json"} {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}

		if name != "" {
			return name
		}
	}

	return fld.Name
}
