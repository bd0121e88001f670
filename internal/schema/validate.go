package schema

import (
	"errors"
	"fmt"
	"go/token"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidSchema wraps every validation failure.
var ErrInvalidSchema = errors.New("invalid schema")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report yaml field names instead of Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	_ = v.RegisterValidation("goident", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return token.IsIdentifier(s) && s != "_"
	})

	v.RegisterStructValidation(func(sl validator.StructLevel) {
		f, ok := sl.Current().Interface().(FieldsDef)
		if ok && len(f.Positional) > 0 && len(f.Named) > 0 {
			sl.ReportError(f.Named, "named", "Named", "exclusive", "positional")
		}
	}, FieldsDef{})

	return v
}

// Validate checks the structure of a schema file. All problems are reported
// in one error wrapping ErrInvalidSchema.
func Validate(f *File) error {
	if f == nil {
		return fmt.Errorf("%w: file is nil", ErrInvalidSchema)
	}

	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}

	messages := make([]string, 0, len(valErrs))
	for _, ve := range valErrs {
		messages = append(messages, fieldPath(ve)+": "+formatValidationError(ve))
	}

	return fmt.Errorf("%w: %s", ErrInvalidSchema, strings.Join(messages, "; "))
}

// fieldPath drops the root type name from the namespace, e.g.
// "enums[0].variants[1].name".
func fieldPath(ve validator.FieldError) string {
	ns := ve.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}

	return ns
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "goident":
		return fmt.Sprintf("%q is not a Go identifier", ve.Value())
	case "unique":
		return fmt.Sprintf("%s must be unique", strings.ToLower(ve.Param()))
	case "min":
		return fmt.Sprintf("must have at least %s entries", ve.Param())
	case "exclusive":
		return fmt.Sprintf("cannot be combined with %s fields", ve.Param())
	default:
		if ve.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
		}

		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}
