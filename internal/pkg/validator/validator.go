package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"equipinspect/internal/domain"
)

// NonFieldErrors keys problems that do not belong to one field.
const NonFieldErrors = "non_field_errors"

var once sync.Once

// Init makes gin's validator report JSON field names. Safe to call repeatedly.
func Init() {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return f.Name
		})
	})
}

// Struct validates v with the same rules gin applies on binding.
func Struct(v any) error {
	Init()
	return binding.Validator.ValidateStruct(v)
}

// Translate turns binding and validation failures into per-field messages.
func Translate(err error) domain.FieldErrors {
	errs := domain.FieldErrors{}

	var ve validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	var fe domain.FieldErrors

	switch {
	case errors.As(err, &ve):
		for _, e := range ve {
			errs.Add(fieldName(e), message(e))
		}
	case errors.As(err, &fe):
		for k, v := range fe {
			errs.Add(k, v)
		}
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = NonFieldErrors
		}
		errs.Add(field, fmt.Sprintf("Incorrect type. Expected %s.", typeErr.Type.String()))
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		errs.Add(NonFieldErrors, "Invalid JSON data")
	case errors.Is(err, io.EOF):
		errs.Add(NonFieldErrors, "Request body is empty")
	default:
		errs.Add(NonFieldErrors, err.Error())
	}
	return errs
}

func fieldName(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required."
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has no more than %s characters.", e.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", e.Param())
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has at least %s characters.", e.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", e.Param())
	case "gte":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", e.Param())
	case "oneof":
		return fmt.Sprintf("\"%v\" is not a valid choice.", e.Value())
	case "email":
		return "Enter a valid email address."
	case "gt":
		return fmt.Sprintf("Ensure this value is greater than %s.", e.Param())
	}
	return fmt.Sprintf("Failed on the '%s' rule.", e.Tag())
}

// NotBlank records a blank-string error for a provided but empty value.
func NotBlank(errs domain.FieldErrors, field string, v *string) {
	if v != nil && strings.TrimSpace(*v) == "" {
		errs.Add(field, "This field may not be blank.")
	}
}
