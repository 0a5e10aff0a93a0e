package validators

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"storefront/apperr"
)

var nameRegex = regexp.MustCompile(`^\p{L}[\p{L}' -]*$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
	}
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" || name == "" {
		return f.Name
	}
	return name
}

// DecodeJSON decodes exactly one JSON object into dst, rejecting unknown
// fields, then applies dst's binding tags.
func DecodeJSON(r io.Reader, dst any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return decodeError(err)
	}
	if dec.More() {
		return apperr.Validation("request body must contain a single JSON object")
	}
	if err := binding.Validator.ValidateStruct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

func decodeError(err error) error {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return apperr.Validation("request body is required")
	case errors.As(err, &syntaxErr):
		return apperr.Validation("malformed JSON at offset %d", syntaxErr.Offset)
	case errors.As(err, &typeErr):
		return apperr.Validation("%s must be %s", typeErr.Field, typeErr.Type)
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		return apperr.Validation("unknown field %s", strings.TrimPrefix(err.Error(), "json: unknown field "))
	default:
		return apperr.Validation("malformed JSON")
	}
}

func validationError(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return apperr.Validation("invalid request")
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, describe(fe))
	}
	return apperr.Validation("%s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
	}
}

func ValidateString(field, val string, minLen, maxLen int) error {
	length := utf8.RuneCountInString(val)
	if length < minLen || length > maxLen {
		return apperr.Validation("%s must be between %d and %d characters", field, minLen, maxLen)
	}
	return nil
}

// ValidateName accepts letters with inner spaces, hyphens and apostrophes.
// Empty names are allowed.
func ValidateName(field, val string) error {
	val = strings.TrimSpace(val)
	if val == "" {
		return nil
	}
	if !nameRegex.MatchString(val) {
		return apperr.Validation("%s must contain only letters", field)
	}
	return nil
}

// ValidateShippingAddress accepts any non-blank address up to 500 characters.
func ValidateShippingAddress(addr string) error {
	return ValidateString("shippingAddress", strings.TrimSpace(addr), 1, 500)
}
