package validate

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var v = newValidator()

// newValidator installs the json tag as the reported field name so error
// bodies key on the names clients actually sent.
func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return val
}

// FieldError is one failed field, rendered into {message, errors} bodies.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Struct validates a tagged request body and returns per-field errors, or
// nil when everything passes.
func Struct(s any) []FieldError {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		// Field() is the json name thanks to the tag name func.
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "isbn":
		return "must be a valid ISBN"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "datetime":
		return "must be a date formatted as " + fe.Param()
	}
	return fmt.Sprintf("failed on the %q rule", fe.Tag())
}

// Pagination clamps page/limit query values to sane bounds (defaults 1/10,
// limit capped at 100).
func Pagination(pageStr, limitStr string) (page, limit int) {
	page, _ = strconv.Atoi(strings.TrimSpace(pageStr))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(strings.TrimSpace(limitStr))
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
