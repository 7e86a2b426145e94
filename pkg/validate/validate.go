package validate

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewCustomValidator() *CustomValidator {
	v := validator.New()
	// notblank rejects whitespace-only strings, which "required" lets through.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool { //nolint:errcheck
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// Describe turns the first failed rule of err into a field name and a readable reason.
// ok is false when err did not come from the validator.
func Describe(err error) (field, reason string, ok bool) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return "", "", false
	}
	fe := ve[0]
	switch fe.Tag() {
	case "required", "notblank":
		reason = "is required"
	case "email":
		reason = "must be a valid email"
	case "min", "gte":
		reason = "must be at least " + fe.Param()
	case "max", "lte":
		reason = "must be at most " + fe.Param()
	default:
		reason = "is invalid"
	}
	return fe.Field(), reason, true
}
