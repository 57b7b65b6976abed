package validation

import (
	"encoding/json"
	"reflect"
	"regexp"
	"strings"

	msuuid "github.com/fhuszti/media-converter-go/internal/uuid"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var formatTokenRe = regexp.MustCompile(`^\.?[A-Za-z0-9]{2,8}$`)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Tell the validator to use the JSON tag as the “field name”
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		// Grab the value of `json:"foo,omitempty"`
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			// fallback to the Go field name or skip
			return fld.Name
		}
		return name
	})

	// validate our UUID wrapper through its textual form
	validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
		if id, ok := v.Interface().(msuuid.UUID); ok {
			return id.String()
		}
		return nil
	}, msuuid.UUID{})

	_ = validate.RegisterValidation("mediakind", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(strings.TrimSpace(fl.Field().String())) {
		case "image", "audio":
			return true
		}
		return false
	})

	// format_token only checks the shape; the format registry decides
	// whether the format is allowed
	_ = validate.RegisterValidation("format_token", func(fl validator.FieldLevel) bool {
		return formatTokenRe.MatchString(strings.TrimSpace(fl.Field().String()))
	})
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func ErrorsToJson(validationErrs error) (string, error) {
	errsMap := make(map[string]string)
	for _, fieldErr := range validationErrs.(validator.ValidationErrors) {
		errsMap[fieldErr.Field()] = fieldErr.Tag()
	}

	errsJson, err := json.Marshal(errsMap)
	if err != nil {
		return "", err
	}
	return string(errsJson), nil
}
