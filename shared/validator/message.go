package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

const messageSeparator = "; "

var messages = map[string]string{
	"required": "{field} is required",
	"email":    "{field} must be a valid email address",
	"uuid":     "{field} must be a valid UUID",
	"alphanum": "{field} must contain only letters and digits",
	"date":     "{field} must be a date in YYYY-MM-DD format",
	"oneof":    "{field} must be one of {param}",
	"unique":   "{field} must not contain duplicates",

	"gt":  "{field} must be greater than {param}",
	"gte": "{field} must be greater than or equal to {param}",
	"lte": "{field} must be less than or equal to {param}",
	"min": "{field} must be greater than or equal to {param}",
	"max": "{field} must be less than or equal to {param}",

	"mimetypes":   "{field} must be one of these types: {param}",
	"maxfilesize": "{field} must not be larger than {param} MB",
}

// message renders every field error, in struct order, as one sentence each.
// Tags without a template fall back to the validator's own wording.
func message(err error) string {
	var fieldErrors val.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err.Error()
	}

	parts := make([]string, 0, len(fieldErrors))

	for _, fieldErr := range fieldErrors {
		template, ok := messages[fieldErr.Tag()]
		if !ok {
			parts = append(parts, fieldErr.Error())

			continue
		}

		parts = append(parts, strings.NewReplacer(
			"{field}", fieldErr.Field(),
			"{param}", fieldErr.Param(),
		).Replace(template))
	}

	return strings.Join(parts, messageSeparator)
}
