package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"required":    "{field} is required",
	"required_if": "{field} is required",
	"gt":          "{field} must be greater than {param}",
	"gte":         "{field} must be greater than or equal to {param}",
	"lte":         "{field} must be less than or equal to {param}",
	"oneof":       "{field} must be one of [{param}]",
	"max":         "{field} must be at most {param}",
	"min":         "{field} must be at least {param}",
	"email":       "{field} must be a valid email address",
	"date":        "{field} must be a date (YYYY-MM-DD or RFC3339)",
	"after_field": "{field} must be after {param}",
	"mimetypes":   "{field} must be one of [{param}]",
	"maxfilesize": "{field} must not exceed {param} MB",
	"url":         "{field} must be a valid URL",
	"uuid":        "{field} must be a valid UUID",
	"empty":       "{field} must be empty",
}

// message renders the first violation of err for clients. Tags without a template fall
// back to the validator's own text.
func message(err error) string {
	var violations val.ValidationErrors

	if !errors.As(err, &violations) || len(violations) == 0 {
		return err.Error()
	}

	first := violations[0]

	template, ok := messages[first.Tag()]
	if !ok {
		return first.Error()
	}

	return strings.NewReplacer("{field}", first.Field(), "{param}", first.Param()).Replace(template)
}
