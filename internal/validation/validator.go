// Package validation wraps a shared go-playground/validator instance for
// request bodies. Messages name fields by their JSON names.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Struct validates s against its `validate` tags. It returns an empty string
// when s is valid, otherwise a message describing the first failing field.
func Struct(s any) string {
	err := instance().Struct(s)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}
	return message(verrs[0])
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	if ns := fe.Namespace(); strings.Contains(ns, "[") {
		field = ns[strings.Index(ns, ".")+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s %s at least %s%s", field, verb(fe.Kind()), fe.Param(), unit(fe.Kind()))
	case "max":
		return fmt.Sprintf("%s %s at most %s%s", field, verb(fe.Kind()), fe.Param(), unit(fe.Kind()))
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// verb reads "must have" for collections and "must be" for everything else.
func verb(k reflect.Kind) string {
	if k == reflect.Slice {
		return "must have"
	}
	return "must be"
}

func unit(k reflect.Kind) string {
	switch k {
	case reflect.Slice:
		return " items"
	case reflect.String:
		return " characters"
	default:
		return ""
	}
}
