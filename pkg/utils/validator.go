package utils

import (
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// ReservedUsername cannot be registered because /users/me is a route.
const ReservedUsername = "me"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report json field names so errors line up with the request body
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("notme", func(fl validator.FieldLevel) bool {
		return fl.Field().String() != ReservedUsername
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("notfutureyear", func(fl validator.FieldLevel) bool {
		return fl.Field().Int() <= int64(time.Now().Year())
	})

	return v
}

// IsValidSlug reports whether s is usable as a category or genre slug.
func IsValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}
