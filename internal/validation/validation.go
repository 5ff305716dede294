package validation

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var usernameRE = regexp.MustCompile(`^[a-zA-Z0-9_.]+$`)

// IsUsername reports whether s is a valid account handle: letters, digits,
// underscores and dots only.
func IsUsername(s string) bool {
	return usernameRE.MatchString(s)
}

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return IsUsername(fl.Field().String())
		})
	}
}
