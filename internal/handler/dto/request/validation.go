package request

import (
	"regexp"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	referencePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	registerOnce     sync.Once
)

// RegisterValidators adds the payment binding tags to gin's validator engine.
// Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("payref", func(fl validator.FieldLevel) bool {
			return referencePattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("plan_period", func(fl validator.FieldLevel) bool {
			switch fl.Field().String() {
			case "monthly", "yearly":
				return true
			}
			return false
		})
	})
}
