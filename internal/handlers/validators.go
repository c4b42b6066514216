package handlers

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidations installs custom binding rules on gin's validator
// engine. Call once before the router starts serving.
func RegisterValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	// adult: a YYYY-MM-DD date at least 18 years in the past.
	v.RegisterValidation("adult", func(fl validator.FieldLevel) bool {
		birth, err := time.Parse("2006-01-02", fl.Field().String())
		if err != nil {
			return false
		}
		return !birth.After(time.Now().AddDate(-18, 0, 0))
	})
}
