// Package validation provides custom validators for the application
package validation

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// cronParser matches the parser used by the provider scheduler
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Initialize registers all custom validators on gin's binding engine
func Initialize() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		register(v)
	}
}

// Validator returns a process-wide validator with the custom tags registered
func Validator() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		register(validate)
	})
	return validate
}

// Struct validates s with the process-wide validator
func Struct(s interface{}) error {
	return Validator().Struct(s)
}

func register(v *validator.Validate) {
	if err := v.RegisterValidation("nospaces", validateNoSpaces); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("cronspec", validateCronSpec); err != nil {
		panic(err)
	}
}

// validateNoSpaces checks if a string contains non-space characters
func validateNoSpaces(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return strings.TrimSpace(value) != ""
}

// validateCronSpec checks that a string is a five-field cron expression
func validateCronSpec(fl validator.FieldLevel) bool {
	_, err := cronParser.Parse(fl.Field().String())
	return err == nil
}
