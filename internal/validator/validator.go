// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// tickerRegex matches normalized exchange symbols: 1-10 uppercase letters,
// digits, dots or hyphens (BRK.B, BTC-USD), starting with a letter.
// Handlers accept lowercase input; the ledger uppercases before storage,
// so binding validates case-insensitively.
var tickerRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9.\-]{0,9}$`)

// dateRegex matches calendar dates in YYYY-MM-DD form. Range validity
// (month 13, day 32) is checked by time.Parse in the ledger.
var dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("ticker", validateTicker)
		_ = v.RegisterValidation("calendar_date", validateCalendarDate)
	}
}

func validateTicker(fl validator.FieldLevel) bool {
	return tickerRegex.MatchString(fl.Field().String())
}

func validateCalendarDate(fl validator.FieldLevel) bool {
	return dateRegex.MatchString(fl.Field().String())
}
