package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

const (
	MSISDNTag = "msisdn"
)

var msisdnRegex = regexp.MustCompile(`^\+?[1-9]\d{7,14}$`)

var valid = map[string]func(fl validator.FieldLevel) bool{
	MSISDNTag: ValidateMSISDN,
}

// ValidateMSISDN accepts E.164 numbers with or without the leading plus.
func ValidateMSISDN(fl validator.FieldLevel) bool {
	return msisdnRegex.MatchString(fl.Field().String())
}
