package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/dmitrijs2005/devmatch/internal/common"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return strongPassword(fl.Field().String())
	})
	return v
}

// strongPassword requires a lower-case letter, an upper-case letter, a digit
// and a symbol.
func strongPassword(s string) bool {
	var lower, upper, digit, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}

// validationError turns validator output into common.ErrValidation naming
// the offending fields.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: invalid %s", common.ErrValidation, strings.Join(fields, ", "))
}

func validateStruct(s any) error {
	if err := validate.Struct(s); err != nil {
		return validationError(err)
	}
	return nil
}

func validateVar(v any, tag string) error {
	if err := validate.Var(v, tag); err != nil {
		return validationError(err)
	}
	return nil
}
