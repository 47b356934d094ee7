package service

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var profileURLRe = regexp.MustCompile(`^[a-z0-9-]{3,50}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := RegisterValidators(v); err != nil {
		panic(err)
	}
	return v
}

// RegisterValidators adds the custom tags used by request structs. The router
// registers them on gin's binding engine as well.
func RegisterValidators(v *validator.Validate) error {
	return v.RegisterValidation("profileurl", func(fl validator.FieldLevel) bool {
		return profileURLRe.MatchString(fl.Field().String())
	})
}

// check runs struct validation and turns failures into ErrInvalidParam.
func check(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, strings.ToLower(fe.Field())+" ("+fe.Tag()+")")
		}
		return invalid("invalid %s", strings.Join(fields, ", "))
	}
	return invalid("%v", err)
}
