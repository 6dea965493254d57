package validator

import (
	stderrors "errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/split-the-distance/internal/domain"
	"github.com/split-the-distance/internal/pkg/errors"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("travelmode", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseTravelMode(fl.Field().String())
		return err == nil
	})
	_ = validate.RegisterValidation("optimize", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseOptimizeMode(fl.Field().String())
		return err == nil
	})
}

// Validate checks struct tags and converts failures into ErrInvalidRequest
// with one detail entry per failing field.
func Validate(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.ErrInvalidRequest.WithMessage("%s", err.Error())
	}

	details := make(map[string]interface{}, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[strings.ToLower(fe.Field())] = fe.Tag()
	}
	return errors.ErrInvalidRequest.WithDetails(details)
}

func GetValidator() *validator.Validate {
	return validate
}
