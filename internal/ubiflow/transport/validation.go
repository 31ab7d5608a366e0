package transport

import (
	"ubiflow_gateway/internal/ubiflow/domain"
	"ubiflow_gateway/platform/validator"

	govalidator "github.com/go-playground/validator/v10"
)

// RegisterValidations adds the code sets of the syndication API as validation
// tags. Universe and transaction are closed sets; data keys are only checked
// for shape.
func RegisterValidations(val *validator.Validator) error {
	rules := map[string]func(string) bool{
		"ubiflow_universe":    func(code string) bool { return domain.Universe(code).Valid() },
		"ubiflow_transaction": func(code string) bool { return domain.Transaction(code).Valid() },
		"ubiflow_data_key":    func(code string) bool { return domain.DataKey(code).Valid() },
	}

	for tag, valid := range rules {
		valid := valid
		if err := val.RegisterValidation(tag, func(fl govalidator.FieldLevel) bool {
			return valid(fl.Field().String())
		}); err != nil {
			return err
		}
	}
	return nil
}
