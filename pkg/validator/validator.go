// Package validator wraps go-playground/validator with the domain rules the
// models lean on: uuid_required for mandatory foreign keys and unit_type for
// the crate/piece enum.
package validator

import (
	"fmt"

	"go-bevdistro/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// FieldError describes one failed field of a validated struct.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("field '%s' failed on tag '%s'", e.Field, e.Tag)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// "required" alone treats uuid.Nil as present; foreign keys need this
	v.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		id, ok := fl.Field().Interface().(uuid.UUID)
		return ok && id != uuid.Nil
	})

	v.RegisterValidation("unit_type", func(fl validator.FieldLevel) bool {
		return model.ValidUnitType(fl.Field().String())
	})

	return v
}

// ValidateStruct runs the struct's validate tags and returns one FieldError
// per failing field, in declaration order.
func ValidateStruct(data interface{}) []FieldError {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	var out []FieldError
	for _, fe := range err.(validator.ValidationErrors) {
		out = append(out, FieldError{
			Field: fe.StructNamespace(),
			Tag:   fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}
