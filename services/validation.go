package services

import (
	"fmt"
	"keyroom/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type usernameRequest struct {
	Name string `validate:"required,max=32"`
}

func validateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidArgument, err)
	}
	return nil
}
