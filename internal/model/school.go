package model

import (
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// School is a persisted school row. ID is assigned by the store on insert and never changes.
type School struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CreateSchool is the payload accepted when creating a school. It carries no identity.
type CreateSchool struct {
	Name string `json:"name" validate:"required,notblank" jsonschema:"minLength=1"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// Validate reports whether the payload may be handed to the store.
func (c CreateSchool) Validate() error {
	return validate.Struct(c)
}
