package user

import (
	"errors"

	"github.com/deppfellow/meetapp/internal/model"
	"github.com/deppfellow/meetapp/internal/validation"
)

// ------------------------------------------------------------

type CreateUserPayload struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (p *CreateUserPayload) Validate() error {
	return validation.Struct(p)
}

// ------------------------------------------------------------

// UpdateUserPayload is a partial update of the acting user's profile.
// Nil fields are left unchanged.
type UpdateUserPayload struct {
	Name            *string `json:"name"`
	Email           *string `json:"email" validate:"omitempty,email"`
	OldPassword     *string `json:"oldPassword" validate:"omitempty,min=6"`
	Password        *string `json:"password" validate:"omitempty,min=6"`
	ConfirmPassword *string `json:"confirmPassword"`
}

// Validate adds the password dependencies to the tag rules:
// password is required once oldPassword is given, and confirmPassword is
// required and must equal password once password is given.
func (p *UpdateUserPayload) Validate() error {
	tagErr := validation.Struct(p)

	var custom validation.CustomValidationErrors

	if model.Present(p.OldPassword) && !model.Present(p.Password) {
		custom = append(custom, validation.CustomValidationError{
			Field:   "password",
			Message: "is required when oldPassword is present",
		})
	}

	if model.Present(p.Password) {
		switch {
		case !model.Present(p.ConfirmPassword):
			custom = append(custom, validation.CustomValidationError{
				Field:   "confirmPassword",
				Message: "is required when password is present",
			})
		case *p.ConfirmPassword != *p.Password:
			custom = append(custom, validation.CustomValidationError{
				Field:   "confirmPassword",
				Message: "must match password",
			})
		}
	}

	if len(custom) == 0 {
		return tagErr
	}
	return errors.Join(tagErr, custom)
}

// ChangesPassword reports whether the update sets a new password.
func (p *UpdateUserPayload) ChangesPassword() bool {
	return model.Present(p.Password)
}
