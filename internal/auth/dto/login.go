package dto

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type SignInInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (i SignInInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Email, validation.Required, is.Email),
		validation.Field(&i.Password, validation.Required),
	)
}

type GmailLoginInput struct {
	IDToken string `json:"idToken"`
}

func (i GmailLoginInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.IDToken, validation.Required),
	)
}
