package dto

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type ConfirmEmailInput struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func (i ConfirmEmailInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Email, validation.Required, is.Email),
		validation.Field(&i.OTP, validation.Required, validation.Length(6, 6), is.Digit),
	)
}
