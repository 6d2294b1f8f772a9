package dto

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

// LogoutFlag selects the revocation scope: the presented token only, or
// every session the user has.
type LogoutFlag string

const (
	LogoutCurrent LogoutFlag = "current"
	LogoutAll     LogoutFlag = "all"
)

type LogoutInput struct {
	Flag LogoutFlag `json:"flag"`
}

func (i LogoutInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Flag, validation.Required, validation.In(LogoutCurrent, LogoutAll)),
	)
}
