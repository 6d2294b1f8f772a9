package dto

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

var allowedImageTypes = []interface{}{
	"image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp",
}

type UploadProfileImageInput struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
}

func (i UploadProfileImageInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.FileName, validation.Required),
		validation.Field(&i.ContentType, validation.Required, validation.In(allowedImageTypes...)),
	)
}

type UploadProfileImageOutput struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
}
