package dto

import "time"

type UserOutput struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Provider     string    `json:"provider"`
	Confirmed    bool      `json:"confirmed"`
	ProfileImage string    `json:"profileImage,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
