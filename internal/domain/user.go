package domain

import "time"

// User is an identity record. The password hash never leaves the store layer
// in serialized form, and the verification token is only ever exposed through
// the verification link.
type User struct {
	UserID            string    `json:"id" dynamodbav:"user_id"`
	Email             string    `json:"email" dynamodbav:"email"`
	PasswordHash      string    `json:"-" dynamodbav:"password_hash"`
	Role              Role      `json:"role" dynamodbav:"role"`
	Verified          bool      `json:"verified" dynamodbav:"verified"`
	VerificationToken *string   `json:"-" dynamodbav:"verification_token,omitempty"`
	CreatedAt         time.Time `json:"created" dynamodbav:"created_at"`
}

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}
