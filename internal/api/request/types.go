package request

import "github.com/go-playground/validator/v10"

// validate is shared across request types; struct tags carry the rules
var validate = validator.New(validator.WithRequiredStructEnabled())

// RegisterRequest is the request body for registering an account
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Password string `json:"password" validate:"required,min=6"`
}

// Validate checks the request against its validation tags
func (r RegisterRequest) Validate() error {
	return validate.Struct(r)
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Validate checks the request against its validation tags
func (r LoginRequest) Validate() error {
	return validate.Struct(r)
}

// CreateRoomRequest is the request body for creating a room.
// Name is optional; a default is generated from the owner's username.
type CreateRoomRequest struct {
	Name string `json:"name" validate:"max=64"`
}

// Validate checks the request against its validation tags
func (r CreateRoomRequest) Validate() error {
	return validate.Struct(r)
}
