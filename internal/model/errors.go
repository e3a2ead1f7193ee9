package model

import "errors"

// Common errors used across the application
var (
	// Account errors
	ErrAccountNotFound  = errors.New("account not found")
	ErrUsernameTaken    = errors.New("username already taken")
	ErrUsernameTooShort = errors.New("username must be at least 3 characters")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")

	// Room errors
	ErrRoomNotFound   = errors.New("room not found")
	ErrNotOwner       = errors.New("caller is not the room owner")
	ErrNotMember      = errors.New("caller is not a room member")
	ErrTooFewMembers  = errors.New("at least 2 members required to start")
	ErrTooManyMembers = errors.New("more members than roles in the catalog")
)
