package service

import "errors"

var (
	ErrNotAuthenticated   = errors.New("no active session")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrEmptyEmail         = errors.New("email cannot be empty")
	ErrEmptyPassword      = errors.New("password cannot be empty")
	ErrEmptyTaskText      = errors.New("task text cannot be empty")
	ErrInvalidTaskType    = errors.New("unknown task type")
	ErrInvalidResetTime   = errors.New("reset time must be HH:MM")
	ErrInvalidToken       = errors.New("invalid session token")
)
