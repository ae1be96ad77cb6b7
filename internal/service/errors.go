package service

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrFileNotFound    = errors.New("file not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailExists     = errors.New("email already registered")
	ErrInvalidLogin    = errors.New("invalid credentials")
	ErrAccountDisabled = errors.New("account is disabled")
)
