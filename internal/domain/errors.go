package domain

import "errors"

var (
	ErrUnsupportedIntent = errors.New("unsupported intent kind")
	ErrMalformedCallback = errors.New("malformed callback payload")
	ErrActivityNotFound  = errors.New("activity not found")
	ErrActivityFinished  = errors.New("activity already finished")
	ErrUserNotFound      = errors.New("user not found")
)
