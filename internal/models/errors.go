package models

import "errors"

var (
	ErrNoEntries          = errors.New("no journal entries found for this date")
	ErrEmptyEntry         = errors.New("entry text is empty")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or passcode")
	ErrInvalidTimezone    = errors.New("invalid timezone")
)

// ErrMailerDisabled is returned by the mailer when SMTP credentials are missing.
var ErrMailerDisabled = errors.New("email service not configured")
