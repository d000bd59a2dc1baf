package domain

import "errors"

var (
	ErrInvalidRole        = errors.New("invalid role")
	ErrEmptyRecipientID   = errors.New("recipient id is empty")
	ErrRecipientNotFound  = errors.New("recipient record not found")
	ErrEmptyEntityID      = errors.New("entity id is empty")
	ErrInvalidScheduleDay = errors.New("invalid schedule day")
)
