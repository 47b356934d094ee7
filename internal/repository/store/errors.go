package store

import "errors"

var (
	ErrNotFound          = errors.New("record not found")
	ErrForbidden         = errors.New("no permission")
	ErrInvalidParam      = errors.New("invalid params")
	ErrConflict          = errors.New("already exists")
	ErrCapacityReached   = errors.New("event is full")
	ErrEventClosed       = errors.New("event is cancelled or over")
	ErrSlotTaken         = errors.New("slot already booked")
	ErrInvalidTransition = errors.New("status does not allow this action")
	ErrMentorFull        = errors.New("mentor has no free mentee seats")
)
