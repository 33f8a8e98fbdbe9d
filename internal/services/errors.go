package services

import "errors"

var (
	ErrRideNotFound      = errors.New("ride not found")
	ErrNotAuthorized     = errors.New("not authorized to perform this action")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrRoleMismatch      = errors.New("ride has the wrong role for this action")
	ErrRouteMismatch     = errors.New("rides do not share pickup and destination")
	ErrSeatsExceeded     = errors.New("not enough free seats on this ride")
)
