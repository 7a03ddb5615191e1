package domain

import "errors"

var (
	ErrAlreadyRated   = errors.New("you have already rated this session")
	ErrRatingNotFound = errors.New("rating not found")
	ErrForbidden      = errors.New("you can only change your own ratings")
	ErrInvalidStatus  = errors.New("invalid rating status")
)
