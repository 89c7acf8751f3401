package service

import "errors"

var (
	ErrInvalidBaseline   = errors.New("baseline must be between 1 and 100")
	ErrNotRegistered     = errors.New("user has no active program")
	ErrAlreadyRegistered = errors.New("user already has a program")
	ErrNoWeekTransition  = errors.New("no week transition available")
	ErrProgramComplete   = errors.New("program already complete")
	ErrDispatcherNotSet  = errors.New("notification dispatcher not set")
)
