package onboarding

import "errors"

var (
	ErrInvalidID            = errors.New("onboarding: invalid session id")
	ErrInvalidToken         = errors.New("onboarding: invalid token")
	ErrInvalidApplicationID = errors.New("onboarding: invalid application id")
	ErrInvalidEmployeeID    = errors.New("onboarding: invalid employee id")
	ErrInvalidPropertyID    = errors.New("onboarding: invalid property id")
	ErrInvalidManagerID     = errors.New("onboarding: invalid manager id")
	ErrInvalidExpiry        = errors.New("onboarding: invalid expiry hours")
	ErrInvalidActor         = errors.New("onboarding: invalid actor id")
	ErrInvalidReason        = errors.New("onboarding: rejection reason is required")
	ErrUnknownStep          = errors.New("onboarding: unknown step")
	ErrStepNotInPhase       = errors.New("onboarding: step does not belong to current phase")
	ErrInvalidTransition    = errors.New("onboarding: invalid phase transition")
	ErrSessionNotFound      = errors.New("onboarding: session not found")
	ErrSessionExpired       = errors.New("onboarding: session expired")
	ErrSessionTerminal      = errors.New("onboarding: session already finalized")
	ErrDuplicateToken       = errors.New("onboarding: duplicate session token")
)
