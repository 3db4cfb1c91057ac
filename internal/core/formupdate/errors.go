package formupdate

import "errors"

var (
	ErrInvalidID         = errors.New("formupdate: invalid session id")
	ErrInvalidToken      = errors.New("formupdate: invalid token")
	ErrInvalidEmployeeID = errors.New("formupdate: invalid employee id")
	ErrInvalidRequester  = errors.New("formupdate: invalid requester id")
	ErrInvalidExpiry     = errors.New("formupdate: invalid expiry hours")
	ErrEmptyUpdate       = errors.New("formupdate: updated data is required")
	ErrSignatureRequired = errors.New("formupdate: signature is required for this form type")
	ErrSessionNotFound   = errors.New("formupdate: session not found")
	ErrSessionExpired    = errors.New("formupdate: session expired")
	ErrSessionCompleted  = errors.New("formupdate: session already completed")
	ErrDuplicateToken    = errors.New("formupdate: duplicate update token")
)
