package errors

import "fmt"

var (
	ErrWorkerPanic      = fmt.Errorf("worker panic")
	ErrAlreadyQueued    = fmt.Errorf("participant already queued")
	ErrUnknownAttribute = fmt.Errorf("attribute value outside the configured space")
)
