package domain

// Status is the shared response status vocabulary across pipeline stages.
type Status string

const (
	StatusOK                Status = "OK"
	StatusPartial           Status = "PARTIAL"
	StatusVerified          Status = "VERIFIED"
	StatusNotFound          Status = "NOT_FOUND"
	StatusMismatch          Status = "MISMATCH"
	StatusRegistered        Status = "REGISTERED"
	StatusAlreadyRegistered Status = "ALREADY_REGISTERED"
	StatusError             Status = "ERROR"
)
