package volunteer

// OpError is a domain error with a machine-readable code.
type OpError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *OpError) Error() string { return e.Message }

var ErrApplicationNotFound = &OpError{Code: "APPLICATION_NOT_FOUND", Message: "volunteer application not found"}
