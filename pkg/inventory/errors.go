package inventory

// OpError is a domain error with a machine-readable code. Operations wrap the
// package-level values with fmt.Errorf("...: %w", ...) to attach detail, so
// callers match with errors.Is.
type OpError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *OpError) Error() string { return e.Message }

var (
	ErrResourceNotFound     = &OpError{Code: "RESOURCE_NOT_FOUND", Message: "resource not found"}
	ErrResourceInactive     = &OpError{Code: "RESOURCE_INACTIVE", Message: "resource is deactivated"}
	ErrInsufficientQuantity = &OpError{Code: "INSUFFICIENT_QUANTITY", Message: "insufficient available quantity"}
	ErrDuplicateTag         = &OpError{Code: "DUPLICATE_TAG", Message: "tag already exists on this resource"}
	ErrTagNotFound          = &OpError{Code: "TAG_NOT_FOUND", Message: "tag not found on this resource"}
	ErrRequestNotFound      = &OpError{Code: "REQUEST_NOT_FOUND", Message: "maintenance request not found"}
)
