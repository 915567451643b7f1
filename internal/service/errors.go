package service

import "errors"

var (
	ErrConnectionFailed = errors.New("Database connection failed")
	ErrDuplicateInvoice = errors.New("Duplicate invoice ID detected")
	ErrRecordNotFound   = errors.New("Record not found")
	ErrInvalidPageSize  = errors.New("per_page must be a positive integer")
)

// ValidationError names the first required field missing from a create request.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return "Missing required field: " + e.Field
}
