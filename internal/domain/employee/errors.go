package employee

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmpIDExists        = errors.New("employee id already exists")
	ErrInvalidStatus      = errors.New("status must be one of Active, Inactive, On Leave, Left")
	ErrInvalidPhoneNumber = errors.New("phone number must be 10 digits")
	ErrInvalidIFSC        = errors.New("invalid IFSC code")
)
