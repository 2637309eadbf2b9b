package handler

const (
	errInternalServer     = "Internal server error"
	errEmailTaken         = "Email already exists"
	errInvalidCredentials = "Invalid credentials"
	errRecordNotFound     = "Record not found"
)
