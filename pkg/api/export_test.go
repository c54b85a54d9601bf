package api

var (
	WrapUserError   = wrapUserError
	WrapSystemError = wrapSystemError
	NewUserErrorf   = newUserErrorf
)
