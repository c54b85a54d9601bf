package api

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Error is error of API request that has HTTP status code
type Error interface {
	Error() string
	Code() int
	Message() string
	Cause() error
}

type baseError struct {
	Err  error
	Msg  string
	Code int
}

func (x *baseError) Message() string {
	if x.Msg != "" {
		return x.Msg
	}

	return x.Err.Error()
}

func (x *baseError) Cause() error {
	return x.Err
}

func (x *baseError) detail() string {
	switch {
	case x.Err == nil:
		return x.Msg
	case x.Msg == "":
		return x.Err.Error()
	default:
		return x.Msg + ": " + x.Err.Error()
	}
}

// userError is caused by request parameters
type userError struct{ baseError }

func (x *userError) Error() string { return "UserError: " + x.detail() }
func (x *userError) Code() int {
	if x.baseError.Code > 0 {
		return x.baseError.Code
	}
	return http.StatusBadRequest
}

func wrapUserError(err error, msg string) Error {
	return &userError{
		baseError: baseError{
			Err: errors.Wrap(err, msg),
		},
	}
}

func newUserErrorf(code int, msg string, args ...interface{}) Error {
	return &userError{
		baseError: baseError{
			Msg:  fmt.Sprintf(msg, args...),
			Code: code,
		},
	}
}

// systemError is caused by remote service or server configuration
type systemError struct{ baseError }

func (x *systemError) Error() string { return "SystemError: " + x.detail() }
func (x *systemError) Code() int {
	if x.baseError.Code > 0 {
		return x.baseError.Code
	}
	return http.StatusInternalServerError
}

func wrapSystemError(err error, code int, msg string) Error {
	return &systemError{
		baseError: baseError{
			Err:  errors.Wrap(err, msg),
			Code: code,
		},
	}
}
