package api

import "errors"

var ErrInvalidRequest = errors.New("invalid_request")

// invalidRequestError is a client error; param names the offending field.
type invalidRequestError struct {
	msg   string
	param string
}

func (e invalidRequestError) Error() string {
	return e.msg
}

func (e invalidRequestError) Unwrap() error {
	return ErrInvalidRequest
}

func newInvalidRequest(param, msg string) error {
	return invalidRequestError{msg: msg, param: param}
}

// errorParam returns the param of an invalid request error, or "".
func errorParam(err error) string {
	var ie invalidRequestError
	if errors.As(err, &ie) {
		return ie.param
	}
	return ""
}
