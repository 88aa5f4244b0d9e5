package todo

import "errors"

// ToDoResponse is the wire envelope every capability call returns: either
// the full current todo set for the user, or an error message. Never both.
type ToDoResponse struct {
	ToDos        []*Todo `json:"to_dos"`
	ErrorMessage string  `json:"error_message,omitempty"`
}

// Failed reports whether the remote side rejected the call.
func (r *ToDoResponse) Failed() bool {
	return r.ToDos == nil
}

// EmptyResponse reports the outcome of a call that carries no payload.
// Code 0 is success; code 1 carries the remote error message.
type EmptyResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

// OK is the success EmptyResponse.
func OK() EmptyResponse {
	return EmptyResponse{Code: 0}
}

// Fail builds a failure EmptyResponse carrying the remote message.
func Fail(message string) EmptyResponse {
	return EmptyResponse{Code: 1, Message: message}
}

// Err bridges the envelope into Go error handling: nil on success, the
// message as an error otherwise.
func (r EmptyResponse) Err() error {
	if r.Code == 0 {
		return nil
	}

	return errors.New(r.Message)
}
