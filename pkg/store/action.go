package store

import "strings"

// Action is a plain record describing a state transition.
type Action struct {
	Type    string           `json:"type"`
	Payload any              `json:"payload,omitempty"`
	Meta    *Meta            `json:"meta,omitempty"`
	Error   *SerializedError `json:"error,omitempty"`
}

// Meta is attached by async thunks to each lifecycle action.
type Meta struct {
	RequestID         uint64 `json:"requestId"`
	Arg               any    `json:"arg,omitempty"`
	RequestStatus     string `json:"requestStatus"`
	RejectedWithValue bool   `json:"rejectedWithValue,omitempty"`
}

// SerializedError is the error shape carried by rejected actions.
type SerializedError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

const (
	StatusPending   = "pending"
	StatusFulfilled = "fulfilled"
	StatusRejected  = "rejected"
)

// NewAction builds an action with the given payload.
func NewAction(actionType string, payload any) Action {
	return Action{Type: actionType, Payload: payload}
}

// IsRejected reports whether the action type ends in "/rejected".
func (a Action) IsRejected() bool {
	return strings.HasSuffix(a.Type, "/"+StatusRejected)
}

// IsFulfilled reports whether the action type ends in "/fulfilled".
func (a Action) IsFulfilled() bool {
	return strings.HasSuffix(a.Type, "/"+StatusFulfilled)
}

// IsPending reports whether the action type ends in "/pending".
func (a Action) IsPending() bool {
	return strings.HasSuffix(a.Type, "/"+StatusPending)
}

// RequestID returns the thunk request id, or 0 for plain actions.
func (a Action) RequestID() uint64 {
	if a.Meta == nil {
		return 0
	}
	return a.Meta.RequestID
}

// ErrorMessage returns the serialized error message, if any.
func (a Action) ErrorMessage() string {
	if a.Error == nil {
		return ""
	}
	return a.Error.Message
}

// PayloadAs returns the payload converted to T. A non-nil *T payload is
// dereferenced.
func PayloadAs[T any](a Action) (T, bool) {
	switch v := a.Payload.(type) {
	case T:
		return v, true
	case *T:
		if v != nil {
			return *v, true
		}
	}
	var zero T
	return zero, false
}
