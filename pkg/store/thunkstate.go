package store

// ThunkState tracks the lifecycle of one async thunk inside a state branch.
// After settling, Pending is false and at most one of Fulfilled or Rejected
// is true.
type ThunkState struct {
	Pending   bool   `json:"pending"`
	Fulfilled bool   `json:"fulfilled"`
	Rejected  bool   `json:"rejected"`
	Error     string `json:"error,omitempty"`
}

func (ThunkState) Start() ThunkState {
	return ThunkState{Pending: true}
}

func (ThunkState) Fulfill() ThunkState {
	return ThunkState{Fulfilled: true}
}

func (ThunkState) Reject(msg string) ThunkState {
	return ThunkState{Rejected: true, Error: msg}
}

// Settled reports whether the thunk has run and is no longer pending.
func (t ThunkState) Settled() bool {
	return !t.Pending && (t.Fulfilled || t.Rejected)
}
