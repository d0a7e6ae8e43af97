package store

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("buildhub-state/store")

// Dispatcher is the part of a store an async thunk needs.
type Dispatcher interface {
	Dispatch(Action) Action
	NextRequestID() uint64
}

// ThunkAPI is handed to payload creators.
type ThunkAPI struct {
	Dispatch  Dispatch
	RequestID uint64
}

// PayloadCreator performs the asynchronous work of a thunk.
type PayloadCreator[A, R any] func(ctx context.Context, arg A, api ThunkAPI) (R, error)

// RejectedError carries an explicit rejection value. Rejected actions built
// from it put Value into the payload.
type RejectedError struct {
	Value any
}

func (e *RejectedError) Error() string {
	switch v := e.Value.(type) {
	case string:
		return v
	case error:
		return v.Error()
	case interface{ GetMessage() string }:
		return v.GetMessage()
	default:
		return fmt.Sprintf("rejected: %v", v)
	}
}

// RejectWithValue returns an error that rejects the thunk with value as payload.
func RejectWithValue(value any) error {
	return &RejectedError{Value: value}
}

// AsyncThunk produces the pending, fulfilled and rejected lifecycle for one
// asynchronous operation. Every invocation gets a fresh request id.
type AsyncThunk[A, R any] struct {
	typePrefix string
	create     PayloadCreator[A, R]
}

// NewAsyncThunk defines an async thunk under typePrefix, e.g. "auth/login".
func NewAsyncThunk[A, R any](typePrefix string, create PayloadCreator[A, R]) *AsyncThunk[A, R] {
	return &AsyncThunk[A, R]{typePrefix: typePrefix, create: create}
}

func (t *AsyncThunk[A, R]) TypePrefix() string { return t.typePrefix }
func (t *AsyncThunk[A, R]) Pending() string    { return t.typePrefix + "/" + StatusPending }
func (t *AsyncThunk[A, R]) Fulfilled() string  { return t.typePrefix + "/" + StatusFulfilled }
func (t *AsyncThunk[A, R]) Rejected() string   { return t.typePrefix + "/" + StatusRejected }

// Dispatch runs the thunk. Pending is dispatched before the payload creator
// starts; exactly one of fulfilled or rejected follows once it returns.
func (t *AsyncThunk[A, R]) Dispatch(ctx context.Context, d Dispatcher, arg A) (R, error) {
	id := d.NextRequestID()

	ctx, span := tracer.Start(ctx, t.typePrefix)
	span.SetAttributes(attribute.Int64("thunk.request_id", int64(id)))
	defer span.End()

	d.Dispatch(Action{
		Type: t.Pending(),
		Meta: &Meta{RequestID: id, Arg: arg, RequestStatus: StatusPending},
	})

	result, err := t.run(ctx, arg, ThunkAPI{Dispatch: d.Dispatch, RequestID: id})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		d.Dispatch(rejectedAction(t.Rejected(), id, arg, err))
		var zero R
		return zero, err
	}

	d.Dispatch(Action{
		Type:    t.Fulfilled(),
		Payload: result,
		Meta:    &Meta{RequestID: id, Arg: arg, RequestStatus: StatusFulfilled},
	})
	return result, nil
}

func (t *AsyncThunk[A, R]) run(ctx context.Context, arg A, api ThunkAPI) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic: %v", t.typePrefix, r)
		}
	}()
	return t.create(ctx, arg, api)
}

func rejectedAction(actionType string, id uint64, arg any, err error) Action {
	a := Action{
		Type:  actionType,
		Meta:  &Meta{RequestID: id, Arg: arg, RequestStatus: StatusRejected},
		Error: &SerializedError{Message: err.Error()},
	}
	var rv *RejectedError
	if errors.As(err, &rv) {
		a.Payload = rv.Value
		a.Meta.RejectedWithValue = true
		a.Error.Message = "Rejected"
	}
	return a
}

// RejectionMessage extracts the human-readable reason from a rejected action,
// preferring the explicit payload over the serialized error.
func RejectionMessage(a Action) string {
	if msg := payloadMessage(a.Payload); msg != "" {
		return msg
	}
	return a.ErrorMessage()
}

func payloadMessage(p any) string {
	switch v := p.(type) {
	case nil:
		return ""
	case interface{ GetMessage() string }:
		return v.GetMessage()
	case map[string]any:
		if m, ok := v["message"].(string); ok {
			return m
		}
	case string:
		return v
	case error:
		return v.Error()
	}
	return ""
}
