package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/fatih/color"
)

// DevToolsTopic is the topic dispatched actions are published on.
const DevToolsTopic = "store.devtools.actions"

// DevToolsOptions configures the action feed.
type DevToolsOptions struct {
	Name  string
	Trace bool
}

// DevToolsRecord is one published action.
type DevToolsRecord struct {
	Store    string          `json:"store"`
	Seq      uint64          `json:"seq"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload,omitempty"`
	Error    string          `json:"error,omitempty"`
	Duration time.Duration   `json:"duration"`
	Trace    string          `json:"trace,omitempty"`
	At       time.Time       `json:"at"`
}

// DevTools publishes every dispatched action onto an in-process pub/sub so
// inspectors can follow the action stream.
type DevTools struct {
	opts   DevToolsOptions
	pubSub *gochannel.GoChannel
	seq    atomic.Uint64
	logger Logger
}

// NewDevTools creates the action feed.
func NewDevTools(opts DevToolsOptions, log Logger) *DevTools {
	if log == nil {
		log = nopLogger{}
	}
	return &DevTools{
		opts:   opts,
		pubSub: gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 256}, watermill.NopLogger{}),
		logger: log,
	}
}

// Enhancer wraps dispatch so each action is published after it settles in
// the reducer.
func (d *DevTools) Enhancer() Enhancer {
	return func(next Dispatch) Dispatch {
		return func(a Action) Action {
			started := time.Now()
			result := next(a)
			d.publish(result, time.Since(started))
			return result
		}
	}
}

func (d *DevTools) publish(a Action, took time.Duration) {
	rec := DevToolsRecord{
		Store:    d.opts.Name,
		Seq:      d.seq.Add(1),
		Type:     a.Type,
		Error:    a.ErrorMessage(),
		Duration: took,
		At:       time.Now(),
	}
	if a.Payload != nil {
		if raw, err := json.Marshal(a.Payload); err == nil {
			rec.Payload = raw
		} else {
			rec.Payload, _ = json.Marshal(fmt.Sprintf("%v", a.Payload))
		}
	}
	if d.opts.Trace {
		rec.Trace = string(debug.Stack())
	}

	body, err := json.Marshal(rec)
	if err != nil {
		d.logger.Warn("DevTools", "Failed to encode record", map[string]interface{}{"type": a.Type, "error": err.Error()})
		return
	}
	if err := d.pubSub.Publish(DevToolsTopic, message.NewMessage(watermill.NewUUID(), body)); err != nil {
		d.logger.Warn("DevTools", "Failed to publish record", map[string]interface{}{"type": a.Type, "error": err.Error()})
	}
}

// Subscribe returns the stream of published records.
func (d *DevTools) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	return d.pubSub.Subscribe(ctx, DevToolsTopic)
}

// Print writes every record from msgs to w until msgs closes.
func (d *DevTools) Print(msgs <-chan *message.Message, w io.Writer) {
	typeColor := color.New(color.FgCyan, color.Bold)
	errColor := color.New(color.FgRed)
	dim := color.New(color.Faint)

	for msg := range msgs {
		var rec DevToolsRecord
		if err := json.Unmarshal(msg.Payload, &rec); err != nil {
			msg.Ack()
			continue
		}

		typeColor.Fprintf(w, "[%s #%d] %s", rec.Store, rec.Seq, rec.Type)
		dim.Fprintf(w, " (%s)\n", rec.Duration)
		if len(rec.Payload) > 0 {
			fmt.Fprintf(w, "  payload: %s\n", rec.Payload)
		}
		if rec.Error != "" {
			errColor.Fprintf(w, "  error: %s\n", rec.Error)
		}
		if rec.Trace != "" {
			dim.Fprintln(w, rec.Trace)
		}
		msg.Ack()
	}
}

// Close shuts the feed down; subscribers' channels close.
func (d *DevTools) Close() error {
	return d.pubSub.Close()
}
