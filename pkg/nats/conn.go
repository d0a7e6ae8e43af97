package nats

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// ConnOptions configures a NATS connection.
type ConnOptions struct {
	URL           string
	Name          string
	Token         string
	MaxReconnects int
	ReconnectWait time.Duration

	OnDisconnect func(err error)
	OnReconnect  func()
}

// Connect dials NATS. The connection retries in the background when the
// server is not reachable yet.
func Connect(opts ConnOptions) (*nats.Conn, error) {
	if opts.MaxReconnects == 0 {
		opts.MaxReconnects = 5
	}
	if opts.ReconnectWait <= 0 {
		opts.ReconnectWait = time.Second
	}

	natsOpts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(opts.MaxReconnects),
		nats.ReconnectWait(opts.ReconnectWait),
	}
	if opts.Name != "" {
		natsOpts = append(natsOpts, nats.Name(opts.Name))
	}
	if opts.Token != "" {
		natsOpts = append(natsOpts, nats.Token(opts.Token))
	}
	if opts.OnDisconnect != nil {
		natsOpts = append(natsOpts, nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			opts.OnDisconnect(err)
		}))
	}
	if opts.OnReconnect != nil {
		natsOpts = append(natsOpts, nats.ReconnectHandler(func(_ *nats.Conn) {
			opts.OnReconnect()
		}))
	}

	nc, err := nats.Connect(opts.URL, natsOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return nc, nil
}
