// Package socketio shares one connected socket.io client per server URL and
// namespace between components.
package socketio

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	platformerrors "github.com/jmgilman/go/errors"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/vk/sharegrid/internal/shared"
)

// DefaultTimeout bounds the wait for the initial connection.
const DefaultTimeout = 15 * time.Second

// DialOptions describes the connection a component wants.
type DialOptions struct {
	URL                string
	Namespace          string
	InsecureSkipVerify bool
	Timeout            time.Duration
}

// Conn is the shared value: a connected client socket.
type Conn struct {
	*socket.Socket
	url string
}

// Dispose disconnects the socket once the last consumer is gone.
func (c *Conn) Dispose() error {
	slog.Debug("Disconnecting socket.io client.", "url", c.url, "sid", c.Id())
	c.Disconnect()
	return nil
}

// Tag returns the tag a connection to url and namespace is shared under.
func Tag(rawURL, namespace string) string {
	if namespace == "" {
		namespace = "/"
	}
	return "socketio:" + rawURL + namespace
}

// Acquire returns the connection shared under Tag(opts.URL, opts.Namespace),
// dialing it if no consumer has connected yet.
func Acquire(ctx context.Context, h *shared.Handle, opts DialOptions) (*Conn, error) {
	return shared.GetOrCreate(h, Tag(opts.URL, opts.Namespace), func() (*Conn, error) {
		return Dial(ctx, opts)
	})
}

func parseServerURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, platformerrors.Wrapf(err, platformerrors.CodeInvalidInput, "invalid socket.io url %q", raw)
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return nil, platformerrors.Newf(platformerrors.CodeInvalidInput, "socket.io url %q must use http, https, ws or wss", raw)
	}
	if u.Host == "" {
		return nil, platformerrors.Newf(platformerrors.CodeInvalidInput, "socket.io url %q has no host", raw)
	}
	return u, nil
}

// Dial connects to the server and waits for the connect event.
func Dial(ctx context.Context, opts DialOptions) (*Conn, error) {
	u, err := parseServerURL(opts.URL)
	if err != nil {
		return nil, err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	namespace := opts.Namespace
	if namespace == "" {
		namespace = "/"
	}
	logger := slog.With("url", opts.URL, "namespace", namespace)

	sockOpts := socket.DefaultOptions()
	// An unset path keeps the client's /socket.io default.
	if u.Path != "" && u.Path != "/" {
		sockOpts.SetPath(u.Path)
	}
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification.")
		sockOpts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sockOpts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(fmt.Sprintf("%s://%s", u.Scheme, u.Host), sockOpts)
	io := manager.Socket(namespace, sockOpts)

	connected := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		connected <- nil
	})
	io.Once(types.EventName("connect_error"), func(args ...any) {
		connected <- connectError(args)
	})

	logger.Debug("Connecting socket.io client.")
	io.Connect()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-connected:
		if err != nil {
			io.Disconnect()
			return nil, platformerrors.Wrapf(err, platformerrors.CodeNetwork, "socket.io connection to %s failed", opts.URL)
		}
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("waiting for socket.io connection: %w", ctx.Err())
	case <-timer.C:
		io.Disconnect()
		return nil, platformerrors.Newf(platformerrors.CodeTimeout, "timed out after %s waiting for socket.io connection to %s", timeout, opts.URL)
	}

	logger.Info("Socket.io client connected.", "sid", io.Id())
	return &Conn{Socket: io, url: opts.URL}, nil
}

// connectError turns the arguments of a connect_error event into an error.
func connectError(args []any) error {
	if len(args) == 0 {
		return errors.New("connect_error without details")
	}
	if err, ok := args[0].(error); ok && err != nil {
		return err
	}
	return fmt.Errorf("%v", args[0])
}
