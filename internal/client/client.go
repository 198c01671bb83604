// Package client implements the caller side of the billing protocol:
// one connection, one request, one response.
package client

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/gyeh/medibill/internal/billing"
	"github.com/gyeh/medibill/internal/wire"
)

const defaultTimeout = 30 * time.Second

// Client submits billing requests to a server address.
type Client struct {
	Addr    string
	Timeout time.Duration // total I/O budget per exchange; zero selects the default
}

// Submit dials the server, consumes the greeting, sends one request, and
// decodes the single response line. Server-side rejections come back as
// *wire.ServerError; transport and framing faults as other errors.
func (c *Client) Submit(ctx context.Context, req wire.Request) (billing.Breakdown, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", c.Addr)
	if err != nil {
		return billing.Breakdown{}, fmt.Errorf("connect to billing server at %s: %w", c.Addr, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return billing.Breakdown{}, fmt.Errorf("set deadline: %w", err)
	}

	r := bufio.NewReader(conn)
	greeting, err := r.ReadString('\n')
	if err != nil {
		return billing.Breakdown{}, fmt.Errorf("read greeting: %w", err)
	}
	if !strings.HasPrefix(greeting, "CONNECTED:") {
		return billing.Breakdown{}, fmt.Errorf("unexpected greeting %q", strings.TrimSpace(greeting))
	}

	if _, err := fmt.Fprintf(conn, "%s\n", wire.EncodeRequest(req)); err != nil {
		return billing.Breakdown{}, fmt.Errorf("send request: %w", err)
	}

	line, err := r.ReadString('\n')
	if err != nil {
		return billing.Breakdown{}, fmt.Errorf("read response: %w", err)
	}
	return wire.DecodeResponse(strings.TrimRight(line, "\r\n"))
}
