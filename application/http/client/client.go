// Package client sends one HTTP/1.1 request per connection and reads the
// response until the server closes the connection.
package client

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"rawhttp/application/http"
	"rawhttp/application/http/status"
	iolib "rawhttp/lib/io"
	"rawhttp/transport"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
)

// Client carries configuration only. Every exchange dials its own connection
// and closes it before returning, so a Client can be shared between goroutines.
type Client struct {
	opts Options

	logger *slog.Logger
	clock  clock.Clock

	connDialer transport.ConnDialer
}

func New(
	d transport.ConnDialer,
	logger *slog.Logger,
	clock clock.Clock,
	opts Options,
) *Client {
	if opts.Receive.ReadBufferSize == 0 {
		opts.Receive.ReadBufferSize = DefaultReadBufferSize
	}

	return &Client{
		connDialer: d,
		logger:     logger,
		clock:      clock,
		opts:       opts,
	}
}

// Response is the outcome of one exchange.
// It is never modified after it is returned.
type Response struct {
	http.Response

	// Cause is nil for a response that came from the server.
	// Otherwise it is the failure the response stands in for.
	Cause error
}

func newSyntheticResponse(st status.Status, body string, cause error) *Response {
	return &Response{
		Response: http.Response{
			StatusCode:   st.Code,
			ReasonPhrase: st.ReasonPhrase,
			Headers:      http.NewHeaders(),
			Body:         body,
		},
		Cause: cause,
	}
}

func (r *Response) String() string {
	b := new(strings.Builder)

	reason := r.ReasonPhrase
	if reason == "" {
		reason = status.Text(r.StatusCode)
	}
	fmt.Fprintf(b, "%d %s\n", r.StatusCode, reason)

	for _, f := range r.Headers.Fields() {
		fmt.Fprintf(b, "%s: %s\n", f.Name, f.Value)
	}
	b.WriteString("\n")
	b.WriteString(r.Body)

	return b.String()
}

// Get fetches rawURL.
// Only a malformed URL is returned as an error; any later failure becomes
// a 500 response carrying the failure in [Response.Cause].
func (c *Client) Get(ctx context.Context, rawURL string) (*Response, error) {
	target, err := ResolveTarget(rawURL)
	if err != nil {
		return nil, err
	}

	request, err := c.BuildGetRequest(target)
	if err != nil {
		return nil, err
	}

	return c.settle(c.Execute(ctx, MethodGet, target, request))
}

// Post sends form to rawURL. Errors are handled as in [Client.Get].
func (c *Client) Post(ctx context.Context, rawURL string, form http.Form) (*Response, error) {
	target, err := ResolveTarget(rawURL)
	if err != nil {
		return nil, err
	}

	request, err := c.BuildPostRequest(target, form)
	if err != nil {
		return nil, err
	}

	return c.settle(c.Execute(ctx, MethodPost, target, request))
}

// Command sends a POST when method is "POST" and a GET for anything else.
// form is ignored by GET.
func (c *Client) Command(ctx context.Context, method, rawURL string, form http.Form) (*Response, error) {
	if method == MethodPost {
		return c.Post(ctx, rawURL, form)
	}
	return c.Get(ctx, rawURL)
}

// settle turns a failed exchange into a 500 response.
func (c *Client) settle(res *Response, err error) (*Response, error) {
	if err == nil {
		return res, nil
	}

	kind, _ := KindOf(err)
	c.logger.Error("exchange failed", "kind", kind, "error", err)

	return newSyntheticResponse(status.InternalServerError, status.InternalServerError.ReasonPhrase, err), nil
}

// Execute dials target, writes request in full and reads until the server closes the connection.
//
// An empty response stream is answered with a 404 response and no error.
// Every failure is an [*Error]. The connection is closed before Execute returns.
func (c *Client) Execute(ctx context.Context, method string, target Target, request []byte) (*Response, error) {
	ex := &exchange{
		addr:   target.Addr(),
		logger: c.logger.With("method", method, "addr", target.Addr().String()),
		notify: c.opts.OnStateChange,
	}
	ex.enter(StateIdle)

	res, err := c.execute(ctx, ex, request)
	if err != nil {
		ex.enter(StateClosedFailure)
		return nil, err
	}

	ex.enter(StateClosedSuccess)
	return res, nil
}

func (c *Client) execute(ctx context.Context, ex *exchange, request []byte) (*Response, error) {
	ex.enter(StateConnecting)
	conn, err := c.connDialer.Dial(ctx, ex.addr)
	if err != nil {
		return nil, newError(KindConnection, errors.Wrapf(err, "connecting to %s", ex.addr))
	}
	ex.enter(StateConnected)

	defer func() {
		if cerr := conn.Close(); cerr != nil {
			ex.logger.Debug("error when closing connection", "error", cerr)
		}
	}()

	if d := c.opts.Timeout.ReadTimeout; d > 0 {
		deadline := c.clock.Now().Add(d)
		conn.SetWriteDeadLine(deadline)
		conn.SetReadDeadLine(deadline)
	}

	ex.enter(StateSending)
	n, err := iolib.WriteFull(conn, request)
	if err != nil {
		return nil, classifyIOErr(err, "writing request")
	}
	ex.logger.Debug("request sent", "bytes", n)

	ex.enter(StateReceiving)
	raw, err := iolib.ReadUntilEOF(conn, c.opts.Receive.ReadBufferSize, c.opts.Receive.MaxResponseBytes)
	if err != nil {
		if errors.Is(err, iolib.ErrReadLimitExceeded) {
			return nil, newError(KindProtocolParse, errors.Wrapf(err, "response is longer than %d bytes", c.opts.Receive.MaxResponseBytes))
		}
		return nil, classifyIOErr(err, "reading response")
	}
	ex.logger.Debug("response received", "bytes", len(raw))

	if len(raw) == 0 {
		// The server hung up without a word.
		return newSyntheticResponse(status.NotFound, "", nil), nil
	}

	parsed, err := http.ParseResponse(raw)
	if err != nil {
		return nil, newError(KindProtocolParse, errors.Wrap(err, "parsing response"))
	}

	return &Response{Response: parsed}, nil
}

func classifyIOErr(err error, doing string) error {
	if errors.Is(err, transport.ErrDeadLineExceeded) {
		return newError(KindTimeout, errors.Wrap(err, doing))
	}
	return newError(KindConnection, errors.Wrap(err, doing))
}

// exchange tracks the state of one Execute call.
type exchange struct {
	addr   transport.Addr
	state  State
	logger *slog.Logger
	notify func(State)
}

func (ex *exchange) enter(s State) {
	if s < ex.state || ex.state.Closed() {
		panic(fmt.Sprintf("exchange can't go from %s to %s", ex.state, s))
	}
	ex.state = s

	ex.logger.Debug("exchange state changed", "state", s)
	if ex.notify != nil {
		ex.notify(s)
	}
}
