package turknet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/shinji-kodama/turknet-query/internal/httpclient"
	"github.com/shinji-kodama/turknet-query/internal/model"
)

// ProviderName tags service errors raised by this package.
const ProviderName = "turknet"

// requestMethod is the HTTP method every endpoint of the service expects.
const requestMethod = http.MethodPut

// Options configures a Client. Zero values fall back to sensible defaults
// except BaseURL, which is required.
type Options struct {
	// HTTPClient performs the exchanges. Defaults to http.DefaultClient.
	HTTPClient *http.Client

	// BaseURL is the service root, e.g. https://turk.net/service/AddressServ.svc.
	BaseURL string

	// UserAgent, Referer and Origin are sent with every request so the
	// calls look like they come from the provider's own web form.
	UserAgent string
	Referer   string
	Origin    string

	// Session holds the token. A new one is created when nil.
	Session *Session

	// Logger receives debug entries. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Client talks to the Türk.net service. A Client is meant for the single
// sequential flow of one CLI run and is not safe for concurrent use.
type Client struct {
	http      *http.Client
	baseURL   string
	userAgent string
	referer   string
	origin    string
	session   *Session
	logger    *zap.Logger
}

// NewClient creates a Client from opts.
func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("turknet: base URL must not be empty")
	}

	c := &Client{
		http:      opts.HTTPClient,
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		userAgent: opts.UserAgent,
		referer:   opts.Referer,
		origin:    opts.Origin,
		session:   opts.Session,
		logger:    opts.Logger,
	}
	if c.http == nil {
		c.http = http.DefaultClient
	}
	if c.session == nil {
		c.session = NewSession()
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	c.logger = c.logger.With(zap.String("provider", ProviderName), zap.String("session", c.session.ID()))

	return c, nil
}

// Session returns the session the client stores its token in.
func (c *Client) Session() *Session {
	return c.session
}

// serviceResult is the status part of the service envelope.
type serviceResult struct {
	Code        int    `json:"Code"`
	Message     string `json:"Message"`
	Description string `json:"Description"`
	ResultType  int    `json:"ResultType"`
}

// envelope is decoded first from every response to check the status.
type envelope struct {
	ServiceResult *serviceResult `json:"ServiceResult"`
}

// call sends payload to the named operation and decodes the answer into
// out after checking the envelope. The token header is attached whenever
// the session holds a token.
func (c *Client) call(ctx context.Context, op string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: encoding request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, requestMethod, c.baseURL+"/"+op, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: building request: %w", op, err)
	}
	c.setHeaders(req)

	c.logger.Debug("calling service", zap.String("op", op), zap.ByteString("body", body))

	respBody, err := httpclient.Do(c.http, req, op)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return &model.TransportError{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
	}
	if env.ServiceResult == nil {
		return &model.TransportError{Op: op, Err: fmt.Errorf("response has no ServiceResult")}
	}
	if env.ServiceResult.Code != 0 {
		c.logger.Debug("service reported an error",
			zap.String("op", op),
			zap.Int("code", env.ServiceResult.Code),
			zap.String("message", env.ServiceResult.Message))
		return &model.ServiceError{
			Provider: ProviderName,
			Code:     env.ServiceResult.Code,
			Message:  env.ServiceResult.Message,
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &model.TransportError{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.referer != "" {
		req.Header.Set("Referer", c.referer)
	}
	if c.origin != "" {
		req.Header.Set("Origin", c.origin)
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set(TokenHeader, token)
	}
}
