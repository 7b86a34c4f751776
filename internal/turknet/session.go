package turknet

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenHeader is the request header that carries the session token.
const TokenHeader = "Token"

// opGetToken is the token endpoint.
const opGetToken = "GetToken"

// Session holds the bearer token of one CLI run. The token is written
// once, on the first call that needs it, and read by every later call.
// There is no expiry handling: the provider does not advertise a
// lifetime, and a run lasts only as long as one interactive query.
type Session struct {
	id    string
	token string
}

// NewSession creates an empty session with a fresh correlation id.
// The id only appears in logs; it is never sent to the provider.
func NewSession() *Session {
	return &Session{id: uuid.NewString()}
}

// ID returns the session's correlation id.
func (s *Session) ID() string {
	return s.id
}

// Token returns the cached token, or "" before the first fetch.
func (s *Session) Token() string {
	return s.token
}

// HasToken reports whether a token has been fetched.
func (s *Session) HasToken() bool {
	return s.token != ""
}

type tokenResponse struct {
	Token string `json:"Token"`
}

// EnsureToken returns the session token, fetching it on first use.
// A cached token is returned without any network call. The token
// request itself is sent with an empty JSON object and no token header.
func (c *Client) EnsureToken(ctx context.Context) (string, error) {
	if c.session.HasToken() {
		return c.session.token, nil
	}

	var resp tokenResponse
	if err := c.call(ctx, opGetToken, struct{}{}, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("%s: service returned an empty token", opGetToken)
	}

	c.session.token = resp.Token
	c.logger.Debug("session token acquired", zap.String("op", opGetToken))
	return resp.Token, nil
}
