// Package httpclient builds the HTTP client shared by both provider
// clients and executes requests with the CLI's transport error rules.
//
// The client layers three concerns over http.DefaultTransport:
//   - TLS verification against an optional pinned CA bundle
//   - Request pacing with golang.org/x/time/rate
//   - Debug logging of every exchange through zap
package httpclient

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/shinji-kodama/turknet-query/internal/model"
)

// maxBodyBytes caps how much of a response body is read. Provider
// answers are a few kilobytes; anything larger is not a real answer.
const maxBodyBytes = 4 << 20

// Options configures New.
type Options struct {
	// Timeout bounds a whole exchange. Zero keeps the transport defaults.
	Timeout time.Duration

	// CABundle is a PEM file of trusted roots. Empty uses the system pool.
	CABundle string

	// RequestsPerSecond paces requests. Zero disables pacing.
	RequestsPerSecond float64

	// Logger receives one debug entry per exchange. Nil disables logging.
	Logger *zap.Logger
}

// New builds an *http.Client from opts.
func New(opts Options) (*http.Client, error) {
	base, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return nil, fmt.Errorf("default transport is %T, not *http.Transport", http.DefaultTransport)
	}
	transport := base.Clone()

	if opts.CABundle != "" {
		pool, err := LoadCABundle(opts.CABundle)
		if err != nil {
			return nil, err
		}
		transport.TLSClientConfig = &tls.Config{
			RootCAs:    pool,
			MinVersion: tls.VersionTLS12,
		}
	}

	var rt http.RoundTripper = transport
	if opts.RequestsPerSecond > 0 {
		// Burst of one: requests are strictly sequential anyway, pacing
		// only spaces them out.
		rt = &pacedTransport{next: rt, limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)}
	}
	if opts.Logger != nil {
		rt = &loggingTransport{next: rt, logger: opts.Logger}
	}

	return &http.Client{Transport: rt, Timeout: opts.Timeout}, nil
}

// LoadCABundle reads a PEM file into a certificate pool.
func LoadCABundle(path string) (*x509.CertPool, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA bundle: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("CA bundle %s contains no PEM certificates", path)
	}
	return pool, nil
}

// pacedTransport waits for a rate limiter token before each request.
type pacedTransport struct {
	next    http.RoundTripper
	limiter *rate.Limiter
}

func (t *pacedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.next.RoundTrip(req)
}

// loggingTransport logs each exchange at debug level. Headers are not
// logged because the session token travels in one.
type loggingTransport struct {
	next   http.RoundTripper
	logger *zap.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("url", req.URL.Redacted()),
		zap.Duration("elapsed", time.Since(start)),
	}
	if err != nil {
		t.logger.Debug("request failed", append(fields, zap.Error(err))...)
		return nil, err
	}
	t.logger.Debug("request completed", append(fields, zap.Int("status", resp.StatusCode))...)
	return resp, nil
}

// Do executes req and returns the response body. Connection failures,
// non-2xx statuses and unreadable bodies are all reported as
// *model.TransportError tagged with op.
func Do(client *http.Client, req *http.Request, op string) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, &model.TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little of the body so the connection can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 4096)
		return nil, &model.TransportError{Op: op, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &model.TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("reading response: %w", err)}
	}
	return body, nil
}
