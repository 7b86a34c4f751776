// Package goknet queries the Göknet infrastructure lookup, a second
// provider that exposes the incumbent's raw line records per technology.
//
// Unlike the Türk.net service it needs no token and accepts only
// apartment BBK codes. Its answer has one section per technology keyed by
// the incumbent's numeric technology id; each section is normalized with
// the rule table in the normalize package.
package goknet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/shinji-kodama/turknet-query/internal/httpclient"
	"github.com/shinji-kodama/turknet-query/internal/model"
	"github.com/shinji-kodama/turknet-query/internal/normalize"
)

// ProviderName tags log entries raised by this package.
const ProviderName = "goknet"

const opCheckAddress = "checkAddress"

// Section keys of the answer.
const (
	sectionADSL = "1"
	sectionVDSL = "6"
	sectionFTTH = "7"
)

// Options configures a Client.
type Options struct {
	HTTPClient *http.Client

	// BaseURL is the full lookup endpoint, query string excluded.
	BaseURL string

	UserAgent string
	Referer   string

	Logger *zap.Logger
}

// Client talks to the Göknet lookup endpoint.
type Client struct {
	http      *http.Client
	baseURL   string
	userAgent string
	referer   string
	logger    *zap.Logger
}

// NewClient creates a Client from opts.
func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("goknet: base URL must not be empty")
	}
	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("goknet: invalid base URL: %w", err)
	}

	c := &Client{
		http:      opts.HTTPClient,
		baseURL:   opts.BaseURL,
		userAgent: opts.UserAgent,
		referer:   opts.Referer,
		logger:    opts.Logger,
	}
	if c.http == nil {
		c.http = http.DefaultClient
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	c.logger = c.logger.With(zap.String("provider", ProviderName))
	return c, nil
}

// scalar decodes a JSON string, number, boolean or null into a string.
// The endpoint is loose about types: error codes arrive as "100" or 100,
// and values are occasionally null.
type scalar string

func (s *scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = normalize.NotAvailable
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = scalar(str)
		return nil
	}
	if len(data) > 0 && (data[0] == '{' || data[0] == '[') {
		return fmt.Errorf("expected a scalar, got %s", string(data))
	}
	*s = scalar(data)
	return nil
}

type rawItem struct {
	Name  string `json:"name"`
	Value scalar `json:"value"`
}

type rawSection struct {
	ErrorCode    scalar `json:"hataKod"`
	ErrorMessage scalar `json:"hataMesaj"`
	FlexList     struct {
		Items []rawItem `json:"flexList"`
	} `json:"flexList"`
}

// Query looks up the line records of an apartment. queryType must be
// "BBK" (any case) and value all digits; both are checked before any
// network call.
func (c *Client) Query(ctx context.Context, queryType string, value string) (*model.LineResult, error) {
	qt, err := model.ParseQueryType(queryType)
	if err != nil {
		return nil, err
	}
	if qt != model.QueryBBK {
		return nil, model.NewValidationError("query type %s is not supported by %s (valid: BBK)", qt, ProviderName)
	}
	if !model.IsNumeric(value) {
		return nil, model.NewValidationError("query value %q must contain only digits", value)
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("goknet: invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("kod", value)
	q.Set("datatype", opCheckAddress)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: building request: %w", opCheckAddress, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.referer != "" {
		req.Header.Set("Referer", c.referer)
	}

	body, err := httpclient.Do(c.http, req, opCheckAddress)
	if err != nil {
		return nil, err
	}

	sections, err := decodeSections(body)
	if err != nil {
		return nil, &model.TransportError{Op: opCheckAddress, Err: fmt.Errorf("decoding response: %w", err)}
	}

	result := &model.LineResult{
		ADSL: lineRecord(sections, sectionADSL),
		VDSL: lineRecord(sections, sectionVDSL),
		FTTH: lineRecord(sections, sectionFTTH),
	}

	c.logger.Debug("line records received",
		zap.String("bbk", value),
		zap.String("adsl", result.ADSL.ErrorCode),
		zap.String("vdsl", result.VDSL.ErrorCode),
		zap.String("ftth", result.FTTH.ErrorCode))

	return result, nil
}

// QueryBBK looks up the line records of an apartment BBK code.
func (c *Client) QueryBBK(ctx context.Context, bbk model.Code) (*model.LineResult, error) {
	return c.Query(ctx, model.QueryBBK.String(), bbk.String())
}

// decodeSections decodes the technology sections of an answer. Keys other
// than the known section ids are ignored.
func decodeSections(body []byte) (map[string]rawSection, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, err
	}

	sections := make(map[string]rawSection, 3)
	for _, key := range []string{sectionADSL, sectionVDSL, sectionFTTH} {
		raw, ok := top[key]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}
		var sec rawSection
		if err := json.Unmarshal(raw, &sec); err != nil {
			return nil, fmt.Errorf("section %s: %w", key, err)
		}
		sections[key] = sec
	}
	return sections, nil
}

// lineRecord normalizes one section. A missing section becomes an empty
// record with an empty error code.
func lineRecord(sections map[string]rawSection, key string) model.LineRecord {
	sec, ok := sections[key]
	if !ok {
		return normalize.Line("", "", nil)
	}

	raw := make([]normalize.RawField, 0, len(sec.FlexList.Items))
	for _, item := range sec.FlexList.Items {
		raw = append(raw, normalize.RawField{Name: item.Name, Value: string(item.Value)})
	}
	code := strings.TrimSpace(string(sec.ErrorCode))
	message := string(sec.ErrorMessage)
	if message == normalize.NotAvailable {
		message = ""
	}
	return normalize.Line(code, message, raw)
}
