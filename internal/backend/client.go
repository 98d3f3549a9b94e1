package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"siren/pkg/logging"
)

// defaultMessage substitutes for backend responses without a message
// field.
const defaultMessage = "No message provided"

// Client issues calls to the alerting backend. It holds exactly one active
// bearer credential at a time; one instance is expected per
// caller/connection.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// NewClient creates a backend client for the given base URL. The timeout
// applies per call; zero keeps the transport default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SetToken replaces the bearer credential used for subsequent calls. It
// must be called before any call that requires authorization.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Do performs a backend call and normalizes the result. The configured
// bearer credential is merged into the headers; an explicit Authorization
// value in headers wins over the configured one. Transport failures are
// propagated unchanged, with no retry.
func (c *Client) Do(ctx context.Context, method, path string, body any, query url.Values, headers http.Header) (*Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(method), u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for key, values := range headers {
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// No response was received; surface the transport error as-is.
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, c.mapError(resp.StatusCode, respBody)
	}

	var env envelope
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &env); err != nil {
			return nil, fmt.Errorf("failed to parse response body: %w", err)
		}
	}

	normalized := &Response{
		Status:  true,
		Message: defaultMessage,
		Data:    env.Data,
	}
	if env.Status != nil {
		normalized.Status = *env.Status
	}
	if env.Message != nil {
		normalized.Message = *env.Message
	}

	logging.Debug("Backend", "%s %s -> %d", req.Method, path, resp.StatusCode)
	return normalized, nil
}

// mapError converts a backend error response into the typed taxonomy.
func (c *Client) mapError(status int, body []byte) error {
	var env errorEnvelope
	// A body that isn't JSON still maps below via the defaults.
	_ = json.Unmarshal(body, &env)

	if status == http.StatusUnprocessableEntity {
		return &ValidationError{
			Message:    validationDetail(env),
			StatusCode: status,
		}
	}

	message := "API request failed"
	code := ""
	if env.Fault != nil {
		if env.Fault.Faultstring != "" {
			message = env.Fault.Faultstring
		}
		if len(env.Fault.Detail) > 0 {
			var detail faultDetail
			if err := json.Unmarshal(env.Fault.Detail, &detail); err == nil {
				code = detail.Errorcode
			}
		}
	}

	return &APIError{
		Message:    message,
		Code:       code,
		StatusCode: status,
	}
}

// validationDetail extracts the validation message from a 422 response.
// Precedence: field-level errors, the fault detail, then the generic
// message. Structured detail is stringified as compact JSON.
func validationDetail(env errorEnvelope) string {
	if detail := stringifyDetail(env.Errors); detail != "" {
		return detail
	}
	if env.Fault != nil {
		if detail := stringifyDetail(env.Fault.Detail); detail != "" {
			return detail
		}
	}
	if env.Message != "" {
		return env.Message
	}
	return "Validation failed"
}

// stringifyDetail renders raw JSON detail as a string. JSON strings lose
// their quotes; null and absent values yield "".
func stringifyDetail(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	compact := &bytes.Buffer{}
	if err := json.Compact(compact, raw); err != nil {
		return string(raw)
	}
	return compact.String()
}

// SearchChannels queries the backend's channel list. The returned slice
// preserves the backend's element order.
func (c *Client) SearchChannels(ctx context.Context, query ChannelQuery) ([]Channel, error) {
	q := url.Values{}
	if query.Name != "" {
		q.Set("name", query.Name)
	}

	resp, err := c.Do(ctx, http.MethodGet, "/organization/channels", nil, q, nil)
	if err != nil {
		return nil, err
	}

	var channels []Channel
	if len(resp.Data) > 0 {
		if err := json.Unmarshal(resp.Data, &channels); err != nil {
			return nil, fmt.Errorf("failed to parse channel list: %w", err)
		}
	}
	return channels, nil
}

// SendMessage submits a message for broadcast. headers may carry extra
// per-call headers and is usually nil.
func (c *Client) SendMessage(ctx context.Context, msg Message, headers http.Header) ([]Message, error) {
	resp, err := c.Do(ctx, http.MethodPost, "/send-message", msg, nil, headers)
	if err != nil {
		return nil, err
	}

	var sent []Message
	if len(resp.Data) > 0 {
		if err := json.Unmarshal(resp.Data, &sent); err != nil {
			return nil, fmt.Errorf("failed to parse send result: %w", err)
		}
	}
	return sent, nil
}
