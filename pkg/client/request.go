package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// maxErrorBody caps how much of a failed response body is kept.
const maxErrorBody = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

// Query holds request query parameters. Values may be scalars or slices of
// scalars. nil values, nil pointers and empty strings are dropped; slices
// emit the key once per element.
type Query map[string]any

// Encode returns the URL-encoded query string, keys in sorted order.
func (q Query) Encode() string {
	if len(q) == 0 {
		return ""
	}
	vals := url.Values{}
	for key, v := range q {
		for _, s := range queryValues(v) {
			vals.Add(key, s)
		}
	}
	return vals.Encode()
}

func queryValues(v any) []string {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if s, ok := formatSpecial(rv); ok {
		if s == "" {
			return nil
		}
		return []string{s}
	}
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			if s, ok := formatScalar(rv.Index(i)); ok {
				out = append(out, s)
			}
		}
		return out
	}
	if s, ok := formatScalar(rv); ok {
		return []string{s}
	}
	return nil
}

// formatSpecial handles values whose kind would mislead formatScalar, such
// as uuid.UUID (an array) and time.Time (a struct).
func formatSpecial(rv reflect.Value) (string, bool) {
	if !rv.IsValid() || !rv.CanInterface() {
		return "", false
	}
	switch x := rv.Interface().(type) {
	case time.Time:
		if x.IsZero() {
			return "", true
		}
		return x.Format(time.RFC3339), true
	case fmt.Stringer:
		return x.String(), true
	}
	return "", false
}

func formatScalar(rv reflect.Value) (string, bool) {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
	}
	if s, ok := formatSpecial(rv); ok {
		return s, s != ""
	}
	switch rv.Kind() {
	case reflect.String:
		s := rv.String()
		return s, s != ""
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), true
	}
	return "", false
}

// buildURL joins the base URL and path with exactly one slash and appends
// the encoded query.
func (c *Client) buildURL(path string, q Query) string {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}

func (c *Client) get(ctx context.Context, path string, q Query, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, q, nil, out, nil)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, nil, body, out, nil)
}

func (c *Client) patch(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPatch, path, nil, body, out, nil)
}

func (c *Client) put(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPut, path, nil, body, out, nil)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.doRequest(ctx, http.MethodDelete, path, nil, nil, nil, nil)
}

// Do issues a single request. A 204 response or a nil out leaves out
// untouched; any other 2xx body is decoded into out and validated against
// its `validate` tags. Non-2xx responses return *HTTPError.
func (c *Client) Do(ctx context.Context, method, path string, q Query, body, out any, header http.Header) error {
	return c.doRequest(ctx, method, path, q, body, out, header)
}

func (c *Client) doRequest(ctx context.Context, method, path string, q Query, body, out any, header http.Header) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path, q), reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	mergeHeader(req.Header, c.header)
	mergeHeader(req.Header, header)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("method", method).Str("path", path).Msg("api request failed")
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("api request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newHTTPError(resp)
	}
	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &DecodeError{Method: method, Path: path, Err: err}
	}
	if err := validateResponse(out); err != nil {
		return &DecodeError{Method: method, Path: path, Err: err}
	}
	return nil
}

// mergeHeader copies src into dst, replacing existing values per key.
func mergeHeader(dst, src http.Header) {
	for key, vals := range src {
		dst.Del(key)
		for _, v := range vals {
			dst.Add(key, v)
		}
	}
}

func newHTTPError(resp *http.Response) *HTTPError {
	httpErr := &HTTPError{
		StatusCode: resp.StatusCode,
		Status:     statusText(resp),
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return httpErr
	}
	httpErr.Body = strings.TrimSpace(string(data))

	var apiErr struct {
		Error  string `json:"error"`
		Detail any    `json:"detail"`
	}
	if json.Unmarshal(data, &apiErr) == nil {
		if apiErr.Error != "" {
			httpErr.Message = apiErr.Error
		} else if detail, ok := apiErr.Detail.(string); ok {
			httpErr.Message = detail
		}
	}
	return httpErr
}

func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

// validateResponse checks a decoded struct, or each struct in a decoded
// slice, against its validate tags.
func validateResponse(out any) error {
	rv := reflect.ValueOf(out)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Struct:
		return validate.Struct(rv.Interface())
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := validateResponse(rv.Index(i).Interface()); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}
	}
	return nil
}
