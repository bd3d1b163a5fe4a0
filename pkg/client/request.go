package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// apiRequest is a fluent builder for one API call. It is created through the
// Client verb helpers so auth and tenant headers are always attached.
type apiRequest struct {
	client      *http.Client
	method      string
	baseURL     string
	endpoint    string
	headers     map[string]string
	queryParams map[string]string
	json        any
	body        io.Reader
}

func newAPIRequest(client *http.Client, method, baseURL, endpoint string) *apiRequest {
	return &apiRequest{
		client:   client,
		method:   method,
		baseURL:  baseURL,
		endpoint: endpoint,
	}
}

func (r *apiRequest) Header(key, value string) *apiRequest {
	if value == "" {
		return r
	}
	if r.headers == nil {
		r.headers = make(map[string]string)
	}
	r.headers[key] = value
	return r
}

func (r *apiRequest) Auth(token string) *apiRequest {
	if token == "" {
		return r
	}
	return r.Header("Authorization", "Bearer "+token)
}

func (r *apiRequest) JSON(data any) *apiRequest {
	r.json = data
	return r
}

func (r *apiRequest) Param(key, value string) *apiRequest {
	if value == "" {
		return r
	}
	if r.queryParams == nil {
		r.queryParams = make(map[string]string)
	}
	r.queryParams[key] = value
	return r
}

// Process executes the request and hands the response body to the handler.
// Non-2xx responses become *APIError with the decoded payload attached.
func (r *apiRequest) Process(ctx context.Context, resultHandler func(io.Reader) error) error {
	fullEndpoint, err := url.JoinPath(r.baseURL, r.endpoint)
	if err != nil {
		return fmt.Errorf("client: format url for endpoint %v: %w", r.endpoint, err)
	}

	if r.json != nil {
		body := new(bytes.Buffer)
		if err := json.NewEncoder(body).Encode(r.json); err != nil {
			return fmt.Errorf("client: encode json body for endpoint %v: %w", r.endpoint, err)
		}
		r.body = body
	}

	req, err := http.NewRequestWithContext(ctx, r.method, fullEndpoint, r.body)
	if err != nil {
		return fmt.Errorf("client: create %v request for endpoint %v: %w", r.method, r.endpoint, err)
	}

	if r.json != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	if r.queryParams != nil {
		query := req.URL.Query()
		for k, v := range r.queryParams {
			query.Add(k, v)
		}
		req.URL.RawQuery = query.Encode()
	}

	start := time.Now()

	res, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("client: send %v request to endpoint %v: %w", r.method, r.endpoint, err)
	}
	defer res.Body.Close()

	slog.Debug("backoffice api call",
		"method", r.method,
		"endpoint", r.endpoint,
		"status", res.StatusCode,
		"duration", time.Since(start).String(),
	)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return newAPIError(r.method, r.endpoint, res)
	}

	if resultHandler != nil {
		if err := resultHandler(res.Body); err != nil {
			return fmt.Errorf("client: process %v response from endpoint %v: %w", r.method, r.endpoint, err)
		}
	}

	return nil
}

// Do executes the request and JSON-decodes the response into result. A nil
// result discards the body.
func (r *apiRequest) Do(ctx context.Context, result any) error {
	return r.Process(ctx, func(body io.Reader) error {
		if result == nil {
			return nil
		}
		if err := json.NewDecoder(body).Decode(result); err != nil {
			return fmt.Errorf("parse body: %w", err)
		}
		return nil
	})
}

// Raw executes the request and returns the raw response bytes.
func (r *apiRequest) Raw(ctx context.Context) ([]byte, error) {
	var out []byte
	err := r.Process(ctx, func(body io.Reader) error {
		data, err := io.ReadAll(body)
		if err != nil {
			return err
		}
		out = data
		return nil
	})
	return out, err
}

// wrappedData matches the {"data": ...} envelope some endpoints use.
type wrappedData[T any] struct {
	Data T `json:"data"`
}
