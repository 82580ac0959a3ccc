package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	APIPrefix         = "/api/v1"
	UploadsPrefix     = "/uploads/"
	IdempotencyHeader = "Idempotency-Key"
)

// File is one part of a multipart upload.
type File struct {
	Name        string
	ContentType string
	Reader      io.Reader
}

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *string         `json:"error"`
}

type rawResponse struct {
	status int
	body   []byte
}

// APIClient talks to the RentEase server. It never retries.
type APIClient struct {
	http    *resty.Client
	server  string
	session *Session
	logger  *zap.Logger
	flight  singleflight.Group
}

type Option func(*APIClient)

func WithLogger(logger *zap.Logger) Option {
	return func(c *APIClient) { c.logger = logger }
}

// WithHTTPClient swaps the transport, mostly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *APIClient) { c.http = resty.NewWithClient(hc) }
}

func NewAPIClient(serverURL string, session *Session, opts ...Option) *APIClient {
	c := &APIClient{
		http:    resty.New(),
		server:  strings.TrimRight(serverURL, "/"),
		session: session,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.session == nil {
		c.session = NewSession("")
	}
	c.http.
		SetBaseURL(c.server+APIPrefix).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")
	return c
}

func (c *APIClient) Session() *Session { return c.session }

// UploadURL resolves a stored file reference against the static uploads base.
func (c *APIClient) UploadURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.server + UploadsPrefix + strings.TrimLeft(path, "/")
}

func (c *APIClient) Get(ctx context.Context, path string, out interface{}) (string, error) {
	raw, err := c.send(ctx, http.MethodGet, path, func(r *resty.Request) {})
	if err != nil {
		return "", err
	}
	return decode(raw, out)
}

func (c *APIClient) Post(ctx context.Context, path string, body, out interface{}) (string, error) {
	return c.mutate(ctx, http.MethodPost, path, body, out)
}

func (c *APIClient) Put(ctx context.Context, path string, body, out interface{}) (string, error) {
	return c.mutate(ctx, http.MethodPut, path, body, out)
}

func (c *APIClient) Delete(ctx context.Context, path string, out interface{}) (string, error) {
	return c.mutate(ctx, http.MethodDelete, path, nil, out)
}

// Upload sends files as multipart under one field name.
func (c *APIClient) Upload(ctx context.Context, path, field string, files []File, out interface{}) (string, error) {
	if len(files) == 0 {
		return "", &ValidationError{Field: field, Message: "Please choose a file to upload"}
	}
	parts := make([]*resty.MultipartField, 0, len(files))
	for _, f := range files {
		if f.Reader == nil || f.Name == "" {
			return "", &ValidationError{Field: field, Message: "Please choose a file to upload"}
		}
		parts = append(parts, &resty.MultipartField{
			Param:       field,
			FileName:    f.Name,
			ContentType: f.ContentType,
			Reader:      f.Reader,
		})
	}

	key := uuid.NewString()
	raw, err := c.send(ctx, http.MethodPost, path, func(r *resty.Request) {
		r.SetHeader(IdempotencyHeader, key).SetMultipartFields(parts...)
	})
	if err != nil {
		return "", err
	}
	return decode(raw, out)
}

// mutate collapses identical concurrent calls into one request carrying a
// single Idempotency-Key; every caller decodes the shared response.
func (c *APIClient) mutate(ctx context.Context, method, path string, body, out interface{}) (string, error) {
	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return "", &ValidationError{Message: fmt.Sprintf("invalid request body: %v", err)}
		}
		payload = encoded
	}

	flightKey := method + " " + path + " " + string(payload)
	v, err, shared := c.flight.Do(flightKey, func() (interface{}, error) {
		key := uuid.NewString()
		return c.send(ctx, method, path, func(r *resty.Request) {
			r.SetHeader(IdempotencyHeader, key)
			if payload != nil {
				r.SetHeader("Content-Type", "application/json").SetBody(payload)
			}
		})
	})
	if shared {
		c.logger.Debug("Collapsed duplicate request", zap.String("method", method), zap.String("path", path))
	}
	if err != nil {
		return "", err
	}
	return decode(v.(*rawResponse), out)
}

func (c *APIClient) send(ctx context.Context, method, path string, prepare func(*resty.Request)) (*rawResponse, error) {
	req := c.http.R().SetContext(ctx)
	if tok := c.session.Token(); tok != "" {
		req.SetAuthToken(tok)
	}
	prepare(req)

	resp, err := req.Execute(method, path)
	if err != nil {
		c.logger.Warn("API request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return nil, &RequestError{Status: 0, Message: FallbackMessage}
	}
	return &rawResponse{status: resp.StatusCode(), body: resp.Body()}, nil
}

func decode(raw *rawResponse, out interface{}) (string, error) {
	var env envelope
	parseErr := json.Unmarshal(raw.body, &env)

	if raw.status >= http.StatusBadRequest {
		message := ""
		if parseErr == nil {
			message = env.Message
			if message == "" && env.Error != nil {
				message = *env.Error
			}
		}
		return "", &RequestError{Status: raw.status, Message: message}
	}
	if parseErr != nil {
		return "", &RequestError{Status: raw.status, Message: "Unexpected response from server"}
	}
	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return "", &RequestError{Status: raw.status, Message: "Unexpected response from server"}
		}
	}
	return env.Message, nil
}

// Download fetches a non-JSON body such as a PDF or spreadsheet.
func (c *APIClient) Download(ctx context.Context, path string) ([]byte, error) {
	raw, err := c.send(ctx, http.MethodGet, path, func(r *resty.Request) {
		r.SetHeader("Accept", "*/*")
	})
	if err != nil {
		return nil, err
	}
	if raw.status >= http.StatusBadRequest {
		_, err := decode(raw, nil)
		return nil, err
	}
	return raw.body, nil
}
