package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"publisher-planner/internal/model"
)

const (
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 512
)

type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Doer is the part of *fasthttp.Client the API client uses.
type Doer interface {
	DoTimeout(req *fasthttp.Request, resp *fasthttp.Response, timeout time.Duration) error
}

// Client talks to the cost-modeling backend. It never retries.
type Client struct {
	base    string
	token   string
	timeout time.Duration
	http    Doer
	log     *zap.Logger
}

// New builds a client backed by NewTransport.
func New(cfg Config, log *zap.Logger) (*Client, error) {
	return NewWithDoer(cfg, NewTransport(cfg), log)
}

// NewTransport returns the pooled fasthttp.Client used to reach the backend.
func NewTransport(cfg Config) *fasthttp.Client {
	return &fasthttp.Client{
		Name:                "publisher-planner",
		MaxConnsPerHost:     100,
		MaxIdleConnDuration: 90 * time.Second,
		ReadTimeout:         cfg.Timeout,
		WriteTimeout:        cfg.Timeout,
	}
}

// NewWithDoer builds a client over an existing transport.
func NewWithDoer(cfg Config, doer Doer, log *zap.Logger) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, ErrNoBaseURL
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("api: parse base url: %w", err)
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		base:    base,
		token:   cfg.Token,
		timeout: timeout,
		http:    doer,
		log:     log.Named("api"),
	}, nil
}

func (c *Client) Publisher(ctx context.Context, id string) (*model.PublisherResponse, error) {
	var out model.PublisherResponse
	if err := c.do(ctx, fasthttp.MethodGet, "publisher/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PublisherApc(ctx context.Context, id string) (*model.ApcResponse, error) {
	var out model.ApcResponse
	if err := c.do(ctx, fasthttp.MethodGet, "publisher/"+url.PathEscape(id)+"/apc", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ScenarioJournals(ctx context.Context, id string) (*model.ScenarioResponse, error) {
	var out model.ScenarioResponse
	if err := c.do(ctx, fasthttp.MethodGet, "scenario/"+url.PathEscape(id)+"/journals", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveScenario posts the saved part of a scenario.
func (c *Client) SaveScenario(ctx context.Context, id string, saved model.SavedScenario) error {
	return c.do(ctx, fasthttp.MethodPost, "scenario/"+url.PathEscape(id), saved, nil)
}

// CreateScenario registers a client-created scenario with the server. When
// copyFrom is set the server copies that scenario's saved state.
func (c *Client) CreateScenario(ctx context.Context, publisherID string, req model.CreateScenarioRequest, copyFrom string) error {
	path := "package/" + url.PathEscape(publisherID) + "/scenario"
	if copyFrom != "" {
		path += "?copy=" + url.QueryEscape(copyFrom)
	}
	return c.do(ctx, fasthttp.MethodPost, path, req, nil)
}

func (c *Client) DeleteScenario(ctx context.Context, id string) error {
	return c.do(ctx, fasthttp.MethodDelete, "scenario/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.base + path)
	req.Header.SetMethod(method)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")
	if c.token != "" {
		req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+c.token)
	}
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode %s %s: %w", method, path, err)
		}
		req.Header.SetContentType("application/json")
		req.SetBodyRaw(b)
	}

	start := time.Now()
	err := c.http.DoTimeout(req, resp, timeout)
	c.log.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err),
	)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}

	status := resp.StatusCode()
	if status < 200 || status > 299 {
		b := resp.Body()
		if len(b) > maxErrorBody {
			b = b[:maxErrorBody]
		}
		return &StatusError{Method: method, Path: path, Status: status, Body: strings.TrimSpace(string(b))}
	}

	if out == nil {
		return nil
	}
	// resp is released on return; decode from a copy
	b := append([]byte(nil), resp.Body()...)
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("api: decode %s %s: %w", method, path, err)
	}
	return nil
}
