// Package prediction talks to the remote risk classifier.
package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Result is the classifier response. Prediction is 0 (low risk) or 1
// (elevated risk); Probability is its confidence in [0,1].
type Result struct {
	Prediction  int     `json:"prediction"`
	Probability float64 `json:"probability"`
}

// Failed is returned by Request when the call could not be completed.
var Failed = Result{Prediction: -1, Probability: 0}

func (r Result) Failed() bool {
	return r == Failed
}

type Kind string

const (
	KindNetwork Kind = "network"
	KindServer  Kind = "server"
	KindParse   Kind = "parse"
)

// RequestError classifies why a prediction call failed.
type RequestError struct {
	Kind   Kind
	Status int
	Err    error
}

func (e *RequestError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("prediction request failed (%s, status %d): %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("prediction request failed (%s): %v", e.Kind, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// KindOf returns the failure kind of err, or "" when err is not a
// RequestError.
func KindOf(err error) Kind {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}

type payload struct {
	Glucose       float64 `json:"Glucose"`
	BloodPressure float64 `json:"BloodPressure"`
	BMI           float64 `json:"BMI"`
}

type Client struct {
	endpoint string
	http     *http.Client
	timeout  time.Duration
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout bounds each call. Zero leaves calls unbounded. It applies
// regardless of option order.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{endpoint: endpoint}
	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

// Predict posts one request and returns the decoded response unchanged.
// Failures are returned as *RequestError.
func (c *Client) Predict(ctx context.Context, glucose, systolicBP, bmi float64) (Result, error) {
	body, err := json.Marshal(payload{Glucose: glucose, BloodPressure: systolicBP, BMI: bmi})
	if err != nil {
		return Failed, &RequestError{Kind: KindParse, Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Failed, &RequestError{Kind: KindNetwork, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Failed, &RequestError{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Failed, &RequestError{
			Kind:   KindServer,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("unexpected response: %s", bytes.TrimSpace(snippet)),
		}
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Failed, &RequestError{Kind: KindParse, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}

	return result, nil
}

// Request is Predict with every failure collapsed into Failed.
func (c *Client) Request(ctx context.Context, glucose, systolicBP, bmi float64) Result {
	result, err := c.Predict(ctx, glucose, systolicBP, bmi)
	if err != nil {
		log.Warn().Err(err).Str("kind", string(KindOf(err))).Str("endpoint", c.endpoint).Msg("error calling prediction api")
		return Failed
	}
	return result
}
