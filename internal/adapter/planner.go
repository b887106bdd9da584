// Package adapter is the boundary to the external off-grid planner
// service. It serializes a validated grid input, drives the service's
// send-then-poll protocol, and validates the result shape before handing
// it back. No retries happen here: failure kinds are surfaced precisely
// enough for an outer policy to decide.
package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"time"

	"gridbridge/internal/codec"
	"gridbridge/internal/schema"
)

// State tracks one optimization exchange through its lifecycle.
type State string

const (
	StateIdle             State = "idle"
	StateSending          State = "sending"
	StateAwaitingResponse State = "awaiting_response"
	StateSucceeded        State = "succeeded"
	StateFailed           State = "failed"
)

// FailureKind classifies an adapter failure for the caller's retry policy.
type FailureKind string

const (
	// FailureTimeout: the context deadline expired or the caller
	// cancelled, in either protocol phase.
	FailureTimeout FailureKind = "timeout"
	// FailureUnavailable: the service could not be reached at all.
	FailureUnavailable FailureKind = "unavailable"
	// FailureMalformedResponse: the service answered, but not with a
	// parseable, schema-valid body.
	FailureMalformedResponse FailureKind = "malformed_response"
	// FailureRemoteRejected: the service answered and refused the
	// request (non-200, or a result with status ERROR).
	FailureRemoteRejected FailureKind = "remote_rejected"
)

// Failure is the adapter's terminal error.
type Failure struct {
	Kind FailureKind
	Op   string // protocol phase: "send" or "check"
	Err  error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("planner %s: %s", f.Op, f.Kind)
	}
	return fmt.Sprintf("planner %s: %s: %v", f.Op, f.Kind, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Request status values of the planner protocol.
const (
	statusPending = "PENDING"
	statusDone    = "DONE"
	statusError   = "ERROR"
)

// envelope is the planner's response wrapper for both protocol phases.
type envelope struct {
	ID      string          `json:"id"`
	Status  string          `json:"status"`
	Results json.RawMessage `json:"results"`
}

// Config holds the adapter settings.
type Config struct {
	// BaseURL of the planner service, without trailing slash.
	BaseURL string
	// PollInterval between result checks.
	PollInterval time.Duration
	// HTTPClient to use; a default client without its own timeout is
	// created when nil (deadlines come from the caller's context).
	HTTPClient *http.Client
}

// DefaultPollInterval is used when the config leaves PollInterval zero.
const DefaultPollInterval = time.Second

// Client talks to the planner service. A single Client may serve
// concurrent Optimize calls for independent requests; all per-exchange
// state is call-local.
type Client struct {
	baseURL      string
	pollInterval time.Duration
	http         *http.Client
}

// New creates a planner client.
func New(cfg Config) *Client {
	c := &Client{
		baseURL:      cfg.BaseURL,
		pollInterval: cfg.PollInterval,
		http:         cfg.HTTPClient,
	}
	if c.pollInterval <= 0 {
		c.pollInterval = DefaultPollInterval
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	return c
}

// Optimize submits the grid input and blocks until the planner reports
// DONE, the planner rejects the request, or ctx expires. The returned
// error, when not nil, is always a *Failure.
func (c *Client) Optimize(ctx context.Context, input *codec.GridInput) (*codec.GridResult, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return nil, &Failure{Kind: FailureMalformedResponse, Op: "send", Err: fmt.Errorf("marshal request: %w", err)}
	}

	c.transition(StateIdle, StateSending, "")
	env, err := c.send(ctx, body)
	if err != nil {
		c.transition(StateSending, StateFailed, "")
		return nil, err
	}

	requestID := env.ID
	c.transition(StateSending, StateAwaitingResponse, requestID)
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			c.transition(StateAwaitingResponse, StateFailed, requestID)
			return nil, &Failure{Kind: FailureTimeout, Op: "check", Err: ctx.Err()}
		case <-ticker.C:
		}

		env, err = c.check(ctx, requestID)
		if err != nil {
			c.transition(StateAwaitingResponse, StateFailed, requestID)
			return nil, err
		}
		switch env.Status {
		case statusPending:
			continue
		case statusDone:
			res, err := c.decodeResult(env.Results)
			if err != nil {
				c.transition(StateAwaitingResponse, StateFailed, env.ID)
				return nil, err
			}
			c.transition(StateAwaitingResponse, StateSucceeded, env.ID)
			return res, nil
		case statusError:
			c.transition(StateAwaitingResponse, StateFailed, env.ID)
			return nil, &Failure{Kind: FailureRemoteRejected, Op: "check",
				Err: fmt.Errorf("planner reported ERROR for request %s", env.ID)}
		default:
			c.transition(StateAwaitingResponse, StateFailed, env.ID)
			return nil, &Failure{Kind: FailureMalformedResponse, Op: "check",
				Err: fmt.Errorf("unknown status %q", env.Status)}
		}
	}
}

func (c *Client) transition(from, to State, requestID string) {
	if requestID == "" {
		log.Printf("planner: %s -> %s", from, to)
		return
	}
	log.Printf("planner: %s -> %s (request %s)", from, to, requestID)
}

func (c *Client) send(ctx context.Context, body []byte) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sendjson/grid", bytes.NewReader(body))
	if err != nil {
		return nil, &Failure{Kind: FailureUnavailable, Op: "send", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, "send")
}

func (c *Client) check(ctx context.Context, id string) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/check/"+id, nil)
	if err != nil {
		return nil, &Failure{Kind: FailureUnavailable, Op: "check", Err: err}
	}
	return c.do(req, "check")
}

func (c *Client) do(req *http.Request, op string) (*envelope, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Failure{Kind: classifyTransportError(req.Context(), err), Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Failure{Kind: classifyTransportError(req.Context(), err), Op: op, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &Failure{Kind: FailureRemoteRejected, Op: op,
			Err: fmt.Errorf("status %d: %s", resp.StatusCode, truncate(raw))}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &Failure{Kind: FailureMalformedResponse, Op: op, Err: err}
	}
	if env.ID == "" || env.Status == "" {
		return nil, &Failure{Kind: FailureMalformedResponse, Op: op,
			Err: errors.New("response missing id or status")}
	}
	return &env, nil
}

// decodeResult validates the result body against the grid output schema
// before decoding; a schema-invalid body from the planner is a malformed
// response, not something to merge on a best-effort basis.
func (c *Client) decodeResult(raw json.RawMessage) (*codec.GridResult, error) {
	if len(raw) == 0 {
		return nil, &Failure{Kind: FailureMalformedResponse, Op: "check", Err: errors.New("DONE without results")}
	}
	if err := schema.ValidateGridOutput(raw); err != nil {
		return nil, &Failure{Kind: FailureMalformedResponse, Op: "check", Err: err}
	}
	res, err := codec.DecodeGridResult(raw)
	if err != nil {
		return nil, &Failure{Kind: FailureMalformedResponse, Op: "check", Err: err}
	}
	return res, nil
}

func classifyTransportError(ctx context.Context, err error) FailureKind {
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return FailureTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FailureTimeout
	}
	return FailureUnavailable
}

func truncate(raw []byte) string {
	const max = 200
	if len(raw) > max {
		return string(raw[:max]) + "..."
	}
	return string(raw)
}
