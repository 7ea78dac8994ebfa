// Package client dispatches submissions to the analyze endpoint, choosing
// the wire encoding from the resolved credential's origin.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"careerkit-backend/internal/analyze"
	"careerkit-backend/internal/keys"
)

const (
	defaultTimeout = 60 * time.Second
	maxFileBytes   = 5 * 1024 * 1024
	minJobDescLen  = 20
)

// ErrBusy is returned when a dispatch is attempted while another is in
// flight. One submission at a time; no queue.
var ErrBusy = errors.New("a submission is already in flight")

var pdfMagic = []byte("%PDF")

// Payload is the tuple submitted for analysis.
type Payload struct {
	FileName       string
	File           []byte
	JobTitle       string
	JobDescription string
}

// Validate runs the client pre-check. The server repeats these checks
// authoritatively; this just avoids burning a round trip on bad input.
func (p Payload) Validate() error {
	if len(p.File) == 0 {
		return errors.New("resume file is required")
	}
	if !bytes.HasPrefix(p.File, pdfMagic) {
		return errors.New("only PDF files are allowed")
	}
	if len(p.File) > maxFileBytes {
		return errors.New("file size must be less than 5MB")
	}
	if p.JobTitle == "" {
		return errors.New("job title is required")
	}
	if len(p.JobDescription) < minJobDescLen {
		return fmt.Errorf("job description must be at least %d characters", minJobDescLen)
	}
	return nil
}

// ClassifiedError is a non-200 answer from the analyze endpoint.
type ClassifiedError struct {
	Status         int
	Type           string
	Message        string
	RequiresAPIKey bool
	RetryAfter     time.Duration
}

func (e *ClassifiedError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("analyze failed (%d %s): %s", e.Status, e.Type, e.Message)
	}
	return fmt.Sprintf("analyze failed (%d): %s", e.Status, e.Message)
}

// Client talks to one careerkit API server.
type Client struct {
	http *resty.Client
	busy atomic.Bool
}

// New constructs a Client for the given base URL with the standard 60 s
// transport timeout.
func New(baseURL string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(defaultTimeout),
	}
}

// Dispatch validates the payload, encodes it per the credential origin and
// posts it. Only one dispatch may be in flight per Client; a second caller
// gets ErrBusy instead of a queued slot. Nothing is retried.
func (c *Client) Dispatch(ctx context.Context, p Payload, cred keys.Credential) (*analyze.GenerationResult, error) {
	if !c.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer c.busy.Store(false)

	if err := p.Validate(); err != nil {
		return nil, err
	}

	req := c.http.R().SetContext(ctx)
	encodingFor(p, cred).apply(req)

	resp, err := req.Post("/api/analyze")
	if err != nil {
		return nil, fmt.Errorf("dispatch: %w", err)
	}

	if resp.StatusCode() != 200 {
		return nil, classify(resp)
	}

	var result analyze.GenerationResult
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("dispatch: decode result: %w", err)
	}
	return &result, nil
}

// classify picks the error fields out of whatever body came back; servers
// under proxies sometimes answer with non-JSON, so this stays tolerant.
func classify(resp *resty.Response) *ClassifiedError {
	body := resp.Body()
	cerr := &ClassifiedError{
		Status:         resp.StatusCode(),
		Type:           gjson.GetBytes(body, "type").String(),
		Message:        gjson.GetBytes(body, "error").String(),
		RequiresAPIKey: gjson.GetBytes(body, "requiresApiKey").Bool(),
	}
	if cerr.Message == "" {
		cerr.Message = resp.Status()
	}
	if raw := resp.Header().Get("Retry-After"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			cerr.RetryAfter = time.Duration(secs) * time.Second
		}
	}
	return cerr
}
