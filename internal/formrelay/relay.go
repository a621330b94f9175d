// Package formrelay posts form fields as JSON to a site API route and tracks
// the idle/submitting/success/error lifecycle a form shows to the visitor.
package formrelay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/halcyonmedia/site-services/internal/apierr"
)

// Status is the visible state of a form.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusSubmitting Status = "submitting"
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
)

var ErrAlreadySubmitting = errors.New("form is already submitting")

// MissingFieldError is returned before any request is made when a required
// field is blank.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// SubmitError carries the message shown to the visitor after a failed submit.
type SubmitError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *SubmitError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("submit failed (%d): %s", e.StatusCode, e.Message)
	}
	return "submit failed: " + e.Message
}

func (e *SubmitError) Unwrap() error { return e.Err }

// Relay holds the fields of one form and submits them to Endpoint.
type Relay struct {
	endpoint string
	client   *http.Client
	required []string

	mu       sync.Mutex
	status   Status
	message  string
	fields   map[string]string
	headers  map[string]string
	onChange func(Status, string)
}

// New returns an idle relay. A nil client means http.DefaultClient.
func New(endpoint string, required []string, client *http.Client) *Relay {
	if client == nil {
		client = http.DefaultClient
	}
	return &Relay{
		endpoint: endpoint,
		client:   client,
		required: required,
		status:   StatusIdle,
		fields:   map[string]string{},
	}
}

// OnChange registers an observer for status transitions. The observer runs
// without the relay lock held, so it may read the relay.
func (r *Relay) OnChange(fn func(Status, string)) {
	r.mu.Lock()
	r.onChange = fn
	r.mu.Unlock()
}

// SetHeader adds a request header sent with every submit.
func (r *Relay) SetHeader(key, value string) {
	r.mu.Lock()
	if r.headers == nil {
		r.headers = map[string]string{}
	}
	r.headers[key] = value
	r.mu.Unlock()
}

// Set updates one field value.
func (r *Relay) Set(field, value string) {
	r.mu.Lock()
	r.fields[field] = value
	r.mu.Unlock()
}

// Fields returns a copy of the current field values.
func (r *Relay) Fields() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]string, len(r.fields))
	for k, v := range r.fields {
		out[k] = v
	}
	return out
}

// Status returns the current state and the message that goes with it.
func (r *Relay) Status() (Status, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status, r.message
}

// Submit sends the fields once. There is no retry; a failed submit leaves the
// fields in place so the visitor can edit and submit again.
func (r *Relay) Submit(ctx context.Context) error {
	r.mu.Lock()
	if r.status == StatusSubmitting {
		r.mu.Unlock()
		return ErrAlreadySubmitting
	}
	for _, f := range r.required {
		if strings.TrimSpace(r.fields[f]) == "" {
			r.mu.Unlock()
			return &MissingFieldError{Field: f}
		}
	}
	payload := make(map[string]string, len(r.fields))
	for k, v := range r.fields {
		payload[k] = v
	}
	headers := make(map[string]string, len(r.headers))
	for k, v := range r.headers {
		headers[k] = v
	}
	notify := r.setLocked(StatusSubmitting, "")
	r.mu.Unlock()
	notify()

	msg, err := r.post(ctx, payload, headers)

	r.mu.Lock()
	if err != nil {
		notify = r.setLocked(StatusError, msg)
		r.mu.Unlock()
		notify()
		return err
	}
	r.fields = map[string]string{}
	notify = r.setLocked(StatusSuccess, msg)
	r.mu.Unlock()
	notify()
	return nil
}

func (r *Relay) post(ctx context.Context, payload, headers map[string]string) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return apierr.GenericMessage, &SubmitError{Message: apierr.GenericMessage, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return apierr.GenericMessage, &SubmitError{Message: apierr.GenericMessage, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return apierr.NetworkMessage, &SubmitError{Message: apierr.NetworkMessage, Err: err}
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := apierr.MessageFromBody(b, apierr.GenericMessage)
		return msg, &SubmitError{StatusCode: resp.StatusCode, Message: msg}
	}
	return apierr.MessageFromBody(b, ""), nil
}

// setLocked must be called with r.mu held. The returned func reports the
// transition to the observer and must be called after r.mu is released.
func (r *Relay) setLocked(s Status, msg string) func() {
	r.status = s
	r.message = msg
	fn := r.onChange
	return func() {
		if fn != nil {
			fn(s, msg)
		}
	}
}
