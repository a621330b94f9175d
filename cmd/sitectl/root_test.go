package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyonmedia/site-services/internal/formrelay"
	"github.com/halcyonmedia/site-services/internal/tokens"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSubscribePrintsTransitions(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/newsletter", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Successfully subscribed"}`))
	}))
	defer srv.Close()

	out, err := run(t, "--api", srv.URL+"/", "subscribe", "reader@example.com")
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", got["email"])
	assert.Equal(t, "submitting\nsuccess: Successfully subscribed\n", out)
}

func TestSubscribeSurfacesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Invalid email format"}`))
	}))
	defer srv.Close()

	out, err := run(t, "--api", srv.URL, "subscribe", "nope")
	var se *formrelay.SubmitError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.StatusCode)
	assert.Contains(t, out, "error: Invalid email format")
}

func TestInquireSendsFieldsAndBotToken(t *testing.T) {
	var body map[string]string
	var token string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/sponsor-inquiry", r.URL.Path)
		token = r.Header.Get("X-Bot-Token")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`{"message":"Inquiry received","id":"abc"}`))
	}))
	defer srv.Close()

	_, err := run(t, "--api", srv.URL, "inquire",
		"--first", "Ada", "--last", "Lovelace", "--company", "Analytical",
		"--email", "ada@example.com", "--message", "Hello", "--bot-token", "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	assert.Equal(t, "Ada", body["firstName"])
	assert.Equal(t, "Lovelace", body["lastName"])
	assert.Equal(t, "Analytical", body["company"])
	assert.Equal(t, "sitectl", body["source"])
	assert.NotContains(t, body, "phone")
}

func TestInquireRequiresFieldsBeforeSending(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	_, err := run(t, "--api", srv.URL, "inquire", "--first", "Ada", "--email", "ada@example.com")
	var mf *formrelay.MissingFieldError
	require.True(t, errors.As(err, &mf))
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestTimelineListAndEvaluate(t *testing.T) {
	out, err := run(t, "timeline")
	require.NoError(t, err)
	assert.Contains(t, out, "landing-hero")

	out, err = run(t, "timeline", "landing-hero", "--p", "0")
	require.NoError(t, err)
	var res struct {
		P     float64                    `json:"p"`
		State map[string]json.RawMessage `json:"state"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Contains(t, res.State, "box.width")

	out, err = run(t, "timeline", "landing-hero", "--steps", "3")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	var last struct {
		P float64 `json:"p"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &last))
	assert.InDelta(t, 3.4, last.P, 1e-9)

	_, err = run(t, "timeline", "missing")
	require.Error(t, err)
}

func TestSliderPlan(t *testing.T) {
	out, err := run(t, "slider", "--item", "poster:image", "--item", "intro:video:42s", "--item", "teaser:video:2s")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "10s")
	assert.Contains(t, lines[2], "47s")
	assert.Contains(t, lines[2], "5s")
	assert.Contains(t, lines[3], "10s")

	_, err = run(t, "slider", "--item", "bad")
	require.Error(t, err)
	_, err = run(t, "slider", "--item", "x:audio")
	require.Error(t, err)
	_, err = run(t, "slider")
	require.Error(t, err)
}

func TestTokenMintsVerifiableAdminToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	out, err := run(t, "token", "--sub", "ops", "--email", "ops@example.com")
	require.NoError(t, err)

	tok, err := tokens.NewHMACVerifier("test-secret").Verify(context.Background(), strings.TrimSpace(out))
	require.NoError(t, err)
	var claims struct {
		Sub  string `json:"sub"`
		Role string `json:"role"`
	}
	require.NoError(t, tok.Claims(&claims))
	assert.Equal(t, "ops", claims.Sub)
	assert.Equal(t, "admin", claims.Role)

	t.Setenv("JWT_SECRET", "")
	_, err = run(t, "token")
	require.ErrorIs(t, err, tokens.ErrNoSecret)
}
