package slackclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/laetho/slack-message/internal/slackmessage"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method string
	header http.Header
	body   string
}

func startSlack(t *testing.T, status int, reply string) (*httptest.Server, *recorded) {
	t.Helper()

	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("failed to read request body: %v", err)
		}
		rec.method = r.Method
		rec.header = r.Header.Clone()
		rec.body = string(body)

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func strPtr(s string) *string { return &s }

func testMessage() slackmessage.OutboundMessage {
	return slackmessage.New("testChannel", "testMessageText",
		slackmessage.WithIconEmoji(strPtr(":test:")),
		slackmessage.WithUsername(strPtr("testName")),
	)
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient("testToken")

	if client.bearer != "Bearer testToken" {
		t.Fatalf("expected bearer %q, got %q", "Bearer testToken", client.bearer)
	}
	if got := client.Endpoint(); got != DefaultEndpoint {
		t.Fatalf("expected endpoint %q, got %q", DefaultEndpoint, got)
	}
	if client.http.Timeout != DefaultTimeout {
		t.Fatalf("expected timeout %v, got %v", DefaultTimeout, client.http.Timeout)
	}
}

func TestNewRequest(t *testing.T) {
	client := NewClient("testToken")

	req, err := client.NewRequest(context.Background(), testMessage())
	if err != nil {
		t.Fatalf("new request failed: %v", err)
	}

	if req.Method != http.MethodPost {
		t.Fatalf("expected method POST, got %q", req.Method)
	}
	if got := req.URL.String(); got != DefaultEndpoint {
		t.Fatalf("expected url %q, got %q", DefaultEndpoint, got)
	}
	if got := req.Header.Get("Authorization"); got != "Bearer testToken" {
		t.Fatalf("expected authorization %q, got %q", "Bearer testToken", got)
	}
	if got := req.Header.Get("Content-Type"); got != "application/json; charset=utf-8" {
		t.Fatalf("expected content type %q, got %q", "application/json; charset=utf-8", got)
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	want := `{"channel":"testChannel","icon_emoji":":test:","text":"testMessageText","username":"testName"}`
	if string(body) != want {
		t.Fatalf("expected body %s, got %s", want, body)
	}
}

func TestSendOK(t *testing.T) {
	srv, rec := startSlack(t, http.StatusOK, `{"ok":true,"channel":"test-channel","ts":"1734376519.228539",`+
		`"message":{"type":"message","text":"testMessageText","ts":"1734376519.228539","username":"TEST-USERNAME","icons":{"emoji":":test:"}}}`)

	client := NewClient("testToken", WithEndpoint(srv.URL))
	res, err := client.Send(context.Background(), testMessage())
	require.NoError(t, err)

	require.True(t, res.OK)
	require.Equal(t, "1734376519.228539", res.TS)
	require.Equal(t, ":test:", res.IconEmoji())

	require.Equal(t, http.MethodPost, rec.method)
	require.Equal(t, "Bearer testToken", rec.header.Get("Authorization"))
	require.Equal(t, "application/json; charset=utf-8", rec.header.Get("Content-Type"))
	require.Equal(t,
		`{"channel":"testChannel","icon_emoji":":test:","text":"testMessageText","username":"testName"}`,
		rec.body)
}

func TestSendAPIRejection(t *testing.T) {
	srv, _ := startSlack(t, http.StatusOK, `{"ok":false,"error":"channel_not_found"}`)

	client := NewClient("testToken", WithEndpoint(srv.URL))
	res, err := client.Send(context.Background(), testMessage())
	require.NoError(t, err)
	require.False(t, res.OK)
	require.EqualError(t, res.Err(), "channel_not_found")
}

func TestSendIgnoresHTTPStatus(t *testing.T) {
	srv, _ := startSlack(t, http.StatusInternalServerError, `{"ok":false,"error":"internal_error"}`)

	client := NewClient("testToken", WithEndpoint(srv.URL))
	res, err := client.Send(context.Background(), testMessage())
	require.NoError(t, err)
	require.Equal(t, "internal_error", res.Error)
}

func TestSendMalformedResponse(t *testing.T) {
	srv, _ := startSlack(t, http.StatusBadGateway, `<html>bad gateway</html>`)

	client := NewClient("testToken", WithEndpoint(srv.URL))
	_, err := client.Send(context.Background(), testMessage())

	var malformed *slackmessage.MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	require.Equal(t, `<html>bad gateway</html>`, string(malformed.Body))
}

func TestSendConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	client := NewClient("testToken", WithEndpoint(endpoint))
	_, err := client.Send(context.Background(), testMessage())

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	require.False(t, transportErr.Timeout())
}

func TestSendTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client := NewClient("testToken", WithEndpoint(srv.URL), WithTimeout(50*time.Millisecond))
	_, err := client.Send(context.Background(), testMessage())

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	require.True(t, transportErr.Timeout())
}

func TestSendContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := NewClient("testToken", WithEndpoint(srv.URL))
	_, err := client.Send(ctx, testMessage())

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	require.True(t, errors.Is(err, context.DeadlineExceeded))
	require.True(t, transportErr.Timeout())
}
