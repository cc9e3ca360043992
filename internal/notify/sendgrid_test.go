package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestNotifier(t *testing.T, handler http.HandlerFunc) *SendGridNotifier {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	n := NewSendGridNotifier("test-key", "noreply@authgate.dev", "Authgate")
	n.endpoint = srv.URL
	n.client = srv.Client()
	return n
}

func TestNotifyVerification_SendsExpectedPayload(t *testing.T) {
	var gotAuth string
	var gotBody sgMailPayload

	n := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &gotBody); err != nil {
			t.Errorf("payload is not valid JSON: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	})

	if err := n.NotifyVerification(context.Background(), "a@x.com", "tok123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotAuth != "Bearer test-key" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if len(gotBody.Personalizations) != 1 || gotBody.Personalizations[0].To[0].Email != "a@x.com" {
		t.Fatalf("unexpected recipients: %+v", gotBody.Personalizations)
	}
	if gotBody.From.Email != "noreply@authgate.dev" {
		t.Fatalf("unexpected sender: %+v", gotBody.From)
	}
	if len(gotBody.Content) != 1 || !strings.Contains(gotBody.Content[0].Value, "tok123") {
		t.Fatalf("body does not carry the token: %+v", gotBody.Content)
	}
}

func TestNotifyPasswordReset_ErrorStatusIsFailure(t *testing.T) {
	n := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	})

	err := n.NotifyPasswordReset(context.Background(), "a@x.com", "tok123")
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Fatalf("expected status error, got %v", err)
	}
}
