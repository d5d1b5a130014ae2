package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSlack_SendPostsPayload(t *testing.T) {
	var got slackPayload
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	s := NewSlack(ts.URL)
	if err := s.Send(context.Background(), "knockcheck failures", "2 of 9 scenarios failed"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !strings.Contains(got.Text, "knockcheck failures") || !strings.Contains(got.Text, "2 of 9") {
		t.Fatalf("payload text wrong: %q", got.Text)
	}
}

func TestSlack_NilAndBadStatus(t *testing.T) {
	if s := NewSlack(""); s != nil {
		t.Fatalf("expected nil notifier for empty webhook")
	}
	var s *Slack
	if err := s.Send(context.Background(), "t", "x"); err == nil {
		t.Fatalf("expected error from disabled notifier")
	}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()
	if err := NewSlack(ts.URL).Send(context.Background(), "t", "x"); err == nil {
		t.Fatalf("expected error for non-2xx status")
	}
}
