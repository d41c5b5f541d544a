package grading

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSubmit(t *testing.T) {
	var got Result
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected request: %s %s", r.Method, r.Header.Get("Content-Type"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("cannot decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := New(srv.URL)
	if err := c.Submit(context.Background(), Result{Player: "alice", Level: 3, Score: 1200}); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	if got != (Result{Player: "alice", Level: 3, Score: 1200}) {
		t.Errorf("server received %+v", got)
	}
}

func TestSubmitRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	if err := New(srv.URL).Submit(context.Background(), Result{Player: "bob"}); err == nil {
		t.Error("expected error for 400 response")
	}
}

func TestSubmitUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if err := New(url).Submit(context.Background(), Result{Player: "carol"}); err == nil {
		t.Error("expected error for closed server")
	}
}
