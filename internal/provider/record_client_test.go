package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLookupSolversFiltersToAcceptedCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("pid"); got != "P1000" {
			t.Fatalf("pid = %q, want P1000", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"records":[
			{"user":"alice","status":"Accepted"},
			{"user":"bob","status":"Wrong Answer"},
			{"user":"mallory","status":"Accepted"}
		]}`))
	}))
	defer srv.Close()

	c := NewRecordClient(srv.URL, time.Second)
	solvers, err := c.LookupSolvers(context.Background(), "P1000", []string{"alice", "bob"})
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(solvers) != 1 {
		t.Fatalf("solvers = %v, want only alice", solvers)
	}
	if _, ok := solvers["alice"]; !ok {
		t.Fatalf("alice missing from %v", solvers)
	}
}

func TestLookupSolversErrorOnBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewRecordClient(srv.URL, time.Second)
	solvers, err := c.LookupSolvers(context.Background(), "P1000", []string{"alice"})
	if err == nil {
		t.Fatal("expected error on 502")
	}
	if len(solvers) != 0 {
		t.Fatalf("solvers = %v, want empty", solvers)
	}
}

func TestLookupSolversTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := NewRecordClient(srv.URL, 20*time.Millisecond)
	if _, err := c.LookupSolvers(context.Background(), "P1000", nil); err == nil {
		t.Fatal("expected timeout error")
	}
}
