package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/spf13/cobra"
)

// fakeServer answers the minimal API surface the status command touches and
// counts task writes.
func fakeServer(t *testing.T) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var puts atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/api/task-categories":
			w.Write([]byte("[]"))
		case r.URL.Path == "/api/tasks" && r.Method == http.MethodGet:
			w.Write([]byte(`[{"id":1,"title":"write report","quadrant":2,"status":"TODO","version":1}]`))
		case strings.HasPrefix(r.URL.Path, "/api/tasks/") && r.Method == http.MethodPut:
			puts.Add(1)
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode update body: %v", err)
			}
			body["id"] = 1
			body["title"] = "write report"
			body["quadrant"] = 2
			json.NewEncoder(w).Encode(body)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &puts
}

func writeTestCredentials(t *testing.T, serverURL string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".config", "asteritime")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	creds, err := json.Marshal(credentials{
		ServerURL:    serverURL,
		Username:     "tester",
		AccessToken:  "token",
		RefreshToken: "refresh",
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "credentials.json"), creds, 0o600); err != nil {
		t.Fatal(err)
	}
}

func testCmd() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	return cmd
}

func TestTaskStatusForbiddenMoveNeverHitsServer(t *testing.T) {
	srv, puts := fakeServer(t)
	writeTestCredentials(t, srv.URL)

	err := runTaskStatus(testCmd(), []string{"1", "DONE"})
	if err == nil {
		t.Fatal("TODO to DONE must be rejected")
	}
	if got := puts.Load(); got != 0 {
		t.Errorf("forbidden transition reached the server %d times", got)
	}
}

func TestTaskStatusAllowedMoveUpdatesServer(t *testing.T) {
	srv, puts := fakeServer(t)
	writeTestCredentials(t, srv.URL)

	if err := runTaskStatus(testCmd(), []string{"1", "DOING"}); err != nil {
		t.Fatal(err)
	}
	if got := puts.Load(); got != 1 {
		t.Errorf("server received %d task writes, want 1", got)
	}
}

func TestTaskStatusUnknownTaskNamesTodayList(t *testing.T) {
	srv, _ := fakeServer(t)
	writeTestCredentials(t, srv.URL)

	err := runTaskStatus(testCmd(), []string{"99", "DOING"})
	if err == nil || !strings.Contains(err.Error(), "today's task list") {
		t.Fatalf("err = %v, want a today's-list explanation", err)
	}
}
