package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/asteritime/asteritime/internal/domain/task"
	"github.com/asteritime/asteritime/internal/domain/wallclock"
	"github.com/asteritime/asteritime/internal/resilience"
)

func TestListTasksEncodesFilter(t *testing.T) {
	var gotQuery, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode([]task.Task{{ID: 1, Title: "t"}})
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("tok")

	start, _ := wallclock.ParseDateTime("2024-03-15T00:00:00")
	end, _ := wallclock.ParseDateTime("2024-03-15T23:59:59")
	tasks, err := c.ListTasks(context.Background(), task.Filter{
		Quadrant:  2,
		Status:    task.StatusTodo,
		StartTime: &start,
		EndTime:   &end,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 || tasks[0].ID != 1 {
		t.Errorf("tasks = %+v", tasks)
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	for _, want := range []string{"quadrant=2", "status=TODO", "startTime=2024-03-15T00%3A00%3A00"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %s", gotQuery, want)
		}
	}
}

func TestServerErrorBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "task not found"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ListTasks(context.Background(), task.Filter{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want APIError", err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.Message != "task not found" {
		t.Errorf("apiErr = %+v", apiErr)
	}
	if !IsServerRejection(err) {
		t.Error("IsServerRejection = false")
	}
}

func TestBreakerOpensAfterTransportFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	srv.Close() // every call now fails at the transport level

	c := New(srv.URL)
	c.SetBreaker(resilience.NewBreaker(2, time.Hour))

	for range 2 {
		if _, err := c.ListTasks(context.Background(), task.Filter{}); err == nil {
			t.Fatal("expected transport error")
		}
	}
	_, err := c.ListTasks(context.Background(), task.Filter{})
	if !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Errorf("err = %v, want open circuit", err)
	}
}

func TestDeleteTaskAcceptsNoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL)
	if err := c.DeleteTask(context.Background(), 7); err != nil {
		t.Fatal(err)
	}
}
