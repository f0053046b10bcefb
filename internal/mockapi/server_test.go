package mockapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"expensetrack/internal/core"
	"expensetrack/internal/rpc"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestServer(t *testing.T) (*rpc.Client, *httptest.Server, *testClock) {
	t.Helper()
	clk := &testClock{t: time.Date(2025, 10, 5, 9, 0, 0, 0, time.UTC)}
	s := New(Config{Port: "0", Username: "demo", Password: "demo123", SessionTTL: time.Hour, Now: clk.now})
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return rpc.NewClient(srv.URL, 5*time.Second, nil), srv, clk
}

func login(t *testing.T, c *rpc.Client) string {
	t.Helper()
	res := c.Login(context.Background(), "demo", "demo123")
	if res.Err != nil {
		t.Fatalf("Login() error = %v", res.Err)
	}
	return res.Token
}

func TestLogin(t *testing.T) {
	c, _, _ := newTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
		wantOK   bool
	}{
		{"exact", "demo", "demo123", true},
		{"username is trimmed and case folded", "  DeMo ", "demo123", true},
		{"password punctuation ignored", "demo", "demo-123!", true},
		{"wrong password", "demo", "demo124", false},
		{"unknown user", "alice", "demo123", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := c.Login(ctx, tt.username, tt.password)
			if tt.wantOK {
				if res.Err != nil || res.Token == "" {
					t.Fatalf("Login() = %+v", res)
				}
				return
			}
			var be *rpc.BusinessError
			if !errors.As(res.Err, &be) || be.Message != MsgInvalidCredentials {
				t.Fatalf("Login() error = %v, want invalid credentials", res.Err)
			}
		})
	}
}

func TestSessionRequired(t *testing.T) {
	c, _, _ := newTestServer(t)
	ctx := context.Background()

	for _, token := range []string{"", "made-up"} {
		if err := c.ListExpenses(ctx, token).Err; !errors.Is(err, rpc.ErrSessionExpired) {
			t.Fatalf("ListExpenses(%q) error = %v, want expired", token, err)
		}
		if err := c.ListCategories(ctx, token).Err; !errors.Is(err, rpc.ErrSessionExpired) {
			t.Fatalf("ListCategories(%q) error = %v, want expired", token, err)
		}
		draft := core.Draft{Date: "2025-10-05", Amount: "1", Description: "x"}
		if err := c.AddExpense(ctx, token, draft).Err; !errors.Is(err, rpc.ErrSessionExpired) {
			t.Fatalf("AddExpense(%q) error = %v, want expired", token, err)
		}
	}
}

func TestSessionExpires(t *testing.T) {
	c, _, clk := newTestServer(t)
	ctx := context.Background()
	token := login(t, c)

	clk.advance(59 * time.Minute)
	if err := c.ListExpenses(ctx, token).Err; err != nil {
		t.Fatalf("ListExpenses() before ttl error = %v", err)
	}
	clk.advance(time.Minute)
	if err := c.ListExpenses(ctx, token).Err; !errors.Is(err, rpc.ErrSessionExpired) {
		t.Fatalf("ListExpenses() after ttl error = %v, want expired", err)
	}
}

func TestListAndCategories(t *testing.T) {
	c, _, _ := newTestServer(t)
	ctx := context.Background()
	token := login(t, c)

	list := c.ListExpenses(ctx, token)
	if list.Err != nil || len(list.Expenses) != 5 {
		t.Fatalf("ListExpenses() = %d expenses, err %v", len(list.Expenses), list.Err)
	}
	if list.Expenses[3].Description != "Electric bill" || list.Expenses[3].Value() != 3500 {
		t.Fatalf("seed expense = %+v", list.Expenses[3])
	}

	cats := c.ListCategories(ctx, token)
	if cats.Err != nil || len(cats.Categories) != len(DefaultCategories) {
		t.Fatalf("ListCategories() = %+v", cats)
	}
}

func TestAddExpense(t *testing.T) {
	c, _, _ := newTestServer(t)
	ctx := context.Background()
	token := login(t, c)

	res := c.AddExpense(ctx, token, core.Draft{Date: "2025-10-05", Amount: "320", Description: " Lunch with friends "})
	if res.Err != nil {
		t.Fatalf("AddExpense() error = %v", res.Err)
	}
	e := res.Expense
	if e.ID == "" || e.Category != "Food & Dining" || e.Description != "Lunch with friends" {
		t.Fatalf("expense = %+v", e)
	}
	if e.AISummary != "Added expense for Lunch with friends" {
		t.Fatalf("aiSummary = %q", e.AISummary)
	}

	list := c.ListExpenses(ctx, token)
	if len(list.Expenses) != 6 || list.Expenses[5].ID != e.ID {
		t.Fatalf("new expense not listed: %+v", list.Expenses)
	}

	bad := c.AddExpense(ctx, token, core.Draft{Date: "2025-10-05", Amount: "-1", Description: "x"})
	var be *rpc.BusinessError
	if !errors.As(bad.Err, &be) || !strings.HasPrefix(be.Message, "Invalid expense") {
		t.Fatalf("negative amount error = %v", bad.Err)
	}
}

func TestLoginThrottled(t *testing.T) {
	c, _, clk := newTestServer(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		c.Login(ctx, "demo", "nope")
	}
	res := c.Login(ctx, "demo", "demo123")
	var be *rpc.BusinessError
	if !errors.As(res.Err, &be) || be.Message != MsgTooManyAttempts {
		t.Fatalf("Login() error = %v, want throttled", res.Err)
	}

	clk.advance(time.Minute)
	if res := c.Login(ctx, "demo", "demo123"); res.Err != nil {
		t.Fatalf("Login() after window error = %v", res.Err)
	}
}

func postRaw(t *testing.T, url, body string) (int, rpc.Envelope) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var env rpc.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return resp.StatusCode, env
}

func TestMalformedRequests(t *testing.T) {
	_, srv, _ := newTestServer(t)

	code, env := postRaw(t, srv.URL, "{not json")
	if code != http.StatusBadRequest || env.Success || env.Error != MsgInvalidBody {
		t.Fatalf("bad body = %d %+v", code, env)
	}

	code, env = postRaw(t, srv.URL, `{"action":"deleteExpense"}`)
	if code != http.StatusOK || env.Success || env.Error != "Unknown action: deleteExpense" {
		t.Fatalf("unknown action = %d %+v", code, env)
	}

	_, env = postRaw(t, srv.URL, `{}`)
	if env.Error != "Missing action" {
		t.Fatalf("missing action = %+v", env)
	}
}

func TestHealthAndCORS(t *testing.T) {
	_, srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status = %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestRunShutsDownOnCancel(t *testing.T) {
	s := New(Config{Port: "0", Username: "demo", Password: "demo123"})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not stop")
	}
}
