package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"expensetrack/internal/core"
	"expensetrack/internal/log"
)

// fakeBackend answers every request with the envelope returned by respond and
// records the last decoded request.
type fakeBackend struct {
	mu          sync.Mutex
	last        Request
	contentType string
	respond     func(Request) any
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contentType = r.Header.Get("Content-Type")
	f.last = Request{}
	if err := json.NewDecoder(r.Body).Decode(&f.last); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(f.respond(f.last))
}

func (f *fakeBackend) request() Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

func (f *fakeBackend) header() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.contentType
}

func newTestClient(t *testing.T, respond func(Request) any) (*Client, *fakeBackend) {
	t.Helper()
	fb := &fakeBackend{respond: respond}
	srv := httptest.NewServer(fb)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, nil), fb
}

func TestLoginSuccess(t *testing.T) {
	c, fb := newTestClient(t, func(Request) any {
		return map[string]any{"success": true, "sessionToken": "tok-1"}
	})

	res := c.Login(context.Background(), "demo", "demo123")
	if res.Err != nil {
		t.Fatalf("Login() error = %v", res.Err)
	}
	if res.Token != "tok-1" {
		t.Fatalf("Login() token = %q, want tok-1", res.Token)
	}
	if fb.request().Action != ActionLogin || fb.request().Username != "demo" || fb.request().Password != "demo123" {
		t.Fatalf("unexpected request: %+v", fb.request())
	}
	if fb.header() != "application/json" {
		t.Fatalf("Content-Type = %q", fb.header())
	}
}

func TestLoginRejected(t *testing.T) {
	c, _ := newTestClient(t, func(Request) any {
		return map[string]any{"success": false, "error": "Invalid credentials"}
	})

	res := c.Login(context.Background(), "demo", "wrong")
	if res.Token != "" {
		t.Fatalf("token returned on failure: %q", res.Token)
	}
	var be *BusinessError
	if !errors.As(res.Err, &be) {
		t.Fatalf("expected BusinessError, got %T %v", res.Err, res.Err)
	}
	if be.Message != "Invalid credentials" {
		t.Fatalf("message = %q", be.Message)
	}
	if errors.Is(res.Err, ErrSessionExpired) {
		t.Fatal("invalid credentials must not count as session expiry")
	}
	if Message(res.Err) != "Invalid credentials" {
		t.Fatalf("Message() = %q", Message(res.Err))
	}
}

func TestLoginWithoutTokenFails(t *testing.T) {
	c, _ := newTestClient(t, func(Request) any {
		return map[string]any{"success": true}
	})
	res := c.Login(context.Background(), "demo", "demo123")
	if !errors.Is(res.Err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", res.Err)
	}
	if errors.Is(res.Err, ErrTransport) || errors.Is(res.Err, ErrSessionExpired) {
		t.Fatalf("missing token misclassified: %v", res.Err)
	}
	var be *BusinessError
	if !errors.As(res.Err, &be) {
		t.Fatalf("expected *BusinessError, got %T", res.Err)
	}
	if got := Message(res.Err); got != "Login failed: the expense service did not return a session token" {
		t.Fatalf("Message() = %q", got)
	}
}

func TestSessionExpiryDetection(t *testing.T) {
	cases := []struct {
		msg  string
		want bool
	}{
		{"Invalid or expired session", true},
		{"Error: Invalid or expired session. Please log in.", true},
		{"Invalid credentials", false},
		{"invalid or expired session", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsSessionExpired(tc.msg); got != tc.want {
			t.Errorf("IsSessionExpired(%q) = %v, want %v", tc.msg, got, tc.want)
		}
		err := error(&BusinessError{Action: ActionGetExpenses, Message: tc.msg})
		if got := errors.Is(err, ErrSessionExpired); got != tc.want {
			t.Errorf("errors.Is(%q, ErrSessionExpired) = %v, want %v", tc.msg, got, tc.want)
		}
	}
}

func TestListExpensesExpired(t *testing.T) {
	c, fb := newTestClient(t, func(Request) any {
		return map[string]any{"success": false, "error": "Invalid or expired session"}
	})

	res := c.ListExpenses(context.Background(), "stale")
	if !errors.Is(res.Err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", res.Err)
	}
	if fb.request().SessionToken != "stale" || fb.request().Action != ActionGetExpenses {
		t.Fatalf("unexpected request: %+v", fb.request())
	}
}

func TestListExpensesMixedTypes(t *testing.T) {
	c, _ := newTestClient(t, func(Request) any {
		return map[string]any{"success": true, "expenses": []map[string]any{
			{"id": 1, "date": "2025-10-01", "amount": 250, "description": "Coffee", "category": "Food & Dining"},
			{"id": "b", "date": "2025-10-02", "amount": "2500.50", "description": "Groceries", "category": "Food & Dining"},
		}}
	})

	res := c.ListExpenses(context.Background(), "tok")
	if res.Err != nil {
		t.Fatalf("ListExpenses() error = %v", res.Err)
	}
	if len(res.Expenses) != 2 {
		t.Fatalf("got %d expenses", len(res.Expenses))
	}
	if res.Expenses[0].ID != "1" || res.Expenses[0].Value() != 250 {
		t.Fatalf("first expense = %+v", res.Expenses[0])
	}
	if res.Expenses[1].Value() != 2500.50 {
		t.Fatalf("second amount = %v", res.Expenses[1].Value())
	}
}

func TestListExpensesEmpty(t *testing.T) {
	c, _ := newTestClient(t, func(Request) any {
		return map[string]any{"success": true}
	})
	res := c.ListExpenses(context.Background(), "tok")
	if res.Err != nil || res.Expenses == nil || len(res.Expenses) != 0 {
		t.Fatalf("expected empty non-nil list, got %+v", res)
	}
}

func TestAddExpense(t *testing.T) {
	c, fb := newTestClient(t, func(r Request) any {
		return map[string]any{"success": true, "expense": map[string]any{
			"id": "srv-9", "date": r.Date, "amount": r.Amount, "description": r.Description,
			"category": "Food & Dining", "aiSummary": "Added expense for " + r.Description,
		}}
	})

	draft := core.Draft{Date: "2025-10-05", Amount: "120", Description: "Lunch"}
	res := c.AddExpense(context.Background(), "tok", draft)
	if res.Err != nil {
		t.Fatalf("AddExpense() error = %v", res.Err)
	}
	if res.Expense.ID != "srv-9" || res.Expense.Category != "Food & Dining" {
		t.Fatalf("expense = %+v", res.Expense)
	}
	if fb.request().Action != ActionAddExpense || fb.request().SessionToken != "tok" || fb.request().Draft() != draft {
		t.Fatalf("unexpected request: %+v", fb.request())
	}
}

func TestAddExpenseAssignsLocalID(t *testing.T) {
	t.Run("expense without id", func(t *testing.T) {
		c, _ := newTestClient(t, func(r Request) any {
			return map[string]any{"success": true, "expense": map[string]any{"date": r.Date, "amount": r.Amount, "description": r.Description}}
		})
		res := c.AddExpense(context.Background(), "tok", core.Draft{Date: "2025-10-05", Amount: "1", Description: "x"})
		if _, err := uuid.Parse(string(res.Expense.ID)); err != nil {
			t.Fatalf("expected uuid id, got %q", res.Expense.ID)
		}
	})

	t.Run("no expense in envelope", func(t *testing.T) {
		c, _ := newTestClient(t, func(Request) any {
			return map[string]any{"success": true}
		})
		draft := core.Draft{Date: "2025-10-05", Amount: "1", Description: "x"}
		res := c.AddExpense(context.Background(), "tok", draft)
		if res.Err != nil {
			t.Fatalf("AddExpense() error = %v", res.Err)
		}
		if res.Expense.ID == "" || res.Expense.Description != "x" || res.Expense.Date != draft.Date {
			t.Fatalf("expense = %+v", res.Expense)
		}
	})
}

func TestListCategories(t *testing.T) {
	c, _ := newTestClient(t, func(Request) any {
		return map[string]any{"success": true, "categories": []string{"Food & Dining", "Other"}}
	})
	res := c.ListCategories(context.Background(), "tok")
	if res.Err != nil || len(res.Categories) != 2 || res.Categories[1] != "Other" {
		t.Fatalf("ListCategories() = %+v", res)
	}
}

func TestTransportFailuresBecomeErrors(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, 2*time.Second, nil)
	ctx := context.Background()

	errs := map[string]error{
		ActionLogin:         c.Login(ctx, "demo", "demo123").Err,
		ActionAddExpense:    c.AddExpense(ctx, "tok", core.Draft{Date: "2025-10-01", Amount: "1", Description: "x"}).Err,
		ActionGetExpenses:   c.ListExpenses(ctx, "tok").Err,
		ActionGetCategories: c.ListCategories(ctx, "tok").Err,
	}
	for action, err := range errs {
		if !errors.Is(err, ErrTransport) {
			t.Errorf("%s: expected transport error, got %v", action, err)
		}
		var te *TransportError
		if !errors.As(err, &te) || te.Action != action {
			t.Errorf("%s: TransportError action mismatch: %v", action, err)
		}
		if errors.Is(err, ErrSessionExpired) {
			t.Errorf("%s: transport error must not look like expiry", action)
		}
		if Message(err) == "" {
			t.Errorf("%s: empty user message", action)
		}
	}
}

func TestNonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	res := NewClient(srv.URL, time.Second, nil).ListExpenses(context.Background(), "tok")
	var te *TransportError
	if !errors.As(res.Err, &te) {
		t.Fatalf("expected TransportError, got %v", res.Err)
	}
	if te.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d", te.StatusCode)
	}
}

func TestErrorEnvelopeWithErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"error":"Invalid or expired session"}`))
	}))
	defer srv.Close()

	res := NewClient(srv.URL, time.Second, nil).ListCategories(context.Background(), "tok")
	if !errors.Is(res.Err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", res.Err)
	}
}

func TestMissingBaseURL(t *testing.T) {
	c := NewClient("  ", time.Second, nil)
	res := c.Login(context.Background(), "demo", "demo123")
	if !errors.Is(res.Err, ErrNotConfigured) || !errors.Is(res.Err, ErrTransport) {
		t.Fatalf("expected not-configured transport error, got %v", res.Err)
	}
	if !strings.Contains(Message(res.Err), "API base URL is not configured") {
		t.Fatalf("Message() = %q", Message(res.Err))
	}
}

func TestContextCancellation(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	res := NewClient(srv.URL, 5*time.Second, nil).ListExpenses(ctx, "tok")
	if !errors.Is(res.Err, ErrTransport) || !errors.Is(res.Err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline transport error, got %v", res.Err)
	}
}

func TestSecretsNotLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{Level: slog.LevelDebug, Component: log.ComponentApp, Output: &buf})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"sessionToken":"secret-token-value"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, logger)
	if res := c.Login(context.Background(), "demo", "hunter2-password"); res.Err != nil {
		t.Fatalf("Login() error = %v", res.Err)
	}
	c.ListExpenses(context.Background(), "secret-token-value")

	out := buf.String()
	if out == "" {
		t.Fatal("expected debug output")
	}
	for _, secret := range []string{"hunter2-password", "secret-token-value"} {
		if strings.Contains(out, secret) {
			t.Fatalf("log output leaked %q: %s", secret, out)
		}
	}
}
