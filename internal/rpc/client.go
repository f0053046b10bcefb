// Package rpc talks to the remote expense service: a single URL that accepts
// a JSON body discriminated by "action" and answers with a JSON envelope.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"expensetrack/internal/core"
	"expensetrack/internal/log"
)

const maxResponseBytes = 4 << 20

// Client communicates with the expense service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *log.Logger
}

// NewClient creates a client for baseURL. An empty baseURL is accepted; every
// call then fails with ErrNotConfigured.
func NewClient(baseURL string, timeout time.Duration, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Discard()
	}
	return &Client{
		baseURL: strings.TrimSpace(baseURL),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: logger.WithComponent(log.ComponentRPC),
	}
}

// Login exchanges credentials for a session token. It never persists the token.
func (c *Client) Login(ctx context.Context, username, password string) LoginResult {
	env, err := c.call(ctx, ActionLogin, loginRequest{
		Action:   ActionLogin,
		Username: username,
		Password: password,
	})
	if err != nil {
		return LoginResult{Err: err}
	}
	if env.SessionToken == "" {
		return LoginResult{Err: &BusinessError{
			Action:  ActionLogin,
			Message: "Login failed: the expense service did not return a session token",
			Err:     ErrMissingToken,
		}}
	}
	return LoginResult{Token: env.SessionToken}
}

// AddExpense submits a draft and returns the expense as stored by the backend.
func (c *Client) AddExpense(ctx context.Context, token string, draft core.Draft) AddExpenseResult {
	env, err := c.call(ctx, ActionAddExpense, addExpenseRequest{
		Action:       ActionAddExpense,
		SessionToken: token,
		Draft:        draft,
	})
	if err != nil {
		return AddExpenseResult{Err: err}
	}

	var e core.Expense
	if env.Expense != nil {
		e = *env.Expense
	} else {
		e = core.Expense{Date: draft.Date, Amount: draft.Amount, Description: draft.Description}
	}
	if e.ID == "" {
		e.ID = core.ID(uuid.NewString())
		c.log.DebugContext(ctx, "Backend omitted expense id, assigned local id", log.FieldExpenseID, string(e.ID))
	}
	return AddExpenseResult{Expense: e}
}

// ListExpenses fetches every expense visible to the session, in backend order.
func (c *Client) ListExpenses(ctx context.Context, token string) ListExpensesResult {
	env, err := c.call(ctx, ActionGetExpenses, sessionRequest{Action: ActionGetExpenses, SessionToken: token})
	if err != nil {
		return ListExpensesResult{Err: err}
	}
	expenses := env.Expenses
	if expenses == nil {
		expenses = []core.Expense{}
	}
	return ListExpensesResult{Expenses: expenses}
}

// ListCategories fetches the category labels known to the backend.
func (c *Client) ListCategories(ctx context.Context, token string) ListCategoriesResult {
	env, err := c.call(ctx, ActionGetCategories, sessionRequest{Action: ActionGetCategories, SessionToken: token})
	if err != nil {
		return ListCategoriesResult{Err: err}
	}
	categories := env.Categories
	if categories == nil {
		categories = []string{}
	}
	return ListCategoriesResult{Categories: categories}
}

// call performs one exchange. The returned envelope always has Success set;
// failures come back as *TransportError or *BusinessError.
func (c *Client) call(ctx context.Context, action string, payload any) (*Envelope, error) {
	if c.baseURL == "" {
		c.log.WarnContext(ctx, "Request skipped, no base URL", log.FieldAction, action, log.FieldErrorType, log.ErrorTypeConfiguration)
		return nil, &TransportError{Action: action, Err: ErrNotConfigured}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &TransportError{Action: action, Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Action: action, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	c.log.DebugContext(ctx, "Sending request", log.FieldAction, action)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		fields := log.NewFields().WithAction(action).WithError(err)
		fields[log.FieldErrorType] = log.ErrorTypeNetwork
		c.log.WarnContext(ctx, "Request failed", fields.ToSlice()...)
		return nil, &TransportError{Action: action, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{Action: action, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.log.WarnContext(ctx, "Response is not an envelope",
			log.FieldAction, action,
			log.FieldStatusCode, resp.StatusCode,
			log.FieldError, err.Error())
		return nil, &TransportError{Action: action, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	c.log.DebugContext(ctx, "Received response",
		log.FieldAction, action,
		log.FieldStatusCode, resp.StatusCode,
		log.FieldSuccess, env.Success,
		log.FieldDuration, time.Since(start).Milliseconds())

	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = fmt.Sprintf("%s request was rejected", action)
		}
		errType := log.ErrorTypeBusiness
		if IsSessionExpired(msg) {
			errType = log.ErrorTypeSessionExpired
		}
		c.log.InfoContext(ctx, "Request rejected by backend", log.FieldAction, action, log.FieldErrorType, errType)
		return nil, &BusinessError{Action: action, Message: msg}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &TransportError{Action: action, StatusCode: resp.StatusCode, Err: errors.New("unexpected status")}
	}
	return &env, nil
}
