// Package api implements the REST/JSON client for the remote record
// store. The store is an external collaborator: this client only
// shuttles records and surfaces non-2xx responses as typed failures,
// it never interprets server-side error detail.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"bilans/internal/core"
	"bilans/internal/session"
	"bilans/internal/stats"
)

// StatusError is a non-2xx response from the remote store. Body carries
// whatever the server said, treated as an opaque message.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("remote store: status %d", e.Status)
	}
	return fmt.Sprintf("remote store: status %d: %s", e.Status, e.Body)
}

// Client talks to the remote record store.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ session.RecordStore = (*Client)(nil)

// New creates a client for the given base URL. The timeout bounds every
// request; a zero timeout leaves requests unbounded.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// ListExpenses fetches the full expense collection.
func (c *Client) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	var out []core.Expense
	if err := c.do(ctx, http.MethodGet, "/expenses", nil, &out); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return out, nil
}

// CreateExpense commits a new expense and returns the stored record
// with its assigned id.
func (c *Client) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	var out core.Expense
	if err := c.do(ctx, http.MethodPost, "/expenses", e, &out); err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	return out, nil
}

// UpdateExpense replaces the record with the given id.
func (c *Client) UpdateExpense(ctx context.Context, id int64, e core.Expense) (core.Expense, error) {
	var out core.Expense
	if err := c.do(ctx, http.MethodPut, "/expenses/"+strconv.FormatInt(id, 10), e, &out); err != nil {
		return core.Expense{}, fmt.Errorf("update expense %d: %w", id, err)
	}
	return out, nil
}

// DeleteExpense removes the record with the given id.
func (c *Client) DeleteExpense(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, "/expenses/"+strconv.FormatInt(id, 10), nil, nil); err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	return nil
}

// ListIncomes fetches the full income collection.
func (c *Client) ListIncomes(ctx context.Context) ([]core.Income, error) {
	var out []core.Income
	if err := c.do(ctx, http.MethodGet, "/incomes", nil, &out); err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	return out, nil
}

// CreateIncome commits a new income record.
func (c *Client) CreateIncome(ctx context.Context, in core.Income) (core.Income, error) {
	var out core.Income
	if err := c.do(ctx, http.MethodPost, "/incomes", in, &out); err != nil {
		return core.Income{}, fmt.Errorf("create income: %w", err)
	}
	return out, nil
}

// DeleteIncome removes the income record with the given id.
func (c *Client) DeleteIncome(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, "/incomes/"+strconv.FormatInt(id, 10), nil, nil); err != nil {
		return fmt.Errorf("delete income %d: %w", id, err)
	}
	return nil
}

// IncomeTotals fetches the server-side income aggregate for the filter.
// Wildcard dimensions are omitted from the query entirely.
func (c *Client) IncomeTotals(ctx context.Context, filter stats.Filter) (stats.IncomeTotals, error) {
	q := url.Values{}
	if filter.Year != "" && filter.Year != stats.All {
		q.Set("year", filter.Year)
	}
	if filter.Month != "" && filter.Month != stats.All {
		if m, err := strconv.Atoi(filter.Month); err == nil {
			q.Set("month", strconv.Itoa(m))
		}
	}
	path := "/incomes/stats"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out stats.IncomeTotals
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return stats.IncomeTotals{}, fmt.Errorf("income totals: %w", err)
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	slog.DebugContext(ctx, "Remote store call",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(detail))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
