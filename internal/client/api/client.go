// Package api is the typed HTTP client for the PrintDesk server. It mirrors
// the server's endpoints one method per operation and translates HTTP error
// statuses back into the shared sentinel errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/printdesk/internal/common"
	"github.com/dmitrijs2005/printdesk/internal/server/models"
	"github.com/dmitrijs2005/printdesk/internal/server/services"
)

// Client talks to one server. It is not safe for concurrent use while the
// session token is being changed.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// NewClient constructs a Client for the given base URL, e.g.
// "http://127.0.0.1:8080".
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// SetToken installs the session token sent with every subsequent request.
func (c *Client) SetToken(token string) { c.token = token }

// Token returns the current session token.
func (c *Client) Token() string { return c.token }

type errorBody struct {
	Error string `json:"error"`
}

// errorFromStatus turns a non-2xx response into a sentinel error carrying the
// server's message.
func errorFromStatus(status int, msg string) error {
	var sentinel error
	switch status {
	case http.StatusBadRequest:
		sentinel = common.ErrValidation
	case http.StatusUnauthorized:
		sentinel = common.ErrorUnauthorized
	case http.StatusNotFound:
		sentinel = common.ErrorNotFound
	case http.StatusConflict:
		sentinel = common.ErrConflict
	default:
		sentinel = common.ErrorInternal
	}
	if msg == "" {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, msg)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(common.SessionTokenHeaderName, c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var eb errorBody
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		return errorFromStatus(resp.StatusCode, eb.Error)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// Ping checks server reachability.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/ping", nil, nil)
}

// --- auth ---

// RequestCode starts a sign-in and returns the temp token for VerifyCode.
func (c *Client) RequestCode(ctx context.Context, username string, sessionType models.SessionType) (string, error) {
	var out struct {
		TempToken string `json:"temp_token"`
	}
	err := c.do(ctx, http.MethodPost, "/auth/code", map[string]any{
		"username":     username,
		"session_type": sessionType,
	}, &out)
	return out.TempToken, err
}

// VerifyCode finishes a sign-in. On success the returned session's token is
// installed on the client.
func (c *Client) VerifyCode(ctx context.Context, tempToken, code string) (*models.Session, error) {
	var session models.Session
	err := c.do(ctx, http.MethodPost, "/auth/verify", map[string]string{
		"temp_token": tempToken,
		"code":       code,
	}, &session)
	if err != nil {
		return nil, err
	}
	c.token = session.Token
	return &session, nil
}

// Logout revokes the current session and clears the stored token.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil); err != nil {
		return err
	}
	c.token = ""
	return nil
}

// --- tasks ---

// CreateTask registers a new task offer (admin only).
func (c *Client) CreateTask(ctx context.Context, spec services.TaskSpec) (*models.Task, error) {
	var task models.Task
	err := c.do(ctx, http.MethodPost, "/tasks", spec, &task)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// ListTasks returns tasks, optionally filtered by status.
func (c *Client) ListTasks(ctx context.Context, status string) ([]*models.Task, error) {
	path := "/tasks"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var tasks []*models.Task
	if err := c.do(ctx, http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask returns one task by ID.
func (c *Client) GetTask(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodGet, "/tasks/"+url.PathEscape(id), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// ClaimTask claims an available task for the signed-in actor.
func (c *Client) ClaimTask(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodPost, "/tasks/"+url.PathEscape(id)+"/claim", nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// AdvanceTask moves the actor's task to the requested status. A breakdown
// snapshot may be attached for the completion charge; nil leaves the split
// to the server.
func (c *Client) AdvanceTask(ctx context.Context, id string, target models.TaskStatus, breakdown *models.Breakdown) (*models.Task, error) {
	body := map[string]any{"target": target}
	if breakdown != nil {
		body["breakdown"] = breakdown
	}
	var task models.Task
	if err := c.do(ctx, http.MethodPost, "/tasks/"+url.PathEscape(id)+"/advance", body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// CancelTask cancels a task. The assignee may cancel their own task; admins
// may cancel any.
func (c *Client) CancelTask(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodPost, "/tasks/"+url.PathEscape(id)+"/cancel", nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// --- ledger ---

// Balance holds an actor's computed ledger balance.
type Balance struct {
	Actor   string  `json:"actor"`
	Balance float64 `json:"balance"`
}

// GetBalance returns the signed-in actor's balance.
func (c *Client) GetBalance(ctx context.Context) (*Balance, error) {
	var b Balance
	if err := c.do(ctx, http.MethodGet, "/balance", nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// GetHistory returns the signed-in actor's ledger entries, oldest first.
func (c *Client) GetHistory(ctx context.Context) ([]*models.Transaction, error) {
	var history []*models.Transaction
	if err := c.do(ctx, http.MethodGet, "/transactions", nil, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// RecordTransaction appends a manual ledger entry (admin only).
func (c *Client) RecordTransaction(ctx context.Context, spec services.RecordSpec) (*models.Transaction, error) {
	var entry models.Transaction
	if err := c.do(ctx, http.MethodPost, "/transactions", spec, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// --- documents ---

// CreatedDocument bundles new document metadata with its presigned upload URL.
type CreatedDocument struct {
	Document  *models.Document `json:"document"`
	UploadURL string           `json:"upload_url"`
}

// CreateDocument registers a document and returns the upload URL (admin only).
func (c *Client) CreateDocument(ctx context.Context, title, description string) (*CreatedDocument, error) {
	var out CreatedDocument
	err := c.do(ctx, http.MethodPost, "/documents", map[string]string{
		"title":       title,
		"description": description,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListDocuments returns the document catalog.
func (c *Client) ListDocuments(ctx context.Context) ([]*models.Document, error) {
	var docs []*models.Document
	if err := c.do(ctx, http.MethodGet, "/documents", nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// GetDocumentURL returns a presigned download URL for the document.
func (c *Client) GetDocumentURL(ctx context.Context, id string) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodGet, "/documents/"+url.PathEscape(id)+"/url", nil, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}
