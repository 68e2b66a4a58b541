package chatclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"nexus_chat_service/internal/chat/domain"

	"github.com/valyala/fasthttp"
)

// DefaultTimeout per request
const DefaultTimeout = 10 * time.Second

// StatusError non-2xx response from the chat service
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("chat api %d: %s", e.Code, e.Message)
}

// HTTPPersister talks to the chat service REST api
type HTTPPersister struct {
	baseURL string
	token   string
	timeout time.Duration
	client  *fasthttp.Client
}

// NewHTTPPersister baseURL like http://localhost:8082
func NewHTTPPersister(baseURL, token string, timeout time.Duration) *HTTPPersister {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPPersister{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		timeout: timeout,
		client: &fasthttp.Client{
			Name:                "nexus-chat-client",
			MaxIdleConnDuration: time.Minute,
		},
	}
}

// InsertMessage POST /messages; the local id travels as client_id
func (p *HTTPPersister) InsertMessage(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	req := domain.SendMessageRequest{
		ClientID:  msg.ClientID,
		TeamID:    msg.TeamID,
		ProjectID: msg.ProjectID,
		Content:   msg.Content,
		Metadata:  msg.Metadata,
	}
	var saved domain.Message
	if err := p.do(ctx, fasthttp.MethodPost, "/messages", nil, req, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// InsertSharedItems POST /shared-items
func (p *HTTPPersister) InsertSharedItems(ctx context.Context, items []domain.SharedItem) error {
	if len(items) == 0 {
		return nil
	}
	return p.do(ctx, fasthttp.MethodPost, "/shared-items", nil, items, nil)
}

// FetchProfile GET /profiles/:id
func (p *HTTPPersister) FetchProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	var profile domain.Profile
	if err := p.do(ctx, fasthttp.MethodGet, "/profiles/"+url.PathEscape(userID), nil, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ListMessages GET /messages, oldest first
func (p *HTTPPersister) ListMessages(ctx context.Context, scope domain.Scope, before time.Time, limit int) ([]domain.Message, error) {
	q := url.Values{}
	q.Set("team_id", scope.TeamID)
	if scope.ProjectID != nil {
		q.Set("project_id", *scope.ProjectID)
	}
	if !before.IsZero() {
		q.Set("before", before.UTC().Format(time.RFC3339Nano))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var msgs []domain.Message
	if err := p.do(ctx, fasthttp.MethodGet, "/messages", q, nil, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// ListNotifications GET /notifications
func (p *HTTPPersister) ListNotifications(ctx context.Context, limit int) ([]domain.Notification, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var list []domain.Notification
	if err := p.do(ctx, fasthttp.MethodGet, "/notifications", q, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (p *HTTPPersister) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timeout := p.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if d := time.Until(deadline); d < timeout {
			timeout = d
		}
	}
	if timeout <= 0 {
		return context.DeadlineExceeded
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	uri := p.baseURL + path
	if len(query) > 0 {
		uri += "?" + query.Encode()
	}
	req.SetRequestURI(uri)
	req.Header.SetMethod(method)
	req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+p.token)
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", path, err)
		}
		req.Header.SetContentType("application/json")
		req.SetBodyRaw(b)
	}

	if err := p.client.DoTimeout(req, resp, timeout); err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if code := resp.StatusCode(); code < 200 || code >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(resp.Body(), &e) != nil || e.Error == "" {
			e.Error = fasthttp.StatusMessage(code)
		}
		return &StatusError{Code: code, Message: e.Error}
	}

	if out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
