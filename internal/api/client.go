package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matonneli/bookstore-admin/internal/logging"
)

// Backend defines the admin API surface the rest of the client depends on.
// This interface is implemented by *Client and can be used for testing.
type Backend interface {
	Login(ctx context.Context, username, password string) error
	VerifyCode(ctx context.Context, username, code string) error
	AuthStatus(ctx context.Context) (AuthStatus, error)
	FetchProfile(ctx context.Context) (*Profile, error)
	Logout(ctx context.Context) error

	FetchReferences(ctx context.Context) (*ReferenceData, error)
	CreateAuthor(ctx context.Context, fullName string) (*Author, error)
	UpdateAuthor(ctx context.Context, id int, fullName string) (*Author, error)

	FetchBooks(ctx context.Context, query BookQuery) (*BookPage, error)
	FetchBookForEdit(ctx context.Context, id int) (*Book, error)
	CreateBook(ctx context.Context, payload BookUpdate) (*Book, error)
	UpdateBook(ctx context.Context, id int, payload BookUpdate) (*Book, error)

	FetchOrders(ctx context.Context, query OrderQuery) (*OrderPage, error)
	FetchOrderDetail(ctx context.Context, orderID int) (*OrderDetail, error)
	UpdateOrderStatus(ctx context.Context, orderID int, status string) (*OrderSummary, error)
	UpdateOrderItemStatus(ctx context.Context, orderItemID int, status string) error

	FetchWorkers(ctx context.Context) ([]Worker, error)
	CreateWorker(ctx context.Context, payload WorkerCreate) (*Worker, error)
	UpdateWorker(ctx context.Context, adminID int, payload WorkerUpdate) (*Worker, error)
	DeleteWorker(ctx context.Context, adminID int) error
}

// Ensure Client implements Backend at compile time.
var _ Backend = (*Client)(nil)

// Client talks to the bookstore admin HTTP API. Authentication rides on the
// backend session cookie, which the jar carries automatically.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultAPIBase   = "127.0.0.1:8081"
	defaultUserAgent = "bookadm/0.1"
	requestTimeout   = 10 * time.Second
)

// NewClient builds a Client using the provided apiBase host:port value.
func NewClient(apiBase string) (*Client, error) {
	base, err := parseBaseURL(apiBase)
	if err != nil {
		return nil, err
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("init cookie jar: %w", err)
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
			Jar:     jar,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// Login submits the primary credentials. Success means a second factor is now
// pending; the session is NOT authenticated yet.
func (c *Client) Login(ctx context.Context, username, password string) error {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	return c.postForm(ctx, "/api/admin/login", form, nil)
}

// VerifyCode submits the second-factor code, establishing the session cookie.
func (c *Client) VerifyCode(ctx context.Context, username, code string) error {
	form := url.Values{}
	form.Set("username", username)
	form.Set("code", code)
	return c.postForm(ctx, "/api/admin/2fa-verify", form, nil)
}

// AuthStatus asks the backend whether the current session is valid.
func (c *Client) AuthStatus(ctx context.Context) (AuthStatus, error) {
	var payload AuthStatus
	if err := c.do(ctx, http.MethodGet, "/api/admin/auth-status", nil, &payload); err != nil {
		return AuthStatus{}, err
	}
	return payload, nil
}

// FetchProfile retrieves the account snapshot for the signed-in staff member.
func (c *Client) FetchProfile(ctx context.Context) (*Profile, error) {
	var payload Profile
	if err := c.do(ctx, http.MethodGet, "/api/admin/profile", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Logout invalidates the backend session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/admin/logout", nil, nil)
}

// FetchReferences retrieves all lookup collections in one call.
func (c *Client) FetchReferences(ctx context.Context) (*ReferenceData, error) {
	var payload ReferenceData
	if err := c.do(ctx, http.MethodGet, "/api/admin/references", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// CreateAuthor adds a catalog author and returns the stored entry.
func (c *Client) CreateAuthor(ctx context.Context, fullName string) (*Author, error) {
	var payload Author
	body := map[string]string{"fullName": fullName}
	if err := c.do(ctx, http.MethodPost, "/api/admin/authors", body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// UpdateAuthor replaces an author's data and returns the stored entry.
func (c *Client) UpdateAuthor(ctx context.Context, id int, fullName string) (*Author, error) {
	var payload Author
	body := map[string]string{"fullName": fullName}
	if err := c.do(ctx, http.MethodPut, "/api/admin/authors/"+strconv.Itoa(id), body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchBooks retrieves one page of the admin book catalog.
func (c *Client) FetchBooks(ctx context.Context, query BookQuery) (*BookPage, error) {
	values := url.Values{}
	if q := strings.TrimSpace(query.SearchQuery); q != "" {
		values.Set("searchQuery", q)
	}
	if sortBy := strings.TrimSpace(query.SortBy); sortBy != "" {
		values.Set("sortBy", sortBy)
	}
	if order := strings.TrimSpace(query.SortOrder); order != "" {
		values.Set("sortOrder", order)
	}
	values.Set("page", strconv.Itoa(query.Page))
	if query.Size > 0 {
		values.Set("size", strconv.Itoa(query.Size))
	}
	rel := &url.URL{Path: "/api/admin/books", RawQuery: values.Encode()}
	var payload BookPage
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchBookForEdit retrieves the full editable view of one book.
func (c *Client) FetchBookForEdit(ctx context.Context, id int) (*Book, error) {
	var payload Book
	if err := c.do(ctx, http.MethodGet, "/api/admin/books/"+strconv.Itoa(id)+"/edit", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// CreateBook adds a catalog entry and returns the stored book.
func (c *Client) CreateBook(ctx context.Context, payload BookUpdate) (*Book, error) {
	var book Book
	if err := c.do(ctx, http.MethodPost, "/api/admin/books", payload, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// UpdateBook patches a catalog entry and returns the stored book.
func (c *Client) UpdateBook(ctx context.Context, id int, payload BookUpdate) (*Book, error) {
	var book Book
	if err := c.do(ctx, http.MethodPatch, "/api/admin/books/"+strconv.Itoa(id), payload, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// FetchOrders retrieves one page of orders matching the filters.
func (c *Client) FetchOrders(ctx context.Context, query OrderQuery) (*OrderPage, error) {
	values := url.Values{}
	if query.OrderID > 0 {
		values.Set("orderId", strconv.Itoa(query.OrderID))
	}
	if email := strings.TrimSpace(query.Email); email != "" {
		values.Set("email", email)
	}
	if status := strings.TrimSpace(query.Status); status != "" {
		values.Set("status", status)
	}
	if query.PickupPointID > 0 {
		values.Set("pickupPointId", strconv.Itoa(query.PickupPointID))
	}
	if dir := strings.TrimSpace(query.SortDirection); dir != "" {
		values.Set("sortDirection", dir)
	}
	values.Set("page", strconv.Itoa(query.Page))
	if query.Size > 0 {
		values.Set("size", strconv.Itoa(query.Size))
	}
	rel := &url.URL{Path: "/api/admin/orders", RawQuery: values.Encode()}
	var payload OrderPage
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchOrderDetail retrieves the item-level view of one order.
func (c *Client) FetchOrderDetail(ctx context.Context, orderID int) (*OrderDetail, error) {
	var payload OrderDetail
	if err := c.do(ctx, http.MethodGet, "/api/admin/orders/"+strconv.Itoa(orderID), nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// UpdateOrderStatus transitions an order and returns the updated resource as
// the server confirmed it.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID int, status string) (*OrderSummary, error) {
	var payload OrderSummary
	body := map[string]string{"status": status}
	path := "/api/admin/orders/" + strconv.Itoa(orderID) + "/status"
	if err := c.do(ctx, http.MethodPatch, path, body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// UpdateOrderItemStatus transitions a single order item.
func (c *Client) UpdateOrderItemStatus(ctx context.Context, orderItemID int, status string) error {
	body := map[string]string{"status": status}
	path := "/api/admin/orders/items/" + strconv.Itoa(orderItemID) + "/status"
	return c.do(ctx, http.MethodPatch, path, body, nil)
}

// FetchWorkers retrieves all staff accounts.
func (c *Client) FetchWorkers(ctx context.Context) ([]Worker, error) {
	var payload []Worker
	if err := c.do(ctx, http.MethodGet, "/api/admin/workers", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// CreateWorker adds a staff account and returns the stored entry.
func (c *Client) CreateWorker(ctx context.Context, payload WorkerCreate) (*Worker, error) {
	var worker Worker
	if err := c.do(ctx, http.MethodPost, "/api/admin/workers", payload, &worker); err != nil {
		return nil, err
	}
	return &worker, nil
}

// UpdateWorker replaces a staff account and returns the stored entry.
func (c *Client) UpdateWorker(ctx context.Context, adminID int, payload WorkerUpdate) (*Worker, error) {
	var worker Worker
	if err := c.do(ctx, http.MethodPut, "/api/admin/workers/"+strconv.Itoa(adminID), payload, &worker); err != nil {
		return nil, err
	}
	return &worker, nil
}

// DeleteWorker removes a staff account.
func (c *Client) DeleteWorker(ctx context.Context, adminID int) error {
	return c.do(ctx, http.MethodDelete, "/api/admin/workers/"+strconv.Itoa(adminID), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	return c.doURL(ctx, method, rel, body, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, rel.Path, dest)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL.String(), strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.send(req, path, dest)
}

func (c *Client) send(req *http.Request, path string, dest any) error {
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		logger := logging.Get()
		logger.Warn().
			Str("request_id", requestID).
			Str("path", path).
			Msg("backend rejected session")
		return ErrUnauthorized
	}
	if resp.StatusCode >= 400 {
		return &RemoteError{StatusCode: resp.StatusCode, Message: readMessage(resp.Body)}
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// readMessage extracts the server's error message from a 4xx/5xx body. The
// backend answers either {"message": "..."} or plain text.
func readMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(raw))
}

func parseBaseURL(apiBase string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBase)
	if trimmed == "" {
		trimmed = defaultAPIBase
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_base %q: %w", apiBase, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
