package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient(%q): %v", server.URL, err)
	}
	return client
}

func TestParseBaseURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"127.0.0.1:8081", "http://127.0.0.1:8081"},
		{"http://localhost:9000", "http://localhost:9000"},
		{"https://admin.example.com", "https://admin.example.com"},
		{"  host:1234  ", "http://host:1234"},
		{"", "http://" + defaultAPIBase},
		{"host:1234/some/path", "http://host:1234"},
	}
	for _, tt := range tests {
		u, err := parseBaseURL(tt.in)
		if err != nil {
			t.Errorf("parseBaseURL(%q): %v", tt.in, err)
			continue
		}
		if u.String() != tt.want {
			t.Errorf("parseBaseURL(%q) = %q, want %q", tt.in, u.String(), tt.want)
		}
	}
}

func TestLoginSendsFormEncoded(t *testing.T) {
	var gotContentType string
	var gotForm url.Values
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/admin/login" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotContentType = r.Header.Get("Content-Type")
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		gotForm = r.PostForm
		w.WriteHeader(http.StatusOK)
	}))

	if err := client.Login(context.Background(), "admin", "hunter22"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if gotContentType != "application/x-www-form-urlencoded" {
		t.Fatalf("content type = %q", gotContentType)
	}
	if gotForm.Get("username") != "admin" || gotForm.Get("password") != "hunter22" {
		t.Fatalf("form = %v", gotForm)
	}
}

func TestSessionCookiePersistsAcrossCalls(t *testing.T) {
	var sawCookie bool
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/admin/2fa-verify":
			http.SetCookie(w, &http.Cookie{Name: "SESSION", Value: "abc123", Path: "/"})
			w.WriteHeader(http.StatusOK)
		case "/api/admin/auth-status":
			cookie, err := r.Cookie("SESSION")
			sawCookie = err == nil && cookie.Value == "abc123"
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"authenticated":true}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	if err := client.VerifyCode(context.Background(), "admin", "123456"); err != nil {
		t.Fatalf("VerifyCode: %v", err)
	}
	status, err := client.AuthStatus(context.Background())
	if err != nil {
		t.Fatalf("AuthStatus: %v", err)
	}
	if !status.Authenticated {
		t.Fatal("status not authenticated")
	}
	if !sawCookie {
		t.Fatal("session cookie not carried to the second request")
	}
}

func TestFetchBooksQueryEncoding(t *testing.T) {
	var gotQuery url.Values
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"books":[],"currentPage":0,"totalPages":0,"totalElements":0}`))
	}))

	_, err := client.FetchBooks(context.Background(), BookQuery{
		SearchQuery: "le guin",
		SortBy:      "title",
		SortOrder:   "asc",
		Page:        2,
		Size:        10,
	})
	if err != nil {
		t.Fatalf("FetchBooks: %v", err)
	}

	want := map[string]string{
		"searchQuery": "le guin",
		"sortBy":      "title",
		"sortOrder":   "asc",
		"page":        "2",
		"size":        "10",
	}
	for key, value := range want {
		if got := gotQuery.Get(key); got != value {
			t.Errorf("query %s = %q, want %q", key, got, value)
		}
	}
}

func TestFetchOrdersOmitsEmptyFilters(t *testing.T) {
	var gotQuery url.Values
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":[],"number":0,"size":20,"totalPages":0,"totalElements":0}`))
	}))

	_, err := client.FetchOrders(context.Background(), OrderQuery{Page: 0, Size: 20})
	if err != nil {
		t.Fatalf("FetchOrders: %v", err)
	}

	for _, key := range []string{"orderId", "email", "status", "pickupPointId"} {
		if gotQuery.Has(key) {
			t.Errorf("empty filter %s was sent as %q", key, gotQuery.Get(key))
		}
	}
	if gotQuery.Get("page") != "0" {
		t.Errorf("page = %q, want 0", gotQuery.Get("page"))
	}
}

func TestUnauthorizedMapsToSentinel(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := client.FetchProfile(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestRemoteErrorCarriesServerMessage(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"Cannot change status of cancelled order"}`))
	}))

	_, err := client.UpdateOrderStatus(context.Background(), 7, OrderPaid)
	remote, ok := AsRemote(err)
	if !ok {
		t.Fatalf("err = %v, want RemoteError", err)
	}
	if remote.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", remote.StatusCode)
	}
	if !strings.Contains(remote.Error(), "Cannot change status of cancelled order") {
		t.Fatalf("message lost: %q", remote.Error())
	}
}

func TestRemoteErrorPlainTextBody(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("malformed request"))
	}))

	_, err := client.FetchReferences(context.Background())
	remote, ok := AsRemote(err)
	if !ok {
		t.Fatalf("err = %v, want RemoteError", err)
	}
	if !strings.Contains(remote.Error(), "malformed request") {
		t.Fatalf("plain text message lost: %q", remote.Error())
	}
}

func TestRequestHeadersSet(t *testing.T) {
	var gotAccept, gotRequestID string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"authenticated":false}`))
	}))

	if _, err := client.AuthStatus(context.Background()); err != nil {
		t.Fatalf("AuthStatus: %v", err)
	}
	if gotAccept != "application/json" {
		t.Fatalf("Accept = %q", gotAccept)
	}
	if gotRequestID == "" {
		t.Fatal("X-Request-ID missing")
	}
}

func TestUpdateItemStatusPath(t *testing.T) {
	var gotMethod, gotPath string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))

	if err := client.UpdateOrderItemStatus(context.Background(), 42, ItemDelivered); err != nil {
		t.Fatalf("UpdateOrderItemStatus: %v", err)
	}
	if gotMethod != http.MethodPatch || gotPath != "/api/admin/orders/items/42/status" {
		t.Fatalf("request = %s %s", gotMethod, gotPath)
	}
}
