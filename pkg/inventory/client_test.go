package inventory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/labelsheet/pkg/cache"
	"github.com/matzehuels/labelsheet/pkg/errors"
)

func newTestClient(t *testing.T, h http.Handler, c cache.Cache) *Client {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, c, nil)
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	client.http = server.Client()
	client.retryDelay = time.Millisecond
	return client
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"http://localhost:5000", false},
		{"https://inventory.example.edu/", false},
		{"", true},
		{"ftp://inventory.example.edu", true},
	}
	for _, tt := range tests {
		c, err := NewClient(tt.url, nil, nil)
		if (err != nil) != tt.wantErr {
			t.Errorf("NewClient(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			continue
		}
		if err == nil && c.BaseURL()[len(c.BaseURL())-1] == '/' {
			t.Errorf("BaseURL() = %q, want no trailing slash", c.BaseURL())
		}
	}
}

func TestLogin(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != pathLogin {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "admin" || body["password"] != "secret" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(apiError{Msg: "Invalid Credentials"})
			return
		}
		json.NewEncoder(w).Encode(LoginResponse{Token: "tok", User: User{ID: "1", Username: "admin", Faculty: "Science"}})
	}), nil)

	resp, authed, err := client.Login(context.Background(), "admin", "secret")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if resp.Token != "tok" || resp.User.Faculty != "Science" {
		t.Errorf("Login() = %+v", resp)
	}
	if authed.token != "tok" {
		t.Errorf("returned client token = %q, want tok", authed.token)
	}
	if client.token != "" {
		t.Error("Login() mutated the receiver")
	}

	_, _, err = client.Login(context.Background(), "admin", "wrong")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad credentials: err = %v, want INVALID_INPUT", err)
	}
	if got := errors.UserMessage(err); got != "Invalid Credentials" {
		t.Errorf("UserMessage = %q", got)
	}

	if _, _, err := client.Login(context.Background(), "", ""); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("empty credentials: err = %v", err)
	}
}

func TestListSendsTokenAndCaches(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if got := r.Header.Get(TokenHeader); got != "tok" {
			t.Errorf("%s = %q, want tok", TokenHeader, got)
		}
		json.NewEncoder(w).Encode([]Item{
			{ID: "a", SerialNumber: "SN-1", Category: "Chemicals", SubCategory: "Acids"},
			{ID: "b", SerialNumber: "SN-2", Category: "Equipment", SubCategory: "Scales"},
		})
	}), mustFileCache(t)).WithToken("tok")

	ctx := context.Background()
	for range 2 {
		items, err := client.List(ctx, false)
		if err != nil {
			t.Fatalf("List() error: %v", err)
		}
		if len(items) != 2 || items[1].SerialNumber != "SN-2" {
			t.Errorf("List() = %+v", items)
		}
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("server calls = %d, want 1 (second List cached)", n)
	}

	if _, err := client.List(ctx, true); err != nil {
		t.Fatal(err)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("server calls after refresh = %d, want 2", n)
	}
}

func TestListRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`[{"_id":"x","serialNumber":"SN-9","category":"C","subCategory":"S"}]`))
	}), nil)

	items, err := client.List(context.Background(), false)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(items) != 1 || items[0].SerialNumber != "SN-9" {
		t.Errorf("List() = %+v", items)
	}
	if n := calls.Load(); n != 3 {
		t.Errorf("calls = %d, want 3", n)
	}
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   errors.Code
		calls  int32
	}{
		{http.StatusUnauthorized, errors.ErrCodeUnauthorized, 1},
		{http.StatusForbidden, errors.ErrCodeUnauthorized, 1},
		{http.StatusNotFound, errors.ErrCodeNotFound, 1},
		{http.StatusTeapot, errors.ErrCodeNetwork, 1},
		{http.StatusServiceUnavailable, errors.ErrCodeNetwork, retryAttempts},
	}
	for _, tt := range tests {
		var calls atomic.Int32
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(tt.status)
		}), nil)

		_, err := client.List(context.Background(), false)
		if got := errors.GetCode(err); got != tt.want {
			t.Errorf("status %d: code = %q, want %q", tt.status, got, tt.want)
		}
		if n := calls.Load(); n != tt.calls {
			t.Errorf("status %d: calls = %d, want %d", tt.status, n, tt.calls)
		}
	}
}

func TestCreateBatch(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Method != http.MethodPost || r.URL.Path != pathBatch {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		var req BatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode body: %v", err)
			return
		}
		if req.Faculty != DefaultFaculty {
			t.Errorf("faculty = %q, want %q", req.Faculty, DefaultFaculty)
		}
		items := make([]Item, req.Count)
		for i := range items {
			items[i] = Item{SerialNumber: "CH-" + string(rune('A'+i)), Category: req.Category, SubCategory: req.SubCategory}
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(items)
	}), nil).WithToken("tok")

	items, err := client.CreateBatch(context.Background(), BatchRequest{Count: 3, Category: "Chemicals", SubCategory: "Acids", Room: "B12"})
	if err != nil {
		t.Fatalf("CreateBatch() error: %v", err)
	}
	if len(items) != 3 || items[2].SerialNumber != "CH-C" {
		t.Errorf("CreateBatch() = %+v", items)
	}

	if _, err := client.CreateBatch(context.Background(), BatchRequest{Count: 0, Category: "x"}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("count 0: err = %v", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("calls = %d, want 1 (invalid batch not sent)", n)
	}
}

func TestCreateBatchNotRetried(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}), nil)

	_, err := client.CreateBatch(context.Background(), BatchRequest{Count: 1, Category: "Equipment"})
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("err = %v, want NETWORK_ERROR", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("calls = %d, want 1", n)
	}
}

func mustFileCache(t *testing.T) cache.Cache {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return c
}
