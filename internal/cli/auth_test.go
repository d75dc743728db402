package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/labelsheet/pkg/errors"
	"github.com/matzehuels/labelsheet/pkg/inventory"
	"github.com/matzehuels/labelsheet/pkg/session"
	"github.com/matzehuels/labelsheet/pkg/sheet"
)

// fakeInventory serves the three inventory API routes the CLI uses.
func fakeInventory(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "ana" || body["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"msg":"Invalid credentials"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(inventory.LoginResponse{
			Token: "tok",
			User:  inventory.User{ID: "u1", Username: "ana", Role: "staff", Faculty: "Science"},
		})
	})
	mux.HandleFunc("GET /api/inventory", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(inventory.TokenHeader) != "tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode([]inventory.Item{
			{ID: "1", SerialNumber: "EQ-0001", Category: "Equipment", SubCategory: "Scales", Status: inventory.StatusActive},
			{ID: "2", SerialNumber: "FU-0001", Category: "Furniture", SubCategory: "Chairs", Status: inventory.StatusActive},
			{ID: "3", SerialNumber: "EQ-0002", Category: "Equipment", SubCategory: "Pipettes", Status: inventory.StatusBroken},
		})
	})
	mux.HandleFunc("POST /api/inventory/batch", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(inventory.TokenHeader) != "tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var req inventory.BatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.Faculty != "Science" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"msg":"wrong faculty"}`))
			return
		}
		items := make([]inventory.Item, req.Count)
		for i := range items {
			items[i] = inventory.Item{
				SerialNumber: "BT-" + string(rune('A'+i)),
				Category:     req.Category,
				SubCategory:  req.SubCategory,
				Location:     inventory.Location{Faculty: req.Faculty, Room: req.Room},
			}
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(items)
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func saveTestSession(t *testing.T, baseURL string) {
	t.Helper()
	store, err := session.NewCLIStore("")
	if err != nil {
		t.Fatal(err)
	}
	user := &inventory.User{ID: "u1", Username: "ana", Faculty: "Science"}
	if err := store.SaveSession(context.Background(), session.New(baseURL, "tok", user, time.Hour)); err != nil {
		t.Fatal(err)
	}
}

func TestLoginLogout(t *testing.T) {
	c := testCLI(t)
	ts := fakeInventory(t)

	if _, err := execute(t, c, "wrong\n", "login", "--url", ts.URL, "-u", "ana", "--password-stdin"); !errors.Is(err, errors.ErrCodeInvalidInput) && !errors.Is(err, errors.ErrCodeUnauthorized) {
		t.Errorf("bad password: err = %v", err)
	}

	if _, err := execute(t, c, "secret\n", "login", "--url", ts.URL, "-u", "ana", "--password-stdin"); err != nil {
		t.Fatalf("login: %v", err)
	}
	sess, err := loadSession(context.Background())
	if err != nil {
		t.Fatalf("loadSession after login: %v", err)
	}
	if sess.Username() != "ana" || sess.Token != "tok" || sess.BaseURL != ts.URL {
		t.Errorf("session = %+v", sess)
	}

	if _, err := execute(t, c, "", "whoami"); err != nil {
		t.Errorf("whoami: %v", err)
	}

	if _, err := execute(t, c, "", "logout"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := loadSession(context.Background()); !errors.Is(err, errors.ErrCodeUnauthorized) {
		t.Errorf("loadSession after logout: err = %v, want UNAUTHORIZED", err)
	}
}

func TestLoginPasswordFromEnv(t *testing.T) {
	c := testCLI(t)
	ts := fakeInventory(t)
	t.Setenv(envPassword, "secret")

	if _, err := execute(t, c, "", "login", "--url", ts.URL, "-u", "ana"); err != nil {
		t.Fatalf("login: %v", err)
	}
}

func TestFetchRequiresLogin(t *testing.T) {
	c := testCLI(t)
	if _, err := execute(t, c, "", "fetch"); !errors.Is(err, errors.ErrCodeUnauthorized) {
		t.Errorf("fetch without login: err = %v, want UNAUTHORIZED", err)
	}
}

func TestFetchCommand(t *testing.T) {
	c := testCLI(t)
	ts := fakeInventory(t)
	saveTestSession(t, ts.URL)

	out, err := execute(t, c, "", "fetch", "--category", "Equipment", "--sort", "serialNumber", "--desc")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	var got []sheet.Record
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	want := []sheet.Record{
		{SerialNumber: "EQ-0002", Category: "Equipment", SubCategory: "Pipettes"},
		{SerialNumber: "EQ-0001", Category: "Equipment", SubCategory: "Scales"},
	}
	if len(got) != len(want) {
		t.Fatalf("fetch returned %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	path := filepath.Join(t.TempDir(), "items.json")
	if _, err := execute(t, c, "", "fetch", "-o", path, "--no-cache"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("fetch -o did not write the file: %v", err)
	}

	if _, err := execute(t, c, "", "fetch", "--sort", "colour"); err == nil {
		t.Error("unknown sort field accepted")
	}
	if _, err := execute(t, c, "", "fetch", "--source", "ldap"); err == nil {
		t.Error("unknown source accepted")
	}
	if _, err := execute(t, c, "", "fetch", "--source", "mongo"); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("mongo without uri: err = %v, want INVALID_CONFIG", err)
	}
}

func TestBatchCommand(t *testing.T) {
	c := testCLI(t)
	ts := fakeInventory(t)
	saveTestSession(t, ts.URL)
	dir := t.TempDir()
	export := filepath.Join(dir, "created.json")

	_, err := execute(t, c, "", "batch", "--count", "3", "--category", "Equipment", "--sub-category", "Scales",
		"--room", "B-204", "--export", export, "-o", filepath.Join(dir, "batch.pdf"), "--no-cache")
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "batch.pdf")); err != nil {
		t.Errorf("batch.pdf not written: %v", err)
	}
	data, err := os.ReadFile(export)
	if err != nil {
		t.Fatal(err)
	}
	var recs []sheet.Record
	if err := json.Unmarshal(data, &recs); err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 || recs[0].SerialNumber != "BT-A" || recs[2].SerialNumber != "BT-C" {
		t.Errorf("exported records = %+v", recs)
	}

	if _, err := execute(t, c, "", "batch", "--count", "0", "--category", "Equipment"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("count 0: err = %v, want INVALID_INPUT", err)
	}
}

func TestReadPasswordFromPipe(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stdin")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := f.WriteString("s3cret\n"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Seek(0, 0); err != nil {
		t.Fatal(err)
	}

	got, err := readPassword(f, bufio.NewReader(f))
	if err != nil {
		t.Fatalf("readPassword: %v", err)
	}
	if got != "s3cret" {
		t.Errorf("readPassword = %q, want s3cret", got)
	}

	got, err = readPassword(strings.NewReader("other\n"), bufio.NewReader(strings.NewReader("other\n")))
	if err != nil || got != "other" {
		t.Errorf("readPassword(reader) = %q, %v", got, err)
	}
}

func TestLoginPromptsForPassword(t *testing.T) {
	c := testCLI(t)
	ts := fakeInventory(t)

	if _, err := execute(t, c, "ana\nsecret\n", "login", "--url", ts.URL); err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess, err := loadSession(context.Background()); err != nil || sess.Username() != "ana" {
		t.Errorf("session after prompted login = %+v, %v", sess, err)
	}
}
