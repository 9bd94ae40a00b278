package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"forecourt/internal/amqp"
	"forecourt/internal/config"
	"forecourt/internal/storage"
)

type fakePublisher struct {
	mu       sync.Mutex
	messages []*amqp.ImportJobMessage
	err      error
}

func (p *fakePublisher) PublishImportJob(ctx context.Context, msg *amqp.ImportJobMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, msg)
	return nil
}

func (p *fakePublisher) published() []*amqp.ImportJobMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*amqp.ImportJobMessage(nil), p.messages...)
}

func newTestServer(t *testing.T) (*Server, http.Handler, *fakePublisher) {
	t.Helper()

	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	publisher := &fakePublisher{}
	cfg := config.Config{
		JWTSecret:         "test-secret-0123456789",
		TokenTTL:          time.Hour,
		ImportDir:         t.TempDir(),
		ReportCacheTTL:    time.Minute,
		RequestsPerMinute: 10000,
	}
	srv := NewServer(cfg, repo, publisher)
	t.Cleanup(srv.Close)
	return srv, srv.Router(), publisher
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dest); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

// registerOwner bootstraps the first account and returns its token.
func registerOwner(t *testing.T, handler http.Handler) string {
	t.Helper()
	rec := doJSON(t, handler, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "boss",
		"password": "letmein-please",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("bootstrap register: got %d, body %s", rec.Code, rec.Body.String())
	}
	var resp authResponse
	decodeBody(t, rec, &resp)
	if resp.User.Role != "owner" {
		t.Fatalf("bootstrap role = %q, want owner", resp.User.Role)
	}
	return resp.Token
}

func registerAs(t *testing.T, handler http.Handler, ownerToken, username, role string) string {
	t.Helper()
	rec := doJSON(t, handler, http.MethodPost, "/auth/register", ownerToken, map[string]string{
		"username": username,
		"password": "letmein-please",
		"role":     role,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: got %d, body %s", username, rec.Code, rec.Body.String())
	}
	var resp authResponse
	decodeBody(t, rec, &resp)
	return resp.Token
}

func saleBody(date string) map[string]any {
	return map[string]any{
		"date":               date,
		"fuel_gallons":       1203.4,
		"fuel_revenue_cents": 438017,
		"inside_sales_cents": 98210,
		"card_total_cents":   400000,
		"cash_total_cents":   136227,
		"status":             "draft",
	}
}

func TestRegisterBootstrapAndGuard(t *testing.T) {
	_, handler, _ := newTestServer(t)

	ownerToken := registerOwner(t, handler)

	// Once an owner exists, anonymous registration is refused.
	rec := doJSON(t, handler, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "drifter",
		"password": "letmein-please",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous register after bootstrap: got %d, want 401", rec.Code)
	}

	// Cashiers cannot create accounts.
	cashierToken := registerAs(t, handler, ownerToken, "till", "cashier")
	rec = doJSON(t, handler, http.MethodPost, "/auth/register", cashierToken, map[string]string{
		"username": "friend",
		"password": "letmein-please",
		"role":     "cashier",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("cashier register: got %d, want 403", rec.Code)
	}

	// Bad role is a validation error.
	rec = doJSON(t, handler, http.MethodPost, "/auth/register", ownerToken, map[string]string{
		"username": "friend",
		"password": "letmein-please",
		"role":     "janitor",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid role: got %d, want 422", rec.Code)
	}
}

func TestLoginAndResetPassword(t *testing.T) {
	_, handler, _ := newTestServer(t)
	registerOwner(t, handler)

	rec := doJSON(t, handler, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "boss",
		"password": "wrong-password",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: got %d, want 401", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "boss",
		"password": "letmein-please",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: got %d, body %s", rec.Code, rec.Body.String())
	}
	var resp authResponse
	decodeBody(t, rec, &resp)

	rec = doJSON(t, handler, http.MethodPost, "/auth/reset-password", resp.Token, map[string]string{
		"current_password": "not-it",
		"new_password":     "brand-new-pass",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("reset with wrong current: got %d, want 401", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodPost, "/auth/reset-password", resp.Token, map[string]string{
		"current_password": "letmein-please",
		"new_password":     "brand-new-pass",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("reset: got %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, handler, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "boss",
		"password": "letmein-please",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("old password after reset: got %d, want 401", rec.Code)
	}
	rec = doJSON(t, handler, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "boss",
		"password": "brand-new-pass",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("new password after reset: got %d", rec.Code)
	}
}

func TestSalesCRUD(t *testing.T) {
	_, handler, _ := newTestServer(t)
	token := registerOwner(t, handler)

	rec := doJSON(t, handler, http.MethodPost, "/sales", token, saleBody("2026-03-01"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create sale: got %d, body %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, rec, &created)
	if created.ID == 0 {
		t.Fatal("create sale: missing id")
	}

	// Second record for the same date conflicts.
	rec = doJSON(t, handler, http.MethodPost, "/sales", token, saleBody("2026-03-01"))
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate date: got %d, want 409", rec.Code)
	}

	// Missing status fails validation.
	bad := saleBody("2026-03-02")
	delete(bad, "status")
	rec = doJSON(t, handler, http.MethodPost, "/sales", token, bad)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid sale: got %d, want 422", rec.Code)
	}

	updated := saleBody("2026-03-01")
	updated["status"] = "final"
	updated["notes"] = "verified against register tape"
	rec = doJSON(t, handler, http.MethodPut, fmt.Sprintf("/sales/%d", created.ID), token, updated)
	if rec.Code != http.StatusOK {
		t.Fatalf("update sale: got %d, body %s", rec.Code, rec.Body.String())
	}
	var afterUpdate struct {
		Status string `json:"status"`
		Notes  string `json:"notes"`
	}
	decodeBody(t, rec, &afterUpdate)
	if afterUpdate.Status != "final" || afterUpdate.Notes != "verified against register tape" {
		t.Fatalf("update sale: got %+v", afterUpdate)
	}

	rec = doJSON(t, handler, http.MethodDelete, fmt.Sprintf("/sales/%d", created.ID), token, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete sale: got %d", rec.Code)
	}
	rec = doJSON(t, handler, http.MethodDelete, fmt.Sprintf("/sales/%d", created.ID), token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("delete missing sale: got %d, want 404", rec.Code)
	}
}

func TestSalesListEnvelope(t *testing.T) {
	_, handler, _ := newTestServer(t)
	token := registerOwner(t, handler)

	for day := 1; day <= 3; day++ {
		rec := doJSON(t, handler, http.MethodPost, "/sales", token, saleBody(fmt.Sprintf("2026-03-%02d", day)))
		if rec.Code != http.StatusCreated {
			t.Fatalf("seed sale %d: got %d", day, rec.Code)
		}
	}

	rec := doJSON(t, handler, http.MethodGet, "/sales?sortField=date&sortDirection=asc", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list sales: got %d, body %s", rec.Code, rec.Body.String())
	}
	var page struct {
		Data []struct {
			Date string `json:"date"`
		} `json:"data"`
		CurrentPage int `json:"current_page"`
		LastPage    int `json:"last_page"`
		Total       int `json:"total"`
	}
	decodeBody(t, rec, &page)
	if page.Total != 3 || page.CurrentPage != 1 || page.LastPage != 1 {
		t.Fatalf("envelope = %+v", page)
	}
	if len(page.Data) != 3 || page.Data[0].Date != "2026-03-01" {
		t.Fatalf("data = %+v", page.Data)
	}

	// Out-of-range pages clamp to the last page instead of going empty.
	rec = doJSON(t, handler, http.MethodGet, "/sales?page=99", token, nil)
	decodeBody(t, rec, &page)
	if page.CurrentPage != 1 || len(page.Data) != 3 {
		t.Fatalf("clamped envelope = %+v", page)
	}
}

func TestRoleEnforcement(t *testing.T) {
	_, handler, _ := newTestServer(t)
	ownerToken := registerOwner(t, handler)
	cashierToken := registerAs(t, handler, ownerToken, "till", "cashier")
	managerToken := registerAs(t, handler, ownerToken, "shift-lead", "manager")

	rec := doJSON(t, handler, http.MethodPost, "/sales", ownerToken, saleBody("2026-03-01"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed sale: got %d", rec.Code)
	}
	var sale struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, rec, &sale)

	cases := []struct {
		name   string
		token  string
		method string
		path   string
		body   any
		want   int
	}{
		{"no token", "", http.MethodGet, "/sales", nil, http.StatusUnauthorized},
		{"cashier reads sales", cashierToken, http.MethodGet, "/sales", nil, http.StatusOK},
		{"cashier creates sale", cashierToken, http.MethodPost, "/sales", saleBody("2026-03-02"), http.StatusCreated},
		{"cashier cannot delete sale", cashierToken, http.MethodDelete, fmt.Sprintf("/sales/%d", sale.ID), nil, http.StatusForbidden},
		{"cashier cannot read loans", cashierToken, http.MethodGet, "/loans", nil, http.StatusForbidden},
		{"cashier reads reports", cashierToken, http.MethodGet, "/reports/reconciliation?family=lottery", nil, http.StatusOK},
		{"manager reads sales", managerToken, http.MethodGet, "/sales", nil, http.StatusOK},
		{"manager cannot read loans", managerToken, http.MethodGet, "/loans", nil, http.StatusForbidden},
		{"manager cannot delete employees", managerToken, http.MethodDelete, "/employees/1", nil, http.StatusForbidden},
		{"owner reads loans", ownerToken, http.MethodGet, "/loans", nil, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, handler, tc.method, tc.path, tc.token, tc.body)
			if rec.Code != tc.want {
				t.Fatalf("got %d, want %d, body %s", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func snapshotBody(date, item string, start, added, end float64) map[string]any {
	return map[string]any{
		"family":    "lottery",
		"item_name": item,
		"date":      date,
		"shift":     "morning",
		"start":     start,
		"added":     added,
		"end":       end,
	}
}

func TestReconciliationReport(t *testing.T) {
	_, handler, _ := newTestServer(t)
	token := registerOwner(t, handler)

	rec := doJSON(t, handler, http.MethodGet, "/reports/reconciliation?family=vapes", token, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad family: got %d, want 422", rec.Code)
	}

	seed := []map[string]any{
		snapshotBody("2026-03-01", "Gold Rush", 100, 20, 0),
		snapshotBody("2026-03-02", "Gold Rush", 95, 0, 0),
	}
	for _, body := range seed {
		rec := doJSON(t, handler, http.MethodPost, "/stock/snapshots", token, body)
		if rec.Code != http.StatusCreated {
			t.Fatalf("seed snapshot: got %d, body %s", rec.Code, rec.Body.String())
		}
	}

	rec = doJSON(t, handler, http.MethodGet, "/reports/reconciliation?family=lottery", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("reconciliation: got %d, body %s", rec.Code, rec.Body.String())
	}
	var resp reconciliationResponse
	decodeBody(t, rec, &resp)
	if len(resp.Report) != 1 {
		t.Fatalf("report days = %d, want 1", len(resp.Report))
	}
	day := resp.Report[0]
	if day.Date.String() != "2026-03-02" {
		t.Fatalf("report date = %s", day.Date)
	}
	if len(day.Items) != 1 || day.Items[0].ItemName != "Gold Rush" {
		t.Fatalf("report items = %+v", day.Items)
	}
	// 100 start + 20 added yesterday, 95 on hand this morning.
	if day.Items[0].Sold != 25 {
		t.Fatalf("sold = %v, want 25", day.Items[0].Sold)
	}

	// A new snapshot purges the cache so the report reflects it.
	rec = doJSON(t, handler, http.MethodPost, "/stock/snapshots", token,
		snapshotBody("2026-03-03", "Gold Rush", 90, 0, 0))
	if rec.Code != http.StatusCreated {
		t.Fatalf("third snapshot: got %d", rec.Code)
	}
	rec = doJSON(t, handler, http.MethodGet, "/reports/reconciliation?family=lottery", token, nil)
	decodeBody(t, rec, &resp)
	if len(resp.Report) != 2 {
		t.Fatalf("report days after purge = %d, want 2", len(resp.Report))
	}
}

func TestSalesWorkbookDownload(t *testing.T) {
	_, handler, _ := newTestServer(t)
	token := registerOwner(t, handler)

	rec := doJSON(t, handler, http.MethodPost, "/sales", token, saleBody("2026-03-01"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed sale: got %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodGet, "/reports/sales.xlsx?start_date=2026-03-01&end_date=2026-02-01", token, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("inverted range: got %d, want 422", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodGet, "/reports/sales.xlsx?start_date=2026-03-01&end_date=2026-03-31", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("workbook: got %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Fatalf("content type = %q", ct)
	}
	if rec.Body.Len() == 0 {
		t.Fatal("workbook body is empty")
	}
}

func TestImportFlow(t *testing.T) {
	_, handler, publisher := newTestServer(t)
	token := registerOwner(t, handler)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	if err := form.WriteField("date", "2026-03-01"); err != nil {
		t.Fatal(err)
	}
	part, err := form.CreateFormFile("files", "register1.sft")
	if err != nil {
		t.Fatal(err)
	}
	fmt.Fprintln(part, "FUEL.VOL,1203.40")
	fmt.Fprintln(part, "FUEL.AMT,4380.17")
	form.Close()

	req := httptest.NewRequest(http.MethodPost, "/imports", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("create import: got %d, body %s", rec.Code, rec.Body.String())
	}

	var created importResponse
	decodeBody(t, rec, &created)
	if created.Batch.ID == 0 || len(created.Files) != 1 {
		t.Fatalf("import response = %+v", created)
	}
	if created.Files[0].Filename != "register1.sft" {
		t.Fatalf("filename = %q", created.Files[0].Filename)
	}

	msgs := publisher.published()
	if len(msgs) != 1 || msgs[0].BatchID != created.Batch.ID || msgs[0].Date != "2026-03-01" {
		t.Fatalf("published = %+v", msgs)
	}

	statusRec := doJSON(t, handler, http.MethodGet, fmt.Sprintf("/imports/%d", created.Batch.ID), token, nil)
	if statusRec.Code != http.StatusOK {
		t.Fatalf("get import: got %d, body %s", statusRec.Code, statusRec.Body.String())
	}
	var fetched importResponse
	decodeBody(t, statusRec, &fetched)
	if fetched.Batch.Status != "pending" {
		t.Fatalf("batch status = %q, want pending", fetched.Batch.Status)
	}
}

func TestHealthEndpoints(t *testing.T) {
	_, handler, _ := newTestServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz: got %d", rec.Code)
	}
	rec = doJSON(t, handler, http.MethodGet, "/readyz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("readyz: got %d", rec.Code)
	}
}
