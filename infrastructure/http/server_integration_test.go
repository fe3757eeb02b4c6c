package http

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"weighbridge/frontend/receipts"
	"weighbridge/infrastructure/auth"
	"weighbridge/infrastructure/kv"
	"weighbridge/infrastructure/sqlite"
)

type integrationEnv struct {
	server *httptest.Server
	db     *sqlite.DB
}

func setupIntegrationServer(t *testing.T, password string) (*integrationEnv, *http.Client) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "server-integration.db")
	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := sqlite.ApplyMigrations(context.Background(), db, ""); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	kvStore := kv.NewStore(db)
	store, err := receipts.NewStore(context.Background(), kvStore)
	if err != nil {
		t.Fatalf("load receipts: %v", err)
	}

	passwordHash := ""
	if password != "" {
		passwordHash, err = auth.HashPassword(password, nil)
		if err != nil {
			t.Fatalf("hash password: %v", err)
		}
	}

	s := NewServer("127.0.0.1:0", db, kvStore, store, auth.NewSessionStore(), passwordHash)
	ts := httptest.NewServer(s.router)
	env := &integrationEnv{server: ts, db: db}
	t.Cleanup(func() {
		env.server.Close()
		_ = env.db.Close()
	})

	return env, newHTTPClient(t)
}

func newHTTPClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func postForm(t *testing.T, client *http.Client, baseURL, path string, data url.Values) *http.Response {
	t.Helper()
	if data == nil {
		data = url.Values{}
	}
	resp, err := client.PostForm(baseURL+path, data)
	if err != nil {
		t.Fatalf("POST %s failed: %v", path, err)
	}
	return resp
}

func get(t *testing.T, client *http.Client, baseURL, path string) *http.Response {
	t.Helper()
	resp, err := client.Get(baseURL + path)
	if err != nil {
		t.Fatalf("GET %s failed: %v", path, err)
	}
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	_ = resp.Body.Close()
	return string(body)
}

func saveReceipt(t *testing.T, client *http.Client, baseURL string, data url.Values) string {
	t.Helper()
	resp := postForm(t, client, baseURL, "/receipts/save", data)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected save 303, got %d", resp.StatusCode)
	}
	location := resp.Header.Get("Location")
	_ = resp.Body.Close()
	if !strings.Contains(location, "/receipts?load=") {
		t.Fatalf("unexpected save redirect: %s", location)
	}
	u, err := url.Parse(location)
	if err != nil {
		t.Fatalf("parse save redirect: %v", err)
	}
	id := u.Query().Get("load")
	if id == "" {
		t.Fatalf("save redirect missing id: %s", location)
	}
	return id
}

func TestRootRedirectsToEditor(t *testing.T) {
	env, client := setupIntegrationServer(t, "")

	resp := get(t, client, env.server.URL, "/")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected root redirect 303, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Location") != "/receipts" {
		t.Fatalf("unexpected root redirect: %s", resp.Header.Get("Location"))
	}
}

func TestSaveLoadAndSearchFlow(t *testing.T) {
	env, client := setupIntegrationServer(t, "")

	id := saveReceipt(t, client, env.server.URL, url.Values{
		"rst_no":        {"784"},
		"vehicle_no":    {"KA-05-MN-8844"},
		"customer":      {"Sharma Traders"},
		"material":      {"Sand"},
		"gross_weight":  {"14440"},
		"tare_weight":   {"6200"},
		"date_time_in":  {"2025-12-04T14:30"},
		"date_time_out": {"2025-12-04T16:09"},
	})

	saveReceipt(t, client, env.server.URL, url.Values{
		"rst_no":       {"785"},
		"vehicle_no":   {"MH-12-AB-1234"},
		"customer":     {"Patel Infra"},
		"gross_weight": {"9000"},
		"tare_weight":  {"4000"},
	})

	resp := get(t, client, env.server.URL, "/receipts?load="+id)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected editor 200, got %d", resp.StatusCode)
	}
	text := readBody(t, resp)
	if !strings.Contains(text, `value="KA-05-MN-8844"`) {
		t.Fatalf("expected loaded vehicle number in editor form")
	}
	if !strings.Contains(text, `value="8240"`) {
		t.Fatalf("expected derived net weight 8240 in editor form")
	}

	resp = get(t, client, env.server.URL, "/receipts?q=sharma")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected search 200, got %d", resp.StatusCode)
	}
	text = readBody(t, resp)
	if !strings.Contains(text, "Sharma Traders") {
		t.Fatalf("expected matching receipt in search results")
	}
	if strings.Contains(text, "Patel Infra") {
		t.Fatalf("search results should not include non-matching receipt")
	}
}

func TestSaveWithManualNetWeightKeepsOverride(t *testing.T) {
	env, client := setupIntegrationServer(t, "")

	id := saveReceipt(t, client, env.server.URL, url.Values{
		"rst_no":            {"790"},
		"vehicle_no":        {"KA-01-ZZ-0001"},
		"gross_weight":      {"14440"},
		"tare_weight":       {"6200"},
		"net_weight":        {"8000"},
		"manual_net_weight": {"1"},
	})

	resp := get(t, client, env.server.URL, "/receipts?load="+id)
	text := readBody(t, resp)
	if !strings.Contains(text, `value="8000"`) {
		t.Fatalf("expected manual net weight 8000 preserved")
	}
}

func TestNegativeNetWeightSavesAndWarns(t *testing.T) {
	env, client := setupIntegrationServer(t, "")

	// Tare above gross is allowed; the editor warns but nothing blocks.
	id := saveReceipt(t, client, env.server.URL, url.Values{
		"rst_no":       {"792"},
		"vehicle_no":   {"KA-03-BB-0003"},
		"gross_weight": {"5000"},
		"tare_weight":  {"8000"},
	})

	resp := get(t, client, env.server.URL, "/receipts?load="+id)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected editor 200, got %d", resp.StatusCode)
	}
	text := readBody(t, resp)
	if !strings.Contains(text, `value="-3000"`) {
		t.Fatalf("expected negative net weight -3000 in editor form")
	}
	if !strings.Contains(text, `class="warning"`) || !strings.Contains(text, "Net weight is negative") {
		t.Fatalf("expected negative net warning on editor page")
	}

	resp = get(t, client, env.server.URL, "/receipts/"+id+"/receipt.pdf")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected negative net pdf 200, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()
}

func TestDeleteTwoPhaseFlow(t *testing.T) {
	env, client := setupIntegrationServer(t, "")

	id := saveReceipt(t, client, env.server.URL, url.Values{
		"rst_no":     {"791"},
		"vehicle_no": {"TN-09-XY-5555"},
	})

	resp := get(t, client, env.server.URL, "/receipts/"+id+"/delete")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected confirm page 200, got %d", resp.StatusCode)
	}
	text := readBody(t, resp)
	if !strings.Contains(text, "Delete receipt RST 791 for vehicle TN-09-XY-5555?") {
		t.Fatalf("expected confirmation prompt on confirm page")
	}

	resp = postForm(t, client, env.server.URL, "/receipts/"+id+"/delete", nil)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected delete 303, got %d", resp.StatusCode)
	}
	if !strings.Contains(resp.Header.Get("Location"), "Receipt+deleted") {
		t.Fatalf("unexpected delete redirect: %s", resp.Header.Get("Location"))
	}
	_ = resp.Body.Close()

	// Second commit for the same id stays a quiet no-op.
	resp = postForm(t, client, env.server.URL, "/receipts/"+id+"/delete", nil)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected repeat delete 303, got %d", resp.StatusCode)
	}
	if !strings.Contains(resp.Header.Get("Location"), "Receipt+was+already+deleted") {
		t.Fatalf("unexpected repeat delete redirect: %s", resp.Header.Get("Location"))
	}
	_ = resp.Body.Close()
}

func TestReceiptPDFInlineAndDownload(t *testing.T) {
	env, client := setupIntegrationServer(t, "")

	id := saveReceipt(t, client, env.server.URL, url.Values{
		"rst_no":       {"784"},
		"vehicle_no":   {"KA-05-MN-8844"},
		"gross_weight": {"14440"},
		"tare_weight":  {"6200"},
	})

	resp := get(t, client, env.server.URL, "/receipts/"+id+"/receipt.pdf")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected pdf 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("expected pdf content type, got %s", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); cd != "inline" {
		t.Fatalf("expected inline disposition, got %s", cd)
	}
	body := readBody(t, resp)
	if !strings.HasPrefix(body, "%PDF") {
		t.Fatalf("expected PDF payload")
	}

	resp = get(t, client, env.server.URL, "/receipts/"+id+"/receipt.pdf?download=1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected pdf download 200, got %d", resp.StatusCode)
	}
	cd := resp.Header.Get("Content-Disposition")
	if !strings.Contains(cd, `attachment; filename="Receipt_784_KA-05-MN-8844.pdf"`) {
		t.Fatalf("unexpected download disposition: %s", cd)
	}
	_ = resp.Body.Close()

	resp = get(t, client, env.server.URL, "/receipts/999999/receipt.pdf")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected missing receipt pdf 404, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()
}

func TestReceiptsCSVExport(t *testing.T) {
	env, client := setupIntegrationServer(t, "")

	saveReceipt(t, client, env.server.URL, url.Values{
		"rst_no":       {"784"},
		"vehicle_no":   {"KA-05-MN-8844"},
		"gross_weight": {"14440"},
		"tare_weight":  {"6200"},
	})

	resp := get(t, client, env.server.URL, "/receipts.csv")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected csv 200, got %d", resp.StatusCode)
	}
	text := readBody(t, resp)
	if !strings.Contains(text, "rst_no,vehicle_no,customer,supplier,material,gross_kg,tare_kg,net_kg") {
		t.Fatalf("missing csv header")
	}
	if !strings.Contains(text, "KA-05-MN-8844") {
		t.Fatalf("missing exported receipt row")
	}
}

func TestSettingsUpdateAffectsReceiptRendering(t *testing.T) {
	env, client := setupIntegrationServer(t, "")

	resp := postForm(t, client, env.server.URL, "/settings", url.Values{
		"company_name": {"ACME WEIGHBRIDGE"},
		"address":      {"Plot 12, Industrial Area"},
		"footer":       {"Drive safe"},
		// show_charges omitted: unchecked checkbox.
	})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected settings update 303, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()

	resp = get(t, client, env.server.URL, "/settings")
	text := readBody(t, resp)
	if !strings.Contains(text, `value="ACME WEIGHBRIDGE"`) {
		t.Fatalf("expected updated company name on settings page")
	}

	id := saveReceipt(t, client, env.server.URL, url.Values{
		"rst_no":       {"801"},
		"vehicle_no":   {"KA-02-AA-0002"},
		"gross_weight": {"5000"},
		"tare_weight":  {"2000"},
		"charges":      {"150"},
	})
	resp = get(t, client, env.server.URL, "/receipts/"+id+"/receipt.pdf")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected pdf with updated template 200, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()
}

func TestPasswordGateDisabledWithoutPassword(t *testing.T) {
	env, client := setupIntegrationServer(t, "")

	resp := get(t, client, env.server.URL, "/receipts")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected editor without login 200, got %d", resp.StatusCode)
	}

	resp2 := get(t, client, env.server.URL, "/login")
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected login bounce 303, got %d", resp2.StatusCode)
	}
	if resp2.Header.Get("Location") != "/receipts" {
		t.Fatalf("unexpected login bounce target: %s", resp2.Header.Get("Location"))
	}
}

func TestPasswordGateEnforcedWhenConfigured(t *testing.T) {
	env, client := setupIntegrationServer(t, "weigh-it-123")

	resp := get(t, client, env.server.URL, "/receipts")
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected unauthenticated redirect 303, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Location") != "/login" {
		t.Fatalf("unexpected unauthenticated redirect: %s", resp.Header.Get("Location"))
	}
	_ = resp.Body.Close()

	resp = postForm(t, client, env.server.URL, "/login", url.Values{
		"password": {"wrong"},
	})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected wrong password 303, got %d", resp.StatusCode)
	}
	if !strings.Contains(resp.Header.Get("Location"), "wrong+password") {
		t.Fatalf("unexpected wrong password redirect: %s", resp.Header.Get("Location"))
	}
	_ = resp.Body.Close()

	resp = postForm(t, client, env.server.URL, "/login", url.Values{
		"password": {"weigh-it-123"},
	})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected login 303, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Location") != "/receipts" {
		t.Fatalf("unexpected login redirect: %s", resp.Header.Get("Location"))
	}
	_ = resp.Body.Close()

	resp = get(t, client, env.server.URL, "/receipts")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected editor after login 200, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()

	resp = postForm(t, client, env.server.URL, "/logout", nil)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected logout 303, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()

	resp = get(t, client, env.server.URL, "/receipts")
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected post-logout redirect 303, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()
}

func TestHealthAndAssets(t *testing.T) {
	env, client := setupIntegrationServer(t, "")

	resp := get(t, client, env.server.URL, "/health")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected health 200, got %d", resp.StatusCode)
	}
	if body := readBody(t, resp); body != "ok" {
		t.Fatalf("unexpected health body: %q", body)
	}

	resp = get(t, client, env.server.URL, "/assets/app.css")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected asset 200, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()
}
