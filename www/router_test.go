package www

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"ckmconsole/api"
	"ckmconsole/config"
	"ckmconsole/engine"
	"ckmconsole/session"
	"ckmconsole/store"
)

// backendFixtures are the GET replies the fake backend serves, keyed by
// path. Anything unlisted answers {}.
var backendFixtures = map[string]string{
	"/api/inventory": `[{"id":5,"name":"鸡胸肉","category":"肉类","currentStock":3,"minStock":10,"maxStock":100,"unit":"kg","status":"LOW"}]`,
	"/api/production/orders": `[{"id":1,"orderNumber":"PO-001","franchise":{"id":7,"name":"一号店"},"productionStandard":{"id":2,"dishName":"宫保鸡丁"},"quantity":20,"priority":"HIGH","status":"PENDING","orderDate":"2026-10-01T08:00:00","requiredDate":"2026-10-03T08:00:00"},` +
		`{"id":3,"orderNumber":"PO-003","quantity":5,"priority":"LOW","status":"COMPLETED","orderDate":"2026-09-20T08:00:00","completedDate":"2026-09-22T17:30:00"}]`,
	"/api/production/orders/1": `{"id":1,"orderNumber":"PO-001","quantity":20,"status":"PENDING"}`,
	"/api/production/orders/3": `{"id":3,"orderNumber":"PO-003","quantity":5,"status":"COMPLETED"}`,
	"/api/production/schedules": `[{"id":4,"scheduleNumber":"PS-004","scheduledDate":"2026-10-02T00:00:00","startTime":"2026-10-02T08:00:00","endTime":"2026-10-02T12:00:00","productionLine":"A线","status":"PLANNED","capacityUtilization":72.5}]`,
	"/api/production-standards": `[{"id":2,"dishName":"宫保鸡丁","status":"ACTIVE"}]`,
	"/api/quality-traces": `[{"id":6,"batchNumber":"B-20261001","ingredientId":"ING-1","ingredientName":"花生","productionDate":"2026-10-01","expiryDate":"2026-10-20","supplierInfo":"粮油供应商","status":"PENDING"}]`,
	"/api/quality-traces/expiring-soon": `[]`,
	"/api/suppliers": `[{"id":8,"name":"粮油供应商","category":"粮油","qualityGrade":"A","deliveryCycle":3,"status":"ACTIVE","rating":4.5,"lastDeliveryDate":"2026-09-30"}]`,
	"/api/users": `[{"id":1,"username":"admin","email":"admin@example.com","fullName":"系统管理员","role":"ADMIN","department":"信息部","isActive":true}]`,
	"/api/system/config": `{"autoBackup":true,"twoFactorAuth":false,"dataRetention":365,"maxFileSize":10,"sessionTimeout":30,"passwordExpiry":90}`,
}

// fakeBackend serves backendFixtures and records every call by
// "METHOD path", both as counts and in arrival order.
type fakeBackend struct {
	mu    sync.Mutex
	calls map[string]int
	log   []string
}

func (f *fakeBackend) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func (f *fakeBackend) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = make(map[string]int)
	f.log = nil
}

// sequence returns the calls received since the last reset.
func (f *fakeBackend) sequence() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.log...)
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	f.mu.Lock()
	f.calls[key]++
	f.log = append(f.log, key)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/inventory":
		io.WriteString(w, `{"id":9,"name":"大米","category":"粮油","currentStock":50,"minStock":10,"maxStock":200,"unit":"kg","status":"NORMAL"}`)
	case r.Method == http.MethodPatch && r.URL.Path == "/api/inventory/5":
		io.WriteString(w, `{"id":5,"currentStock":12}`)
	case r.Method == http.MethodPost && r.URL.Path == "/api/production/orders/1/approve":
		io.WriteString(w, `{"id":1,"status":"APPROVED"}`)
	case r.Method == http.MethodPut && r.URL.Path == "/api/system/config":
		io.WriteString(w, backendFixtures["/api/system/config"])
	case r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodGet && backendFixtures[r.URL.Path] != "":
		io.WriteString(w, backendFixtures[r.URL.Path])
	default:
		io.WriteString(w, `{}`)
	}
}

type testConsole struct {
	srv     *httptest.Server
	backend *fakeBackend
	engine  *engine.Engine
}

func newTestConsole(t *testing.T, tweak func(*config.Config)) *testConsole {
	t.Helper()
	fb := &fakeBackend{calls: make(map[string]int)}
	backend := httptest.NewServer(fb)
	t.Cleanup(backend.Close)

	cfg := config.Defaults()
	cfg.API.BaseURL = backend.URL
	cfg.API.Timeout = time.Second
	cfg.Database.SQLite.Path = filepath.Join(t.TempDir(), "www.db")
	if tweak != nil {
		tweak(cfg)
	}

	db, err := store.Open(&cfg.Database)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	issuer := session.NewJWTIssuer("test-secret", time.Hour)
	auth, err := session.NewMockBackend(issuer, false)
	if err != nil {
		t.Fatalf("mock backend: %v", err)
	}
	eng := engine.New(engine.Config{
		AppConfig: cfg,
		DB:        db,
		API:       api.NewClient(backend.URL, cfg.API.Timeout, api.WithQualityPath(cfg.API.QualityPath)),
		Auth:      auth,
		Issuer:    issuer,
		LogFunc:   t.Logf,
	})

	handler, stop := NewRouter(eng)
	t.Cleanup(stop)
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &testConsole{srv: srv, backend: fb, engine: eng}
}

// browser returns a client with its own cookie jar. Redirects are not
// followed so tests can assert on them.
func (c *testConsole) browser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (c *testConsole) login(t *testing.T, client *http.Client, username, password string) {
	t.Helper()
	resp, err := client.PostForm(c.srv.URL+"/login", url.Values{"username": {username}, "password": {password}})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/dashboard" {
		t.Fatalf("login %s: status %d location %q, want 303 /dashboard", username, resp.StatusCode, resp.Header.Get("Location"))
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func TestUnauthenticatedRedirectsToLogin(t *testing.T) {
	c := newTestConsole(t, nil)
	resp, err := c.browser(t).Get(c.srv.URL + "/inventory")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/login" {
		t.Errorf("status %d location %q, want 303 /login", resp.StatusCode, resp.Header.Get("Location"))
	}
	if n := c.backend.count("GET /api/inventory"); n != 0 {
		t.Errorf("backend called %d times for a signed-out request", n)
	}
}

func TestLoginPageListsDemoAccounts(t *testing.T) {
	c := newTestConsole(t, nil)
	resp, err := c.browser(t).Get(c.srv.URL + "/login")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(body, "viewer123") {
		t.Error("login page should list the demo accounts for the mock backend")
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	c := newTestConsole(t, nil)
	resp, err := c.browser(t).PostForm(c.srv.URL+"/login", url.Values{"username": {"admin"}, "password": {"wrong"}})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
	if !strings.Contains(body, "用户名或密码错误") {
		t.Error("expected the invalid credentials message")
	}
}

func TestLoginRateLimited(t *testing.T) {
	c := newTestConsole(t, func(cfg *config.Config) { cfg.Auth.LoginRate = "2-M" })
	client := c.browser(t)
	var last int
	for i := 0; i < 3; i++ {
		resp, err := client.PostForm(c.srv.URL+"/login", url.Values{"username": {"admin"}, "password": {"wrong"}})
		if err != nil {
			t.Fatalf("post %d: %v", i, err)
		}
		resp.Body.Close()
		last = resp.StatusCode
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("third attempt status = %d, want 429", last)
	}
}

func TestViewerForbiddenFromProduction(t *testing.T) {
	c := newTestConsole(t, nil)
	client := c.browser(t)
	c.login(t, client, "viewer", "viewer123")

	resp, err := client.Get(c.srv.URL + "/production/orders")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
	if n := c.backend.count("GET /api/production/orders"); n != 0 {
		t.Errorf("orders fetched %d times for a forbidden page", n)
	}

	resp, err = client.Get(c.srv.URL + "/reports")
	if err != nil {
		t.Fatalf("get reports: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("reports status = %d, want 200", resp.StatusCode)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	c := newTestConsole(t, nil)
	client := c.browser(t)
	c.login(t, client, "admin", "admin123")

	resp, err := client.PostForm(c.srv.URL+"/logout", nil)
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	resp.Body.Close()

	resp, err = client.Get(c.srv.URL + "/dashboard")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/login" {
		t.Errorf("after logout: status %d location %q, want 303 /login", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func TestInventoryListShowsLowStock(t *testing.T) {
	c := newTestConsole(t, nil)
	client := c.browser(t)
	c.login(t, client, "im", "im123")

	resp, err := client.Get(c.srv.URL + "/inventory")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(body, "鸡胸肉") || !strings.Contains(body, "库存预警") {
		t.Error("list should show the item and the low-stock banner")
	}
}

func TestCreateRendersReloadedList(t *testing.T) {
	c := newTestConsole(t, nil)
	client := c.browser(t)
	c.login(t, client, "admin", "admin123")

	form := url.Values{
		"name":         {"大米"},
		"category":     {"粮油"},
		"currentStock": {"50"},
		"minStock":     {"10"},
		"maxStock":     {"200"},
		"unit":         {"kg"},
	}
	resp, err := client.PostForm(c.srv.URL+"/inventory", form)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := c.backend.count("POST /api/inventory"); got != 1 {
		t.Errorf("POST calls = %d, want 1", got)
	}
	if got := c.backend.count("GET /api/inventory"); got != 1 {
		t.Errorf("list reloads = %d, want 1", got)
	}
	if !strings.Contains(body, "库存项目创建成功") {
		t.Error("expected the success notice")
	}
}

func TestCreateWithInvalidFormSkipsBackend(t *testing.T) {
	c := newTestConsole(t, nil)
	client := c.browser(t)
	c.login(t, client, "admin", "admin123")

	resp, err := client.PostForm(c.srv.URL+"/inventory", url.Values{"name": {"大米"}, "currentStock": {"abc"}})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.StatusCode)
	}
	if got := c.backend.count("POST /api/inventory"); got != 0 {
		t.Errorf("POST calls = %d, want 0", got)
	}
	if !strings.Contains(body, "请检查表单中标记的字段") {
		t.Error("expected the form error notice")
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	c := newTestConsole(t, nil)
	client := c.browser(t)
	c.login(t, client, "admin", "admin123")

	resp, err := client.Get(c.srv.URL + "/inventory/5/delete")
	if err != nil {
		t.Fatalf("get confirm: %v", err)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, "确定要删除这个库存项目吗？") {
		t.Error("confirm page should show the delete prompt")
	}
	if got := c.backend.count("DELETE /api/inventory/5"); got != 0 {
		t.Fatalf("DELETE issued by the confirm page: %d", got)
	}

	resp, err = client.PostForm(c.srv.URL+"/inventory/5/delete", url.Values{})
	if err != nil {
		t.Fatalf("post unconfirmed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("unconfirmed status = %d, want 303", resp.StatusCode)
	}
	if got := c.backend.count("DELETE /api/inventory/5"); got != 0 {
		t.Fatalf("DELETE issued without confirmation: %d", got)
	}

	resp, err = client.PostForm(c.srv.URL+"/inventory/5/delete", url.Values{"confirm": {"yes"}})
	if err != nil {
		t.Fatalf("post confirmed: %v", err)
	}
	body = readBody(t, resp)
	if got := c.backend.count("DELETE /api/inventory/5"); got != 1 {
		t.Errorf("DELETE calls = %d, want 1", got)
	}
	if !strings.Contains(body, "库存项目删除成功") {
		t.Error("expected the delete notice")
	}
}

func TestStockAdjustPatchesItem(t *testing.T) {
	c := newTestConsole(t, nil)
	client := c.browser(t)
	c.login(t, client, "im", "im123")

	resp, err := client.PostForm(c.srv.URL+"/inventory/5/actions/stock", url.Values{"currentStock": {"12"}})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	body := readBody(t, resp)
	if got := c.backend.count("PATCH /api/inventory/5"); got != 1 {
		t.Errorf("PATCH calls = %d, want 1", got)
	}
	if !strings.Contains(body, "库存已调整") {
		t.Error("expected the adjust notice")
	}
}

func TestMutationLandsInAuditLog(t *testing.T) {
	c := newTestConsole(t, nil)
	c.engine.Start()
	t.Cleanup(c.engine.Stop)
	client := c.browser(t)
	c.login(t, client, "admin", "admin123")

	resp, err := client.PostForm(c.srv.URL+"/inventory/5/delete", url.Values{"confirm": {"yes"}})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()

	entries, err := c.engine.DB().ListRecordAudit("inventory", 5)
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != "deleted" || entries[0].Actor != "admin" {
		t.Errorf("audit = %+v, want one deleted entry by admin", entries)
	}
}

func TestHealthz(t *testing.T) {
	c := newTestConsole(t, nil)
	resp, err := http.Get(c.srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	var got map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := got["status"]; !ok {
		t.Errorf("healthz = %v, want a status field", got)
	}
	if got["clients"] != float64(0) {
		t.Errorf("clients = %v, want 0", got["clients"])
	}
}

func TestPagesRenderPerRole(t *testing.T) {
	pages := []string{
		"/dashboard",
		"/production/orders",
		"/production/schedules",
		"/production/standards",
		"/inventory",
		"/quality",
		"/suppliers",
		"/reports",
		"/settings",
	}
	forbidden := map[string][]string{
		"admin":  nil,
		"pm":     {"/settings"},
		"qi":     {"/settings"},
		"im":     {"/quality", "/settings"},
		"sr":     {"/production/orders", "/production/schedules", "/production/standards", "/reports", "/settings"},
		"viewer": {"/production/orders", "/production/schedules", "/production/standards", "/inventory", "/quality", "/suppliers", "/settings"},
	}
	c := newTestConsole(t, func(cfg *config.Config) { cfg.Auth.LoginRate = "100-M" })
	for user, denied := range forbidden {
		t.Run(user, func(t *testing.T) {
			client := c.browser(t)
			c.login(t, client, user, user+"123")
			for _, page := range pages {
				resp, err := client.Get(c.srv.URL + page)
				if err != nil {
					t.Fatalf("get %s: %v", page, err)
				}
				body := readBody(t, resp)
				want := http.StatusOK
				if slices.Contains(denied, page) {
					want = http.StatusForbidden
				}
				if resp.StatusCode != want {
					t.Errorf("%s: status = %d, want %d", page, resp.StatusCode, want)
					continue
				}
				if !strings.Contains(body, "</html>") {
					t.Errorf("%s: page truncated, body ends %q", page, tail(body))
				}
			}
		})
	}
}

func TestSettingsRendersAndSaves(t *testing.T) {
	c := newTestConsole(t, nil)
	client := c.browser(t)
	c.login(t, client, "admin", "admin123")

	resp, err := client.Get(c.srv.URL + "/settings")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "</html>") {
		t.Fatalf("settings: status %d, complete page %v", resp.StatusCode, strings.Contains(body, "</html>"))
	}

	resp, err = client.PostForm(c.srv.URL+"/settings/preferences", url.Values{"darkMode": {"on"}})
	if err != nil {
		t.Fatalf("post preferences: %v", err)
	}
	body = readBody(t, resp)
	if !strings.Contains(body, "偏好设置已保存") || !strings.Contains(body, "</html>") {
		t.Errorf("preferences: expected the saved notice on a complete page, body ends %q", tail(body))
	}
	prefs, err := c.engine.DB().GetPreferences("admin")
	if err != nil {
		t.Fatalf("preferences: %v", err)
	}
	if !prefs.DarkMode || prefs.Notifications {
		t.Errorf("preferences = %+v, want dark mode only", prefs)
	}

	system := url.Values{
		"autoBackup":     {"on"},
		"dataRetention":  {"365"},
		"maxFileSize":    {"10"},
		"sessionTimeout": {"30"},
		"passwordExpiry": {"90"},
	}
	resp, err = client.PostForm(c.srv.URL+"/settings/system", system)
	if err != nil {
		t.Fatalf("post system: %v", err)
	}
	body = readBody(t, resp)
	if got := c.backend.count("PUT /api/system/config"); got != 1 {
		t.Errorf("PUT calls = %d, want 1", got)
	}
	if !strings.Contains(body, "系统设置已保存") || !strings.Contains(body, "</html>") {
		t.Errorf("system: expected the saved notice on a complete page, body ends %q", tail(body))
	}

	system.Set("dataRetention", "0")
	resp, err = client.PostForm(c.srv.URL+"/settings/system", system)
	if err != nil {
		t.Fatalf("post invalid system: %v", err)
	}
	body = readBody(t, resp)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("invalid system: status = %d, want 422", resp.StatusCode)
	}
	if got := c.backend.count("PUT /api/system/config"); got != 1 {
		t.Errorf("PUT calls after invalid form = %d, want still 1", got)
	}
	if !strings.Contains(body, "请输入正整数") {
		t.Error("invalid system: expected the field error")
	}
}

func TestTransitionNotAllowedSkipsBackend(t *testing.T) {
	c := newTestConsole(t, nil)
	client := c.browser(t)
	c.login(t, client, "admin", "admin123")
	c.backend.reset()

	// order 3 is COMPLETED
	resp, err := client.PostForm(c.srv.URL+"/production/orders/3/actions/approve", nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	body := readBody(t, resp)
	if got := c.backend.count("POST /api/production/orders/3/approve"); got != 0 {
		t.Errorf("approve POSTs = %d, want 0", got)
	}
	for _, call := range c.backend.sequence() {
		if strings.HasPrefix(call, "POST ") {
			t.Errorf("unexpected mutation %s", call)
		}
	}
	if !strings.Contains(body, "当前状态不允许该操作") {
		t.Error("expected the invalid transition notice")
	}
}

func TestTransitionCallsBackendThenReloads(t *testing.T) {
	c := newTestConsole(t, nil)
	c.engine.Start()
	t.Cleanup(c.engine.Stop)
	client := c.browser(t)
	c.login(t, client, "admin", "admin123")
	c.backend.reset()

	resp, err := client.PostForm(c.srv.URL+"/production/orders/1/actions/approve", nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	body := readBody(t, resp)
	want := []string{
		"GET /api/production/orders/1",
		"POST /api/production/orders/1/approve",
		"GET /api/production/orders",
	}
	// the health loop also polls the backend
	var got []string
	for _, call := range c.backend.sequence() {
		if strings.Contains(call, "/api/production/") {
			got = append(got, call)
		}
	}
	if !slices.Equal(got, want) {
		t.Errorf("backend calls = %v, want %v", got, want)
	}
	if !strings.Contains(body, "订单已批准") {
		t.Error("expected the approve notice")
	}

	entries, err := c.engine.DB().ListRecordAudit("production", 1)
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != "approve" {
		t.Errorf("audit = %+v, want one approve entry", entries)
	}
}

func TestNonFiniteActionInputSkipsBackend(t *testing.T) {
	c := newTestConsole(t, nil)
	client := c.browser(t)
	c.login(t, client, "admin", "admin123")

	resp, err := client.PostForm(c.srv.URL+"/suppliers/8/actions/rate", url.Values{"rating": {"NaN"}})
	if err != nil {
		t.Fatalf("post rate: %v", err)
	}
	body := readBody(t, resp)
	if got := c.backend.count("POST /api/suppliers/8/rate"); got != 0 {
		t.Errorf("rate POSTs = %d, want 0", got)
	}
	if !strings.Contains(body, "评分需在 0 到 5 之间") {
		t.Error("expected the rating range notice")
	}

	for _, v := range []string{"NaN", "Inf", "-Inf"} {
		resp, err = client.PostForm(c.srv.URL+"/inventory/5/actions/stock", url.Values{"currentStock": {v}})
		if err != nil {
			t.Fatalf("post stock %s: %v", v, err)
		}
		body = readBody(t, resp)
		if !strings.Contains(body, "请输入有效数字") {
			t.Errorf("stock %s: expected the invalid number notice", v)
		}
	}
	if got := c.backend.count("PATCH /api/inventory/5"); got != 0 {
		t.Errorf("PATCH calls = %d, want 0", got)
	}
}

func tail(s string) string {
	if len(s) > 120 {
		return s[len(s)-120:]
	}
	return s
}

func TestLoginSetsCookieOnce(t *testing.T) {
	c := newTestConsole(t, nil)
	resp, err := c.browser(t).PostForm(c.srv.URL+"/login", url.Values{"username": {"admin"}, "password": {"admin123"}})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Values("Set-Cookie"); len(got) != 1 {
		t.Errorf("Set-Cookie headers = %d, want 1: %v", len(got), got)
	}
}

func TestReplayedCookieAfterLogoutSignsOut(t *testing.T) {
	c := newTestConsole(t, nil)
	client := c.browser(t)
	c.login(t, client, "pm", "pm123")

	base, _ := url.Parse(c.srv.URL)
	captured := client.Jar.Cookies(base)
	if len(captured) == 0 {
		t.Fatal("no session cookie after login")
	}

	resp, err := client.PostForm(c.srv.URL+"/logout", nil)
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	resp.Body.Close()

	replay := c.browser(t)
	replay.Jar.SetCookies(base, captured)
	resp, err = replay.Get(c.srv.URL + "/dashboard")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/login?reason=expired" {
		t.Fatalf("replayed cookie: status %d location %q, want 303 /login?reason=expired", resp.StatusCode, resp.Header.Get("Location"))
	}

	resp, err = replay.Get(c.srv.URL + "/login?reason=expired")
	if err != nil {
		t.Fatalf("get login: %v", err)
	}
	if body := readBody(t, resp); !strings.Contains(body, session.MsgSessionExpired) {
		t.Error("login page should explain the expired session")
	}

	resp, err = replay.Get(c.srv.URL + "/dashboard")
	if err != nil {
		t.Fatalf("get again: %v", err)
	}
	resp.Body.Close()
	if resp.Header.Get("Location") != "/login" {
		t.Errorf("cleared cookie should read as no session, location %q", resp.Header.Get("Location"))
	}
}
