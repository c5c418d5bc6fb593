package www

import (
	"bytes"
	"encoding/json"
	"html/template"
	"io/fs"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"ckmconsole/api"
	"ckmconsole/domain"
	"ckmconsole/engine"
	"ckmconsole/rbac"
	"ckmconsole/store"
)

type Handlers struct {
	engine   *engine.Engine
	sessions *sessions.CookieStore
	tmpls    map[string]*template.Template
	eventHub *EventHub
}

func NewRouter(eng *engine.Engine) (http.Handler, func()) {
	hub := NewEventHub()
	hub.Start()
	hub.SetupEngineListeners(eng)

	cfg := eng.AppConfig()
	sessionStore := newSessionStore(cfg.Session.Secret, cfg.Session.MaxAge)

	// Parse layout + partials as a base template set. Each page is cloned separately
	// to avoid the "last define wins" problem with {{define "content"}}.
	base := template.New("").Funcs(templateFuncs())
	base = template.Must(base.ParseFS(templateFS, "templates/layout.html", "templates/partials/*.html"))

	pages := []string{
		"templates/login.html",
		"templates/forbidden.html",
		"templates/confirm.html",
		"templates/dashboard.html",
		"templates/production.html",
		"templates/inventory.html",
		"templates/quality.html",
		"templates/suppliers.html",
		"templates/reports.html",
		"templates/settings.html",
	}
	tmpls := make(map[string]*template.Template, len(pages))
	for _, p := range pages {
		clone := template.Must(base.Clone())
		clone = template.Must(clone.ParseFS(templateFS, p))
		// Key is the filename without path: "dashboard.html"
		name := p[len("templates/"):]
		tmpls[name] = clone
	}

	h := &Handlers{
		engine:   eng,
		sessions: sessionStore,
		tmpls:    tmpls,
		eventHub: hub,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	// Static files
	staticSub, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	r.Get("/healthz", h.handleHealthz)

	r.Group(func(r chi.Router) {
		r.Use(h.withSession)

		r.Get("/login", h.handleLoginPage)
		r.With(h.loginLimiter(cfg.Auth.LoginRate)).Post("/login", h.handleLogin)
		r.Get("/logout", h.handleLogout)
		r.Post("/logout", h.handleLogout)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)
			r.Get("/", redirectTo("/dashboard"))
			r.Get("/events", hub.SSEHandler)

			r.Route("/dashboard", func(r chi.Router) {
				r.Use(h.requirePermission(rbac.ResourceDashboard, domain.ActionRead))
				r.Get("/", h.handleDashboard)
				r.With(h.requirePermission(rbac.ResourceInventory, domain.ActionUpdate)).Post("/inventory-check", h.handleInventoryCheck)
				r.With(h.requirePermission(rbac.ResourceQuality, domain.ActionUpdate)).Post("/quality-check", h.handleQualityCheck)
			})

			r.With(h.requirePermission(rbac.ResourceProduction, domain.ActionRead)).Get("/production", redirectTo("/production/orders"))
			h.orderPages().routes(r)
			h.schedulePages().routes(r)
			h.standardPages().routes(r)
			h.inventoryPages().routes(r)
			h.qualityPages().routes(r)
			h.supplierPages().routes(r)

			r.With(h.requirePermission(rbac.ResourceReports, domain.ActionRead)).Get("/reports", h.handleReports)

			r.Route("/settings", func(r chi.Router) {
				r.Use(h.requirePermission(rbac.ResourceSettings, domain.ActionRead))
				r.Get("/", h.handleSettings)
				r.Post("/preferences", h.handlePreferencesSave)
				r.With(h.requirePermission(rbac.ResourceSettings, domain.ActionUpdate)).Post("/system", h.handleSystemConfigSave)
			})
		})
	})

	stopFn := func() {
		hub.Stop()
	}

	return r, stopFn
}

// loginLimiter throttles POST /login per client address.
func (h *Handlers) loginLimiter(formatted string) func(http.Handler) http.Handler {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		log.Printf("www: login rate %q: %v, using 5-M", formatted, err)
		rate, _ = limiter.NewRateFromFormatted("5-M")
	}
	instance := limiter.New(memory.NewStore(), rate)
	mw := stdlib.NewMiddleware(instance, stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
		data := h.pageData(r, "login")
		data["Error"] = "登录尝试过于频繁，请稍后再试"
		w.WriteHeader(http.StatusTooManyRequests)
		h.render(w, "login.html", data)
	}))
	return mw.Handler
}

func redirectTo(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, path, http.StatusSeeOther)
	}
}

func (h *Handlers) render(w http.ResponseWriter, name string, data any) {
	tmpl, ok := h.tmpls[name]
	if !ok {
		log.Printf("render: template %q not found", name)
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	// Execute into a buffer so a failing template is a 500, not a page
	// cut off after the status line.
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Printf("render %s: %v", name, err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// pageData is the layout context every page starts from.
func (h *Handlers) pageData(r *http.Request, page string) map[string]any {
	s := sessionFrom(r).Snapshot()
	data := map[string]any{
		"Page":          page,
		"Authenticated": s.Authenticated,
		"User":          s.User,
		"Path":          r.URL.Path,
	}
	if s.User == nil {
		return data
	}
	data["Menu"] = rbac.VisibleMenuItems(s.User.Role)
	data["RoleName"] = rbac.DisplayName(s.User.Role)
	prefs, err := h.engine.DB().GetPreferences(s.User.Username)
	if err != nil {
		log.Printf("www: preferences for %s: %v", s.User.Username, err)
		prefs = store.DefaultPreferences(s.User.Username)
	}
	data["Prefs"] = prefs
	return data
}

// client returns the API client carrying the signed-in user's token.
func (h *Handlers) client(r *http.Request) *api.Client {
	return h.engine.API().WithToken(sessionFrom(r).Token())
}

func (h *Handlers) handleHealthz(w http.ResponseWriter, r *http.Request) {
	health := h.engine.Health()
	status := "ok"
	if !health.Backend {
		status = "degraded"
	}
	writeJSON(w, map[string]any{
		"status":    status,
		"backend":   health.Backend,
		"messaging": health.Messaging,
		"checkedAt": health.CheckedAt,
		"clients":   h.eventHub.ClientCount(),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("www: encode json: %v", err)
	}
}
