package www

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"ckmconsole/domain"
	"ckmconsole/session"
)

const sessionName = "ckmconsole-session"

// sidKey holds the redis session id inside the cookie when the durable
// storage lives server-side.
const sidKey = "sid"

type ctxKey int

const sessionCtxKey ctxKey = iota

func newSessionStore(secret string, maxAge int) *sessions.CookieStore {
	if secret == "" {
		secret = "ckmconsole-default-secret-change-me"
	}
	s := sessions.NewCookieStore([]byte(secret))
	s.Options.HttpOnly = true
	s.Options.Secure = false // console usually sits behind a TLS-terminating proxy
	s.Options.SameSite = http.SameSiteLaxMode
	s.Options.Path = "/"
	if maxAge > 0 {
		s.Options.MaxAge = maxAge
	}
	return s
}

// cookieStorage keeps the durable session keys in the signed cookie itself.
// Set and Remove only touch the values; Commit writes the cookie once, so
// it must run before the response body starts.
type cookieStorage struct {
	sess  *sessions.Session
	w     http.ResponseWriter
	r     *http.Request
	dirty bool
}

func (c *cookieStorage) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := c.sess.Values[key]
	if !ok {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, errors.New("cookie value is not a string")
	}
	return s, true, nil
}

func (c *cookieStorage) Set(_ context.Context, key, value string) error {
	c.sess.Values[key] = value
	c.dirty = true
	return nil
}

func (c *cookieStorage) Remove(_ context.Context, keys ...string) error {
	for _, k := range keys {
		if _, ok := c.sess.Values[k]; ok {
			delete(c.sess.Values, k)
			c.dirty = true
		}
	}
	return nil
}

func (c *cookieStorage) Commit(context.Context) error {
	if !c.dirty {
		return nil
	}
	c.dirty = false
	return c.sess.Save(c.r, c.w)
}

// storageFor picks the durable storage for this browser.
func (h *Handlers) storageFor(w http.ResponseWriter, r *http.Request) session.Storage {
	sess, err := h.sessions.Get(r, sessionName)
	if err != nil {
		// A cookie signed with an old secret decodes to a fresh session.
		log.Printf("www: session cookie: %v", err)
	}
	cfg := h.engine.AppConfig()
	if cfg.Session.Storage != "redis" || h.engine.Redis() == nil {
		return &cookieStorage{sess: sess, w: w, r: r}
	}
	sid, _ := sess.Values[sidKey].(string)
	if sid == "" {
		sid = uuid.NewString()
		sess.Values[sidKey] = sid
		if err := sess.Save(r, w); err != nil {
			log.Printf("www: save session id: %v", err)
		}
	}
	return session.NewRedisStorage(h.engine.Redis(), sid, sessionTTL(cfg.Session.MaxAge))
}

func sessionTTL(maxAge int) time.Duration {
	if maxAge <= 0 {
		return 8 * time.Hour
	}
	return time.Duration(maxAge) * time.Second
}

// withSession builds the per-browser session store, restores it once, and
// makes it available to every handler through the request context.
func (h *Handlers) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var opts []session.Option
		if v, ok := h.engine.Auth().(session.TokenValidator); ok {
			opts = append(opts, session.WithValidator(v))
		}
		store := session.NewStore(h.storageFor(w, r), h.engine.Issuer(), opts...)
		store.Initialize(r.Context())
		ctx := context.WithValue(r.Context(), sessionCtxKey, store)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionFrom returns the request's session store. Outside withSession it
// returns a signed-out store.
func sessionFrom(r *http.Request) *session.Store {
	if s, ok := r.Context().Value(sessionCtxKey).(*session.Store); ok {
		return s
	}
	s := session.NewStore(session.NewMemoryStorage(), nil)
	s.Initialize(r.Context())
	return s
}

func (h *Handlers) isAuthenticated(r *http.Request) bool {
	return sessionFrom(r).Authenticated()
}

func (h *Handlers) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snap := sessionFrom(r).Snapshot()
		if !snap.Authenticated {
			target := "/login"
			switch snap.Error {
			case "":
			case session.MsgSessionExpired:
				target += "?reason=expired"
			default:
				target += "?reason=invalid"
			}
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requirePermission renders the 403 page unless the signed-in user holds
// resource/action.
func (h *Handlers) requirePermission(resource string, action domain.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !sessionFrom(r).HasPermission(resource, action) {
				h.forbidden(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (h *Handlers) forbidden(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusForbidden)
	h.render(w, "forbidden.html", h.pageData(r, "forbidden"))
}

func (h *Handlers) getUsername(r *http.Request) string {
	return sessionFrom(r).Username()
}

func (h *Handlers) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if h.isAuthenticated(r) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	data := h.pageData(r, "login")
	switch r.URL.Query().Get("reason") {
	case "expired":
		data["Error"] = session.MsgSessionExpired
	case "invalid":
		data["Error"] = session.MsgSessionCorrupt
	}
	data["Demo"] = h.engine.AppConfig().Auth.Backend == "mock"
	data["DemoAccounts"] = session.DemoAccounts()
	h.render(w, "login.html", data)
}

func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")

	user, token, err := h.engine.Auth().Authenticate(r.Context(), username, password)
	if err != nil {
		msg := "用户名或密码错误"
		if !errors.Is(err, session.ErrInvalidCredentials) {
			log.Printf("www: login %q: %v", username, err)
			msg = "登录失败，请稍后重试"
		}
		data := h.pageData(r, "login")
		data["Error"] = msg
		data["Username"] = username
		data["Demo"] = h.engine.AppConfig().Auth.Backend == "mock"
		data["DemoAccounts"] = session.DemoAccounts()
		w.WriteHeader(http.StatusUnauthorized)
		h.render(w, "login.html", data)
		return
	}

	if err := sessionFrom(r).Login(r.Context(), user, token); err != nil {
		log.Printf("www: persist session for %q: %v", username, err)
		http.Error(w, "session error", http.StatusInternalServerError)
		return
	}
	log.Printf("www: %s signed in as %s", user.Username, user.Role)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	if token := s.Token(); token != "" {
		if err := h.engine.Auth().Revoke(r.Context(), token); err != nil {
			log.Printf("www: revoke token for %q: %v", s.Username(), err)
		}
	}
	if err := s.Logout(r.Context()); err != nil {
		log.Printf("www: clear session: %v", err)
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
