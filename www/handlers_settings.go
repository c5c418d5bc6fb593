package www

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"ckmconsole/api"
	"ckmconsole/domain"
	"ckmconsole/rbac"
	"ckmconsole/view"
)

func (h *Handlers) handleSettings(w http.ResponseWriter, r *http.Request) {
	h.renderSettings(w, r, nil, nil)
}

func (h *Handlers) renderSettings(w http.ResponseWriter, r *http.Request, sys *domain.SystemConfig, notice *view.Notice) {
	s := sessionFrom(r)
	c := h.client(r)
	data := h.pageData(r, "settings")
	data["Domain"] = "system"
	data["Notice"] = notice
	data["Errors"] = (*view.FormError)(nil)

	if sys == nil {
		cfg, err := c.GetSystemConfig(r.Context())
		if err != nil {
			log.Printf("www: system config: %v", err)
			def := domain.DefaultSystemConfig()
			cfg = &def
			data["SystemError"] = api.ErrorMessage(err)
		}
		sys = cfg
	}
	data["System"] = sys

	canManage := s.HasPermission(rbac.ResourceSettings, domain.ActionUpdate)
	data["CanManage"] = canManage
	if canManage {
		audit, err := h.engine.DB().ListAuditLog(50)
		if err != nil {
			log.Printf("www: audit log: %v", err)
		}
		data["Audit"] = audit
		users, err := c.ListUsers(r.Context())
		if err != nil {
			log.Printf("www: users: %v", err)
			data["UsersError"] = api.ErrorMessage(err)
		}
		data["Users"] = users
		cfg := h.engine.AppConfig()
		data["Console"] = map[string]any{
			"ConfigPath": h.engine.ConfigPath(),
			"BaseURL":    cfg.API.BaseURL,
			"Auth":       cfg.Auth.Backend,
			"Storage":    cfg.Session.Storage,
			"Database":   cfg.Database.Driver,
			"Instance":   h.engine.InstanceID(),
			"Health":     h.engine.Health(),
		}
	}
	h.render(w, "settings.html", data)
}

func (h *Handlers) handlePreferencesSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	username := h.getUsername(r)
	prefs, err := h.engine.DB().GetPreferences(username)
	if err != nil {
		log.Printf("www: preferences for %s: %v", username, err)
		h.renderSettings(w, r, nil, &view.Notice{Kind: view.NoticeError, Text: "读取偏好设置失败"})
		return
	}
	prefs.Notifications = r.PostForm.Get("notifications") == "on"
	prefs.DarkMode = r.PostForm.Get("darkMode") == "on"
	prefs.ChartAnimations = r.PostForm.Get("chartAnimations") == "on"
	if err := h.engine.DB().SavePreferences(prefs); err != nil {
		log.Printf("www: save preferences for %s: %v", username, err)
		h.renderSettings(w, r, nil, &view.Notice{Kind: view.NoticeError, Text: "保存偏好设置失败"})
		return
	}
	h.renderSettings(w, r, nil, &view.Notice{Kind: view.NoticeSuccess, Text: "偏好设置已保存"})
}

// parseSystemConfig reads the system settings form. Numeric fields must be
// positive integers.
func parseSystemConfig(form map[string][]string) (*domain.SystemConfig, *view.FormError) {
	get := func(k string) string {
		if v := form[k]; len(v) > 0 {
			return v[0]
		}
		return ""
	}
	cfg := &domain.SystemConfig{
		AutoBackup:    get("autoBackup") == "on",
		TwoFactorAuth: get("twoFactorAuth") == "on",
	}
	fields := map[string]string{}
	ints := []struct {
		name string
		dst  *int
	}{
		{"dataRetention", &cfg.DataRetention},
		{"maxFileSize", &cfg.MaxFileSize},
		{"sessionTimeout", &cfg.SessionTimeout},
		{"passwordExpiry", &cfg.PasswordExpiry},
	}
	for _, f := range ints {
		n, err := strconv.Atoi(get(f.name))
		if err != nil || n <= 0 {
			fields[f.name] = "请输入正整数"
			continue
		}
		*f.dst = n
	}
	if len(fields) > 0 {
		return cfg, &view.FormError{Fields: fields}
	}
	return cfg, nil
}

func (h *Handlers) handleSystemConfigSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	cfg, fe := parseSystemConfig(r.PostForm)
	if fe != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		h.renderSettingsForm(w, r, cfg, fe)
		return
	}
	saved, err := h.client(r).UpdateSystemConfig(r.Context(), cfg)
	if err != nil {
		log.Printf("www: update system config: %v", err)
		h.renderSettings(w, r, cfg, &view.Notice{Kind: view.NoticeError, Text: "保存系统设置失败: " + api.ErrorMessage(err)})
		return
	}
	h.engine.RecordChanged("system", 0, "updated", h.getUsername(r), "")
	// the local audit trail follows the backend's retention window
	cutoff := time.Now().AddDate(0, 0, -cfg.DataRetention)
	if n, err := h.engine.DB().PruneAudit(cutoff); err != nil {
		log.Printf("www: prune audit log: %v", err)
	} else if n > 0 {
		log.Printf("www: pruned %d audit entries older than %d days", n, cfg.DataRetention)
	}
	h.renderSettings(w, r, saved, &view.Notice{Kind: view.NoticeSuccess, Text: "系统设置已保存"})
}

func (h *Handlers) renderSettingsForm(w http.ResponseWriter, r *http.Request, cfg *domain.SystemConfig, fe *view.FormError) {
	data := h.pageData(r, "settings")
	data["Domain"] = "system"
	data["System"] = cfg
	data["Errors"] = fe
	data["CanManage"] = true
	data["Notice"] = &view.Notice{Kind: view.NoticeError, Text: "请检查表单中标记的字段"}
	h.render(w, "settings.html", data)
}
