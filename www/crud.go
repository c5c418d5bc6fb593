package www

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ckmconsole/api"
	"ckmconsole/domain"
	"ckmconsole/view"
)

// action is a resolved status transition: the notice shown on success and
// the API call that performs it.
type action struct {
	done string
	call func(ctx context.Context) error
}

// crudPage wires one domain view to routes under path. T is the record
// type and F its string-valued form.
type crudPage[T view.Record, F any] struct {
	h        *Handlers
	path     string
	tab      string
	page     string // template file
	resource string // rbac resource
	domain   string // change-notice domain
	msgs     view.Messages

	source func(c *api.Client) view.Source[T]
	get    func(c *api.Client, ctx context.Context, id int64) (*T, error)
	blank  func() F
	from   func(T) F
	entity func(F) (*T, error)

	// resolve maps a posted action name to a transition. Nil when the
	// domain has no status actions.
	resolve func(ctx context.Context, c *api.Client, id int64, name, actor string, form url.Values) (action, error)

	// extra adds page-specific data for the list view.
	extra func(r *http.Request, items []T, data map[string]any)
}

func (p *crudPage[T, F]) routes(r chi.Router) {
	h := p.h
	r.Route(p.path, func(r chi.Router) {
		r.Use(h.requirePermission(p.resource, domain.ActionRead))
		r.Get("/", p.list)

		create := r.With(h.requirePermission(p.resource, domain.ActionCreate))
		create.Get("/new", p.newForm)
		create.Post("/", p.create)

		update := r.With(h.requirePermission(p.resource, domain.ActionUpdate))
		update.Get("/{id}/edit", p.editForm)
		update.Post("/{id}", p.update)
		if p.resolve != nil {
			update.Post("/{id}/actions/{action}", p.transition)
		}

		del := r.With(h.requirePermission(p.resource, domain.ActionDelete))
		del.Get("/{id}/delete", p.confirmDelete)
		del.Post("/{id}/delete", p.delete)
	})
}

func (p *crudPage[T, F]) controller(r *http.Request) *view.Controller[T] {
	return view.New(p.source(p.h.client(r)), p.msgs, api.ErrorMessage)
}

// perms reports which mutations the signed-in user may offer.
type perms struct {
	Create, Update, Delete bool
}

func (p *crudPage[T, F]) data(r *http.Request) map[string]any {
	s := sessionFrom(r)
	data := p.h.pageData(r, p.page[:len(p.page)-len(".html")])
	data["Tab"] = p.tab
	data["Base"] = p.path
	data["Domain"] = p.domain
	data["Noun"] = p.msgs.Noun
	data["Perm"] = perms{
		Create: s.HasPermission(p.resource, domain.ActionCreate),
		Update: s.HasPermission(p.resource, domain.ActionUpdate),
		Delete: s.HasPermission(p.resource, domain.ActionDelete),
	}
	return data
}

// renderList renders the controller's current snapshot.
func (p *crudPage[T, F]) renderList(w http.ResponseWriter, r *http.Request, ctl *view.Controller[T]) {
	snap := ctl.Snapshot()
	data := p.data(r)
	data["View"] = snap
	data["Items"] = snap.Items
	data["Notice"] = snap.Notice
	if p.extra != nil && snap.State == view.Loaded {
		p.extra(r, snap.Items, data)
	}
	p.h.render(w, p.page, data)
}

// renderForm renders the create/edit dialog without fetching the list.
func (p *crudPage[T, F]) renderForm(w http.ResponseWriter, r *http.Request, id int64, form F, fe *view.FormError, notice *view.Notice) {
	data := p.data(r)
	data["Dialog"] = "create"
	data["Action"] = p.path
	if id != 0 {
		data["Dialog"] = "edit"
		data["Action"] = p.path + "/" + strconv.FormatInt(id, 10)
		data["EditID"] = id
	}
	data["Form"] = form
	data["Errors"] = fe
	data["Notice"] = notice
	if fe != nil && notice == nil {
		data["Notice"] = &view.Notice{Kind: view.NoticeError, Text: "请检查表单中标记的字段"}
	}
	p.h.render(w, p.page, data)
}

func (p *crudPage[T, F]) list(w http.ResponseWriter, r *http.Request) {
	ctl := p.controller(r)
	ctl.Load(r.Context())
	p.renderList(w, r, ctl)
}

func (p *crudPage[T, F]) newForm(w http.ResponseWriter, r *http.Request) {
	p.renderForm(w, r, 0, p.blank(), nil, nil)
}

func (p *crudPage[T, F]) editForm(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	rec, err := p.get(p.h.client(r), r.Context(), id)
	if err != nil {
		ctl := p.controller(r)
		ctl.SetNotice(&view.Notice{Kind: view.NoticeError, Text: "加载" + p.msgs.Noun + "失败: " + api.ErrorMessage(err)})
		ctl.Load(r.Context())
		p.renderList(w, r, ctl)
		return
	}
	p.renderForm(w, r, id, p.from(*rec), nil, nil)
}

// bind decodes the posted form. A nil entity means the form was rendered
// again with its errors.
func (p *crudPage[T, F]) bind(w http.ResponseWriter, r *http.Request, id int64) (*T, F, bool) {
	var form F
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, form, false
	}
	if err := view.Bind(r.PostForm, &form); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, form, false
	}
	v, err := p.entity(form)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		p.renderForm(w, r, id, form, view.AsFormError(err), nil)
		return nil, form, false
	}
	return v, form, true
}

func (p *crudPage[T, F]) create(w http.ResponseWriter, r *http.Request) {
	v, form, ok := p.bind(w, r, 0)
	if !ok {
		return
	}
	ctl := p.controller(r)
	if err := ctl.Create(r.Context(), v); err != nil {
		p.renderForm(w, r, 0, form, nil, ctl.Snapshot().Notice)
		return
	}
	p.h.engine.RecordChanged(p.domain, (*v).RecordID(), "created", p.h.getUsername(r), "")
	p.renderList(w, r, ctl)
}

func (p *crudPage[T, F]) update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	v, form, ok := p.bind(w, r, id)
	if !ok {
		return
	}
	ctl := p.controller(r)
	if err := ctl.Update(r.Context(), id, v); err != nil {
		p.renderForm(w, r, id, form, nil, ctl.Snapshot().Notice)
		return
	}
	p.h.engine.RecordChanged(p.domain, id, "updated", p.h.getUsername(r), "")
	p.renderList(w, r, ctl)
}

func (p *crudPage[T, F]) confirmDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	data := p.data(r)
	data["Prompt"] = p.controller(r).DeletePrompt()
	data["Action"] = p.path + "/" + strconv.FormatInt(id, 10) + "/delete"
	data["Cancel"] = p.path
	p.h.render(w, "confirm.html", data)
}

// delete issues the DELETE only when the confirmation form answered yes.
func (p *crudPage[T, F]) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	ctl := p.controller(r)
	err := ctl.Delete(r.Context(), id, view.Confirmed(r.PostFormValue("confirm") == "yes"))
	switch {
	case errors.Is(err, view.ErrNotConfirmed):
		http.Redirect(w, r, p.path, http.StatusSeeOther)
		return
	case err != nil:
		ctl.Load(r.Context())
	default:
		p.h.engine.RecordChanged(p.domain, id, "deleted", p.h.getUsername(r), "")
	}
	p.renderList(w, r, ctl)
}

func (p *crudPage[T, F]) transition(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	name := chi.URLParam(r, "action")
	actor := p.h.getUsername(r)
	client := p.h.client(r)
	ctl := p.controller(r)

	act, err := p.resolve(r.Context(), client, id, name, actor, r.PostForm)
	if err != nil {
		log.Printf("www: %s %d %s: %v", p.domain, id, name, err)
		text := api.ErrorMessage(err)
		if errors.Is(err, domain.ErrInvalidTransition) {
			text = "当前状态不允许该操作"
		} else if fe := view.AsFormError(err); fe != nil {
			for _, msg := range fe.Fields {
				text = msg
			}
		}
		ctl.SetNotice(&view.Notice{Kind: view.NoticeError, Text: text})
		ctl.Load(r.Context())
		p.renderList(w, r, ctl)
		return
	}
	if err := ctl.Transition(r.Context(), act.done, act.call); err != nil {
		ctl.Load(r.Context())
	} else {
		p.h.engine.RecordChanged(p.domain, id, name, actor, "")
	}
	p.renderList(w, r, ctl)
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
