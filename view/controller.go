// Package view implements the list/mutate/reload cycle shared by every
// domain page of the console.
package view

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"
)

// ErrNotConfirmed is returned by Delete when the user declines the prompt.
var ErrNotConfirmed = errors.New("delete not confirmed")

type State int

const (
	Idle State = iota
	Loading
	Loaded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "error"
	}
	return "unknown"
}

// Record is any entity the backend addresses by numeric id.
type Record interface {
	RecordID() int64
}

// Source is the set of API calls behind one domain view. Create, Update and
// Delete may be nil for read-only views.
type Source[T Record] struct {
	List   func(ctx context.Context) ([]T, error)
	Create func(ctx context.Context, v *T) error
	Update func(ctx context.Context, id int64, v *T) error
	Delete func(ctx context.Context, id int64) error
}

// Confirmer asks the user before a destructive call.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }

// Confirmed is a Confirmer holding an answer the user already gave.
type Confirmed bool

func (c Confirmed) Confirm(context.Context, string) bool { return bool(c) }

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
	NoticeInfo    NoticeKind = "info"
)

// Notice is the transient message shown after an action.
type Notice struct {
	Kind NoticeKind
	Text string
}

// Messages are the notice texts for one domain.
type Messages struct {
	Noun         string
	LoadFailed   string
	DeletePrompt string
}

// Snapshot is a copy of the controller state for rendering.
type Snapshot[T Record] struct {
	State  State
	Items  []T
	Error  string
	Notice *Notice
}

// Controller drives one domain view. Concurrent Load calls share a single
// in-flight list request.
type Controller[T Record] struct {
	src      Source[T]
	msgs     Messages
	errText  func(error) string
	inflight singleflight.Group

	mu     sync.Mutex
	state  State
	items  []T
	err    string
	notice *Notice
}

// New returns an idle controller. errText turns API errors into notice text.
func New[T Record](src Source[T], msgs Messages, errText func(error) string) *Controller[T] {
	if errText == nil {
		errText = func(err error) string { return err.Error() }
	}
	if msgs.LoadFailed == "" {
		msgs.LoadFailed = "加载数据失败"
	}
	if msgs.DeletePrompt == "" {
		msgs.DeletePrompt = "确定要删除这个" + msgs.Noun + "吗？"
	}
	return &Controller[T]{src: src, msgs: msgs, errText: errText}
}

// Load fetches the list. Prior items stay visible while loading and are kept
// on failure.
func (c *Controller[T]) Load(ctx context.Context) {
	c.mu.Lock()
	c.state = Loading
	c.mu.Unlock()

	v, err, _ := c.inflight.Do("list", func() (any, error) {
		return c.src.List(ctx)
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = Failed
		c.err = c.msgs.LoadFailed + ": " + c.errText(err)
		return
	}
	items, _ := v.([]T)
	c.items = items
	c.state = Loaded
	c.err = ""
}

// Retry re-enters Loading after a failed load.
func (c *Controller[T]) Retry(ctx context.Context) {
	c.Load(ctx)
}

// Create submits v and reloads on success. On failure the list is not
// reloaded and the returned error lets the caller keep the dialog open.
func (c *Controller[T]) Create(ctx context.Context, v *T) error {
	if c.src.Create == nil {
		return errors.ErrUnsupported
	}
	if err := c.src.Create(ctx, v); err != nil {
		c.setNotice(NoticeError, c.msgs.Noun+"创建失败: "+c.errText(err))
		return err
	}
	c.setNotice(NoticeSuccess, c.msgs.Noun+"创建成功")
	c.Load(ctx)
	return nil
}

func (c *Controller[T]) Update(ctx context.Context, id int64, v *T) error {
	if c.src.Update == nil {
		return errors.ErrUnsupported
	}
	if err := c.src.Update(ctx, id, v); err != nil {
		c.setNotice(NoticeError, c.msgs.Noun+"更新失败: "+c.errText(err))
		return err
	}
	c.setNotice(NoticeSuccess, c.msgs.Noun+"更新成功")
	c.Load(ctx)
	return nil
}

// Delete asks confirm first and issues no call unless it answers yes.
func (c *Controller[T]) Delete(ctx context.Context, id int64, confirm Confirmer) error {
	if c.src.Delete == nil {
		return errors.ErrUnsupported
	}
	if confirm == nil || !confirm.Confirm(ctx, c.msgs.DeletePrompt) {
		return ErrNotConfirmed
	}
	if err := c.src.Delete(ctx, id); err != nil {
		c.setNotice(NoticeError, c.msgs.Noun+"删除失败: "+c.errText(err))
		return err
	}
	c.setNotice(NoticeSuccess, c.msgs.Noun+"删除成功")
	c.Load(ctx)
	return nil
}

// Transition runs a status-change call and reloads on success. done is the
// success notice, e.g. "订单已批准".
func (c *Controller[T]) Transition(ctx context.Context, done string, call func(ctx context.Context) error) error {
	if err := call(ctx); err != nil {
		c.setNotice(NoticeError, "操作失败: "+c.errText(err))
		return err
	}
	c.setNotice(NoticeSuccess, done)
	c.Load(ctx)
	return nil
}

// Find returns the loaded record with id, for pre-filling an edit dialog.
func (c *Controller[T]) Find(id int64) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.items {
		if it.RecordID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// DeletePrompt is the confirmation text shown before a delete.
func (c *Controller[T]) DeletePrompt() string { return c.msgs.DeletePrompt }

func (c *Controller[T]) SetNotice(n *Notice) {
	c.mu.Lock()
	c.notice = n
	c.mu.Unlock()
}

func (c *Controller[T]) setNotice(kind NoticeKind, text string) {
	c.SetNotice(&Notice{Kind: kind, Text: text})
}

func (c *Controller[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]T, len(c.items))
	copy(items, c.items)
	return Snapshot[T]{State: c.state, Items: items, Error: c.err, Notice: c.notice}
}
