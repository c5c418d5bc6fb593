package view

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"ckmconsole/domain"
)

// fakeAPI records calls in order and tracks overlapping list requests.
type fakeAPI struct {
	mu       sync.Mutex
	calls    []string
	items    []domain.InventoryItem
	listGate chan struct{}
	active   atomic.Int32
	overlap  atomic.Bool
	failList error
	failSave error
}

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *fakeAPI) source() Source[domain.InventoryItem] {
	return Source[domain.InventoryItem]{
		List: func(ctx context.Context) ([]domain.InventoryItem, error) {
			if f.active.Add(1) > 1 {
				f.overlap.Store(true)
			}
			defer f.active.Add(-1)
			f.record("list")
			if f.listGate != nil {
				<-f.listGate
			}
			if f.failList != nil {
				return nil, f.failList
			}
			f.mu.Lock()
			defer f.mu.Unlock()
			return append([]domain.InventoryItem(nil), f.items...), nil
		},
		Create: func(ctx context.Context, v *domain.InventoryItem) error {
			f.record("create")
			if f.failSave != nil {
				return f.failSave
			}
			f.mu.Lock()
			v.ID = int64(len(f.items) + 1)
			f.items = append(f.items, *v)
			f.mu.Unlock()
			return nil
		},
		Update: func(ctx context.Context, id int64, v *domain.InventoryItem) error {
			f.record("update")
			return f.failSave
		},
		Delete: func(ctx context.Context, id int64) error {
			f.record("delete")
			return nil
		},
	}
}

func newController(f *fakeAPI) *Controller[domain.InventoryItem] {
	return New(f.source(), Messages{Noun: "库存项目"}, nil)
}

func equalCalls(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestListCreateRelist(t *testing.T) {
	f := &fakeAPI{}
	c := newController(f)
	ctx := context.Background()

	if c.State() != Idle {
		t.Fatalf("initial state = %s, want idle", c.State())
	}
	c.Load(ctx)
	if err := c.Create(ctx, &domain.InventoryItem{Name: "青椒"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	want := []string{"list", "create", "list"}
	if got := f.Calls(); !equalCalls(got, want) {
		t.Errorf("calls = %v, want %v", got, want)
	}
	if f.overlap.Load() {
		t.Error("list calls overlapped")
	}
	snap := c.Snapshot()
	if snap.State != Loaded || len(snap.Items) != 1 {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.Notice == nil || snap.Notice.Kind != NoticeSuccess || snap.Notice.Text != "库存项目创建成功" {
		t.Errorf("notice = %+v", snap.Notice)
	}
}

func TestConcurrentLoadsShareOneCall(t *testing.T) {
	f := &fakeAPI{listGate: make(chan struct{})}
	c := newController(f)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Load(context.Background())
		}()
	}
	// Let the goroutines reach the in-flight call before releasing it.
	deadline := time.Now().Add(2 * time.Second)
	for f.active.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	close(f.listGate)
	wg.Wait()

	if f.overlap.Load() {
		t.Error("list calls overlapped")
	}
	if c.State() != Loaded {
		t.Errorf("state = %s, want loaded", c.State())
	}
}

func TestCreateFailureKeepsDialog(t *testing.T) {
	f := &fakeAPI{failSave: errors.New("HTTP 400")}
	c := newController(f)
	ctx := context.Background()
	c.Load(ctx)

	if err := c.Create(ctx, &domain.InventoryItem{Name: "x"}); err == nil {
		t.Fatal("expected error")
	}
	if got := f.Calls(); !equalCalls(got, []string{"list", "create"}) {
		t.Errorf("calls = %v, want no reload after failure", got)
	}
	if n := c.Snapshot().Notice; n == nil || n.Kind != NoticeError {
		t.Errorf("notice = %+v, want error", n)
	}
}

func TestLoadFailureAndRetry(t *testing.T) {
	f := &fakeAPI{failList: errors.New("connection refused")}
	c := newController(f)
	ctx := context.Background()

	c.Load(ctx)
	snap := c.Snapshot()
	if snap.State != Failed {
		t.Fatalf("state = %s, want error", snap.State)
	}
	if snap.Error == "" {
		t.Error("failed load should carry a message")
	}

	f.failList = nil
	f.items = []domain.InventoryItem{{ID: 1, Name: "花生米"}}
	c.Retry(ctx)
	snap = c.Snapshot()
	if snap.State != Loaded || snap.Error != "" || len(snap.Items) != 1 {
		t.Errorf("after retry = %+v", snap)
	}
}

func TestFailedReloadKeepsItems(t *testing.T) {
	f := &fakeAPI{items: []domain.InventoryItem{{ID: 1}}}
	c := newController(f)
	ctx := context.Background()
	c.Load(ctx)

	f.failList = errors.New("timeout")
	c.Load(ctx)
	if got := len(c.Snapshot().Items); got != 1 {
		t.Errorf("items after failed reload = %d, want 1", got)
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	f := &fakeAPI{items: []domain.InventoryItem{{ID: 3}}}
	c := newController(f)
	ctx := context.Background()

	var prompt string
	decline := ConfirmFunc(func(_ context.Context, p string) bool {
		prompt = p
		return false
	})
	if err := c.Delete(ctx, 3, decline); !errors.Is(err, ErrNotConfirmed) {
		t.Fatalf("Delete(declined) = %v, want ErrNotConfirmed", err)
	}
	if prompt != "确定要删除这个库存项目吗？" {
		t.Errorf("prompt = %q", prompt)
	}
	if err := c.Delete(ctx, 3, nil); !errors.Is(err, ErrNotConfirmed) {
		t.Fatalf("Delete(nil) = %v, want ErrNotConfirmed", err)
	}
	if got := f.Calls(); len(got) != 0 {
		t.Fatalf("calls after decline = %v, want none", got)
	}

	if err := c.Delete(ctx, 3, Confirmed(true)); err != nil {
		t.Fatalf("Delete(confirmed): %v", err)
	}
	deletes := 0
	for _, call := range f.Calls() {
		if call == "delete" {
			deletes++
		}
	}
	if deletes != 1 {
		t.Errorf("DELETE calls = %d, want 1", deletes)
	}
	if got := f.Calls(); !equalCalls(got, []string{"delete", "list"}) {
		t.Errorf("calls = %v", got)
	}
}

func TestTransitionReloads(t *testing.T) {
	f := &fakeAPI{}
	c := newController(f)
	ctx := context.Background()

	err := c.Transition(ctx, "订单已批准", func(context.Context) error {
		f.record("approve")
		return nil
	})
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if got := f.Calls(); !equalCalls(got, []string{"approve", "list"}) {
		t.Errorf("calls = %v", got)
	}
	if n := c.Snapshot().Notice; n == nil || n.Text != "订单已批准" {
		t.Errorf("notice = %+v", n)
	}

	err = c.Transition(ctx, "x", func(context.Context) error { return errors.New("409") })
	if err == nil {
		t.Fatal("expected transition error")
	}
	if got := len(f.Calls()); got != 2 {
		t.Errorf("failed transition reloaded; calls = %v", f.Calls())
	}
}

func TestFind(t *testing.T) {
	f := &fakeAPI{items: []domain.InventoryItem{{ID: 4, Name: "鸡胸肉"}}}
	c := newController(f)
	c.Load(context.Background())
	it, ok := c.Find(4)
	if !ok || it.Name != "鸡胸肉" {
		t.Errorf("Find(4) = %+v, %v", it, ok)
	}
	if _, ok := c.Find(5); ok {
		t.Error("Find(5) should miss")
	}
}

func TestReadOnlySource(t *testing.T) {
	c := New(Source[domain.InventoryItem]{
		List: func(context.Context) ([]domain.InventoryItem, error) { return nil, nil },
	}, Messages{Noun: "x"}, nil)
	if err := c.Create(context.Background(), &domain.InventoryItem{}); !errors.Is(err, errors.ErrUnsupported) {
		t.Errorf("Create on read-only = %v", err)
	}
}
