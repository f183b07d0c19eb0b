package view

import (
	"context"
	"sync"
	"time"

	"ItemList/internal/models"

	"github.com/pkg/errors"
)

var ErrInvalidSelection = errors.New("invalid selection")

const (
	Title       = "Items"
	AddLabel    = "Add Item"
	Placeholder = "Select an item"
)

// Store is the part of the record store the list view depends on.
type Store interface {
	Insert(ctx context.Context, item models.Item) (models.Item, error)
	Delete(ctx context.Context, ids ...string) (int, error)
	All(ctx context.Context) ([]models.Item, error)
	Subscribe(fn func([]models.Item)) (cancel func())
}

type Row struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Timestamp time.Time `json:"timestamp"`
}

type Detail struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Screen is everything a client needs to draw the list view. Version
// changes whenever the rows or the selection change.
type Screen struct {
	Version     uint64  `json:"version"`
	Title       string  `json:"title"`
	AddLabel    string  `json:"add_label"`
	Rows        []Row   `json:"rows"`
	Selected    int     `json:"selected"`
	Detail      *Detail `json:"detail,omitempty"`
	Placeholder string  `json:"placeholder,omitempty"`
}

type Option func(*ListView)

func WithClock(now func() time.Time) Option {
	return func(v *ListView) {
		v.now = now
	}
}

func WithLocation(loc *time.Location) Option {
	return func(v *ListView) {
		v.loc = loc
	}
}

// WithRenderFunc sets the callback invoked with a fresh screen after every
// state change. It may run on the goroutine of a store mutation made by
// another view, so it should not block.
func WithRenderFunc(render func(Screen)) Option {
	return func(v *ListView) {
		v.render = render
	}
}

// ListView keeps the last item snapshot published by the store and the
// selection state: [list] -> Select -> [detail] -> Back -> [list].
type ListView struct {
	store  Store
	now    func() time.Time
	loc    *time.Location
	render func(Screen)

	mu       sync.Mutex
	items    []models.Item
	selected string
	seeded   bool
	version  uint64
	cancel   func()
}

func New(store Store, opts ...Option) *ListView {
	v := &ListView{
		store:  store,
		now:    time.Now,
		loc:    time.Local,
		render: func(Screen) {},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Start subscribes to the store and seeds the view with the current items.
func (v *ListView) Start(ctx context.Context) error {
	cancel := v.store.Subscribe(v.onChange)

	items, err := v.store.All(ctx)
	if err != nil {
		cancel()
		return errors.Wrap(err, "failed to load items")
	}

	v.mu.Lock()
	v.cancel = cancel
	// 구독 이후 도착한 스냅샷이 더 최신
	if !v.seeded {
		v.items = items
		v.seeded = true
	}
	v.version++
	screen := v.screenLocked()
	v.mu.Unlock()

	v.render(screen)
	return nil
}

func (v *ListView) Close() {
	v.mu.Lock()
	cancel := v.cancel
	v.cancel = nil
	v.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (v *ListView) onChange(items []models.Item) {
	v.mu.Lock()
	v.items = items
	v.seeded = true
	if v.selected != "" && v.indexLocked(v.selected) < 0 {
		v.selected = ""
	}
	v.version++
	screen := v.screenLocked()
	v.mu.Unlock()

	v.render(screen)
}

// Add inserts a new item stamped with the current time.
func (v *ListView) Add(ctx context.Context) (models.Item, error) {
	return v.store.Insert(ctx, models.NewItem(v.now()))
}

// Delete removes the items at the given row offsets of the current snapshot.
// Offsets outside the list are ignored. Callers whose rows may lag behind
// the snapshot should use DeleteIDs.
func (v *ListView) Delete(ctx context.Context, offsets ...int) (int, error) {
	v.mu.Lock()
	ids := make([]string, 0, len(offsets))
	for _, offset := range offsets {
		if offset < 0 || offset >= len(v.items) {
			continue
		}
		ids = append(ids, v.items[offset].ID)
	}
	v.mu.Unlock()

	return v.DeleteIDs(ctx, ids...)
}

// DeleteIDs removes the given items. Ids no longer in the store are ignored.
func (v *ListView) DeleteIDs(ctx context.Context, ids ...string) (int, error) {
	filtered := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			filtered = append(filtered, id)
		}
	}
	if len(filtered) == 0 {
		return 0, nil
	}
	return v.store.Delete(ctx, filtered...)
}

func (v *ListView) Select(index int) error {
	v.mu.Lock()
	if index < 0 || index >= len(v.items) {
		v.mu.Unlock()
		return errors.Wrapf(ErrInvalidSelection, "row %d", index)
	}
	v.selected = v.items[index].ID
	v.version++
	screen := v.screenLocked()
	v.mu.Unlock()

	v.render(screen)
	return nil
}

func (v *ListView) Back() {
	v.mu.Lock()
	v.selected = ""
	v.version++
	screen := v.screenLocked()
	v.mu.Unlock()

	v.render(screen)
}

func (v *ListView) Screen() Screen {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.screenLocked()
}

func (v *ListView) screenLocked() Screen {
	screen := Screen{
		Version:  v.version,
		Title:    Title,
		AddLabel: AddLabel,
		Rows:     make([]Row, 0, len(v.items)),
		Selected: -1,
	}
	for i, item := range v.items {
		screen.Rows = append(screen.Rows, Row{ID: item.ID, Label: item.Label(v.loc), Timestamp: item.Timestamp})
		if item.ID == v.selected {
			screen.Selected = i
			screen.Detail = &Detail{ID: item.ID, Text: item.DetailText(v.loc)}
		}
	}
	if screen.Detail == nil {
		screen.Placeholder = Placeholder
	}
	return screen
}

func (v *ListView) indexLocked(id string) int {
	for i, item := range v.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}
