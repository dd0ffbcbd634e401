package registry_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/lexfsm/pkg/adapters/memory"
	"github.com/aretw0/lexfsm/pkg/domain"
	"github.com/aretw0/lexfsm/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const digits = "1 1 0\nstart 0 0\n0\x00\nL 0\n"

const words = `
symbols: [a]
states:
  - name: start
    row: [start]
`

func TestRegistry_LoadAll(t *testing.T) {
	store := memory.NewStore(map[string]string{
		"digits.fsm": digits,
		"words.yaml": words,
	})

	var (
		mu     sync.Mutex
		loaded []string
	)
	reg := registry.NewRegistry(store, registry.WithConcurrency(1), registry.WithLoadObserver(func(name string, _ time.Duration, err error) {
		assert.NoError(t, err)
		mu.Lock()
		loaded = append(loaded, name)
		mu.Unlock()
	}))

	require.NoError(t, reg.LoadAll(context.Background()))
	assert.Equal(t, []string{"digits.fsm", "words.yaml"}, reg.Names())
	assert.ElementsMatch(t, []string{"digits.fsm", "words.yaml"}, loaded)

	def, ok := reg.Get("words.yaml")
	require.True(t, ok)
	assert.Equal(t, "words.yaml", def.Name())
	assert.Equal(t, 1, def.NumStates())
}

func TestRegistry_LoadAll_ReportsEveryFailure(t *testing.T) {
	store := memory.NewStore(map[string]string{
		"digits.fsm": digits,
		"bad1.fsm":   "1 1 0\nstart 0 0\n0\x00\nX 0\n",
		"bad2.fsm":   "2 0",
	})
	reg := registry.NewRegistry(store)

	err := reg.LoadAll(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownMarker)
	assert.ErrorIs(t, err, domain.ErrTruncated)
	assert.Equal(t, []string{"digits.fsm"}, reg.Names(), "valid descriptions are still registered")
}

func TestRegistry_Load_NotFound(t *testing.T) {
	reg := registry.NewRegistry(memory.NewStore(nil))

	_, err := reg.Load(context.Background(), "missing.fsm")
	assert.ErrorIs(t, err, domain.ErrDescriptionNotFound)

	_, err = registry.NewRegistry(nil).Load(context.Background(), "missing.fsm")
	assert.ErrorIs(t, err, domain.ErrDescriptionNotFound)
}

func TestRegistry_RegisterAndRemove(t *testing.T) {
	def, err := domain.NewDefinition("manual", nil, []domain.State{{Name: "s", Row: domain.ListRow{}}}, 0)
	require.NoError(t, err)

	reg := registry.NewRegistry(nil)
	reg.Register(def)

	got, ok := reg.Get("manual")
	require.True(t, ok)
	assert.Same(t, def, got)

	reg.Remove("manual")
	_, ok = reg.Get("manual")
	assert.False(t, ok)
	assert.Empty(t, reg.Names())
}

// watchableStore reports changes pushed by the test.
type watchableStore struct {
	*memory.Store
	events chan string
}

func (w *watchableStore) Watch(context.Context) (<-chan string, error) {
	return w.events, nil
}

func TestRegistry_Watch(t *testing.T) {
	store := &watchableStore{
		Store:  memory.NewStore(map[string]string{"digits.fsm": digits}),
		events: make(chan string),
	}
	reg := registry.NewRegistry(store)
	require.NoError(t, reg.LoadAll(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- reg.Watch(ctx) }()

	// Update
	require.NoError(t, store.SaveDescription(ctx, "digits.fsm", []byte("2 1 1\na 0 0\nb 1 0\n0\x00\nL 1\nL 0\n")))
	store.events <- "digits.fsm"

	// Delete
	require.NoError(t, store.DeleteDescription(ctx, "digits.fsm"))
	store.events <- "digits.fsm"

	close(store.events)
	require.NoError(t, <-done)
	cancel()

	_, ok := reg.Get("digits.fsm")
	assert.False(t, ok, "deleted description is removed")
}

func TestRegistry_Watch_UpdateReplacesDefinition(t *testing.T) {
	store := &watchableStore{
		Store:  memory.NewStore(map[string]string{"digits.fsm": digits}),
		events: make(chan string),
	}
	reg := registry.NewRegistry(store)
	require.NoError(t, reg.LoadAll(context.Background()))

	done := make(chan error, 1)
	go func() { done <- reg.Watch(context.Background()) }()

	require.NoError(t, store.SaveDescription(context.Background(), "digits.fsm", []byte("2 1 1\na 0 0\nb 1 0\n0\x00\nL 1\nL 0\n")))
	store.events <- "digits.fsm"
	close(store.events)
	require.NoError(t, <-done)

	def, ok := reg.Get("digits.fsm")
	require.True(t, ok)
	assert.Equal(t, 2, def.NumStates())
	assert.Equal(t, 1, def.Start())
}

func TestRegistry_Watch_NotWatchable(t *testing.T) {
	reg := registry.NewRegistry(memory.NewStore(nil))
	assert.ErrorIs(t, reg.Watch(context.Background()), registry.ErrNotWatchable)
}
