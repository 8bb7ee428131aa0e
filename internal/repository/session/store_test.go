package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/lexbrief/internal/domain"
	"github.com/iyunix/lexbrief/internal/repository/kv"
)

func sampleSession(id, first string, at time.Time) domain.ChatSession {
	msgs := []domain.Message{
		{ID: id + "-u", Role: domain.RoleUser, Content: first, Timestamp: at},
		{
			ID: id + "-a", Role: domain.RoleAssistant, Content: "Summary.", Timestamp: at.Add(time.Second),
			Precedents: []domain.Precedent{{CaseName: "Donoghue v Stevenson", Excerpt: "duty of care"}},
		},
	}
	return domain.ChatSession{ID: id, Title: domain.DeriveTitle(msgs), Messages: msgs, Timestamp: at.Add(time.Second)}
}

func assertSessionEqual(t *testing.T, want, got domain.ChatSession) {
	t.Helper()
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Title, got.Title)
	assert.True(t, want.Timestamp.Equal(got.Timestamp), "timestamp %v != %v", want.Timestamp, got.Timestamp)
	require.Len(t, got.Messages, len(want.Messages))
	for i := range want.Messages {
		w, g := want.Messages[i], got.Messages[i]
		assert.Equal(t, w.ID, g.ID)
		assert.Equal(t, w.Role, g.Role)
		assert.Equal(t, w.Content, g.Content)
		assert.True(t, w.Timestamp.Equal(g.Timestamp))
		assert.Equal(t, len(w.Precedents), len(g.Precedents))
		for j := range w.Precedents {
			assert.Equal(t, w.Precedents[j], g.Precedents[j])
		}
	}
}

func TestStore_RoundTripAcrossRestart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")
	backend, err := kv.OpenSQLite(path)
	require.NoError(t, err)

	now := time.Date(2024, 3, 5, 15, 4, 5, 123456789, time.UTC)
	older := sampleSession("s1", "Is a verbal contract binding?", now)
	newer := sampleSession("s2", "Summarise the judgement in Carlill", now.Add(time.Hour))

	store := NewStore(backend, nil)
	assert.Empty(t, store.Load(ctx))
	require.NoError(t, store.Upsert(ctx, older))
	require.NoError(t, store.Upsert(ctx, newer))
	require.NoError(t, backend.Close())

	backend, err = kv.OpenSQLite(path)
	require.NoError(t, err)
	defer backend.Close()

	reloaded := NewStore(backend, nil).Load(ctx)
	require.Len(t, reloaded, 2)
	assertSessionEqual(t, newer, reloaded[0])
	assertSessionEqual(t, older, reloaded[1])
}

func TestStore_MalformedHistoryLoadsEmpty(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemoryStore()
	require.NoError(t, backend.Put(ctx, HistoryKey, []byte(`{not json`)))

	store := NewStore(backend, nil)
	loaded := store.Load(ctx)

	assert.NotNil(t, loaded)
	assert.Empty(t, loaded)
	assert.Empty(t, store.List())
}

func TestStore_WrongShapeLoadsEmpty(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemoryStore()
	require.NoError(t, backend.Put(ctx, HistoryKey, []byte(`{"id":"not-an-array"}`)))

	assert.Empty(t, NewStore(backend, nil).Load(ctx))
}

func TestStore_UpsertReplacesInPlace(t *testing.T) {
	ctx := context.Background()
	store := NewStore(kv.NewMemoryStore(), nil)
	store.Load(ctx)

	now := time.Now()
	require.NoError(t, store.Upsert(ctx, sampleSession("a", "first", now)))
	require.NoError(t, store.Upsert(ctx, sampleSession("b", "second", now)))
	require.NoError(t, store.Upsert(ctx, sampleSession("c", "third", now)))

	updated := sampleSession("a", "first", now)
	updated.Messages = append(updated.Messages, domain.Message{ID: "a-u2", Role: domain.RoleUser, Content: "follow up", Timestamp: now})
	require.NoError(t, store.Upsert(ctx, updated))

	list := store.List()
	require.Len(t, list, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{list[0].ID, list[1].ID, list[2].ID})
	assert.Len(t, list[2].Messages, 3)
}

func TestStore_DeleteAndGet(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemoryStore()
	store := NewStore(backend, nil)
	store.Load(ctx)

	now := time.Now()
	require.NoError(t, store.Upsert(ctx, sampleSession("a", "first", now)))
	require.NoError(t, store.Upsert(ctx, sampleSession("b", "second", now)))

	require.NoError(t, store.Delete(ctx, "a"))
	_, ok := store.Get("a")
	assert.False(t, ok)
	got, ok := store.Get("b")
	require.True(t, ok)
	assert.Equal(t, "second", got.Title)

	require.NoError(t, store.Delete(ctx, "missing"))

	reloaded := NewStore(backend, nil).Load(ctx)
	require.Len(t, reloaded, 1)
	assert.Equal(t, "b", reloaded[0].ID)
}

func TestStore_ListIsACopy(t *testing.T) {
	ctx := context.Background()
	store := NewStore(kv.NewMemoryStore(), nil)
	store.Load(ctx)
	require.NoError(t, store.Upsert(ctx, sampleSession("a", "first", time.Now())))

	list := store.List()
	list[0].Title = "mutated"
	list[0].Messages[0].Content = "mutated"

	got, _ := store.Get("a")
	assert.Equal(t, "first", got.Title)
	assert.Equal(t, "first", got.Messages[0].Content)
}

type failingBackend struct{ kv.Store }

func (failingBackend) Put(context.Context, string, []byte) error { return errors.New("disk full") }

func TestStore_PersistFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	store := NewStore(failingBackend{kv.NewMemoryStore()}, nil)
	store.Load(ctx)

	err := store.Upsert(ctx, sampleSession("a", "first", time.Now()))
	assert.ErrorContains(t, err, "disk full")
	_, ok := store.Get("a")
	assert.True(t, ok)
}

func TestStore_PersistedLayout(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemoryStore()
	store := NewStore(backend, nil)
	store.Load(ctx)
	require.NoError(t, store.Save(ctx, nil))

	raw, found, err := backend.Get(ctx, HistoryKey)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, `[]`, string(raw))

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	s := domain.ChatSession{
		ID: "x", Title: "hi", Timestamp: at,
		Messages: []domain.Message{{ID: "m", Role: domain.RoleUser, Content: "hi", Timestamp: at}},
	}
	require.NoError(t, store.Save(ctx, domain.ChatHistoryCollection{s}))
	raw, _, err = backend.Get(ctx, HistoryKey)
	require.NoError(t, err)
	assert.JSONEq(t,
		`[{"id":"x","title":"hi","timestamp":"2024-01-02T03:04:05Z","messages":[{"id":"m","role":"user","content":"hi","timestamp":"2024-01-02T03:04:05Z"}]}]`,
		string(raw))
}

// flakyBackend fails the next readFailures Get calls.
type flakyBackend struct {
	kv.Store
	readFailures int
}

func (f *flakyBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if f.readFailures > 0 {
		f.readFailures--
		return nil, false, errors.New("database is locked")
	}
	return f.Store.Get(ctx, key)
}

func TestStore_ReadErrorNeverOverwritesHistory(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemoryStore()
	now := time.Now()

	seed := NewStore(mem, nil)
	seed.Load(ctx)
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, seed.Upsert(ctx, sampleSession(id, "question "+id, now)))
	}

	backend := &flakyBackend{Store: mem, readFailures: 1}
	store := NewStore(backend, nil)
	assert.Empty(t, store.Load(ctx))

	err := store.Upsert(ctx, sampleSession("d", "new question", now))
	assert.ErrorIs(t, err, ErrHistoryUnavailable)
	assert.ErrorContains(t, err, "database is locked")
	assert.ErrorIs(t, store.Delete(ctx, "d"), ErrHistoryUnavailable)
	assert.ErrorIs(t, store.Save(ctx, nil), ErrHistoryUnavailable)

	assert.Len(t, NewStore(mem, nil).Load(ctx), 3, "persisted history must survive the failed read")

	// A later successful load makes the store writable again.
	require.Len(t, store.Load(ctx), 3)
	require.NoError(t, store.Upsert(ctx, sampleSession("d", "new question", now)))
	assert.Len(t, NewStore(mem, nil).Load(ctx), 4)
}
