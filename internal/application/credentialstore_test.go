package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/credstash/internal/adapter/driven/crypto"
	"github.com/ericfisherdev/credstash/internal/domain/model"
)

// newTestStore returns an initialized, empty store over an in-memory file
// pair and the real AES-GCM codec.
func newTestStore(t *testing.T) (*CredentialStore, *memFile) {
	t.Helper()
	file := &memFile{}
	env := NewEnvelope(crypto.NewCodec(), file)
	require.NoError(t, env.Create([]byte("[]")))

	store := NewCredentialStore(env)
	require.NoError(t, store.Load())
	return store, file
}

func insert(t *testing.T, s *CredentialStore, r model.Record) int {
	t.Helper()
	id, err := s.InsertOrReplace(r)
	require.NoError(t, err)
	return id
}

func TestCredentialStore_LoadEmpty(t *testing.T) {
	store, _ := newTestStore(t)

	assert.Equal(t, 0, store.Len())
	assert.Empty(t, store.ListIDs())
}

func TestCredentialStore_InsertAssignsHoleFillingIDs(t *testing.T) {
	store, _ := newTestStore(t)

	assert.Equal(t, 0, insert(t, store, model.Record{Name: "a"}))
	assert.Equal(t, 1, insert(t, store, model.Record{Name: "b"}))
	assert.Equal(t, 2, insert(t, store, model.Record{Name: "c"}))

	require.NoError(t, store.Remove(1))
	assert.Equal(t, 1, insert(t, store, model.Record{Name: "d"}))
	assert.Equal(t, []int{0, 1, 2}, store.ListIDs())
}

func TestCredentialStore_InsertThenFind(t *testing.T) {
	store, _ := newTestStore(t)
	rec := model.Record{
		Name: "GitHub", Link: "https://github.com", Login: "alice", Email: "a@example.com",
		Password: "hunter2", OtherData: "2fa on", Codes: "111 222",
	}

	id := insert(t, store, rec)

	got, err := store.Find(id)
	require.NoError(t, err)
	assert.Equal(t, rec.WithID(id), got)
	assert.Nil(t, rec.ID, "caller's record must not be modified")
}

func TestCredentialStore_ReplaceKeepsID(t *testing.T) {
	store, _ := newTestStore(t)
	id := insert(t, store, model.Record{Name: "GitHub", Login: "alice"})
	insert(t, store, model.Record{Name: "Other"})

	edited, err := store.Find(id)
	require.NoError(t, err)
	require.NoError(t, edited.Update("login", "carol"))
	gotID := insert(t, store, edited)

	assert.Equal(t, id, gotID)
	assert.Equal(t, 2, store.Len())
	got, err := store.Find(id)
	require.NoError(t, err)
	assert.Equal(t, "carol", got.Login)
}

func TestCredentialStore_InsertWithNewExplicitID(t *testing.T) {
	store, _ := newTestStore(t)

	id := insert(t, store, model.Record{Name: "x"}.WithID(42))

	assert.Equal(t, 42, id)
	assert.Equal(t, []int{42}, store.ListIDs())
}

func TestCredentialStore_InsertNegativeID(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.InsertOrReplace(model.Record{Name: "x"}.WithID(-1))
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Equal(t, 0, store.Len())
}

func TestCredentialStore_FindReturnsCopy(t *testing.T) {
	store, _ := newTestStore(t)
	id := insert(t, store, model.Record{Name: "GitHub"})

	got, err := store.Find(id)
	require.NoError(t, err)
	got.Name = "changed"
	*got.ID = 99

	again, err := store.Find(id)
	require.NoError(t, err)
	assert.Equal(t, "GitHub", again.Name)
}

func TestCredentialStore_RemoveThenFind(t *testing.T) {
	store, _ := newTestStore(t)
	id := insert(t, store, model.Record{Name: "GitHub"})

	require.NoError(t, store.Remove(id))

	_, err := store.Find(id)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.ErrorIs(t, store.Remove(id), model.ErrNotFound)
}

func TestCredentialStore_SortedByName(t *testing.T) {
	store, _ := newTestStore(t)
	insert(t, store, model.Record{Name: "beta"})
	insert(t, store, model.Record{Name: "Alpha"})
	insert(t, store, model.Record{Name: "alpha"})

	assert.Equal(t, []string{"Alpha", "alpha", "beta"}, names(store.Records()))
}

func TestCredentialStore_SaveLoadRoundTrip(t *testing.T) {
	store, file := newTestStore(t)
	recs := []model.Record{
		{Name: "GitHub", Link: "https://github.com", Login: "alice", Password: "p@ss\"word"},
		{Name: "Bank", Email: "me@example.com", OtherData: "line1\nline2", Codes: "ünïcode"},
		{Name: "Empty"},
	}
	for _, r := range recs {
		insert(t, store, r)
	}
	require.NoError(t, store.Save())
	assert.NotContains(t, string(file.blob), "GitHub")

	reloaded := NewCredentialStore(store.envelope)
	require.NoError(t, reloaded.Load())

	assert.Equal(t, store.ListIDs(), reloaded.ListIDs())
	assert.Equal(t, store.Records(), reloaded.Records())
}

func TestCredentialStore_LoadSortsPersistedRecords(t *testing.T) {
	file := &memFile{}
	env := NewEnvelope(crypto.NewCodec(), file)
	require.NoError(t, env.Create([]byte(`[{"name":"z","id":0},{"name":"a","id":1}]`)))

	store := NewCredentialStore(env)
	require.NoError(t, store.Load())

	assert.Equal(t, []string{"a", "z"}, names(store.Records()))
	got, err := store.Find(0)
	require.NoError(t, err)
	assert.Equal(t, "", got.Link, "missing fields backfill to empty")
}

func TestCredentialStore_LoadCorruptedBlob(t *testing.T) {
	store, file := newTestStore(t)
	insert(t, store, model.Record{Name: "GitHub"})
	require.NoError(t, store.Save())

	file.blob[len(file.blob)/2] ^= 0xff

	err := NewCredentialStore(store.envelope).Load()
	assert.ErrorIs(t, err, model.ErrIntegrity)
}

func TestCredentialStore_LoadWrongKey(t *testing.T) {
	store, file := newTestStore(t)
	require.NoError(t, store.Save())

	key, err := crypto.NewCodec().GenerateKey()
	require.NoError(t, err)
	file.key = key

	assert.ErrorIs(t, store.Load(), model.ErrIntegrity)
}

func TestCredentialStore_LoadMalformedPayload(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "not json", payload: "not json"},
		{name: "object instead of array", payload: `{"name":"x"}`},
		{name: "record without id", payload: `[{"name":"x"}]`},
		{name: "negative id", payload: `[{"name":"x","id":-3}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := NewEnvelope(crypto.NewCodec(), &memFile{})
			require.NoError(t, env.Create([]byte(tt.payload)))

			err := NewCredentialStore(env).Load()
			assert.ErrorIs(t, err, model.ErrIntegrity)
		})
	}
}

func TestCredentialStore_LoadMissingStorage(t *testing.T) {
	store := NewCredentialStore(NewEnvelope(crypto.NewCodec(), &memFile{}))

	err := store.Load()
	assert.ErrorIs(t, err, model.ErrStorageNotFound)
	assert.NotErrorIs(t, err, model.ErrIntegrity)
}

func TestCredentialStore_SaveWriteFailure(t *testing.T) {
	store, file := newTestStore(t)
	file.writeErr = errDiskFull

	assert.ErrorIs(t, store.Save(), errDiskFull)
}

func TestCredentialStore_Search(t *testing.T) {
	store, _ := newTestStore(t)
	insert(t, store, model.Record{Name: "GitLab", Login: "bob"})
	insert(t, store, model.Record{Name: "GitHub", Login: "alice"})

	got, err := store.Search("github", 0.8)
	require.NoError(t, err)
	assert.Equal(t, []string{"GitHub"}, names(got))

	got, err = store.Search("git", 0.3)
	require.NoError(t, err)
	assert.Equal(t, []string{"GitHub", "GitLab"}, names(got))

	ranked, err := store.Rank("gitlab", 0.9)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.InDelta(t, 1.0, ranked[0].Score, 1e-9)
}

func TestCredentialStore_ImportLegacyKeepsIDs(t *testing.T) {
	store, _ := newTestStore(t)
	insert(t, store, model.Record{Name: "a"}) // id 0
	insert(t, store, model.Record{Name: "b"}) // id 1

	collisions, err := store.ImportLegacy([]model.Record{
		model.Record{Name: "legacy-1"}.WithID(1),
		model.Record{Name: "legacy-7"}.WithID(7),
		{Name: "legacy-noid"},
	})
	require.NoError(t, err)

	assert.Equal(t, []int{1}, collisions)
	assert.Equal(t, 5, store.Len())
	assert.Equal(t, []int{0, 1, 1, 2, 7}, store.ListIDs())
	assert.Equal(t, []string{"a", "b", "legacy-1", "legacy-7", "legacy-noid"}, names(store.Records()))
}

func TestCredentialStore_ImportLegacyRemapped(t *testing.T) {
	store, _ := newTestStore(t)
	insert(t, store, model.Record{Name: "a"}) // id 0
	insert(t, store, model.Record{Name: "b"}) // id 1

	remapped, err := store.ImportLegacyRemapped([]model.Record{
		model.Record{Name: "legacy-0"}.WithID(0),
		model.Record{Name: "legacy-5"}.WithID(5),
		{Name: "legacy-noid"},
	})
	require.NoError(t, err)

	assert.Equal(t, map[int]int{0: 2}, remapped)
	assert.Equal(t, []int{0, 1, 2, 3, 5}, store.ListIDs())

	got, err := store.Find(2)
	require.NoError(t, err)
	assert.Equal(t, "legacy-0", got.Name)
}

func TestCredentialStore_RotateKey(t *testing.T) {
	store, file := newTestStore(t)
	insert(t, store, model.Record{Name: "GitHub"})
	oldKey := append([]byte(nil), file.key...)

	require.NoError(t, store.RotateKey())

	assert.NotEqual(t, oldKey, file.key)
	reloaded := NewCredentialStore(store.envelope)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, []string{"GitHub"}, names(reloaded.Records()))
}

func TestCredentialStore_LoadRecords(t *testing.T) {
	store := NewCredentialStore(nil)

	store.LoadRecords([]model.Record{
		model.Record{Name: "z"}.WithID(0),
		model.Record{Name: "m"}.WithID(1),
	})

	assert.Equal(t, []string{"m", "z"}, names(store.Records()))
}

func TestCredentialStore_ImportRejectsNegativeIDs(t *testing.T) {
	batch := []model.Record{
		model.Record{Name: "ok"}.WithID(3),
		model.Record{Name: "bad"}.WithID(-2),
	}

	tests := []struct {
		name   string
		run func(*CredentialStore) error
	}{
		{"keep ids", func(s *CredentialStore) error {
			_, err := s.ImportLegacy(batch)
			return err
		}},
		{"remap", func(s *CredentialStore) error {
			_, err := s.ImportLegacyRemapped(batch)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _ := newTestStore(t)
			insert(t, store, model.Record{Name: "a"})

			err := tt.run(store)
			assert.ErrorIs(t, err, model.ErrValidation)
			assert.Equal(t, []string{"a"}, names(store.Records()), "a rejected batch adds nothing")

			require.NoError(t, store.Save())
			reloaded := NewCredentialStore(store.envelope)
			require.NoError(t, reloaded.Load())
			assert.Equal(t, 1, reloaded.Len())
		})
	}
}

func TestCredentialStore_RotateKeyWriteFailureKeepsStoreReadable(t *testing.T) {
	store, file := newTestStore(t)
	insert(t, store, model.Record{Name: "GitHub", Password: "hunter22"})
	require.NoError(t, store.Save())
	oldKey := append([]byte(nil), file.key...)

	file.keyErr = errDiskFull
	err := store.RotateKey()
	require.Error(t, err)
	assert.ErrorIs(t, err, errDiskFull)
	file.keyErr = nil

	assert.Equal(t, oldKey, file.key)
	reloaded := NewCredentialStore(store.envelope)
	require.NoError(t, reloaded.Load())
	got, err := reloaded.Find(0)
	require.NoError(t, err)
	assert.Equal(t, "hunter22", got.Password)
}
