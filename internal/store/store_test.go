package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/habits/internal/model"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func loadedStore(t *testing.T, seed string) (*Store, *MemoryBackend) {
	t.Helper()
	var data []byte
	if seed != "" {
		data = []byte(seed)
	}
	mem := NewMemoryBackend(data)
	s := New(mem, WithClock(fixedClock(time.UnixMilli(1_700_000_000_000))))
	require.NoError(t, s.Load(context.Background()))
	return s, mem
}

func stored(t *testing.T, mem *MemoryBackend) []model.Habit {
	t.Helper()
	data, err := mem.Read(context.Background())
	require.NoError(t, err)
	var habits []model.Habit
	require.NoError(t, json.Unmarshal(data, &habits))
	return habits
}

func TestLoad(t *testing.T) {
	t.Run("absent value gives an empty collection", func(t *testing.T) {
		s, _ := loadedStore(t, "")
		assert.Empty(t, s.Habits())
		assert.True(t, s.Loaded())
	})

	t.Run("malformed or non-array data gives an empty collection", func(t *testing.T) {
		for _, seed := range []string{"{not json", `{"id":1}`, `"text"`, `null`, `42`} {
			s, _ := loadedStore(t, seed)
			assert.Empty(t, s.Habits(), seed)
		}
	})

	t.Run("invalid entries are dropped", func(t *testing.T) {
		seed := `[
			{"id": 1, "name": "Read", "records": {"2024-03-01": true, "2024-03-02": false, "2024-03-03": "yes"}},
			{"id": "2", "name": "string id", "records": {}},
			{"id": 3, "name": 7, "records": {}},
			{"id": 4, "name": "no records"},
			{"id": 5, "name": "array records", "records": []},
			{"id": 6.5, "name": "fractional", "records": {}},
			"junk",
			{"id": 1, "name": "duplicate", "records": {}},
			{"id": 7, "name": "Run", "records": {}},
			{"id": 8.0, "name": "float id", "records": {"2024-03-04": true}},
			{"id": 1.7e12, "name": "exponent id", "records": {}}
		]`
		s, _ := loadedStore(t, seed)

		habits := s.Habits()
		require.Len(t, habits, 4)
		assert.Equal(t, "Read", habits[0].Name)
		assert.Equal(t, model.Records{"2024-03-01": true}, habits[0].Records, "only true values are kept")
		assert.Equal(t, int64(7), habits[1].ID)
		assert.Equal(t, int64(8), habits[2].ID)
		assert.Equal(t, model.Records{"2024-03-04": true}, habits[2].Records)
		assert.Equal(t, int64(1700000000000), habits[3].ID)
	})

	t.Run("second load is a no-op", func(t *testing.T) {
		s, mem := loadedStore(t, `[{"id":1,"name":"Read","records":{}}]`)
		require.NoError(t, mem.Write(context.Background(), []byte(`[]`)))
		require.NoError(t, s.Load(context.Background()))
		assert.Equal(t, 1, s.Len())
	})
}

type failingReader struct{ MemoryBackend }

func (f *failingReader) Read(context.Context) ([]byte, error) {
	return nil, errors.New("backend down")
}

func TestLoad_ReadErrorKeepsStoreUnloaded(t *testing.T) {
	s := New(&failingReader{})
	err := s.Load(context.Background())
	require.Error(t, err)
	assert.False(t, s.Loaded())

	_, ok := s.AddHabit("Read")
	assert.True(t, ok)
	assert.Equal(t, 0, s.backend.(*failingReader).Writes(), "nothing is written while unloaded")
}

func TestPersistenceSuppressedBeforeLoad(t *testing.T) {
	mem := NewMemoryBackend([]byte(`[{"id":1,"name":"Existing","records":{}}]`))
	s := New(mem)

	s.AddHabit("Early")
	assert.Equal(t, 0, mem.Writes())
	assert.Len(t, stored(t, mem), 1, "stored data is untouched")

	require.NoError(t, s.Load(context.Background()))
	s.AddHabit("Late")
	assert.Equal(t, 1, mem.Writes())
}

func TestAddHabit(t *testing.T) {
	s, mem := loadedStore(t, "")

	_, ok := s.AddHabit("   ")
	assert.False(t, ok)
	assert.Equal(t, 0, mem.Writes(), "an empty name doesn't persist")

	a, ok := s.AddHabit("  Read  ")
	require.True(t, ok)
	assert.Equal(t, "Read", a.Name)
	assert.Empty(t, a.Records)

	b, _ := s.AddHabit("Run")
	c, _ := s.AddHabit("Write")
	assert.Less(t, a.ID, b.ID, "ids are unique even within one clock tick")
	assert.Less(t, b.ID, c.ID)

	names := []string{}
	for _, h := range s.Habits() {
		names = append(names, h.Name)
	}
	assert.Equal(t, []string{"Read", "Run", "Write"}, names)
	assert.Len(t, stored(t, mem), 3)
}

func TestAddHabit_IDsExceedLoadedIDs(t *testing.T) {
	future := time.UnixMilli(1_900_000_000_000).UnixMilli()
	seed, _ := json.Marshal([]model.Habit{{ID: future, Name: "From the future", Records: model.Records{}}})
	s, _ := loadedStore(t, string(seed))

	h, ok := s.AddHabit("New")
	require.True(t, ok)
	assert.Equal(t, future+1, h.ID)
}

func TestDeleteHabit(t *testing.T) {
	s, mem := loadedStore(t, `[
		{"id":1,"name":"A","records":{"2024-03-01":true}},
		{"id":2,"name":"B","records":{}}
	]`)

	assert.False(t, s.DeleteHabit(99))
	assert.Equal(t, 0, mem.Writes())

	assert.True(t, s.DeleteHabit(1))
	assert.Equal(t, 0, s.CompletionCount("2024-03-01"))
	habits := stored(t, mem)
	require.Len(t, habits, 1)
	assert.Equal(t, int64(2), habits[0].ID)
}

func TestToggleRecord(t *testing.T) {
	s, mem := loadedStore(t, `[{"id":1,"name":"A","records":{}}]`)

	done, found := s.ToggleRecord(1, "2024-03-01")
	assert.True(t, found)
	assert.True(t, done)
	assert.True(t, s.IsCompleted(1, "2024-03-01"))

	done, _ = s.ToggleRecord(1, "2024-03-01")
	assert.False(t, done)
	assert.False(t, s.IsCompleted(1, "2024-03-01"))

	h, ok := s.Habit(1)
	require.True(t, ok)
	_, present := h.Records["2024-03-01"]
	assert.False(t, present, "toggling off removes the key")
	assert.Empty(t, stored(t, mem)[0].Records)

	_, found = s.ToggleRecord(42, "2024-03-01")
	assert.False(t, found)
	assert.Equal(t, 2, mem.Writes())
}

func TestRenameHabit(t *testing.T) {
	s, _ := loadedStore(t, `[{"id":1,"name":"A","records":{}}]`)

	assert.False(t, s.RenameHabit(1, "  "))
	assert.False(t, s.RenameHabit(2, "B"))
	assert.True(t, s.RenameHabit(1, " Read "))

	h, _ := s.Habit(1)
	assert.Equal(t, "Read", h.Name)
}

func TestCompletionPercentage(t *testing.T) {
	s, _ := loadedStore(t, `[{"id":1,"name":"A","records":{"2024-03-01":true,"2024-03-02":true}}]`)
	dates := []string{"2024-03-01", "2024-03-02", "2024-03-03"}

	assert.Equal(t, 67, s.CompletionPercentage(1, dates))
	assert.Equal(t, 0, s.CompletionPercentage(1, nil))
	assert.Equal(t, 0, s.CompletionPercentage(9, dates))
}

func TestHabitsReturnsDeepCopy(t *testing.T) {
	s, _ := loadedStore(t, `[{"id":1,"name":"A","records":{}}]`)

	habits := s.Habits()
	habits[0].Records["2024-03-01"] = true
	habits[0].Name = "mutated"

	assert.False(t, s.IsCompleted(1, "2024-03-01"))
	h, _ := s.Habit(1)
	assert.Equal(t, "A", h.Name)
}

func TestWriteFailureKeepsInMemoryState(t *testing.T) {
	s, mem := loadedStore(t, "")
	mem.FailWrites(errors.New("disk full"))

	h, ok := s.AddHabit("Read")
	require.True(t, ok)
	assert.Equal(t, 1, s.Len())
	assert.ErrorContains(t, s.LastError(), "disk full")

	mem.FailWrites(nil)
	s.ToggleRecord(h.ID, "2024-03-01")
	assert.NoError(t, s.LastError())
	assert.Len(t, stored(t, mem), 1, "the next successful write carries the full snapshot")
	assert.False(t, s.LastSaved().IsZero())
}

func TestSubscribe(t *testing.T) {
	s, _ := loadedStore(t, "")
	var got []Change
	s.Subscribe(func(c Change) { got = append(got, c) })

	h, _ := s.AddHabit("Read")
	s.ToggleRecord(h.ID, "2024-03-01")
	s.RenameHabit(h.ID, "Reading")
	s.DeleteHabit(h.ID)
	s.DeleteHabit(h.ID)

	require.Len(t, got, 4)
	assert.Equal(t, ChangeAdded, got[0].Kind)
	assert.Equal(t, ChangeToggled, got[1].Kind)
	assert.True(t, got[1].Completed)
	assert.Equal(t, "2024-03-01", got[1].Date)
	assert.Equal(t, ChangeRenamed, got[2].Kind)
	assert.Equal(t, ChangeDeleted, got[3].Kind)
	assert.True(t, got[3].Persisted)
}

func TestConcurrentMutations(t *testing.T) {
	s, mem := loadedStore(t, "")
	h, _ := s.AddHabit("Read")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.ToggleRecord(h.ID, time.Date(2024, 1, i+1, 0, 0, 0, 0, time.Local).Format("2006-01-02"))
			_ = s.Habits()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, len(stored(t, mem)[0].Records))
}
