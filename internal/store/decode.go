package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/theirongolddev/habits/internal/model"
)

var (
	errNotObject   = errors.New("entry is not an object")
	errBadID       = errors.New("id is not an integer")
	errBadName     = errors.New("name is not a string")
	errBadRecords  = errors.New("records is not an object")
	errDuplicateID = errors.New("duplicate id")
)

// decodeCollection parses a persisted blob. Anything that isn't a JSON array
// yields an empty collection; entries failing decodeHabit are returned in
// dropped and left out.
func decodeCollection(data []byte) (habits []model.Habit, dropped []error) {
	habits = []model.Habit{}
	if len(bytes.TrimSpace(data)) == 0 {
		return habits, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return habits, []error{fmt.Errorf("decoding collection: %w", err)}
	}

	seen := make(map[int64]bool, len(raw))
	for i, entry := range raw {
		h, err := decodeHabit(entry)
		if err == nil && seen[h.ID] {
			err = fmt.Errorf("%w %d", errDuplicateID, h.ID)
		}
		if err != nil {
			dropped = append(dropped, fmt.Errorf("entry %d: %w", i, err))
			continue
		}
		seen[h.ID] = true
		habits = append(habits, h)
	}
	return habits, dropped
}

// decodeHabit validates one persisted entry: an integer id, a string name and
// a records object. Only true record values survive.
func decodeHabit(raw json.RawMessage) (model.Habit, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return model.Habit{}, errNotObject
	}

	num, ok := fields["id"].(json.Number)
	if !ok {
		return model.Habit{}, errBadID
	}
	id, ok := wholeNumber(num)
	if !ok {
		return model.Habit{}, errBadID
	}

	name, ok := fields["name"].(string)
	if !ok {
		return model.Habit{}, errBadName
	}

	recs, ok := fields["records"].(map[string]any)
	if !ok {
		return model.Habit{}, errBadRecords
	}

	h := model.Habit{ID: id, Name: name, Records: make(model.Records, len(recs))}
	for date, v := range recs {
		if done, ok := v.(bool); ok && done {
			h.Records[date] = true
		}
	}
	return h, nil
}

// wholeNumber accepts any JSON number with an integral value, so ids written
// as 1.0 or 1.7e12 still decode.
func wholeNumber(num json.Number) (int64, bool) {
	if id, err := num.Int64(); err == nil {
		return id, true
	}
	f, err := num.Float64()
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func encodeCollection(habits []model.Habit) ([]byte, error) {
	if habits == nil {
		habits = []model.Habit{}
	}
	return json.Marshal(habits)
}
