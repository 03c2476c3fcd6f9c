// Package legacy parses the prior unencrypted plain-JSON array format so its
// records can be merged into a store.
package legacy

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/ericfisherdev/credstash/internal/domain/model"
)

// ErrInvalidLegacy is returned when the input is not a usable legacy array.
var ErrInvalidLegacy = errors.New("invalid legacy data")

// ParseFile reads and parses a legacy export file.
func ParseFile(path string) ([]model.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read legacy file %q: %w", path, err)
	}
	return Parse(data)
}

// Parse converts a legacy JSON array into records. Missing or null fields
// become empty strings, other scalars are stringified, and the id may be a
// number, a numeric string, null or absent.
func Parse(data []byte) ([]model.Record, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: not valid JSON", ErrInvalidLegacy)
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: top level must be an array", ErrInvalidLegacy)
	}

	var (
		records []model.Record
		perr    error
	)
	root.ForEach(func(key, item gjson.Result) bool {
		rec, err := parseItem(item)
		if err != nil {
			perr = fmt.Errorf("%w: element %d: %v", ErrInvalidLegacy, key.Int(), err)
			return false
		}
		records = append(records, rec)
		return true
	})
	if perr != nil {
		return nil, perr
	}
	if records == nil {
		records = []model.Record{}
	}
	return records, nil
}

func parseItem(item gjson.Result) (model.Record, error) {
	if !item.IsObject() {
		return model.Record{}, errors.New("not an object")
	}

	var rec model.Record
	for _, f := range model.Fields {
		v := item.Get(string(f))
		switch {
		case !v.Exists(), v.Type == gjson.Null:
			continue
		case v.IsObject(), v.IsArray():
			return model.Record{}, fmt.Errorf("field %q is not a scalar", f)
		}
		if err := rec.Update(string(f), v.String()); err != nil {
			return model.Record{}, err
		}
	}

	id, ok, err := parseID(item.Get("id"))
	if err != nil {
		return model.Record{}, err
	}
	if ok {
		rec = rec.WithID(id)
	}
	return rec, nil
}

func parseID(v gjson.Result) (int, bool, error) {
	switch v.Type {
	case gjson.Null:
		return 0, false, nil
	case gjson.Number:
		f := v.Float()
		if f != math.Trunc(f) || f < 0 || f > math.MaxInt32 {
			return 0, false, fmt.Errorf("id %s is not a non-negative integer", v.Raw)
		}
		return int(f), true, nil
	case gjson.String:
		n, err := strconv.Atoi(v.Str)
		if err != nil || n < 0 {
			return 0, false, fmt.Errorf("id %q is not a non-negative integer", v.Str)
		}
		return n, true, nil
	default:
		return 0, false, fmt.Errorf("id has unsupported type %s", v.Type)
	}
}
