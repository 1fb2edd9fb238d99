package planner

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

const (
	fieldDay          = "day"
	fieldAttractionID = "attraction_id"
	fieldPosition     = "position"
)

// Entry is one planned stop. Fields the planner sends beyond day,
// attraction_id and position are kept in Extra and written back out
// unchanged.
type Entry struct {
	Day          int
	AttractionID string
	// Position is nil when the planner did not supply one.
	Position *int
	Extra    map[string]json.RawMessage
}

// UnmarshalJSON is lenient. A non-object, a missing or non-integral day, or
// a non-string attraction id decode to zero values so the entry is dropped
// downstream instead of failing the whole plan.
func (e *Entry) UnmarshalJSON(data []byte) error {
	*e = Entry{}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return nil
	}
	for k, v := range fields {
		switch k {
		case fieldDay:
			if n, ok := intValue(v); ok {
				e.Day = n
			}
		case fieldAttractionID:
			var s string
			if err := json.Unmarshal(v, &s); err == nil {
				e.AttractionID = strings.TrimSpace(s)
			} else if n, ok := intValue(v); ok {
				e.AttractionID = strconv.Itoa(n)
			}
		case fieldPosition:
			if n, ok := intValue(v); ok {
				e.Position = &n
			}
		default:
			if e.Extra == nil {
				e.Extra = map[string]json.RawMessage{}
			}
			e.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return nil
}

// MarshalJSON writes keys in sorted order so the same entry always encodes
// to the same bytes.
func (e Entry) MarshalJSON() ([]byte, error) {
	fields := make(map[string]json.RawMessage, len(e.Extra)+3)
	for k, v := range e.Extra {
		fields[k] = v
	}
	fields[fieldDay] = json.RawMessage(strconv.Itoa(e.Day))
	attraction, err := json.Marshal(e.AttractionID)
	if err != nil {
		return nil, err
	}
	fields[fieldAttractionID] = attraction
	if e.Position != nil {
		fields[fieldPosition] = json.RawMessage(strconv.Itoa(*e.Position))
	} else {
		delete(fields, fieldPosition)
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(fields[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// intValue accepts integral JSON numbers and numeric strings such as "2".
func intValue(raw json.RawMessage) (int, bool) {
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		if f, err = strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
			return 0, false
		}
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}
