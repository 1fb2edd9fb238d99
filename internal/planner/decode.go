package planner

import (
	"encoding/json"
	"strings"
)

// Decode turns planner text into a Structured result, or Malformed when the
// text is not a JSON array. Markdown code fences around the array are
// tolerated.
func Decode(text string) Result {
	body := stripFences(text)
	if body == "" {
		return Malformed{Reason: "empty planner output"}
	}
	dec := json.NewDecoder(strings.NewReader(body))
	var entries []Entry
	if err := dec.Decode(&entries); err != nil {
		return Malformed{Reason: "planner output is not a JSON array: " + err.Error()}
	}
	if dec.More() {
		return Malformed{Reason: "trailing data after planner output"}
	}
	if entries == nil {
		return Malformed{Reason: "planner output is null"}
	}
	return Structured{Entries: entries}
}

func stripFences(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// Drop the info string ("json") on the opening fence.
		if !strings.ContainsAny(s[:nl], "[{") {
			s = s[nl+1:]
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
