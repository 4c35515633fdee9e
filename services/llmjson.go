package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// ErrUnparseableResponse is returned when model output cannot be read as JSON
// by any strategy.
var ErrUnparseableResponse = errors.New("unparseable model response")

// DecodeJSON reads a JSON object out of free-form model output into v.
// Strategies, in order: standard JSON, json-repair, then Hjson. Markdown code
// fences and prose around the outermost object are stripped first.
func DecodeJSON(raw string, v any) error {
	body := ExtractJSONObject(raw)
	if body == "" {
		return fmt.Errorf("%w: no JSON object found", ErrUnparseableResponse)
	}

	if err := json.Unmarshal([]byte(body), v); err == nil {
		return nil
	}

	if repaired, err := jsonrepair.RepairJSON(body); err == nil {
		if err := json.Unmarshal([]byte(repaired), v); err == nil {
			return nil
		}
	}

	var loose any
	if err := hjson.Unmarshal([]byte(body), &loose); err == nil {
		if normalized, err := json.Marshal(loose); err == nil {
			if err := json.Unmarshal(normalized, v); err == nil {
				return nil
			}
		}
	}

	return fmt.Errorf("%w: all parsing strategies failed", ErrUnparseableResponse)
}

// ExtractJSONObject strips a markdown code fence and any text before the
// first "{" or after the last "}". It returns "" when there is no object.
func ExtractJSONObject(raw string) string {
	s := strings.TrimSpace(raw)

	if start := strings.Index(s, "```"); start >= 0 {
		rest := s[start+3:]
		// drop the info string, e.g. ```json
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[nl+1:]
		}
		if end := strings.LastIndex(rest, "```"); end >= 0 {
			rest = rest[:end]
		}
		s = strings.TrimSpace(rest)
	}

	first := strings.IndexByte(s, '{')
	if first < 0 {
		return ""
	}
	last := strings.LastIndexByte(s, '}')
	if last < first {
		// truncated output; let the repair step try to close it
		return s[first:]
	}
	return s[first : last+1]
}
