// README: Locates and decodes the JSON object embedded in free-form model text.
package planner

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON returns the first balanced and valid JSON object in
// text. Braces inside string literals are ignored. A '{' that never closes or
// opens an invalid span is skipped and the scan resumes at the next '{'.
func ExtractJSON(text string) (json.RawMessage, error) {
	if strings.IndexByte(text, '{') < 0 {
		return nil, fmt.Errorf("%w: no JSON object found", ErrMalformedOutput)
	}
	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		end, ok := matchBrace(text, i)
		if !ok {
			continue
		}
		if candidate := text[i : end+1]; json.Valid([]byte(candidate)) {
			return json.RawMessage(candidate), nil
		}
	}
	return nil, fmt.Errorf("%w: unbalanced or invalid JSON object", ErrMalformedOutput)
}

// matchBrace returns the index of the '}' closing the '{' at start.
func matchBrace(text string, start int) (int, bool) {
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// ParsePlan extracts and decodes a GeneratedPlan. A plan without any
// itinerary day is treated as malformed.
func ParsePlan(text string) (*GeneratedPlan, error) {
	raw, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}
	var plan GeneratedPlan
	if err := json.Unmarshal(raw, &plan); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if len(plan.Itinerary) == 0 {
		return nil, fmt.Errorf("%w: plan has no itinerary", ErrMalformedOutput)
	}
	return &plan, nil
}
