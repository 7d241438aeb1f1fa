// README: Lenient JSON scalars for model output (numbers as strings, strings as numbers, etc).
package planner

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

var numberPattern = regexp.MustCompile(`-?\d[\d,]*(?:\.\d+)?`)

// Number decodes JSON numbers and numeric strings such as "₹4,500" or "2000-3000 INR".
// Anything without a number decodes to 0.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0, bytes.Equal(b, []byte("null")):
		*n = 0
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = Number(parseNumber(s))
	default:
		var f float64
		if err := json.Unmarshal(b, &f); err != nil {
			*n = 0
			return nil
		}
		*n = Number(f)
	}
	return nil
}

func (n Number) Int() int {
	return int(n)
}

func parseNumber(s string) float64 {
	m := numberPattern.FindString(s)
	if m == "" {
		return 0
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
	if err != nil {
		return 0
	}
	return f
}

// Text decodes strings, numbers and booleans to a string; null and containers become "".
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		*t = ""
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(strings.TrimSpace(s))
	case '{', '[', 'n':
		*t = ""
	default:
		*t = Text(b)
	}
	return nil
}

func (t Text) String() string {
	return string(t)
}

// Flag decodes booleans and yes/no style strings.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "yes", "y", "required", "1":
			*f = true
		default:
			*f = false
		}
		return nil
	}
	*f = Flag(bytes.Equal(b, []byte("true")))
	return nil
}

// TextList decodes an array of strings or objects, or a single comma-separated string.
// Objects are rendered from their descriptive fields.
type TextList []string

var listObjectKeys = []string{"type", "mode", "name", "title", "description", "details"}

func (l *TextList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*l = nil
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		var out TextList
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		*l = out
		return nil
	}
	if b[0] != '[' {
		*l = nil
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(TextList, 0, len(raw))
	for _, item := range raw {
		if s := listItem(item); s != "" {
			out = append(out, s)
		}
	}
	*l = out
	return nil
}

func listItem(item json.RawMessage) string {
	item = bytes.TrimSpace(item)
	if len(item) > 0 && item[0] == '{' {
		var obj map[string]Text
		if err := json.Unmarshal(item, &obj); err != nil {
			return ""
		}
		var parts []string
		for _, k := range listObjectKeys {
			if v := strings.TrimSpace(string(obj[k])); v != "" {
				parts = append(parts, v)
			}
		}
		return strings.Join(parts, " - ")
	}
	var t Text
	if err := json.Unmarshal(item, &t); err != nil {
		return ""
	}
	return string(t)
}
