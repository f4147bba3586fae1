package jsonx

import (
	"encoding/json"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Repair recovers a JSON document from LLM output that may be wrapped in
// markdown fences or truncated mid-structure. It strips surrounding prose,
// then appends the closers needed to balance open objects, arrays and
// strings. The result is unmarshaled into v.
func Repair(raw string, v any) error {
	text := stripFences(raw)

	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return goerr.New("no JSON structure in response", goerr.V("raw", truncate(raw, 200)))
	}
	text = text[start:]

	if err := json.Unmarshal([]byte(text), v); err == nil {
		return nil
	}

	repaired := balance(text)
	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		return goerr.Wrap(err, "failed to repair JSON response", goerr.V("raw", truncate(raw, 200)))
	}
	return nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "```"); idx >= 0 {
		s = s[idx+3:]
		// drop language tag like "json" on the fence line
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		}
		if end := strings.LastIndex(s, "```"); end >= 0 {
			s = s[:end]
		}
	}
	return strings.TrimSpace(s)
}

// balance truncates a trailing partial token and appends closing brackets
// for every structure still open.
func balance(s string) string {
	var stack []byte
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{' || c == '[':
			stack = append(stack, c)
		case c == '}' || c == ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	var b strings.Builder
	b.WriteString(s)
	if inString {
		b.WriteByte('"')
	}
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			b.WriteByte('}')
		} else {
			b.WriteByte(']')
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
