// internal/parse/parse.go
// Extraction of structured data from free-form model output.
// Models are asked for JSON but routinely wrap it in prose; every
// function here either finds well-formed JSON or reports a fallback.
// Nothing in this package ever returns an error to the caller.
package parse

import (
	"encoding/json"
	"strings"
)

// ExtractJSONArray returns the first bracketed JSON string array found in
// the text. A response with no parseable array yields (nil, false).
func ExtractJSONArray(text string) ([]string, bool) {
	for start := 0; start < len(text); start++ {
		if text[start] != '[' {
			continue
		}
		end := strings.IndexByte(text[start:], ']')
		if end == -1 {
			return nil, false
		}
		candidate := text[start : start+end+1]
		var out []string
		if err := json.Unmarshal([]byte(candidate), &out); err == nil && len(out) > 0 {
			return out, true
		}
	}
	return nil, false
}

// ExtractJSONObject returns the first balanced {...} block that is valid
// JSON. Nested braces inside string values are handled by the balance
// scan; candidates that fail to unmarshal are skipped.
func ExtractJSONObject(text string) ([]byte, bool) {
	for start := 0; start < len(text); start++ {
		if text[start] != '{' {
			continue
		}
		depth := 0
		inString := false
		escaped := false
		for i := start; i < len(text); i++ {
			ch := text[i]
			if escaped {
				escaped = false
				continue
			}
			switch ch {
			case '\\':
				if inString {
					escaped = true
				}
			case '"':
				inString = !inString
			case '{':
				if !inString {
					depth++
				}
			case '}':
				if !inString {
					depth--
					if depth == 0 {
						candidate := text[start : i+1]
						if json.Valid([]byte(candidate)) {
							return []byte(candidate), true
						}
						i = len(text) // abandon this start position
					}
				}
			}
		}
	}
	return nil, false
}
