package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalArtifact renders v as the release text format: two-space
// indented JSON with no HTML escaping, non-ASCII emitted as-is, and no
// trailing newline. These are the exact bytes that get hashed.
func MarshalArtifact(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("marshal artifact: %w", err)
	}

	out := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))

	// encoding/json always escapes U+2028 and U+2029 for JavaScript
	// embedding. The artifact keeps every non-ASCII rune literal.
	return unescapeLineSeparators(out), nil
}

// unescapeLineSeparators turns \u2028 and \u2029 escapes back into the
// literal runes, leaving an escaped backslash followed by "u2028" alone.
func unescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}

	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		c := data[i]
		if c != '\\' || i+1 >= len(data) {
			out = append(out, c)
			continue
		}
		if i+5 < len(data) && data[i+1] == 'u' && data[i+2] == '2' && data[i+3] == '0' && data[i+4] == '2' {
			switch data[i+5] {
			case '8':
				out = append(out, "\u2028"...)
				i += 5
				continue
			case '9':
				out = append(out, "\u2029"...)
				i += 5
				continue
			}
		}
		// Any other escape is two bytes; copy both so an escaped
		// backslash never pairs with the next character.
		out = append(out, c, data[i+1])
		i++
	}
	return out
}
