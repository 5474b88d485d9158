package catalog

import (
	"fmt"
	"strings"
)

// DecodeStringList parses a Python-style list literal of strings, the
// encoding the upstream dataset uses for list-valued cells, e.g.
// ['*.tif', "*.lsm"]. It accepts single or double quotes, backslash escapes
// and a trailing comma. An empty list decodes to an empty, non-nil slice.
func DecodeStringList(raw string) ([]string, error) {
	s := strings.TrimSpace(raw)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, fmt.Errorf("not a list literal: %q", raw)
	}

	body := s[1 : len(s)-1]
	items := []string{}
	i := 0
	for {
		for i < len(body) && isListSpace(body[i]) {
			i++
		}
		if i >= len(body) {
			break
		}

		quote := body[i]
		if quote != '\'' && quote != '"' {
			return nil, fmt.Errorf("expected quoted string at offset %d in %q", i, raw)
		}
		i++

		var item strings.Builder
		closed := false
		for i < len(body) {
			c := body[i]
			if c == '\\' {
				if i+1 >= len(body) {
					return nil, fmt.Errorf("dangling escape in %q", raw)
				}
				item.WriteByte(unescape(body[i+1]))
				i += 2
				continue
			}
			if c == quote {
				closed = true
				i++
				break
			}
			item.WriteByte(c)
			i++
		}
		if !closed {
			return nil, fmt.Errorf("unterminated string in %q", raw)
		}
		items = append(items, item.String())

		for i < len(body) && isListSpace(body[i]) {
			i++
		}
		if i < len(body) {
			if body[i] != ',' {
				return nil, fmt.Errorf("expected ',' at offset %d in %q", i, raw)
			}
			i++
		}
	}
	return items, nil
}

func isListSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		// Quotes and backslashes escape to themselves.
		return c
	}
}
