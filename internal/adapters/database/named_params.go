package database

import (
	"fmt"
	"strconv"
	"strings"
)

// bindNamedParams rewrites :name placeholders to $n positional placeholders
// and returns the argument slice in placeholder order. A name appearing more
// than once is bound to a single positional parameter. Text inside single
// quotes and the :: cast operator are left untouched. A placeholder whose
// name is missing from params is an error.
func bindNamedParams(query string, params map[string]interface{}) (string, []interface{}, error) {
	var sb strings.Builder
	sb.Grow(len(query))

	positions := make(map[string]int)
	var args []interface{}

	inString := false
	for i := 0; i < len(query); i++ {
		c := query[i]

		if c == '\'' {
			inString = !inString
			sb.WriteByte(c)
			continue
		}
		if inString || c != ':' {
			sb.WriteByte(c)
			continue
		}

		// cast operator, emit both colons and move past
		if i+1 < len(query) && query[i+1] == ':' {
			sb.WriteString("::")
			i++
			continue
		}

		start := i + 1
		end := start
		for end < len(query) && isIdentChar(query[end]) {
			end++
		}
		if end == start {
			sb.WriteByte(c)
			continue
		}

		name := query[start:end]
		pos, seen := positions[name]
		if !seen {
			value, ok := params[name]
			if !ok {
				return "", nil, fmt.Errorf("no value bound for parameter %q", name)
			}
			args = append(args, value)
			pos = len(args)
			positions[name] = pos
		}

		sb.WriteByte('$')
		sb.WriteString(strconv.Itoa(pos))
		i = end - 1
	}

	return sb.String(), args, nil
}

func isIdentChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
