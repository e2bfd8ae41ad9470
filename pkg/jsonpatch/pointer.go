package jsonpatch

import (
	"fmt"
	"strconv"
	"strings"
)

// pointer is a parsed RFC 6901 JSON Pointer: one token per reference step.
type pointer []string

func parsePointer(s string) (pointer, error) {
	if s == "" {
		return pointer{}, nil
	}
	if !strings.HasPrefix(s, "/") {
		return nil, fmt.Errorf("pointer %q must start with '/'", s)
	}
	raw := strings.Split(s[1:], "/")
	tokens := make(pointer, len(raw))
	for i, tok := range raw {
		tok = strings.ReplaceAll(tok, "~1", "/")
		tok = strings.ReplaceAll(tok, "~0", "~")
		tokens[i] = tok
	}
	return tokens, nil
}

func (p pointer) String() string {
	if len(p) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, tok := range p {
		tok = strings.ReplaceAll(tok, "~", "~0")
		tok = strings.ReplaceAll(tok, "/", "~1")
		sb.WriteString("/")
		sb.WriteString(tok)
	}
	return sb.String()
}

// isProperPrefixOf reports whether p strictly contains q as a location, i.e.
// q lives inside the value p points at. Used to reject moving a value into
// one of its own children.
func (p pointer) isProperPrefixOf(q pointer) bool {
	if len(p) >= len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// arrayIndex parses tok as an array index within [0, length). When insert is
// true, length itself is also valid (append position). Leading zeros are
// rejected per RFC 6901.
func arrayIndex(tok string, length int, insert bool) (int, error) {
	if len(tok) > 1 && tok[0] == '0' {
		return 0, fmt.Errorf("array index %q has leading zeros", tok)
	}
	i, err := strconv.Atoi(tok)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("invalid array index %q", tok)
	}
	limit := length
	if insert {
		limit = length + 1
	}
	if i >= limit {
		return 0, fmt.Errorf("array index %d out of bounds (len %d)", i, length)
	}
	return i, nil
}
