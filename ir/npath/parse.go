package npath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrParse = errors.New("path parse error")

// Parse reads the dotted/bracketed notation produced by Path.String.
// The leading "<root>" is optional. Inside brackets, an unquoted run of
// digits parses as an Index segment and anything else as a Key segment;
// ".name" parses as a Field segment. Whether a trailing field segment is
// really an attribute alias (e.g. ".value" on a boxed scalar) is decided
// by the resolver, not the parser.
func Parse(v string) (Path, error) {
	rest := strings.TrimPrefix(v, "<root>")
	var res Path
	for rest != "" {
		switch rest[0] {
		case '.':
			name, tail, err := parseName(rest[1:])
			if err != nil {
				return nil, err
			}
			res = append(res, Field(name))
			rest = tail
		case '[':
			seg, tail, err := parseBracket(rest[1:])
			if err != nil {
				return nil, err
			}
			res = append(res, seg)
			rest = tail
		default:
			return nil, fmt.Errorf("%w: unexpected %q in %q", ErrParse, rest[0], v)
		}
	}
	return res, nil
}

// MustParse is Parse for statically known paths; it panics on error.
func MustParse(v string) Path {
	p, err := Parse(v)
	if err != nil {
		panic(err)
	}
	return p
}

func parseName(rest string) (string, string, error) {
	if rest == "" {
		return "", "", fmt.Errorf("%w: empty field name", ErrParse)
	}
	if rest[0] == '"' {
		return parseQuoted(rest)
	}
	end := strings.IndexAny(rest, ".[")
	if end == -1 {
		return rest, "", nil
	}
	if end == 0 {
		return "", "", fmt.Errorf("%w: empty field name before %q", ErrParse, rest)
	}
	return rest[:end], rest[end:], nil
}

func parseBracket(rest string) (Segment, string, error) {
	if rest == "" {
		return Segment{}, "", fmt.Errorf("%w: unterminated bracket", ErrParse)
	}
	if rest[0] == '"' {
		k, tail, err := parseQuoted(rest)
		if err != nil {
			return Segment{}, "", err
		}
		if tail == "" || tail[0] != ']' {
			return Segment{}, "", fmt.Errorf("%w: missing ] after %q", ErrParse, k)
		}
		return Key(k), tail[1:], nil
	}
	end := strings.IndexByte(rest, ']')
	if end == -1 {
		return Segment{}, "", fmt.Errorf("%w: unterminated bracket", ErrParse)
	}
	body := rest[:end]
	tail := rest[end+1:]
	if body == "" {
		return Segment{}, "", fmt.Errorf("%w: empty brackets", ErrParse)
	}
	if allDigits(body) {
		i, err := strconv.Atoi(body)
		if err != nil {
			return Segment{}, "", fmt.Errorf("%w: bad index %q", ErrParse, body)
		}
		return Index(i), tail, nil
	}
	return Key(body), tail, nil
}

// parseQuoted reads a Go-quoted string at the start of rest and returns
// the unquoted value plus the remainder.
func parseQuoted(rest string) (string, string, error) {
	// Find the closing quote, honoring backslash escapes.
	for i := 1; i < len(rest); i++ {
		switch rest[i] {
		case '\\':
			i++
		case '"':
			v, err := strconv.Unquote(rest[:i+1])
			if err != nil {
				return "", "", fmt.Errorf("%w: %v", ErrParse, err)
			}
			return v, rest[i+1:], nil
		}
	}
	return "", "", fmt.Errorf("%w: unterminated quote in %q", ErrParse, rest)
}
