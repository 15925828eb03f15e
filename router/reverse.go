package router

import (
	"net/url"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// Reverse builds the path of the named route, substituting the path parameters in order.
func (rt *Router) Reverse(name string, vals ...string) (string, error) {
	route, ok := rt.byName[name]
	if !ok {
		names := lo.Keys(rt.byName)
		slices.Sort(names)

		return "", errors.Newf("no route named: %q, got: %v", name, names)
	}

	res, err := build(route.Pattern, vals...)
	if err != nil {
		return "", errors.Wrapf(err, "failed to build %q", name)
	}

	return res, nil
}

// build substitutes the {param} segments and a trailing wildcard of pattern with vals.
func build(pattern string, vals ...string) (string, error) {
	var b strings.Builder

	next := 0
	take := func() (string, error) {
		if next >= len(vals) {
			return "", errors.Newf("not enough values for pattern %q, got: %d", pattern, len(vals))
		}

		v := vals[next]
		next++

		return url.PathEscape(v), nil
	}

	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '{':
			end := closingBrace(pattern, i)
			if end < 0 {
				return "", errors.Newf("unbalanced braces in pattern %q", pattern)
			}

			v, err := take()
			if err != nil {
				return "", err
			}

			b.WriteString(v)
			i = end
		case '*':
			if next < len(vals) {
				b.WriteString(vals[next])
				next++
			}
		default:
			b.WriteByte(pattern[i])
		}
	}

	if next < len(vals) {
		return "", errors.Newf("too many values for pattern %q, got: %d", pattern, len(vals))
	}

	return b.String(), nil
}

// closingBrace returns the index of the brace that closes the one at start. Regexp parameters may nest braces.
func closingBrace(s string, start int) int {
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}
