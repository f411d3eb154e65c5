package gameexe

import (
	"iter"
	"sort"
	"strconv"
	"strings"

	"github.com/rlvm/rlvm/rlerr"
)

// Query is a view onto one dotted key's token list, built by Gameexe.Ini.
type Query struct {
	key    string
	tokens []Token
	found  bool
}

// Ini builds the dotted key from parts (each converted to its string
// form, integers zero-padded to 3 digits as the original's ToKeyString
// does for compact numeric sub-keys) and returns a Query over it.
func (g *Gameexe) Ini(parts ...any) Query {
	pieces := make([]string, len(parts))
	for i, p := range parts {
		switch v := p.(type) {
		case string:
			pieces[i] = v
		case int:
			pieces[i] = zeroPad(v)
		case int32:
			pieces[i] = zeroPad(int(v))
		default:
			pieces[i] = strconv.FormatInt(int64(0), 10)
		}
	}
	key := strings.Join(pieces, ".")
	entries, ok := g.entries[key]
	q := Query{key: key, found: ok}
	if ok && len(entries) > 0 {
		q.tokens = entries[0]
	}
	return q
}

func zeroPad(v int) string {
	s := strconv.Itoa(v)
	for len(s) < 3 {
		s = "0" + s
	}
	return s
}

// Exists reports whether the query's key was ever recorded.
func (q Query) Exists() bool { return q.found }

// Key returns the dotted key this Query was built from.
func (q Query) Key() string { return q.key }

// AsInt returns the first token as an int, or an error if the key is
// absent or the first token isn't numeric.
func (q Query) AsInt() (int32, error) {
	if !q.found || len(q.tokens) == 0 {
		return 0, rlerr.New(rlerr.ErrNotFound, "gameexe key not found: "+q.key)
	}
	if !q.tokens[0].IsInt {
		return 0, rlerr.New(rlerr.ErrInvalidOperator, "gameexe key is not an int: "+q.key)
	}
	return q.tokens[0].Int, nil
}

// AsString returns the first token as a string, or an error if the key
// is absent.
func (q Query) AsString() (string, error) {
	if !q.found || len(q.tokens) == 0 {
		return "", rlerr.New(rlerr.ErrNotFound, "gameexe key not found: "+q.key)
	}
	t := q.tokens[0]
	if t.IsInt {
		return strconv.Itoa(int(t.Int)), nil
	}
	return t.Str, nil
}

// AsIntVector returns every token as an int vector, erroring on the
// first non-numeric token.
func (q Query) AsIntVector() ([]int32, error) {
	if !q.found {
		return nil, rlerr.New(rlerr.ErrNotFound, "gameexe key not found: "+q.key)
	}
	out := make([]int32, 0, len(q.tokens))
	for _, t := range q.tokens {
		if !t.IsInt {
			return nil, rlerr.New(rlerr.ErrInvalidOperator, "gameexe key contains a non-int token: "+q.key)
		}
		out = append(out, t.Int)
	}
	return out, nil
}

// IntAt returns the token at index i as an int.
func (q Query) IntAt(i int) (int32, error) {
	if !q.found || i < 0 || i >= len(q.tokens) {
		return 0, rlerr.New(rlerr.ErrOutOfRange, "gameexe index out of range: "+q.key)
	}
	t := q.tokens[i]
	if !t.IsInt {
		return 0, rlerr.New(rlerr.ErrInvalidOperator, "gameexe token is not an int: "+q.key)
	}
	return t.Int, nil
}

// StringAt returns the token at index i as a string.
func (q Query) StringAt(i int) (string, error) {
	if !q.found || i < 0 || i >= len(q.tokens) {
		return "", rlerr.New(rlerr.ErrOutOfRange, "gameexe index out of range: "+q.key)
	}
	t := q.tokens[i]
	if t.IsInt {
		return strconv.Itoa(int(t.Int)), nil
	}
	return t.Str, nil
}

// Each iterates every recorded key with the given prefix, in sorted
// key order, yielding a Query for each.
func (g *Gameexe) Each(prefix string) iter.Seq2[string, Query] {
	keys := make([]string, 0, len(g.entries))
	for k := range g.entries {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return func(yield func(string, Query) bool) {
		for _, k := range keys {
			q := Query{key: k, found: true, tokens: g.entries[k][0]}
			if !yield(k, q) {
				return
			}
		}
	}
}
