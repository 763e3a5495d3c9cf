// Package query provides path-based navigation over the trees osmxml.Parse
// produces, adapted from the teacher corpus's own path-query engine onto
// *osmxml.OrderedMap / osmxml.Seq / osmxml.Tuple instead of a bare
// map[string]any / []any tree.
package query

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/r2labs/osmxml/osmxml"
)

// QueryAll returns every value reached by path, a "/"-separated sequence of
// element-name segments. A leading "//" switches to a recursive search, in
// document order, for the remaining single key. A segment may carry an
// index ("tag[0]"), a comparison filter ("tag[k=name]"), or a built-in
// function filter ("tag[contains(k,name)]", "tag[starts-with(k,na)]");
// a "func:name" segment ("func:isNumeric") selects children by a
// predicate added with Register.
func QueryAll(data any, path string) ([]any, error) {
	if path == "" {
		return []any{data}, nil
	}

	if strings.HasPrefix(path, "//") {
		return findAllRecursively(data, strings.TrimPrefix(path, "//")), nil
	}

	candidates := []any{data}

	for _, segment := range strings.Split(path, "/") {
		if segment == "" {
			continue
		}

		var next []any
		for _, candidate := range candidates {
			nodes := expand(candidate)

			if segment == "#count" {
				next = append(next, countOf(candidate))
				continue
			}

			key, filter, idx := parseSegment(segment)

			for _, node := range nodes {
				if key == "#text" {
					if isScalar(node) {
						next = append(next, node)
					}
					continue
				}

				for _, val := range valuesFor(node, key) {
					switch {
					case filter != nil:
						for _, item := range expand(val) {
							if matchFilter(item, filter) {
								next = append(next, item)
							}
						}
					case idx >= 0:
						if seq, ok := val.(osmxml.Seq); ok && idx < len(seq) {
							next = append(next, seq[idx])
						}
					default:
						next = append(next, val)
					}
				}
			}
		}

		if len(next) == 0 {
			return nil, nil
		}
		candidates = next
	}

	return candidates, nil
}

// Query returns the first value QueryAll would find, or an error if path
// matches nothing.
func Query(data any, path string) (any, error) {
	res, err := QueryAll(data, path)
	if err != nil {
		return nil, err
	}
	if len(res) == 0 {
		return nil, fmt.Errorf("query: not found: %s", path)
	}
	return res[0], nil
}

// Get queries path and type-asserts the result to T, falling back to a
// best-effort string/int conversion when the stored type doesn't match.
func Get[T any](data any, path string) (T, error) {
	var zero T
	val, err := Query(data, path)
	if err != nil {
		return zero, err
	}
	if v, ok := val.(T); ok {
		return v, nil
	}

	switch any(zero).(type) {
	case string:
		return any(fmt.Sprintf("%v", val)).(T), nil
	case int64:
		if i, ok := val.(int64); ok {
			return any(i).(T), nil
		}
		if i, err := strconv.ParseInt(fmt.Sprintf("%v", val), 10, 64); err == nil {
			return any(i).(T), nil
		}
	}
	return zero, fmt.Errorf("query: value at %q is %T, expected %T", path, val, zero)
}

// expand flattens an osmxml.Seq into its elements; any other value is
// treated as a single-element sequence of itself.
func expand(v any) []any {
	if seq, ok := v.(osmxml.Seq); ok {
		out := make([]any, len(seq))
		copy(out, seq)
		return out
	}
	return []any{v}
}

func countOf(v any) int64 {
	switch t := v.(type) {
	case osmxml.Seq:
		return int64(len(t))
	case *osmxml.OrderedMap:
		return int64(t.Len())
	default:
		return 0
	}
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, int64, float64, bool:
		return true
	default:
		return false
	}
}

// valuesFor resolves key against one navigable node: an element Map (by
// child name, "*" wildcard, or "func:" predicate) or an items-mode Tuple
// (by its own name).
func valuesFor(node any, key string) []any {
	switch n := node.(type) {
	case *osmxml.OrderedMap:
		switch {
		case key == "*":
			var out []any
			n.ForEach(func(k string, v any) bool {
				if !strings.HasPrefix(k, "@") && k != "#text" {
					out = append(out, v)
				}
				return true
			})
			return out
		case strings.HasPrefix(key, "func:"):
			fn, ok := lookup(strings.TrimPrefix(key, "func:"))
			if !ok {
				return nil
			}
			var keys []string
			n.ForEach(func(k string, _ any) bool {
				if !strings.HasPrefix(k, "@") && k != "#text" && fn(k) {
					keys = append(keys, k)
				}
				return true
			})
			sort.Strings(keys)
			out := make([]any, 0, len(keys))
			for _, k := range keys {
				out = append(out, n.Get(k))
			}
			return out
		default:
			if n.Has(key) {
				return []any{n.Get(key)}
			}
			return nil
		}
	case osmxml.Tuple:
		if key == "*" || n.Name == key {
			return []any{n.Value}
		}
		return nil
	default:
		return nil
	}
}

type filter struct {
	key    string
	op     string
	val    string
	isFunc bool
}

// parseSegment splits "name[...]" into its bare key, an optional filter,
// and an optional integer index.
func parseSegment(segment string) (key string, f *filter, idx int) {
	idx = -1
	key = segment

	i := strings.Index(segment, "[")
	if i <= 0 || !strings.HasSuffix(segment, "]") {
		return key, nil, idx
	}
	key = segment[:i]
	inside := segment[i+1 : len(segment)-1]

	if p := strings.Index(inside, "("); p >= 0 && strings.HasSuffix(inside, ")") {
		fnName := strings.TrimSpace(inside[:p])
		args := strings.Split(inside[p+1:len(inside)-1], ",")
		if len(args) == 2 {
			return key, &filter{
				key: strings.TrimSpace(args[0]), op: fnName,
				val: strings.Trim(strings.TrimSpace(args[1]), `'"`), isFunc: true,
			}, -1
		}
	}

	for _, op := range []string{"!=", ">=", "<=", "=", ">", "<"} {
		if parts := strings.SplitN(inside, op, 2); len(parts) == 2 {
			return key, &filter{
				key: strings.TrimSpace(parts[0]), op: op,
				val: strings.Trim(strings.TrimSpace(parts[1]), `'"`),
			}, -1
		}
	}

	if n, err := strconv.Atoi(inside); err == nil {
		idx = n
	}
	return key, nil, idx
}

func matchFilter(item any, f *filter) bool {
	m, ok := item.(*osmxml.OrderedMap)
	if !ok {
		return false
	}
	actual := m.Get(f.key)
	if actual == nil {
		actual = m.Get("@" + f.key)
	}
	if actual == nil {
		return false
	}
	actualStr := fmt.Sprintf("%v", actual)

	if f.isFunc {
		switch f.op {
		case "contains":
			return strings.Contains(actualStr, f.val)
		case "starts-with":
			return strings.HasPrefix(actualStr, f.val)
		}
		return false
	}

	switch f.op {
	case "=":
		return actualStr == f.val
	case "!=":
		return actualStr != f.val
	case ">", "<", ">=", "<=":
		numV, errV := strconv.ParseFloat(actualStr, 64)
		targetV, errT := strconv.ParseFloat(f.val, 64)
		if errV != nil || errT != nil {
			return false
		}
		switch f.op {
		case ">":
			return numV > targetV
		case "<":
			return numV < targetV
		case ">=":
			return numV >= targetV
		case "<=":
			return numV <= targetV
		}
	}
	return false
}

func findAllRecursively(data any, key string) []any {
	var results []any
	var walk func(node any)
	walk = func(node any) {
		switch n := node.(type) {
		case *osmxml.OrderedMap:
			if n.Has(key) {
				results = append(results, n.Get(key))
			}
			n.ForEach(func(_ string, v any) bool {
				walk(v)
				return true
			})
		case osmxml.Seq:
			for _, item := range n {
				walk(item)
			}
		case osmxml.Tuple:
			if n.Name == key {
				results = append(results, n.Value)
			}
			walk(n.Value)
		}
	}
	walk(data)
	return results
}
