package storage

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Keys address nested objects with dot notation: "settings.maxBackups".
// Array elements are addressed by index: "prompts.0.title".

func splitKey(key string) []string {
	return strings.Split(key, ".")
}

func lookup(data map[string]any, key string) (any, bool) {
	parts := splitKey(key)
	var cur any = data
	for _, part := range parts {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[part]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			cur = node[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}

// ErrInvalidPath is returned when a write addresses an array element that
// does not exist.
var ErrInvalidPath = errors.New("invalid key path")

// assign writes value at key, replacing any scalar found on the way.
// Array elements are addressed by index; index len(array) appends.
func assign(data map[string]any, key string, value any) error {
	_, err := assignPath(data, splitKey(key), value)
	return err
}

func assignPath(node any, parts []string, value any) (any, error) {
	if len(parts) == 0 {
		return value, nil
	}
	part, rest := parts[0], parts[1:]
	switch n := node.(type) {
	case map[string]any:
		child, err := assignPath(n[part], rest, value)
		if err != nil {
			return nil, err
		}
		n[part] = child
		return n, nil
	case []any:
		idx, err := strconv.Atoi(part)
		if err != nil || idx < 0 || idx > len(n) {
			return nil, fmt.Errorf("%w: index %q of %d elements", ErrInvalidPath, part, len(n))
		}
		var current any
		if idx < len(n) {
			current = n[idx]
		}
		child, err := assignPath(current, rest, value)
		if err != nil {
			return nil, err
		}
		if idx == len(n) {
			return append(n, child), nil
		}
		n[idx] = child
		return n, nil
	default:
		return assignPath(make(map[string]any), parts, value)
	}
}

// remove deletes key and reports whether it existed. Removing an array
// element shifts the following elements down.
func remove(data map[string]any, key string) bool {
	_, ok := removePath(data, splitKey(key))
	return ok
}

func removePath(node any, parts []string) (any, bool) {
	part, rest := parts[0], parts[1:]
	switch n := node.(type) {
	case map[string]any:
		child, ok := n[part]
		if !ok {
			return n, false
		}
		if len(rest) == 0 {
			delete(n, part)
			return n, true
		}
		next, removed := removePath(child, rest)
		if removed {
			n[part] = next
		}
		return n, removed
	case []any:
		idx, err := strconv.Atoi(part)
		if err != nil || idx < 0 || idx >= len(n) {
			return n, false
		}
		if len(rest) == 0 {
			return append(n[:idx:idx], n[idx+1:]...), true
		}
		next, removed := removePath(n[idx], rest)
		if removed {
			n[idx] = next
		}
		return n, removed
	default:
		return node, false
	}
}

// cloneValue deep-copies a JSON-native value.
func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return val
	}
}

func cloneMap(m map[string]any) map[string]any {
	return cloneValue(m).(map[string]any)
}
