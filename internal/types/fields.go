package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Fields is the bag of user-supplied form values for one request.
// Keys and nesting are defined per tool by external schemas.
type Fields map[string]any

// Lookup resolves a dotted path such as "identite.nom".
func (f Fields) Lookup(path string) (any, bool) {
	var current any = map[string]any(f)
	for _, part := range strings.Split(path, ".") {
		m, ok := asMap(current)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok || current == nil {
			return nil, false
		}
	}
	return current, true
}

// String returns the first non-empty textual value among the given keys.
// Numbers and booleans are formatted; maps and lists are ignored.
func (f Fields) String(keys ...string) (string, bool) {
	for _, key := range keys {
		v, ok := f.Lookup(key)
		if !ok {
			continue
		}
		if s, ok := scalarString(v); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

// Float returns the first value among keys that parses as a number.
// French formatting is accepted: "1 200,50 €", "3,5 %".
func (f Fields) Float(keys ...string) (float64, bool) {
	for _, key := range keys {
		v, ok := f.Lookup(key)
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n, true
		case float32:
			return float64(n), true
		case int:
			return float64(n), true
		case int64:
			return float64(n), true
		case string:
			if parsed, ok := ParseFrenchNumber(n); ok {
				return parsed, true
			}
		}
	}
	return 0, false
}

// Int returns the first value among keys that is a whole number.
func (f Fields) Int(keys ...string) (int, bool) {
	n, ok := f.Float(keys...)
	if !ok || n != math.Trunc(n) {
		return 0, false
	}
	return int(n), true
}

// Map returns a nested object by key.
func (f Fields) Map(key string) (Fields, bool) {
	v, ok := f.Lookup(key)
	if !ok {
		return nil, false
	}
	m, ok := asMap(v)
	if !ok {
		return nil, false
	}
	return Fields(m), true
}

// ParseFrenchNumber parses numbers written with spaces as thousands
// separators, a comma decimal mark, and an optional unit suffix.
func ParseFrenchNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimRight(s, "€%/m²mois ")
	s = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "", ",", ".").Replace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Fields:
		return m, true
	}
	return nil, false
}

func scalarString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s), true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case int, int64, bool:
		return fmt.Sprint(s), true
	}
	return "", false
}
