package config

import "fmt"

// AttributeMap holds the raw, permissively-decoded key/value pairs of an arm
// config section (typically produced by unmarshaling YAML into a
// map[string]interface{}). Its typed accessors return a default value when a key
// is absent, but panic if the key is present with the wrong type: a malformed
// config is a programmer/operator error, not a condition callers should have to
// check for on every read.
type AttributeMap map[string]interface{}

// Bool returns the named key as a bool, or def if absent.
func (am AttributeMap) Bool(name string, def bool) bool {
	v, ok := am[name]
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		panic(fmt.Sprintf("attribute %q is a %T, not a bool", name, v))
	}
	return b
}

// Float64 returns the named key as a float64, or def if absent.
func (am AttributeMap) Float64(name string, def float64) float64 {
	v, ok := am[name]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		panic(fmt.Sprintf("attribute %q is a %T, not a number", name, v))
	}
}

// Int returns the named key as an int, or def if absent.
func (am AttributeMap) Int(name string, def int) int {
	v, ok := am[name]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		panic(fmt.Sprintf("attribute %q is a %T, not an int", name, v))
	}
}

// String returns the named key as a string, or def if absent.
func (am AttributeMap) String(name string, def string) string {
	v, ok := am[name]
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok {
		panic(fmt.Sprintf("attribute %q is a %T, not a string", name, v))
	}
	return s
}

// Float64Slice returns the named key as a []float64, or def if absent.
func (am AttributeMap) Float64Slice(name string, def []float64) []float64 {
	v, ok := am[name]
	if !ok {
		return def
	}
	switch s := v.(type) {
	case []float64:
		return s
	case []interface{}:
		out := make([]float64, len(s))
		for i, e := range s {
			switch n := e.(type) {
			case float64:
				out[i] = n
			case int:
				out[i] = float64(n)
			default:
				panic(fmt.Sprintf("attribute %q element %d is a %T, not a number", name, i, e))
			}
		}
		return out
	default:
		panic(fmt.Sprintf("attribute %q is a %T, not a number slice", name, v))
	}
}

// Has reports whether the named key is present.
func (am AttributeMap) Has(name string) bool {
	_, ok := am[name]
	return ok
}
