package catalog

import (
	"fmt"
	"math"
)

// Kind classifies a catalog value.
type Kind int

const (
	// KindNull is an explicit null.
	KindNull Kind = iota
	// KindBool is a boolean scalar.
	KindBool
	// KindNumber is an integer or floating point scalar.
	KindNumber
	// KindString is a string scalar.
	KindString
	// KindArray is a []any.
	KindArray
	// KindObject is a *Object.
	KindObject
	// KindUnknown is any other Go value.
	KindUnknown
)

// String returns the kind name used in messages.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// KindOf returns the kind of v.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return KindNumber
	case string:
		return KindString
	case []any:
		return KindArray
	case *Object:
		return KindObject
	default:
		return KindUnknown
	}
}

// IsContainer reports whether v is an object or an array.
func IsContainer(v any) bool {
	k := KindOf(v)
	return k == KindObject || k == KindArray
}

// Normalize converts plain Go maps and typed slices into catalog values:
// map[string]any becomes *Object (sorted keys) and []string, []map[string]any
// and []any become []any. Other values are returned unchanged.
func Normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return FromMap(t)
	case *Object:
		return t
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Normalize(item)
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, m := range t {
			out[i] = FromMap(m)
		}
		return out
	default:
		return v
	}
}

// DeepCopy returns a copy of v that shares no containers with it.
func DeepCopy(v any) any {
	switch t := v.(type) {
	case *Object:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = DeepCopy(item)
		}
		return out
	default:
		return v
	}
}

// Equal reports whether a and b are structurally equal. Object key order is
// ignored and numbers compare by value, so 1 and 1.0 are equal.
func Equal(a, b any) bool {
	ka, kb := KindOf(a), KindOf(b)
	if ka != kb {
		return false
	}
	switch ka {
	case KindNull:
		return true
	case KindNumber:
		fa, _ := toFloat(a)
		fb, _ := toFloat(b)
		return fa == fb
	case KindObject:
		oa, ob := a.(*Object), b.(*Object)
		if oa.Len() != ob.Len() {
			return false
		}
		for _, k := range oa.keys {
			bv, ok := ob.fields[k]
			if !ok || !Equal(oa.fields[k], bv) {
				return false
			}
		}
		return true
	case KindArray:
		aa, ab := a.([]any), b.([]any)
		if len(aa) != len(ab) {
			return false
		}
		for i := range aa {
			if !Equal(aa[i], ab[i]) {
				return false
			}
		}
		return true
	case KindUnknown:
		return fmt.Sprint(a) == fmt.Sprint(b)
	default:
		return a == b
	}
}

// CountNodes returns the number of nodes in v: one per scalar, object and
// array, including v itself.
func CountNodes(v any) int {
	switch t := v.(type) {
	case *Object:
		n := 1
		for _, k := range t.keys {
			n += CountNodes(t.fields[k])
		}
		return n
	case []any:
		n := 1
		for _, item := range t {
			n += CountNodes(item)
		}
		return n
	default:
		return 1
	}
}

// Lookup follows keys through nested objects and returns the value found.
func Lookup(v any, keys ...string) (any, bool) {
	cur := v
	for _, k := range keys {
		obj, ok := cur.(*Object)
		if !ok {
			return nil, false
		}
		cur, ok = obj.fields[k]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// FormatScalar renders a scalar for human-readable messages. Containers are
// summarized by kind and size.
func FormatScalar(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", t)
	case *Object:
		return fmt.Sprintf("{%d keys}", t.Len())
	case []any:
		return fmt.Sprintf("[%d items]", len(t))
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprint(t)
	default:
		return fmt.Sprint(t)
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
