// Package fingerprint computes structural hashes of catalog values.
//
// Two values that compare equal with catalog.Equal hash to the same
// fingerprint: object keys are visited in sorted order and numbers are
// written in a canonical form. Hash collisions are possible, so callers that
// need certainty must confirm a match with a deep comparison.
package fingerprint

import (
	"math"
	"slices"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/erraggy/catalogdiff/catalog"
)

// Hasher computes fingerprints. A Hasher is not safe for concurrent use.
type Hasher struct {
	ignore map[string]struct{}
	digest *xxhash.Digest
	keys   []string
}

// New returns a Hasher that skips the given top-level keys of an entity,
// e.g. a deprecation marker that should not affect content identity.
func New(ignoreKeys ...string) *Hasher {
	h := &Hasher{
		digest: xxhash.New(),
		keys:   make([]string, 0, 16),
	}
	if len(ignoreKeys) > 0 {
		h.ignore = make(map[string]struct{}, len(ignoreKeys))
		for _, k := range ignoreKeys {
			h.ignore[k] = struct{}{}
		}
	}
	return h
}

// Sum returns the fingerprint of v.
func (h *Hasher) Sum(v any) uint64 {
	h.digest.Reset()
	h.write(v, true)
	return h.digest.Sum64()
}

// Of returns the fingerprint of v with no ignored keys.
func Of(v any) uint64 {
	return New().Sum(v)
}

func (h *Hasher) write(v any, top bool) {
	switch t := v.(type) {
	case nil:
		h.tag('n')
	case bool:
		if t {
			h.tag('t')
		} else {
			h.tag('f')
		}
	case string:
		h.tag('s')
		h.str(t)
	case *catalog.Object:
		h.tag('{')
		keys := t.Keys()
		slices.Sort(keys)
		for _, k := range keys {
			if top && h.ignore != nil {
				if _, skip := h.ignore[k]; skip {
					continue
				}
			}
			val, _ := t.Get(k)
			h.str(k)
			h.write(val, false)
		}
		h.tag('}')
	case []any:
		h.tag('[')
		for _, item := range t {
			h.write(item, false)
		}
		h.tag(']')
	default:
		if catalog.KindOf(v) == catalog.KindNumber {
			h.tag('#')
			h.number(v)
			return
		}
		h.tag('?')
		h.str(catalog.FormatScalar(v))
	}
}

func (h *Hasher) tag(b byte) {
	_, _ = h.digest.Write([]byte{b})
}

// str writes a length-prefixed string so that adjacent strings cannot run
// together.
func (h *Hasher) str(s string) {
	_, _ = h.digest.WriteString(strconv.Itoa(len(s)))
	h.tag(':')
	_, _ = h.digest.WriteString(s)
}

func (h *Hasher) number(v any) {
	f := toFloat(v)
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		_, _ = h.digest.WriteString(strconv.FormatInt(int64(f), 10))
		return
	}
	_, _ = h.digest.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	}
	return math.NaN()
}
