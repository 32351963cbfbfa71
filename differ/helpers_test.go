package differ

import (
	"github.com/erraggy/catalogdiff/catalog"
	"github.com/erraggy/catalogdiff/internal/testutil"
)

var (
	obj  = testutil.Obj
	snap = testutil.Snap
)

// lookup follows keys through nested objects, returning nil when absent.
func lookup(v any, keys ...string) any {
	got, _ := catalog.Lookup(v, keys...)
	return got
}
