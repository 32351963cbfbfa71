package catalog

import (
	"fmt"
	"strings"

	"github.com/erraggy/catalogdiff/catalogerrors"
)

// FlattenTokens turns a nested token tree into a flat entity map. An object
// holding leafKey is a token and becomes one entity named by its group path
// joined with sep; any other object is a group and is descended into. Scalar
// group metadata (for example "$type" or "$description") is not an entity and
// is skipped.
//
//	{"color": {"brand": {"$value": "#fff"}}}  ->  {"color.brand": {"$value": "#fff"}}
func FlattenTokens(root *Object, leafKey, sep string) (*Object, error) {
	out := NewObject(root.Len())
	var walk func(obj *Object, prefix []string) error
	walk = func(obj *Object, prefix []string) error {
		for _, k := range obj.keys {
			child, ok := obj.fields[k].(*Object)
			if !ok {
				continue
			}
			path := append(prefix, k)
			if child.Has(leafKey) {
				name := strings.Join(path, sep)
				if out.Has(name) {
					return &catalogerrors.ParseError{
						Message: fmt.Sprintf("duplicate token name %q after flattening", name),
					}
				}
				out.Set(name, child)
				continue
			}
			if err := walk(child, path); err != nil {
				return err
			}
		}
		return nil
	}
	if root.Has(leafKey) {
		return nil, &catalogerrors.ParseError{Message: "catalog root is itself a token"}
	}
	if err := walk(root, make([]string, 0, 8)); err != nil {
		return nil, err
	}
	return out, nil
}
