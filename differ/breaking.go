package differ

import "slices"

// DefaultDeprecationKey is the entity field holding a deprecation comment.
const DefaultDeprecationKey = "deprecatedComment"

// DefaultSchemaRefKeys are the top-level fields treated as schema references.
var DefaultSchemaRefKeys = []string{"$ref", "schemaRef"}

// Classifier applies compatibility rules to the diff of a single entity.
// The zero value uses the default rules and field names.
type Classifier struct {
	// Rules overrides the verdict of individual change kinds. Nil uses defaults.
	Rules *BreakingRulesConfig
	// DeprecationKey is the top-level deprecation marker field.
	// Default: "deprecatedComment"
	DeprecationKey string
	// SchemaRefKeys are the top-level schema reference fields.
	// Default: "$ref" and "schemaRef"
	SchemaRefKeys []string
}

func (c *Classifier) deprecationKey() string {
	if c.DeprecationKey != "" {
		return c.DeprecationKey
	}
	return DefaultDeprecationKey
}

func (c *Classifier) schemaRefKeys() []string {
	if len(c.SchemaRefKeys) > 0 {
		return c.SchemaRefKeys
	}
	return DefaultSchemaRefKeys
}

// DescribeChanges lists the changes recorded in the diff of the entity named
// entity, with a verdict for each. original and updated are the two entity
// definitions the diff was computed from.
//
// Enum and required lists are compared as sets, so reordering one is not a
// change. A changed deprecation marker or list of the wrong shape yields an
// *catalogerrors.UnhandledTypeError.
func (c *Classifier) DescribeChanges(entity string, d DiffResult, original, updated any) ([]Change, error) {
	return c.describe(entity, d, original, updated)
}

// IsBreaking reports whether the diff of one entity breaks its consumers.
//
// Rules, in priority order:
//
//  1. Any removal is breaking, except dropping a "default: null" whose
//     declaring property remains.
//  2. Adding a name to a required list is breaking.
//  3. Changing the entity's top-level title or schema reference is breaking.
//  4. Added optional properties, added enum values and relaxed constraints
//     are compatible.
//  5. Anything else is compatible.
//
// Only rules 1 to 3 yield a breaking verdict, so the entity breaks exactly
// when one of its described changes does.
func (c *Classifier) IsBreaking(entity string, d DiffResult, original, updated any) (bool, error) {
	changes, err := c.describe(entity, d, original, updated)
	if err != nil {
		return false, err
	}
	return anyBreaking(changes), nil
}

func anyBreaking(changes []Change) bool {
	return slices.ContainsFunc(changes, func(ch Change) bool { return ch.Breaking })
}

var defaultClassifier = &Classifier{}

// IsBreaking reports whether an entity diff is breaking under the default
// rules. See Classifier.IsBreaking.
func IsBreaking(d DiffResult, original, updated any) (bool, error) {
	return defaultClassifier.IsBreaking("", d, original, updated)
}

// DescribeChanges describes an entity diff under the default rules.
// See Classifier.DescribeChanges.
func DescribeChanges(d DiffResult, original, updated any) ([]Change, error) {
	return defaultClassifier.DescribeChanges("", d, original, updated)
}
