package differ

// ChangeKind identifies the kind of a change. Every kind except the
// lifecycle ones can be overridden through BreakingRulesConfig.
type ChangeKind string

const (
	// KindEntityAdded is a whole entity present only in the updated snapshot.
	KindEntityAdded ChangeKind = "entity_added"
	// KindEntityRemoved is a whole entity present only in the original snapshot.
	KindEntityRemoved ChangeKind = "entity_removed"
	// KindPropertyAdded is a key or array element added inside an entity.
	KindPropertyAdded ChangeKind = "property_added"
	// KindPropertyRemoved is a key or array element removed inside an entity.
	KindPropertyRemoved ChangeKind = "property_removed"
	// KindDefaultNullRemoved is the removal of a "default: null" declaration
	// while the declaring property remains.
	KindDefaultNullRemoved ChangeKind = "default_null_removed"
	// KindEnumValueAdded is one or more members added to an enum list.
	KindEnumValueAdded ChangeKind = "enum_value_added"
	// KindEnumValueRemoved is one or more members removed from an enum list.
	KindEnumValueRemoved ChangeKind = "enum_value_removed"
	// KindRequiredAdded is one or more names added to a required list.
	KindRequiredAdded ChangeKind = "required_added"
	// KindRequiredRemoved is one or more names removed from a required list.
	KindRequiredRemoved ChangeKind = "required_removed"
	// KindTitleChanged is a change to the entity's top-level title.
	KindTitleChanged ChangeKind = "title_changed"
	// KindSchemaRefChanged is a change to the entity's top-level schema reference.
	KindSchemaRefChanged ChangeKind = "schema_ref_changed"
	// KindValueChanged is any other value replaced in place.
	KindValueChanged ChangeKind = "value_changed"

	// KindDeprecated is a deprecation marker added or changed.
	KindDeprecated ChangeKind = "deprecated"
	// KindUndeprecated is a deprecation marker dropped.
	KindUndeprecated ChangeKind = "undeprecated"
	// KindEntityRenamed is an entity that changed name but kept its identifier.
	KindEntityRenamed ChangeKind = "entity_renamed"
	// KindEntityReverted is an entity classified as reverted.
	KindEntityReverted ChangeKind = "entity_reverted"
)

// defaultBreaking holds the verdict of each kind when no rule overrides it.
// Every removal is breaking except a dropped "default: null"; additions to a
// required list and direct title or schema reference changes are breaking;
// everything else is compatible.
var defaultBreaking = map[ChangeKind]bool{
	KindEntityAdded:        false,
	KindEntityRemoved:      true,
	KindPropertyAdded:      false,
	KindPropertyRemoved:    true,
	KindDefaultNullRemoved: false,
	KindEnumValueAdded:     false,
	KindEnumValueRemoved:   true,
	KindRequiredAdded:      true,
	KindRequiredRemoved:    true,
	KindTitleChanged:       true,
	KindSchemaRefChanged:   true,
	KindValueChanged:       false,
	KindDeprecated:         false,
	KindUndeprecated:       false,
	KindEntityRenamed:      false,
	KindEntityReverted:     false,
}

// BreakingChangeRule configures how a specific change kind is treated.
type BreakingChangeRule struct {
	// Breaking overrides the default verdict for this change kind.
	// If nil, the default verdict is used.
	Breaking *bool

	// Ignore drops this change kind from descriptions and verdicts.
	Ignore bool
}

// ApplyRule applies a rule to the given default verdict.
// Returns the (possibly overridden) verdict and whether to ignore the change.
func (r *BreakingChangeRule) ApplyRule(defaultVerdict bool) (breaking, ignore bool) {
	if r == nil {
		return defaultVerdict, false
	}
	if r.Ignore {
		return false, true
	}
	if r.Breaking != nil {
		return *r.Breaking, false
	}
	return defaultVerdict, false
}

// BreakingRulesConfig overrides the compatibility verdict of individual change
// kinds. A nil config, or a nil field, keeps the default behavior.
//
// Example:
//
//	rules := &differ.BreakingRulesConfig{
//	    // Consumers tolerate unknown enum members.
//	    EnumValueRemoved: &differ.BreakingChangeRule{Breaking: differ.BoolPtr(false)},
//	    // Titles are documentation only here.
//	    TitleChanged: &differ.BreakingChangeRule{Ignore: true},
//	}
type BreakingRulesConfig struct {
	// EntityRemoved configures whole-entity deletions. Default: breaking
	EntityRemoved *BreakingChangeRule
	// EntityAdded configures whole-entity additions. Default: non-breaking
	EntityAdded *BreakingChangeRule
	// PropertyRemoved configures removed keys and array elements. Default: breaking
	PropertyRemoved *BreakingChangeRule
	// PropertyAdded configures added keys and array elements. Default: non-breaking
	PropertyAdded *BreakingChangeRule
	// DefaultNullRemoved configures a dropped "default: null". Default: non-breaking
	DefaultNullRemoved *BreakingChangeRule
	// EnumValueRemoved configures removed enum members. Default: breaking
	EnumValueRemoved *BreakingChangeRule
	// EnumValueAdded configures added enum members. Default: non-breaking
	EnumValueAdded *BreakingChangeRule
	// RequiredAdded configures names added to a required list. Default: breaking
	RequiredAdded *BreakingChangeRule
	// RequiredRemoved configures names removed from a required list. Default: breaking
	RequiredRemoved *BreakingChangeRule
	// TitleChanged configures top-level title changes. Default: breaking
	TitleChanged *BreakingChangeRule
	// SchemaRefChanged configures top-level schema reference changes. Default: breaking
	SchemaRefChanged *BreakingChangeRule
	// ValueChanged configures values replaced in place. Default: non-breaking
	ValueChanged *BreakingChangeRule
}

func (c *BreakingRulesConfig) getRule(kind ChangeKind) *BreakingChangeRule {
	if c == nil {
		return nil
	}
	switch kind {
	case KindEntityRemoved:
		return c.EntityRemoved
	case KindEntityAdded:
		return c.EntityAdded
	case KindPropertyRemoved:
		return c.PropertyRemoved
	case KindPropertyAdded:
		return c.PropertyAdded
	case KindDefaultNullRemoved:
		return c.DefaultNullRemoved
	case KindEnumValueRemoved:
		return c.EnumValueRemoved
	case KindEnumValueAdded:
		return c.EnumValueAdded
	case KindRequiredAdded:
		return c.RequiredAdded
	case KindRequiredRemoved:
		return c.RequiredRemoved
	case KindTitleChanged:
		return c.TitleChanged
	case KindSchemaRefChanged:
		return c.SchemaRefChanged
	case KindValueChanged:
		return c.ValueChanged
	}
	return nil
}

// verdict returns the verdict for kind after rule overrides, and whether the
// change should be dropped.
func (c *BreakingRulesConfig) verdict(kind ChangeKind) (breaking, ignore bool) {
	return c.getRule(kind).ApplyRule(defaultBreaking[kind])
}

// BoolPtr returns a pointer to b, for use in BreakingChangeRule.
func BoolPtr(b bool) *bool {
	return &b
}

// DefaultRules returns a BreakingRulesConfig with all default behaviors.
// This is equivalent to not setting any rules.
func DefaultRules() *BreakingRulesConfig {
	return &BreakingRulesConfig{}
}

// StrictRules returns a BreakingRulesConfig that also treats in-place value
// changes and new optional properties as breaking.
func StrictRules() *BreakingRulesConfig {
	return &BreakingRulesConfig{
		ValueChanged:  &BreakingChangeRule{Breaking: BoolPtr(true)},
		PropertyAdded: &BreakingChangeRule{Breaking: BoolPtr(true)},
	}
}

// LenientRules returns a BreakingRulesConfig that treats removed enum members
// and relaxed required lists as compatible.
func LenientRules() *BreakingRulesConfig {
	return &BreakingRulesConfig{
		EnumValueRemoved: &BreakingChangeRule{Breaking: BoolPtr(false)},
		RequiredRemoved:  &BreakingChangeRule{Breaking: BoolPtr(false)},
	}
}
