package differ

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/erraggy/catalogdiff/catalog"
	"github.com/erraggy/catalogdiff/catalogerrors"
	"github.com/erraggy/catalogdiff/internal/options"
)

// DefaultMaxNodes is the default size guard: the largest number of value
// nodes accepted in either snapshot.
const DefaultMaxNodes = 1_000_000

// Observer receives one report per comparison. Implementations must be safe
// for concurrent use when the Differ is shared between goroutines.
type Observer interface {
	ObserveDiff(stats Stats, err error)
}

// Stats describes one comparison for an Observer.
type Stats struct {
	// Duration is the wall time of the comparison
	Duration time.Duration
	// OriginalNodes and UpdatedNodes are the node counts of the inputs
	OriginalNodes int
	UpdatedNodes  int
	// Counts per partition
	Added      int
	Deleted    int
	Renamed    int
	Deprecated int
	Reverted   int
	Updated    int
	// Ambiguities is the number of ambiguous identifiers
	Ambiguities int
	// Breaking is the number of breaking changes in the summary
	Breaking int
}

// Differ compares catalog snapshots. A Differ holds configuration only; it
// keeps no state between comparisons and may be shared between goroutines
// provided its Logger and Observer are safe for concurrent use.
type Differ struct {
	// IdentifierPath locates the stable identifier inside an entity.
	// Default: ["id"]
	IdentifierPath []string
	// DeprecationKey is the top-level deprecation marker field.
	// Default: "deprecatedComment"
	DeprecationKey string
	// SchemaRefKeys are the top-level schema reference fields.
	// Default: ["$ref", "schemaRef"]
	SchemaRefKeys []string
	// MaxNodes is the size guard applied to each snapshot. 0 disables it.
	// Default: DefaultMaxNodes
	MaxNodes int
	// StrictIdentifiers turns rename ambiguities into errors.
	StrictIdentifiers bool
	// BreakingRules overrides the verdict of individual change kinds.
	// When nil, default rules are used.
	BreakingRules *BreakingRulesConfig
	// History enables content-based reverted detection. Nil disables it.
	History *History
	// Logger receives debug timings and ambiguity warnings. Nil disables logging.
	Logger catalog.Logger
	// Observer receives a report per comparison. Nil disables it.
	Observer Observer
}

// New creates a new Differ instance with default settings
func New() *Differ {
	return &Differ{
		IdentifierPath: []string{DefaultIdentifierKey},
		DeprecationKey: DefaultDeprecationKey,
		MaxNodes:       DefaultMaxNodes,
	}
}

func (d *Differ) log() catalog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return catalog.NopLogger{}
}

func (d *Differ) classifier() *Classifier {
	return &Classifier{
		Rules:          d.BreakingRules,
		DeprecationKey: d.DeprecationKey,
		SchemaRefKeys:  d.SchemaRefKeys,
	}
}

// Diff loads two catalog files with default parse settings and compares them.
func (d *Differ) Diff(originalPath, updatedPath string) (*Result, error) {
	p := catalog.New()
	p.Logger = d.Logger
	original, err := p.Parse(originalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse original catalog: %w", err)
	}
	updated, err := p.Parse(updatedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse updated catalog: %w", err)
	}
	return d.DiffSnapshots(original, updated)
}

// DiffSnapshots compares two snapshots. Nil snapshots are treated as empty.
// Neither snapshot is modified or retained.
func (d *Differ) DiffSnapshots(original, updated *catalog.Snapshot) (*Result, error) {
	start := time.Now()
	stats := Stats{}
	result, err := d.diffSnapshots(original, updated, &stats)
	stats.Duration = time.Since(start)
	if d.Observer != nil {
		d.Observer.ObserveDiff(stats, err)
	}
	if err != nil {
		return nil, err
	}
	d.log().Debug("diff complete",
		"added", stats.Added,
		"deleted", stats.Deleted,
		"renamed", stats.Renamed,
		"updated", stats.Updated,
		"breaking", stats.Breaking,
		"elapsed", stats.Duration,
	)
	return result, nil
}

func (d *Differ) diffSnapshots(original, updated *catalog.Snapshot, stats *Stats) (*Result, error) {
	if original == nil {
		original = catalog.NewSnapshot()
	}
	if updated == nil {
		updated = catalog.NewSnapshot()
	}
	log := d.log()

	stats.OriginalNodes = original.NodeCount()
	stats.UpdatedNodes = updated.NodeCount()
	if err := d.checkSize("original", stats.OriginalNodes); err != nil {
		return nil, err
	}
	if err := d.checkSize("updated", stats.UpdatedNodes); err != nil {
		return nil, err
	}

	phase := time.Now()
	tree := TreeDiff(original.Root(), updated.Root())
	log.Debug("tree diff", "elapsed", time.Since(phase))

	added := terminalNames(tree.Added)
	deleted := terminalNames(tree.Deleted)

	phase = time.Now()
	renames := Renames{Added: added, Deleted: deleted}
	if len(added) > 0 && len(deleted) > 0 {
		var err error
		renames, err = DetectRenames(
			BuildIndex(original, d.IdentifierPath...),
			BuildIndex(updated, d.IdentifierPath...),
			added, deleted, d.StrictIdentifiers,
		)
		if err != nil {
			return nil, fmt.Errorf("differ: %w", err)
		}
	}
	for _, a := range renames.Ambiguities {
		log.Warn("ambiguous identifier", "identifier", a.Identifier, "kind", a.Kind, "candidates", a.Candidates, "chosen", a.Chosen)
	}
	log.Debug("rename detection", "renames", len(renames.Pairs), "elapsed", time.Since(phase))

	phase = time.Now()
	lc := LifecycleClassifier{DeprecationKey: d.DeprecationKey, History: d.History}
	life, err := lc.Classify(tree, original, updated, renames)
	if err != nil {
		return nil, fmt.Errorf("differ: %w", err)
	}
	log.Debug("lifecycle classification", "elapsed", time.Since(phase))

	phase = time.Now()
	result, err := d.buildResult(tree, original, updated, renames, life)
	if err != nil {
		return nil, fmt.Errorf("differ: %w", err)
	}
	log.Debug("breaking classification", "elapsed", time.Since(phase))

	result.OriginalSource = original.Source
	result.UpdatedSource = updated.Source
	stats.Added = result.Added.Len()
	stats.Deleted = result.Deleted.Len()
	stats.Renamed = len(result.Renamed)
	stats.Deprecated = len(result.Deprecated)
	stats.Reverted = result.Reverted.Len()
	stats.Updated = len(result.Updated)
	stats.Ambiguities = len(result.Ambiguities)
	stats.Breaking = result.Summary.BreakingChanges
	return result, nil
}

func (d *Differ) checkSize(side string, nodes int) error {
	if d.MaxNodes <= 0 || nodes <= d.MaxNodes {
		return nil
	}
	return &catalogerrors.ResourceLimitError{
		ResourceType: "node_count",
		Limit:        int64(d.MaxNodes),
		Actual:       int64(nodes),
		Message:      side + " snapshot",
	}
}

// terminalNames returns the top-level names whose whole value was added or
// deleted, in tree order.
func terminalNames(root *Delta) []string {
	names := make([]string, 0, root.Len())
	for _, c := range root.Children {
		if c.IsTerminal() {
			names = append(names, c.Name)
		}
	}
	return names
}

func (d *Differ) buildResult(tree DiffResult, original, updated *catalog.Snapshot, renames Renames, life Lifecycle) (*Result, error) {
	c := d.classifier()
	r := newResult()
	r.rules = d.BreakingRules
	r.Ambiguities = renames.Ambiguities
	sum := &r.Summary

	count := func(breaking bool) {
		if breaking {
			sum.BreakingChanges++
		} else {
			sum.NonBreakingChanges++
		}
	}
	entity := func(kind ChangeKind) {
		if breaking, ignore := c.Rules.verdict(kind); !ignore {
			count(breaking)
		}
	}

	for _, name := range life.Removed {
		r.Deleted.Set(name, tree.Deleted.Child(name).Old)
		entity(KindEntityRemoved)
	}

	for _, p := range renames.Pairs {
		before, _ := original.Get(p.OldName)
		after, _ := updated.Get(p.NewName)
		sub := TreeDiff(before.Value, after.Value)
		changes, err := c.describe(p.NewName, sub, before.Value, after.Value)
		if err != nil {
			return nil, err
		}
		e := RenamedEntity{NewName: p.NewName, OldName: p.OldName, Identifier: p.Identifier, Breaking: anyBreaking(changes)}
		if len(changes) > 0 {
			e.Changes = changes
		}
		r.Renamed = append(r.Renamed, e)
		count(e.Breaking)
	}

	describe := func(name string) (DiffResult, []Change, error) {
		sub := tree.Sub(name)
		before, _ := original.Get(name)
		after, _ := updated.Get(name)
		changes, err := c.describe(name, sub, before.Value, after.Value)
		return sub, changes, err
	}

	for _, name := range life.Deprecated {
		_, changes, err := describe(name)
		if err != nil {
			return nil, err
		}
		e := DeprecatedEntity{Name: name, Comment: life.Comments[name], Changes: changes, Breaking: anyBreaking(changes)}
		r.Deprecated = append(r.Deprecated, e)
		count(e.Breaking)
	}

	for _, name := range life.Reverted {
		_, changes, err := describe(name)
		if err != nil {
			return nil, err
		}
		after, _ := updated.Get(name)
		r.Reverted.Set(name, catalog.DeepCopy(after.Value))
		count(anyBreaking(changes))
	}

	for _, name := range life.Updated {
		sub, changes, err := describe(name)
		if err != nil {
			return nil, err
		}
		e := UpdatedEntity{
			Name:     name,
			Added:    sub.Added,
			Deleted:  sub.Deleted,
			Updated:  sub.Updated,
			Changes:  changes,
			Breaking: anyBreaking(changes),
		}
		r.Updated = append(r.Updated, e)
		count(e.Breaking)
	}

	for _, name := range life.New {
		r.Added.Set(name, tree.Added.Child(name).New)
		entity(KindEntityAdded)
	}

	sum.TotalEntities = EntityCounts{
		Added:   r.Added.Len(),
		Deleted: r.Deleted.Len(),
		Updated: len(r.Updated) + len(r.Renamed) + len(r.Deprecated) + r.Reverted.Len(),
	}
	sum.HasBreakingChanges = sum.BreakingChanges > 0
	return r, nil
}

// ClassifyEntity compares two definitions of one entity. A nil original is a
// whole-entity addition and a nil updated a whole-entity deletion.
func (d *Differ) ClassifyEntity(name string, original, updated any) (EntityVerdict, error) {
	v := EntityVerdict{Name: name}
	c := d.classifier()
	switch {
	case original == nil && updated == nil:
		return v, nil
	case original == nil:
		v.Changes = entityLevel(c.Rules, KindEntityAdded, "added entity")
	case updated == nil:
		v.Changes = entityLevel(c.Rules, KindEntityRemoved, "removed entity")
	default:
		changes, err := c.describe(name, TreeDiff(original, updated), original, updated)
		if err != nil {
			return v, fmt.Errorf("differ: %w", err)
		}
		v.Changes = changes
	}
	v.Breaking = anyBreaking(v.Changes)
	return v, nil
}

func entityLevel(rules *BreakingRulesConfig, kind ChangeKind, description string) []Change {
	breaking, ignore := rules.verdict(kind)
	if ignore {
		return nil
	}
	return []Change{{Kind: kind, Description: description, Breaking: breaking, Severity: severityFor(kind, breaking)}}
}

// EntityVerdict is the classification of one entity comparison.
type EntityVerdict struct {
	Name     string   `json:"name" yaml:"name"`
	Changes  []Change `json:"changes" yaml:"changes"`
	Breaking bool     `json:"breaking" yaml:"breaking"`
}

// Option is a function that configures a diff operation
type Option func(*diffConfig) error

// limitSettings holds the numeric limits checked with struct validation.
type limitSettings struct {
	MaxNodes    int `validate:"gte=0"`
	Concurrency int `validate:"gte=0,lte=4096"`
}

// diffConfig holds configuration for a diff operation
type diffConfig struct {
	// Input sources (exactly one original and one updated must be set)
	originalFilePath *string
	originalSnapshot *catalog.Snapshot
	updatedFilePath  *string
	updatedSnapshot  *catalog.Snapshot

	parseOptions      []catalog.Option
	identifierPath    []string
	deprecationKey    string
	schemaRefKeys     []string
	strictIdentifiers bool
	breakingRules     *BreakingRulesConfig
	history           []*catalog.Snapshot
	logger            catalog.Logger
	observer          Observer

	limits limitSettings
}

// DiffWithOptions compares two catalog snapshots using functional options.
//
// Example:
//
//	result, err := differ.DiffWithOptions(
//	    differ.WithOriginalFilePath("tokens-v1.json"),
//	    differ.WithUpdatedFilePath("tokens-v2.json"),
//	    differ.WithParseOptions(catalog.WithFlatten(true)),
//	)
func DiffWithOptions(opts ...Option) (*Result, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("differ: invalid options: %w", err)
	}
	if err := cfg.requireInputs(); err != nil {
		return nil, fmt.Errorf("differ: invalid options: %w", err)
	}

	original := cfg.originalSnapshot
	if cfg.originalFilePath != nil {
		original, err = cfg.load(*cfg.originalFilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to parse original catalog: %w", err)
		}
	}
	updated := cfg.updatedSnapshot
	if cfg.updatedFilePath != nil {
		updated, err = cfg.load(*cfg.updatedFilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to parse updated catalog: %w", err)
		}
	}
	return cfg.differ().DiffSnapshots(original, updated)
}

func (cfg *diffConfig) load(path string) (*catalog.Snapshot, error) {
	opts := append([]catalog.Option{catalog.WithFilePath(path), catalog.WithLogger(cfg.logger)}, cfg.parseOptions...)
	return catalog.ParseWithOptions(opts...)
}

func (cfg *diffConfig) differ() *Differ {
	d := New()
	if len(cfg.identifierPath) > 0 {
		d.IdentifierPath = cfg.identifierPath
	}
	if cfg.deprecationKey != "" {
		d.DeprecationKey = cfg.deprecationKey
	}
	d.SchemaRefKeys = cfg.schemaRefKeys
	d.MaxNodes = cfg.limits.MaxNodes
	d.StrictIdentifiers = cfg.strictIdentifiers
	d.BreakingRules = cfg.breakingRules
	if len(cfg.history) > 0 {
		d.History = NewHistory(cfg.history...)
	}
	d.Logger = cfg.logger
	d.Observer = cfg.observer
	return d
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*diffConfig, error) {
	cfg := &diffConfig{
		limits: limitSettings{
			MaxNodes:    DefaultMaxNodes,
			Concurrency: runtime.GOMAXPROCS(0),
		},
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.ValidateStruct(cfg.limits); err != nil {
		var serr *options.StructError
		if errors.As(err, &serr) && len(serr.Fields) > 0 {
			f := serr.Fields[0]
			return nil, &catalogerrors.ConfigError{Option: f.Field, Value: f.Value, Message: f.String(), Cause: err}
		}
		return nil, &catalogerrors.ConfigError{Message: "invalid limits", Cause: err}
	}
	return cfg, nil
}

// requireInputs checks that exactly one original and one updated source is set.
func (cfg *diffConfig) requireInputs() error {
	if err := options.ValidateSingleInputSource(
		"must specify an original (use WithOriginalFilePath or WithOriginalSnapshot)",
		"must specify exactly one original",
		cfg.originalFilePath != nil, cfg.originalSnapshot != nil,
	); err != nil {
		return &catalogerrors.ConfigError{Option: "original", Message: err.Error()}
	}
	if err := options.ValidateSingleInputSource(
		"must specify an updated (use WithUpdatedFilePath or WithUpdatedSnapshot)",
		"must specify exactly one updated",
		cfg.updatedFilePath != nil, cfg.updatedSnapshot != nil,
	); err != nil {
		return &catalogerrors.ConfigError{Option: "updated", Message: err.Error()}
	}
	return nil
}

// WithOriginalFilePath specifies a local catalog file as the original snapshot
func WithOriginalFilePath(path string) Option {
	return func(cfg *diffConfig) error {
		cfg.originalFilePath = &path
		return nil
	}
}

// WithOriginalSnapshot specifies a loaded snapshot as the original
func WithOriginalSnapshot(s *catalog.Snapshot) Option {
	return func(cfg *diffConfig) error {
		if s == nil {
			return &catalogerrors.ConfigError{Option: "original", Message: "snapshot must not be nil"}
		}
		cfg.originalSnapshot = s
		return nil
	}
}

// WithUpdatedFilePath specifies a local catalog file as the updated snapshot
func WithUpdatedFilePath(path string) Option {
	return func(cfg *diffConfig) error {
		cfg.updatedFilePath = &path
		return nil
	}
}

// WithUpdatedSnapshot specifies a loaded snapshot as the updated one
func WithUpdatedSnapshot(s *catalog.Snapshot) Option {
	return func(cfg *diffConfig) error {
		if s == nil {
			return &catalogerrors.ConfigError{Option: "updated", Message: "snapshot must not be nil"}
		}
		cfg.updatedSnapshot = s
		return nil
	}
}

// WithParseOptions sets the catalog options used to load file inputs,
// e.g. catalog.WithRoot or catalog.WithFlatten.
func WithParseOptions(opts ...catalog.Option) Option {
	return func(cfg *diffConfig) error {
		cfg.parseOptions = append(cfg.parseOptions, opts...)
		return nil
	}
}

// WithIdentifierPath sets the location of the stable identifier inside an entity
// Default: "id"
func WithIdentifierPath(keys ...string) Option {
	return func(cfg *diffConfig) error {
		if len(keys) == 0 {
			return &catalogerrors.ConfigError{Option: "identifierPath", Message: "must not be empty"}
		}
		cfg.identifierPath = keys
		return nil
	}
}

// WithDeprecationKey sets the top-level deprecation marker field
// Default: "deprecatedComment"
func WithDeprecationKey(key string) Option {
	return func(cfg *diffConfig) error {
		if key == "" {
			return &catalogerrors.ConfigError{Option: "deprecationKey", Message: "must not be empty"}
		}
		cfg.deprecationKey = key
		return nil
	}
}

// WithSchemaRefKeys sets the top-level fields treated as schema references
// Default: "$ref", "schemaRef"
func WithSchemaRefKeys(keys ...string) Option {
	return func(cfg *diffConfig) error {
		cfg.schemaRefKeys = keys
		return nil
	}
}

// WithMaxNodes sets the size guard applied to each snapshot; 0 disables it
// Default: 1,000,000
func WithMaxNodes(n int) Option {
	return func(cfg *diffConfig) error {
		cfg.limits.MaxNodes = n
		return nil
	}
}

// WithConcurrency sets the number of comparisons DiffBatch and DiffEntities
// run at once
// Default: runtime.GOMAXPROCS(0)
func WithConcurrency(n int) Option {
	return func(cfg *diffConfig) error {
		cfg.limits.Concurrency = n
		return nil
	}
}

// WithStrictIdentifiers makes an identifier shared by several rename
// candidates an error instead of a flagged, order-based choice
// Default: false
func WithStrictIdentifiers(enabled bool) Option {
	return func(cfg *diffConfig) error {
		cfg.strictIdentifiers = enabled
		return nil
	}
}

// WithHistory supplies earlier snapshots for content-based reverted detection.
func WithHistory(snapshots ...*catalog.Snapshot) Option {
	return func(cfg *diffConfig) error {
		cfg.history = append(cfg.history, snapshots...)
		return nil
	}
}

// WithBreakingRules configures which changes are considered breaking.
//
// Example:
//
//	result, _ := differ.DiffWithOptions(
//	    differ.WithOriginalFilePath("v1.json"),
//	    differ.WithUpdatedFilePath("v2.json"),
//	    differ.WithBreakingRules(differ.LenientRules()),
//	)
func WithBreakingRules(rules *BreakingRulesConfig) Option {
	return func(cfg *diffConfig) error {
		cfg.breakingRules = rules
		return nil
	}
}

// WithLogger sets a structured logger for debug timings and warnings.
func WithLogger(l catalog.Logger) Option {
	return func(cfg *diffConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithObserver sets an Observer notified after each comparison.
func WithObserver(o Observer) Option {
	return func(cfg *diffConfig) error {
		cfg.observer = o
		return nil
	}
}
