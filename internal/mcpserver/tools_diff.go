package mcpserver

import (
	"context"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/catalogdiff/differ"
)

type diffInput struct {
	Original     snapshotInput `json:"original"                jsonschema:"The earlier catalog snapshot"`
	Updated      snapshotInput `json:"updated"                 jsonschema:"The later catalog snapshot to compare against the original"`
	Root         []string      `json:"root,omitempty"          jsonschema:"Key path of the entity map inside both documents, e.g. [components, schemas]"`
	Flatten      bool          `json:"flatten,omitempty"       jsonschema:"Flatten nested token groups into dotted entity names"`
	IDKey        string        `json:"id_key,omitempty"        jsonschema:"Entity field holding the stable identifier (default from CATALOGDIFF_ID_KEY)"`
	BreakingOnly bool          `json:"breaking_only,omitempty" jsonschema:"Only list breaking changes"`
}

type diffChange struct {
	Entity      string `json:"entity"`
	Path        string `json:"path,omitempty"`
	Kind        string `json:"kind"`
	Severity    string `json:"severity"`
	Breaking    bool   `json:"breaking"`
	Description string `json:"description"`
}

type diffRename struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Breaking bool   `json:"breaking"`
}

type diffOutput struct {
	Added         []string     `json:"added,omitempty"`
	Deleted       []string     `json:"deleted,omitempty"`
	Renamed       []diffRename `json:"renamed,omitempty"`
	Deprecated    []string     `json:"deprecated,omitempty"`
	Reverted      []string     `json:"reverted,omitempty"`
	Updated       []string     `json:"updated,omitempty"`
	Ambiguities   []string     `json:"ambiguities,omitempty"`
	BreakingCount int          `json:"breaking_count"`
	Bump          string       `json:"bump"`
	Changes       []diffChange `json:"changes,omitempty"`
	Truncated     bool         `json:"truncated,omitempty"`
	Summary       string       `json:"summary"`
}

func handleDiff(_ context.Context, _ *mcp.CallToolRequest, input diffInput) (*mcp.CallToolResult, diffOutput, error) {
	load := loadOptions{Root: input.Root, Flatten: input.Flatten}
	original, err := input.Original.resolve(load)
	if err != nil {
		return errResult(err), diffOutput{}, nil
	}
	updated, err := input.Updated.resolve(load)
	if err != nil {
		return errResult(err), diffOutput{}, nil
	}

	idKey := input.IDKey
	if idKey == "" {
		idKey = cfg.IdentifierKey
	}
	result, err := differ.DiffWithOptions(
		differ.WithOriginalSnapshot(original),
		differ.WithUpdatedSnapshot(updated),
		differ.WithIdentifierPath(idKey),
		differ.WithMaxNodes(cfg.MaxNodes),
		differ.WithLogger(callLogger()),
	)
	if err != nil {
		return errResult(err), diffOutput{}, nil
	}

	output := diffOutput{
		Added:         result.Added.Keys(),
		Deleted:       result.Deleted.Keys(),
		Renamed:       makeSlice[diffRename](len(result.Renamed)),
		Deprecated:    makeSlice[string](len(result.Deprecated)),
		Reverted:      result.Reverted.Keys(),
		Updated:       makeSlice[string](len(result.Updated)),
		Ambiguities:   makeSlice[string](len(result.Ambiguities)),
		BreakingCount: result.Summary.BreakingChanges,
		Bump:          string(result.Bump()),
	}
	for _, r := range result.Renamed {
		output.Renamed = append(output.Renamed, diffRename{From: r.OldName, To: r.NewName, Breaking: r.Breaking})
	}
	for _, d := range result.Deprecated {
		output.Deprecated = append(output.Deprecated, d.Name)
	}
	for _, u := range result.Updated {
		output.Updated = append(output.Updated, u.Name)
	}
	for _, a := range result.Ambiguities {
		output.Ambiguities = append(output.Ambiguities, a.String())
	}

	for _, c := range result.Changes() {
		if input.BreakingOnly && !c.Breaking {
			continue
		}
		if len(output.Changes) == cfg.MaxChanges {
			output.Truncated = true
			break
		}
		output.Changes = append(output.Changes, toDiffChange(c))
	}
	output.Summary = buildDiffSummary(result)

	return nil, output, nil
}

func toDiffChange(c differ.Change) diffChange {
	return diffChange{
		Entity:      c.Entity,
		Path:        c.Path,
		Kind:        string(c.Kind),
		Severity:    c.Severity.String(),
		Breaking:    c.Breaking,
		Description: c.Description,
	}
}

func buildDiffSummary(result *differ.Result) string {
	if result.IsEmpty() {
		return "No changes detected."
	}

	s := result.Summary
	total := s.BreakingChanges + s.NonBreakingChanges
	summary := ""
	if s.HasBreakingChanges {
		summary = "Breaking changes detected. "
	}
	summary += formatCount(total, "changed entity", "changed entities") + " found"
	if s.BreakingChanges > 0 {
		summary += " (" + strconv.Itoa(s.BreakingChanges) + " breaking)"
	}
	return summary + "; suggested bump: " + string(result.Bump()) + "."
}

func formatCount(n int, singular, plural string) string {
	if n == 1 {
		return "1 " + singular
	}
	return strconv.Itoa(n) + " " + plural
}
