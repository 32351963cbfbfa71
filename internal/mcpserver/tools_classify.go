package mcpserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/catalogdiff/catalog"
	"github.com/erraggy/catalogdiff/differ"
)

type classifyInput struct {
	Name     string `json:"name,omitempty"     jsonschema:"Entity name used in the change descriptions"`
	Original any    `json:"original,omitempty" jsonschema:"The earlier entity definition; omit for a new entity"`
	Updated  any    `json:"updated,omitempty"  jsonschema:"The later entity definition; omit for a removed entity"`
}

type classifyOutput struct {
	Breaking bool         `json:"breaking"`
	Changes  []diffChange `json:"changes,omitempty"`
	Summary  string       `json:"summary"`
}

func handleClassifyEntity(_ context.Context, _ *mcp.CallToolRequest, input classifyInput) (*mcp.CallToolResult, classifyOutput, error) {
	if input.Original == nil && input.Updated == nil {
		return errResult(errors.New("at least one of original or updated must be provided")), classifyOutput{}, nil
	}

	d := differ.New()
	d.Logger = callLogger()
	verdict, err := d.ClassifyEntity(input.Name, catalog.Normalize(input.Original), catalog.Normalize(input.Updated))
	if err != nil {
		return errResult(err), classifyOutput{}, nil
	}

	output := classifyOutput{
		Breaking: verdict.Breaking,
		Changes:  makeSlice[diffChange](len(verdict.Changes)),
	}
	breaking := 0
	for _, c := range verdict.Changes {
		c.Entity = input.Name
		output.Changes = append(output.Changes, toDiffChange(c))
		if c.Breaking {
			breaking++
		}
	}

	switch {
	case len(verdict.Changes) == 0:
		output.Summary = "No changes detected."
	case verdict.Breaking:
		output.Summary = "Breaking: " + formatCount(breaking, "breaking change", "breaking changes") +
			" among " + formatCount(len(verdict.Changes), "change", "changes") + "."
	default:
		output.Summary = "Compatible: " + formatCount(len(verdict.Changes), "change", "changes") + "."
	}
	return nil, output, nil
}
