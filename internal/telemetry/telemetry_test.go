package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/catalogdiff"
	"github.com/erraggy/catalogdiff/catalogerrors"
	"github.com/erraggy/catalogdiff/differ"
	cdtestutil "github.com/erraggy/catalogdiff/internal/testutil"
)

func TestNew(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)
	require.NotNil(t, m)

	// A second set on the same registry collides.
	_, err = New(reg)
	require.Error(t, err)
	var already prometheus.AlreadyRegisteredError
	assert.ErrorAs(t, err, &already)

	_, err = New(nil)
	assert.Error(t, err)
}

func TestNew_BuildInfo(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "catalogdiff_build_info")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "catalogdiff_build_info" {
			continue
		}
		labels := map[string]string{}
		for _, lp := range mf.GetMetric()[0].GetLabel() {
			labels[lp.GetName()] = lp.GetValue()
		}
		assert.Equal(t, catalogdiff.Version(), labels["version"])
		assert.Equal(t, catalogdiff.UserAgent(), labels["user_agent"])
		assert.InDelta(t, 1.0, mf.GetMetric()[0].GetGauge().GetValue(), 0)
	}
}

func TestObserveDiff(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.ObserveDiff(differ.Stats{
		Duration:      3 * time.Millisecond,
		OriginalNodes: 120,
		UpdatedNodes:  130,
		Added:         2,
		Deleted:       1,
		Renamed:       1,
		Breaking:      2,
		Ambiguities:   1,
	}, nil)
	m.ObserveDiff(differ.Stats{Updated: 3}, nil)
	m.ObserveDiff(differ.Stats{}, &catalogerrors.ResourceLimitError{ResourceType: "node_count"})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.diffs.WithLabelValues(OutcomeBreaking)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.diffs.WithLabelValues(OutcomeCompatible)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.diffs.WithLabelValues(OutcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errs.WithLabelValues("resource_limit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.entities.WithLabelValues("added")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.entities.WithLabelValues("updated")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.breaking))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ambiguities))

	families, err := reg.Gather()
	require.NoError(t, err)
	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		byName[f.GetName()] = f
	}
	duration := byName["catalogdiff_diff_duration_seconds"]
	require.NotNil(t, duration)
	assert.Equal(t, uint64(3), duration.GetMetric()[0].GetHistogram().GetSampleCount())
	nodes := byName["catalogdiff_snapshot_nodes"]
	require.NotNil(t, nodes)
	assert.Equal(t, uint64(2), nodes.GetMetric()[0].GetHistogram().GetSampleCount())
}

func TestObserveDiff_FromDiffer(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	_, err = differ.DiffWithOptions(
		differ.WithOriginalSnapshot(cdtestutil.NewSchemaSnapshot()),
		differ.WithUpdatedSnapshot(cdtestutil.Snap("Card", cdtestutil.Obj("id", "cmp-card"))),
		differ.WithObserver(m),
	)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.diffs.WithLabelValues(OutcomeBreaking)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.entities.WithLabelValues("deleted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.entities.WithLabelValues("updated")))

	count, err := testutil.GatherAndCount(reg, "catalogdiff_diffs_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestErrorType(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&catalogerrors.ResourceLimitError{}, "resource_limit"},
		{fmt.Errorf("differ: %w", &catalogerrors.UnhandledTypeError{}), "unhandled_type"},
		{&catalogerrors.AmbiguityError{}, "ambiguous_identifier"},
		{&catalogerrors.ParseError{}, "parse"},
		{&catalogerrors.ConfigError{}, "config"},
		{errors.New("boom"), "other"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorType(tt.err))
		})
	}
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)
	m.ObserveDiff(differ.Stats{Breaking: 1, Deleted: 1}, nil)

	path := filepath.Join(t.TempDir(), "catalogdiff.prom")
	require.NoError(t, WriteTextfile(reg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `catalogdiff_diffs_total{outcome="breaking"} 1`)
	assert.Contains(t, string(data), "# HELP catalogdiff_breaking_changes_total")

	err = WriteTextfile(reg, filepath.Join(t.TempDir(), "missing", "dir", "x.prom"))
	assert.Error(t, err)
}
