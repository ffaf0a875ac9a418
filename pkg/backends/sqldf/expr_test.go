package sqldf

import (
	"testing"

	"github.com/leapstack-labs/crossframe/pkg/compliant"
	"github.com/leapstack-labs/crossframe/pkg/core"
	"github.com/leapstack-labs/crossframe/pkg/sqlrel/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDialect(t *testing.T, name string) *dialect.Dialect {
	t.Helper()
	d, ok := dialect.Get(name)
	require.True(t, ok, "dialect %s must be registered", name)
	return d
}

func render(t *testing.T, e compliant.Expr, d *dialect.Dialect) string {
	t.Helper()
	se, err := asExpr(e)
	require.NoError(t, err)
	frag, err := se.render(d)
	require.NoError(t, err)
	return frag
}

func TestRenderLiteral(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"int64", int64(42), "42"},
		{"int", 7, "7"},
		{"float", 2.5, "2.5"},
		{"string", "fig", "'fig'"},
		{"string with quote", "o'brien", "'o''brien'"},
		{"bool true", true, "TRUE"},
		{"bool false", false, "FALSE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := renderLiteral(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderLiteral_Unsupported(t *testing.T) {
	_, err := renderLiteral([]int{1})
	require.Error(t, err)
}

func TestCol_QuotesIdentifier(t *testing.T) {
	ns := NewNamespace(Options{})
	d := mustDialect(t, "duckdb")

	assert.Equal(t, `"price"`, render(t, ns.Col("price"), d))
	assert.Equal(t, `"od""d"`, render(t, ns.Col(`od"d`), d))
}

func TestBinaryOp_SQLText(t *testing.T) {
	ns := NewNamespace(Options{})
	d := mustDialect(t, "duckdb")

	tests := []struct {
		name string
		op   core.BinaryOp
		want string
	}{
		{"add", core.OpAdd, `("a" + "b")`},
		{"eq", core.OpEq, `("a" = "b")`},
		{"noteq", core.OpNotEq, `("a" <> "b")`},
		{"and", core.OpAnd, `("a" AND "b")`},
		{"or", core.OpOr, `("a" OR "b")`},
		{"gteq", core.OpGtEq, `("a" >= "b")`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := ns.BinaryOp(tt.op, ns.Col("a"), ns.Col("b"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, render(t, e, d))
		})
	}
}

func TestAgg_SQLText(t *testing.T) {
	ns := NewNamespace(Options{})
	d := mustDialect(t, "duckdb")

	tests := []struct {
		name string
		kind core.AggKind
		opts core.AggOptions
		want string
	}{
		{"sum", core.AggSum, core.AggOptions{}, `SUM("v")`},
		{"mean", core.AggMean, core.AggOptions{}, `AVG("v")`},
		{"min", core.AggMin, core.AggOptions{}, `MIN("v")`},
		{"max", core.AggMax, core.AggOptions{}, `MAX("v")`},
		{"count", core.AggCount, core.AggOptions{}, `COUNT("v")`},
		{"sample std", core.AggStd, core.AggOptions{DDof: 1}, `stddev_samp("v")`},
		{"population std", core.AggStd, core.AggOptions{DDof: 0}, `stddev_pop("v")`},
		{"sample var", core.AggVar, core.AggOptions{DDof: 1}, `var_samp("v")`},
		{"quantile", core.AggQuantile, core.AggOptions{Quantile: 0.5}, `quantile_cont("v", 0.5)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := ns.Agg(tt.kind, ns.Col("v"), tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, render(t, e, d))
		})
	}
}

func TestAgg_PostgresQuantile(t *testing.T) {
	ns := NewNamespace(Options{})
	d := mustDialect(t, "postgres")

	e, err := ns.Agg(core.AggQuantile, ns.Col("v"), core.AggOptions{Quantile: 0.9})
	require.NoError(t, err)
	assert.Equal(t, `percentile_cont(0.9) WITHIN GROUP (ORDER BY "v")`, render(t, e, d))
}

func TestAgg_SQLiteMissingAggregates(t *testing.T) {
	ns := NewNamespace(Options{})
	d := mustDialect(t, "sqlite")

	for _, kind := range []core.AggKind{core.AggStd, core.AggVar} {
		e, err := ns.Agg(kind, ns.Col("v"), core.AggOptions{DDof: 1})
		require.NoError(t, err)

		se, err := asExpr(e)
		require.NoError(t, err)
		_, err = se.render(d)
		require.Error(t, err)

		var mismatch *core.BackendCapabilityMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, BackendID, mismatch.Backend)
	}

	e, err := ns.Agg(core.AggQuantile, ns.Col("v"), core.AggOptions{Quantile: 0.5})
	require.NoError(t, err)
	se, err := asExpr(e)
	require.NoError(t, err)
	_, err = se.render(d)

	var mismatch *core.BackendCapabilityMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "quantile", mismatch.Op)
}

func TestAgg_DriftStrict_RejectsOddDDof(t *testing.T) {
	ns := NewNamespace(Options{Policy: core.DriftStrict})
	d := mustDialect(t, "duckdb")

	e, err := ns.Agg(core.AggStd, ns.Col("v"), core.AggOptions{DDof: 2})
	require.NoError(t, err)
	se, err := asExpr(e)
	require.NoError(t, err)
	_, err = se.render(d)

	var mismatch *core.BackendCapabilityMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Contains(t, mismatch.Argument, "ddof=2")
}

func TestAgg_DriftPermissive_DowngradesDDof(t *testing.T) {
	ns := NewNamespace(Options{Policy: core.DriftPermissive})
	d := mustDialect(t, "duckdb")

	e, err := ns.Agg(core.AggStd, ns.Col("v"), core.AggOptions{DDof: 3})
	require.NoError(t, err)
	assert.Equal(t, `stddev_samp("v")`, render(t, e, d),
		"permissive policy downgrades unsupported ddof to the sample aggregate")
}

func TestAgg_DriftStrict_RejectsNonLinearInterpolation(t *testing.T) {
	ns := NewNamespace(Options{})
	d := mustDialect(t, "duckdb")

	e, err := ns.Agg(core.AggQuantile, ns.Col("v"),
		core.AggOptions{Quantile: 0.5, Interpolation: core.InterpNearest})
	require.NoError(t, err)
	se, err := asExpr(e)
	require.NoError(t, err)
	_, err = se.render(d)

	var mismatch *core.BackendCapabilityMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Contains(t, mismatch.Argument, "nearest")
}

func TestAgg_DriftPermissive_DowngradesInterpolation(t *testing.T) {
	ns := NewNamespace(Options{Policy: core.DriftPermissive})
	d := mustDialect(t, "duckdb")

	e, err := ns.Agg(core.AggQuantile, ns.Col("v"),
		core.AggOptions{Quantile: 0.5, Interpolation: core.InterpMidpoint})
	require.NoError(t, err)
	assert.Equal(t, `quantile_cont("v", 0.5)`, render(t, e, d))
}

func TestHorizontalAgg_SQLText(t *testing.T) {
	ns := NewNamespace(Options{})
	d := mustDialect(t, "duckdb")

	sumH, err := ns.HorizontalAgg(core.AggSum, []compliant.Expr{ns.Col("a"), ns.Col("b")})
	require.NoError(t, err)
	frag := render(t, sumH, d)
	assert.Contains(t, frag, `COALESCE("a", 0) + COALESCE("b", 0)`)
	assert.Contains(t, frag, "THEN NULL", "an all-null row must yield null, not zero")

	meanH, err := ns.HorizontalAgg(core.AggMean, []compliant.Expr{ns.Col("a"), ns.Col("b")})
	require.NoError(t, err)
	frag = render(t, meanH, d)
	assert.Contains(t, frag, "NULLIF", "mean divides by the non-null count")
	assert.Equal(t, "mean_horizontal", meanH.Name())
}

func TestHorizontalAgg_UnsupportedKind(t *testing.T) {
	ns := NewNamespace(Options{})
	_, err := ns.HorizontalAgg(core.AggMin, []compliant.Expr{ns.Col("a")})
	require.Error(t, err)
}
