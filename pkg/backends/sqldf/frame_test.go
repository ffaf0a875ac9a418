package sqldf

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/crossframe/pkg/compliant"
	"github.com/leapstack-labs/crossframe/pkg/core"
	"github.com/leapstack-labs/crossframe/pkg/sqlrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestPlan opens a mocked engine and starts a plan over a "sales"
// table using the duckdb dialect.
func newTestPlan(t *testing.T, ns *Namespace) (*Frame, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rel, err := sqlrel.NewRelation(db, "duckdb", "sales")
	require.NoError(t, err)

	lf, err := ns.Scan(rel)
	require.NoError(t, err)
	return lf.(*Frame), mock
}

func TestScan_RejectsForeignNative(t *testing.T) {
	ns := NewNamespace(Options{})
	_, err := ns.Scan("not a relation")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlrel.Relation")
}

func TestFrame_Identity(t *testing.T) {
	ns := NewNamespace(Options{})
	f, _ := newTestPlan(t, ns)

	assert.Equal(t, BackendID, f.BackendID())
	assert.Equal(t, core.KindLazyFrame, f.Kind())
	assert.IsType(t, (*sqlrel.Relation)(nil), f.Native())
	assert.Same(t, ns, f.Namespace().(*Namespace))
}

func TestSelect_ComposesSQLWithoutTouchingEngine(t *testing.T) {
	ns := NewNamespace(Options{})
	f, mock := newTestPlan(t, ns)

	out, err := f.Select(ns.Alias(ns.Col("region"), "r"), ns.Col("amount"))
	require.NoError(t, err)

	from := out.(*Frame).rel.From()
	assert.Contains(t, from, `SELECT "region" AS "r", "amount" AS "amount" FROM "sales"`)
	assert.NoError(t, mock.ExpectationsWereMet(), "plan construction must not run queries")
}

func TestFilter_ComposesWhereClause(t *testing.T) {
	ns := NewNamespace(Options{})
	f, mock := newTestPlan(t, ns)

	lit, err := ns.Lit(100)
	require.NoError(t, err)
	pred, err := ns.BinaryOp(core.OpGt, ns.Col("amount"), lit)
	require.NoError(t, err)

	out, err := f.Filter(pred)
	require.NoError(t, err)

	from := out.(*Frame).rel.From()
	assert.Contains(t, from, `SELECT * FROM "sales" WHERE ("amount" > 100)`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithColumns_AppendsProjection(t *testing.T) {
	ns := NewNamespace(Options{})
	f, _ := newTestPlan(t, ns)

	lit, err := ns.Lit(2)
	require.NoError(t, err)
	doubled, err := ns.BinaryOp(core.OpMul, ns.Col("amount"), lit)
	require.NoError(t, err)

	out, err := f.WithColumns(ns.Alias(doubled, "double_amount"))
	require.NoError(t, err)

	from := out.(*Frame).rel.From()
	assert.Contains(t, from, `SELECT *, ("amount" * 2) AS "double_amount" FROM "sales"`)
}

func TestSelect_CapabilityMismatchSurfacesAtPlanTime(t *testing.T) {
	ns := NewNamespace(Options{})

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rel, err := sqlrel.NewRelation(db, "sqlite", "t")
	require.NoError(t, err)
	lf, err := ns.Scan(rel)
	require.NoError(t, err)

	agg, err := ns.Agg(core.AggQuantile, ns.Col("v"), core.AggOptions{Quantile: 0.5})
	require.NoError(t, err)

	_, err = lf.Select(agg)
	require.Error(t, err)

	var mismatch *core.BackendCapabilityMismatchError
	require.ErrorAs(t, err, &mismatch,
		"unsupported constructs fail while the SQL text is built, before any engine call")
}

func TestSchema_ProbesColumnTypes(t *testing.T) {
	ns := NewNamespace(Options{})
	f, mock := newTestPlan(t, ns)

	cols := []*sqlmock.Column{
		sqlmock.NewColumn("id").OfType("BIGINT", int64(0)),
		sqlmock.NewColumn("amount").OfType("DOUBLE", float64(0)),
		sqlmock.NewColumn("region").OfType("VARCHAR", ""),
		sqlmock.NewColumn("active").OfType("BOOLEAN", true),
	}
	mock.ExpectQuery(`SELECT \* FROM "sales" LIMIT 0`).
		WillReturnRows(mock.NewRowsWithColumnDefinition(cols...))

	schema, err := f.Schema(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.Schema{
		{Name: "id", Type: core.DTypeInt64},
		{Name: "amount", Type: core.DTypeFloat64},
		{Name: "region", Type: core.DTypeString},
		{Name: "active", Type: core.DTypeBool},
	}, schema)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDbTypeToDType(t *testing.T) {
	tests := []struct {
		dbType string
		want   core.DType
	}{
		{"BIGINT", core.DTypeInt64},
		{"INTEGER", core.DTypeInt64},
		{"DOUBLE PRECISION", core.DTypeFloat64},
		{"REAL", core.DTypeFloat64},
		{"NUMERIC", core.DTypeFloat64},
		{"VARCHAR", core.DTypeString},
		{"TEXT", core.DTypeString},
		{"BOOLEAN", core.DTypeBool},
		{"BLOB", core.DTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.dbType, func(t *testing.T) {
			assert.Equal(t, tt.want, dbTypeToDType(tt.dbType))
		})
	}
}

var _ compliant.LazyFrame = (*Frame)(nil)
