package sqldf

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/crossframe/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollect_MaterializesIntoEagerFrame(t *testing.T) {
	ns := NewNamespace(Options{})
	f, mock := newTestPlan(t, ns)

	mock.ExpectQuery(`SELECT \* FROM "sales"`).WillReturnRows(
		sqlmock.NewRows([]string{"region", "amount"}).
			AddRow("north", int64(120)).
			AddRow("south", int64(80)).
			AddRow("north", int64(45)))

	df, err := f.Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, core.KindDataFrame, df.Kind())
	assert.Equal(t, core.BackendID("arrow"), df.BackendID(),
		"collected rows live in the eager arrow backend")

	schema, err := df.Schema(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.Schema{
		{Name: "region", Type: core.DTypeString},
		{Name: "amount", Type: core.DTypeInt64},
	}, schema)

	assert.Equal(t, int64(3), df.NumRows())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollect_RunsTheComposedPlan(t *testing.T) {
	ns := NewNamespace(Options{})
	f, mock := newTestPlan(t, ns)

	lit, err := ns.Lit(50)
	require.NoError(t, err)
	pred, err := ns.BinaryOp(core.OpGt, ns.Col("amount"), lit)
	require.NoError(t, err)
	filtered, err := f.Filter(pred)
	require.NoError(t, err)

	// Derived relations wrap the composed SELECT as an aliased
	// subquery, so the final query carries the WHERE clause inline.
	mock.ExpectQuery(`SELECT \* FROM \(SELECT \* FROM "sales" WHERE \("amount" > 50\)\) AS cf_`).
		WillReturnRows(sqlmock.NewRows([]string{"amount"}).AddRow(int64(120)))

	df, err := filtered.(*Frame).Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), df.NumRows())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollect_QueryErrorWrapsAsNativeError(t *testing.T) {
	ns := NewNamespace(Options{})
	f, mock := newTestPlan(t, ns)

	mock.ExpectQuery(`SELECT \* FROM "sales"`).
		WillReturnError(fmt.Errorf("relation does not exist"))

	_, err := f.Collect(context.Background())
	require.Error(t, err)

	var native *core.NativeError
	require.ErrorAs(t, err, &native)
	assert.Equal(t, BackendID, native.Backend)
	assert.Equal(t, "collect", native.Op)
	assert.Contains(t, err.Error(), "relation does not exist")
}

func TestCollect_NullsSurviveMaterialization(t *testing.T) {
	ns := NewNamespace(Options{})
	f, mock := newTestPlan(t, ns)

	mock.ExpectQuery(`SELECT \* FROM "sales"`).WillReturnRows(
		sqlmock.NewRows([]string{"amount"}).
			AddRow(int64(10)).
			AddRow(nil).
			AddRow(int64(30)))

	df, err := f.Collect(context.Background())
	require.NoError(t, err)

	col, err := df.GetColumn("amount")
	require.NoError(t, err)
	values, err := col.Values()
	require.NoError(t, err)
	assert.Equal(t, []any{int64(10), nil, int64(30)}, values)
}

func TestNormalizeValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil passes through", nil, nil},
		{"bytes become string", []byte("abc"), "abc"},
		{"int widens", int(7), int64(7)},
		{"int32 widens", int32(7), int64(7)},
		{"float32 widens", float32(1.5), float64(1.5)},
		{"int64 unchanged", int64(9), int64(9)},
		{"bool unchanged", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeValue(tt.in))
		})
	}
}
