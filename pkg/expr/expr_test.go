package expr

import (
	"fmt"
	"testing"

	"github.com/leapstack-labs/crossframe/pkg/compliant"
	"github.com/leapstack-labs/crossframe/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordExpr is the compliant expression of the recording namespace:
// a rendered string plus an output name.
type recordExpr struct {
	name string
	repr string
}

func (r *recordExpr) Name() string { return r.name }

// recordNamespace compiles expressions into readable strings so tests
// can assert on the exact structure the compile step produced.
type recordNamespace struct{}

func (recordNamespace) BackendID() core.BackendID { return "record" }
func (recordNamespace) Version() string           { return "test" }

func (recordNamespace) Col(name string) compliant.Expr {
	return &recordExpr{name: name, repr: "col(" + name + ")"}
}

func (recordNamespace) Lit(value any) (compliant.Expr, error) {
	return &recordExpr{name: "literal", repr: fmt.Sprintf("lit(%v)", value)}, nil
}

func (recordNamespace) Alias(e compliant.Expr, name string) compliant.Expr {
	re := e.(*recordExpr)
	return &recordExpr{name: name, repr: re.repr}
}

func (recordNamespace) BinaryOp(op core.BinaryOp, left, right compliant.Expr) (compliant.Expr, error) {
	l, r := left.(*recordExpr), right.(*recordExpr)
	return &recordExpr{
		name: l.name,
		repr: fmt.Sprintf("(%s %s %s)", l.repr, op, r.repr),
	}, nil
}

func (recordNamespace) Agg(kind core.AggKind, input compliant.Expr, opts core.AggOptions) (compliant.Expr, error) {
	in := input.(*recordExpr)
	return &recordExpr{name: in.name, repr: fmt.Sprintf("%s(%s)", kind, in.repr)}, nil
}

func (recordNamespace) HorizontalAgg(kind core.AggKind, inputs []compliant.Expr) (compliant.Expr, error) {
	repr := kind.String() + "_horizontal("
	for i, in := range inputs {
		if i > 0 {
			repr += ", "
		}
		repr += in.(*recordExpr).repr
	}
	return &recordExpr{name: inputs[0].(*recordExpr).name, repr: repr + ")"}, nil
}

func compileRepr(t *testing.T, e Expr) string {
	t.Helper()
	ce, err := e.ToCompliant(recordNamespace{})
	require.NoError(t, err)
	return ce.(*recordExpr).repr
}

func TestCol_Metadata(t *testing.T) {
	m := Col("a").Metadata()

	assert.True(t, m.RootsKnown)
	assert.Equal(t, []string{"a"}, m.Roots)
	assert.Equal(t, 1, m.Arity)
	assert.False(t, m.Agg)

	root, ok := m.Root()
	assert.True(t, ok)
	assert.Equal(t, "a", root)
}

func TestLit_Metadata(t *testing.T) {
	m := Lit(42).Metadata()

	assert.True(t, m.RootsKnown, "literals have a known, empty root set")
	assert.Empty(t, m.Roots)
	assert.Equal(t, 0, m.Arity)

	_, ok := m.Root()
	assert.False(t, ok, "a literal has no single root")
}

func TestBinary_MetadataComposition(t *testing.T) {
	e := Col("a").Add(Col("b")).Mul(Col("a"))
	m := e.Metadata()

	assert.True(t, m.RootsKnown)
	assert.Equal(t, []string{"a", "b"}, m.Roots, "roots should be the ordered deduplicated union")
	assert.Equal(t, 3, m.Arity, "arity counts every input reference, including repeats")
	assert.False(t, m.Agg)

	_, ok := m.Root()
	assert.False(t, ok, "two distinct roots means no single root")
}

func TestAgg_MetadataCarriesThrough(t *testing.T) {
	e := Col("price").Sum()
	m := e.Metadata()

	assert.True(t, m.Agg, "aggregation marks the expression as row-count-changing")
	assert.Equal(t, []string{"price"}, m.Roots)
	assert.Equal(t, 1, m.Arity)

	// Combining an aggregate with a plain expression stays aggregate.
	combined := e.Add(Lit(1.0))
	assert.True(t, combined.Metadata().Agg)
}

func TestAlias_MetadataUnchanged(t *testing.T) {
	e := Col("a").Add(Col("b"))
	aliased := e.Alias("total")

	assert.Equal(t, e.Metadata(), aliased.Metadata())

	ce, err := aliased.ToCompliant(recordNamespace{})
	require.NoError(t, err)
	assert.Equal(t, "total", ce.Name(), "alias should rename the compiled output column")
}

func TestHorizontal_Metadata(t *testing.T) {
	e := MeanHorizontal(Col("a"), Col("b"), Col("a"))
	m := e.Metadata()

	assert.True(t, m.RootsKnown)
	assert.Equal(t, []string{"a", "b"}, m.Roots)
	assert.Equal(t, 3, m.Arity)
}

func TestCompile_Structure(t *testing.T) {
	tests := []struct {
		name string
		e    Expr
		want string
	}{
		{"col", Col("a"), "col(a)"},
		{"lit", Lit(3), "lit(3)"},
		{"add", Col("a").Add(Col("b")), "(col(a) + col(b))"},
		{"cmp", Col("a").GtEq(Lit(10)), "(col(a) >= lit(10))"},
		{"bool", Col("x").Gt(Lit(0)).And(Col("y").Lt(Lit(5))), "((col(x) > lit(0)) and (col(y) < lit(5)))"},
		{"sum", Col("a").Sum(), "sum(col(a))"},
		{"quantile", Col("a").Quantile(0.5, core.InterpLinear), "quantile(col(a))"},
		{"sum_horizontal", SumHorizontal(Col("a"), Col("b")), "sum_horizontal(col(a), col(b))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, compileRepr(t, tt.e))
		})
	}
}

func TestCompile_ReferentiallyTransparent(t *testing.T) {
	e := Col("a").Add(Col("b")).Sum().Alias("total")

	first := compileRepr(t, e)
	second := compileRepr(t, e)
	assert.Equal(t, first, second, "compiling twice must yield the same structure")
}

func TestMetadata_ReturnsCopy(t *testing.T) {
	e := Col("a").Add(Col("b"))
	m := e.Metadata()
	m.Roots[0] = "mutated"

	assert.Equal(t, []string{"a", "b"}, e.Metadata().Roots, "mutating a returned Metadata must not affect the expression")
}
