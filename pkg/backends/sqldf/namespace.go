package sqldf

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/crossframe/pkg/backends/arrowdf"
	"github.com/leapstack-labs/crossframe/pkg/compliant"
	"github.com/leapstack-labs/crossframe/pkg/core"
	"github.com/leapstack-labs/crossframe/pkg/sqlrel"
	"github.com/leapstack-labs/crossframe/pkg/sqlrel/dialect"
)

// BackendID is the SQL backend's dispatch key.
const BackendID core.BackendID = "sql"

// Version is the SQL backend's version marker. The engine behind a
// relation varies per handle; the adapter itself is versioned by the
// database/sql contract it drives.
const Version = "database/sql"

// Options configures a Namespace.
type Options struct {
	// Policy controls backend-signature drift handling. The zero
	// value is DriftStrict.
	Policy core.DriftPolicy

	// Logger receives debug output and permissive-policy downgrade
	// notices. Nil uses a discard logger.
	Logger *slog.Logger
}

// Namespace is the SQL backend's compliant namespace. It is stateless
// apart from its options; the concrete engine and dialect are carried
// by each relation.
type Namespace struct {
	policy core.DriftPolicy
	logger *slog.Logger
	eager  *arrowdf.Namespace // materialization target for Collect
}

// NewNamespace creates a namespace with the given options.
func NewNamespace(opts Options) *Namespace {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Namespace{
		policy: opts.Policy,
		logger: logger,
		eager:  arrowdf.NewNamespace(arrowdf.Options{Logger: logger}),
	}
}

// BackendID returns the SQL backend identity.
func (ns *Namespace) BackendID() core.BackendID { return BackendID }

// Version returns the backend version marker.
func (ns *Namespace) Version() string { return Version }

// Scan starts a deferred plan over a native relation handle.
func (ns *Namespace) Scan(native any) (compliant.LazyFrame, error) {
	rel, ok := native.(*sqlrel.Relation)
	if !ok {
		return nil, fmt.Errorf("expected *sqlrel.Relation, got %T", native)
	}
	return &Frame{rel: rel, ns: ns}, nil
}

// Col references a column of the eventual input relation.
func (ns *Namespace) Col(name string) compliant.Expr {
	return &Expr{
		name: name,
		render: func(d *dialect.Dialect) (string, error) {
			return d.QuoteIdent(name), nil
		},
	}
}

// Lit wraps a literal value as an inline SQL constant.
func (ns *Namespace) Lit(value any) (compliant.Expr, error) {
	frag, err := renderLiteral(value)
	if err != nil {
		return nil, err
	}
	return &Expr{
		name:   "literal",
		render: func(*dialect.Dialect) (string, error) { return frag, nil },
	}, nil
}

// Alias renames the expression's output column. The fragment is
// unchanged; the AS clause is added at projection time.
func (ns *Namespace) Alias(e compliant.Expr, name string) compliant.Expr {
	inner, err := asExpr(e)
	if err != nil {
		return &Expr{name: name, render: func(*dialect.Dialect) (string, error) { return "", err }}
	}
	return &Expr{name: name, render: inner.render}
}

// BinaryOp combines two expressions elementwise. The result column
// keeps the left operand's name.
func (ns *Namespace) BinaryOp(op core.BinaryOp, left, right compliant.Expr) (compliant.Expr, error) {
	l, err := asExpr(left)
	if err != nil {
		return nil, err
	}
	r, err := asExpr(right)
	if err != nil {
		return nil, err
	}
	return &Expr{
		name: l.name,
		render: func(d *dialect.Dialect) (string, error) {
			lf, err := l.render(d)
			if err != nil {
				return "", err
			}
			rf, err := r.render(d)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("(%s %s %s)", lf, sqlOp(op), rf), nil
		},
	}, nil
}

// Agg reduces an expression to a single value. Option combinations
// the target dialect cannot render are rejected (strict policy) or
// downgraded with a log line (permissive policy) while the SQL text
// is being built, before anything reaches the engine.
func (ns *Namespace) Agg(kind core.AggKind, input compliant.Expr, opts core.AggOptions) (compliant.Expr, error) {
	in, err := asExpr(input)
	if err != nil {
		return nil, err
	}
	return &Expr{
		name: in.name,
		render: func(d *dialect.Dialect) (string, error) {
			frag, err := in.render(d)
			if err != nil {
				return "", err
			}
			return ns.renderAgg(d, kind, frag, opts)
		},
	}, nil
}

func (ns *Namespace) renderAgg(d *dialect.Dialect, kind core.AggKind, frag string, opts core.AggOptions) (string, error) {
	switch kind {
	case core.AggSum:
		return fmt.Sprintf("SUM(%s)", frag), nil
	case core.AggMean:
		return fmt.Sprintf("AVG(%s)", frag), nil
	case core.AggMin:
		return fmt.Sprintf("MIN(%s)", frag), nil
	case core.AggMax:
		return fmt.Sprintf("MAX(%s)", frag), nil
	case core.AggCount:
		return fmt.Sprintf("COUNT(%s)", frag), nil

	case core.AggStd, core.AggVar:
		format := d.FormatStdDev
		if kind == core.AggVar {
			format = d.FormatVariance
		}
		if format == nil {
			return "", &core.BackendCapabilityMismatchError{
				Backend:  BackendID,
				Op:       kind.String(),
				Argument: "ddof",
				Detail:   fmt.Sprintf("dialect %q has no %s aggregate", d.Name, kind),
			}
		}
		if out, ok := format(frag, opts.DDof); ok {
			return out, nil
		}
		if ns.policy == core.DriftPermissive {
			ns.logger.Warn("downgrading unsupported ddof to sample aggregate",
				slog.String("dialect", d.Name),
				slog.String("op", kind.String()),
				slog.Int("ddof", opts.DDof))
			out, _ := format(frag, 1)
			return out, nil
		}
		return "", &core.BackendCapabilityMismatchError{
			Backend:  BackendID,
			Op:       kind.String(),
			Argument: fmt.Sprintf("ddof=%d", opts.DDof),
			Detail:   fmt.Sprintf("dialect %q only supports ddof 0 or 1", d.Name),
		}

	case core.AggQuantile:
		if d.FormatQuantile == nil {
			return "", &core.BackendCapabilityMismatchError{
				Backend:  BackendID,
				Op:       "quantile",
				Argument: fmt.Sprintf("quantile=%g", opts.Quantile),
				Detail:   fmt.Sprintf("dialect %q has no quantile aggregate", d.Name),
			}
		}
		if opts.Interpolation != core.InterpLinear {
			if ns.policy != core.DriftPermissive {
				return "", &core.BackendCapabilityMismatchError{
					Backend:  BackendID,
					Op:       "quantile",
					Argument: "interpolation=" + opts.Interpolation.String(),
					Detail:   fmt.Sprintf("dialect %q only interpolates linearly", d.Name),
				}
			}
			ns.logger.Warn("downgrading quantile interpolation to linear",
				slog.String("dialect", d.Name),
				slog.String("interpolation", opts.Interpolation.String()))
		}
		return d.FormatQuantile(frag, opts.Quantile), nil

	default:
		return "", fmt.Errorf("unsupported aggregation %s", kind)
	}
}

// HorizontalAgg aggregates row-wise across several expressions,
// ignoring nulls per row as the eager backend does.
func (ns *Namespace) HorizontalAgg(kind core.AggKind, inputs []compliant.Expr) (compliant.Expr, error) {
	if kind != core.AggSum && kind != core.AggMean {
		return nil, fmt.Errorf("horizontal aggregation %s is not supported", kind)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("horizontal aggregation requires at least one expression")
	}
	exprs := make([]*Expr, len(inputs))
	for i, in := range inputs {
		e, err := asExpr(in)
		if err != nil {
			return nil, err
		}
		exprs[i] = e
	}
	name := kind.String() + "_horizontal"
	return &Expr{
		name: name,
		render: func(d *dialect.Dialect) (string, error) {
			terms := make([]string, len(exprs))
			counts := make([]string, len(exprs))
			for i, e := range exprs {
				frag, err := e.render(d)
				if err != nil {
					return "", err
				}
				terms[i] = fmt.Sprintf("COALESCE(%s, 0)", frag)
				counts[i] = fmt.Sprintf("(CASE WHEN %s IS NULL THEN 0 ELSE 1 END)", frag)
			}
			total := strings.Join(terms, " + ")
			nonNull := strings.Join(counts, " + ")
			if kind == core.AggSum {
				// A row with no values at all yields null, not 0.
				return fmt.Sprintf("(CASE WHEN %s = 0 THEN NULL ELSE %s END)", nonNull, total), nil
			}
			return fmt.Sprintf("((%s) * 1.0 / NULLIF(%s, 0))", total, nonNull), nil
		},
	}, nil
}
