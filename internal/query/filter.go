package query

import (
	"errors"
	"fmt"
	"strings"

	"go.einride.tech/aip/filtering"
	"golang.org/x/text/cases"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"

	"jobtrack/internal/tracker"
)

// Filter is a compiled AIP-160 filter expression over applications, e.g.
//
//	status = "Interview" AND salary >= 90000
//	company = "Acme" OR notes > 2
//
// String comparisons are case-insensitive.
type Filter struct {
	source string
	expr   *expr.Expr
}

// filterFields are the identifiers a filter may reference.
var filterFields = map[string]*expr.Type{
	"status":  filtering.TypeString,
	"company": filtering.TypeString,
	"role":    filtering.TypeString,
	"salary":  filtering.TypeInt,
	"notes":   filtering.TypeInt,
}

// errNoValue marks a field the application has no value for; the
// comparison is false rather than an error.
var errNoValue = errors.New("field has no value")

// ParseFilter compiles s. Blank input returns a nil Filter, which matches
// everything.
func ParseFilter(s string) (*Filter, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	opts := []filtering.DeclarationOption{filtering.DeclareStandardFunctions()}
	for name, typ := range filterFields {
		opts = append(opts, filtering.DeclareIdent(name, typ))
	}
	decls, err := filtering.NewDeclarations(opts...)
	if err != nil {
		return nil, fmt.Errorf("declaring filter fields: %w", err)
	}

	parsed, err := filtering.ParseFilterString(s, decls)
	if err != nil {
		return nil, &tracker.ValidationError{Field: "filter", Message: err.Error()}
	}
	e := parsed.CheckedExpr.GetExpr()
	if err := checkShape(e); err != nil {
		return nil, &tracker.ValidationError{Field: "filter", Message: err.Error()}
	}
	return &Filter{source: s, expr: e}, nil
}

// checkShape accepts only AND, OR and NOT over comparisons between one field
// and one constant of the field's type. Evaluate relies on it and never
// fails on a compiled filter.
func checkShape(e *expr.Expr) error {
	call, ok := e.GetExprKind().(*expr.Expr_CallExpr)
	if !ok {
		return fmt.Errorf("expected a comparison such as salary >= 100000")
	}
	args := call.CallExpr.GetArgs()

	switch fn := call.CallExpr.GetFunction(); fn {
	case filtering.FunctionAnd, filtering.FunctionOr:
		if len(args) != 2 {
			return fmt.Errorf("%s requires 2 arguments", fn)
		}
		if err := checkShape(args[0]); err != nil {
			return err
		}
		return checkShape(args[1])
	case filtering.FunctionNot:
		if len(args) != 1 {
			return fmt.Errorf("NOT requires 1 argument")
		}
		return checkShape(args[0])
	case filtering.FunctionEquals, filtering.FunctionNotEquals,
		filtering.FunctionLessThan, filtering.FunctionLessEquals,
		filtering.FunctionGreaterThan, filtering.FunctionGreaterEquals:
		c, err := asComparison(fn, args)
		if err != nil {
			return err
		}
		typ, ok := filterFields[c.field]
		if !ok {
			return fmt.Errorf("unknown field: %s", c.field)
		}
		switch c.value.(type) {
		case string:
			if typ != filtering.TypeString {
				return fmt.Errorf("%s must be compared with a number", c.field)
			}
		case int64:
			if typ != filtering.TypeInt {
				return fmt.Errorf("%s must be compared with a string", c.field)
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported operator: %s", fn)
	}
}

// comparison is a field, operator and constant with the field on the left.
type comparison struct {
	field string
	op    string
	value any
}

// mirrored maps an operator to its form with the operands swapped.
var mirrored = map[string]string{
	filtering.FunctionEquals:        filtering.FunctionEquals,
	filtering.FunctionNotEquals:     filtering.FunctionNotEquals,
	filtering.FunctionLessThan:      filtering.FunctionGreaterThan,
	filtering.FunctionLessEquals:    filtering.FunctionGreaterEquals,
	filtering.FunctionGreaterThan:   filtering.FunctionLessThan,
	filtering.FunctionGreaterEquals: filtering.FunctionLessEquals,
}

// asComparison normalizes `100000 <= salary` into `salary >= 100000`.
func asComparison(fn string, args []*expr.Expr) (comparison, error) {
	if len(args) != 2 {
		return comparison{}, fmt.Errorf("comparison requires 2 arguments")
	}
	if ident, ok := args[0].GetExprKind().(*expr.Expr_IdentExpr); ok {
		v, err := constant(args[1])
		if err != nil {
			return comparison{}, err
		}
		return comparison{field: ident.IdentExpr.GetName(), op: fn, value: v}, nil
	}
	if ident, ok := args[1].GetExprKind().(*expr.Expr_IdentExpr); ok {
		v, err := constant(args[0])
		if err != nil {
			return comparison{}, err
		}
		return comparison{field: ident.IdentExpr.GetName(), op: mirrored[fn], value: v}, nil
	}
	return comparison{}, fmt.Errorf("a comparison needs a field on one side")
}

// String returns the filter source text.
func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.source
}

// Evaluate reports whether app satisfies the filter.
func (f *Filter) Evaluate(app *tracker.Application) (bool, error) {
	if f == nil {
		return true, nil
	}
	fold := cases.Fold()
	resolve := func(name string) (any, error) {
		switch name {
		case "status":
			return fold.String(string(app.Status)), nil
		case "company":
			return fold.String(app.Company), nil
		case "role":
			return fold.String(app.Role), nil
		case "salary":
			n, ok := ParseSalary(app.Salary)
			if !ok {
				return nil, errNoValue
			}
			return n, nil
		case "notes":
			return int64(len(app.NotesList)), nil
		}
		return nil, fmt.Errorf("unknown field: %s", name)
	}
	return evaluate(f.expr, resolve, fold)
}

type resolver func(name string) (any, error)

func evaluate(e *expr.Expr, resolve resolver, fold cases.Caser) (bool, error) {
	if e == nil {
		return true, nil
	}
	call, ok := e.GetExprKind().(*expr.Expr_CallExpr)
	if !ok {
		return false, fmt.Errorf("unsupported expression type: %T", e.GetExprKind())
	}
	args := call.CallExpr.GetArgs()

	switch fn := call.CallExpr.GetFunction(); fn {
	case filtering.FunctionAnd:
		if len(args) != 2 {
			return false, fmt.Errorf("AND requires 2 arguments")
		}
		left, err := evaluate(args[0], resolve, fold)
		if err != nil || !left {
			return false, err
		}
		return evaluate(args[1], resolve, fold)
	case filtering.FunctionOr:
		if len(args) != 2 {
			return false, fmt.Errorf("OR requires 2 arguments")
		}
		left, err := evaluate(args[0], resolve, fold)
		if err != nil {
			return false, err
		}
		if left {
			return true, nil
		}
		return evaluate(args[1], resolve, fold)
	case filtering.FunctionNot:
		if len(args) != 1 {
			return false, fmt.Errorf("NOT requires 1 argument")
		}
		v, err := evaluate(args[0], resolve, fold)
		return !v && err == nil, err
	case filtering.FunctionEquals, filtering.FunctionNotEquals,
		filtering.FunctionLessThan, filtering.FunctionLessEquals,
		filtering.FunctionGreaterThan, filtering.FunctionGreaterEquals:
		ok, err := compare(fn, args, resolve, fold)
		if errors.Is(err, errNoValue) {
			return false, nil
		}
		return ok, err
	default:
		return false, fmt.Errorf("unsupported function: %s", fn)
	}
}

func compare(fn string, args []*expr.Expr, resolve resolver, fold cases.Caser) (bool, error) {
	c, err := asComparison(fn, args)
	if err != nil {
		return false, err
	}
	left, err := resolve(c.field)
	if err != nil {
		return false, err
	}
	right := c.value

	var cmp int
	switch l := left.(type) {
	case string:
		r, ok := right.(string)
		if !ok {
			return false, fmt.Errorf("type mismatch: string vs %T", right)
		}
		cmp = strings.Compare(l, fold.String(r))
	case int64:
		r, ok := right.(int64)
		if !ok {
			return false, fmt.Errorf("type mismatch: int vs %T", right)
		}
		cmp = compareInts(l, r)
	default:
		return false, fmt.Errorf("unsupported value type: %T", left)
	}

	switch c.op {
	case filtering.FunctionEquals:
		return cmp == 0, nil
	case filtering.FunctionNotEquals:
		return cmp != 0, nil
	case filtering.FunctionLessThan:
		return cmp < 0, nil
	case filtering.FunctionLessEquals:
		return cmp <= 0, nil
	case filtering.FunctionGreaterThan:
		return cmp > 0, nil
	default:
		return cmp >= 0, nil
	}
}

func constant(e *expr.Expr) (any, error) {
	c, ok := e.GetExprKind().(*expr.Expr_ConstExpr)
	if !ok {
		return nil, fmt.Errorf("expected constant, got %T", e.GetExprKind())
	}
	switch kind := c.ConstExpr.GetConstantKind().(type) {
	case *expr.Constant_StringValue:
		return kind.StringValue, nil
	case *expr.Constant_Int64Value:
		return kind.Int64Value, nil
	default:
		return nil, fmt.Errorf("unsupported constant type: %T", kind)
	}
}

func compareInts(l, r int64) int {
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	}
	return 0
}
