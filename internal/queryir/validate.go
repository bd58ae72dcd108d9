package queryir

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/roach88/woql/internal/xsd"
)

// ValidationError reports a structurally invalid query tree. Path locates
// the offending field, e.g. "Select.query.And.and[2].Triple.subject".
type ValidationError struct {
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Validate checks that q is a well-formed tree:
//   - every required field is present and every sub-query is non-nil
//   - variable names are legal identifiers
//   - strings are valid UTF-8 and literals have a lexical form
//   - dictionary fields are unique
//   - graphs, orders and path repetition bounds are in range
//
// The parsers, the decoder and the builder only produce valid trees; Validate
// guards trees assembled by hand before they are encoded.
func Validate(q Query) error {
	return validateQuery(q, "")
}

func validateQuery(q Query, path string) error {
	if q == nil {
		return &ValidationError{Path: path, Message: "missing query"}
	}
	op := OperatorFor(q)
	if op == nil {
		return &ValidationError{Path: path, Message: fmt.Sprintf("unknown query type %T", q)}
	}
	base := joinPath(path, op.Type)

	for i, f := range op.Fields {
		fp := base + "." + f.Name
		val := op.Get(q, i)
		if !f.Optional && !f.Variadic && isAbsent(f.Kind, val) {
			return &ValidationError{Path: fp, Message: "missing required field"}
		}
		if err := validateField(f, val, fp); err != nil {
			return err
		}
	}
	return nil
}

// isAbsent reports whether a required field holds nothing. Lists, strings
// and counts are allowed to be empty.
func isAbsent(kind FieldKind, val any) bool {
	switch kind {
	case FieldQuery, FieldValue, FieldNodeValue, FieldDataValue, FieldDataList, FieldPath, FieldArith:
		return val == nil
	}
	return false
}

func validateField(f Field, val any, path string) error {
	switch f.Kind {
	case FieldQuery:
		if val == nil {
			return nil
		}
		return validateQuery(val.(Query), path)
	case FieldQueryList:
		for i, sub := range val.([]Query) {
			if err := validateQuery(sub, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	case FieldVariableList:
		for i, v := range val.([]Variable) {
			if !ValidVariableName(string(v)) {
				return &ValidationError{Path: fmt.Sprintf("%s[%d]", path, i), Message: fmt.Sprintf("invalid variable name %q", string(v))}
			}
		}
	case FieldOrderList:
		for i, o := range val.([]OrderTemplate) {
			p := fmt.Sprintf("%s[%d]", path, i)
			if !ValidVariableName(string(o.Variable)) {
				return &ValidationError{Path: p, Message: fmt.Sprintf("invalid variable name %q", string(o.Variable))}
			}
			if o.Order != Asc && o.Order != Desc {
				return &ValidationError{Path: p, Message: fmt.Sprintf("invalid order %q", string(o.Order))}
			}
		}
	case FieldValueList:
		for i, v := range val.([]Value) {
			if err := validateValue(v, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	case FieldValue, FieldNodeValue, FieldDataValue, FieldDataList:
		if val == nil {
			return nil
		}
		return validateValue(val, path)
	case FieldGraph:
		if g := val.(GraphType); !g.Valid() {
			return &ValidationError{Path: path, Message: fmt.Sprintf("invalid graph %q", string(g))}
		}
	case FieldPath:
		if val == nil {
			return nil
		}
		return validatePath(val.(PathPattern), path)
	case FieldArith:
		if val == nil {
			return nil
		}
		return validateArith(val.(ArithmeticExpression), path)
	case FieldString:
		if !utf8.ValidString(val.(string)) {
			return &ValidationError{Path: path, Message: "string is not valid UTF-8"}
		}
	case FieldStringList:
		for i, s := range val.([]string) {
			if !ValidVariableName(s) {
				return &ValidationError{Path: fmt.Sprintf("%s[%d]", path, i), Message: fmt.Sprintf("invalid parameter name %q", s)}
			}
		}
	}
	return nil
}

func validateValue(v any, path string) error {
	switch val := v.(type) {
	case nil:
		return &ValidationError{Path: path, Message: "missing value"}
	case Variable:
		if !ValidVariableName(string(val)) {
			return &ValidationError{Path: path, Message: fmt.Sprintf("invalid variable name %q", string(val))}
		}
	case NodeURI:
		if !utf8.ValidString(string(val)) {
			return &ValidationError{Path: path, Message: "node is not valid UTF-8"}
		}
	case Literal:
		if val.Data == nil {
			return &ValidationError{Path: path, Message: "literal without data"}
		}
		if err := xsd.Check(val.Data); err != nil {
			return &ValidationError{Path: path, Message: "invalid literal: " + err.Error()}
		}
	case ValueList:
		for i, e := range val {
			if err := validateValue(e, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	case DataList:
		for i, e := range val {
			if err := validateValue(e, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	case Dictionary:
		seen := make(map[string]bool, len(val))
		for _, p := range val {
			if !utf8.ValidString(p.Field) {
				return &ValidationError{Path: path, Message: "field name is not valid UTF-8"}
			}
			if seen[p.Field] {
				return &ValidationError{Path: path + "." + p.Field, Message: fmt.Sprintf("duplicate field %q", p.Field)}
			}
			seen[p.Field] = true
			if err := validateValue(p.Value, path+"."+p.Field); err != nil {
				return err
			}
		}
	default:
		return &ValidationError{Path: path, Message: fmt.Sprintf("unknown value type %T", v)}
	}
	return nil
}

func validatePath(p PathPattern, path string) error {
	switch pat := p.(type) {
	case nil:
		return &ValidationError{Path: path, Message: "missing path pattern"}
	case PathPredicate:
		if !utf8.ValidString(pat.Predicate) {
			return &ValidationError{Path: path, Message: "predicate is not valid UTF-8"}
		}
	case InversePathPredicate:
		if pat.Predicate == "" {
			return &ValidationError{Path: path, Message: "inverse path requires a predicate"}
		}
		if !utf8.ValidString(pat.Predicate) {
			return &ValidationError{Path: path, Message: "predicate is not valid UTF-8"}
		}
	case PathSequence:
		if len(pat) == 0 {
			return &ValidationError{Path: path, Message: "empty path sequence"}
		}
		for i, sub := range pat {
			if err := validatePath(sub, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	case PathOr:
		if len(pat) == 0 {
			return &ValidationError{Path: path, Message: "empty path alternation"}
		}
		for i, sub := range pat {
			if err := validatePath(sub, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	case PathPlus:
		return validatePath(pat.Pattern, path+".plus")
	case PathStar:
		return validatePath(pat.Pattern, path+".star")
	case PathTimes:
		if pat.From > pat.To {
			return &ValidationError{Path: path, Message: fmt.Sprintf("repetition lower bound %d exceeds upper bound %d", pat.From, pat.To)}
		}
		return validatePath(pat.Pattern, path+".times")
	default:
		return &ValidationError{Path: path, Message: fmt.Sprintf("unknown path pattern %T", p)}
	}
	return nil
}

func validateArith(e ArithmeticExpression, path string) error {
	switch x := e.(type) {
	case nil:
		return &ValidationError{Path: path, Message: "missing arithmetic operand"}
	case ArithmeticValue:
		if x.Value == nil {
			return &ValidationError{Path: path, Message: "missing arithmetic operand"}
		}
		if _, isList := x.Value.(DataList); isList {
			return &ValidationError{Path: path, Message: "arithmetic operand cannot be a list"}
		}
		return validateValue(x.Value, path)
	case Floor:
		return validateArith(x.Argument, path+".argument")
	default:
		typ, l, r, ok := SplitArithmetic(e)
		if !ok {
			return &ValidationError{Path: path, Message: fmt.Sprintf("unknown arithmetic expression %T", e)}
		}
		if err := validateArith(l, path+"."+typ+".left"); err != nil {
			return err
		}
		return validateArith(r, path+"."+typ+".right")
	}
}

func joinPath(path, elem string) string {
	if path == "" {
		return elem
	}
	return path + "." + elem
}

// Analysis summarises what a query does without executing it.
type Analysis struct {
	// HasMutation is true when the query inserts, updates or deletes
	// anything. Read-only queries can be sent to replicas.
	HasMutation bool

	// Operators counts operator occurrences by wire type.
	Operators map[string]int

	// Variables lists every variable in order of first appearance.
	Variables []Variable

	// Warnings lists constructs that are legal but probably unintended.
	Warnings []string
}

// mutating lists the operators that change the store.
var mutating = map[string]bool{
	"AddTriple": true, "DeleteTriple": true,
	"AddData": true, "DeleteData": true,
	"AddLink": true, "DeleteLink": true,
	"InsertDocument": true, "UpdateDocument": true, "DeleteDocument": true,
}

// Analyze inspects q and reports mutation, variable usage and warnings.
//
// Warnings flag, for example, selected variables that never occur in the
// selected query, a limit of zero, or a mutation under Not (which is rolled
// back and therefore has no effect). Analyze is a pure function with no
// side effects.
func Analyze(q Query) Analysis {
	a := &analyzer{
		ops:      map[string]int{},
		warnings: []string{},
	}
	a.visit(q, false)
	return Analysis{
		HasMutation: a.mutation,
		Operators:   a.ops,
		Variables:   Variables(q),
		Warnings:    a.warnings,
	}
}

// analyzer accumulates findings during traversal.
type analyzer struct {
	ops      map[string]int
	mutation bool
	warnings []string
}

func (a *analyzer) addWarning(format string, args ...any) {
	a.warnings = append(a.warnings, fmt.Sprintf(format, args...))
}

func (a *analyzer) visit(q Query, negated bool) {
	op := OperatorFor(q)
	if op == nil {
		if q != nil {
			a.addWarning("unknown query type %T", q)
		}
		return
	}
	a.ops[op.Type]++
	if mutating[op.Type] {
		a.mutation = true
		if negated {
			a.addWarning("%s under Not has no effect", op.Type)
		}
	}

	switch x := q.(type) {
	case Select:
		a.checkProjection("Select", x.Variables, x.Query)
	case Distinct:
		a.checkProjection("Distinct", x.Variables, x.Query)
	case GroupBy:
		a.checkProjection("GroupBy", x.GroupBy, x.Query)
	case Limit:
		if x.Limit == 0 {
			a.addWarning("Limit 0 never yields a solution")
		}
	case And:
		if len(x.And) == 1 {
			a.addWarning("And with a single conjunct")
		}
	case Or:
		if len(x.Or) == 0 {
			a.addWarning("empty Or never succeeds")
		}
	}

	_, isNot := q.(Not)
	for _, child := range Children(q) {
		a.visit(child, negated || isNot)
	}
}

func (a *analyzer) checkProjection(opType string, vars []Variable, sub Query) {
	present := map[Variable]bool{}
	for _, v := range Variables(sub) {
		present[v] = true
	}
	var missing []string
	for _, v := range vars {
		if !present[v] {
			missing = append(missing, "$"+string(v))
		}
	}
	if len(missing) > 0 {
		a.addWarning("%s projects variables not used by its query: %s", opType, strings.Join(missing, ", "))
	}
}
