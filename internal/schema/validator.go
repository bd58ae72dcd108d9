package schema

import (
	"errors"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/roach88/woql/internal/queryir"
)

// ValidationError reports the first object in a document that does not
// match its schema definition.
type ValidationError struct {
	Path    string // JSON path, e.g. "$.query.and[1]"
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("schema: %s: %s", e.Path, e.Message)
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Validator checks wire documents against the generated CUE schema.
//
// A Validator is not safe for concurrent use; CUE values share their
// context. Create one per goroutine.
type Validator struct {
	ctx    *cue.Context
	schema cue.Value
}

// New compiles the schema.
func New() (*Validator, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(Source(), cue.Filename("woql.cue"))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}
	return &Validator{ctx: ctx, schema: v}, nil
}

// Validate checks a JSON wire document.
func (v *Validator) Validate(data []byte) error {
	doc := v.ctx.CompileBytes(data, cue.Filename("document.json"))
	if err := doc.Err(); err != nil {
		return &ValidationError{Path: "$", Message: firstLine(err)}
	}
	return v.query(doc, "$")
}

func (v *Validator) def(path ...string) cue.Value {
	sels := make([]cue.Selector, len(path))
	for i, p := range path {
		if strings.HasPrefix(p, "#") {
			sels[i] = cue.Def(p)
		} else {
			sels[i] = cue.Str(p)
		}
	}
	return v.schema.LookupPath(cue.MakePath(sels...))
}

func (v *Validator) check(def, val cue.Value, path string) error {
	if err := def.Unify(val).Validate(cue.Concrete(true)); err != nil {
		return &ValidationError{Path: path, Message: firstLine(err)}
	}
	return nil
}

func typeOf(val cue.Value) string {
	s, _ := val.LookupPath(cue.MakePath(cue.Str("@type"))).String()
	return s
}

func (v *Validator) query(val cue.Value, path string) error {
	typ := typeOf(val)
	op, ok := queryir.Lookup(typ)
	if !ok {
		return &ValidationError{Path: path, Message: fmt.Sprintf("unknown query type %q", typ)}
	}
	if err := v.check(v.def("query", typ), val, path); err != nil {
		return err
	}

	for _, f := range op.Fields {
		fv := val.LookupPath(cue.MakePath(cue.Str(f.Name)))
		if !fv.Exists() {
			continue
		}
		fp := path + "." + f.Name
		var err error
		switch f.Kind {
		case queryir.FieldQuery:
			err = v.query(fv, fp)
		case queryir.FieldQueryList:
			err = v.each(fv, fp, v.query)
		case queryir.FieldValue:
			err = v.tagged(fv, fp, "#Value")
		case queryir.FieldNodeValue:
			err = v.tagged(fv, fp, "#NodeValue")
		case queryir.FieldDataValue:
			err = v.tagged(fv, fp, "#DataValue")
		case queryir.FieldDataList:
			if fv.Kind() == cue.ListKind {
				err = v.each(fv, fp, v.element)
			} else {
				err = v.tagged(fv, fp, "#DataValue")
			}
		case queryir.FieldValueList:
			err = v.each(fv, fp, v.element)
		case queryir.FieldOrderList:
			err = v.each(fv, fp, func(o cue.Value, p string) error {
				return v.check(v.def("#OrderTemplate"), o, p)
			})
		case queryir.FieldPath:
			err = v.path(fv, fp)
		case queryir.FieldArith:
			err = v.arith(fv, fp)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (v *Validator) each(list cue.Value, path string, fn func(cue.Value, string) error) error {
	iter, err := list.List()
	if err != nil {
		return &ValidationError{Path: path, Message: firstLine(err)}
	}
	for i := 0; iter.Next(); i++ {
		if err := fn(iter.Value(), fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

// tagged checks a Value, NodeValue or DataValue object and what it holds.
func (v *Validator) tagged(val cue.Value, path, def string) error {
	if err := v.check(v.def(def), val, path); err != nil {
		return err
	}
	return v.contents(val, path)
}

// element checks a list member tagged Variable, Node, Data, List or
// Dictionary.
func (v *Validator) element(val cue.Value, path string) error {
	if err := v.check(v.def("#Element"), val, path); err != nil {
		return err
	}
	return v.contents(val, path)
}

func (v *Validator) contents(val cue.Value, path string) error {
	if d := val.LookupPath(cue.ParsePath("data")); d.Exists() {
		return v.check(v.def("#Literal"), d, path+".data")
	}
	if l := val.LookupPath(cue.ParsePath("list")); l.Exists() {
		return v.each(l, path+".list", v.element)
	}
	if d := val.LookupPath(cue.ParsePath("dictionary")); d.Exists() {
		return v.dictionary(d, path+".dictionary")
	}
	return nil
}

func (v *Validator) dictionary(val cue.Value, path string) error {
	if err := v.check(v.def("#DictionaryTemplate"), val, path); err != nil {
		return err
	}
	return v.each(val.LookupPath(cue.ParsePath("data")), path+".data", func(pair cue.Value, p string) error {
		if err := v.check(v.def("#FieldValuePair"), pair, p); err != nil {
			return err
		}
		return v.tagged(pair.LookupPath(cue.ParsePath("value")), p+".value", "#Value")
	})
}

func (v *Validator) path(val cue.Value, path string) error {
	typ := typeOf(val)
	def := v.def("path", typ)
	if !def.Exists() {
		return &ValidationError{Path: path, Message: fmt.Sprintf("unknown path pattern %q", typ)}
	}
	if err := v.check(def, val, path); err != nil {
		return err
	}
	for _, key := range []string{"plus", "star", "times"} {
		if sub := val.LookupPath(cue.MakePath(cue.Str(key))); sub.Exists() {
			return v.path(sub, path+"."+key)
		}
	}
	for _, key := range []string{"sequence", "or"} {
		if sub := val.LookupPath(cue.MakePath(cue.Str(key))); sub.Exists() {
			return v.each(sub, path+"."+key, v.path)
		}
	}
	return nil
}

func (v *Validator) arith(val cue.Value, path string) error {
	typ := typeOf(val)
	def := v.def("arith", typ)
	if !def.Exists() {
		return &ValidationError{Path: path, Message: fmt.Sprintf("unknown arithmetic expression %q", typ)}
	}
	if err := v.check(def, val, path); err != nil {
		return err
	}
	if d := val.LookupPath(cue.ParsePath("data")); d.Exists() {
		return v.check(v.def("#Literal"), d, path+".data")
	}
	for _, key := range []string{"argument", "left", "right"} {
		if sub := val.LookupPath(cue.MakePath(cue.Str(key))); sub.Exists() {
			if err := v.arith(sub, path+"."+key); err != nil {
				return err
			}
		}
	}
	return nil
}

// firstLine keeps CUE's first error, which names the offending field.
func firstLine(err error) string {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err.Error()
	}
	msg := errs[0].Error()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return msg
}

// Validate checks a JSON wire document with a freshly compiled schema.
func Validate(data []byte) error {
	v, err := New()
	if err != nil {
		return err
	}
	return v.Validate(data)
}
