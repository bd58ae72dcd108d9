package queryir

// ArithmeticExpression is a sealed union of arithmetic operators evaluated
// by Eval. Leaves are ArithmeticValue nodes.
type ArithmeticExpression interface {
	arithNode() // Sealed
}

// ArithmeticValue is a leaf: a literal or a variable.
type ArithmeticValue struct {
	Value DataValue
}

func (ArithmeticValue) arithNode() {}

// Plus is Left + Right.
type Plus struct {
	Left  ArithmeticExpression
	Right ArithmeticExpression
}

func (Plus) arithNode() {}

// Minus is Left - Right.
type Minus struct {
	Left  ArithmeticExpression
	Right ArithmeticExpression
}

func (Minus) arithNode() {}

// Times is Left * Right.
type Times struct {
	Left  ArithmeticExpression
	Right ArithmeticExpression
}

func (Times) arithNode() {}

// Divide is Left / Right.
type Divide struct {
	Left  ArithmeticExpression
	Right ArithmeticExpression
}

func (Divide) arithNode() {}

// Div is integer division.
type Div struct {
	Left  ArithmeticExpression
	Right ArithmeticExpression
}

func (Div) arithNode() {}

// Exp is Left raised to Right.
type Exp struct {
	Left  ArithmeticExpression
	Right ArithmeticExpression
}

func (Exp) arithNode() {}

// Floor rounds Argument down.
type Floor struct {
	Argument ArithmeticExpression
}

func (Floor) arithNode() {}

// ArithmeticOperator describes a binary arithmetic operator by its wire name.
type ArithmeticOperator struct {
	Type string
	Name string
	New  func(left, right ArithmeticExpression) ArithmeticExpression
}

// ArithmeticOperators lists the binary operators in a fixed order.
var ArithmeticOperators = []ArithmeticOperator{
	{"Plus", "plus", func(l, r ArithmeticExpression) ArithmeticExpression { return Plus{l, r} }},
	{"Minus", "minus", func(l, r ArithmeticExpression) ArithmeticExpression { return Minus{l, r} }},
	{"Times", "times", func(l, r ArithmeticExpression) ArithmeticExpression { return Times{l, r} }},
	{"Divide", "divide", func(l, r ArithmeticExpression) ArithmeticExpression { return Divide{l, r} }},
	{"Div", "div", func(l, r ArithmeticExpression) ArithmeticExpression { return Div{l, r} }},
	{"Exp", "exp", func(l, r ArithmeticExpression) ArithmeticExpression { return Exp{l, r} }},
}

// LookupArithmetic finds a binary operator by wire type or text name.
func LookupArithmetic(name string) (ArithmeticOperator, bool) {
	for _, op := range ArithmeticOperators {
		if op.Type == name || op.Name == name {
			return op, true
		}
	}
	return ArithmeticOperator{}, false
}

// SplitArithmetic returns the wire type and operands of a binary operator.
// ok is false for ArithmeticValue and Floor.
func SplitArithmetic(e ArithmeticExpression) (typ string, left, right ArithmeticExpression, ok bool) {
	switch x := e.(type) {
	case Plus:
		return "Plus", x.Left, x.Right, true
	case Minus:
		return "Minus", x.Left, x.Right, true
	case Times:
		return "Times", x.Left, x.Right, true
	case Divide:
		return "Divide", x.Left, x.Right, true
	case Div:
		return "Div", x.Left, x.Right, true
	case Exp:
		return "Exp", x.Left, x.Right, true
	}
	return "", nil, nil, false
}
