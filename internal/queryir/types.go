package queryir

// Query is one node of the WOQL query algebra.
//
// This is a sealed interface - only types in this package implement it.
// Every implementation is a plain struct registered in the operator table
// (see Operators), whose `woql` struct tags describe the wire field name,
// the field kind and whether it is optional or variadic. The table drives
// the codec, both parsers, the printers and the document schema, so adding
// an operator means adding one struct and one registration line.
//
// Query values are immutable once constructed. Nothing in this module
// mutates a tree in place; the builder copies on every call.
type Query interface {
	queryNode() // Marker method - seals interface to this package
}

// GraphType selects the instance or schema graph of a data product.
// The zero value means "not specified" and is omitted on the wire.
type GraphType string

const (
	GraphInstance GraphType = "instance"
	GraphSchema   GraphType = "schema"
)

// Valid reports whether g is empty or one of the known graphs.
func (g GraphType) Valid() bool {
	return g == "" || g == GraphInstance || g == GraphSchema
}

// Order is a sort direction.
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// OrderTemplate orders results by one variable.
type OrderTemplate struct {
	Variable Variable
	Order    Order
}

// ---------------------------------------------------------------------------
// Control flow
// ---------------------------------------------------------------------------

// And succeeds when every conjunct succeeds. An empty And is vacuously true.
type And struct {
	And []Query `woql:"and,queries,variadic"`
}

// Or succeeds for each disjunct that succeeds.
type Or struct {
	Or []Query `woql:"or,queries,variadic"`
}

// Not succeeds when Query has no solutions.
type Not struct {
	Query Query `woql:"query,query"`
}

// Select projects solutions onto Variables.
type Select struct {
	Variables []Variable `woql:"variables,vars,variadic"`
	Query     Query      `woql:"query,query"`
}

// Distinct removes solutions that agree on Variables.
type Distinct struct {
	Variables []Variable `woql:"variables,vars,variadic"`
	Query     Query      `woql:"query,query"`
}

// Optional succeeds whether or not Query does, keeping its bindings if any.
type Optional struct {
	Query Query `woql:"query,query"`
}

// If runs Then for each solution of Test, or Else when Test has none.
type If struct {
	Test Query `woql:"test,query"`
	Then Query `woql:"then,query"`
	Else Query `woql:"else,query"`
}

// Once keeps only the first solution.
type Once struct {
	Query Query `woql:"query,query"`
}

// Immediately runs side effects of Query without waiting for commit.
type Immediately struct {
	Query Query `woql:"query,query"`
}

// Limit keeps at most Limit solutions.
type Limit struct {
	Limit uint64 `woql:"limit,uint"`
	Query Query  `woql:"query,query"`
}

// Start skips the first Start solutions.
type Start struct {
	Start uint64 `woql:"start,uint"`
	Query Query  `woql:"query,query"`
}

// Using runs Query against another collection.
type Using struct {
	Collection string `woql:"collection,string"`
	Query      Query  `woql:"query,query"`
}

// From reads from a named graph.
type From struct {
	Graph string `woql:"graph,string"`
	Query Query  `woql:"query,query"`
}

// Into writes into a named graph.
type Into struct {
	Graph string `woql:"graph,string"`
	Query Query  `woql:"query,query"`
}

// OrderBy sorts solutions.
type OrderBy struct {
	Ordering []OrderTemplate `woql:"ordering,order,variadic"`
	Query    Query           `woql:"query,query"`
}

// GroupBy collects Template for each group of solutions sharing GroupBy.
type GroupBy struct {
	GroupBy  []Variable `woql:"group_by,vars"`
	Template Value      `woql:"template,value"`
	Grouped  Value      `woql:"grouped,value"`
	Query    Query      `woql:"query,query"`
}

// Count binds the number of solutions of Query.
type Count struct {
	Query Query     `woql:"query,query"`
	Count DataValue `woql:"count,data"`
}

// True always succeeds once.
type True struct{}

// False never succeeds.
type False struct{}

// ---------------------------------------------------------------------------
// Graph edges
//
// Each edge family comes in five flavours: match, add, added (match in the
// commit's additions), delete and deleted. Triple accepts any object, Data
// only data and Link only nodes.
// ---------------------------------------------------------------------------

type Triple struct {
	Subject   NodeValue `woql:"subject,node"`
	Predicate NodeValue `woql:"predicate,node"`
	Object    Value     `woql:"object,value"`
	Graph     GraphType `woql:"graph,graph,optional"`
}

type AddTriple struct {
	Subject   NodeValue `woql:"subject,node"`
	Predicate NodeValue `woql:"predicate,node"`
	Object    Value     `woql:"object,value"`
	Graph     GraphType `woql:"graph,graph,optional"`
}

type AddedTriple struct {
	Subject   NodeValue `woql:"subject,node"`
	Predicate NodeValue `woql:"predicate,node"`
	Object    Value     `woql:"object,value"`
	Graph     GraphType `woql:"graph,graph,optional"`
}

type DeleteTriple struct {
	Subject   NodeValue `woql:"subject,node"`
	Predicate NodeValue `woql:"predicate,node"`
	Object    Value     `woql:"object,value"`
	Graph     GraphType `woql:"graph,graph,optional"`
}

type DeletedTriple struct {
	Subject   NodeValue `woql:"subject,node"`
	Predicate NodeValue `woql:"predicate,node"`
	Object    Value     `woql:"object,value"`
	Graph     GraphType `woql:"graph,graph,optional"`
}

type Data struct {
	Subject   NodeValue `woql:"subject,node"`
	Predicate NodeValue `woql:"predicate,node"`
	Object    DataValue `woql:"object,data"`
	Graph     GraphType `woql:"graph,graph,optional"`
}

type AddData struct {
	Subject   NodeValue `woql:"subject,node"`
	Predicate NodeValue `woql:"predicate,node"`
	Object    DataValue `woql:"object,data"`
	Graph     GraphType `woql:"graph,graph,optional"`
}

type AddedData struct {
	Subject   NodeValue `woql:"subject,node"`
	Predicate NodeValue `woql:"predicate,node"`
	Object    DataValue `woql:"object,data"`
	Graph     GraphType `woql:"graph,graph,optional"`
}

type DeleteData struct {
	Subject   NodeValue `woql:"subject,node"`
	Predicate NodeValue `woql:"predicate,node"`
	Object    DataValue `woql:"object,data"`
	Graph     GraphType `woql:"graph,graph,optional"`
}

type DeletedData struct {
	Subject   NodeValue `woql:"subject,node"`
	Predicate NodeValue `woql:"predicate,node"`
	Object    DataValue `woql:"object,data"`
	Graph     GraphType `woql:"graph,graph,optional"`
}

type Link struct {
	Subject   NodeValue `woql:"subject,node"`
	Predicate NodeValue `woql:"predicate,node"`
	Object    NodeValue `woql:"object,node"`
	Graph     GraphType `woql:"graph,graph,optional"`
}

type AddLink struct {
	Subject   NodeValue `woql:"subject,node"`
	Predicate NodeValue `woql:"predicate,node"`
	Object    NodeValue `woql:"object,node"`
	Graph     GraphType `woql:"graph,graph,optional"`
}

type AddedLink struct {
	Subject   NodeValue `woql:"subject,node"`
	Predicate NodeValue `woql:"predicate,node"`
	Object    NodeValue `woql:"object,node"`
	Graph     GraphType `woql:"graph,graph,optional"`
}

type DeleteLink struct {
	Subject   NodeValue `woql:"subject,node"`
	Predicate NodeValue `woql:"predicate,node"`
	Object    NodeValue `woql:"object,node"`
	Graph     GraphType `woql:"graph,graph,optional"`
}

type DeletedLink struct {
	Subject   NodeValue `woql:"subject,node"`
	Predicate NodeValue `woql:"predicate,node"`
	Object    NodeValue `woql:"object,node"`
	Graph     GraphType `woql:"graph,graph,optional"`
}

// ---------------------------------------------------------------------------
// Documents
// ---------------------------------------------------------------------------

// ReadDocument binds Document to the JSON document stored at Identifier.
type ReadDocument struct {
	Identifier NodeValue `woql:"identifier,node"`
	Document   Value     `woql:"document,value"`
}

// InsertDocument stores Document, binding its new Identifier when given.
type InsertDocument struct {
	Document   Value     `woql:"document,value"`
	Identifier NodeValue `woql:"identifier,node,optional"`
}

// UpdateDocument replaces the stored document with Document.
type UpdateDocument struct {
	Document   Value     `woql:"document,value"`
	Identifier NodeValue `woql:"identifier,node,optional"`
}

// DeleteDocument removes the document at Identifier.
type DeleteDocument struct {
	Identifier NodeValue `woql:"identifier,node"`
}

// ---------------------------------------------------------------------------
// Comparison and arithmetic
// ---------------------------------------------------------------------------

type Equals struct {
	Left  DataValue `woql:"left,data"`
	Right DataValue `woql:"right,data"`
}

type Greater struct {
	Left  DataValue `woql:"left,data"`
	Right DataValue `woql:"right,data"`
}

type Less struct {
	Left  DataValue `woql:"left,data"`
	Right DataValue `woql:"right,data"`
}

// Eval evaluates Expression and unifies the outcome with Result.
type Eval struct {
	Expression ArithmeticExpression `woql:"expression,arith"`
	Result     DataValue            `woql:"result,data"`
}

// ---------------------------------------------------------------------------
// Lists
// ---------------------------------------------------------------------------

type Sum struct {
	List   DataValue `woql:"list,datalist"`
	Result DataValue `woql:"result,data"`
}

type Length struct {
	List   DataValue `woql:"list,datalist"`
	Length DataValue `woql:"length,data"`
}

type Member struct {
	Member DataValue `woql:"member,data"`
	List   DataValue `woql:"list,datalist"`
}

// Dot reads Field out of a dictionary-valued Document.
type Dot struct {
	Document DataValue `woql:"document,data"`
	Field    DataValue `woql:"field,data"`
	Value    DataValue `woql:"value,data"`
}

// ---------------------------------------------------------------------------
// Strings
// ---------------------------------------------------------------------------

type Concatenate struct {
	List         DataValue `woql:"list,datalist"`
	ResultString DataValue `woql:"result_string,data"`
}

type Join struct {
	List         DataValue `woql:"list,datalist"`
	Separator    DataValue `woql:"separator,data"`
	ResultString DataValue `woql:"result_string,data"`
}

type Split struct {
	String  DataValue `woql:"string,data"`
	Pattern DataValue `woql:"pattern,data"`
	List    DataValue `woql:"list,datalist"`
}

type Trim struct {
	Untrimmed DataValue `woql:"untrimmed,data"`
	Trimmed   DataValue `woql:"trimmed,data"`
}

type Upper struct {
	Mixed DataValue `woql:"mixed,data"`
	Upper DataValue `woql:"upper,data"`
}

type Lower struct {
	Mixed DataValue `woql:"mixed,data"`
	Lower DataValue `woql:"lower,data"`
}

type Pad struct {
	String       DataValue `woql:"string,data"`
	Char         DataValue `woql:"char,data"`
	Times        DataValue `woql:"times,data"`
	ResultString DataValue `woql:"result_string,data"`
}

// Like binds Similarity to the string distance between Left and Right.
type Like struct {
	Left       DataValue `woql:"left,data"`
	Right      DataValue `woql:"right,data"`
	Similarity DataValue `woql:"similarity,data"`
}

// Regexp matches String against Pattern, binding capture groups to Result.
type Regexp struct {
	Pattern DataValue `woql:"pattern,data"`
	String  DataValue `woql:"string,data"`
	Result  DataValue `woql:"result,data,optional"`
}

type Substring struct {
	String    DataValue `woql:"string,data"`
	Before    DataValue `woql:"before,data"`
	Length    DataValue `woql:"length,data"`
	After     DataValue `woql:"after,data"`
	Substring DataValue `woql:"substring,data"`
}

// ---------------------------------------------------------------------------
// Paths, types and keys
// ---------------------------------------------------------------------------

// Path relates Subject to Object through Pattern, binding the traversed
// edges to Path when given.
type Path struct {
	Subject Value       `woql:"subject,value"`
	Pattern PathPattern `woql:"pattern,path"`
	Object  Value       `woql:"object,value"`
	Path    Value       `woql:"path,value,optional"`
}

type IsA struct {
	Element NodeValue `woql:"element,node"`
	Type    NodeValue `woql:"type,node"`
}

type TypeOf struct {
	Value Value     `woql:"value,value"`
	Type  NodeValue `woql:"type,node"`
}

// TypeCast converts Value to Type. Its wire name is "Typecast".
type TypeCast struct {
	Value  Value     `woql:"value,value"`
	Type   NodeValue `woql:"type,node"`
	Result Value     `woql:"result,value"`
}

// Subsumption holds when Child is a subclass of Parent.
type Subsumption struct {
	Parent NodeValue `woql:"parent,node"`
	Child  NodeValue `woql:"child,node"`
}

type RandomKey struct {
	Base DataValue `woql:"base,data"`
	URI  NodeValue `woql:"uri,node"`
}

type LexicalKey struct {
	Base    DataValue `woql:"base,data"`
	KeyList DataValue `woql:"key_list,datalist"`
	URI     NodeValue `woql:"uri,node"`
}

type HashKey struct {
	Base    DataValue `woql:"base,data"`
	KeyList DataValue `woql:"key_list,datalist"`
	URI     NodeValue `woql:"uri,node"`
}

// ---------------------------------------------------------------------------
// Resource statistics
// ---------------------------------------------------------------------------

type TripleCount struct {
	Resource string    `woql:"resource,string"`
	Count    DataValue `woql:"count,data"`
}

type Size struct {
	Resource string    `woql:"resource,string"`
	Size     DataValue `woql:"size,data"`
}

// ---------------------------------------------------------------------------
// Parametric queries
// ---------------------------------------------------------------------------

// NamedParametricQuery defines a stored query callable by Name.
type NamedParametricQuery struct {
	Name       string   `woql:"name,string"`
	Parameters []string `woql:"parameters,strings"`
	Query      Query    `woql:"query,query"`
}

// Call invokes a NamedParametricQuery.
type Call struct {
	Name      string  `woql:"name,string"`
	Arguments []Value `woql:"arguments,values,variadic"`
}

func (And) queryNode() {}
func (Or) queryNode() {}
func (Not) queryNode() {}
func (Select) queryNode() {}
func (Distinct) queryNode() {}
func (Optional) queryNode() {}
func (If) queryNode() {}
func (Once) queryNode() {}
func (Immediately) queryNode() {}
func (Limit) queryNode() {}
func (Start) queryNode() {}
func (Using) queryNode() {}
func (From) queryNode() {}
func (Into) queryNode() {}
func (OrderBy) queryNode() {}
func (GroupBy) queryNode() {}
func (Count) queryNode() {}
func (True) queryNode() {}
func (False) queryNode() {}
func (Triple) queryNode() {}
func (AddTriple) queryNode() {}
func (AddedTriple) queryNode() {}
func (DeleteTriple) queryNode() {}
func (DeletedTriple) queryNode() {}
func (Data) queryNode() {}
func (AddData) queryNode() {}
func (AddedData) queryNode() {}
func (DeleteData) queryNode() {}
func (DeletedData) queryNode() {}
func (Link) queryNode() {}
func (AddLink) queryNode() {}
func (AddedLink) queryNode() {}
func (DeleteLink) queryNode() {}
func (DeletedLink) queryNode() {}
func (ReadDocument) queryNode() {}
func (InsertDocument) queryNode() {}
func (UpdateDocument) queryNode() {}
func (DeleteDocument) queryNode() {}
func (Equals) queryNode() {}
func (Greater) queryNode() {}
func (Less) queryNode() {}
func (Eval) queryNode() {}
func (Sum) queryNode() {}
func (Length) queryNode() {}
func (Member) queryNode() {}
func (Dot) queryNode() {}
func (Concatenate) queryNode() {}
func (Join) queryNode() {}
func (Split) queryNode() {}
func (Trim) queryNode() {}
func (Upper) queryNode() {}
func (Lower) queryNode() {}
func (Pad) queryNode() {}
func (Like) queryNode() {}
func (Regexp) queryNode() {}
func (Substring) queryNode() {}
func (Path) queryNode() {}
func (IsA) queryNode() {}
func (TypeOf) queryNode() {}
func (TypeCast) queryNode() {}
func (Subsumption) queryNode() {}
func (RandomKey) queryNode() {}
func (LexicalKey) queryNode() {}
func (HashKey) queryNode() {}
func (TripleCount) queryNode() {}
func (Size) queryNode() {}
func (NamedParametricQuery) queryNode() {}
func (Call) queryNode() {}
