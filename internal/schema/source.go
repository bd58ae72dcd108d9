package schema

import (
	"fmt"
	"strings"

	"github.com/roach88/woql/internal/queryir"
)

// preamble holds the definitions shared by every operator. Nested tagged
// objects are typed #Object here and checked by the walker against their
// own definition, so no definition refers to itself.
const preamble = `// Code generated from the WOQL operator table. DO NOT EDIT.

#Var:    =~"^[A-Za-z_][A-Za-z0-9_]*$"
#Object: {"@type": string, ...}
#Count:  int & >=0
#Graph:  "instance" | "schema"

#Literal: close({"@type": =~"^xsd:", "@value": string | number | bool})

#Value: close({"@type": "Value", variable: #Var}) |
	close({"@type": "Value", node: string}) |
	close({"@type": "Value", data: #Object}) |
	close({"@type": "Value", list: [...#Object]}) |
	close({"@type": "Value", dictionary: #Object})

#NodeValue: close({"@type": "NodeValue", variable: #Var}) |
	close({"@type": "NodeValue", node: string})

#DataValue: close({"@type": "DataValue", variable: #Var}) |
	close({"@type": "DataValue", data: #Object}) |
	close({"@type": "DataValue", list: [...#Object]})

#Element: close({"@type": "Variable", variable: #Var}) |
	close({"@type": "Node", node: string}) |
	close({"@type": "Data", data: #Object}) |
	close({"@type": "List", list: [...#Object]}) |
	close({"@type": "Dictionary", dictionary: #Object})

#DictionaryTemplate: close({"@type": "DictionaryTemplate", data: [...#Object]})
#FieldValuePair: close({"@type": "FieldValuePair", field: string, value: #Object})
#OrderTemplate: close({"@type": "OrderTemplate", variable: #Var, order: "asc" | "desc"})

path: {
	PathPredicate: close({"@type": "PathPredicate", predicate?: string})
	InversePathPredicate: close({"@type": "InversePathPredicate", predicate: string})
	PathSequence: close({"@type": "PathSequence", sequence: [...#Object]})
	PathOr: close({"@type": "PathOr", "or": [...#Object]})
	PathPlus: close({"@type": "PathPlus", plus: #Object})
	PathStar: close({"@type": "PathStar", star: #Object})
	PathTimes: close({"@type": "PathTimes", times: #Object, from: #Count, to: #Count})
}

arith: {
	ArithmeticValue: close({"@type": "ArithmeticValue", variable: #Var}) |
		close({"@type": "ArithmeticValue", data: #Object})
	Floor: close({"@type": "Floor", argument: #Object})
`

// Source returns the CUE schema for wire documents, generated from the
// operator table.
func Source() string {
	var b strings.Builder
	b.WriteString(preamble)
	for _, op := range queryir.ArithmeticOperators {
		fmt.Fprintf(&b, "\t%s: close({\"@type\": %q, left: #Object, right: #Object})\n", op.Type, op.Type)
	}
	b.WriteString("}\n\nquery: {\n")
	for _, op := range queryir.Operators() {
		fmt.Fprintf(&b, "\t%q: close({\n\t\t\"@type\": %q\n", op.Type, op.Type)
		for _, f := range op.Fields {
			opt := ""
			if f.Optional {
				opt = "?"
			}
			// Labels are quoted since some wire names are CUE keywords.
			fmt.Fprintf(&b, "\t\t%q%s: %s\n", f.Name, opt, fieldConstraint(f.Kind))
		}
		b.WriteString("\t})\n")
	}
	b.WriteString("}\n")
	return b.String()
}

func fieldConstraint(k queryir.FieldKind) string {
	switch k {
	case queryir.FieldQuery, queryir.FieldValue, queryir.FieldNodeValue, queryir.FieldDataValue,
		queryir.FieldPath, queryir.FieldArith:
		return "#Object"
	case queryir.FieldDataList:
		return "#Object | [...#Object]"
	case queryir.FieldQueryList, queryir.FieldValueList, queryir.FieldOrderList:
		return "[...#Object]"
	case queryir.FieldVariableList, queryir.FieldStringList:
		return "[...#Var]"
	case queryir.FieldString:
		return "string"
	case queryir.FieldUint:
		return "#Count | #Literal"
	case queryir.FieldGraph:
		return "#Graph"
	}
	panic(fmt.Sprintf("schema: unhandled field kind %s", k))
}
