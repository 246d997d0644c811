package entity

import (
	"slices"

	"github.com/agentic-research/doxmd/internal/schema"
	"github.com/antchfx/xmlquery"
)

// Kinds of the Doxygen compound schema. Nested kinds are declared before the
// kinds that reference them.
var Location = schema.NewKind("Location").
	Attribute("file").
	Attribute("line").
	Attribute("column").
	MustBuild()

var Param = schema.NewKind("Param").
	Text("type").
	Text("declname").
	Text("array").
	MustBuild()

var Function = schema.NewKind("Function").
	Attribute("id").
	Text("type").
	Text("definition").
	Text("argsstring").
	Text("name").
	Text("briefdescription").
	Text("detaileddescription").
	Text("inbodydescription").
	One("location", Location).
	List("param", Param).
	MustBuild()

var EnumValue = schema.NewKind("EnumValue").
	Attribute("id").
	Text("name").
	Text("briefdescription").
	Text("detaileddescription").
	MustBuild()

var Enum = schema.NewKind("Enum").
	Attribute("id").
	Text("type").
	Text("name").
	Text("briefdescription").
	Text("detaileddescription").
	Text("inbodydescription").
	One("location", Location).
	List("enumvalue", EnumValue).
	MustBuild()

var Member = schema.NewKind("Member").
	Attribute("id").
	Text("type").
	Text("definition").
	Text("name").
	Text("briefdescription").
	Text("detaileddescription").
	Text("inbodydescription").
	One("location", Location).
	MustBuild()

var StructKind = schema.NewKind("Struct").
	Attribute("id").
	Text("name", schema.Source("compoundname")).
	Text("briefdescription").
	Text("detaileddescription").
	List("member", Member, schema.Source("sectiondef/memberdef")).
	MustBuild()

// Kinds returns the catalog in declaration order.
func Kinds() []*schema.Kind {
	return []*schema.Kind{Location, Param, Function, EnumValue, Enum, Member, StructKind}
}

// DefaultTypedefs lists compound names documented as type aliases rather
// than aggregates.
var DefaultTypedefs = []string{"nuts_getopts_state"}

// Struct is a view of kind StructKind that can also tell whether the compound
// is really a typedef.
type Struct struct {
	*View
	typedefs []string
}

// NewStruct wraps a compounddef node. A nil typedefs list uses DefaultTypedefs.
func NewStruct(node *xmlquery.Node, typedefs []string) *Struct {
	if typedefs == nil {
		typedefs = DefaultTypedefs
	}
	return &Struct{View: NewView(StructKind, node), typedefs: typedefs}
}

// IsTypedef reports whether the struct's name is on the typedef allow-list.
func (s *Struct) IsTypedef() bool {
	name, ok, err := s.Text("name")
	if err != nil || !ok {
		return false
	}
	return slices.Contains(s.typedefs, name)
}
