// Package diagram renders an entity-relationship diagram of a schema
// description. Tables become record nodes listing their columns and every
// foreign key becomes an edge from the referencing table to the referenced
// one.
package diagram

import (
	"bytes"
	"fmt"
	"html"

	"github.com/steemit/socialschema/internal/schema"
)

const (
	headerColor      = "#4a6fa5"
	associationColor = "#8a8a8a"
)

// DOT returns the Graphviz source for the schema. Output is deterministic
// for a given schema.
func DOT(s *schema.Schema) []byte {
	var b bytes.Buffer

	b.WriteString("digraph schema {\n")
	b.WriteString("\tgraph [rankdir=LR, pad=\"0.5\", nodesep=\"0.6\", ranksep=\"1.2\", fontname=\"Helvetica\"];\n")
	b.WriteString("\tnode [shape=plaintext, fontname=\"Helvetica\", fontsize=10];\n")
	b.WriteString("\tedge [fontname=\"Helvetica\", fontsize=9, arrowhead=crow, arrowtail=tee, dir=both];\n\n")

	for _, t := range s.Tables {
		fmt.Fprintf(&b, "\t%q [label=<%s>];\n", t.Name, tableLabel(t))
	}

	if len(s.ForeignKeys) > 0 {
		b.WriteString("\n")
	}
	for _, fk := range s.ForeignKeys {
		// Tail is the referenced ("one") side, the crow's foot sits on the
		// referencing ("many") side.
		fmt.Fprintf(&b, "\t%q -> %q [label=%q, tailport=%q, headport=%q];\n",
			fk.RefTable, fk.Table, fk.Column, fk.RefColumn, fk.Column)
	}

	b.WriteString("}\n")
	return b.Bytes()
}

func tableLabel(t *schema.Table) string {
	var b bytes.Buffer

	color := headerColor
	if t.Association {
		color = associationColor
	}

	b.WriteString(`<table border="0" cellborder="1" cellspacing="0" cellpadding="4">`)
	fmt.Fprintf(&b, `<tr><td bgcolor="%s" colspan="2"><font color="white"><b>%s</b></font></td></tr>`,
		color, html.EscapeString(t.Name))

	for _, c := range t.Columns {
		fmt.Fprintf(&b, `<tr><td align="left" port="%s">%s</td><td align="left">%s</td></tr>`,
			html.EscapeString(c.Name), columnName(c), html.EscapeString(columnDetail(c)))
	}

	b.WriteString(`</table>`)
	return b.String()
}

// columnName underlines primary keys and italicises nullable columns
func columnName(c *schema.Column) string {
	name := html.EscapeString(c.Name)
	switch {
	case c.PrimaryKey:
		return "<u>" + name + "</u>"
	case c.Nullable:
		return "<i>" + name + "</i>"
	default:
		return name
	}
}

func columnDetail(c *schema.Column) string {
	detail := c.Type
	if c.Unique {
		detail += " UNIQUE"
	}
	if c.Default != "" {
		detail += " = " + c.Default
	}
	return detail
}
