// Package schema turns the GORM model declarations into a driver-independent
// description of tables, columns and foreign keys. The diagram export and the
// schema tests both work from this description rather than from a live
// database.
package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	gormschema "gorm.io/gorm/schema"
)

// Schema is the parsed description of a set of models
type Schema struct {
	Tables      []*Table
	ForeignKeys []ForeignKey
}

// Table describes one table
type Table struct {
	Name        string
	Columns     []*Column
	Association bool // pure join table holding only foreign-key pairs
}

// Column describes one column
type Column struct {
	Name          string
	Type          string
	PrimaryKey    bool
	Nullable      bool
	Unique        bool
	AutoIncrement bool
	Default       string
}

// ForeignKey is a reference from Table.Column to RefTable.RefColumn
type ForeignKey struct {
	Table     string
	Column    string
	RefTable  string
	RefColumn string
}

func (fk ForeignKey) String() string {
	return fk.Table + "." + fk.Column + " -> " + fk.RefTable + "." + fk.RefColumn
}

// Describe parses the given models (pointers to GORM model structs).
// Tables keep the order of models; association tables discovered through
// many2many relations follow, in order of first appearance.
func Describe(models ...interface{}) (*Schema, error) {
	cache := &sync.Map{}
	namer := gormschema.NamingStrategy{}

	parsed := make([]*gormschema.Schema, 0, len(models))
	for _, m := range models {
		s, err := gormschema.Parse(m, cache, namer)
		if err != nil {
			return nil, fmt.Errorf("failed to parse model %T: %w", m, err)
		}
		parsed = append(parsed, s)
	}

	out := &Schema{}
	seenTables := make(map[string]bool)
	for _, s := range parsed {
		if seenTables[s.Table] {
			continue
		}
		seenTables[s.Table] = true
		out.Tables = append(out.Tables, describeTable(s, false))
	}

	seenFKs := make(map[ForeignKey]bool)
	addFK := func(fk ForeignKey) {
		if !seenFKs[fk] {
			seenFKs[fk] = true
			out.ForeignKeys = append(out.ForeignKeys, fk)
		}
	}

	for _, s := range parsed {
		for _, name := range sortedRelationNames(s) {
			rel := s.Relationships.Relations[name]
			if rel.JoinTable != nil && !seenTables[rel.JoinTable.Table] {
				seenTables[rel.JoinTable.Table] = true
				out.Tables = append(out.Tables, describeTable(rel.JoinTable, true))
			}
			for _, ref := range rel.References {
				if ref.PrimaryKey == nil || ref.ForeignKey == nil {
					continue
				}
				addFK(ForeignKey{
					Table:     ref.ForeignKey.Schema.Table,
					Column:    ref.ForeignKey.DBName,
					RefTable:  ref.PrimaryKey.Schema.Table,
					RefColumn: ref.PrimaryKey.DBName,
				})
			}
		}
	}

	sort.Slice(out.ForeignKeys, func(i, j int) bool {
		return out.ForeignKeys[i].String() < out.ForeignKeys[j].String()
	})

	return out, nil
}

// Relations live in a map; walk them in a stable order so association
// tables are appended deterministically.
func sortedRelationNames(s *gormschema.Schema) []string {
	names := make([]string, 0, len(s.Relationships.Relations))
	for name := range s.Relationships.Relations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func describeTable(s *gormschema.Schema, association bool) *Table {
	t := &Table{Name: s.Table, Association: association}
	for _, dbName := range s.DBNames {
		f := s.FieldsByDBName[dbName]
		if f == nil {
			continue
		}
		t.Columns = append(t.Columns, &Column{
			Name:          f.DBName,
			Type:          columnType(f),
			PrimaryKey:    f.PrimaryKey,
			Nullable:      !f.NotNull && !f.PrimaryKey,
			Unique:        f.Unique,
			AutoIncrement: f.AutoIncrement,
			Default:       f.DefaultValue,
		})
	}
	return t
}

// columnType renders a portable SQL type for display. An explicit `type`
// tag wins; otherwise the GORM data type and size decide.
func columnType(f *gormschema.Field) string {
	if t, ok := f.TagSettings["TYPE"]; ok && t != "" {
		return strings.ToUpper(t)
	}
	switch f.DataType {
	case gormschema.Bool:
		return "BOOLEAN"
	case gormschema.Int, gormschema.Uint:
		return "INTEGER"
	case gormschema.Float:
		return "FLOAT"
	case gormschema.Time:
		return "DATETIME"
	case gormschema.Bytes:
		return "BLOB"
	case gormschema.String:
		if f.Size > 0 {
			return "VARCHAR(" + strconv.Itoa(f.Size) + ")"
		}
		return "TEXT"
	default:
		return strings.ToUpper(string(f.DataType))
	}
}

// Table returns the table with the given name, or nil
func (s *Schema) Table(name string) *Table {
	for _, t := range s.Tables {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// Column returns the column with the given name, or nil
func (t *Table) Column(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ReferencesFrom returns the foreign keys declared on the named table
func (s *Schema) ReferencesFrom(table string) []ForeignKey {
	var fks []ForeignKey
	for _, fk := range s.ForeignKeys {
		if fk.Table == table {
			fks = append(fks, fk)
		}
	}
	return fks
}

// Digest is a stable fingerprint of the description. Any change to a
// table, column attribute or foreign key changes it.
func (s *Schema) Digest() string {
	h := sha256.New()
	for _, t := range s.Tables {
		fmt.Fprintf(h, "table %s %t\n", t.Name, t.Association)
		for _, c := range t.Columns {
			fmt.Fprintf(h, "  %s %s pk=%t null=%t uniq=%t auto=%t default=%q\n",
				c.Name, c.Type, c.PrimaryKey, c.Nullable, c.Unique, c.AutoIncrement, c.Default)
		}
	}
	for _, fk := range s.ForeignKeys {
		fmt.Fprintln(h, fk.String())
	}
	return hex.EncodeToString(h.Sum(nil))
}
