package docs

import (
	"fmt"
	"strings"
)

// Item is a single entry of a crate's all-items page.
type Item struct {
	Name    string `json:"name" yaml:"name"`
	Path    string `json:"path" yaml:"path"`         // href as published
	DocLink string `json:"doc_link" yaml:"doc_link"` // always absolute
}

// Catalog maps a category label ("Structs", "Type Aliases", ...) to its items
// in document order. Categories without items are absent.
type Catalog map[string][]Item

// MethodDoc is a method rendered on a type page.
type MethodDoc struct {
	Name        string `json:"name" yaml:"name"`
	Signature   string `json:"signature" yaml:"signature"`
	Description string `json:"description" yaml:"description"`
}

// FieldDoc is a public field rendered on a type page.
type FieldDoc struct {
	Name        string `json:"name" yaml:"name"`
	TypeName    string `json:"type_name" yaml:"type_name"`
	Description string `json:"description" yaml:"description"`
}

// TypeDoc is the structured record extracted from a type page. Name is the
// name the caller asked for, qualified or not.
type TypeDoc struct {
	Name        string      `json:"name" yaml:"name"`
	CrateName   string      `json:"crate_name" yaml:"crate_name"`
	Description string      `json:"description" yaml:"description"`
	Methods     []MethodDoc `json:"methods" yaml:"methods"`
	Traits      []string    `json:"traits" yaml:"traits"`
	Fields      []FieldDoc  `json:"fields" yaml:"fields"`
}

// Kind is the item kind a type lookup targets. It picks the all-items
// section to search and the file prefix of the page (struct.Foo.html).
type Kind string

const (
	KindStruct    Kind = "struct"
	KindEnum      Kind = "enum"
	KindTrait     Kind = "trait"
	KindUnion     Kind = "union"
	KindTypeAlias Kind = "type"
)

var lookupKinds = []Kind{KindStruct, KindEnum, KindTrait, KindUnion, KindTypeAlias}

// ParseKind accepts a kind name; the empty string means struct.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return KindStruct, nil
	}
	for _, k := range lookupKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown item kind %q (want one of struct, enum, trait, union, type)", s)
}

// section is the id of the all-items heading listing this kind.
func (k Kind) section() string {
	return string(k) + "s"
}

// marker is the file-name prefix docs.rs gives pages of this kind.
func (k Kind) marker() string {
	return string(k) + "."
}
