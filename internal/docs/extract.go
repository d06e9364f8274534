package docs

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

var (
	topDocSels = []cascadia.Sel{
		cascadia.MustCompile(".toggle.top-doc .docblock"),
		cascadia.MustCompile("#main-content > .docblock"),
	}

	methodSel     = cascadia.MustCompile(".impl-items .toggle.method-toggle")
	fnNameSel     = cascadia.MustCompile(".code-header .fn")
	codeHeaderSel = cascadia.MustCompile(".code-header")
	docblockSel   = cascadia.MustCompile(".docblock")

	// Trait tiers in priority order. Both the section heading ids and the
	// list ids of newer pages are accepted.
	traitTierSels = []cascadia.Sel{
		cascadia.MustCompile("#trait-implementations .impl, #trait-implementations-list .impl"),
		cascadia.MustCompile("#synthetic-implementations .impl, #synthetic-implementations-list .impl"),
		cascadia.MustCompile("#blanket-implementations .impl, #blanket-implementations-list .impl"),
	}
	traitNameSel = cascadia.MustCompile("h3 .trait")

	fieldSel     = cascadia.MustCompile(".structfield")
	fieldNameSel = cascadia.MustCompile(".structfield-name")
	fieldTypeSel = cascadia.MustCompile(".type")
	codeSel      = cascadia.MustCompile("code")
)

// ExtractTypeDoc reads a type page. Missing sections produce empty values;
// the only error is markup that cannot be parsed at all.
func ExtractTypeDoc(markup, name, crate string) (TypeDoc, error) {
	doc, err := parseHTML(markup)
	if err != nil {
		return TypeDoc{}, err
	}
	return TypeDoc{
		Name:        name,
		CrateName:   crate,
		Description: extractDescription(doc),
		Methods:     extractMethods(doc),
		Traits:      extractTraits(doc),
		Fields:      extractFields(doc),
	}, nil
}

func extractDescription(doc *html.Node) string {
	for _, sel := range topDocSels {
		if text := firstText(doc, sel); text != "" {
			return text
		}
	}
	return ""
}

func extractMethods(doc *html.Node) []MethodDoc {
	methods := []MethodDoc{}
	for _, m := range cascadia.QueryAll(doc, methodSel) {
		methods = append(methods, MethodDoc{
			Name:        firstText(m, fnNameSel),
			Signature:   firstText(m, codeHeaderSel),
			Description: firstText(m, docblockSel),
		})
	}
	return methods
}

// extractTraits returns the traits of the first tier that names any.
func extractTraits(doc *html.Node) []string {
	for _, sel := range traitTierSels {
		var traits []string
		for _, impl := range cascadia.QueryAll(doc, sel) {
			if name := firstText(impl, traitNameSel); name != "" {
				traits = append(traits, name)
			}
		}
		if len(traits) > 0 {
			return traits
		}
	}
	return []string{}
}

func extractFields(doc *html.Node) []FieldDoc {
	fields := []FieldDoc{}
	for _, f := range cascadia.QueryAll(doc, fieldSel) {
		field := FieldDoc{
			Name:        firstText(f, fieldNameSel),
			TypeName:    firstText(f, fieldTypeSel),
			Description: firstText(f, docblockSel),
		}
		if field.Name == "" || field.TypeName == "" {
			name, typ := splitFieldCode(firstText(f, codeSel))
			if field.Name == "" {
				field.Name = name
			}
			if field.TypeName == "" {
				field.TypeName = typ
			}
		}
		if field.Description == "" {
			field.Description = followingDocblock(f)
		}
		fields = append(fields, field)
	}
	return fields
}

// splitFieldCode splits a rendered "name: Type" declaration.
func splitFieldCode(code string) (name, typ string) {
	name, typ, ok := strings.Cut(code, ":")
	if !ok {
		return "", ""
	}
	return strings.TrimSpace(name), strings.TrimSpace(typ)
}

// followingDocblock is the text of the docblock rendered right after a field,
// stopping at the next field.
func followingDocblock(field *html.Node) string {
	for s := nextElementSibling(field); s != nil; s = nextElementSibling(s) {
		if hasClass(s, "structfield") {
			return ""
		}
		if hasClass(s, "docblock") {
			return strings.TrimSpace(allText(s))
		}
	}
	return ""
}
