package docs

import (
	"log/slog"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// category is one section of the all-items page.
type category struct {
	key   string // heading id on the page
	label string // name in a Catalog
	sel   cascadia.Sel
}

// CategoryKeys lists the all-items sections, in page order.
var CategoryKeys = []string{"macros", "structs", "enums", "traits", "functions", "types", "attributes"}

var categories = func() []category {
	title := cases.Title(language.English)
	cs := make([]category, 0, len(CategoryKeys))
	for _, key := range CategoryKeys {
		label := title.String(key)
		if key == "types" {
			label = "Type Aliases"
		}
		cs = append(cs, category{
			key:   key,
			label: label,
			sel:   cascadia.MustCompile("h3#" + key + " + ul.all-items > li > a"),
		})
	}
	return cs
}()

// CategoryLabel returns the catalog label of an all-items section key.
func CategoryLabel(key string) (string, bool) {
	for _, c := range categories {
		if c.key == key {
			return c.label, true
		}
	}
	return "", false
}

// ExtractCatalog reads every category of an all-items page. Links are built
// under site's base URL for crate at version.
func ExtractCatalog(markup string, site Site, crate, version string) (Catalog, error) {
	doc, err := parseHTML(markup)
	if err != nil {
		return nil, err
	}

	base := site.BaseURL(crate, version)
	catalog := make(Catalog)
	for _, c := range categories {
		var items []Item
		for _, a := range cascadia.QueryAll(doc, c.sel) {
			name := strings.TrimSpace(allText(a))
			href := strings.TrimSpace(attr(a, "href"))
			if name == "" || href == "" || !isPageHref(href) {
				continue
			}
			items = append(items, Item{
				Name:    name,
				Path:    href,
				DocLink: itemLink(base, href),
			})
		}
		if len(items) == 0 {
			continue
		}
		catalog[c.label] = items
	}

	slog.Debug("extracted catalog", "crate", crate, "version", versionOrLatest(version), "categories", len(catalog))
	return catalog, nil
}

func itemLink(base, href string) string {
	if abs, ok := absoluteHref(base, href); ok {
		return abs
	}
	return joinURL(base, href)
}
