package docs

import (
	"context"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"braces.dev/errtrace"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// layout is one generation of all-items markup. Layouts are tried in order
// and the first that produces a match wins.
type layout struct {
	name  string
	query func(section string) string
}

var layouts = []layout{
	{
		name: "list",
		query: func(section string) string {
			return "h3#" + section + " + ul.all-items > li > a"
		},
	},
	{
		name: "table",
		query: func(section string) string {
			return "div[id='" + section + "'] > div.item-table > div.item-row > a"
		},
	},
}

type compiledLayout struct {
	name string
	sel  cascadia.Sel
}

// layoutSelectors holds the compiled selectors of every layout per kind.
var layoutSelectors = func() map[Kind][]compiledLayout {
	m := make(map[Kind][]compiledLayout, len(lookupKinds))
	for _, k := range lookupKinds {
		for _, l := range layouts {
			m[k] = append(m[k], compiledLayout{
				name: l.name,
				sel:  cascadia.MustCompile(l.query(k.section())),
			})
		}
	}
	return m
}()

// typeRequest is a parsed type lookup.
type typeRequest struct {
	full       string // as the caller wrote it
	modulePath string // "" when unqualified
	bare       string
	kind       Kind
}

func newTypeRequest(name string, kind Kind) typeRequest {
	if kind == "" {
		kind = KindStruct
	}
	full := strings.TrimSpace(name)
	modulePath, bare := splitQualified(full)
	return typeRequest{full: full, modulePath: modulePath, bare: bare, kind: kind}
}

// matches reports whether an anchor's text names the requested type.
func (r typeRequest) matches(text string) bool {
	if r.modulePath == "" {
		return text == r.bare
	}
	return text == r.full || text == r.modulePath+"::"+r.bare
}

// typeLocation is a resolved type page and the layout that produced it.
type typeLocation struct {
	URL    string
	Layout string
}

// Resolver finds the page of a type by matching it against the crate's
// all-items page.
type Resolver struct {
	Fetcher Fetcher
	Site    Site
}

// Resolve returns the absolute URL of the page documenting name. name may be
// qualified with its module path ("trace::TracerProviderBuilder").
func (r *Resolver) Resolve(ctx context.Context, crate, name, version string, kind Kind) (string, error) {
	loc, err := r.locate(ctx, crate, name, version, kind)
	if err != nil {
		return "", err
	}
	return loc.URL, nil
}

func (r *Resolver) locate(ctx context.Context, crate, name, version string, kind Kind) (typeLocation, error) {
	version = versionOrLatest(version)
	req := newTypeRequest(name, kind)

	markup, err := r.Fetcher.Fetch(ctx, r.Site.AllItemsURL(crate, version))
	if err != nil {
		return typeLocation{}, errtrace.Wrap(err)
	}
	doc, err := parseHTML(markup)
	if err != nil {
		return typeLocation{}, err
	}

	slog.Debug("resolving type",
		"crate", crate, "name", req.full, "bare", req.bare, "module", req.modulePath, "kind", req.kind)

	loc, ok := findType(doc, r.Site.BaseURL(crate, version), req)
	if !ok {
		recordNotFound()
		slog.Error("type not found", "crate", crate, "name", req.full, "version", version, "kind", req.kind)
		return typeLocation{}, errtrace.Wrap(&NotFoundError{
			Crate:   crate,
			Name:    req.full,
			Version: version,
			Kind:    req.kind,
		})
	}

	recordLayoutMatch(loc.Layout)
	slog.Debug("resolved type", "name", req.full, "url", loc.URL, "layout", loc.Layout)
	return loc, nil
}

// findType runs each layout in order over an all-items document.
func findType(doc *html.Node, base string, req typeRequest) (typeLocation, bool) {
	for _, l := range layoutSelectors[req.kind] {
		anchors := cascadia.QueryAll(doc, l.sel)
		slog.Debug("trying layout", "layout", l.name, "anchors", len(anchors))

		for _, a := range anchors {
			text := strings.TrimSpace(allText(a))
			href := strings.TrimSpace(attr(a, "href"))
			if !req.matches(text) || !isPageHref(href) || !hasKindMarker(href, req.kind) {
				continue
			}
			return typeLocation{URL: typeURL(base, href, req.modulePath), Layout: l.name}, true
		}
	}
	return typeLocation{}, false
}

// hasKindMarker reports whether the page named by href is of the given kind,
// i.e. its file name starts with "<kind>.".
func hasKindMarker(href string, kind Kind) bool {
	p := href
	if u, err := url.Parse(href); err == nil {
		p = u.Path
	}
	return strings.HasPrefix(path.Base(p), kind.marker())
}

// typeURL turns a matched href into an absolute page URL. Hrefs from older
// pages omit the module directory, which is inserted before the file name.
func typeURL(base, href, modulePath string) string {
	if abs, ok := absoluteHref(base, href); ok {
		return abs
	}
	href = strings.TrimLeft(href, "/")
	if modulePath != "" && !containsModuleDir(href, modulePathDir(modulePath)) {
		dir, file := path.Split(href)
		href = dir + modulePathDir(modulePath) + "/" + file
	}
	return joinURL(base, href)
}

func containsModuleDir(href, moduleDir string) bool {
	dir := path.Dir(href)
	if dir == "." {
		return false
	}
	return strings.Contains("/"+dir+"/", "/"+moduleDir+"/")
}
