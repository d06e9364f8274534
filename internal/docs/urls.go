package docs

import (
	"net/url"
	"path"
	"strings"
)

const (
	// DefaultSiteRoot is where crate documentation is published.
	DefaultSiteRoot = "https://docs.rs"

	// LatestVersion asks docs.rs for the newest published release.
	LatestVersion = "latest"

	pageExt = ".html"
)

// Site builds docs.rs URLs under a (possibly mirrored) site root.
type Site struct {
	Root string
}

// NewSite returns a Site for root, falling back to DefaultSiteRoot.
func NewSite(root string) Site {
	root = strings.TrimRight(strings.TrimSpace(root), "/")
	if root == "" {
		root = DefaultSiteRoot
	}
	return Site{Root: root}
}

func (s Site) root() string {
	if s.Root == "" {
		return DefaultSiteRoot
	}
	return strings.TrimRight(s.Root, "/")
}

// BaseURL is the versioned documentation root of a crate:
// <root>/<crate>/<version>/<crate>.
func (s Site) BaseURL(crate, version string) string {
	return s.root() + "/" + crate + "/" + versionOrLatest(version) + "/" + crate
}

// AllItemsURL is the crate's all-items listing page.
func (s Site) AllItemsURL(crate, version string) string {
	return s.BaseURL(crate, version) + "/all.html"
}

// TypePageURL is the page of a type declared in modulePath ("" for the crate
// root, "a::b" for nested modules).
func (s Site) TypePageURL(crate, version string, kind Kind, modulePath, name string) string {
	rel := kind.marker() + name + pageExt
	if modulePath != "" {
		rel = modulePathDir(modulePath) + "/" + rel
	}
	return joinURL(s.BaseURL(crate, version), rel)
}

func versionOrLatest(version string) string {
	if v := strings.TrimSpace(version); v != "" {
		return v
	}
	return LatestVersion
}

// joinURL appends a relative href to base with exactly one separator.
func joinURL(base, href string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(href, "/")
}

// absoluteHref returns href unchanged when it carries its own scheme. A
// protocol-relative href ("//host/x.html") takes the scheme of base.
func absoluteHref(base, href string) (string, bool) {
	if strings.HasPrefix(href, "//") {
		scheme := "https"
		if u, err := url.Parse(base); err == nil && u.Scheme != "" {
			scheme = u.Scheme
		}
		return scheme + ":" + href, true
	}
	if u, err := url.Parse(href); err == nil && u.IsAbs() {
		return href, true
	}
	return "", false
}

// isPageHref reports whether href names a documentation page rather than a
// directory or an in-page anchor.
func isPageHref(href string) bool {
	if href == "" {
		return false
	}
	p := href
	if u, err := url.Parse(href); err == nil {
		p = u.Path
	}
	return strings.HasSuffix(p, pageExt) && path.Base(p) != pageExt
}

func modulePathDir(modulePath string) string {
	return strings.ReplaceAll(modulePath, "::", "/")
}

// splitQualified splits "a::b::Foo" into ("a::b", "Foo").
func splitQualified(name string) (modulePath, bare string) {
	name = strings.TrimSpace(name)
	i := strings.LastIndex(name, "::")
	if i < 0 {
		return "", name
	}
	return name[:i], name[i+2:]
}
