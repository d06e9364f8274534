// Package harvest exposes the two documentation operations: listing the
// items of a crate and extracting the documentation of one type.
package harvest

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"braces.dev/errtrace"

	"github.com/jcdickinson/docsrs-mcp/internal/docs"
)

// Harvester reads docs.rs pages through a Fetcher. It holds no mutable
// state; every call re-fetches.
type Harvester struct {
	fetcher  docs.Fetcher
	site     docs.Site
	resolver *docs.Resolver
}

// New returns a Harvester reading pages under site through f.
func New(f docs.Fetcher, site docs.Site) *Harvester {
	return &Harvester{
		fetcher:  f,
		site:     site,
		resolver: &docs.Resolver{Fetcher: f, Site: site},
	}
}

// Site returns the site the harvester reads from.
func (h *Harvester) Site() docs.Site { return h.site }

var (
	crateNameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)
	versionRe   = regexp.MustCompile(`^[A-Za-z0-9.+*^~<>=_-]+$`)
)

func validateCrate(crate, version string) error {
	if strings.TrimSpace(crate) == "" {
		return malformed("crate_name is required")
	}
	if !crateNameRe.MatchString(crate) {
		return malformed("invalid crate_name %q", crate)
	}
	if version != "" && !versionRe.MatchString(version) {
		return malformed("invalid version %q", version)
	}
	return nil
}

func normalizeVersion(version string) string {
	if v := strings.TrimSpace(version); v != "" {
		return v
	}
	return docs.LatestVersion
}

// ListItems returns the catalog of a crate's all-items page. An empty version
// means the latest release.
func (h *Harvester) ListItems(ctx context.Context, crate, version string) (docs.Catalog, error) {
	crate = strings.TrimSpace(crate)
	version = normalizeVersion(version)
	if err := validateCrate(crate, version); err != nil {
		return nil, errtrace.Wrap(err)
	}

	slog.Debug("listing items", "crate", crate, "version", version)

	markup, err := h.fetcher.Fetch(ctx, h.site.AllItemsURL(crate, version))
	if err != nil {
		return nil, errtrace.Wrap(classify(err, crate, "", version))
	}
	catalog, err := docs.ExtractCatalog(markup, h.site, crate, version)
	if err != nil {
		return nil, errtrace.Wrap(classify(err, crate, "", version))
	}
	return catalog, nil
}

// GetTypeDoc resolves typeName (bare or module-qualified) and extracts its
// page. The returned Name is typeName exactly as given. kind may be empty
// for struct.
func (h *Harvester) GetTypeDoc(ctx context.Context, crate, typeName, version, kind string) (docs.TypeDoc, error) {
	crate = strings.TrimSpace(crate)
	version = normalizeVersion(version)
	if err := validateCrate(crate, version); err != nil {
		return docs.TypeDoc{}, errtrace.Wrap(err)
	}
	if strings.TrimSpace(typeName) == "" {
		return docs.TypeDoc{}, errtrace.Wrap(malformed("type_name is required"))
	}
	k, err := docs.ParseKind(kind)
	if err != nil {
		return docs.TypeDoc{}, errtrace.Wrap(malformed("%v", err))
	}

	slog.Debug("getting type doc", "crate", crate, "type", typeName, "version", version, "kind", k)

	url, err := h.resolver.Resolve(ctx, crate, typeName, version, k)
	if err != nil {
		return docs.TypeDoc{}, errtrace.Wrap(classify(err, crate, typeName, version))
	}
	markup, err := h.fetcher.Fetch(ctx, url)
	if err != nil {
		return docs.TypeDoc{}, errtrace.Wrap(classify(err, crate, typeName, version))
	}
	doc, err := docs.ExtractTypeDoc(markup, typeName, crate)
	if err != nil {
		return docs.TypeDoc{}, errtrace.Wrap(classify(err, crate, typeName, version))
	}
	return doc, nil
}
