package docs

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixtureFetcher = DirFetcher{Root: filepath.Join("testdata", "site")}

func fixtureMarkup(t *testing.T, url string) string {
	t.Helper()
	markup, err := fixtureFetcher.Fetch(context.Background(), url)
	require.NoError(t, err)
	return markup
}

func TestExtractCatalog_Scraper(t *testing.T) {
	t.Parallel()

	site := NewSite(DefaultSiteRoot)
	markup := fixtureMarkup(t, site.AllItemsURL("scraper", "0.22.0"))

	catalog, err := ExtractCatalog(markup, site, "scraper", "0.22.0")
	require.NoError(t, err)

	counts := make(map[string]int)
	for label, items := range catalog {
		counts[label] = len(items)
	}
	assert.Equal(t, map[string]int{
		"Structs":      18,
		"Enums":        5,
		"Traits":       3,
		"Type Aliases": 3,
	}, counts)

	var html *Item
	for i, item := range catalog["Structs"] {
		if item.Name == "html::Html" {
			html = &catalog["Structs"][i]
		}
	}
	require.NotNil(t, html, "html::Html missing from Structs")
	assert.Equal(t, "html/struct.Html.html", html.Path)
	assert.True(t, strings.HasSuffix(html.DocLink, "html/struct.Html.html"), html.DocLink)

	enums := catalog["Enums"]
	assert.Equal(t, "CaseSensitivity", enums[0].Name)
	assert.Equal(t, "selector::NonTSPseudoClass", enums[len(enums)-1].Name)

	const prefix = "https://docs.rs/scraper/0.22.0/scraper/"
	for label, items := range catalog {
		require.NotEmpty(t, items, label)
		for _, item := range items {
			assert.True(t, strings.HasPrefix(item.DocLink, prefix), item.DocLink)
			assert.True(t, strings.HasSuffix(item.DocLink, ".html"), item.DocLink)
			assert.NotContains(t, strings.TrimPrefix(item.DocLink, "https://"), "//", item.DocLink)
		}
	}
}

func TestExtractCatalog_Labels(t *testing.T) {
	t.Parallel()

	markup := `<html><body>
<h3 id="macros">Macros</h3>
<ul class="all-items"><li><a href="macro.json.html">json</a></li></ul>
<h3 id="functions">Functions</h3>
<ul class="all-items"><li><a href="/fn.from_str.html">from_str</a></li></ul>
<h3 id="types">Type Aliases</h3>
<ul class="all-items"><li><a href="https://example.com/x/type.Result.html">Result</a></li></ul>
<h3 id="attributes">Attributes</h3>
<ul class="all-items"><li><a href="attr.test.html">test</a></li></ul>
</body></html>`

	catalog, err := ExtractCatalog(markup, NewSite(DefaultSiteRoot), "serde_json", "")
	require.NoError(t, err)

	assert.Len(t, catalog, 4)
	assert.Equal(t, "https://docs.rs/serde_json/latest/serde_json/macro.json.html", catalog["Macros"][0].DocLink)
	assert.Equal(t, "https://docs.rs/serde_json/latest/serde_json/fn.from_str.html", catalog["Functions"][0].DocLink)
	assert.Equal(t, "/fn.from_str.html", catalog["Functions"][0].Path)
	assert.Equal(t, "https://example.com/x/type.Result.html", catalog["Type Aliases"][0].DocLink)
	assert.Equal(t, "test", catalog["Attributes"][0].Name)
}

func TestExtractCatalog_Empty(t *testing.T) {
	t.Parallel()

	catalog, err := ExtractCatalog("<html><body><p>nothing here</p></body></html>", NewSite(""), "x", "1.0.0")
	require.NoError(t, err)
	assert.Empty(t, catalog)
}

func TestExtractCatalog_HostRelativeLinks(t *testing.T) {
	t.Parallel()

	markup := `<html><body>
<h3 id="structs">Structs</h3>
<ul class="all-items">
<li><a href="//docs.rs/x/1.0.0/x/struct.A.html">A</a></li>
<li><a href="http://mirror.local/x/1.0.0/x/struct.B.html">B</a></li>
<li><a href="struct.C.html">C</a></li>
</ul>
</body></html>`

	catalog, err := ExtractCatalog(markup, NewSite(""), "x", "1.0.0")
	require.NoError(t, err)
	require.Len(t, catalog["Structs"], 3)
	assert.Equal(t, "https://docs.rs/x/1.0.0/x/struct.A.html", catalog["Structs"][0].DocLink)
	assert.Equal(t, "//docs.rs/x/1.0.0/x/struct.A.html", catalog["Structs"][0].Path)
	assert.Equal(t, "http://mirror.local/x/1.0.0/x/struct.B.html", catalog["Structs"][1].DocLink)
	assert.Equal(t, "https://docs.rs/x/1.0.0/x/struct.C.html", catalog["Structs"][2].DocLink)
}

func TestCategoryLabel(t *testing.T) {
	t.Parallel()

	for key, want := range map[string]string{
		"macros":     "Macros",
		"structs":    "Structs",
		"enums":      "Enums",
		"traits":     "Traits",
		"functions":  "Functions",
		"types":      "Type Aliases",
		"attributes": "Attributes",
	} {
		got, ok := CategoryLabel(key)
		assert.True(t, ok, key)
		assert.Equal(t, want, got)
	}

	_, ok := CategoryLabel("modules")
	assert.False(t, ok)
}
