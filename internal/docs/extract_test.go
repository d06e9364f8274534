package docs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTypeDoc_TracerProviderBuilder(t *testing.T) {
	t.Parallel()

	markup := fixtureMarkup(t, "https://docs.rs/opentelemetry_sdk/0.28.0/opentelemetry_sdk/trace/struct.TracerProviderBuilder.html")

	doc, err := ExtractTypeDoc(markup, "trace::TracerProviderBuilder", "opentelemetry_sdk")
	require.NoError(t, err)

	assert.Equal(t, "trace::TracerProviderBuilder", doc.Name)
	assert.Equal(t, "opentelemetry_sdk", doc.CrateName)
	assert.Equal(t, "Builder for provider attributes.", doc.Description)

	// Explicit trait impls win over auto and blanket impls.
	assert.Equal(t, []string{"Debug", "Default"}, doc.Traits)

	assert.Equal(t, []MethodDoc{
		{
			Name:        "with_simple_exporter",
			Signature:   "pub fn with_simple_exporter<T: SpanExporter + 'static>(self, exporter: T) -> Self",
			Description: "Adds a SimpleSpanProcessor with the configured exporter to the pipeline.",
		},
		{
			Name:      "with_sampler",
			Signature: "pub fn with_sampler<T: ShouldSample + 'static>(self, sampler: T) -> Self",
		},
		{
			Name:        "build",
			Signature:   "pub fn build(self) -> SdkTracerProvider",
			Description: "Create a new provider from this configuration.",
		},
	}, doc.Methods)

	assert.NotNil(t, doc.Fields)
	assert.Empty(t, doc.Fields)
}

func TestExtractTypeDoc_HtmlFields(t *testing.T) {
	t.Parallel()

	markup := fixtureMarkup(t, "https://docs.rs/scraper/0.22.0/scraper/html/struct.Html.html")

	doc, err := ExtractTypeDoc(markup, "Html", "scraper")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(doc.Description, "An HTML tree."), doc.Description)
	assert.Equal(t, []string{"Clone", "Debug", "PartialEq", "Eq"}, doc.Traits)
	require.Len(t, doc.Methods, 3)
	assert.Equal(t, "parse_document", doc.Methods[1].Name)
	assert.Equal(t, "pub fn parse_document(document: &str) -> Self", doc.Methods[1].Signature)

	assert.Equal(t, []FieldDoc{
		{Name: "errors", TypeName: "Vec<Cow<'static, str>>", Description: "Parse errors."},
		{Name: "quirks_mode", TypeName: "QuirksMode", Description: "The quirks mode."},
		{Name: "tree", TypeName: "Tree<Node>", Description: "The node tree."},
	}, doc.Fields)
}

func TestExtractTraits_Tiers(t *testing.T) {
	t.Parallel()

	impl := func(name string) string {
		return `<section class="impl"><h3 class="code-header">impl <a class="trait">` + name + `</a> for X</h3></section>`
	}

	tests := []struct {
		name   string
		markup string
		want   []string
	}{
		{
			name: "explicit only",
			markup: `<div id="trait-implementations">` + impl("Clone") + impl("Clone") + `</div>` +
				`<div id="synthetic-implementations">` + impl("Send") + `</div>`,
			want: []string{"Clone", "Clone"},
		},
		{
			name: "synthetic when explicit absent",
			markup: `<div id="synthetic-implementations-list">` + impl("Send") + impl("Sync") + `</div>` +
				`<div id="blanket-implementations-list">` + impl("Any") + `</div>`,
			want: []string{"Send", "Sync"},
		},
		{
			name: "empty explicit tier falls through",
			markup: `<div id="trait-implementations-list"><section class="impl"><h3 class="code-header">impl X</h3></section></div>` +
				`<div id="blanket-implementations">` + impl("Any") + impl("From") + `</div>`,
			want: []string{"Any", "From"},
		},
		{
			name:   "none",
			markup: `<p>no impls</p>`,
			want:   []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, err := ExtractTypeDoc("<html><body>"+tt.markup+"</body></html>", "X", "c")
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.Traits)
		})
	}
}

func TestExtractTypeDoc_Degrades(t *testing.T) {
	t.Parallel()

	markup := `<html><body>
<div class="impl-items">
  <details class="toggle method-toggle"><summary><h4>no header</h4></summary></details>
</div>
<span class="structfield"><span class="structfield-name">raw</span></span>
<span class="structfield">opaque</span>
</body></html>`

	doc, err := ExtractTypeDoc(markup, "X", "c")
	require.NoError(t, err)

	assert.Empty(t, doc.Description)
	assert.Equal(t, []MethodDoc{{}}, doc.Methods)
	assert.Equal(t, []FieldDoc{{Name: "raw"}, {}}, doc.Fields)
	assert.Equal(t, []string{}, doc.Traits)
}

func TestExtractTypeDoc_LegacyFieldMarkup(t *testing.T) {
	t.Parallel()

	markup := `<html><body>
<span class="structfield"><span class="structfield-name">len</span>: <span class="type">usize</span><div class="docblock">Length.</div></span>
</body></html>`

	doc, err := ExtractTypeDoc(markup, "X", "c")
	require.NoError(t, err)
	assert.Equal(t, []FieldDoc{{Name: "len", TypeName: "usize", Description: "Length."}}, doc.Fields)
}

func TestExtractTypeDoc_Idempotent(t *testing.T) {
	t.Parallel()

	markup := fixtureMarkup(t, "https://docs.rs/scraper/0.22.0/scraper/html/struct.Html.html")

	a, err := ExtractTypeDoc(markup, "html::Html", "scraper")
	require.NoError(t, err)
	b, err := ExtractTypeDoc(markup, "html::Html", "scraper")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSplitFieldCode(t *testing.T) {
	t.Parallel()

	name, typ := splitFieldCode("inner: std::sync::Arc<T>")
	assert.Equal(t, "inner", name)
	assert.Equal(t, "std::sync::Arc<T>", typ)

	name, typ = splitFieldCode("opaque")
	assert.Empty(t, name)
	assert.Empty(t, typ)
}
