// Package output renders command results for a terminal or for scripts.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"

	"github.com/jcdickinson/docsrs-mcp/internal/crateinfo"
	"github.com/jcdickinson/docsrs-mcp/internal/docs"
	"github.com/jcdickinson/docsrs-mcp/internal/rpc"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
	}
}

var (
	red  = color.New(color.FgRed)
	bold = color.New(color.Bold)
	dim  = color.New(color.Faint)
)

// InitColors turns colored output off when noColor is set. NO_COLOR and
// non-terminal outputs are already handled by fatih/color.
func InitColors(noColor bool) {
	if noColor {
		color.NoColor = true
	}
}

func header(s string) string {
	if color.NoColor {
		return s
	}
	return text.FgHiCyan.Sprint(s)
}

// Renderer writes results to W in Format.
type Renderer struct {
	W      io.Writer
	Format Format
}

func (r *Renderer) encode(v any) (bool, error) {
	switch r.Format {
	case FormatJSON:
		enc := json.NewEncoder(r.W)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(r.W)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	}
	return false, nil
}

func (r *Renderer) newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(r.W)
	t.SetStyle(table.StyleRounded)
	return t
}

// Items renders a crate's catalog, categories in page order.
func (r *Renderer) Items(resp rpc.ListItemsResponse) error {
	if done, err := r.encode(resp); done {
		return err
	}

	_, _ = bold.Fprintf(r.W, "%s %s\n", resp.CrateName, resp.Version)
	if len(resp.Items) == 0 {
		_, _ = dim.Fprintln(r.W, "no items found")
		return nil
	}

	t := r.newTable()
	t.AppendHeader(table.Row{header("CATEGORY"), header("NAME"), header("LINK")})
	total := 0
	for _, key := range docs.CategoryKeys {
		label, _ := docs.CategoryLabel(key)
		for _, item := range resp.Items[label] {
			t.AppendRow(table.Row{label, item.Name, item.DocLink})
			total++
		}
	}
	t.AppendFooter(table.Row{"", "Total", total})
	t.Render()
	return nil
}

// TypeDoc renders the documentation of one type.
func (r *Renderer) TypeDoc(doc docs.TypeDoc) error {
	if done, err := r.encode(doc); done {
		return err
	}

	_, _ = bold.Fprintf(r.W, "%s (%s)\n", doc.Name, doc.CrateName)
	if doc.Description != "" {
		fmt.Fprintf(r.W, "\n%s\n", doc.Description)
	}

	if len(doc.Fields) > 0 {
		fmt.Fprintln(r.W)
		t := r.newTable()
		t.SetTitle("Fields")
		t.AppendHeader(table.Row{header("NAME"), header("TYPE"), header("DESCRIPTION")})
		for _, f := range doc.Fields {
			t.AppendRow(table.Row{f.Name, f.TypeName, firstLine(f.Description)})
		}
		t.Render()
	}

	if len(doc.Methods) > 0 {
		fmt.Fprintln(r.W)
		t := r.newTable()
		t.SetTitle("Methods")
		t.AppendHeader(table.Row{header("SIGNATURE"), header("DESCRIPTION")})
		for _, m := range doc.Methods {
			t.AppendRow(table.Row{m.Signature, firstLine(m.Description)})
		}
		t.Render()
	}

	if len(doc.Traits) > 0 {
		_, _ = bold.Fprintln(r.W, "\nTraits")
		fmt.Fprintf(r.W, "  %s\n", strings.Join(doc.Traits, ", "))
	}
	return nil
}

// CrateInfo renders cargo metadata.
func (r *Renderer) CrateInfo(info *crateinfo.Info) error {
	if done, err := r.encode(info); done {
		return err
	}

	_, _ = bold.Fprintf(r.W, "%s %s\n", info.Name, info.Version)
	if info.Description != "" {
		fmt.Fprintln(r.W, info.Description)
	}

	t := r.newTable()
	t.AppendHeader(table.Row{header("KEY"), header("VALUE")})
	for _, kv := range []struct {
		key string
		val *string
	}{
		{"license", info.License},
		{"rust-version", info.RustVersion},
		{"documentation", info.Documentation},
		{"homepage", info.Homepage},
		{"repository", info.Repository},
		{"crates.io", info.CratesIO},
	} {
		if kv.val != nil {
			t.AppendRow(table.Row{kv.key, *kv.val})
		}
	}
	t.Render()

	if len(info.Features) > 0 {
		ft := r.newTable()
		ft.SetTitle("Features")
		ft.AppendHeader(table.Row{header("NAME"), header("DEFAULT"), header("ENABLES")})
		for _, f := range info.Features {
			def := ""
			if f.IsDefault {
				def = "yes"
			}
			ft.AppendRow(table.Row{f.Name, def, strings.Join(f.Dependencies, ", ")})
		}
		ft.Render()
	}
	return nil
}

// Crates renders crates.io search results.
func (r *Renderer) Crates(results []docs.CrateSummary) error {
	if done, err := r.encode(rpc.SearchCratesResponse{Results: results}); done {
		return err
	}
	if len(results) == 0 {
		_, _ = dim.Fprintln(r.W, "no crates found")
		return nil
	}

	t := r.newTable()
	t.AppendHeader(table.Row{header("NAME"), header("VERSION"), header("DOWNLOADS"), header("DESCRIPTION")})
	for _, c := range results {
		t.AppendRow(table.Row{c.Name, c.MaxVersion, c.Downloads, firstLine(c.Description)})
	}
	t.Render()
	return nil
}

// Error reports err. Structured formats get an ErrorResponse object.
func (r *Renderer) Error(err error) {
	if done, _ := r.encode(rpc.NewErrorResponse(err)); done {
		return
	}
	_, _ = red.Fprintf(r.W, "✗ %v\n", err)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}
