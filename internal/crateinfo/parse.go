// Package crateinfo reads crate metadata from `cargo info`.
package crateinfo

import (
	"bufio"
	"errors"
	"regexp"
	"strings"
)

// Info is the metadata cargo reports for a crate.
type Info struct {
	Name          string    `json:"name" yaml:"name"`
	Description   string    `json:"description" yaml:"description"`
	Version       string    `json:"version" yaml:"version"`
	License       *string   `json:"license" yaml:"license"`
	RustVersion   *string   `json:"rust_version" yaml:"rust_version"`
	Documentation *string   `json:"documentation" yaml:"documentation"`
	Homepage      *string   `json:"homepage" yaml:"homepage"`
	Repository    *string   `json:"repository" yaml:"repository"`
	CratesIO      *string   `json:"crates_io" yaml:"crates_io"`
	Features      []Feature `json:"features" yaml:"features"`
}

// Feature is one cargo feature. Default features are marked with "+" in the
// cargo output.
type Feature struct {
	Name         string   `json:"name" yaml:"name"`
	IsDefault    bool     `json:"is_default" yaml:"is_default"`
	Dependencies []string `json:"dependencies" yaml:"dependencies"`
}

// ErrEmptyOutput is returned by Parse when cargo printed nothing.
var ErrEmptyOutput = errors.New("empty cargo info output")

// sectionRe matches block headers such as "features:" or "dependencies:".
var sectionRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9 _-]*:$`)

// Parse reads the text `cargo info <crate>` prints. The first line starts with
// the crate name, the second is the description, and the rest are
// "key: value" lines and blocks.
func Parse(output string) (*Info, error) {
	sc := bufio.NewScanner(strings.NewReader(output))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	if len(lines) == 0 {
		return nil, ErrEmptyOutput
	}

	info := &Info{Features: []Feature{}}
	if fields := strings.Fields(lines[0]); len(fields) > 0 {
		info.Name = fields[0]
	}
	if len(lines) > 1 {
		info.Description = strings.TrimSpace(lines[1])
	}

	section := ""
	for _, raw := range lines[min(2, len(lines)):] {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "note:") {
			break
		}
		if sectionRe.MatchString(line) {
			section = strings.TrimSuffix(line, ":")
			continue
		}

		switch section {
		case "features":
			info.Features = append(info.Features, parseFeature(line))
		case "":
			key, value, ok := strings.Cut(line, ":")
			if !ok {
				continue
			}
			setField(info, strings.TrimSpace(key), strings.TrimSpace(value))
		}
	}
	return info, nil
}

func setField(info *Info, key, value string) {
	switch key {
	case "version":
		info.Version = value
	case "license":
		info.License = &value
	case "rust-version":
		info.RustVersion = &value
	case "documentation":
		info.Documentation = &value
	case "homepage":
		info.Homepage = &value
	case "repository":
		info.Repository = &value
	case "crates.io":
		info.CratesIO = &value
	}
}

// parseFeature reads "+name = [a, b]".
func parseFeature(line string) Feature {
	name, deps, _ := strings.Cut(line, "=")
	name = strings.TrimSpace(name)

	f := Feature{
		Name:         strings.TrimPrefix(name, "+"),
		IsDefault:    strings.HasPrefix(name, "+"),
		Dependencies: []string{},
	}
	deps = strings.Trim(strings.TrimSpace(deps), "[]")
	for _, d := range strings.Split(deps, ",") {
		if d = strings.TrimSpace(d); d != "" {
			f.Dependencies = append(f.Dependencies, d)
		}
	}
	return f
}
