// Package manifest reads and writes urlembed.toml, the configuration form
// of embed declarations for projects that prefer it over in-source
// directives.
package manifest

import (
	"bytes"
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/Hahihula/include-url-macro/internal/core/resolver"
)

// ManifestName is the manifest file looked up in the scanned directory.
const ManifestName = "urlembed.toml"

// Embed is one declared embed.
// Example:
//
//	[embeds.CurrentUser]
//	url = "https://example.com/user.json"
//	format = "json"
//	type = "User"
type Embed struct {
	URL    string `toml:"url"`
	Format string `toml:"format"`
	Type   string `toml:"type,omitempty"`
}

// PackageInfo holds metadata for the manifest.
type PackageInfo struct {
	Name        string `toml:"name"`
	Description string `toml:"description,omitempty"`
}

// Manifest represents the overall structure of the urlembed.toml file.
type Manifest struct {
	Package *PackageInfo     `toml:"package,omitempty"`
	Embeds  map[string]Embed `toml:"embeds,omitempty"`
}

// Load reads the urlembed.toml file from dirPath and unmarshals it.
func Load(dirPath string) (*Manifest, error) {
	fullPath := filepath.Join(dirPath, ManifestName)
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", fullPath, err)
	}
	return &m, nil
}

// Write marshals the manifest and writes it to dirPath, overwriting any
// existing file.
func Write(dirPath string, m *Manifest) error {
	buf := new(bytes.Buffer)
	if err := toml.NewEncoder(buf).Encode(m); err != nil {
		return err
	}

	fullPath := filepath.Join(dirPath, ManifestName)
	return os.WriteFile(fullPath, buf.Bytes(), 0644)
}

// Invocations converts the manifest's embeds into pipeline invocations,
// sorted by name for deterministic processing. The diagnostic anchor for a
// manifest entry is the manifest file itself; TOML positions are not
// tracked. Target shapes are left unresolved; the caller resolves them
// against the scanned package.
func (m *Manifest) Invocations(path string) ([]resolver.Invocation, error) {
	names := make([]string, 0, len(m.Embeds))
	for name := range m.Embeds {
		names = append(names, name)
	}
	sort.Strings(names)

	pos := token.Position{Filename: path, Line: 1}
	invs := make([]resolver.Invocation, 0, len(names))
	for _, name := range names {
		embed := m.Embeds[name]
		inv := resolver.Invocation{Name: name, URL: embed.URL, TypeName: embed.Type, Pos: pos}
		switch embed.Format {
		case "text", "":
			inv.Form = resolver.FormText
		case "json":
			inv.Form = resolver.FormJSON
		default:
			return nil, fmt.Errorf("embed %q: unknown format %q (want \"text\" or \"json\")", name, embed.Format)
		}
		if inv.TypeName != "" && inv.Form != resolver.FormJSON {
			return nil, fmt.Errorf("embed %q: type is only valid with format = \"json\"", name)
		}
		invs = append(invs, inv)
	}
	return invs, nil
}
