// Package directive scans Go source files for urlembed directives.
//
// A directive is a comment of one of the forms:
//
//	//urlembed:text Name URL
//	//urlembed:json Name URL
//	//urlembed:json -type T Name URL
//
// Each directive becomes one Invocation, anchored to the comment's position
// so pipeline failures can be reported like compiler errors.
package directive

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Hahihula/include-url-macro/internal/core/diag"
	"github.com/Hahihula/include-url-macro/internal/core/resolver"
	"github.com/Hahihula/include-url-macro/internal/core/shape"
)

// Prefix marks an embed directive comment.
const Prefix = "//urlembed:"

// Package is the result of scanning one directory of Go source.
type Package struct {
	Name        string // package name from the scanned files
	Dir         string
	Invocations []resolver.Invocation

	structs map[string]*ast.StructType
}

// Scan parses the non-test Go files of dir and collects their embed
// directives. skipFile names a generated output file to ignore, so the
// scanner never reads its own previous output. Malformed directives are
// returned as diagnostics anchored to the offending comment; scanning
// continues past them so one run reports every problem.
func Scan(dir, skipFile string) (*Package, diag.List, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") {
			continue
		}
		if strings.HasSuffix(name, "_test.go") || name == skipFile {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)

	pkg := &Package{Dir: dir, structs: make(map[string]*ast.StructType)}
	fset := token.NewFileSet()
	var diags diag.List
	var parsed []*ast.File

	for _, name := range files {
		path := filepath.Join(dir, name)
		file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
		if err != nil {
			return nil, nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		if pkg.Name == "" {
			pkg.Name = file.Name.Name
		}
		collectStructs(pkg.structs, file)
		parsed = append(parsed, file)
	}

	seen := make(map[string]token.Position)
	for _, file := range parsed {
		for _, group := range file.Comments {
			for _, comment := range group.List {
				if !strings.HasPrefix(comment.Text, Prefix) {
					continue
				}
				pos := fset.Position(comment.Slash)
				inv, err := pkg.parseDirective(comment.Text, pos)
				if err != nil {
					diags.Add(pos, err)
					continue
				}
				if prev, dup := seen[inv.Name]; dup {
					diags.Add(pos, fmt.Errorf("duplicate embed name %q (first declared at %s)", inv.Name, prev))
					continue
				}
				seen[inv.Name] = pos
				pkg.Invocations = append(pkg.Invocations, inv)
			}
		}
	}

	return pkg, diags, nil
}

func collectStructs(structs map[string]*ast.StructType, file *ast.File) {
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			if st, ok := ts.Type.(*ast.StructType); ok {
				structs[ts.Name.Name] = st
			}
		}
	}
}

func (p *Package) parseDirective(text string, pos token.Position) (resolver.Invocation, error) {
	var inv resolver.Invocation
	inv.Pos = pos

	rest := strings.TrimPrefix(text, Prefix)
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return inv, fmt.Errorf("malformed directive: missing form (want \"text\" or \"json\")")
	}

	// The form is glued to the prefix: //urlembed:text ...
	form := fields[0]
	args := fields[1:]
	switch form {
	case "text":
		inv.Form = resolver.FormText
	case "json":
		inv.Form = resolver.FormJSON
	default:
		return inv, fmt.Errorf("malformed directive: unknown form %q (want \"text\" or \"json\")", form)
	}

	if len(args) >= 1 && args[0] == "-type" {
		if inv.Form != resolver.FormJSON {
			return inv, fmt.Errorf("malformed directive: -type is only valid for the json form")
		}
		if len(args) < 2 {
			return inv, fmt.Errorf("malformed directive: -type needs a type name")
		}
		inv.TypeName = args[1]
		args = args[2:]
	}

	if len(args) != 2 {
		return inv, fmt.Errorf("malformed directive: want \"//urlembed:%s [-type T] NAME URL\"", form)
	}
	inv.Name = args[0]
	inv.URL = args[1]

	if !token.IsIdentifier(inv.Name) {
		return inv, fmt.Errorf("malformed directive: %q is not a valid Go identifier", inv.Name)
	}

	if inv.TypeName != "" {
		desc, err := p.ShapeFor(inv.TypeName)
		if err != nil {
			return inv, err
		}
		inv.Shape = desc
	}

	return inv, nil
}

// ShapeFor builds the shape descriptor for a struct type declared in the
// scanned package. Manifest entries with a target type resolve through here
// as well.
func (p *Package) ShapeFor(typeName string) (*shape.Descriptor, error) {
	st, ok := p.structs[typeName]
	if !ok {
		return nil, fmt.Errorf("type %s is not a struct declared in package %s", typeName, p.Name)
	}
	return shape.FromStruct(typeName, st, func(name string) (*ast.StructType, bool) {
		nested, ok := p.structs[name]
		return nested, ok
	})
}
