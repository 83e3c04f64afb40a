// Package codegen renders resolved embeds as a generated Go source file.
//
// Output is deterministic: object keys are emitted in sorted order and
// invocations in the order given, so re-running against unchanged remote
// content reproduces the file byte-for-byte.
package codegen

import (
	"fmt"
	"go/format"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/Hahihula/include-url-macro/internal/core/resolver"
	"github.com/Hahihula/include-url-macro/internal/core/shape"
)

// DefaultFileName is the generated file written by gen unless overridden.
const DefaultFileName = "urlembed_gen.go"

// Header is the standard generated-code marker, recognized by go tooling.
const Header = "// Code generated by urlembed. DO NOT EDIT."

// ptrHelper is appended to the generated file when a typed embed fills a
// pointer field.
const ptrHelper = "func urlembedPtr[T any](v T) *T { return &v }"

// Render produces the generated Go source for pkgName containing one
// declaration per resolved embed, gofmt-formatted.
func Render(pkgName string, resolved []*resolver.Resolved) ([]byte, error) {
	var b strings.Builder
	b.WriteString(Header)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "package %s\n\n", pkgName)

	needPtr := false
	for _, res := range resolved {
		fmt.Fprintf(&b, "// %s is the content of %s, fetched at build time.\n", res.Name, res.URL)
		switch {
		case res.Form == resolver.FormText:
			fmt.Fprintf(&b, "const %s = %s\n\n", res.Name, strconv.Quote(res.Text))
		case res.Typed != nil:
			fmt.Fprintf(&b, "var %s = %s\n\n", res.Name, renderTyped(res.Typed, &needPtr))
		case res.Value == nil:
			// A bare `= nil` has no type to infer.
			fmt.Fprintf(&b, "var %s any = nil\n\n", res.Name)
		default:
			fmt.Fprintf(&b, "var %s = %s\n\n", res.Name, renderGeneric(res.Value))
		}
	}

	if needPtr {
		b.WriteString(ptrHelper)
		b.WriteString("\n")
	}

	src, err := format.Source([]byte(b.String()))
	if err != nil {
		return nil, fmt.Errorf("formatting generated code: %w", err)
	}
	return src, nil
}

// renderGeneric renders a parsed JSON tree as a Go composite literal over
// map[string]any, []any, and scalars.
func renderGeneric(v any) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(val)
	case string:
		return strconv.Quote(val)
	case float64:
		return renderNumber(val)
	case []any:
		elems := make([]string, len(val))
		for i, elem := range val {
			elems[i] = renderGeneric(elem)
		}
		return fmt.Sprintf("[]any{%s}", strings.Join(elems, ", "))
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, len(keys))
		for i, k := range keys {
			pairs[i] = fmt.Sprintf("%s: %s", strconv.Quote(k), renderGeneric(val[k]))
		}
		return fmt.Sprintf("map[string]any{%s}", strings.Join(pairs, ", "))
	default:
		return fmt.Sprintf("%v", val)
	}
}

// renderNumber keeps integral JSON numbers readable as integer literals;
// anything else keeps float syntax.
func renderNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func renderTyped(v *shape.Value, needPtr *bool) string {
	pairs := make([]string, len(v.Fields))
	for i, fv := range v.Fields {
		pairs[i] = fmt.Sprintf("%s: %s", fv.Field.Name, renderFieldValue(fv, needPtr))
	}
	return fmt.Sprintf("%s{%s}", v.Desc.TypeName, strings.Join(pairs, ", "))
}

func renderFieldValue(fv shape.FieldValue, needPtr *bool) string {
	base := renderShaped(fv.Field, fv.Value, needPtr)
	if fv.Field.Pointer {
		*needPtr = true
		return fmt.Sprintf("urlembedPtr(%s)", base)
	}
	return base
}

func renderShaped(field shape.Field, v any, needPtr *bool) string {
	switch val := v.(type) {
	case *shape.Value:
		return renderTyped(val, needPtr)
	case string:
		return strconv.Quote(val)
	case bool:
		return strconv.FormatBool(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return renderNumber(val)
	case []any:
		if field.Kind != shape.KindArray {
			return renderGeneric(val)
		}
		elems := make([]string, len(val))
		for i, elem := range val {
			elems[i] = renderShaped(shape.Field{Kind: field.Elem}, elem, needPtr)
		}
		return fmt.Sprintf("%s{%s}", arrayType(field), strings.Join(elems, ", "))
	case map[string]any:
		return renderGeneric(val)
	case nil:
		return "nil"
	default:
		return fmt.Sprintf("%v", val)
	}
}

// arrayType recovers the literal type for a slice field from its declared
// Go type, stripping any pointer marker.
func arrayType(field shape.Field) string {
	t := strings.TrimPrefix(field.GoType, "*")
	if t == "" {
		return "[]any"
	}
	return t
}
