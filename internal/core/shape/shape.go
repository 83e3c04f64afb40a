// Package shape describes the target structure for typed JSON embeds and
// converts parsed JSON values into it.
//
// A Descriptor is built from the target struct's declaration in the scanned
// package, honoring `json` tags. Conversion checks field presence and type
// conformance only as far as the conversion itself requires; it is not a
// schema validator.
package shape

import (
	"fmt"
	"go/ast"
	"go/types"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Kind classifies the JSON value a field accepts.
type Kind int

const (
	KindAny Kind = iota
	KindString
	KindInteger
	KindUnsigned
	KindNumber
	KindBool
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindUnsigned:
		return "unsigned integer"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "any"
	}
}

// Field is one field of a target shape.
type Field struct {
	Name     string // Go field name
	JSONName string // key looked up in the JSON object
	GoType   string // declared type, as source text, for code emission
	Kind     Kind
	Elem     Kind        // element kind when Kind is KindArray
	Struct   *Descriptor // nested shape when the field is a struct type
	Optional bool        // pointer or omitempty fields may be absent
	Pointer  bool        // declared as a pointer type
}

// Descriptor is the shape requested for a typed JSON embed.
type Descriptor struct {
	TypeName string
	Fields   []Field
}

// MismatchError reports JSON that is structurally incompatible with the
// requested shape: a required field is absent, or present with an
// incompatible type.
type MismatchError struct {
	TypeName string
	Field    string
	Reason   string
}

func (e *MismatchError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("cannot convert JSON into type %s: %s", e.TypeName, e.Reason)
	}
	return fmt.Sprintf("cannot convert JSON into type %s: field %q %s", e.TypeName, e.Field, e.Reason)
}

// Resolver looks up a named struct type declared in the scanned package, for
// nested struct fields.
type Resolver func(name string) (*ast.StructType, bool)

// FromStruct builds the Descriptor for a struct declaration. Unexported and
// embedded fields are skipped, as encoding/json would skip or flatten them.
func FromStruct(name string, st *ast.StructType, resolve Resolver) (*Descriptor, error) {
	desc := &Descriptor{TypeName: name}

	for _, f := range st.Fields.List {
		if len(f.Names) == 0 {
			continue // embedded
		}
		for _, ident := range f.Names {
			if !ident.IsExported() {
				continue
			}
			jsonName, omitempty, skip := parseJSONTag(ident.Name, f.Tag)
			if skip {
				continue
			}

			field := Field{Name: ident.Name, JSONName: jsonName, GoType: types.ExprString(f.Type), Optional: omitempty}
			if err := fillKind(&field, f.Type, resolve); err != nil {
				return nil, fmt.Errorf("type %s, field %s: %w", name, ident.Name, err)
			}
			desc.Fields = append(desc.Fields, field)
		}
	}

	return desc, nil
}

func parseJSONTag(fieldName string, tag *ast.BasicLit) (jsonName string, omitempty, skip bool) {
	jsonName = fieldName
	if tag == nil {
		return jsonName, false, false
	}
	raw, err := strconv.Unquote(tag.Value)
	if err != nil {
		return jsonName, false, false
	}
	value, ok := reflect.StructTag(raw).Lookup("json")
	if !ok {
		return jsonName, false, false
	}
	parts := strings.Split(value, ",")
	if parts[0] == "-" && len(parts) == 1 {
		return "", false, true
	}
	if parts[0] != "" {
		jsonName = parts[0]
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitempty = true
		}
	}
	return jsonName, omitempty, false
}

func fillKind(field *Field, expr ast.Expr, resolve Resolver) error {
	switch t := expr.(type) {
	case *ast.StarExpr:
		field.Optional = true
		field.Pointer = true
		return fillKind(field, t.X, resolve)
	case *ast.Ident:
		return fillIdentKind(field, t, resolve)
	case *ast.InterfaceType:
		if len(t.Methods.List) == 0 {
			field.Kind = KindAny
			return nil
		}
		return fmt.Errorf("unsupported field type: non-empty interface")
	case *ast.ArrayType:
		field.Kind = KindArray
		elem := Field{}
		if err := fillKind(&elem, t.Elt, resolve); err != nil {
			return fmt.Errorf("unsupported array element: %w", err)
		}
		if elem.Kind == KindArray || elem.Struct != nil || elem.Pointer {
			return fmt.Errorf("unsupported array element type")
		}
		field.Elem = elem.Kind
		return nil
	case *ast.MapType:
		key, ok := t.Key.(*ast.Ident)
		if !ok || key.Name != "string" {
			return fmt.Errorf("unsupported map key type")
		}
		// Only map[string]any round-trips through the generic literal the
		// emitter renders; any other value type would not compile.
		if !isAnyType(t.Value) {
			return fmt.Errorf("unsupported map value type (only any)")
		}
		field.Kind = KindObject
		return nil
	default:
		return fmt.Errorf("unsupported field type")
	}
}

func isAnyType(expr ast.Expr) bool {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name == "any"
	case *ast.InterfaceType:
		return len(t.Methods.List) == 0
	}
	return false
}

func fillIdentKind(field *Field, ident *ast.Ident, resolve Resolver) error {
	switch ident.Name {
	case "string":
		field.Kind = KindString
	case "bool":
		field.Kind = KindBool
	case "int", "int8", "int16", "int32", "int64":
		field.Kind = KindInteger
	case "uint", "uint8", "uint16", "uint32", "uint64":
		field.Kind = KindUnsigned
	case "float32", "float64":
		field.Kind = KindNumber
	case "any":
		field.Kind = KindAny
	default:
		if resolve == nil {
			return fmt.Errorf("unknown type %s", ident.Name)
		}
		st, ok := resolve(ident.Name)
		if !ok {
			return fmt.Errorf("type %s is not a struct declared in this package", ident.Name)
		}
		nested, err := FromStruct(ident.Name, st, resolve)
		if err != nil {
			return err
		}
		field.Kind = KindObject
		field.Struct = nested
	}
	return nil
}

// FieldValue is one converted field, paired with its descriptor entry.
// Absent optional fields produce no FieldValue.
type FieldValue struct {
	Field Field
	Value any // string, int64, float64, bool, *Value, []any, or map[string]any
}

// Value is a JSON value successfully converted into a Descriptor's shape.
type Value struct {
	Desc   *Descriptor
	Fields []FieldValue // in declaration order
}

// Convert attempts to convert a parsed generic JSON value into the shape
// described by desc. It fails with a MismatchError when the value is not an
// object, a required field is missing, or a field's JSON type is
// incompatible. JSON keys not named by the shape are ignored.
func Convert(v any, desc *Descriptor) (*Value, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &MismatchError{TypeName: desc.TypeName, Reason: fmt.Sprintf("JSON value is %s, not an object", jsonTypeName(v))}
	}

	out := &Value{Desc: desc}
	for _, field := range desc.Fields {
		raw, present := obj[field.JSONName]
		if !present || raw == nil {
			if field.Optional {
				continue
			}
			if !present {
				return nil, &MismatchError{TypeName: desc.TypeName, Field: field.JSONName, Reason: "is required but missing"}
			}
			return nil, &MismatchError{TypeName: desc.TypeName, Field: field.JSONName, Reason: "is required but null"}
		}

		converted, err := convertField(raw, field, desc.TypeName)
		if err != nil {
			return nil, err
		}
		out.Fields = append(out.Fields, FieldValue{Field: field, Value: converted})
	}

	return out, nil
}

func convertField(raw any, field Field, typeName string) (any, error) {
	mismatch := func(want string) error {
		return &MismatchError{TypeName: typeName, Field: field.JSONName, Reason: fmt.Sprintf("has JSON type %s, want %s", jsonTypeName(raw), want)}
	}

	switch field.Kind {
	case KindAny:
		return raw, nil
	case KindString:
		s, ok := raw.(string)
		if !ok {
			return nil, mismatch("string")
		}
		return s, nil
	case KindBool:
		b, ok := raw.(bool)
		if !ok {
			return nil, mismatch("bool")
		}
		return b, nil
	case KindInteger, KindUnsigned:
		n, ok := raw.(float64)
		if !ok || n != math.Trunc(n) {
			return nil, mismatch(field.Kind.String())
		}
		if field.Kind == KindUnsigned && n < 0 {
			return nil, mismatch("unsigned integer")
		}
		return int64(n), nil
	case KindNumber:
		n, ok := raw.(float64)
		if !ok {
			return nil, mismatch("number")
		}
		return n, nil
	case KindObject:
		obj, ok := raw.(map[string]any)
		if !ok {
			return nil, mismatch("object")
		}
		if field.Struct == nil {
			return obj, nil
		}
		nested, err := Convert(obj, field.Struct)
		if err != nil {
			return nil, err
		}
		return nested, nil
	case KindArray:
		arr, ok := raw.([]any)
		if !ok {
			return nil, mismatch("array")
		}
		out := make([]any, 0, len(arr))
		for i, elem := range arr {
			converted, err := convertField(elem, Field{JSONName: fmt.Sprintf("%s[%d]", field.JSONName, i), Kind: field.Elem}, typeName)
			if err != nil {
				return nil, err
			}
			out = append(out, converted)
		}
		return out, nil
	default:
		return raw, nil
	}
}

func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "bool"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}
