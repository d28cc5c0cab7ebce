package llm

import (
	"fmt"
	"sort"
	"strings"
)

// Kind enumerates the supported schema node variants. Anything outside
// this set degrades to an unconstrained placeholder.
type Kind string

const (
	KindObject  Kind = "object"
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindArray   Kind = "array"
	KindEnum    Kind = "enum"
)

// Schema describes the expected shape of a model response. It is a
// tagged union: Kind selects the variant, the other fields apply only
// to their variant (Fields for objects, Items for arrays, Values for
// enums).
type Schema struct {
	Kind     Kind `json:"kind"`
	Optional bool `json:"optional,omitempty"` // object field may be absent
	Nullable bool `json:"nullable,omitempty"` // value may be JSON null

	Fields map[string]*Schema `json:"fields,omitempty"`
	Items  *Schema            `json:"items,omitempty"`
	Values []string           `json:"values,omitempty"`
}

func Object(fields map[string]*Schema) *Schema { return &Schema{Kind: KindObject, Fields: fields} }
func String() *Schema                          { return &Schema{Kind: KindString} }
func Number() *Schema                          { return &Schema{Kind: KindNumber} }
func Boolean() *Schema                         { return &Schema{Kind: KindBoolean} }
func Array(items *Schema) *Schema              { return &Schema{Kind: KindArray, Items: items} }
func Enum(values ...string) *Schema            { return &Schema{Kind: KindEnum, Values: values} }

// Shape renders a textual JSON shape for prompt injection, e.g.
// {"age": number, "name": string}. Object keys are sorted so the
// rendering is deterministic.
func (s *Schema) Shape() string {
	if s == nil {
		return "any"
	}
	var suffix string
	if s.Nullable {
		suffix = " | null"
	}
	switch s.Kind {
	case KindString, KindNumber, KindBoolean:
		return string(s.Kind) + suffix
	case KindEnum:
		quoted := make([]string, len(s.Values))
		for i, v := range s.Values {
			quoted[i] = fmt.Sprintf("%q", v)
		}
		return strings.Join(quoted, " | ") + suffix
	case KindArray:
		return "[" + s.Items.Shape() + ", ...]" + suffix
	case KindObject:
		keys := make([]string, 0, len(s.Fields))
		for k := range s.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			field := s.Fields[k]
			name := fmt.Sprintf("%q", k)
			if field != nil && field.Optional {
				name += "?"
			}
			parts = append(parts, name+": "+field.Shape())
		}
		return "{" + strings.Join(parts, ", ") + "}" + suffix
	default:
		return "any" + suffix
	}
}

// Validate checks a decoded JSON value against the schema. The path
// argument in errors uses dotted field access and [] for array items.
func (s *Schema) Validate(value any) error {
	return s.validate(value, "$")
}

func (s *Schema) validate(value any, path string) error {
	if s == nil {
		return nil
	}
	if value == nil {
		if s.Nullable {
			return nil
		}
		return fmt.Errorf("%s: unexpected null", path)
	}

	switch s.Kind {
	case KindString:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("%s: expected string, got %T", path, value)
		}
	case KindNumber:
		if _, ok := value.(float64); !ok {
			return fmt.Errorf("%s: expected number, got %T", path, value)
		}
	case KindBoolean:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("%s: expected boolean, got %T", path, value)
		}
	case KindEnum:
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("%s: expected enum string, got %T", path, value)
		}
		for _, v := range s.Values {
			if str == v {
				return nil
			}
		}
		return fmt.Errorf("%s: %q is not one of %v", path, str, s.Values)
	case KindArray:
		items, ok := value.([]any)
		if !ok {
			return fmt.Errorf("%s: expected array, got %T", path, value)
		}
		for i, item := range items {
			if err := s.Items.validate(item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	case KindObject:
		obj, ok := value.(map[string]any)
		if !ok {
			return fmt.Errorf("%s: expected object, got %T", path, value)
		}
		for name, field := range s.Fields {
			fieldValue, present := obj[name]
			if !present {
				if field != nil && field.Optional {
					continue
				}
				return fmt.Errorf("%s: missing required field %q", path, name)
			}
			if err := field.validate(fieldValue, path+"."+name); err != nil {
				return err
			}
		}
	default:
		// Unknown kind: unconstrained, anything passes.
	}
	return nil
}
