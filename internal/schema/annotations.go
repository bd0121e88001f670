package schema

import (
	"bytes"
	"errors"
	"fmt"
	"slices"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"enum-generator/internal/attr"
	"enum-generator/internal/model"
)

// Annotations is a list of annotation blocks. In a file each item is either a
// bare namespace or a mapping from namespace to args:
//
//	- deprecated
//	- repr: i8
//	- derive: [Display, Serialize]
//	- variant: {value: circle, index: 10}
//	- variant: value="two words" index=2
type Annotations []model.Annotation

// UnmarshalYAML implements custom YAML unmarshaling for Annotations.
func (a *Annotations) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: annotations must be a list", node.Line)
	}

	var out Annotations

	for _, item := range node.Content {
		switch item.Kind {
		case yaml.ScalarNode:
			out = append(out, model.Annotation{Namespace: item.Value})

		case yaml.MappingNode:
			for i := 0; i+1 < len(item.Content); i += 2 {
				ns := item.Content[i].Value

				args, err := yamlArgs(item.Content[i+1])
				if err != nil {
					return fmt.Errorf("line %d: annotation %s: %w", item.Line, ns, err)
				}

				out = append(out, model.Annotation{Namespace: ns, Args: args})
			}

		default:
			return fmt.Errorf("line %d: expected namespace or mapping, got %v", item.Line, item.Kind)
		}
	}

	*a = out

	return nil
}

func yamlArgs(node *yaml.Node) ([]model.Arg, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if isYAMLNull(node) {
			return nil, nil
		}

		return attr.ParseArgs(node.Value)

	case yaml.SequenceNode:
		var args []model.Arg

		for _, item := range node.Content {
			switch item.Kind {
			case yaml.ScalarNode:
				args = append(args, model.Arg{Key: item.Value})
			case yaml.MappingNode:
				pairs, err := yamlPairs(item)
				if err != nil {
					return nil, err
				}

				args = append(args, pairs...)
			default:
				return nil, fmt.Errorf("unexpected %v in args list", item.Kind)
			}
		}

		return args, nil

	case yaml.MappingNode:
		return yamlPairs(node)

	default:
		return nil, fmt.Errorf("expected scalar, list or mapping, got %v", node.Kind)
	}
}

// yamlPairs keeps mapping order so that the last occurrence of a key wins.
func yamlPairs(node *yaml.Node) ([]model.Arg, error) {
	var args []model.Arg

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("value of %s must be a scalar", key.Value)
		}

		if isYAMLNull(value) {
			args = append(args, model.Arg{Key: key.Value})
			continue
		}

		args = append(args, model.Arg{Key: key.Value, Value: value.Value, HasValue: true})
	}

	return args, nil
}

func isYAMLNull(node *yaml.Node) bool {
	return node.Tag == "!!null"
}

// MarshalYAML writes bare namespaces as strings and everything else as a
// single-key mapping whose value is the args string.
func (a Annotations) MarshalYAML() (any, error) {
	out := make([]any, 0, len(a))

	for _, b := range a {
		if len(b.Args) == 0 {
			out = append(out, b.Namespace)
			continue
		}

		out = append(out, map[string]string{b.Namespace: b.ArgsString()})
	}

	return out, nil
}

// UnmarshalJSON accepts the same shapes as the YAML form. Keys of a JSON
// object are taken in sorted order.
func (a *Annotations) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("annotations must be a list: %w", err)
	}

	var out Annotations

	for _, raw := range items {
		var ns string
		if err := json.Unmarshal(raw, &ns); err == nil {
			out = append(out, model.Annotation{Namespace: ns})
			continue
		}

		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return fmt.Errorf("expected namespace or object: %w", err)
		}

		for _, ns := range sortedKeys(obj) {
			args, err := jsonArgs(obj[ns])
			if err != nil {
				return fmt.Errorf("annotation %s: %w", ns, err)
			}

			out = append(out, model.Annotation{Namespace: ns, Args: args})
		}
	}

	*a = out

	return nil
}

func jsonArgs(raw json.RawMessage) ([]model.Arg, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil, nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, err
		}

		return attr.ParseArgs(s)

	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}

		var args []model.Arg

		for _, item := range items {
			var key string
			if err := json.Unmarshal(item, &key); err == nil {
				args = append(args, model.Arg{Key: key})
				continue
			}

			pairs, err := jsonPairs(item)
			if err != nil {
				return nil, err
			}

			args = append(args, pairs...)
		}

		return args, nil

	case '{':
		return jsonPairs(trimmed)

	default:
		return nil, errors.New("expected string, list or object")
	}
}

func jsonPairs(raw json.RawMessage) ([]model.Arg, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}

	var args []model.Arg

	for _, key := range sortedKeys(obj) {
		value := bytes.TrimSpace(obj[key])

		switch {
		case string(value) == "null":
			args = append(args, model.Arg{Key: key})
		case len(value) > 0 && value[0] == '"':
			var s string
			if err := json.Unmarshal(value, &s); err != nil {
				return nil, err
			}

			args = append(args, model.Arg{Key: key, Value: s, HasValue: true})
		case len(value) > 0 && (value[0] == '{' || value[0] == '['):
			return nil, fmt.Errorf("value of %s must be a scalar", key)
		default:
			// Numbers and booleans are kept as written.
			args = append(args, model.Arg{Key: key, Value: string(value), HasValue: true})
		}
	}

	return args, nil
}

// MarshalJSON mirrors MarshalYAML.
func (a Annotations) MarshalJSON() ([]byte, error) {
	v, err := a.MarshalYAML()
	if err != nil {
		return nil, err
	}

	return json.Marshal(v)
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}
