package analyze

import (
	"fmt"
	"go/ast"
	"strings"

	"enum-generator/internal/attr"
	"enum-generator/internal/model"
)

// EnumNamespace marks a struct type as a union spec.
const EnumNamespace = "enum"

// commentInfo is a comment group split into doc text and directives.
type commentInfo struct {
	Doc         string
	Annotations []model.Annotation
}

// splitComments separates enumgen directives from documentation. Other
// directives (//go:generate, //nolint:...) are dropped.
func splitComments(groups ...*ast.CommentGroup) (commentInfo, error) {
	var (
		info commentInfo
		doc  []string
	)

	for _, g := range groups {
		if g == nil {
			continue
		}

		for _, c := range g.List {
			text := c.Text

			if strings.HasPrefix(text, model.DirectivePrefix) {
				a, err := parseDirective(strings.TrimPrefix(text, model.DirectivePrefix))
				if err != nil {
					return info, err
				}

				info.Annotations = append(info.Annotations, a)

				continue
			}

			if isOtherDirective(text) {
				continue
			}

			doc = append(doc, commentText(text)...)
		}
	}

	info.Doc = strings.TrimSpace(strings.Join(doc, "\n"))

	return info, nil
}

// parseDirective parses "ns args..." following the directive prefix.
func parseDirective(s string) (model.Annotation, error) {
	ns, rest, _ := strings.Cut(s, " ")
	ns = strings.TrimSpace(ns)

	if ns == "" {
		return model.Annotation{}, fmt.Errorf("directive %q has no namespace", model.DirectivePrefix+s)
	}

	args, err := attr.ParseArgs(rest)
	if err != nil {
		return model.Annotation{}, fmt.Errorf("directive %s: %w", ns, err)
	}

	return model.Annotation{Namespace: ns, Args: args}, nil
}

// isOtherDirective matches the "//name:args" form with no space after the
// slashes.
func isOtherDirective(text string) bool {
	if !strings.HasPrefix(text, "//") || len(text) < 3 {
		return false
	}

	body := text[2:]
	if body[0] == ' ' || body[0] == '\t' {
		return false
	}

	name, _, ok := strings.Cut(body, ":")

	return ok && name != "" && !strings.ContainsAny(name, " \t")
}

func commentText(text string) []string {
	switch {
	case strings.HasPrefix(text, "//"):
		return []string{strings.TrimPrefix(strings.TrimPrefix(text, "//"), " ")}
	case strings.HasPrefix(text, "/*"):
		body := strings.TrimSuffix(strings.TrimPrefix(text, "/*"), "*/")
		return strings.Split(strings.TrimSpace(body), "\n")
	default:
		return []string{text}
	}
}

// enumDirective holds the arguments of the enum directive.
type enumDirective struct {
	Name     string
	Exported *bool
}

func findEnumDirective(anns []model.Annotation) (*enumDirective, []model.Annotation, error) {
	var (
		found *enumDirective
		rest  []model.Annotation
	)

	for _, a := range anns {
		if a.Namespace != EnumNamespace {
			rest = append(rest, a)
			continue
		}

		if found == nil {
			found = &enumDirective{}
		}

		for _, arg := range a.Args {
			switch {
			case !arg.HasValue && found.Name == "":
				found.Name = arg.Key
			case arg.HasValue && strings.EqualFold(arg.Key, "name"):
				found.Name = arg.Value
			case arg.HasValue && strings.EqualFold(arg.Key, "exported"):
				exported, err := parseBool(arg.Value)
				if err != nil {
					return nil, nil, fmt.Errorf("enum directive: exported: %w", err)
				}

				found.Exported = &exported
			}
		}
	}

	return found, rest, nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "yes", "1":
		return true, nil
	case "false", "no", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", s)
	}
}
