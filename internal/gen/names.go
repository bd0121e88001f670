package gen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"enum-generator/internal/match"
)

// names holds every generated identifier of one union. Package-level names
// follow the visibility of the union itself.
type names struct {
	Interface  string
	Marker     string
	Count      string
	Variants   string
	Err        string
	Parse      string
	FromIndex  string
	Marshal    string
	Unmarshal  string
	Filename   string
	exported   bool
	enumSuffix string
}

func newNames(enum string, exported bool) names {
	n := names{
		Interface:  enum,
		Marker:     "is" + upperFirst(enum),
		Count:      enum + "VariantCount",
		Variants:   enum + "Variants",
		FromIndex:  enum + "FromIndex",
		Filename:   snakeCase(enum) + "_enum.go",
		exported:   exported,
		enumSuffix: upperFirst(enum),
	}

	n.Err = n.prefixed("errInvalid")
	n.Parse = n.prefixed("parse")
	n.Marshal = n.prefixed("marshal") + "JSON"
	n.Unmarshal = n.prefixed("unmarshal") + "JSON"

	return n
}

// prefixed joins a lower-case verb with the union name, upper-casing the
// verb when the union is exported.
func (n names) prefixed(verb string) string {
	if n.exported {
		return upperFirst(verb) + n.enumSuffix
	}

	return verb + n.enumSuffix
}

// variantType returns the struct name of a variant.
func (n names) variantType(variant string) string {
	return n.Interface + upperFirst(variant)
}

// topLevel lists the package-level identifiers declared for the union,
// excluding the variant types.
func (n names) topLevel() []string {
	return []string{n.Interface, n.Count, n.Variants, n.Err, n.Parse, n.FromIndex, n.Marshal, n.Unmarshal}
}

// checkCollisions fails when a variant type shares its name with another
// variant type or with one of the union's own declarations.
func checkCollisions(n names, variants []string) error {
	owner := make(map[string]string, len(variants)+8)
	for _, id := range n.topLevel() {
		owner[id] = ""
	}

	for _, v := range variants {
		typ := n.variantType(v)

		prev, taken := owner[typ]
		switch {
		case !taken:
			owner[typ] = v
			continue
		case prev == "":
			return fmt.Errorf("%w: type %s of variant %s is already declared by %s", ErrNameCollision, typ, v, n.Interface)
		default:
			return fmt.Errorf("%w: variants %s and %s both generate type %s", ErrNameCollision, prev, v, typ)
		}
	}

	return nil
}

// positionalField returns the field name of the i-th positional field.
func positionalField(i int) string {
	return "F" + strconv.Itoa(i)
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}

	return string(unicode.ToUpper(r)) + s[size:]
}

// snakeCase converts an identifier to snake_case, keeping acronyms together:
// "HTTPStatus" becomes "http_status".
func snakeCase(s string) string {
	return strings.Join(match.TokenizeIdent(s), "_")
}
