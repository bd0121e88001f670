package attr

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/gorilla/schema"

	"enum-generator/internal/model"
	"enum-generator/internal/repr"
)

// Namespaces understood by the extractor.
const (
	VariantNamespace = "variant"
	ReprNamespace    = "repr"
	DeriveNamespace  = "derive"
)

// ErrBadVariantArgs is returned when the variant namespace cannot be decoded
// into its typed record.
var ErrBadVariantArgs = errors.New("invalid variant arguments")

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	// An explicit empty value is kept, so "value=" still sets the display.
	d.ZeroEmpty(true)

	return d
}

// variantRecord is the typed form of the variant namespace. A key is present
// when its slice is not nil.
type variantRecord struct {
	Value []string `schema:"value"`
	Index []string `schema:"index"`
}

// decodeVariant fills rec from the lifted key/value pairs.
var decodeVariant = func(rec *variantRecord, values url.Values) error {
	return decoder.Decode(rec, values)
}

// VariantAttrs is the typed record lifted from a variant's annotations.
type VariantAttrs struct {
	Display   *string
	IndexExpr string
	HasIndex  bool
}

// ExtractVariant lifts the variant namespace out of anns. It returns the typed
// record and the blocks that were not consumed. The input slice is not
// modified.
func ExtractVariant(anns []model.Annotation) (VariantAttrs, []model.Annotation, error) {
	values := url.Values{}

	var passthrough []model.Annotation

	for _, a := range anns {
		if a.Namespace != VariantNamespace {
			passthrough = append(passthrough, a.Clone())
			continue
		}

		for _, arg := range a.Args {
			// A bare key carries nothing to lift.
			if !arg.HasValue {
				continue
			}

			// Later occurrences override earlier ones, also across blocks.
			values.Set(strings.ToLower(arg.Key), arg.Value)
		}
	}

	var (
		rec   variantRecord
		attrs VariantAttrs
	)

	if err := decodeVariant(&rec, values); err != nil {
		return attrs, passthrough, fmt.Errorf("%w: %w", ErrBadVariantArgs, err)
	}

	if len(rec.Value) > 0 {
		display := rec.Value[len(rec.Value)-1]
		attrs.Display = &display
	}

	if len(rec.Index) > 0 {
		attrs.IndexExpr = strings.TrimSpace(rec.Index[len(rec.Index)-1])
		attrs.HasIndex = true
	}

	return attrs, passthrough, nil
}

// EnumAttrs is the typed record lifted from an enum's annotations.
type EnumAttrs struct {
	// Hints are the representation tokens in declaration order.
	Hints []string
	Caps  model.Capabilities
}

type marker func(*model.Capabilities)

var markers = map[string]marker{
	"display":       func(c *model.Capabilities) { c.Display = true },
	"string":        func(c *model.Capabilities) { c.Display = true },
	"stringer":      func(c *model.Capabilities) { c.Display = true },
	"debug":         func(c *model.Capabilities) { c.Display = true },
	"serialize":     func(c *model.Capabilities) { c.Serialize = true },
	"marshaljson":   func(c *model.Capabilities) { c.Serialize = true },
	"deserialize":   func(c *model.Capabilities) { c.Deserialize = true },
	"unmarshaljson": func(c *model.Capabilities) { c.Deserialize = true },
	"json": func(c *model.Capabilities) {
		c.Serialize = true
		c.Deserialize = true
	},
	"strict": func(c *model.Capabilities) { c.Strict = true },
}

// Markers returns the recognized derive markers, lower-cased and sorted.
func Markers() []string {
	names := make([]string, 0, len(markers))
	for name := range markers {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// ExtractEnum lifts the repr and derive namespaces out of anns and returns the
// typed record plus the passthrough blocks. Unrecognized repr tokens and
// derive markers stay in a passthrough block of their original namespace.
func ExtractEnum(anns []model.Annotation) (EnumAttrs, []model.Annotation) {
	var (
		attrs       EnumAttrs
		passthrough []model.Annotation
	)

	for _, a := range anns {
		switch a.Namespace {
		case ReprNamespace:
			rest := filterArgs(a, func(arg model.Arg) bool {
				if arg.HasValue || !repr.IsHintToken(arg.Key) {
					return false
				}

				attrs.Hints = append(attrs.Hints, arg.Key)

				return true
			})
			if rest != nil {
				passthrough = append(passthrough, *rest)
			}

		case DeriveNamespace:
			rest := filterArgs(a, func(arg model.Arg) bool {
				m, ok := markers[strings.ToLower(arg.Key)]
				if !ok || arg.HasValue {
					return false
				}

				m(&attrs.Caps)

				return true
			})
			if rest != nil {
				passthrough = append(passthrough, *rest)
			}

		default:
			passthrough = append(passthrough, a.Clone())
		}
	}

	return attrs, passthrough
}

// filterArgs drops the args consumed by fn and returns what is left of the
// block, or nil when every arg was consumed.
func filterArgs(a model.Annotation, consume func(model.Arg) bool) *model.Annotation {
	var kept []model.Arg

	for _, arg := range a.Args {
		if !consume(arg) {
			kept = append(kept, arg)
		}
	}

	if len(kept) == 0 {
		return nil
	}

	return &model.Annotation{Namespace: a.Namespace, Args: kept}
}

// Apply runs extraction over the enum and all its variants, filling the typed
// fields and replacing the raw annotation lists with what was not consumed.
// It stops at the first variant whose arguments cannot be decoded.
func Apply(e *model.Enum) error {
	enumAttrs, enumRest := ExtractEnum(e.Annotations)
	e.Hints = enumAttrs.Hints
	e.Caps = enumAttrs.Caps
	e.Passthrough = enumRest
	e.Annotations = enumRest

	for i := range e.Variants {
		v := &e.Variants[i]

		attrs, rest, err := ExtractVariant(v.Annotations)
		if err != nil {
			return &VariantError{Variant: v.Name, Pos: v.Pos, Err: err}
		}

		v.Display = attrs.Display
		v.IndexExpr = attrs.IndexExpr
		v.HasIndex = attrs.HasIndex
		v.Passthrough = rest
		v.Annotations = rest
	}

	return nil
}

// VariantError ties an extraction failure to its variant.
type VariantError struct {
	Variant string
	Pos     string
	Err     error
}

func (e *VariantError) Error() string {
	return fmt.Sprintf("variant %s: %v", e.Variant, e.Err)
}

func (e *VariantError) Unwrap() error {
	return e.Err
}
