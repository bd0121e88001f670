package plan

import (
	"errors"
	"fmt"
	"math/big"

	"enum-generator/internal/attr"
	"enum-generator/internal/diagnostic"
	"enum-generator/internal/model"
	"enum-generator/internal/repr"
)

// Diagnostic codes emitted by the resolver.
const (
	CodeConflictingRepr  = "conflicting_repr"
	CodeMalformedIndex   = "malformed_index"
	CodeIndexOutOfRange  = "index_out_of_range"
	CodeIndexOverflow    = "index_overflow"
	CodeDuplicateIndex   = "duplicate_index"
	CodeDuplicateValue   = "duplicate_value"
	CodeResolveFailed    = "resolve_failed"
	CodeEmptyEnum        = "empty_enum"
	CodeDuplicateVariant = "duplicate_variant"
	CodeBadVariantArgs   = "bad_variant_args"
)

// ResolutionConfig holds configuration for the resolution process.
type ResolutionConfig struct {
	// StrictMode fails the whole plan when any union has an error.
	StrictMode bool
	// ReportDuplicates adds info diagnostics for shared discriminants and
	// display strings.
	ReportDuplicates bool
}

// DefaultConfig returns the default resolution configuration.
func DefaultConfig() ResolutionConfig {
	return ResolutionConfig{
		StrictMode:       false,
		ReportDuplicates: true,
	}
}

// StructuralError aborts resolution of a single union.
type StructuralError struct {
	Code    string
	Variant string
	Pos     string
	Err     error
}

func (e *StructuralError) Error() string {
	if e.Variant != "" {
		return fmt.Sprintf("variant %s: %v", e.Variant, e.Err)
	}

	return e.Err.Error()
}

func (e *StructuralError) Unwrap() error {
	return e.Err
}

// Resolver performs the resolution pipeline.
type Resolver struct {
	config ResolutionConfig
}

// NewResolver creates a new Resolver.
func NewResolver(config ResolutionConfig) *Resolver {
	return &Resolver{config: config}
}

// Resolve runs the full resolution pipeline over every union and returns a
// ResolvedPlan. The input enums are not modified.
func (r *Resolver) Resolve(pkg string, enums []*model.Enum) (*ResolvedPlan, error) {
	plan := &ResolvedPlan{
		Package:     pkg,
		Enums:       []ResolvedEnum{},
		Diagnostics: diagnostic.Diagnostics{},
	}

	for _, e := range enums {
		resolved, err := r.ResolveEnum(e, &plan.Diagnostics)
		if err != nil {
			plan.Diagnostics.Add(structuralDiagnostic(e, err))
			continue
		}

		plan.Enums = append(plan.Enums, *resolved)
	}

	if r.config.StrictMode && plan.Diagnostics.HasErrors() {
		return plan, errors.New("strict mode: resolution failed with errors")
	}

	return plan, nil
}

func structuralDiagnostic(e *model.Enum, err error) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityError,
		Code:     CodeResolveFailed,
		Message:  err.Error(),
		Enum:     e.Name,
		Pos:      e.Pos,
	}

	var se *StructuralError
	if errors.As(err, &se) {
		d.Code = se.Code
		d.Variant = se.Variant
		d.Message = se.Err.Error()

		if se.Pos != "" {
			d.Pos = se.Pos
		}
	}

	return d
}

// ResolveEnum resolves a single union. Warnings and infos are appended to diags;
// a structural problem is returned as an error and nothing is appended for it.
func (r *Resolver) ResolveEnum(e *model.Enum, diags *diagnostic.Diagnostics) (*ResolvedEnum, error) {
	if len(e.Variants) == 0 {
		return nil, &StructuralError{Code: CodeEmptyEnum, Err: errors.New("union has no variants")}
	}

	schema := e.Clone()
	if err := attr.Apply(schema); err != nil {
		se := &StructuralError{Code: CodeBadVariantArgs, Err: err}

		var ve *attr.VariantError
		if errors.As(err, &ve) {
			se.Variant, se.Pos, se.Err = ve.Variant, ve.Pos, ve.Err
		}

		return nil, se
	}

	if err := checkVariantNames(schema); err != nil {
		return nil, err
	}

	rep, err := repr.Resolve(schema.Hints, schema.HasLiteralDiscriminant())
	if err != nil {
		return nil, &StructuralError{Code: CodeConflictingRepr, Err: err}
	}

	local := diagnostic.Diagnostics{}
	reportNearMisses(schema, &local)

	variants, err := assignIndices(schema, rep.Width, &local)
	if err != nil {
		return nil, err
	}

	assignValues(variants)

	if r.config.ReportDuplicates {
		reportDuplicates(schema.Name, variants, &local)
	}

	diags.Merge(local)

	return &ResolvedEnum{
		Schema:   schema,
		Repr:     rep,
		Variants: variants,
	}, nil
}

func checkVariantNames(e *model.Enum) error {
	seen := make(map[string]bool, len(e.Variants))

	for _, v := range e.Variants {
		if seen[v.Name] {
			return &StructuralError{
				Code:    CodeDuplicateVariant,
				Variant: v.Name,
				Pos:     v.Pos,
				Err:     errors.New("variant declared twice"),
			}
		}

		seen[v.Name] = true
	}

	return nil
}

// cursor is the accumulator threaded through the index fold. last is nil
// until the first variant has resolved.
type cursor struct {
	last *big.Int
}

var one = big.NewInt(1)

// next returns the auto-incremented discriminant. When last+1 does not fit w
// the previous value is reused and overflow is reported.
func (c cursor) next(w repr.Width) (value *big.Int, overflow bool) {
	if c.last == nil {
		return big.NewInt(0), false
	}

	n := new(big.Int).Add(c.last, one)
	if !w.Contains(n) {
		return new(big.Int).Set(c.last), true
	}

	return n, false
}

func (c cursor) advance(v *big.Int) cursor {
	return cursor{last: v}
}

// assignIndices folds over the variants in declaration order.
func assignIndices(e *model.Enum, w repr.Width, diags *diagnostic.Diagnostics) ([]ResolvedVariant, error) {
	out := make([]ResolvedVariant, 0, len(e.Variants))
	cur := cursor{}

	for _, v := range e.Variants {
		rv := ResolvedVariant{Spec: v}

		expr, source := explicitIndex(&v)
		if source != "" {
			n, err := evalInteger(expr)
			if err != nil {
				return nil, &StructuralError{Code: CodeMalformedIndex, Variant: v.Name, Pos: v.Pos, Err: err}
			}

			if !w.Contains(n) {
				return nil, &StructuralError{
					Code:    CodeIndexOutOfRange,
					Variant: v.Name,
					Pos:     v.Pos,
					Err:     fmt.Errorf("%w: %s does not fit %s", ErrIndexOutOfRange, n, w),
				}
			}

			rv.Index = n
			rv.Source = source
		} else {
			n, overflow := cur.next(w)
			rv.Index = n
			rv.Source = IndexAuto

			if overflow {
				rv.Source = IndexClamped
				diags.Add(diagnostic.Diagnostic{
					Severity: diagnostic.SeverityWarning,
					Code:     CodeIndexOverflow,
					Message:  fmt.Sprintf("auto-increment overflows %s, reusing %s", w, n),
					Enum:     e.Name,
					Variant:  v.Name,
					Pos:      v.Pos,
				})
			}
		}

		cur = cur.advance(rv.Index)
		out = append(out, rv)
	}

	return out, nil
}

// explicitIndex returns the declared discriminant expression. The index
// annotation takes precedence over a literal discriminant. An empty source
// means the variant is auto-incremented.
func explicitIndex(v *model.Variant) (string, IndexSource) {
	switch {
	case v.HasIndex:
		return v.IndexExpr, IndexAnnotated
	case v.Discriminant != "":
		return v.Discriminant, IndexLiteral
	default:
		return "", ""
	}
}

func assignValues(variants []ResolvedVariant) {
	for i := range variants {
		v := &variants[i]
		if v.Spec.Display != nil {
			v.Value = *v.Spec.Display
		} else {
			v.Value = v.Spec.Name
		}
	}
}

func reportDuplicates(enum string, variants []ResolvedVariant, diags *diagnostic.Diagnostics) {
	indexOwner := make(map[string]string, len(variants))
	valueOwner := make(map[string]string, len(variants))

	for _, v := range variants {
		key := v.Index.String()
		if first, ok := indexOwner[key]; ok {
			diags.AddInfo(CodeDuplicateIndex,
				fmt.Sprintf("discriminant %s is shared with %s", key, first), enum, v.Spec.Name)
		} else {
			indexOwner[key] = v.Spec.Name
		}

		if first, ok := valueOwner[v.Value]; ok {
			diags.AddInfo(CodeDuplicateValue,
				fmt.Sprintf("display value %q is shared with %s", v.Value, first), enum, v.Spec.Name)
		} else {
			valueOwner[v.Value] = v.Spec.Name
		}
	}
}
