// Package gen provides deterministic Go code generation for tagged unions.
//
// Generation approach uses text/template + golang.org/x/tools/imports for
// readable Go code. Each union gets one file built from independent
// fragments:
//   - decl: the sealed interface and one struct per variant
//   - methods: Value, Index, the variant count and the variant list
//   - conversions: string and number parsing with a sentinel error
//   - display: String delegating to Value (optional)
//   - marshal/unmarshal: externally tagged JSON hooks (optional)
package gen
