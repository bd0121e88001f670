// Package plan provides the resolution pipeline that produces a final
// ResolvedPlan consumed by code generation.
//
// Resolution pipeline, per union:
//  1. Clone the schema model and run the attribute extractor on the clone
//  2. Resolve the representation width from hints and literal discriminants
//  3. Fold over the variants in declaration order assigning discriminants:
//     explicit index, else literal discriminant, else previous + 1
//     (overflow clamps to the previous value and emits a warning)
//  4. Assign display strings: declared value, else the identifier
//  5. Emit diagnostics (structural errors, overflow warnings, duplicates)
//
// A structural error drops only the union it occurred in; siblings resolved
// in the same batch are unaffected.
package plan
