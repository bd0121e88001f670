// Package model provides the in-memory representation of one tagged-union
// definition: its variants, their fields, and the raw annotation lists
// attached by a frontend.
//
// A model is populated in two steps:
//  1. A frontend (schema file or Go source) builds Enum and Variant values
//     with raw Annotations only.
//  2. The attribute extractor lifts recognized annotations into the typed
//     fields (Display, IndexExpr, Hints, Caps) and strips them.
//
// Key types:
//   - Enum: one union definition (identifier, ordered variants, hints)
//   - Variant: one alternative with its field shape and annotations
//   - Annotation: one raw annotation block (namespace + args)
package model
