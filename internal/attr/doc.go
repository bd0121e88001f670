// Package attr lifts recognized annotations into typed fields of the schema
// model and strips them from the passthrough lists.
//
// Variant annotations live in the "variant" namespace:
//
//	variant: value="circle" index=10
//
// Both keys are optional, may appear in any order and may be split across
// several blocks; the last occurrence of a key wins. Unknown keys in the
// namespace are ignored.
//
// Enum annotations use two namespaces:
//
//	repr: u8            # representation width (or C)
//	derive: Display JSON  # capability markers
//
// Tokens not understood by either namespace, and every block in any other
// namespace, are preserved verbatim as passthrough annotations.
package attr
