// Package analyze reads union definitions from annotated Go declarations.
//
// It uses golang.org/x/tools/go/packages with the AST to find struct types
// marked with an enum directive:
//
//	//enumgen:enum Shape
//	//enumgen:repr i8
//	type shapeSpec struct {
//		//enumgen:variant value="circle" index=10
//		Circle struct{ Radius float64 `json:"radius"` }
//		Pair   func(string, int)
//		Wrap   string
//		None   struct{} `discriminant:"20"`
//	}
//
// Each field of the spec struct becomes one variant:
//   - struct{...}: named fields, unit when empty
//   - func(...): positional fields from the parameters
//   - any other type: a single positional field
package analyze
