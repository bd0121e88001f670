// Package schema loads union definitions from YAML or JSON files.
//
// A file names the target package and lists unions with their variants,
// payload fields and raw annotation blocks. Validation is structural only;
// annotation semantics are left to the attribute extractor.
package schema
