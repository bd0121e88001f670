// Package diagnostic provides structured errors, warnings and infos for the
// enum generator.
//
// Severity follows the resolution error taxonomy:
//   - Error: structural problems (conflicting widths, malformed literals)
//     that abort synthesis of one union
//   - Warning: soft faults such as index overflow; synthesis continues
//   - Info: observations such as duplicate discriminants, which are permitted
package diagnostic
