package plan

import (
	"fmt"

	"enum-generator/internal/attr"
	"enum-generator/internal/diagnostic"
	"enum-generator/internal/match"
	"enum-generator/internal/model"
	"enum-generator/internal/repr"
)

// CodeUnknownMarker flags a passthrough derive marker or repr token that is
// one typo away from a recognized one.
const CodeUnknownMarker = "unknown_marker"

// reportNearMisses warns about unrecognized tokens left in the passthrough
// repr and derive blocks when a recognized token is close. Tokens with no
// close match are assumed to belong to another tool.
func reportNearMisses(e *model.Enum, diags *diagnostic.Diagnostics) {
	known := map[string][]string{
		attr.ReprNamespace:   repr.HintTokens(),
		attr.DeriveNamespace: attr.Markers(),
	}

	for _, a := range e.Passthrough {
		candidates, ok := known[a.Namespace]
		if !ok {
			continue
		}

		for _, arg := range a.Args {
			if arg.HasValue {
				continue
			}

			if s, ok := match.Closest(arg.Key, candidates); ok {
				diags.AddWarning(CodeUnknownMarker,
					fmt.Sprintf("%s %q is not recognized and is passed through; did you mean %q?", a.Namespace, arg.Key, s),
					e.Name, "")
			}
		}
	}
}
