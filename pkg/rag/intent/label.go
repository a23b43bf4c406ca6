package intent

import (
	"fmt"
	"strings"
)

// Label represents a resolved user intention category
type Label string

const (
	LabelGreeting            Label = "greeting"
	LabelFarewell            Label = "farewell"
	LabelClarificationNeeded Label = "clarification_needed"
	LabelInternalDocs        Label = "internal_docs"
	LabelGeneralKnowledge    Label = "general_knowledge"
)

// AllLabels lists every valid label, in prompt order
var AllLabels = []Label{
	LabelGreeting,
	LabelFarewell,
	LabelClarificationNeeded,
	LabelInternalDocs,
	LabelGeneralKnowledge,
}

// ParseLabel converts raw classifier output into a Label.
// The match is exact after trimming and lowercasing; anything else fails.
func ParseLabel(raw string) (Label, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	for _, label := range AllLabels {
		if normalized == string(label) {
			return label, nil
		}
	}
	return "", fmt.Errorf("unrecognized intent label: %q", raw)
}
