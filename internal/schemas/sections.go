// Package schemas owns the Section to output-field mapping and the
// schema contracts derived from it. The table here is the single source
// of truth: the prompt descriptor and the structural validator are both
// generated from it.
package schemas

import (
	"strings"

	"github.com/jonathan/ticket-drafter/internal/types"
)

// FieldSpec describes the output field a section maps to.
type FieldSpec struct {
	Name string // JSON field name, e.g. "acceptance_criteria"
	List bool   // true for ordered-list-of-string fields
}

// sectionFields maps each section to its field name and value shape.
// Never mutated at runtime. Adding a section means adding exactly one
// row here; everything else derives from it.
var sectionFields = map[types.Section]FieldSpec{
	types.SectionSummary:            {Name: "summary"},
	types.SectionType:               {Name: "type"},
	types.SectionDescription:        {Name: "description"},
	types.SectionScope:              {Name: "scope", List: true},
	types.SectionAcceptanceCriteria: {Name: "acceptance_criteria", List: true},
	types.SectionExpectedOutcome:    {Name: "expected_outcome", List: true},
	types.SectionRisks:              {Name: "risks", List: true},
	types.SectionDependencies:       {Name: "dependencies", List: true},
	types.SectionValidationPlan:     {Name: "validation_plan", List: true},
}

// Field returns the field spec for a section. The second return is
// false for unknown sections; callers validate membership first.
func Field(s types.Section) (FieldSpec, bool) {
	spec, ok := sectionFields[s]
	return spec, ok
}

// BuildDescription emits the textual field-type contract embedded in
// prompts, one line per requested section in caller order:
//
//	{
//	  summary: string
//	  acceptance_criteria: string[]
//	}
//
// Returns "{}" for an empty section list.
func BuildDescription(sections []types.Section) string {
	if len(sections) == 0 {
		return "{}"
	}

	var sb strings.Builder
	sb.WriteString("{\n")
	for _, section := range sections {
		spec, ok := sectionFields[section]
		if !ok {
			continue
		}
		fieldType := "string"
		if spec.List {
			fieldType = "string[]"
		}
		sb.WriteString("  ")
		sb.WriteString(spec.Name)
		sb.WriteString(": ")
		sb.WriteString(fieldType)
		sb.WriteString("\n")
	}
	sb.WriteString("}")
	return sb.String()
}
