package execution

import (
	"fmt"
	"strings"
)

// CurrentVersion is the definition schema version written by this service.
const CurrentVersion = 1

// Definition is the report configuration shared by saved reports and ad-hoc
// execution requests.
type Definition struct {
	Version int            `json:"version" bson:"version"`
	Columns []string       `json:"columns" bson:"columns"`
	Groups  []string       `json:"groups" bson:"groups"`
	Filters map[string]any `json:"filters" bson:"filters"`
}

// Normalize drops blank group labels and stamps the current version on
// unversioned definitions. Columns are kept exactly as requested.
func (d Definition) Normalize() Definition {
	out := Definition{
		Version: d.Version,
		Columns: append([]string{}, d.Columns...),
		Groups:  cleanLabels(d.Groups),
		Filters: d.Filters,
	}
	if out.Version == 0 {
		out.Version = CurrentVersion
	}
	if out.Filters == nil {
		out.Filters = map[string]any{}
	}
	return out
}

// Validate returns field level problems, or nil. Column labels are never
// rejected; unknown ones project to null.
func (d Definition) Validate() map[string]string {
	errs := map[string]string{}
	if d.Version < 0 || d.Version > CurrentVersion {
		errs["version"] = fmt.Sprintf("Unsupported definition version %d", d.Version)
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func cleanLabels(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// Request is an ad-hoc execution of a definition against one module.
type Request struct {
	Module string `json:"module"`
	Definition
}

type Result struct {
	Columns      []string `json:"columns"`
	Rows         []Row    `json:"rows"`
	TotalRecords int      `json:"totalRecords"`
	ExecutedAt   string   `json:"executedAt"`
	Warnings     []string `json:"warnings,omitempty"`
}
