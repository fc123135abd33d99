package airtable

import "strings"

var formulaEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// Eq is an exact, case-sensitive equality formula on a field.
func Eq(field, value string) string {
	return "{" + field + "}='" + formulaEscaper.Replace(value) + "'"
}

// And combines formulas; a single formula is returned as is.
func And(formulas ...string) string {
	parts := make([]string, 0, len(formulas))
	for _, f := range formulas {
		if f != "" {
			parts = append(parts, f)
		}
	}
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	return "AND(" + strings.Join(parts, ",") + ")"
}
