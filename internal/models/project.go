package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Field names recognised in a record's fields map
const (
	FieldProject     = "Project"
	FieldProjectAlt  = "project"
	FieldVideo       = "Video"
	FieldImage       = "Image"
	FieldTags        = "Tags"
	FieldTeam        = "Team"
	FieldMadeWith    = "Made with"
	FieldYear        = "Year"
	FieldDescription = "Description"
)

// Fields maps a field name to its raw JSON value (string, number, or list)
type Fields map[string]any

// Record is one project entry from the data file
type Record struct {
	Fields Fields `json:"fields"`
	Active *bool  `json:"active,omitempty"`
}

// RecordSet is the top-level shape of data.json
type RecordSet struct {
	Records []Record `json:"records"`
}

// ProjectName returns the Project field, falling back to lowercase project.
// An empty Project falls through, same as a missing one.
func (r Record) ProjectName() string {
	if name := r.Fields.String(FieldProject); name != "" {
		return name
	}
	return r.Fields.String(FieldProjectAlt)
}

// IsActive reports whether the record is not explicitly inactive
func (r Record) IsActive() bool {
	return r.Active == nil || *r.Active
}

// IsValid reports whether the record should be displayed at all
func (r Record) IsValid() bool {
	return strings.TrimSpace(r.ProjectName()) != "" && r.IsActive()
}

// Video returns the trimmed video URL, or ""
func (r Record) Video() string {
	return strings.TrimSpace(r.Fields.String(FieldVideo))
}

// Image returns the trimmed image URL, or ""
func (r Record) Image() string {
	return strings.TrimSpace(r.Fields.String(FieldImage))
}

// Tags returns the record's tags in data-file order
func (r Record) Tags() []string {
	return r.Fields.List(FieldTags)
}

// HasTag reports an exact match against Tags
func (r Record) HasTag(tag string) bool {
	for _, t := range r.Tags() {
		if t == tag {
			return true
		}
	}
	return false
}

// Team returns the team members joined for display
func (r Record) Team() string {
	return strings.Join(r.Fields.List(FieldTeam), ", ")
}

// MadeWith returns the "Made with" entries joined for display
func (r Record) MadeWith() string {
	return strings.Join(r.Fields.List(FieldMadeWith), ", ")
}

// Year returns the Year field as text
func (r Record) Year() string {
	return strings.Join(r.Fields.List(FieldYear), ", ")
}

// Description returns the raw markdown description
func (r Record) Description() string {
	return r.Fields.String(FieldDescription)
}

// String returns a field as a single string. Lists are joined with ", ".
func (f Fields) String(name string) string {
	return strings.Join(f.List(name), ", ")
}

// List returns a field as a list of strings, accepting a scalar or an array
func (f Fields) List(name string) []string {
	v, ok := f[name]
	if !ok || v == nil {
		return nil
	}
	switch val := v.(type) {
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := scalarString(item); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return val
	default:
		if s, ok := scalarString(val); ok {
			return []string{s}
		}
		return nil
	}
}

// scalarString converts a decoded JSON scalar to text
func scalarString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case json.Number:
		return val.String(), true
	case int:
		return strconv.Itoa(val), true
	case bool:
		return strconv.FormatBool(val), true
	}
	return "", false
}

// Slugify lowercases s and collapses runs of non-alphanumerics into "-"
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
