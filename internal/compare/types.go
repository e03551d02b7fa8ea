// Package compare verifies a cited reference against the authoritative
// metadata for the same work, producing one typed verdict per field
// discrepancy.
package compare

// Level separates hard errors from advisory warnings.
type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
)

// Kind names the reference field a verdict is about.
type Kind string

const (
	KindAuthor  Kind = "author"
	KindTitle   Kind = "title"
	KindYear    Kind = "year"
	KindVenue   Kind = "venue"
	KindDOI     Kind = "doi"
	KindURL     Kind = "url"
	KindGeneric Kind = "generic"
)

// Verdict is the typed outcome of comparing one field of a cited
// reference against its authoritative counterpart.
type Verdict struct {
	Level     Level  `json:"level"`
	Kind      Kind   `json:"kind"`
	Details   string `json:"details"`
	Corrected string `json:"corrected_value,omitempty"`
}

// IsError reports whether the verdict is a hard error.
func (v Verdict) IsError() bool {
	return v.Level == LevelError
}
