// internal/app/system/limits/limits.go
package limits

// Request body size limits for the board's forms.
const (
	// MaxMaterialFormSize bounds a manual publish. Content is an HTML
	// fragment and may be long.
	MaxMaterialFormSize = 1 << 20 // 1 MB

	// MaxSmallFormSize bounds forms that carry a few short fields
	// (login, AI topic, delete confirmation).
	MaxSmallFormSize = 16 << 10 // 16 KB
)
