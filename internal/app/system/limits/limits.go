// internal/app/system/limits/limits.go
package limits

// Request body size limits for form posts. CSV uploads have their own
// limit in csvutil and the max_upload_mb setting.
const (
	// MaxRecordFormSize caps a single module submission (POST /data).
	// The form has six short fields; anything near this size is not a browser.
	MaxRecordFormSize = 64 << 10 // 64 KB
)
