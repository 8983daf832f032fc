// internal/app/system/csvutil/limits.go
package csvutil

// Default upload size and row limits for CSV imports. The web upload limit
// can be raised with the max_upload_mb setting.
const (
	MaxUploadSize = 5 << 20 // 5 MB
	MaxRows       = 20000
)
