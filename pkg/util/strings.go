package util

// MaxFieldSize is the default maximum size for captured payload fields (10KB).
const MaxFieldSize = 10 * 1024

// TruncateField truncates a string to maxSize bytes, appending "...(truncated)" if truncated.
// If maxSize <= 0, uses MaxFieldSize.
func TruncateField(data string, maxSize int) string {
	if maxSize <= 0 {
		maxSize = MaxFieldSize
	}
	if len(data) > maxSize {
		return data[:maxSize] + "...(truncated)"
	}
	return data
}
