package scan

import (
	"net/url"
	"strings"
)

// NormalizeCode trims the decoded value and reduces a scanned label URL
// such as https://host/qr/<id> to its last path segment.
func NormalizeCode(raw string) string {
	code := strings.TrimSpace(raw)
	if !strings.Contains(code, "://") {
		return code
	}
	u, err := url.Parse(code)
	if err != nil {
		return code
	}
	path := strings.Trim(u.Path, "/")
	if path == "" {
		return code
	}
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
