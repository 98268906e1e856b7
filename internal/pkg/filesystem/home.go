package filesystem

import (
	"os"
	"path/filepath"
)

// UserHomeDir returns the current user's home directory.
// If the home directory cannot be determined, it returns "." as a fallback.
func UserHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

// AskaiDir returns the application data directory (~/.askai) joined with the
// given path elements.
func AskaiDir(elem ...string) string {
	parts := append([]string{UserHomeDir(), ".askai"}, elem...)
	return filepath.Join(parts...)
}
