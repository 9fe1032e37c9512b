package lua

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// checkScriptPath ensures path names an existing regular .lua file.
func checkScriptPath(path string) (string, error) {
	if !strings.HasSuffix(path, ".lua") {
		return "", errors.New("script filename must end with .lua")
	}
	clean := filepath.Clean(path)
	if base := filepath.Base(clean); base == "" || base == ".lua" {
		return "", errors.New("invalid script filename")
	}
	info, err := os.Stat(clean)
	if err != nil {
		return "", fmt.Errorf("failed to stat script '%s': %w", clean, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("script '%s' is a directory", clean)
	}
	return clean, nil
}
