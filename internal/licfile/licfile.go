// Package licfile reads and writes .lic license files.
package licfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Extension is the file extension for license files.
const Extension = ".lic"

// ErrExists is returned when the target file exists and overwrite was not requested.
var ErrExists = errors.New("license file already exists")

// Path returns name with the .lic extension appended when it is missing.
func Path(name string) string {
	name = filepath.Clean(name)
	if strings.EqualFold(filepath.Ext(name), Extension) {
		return name
	}
	return name + Extension
}

// Write stores blob verbatim at Path(name) with user-only permissions. The
// file is written to a temp file in the same directory and renamed into
// place, so readers never see a partial license. It returns the final path.
func Write(name, blob string, overwrite bool) (string, error) {
	path := Path(name)
	if blob == "" {
		return "", errors.New("empty license blob")
	}

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("%s: %w", path, ErrExists)
		} else if !os.IsNotExist(err) {
			return "", fmt.Errorf("stat license file: %w", err)
		}
	}

	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".licensemaker-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmpFile.Name()

	if _, err := tmpFile.WriteString(blob); err != nil {
		tmpFile.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("chmod: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("install license file: %w", err)
	}

	return path, nil
}

// Read returns the license blob stored at path with surrounding whitespace removed.
func Read(path string) (string, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("read license file: %w", err)
	}
	blob := strings.TrimSpace(string(data))
	if blob == "" {
		return "", fmt.Errorf("read license file: %s is empty", path)
	}
	return blob, nil
}
