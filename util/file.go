package util

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

func SaveJson(path string, data interface{}) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	bs, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	// readers only ever see a complete file
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, bs, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ReadJson decodes the file at path into out. found is false when the file
// does not exist.
func ReadJson(path string, out interface{}) (bool, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(bs, out); err != nil {
		return true, fmt.Errorf("error reading file contents %s: %w", path, err)
	}
	return true, nil
}
