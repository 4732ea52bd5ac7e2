package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/joeycumines/lifesim/internal/storage"
)

// SetKeyInFile sets a global option in the file at path, keeping comments
// and sections. An existing global line is replaced in place; otherwise the
// option goes before the first section header.
func SetKeyInFile(path, key, value string) error {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("config: read: %w", err)
	}
	var lines []string
	if len(data) > 0 {
		lines = strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	}

	entry := strings.TrimSpace(key + " " + value)
	insert := len(lines)
	replaced := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			insert = i
			break
		}
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if name, _, _ := strings.Cut(trimmed, " "); name == key {
			lines[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		lines = slices.Insert(lines, insert, entry)
	}
	return storage.WriteFileAtomic(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644)
}

