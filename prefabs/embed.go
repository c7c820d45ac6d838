package prefabs

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

//go:embed *.yaml
var PrefabsFS embed.FS

// DiskDir is checked before the embedded copies so edits show up without a
// rebuild. Empty disables disk overrides.
var DiskDir = "prefabs"

// Load reads a prefab, preferring the on-disk copy.
func Load(name string) ([]byte, error) {
	clean := cleanPrefabPath(name)
	if path, ok := diskPath(clean); ok {
		if data, err := os.ReadFile(path); err == nil {
			return data, nil
		}
	}
	return PrefabsFS.ReadFile(clean)
}

// LoadScript reads a tengo script, preferring the on-disk copy.
func LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if path, ok := diskPath(clean); ok {
		if data, err := os.ReadFile(path); err == nil {
			return data, nil
		}
	}
	return ScriptsFS.ReadFile(clean)
}

func cleanPrefabPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		return after
	}
	return s
}

func cleanScriptPath(path string) string {
	if path == "" {
		return ""
	}

	s := filepath.ToSlash(path)

	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}

	return "scripts/" + s
}

func diskPath(clean string) (string, bool) {
	if DiskDir == "" || clean == "" {
		return "", false
	}
	return filepath.Join(DiskDir, filepath.FromSlash(clean)), true
}
