package prefabs

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

//go:embed *.yaml
var PrefabsFS embed.FS

var (
	dirMu   sync.RWMutex
	diskDir = "prefabs"
)

// SetDir changes the directory consulted before the embedded copies. An empty
// dir disables disk overrides.
func SetDir(dir string) {
	dirMu.Lock()
	diskDir = dir
	dirMu.Unlock()
}

func Dir() string {
	dirMu.RLock()
	defer dirMu.RUnlock()
	return diskDir
}

// Load prefers the on-disk prefab so edits are picked up without a rebuild.
func Load(name string) ([]byte, error) {
	clean := cleanPrefabPath(name)
	if dir := Dir(); dir != "" {
		if data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(clean))); err == nil {
			return data, nil
		}
	}
	return PrefabsFS.ReadFile(clean)
}

func LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if dir := Dir(); dir != "" {
		if data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(clean))); err == nil {
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

	if !strings.HasSuffix(s, ".tengo") {
		s += ".tengo"
	}

	return fmt.Sprintf("scripts/%s", s)
}
