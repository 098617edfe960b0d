package cmd

import (
	"os"
	"path/filepath"
)

// fileModuleLoader resolves import specifiers against the filesystem,
// relative to the entry script's directory. Bare (non-relative)
// specifiers are not supported; the CLI has no package-resolution
// algorithm to offer one, unlike a bundler or Node's own resolver.
type fileModuleLoader struct {
	baseDir string
}

func newFileModuleLoader(baseDir string) *fileModuleLoader {
	return &fileModuleLoader{baseDir: baseDir}
}

func (l *fileModuleLoader) ResolveModule(specifier, referrer string) (string, error) {
	dir := l.baseDir
	if referrer != "" && referrer != "<entry>" {
		dir = filepath.Dir(referrer)
	}
	return filepath.Clean(filepath.Join(dir, specifier)), nil
}

func (l *fileModuleLoader) LoadModule(resolvedSpecifier string) (string, error) {
	data, err := os.ReadFile(resolvedSpecifier)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
