// Package config loads .mprocproject, the small project description file
// naming where MProc sources live and where generated MLog should go.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const fileName = ".mprocproject"

// Project names the source roots to parse and the directory generated
// MLog output is written into.
type Project struct {
	RootDir string
	SrcDirs []string
	OutDir  string
}

// Load scans the current directory for .mprocproject.
func Load() (*Project, error) {
	return LoadFrom(".")
}

// LoadFrom reads <rootDir>/.mprocproject.
//
// The file is a flat "key = value" list, one entry per line, blank lines
// and "#"-prefixed comments ignored:
//
//	src = src
//	src = lib/src
//	out = build/mlog
func LoadFrom(rootDir string) (*Project, error) {
	path := filepath.Join(rootDir, fileName)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	defer f.Close()

	proj := &Project{
		RootDir: rootDir,
		OutDir:  filepath.Join(rootDir, "build", "mlog"),
	}

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("%s:%d: expected \"key = value\", got %q", path, lineNo, line)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "src":
			proj.SrcDirs = append(proj.SrcDirs, filepath.Join(rootDir, value))
		case "out":
			proj.OutDir = filepath.Join(rootDir, value)
		default:
			return nil, fmt.Errorf("%s:%d: unknown key %q", path, lineNo, key)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if len(proj.SrcDirs) == 0 {
		proj.SrcDirs = []string{filepath.Join(rootDir, "src")}
	}

	return proj, nil
}

// SourceFiles returns every ".mproc" file under the project's source
// roots.
func (p *Project) SourceFiles() ([]string, error) {
	var files []string
	for _, dir := range p.SrcDirs {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			if strings.HasSuffix(path, ".mproc") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", dir, err)
		}
	}
	return files, nil
}

// EnsureOutDir creates the configured output directory if missing.
func (p *Project) EnsureOutDir() error {
	if err := os.MkdirAll(p.OutDir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", p.OutDir, err)
	}
	return nil
}
