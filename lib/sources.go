package lib

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var DefaultExtensions = []string{".c", ".h"}

type SourceFile struct {
	Name        string
	Path        string
	Text        string
	Tokens      []Token
	Diagnostics []Diagnostic
}

func ReadSourcesFromDir(dir string, extensions []string) ([]SourceFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() || !hasExtension(entry.Name(), extensions) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	files := []SourceFile{}
	for _, name := range names {
		f, err := ReadSourceFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	return files, nil
}

func ReadSourceFile(filePath string) (SourceFile, error) {
	bytes, err := os.ReadFile(filePath)
	if err != nil {
		return SourceFile{}, fmt.Errorf("reading %s: %w", filePath, err)
	}
	return NewSourceFile(filePath, string(bytes)), nil
}

// NewSourceFile tokenizes text that was read from filePath.
func NewSourceFile(filePath string, text string) SourceFile {
	f := SourceFile{
		Name:        sourceNameFromPath(filePath),
		Path:        filePath,
		Text:        text,
		Diagnostics: []Diagnostic{},
	}
	f.Tokens = Tokenize(text, WithDiagnostics(func(d Diagnostic) {
		f.Diagnostics = append(f.Diagnostics, d)
	}))
	return f
}

func hasExtension(fileName string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	ext := filepath.Ext(fileName)
	for _, e := range extensions {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

func sourceNameFromPath(filePath string) string {
	_, fileName := filepath.Split(filePath)
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}
