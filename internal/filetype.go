package internal

import (
	"path/filepath"
	"strings"
)

// FileType is an advisory label for a source, picked by suffix.
type FileType struct {
	Label string
}

// Note is the line printed after a file has been searched.
func (t FileType) Note() string { return "(" + t.Label + " detected)" }

var fileTypes = map[string]FileType{
	".rs":   {"Rust source file"},
	".txt":  {"Text file"},
	".md":   {"Markdown file"},
	".html": {"HTML file"}, ".htm": {"HTML file"},
	".css":  {"CSS file"},
	".json": {"JSON file"},
	".xml":  {"XML file"},
	".yaml": {"YAML file"}, ".yml": {"YAML file"},
	".toml": {"TOML file"},
	".log":  {"Log file"},
	".csv":  {"CSV file"},
	".conf": {"Configuration file"}, ".cfg": {"Configuration file"},
	".sh":   {"Shell script"},
	".bat":  {"Batch script"},
	".php":  {"PHP source file"},
	".java": {"Java source file"},
	".go":   {"Go source file"},
	".py":   {"Python source file"},
	".js":   {"JavaScript source file"},
	".c":    {"C source/header file"}, ".h": {"C source/header file"},
}

// LookupFileType maps a path or locator to its type by extension.
func LookupFileType(locator string) (FileType, bool) {
	ext := filepath.Ext(locator)
	if ext == "" {
		return FileType{}, false
	}
	t, ok := fileTypes[strings.ToLower(ext)]
	return t, ok
}
