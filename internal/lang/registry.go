package lang

import (
	"path/filepath"
	"strings"
)

var registry []Language

// Register adds a language to the global registry. Called from language
// package init functions.
func Register(l Language) {
	registry = append(registry, l)
}

// Detect returns the registered language for a filename, matching by
// extension, or nil if unknown.
func Detect(filename string) Language {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, l := range registry {
		for _, e := range l.Extensions() {
			if e == ext {
				return l
			}
		}
	}
	return nil
}

// ByName returns the registered language with the given name, or nil.
func ByName(name string) Language {
	for _, l := range registry {
		if l.Name() == name {
			return l
		}
	}
	return nil
}

// All returns every registered language.
func All() []Language {
	return registry
}
