package h5pfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/h5p-tools/h5pkit/document"
)

// editor-only dependency lists dropped by Prune. Players ignore them,
// but stale entries break re-import when the referenced libraries are
// not bundled.
var prunedMetaKeys = []string{"editorDependencies", "dynamicDependencies"}

// Prune removes editor-only dependency lists from meta and deletes
// preloadedDependencies entries whose library directory is missing
// from dir. Returns the names of dropped libraries.
func Prune(meta *document.Node, dir string) []string {
	for _, key := range prunedMetaKeys {
		meta.Delete(key)
	}

	deps, ok := meta.Get("preloadedDependencies")
	if !ok || deps.Kind != document.KindSequence {
		return nil
	}

	var dropped []string
	kept := deps.Items[:0]
	for _, dep := range deps.Items {
		name := libraryDirName(dep)
		if name == "" {
			kept = append(kept, dep)
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			dropped = append(dropped, name)
			continue
		}
		kept = append(kept, dep)
	}
	deps.Items = kept
	return dropped
}

// libraryDirName builds the on-disk directory name for a dependency
// entry: machineName-majorVersion.minorVersion.
func libraryDirName(dep *document.Node) string {
	if dep.Kind != document.KindMapping {
		return ""
	}
	name, ok := dep.Get("machineName")
	if !ok || name.Kind != document.KindString {
		return ""
	}
	major, okMaj := dep.Get("majorVersion")
	minor, okMin := dep.Get("minorVersion")
	if !okMaj || !okMin || major.Kind != document.KindNumber || minor.Kind != document.KindNumber {
		return name.Str
	}
	return fmt.Sprintf("%s-%s.%s", name.Str, major.Num.String(), minor.Num.String())
}

// SetLanguage records the target language in package metadata.
// defaultLanguage is only updated when the package already declares it.
func SetLanguage(meta *document.Node, lang string) {
	meta.Set("language", document.NewString(lang))
	if _, ok := meta.Get("defaultLanguage"); ok {
		meta.Set("defaultLanguage", document.NewString(lang))
	}
}

// Title returns the package title, or "" when absent.
func Title(meta *document.Node) string {
	title, ok := meta.Get("title")
	if !ok || title.Kind != document.KindString {
		return ""
	}
	return title.Str
}

// MainLibrary returns the package's main library name, or "".
func MainLibrary(meta *document.Node) string {
	lib, ok := meta.Get("mainLibrary")
	if !ok || lib.Kind != document.KindString {
		return ""
	}
	return lib.Str
}

// Language returns the package language, or "".
func Language(meta *document.Node) string {
	lang, ok := meta.Get("language")
	if !ok || lang.Kind != document.KindString {
		return ""
	}
	return lang.Str
}
