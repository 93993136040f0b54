// Package h5pfile reads and writes H5P content packages. An .h5p file
// is a zip archive with h5p.json metadata at the root, the editable
// document at content/content.json, and one directory per bundled
// library.
package h5pfile

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/h5p-tools/h5pkit/document"
)

// ContentPath is the archive-relative path of the content document.
const ContentPath = "content/content.json"

// MetaPath is the archive-relative path of the package metadata.
const MetaPath = "h5p.json"

// Unpack extracts archive into dir, which must exist. Entry names are
// validated against directory traversal before anything is written.
func Unpack(archive, dir string) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return fmt.Errorf("open %s: %w", archive, err)
	}
	defer r.Close()

	for _, f := range r.File {
		target, err := safeJoin(dir, f.Name)
		if err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := extractFile(f, target); err != nil {
			return fmt.Errorf("extract %s: %w", f.Name, err)
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// safeJoin joins an archive entry name onto dir, rejecting names that
// would escape it.
func safeJoin(dir, name string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("archive entry escapes target directory: %q", name)
	}
	return filepath.Join(dir, cleaned), nil
}

// Pack zips the contents of dir into archive, forward-slash entry
// names, deterministic order (fs.WalkDir is lexical). The archive
// itself must not live inside dir.
func Pack(dir, archive string) error {
	out, err := os.Create(archive)
	if err != nil {
		return fmt.Errorf("create %s: %w", archive, err)
	}
	zw := zip.NewWriter(out)

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		in, err := os.Open(path)
		if err != nil {
			return err
		}
		_, err = io.Copy(w, in)
		in.Close()
		return err
	})
	if err != nil {
		zw.Close()
		out.Close()
		return fmt.Errorf("pack %s: %w", dir, err)
	}
	if err := zw.Close(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// LoadContent parses the content document from an unpacked package
// directory.
func LoadContent(dir string) (*document.Node, error) {
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(ContentPath)))
	if err != nil {
		return nil, fmt.Errorf("read content document: %w", err)
	}
	doc, err := document.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", ContentPath, err)
	}
	return doc, nil
}

// SaveContent writes the content document back into an unpacked
// package directory.
func SaveContent(dir string, doc *document.Node) error {
	path := filepath.Join(dir, filepath.FromSlash(ContentPath))
	if err := os.WriteFile(path, doc.Marshal(), 0o644); err != nil {
		return fmt.Errorf("write content document: %w", err)
	}
	return nil
}

// LoadMeta parses h5p.json from an unpacked package directory.
func LoadMeta(dir string) (*document.Node, error) {
	data, err := os.ReadFile(filepath.Join(dir, MetaPath))
	if err != nil {
		return nil, fmt.Errorf("read package metadata: %w", err)
	}
	meta, err := document.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", MetaPath, err)
	}
	return meta, nil
}

// SaveMeta writes h5p.json back into an unpacked package directory.
func SaveMeta(dir string, meta *document.Node) error {
	if err := os.WriteFile(filepath.Join(dir, MetaPath), meta.Marshal(), 0o644); err != nil {
		return fmt.Errorf("write package metadata: %w", err)
	}
	return nil
}

// ReadContent reads the content document straight out of an archive
// without extracting it. Used by inspect-style commands.
func ReadContent(archive string) (*document.Node, error) {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", archive, err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != ContentPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		doc, err := document.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", ContentPath, err)
		}
		return doc, nil
	}
	return nil, fmt.Errorf("%s: no %s entry", archive, ContentPath)
}

// ReadMeta reads h5p.json straight out of an archive.
func ReadMeta(archive string) (*document.Node, error) {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", archive, err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != MetaPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		meta, err := document.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", MetaPath, err)
		}
		return meta, nil
	}
	return nil, fmt.Errorf("%s: no %s entry", archive, MetaPath)
}
