// Package files stores uploaded document payloads in a flat directory.
package files

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// ErrInvalidName is returned for names that are not a plain base name.
var ErrInvalidName = errors.New("invalid file name")

// maxNameLen bounds the sanitized part of a stored filename, in bytes.
const maxNameLen = 128

// Dir is a directory of uploaded files.
type Dir struct {
	Path string
	Now  func() time.Time
}

// SavedFile describes a file written by Save.
type SavedFile struct {
	Name        string
	Size        int64
	ContentType string
}

// Entry is a stored file as seen by List.
type Entry struct {
	Name    string
	ModTime time.Time
}

// New creates the directory if needed and returns a Dir for it.
func New(path string) (*Dir, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &Dir{Path: path, Now: time.Now}, nil
}

// Sanitize reduces an uploaded file's name to a safe base name.
func Sanitize(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))

	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsMark(r),
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}

	out := strings.TrimLeft(b.String(), ".")
	for len(out) > maxNameLen {
		_, size := utf8.DecodeRuneInString(out)
		out = out[size:]
	}
	if out == "" {
		out = "file"
	}
	return out
}

// path resolves a stored name inside the directory.
func (d *Dir) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) {
		return "", ErrInvalidName
	}
	return filepath.Join(d.Path, name), nil
}

// Save writes r under a generated name derived from original. The content
// type is sniffed from the first bytes, not taken from the client.
func (d *Dir) Save(original string, r io.Reader) (*SavedFile, error) {
	base := Sanitize(original)
	stamp := d.Now().UnixMilli()

	var (
		f    *os.File
		name string
		err  error
	)
	for attempt := 0; attempt < 100; attempt++ {
		name = strconv.FormatInt(stamp+int64(attempt), 10) + "-" + base
		f, err = os.OpenFile(filepath.Join(d.Path, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil || !errors.Is(err, fs.ErrExist) {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("creating upload file: %w", err)
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	head = head[:n]

	written, err := io.Copy(f, io.MultiReader(bytes.NewReader(head), r))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("writing upload: %w", err)
	}

	return &SavedFile{
		Name:        name,
		Size:        written,
		ContentType: http.DetectContentType(head),
	}, nil
}

// Open opens a stored file for reading.
func (d *Dir) Open(name string) (*os.File, error) {
	p, err := d.path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	return f, nil
}

// Remove deletes a stored file. A missing file is reported as an error
// wrapping fs.ErrNotExist.
func (d *Dir) Remove(name string) error {
	p, err := d.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		return fmt.Errorf("removing %s: %w", name, err)
	}
	return nil
}

// List returns the regular files in the directory.
func (d *Dir) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(d.Path)
	if err != nil {
		return nil, fmt.Errorf("reading upload directory: %w", err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if !de.Type().IsRegular() {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		entries = append(entries, Entry{Name: de.Name(), ModTime: info.ModTime()})
	}
	return entries, nil
}
