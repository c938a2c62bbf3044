// Package bundle packs an export folder into a single .tar.xz archive.
//
// Archives are reproducible: entries are sorted by path with the resource
// list first, and every entry carries the Unix epoch as its modification
// time and mode 0644. Packing the same folder twice yields identical bytes.
package bundle

import (
	"archive/tar"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ulikunitz/xz"

	"github.com/roach88/uibridge/internal/fsutil"
	"github.com/roach88/uibridge/internal/manifest"
)

// Ext is the archive extension.
const Ext = ".tar.xz"

// xzMagic opens every xz stream.
var xzMagic = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}

// ErrNotXZ is returned when an archive is not xz-compressed.
var ErrNotXZ = errors.New("not an xz archive")

var epoch = time.Unix(0, 0).UTC()

// Stats summarizes a packed archive.
type Stats struct {
	Files int   `json:"files"`
	Bytes int64 `json:"bytes"` // uncompressed
}

// Pack archives every regular file under dir into archivePath. Hidden files,
// such as interrupted atomic writes, are skipped. The archive is written
// atomically.
func Pack(dir, archivePath string) (Stats, error) {
	if !fsutil.IsDir(dir) {
		return Stats{}, fmt.Errorf("pack: %s is not a directory", dir)
	}
	absArchive, _ := filepath.Abs(archivePath)

	var names []string
	err := filepath.WalkDir(dir, func(p string, e fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(e.Name(), ".") && p != dir {
			if e.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !e.Type().IsRegular() {
			return nil
		}
		if abs, _ := filepath.Abs(p); abs == absArchive {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return Stats{}, fmt.Errorf("pack: scan %s: %w", dir, err)
	}
	sortEntries(names)

	var buf bytes.Buffer
	xw, err := xz.NewWriter(&buf)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to create xz writer: %w", err)
	}
	tw := tar.NewWriter(xw)

	var st Stats
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
		if err != nil {
			return Stats{}, fmt.Errorf("pack: %w", err)
		}
		if err := writeEntry(tw, name, data); err != nil {
			return Stats{}, fmt.Errorf("pack: write %s: %w", name, err)
		}
		st.Files++
		st.Bytes += int64(len(data))
	}

	if err := tw.Close(); err != nil {
		return Stats{}, fmt.Errorf("pack: close tar: %w", err)
	}
	if err := xw.Close(); err != nil {
		return Stats{}, fmt.Errorf("pack: close xz: %w", err)
	}
	if err := fsutil.WriteFileAtomic(archivePath, buf.Bytes()); err != nil {
		return Stats{}, fmt.Errorf("pack: %w", err)
	}
	return st, nil
}

// sortEntries orders names by path with the resource list first.
func sortEntries(names []string) {
	sort.Slice(names, func(i, j int) bool {
		ri, rj := names[i] == manifest.ReservedName, names[j] == manifest.ReservedName
		if ri != rj {
			return ri
		}
		return names[i] < names[j]
	})
}

func writeEntry(tw *tar.Writer, name string, data []byte) error {
	header := &tar.Header{
		Name:     name,
		Mode:     0o644,
		Size:     int64(len(data)),
		ModTime:  epoch,
		Typeflag: tar.TypeReg,
		Format:   tar.FormatPAX,
	}
	if err := tw.WriteHeader(header); err != nil {
		return err
	}
	_, err := tw.Write(data)
	return err
}

// Entry is one file of an archive.
type Entry struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// List returns the entries of an archive in archive order.
func List(archivePath string) ([]Entry, error) {
	var out []Entry
	err := walk(archivePath, func(h *tar.Header, _ io.Reader) error {
		out = append(out, Entry{Name: h.Name, Size: h.Size})
		return nil
	})
	return out, err
}

// Unpack extracts an archive into destDir. Entries that would land outside
// destDir are skipped.
func Unpack(archivePath, destDir string) (Stats, error) {
	var st Stats
	err := walk(archivePath, func(h *tar.Header, r io.Reader) error {
		clean := filepath.Clean(filepath.FromSlash(h.Name))
		if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			return nil
		}
		data, err := io.ReadAll(r)
		if err != nil {
			return err
		}
		if err := fsutil.WriteFileAtomic(filepath.Join(destDir, clean), data); err != nil {
			return err
		}
		st.Files++
		st.Bytes += int64(len(data))
		return nil
	})
	return st, err
}

func walk(archivePath string, fn func(*tar.Header, io.Reader) error) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	magic := make([]byte, len(xzMagic))
	if _, err := io.ReadFull(f, magic); err != nil || !bytes.Equal(magic, xzMagic) {
		return fmt.Errorf("%s: %w", filepath.Base(archivePath), ErrNotXZ)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}

	xr, err := xz.NewReader(f)
	if err != nil {
		return fmt.Errorf("failed to create xz reader: %w", err)
	}
	tr := tar.NewReader(xr)
	for {
		h, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read tar header: %w", err)
		}
		if h.Typeflag != tar.TypeReg {
			continue
		}
		if err := fn(h, tr); err != nil {
			return err
		}
	}
}
