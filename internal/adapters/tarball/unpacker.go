// Package tarball implements the registry package archive unpacker.
//
// An archive is an outer tar holding the package metadata and a gzipped
// inner tar (contents.tar.gz) with the actual sources.
package tarball

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/klauspost/compress/gzip"
	"go.trai.ch/hexfetch/internal/core/domain"
	"go.trai.ch/zerr"
)

const contentsName = "contents.tar.gz"

// Unpacker extracts package archives into checkout destinations.
type Unpacker struct{}

// NewUnpacker creates a new Unpacker.
func NewUnpacker() *Unpacker {
	return &Unpacker{}
}

// Unpack extracts the archive at archivePath into dest and reports the
// extracted file list plus any build tools declared in the metadata.
// Corrupt input fails; dest must not be trusted afterwards.
func (u *Unpacker) Unpack(ctx context.Context, archivePath, dest string, key domain.PackageKey) (domain.PackageMeta, error) {
	if err := ctx.Err(); err != nil {
		return domain.PackageMeta{}, err
	}

	f, err := os.Open(archivePath) //nolint:gosec // path is derived from the cache root
	if err != nil {
		return domain.PackageMeta{}, wrapUnpack(err, key)
	}
	defer func() { _ = f.Close() }()

	contents, metadata, err := readOuter(f)
	if err != nil {
		return domain.PackageMeta{}, wrapUnpack(err, key)
	}

	files, err := extractContents(contents, dest)
	if err != nil {
		return domain.PackageMeta{}, wrapUnpack(err, key)
	}

	meta := domain.PackageMeta{Files: files}
	if tools, ok := parseBuildTools(metadata); ok {
		meta.BuildTools = tools
	}
	return meta, nil
}

func wrapUnpack(err error, key domain.PackageKey) error {
	return zerr.With(zerr.Wrap(err, "failed to unpack archive"), "package", key.String())
}

// readOuter walks the outer tar and returns the inner contents archive and
// the raw metadata, which may be absent.
func readOuter(r io.Reader) (contents, metadata []byte, err error) {
	outer := tar.NewReader(r)
	for {
		hdr, err := outer.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, zerr.Wrap(err, "corrupt outer archive")
		}

		switch hdr.Name {
		case contentsName:
			if contents, err = io.ReadAll(outer); err != nil {
				return nil, nil, zerr.Wrap(err, "corrupt contents archive")
			}
		case "metadata.config":
			if metadata, err = io.ReadAll(outer); err != nil {
				return nil, nil, zerr.Wrap(err, "corrupt package metadata")
			}
		}
	}

	if contents == nil {
		return nil, nil, zerr.New("archive has no " + contentsName)
	}
	return contents, metadata, nil
}

// extractContents unpacks the gzipped inner tar into dest and returns the
// relative paths of the regular files written.
func extractContents(contents []byte, dest string) ([]string, error) {
	gz, err := gzip.NewReader(bytes.NewReader(contents))
	if err != nil {
		return nil, zerr.Wrap(err, "corrupt contents archive")
	}
	defer func() { _ = gz.Close() }()

	var files []string
	inner := tar.NewReader(gz)
	for {
		hdr, err := inner.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, zerr.Wrap(err, "corrupt contents archive")
		}

		name := filepath.ToSlash(hdr.Name)
		if !filepath.IsLocal(filepath.FromSlash(name)) {
			return nil, zerr.With(zerr.New("archive entry escapes destination"), "entry", hdr.Name)
		}
		target := filepath.Join(dest, filepath.FromSlash(name))

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o750); err != nil {
				return nil, zerr.Wrap(err, "failed to create directory")
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
				return nil, zerr.Wrap(err, "failed to create directory")
			}
			if err := writeEntry(target, inner, hdr.FileInfo().Mode()); err != nil {
				return nil, err
			}
			files = append(files, strings.TrimPrefix(name, "./"))
		}
	}
	return files, nil
}

func writeEntry(target string, r io.Reader, mode os.FileMode) error {
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm()) //nolint:gosec // entry path is checked above
	if err != nil {
		return zerr.Wrap(err, "failed to create file")
	}
	if _, err := io.Copy(out, r); err != nil { //nolint:gosec // archive size is bounded by the download
		_ = out.Close()
		return zerr.Wrap(err, "failed to write file")
	}
	return out.Close()
}

var (
	buildToolsRe = regexp.MustCompile(`(?s)<<"build_tools">>\s*,\s*\[(.*?)\]`)
	toolRe       = regexp.MustCompile(`<<"([^"]*)">>`)
)

// parseBuildTools pulls the declared build_tools list out of the Erlang
// term metadata. The second return is false when the metadata declares no
// build_tools at all, which is distinct from an empty list.
func parseBuildTools(metadata []byte) ([]string, bool) {
	m := buildToolsRe.FindSubmatch(metadata)
	if m == nil {
		return nil, false
	}

	tools := []string{}
	for _, t := range toolRe.FindAllSubmatch(m[1], -1) {
		tools = append(tools, string(t[1]))
	}
	return tools, true
}
