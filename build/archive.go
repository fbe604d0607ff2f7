/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

package build

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
)

// extractArchive unpacks a gzipped tarball of prebuilt wasm-bindgen output
// into dest. Entries that would land outside dest are rejected; non-regular
// entries other than directories are skipped.
func (p *Pipeline) extractArchive(archivePath, dest string) error {
	if err := p.fs.MkdirAll(dest, 0755); err != nil {
		return err
	}

	f, err := p.fs.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive %s: %w", archivePath, err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("failed to read archive %s: %w", archivePath, err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read archive %s: %w", archivePath, err)
		}

		name := path.Clean(header.Name)
		if name == "." {
			continue
		}
		if path.IsAbs(name) || name == ".." || strings.HasPrefix(name, "../") {
			return fmt.Errorf("archive entry %q escapes the output directory", header.Name)
		}
		target := filepath.Join(dest, filepath.FromSlash(name))

		switch header.Typeflag {
		case tar.TypeDir:
			if err := p.fs.MkdirAll(target, 0755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := p.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			data, err := io.ReadAll(tr)
			if err != nil {
				return fmt.Errorf("failed to read archive entry %q: %w", header.Name, err)
			}
			perm := header.FileInfo().Mode().Perm()
			if perm == 0 {
				perm = 0644
			}
			if err := p.fs.WriteFile(target, data, perm); err != nil {
				return err
			}
		default:
			// symlinks and specials have no business in bindgen output
			p.log.Debug("skipping archive entry", "name", header.Name, "type", header.Typeflag)
		}
	}

	return nil
}
