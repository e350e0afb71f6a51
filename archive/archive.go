// Package archive assembles and extracts the tar archives that carry
// synthesis artifacts between the build stages.
package archive

import (
	"archive/tar"
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const defaultDirMode = 0775

// AddFile stores the file at `file` in the archive under `name`.
func AddFile(tw *tar.Writer, file, name string) error {
	info, err := os.Stat(file)
	if err != nil {
		return err
	}
	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return fmt.Errorf("failed to create tar header for '%s': %s", file, err)
	}
	header.Name = name
	if err := tw.WriteHeader(header); err != nil {
		return fmt.Errorf("failed to write tar header for '%s': %s", name, err)
	}
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("failed to write '%s': %s", name, err)
	}
	return nil
}

// AddTree stores the directory tree rooted at `dir` in the archive,
// with `prefix` replacing `dir` in the entry names.
func AddTree(tw *tar.Writer, dir, prefix string) error {
	if _, err := os.Stat(dir); err != nil {
		return err
	}
	return filepath.Walk(dir, func(file string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, file)
		if err != nil {
			return err
		}
		name := prefix
		if rel != "." {
			name = path.Join(prefix, filepath.ToSlash(rel))
		}

		link := ""
		if info.Mode()&os.ModeSymlink != 0 {
			if link, err = os.Readlink(file); err != nil {
				return err
			}
		}
		header, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return fmt.Errorf("failed to create tar header for '%s': %s", file, err)
		}
		header.Name = name
		if info.IsDir() {
			header.Name += "/"
		}
		if err := tw.WriteHeader(header); err != nil {
			return fmt.Errorf("failed to write tar header for '%s': %s", name, err)
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		if _, err := io.Copy(tw, f); err != nil {
			return fmt.Errorf("failed to write '%s': %s", name, err)
		}
		return nil
	})
}

// entryPath resolves an archive entry name below `dir` and rejects
// entries that would escape it.
func entryPath(dir, name string) (string, error) {
	p := filepath.Join(dir, name)
	if p != dir && !strings.HasPrefix(p, dir+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry '%s' escapes the destination directory", name)
	}
	return p, nil
}

// Extract unpacks the (optionally gzip-compressed) tar archive read
// from `r` into the directory `dir`.
func Extract(r io.Reader, dir string) error {
	br := bufio.NewReader(r)
	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return fmt.Errorf("failed to decompress: %s", err)
		}
		defer gz.Close()
		return extractTar(tar.NewReader(gz), dir)
	}
	return extractTar(tar.NewReader(br), dir)
}

func extractTar(tr *tar.Reader, dir string) error {
	for {
		header, err := tr.Next()

		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read archive: %s", err)
		}

		filePath, err := entryPath(dir, header.Name)
		if err != nil {
			return err
		}

		// The archive does not necessarily contain an entry for a directory
		// before the files inside it. Missing parents are created with a
		// default mode and receive their recorded mode once their own entry
		// is reached.
		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(filePath, os.FileMode(header.Mode)); err != nil {
				return fmt.Errorf("failed to create directory: %s", err)
			}
			if err := os.Chmod(filePath, os.FileMode(header.Mode)); err != nil {
				return fmt.Errorf("failed to change filemode: %s", err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(filePath), defaultDirMode); err != nil {
				return fmt.Errorf("failed to create directory: %s", err)
			}
			file, err := os.Create(filePath)
			if err != nil {
				return fmt.Errorf("failed to create file: %s", err)
			}
			_, err = io.Copy(file, tr)
			file.Close()
			if err != nil {
				return fmt.Errorf("failed to write file: %s", err)
			}
			if err := os.Chmod(filePath, os.FileMode(header.Mode)); err != nil {
				return fmt.Errorf("failed to change filemode: %s", err)
			}
		case tar.TypeLink:
			oldname, err := entryPath(dir, header.Linkname)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(filePath), defaultDirMode); err != nil {
				return fmt.Errorf("failed to create directory: %s", err)
			}
			if err := os.Link(oldname, filePath); err != nil {
				return fmt.Errorf("failed to create link: %s", err)
			}
		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(filePath), defaultDirMode); err != nil {
				return fmt.Errorf("failed to create directory: %s", err)
			}
			if err := os.Symlink(header.Linkname, filePath); err != nil {
				return fmt.Errorf("failed to create symlink: %s", err)
			}
		default:
			return fmt.Errorf("unknown tar type flag %d for entry '%s'", header.Typeflag, header.Name)
		}
	}
}
