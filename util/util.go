package util

import (
	"fmt"
	"os"
	"path"

	"gopkg.in/yaml.v2"
)

// FileMode is the default FileMode used when creating files.
const FileMode = 0664

// DirMode is the default FileMode used when creating directories.
const DirMode = 0775

// FileExists checks whether some file exists.
func FileExists(file string) bool {
	stat, err := os.Stat(file)
	return err == nil && !stat.IsDir()
}

// DirExists checks whether some directory exists.
func DirExists(dir string) bool {
	stat, err := os.Stat(dir)
	return err == nil && stat.IsDir()
}

// WriteFile writes data to a file, creating any missing parent directories.
func WriteFile(file string, data []byte) error {
	if err := os.MkdirAll(path.Dir(file), DirMode); err != nil {
		return fmt.Errorf("failed to create directory '%s': %s", path.Dir(file), err)
	}
	if err := os.WriteFile(file, data, FileMode); err != nil {
		return fmt.Errorf("failed to write file '%s': %s", file, err)
	}
	return nil
}

// ReadYaml reads the YAML file at `file` into `v`.
func ReadYaml(file string, v interface{}) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse '%s': %s", file, err)
	}
	return nil
}
