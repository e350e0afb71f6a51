package util

import (
	"os"
	"path"
	"testing"
)

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := path.Join(dir, "some.txt")
	if FileExists(file) {
		t.Fatal("file should not exist yet")
	}
	if err := os.WriteFile(file, []byte("data"), FileMode); err != nil {
		t.Fatalf("failed to create file: %s", err)
	}
	if !FileExists(file) {
		t.Fatal("file should exist")
	}
	if FileExists(dir) {
		t.Fatal("a directory is not a file")
	}
}

func TestDirExists(t *testing.T) {
	dir := t.TempDir()
	if !DirExists(dir) {
		t.Fatal("directory should exist")
	}
	if DirExists(path.Join(dir, "missing")) {
		t.Fatal("directory should not exist")
	}
}

func TestWriteFileCreatesParentDirectories(t *testing.T) {
	file := path.Join(t.TempDir(), "a", "b", "some.txt")
	if err := WriteFile(file, []byte("data")); err != nil {
		t.Fatalf("failed to write file: %s", err)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to read file back: %s", err)
	}
	if string(data) != "data" {
		t.Fatalf("unexpected file content '%s'", data)
	}
}

func TestReadYaml(t *testing.T) {
	file := path.Join(t.TempDir(), "some.yaml")
	if err := WriteFile(file, []byte("top: add_kernel\n")); err != nil {
		t.Fatalf("failed to write file: %s", err)
	}

	var parsed struct {
		Top string `yaml:"top"`
	}
	if err := ReadYaml(file, &parsed); err != nil {
		t.Fatalf("failed to read yaml: %s", err)
	}
	if parsed.Top != "add_kernel" {
		t.Fatalf("unexpected value '%s'", parsed.Top)
	}
}

func TestReadYamlRejectsMalformedInput(t *testing.T) {
	file := path.Join(t.TempDir(), "some.yaml")
	if err := WriteFile(file, []byte(":\n\t-")); err != nil {
		t.Fatalf("failed to write file: %s", err)
	}

	var parsed map[string]string
	if err := ReadYaml(file, &parsed); err == nil {
		t.Fatal("expected an error for malformed yaml")
	}
}
