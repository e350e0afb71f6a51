package manifest

import (
	"path"
	"strings"
	"testing"

	"github.com/Ruola/haoda/util"
)

const exampleManifest = `top: add_kernel
ports:
  - name: in0
    direction: input
    width: 32
  - name: in1
    direction: input
    width: 32
  - name: out0
    direction: output
    width: 64
sources:
  - path: add_kernel.cpp
  - path: helpers.cpp
    cflags: -DUNROLL=8
`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	file := path.Join(t.TempDir(), "kernel.yaml")
	if err := util.WriteFile(file, []byte(content)); err != nil {
		t.Fatalf("failed to write manifest: %s", err)
	}
	return file
}

func TestReadManifest(t *testing.T) {
	manifest, err := Read(writeManifest(t, exampleManifest))
	if err != nil {
		t.Fatalf("failed to read manifest: %s", err)
	}

	if manifest.Top != "add_kernel" {
		t.Fatalf("unexpected top '%s'", manifest.Top)
	}
	if len(manifest.Ports) != 3 {
		t.Fatalf("unexpected number of ports: %d", len(manifest.Ports))
	}
	if len(manifest.Sources) != 2 {
		t.Fatalf("unexpected number of sources: %d", len(manifest.Sources))
	}
	if manifest.Sources[1].CFlags != "-DUNROLL=8" {
		t.Fatalf("unexpected cflags '%s'", manifest.Sources[1].CFlags)
	}
}

func TestManifestDirectionGroupsPreserveOrder(t *testing.T) {
	manifest, err := Read(writeManifest(t, exampleManifest))
	if err != nil {
		t.Fatalf("failed to read manifest: %s", err)
	}

	inputs := manifest.Inputs()
	if len(inputs) != 2 || inputs[0].Name != "in0" || inputs[1].Name != "in1" {
		t.Fatalf("unexpected inputs: %+v", inputs)
	}
	outputs := manifest.Outputs()
	if len(outputs) != 1 || outputs[0].Name != "out0" {
		t.Fatalf("unexpected outputs: %+v", outputs)
	}
}

func TestReadManifestMissingTop(t *testing.T) {
	_, err := Read(writeManifest(t, "ports:\n  - name: in0\n    direction: input\n    width: 32\n"))
	if err == nil || !strings.Contains(err.Error(), "top is missing") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestReadManifestUnknownDirection(t *testing.T) {
	_, err := Read(writeManifest(t, "top: k\nports:\n  - name: in0\n    direction: inout\n    width: 32\n"))
	if err == nil || !strings.Contains(err.Error(), "unknown direction 'inout'") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestReadManifestDuplicatePortName(t *testing.T) {
	_, err := Read(writeManifest(t, `top: k
ports:
  - name: in0
    direction: input
    width: 32
  - name: in0
    direction: output
    width: 32
`))
	if err == nil || !strings.Contains(err.Error(), "duplicate name 'in0'") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestReadManifestInvalidWidth(t *testing.T) {
	_, err := Read(writeManifest(t, "top: k\nports:\n  - name: in0\n    direction: input\n    width: 0\n"))
	if err == nil || !strings.Contains(err.Error(), "invalid width 0") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestReadManifestWithoutSources(t *testing.T) {
	manifest, err := Read(writeManifest(t, "top: k\nports:\n  - name: in0\n    direction: input\n    width: 32\n"))
	if err != nil {
		t.Fatalf("manifests without sources must be accepted: %s", err)
	}
	if len(manifest.Sources) != 0 {
		t.Fatalf("unexpected sources: %+v", manifest.Sources)
	}
}
