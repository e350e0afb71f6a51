package manifest

import (
	"fmt"

	"github.com/Ruola/haoda/util"
)

// Port directions.
const (
	Input  = "input"
	Output = "output"
)

// Port describes one AXI4-Stream interface of a kernel.
type Port struct {
	Name      string `yaml:"name"`
	Direction string `yaml:"direction"`
	Width     int    `yaml:"width"`
}

// Source is one kernel source file passed to synthesis, with optional
// extra compile flags.
type Source struct {
	Path   string `yaml:"path"`
	CFlags string `yaml:"cflags"`
}

// Manifest describes a single hardware kernel: the top-level function,
// its streaming ports and the source files it is synthesized from.
// Port order is significant and preserved from the manifest file.
type Manifest struct {
	Top     string   `yaml:"top"`
	Ports   []Port   `yaml:"ports"`
	Sources []Source `yaml:"sources"`
}

// Read loads and validates the kernel manifest at `file`.
func Read(file string) (Manifest, error) {
	var manifest Manifest
	if err := util.ReadYaml(file, &manifest); err != nil {
		return manifest, err
	}
	if err := manifest.Validate(); err != nil {
		return manifest, fmt.Errorf("%s: %s", file, err)
	}
	return manifest, nil
}

// Validate checks the manifest for structural errors. Sources may be
// empty: packaging pre-built HDL does not need them.
func (m Manifest) Validate() error {
	if m.Top == "" {
		return fmt.Errorf("kernel top is missing")
	}
	names := map[string]bool{}
	for idx, port := range m.Ports {
		if port.Name == "" {
			return fmt.Errorf("port %d: name is missing", idx)
		}
		if names[port.Name] {
			return fmt.Errorf("port %d: duplicate name '%s'", idx, port.Name)
		}
		names[port.Name] = true
		if port.Direction != Input && port.Direction != Output {
			return fmt.Errorf("port '%s': unknown direction '%s'", port.Name, port.Direction)
		}
		if port.Width < 1 {
			return fmt.Errorf("port '%s': invalid width %d", port.Name, port.Width)
		}
	}
	for idx, source := range m.Sources {
		if source.Path == "" {
			return fmt.Errorf("source %d: path is missing", idx)
		}
	}
	return nil
}

// Inputs returns the input ports in manifest order.
func (m Manifest) Inputs() []Port {
	return m.filterPorts(Input)
}

// Outputs returns the output ports in manifest order.
func (m Manifest) Outputs() []Port {
	return m.filterPorts(Output)
}

func (m Manifest) filterPorts(direction string) []Port {
	ports := []Port{}
	for _, port := range m.Ports {
		if port.Direction == direction {
			ports = append(ports, port)
		}
	}
	return ports
}
