// Package xilinx drives the external Xilinx toolchain: it renders the
// Tcl control scripts, generates the kernel descriptor, runs the tools
// in isolated working directories and collects their artifacts.
package xilinx

import (
	"encoding/xml"
	"fmt"
	"io"
)

// StreamPort describes one AXI4-Stream interface of a kernel, with the
// raw data width in bits.
type StreamPort struct {
	Name  string
	Width int
}

// Port modes in the kernel descriptor.
const (
	modeReadOnly  = "read_only"
	modeWriteOnly = "write_only"
)

// Fixed argument encoding of the descriptor format.
const (
	streamAddressQualifier = 4
	argSizeBytes           = 8
	argHostSizeBytes       = 8
)

// paddedWidth adds the stream sideband bits to the raw data width.
func paddedWidth(width int) int {
	return width + 8 + width/8*2
}

type descriptorPort struct {
	Name      string `xml:"name,attr"`
	Mode      string `xml:"mode,attr"`
	DataWidth int    `xml:"dataWidth,attr"`
	PortType  string `xml:"portType,attr"`
}

type descriptorArg struct {
	Name             string `xml:"name,attr"`
	AddressQualifier int    `xml:"addressQualifier,attr"`
	ID               int    `xml:"id,attr"`
	Port             string `xml:"port,attr"`
	Size             string `xml:"size,attr"`
	Offset           string `xml:"offset,attr"`
	HostOffset       string `xml:"hostOffset,attr"`
	HostSize         string `xml:"hostSize,attr"`
	Type             string `xml:"type,attr"`
}

type descriptorPorts struct {
	Ports []descriptorPort `xml:"port"`
}

type descriptorArgs struct {
	Args []descriptorArg `xml:"arg"`
}

type descriptorKernel struct {
	Name                           string          `xml:"name,attr"`
	Language                       string          `xml:"language,attr"`
	VLNV                           string          `xml:"vlnv,attr"`
	Attributes                     string          `xml:"attributes,attr"`
	PreferredWorkGroupSizeMultiple int             `xml:"preferredWorkGroupSizeMultiple,attr"`
	WorkGroupSize                  int             `xml:"workGroupSize,attr"`
	Interrupt                      bool            `xml:"interrupt,attr"`
	Ports                          descriptorPorts `xml:"ports"`
	Args                           descriptorArgs  `xml:"args"`
}

type descriptorRoot struct {
	XMLName      xml.Name         `xml:"root"`
	VersionMajor int              `xml:"versionMajor,attr"`
	VersionMinor int              `xml:"versionMinor,attr"`
	Kernel       descriptorKernel `xml:"kernel"`
}

// streamArg encodes the argument entry of one direction group. The
// entry carries the name and port of the group's first member; an
// empty group yields an empty name and a width of zero.
func streamArg(id int, ports []StreamPort) descriptorArg {
	arg := descriptorArg{
		AddressQualifier: streamAddressQualifier,
		ID:               id,
		Size:             fmt.Sprintf("%#x", argSizeBytes),
		Offset:           fmt.Sprintf("%#x", 0),
		HostOffset:       fmt.Sprintf("%#x", 0),
		HostSize:         fmt.Sprintf("%#x", argHostSizeBytes),
	}
	width := 0
	if len(ports) > 0 {
		arg.Name = ports[0].Name
		arg.Port = ports[0].Name
		width = ports[0].Width
	}
	arg.Type = fmt.Sprintf("stream<ap_axiu<%d, 0, 0, 0>>&", width)
	return arg
}

// WriteKernelXML writes the kernel descriptor consumed by the packaging
// stage and by host-side loaders. One <port> is emitted per port with
// the padded stream width; exactly two <arg> entries are emitted, id 0
// for the read-only group and id 1 for the write-only group, however
// many ports each group contains.
func WriteKernelXML(w io.Writer, top string, inputs, outputs []StreamPort) error {
	kernel := descriptorKernel{
		Name:          top,
		Language:      "ip_c",
		VLNV:          fmt.Sprintf("xilinx.com:RTLKernel:%s:1.0", top),
		WorkGroupSize: 1,
		Interrupt:     true,
	}
	for _, port := range inputs {
		kernel.Ports.Ports = append(kernel.Ports.Ports, descriptorPort{
			Name:      port.Name,
			Mode:      modeReadOnly,
			DataWidth: paddedWidth(port.Width),
			PortType:  "stream",
		})
	}
	for _, port := range outputs {
		kernel.Ports.Ports = append(kernel.Ports.Ports, descriptorPort{
			Name:      port.Name,
			Mode:      modeWriteOnly,
			DataWidth: paddedWidth(port.Width),
			PortType:  "stream",
		})
	}
	kernel.Args.Args = []descriptorArg{streamArg(0, inputs), streamArg(1, outputs)}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(descriptorRoot{VersionMajor: 1, VersionMinor: 6, Kernel: kernel}); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
