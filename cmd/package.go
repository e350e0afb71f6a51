package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Ruola/haoda/log"
	"github.com/Ruola/haoda/manifest"
	"github.com/Ruola/haoda/util"
	"github.com/Ruola/haoda/xilinx"

	"github.com/spf13/cobra"
)

var packageCmd = &cobra.Command{
	Use:   "package",
	Args:  cobra.NoArgs,
	Short: "Packages synthesized RTL into a hardware object",
	Long: `Packages synthesized RTL into an .xo hardware object with Vivado. The
kernel descriptor is generated from the manifest unless one is given
explicitly.`,
	Run: runPackage,
}

var hdlDir string
var packageOutput string
var kernelXMLFile string
var memoryPorts []string
var busIfaces []string
var kernelFiles []string

func init() {
	packageCmd.Flags().StringVarP(&manifestFile, "manifest", "m", "kernel.yaml", "Kernel manifest file.")
	packageCmd.Flags().StringVar(&hdlDir, "hdl-dir", "", "Directory holding the synthesized RTL.")
	packageCmd.Flags().StringVarP(&packageOutput, "output", "o", "", "Output hardware object. Defaults to <top>.xo.")
	packageCmd.Flags().StringVar(&kernelXMLFile, "kernel-xml", "", "Existing kernel descriptor to package with.")
	addPackagingFlags(packageCmd)
	rootCmd.AddCommand(packageCmd)
}

// addPackagingFlags registers the flags shared by all commands that run
// the packaging stage.
func addPackagingFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&memoryPorts, "memory-port", nil, "Kernel port bound to the memory bus. May be repeated.")
	cmd.Flags().StringArrayVar(&busIfaces, "interface", nil, "Bus interface associated with the kernel clock, replacing the default s_axi_control. May be repeated.")
	cmd.Flags().StringArrayVar(&kernelFiles, "kernel-file", nil, "Kernel source file embedded for software emulation. May be repeated.")
}

func runPackage(cmd *cobra.Command, args []string) {
	kernel := readManifest()
	if hdlDir == "" {
		log.Fatal("No RTL directory given. Use --hdl-dir.\n")
	}
	if !util.DirExists(hdlDir) {
		log.Fatal("RTL directory '%s' does not exist.\n", hdlDir)
	}

	output := packageOutput
	if output == "" {
		output = kernel.Top + ".xo"
	}

	descriptor := kernelXMLFile
	if descriptor == "" {
		stagingDir, err := os.MkdirTemp("", "haoda-package-")
		if err != nil {
			log.Fatal("Failed to create staging directory: %s.\n", err)
		}
		defer os.RemoveAll(stagingDir)
		descriptor = filepath.Join(stagingDir, "kernel.xml")
		writeDescriptor(kernel, descriptor)
	}

	runPackaging(xilinx.PackageRequest{
		XOPath:      absPath(output),
		Top:         kernel.Top,
		KernelXML:   absPath(descriptor),
		HDLDir:      absPath(hdlDir),
		MemoryPorts: memoryPorts,
		Interfaces:  busIfaces,
		CPPKernels:  util.MappedSlice(kernelFiles, absPath),
	})
}

// writeDescriptor generates the kernel descriptor for the manifest.
func writeDescriptor(kernel manifest.Manifest, file string) {
	var buf bytes.Buffer
	if err := xilinx.WriteKernelXML(&buf, kernel.Top, streamPorts(kernel.Inputs()), streamPorts(kernel.Outputs())); err != nil {
		log.Fatal("Failed to generate kernel descriptor: %s.\n", err)
	}
	if err := util.WriteFile(file, buf.Bytes()); err != nil {
		log.Fatal("%s.\n", err)
	}
}

func streamPorts(ports []manifest.Port) []xilinx.StreamPort {
	return util.MappedSlice(ports, func(port manifest.Port) xilinx.StreamPort {
		return xilinx.StreamPort{Name: port.Name, Width: port.Width}
	})
}

// runPackaging drives the packaging stage and checks that the external
// tool produced the hardware object.
func runPackaging(req xilinx.PackageRequest) {
	log.Log("Packaging kernel '%s' into '%s'.\n", req.Top, req.XOPath)
	log.Spinner.Start()
	result, err := newToolchain().PackageXO(req)
	log.Spinner.Stop()
	if err != nil {
		log.Fatal("Failed to run packaging: %s.\n", err)
	}
	if result.ExitCode != 0 {
		fmt.Fprintf(os.Stderr, "%s", result.Stderr)
		log.Fatal("Packaging failed with exit code %d.\n", result.ExitCode)
	}
	if !util.FileExists(req.XOPath) {
		log.Fatal("Packaging did not produce '%s'.\n", req.XOPath)
	}
	log.Success("Wrote hardware object to '%s'.\n", req.XOPath)
}
