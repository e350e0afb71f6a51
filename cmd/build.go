package cmd

import (
	"os"
	"path/filepath"

	"github.com/Ruola/haoda/archive"
	"github.com/Ruola/haoda/log"
	"github.com/Ruola/haoda/manifest"
	"github.com/Ruola/haoda/util"
	"github.com/Ruola/haoda/xilinx"

	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Args:  cobra.NoArgs,
	Short: "Builds a hardware object from kernel sources",
	Long: `Builds a kernel from source to hardware object: synthesizes it with
Vivado HLS, generates the kernel descriptor and packages the generated
RTL into an .xo hardware object with Vivado.`,
	Run: runBuild,
}

var buildOutput string
var keepArchive string

func init() {
	addSynthesisFlags(buildCmd)
	addPackagingFlags(buildCmd)
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "Output hardware object. Defaults to <top>.xo.")
	buildCmd.Flags().StringVar(&keepArchive, "keep-archive", "", "Also keep the synthesis archive at this path.")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) {
	kernel := readManifest()
	req := buildRequest(kernel)
	warnUncommittedChanges()

	output := buildOutput
	if output == "" {
		output = kernel.Top + ".xo"
	}

	workDir, err := os.MkdirTemp("", "haoda-build-")
	if err != nil {
		log.Fatal("Failed to create staging directory: %s.\n", err)
	}
	defer os.RemoveAll(workDir)

	archivePath := keepArchive
	if archivePath == "" {
		archivePath = filepath.Join(workDir, kernel.Top+".tar")
	}

	log.Log("Building kernel '%s':\n", kernel.Top)
	log.IndentationLevel = 1
	runSynthesis(req, archivePath)

	archiveFile, err := os.Open(archivePath)
	if err != nil {
		log.Fatal("Failed to open synthesis archive: %s.\n", err)
	}
	err = archive.Extract(archiveFile, workDir)
	archiveFile.Close()
	if err != nil {
		log.Fatal("Failed to extract synthesis archive: %s.\n", err)
	}
	rtlDir := filepath.Join(workDir, "hdl")
	if !util.DirExists(rtlDir) {
		log.Fatal("Synthesis archive contains no RTL.\n")
	}

	descriptor := filepath.Join(workDir, "kernel.xml")
	writeDescriptor(kernel, descriptor)

	cppKernels := util.MappedSlice(kernel.Sources, func(source manifest.Source) string {
		return sourcePath(source.Path)
	})
	cppKernels = append(cppKernels, util.MappedSlice(kernelFiles, absPath)...)

	runPackaging(xilinx.PackageRequest{
		XOPath:      absPath(output),
		Top:         kernel.Top,
		KernelXML:   descriptor,
		HDLDir:      rtlDir,
		MemoryPorts: memoryPorts,
		Interfaces:  busIfaces,
		CPPKernels:  cppKernels,
	})

	log.IndentationLevel = 0
	log.Success("Built kernel '%s'.\n", kernel.Top)
}
