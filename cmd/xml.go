package cmd

import (
	"bytes"
	"fmt"

	"github.com/Ruola/haoda/log"
	"github.com/Ruola/haoda/xilinx"

	"github.com/spf13/cobra"
)

var xmlCmd = &cobra.Command{
	Use:   "xml",
	Args:  cobra.NoArgs,
	Short: "Generates the kernel descriptor for a manifest",
	Long: `Generates the kernel.xml descriptor consumed by the packaging stage
and by host-side loaders.`,
	Run: runXML,
}

var xmlOutput string

func init() {
	xmlCmd.Flags().StringVarP(&manifestFile, "manifest", "m", "kernel.yaml", "Kernel manifest file.")
	xmlCmd.Flags().StringVarP(&xmlOutput, "output", "o", "", "Output file. Defaults to stdout.")
	rootCmd.AddCommand(xmlCmd)
}

func runXML(cmd *cobra.Command, args []string) {
	kernel := readManifest()

	if xmlOutput == "" {
		var buf bytes.Buffer
		if err := xilinx.WriteKernelXML(&buf, kernel.Top, streamPorts(kernel.Inputs()), streamPorts(kernel.Outputs())); err != nil {
			log.Fatal("Failed to generate kernel descriptor: %s.\n", err)
		}
		fmt.Print(buf.String())
		return
	}
	writeDescriptor(kernel, xmlOutput)
	log.Success("Wrote kernel descriptor to '%s'.\n", xmlOutput)
}
