package cmd

import (
	"os"

	"github.com/Ruola/haoda/log"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "haoda",
	Short: "The HaoDA hardware kernel build tool",
	Long: `The HaoDA hardware kernel build tool drives the Xilinx toolchain to turn
C++ dataflow kernels into hardware objects: it synthesizes kernels with
Vivado HLS, packages the generated RTL with Vivado, and generates the
FIFO primitives connecting the kernels.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.PersistentFlags().BoolVarP(&log.Verbose, "verbose", "v", false, "Print debug output")
	if rootCmd.Execute() != nil {
		os.Exit(1)
	}
}
