package cmd

import (
	"fmt"

	"github.com/Ruola/haoda/log"
	"github.com/Ruola/haoda/xilinx"

	"github.com/spf13/cobra"
)

var platformCmd = &cobra.Command{
	Use:   "platform <path>",
	Args:  cobra.ExactArgs(1),
	Short: "Prints the device info of a platform bundle",
	Long: `Prints the part number and the default clock period stored in a
platform bundle.`,
	Run: runPlatform,
}

func init() {
	rootCmd.AddCommand(platformCmd)
}

func runPlatform(cmd *cobra.Command, args []string) {
	info, err := xilinx.GetDeviceInfo(args[0])
	if err != nil {
		log.Fatal("Failed to read platform info: %s.\n", err)
	}
	fmt.Printf("part: %s\n", info.PartNum)
	fmt.Printf("clock period: %s\n", info.ClockPeriod)
}
