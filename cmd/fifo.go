package cmd

import (
	"bytes"
	"fmt"
	"io"

	"github.com/Ruola/haoda/log"
	"github.com/Ruola/haoda/util"
	"github.com/Ruola/haoda/verilog"

	"github.com/spf13/cobra"
)

var fifoCmd = &cobra.Command{
	Use:   "fifo",
	Args:  cobra.NoArgs,
	Short: "Generates a first-word fall-through FIFO module",
	Long: `Generates a first-word fall-through FIFO Verilog module. The
implementation is selected by capacity unless forced: FIFOs above the
threshold use block RAM, the rest use shift register lookup.`,
	Run: runFifo,
}

var fifoWidth int
var fifoDepth int
var fifoImpl string
var fifoName string
var fifoThreshold int
var fifoWrapper bool
var fifoOutput string

func init() {
	fifoCmd.Flags().IntVar(&fifoWidth, "width", 32, "Data width in bits.")
	fifoCmd.Flags().IntVar(&fifoDepth, "depth", 2, "FIFO depth in words.")
	fifoCmd.Flags().StringVar(&fifoImpl, "impl", "auto", "Implementation: auto, bram or srl.")
	fifoCmd.Flags().StringVar(&fifoName, "name", "", "Module name. Defaults to fifo_w<width>_d<depth>_A.")
	fifoCmd.Flags().IntVar(&fifoThreshold, "threshold", verilog.DefaultFifoThreshold, "Capacity in bits above which auto selects block RAM.")
	fifoCmd.Flags().BoolVar(&fifoWrapper, "wrapper", false, "Emit both implementations plus an elaboration-time wrapper.")
	fifoCmd.Flags().StringVarP(&fifoOutput, "output", "o", "", "Output file. Defaults to stdout.")
	rootCmd.AddCommand(fifoCmd)
}

func runFifo(cmd *cobra.Command, args []string) {
	impl, err := parseFifoImpl(fifoImpl)
	if err != nil {
		log.Fatal("%s.\n", err)
	}

	var buf bytes.Buffer
	if fifoWrapper {
		err = writeFifoWrapper(&buf)
	} else {
		err = verilog.Fifo(&buf, verilog.FifoSpec{
			Width:     fifoWidth,
			Depth:     fifoDepth,
			Impl:      impl,
			Name:      fifoName,
			Threshold: fifoThreshold,
		})
	}
	if err != nil {
		log.Fatal("Failed to generate FIFO: %s.\n", err)
	}

	if fifoOutput == "" {
		fmt.Print(buf.String())
		return
	}
	if err := util.WriteFile(fifoOutput, buf.Bytes()); err != nil {
		log.Fatal("%s.\n", err)
	}
	log.Success("Wrote FIFO module to '%s'.\n", fifoOutput)
}

func parseFifoImpl(impl string) (verilog.FifoImpl, error) {
	switch impl {
	case "auto":
		return verilog.FifoAuto, nil
	case "bram":
		return verilog.FifoBRAM, nil
	case "srl":
		return verilog.FifoSRL, nil
	}
	return verilog.FifoAuto, fmt.Errorf("unknown FIFO implementation '%s'", impl)
}

// writeFifoWrapper emits both concrete FIFOs under their fixed names
// and the wrapper that picks one of them at elaboration time.
func writeFifoWrapper(w io.Writer) error {
	if err := verilog.BRAMFifo(w, verilog.FifoSpec{Width: fifoWidth, Depth: fifoDepth, Name: "fifo_bram"}); err != nil {
		return err
	}
	if err := verilog.SRLFifo(w, verilog.FifoSpec{Width: fifoWidth, Depth: fifoDepth, Name: "fifo_srl"}); err != nil {
		return err
	}
	return verilog.AutoFifo(w, fifoName)
}
