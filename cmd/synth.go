package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Ruola/haoda/config"
	"github.com/Ruola/haoda/log"
	"github.com/Ruola/haoda/manifest"
	"github.com/Ruola/haoda/scm"
	"github.com/Ruola/haoda/xilinx"

	"github.com/spf13/cobra"
)

var synthCmd = &cobra.Command{
	Use:   "synth",
	Args:  cobra.NoArgs,
	Short: "Synthesizes a kernel and collects the build artifacts",
	Long: `Synthesizes a kernel with Vivado HLS and collects the synthesis reports,
the generated RTL and the tool log into a tar archive.`,
	Run: runSynth,
}

var manifestFile string
var platformPath string
var partNumber string
var clockPeriod string
var resetHigh bool
var synthOutput string

func init() {
	addSynthesisFlags(synthCmd)
	synthCmd.Flags().StringVarP(&synthOutput, "output", "o", "", "Output archive. Defaults to <top>.tar.")
	rootCmd.AddCommand(synthCmd)
}

// addSynthesisFlags registers the flags shared by all commands that run
// the synthesis stage.
func addSynthesisFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&manifestFile, "manifest", "m", "kernel.yaml", "Kernel manifest file.")
	cmd.Flags().StringVarP(&platformPath, "platform", "p", "", "Platform bundle providing the part number and clock period.")
	cmd.Flags().StringVar(&partNumber, "part", "", "Target part number.")
	cmd.Flags().StringVar(&clockPeriod, "clock-period", "", "Target clock period in nanoseconds.")
	cmd.Flags().BoolVar(&resetHigh, "reset-high", false, "Generate RTL with an active-high reset.")
}

func runSynth(cmd *cobra.Command, args []string) {
	kernel := readManifest()
	req := buildRequest(kernel)
	warnUncommittedChanges()

	output := synthOutput
	if output == "" {
		output = kernel.Top + ".tar"
	}
	runSynthesis(req, output)
}

func readManifest() manifest.Manifest {
	kernel, err := manifest.Read(manifestFile)
	if err != nil {
		log.Fatal("Failed to read kernel manifest: %s.\n", err)
	}
	return kernel
}

func newToolchain() xilinx.Toolchain {
	cfg := config.GetConfig()
	return xilinx.Toolchain{Vivado: cfg.Vivado, VivadoHLS: cfg.VivadoHLS, Log: log.Logger()}
}

// buildRequest resolves the synthesis target from the flags, the
// platform bundle and the configuration, in that order.
func buildRequest(kernel manifest.Manifest) xilinx.BuildRequest {
	if len(kernel.Sources) == 0 {
		log.Fatal("Kernel manifest '%s' names no sources.\n", manifestFile)
	}

	part := partNumber
	period := clockPeriod
	if platformPath != "" && (part == "" || period == "") {
		info, err := xilinx.GetDeviceInfo(platformPath)
		if err != nil {
			log.Fatal("Failed to read platform info: %s.\n", err)
		}
		if part == "" {
			part = info.PartNum
		}
		if period == "" {
			period = info.ClockPeriod
		}
	}
	cfg := config.GetConfig()
	if part == "" {
		part = cfg.Part
	}
	if period == "" {
		period = cfg.ClockPeriod
	}
	if part == "" {
		log.Fatal("No target part number given. Use --part, --platform or the configuration file.\n")
	}
	if period == "" {
		log.Fatal("No target clock period given. Use --clock-period, --platform or the configuration file.\n")
	}

	req := xilinx.BuildRequest{
		Top:            kernel.Top,
		ClockPeriod:    period,
		Part:           part,
		ResetActiveLow: !resetHigh,
	}
	for _, source := range kernel.Sources {
		req.Sources = append(req.Sources, xilinx.KernelSource{Path: sourcePath(source.Path), CFlags: source.CFlags})
	}
	return req
}

// sourcePath resolves a manifest source path: relative paths are
// relative to the manifest file, and the tool runs outside the current
// directory, so everything becomes absolute.
func sourcePath(file string) string {
	if !filepath.IsAbs(file) {
		file = filepath.Join(filepath.Dir(manifestFile), file)
	}
	file, err := filepath.Abs(file)
	if err != nil {
		log.Fatal("Failed to resolve source path '%s': %s.\n", file, err)
	}
	return file
}

func absPath(file string) string {
	file, err := filepath.Abs(file)
	if err != nil {
		log.Fatal("Failed to resolve path '%s': %s.\n", file, err)
	}
	return file
}

func warnUncommittedChanges() {
	dir := filepath.Dir(manifestFile)
	dirty, err := scm.WorktreeDirty(dir)
	if err != nil {
		log.Debug("Failed to determine worktree state of '%s': %s.\n", dir, err)
		return
	}
	if dirty {
		log.Warning("Kernel sources in '%s' have uncommitted changes.\n", dir)
	}
}

// runSynthesis drives the synthesis stage and writes the artifact
// archive to output.
func runSynthesis(req xilinx.BuildRequest, output string) {
	archiveFile, err := os.Create(output)
	if err != nil {
		log.Fatal("Failed to create output archive: %s.\n", err)
	}

	log.Log("Synthesizing kernel '%s' for part '%s'.\n", req.Top, req.Part)
	log.Spinner.Start()
	result, err := newToolchain().RunHLS(archiveFile, req)
	log.Spinner.Stop()
	closeErr := archiveFile.Close()
	if err != nil {
		os.Remove(output)
		log.Fatal("Failed to run synthesis: %s.\n", err)
	}
	if result.ExitCode != 0 {
		os.Remove(output)
		fmt.Fprintf(os.Stderr, "%s", result.Stderr)
		log.Fatal("Synthesis failed with exit code %d.\n", result.ExitCode)
	}
	if closeErr != nil {
		log.Fatal("Failed to write output archive: %s.\n", closeErr)
	}
	log.Success("Wrote synthesis artifacts to '%s'.\n", output)
}
