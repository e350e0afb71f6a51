package xilinx

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"path/filepath"

	"github.com/Ruola/haoda/archive"
)

// ErrMissingArtifact reports an expected synthesis output missing from
// the tool working tree.
var ErrMissingArtifact = errors.New("missing synthesis artifact")

// hlsLogFileName is the log file the synthesis tool writes into its
// working directory.
const hlsLogFileName = "vivado_hls.log"

// schedReportPatterns match the scheduling reports collected from the
// tool's internal database and flattened into the report/ entry.
var schedReportPatterns = []string{
	"*.sched.adb.xml",
	"*.verbose.sched.rpt",
	"*.verbose.sched.rpt.xml",
}

// RunHLS synthesizes one kernel and, on success, streams the artifact
// archive to w: the reports under report/, the generated RTL under
// hdl/ and the tool log as log/<top>.log. The tool runs in a private
// working directory that is deleted before RunHLS returns. A tool
// success with expected artifacts missing is reclassified as exit
// code 1.
func (tc Toolchain) RunHLS(w io.Writer, req BuildRequest) (result Result, err error) {
	script, err := SynthScript(req)
	if err != nil {
		return Result{}, err
	}
	tool, err := tc.StartVivadoHLS(script)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if closeErr := tool.Close(); err == nil {
			err = closeErr
		}
	}()

	if err := tool.Wait(); err != nil {
		return Result{}, err
	}
	result = tool.Result()
	if result.ExitCode != 0 {
		return result, nil
	}

	if err := tc.collectArtifacts(w, tool.Dir(), req.Top); err != nil {
		if errors.Is(err, ErrMissingArtifact) {
			result.ExitCode = 1
			return result, nil
		}
		return result, err
	}
	return result, nil
}

func (tc Toolchain) collectArtifacts(w io.Writer, dir, top string) error {
	tw := tar.NewWriter(w)
	solutionDir := filepath.Join(dir, "project", top)

	reportDir := filepath.Join(solutionDir, "syn", "report")
	if err := archive.AddTree(tw, reportDir, "report"); err != nil {
		return tc.classifyArtifactError(err, reportDir)
	}
	hdlDir := filepath.Join(solutionDir, "syn", "verilog")
	if err := archive.AddTree(tw, hdlDir, "hdl"); err != nil {
		return tc.classifyArtifactError(err, hdlDir)
	}
	logFile := filepath.Join(dir, hlsLogFileName)
	if err := archive.AddFile(tw, logFile, path.Join("log", top+".log")); err != nil {
		return tc.classifyArtifactError(err, logFile)
	}
	for _, pattern := range schedReportPatterns {
		matches, err := filepath.Glob(filepath.Join(solutionDir, ".autopilot", "db", pattern))
		if err != nil {
			return err
		}
		for _, match := range matches {
			if err := archive.AddFile(tw, match, path.Join("report", filepath.Base(match))); err != nil {
				return tc.classifyArtifactError(err, match)
			}
		}
	}
	return tw.Close()
}

// classifyArtifactError turns a missing expected path into the
// artifact-missing failure, logged at error severity. Other errors
// pass through.
func (tc Toolchain) classifyArtifactError(err error, source string) error {
	if errors.Is(err, fs.ErrNotExist) {
		tc.logger().Errorf("missing synthesis artifact '%s'", source)
		return fmt.Errorf("%w: '%s'", ErrMissingArtifact, source)
	}
	return err
}

// PackageXO packages pre-synthesized RTL into the hardware object at
// req.XOPath. The object is written by the external tool itself; the
// returned Result carries its exit status and captured streams. The
// tool working directory is deleted before PackageXO returns.
func (tc Toolchain) PackageXO(req PackageRequest) (result Result, err error) {
	filepath.WalkDir(req.HDLDir, func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr == nil && !entry.IsDir() {
			tc.logger().Infof("packing: %s", entry.Name())
		}
		return nil
	})

	script, err := PackageScript(req)
	if err != nil {
		return Result{}, err
	}
	tool, err := tc.StartVivado(script)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if closeErr := tool.Close(); err == nil {
			err = closeErr
		}
	}()

	if err := tool.Wait(); err != nil {
		return Result{}, err
	}
	return tool.Result(), nil
}
