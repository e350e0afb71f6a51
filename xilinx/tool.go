package xilinx

import (
	"bytes"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/Ruola/haoda/util"

	"github.com/sirupsen/logrus"
)

// Default executable names, resolved through PATH. Overridable per
// Toolchain.
const (
	defaultVivado    = "vivado"
	defaultVivadoHLS = "vivado_hls"
)

// scriptFileName is the fixed name the control script is persisted
// under inside the tool working directory.
const scriptFileName = "commands.tcl"

// Toolchain locates the external Xilinx tools and carries the
// diagnostic sink used by the orchestration entry points.
type Toolchain struct {
	Vivado    string
	VivadoHLS string

	// Log receives diagnostics. nil discards them.
	Log logrus.FieldLogger
}

var discardLogger = func() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}()

func (tc Toolchain) logger() logrus.FieldLogger {
	if tc.Log != nil {
		return tc.Log
	}
	return discardLogger
}

// Result is the captured outcome of one external tool run.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Tool is a running external tool rooted in a private working
// directory. Close must be called to release the directory.
type Tool struct {
	cmd     *exec.Cmd
	dir     string
	stdout  bytes.Buffer
	stderr  bytes.Buffer
	waited  bool
	waitErr error
	exit    int
}

func (tc Toolchain) start(dirPrefix, command string, args []string, script string) (*Tool, error) {
	dir, err := os.MkdirTemp("", dirPrefix)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(dir, scriptFileName), []byte(script), util.FileMode); err != nil {
		os.RemoveAll(dir)
		return nil, err
	}

	tool := &Tool{dir: dir}
	tool.cmd = exec.Command(command, args...)
	tool.cmd.Dir = dir
	tool.cmd.Stdout = &tool.stdout
	tool.cmd.Stderr = &tool.stderr
	tc.logger().Debugf("running '%s %s' in '%s'", command, strings.Join(args, " "), dir)
	if err := tool.cmd.Start(); err != nil {
		os.RemoveAll(dir)
		return nil, err
	}
	return tool, nil
}

// StartVivado launches the packaging tool on script in a fresh working
// directory. Additional arguments are passed to the script through
// -tclargs, which is always present even when there are none.
func (tc Toolchain) StartVivado(script string, args ...string) (*Tool, error) {
	command := tc.Vivado
	if command == "" {
		command = defaultVivado
	}
	argv := append([]string{"-mode", "batch", "-source", scriptFileName, "-nojournal", "-tclargs"}, args...)
	return tc.start("vivado-", command, argv, script)
}

// StartVivadoHLS launches the synthesis tool on script in a fresh
// working directory.
func (tc Toolchain) StartVivadoHLS(script string) (*Tool, error) {
	command := tc.VivadoHLS
	if command == "" {
		command = defaultVivadoHLS
	}
	return tc.start("vivado-hls-", command, []string{"-f", scriptFileName}, script)
}

// Dir returns the tool working directory.
func (t *Tool) Dir() string {
	return t.dir
}

// Wait blocks until the tool exits. A non-zero tool exit status is not
// an error; it is reported through Result.
func (t *Tool) Wait() error {
	if !t.waited {
		t.waited = true
		err := t.cmd.Wait()
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			t.exit = exitErr.ExitCode()
		} else {
			t.waitErr = err
		}
	}
	return t.waitErr
}

// Result returns the captured outcome. It is valid once Wait returned.
func (t *Tool) Result() Result {
	return Result{ExitCode: t.exit, Stdout: t.stdout.Bytes(), Stderr: t.stderr.Bytes()}
}

// Close waits for the tool to exit if necessary and deletes the working
// directory together with everything the tool left behind. Deletion
// failures are reported, never masked.
func (t *Tool) Close() error {
	waitErr := t.Wait()
	if err := os.RemoveAll(t.dir); err != nil {
		return err
	}
	return waitErr
}
