// Package driver implements the external collaborators the translator
// itself stays out of: invoking the assembler and linker as
// subprocesses, temp-file lifecycle, and the CLI-level contract of the
// `bcc` command. The subprocess pattern (blocking exec.Command,
// exit-status translated to a wrapped error) mirrors how other Go
// compiler front ends shell out to their own toolchains.
package driver

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Spydr06/BCause/internal/compiler"
	"github.com/Spydr06/BCause/internal/libb"
)

// Options configures one driver invocation: its fields mirror the
// `bcc` command's flag surface one-to-one.
type Options struct {
	Output      string   // -o FILE; default "a.out"
	StopAfterS  bool     // -S
	StopAfterC  bool     // -c
	SaveTemps   bool     // -save-temps
	LibDirs     []string // -L DIR (repeatable)
	Logger      *zap.SugaredLogger
}

type Driver struct {
	opts Options
}

func New(opts Options) *Driver {
	if opts.Output == "" {
		opts.Output = "a.out"
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	return &Driver{opts: opts}
}

// Run compiles every .b file in files, assembles, and links, honoring
// the early-stop flags. Non-.b inputs are a diagnostic: only
// `.b`-suffixed files are accepted as translation units.
func (d *Driver) Run(files []string) error {
	log := d.opts.Logger
	var sources []string
	for _, f := range files {
		if !strings.HasSuffix(f, ".b") {
			return fmt.Errorf("bcc: %s: not a .b source file", f)
		}
		sources = append(sources, f)
	}
	if len(sources) == 0 {
		return fmt.Errorf("bcc: no input files")
	}

	var asmFiles, objFiles []string
	defer func() {
		if d.opts.SaveTemps || d.opts.StopAfterS {
			return
		}
		for _, f := range asmFiles {
			log.Debugw("removing temp file", "path", f)
			os.Remove(f)
		}
	}()

	for _, src := range sources {
		asmPath := strings.TrimSuffix(src, ".b") + ".s"
		log.Debugw("compiling", "source", src, "asm", asmPath)
		c, err := compiler.NewFromFile(src, log)
		if err != nil {
			return err
		}
		out, err := c.Compile()
		if err != nil {
			return err
		}
		if err := os.WriteFile(asmPath, out, 0o644); err != nil {
			return fmt.Errorf("bcc: cannot write %s: %w", asmPath, err)
		}
		asmFiles = append(asmFiles, asmPath)
	}

	if d.opts.StopAfterS {
		return nil
	}

	defer func() {
		if d.opts.SaveTemps || d.opts.StopAfterC {
			return
		}
		for _, f := range objFiles {
			log.Debugw("removing temp file", "path", f)
			os.Remove(f)
		}
	}()

	for _, asmPath := range asmFiles {
		objPath := strings.TrimSuffix(asmPath, ".s") + ".o"
		if err := d.assemble(asmPath, objPath); err != nil {
			return err
		}
		objFiles = append(objFiles, objPath)
	}

	tmpDir, err := os.MkdirTemp("", "bcc-libb-")
	if err != nil {
		return fmt.Errorf("bcc: cannot create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	libbAsm, err := libb.WriteSource(tmpDir)
	if err != nil {
		return err
	}
	libbObj := filepath.Join(tmpDir, "libb_amd64.o")
	if err := d.assemble(libbAsm, libbObj); err != nil {
		return err
	}

	if d.opts.StopAfterC {
		return nil
	}

	return d.link(append(append([]string{}, objFiles...), libbObj), d.opts.Output)
}

// assemble invokes the external GNU assembler, blocking until it
// exits.
func (d *Driver) assemble(asmPath, objPath string) error {
	d.opts.Logger.Debugw("assembling", "asm", asmPath, "obj", objPath)
	cmd := exec.Command("as", "-o", objPath, asmPath)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return wrapSubprocessError("as", err)
	}
	return nil
}

// link invokes the external linker against every object plus libb,
// honoring any -L directories the caller requested.
func (d *Driver) link(objs []string, output string) error {
	d.opts.Logger.Debugw("linking", "objects", objs, "output", output)
	args := []string{"-o", output}
	for _, dir := range d.opts.LibDirs {
		args = append(args, "-L", dir)
	}
	args = append(args, objs...)
	cmd := exec.Command("ld", args...)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return wrapSubprocessError("ld", err)
	}
	return nil
}

// wrapSubprocessError propagates the child's exit code via a wrapper
// message so the top-level diagnostic still names which tool failed.
func wrapSubprocessError(name string, err error) error {
	if exitErr, ok := err.(*exec.ExitError); ok {
		return fmt.Errorf("bcc: %s failed with exit status %d", name, exitErr.ExitCode())
	}
	return fmt.Errorf("bcc: cannot run %s: %w", name, err)
}
