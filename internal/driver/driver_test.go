package driver

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRejectsNonBSuffixedInput(t *testing.T) {
	d := New(Options{})
	err := d.Run([]string{"main.c"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a .b source file")
}

func TestRunRejectsEmptyFileList(t *testing.T) {
	d := New(Options{})
	err := d.Run(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no input files")
}

func TestNewDefaultsOutputToAOut(t *testing.T) {
	d := New(Options{})
	assert.Equal(t, "a.out", d.opts.Output)
}

func TestNewKeepsExplicitOutput(t *testing.T) {
	d := New(Options{Output: "hello"})
	assert.Equal(t, "hello", d.opts.Output)
}

func TestWrapSubprocessErrorReportsExitCode(t *testing.T) {
	cmd := exec.Command("false")
	err := cmd.Run()
	require.Error(t, err)
	wrapped := wrapSubprocessError("as", err)
	assert.Contains(t, wrapped.Error(), "as failed with exit status")
}

func TestWrapSubprocessErrorReportsLaunchFailure(t *testing.T) {
	cmd := exec.Command("bcc-nonexistent-tool-xyz")
	err := cmd.Run()
	require.Error(t, err)
	wrapped := wrapSubprocessError("as", err)
	assert.Contains(t, wrapped.Error(), "cannot run as")
}

func TestRunWithStopAfterSKeepsTheAsmFile(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "hello.b")
	require.NoError(t, os.WriteFile(srcPath, []byte("main() { return(0); }"), 0o644))

	d := New(Options{StopAfterS: true})
	require.NoError(t, d.Run([]string{srcPath}))

	asmPath := filepath.Join(dir, "hello.s")
	_, err := os.Stat(asmPath)
	assert.NoError(t, err, "-S must leave the generated .s file in place")
}
