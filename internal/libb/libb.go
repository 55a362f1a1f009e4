// Package libb carries the B standard library as a hand-written
// x86-64 assembly asset, embedded at build time via //go:embed: libb
// is a separately compiled unit linked alongside the translator's own
// output, not Go logic, so embedding its source text is the faithful
// way to "ship" it.
package libb

import (
	_ "embed"
	"os"
	"path/filepath"
)

//go:embed libb_amd64.s
var source []byte

// Source returns the embedded assembly text of libb.
func Source() []byte { return source }

// WriteSource materializes libb's assembly into dir so the driver can
// assemble it exactly like a user translation unit. Returns the path
// to the written file.
func WriteSource(dir string) (string, error) {
	path := filepath.Join(dir, "libb_amd64.s")
	if err := os.WriteFile(path, source, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
