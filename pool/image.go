package pool

import (
	"os"
	"path/filepath"
)

// ModuleImage identifies what a host loads into each worker context: the
// module binary and the memory the contexts share.
type ModuleImage struct {
	Name     string
	Location string
	Memory   any
}

// DefaultModuleImage describes the running executable.
func DefaultModuleImage() ModuleImage {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}
	return ModuleImage{
		Name:     filepath.Base(exe),
		Location: exe,
	}
}
