//go:build windows

package recorder

import "os"

// terminate kills the capture process. Windows has no cooperative
// termination signal, so a forced kill is the best available.
func terminate(p *os.Process) error {
	return p.Kill()
}
