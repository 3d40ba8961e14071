//go:build !windows

package recorder

import (
	"os"
	"syscall"
)

// terminate asks the capture process to stop gracefully. SIGTERM lets
// arecord flush buffered samples and close the wav header properly.
func terminate(p *os.Process) error {
	return p.Signal(syscall.SIGTERM)
}
