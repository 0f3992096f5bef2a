//go:build !unix

package ansicell

import "os"

// No SIGWINCH outside unix; sizes refresh when the caller triggers them.
func notifyResize(_ chan os.Signal) {
}
