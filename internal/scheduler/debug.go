//go:build debug

package scheduler

import (
	"fmt"
	"log"
	"os"
)

var debugLogger = log.New(os.Stderr, "[POOL DEBUG] ", log.Ltime|log.Lmicroseconds|log.Lshortfile)

// debugLog traces thread lifecycle events when built with -tags debug
func debugLog(format string, args ...any) {
	_ = debugLogger.Output(2, fmt.Sprintf(format, args...))
}
