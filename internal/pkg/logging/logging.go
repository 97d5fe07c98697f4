package logging

import (
	"log"
	"sync/atomic"
)

var debug int32

// SetDebug toggles Debugf output process-wide
func SetDebug(on bool) {
	var v int32
	if on {
		v = 1
	}
	atomic.StoreInt32(&debug, v)
}

// DebugEnabled reports whether debug output is switched on
func DebugEnabled() bool {
	return atomic.LoadInt32(&debug) == 1
}

// Debugf logs with a bracketed component prefix when debug output is on
func Debugf(component string, format string, args ...interface{}) {
	if !DebugEnabled() {
		return
	}
	log.Printf("["+component+"] "+format, args...)
}
