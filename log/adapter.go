package log

// Adapter exposes the package level logging functions as a value, for
// libraries that expect a logger with printf style methods.
type Adapter struct {
	// Prefix is prepended to every message.
	Prefix string
}

// Errorf logs an error.
func (a *Adapter) Errorf(format string, things ...interface{}) {
	if fastcheck(ErrorLevel) {
		log(ErrorLevel, a.Prefix+sprintf(format, things...), nil)
	}
}

// Warningf logs a warning.
func (a *Adapter) Warningf(format string, things ...interface{}) {
	if fastcheck(WarningLevel) {
		log(WarningLevel, a.Prefix+sprintf(format, things...), nil)
	}
}

// Infof logs an info message. Library info messages are logged as debug.
func (a *Adapter) Infof(format string, things ...interface{}) {
	if fastcheck(DebugLevel) {
		log(DebugLevel, a.Prefix+sprintf(format, things...), nil)
	}
}

// Debugf logs a debug message. Library debug messages are logged as trace.
func (a *Adapter) Debugf(format string, things ...interface{}) {
	if fastcheck(TraceLevel) {
		log(TraceLevel, a.Prefix+sprintf(format, things...), nil)
	}
}
