package logger

import (
	"fmt"
	"os"
	"runtime"
	"sync/atomic"
	"time"
)

// Logger is a subsystem logger for a Backend.
type Logger struct {
	lvl       Level // atomic
	tag       string
	b         *Backend
	writeChan chan<- logEntry
}

type logEntry struct {
	log   []byte
	level Level
}

// calldepth is the call depth of the callsite function relative to the
// caller of the subsystem logger. It is used to recover the filename and line
// number of the logging call if either the short or long file flags are
// specified.
const calldepth = 3

// callsite returns the file name and line number of the callsite to the
// subsystem logger.
func callsite(flag uint32) (string, int) {
	_, file, line, ok := runtime.Caller(calldepth)
	if !ok {
		return "???", 0
	}

	if flag&LogFlagShortFile != 0 {
		short := file
		for i := len(file) - 1; i > 0; i-- {
			if os.IsPathSeparator(file[i]) {
				short = file[i+1:]
				break
			}
		}
		file = short
	}
	return file, line
}

// itoa converts an integer to ASCII, appending the result to buf. Cheap
// version of fmt.Sprintf("%0*d", wid, i) taken from the stdlib log package.
// Give a negative width to avoid zero-padding.
func itoa(buf *[]byte, i int, wid int) {
	// Assemble decimal in reverse order.
	var b [20]byte
	bp := len(b) - 1
	for i >= 10 || wid > 1 {
		wid--
		q := i / 10
		b[bp] = byte('0' + i - q*10)
		bp--
		i = q
	}
	// i < 10
	b[bp] = byte('0' + i)
	*buf = append(*buf, b[bp:]...)
}

// formatHeader writes a log header into buf in the following format:
// 2009-01-23 01:23:23.123123 [LVL] TAG: message
func formatHeader(buf *[]byte, t time.Time, lvl, tag string, file string, line int) {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()
	ms := t.Nanosecond() / 1e6

	itoa(buf, year, 4)
	*buf = append(*buf, '-')
	itoa(buf, int(month), 2)
	*buf = append(*buf, '-')
	itoa(buf, day, 2)
	*buf = append(*buf, ' ')
	itoa(buf, hour, 2)
	*buf = append(*buf, ':')
	itoa(buf, min, 2)
	*buf = append(*buf, ':')
	itoa(buf, sec, 2)
	*buf = append(*buf, '.')
	itoa(buf, ms, 3)
	*buf = append(*buf, " ["...)
	*buf = append(*buf, lvl...)
	*buf = append(*buf, "] "...)
	*buf = append(*buf, tag...)
	if file != "" {
		*buf = append(*buf, ' ')
		*buf = append(*buf, file...)
		*buf = append(*buf, ':')
		itoa(buf, line, -1)
	}
	*buf = append(*buf, ": "...)
}

// print outputs a log message to the backend write channel with an
// appropriate log header given the level.
func (l *Logger) print(lvl Level, args ...interface{}) {
	t := time.Now() // get as early as possible

	var file string
	var line int
	if l.b.flag&(LogFlagShortFile|LogFlagLongFile) != 0 {
		file, line = callsite(l.b.flag)
	}

	buf := make([]byte, 0, normalLogSize)
	formatHeader(&buf, t, lvl.String(), l.tag, file, line)
	buf = append(buf, fmt.Sprintln(args...)...)

	l.writeChan <- logEntry{buf, lvl}
}

// printf outputs a log message to the backend write channel with an
// appropriate log header given the level, formatting the message according
// to the given format specifier.
func (l *Logger) printf(lvl Level, format string, args ...interface{}) {
	t := time.Now() // get as early as possible

	var file string
	var line int
	if l.b.flag&(LogFlagShortFile|LogFlagLongFile) != 0 {
		file, line = callsite(l.b.flag)
	}

	buf := make([]byte, 0, normalLogSize)
	formatHeader(&buf, t, lvl.String(), l.tag, file, line)
	buf = append(buf, fmt.Sprintf(format, args...)...)
	buf = append(buf, '\n')

	l.writeChan <- logEntry{buf, lvl}
}

// Trace formats message using the default formats for its operands and writes
// to log with LevelTrace.
func (l *Logger) Trace(args ...interface{}) {
	if l.Level() <= LevelTrace {
		l.print(LevelTrace, args...)
	}
}

// Tracef formats message according to format specifier and writes to log
// with LevelTrace.
func (l *Logger) Tracef(format string, args ...interface{}) {
	if l.Level() <= LevelTrace {
		l.printf(LevelTrace, format, args...)
	}
}

// Debug formats message using the default formats for its operands and writes
// to log with LevelDebug.
func (l *Logger) Debug(args ...interface{}) {
	if l.Level() <= LevelDebug {
		l.print(LevelDebug, args...)
	}
}

// Debugf formats message according to format specifier and writes to log
// with LevelDebug.
func (l *Logger) Debugf(format string, args ...interface{}) {
	if l.Level() <= LevelDebug {
		l.printf(LevelDebug, format, args...)
	}
}

// Info formats message using the default formats for its operands and writes
// to log with LevelInfo.
func (l *Logger) Info(args ...interface{}) {
	if l.Level() <= LevelInfo {
		l.print(LevelInfo, args...)
	}
}

// Infof formats message according to format specifier and writes to log
// with LevelInfo.
func (l *Logger) Infof(format string, args ...interface{}) {
	if l.Level() <= LevelInfo {
		l.printf(LevelInfo, format, args...)
	}
}

// Warn formats message using the default formats for its operands and writes
// to log with LevelWarn.
func (l *Logger) Warn(args ...interface{}) {
	if l.Level() <= LevelWarn {
		l.print(LevelWarn, args...)
	}
}

// Warnf formats message according to format specifier and writes to log
// with LevelWarn.
func (l *Logger) Warnf(format string, args ...interface{}) {
	if l.Level() <= LevelWarn {
		l.printf(LevelWarn, format, args...)
	}
}

// Error formats message using the default formats for its operands and writes
// to log with LevelError.
func (l *Logger) Error(args ...interface{}) {
	if l.Level() <= LevelError {
		l.print(LevelError, args...)
	}
}

// Errorf formats message according to format specifier and writes to log
// with LevelError.
func (l *Logger) Errorf(format string, args ...interface{}) {
	if l.Level() <= LevelError {
		l.printf(LevelError, format, args...)
	}
}

// Critical formats message using the default formats for its operands and
// writes to log with LevelCritical.
func (l *Logger) Critical(args ...interface{}) {
	if l.Level() <= LevelCritical {
		l.print(LevelCritical, args...)
	}
}

// Criticalf formats message according to format specifier and writes to log
// with LevelCritical.
func (l *Logger) Criticalf(format string, args ...interface{}) {
	if l.Level() <= LevelCritical {
		l.printf(LevelCritical, format, args...)
	}
}

// Level returns the current logging level.
func (l *Logger) Level() Level {
	return Level(atomic.LoadUint32((*uint32)(&l.lvl)))
}

// SetLevel changes the logging level to the passed level.
func (l *Logger) SetLevel(level Level) {
	atomic.StoreUint32((*uint32)(&l.lvl), uint32(level))
}

// Backend returns the backend this logger writes to.
func (l *Logger) Backend() *Backend {
	return l.b
}
