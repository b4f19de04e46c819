package logging

import (
	"fmt"
	"io"
	"runtime/debug"
	"time"

	"github.com/fatih/color"
	"github.com/mborders/logmatic"
)

// Level options are: 0 fatal error (stack dump), 1 serious error (stack dump), 2 warning, 3 debug, 4 info, 5 trace (stack dump).
type Level int

const (
	Fatal Level = iota
	Error
	Warn
	Debug
	Info
	Trace
)

// DefaultLevel shows warnings and errors only
const DefaultLevel = Warn

// Logger writes leveled messages to the terminal. A nil *Logger discards everything.
type Logger struct {
	l     *logmatic.Logger
	out   io.Writer
	level Level
}

// New creates a logger that prints messages at or below level
func New(level int) *Logger {
	l := logmatic.NewLogger()
	l.SetLevel(logmatic.TRACE)
	l.ExitOnFatal = false
	return &Logger{l: l, level: clamp(level)}
}

// NewTo is New writing to w instead of stdout, in the same line format.
func NewTo(level int, w io.Writer) *Logger {
	lg := New(level)
	lg.out = w
	return lg
}

// Level returns the configured threshold
func (lg *Logger) Level() Level {
	if lg == nil {
		return Fatal
	}
	return lg.level
}

// Enabled reports whether messages at level would be printed
func (lg *Logger) Enabled(level Level) bool {
	return lg != nil && level <= lg.level
}

// Log prints message if level is within the configured threshold
func (lg *Logger) Log(message interface{}, level Level) {
	if !lg.Enabled(level) {
		return
	}
	msg := fmt.Sprint(message)
	if level == Trace || level <= Error {
		debug.PrintStack()
	}
	if lg.out != nil {
		lg.write(level, msg)
		return
	}
	switch level {
	case Trace:
		lg.l.Trace("%v", msg)
	case Info:
		lg.l.Info("%v", msg)
	case Debug:
		lg.l.Debug("%v", msg)
	case Warn:
		lg.l.Warn("%v", msg)
	case Error, Fatal:
		lg.l.Error("%v", msg)
	}
}

// Errorf logs a formatted message at Error
func (lg *Logger) Errorf(format string, args ...interface{}) {
	lg.Log(fmt.Sprintf(format, args...), Error)
}

// Warnf logs a formatted message at Warn
func (lg *Logger) Warnf(format string, args ...interface{}) {
	lg.Log(fmt.Sprintf(format, args...), Warn)
}

// Debugf logs a formatted message at Debug
func (lg *Logger) Debugf(format string, args ...interface{}) {
	lg.Log(fmt.Sprintf(format, args...), Debug)
}

// Infof logs a formatted message at Info
func (lg *Logger) Infof(format string, args ...interface{}) {
	lg.Log(fmt.Sprintf(format, args...), Info)
}

var tags = map[Level]func(a ...interface{}) string{
	Fatal: color.New(color.FgRed, color.Bold).SprintFunc(),
	Error: color.New(color.FgRed).SprintFunc(),
	Warn:  color.New(color.FgYellow).SprintFunc(),
	Debug: color.New(color.FgGreen).SprintFunc(),
	Info:  color.New(color.FgCyan).SprintFunc(),
	Trace: color.New(color.FgBlue).SprintFunc(),
}

var names = map[Level]string{
	Fatal: "ERROR", Error: "ERROR", Warn: "WARN", Debug: "DEBUG", Info: "INFO", Trace: "TRACE",
}

// write mirrors logmatic's "<time> <LEVEL> => <message>" line
func (lg *Logger) write(level Level, msg string) {
	fmt.Fprintf(lg.out, "%s %s %s %s\n",
		color.MagentaString(time.Now().Format("2006-01-02 15:04:05")),
		tags[level](names[level]),
		color.MagentaString("=>"),
		msg)
}

func clamp(level int) Level {
	if level < int(Fatal) {
		return Fatal
	}
	if level > int(Trace) {
		return Trace
	}
	return Level(level)
}
