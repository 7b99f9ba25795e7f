package commands

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/fivetwenty-io/responsys-client/pkg/responsys"
)

var _ responsys.Logger = (*CLILogger)(nil)

// logLevel orders the CLI log levels.
type logLevel int

const (
	levelDebug logLevel = iota
	levelInfo
	levelWarn
	levelError
)

// CLILogger writes leveled, colored log lines to stderr. It implements
// responsys.Logger.
type CLILogger struct {
	output io.Writer
	level  logLevel
	mutex  sync.Mutex
}

// NewCLILogger creates a logger. Verbose enables debug and info lines;
// otherwise only warnings and errors are written.
func NewCLILogger(output io.Writer, verbose bool) *CLILogger {
	level := levelWarn
	if verbose {
		level = levelDebug
	}

	return &CLILogger{
		output: output,
		level:  level,
	}
}

func (l *CLILogger) Debug(msg string, fields map[string]interface{}) {
	l.log(levelDebug, color.BlueString("DEBUG"), msg, fields)
}

func (l *CLILogger) Info(msg string, fields map[string]interface{}) {
	l.log(levelInfo, color.GreenString("INFO"), msg, fields)
}

func (l *CLILogger) Warn(msg string, fields map[string]interface{}) {
	l.log(levelWarn, color.YellowString("WARN"), msg, fields)
}

func (l *CLILogger) Error(msg string, fields map[string]interface{}) {
	l.log(levelError, color.RedString("ERROR"), msg, fields)
}

func (l *CLILogger) log(level logLevel, prefix, msg string, fields map[string]interface{}) {
	if level < l.level {
		return
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	_, _ = fmt.Fprintf(l.output, "%s: %s%s\n", prefix, msg, formatFields(fields))
}

// formatFields renders fields as sorted key=value pairs.
func formatFields(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return ""
	}

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	var builder strings.Builder
	for _, key := range keys {
		_, _ = fmt.Fprintf(&builder, " %s=%v", key, fields[key])
	}

	return builder.String()
}
