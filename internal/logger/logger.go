package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/google/logger"
)

type Level int

const (
	FatalLevel Level = iota
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
	SillyLevel
)

var levelNames = map[string]Level{
	"fatal": FatalLevel,
	"error": ErrorLevel,
	"warn":  WarnLevel,
	"info":  InfoLevel,
	"debug": DebugLevel,
	"silly": SillyLevel,
}

func (level Level) String() string {
	for name, l := range levelNames {
		if l == level {
			return strings.ToUpper(name)
		}
	}
	return "UNKNOWN"
}

func ParseLevel(name string) (Level, error) {
	level, ok := levelNames[strings.ToLower(name)]
	if !ok {
		return InfoLevel, fmt.Errorf("invalid log level: %s", name)
	}
	return level, nil
}

type Options struct {
	Level  string
	Logger io.Writer
}

type state struct {
	level  Level
	logger *logger.Logger
}

// nothing is logged until Init was called
var current atomic.Pointer[state]

func Init(options Options) {
	level, err := ParseLevel(options.Level)

	writer := options.Logger
	if writer == nil {
		writer = os.Stdout
	}

	current.Store(&state{
		level:  level,
		logger: logger.Init("bolt12", false, false, writer),
	})

	if err != nil {
		Warnf("%v, falling back to %s", err, level)
	}
	Debugf("Initialized logger with level %s", level)
}

func write(level Level, message string) {
	s := current.Load()
	if s == nil || level > s.level {
		return
	}

	// the backend only knows info and above
	switch level {
	case FatalLevel:
		s.logger.Fatal(message)
	case ErrorLevel:
		s.logger.Error(message)
	case WarnLevel:
		s.logger.Warning(message)
	case InfoLevel:
		s.logger.Info(message)
	default:
		s.logger.Info("[" + level.String() + "] " + message)
	}
}

func Fatal(message string) {
	write(FatalLevel, message)
	os.Exit(1)
}

func Fatalf(format string, args ...any) {
	Fatal(fmt.Sprintf(format, args...))
}

func Error(message string) {
	write(ErrorLevel, message)
}

func Errorf(format string, args ...any) {
	write(ErrorLevel, fmt.Sprintf(format, args...))
}

func Warn(message string) {
	write(WarnLevel, message)
}

func Warnf(format string, args ...any) {
	write(WarnLevel, fmt.Sprintf(format, args...))
}

func Info(message string) {
	write(InfoLevel, message)
}

func Infof(format string, args ...any) {
	write(InfoLevel, fmt.Sprintf(format, args...))
}

func Debug(message string) {
	write(DebugLevel, message)
}

func Debugf(format string, args ...any) {
	write(DebugLevel, fmt.Sprintf(format, args...))
}

func Silly(message string) {
	write(SillyLevel, message)
}

func Sillyf(format string, args ...any) {
	write(SillyLevel, fmt.Sprintf(format, args...))
}
