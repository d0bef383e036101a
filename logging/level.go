// Package logging provides the leveled, structured logger used throughout the
// kinematics engine, backed by go.uber.org/zap.
package logging

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
)

// Level is a logging severity, ordered from most to least verbose.
type Level int

const (
	// DEBUG is for detail useful only while developing or diagnosing a specific
	// failure: per-sample interval classification, coefficient-fit residuals.
	DEBUG Level = iota
	// INFO is for routine operational events: a solve request and its outcome.
	INFO
	// WARN is for recoverable but noteworthy conditions: a solution near a joint
	// limit, a requested arm angle outside its feasible interval.
	WARN
	// ERROR is for conditions that prevented an operation from completing.
	ERROR
)

// String returns the lower-case name of the level.
func (l Level) String() string {
	switch l {
	case DEBUG:
		return "debug"
	case INFO:
		return "info"
	case WARN:
		return "warn"
	case ERROR:
		return "error"
	default:
		return fmt.Sprintf("unknown(%d)", int(l))
	}
}

// LevelFromString parses a level name, case-insensitively. "warning" is accepted
// as an alias for "warn".
func LevelFromString(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DEBUG, nil
	case "info":
		return INFO, nil
	case "warn", "warning":
		return WARN, nil
	case "error":
		return ERROR, nil
	default:
		return 0, errors.Errorf("invalid log level %q", s)
	}
}

// MarshalJSON implements json.Marshaler.
func (l Level) MarshalJSON() ([]byte, error) {
	return []byte(`"` + l.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *Level) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := LevelFromString(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// zapLevel converts to the equivalent zapcore.Level.
func (l Level) zapLevel() zapcore.Level {
	switch l {
	case DEBUG:
		return zapcore.DebugLevel
	case INFO:
		return zapcore.InfoLevel
	case WARN:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
