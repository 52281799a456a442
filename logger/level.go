package logger

import (
	"fmt"
	"strings"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	NOTICE
	WARN
	ERROR
	FATAL
)

var levelNames = []string{
	"DEBUG",
	"INFO",
	"NOTICE",
	"WARN",
	"ERROR",
	"FATAL",
}

// String returns the string representation of a logging level.
func (l Level) String() string {
	return levelNames[l]
}

// LevelFromString converts a level name into a Level.
func LevelFromString(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}
	return INFO, fmt.Errorf("unknown log level %q", s)
}
