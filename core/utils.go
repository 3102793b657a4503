package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// TimeFormat is the canonical text form of event timestamps.
	TimeFormat = "2006-01-02 15:04:05"
	// MinuteFormat is the canonical minute-precision text form of deadlines.
	MinuteFormat = "2006-01-02 15:04"
)

var NowFunc = time.Now // mockable

// NowText returns the current time in the canonical text form.
func NowText() string {
	return NowFunc().Format(TimeFormat)
}

// ParseTimeText parses a canonical timestamp at either second or minute precision.
func ParseTimeText(s string) (time.Time, error) {
	t, err := time.Parse(TimeFormat, s)
	if err != nil {
		return time.Parse(MinuteFormat, s)
	}
	return t, nil
}

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// Getwd tries to find the project root (the directory holding go.mod).
// go-test changes the working directory to the test package being run during tests;
// see: https://stackoverflow.com/questions/23847003/golang-tests-and-working-directory
func Getwd() string {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	currDir := wd
	for {
		if _, err := os.Stat(filepath.Join(currDir, "go.mod")); err == nil {
			return currDir
		}
		newDir := filepath.Dir(currDir)
		if newDir == string(os.PathSeparator) || newDir == currDir {
			return wd
		}
		currDir = newDir
	}
}
