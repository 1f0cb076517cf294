// Package sample provides the trailing time-window configuration used
// when rendering models in sample mode.
package sample

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidLookback is returned when the lookback magnitude is zero or negative
	ErrInvalidLookback = errors.New("sample lookback must be positive")
	// ErrInvalidUnit is returned when the time unit is not recognized
	ErrInvalidUnit = errors.New("invalid sample unit")
	// ErrInvalidWindowSpec is returned when a window specification cannot be parsed
	ErrInvalidWindowSpec = errors.New("invalid sample window specification")
)

// Unit represents the time granularity of a sample window
type Unit string

const (
	// UnitMinute samples a trailing window measured in minutes
	UnitMinute Unit = "minute"
	// UnitHour samples a trailing window measured in hours
	UnitHour Unit = "hour"
	// UnitDay samples a trailing window measured in days
	UnitDay Unit = "day"
	// UnitWeek samples a trailing window measured in weeks
	UnitWeek Unit = "week"
	// UnitMonth samples a trailing window measured in months
	UnitMonth Unit = "month"
)

// shortUnits maps single-letter suffixes accepted on the CLI to units
var shortUnits = map[string]Unit{
	"m": UnitMinute,
	"h": UnitHour,
	"d": UnitDay,
	"w": UnitWeek,
}

// Window bounds eligible dataset references to a trailing time window.
// A Window is only ever constructed through NewWindow or Parse, so a
// non-nil Window always has a positive lookback.
type Window struct {
	Unit     Unit
	Lookback int
}

// NewWindow creates a sample window, rejecting non-positive lookbacks
// at construction time.
func NewWindow(unit Unit, lookback int) (*Window, error) {
	if lookback <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLookback, lookback)
	}

	if !unit.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidUnit, unit)
	}

	return &Window{Unit: unit, Lookback: lookback}, nil
}

// Valid reports whether the unit is one of the supported granularities
func (u Unit) Valid() bool {
	switch u {
	case UnitMinute, UnitHour, UnitDay, UnitWeek, UnitMonth:
		return true
	default:
		return false
	}
}

// String returns the window in "N unit" form
func (w *Window) String() string {
	return fmt.Sprintf("%d %s", w.Lookback, w.Unit)
}

// Parse parses a window specification such as "3 day", "3 days",
// "12 hour", or the short form "3d". Specifications with zero, negative,
// or unknown magnitudes or units are rejected.
func Parse(spec string) (*Window, error) {
	trimmed := strings.TrimSpace(strings.ToLower(spec))
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty specification", ErrInvalidWindowSpec)
	}

	fields := strings.Fields(trimmed)
	switch len(fields) {
	case 1:
		return parseShort(fields[0])
	case 2:
		lookback, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidWindowSpec, fields[0])
		}
		unit, err := parseUnit(fields[1])
		if err != nil {
			return nil, err
		}
		return NewWindow(unit, lookback)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidWindowSpec, spec)
	}
}

// parseShort handles compact specifications such as "3d" or "12h"
func parseShort(spec string) (*Window, error) {
	split := len(spec)
	for i, r := range spec {
		if r < '0' || r > '9' {
			split = i
			break
		}
	}

	if split == 0 || split == len(spec) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidWindowSpec, spec)
	}

	lookback, err := strconv.Atoi(spec[:split])
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidWindowSpec, spec)
	}

	suffix := spec[split:]
	if unit, ok := shortUnits[suffix]; ok {
		return NewWindow(unit, lookback)
	}

	unit, unitErr := parseUnit(suffix)
	if unitErr != nil {
		return nil, unitErr
	}

	return NewWindow(unit, lookback)
}

// parseUnit normalizes a unit name, accepting the plural form
func parseUnit(name string) (Unit, error) {
	singular := strings.TrimSuffix(name, "s")

	unit := Unit(singular)
	if !unit.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidUnit, name)
	}

	return unit, nil
}
