package globalization

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedCulture indicates the culture is not part of the configured supported set.
var ErrUnsupportedCulture = errors.New("globalization: unsupported culture")

// ErrLocaleNotLoaded indicates the culture is supported but its data was never loaded.
var ErrLocaleNotLoaded = errors.New("globalization: locale data not loaded")

// ErrParse marks text that does not match the expected pattern for a culture.
var ErrParse = errors.New("globalization: parse failed")

// ErrConversion marks values the type converter refuses to coerce.
var ErrConversion = errors.New("globalization: conversion failed")

// ErrInvalidOptions marks format options naming an unknown preset
var ErrInvalidOptions = errors.New("globalization: invalid format options")

// ErrNoCultures is returned when a culture service is built without cultures
var ErrNoCultures = errors.New("globalization: no supported cultures configured")

type UnsupportedCultureError struct {
	Culture   string
	Supported []string
}

func (e *UnsupportedCultureError) Error() string {
	return fmt.Sprintf("globalization: culture %q is not supported (supported: %s)",
		e.Culture, strings.Join(e.Supported, ", "))
}

func (e *UnsupportedCultureError) Is(target error) bool {
	return target == ErrUnsupportedCulture
}

type LocaleNotLoadedError struct {
	Culture string
}

func (e *LocaleNotLoadedError) Error() string {
	return fmt.Sprintf("globalization: locale data for %q not loaded", e.Culture)
}

func (e *LocaleNotLoadedError) Is(target error) bool {
	return target == ErrLocaleNotLoaded
}

// ParseError reports input text that could not be read under a culture and format.
type ParseError struct {
	Kind    FormatKind
	Culture string
	Input   string
	Reason  string
}

func (e *ParseError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("globalization: cannot parse %s %q for culture %q", e.Kind, e.Input, e.Culture)
	}
	return fmt.Sprintf("globalization: cannot parse %s %q for culture %q: %s", e.Kind, e.Input, e.Culture, e.Reason)
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ConversionError reports a value the type converter cannot coerce to Target.
// Err carries the underlying parse failure when the source was text.
type ConversionError struct {
	Value  any
	Target string
	Err    error
}

func (e *ConversionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("globalization: cannot convert %T to %s: %v", e.Value, e.Target, e.Err)
	}
	return fmt.Sprintf("globalization: cannot convert %T to %s", e.Value, e.Target)
}

func (e *ConversionError) Is(target error) bool {
	return target == ErrConversion
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}
