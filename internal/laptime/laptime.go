// Speed'n'Adrenaline - Lap Time Leaderboard Service
// Copyright 2026 j00les
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/j00les/speednadrenaline-BE

// Package laptime converts between the compact raw lap-time encoding and
// human-readable strings.
//
// A raw time is a fixed 7-digit zero-padded ASCII string encoding
// MM(2)SS(2)mmm(3). Because every raw time has the same width, the encoding
// sorts lexicographically in magnitude order, which is what the leaderboard
// relies on for ranking.
package laptime

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// RawWidth is the fixed width of a raw lap-time string.
const RawWidth = 7

// ErrInvalidTimeFormat reports a raw or formatted time that cannot be
// interpreted as MM:SS.mmm with seconds < 60 and milliseconds < 1000.
var ErrInvalidTimeFormat = errors.New("invalid lap time format")

// Sentinel values returned by the display formatters for unusable input.
const (
	sentinelLapTime = "00:00.000"
	sentinelGap     = "00.00"
)

// ParseLapTime converts a raw lap-time string to total milliseconds.
// Input shorter than 7 characters is left-padded with zeros; anything longer,
// any non-digit, seconds >= 60 or milliseconds >= 1000 fail with
// ErrInvalidTimeFormat.
func ParseLapTime(raw string) (int64, error) {
	if len(raw) > RawWidth {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, raw)
	}
	padded := pad(raw, RawWidth)

	// Atoi alone is too lenient here: it accepts a leading sign, which
	// would let "-123456" mint a non-digit raw encoding downstream.
	if !allDigits(padded) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, raw)
	}

	minutes, _ := strconv.Atoi(padded[0:2])
	seconds, _ := strconv.Atoi(padded[2:4])
	millis, _ := strconv.Atoi(padded[4:7])

	if seconds >= 60 || millis >= 1000 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, raw)
	}

	return int64(minutes)*60000 + int64(seconds)*1000 + int64(millis), nil
}

// FormatLapTime renders total milliseconds as "MM:SS.mmm". Negative input
// yields the sentinel "00:00.000" instead of failing; display paths prefer a
// harmless placeholder over an error.
func FormatLapTime(totalMillis int64) string {
	if totalMillis < 0 {
		return sentinelLapTime
	}

	minutes := totalMillis / 60000
	seconds := (totalMillis % 60000) / 1000
	millis := totalMillis % 1000

	return fmt.Sprintf("%02d:%02d.%03d", minutes, seconds, millis)
}

// FormatGapToFirstPlace renders a gap in milliseconds as seconds with two
// decimals, zero-padded to width 5 ("02.88"). Zero or negative gaps yield
// "00.00".
func FormatGapToFirstPlace(gapMillis int64) string {
	if gapMillis <= 0 {
		return sentinelGap
	}

	return fmt.Sprintf("%05.2f", float64(gapMillis)/1000.0)
}

// ConvertFormattedTimeToRaw converts a "MM:SS.mmm" string back to the raw
// 7-digit encoding. It is the exact left-inverse of FormatLapTime for all
// valid non-sentinel raw times:
//
//	ConvertFormattedTimeToRaw(FormatLapTime(ParseLapTime(x))) == x
func ConvertFormattedTimeToRaw(formatted string) (string, error) {
	parts := strings.FieldsFunc(formatted, func(r rune) bool {
		return r == ':' || r == '.'
	})
	if len(parts) != 3 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeFormat, formatted)
	}

	for _, part := range parts {
		if !allDigits(part) {
			return "", fmt.Errorf("%w: %q", ErrInvalidTimeFormat, formatted)
		}
	}

	minutes, _ := strconv.Atoi(parts[0])
	seconds, _ := strconv.Atoi(parts[1])
	millis, _ := strconv.Atoi(parts[2])
	if seconds >= 60 || millis >= 1000 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeFormat, formatted)
	}

	total := int64(minutes)*60000 + int64(seconds)*1000 + int64(millis)
	return EncodeRaw(total), nil
}

// EncodeRaw encodes total milliseconds as a zero-padded 7-digit raw string.
func EncodeRaw(totalMillis int64) string {
	return pad(strconv.FormatInt(totalMillis, 10), RawWidth)
}

// IsFormatted reports whether the input looks like a "MM:SS.mmm" display
// string rather than a raw digit encoding.
func IsFormatted(s string) bool {
	return strings.ContainsRune(s, ':')
}

// Normalize accepts either a raw digit string or a formatted "MM:SS.mmm"
// string and returns the canonical raw encoding. Submissions arrive in both
// forms depending on the client.
func Normalize(s string) (string, error) {
	if IsFormatted(s) {
		return ConvertFormattedTimeToRaw(s)
	}

	millis, err := ParseLapTime(s)
	if err != nil {
		return "", err
	}
	return EncodeRaw(millis), nil
}

// allDigits reports whether s is non-empty and consists only of ASCII digits.
func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// pad left-pads s with zeros to the given width.
func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
