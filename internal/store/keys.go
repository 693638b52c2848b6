// Speed'n'Adrenaline - Lap Time Leaderboard Service
// Copyright 2026 j00les
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/j00les/speednadrenaline-BE

package store

import (
	"fmt"
	"math"
	"time"
)

// Key prefixes for BadgerDB storage
const (
	runKeyPrefix         = "run:"
	runSeqKeyPrefix      = "runseq:"
	leaderboardKeyPrefix = "lb:"
	historyKeyPrefix     = "history:"

	// keySep separates driver and car inside composite keys. NUL cannot
	// appear in driver or car names coming through JSON validation, so
	// it keeps the key unambiguous without escaping.
	keySep = "\x00"
)

// runKey addresses a single run. The run number is zero-padded so that
// lexicographic key order equals numeric run order within a pair.
func runKey(driver, car string, runNumber int) []byte {
	return []byte(fmt.Sprintf("%s%s%s%s%s%08d", runKeyPrefix, driver, keySep, car, keySep, runNumber))
}

// runPairPrefix addresses all runs of one (driver, car) pair.
func runPairPrefix(driver, car string) []byte {
	return []byte(runKeyPrefix + driver + keySep + car + keySep)
}

// runSeqKey addresses the last issued run number for a pair.
func runSeqKey(driver, car string) []byte {
	return []byte(runSeqKeyPrefix + driver + keySep + car)
}

// leaderboardKey addresses the personal-best entry for a pair.
func leaderboardKey(driver, car string) []byte {
	return []byte(leaderboardKeyPrefix + driver + keySep + car)
}

// historyKey addresses one snapshot. The timestamp is inverted so that
// iterating the history: prefix in key order yields newest first.
func historyKey(ts time.Time, id string) []byte {
	inverted := uint64(math.MaxInt64 - ts.UnixNano())
	return []byte(fmt.Sprintf("%s%020d:%s", historyKeyPrefix, inverted, id))
}
