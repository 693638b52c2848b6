// Speed'n'Adrenaline - Lap Time Leaderboard Service
// Copyright 2026 j00les
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/j00les/speednadrenaline-BE

package models

import "time"

// APIResponse is the standard envelope for every HTTP endpoint.
//
// Status is "success" or "error"; Error is populated only for the latter.
//
// Example:
//
//	{
//	  "status": "success",
//	  "data": [{"name": "A", "carName": "Civic", ...}],
//	  "metadata": {"timestamp": "2026-09-01T12:00:00Z", "query_time_ms": 3}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response metadata for observability.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError is the structured error payload.
//
// Codes used by this service:
//   - VALIDATION_ERROR: malformed request structure
//   - INVALID_TIME_FORMAT: lap time failed codec validation (non-retryable)
//   - RUN_NOT_FOUND: delete targeted a run that does not exist
//   - NO_DATA_TO_SNAPSHOT: archiver invoked with an empty source
//   - STORE_UNAVAILABLE: durable store unreachable (retryable)
//
// Retryable reports whether the caller may usefully retry the same request;
// it is false for input errors and true for transient store failures.
type APIError struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Retryable bool                   `json:"retryable"`
	Details   map[string]interface{} `json:"details,omitempty"`
}
