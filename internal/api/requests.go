// Speed'n'Adrenaline - Lap Time Leaderboard Service
// Copyright 2026 j00les
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/j00les/speednadrenaline-BE

package api

// SubmitRunRequest is the body for POST /api/v1/runs.
// LapTime accepts the raw MMSSmmm encoding or the display MM:SS.mmm form.
type SubmitRunRequest struct {
	DriverName string `json:"driverName" validate:"required,min=1,max=100"`
	CarName    string `json:"carName" validate:"required,min=1,max=100"`
	Drivetrain string `json:"drivetrain" validate:"omitempty,oneof=FWD RWD AWD"`
	LapTime    string `json:"lapTime" validate:"required,laptime"`
}

// DeleteRunRequest is the body for DELETE /api/v1/runs.
// Every run of the pair matching Time is removed.
type DeleteRunRequest struct {
	DriverName string `json:"driverName" validate:"required,min=1,max=100"`
	CarName    string `json:"carName" validate:"required,min=1,max=100"`
	Time       string `json:"time" validate:"required,laptime"`
}
