// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

//go:build linux && 386

package uapi

// EventData contains the details of a particular v1 line event.
//
// This is read from the event request fd in response to events.
type EventData struct {
	// The time the event was detected, in nanoseconds.
	Timestamp uint64

	// The type of event detected - LineEventRisingEdge or
	// LineEventFallingEdge.
	ID uint32

	// No pad required for i386.
}
