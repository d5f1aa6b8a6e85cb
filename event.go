// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

//go:build linux

package gpiod

import (
	"context"
	"time"

	"github.com/warthog618/gpiod/uapi"
	"golang.org/x/sys/unix"
)

// EventType indicates the type of change to the line active state.
//
// Note that for active low lines a low physical level results in a high
// active state, so also a rising edge.
type EventType int

const (
	// EventRisingEdge indicates an active going edge.
	EventRisingEdge EventType = iota + 1

	// EventFallingEdge indicates an inactive going edge.
	EventFallingEdge
)

// Event represents a single edge event detected on a requested line.
type Event struct {
	// The offset of the line the event occurred on.
	Offset int

	// The type of edge detected.
	Type EventType

	// The time the edge was detected, from the monotonic clock.
	//
	// This can be used to accurately compare the time between events,
	// but does not correspond to any absolute time of day.
	Timestamp time.Duration
}

// the interval cancellation of a context is checked for while waiting on
// edge events
const eventPollPeriod = 50 * time.Millisecond

// ReadEvent returns the next edge event from the request.
//
// The read blocks until an event is available.
// Events are returned one per call, in the order they were detected.
// If edge events were dropped by the kernel between the previous event and
// the next available one, the read returns ErrOverflow, and the next
// available event is returned by the following call.
//
// The request must have edge detection enabled on at least one line.
func (r *Request) ReadEvent() (Event, error) {
	if err := r.eventReadable(); err != nil {
		return Event{}, err
	}
	for {
		ev, err := r.readEvent()
		if err != unix.EAGAIN {
			return ev, err
		}
		if err = r.pollEvent(-1); err != nil {
			return Event{}, err
		}
	}
}

// ReadEventContext returns the next edge event from the request, blocking
// until an event is available or the context is done.
//
// Cancellation is clean - a read abandoned due to the context never
// consumes an event, so the event remains available to a subsequent read.
func (r *Request) ReadEventContext(ctx context.Context) (Event, error) {
	if err := r.eventReadable(); err != nil {
		return Event{}, err
	}
	for {
		if err := ctx.Err(); err != nil {
			return Event{}, err
		}
		ev, err := r.readEvent()
		if err != unix.EAGAIN {
			return ev, err
		}
		timeout := eventPollPeriod
		if deadline, ok := ctx.Deadline(); ok {
			if remaining := time.Until(deadline); remaining < timeout {
				timeout = remaining
			}
		}
		if timeout > 0 {
			if err = r.pollEvent(timeout); err != nil {
				return Event{}, err
			}
		}
	}
}

func (r *Request) eventReadable() error {
	if r.closed {
		return ErrClosed
	}
	if !r.edges {
		return ErrWrongDirection
	}
	return nil
}

// readEvent returns the next queued event, or unix.EAGAIN if none is
// queued.
func (r *Request) readEvent() (Event, error) {
	if r.pending != nil {
		ev := *r.pending
		r.pending = nil
		return ev, nil
	}
	if r.abi == 1 {
		ed, err := uapi.ReadEvent(uintptr(r.fd))
		if err != nil {
			return Event{}, err
		}
		// v1 event requests are limited to a single line
		ev := Event{
			Offset:    r.offsets[0],
			Type:      EventRisingEdge,
			Timestamp: time.Duration(ed.Timestamp),
		}
		if ed.ID == uapi.LineEventFallingEdge {
			ev.Type = EventFallingEdge
		}
		return ev, nil
	}
	le, err := uapi.ReadLineEvent(uintptr(r.fd))
	if err != nil {
		return Event{}, err
	}
	ev := Event{
		Offset:    int(le.Offset),
		Type:      EventRisingEdge,
		Timestamp: time.Duration(le.Timestamp),
	}
	if le.ID == uapi.LineEventFallingEdge {
		ev.Type = EventFallingEdge
	}
	if r.haveSeqno && le.Seqno != r.lastSeqno+1 {
		// events were dropped between the previous event and this one,
		// so hold this one over for the next read
		r.lastSeqno = le.Seqno
		r.pending = &ev
		return Event{}, ErrOverflow
	}
	r.haveSeqno = true
	r.lastSeqno = le.Seqno
	return ev, nil
}

// pollEvent waits for the request fd to become readable.
//
// A negative timeout waits indefinitely.
// Returns nil if the fd is readable or the timeout expired.
func (r *Request) pollEvent(timeout time.Duration) error {
	tms := -1
	if timeout >= 0 {
		tms = int(timeout / time.Millisecond)
	}
	for {
		pfd := []unix.PollFd{{Fd: int32(r.fd), Events: unix.POLLIN}}
		_, err := unix.Poll(pfd, tms)
		if err != unix.EINTR {
			return err
		}
	}
}
