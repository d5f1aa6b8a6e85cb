// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

//go:build linux

package gpiod

import (
	"github.com/warthog618/gpiod/uapi"
	"golang.org/x/sys/unix"
)

// Request represents a set of requested lines.
//
// The lines are reserved for this request until it is closed, and cannot be
// requested by any other consumer in the meantime.
//
// A Request belongs to the goroutine that created it. It performs no
// internal locking, so concurrent calls on the one Request require external
// synchronisation.
type Request struct {
	fd       int
	chipName string
	consumer string

	// the uAPI version the request was made with
	abi int

	// the requested lines, in request order
	//
	// Bit i of any Values passed to or from the request refers to
	// offsets[i].
	offsets []int

	// bitmap of the lines configured as outputs
	outputs uint64

	// edge detection is enabled on at least one line
	edges bool

	// levels the output lines are being driven to, tracked only for v1
	// to emulate partial sets
	driven Values

	// edge event held over from a read that detected an overflow
	pending *Event

	// request sequence number of the most recent edge event
	lastSeqno uint32
	haveSeqno bool

	closed bool
}

// Offsets returns the offsets of the requested lines, in request order.
func (r *Request) Offsets() []int {
	return append([]int(nil), r.offsets...)
}

// Chip returns the name of the chip the lines were requested from.
func (r *Request) Chip() string {
	return r.chipName
}

// Consumer returns the consumer label the lines were requested with.
func (r *Request) Consumer() string {
	return r.consumer
}

// Close releases the request and the lines it reserved.
//
// Closing an already closed Request is a no-op.
func (r *Request) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.pending = nil
	return unix.Close(r.fd)
}

// Values returns the levels of all the requested lines in a single
// operation.
func (r *Request) Values() (Values, error) {
	return r.MaskedValues(Values{Mask: lineMask(len(r.offsets))})
}

// MaskedValues returns the levels of the masked subset of the requested
// lines in a single operation.
//
// Only the Mask of the provided values is used. Lines outside the mask are
// returned unmasked with their bits zeroed.
func (r *Request) MaskedValues(mask Values) (Values, error) {
	if r.closed {
		return Values{}, ErrClosed
	}
	m := mask.Mask & lineMask(len(r.offsets))
	if r.abi == 1 {
		var hd uapi.HandleData
		if err := uapi.GetLineValues(uintptr(r.fd), &hd); err != nil {
			return Values{}, errnoErr(err)
		}
		var vv Values
		for i := 0; i < len(r.offsets); i++ {
			if m&(uint64(1)<<uint(i)) == 0 {
				continue
			}
			level := 0
			if hd[i] != 0 {
				level = 1
			}
			vv.Set(i, level)
		}
		return vv, nil
	}
	lv := uapi.LineValues{Mask: m}
	if err := uapi.GetLineValuesV2(uintptr(r.fd), &lv); err != nil {
		return Values{}, errnoErr(err)
	}
	return Values{Bits: lv.Bits & m, Mask: m}, nil
}

// SetValues sets the levels of the masked subset of the requested lines in
// a single operation.
//
// Lines outside the mask are left unchanged.
// All the masked lines must be outputs, else the set fails with
// ErrWrongDirection before any line is driven.
func (r *Request) SetValues(values Values) error {
	if r.closed {
		return ErrClosed
	}
	values = values.truncate(len(r.offsets))
	if values.Mask&^r.outputs != 0 {
		return ErrWrongDirection
	}
	if values.Mask == 0 {
		return nil
	}
	if r.abi == 1 {
		// v1 drives every line in the request, so merge the masked
		// levels over those currently driven.
		merged := r.driven
		for i := 0; i < len(r.offsets); i++ {
			if level, masked := values.Get(i); masked {
				merged.Set(i, level)
			}
		}
		var hd uapi.HandleData
		for i := 0; i < len(r.offsets); i++ {
			if level, _ := merged.Get(i); level != 0 {
				hd[i] = 1
			}
		}
		if err := uapi.SetLineValues(uintptr(r.fd), hd); err != nil {
			return errnoErr(err)
		}
		r.driven = merged
		return nil
	}
	lv := uapi.LineValues{Bits: values.Bits, Mask: values.Mask}
	if err := uapi.SetLineValuesV2(uintptr(r.fd), lv); err != nil {
		return errnoErr(err)
	}
	return nil
}
