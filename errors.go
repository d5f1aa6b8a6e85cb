// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

//go:build linux

package gpiod

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

var (
	// ErrBusy indicates a requested line is already reserved by another
	// consumer.
	ErrBusy = errors.New("line busy")

	// ErrClosed indicates the chip or request has already been closed.
	ErrClosed = errors.New("already closed")

	// ErrInvalidConfig indicates the requested configuration cannot
	// describe a valid request, e.g. duplicate offsets, an empty offset
	// set, more lines than the uAPI allows, or an overlong consumer label.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrInvalidOffset indicates a line offset is out of range for the
	// chip.
	ErrInvalidOffset = errors.New("invalid offset")

	// ErrNotCharacterDevice indicates the device is not a GPIO character
	// device.
	ErrNotCharacterDevice = errors.New("not a GPIO character device")

	// ErrNotFound indicates the device path does not exist.
	ErrNotFound = errors.New("device not found")

	// ErrOverflow indicates the kernel event buffer overflowed and edge
	// events were dropped.
	//
	// The event stream remains usable - subsequent reads return the
	// events that survived.
	ErrOverflow = errors.New("event buffer overflow")

	// ErrPermissionDenied indicates the caller does not have the required
	// permissions to open the device.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrUnsupportedConfig indicates the requested configuration is valid
	// but cannot be expressed by the uAPI version negotiated with the
	// kernel, e.g. per-line settings or debounce under v1.
	ErrUnsupportedConfig = errors.New("configuration not supported by uAPI version")

	// ErrUnsupportedEdge indicates edge detection was requested for more
	// lines than the uAPI version negotiated with the kernel supports in
	// one request.
	ErrUnsupportedEdge = errors.New("edge detection not supported by uAPI version for multiple lines")

	// ErrWrongDirection indicates the operation is not valid for the
	// direction the lines were requested with.
	ErrWrongDirection = errors.New("wrong direction")
)

// errnoErr translates errnos with a defined meaning in this API into their
// sentinel errors. Anything else is an I/O error and is returned verbatim.
func errnoErr(err error) error {
	switch err {
	case unix.EBUSY:
		return ErrBusy
	case unix.EACCES, unix.EPERM:
		return ErrPermissionDenied
	case unix.ENOENT, unix.ENODEV:
		return ErrNotFound
	}
	return err
}
