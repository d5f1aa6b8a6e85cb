// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

//go:build linux

package uapi

import (
	"encoding/binary"
	"unsafe"

	"golang.org/x/sys/unix"
)

// GetLineInfoV2 returns the v2 LineInfo for one line from the GPIO character
// device.
//
// The fd is an open GPIO character device.
// The offset is zero based.
func GetLineInfoV2(fd uintptr, offset int) (LineInfoV2, error) {
	var li LineInfoV2
	li.Offset = uint32(offset)
	_, _, errno := unix.Syscall(unix.SYS_IOCTL,
		fd,
		uintptr(getLineInfoV2Ioctl),
		uintptr(unsafe.Pointer(&li)))
	if errno != 0 {
		return LineInfoV2{}, errno
	}
	return li, nil
}

// GetLine requests a set of lines from the GPIO character device using the
// v2 uAPI.
//
// The fd is an open GPIO character device.
// The lines must not already be requested.
// If successful, the fd for the requested lines is returned in request.Fd.
func GetLine(fd uintptr, request *LineRequest) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL,
		fd,
		uintptr(getLineIoctl),
		uintptr(unsafe.Pointer(request)))
	if errno != 0 {
		return errno
	}
	return nil
}

// GetLineValuesV2 returns the values of a set of requested lines.
//
// Only the values of lines set in values.Mask are returned.
// The fd is a requested line, as returned by GetLine.
func GetLineValuesV2(fd uintptr, values *LineValues) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL,
		fd,
		uintptr(getLineValuesV2Ioctl),
		uintptr(unsafe.Pointer(values)))
	if errno != 0 {
		return errno
	}
	return nil
}

// SetLineValuesV2 sets the values of a set of requested lines.
//
// Only the lines set in values.Mask are driven.
// The fd is a requested line, as returned by GetLine.
func SetLineValuesV2(fd uintptr, values LineValues) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL,
		fd,
		uintptr(setLineValuesV2Ioctl),
		uintptr(unsafe.Pointer(&values)))
	if errno != 0 {
		return errno
	}
	return nil
}

// ReadLineEvent reads a single v2 edge event from a requested line.
//
// The fd is a requested line, as returned by GetLine.
// The read blocks unless the fd is in non-blocking mode, in which case it
// returns unix.EAGAIN when no event is queued.
func ReadLineEvent(fd uintptr) (LineEvent, error) {
	var le LineEvent
	err := binary.Read(fdReader(fd), nativeEndian, &le)
	return le, err
}

var (
	getLineInfoV2Ioctl   ioctl
	getLineIoctl         ioctl
	getLineValuesV2Ioctl ioctl
	setLineValuesV2Ioctl ioctl
)

func init() {
	var li LineInfoV2
	getLineInfoV2Ioctl = iorw(0xB4, 0x05, unsafe.Sizeof(li))
	var lr LineRequest
	getLineIoctl = iorw(0xB4, 0x07, unsafe.Sizeof(lr))
	var lv LineValues
	getLineValuesV2Ioctl = iorw(0xB4, 0x0E, unsafe.Sizeof(lv))
	setLineValuesV2Ioctl = iorw(0xB4, 0x0F, unsafe.Sizeof(lv))
}

const (
	// LinesMax is the maximum number of lines that can be requested in a
	// single v2 request.
	LinesMax = 64

	// LineNumAttrsMax is the maximum number of config attributes in a
	// single v2 request.
	LineNumAttrsMax = 10
)

// LineFlagV2 are the v2 flags for a line.
type LineFlagV2 uint64

const (
	// LineFlagV2Used indicates that the line is already in use.
	LineFlagV2Used LineFlagV2 = 1 << iota

	// LineFlagV2ActiveLow indicates that the line is active low.
	LineFlagV2ActiveLow

	// LineFlagV2Input indicates that the line direction is an input.
	LineFlagV2Input

	// LineFlagV2Output indicates that the line direction is an output.
	LineFlagV2Output

	// LineFlagV2EdgeRising indicates that edge detection for rising edges
	// is enabled on the line.
	LineFlagV2EdgeRising

	// LineFlagV2EdgeFalling indicates that edge detection for falling edges
	// is enabled on the line.
	LineFlagV2EdgeFalling

	// LineFlagV2OpenDrain indicates that the line is an open drain output.
	LineFlagV2OpenDrain

	// LineFlagV2OpenSource indicates that the line is an open source
	// output.
	LineFlagV2OpenSource

	// LineFlagV2BiasPullUp indicates that the line has pull-up enabled.
	LineFlagV2BiasPullUp

	// LineFlagV2BiasPullDown indicates that the line has pull-down enabled.
	LineFlagV2BiasPullDown

	// LineFlagV2BiasDisabled indicates that the line has bias disabled.
	LineFlagV2BiasDisabled

	// LineFlagV2EventClockRealtime indicates that edge events on the line
	// are timestamped using the realtime clock rather than the default
	// monotonic clock.
	LineFlagV2EventClockRealtime

	// LineFlagV2EdgeBoth indicates edge detection for both rising and
	// falling edges.
	LineFlagV2EdgeBoth = LineFlagV2EdgeRising | LineFlagV2EdgeFalling
)

// IsUsed returns true if the line is in use.
func (f LineFlagV2) IsUsed() bool {
	return f&LineFlagV2Used != 0
}

// IsActiveLow returns true if the line is active low.
func (f LineFlagV2) IsActiveLow() bool {
	return f&LineFlagV2ActiveLow != 0
}

// IsInput returns true if the line is an input.
func (f LineFlagV2) IsInput() bool {
	return f&LineFlagV2Input != 0
}

// IsOutput returns true if the line is an output.
func (f LineFlagV2) IsOutput() bool {
	return f&LineFlagV2Output != 0
}

// IsRisingEdge returns true if the line detects rising edges.
func (f LineFlagV2) IsRisingEdge() bool {
	return f&LineFlagV2EdgeRising != 0
}

// IsFallingEdge returns true if the line detects falling edges.
func (f LineFlagV2) IsFallingEdge() bool {
	return f&LineFlagV2EdgeFalling != 0
}

// IsBothEdges returns true if the line detects both rising and falling
// edges.
func (f LineFlagV2) IsBothEdges() bool {
	return f&LineFlagV2EdgeBoth == LineFlagV2EdgeBoth
}

// IsOpenDrain returns true if the line is open-drain.
func (f LineFlagV2) IsOpenDrain() bool {
	return f&LineFlagV2OpenDrain != 0
}

// IsOpenSource returns true if the line is open-source.
func (f LineFlagV2) IsOpenSource() bool {
	return f&LineFlagV2OpenSource != 0
}

// IsBiasPullUp returns true if the line has pull-up enabled.
func (f LineFlagV2) IsBiasPullUp() bool {
	return f&LineFlagV2BiasPullUp != 0
}

// IsBiasPullDown returns true if the line has pull-down enabled.
func (f LineFlagV2) IsBiasPullDown() bool {
	return f&LineFlagV2BiasPullDown != 0
}

// IsBiasDisabled returns true if the line has bias disabled.
func (f LineFlagV2) IsBiasDisabled() bool {
	return f&LineFlagV2BiasDisabled != 0
}

// LineInfoV2 contains the v2 details of a single line of a GPIO chip.
type LineInfoV2 struct {
	// The system name for this line.
	Name [nameSize]byte

	// If requested, a string added by the requester to identify the
	// owner of the request.
	Consumer [nameSize]byte

	// The offset of the line within the chip.
	Offset uint32

	// The number of attributes in Attrs.
	NumAttrs uint32

	// The line flags applied to this line.
	Flags LineFlagV2

	// The attributes applied to this line.
	Attrs [LineNumAttrsMax]LineAttribute

	// reserved for future use.
	Padding [4]uint32
}

// LineAttributeID identifies the type of a LineAttribute.
type LineAttributeID uint32

const (
	// LineAttributeIDFlags indicates the attribute value contains
	// LineFlagV2 flags.
	LineAttributeIDFlags LineAttributeID = iota + 1

	// LineAttributeIDOutputValues indicates the attribute value contains
	// a bitmap of output values.
	LineAttributeIDOutputValues

	// LineAttributeIDDebounce indicates the attribute value contains a
	// debounce period, in microseconds.
	LineAttributeIDDebounce
)

// LineAttribute associates a value with a particular attribute type.
//
// The interpretation of Value depends on the ID.
type LineAttribute struct {
	// The type of the attribute.
	ID LineAttributeID

	// pad to align Value
	Padding uint32

	// The value of the attribute.
	Value uint64
}

// LineConfigAttribute applies a LineAttribute to a subset of the lines in a
// request.
type LineConfigAttribute struct {
	// The attribute to be applied.
	Attr LineAttribute

	// A bitmap identifying the lines the attribute applies to, with bit
	// positions corresponding to the order of the offsets in the request.
	Mask uint64
}

// LineConfig contains the configuration of the lines in a v2 request.
type LineConfig struct {
	// The flags applied to all lines in the request, unless overridden by
	// an attribute.
	Flags LineFlagV2

	// The number of attributes in Attrs.
	NumAttrs uint32

	// reserved for future use.
	Padding [5]uint32

	// The attributes applied to subsets of the requested lines.
	Attrs [LineNumAttrsMax]LineConfigAttribute
}

// LineRequest is a v2 request for control of a set of lines.
//
// The lines must all be on the same GPIO chip.
type LineRequest struct {
	// The lines to be requested.
	Offsets [LinesMax]uint32

	// The string identifying the requester to be applied to the lines.
	Consumer [nameSize]byte

	// The configuration for the requested lines.
	Config LineConfig

	// The number of lines being requested.
	Lines uint32

	// The size of the kernel event buffer, in events.
	//
	// A size of zero selects the kernel default.
	// The size may be clamped by the kernel.
	EventBufferSize uint32

	// reserved for future use.
	Padding [5]uint32

	// The file handle for the requested lines.
	// Set if the request is successful.
	Fd int32
}

// LineValues contains the output values for a set of lines, and the mask of
// the lines they apply to.
//
// Bit positions correspond to the order of the offsets in the request.
type LineValues struct {
	// The logical value of the lines, set if the corresponding Mask bit is
	// set.
	Bits uint64

	// A bitmap identifying the lines to get or set.
	Mask uint64
}

const (
	// LineEventRisingEdge indicates the event is a rising edge.
	LineEventRisingEdge uint32 = iota + 1

	// LineEventFallingEdge indicates the event is a falling edge.
	LineEventFallingEdge
)

// LineEvent contains the details of a particular v2 line event.
//
// This is read from the request fd in response to events.
type LineEvent struct {
	// The time the event was detected, in nanoseconds.
	Timestamp uint64

	// The type of event detected - LineEventRisingEdge or
	// LineEventFallingEdge.
	ID uint32

	// The offset of the line that triggered the event.
	Offset uint32

	// The sequence number of the event in all events on the request.
	Seqno uint32

	// The sequence number of the event in events on this particular line.
	LineSeqno uint32

	// reserved for future use.
	Padding [6]uint32
}
