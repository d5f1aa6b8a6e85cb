// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

//go:build linux

// Package uapi provides the Linux GPIO uAPI definitions for gpiod.
//
// Both generations of the uAPI are provided; v1 in this file and v2 in v2.go.
// The structs are layout compatible with the kernel and are passed to the
// kernel via ioctl, so must not be reordered or resized.
package uapi

import (
	"bytes"
	"encoding/binary"
	"unsafe"

	"golang.org/x/sys/unix"
)

// GetChipInfo returns the ChipInfo for the GPIO character device.
//
// The fd is an open GPIO character device.
func GetChipInfo(fd uintptr) (ChipInfo, error) {
	var ci ChipInfo
	_, _, errno := unix.Syscall(unix.SYS_IOCTL,
		fd,
		uintptr(getChipInfoIoctl),
		uintptr(unsafe.Pointer(&ci)))
	if errno != 0 {
		return ci, errno
	}
	return ci, nil
}

// GetLineInfo returns the v1 LineInfo for one line from the GPIO character
// device.
//
// The fd is an open GPIO character device.
// The offset is zero based.
func GetLineInfo(fd uintptr, offset int) (LineInfo, error) {
	var li LineInfo
	li.Offset = uint32(offset)
	_, _, errno := unix.Syscall(unix.SYS_IOCTL,
		fd,
		uintptr(getLineInfoIoctl),
		uintptr(unsafe.Pointer(&li)))
	if errno != 0 {
		return LineInfo{}, errno
	}
	return li, nil
}

// GetLineHandle requests a set of lines from the GPIO character device.
//
// This request is without event reporting.
// The fd is an open GPIO character device.
// The lines must not already be requested.
// The flags in the request are applied to all lines in the request.
// If successful, the fd for the requested lines is returned in request.Fd.
func GetLineHandle(fd uintptr, request *HandleRequest) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL,
		fd,
		uintptr(getLineHandleIoctl),
		uintptr(unsafe.Pointer(request)))
	if errno != 0 {
		return errno
	}
	return nil
}

// GetLineEvent requests a line from the GPIO character device with edge event
// reporting enabled.
//
// The fd is an open GPIO character device.
// The line must be an input and must not already be requested.
// If successful, the fd for the line is returned in request.Fd.
func GetLineEvent(fd uintptr, request *EventRequest) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL,
		fd,
		uintptr(getLineEventIoctl),
		uintptr(unsafe.Pointer(request)))
	if errno != 0 {
		return errno
	}
	return nil
}

// GetLineValues returns the values of a set of requested lines.
//
// The fd is a requested line, as returned by GetLineHandle or GetLineEvent.
func GetLineValues(fd uintptr, values *HandleData) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL,
		fd,
		uintptr(getLineValuesIoctl),
		uintptr(unsafe.Pointer(&values[0])))
	if errno != 0 {
		return errno
	}
	return nil
}

// SetLineValues sets the values of a set of requested lines.
//
// The fd is a requested line, as returned by GetLineHandle.
func SetLineValues(fd uintptr, values HandleData) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL,
		fd,
		uintptr(setLineValuesIoctl),
		uintptr(unsafe.Pointer(&values[0])))
	if errno != 0 {
		return errno
	}
	return nil
}

// ReadEvent reads a single v1 edge event from a requested line.
//
// The fd is a requested line, as returned by GetLineEvent.
// The read blocks unless the fd is in non-blocking mode, in which case it
// returns unix.EAGAIN when no event is queued.
func ReadEvent(fd uintptr) (EventData, error) {
	var ed EventData
	err := binary.Read(fdReader(fd), nativeEndian, &ed)
	return ed, err
}

// BytesToString converts strings stored in fixed length byte arrays, as
// returned by GetChipInfo and GetLineInfo, into Go strings.
func BytesToString(a []byte) string {
	n := bytes.IndexByte(a, 0)
	if n == -1 {
		return string(a)
	}
	return string(a[:n])
}

type fdReader uintptr

func (fd fdReader) Read(b []byte) (int, error) {
	n, err := unix.Read(int(fd), b[:])
	if n < 0 {
		n = 0
	}
	return n, err
}

// ioctl command codes
type ioctl uintptr

const (
	iocNone  uintptr = 0
	iocWrite uintptr = 1
	iocRead  uintptr = 2

	iocNRShift   = 0
	iocTypeShift = 8
	iocSizeShift = 16
	iocDirShift  = 30
)

func ioc(dir, t, nr, size uintptr) ioctl {
	return ioctl(dir<<iocDirShift | size<<iocSizeShift | t<<iocTypeShift | nr<<iocNRShift)
}

func ior(t, nr, size uintptr) ioctl {
	return ioc(iocRead, t, nr, size)
}

func iorw(t, nr, size uintptr) ioctl {
	return ioc(iocRead|iocWrite, t, nr, size)
}

var (
	getChipInfoIoctl   ioctl
	getLineInfoIoctl   ioctl
	getLineHandleIoctl ioctl
	getLineEventIoctl  ioctl
	getLineValuesIoctl ioctl
	setLineValuesIoctl ioctl
)

// Size of name and consumer strings.
const nameSize = 32

func init() {
	// ioctls require struct sizes which are only available at runtime.
	var ci ChipInfo
	getChipInfoIoctl = ior(0xB4, 0x01, unsafe.Sizeof(ci))
	var li LineInfo
	getLineInfoIoctl = iorw(0xB4, 0x02, unsafe.Sizeof(li))
	var hr HandleRequest
	getLineHandleIoctl = iorw(0xB4, 0x03, unsafe.Sizeof(hr))
	var er EventRequest
	getLineEventIoctl = iorw(0xB4, 0x04, unsafe.Sizeof(er))
	var hd HandleData
	getLineValuesIoctl = iorw(0xB4, 0x08, unsafe.Sizeof(hd))
	setLineValuesIoctl = iorw(0xB4, 0x09, unsafe.Sizeof(hd))
}

// ChipInfo contains the details of a GPIO chip.
type ChipInfo struct {
	// The system name of the device.
	Name [nameSize]byte

	// An identifying label added by the device driver.
	Label [nameSize]byte

	// The number of lines supported by this chip.
	Lines uint32
}

// LineInfo contains the v1 details of a single line of a GPIO chip.
type LineInfo struct {
	// The offset of the line within the chip.
	Offset uint32

	// The line flags applied to this line.
	Flags LineFlag

	// The system name for this line.
	Name [nameSize]byte

	// If requested, a string added by the requester to identify the
	// owner of the request.
	Consumer [nameSize]byte
}

// LineFlag are the v1 flags for a line.
type LineFlag uint32

const (
	// LineFlagUsed indicates that the line is already in use.
	// It may have been requested by this process or another process,
	// or may be reserved by the kernel.
	//
	// The line cannot be requested until this flag is clear.
	LineFlagUsed LineFlag = 1 << iota

	// LineFlagIsOut indicates that the line is an output.
	LineFlagIsOut

	// LineFlagActiveLow indicates that the line is active low.
	LineFlagActiveLow

	// LineFlagOpenDrain indicates that the line will pull low when set low
	// but float when set high. This flag only applies to output lines.
	LineFlagOpenDrain

	// LineFlagOpenSource indicates that the line will pull high when set
	// high but float when set low. This flag only applies to output lines.
	LineFlagOpenSource

	// LineFlagBiasPullUp indicates that the internal line pull up is
	// enabled.
	LineFlagBiasPullUp

	// LineFlagBiasPullDown indicates that the internal line pull down is
	// enabled.
	LineFlagBiasPullDown

	// LineFlagBiasDisabled indicates that the internal line bias is
	// disabled.
	LineFlagBiasDisabled
)

// IsUsed returns true if the line is in use.
func (f LineFlag) IsUsed() bool {
	return f&LineFlagUsed != 0
}

// IsOut returns true if the line is an output.
func (f LineFlag) IsOut() bool {
	return f&LineFlagIsOut != 0
}

// IsActiveLow returns true if the line is active low.
func (f LineFlag) IsActiveLow() bool {
	return f&LineFlagActiveLow != 0
}

// IsOpenDrain returns true if the line is open-drain.
func (f LineFlag) IsOpenDrain() bool {
	return f&LineFlagOpenDrain != 0
}

// IsOpenSource returns true if the line is open-source.
func (f LineFlag) IsOpenSource() bool {
	return f&LineFlagOpenSource != 0
}

// IsBiasPullUp returns true if the line has pull-up enabled.
func (f LineFlag) IsBiasPullUp() bool {
	return f&LineFlagBiasPullUp != 0
}

// IsBiasPullDown returns true if the line has pull-down enabled.
func (f LineFlag) IsBiasPullDown() bool {
	return f&LineFlagBiasPullDown != 0
}

// IsBiasDisabled returns true if the line has bias disabled.
func (f LineFlag) IsBiasDisabled() bool {
	return f&LineFlagBiasDisabled != 0
}

// HandlesMax is the maximum number of lines that can be requested in a
// single v1 request.
const HandlesMax = 8

// HandleRequest is a v1 request for control of a set of lines.
//
// The lines must all be on the same GPIO chip.
type HandleRequest struct {
	// The lines to be requested.
	Offsets [HandlesMax]uint32

	// The flags to be applied to the lines.
	Flags HandleFlag

	// The default values to be applied to output lines.
	DefaultValues [HandlesMax]uint8

	// The string identifying the requester to be applied to the lines.
	Consumer [nameSize]byte

	// The number of lines being requested.
	Lines uint32

	// The file handle for the requested lines.
	// Set if the request is successful.
	Fd int32
}

// HandleFlag contains the request flags for a v1 handle request.
type HandleFlag uint32

const (
	// HandleRequestInput requests the lines as inputs.
	HandleRequestInput HandleFlag = 1 << iota

	// HandleRequestOutput requests the lines as outputs.
	//
	// This takes precedence over Input, if both are set.
	HandleRequestOutput

	// HandleRequestActiveLow requests the lines be made active low.
	HandleRequestActiveLow

	// HandleRequestOpenDrain requests the lines be made open drain.
	//
	// This option requires the lines to be requested as outputs.
	// This cannot be set at the same time as OpenSource.
	HandleRequestOpenDrain

	// HandleRequestOpenSource requests the lines be made open source.
	//
	// This option requires the lines to be requested as outputs.
	// This cannot be set at the same time as OpenDrain.
	HandleRequestOpenSource

	// HandleRequestPullUp requests the lines have pull-up enabled.
	HandleRequestPullUp

	// HandleRequestPullDown requests the lines have pull-down enabled.
	HandleRequestPullDown

	// HandleRequestBiasDisable requests the lines have bias disabled.
	HandleRequestBiasDisable
)

// HandleData contains the logical value for each line.
//
// Zero is a logical low and any other value is a logical high.
type HandleData [HandlesMax]uint8

// EventRequest is a v1 request for control of a single line with edge event
// reporting enabled.
type EventRequest struct {
	// The line to be requested.
	Offset uint32

	// The handle flags applied to the line.
	HandleFlags HandleFlag

	// The type of events to report.
	EventFlags EventFlag

	// The string identifying the requester to be applied to the line.
	Consumer [nameSize]byte

	// The file handle for the requested line.
	// Set if the request is successful.
	Fd int32
}

// EventFlag indicates the types of edge events that will be reported.
type EventFlag uint32

const (
	// EventRequestRisingEdge requests rising edge events.
	//
	// This means a transition from a low logical state to a high logical
	// state. For active low lines this is a transition from a physical high
	// to a physical low.
	EventRequestRisingEdge EventFlag = 1 << iota

	// EventRequestFallingEdge requests falling edge events.
	EventRequestFallingEdge

	// EventRequestBothEdges requests both rising and falling edge events.
	EventRequestBothEdges = EventRequestRisingEdge | EventRequestFallingEdge
)
