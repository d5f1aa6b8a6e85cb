// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

//go:build linux

package gpiod

import (
	"fmt"
	"os"
	"path"

	"github.com/warthog618/gpiod/uapi"
	"golang.org/x/sys/unix"
)

// Chip represents a single GPIO chip that controls a set of lines.
type Chip struct {
	f     *os.File
	name  string
	label string
	lines int

	options chipOptions

	// uAPI version found on the chip - 0 until the first versioned
	// operation settles it, then fixed for the life of the Chip.
	abi int

	closed bool
}

// NewChip opens the GPIO character device at path.
//
// The path must be to a GPIO character device, e.g. /dev/gpiochip0.
func NewChip(path string, options ...ChipOption) (*Chip, error) {
	co := chipOptions{}
	for _, option := range options {
		option.applyChipOption(&co)
	}
	f, err := os.OpenFile(path, unix.O_CLOEXEC, 0)
	if err != nil {
		if perr, ok := err.(*os.PathError); ok {
			err = perr.Err
		}
		return nil, errnoErr(err)
	}
	if err = checkChardev(f); err != nil {
		f.Close()
		return nil, err
	}
	ci, err := uapi.GetChipInfo(f.Fd())
	if err != nil {
		f.Close()
		return nil, errnoErr(err)
	}
	c := Chip{
		f:       f,
		name:    uapi.BytesToString(ci.Name[:]),
		label:   uapi.BytesToString(ci.Label[:]),
		lines:   int(ci.Lines),
		options: co,
		abi:     co.abi,
	}
	return &c, nil
}

// checkChardev confirms that the open file is a GPIO character device.
//
// The device is identified by its subsystem in sysfs, which also guards
// against the major:minor having been reassigned between the path being
// checked and the device being opened.
func checkChardev(f *os.File) error {
	var st unix.Stat_t
	if err := unix.Fstat(int(f.Fd()), &st); err != nil {
		return errnoErr(err)
	}
	if st.Mode&unix.S_IFMT != unix.S_IFCHR {
		return ErrNotCharacterDevice
	}
	rdev := uint64(st.Rdev)
	sp := fmt.Sprintf("/sys/dev/char/%d:%d/subsystem",
		unix.Major(rdev), unix.Minor(rdev))
	subsystem, err := os.Readlink(sp)
	if err != nil {
		return ErrNotCharacterDevice
	}
	if path.Base(subsystem) != "gpio" {
		return ErrNotCharacterDevice
	}
	return nil
}

// Name returns the system name of the chip, e.g. gpiochip0.
func (c *Chip) Name() string {
	return c.name
}

// Label returns the label of the chip, as set by the device driver.
func (c *Chip) Label() string {
	return c.label
}

// Lines returns the number of lines that exist on the chip.
func (c *Chip) Lines() int {
	return c.lines
}

// UapiAbiVersion returns the version of the GPIO uAPI the chip is using, or
// 0 if the version has not been settled yet.
func (c *Chip) UapiAbiVersion() int {
	return c.abi
}

// Close releases the Chip.
//
// Closing the Chip does not affect requests made from it, which remain
// valid until they are themselves closed.
func (c *Chip) Close() error {
	if c.closed {
		return ErrClosed
	}
	c.closed = true
	return c.f.Close()
}

// LineInfo returns the publicly available information on the line.
//
// This is always available and does not require requesting the line.
func (c *Chip) LineInfo(offset int) (LineInfo, error) {
	if c.closed {
		return LineInfo{}, ErrClosed
	}
	if offset < 0 || offset >= c.lines {
		return LineInfo{}, ErrInvalidOffset
	}
	if c.abi != 1 {
		li, err := uapi.GetLineInfoV2(c.f.Fd(), offset)
		if err == nil {
			c.abi = 2
			return newLineInfoV2(li), nil
		}
		if c.abi == 2 || !isV2Unsupported(err) {
			return LineInfo{}, errnoErr(err)
		}
		c.abi = 1
	}
	li, err := uapi.GetLineInfo(c.f.Fd(), offset)
	if err != nil {
		return LineInfo{}, errnoErr(err)
	}
	return newLineInfo(li), nil
}

// isV2Unsupported reports whether err indicates a kernel that does not
// provide the v2 uAPI.
//
// Old kernels return ENOTTY for the unknown ioctl, though some return
// EINVAL instead.
func isV2Unsupported(err error) bool {
	return err == unix.ENOTTY || err == unix.EINVAL
}

// RequestLine requests control of a single line on the chip.
//
// If granted, control is maintained until the Request is closed.
func (c *Chip) RequestLine(offset int, options ...LineReqOption) (*Request, error) {
	return c.RequestLines([]int{offset}, options...)
}

// RequestLines requests control of a set of lines on the chip.
//
// The lines are configured as a unit, and the request succeeds or fails as
// a unit. If granted, control is maintained until the Request is closed.
//
// Invalid configurations are detected and rejected before any request is
// made to the kernel.
func (c *Chip) RequestLines(offsets []int, options ...LineReqOption) (*Request, error) {
	if c.closed {
		return nil, ErrClosed
	}
	lro := lineReqOptions{
		consumer: c.options.consumer,
		abi:      c.abi,
		offsets:  append([]int(nil), offsets...),
	}
	for _, option := range options {
		option.applyLineReqOption(&lro)
	}
	if lro.err != nil {
		return nil, lro.err
	}
	numLines := len(lro.offsets)
	for i, o := range lro.offsets {
		if o < 0 || o >= c.lines {
			return nil, ErrInvalidOffset
		}
		for _, oo := range lro.offsets[:i] {
			if oo == o {
				return nil, ErrInvalidConfig
			}
		}
	}
	if err := lro.validate(numLines); err != nil {
		return nil, err
	}
	if lro.abi != 1 {
		req, err := c.requestLinesV2(&lro, numLines)
		if err == nil {
			c.abi = 2
			return req, nil
		}
		if lro.abi == 2 || !isV2Unsupported(err) {
			return nil, errnoErr(err)
		}
		if c.abi == 0 {
			c.abi = 1
		}
	}
	if err := lro.v1Validate(numLines); err != nil {
		return nil, err
	}
	return c.requestLinesV1(&lro, numLines)
}

func (c *Chip) requestLinesV2(lro *lineReqOptions, numLines int) (*Request, error) {
	config, err := lro.toLineConfigV2(numLines)
	if err != nil {
		return nil, err
	}
	lr := uapi.LineRequest{
		Lines:           uint32(numLines),
		Config:          config,
		EventBufferSize: uint32(lro.eventBufferSize),
	}
	copy(lr.Consumer[:len(lr.Consumer)-1], lro.consumer)
	for i, o := range lro.offsets {
		lr.Offsets[i] = uint32(o)
	}
	if err = uapi.GetLine(c.f.Fd(), &lr); err != nil {
		return nil, err
	}
	fd := int(lr.Fd)
	unix.SetNonblock(fd, true)
	r := Request{
		fd:       fd,
		chipName: c.name,
		consumer: lro.consumer,
		abi:      2,
		offsets:  lro.offsets,
	}
	for i := 0; i < numLines; i++ {
		cfg := lro.cfg(i)
		if cfg.direction == DirectionOutput {
			r.outputs |= uint64(1) << uint(i)
		}
		if cfg.edge != EdgeNone {
			r.edges = true
		}
	}
	return &r, nil
}

func (c *Chip) requestLinesV1(lro *lineReqOptions, numLines int) (*Request, error) {
	r := Request{
		chipName: c.name,
		consumer: lro.consumer,
		abi:      1,
		offsets:  lro.offsets,
	}
	if lro.defCfg.edge != EdgeNone {
		// guaranteed a single input line by v1Validate
		er := uapi.EventRequest{
			Offset:      uint32(lro.offsets[0]),
			HandleFlags: lro.defCfg.toHandleFlags(),
			EventFlags:  lro.defCfg.toEventFlags(),
		}
		copy(er.Consumer[:len(er.Consumer)-1], lro.consumer)
		if err := uapi.GetLineEvent(c.f.Fd(), &er); err != nil {
			return nil, errnoErr(err)
		}
		r.fd = int(er.Fd)
		r.edges = true
		unix.SetNonblock(r.fd, true)
		return &r, nil
	}
	hr := uapi.HandleRequest{
		Lines: uint32(numLines),
		Flags: lro.defCfg.toHandleFlags(),
	}
	copy(hr.Consumer[:len(hr.Consumer)-1], lro.consumer)
	for i, o := range lro.offsets {
		hr.Offsets[i] = uint32(o)
	}
	if lro.defCfg.direction == DirectionOutput {
		r.outputs = lineMask(numLines)
		// v1 sets all lines on every set, so the request tracks the
		// level of every output line to emulate partial sets.
		r.driven = lro.values.truncate(numLines)
		r.driven.Mask = lineMask(numLines)
		for i := 0; i < numLines; i++ {
			if level, _ := r.driven.Get(i); level != 0 {
				hr.DefaultValues[i] = 1
			}
		}
	}
	if err := uapi.GetLineHandle(c.f.Fd(), &hr); err != nil {
		return nil, errnoErr(err)
	}
	r.fd = int(hr.Fd)
	return &r, nil
}

// RequestLine requests control of a single line on the chip at the given
// path.
//
// The chip is only opened to make the request and does not remain open.
func RequestLine(path string, offset int, options ...LineReqOption) (*Request, error) {
	return RequestLines(path, []int{offset}, options...)
}

// RequestLines requests control of a set of lines on the chip at the given
// path.
//
// The chip is only opened to make the request and does not remain open.
func RequestLines(path string, offsets []int, options ...LineReqOption) (*Request, error) {
	c, err := NewChip(path)
	if err != nil {
		return nil, err
	}
	defer c.Close()
	return c.RequestLines(offsets, options...)
}
