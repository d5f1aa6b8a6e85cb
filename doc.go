// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

/*
Package gpiod is a library for accessing GPIO pins/lines on Linux platforms
using the GPIO character device.

Chips ([Chip]) provide access to the lines of a single GPIO chip, identified
by its character device, e.g. /dev/gpiochip0.  Both generations of the GPIO
uAPI are supported, with the version available on the chip determined
automatically the first time it matters, so the same code runs against both
old and new kernels.  Note that the v1 uAPI places tighter limits on
requests - at most 8 lines per request, one uniform configuration across the
request, and edge detection on single line requests only.

Lines must be requested, using [Chip.RequestLines] or one of its variants,
before they can be controlled.  The request reserves the lines for the
caller, configures them, and returns a [Request] which provides the
operations on the lines - reading and writing levels using [Values], and
receiving edge events.

Levels for a set of lines are passed in [Values], which pairs the levels
with a mask selecting the lines they apply to, so a subset of the requested
lines can be read or written in a single operation.

Edge events are read from a [Request] one at a time, either blocking with
[Request.ReadEvent], or under the control of a context with
[Request.ReadEventContext].

# Example Usage

Read a line level:

	l, err := gpiod.RequestLine("/dev/gpiochip0", 4, gpiod.AsInput)
	vv, err := l.Values()
	v, _ := vv.Get(0)
	l.Close()

Drive a pair of lines, then toggle the first:

	ll, err := gpiod.RequestLines("/dev/gpiochip0", []int{4, 7},
		gpiod.AsOutput(1, 0))
	err = ll.SetValues(gpiod.NewValues(0))
	ll.Close()

Wait on a button press:

	b, err := gpiod.RequestLine("/dev/gpiochip0", 3,
		gpiod.WithPullUp, gpiod.WithFallingEdge)
	evt, err := b.ReadEvent()
*/
package gpiod
