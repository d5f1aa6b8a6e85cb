// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

//go:build linux

package uapi

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

// The structs are passed to the kernel by pointer, so their layout must
// match the kernel's exactly. The ioctl command encodes the struct size, so
// a mismatch shows up as a bad command number.
func TestStructSizes(t *testing.T) {
	assert.Equal(t, uintptr(68), unsafe.Sizeof(ChipInfo{}))
	assert.Equal(t, uintptr(72), unsafe.Sizeof(LineInfo{}))
	assert.Equal(t, uintptr(48), unsafe.Sizeof(EventRequest{}))
	assert.Equal(t, uintptr(8), unsafe.Sizeof(HandleData{}))
	assert.Equal(t, uintptr(256), unsafe.Sizeof(LineInfoV2{}))
	assert.Equal(t, uintptr(16), unsafe.Sizeof(LineAttribute{}))
	assert.Equal(t, uintptr(24), unsafe.Sizeof(LineConfigAttribute{}))
	assert.Equal(t, uintptr(272), unsafe.Sizeof(LineConfig{}))
	assert.Equal(t, uintptr(592), unsafe.Sizeof(LineRequest{}))
	assert.Equal(t, uintptr(16), unsafe.Sizeof(LineValues{}))
	assert.Equal(t, uintptr(48), unsafe.Sizeof(LineEvent{}))
}

func TestIoctlCommands(t *testing.T) {
	assert.Equal(t, ioctl(0x8044B401), getChipInfoIoctl)
	assert.Equal(t, ioctl(0xC048B402), getLineInfoIoctl)
	assert.Equal(t, ioctl(0xC054B403), getLineHandleIoctl)
	assert.Equal(t, ioctl(0xC030B404), getLineEventIoctl)
	assert.Equal(t, ioctl(0xC008B408), getLineValuesIoctl)
	assert.Equal(t, ioctl(0xC008B409), setLineValuesIoctl)

	assert.Equal(t, ioctl(0xC100B405), getLineInfoV2Ioctl)
	assert.Equal(t, ioctl(0xC250B407), getLineIoctl)
	assert.Equal(t, ioctl(0xC010B40E), getLineValuesV2Ioctl)
	assert.Equal(t, ioctl(0xC010B40F), setLineValuesV2Ioctl)
}

func TestBytesToString(t *testing.T) {
	patterns := []struct {
		name string
		b    []byte
		xs   string
	}{
		{"empty", []byte{}, ""},
		{"null", []byte{0}, ""},
		{"terminated", []byte{'g', 'p', 'i', 'o', 0, 'x'}, "gpio"},
		{"unterminated", []byte{'g', 'p', 'i', 'o'}, "gpio"},
	}
	for _, p := range patterns {
		p := p
		t.Run(p.name, func(t *testing.T) {
			assert.Equal(t, p.xs, BytesToString(p.b))
		})
	}
}

func TestLineFlags(t *testing.T) {
	var f LineFlag
	assert.False(t, f.IsUsed())
	assert.False(t, f.IsOut())

	f = LineFlagUsed | LineFlagIsOut | LineFlagActiveLow
	assert.True(t, f.IsUsed())
	assert.True(t, f.IsOut())
	assert.True(t, f.IsActiveLow())
	assert.False(t, f.IsOpenDrain())
	assert.False(t, f.IsBiasPullUp())
}

func TestLineFlagsV2(t *testing.T) {
	var f LineFlagV2
	assert.False(t, f.IsInput())
	assert.False(t, f.IsBothEdges())

	f = LineFlagV2Input | LineFlagV2EdgeRising
	assert.True(t, f.IsInput())
	assert.True(t, f.IsRisingEdge())
	assert.False(t, f.IsFallingEdge())
	assert.False(t, f.IsBothEdges())

	f |= LineFlagV2EdgeFalling
	assert.True(t, f.IsBothEdges())
}
