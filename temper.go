// Package temper reads the TEMPer family of USB HID thermometers.
//
// The device speaks a vendor command protocol over USB control transfers:
// commands go out as 32-byte HID reports, responses come back as one 256-byte
// report. One Session covers one reading: find the device, take its two
// interfaces away from the kernel HID driver, run the protocol, and hand
// everything back.
package temper

import (
	"io"
	"log/slog"
	"time"
)

// USB identifiers of the TEMPer thermometer.
const (
	IDVendorTemper  = uint16(0x1130)
	IDProductTemper = uint16(0x660c)
)

// Maximum allowed reaction time for one USB control transfer.
const maxDelayUSB = 1000 * time.Millisecond

// Command is a single-byte opcode sent as the payload of a framed
// command report.
type Command byte

// Opcodes understood by the device. CmdReset1 is the priming reset of the
// two-sensor family members; no supported device sends it yet and it is kept
// for protocol completeness.
const (
	CmdReset0        Command = 0x43
	CmdReset1        Command = 0x44
	CmdGetDeviceType Command = 0x52
	CmdGetDataOuter  Command = 0x53
	CmdGetDataInner  Command = 0x54
)

// DeviceType identifies the family member from the first two bytes of the
// device-info report.
type DeviceType int

const (
	DeviceUnknown DeviceType = iota
	DeviceTemper1
	DeviceTemper2
	DeviceTemperHum
	DeviceTemperHum2
	DeviceTemperNTC
)

func (t DeviceType) String() string {
	switch t {
	case DeviceTemper1:
		return "TEMPer1"
	case DeviceTemper2:
		return "TEMPer2"
	case DeviceTemperHum:
		return "TEMPerHUM"
	case DeviceTemperHum2:
		return "TEMPerHUM2"
	case DeviceTemperNTC:
		return "TEMPerNTC"
	}
	return "unknown"
}

// deviceTypeOf decodes the type word as transmitted, byte for byte.
func deviceTypeOf(b0, b1 byte) DeviceType {
	if b1 != 0x58 {
		return DeviceUnknown
	}
	switch b0 {
	case 0x57:
		return DeviceTemper1
	case 0x58:
		return DeviceTemperNTC
	case 0x59:
		return DeviceTemper2
	case 0x5A:
		return DeviceTemperHum
	case 0x5B:
		return DeviceTemperHum2
	}
	return DeviceUnknown
}

// Decode converts the first two bytes of an inbound report into degrees
// Celsius. The report must hold at least two bytes; the transport guarantees
// a full 256. The device already reports Celsius, so no further conversion
// applies.
func Decode(report []byte) float64 {
	return float64(report[0]) + float64(report[1])/256
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
