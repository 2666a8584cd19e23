package temper

import (
	"log/slog"

	"golang.org/x/xerrors"
)

// Framing messages of the command protocol. Each goes out as the significant
// prefix of a zero-padded 32-byte report.
var (
	msgSelectDevice = []byte{10, 11, 12, 13, 0, 0, 2, 0}
	msgRequestRead  = []byte{10, 11, 12, 13, 0, 0, 1, 0}
	msgPadding      = make([]byte, 8)
)

// paddingCount is how many idle reports the device's internal I²C bus needs
// between the command and response phases.
const paddingCount = 7

// protocol drives the command/response sequence over one claimed device.
// The device's onboard state machine depends on message order, so every
// report keeps its ordinal position even when it carries no payload.
type protocol struct {
	handle Handle
	log    *slog.Logger
}

// selectDevice announces that a command follows.
func (p *protocol) selectDevice() error {
	return sendReport(p.handle, msgSelectDevice)
}

// sendCommand sends one opcode in an otherwise empty report.
func (p *protocol) sendCommand(op Command) error {
	return sendReport(p.handle, []byte{byte(op)})
}

// pad sends the idle reports.
func (p *protocol) pad() error {
	for i := 0; i < paddingCount; i++ {
		if err := sendReport(p.handle, msgPadding); err != nil {
			return err
		}
	}
	return nil
}

// requestRead signals the device to produce its response, then reads it.
func (p *protocol) requestRead() ([]byte, error) {
	if err := sendReport(p.handle, msgRequestRead); err != nil {
		return nil, err
	}
	return recvReport(p.handle)
}

// readData runs one full command round trip: select, command, padding,
// read request, response.
func (p *protocol) readData(op Command) ([]byte, error) {
	if err := p.selectDevice(); err != nil {
		return nil, xerrors.Errorf("select device: %w", err)
	}
	if err := p.sendCommand(op); err != nil {
		return nil, xerrors.Errorf("command %#02x: %w", byte(op), err)
	}
	if err := p.pad(); err != nil {
		return nil, xerrors.Errorf("padding after command %#02x: %w", byte(op), err)
	}
	response, err := p.requestRead()
	if err != nil {
		return nil, xerrors.Errorf("response to command %#02x: %w", byte(op), err)
	}
	return response, nil
}

// deviceInfo is the decoded prefix of the device-type report. The
// calibration pairs play no part in the temperature computation yet; they
// are parsed and logged for diagnostics.
type deviceInfo struct {
	Type        DeviceType
	TypeWord    [2]byte
	Calibration [2][2]byte
	Footer      byte
}

const deviceInfoLen = 7

// parseDeviceInfo decodes the leading fields of a device-type report,
// checking the buffer length first instead of reinterpreting raw memory.
func parseDeviceInfo(b []byte) (deviceInfo, error) {
	if len(b) < deviceInfoLen {
		return deviceInfo{}, xerrors.Errorf("device info report holds %d bytes, want at least %d", len(b), deviceInfoLen)
	}
	return deviceInfo{
		Type:     deviceTypeOf(b[0], b[1]),
		TypeWord: [2]byte{b[0], b[1]},
		Calibration: [2][2]byte{
			{b[2], b[3]},
			{b[4], b[5]},
		},
		Footer: b[6],
	}, nil
}

// init queries the device type and primes the device for reading. Only the
// single-sensor TEMPer1 is driven; the rest of the family answers the same
// query but needs read sequences this module does not implement.
//
// The type query is issued exactly once. Hardware freshly attached to the
// bus has been seen to need the query repeated until it settles; whether to
// retry here is still an open hardware question.
func (p *protocol) init() error {
	response, err := p.readData(CmdGetDeviceType)
	if err != nil {
		return xerrors.Errorf("query device type: %w", err)
	}
	info, err := parseDeviceInfo(response)
	if err != nil {
		return err
	}
	p.log.Debug("device info",
		"type", info.Type.String(),
		"word", info.TypeWord[:],
		"calibration0", info.Calibration[0][:],
		"calibration1", info.Calibration[1][:],
		"footer", info.Footer)

	switch info.Type {
	case DeviceTemper1:
		// a bare reset primes the sensor; no response follows
		if err := p.sendCommand(CmdReset0); err != nil {
			return xerrors.Errorf("reset: %w", err)
		}
		return nil
	case DeviceTemper2, DeviceTemperHum, DeviceTemperHum2, DeviceTemperNTC, DeviceUnknown:
		return &UnsupportedDeviceError{Type: info.Type}
	}
	return &UnsupportedDeviceError{Type: info.Type}
}

// temperature reads the given sensor opcode and decodes the sample.
func (p *protocol) temperature(op Command) (float64, error) {
	response, err := p.readData(op)
	if err != nil {
		return 0, xerrors.Errorf("read temperature: %w", err)
	}
	return Decode(response), nil
}
