package temper

import "golang.org/x/xerrors"

// HID class control-transfer parameters for the report exchange.
const (
	requestTypeOut = byte(0x21) // host to device, class, interface
	requestTypeIn  = byte(0xA1) // device to host, class, interface

	requestSetReport = byte(0x09)
	requestGetReport = byte(0x01)

	reportValueOut = uint16(0x0200)
	reportValueIn  = uint16(0x0300)
	reportIndex    = uint16(0x0001)

	reportLenOut = 32
	reportLenIn  = 256
)

// sendReport writes one outbound report. The payload is zero-padded to the
// fixed 32-byte report size; anything but a complete write is an error.
// No retries happen here, every failure goes straight to the caller.
func sendReport(h Handle, payload []byte) error {
	buf := make([]byte, reportLenOut)
	copy(buf, payload)

	n, err := h.ControlTransfer(requestTypeOut, requestSetReport,
		reportValueOut, reportIndex, buf, len(buf), int(maxDelayUSB.Milliseconds()))
	if err != nil {
		return xerrors.Errorf("set report: %w", err)
	}
	if n != reportLenOut {
		return xerrors.Errorf("set report wrote %d of %d bytes: %w", n, reportLenOut, ErrShortWrite)
	}
	return nil
}

// recvReport reads one full 256-byte inbound report.
func recvReport(h Handle) ([]byte, error) {
	buf := make([]byte, reportLenIn)
	n, err := h.ControlTransfer(requestTypeIn, requestGetReport,
		reportValueIn, reportIndex, buf, len(buf), int(maxDelayUSB.Milliseconds()))
	if err != nil {
		return nil, xerrors.Errorf("get report: %w", err)
	}
	if n < reportLenIn {
		return nil, xerrors.Errorf("get report read %d of %d bytes: %w", n, reportLenIn, ErrShortRead)
	}
	return buf, nil
}
