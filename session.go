package temper

import "log/slog"

// deviceConfiguration is the only configuration the device exposes.
const deviceConfiguration = 1

// Session describes one reading: which device to look for and where teardown
// diagnostics go. The zero value reads the first attached TEMPer and
// discards diagnostics.
type Session struct {
	Vendor  uint16       // vendor ID, 0 means IDVendorTemper
	Product uint16       // product ID, 0 means IDProductTemper
	Log     *slog.Logger // diagnostic sink for teardown failures, nil discards
}

// ReadTemperature runs one full session against the inner sensor and returns
// degrees Celsius.
func (s Session) ReadTemperature() (float64, error) {
	return s.read(CmdGetDataInner)
}

// ReadOuterTemperature reads the outer probe on two-sensor devices.
func (s Session) ReadOuterTemperature() (float64, error) {
	return s.read(CmdGetDataOuter)
}

func (s Session) read(op Command) (float64, error) {
	host, err := OpenHost()
	if err != nil {
		return 0, err
	}
	defer s.closeQuietly(host.Close, "shut down USB context")
	return s.readFromHost(host, op)
}

// readFromHost runs the session against an already open host stack: locate
// the device, claim interfaces 0 and 1, select the configuration, prime the
// device, read one sample, decode it. Any failure aborts the remaining
// forward steps; teardown of everything acquired so far still runs, in
// reverse order of acquisition.
func (s Session) readFromHost(host Host, op Command) (float64, error) {
	vendor, product := s.Vendor, s.Product
	if vendor == 0 {
		vendor = IDVendorTemper
	}
	if product == 0 {
		product = IDProductTemper
	}

	handle, err := findDevice(host, vendor, product)
	if err != nil {
		return 0, err
	}
	defer s.closeQuietly(handle.Close, "close device")

	guard0, err := ClaimDeviceInterface(handle, 0, s.Log)
	if err != nil {
		return 0, err
	}
	defer guard0.Release()

	guard1, err := ClaimDeviceInterface(handle, 1, s.Log)
	if err != nil {
		return 0, err
	}
	defer guard1.Release()

	if err := handle.SetConfiguration(deviceConfiguration); err != nil {
		return 0, &ConfigurationError{Err: err}
	}

	p := &protocol{handle: handle, log: s.logger()}
	if err := p.init(); err != nil {
		return 0, err
	}
	return p.temperature(op)
}

func (s Session) logger() *slog.Logger {
	if s.Log == nil {
		return discardLogger()
	}
	return s.Log
}

// closeQuietly runs a teardown step whose failure must not replace the
// session's primary error; it is logged instead.
func (s Session) closeQuietly(close func() error, what string) {
	if err := close(); err != nil {
		s.logger().Error(what, "error", err)
	}
}

// ReadTemperature reads the inner sensor of the first attached TEMPer.
func ReadTemperature() (float64, error) {
	return Session{}.ReadTemperature()
}
