package temper

import (
	"errors"
	"fmt"
)

// Sentinel errors of the session and protocol layers. Underlying host-stack
// failures are wrapped, so errors.Is works at the top level.
var (
	ErrNotFound   = errors.New("no matching USB device attached")
	ErrShortWrite = errors.New("short report write")
	ErrShortRead  = errors.New("short report read")
)

// UnsupportedDeviceError reports a family member this module cannot drive.
type UnsupportedDeviceError struct {
	Type DeviceType
}

func (e *UnsupportedDeviceError) Error() string {
	return fmt.Sprintf("unsupported device type %s", e.Type)
}

// ConfigurationError reports a failed set-configuration request.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return "set device configuration: " + e.Err.Error()
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
