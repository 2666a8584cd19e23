package temper

// Host is the slice of the USB stack a session consumes: one snapshot
// enumeration of attached devices plus the context to shut down afterwards.
// The platform backends and the test doubles all sit behind this surface.
type Host interface {
	Devices() ([]HostDevice, error)
	Close() error
}

// HostDevice is one enumerated device, inspectable without opening it.
type HostDevice interface {
	// ID returns the vendor and product identifiers from the device
	// descriptor.
	ID() (vendor, product uint16, err error)
	Open() (Handle, error)
}

// Handle is an open device. The method set mirrors the libusb device-handle
// calls the guard and protocol layers need; interface numbers and the
// control-transfer parameters carry libusb semantics.
type Handle interface {
	ControlTransfer(requestType, request byte, value, index uint16, data []byte, length int, timeout int) (int, error)
	KernelDriverActive(number int) (bool, error)
	DetachKernelDriver(number int) error
	AttachKernelDriver(number int) error
	ClaimInterface(number int) error
	ReleaseInterface(number int) error
	SetConfiguration(configuration int) error
	Close() error
}

// OpenHost opens the platform USB stack. The caller owns the result for the
// duration of one session and must Close it.
func OpenHost() (Host, error) {
	return openHost()
}
