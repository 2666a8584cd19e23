package temper

import (
	"fmt"

	"golang.org/x/sys/windows"
	"golang.org/x/xerrors"
)

const (
	deviceDescriptorSize = 18
	ezPrefix             = `\\.\ezusb-`
	ezMaxProbe           = 10
	ezIoctlIndex         = 0x0800
	fileDeviceUnknown    = uint32(0x00000022)
	methodBuffered       = 0
	methodInDirect       = 1
	fileAnyAccess        = 0
)

func ctlCode(deviceType, function, method, access uint32) uint32 {
	return (deviceType << 16) | (access << 14) | (function << 2) | method
}

// ioctlGetDeviceDescriptor asks the driver for the raw 18-byte USB device
// descriptor.
func ioctlGetDeviceDescriptor() uint32 {
	return ctlCode(fileDeviceUnknown, ezIoctlIndex+1, methodBuffered, fileAnyAccess)
}

// ioctlVendorOrClassRequest performs a control transfer through the driver.
func ioctlVendorOrClassRequest() uint32 {
	return ctlCode(fileDeviceUnknown, ezIoctlIndex+22, methodInDirect, fileAnyAccess)
}

// makeVendorOrClassRequest packs the driver's request control block as a raw
// byte slice; a Go struct is not used because its in-memory layout is not
// guaranteed to match the driver's. Layout: direction, request type,
// recipient, reserved, request, pad, value (LE), index (LE).
func makeVendorOrClassRequest(direction, requestType, recipient, request byte, value, index uint16) []byte {
	buf := make([]byte, 10)
	buf[0] = direction
	buf[1] = requestType
	buf[2] = recipient
	buf[4] = request
	buf[6] = byte(value)
	buf[7] = byte(value >> 8)
	buf[8] = byte(index)
	buf[9] = byte(index >> 8)
	return buf
}

// winHost enumerates devices by probing the fixed device names the EZ-USB
// style driver registers.
type winHost struct{}

func openHost() (Host, error) {
	return winHost{}, nil
}

func (winHost) Devices() ([]HostDevice, error) {
	var list []HostDevice
	for i := 0; i < ezMaxProbe; i++ {
		path := fmt.Sprintf("%s%d", ezPrefix, i)
		vendor, product, err := probeDevice(path)
		if err != nil {
			continue
		}
		list = append(list, &winDevice{path: path, vendor: vendor, product: product})
	}
	return list, nil
}

func (winHost) Close() error { return nil }

// probeDevice opens a candidate driver name just long enough to read its
// descriptor identifiers.
func probeDevice(path string) (vendor, product uint16, err error) {
	h, err := openPath(path)
	if err != nil {
		return 0, 0, err
	}
	defer windows.CloseHandle(h)
	return readDescriptorIDs(h)
}

func openPath(path string) (windows.Handle, error) {
	name, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return windows.InvalidHandle, err
	}
	return windows.CreateFile(name,
		windows.GENERIC_WRITE,
		windows.FILE_SHARE_WRITE,
		nil,
		windows.OPEN_EXISTING,
		windows.FILE_ATTRIBUTE_NORMAL, 0)
}

func readDescriptorIDs(h windows.Handle) (vendor, product uint16, err error) {
	desc := make([]byte, deviceDescriptorSize)
	var returned uint32
	err = windows.DeviceIoControl(h, ioctlGetDeviceDescriptor(),
		nil, 0, &desc[0], deviceDescriptorSize, &returned, nil)
	if err != nil {
		return 0, 0, xerrors.Errorf("device descriptor ioctl: %w", err)
	}
	vendor = uint16(desc[9])<<8 | uint16(desc[8])
	product = uint16(desc[11])<<8 | uint16(desc[10])
	return vendor, product, nil
}

type winDevice struct {
	path    string
	vendor  uint16
	product uint16
}

func (d *winDevice) ID() (vendor, product uint16, err error) {
	return d.vendor, d.product, nil
}

func (d *winDevice) Open() (Handle, error) {
	h, err := openPath(d.path)
	if err != nil {
		return nil, xerrors.Errorf("open %s: %w", d.path, err)
	}
	return &winHandle{h: h}, nil
}

type winHandle struct {
	h windows.Handle
}

// ControlTransfer maps the libusb-style request onto the driver's
// vendor-or-class request block. Bit 7 of requestType is the direction,
// bits 5..6 the type, bits 0..4 the recipient; the driver applies its own
// transfer timeout.
func (w *winHandle) ControlTransfer(requestType, request byte, value, index uint16, data []byte, length int, timeout int) (int, error) {
	direction := requestType >> 7
	reqType := (requestType >> 5) & 0x3
	recipient := requestType & 0x1f
	block := makeVendorOrClassRequest(direction, reqType, recipient, request, value, index)

	var returned uint32
	err := windows.DeviceIoControl(w.h, ioctlVendorOrClassRequest(),
		&block[0], uint32(len(block)), &data[0], uint32(length), &returned, nil)
	if err != nil {
		return 0, xerrors.Errorf("vendor-or-class request ioctl: %w", err)
	}
	return int(returned), nil
}

// The bound driver keeps ownership of the interface for the whole session,
// so there is no kernel driver to detach and nothing to claim or configure.

func (w *winHandle) KernelDriverActive(number int) (bool, error) { return false, nil }
func (w *winHandle) DetachKernelDriver(number int) error         { return nil }
func (w *winHandle) AttachKernelDriver(number int) error         { return nil }
func (w *winHandle) ClaimInterface(number int) error             { return nil }
func (w *winHandle) ReleaseInterface(number int) error           { return nil }
func (w *winHandle) SetConfiguration(configuration int) error    { return nil }

func (w *winHandle) Close() error {
	return windows.CloseHandle(w.h)
}
