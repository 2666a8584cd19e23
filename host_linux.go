package temper

import (
	"github.com/gotmc/libusb"
	"golang.org/x/xerrors"
)

// libusbHost backs the Host contract with one libusb context.
type libusbHost struct {
	ctx *libusb.Context
}

func openHost() (Host, error) {
	ctx, err := libusb.NewContext()
	if err != nil {
		return nil, xerrors.Errorf("init USB context: %w", err)
	}
	return &libusbHost{ctx: ctx}, nil
}

func (h *libusbHost) Devices() ([]HostDevice, error) {
	devices, err := h.ctx.GetDeviceList()
	if err != nil {
		return nil, xerrors.Errorf("get USB device list: %w", err)
	}
	list := make([]HostDevice, len(devices))
	for i, d := range devices {
		list[i] = &libusbDevice{dev: d}
	}
	return list, nil
}

func (h *libusbHost) Close() error {
	return h.ctx.Close()
}

type libusbDevice struct {
	dev *libusb.Device
}

func (d *libusbDevice) ID() (vendor, product uint16, err error) {
	desc, err := d.dev.GetDeviceDescriptor()
	if err != nil {
		return 0, 0, xerrors.Errorf("get device descriptor: %w", err)
	}
	return desc.VendorID, desc.ProductID, nil
}

func (d *libusbDevice) Open() (Handle, error) {
	dh, err := d.dev.Open()
	if err != nil {
		return nil, xerrors.Errorf("open device: %w", err)
	}
	return &libusbHandle{dh: dh}, nil
}

// libusbHandle delegates straight to the libusb device handle.
type libusbHandle struct {
	dh *libusb.DeviceHandle
}

func (h *libusbHandle) ControlTransfer(requestType, request byte, value, index uint16, data []byte, length int, timeout int) (int, error) {
	bitmap := libusb.BitmapRequestType(
		transferDirection(requestType),
		transferType(requestType),
		transferRecipient(requestType))
	return h.dh.ControlTransfer(bitmap, request, value, index, data, length, timeout)
}

// The libusb binding takes the request-type bitmap as a defined type built
// from its three fields, not as a raw byte. Decompose the byte the same way
// the USB spec lays it out: bit 7 direction, bits 5..6 type, bits 0..4
// recipient.

func transferDirection(raw byte) libusb.TransferDirection {
	if raw&0x80 != 0 {
		return libusb.DeviceToHost
	}
	return libusb.HostToDevice
}

func transferType(raw byte) libusb.RequestType {
	switch (raw >> 5) & 0x3 {
	case 1:
		return libusb.Class
	case 2:
		return libusb.Vendor
	case 3:
		return libusb.Reserved
	}
	return libusb.Standard
}

func transferRecipient(raw byte) libusb.RequestRecipient {
	switch raw & 0x1f {
	case 1:
		return libusb.InterfaceRecipient
	case 2:
		return libusb.EndpointRecipient
	case 3:
		return libusb.OtherRecipient
	}
	return libusb.DeviceRecipient
}

func (h *libusbHandle) KernelDriverActive(number int) (bool, error) {
	return h.dh.KernelDriverActive(number)
}

func (h *libusbHandle) DetachKernelDriver(number int) error {
	return h.dh.DetachKernelDriver(number)
}

func (h *libusbHandle) AttachKernelDriver(number int) error {
	return h.dh.AttachKernelDriver(number)
}

func (h *libusbHandle) ClaimInterface(number int) error {
	return h.dh.ClaimInterface(number)
}

func (h *libusbHandle) ReleaseInterface(number int) error {
	return h.dh.ReleaseInterface(number)
}

func (h *libusbHandle) SetConfiguration(configuration int) error {
	return h.dh.SetConfiguration(configuration)
}

func (h *libusbHandle) Close() error {
	return h.dh.Close()
}
