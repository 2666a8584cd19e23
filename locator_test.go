package temper

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindDeviceNotFound(t *testing.T) {
	host := &fakeHost{devices: []HostDevice{
		&fakeDevice{vendor: 0x0547, product: 0x0891, handle: newFakeHandle()},
		&fakeDevice{vendor: 0x1130, product: 0xffff, handle: newFakeHandle()},
	}}

	_, err := findDevice(host, IDVendorTemper, IDProductTemper)
	require.ErrorIs(t, err, ErrNotFound)

	for _, d := range host.devices {
		assert.False(t, d.(*fakeDevice).opened, "no device should be opened")
	}
}

func TestFindDeviceFirstMatch(t *testing.T) {
	first := &fakeDevice{vendor: IDVendorTemper, product: IDProductTemper, handle: newFakeHandle()}
	second := &fakeDevice{vendor: IDVendorTemper, product: IDProductTemper, handle: newFakeHandle()}
	host := &fakeHost{devices: []HostDevice{
		&fakeDevice{vendor: 0x1d6b, product: 0x0002, handle: newFakeHandle()},
		first,
		second,
	}}

	h, err := findDevice(host, IDVendorTemper, IDProductTemper)
	require.NoError(t, err)
	require.NotNil(t, h)
	assert.True(t, first.opened)
	assert.False(t, second.opened, "only the first match in enumeration order is opened")
}

func TestFindDeviceEnumerationFailure(t *testing.T) {
	host := &fakeHost{listErr: errors.New("usbfs unavailable")}

	_, err := findDevice(host, IDVendorTemper, IDProductTemper)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestFindDeviceOpenFailure(t *testing.T) {
	host := &fakeHost{devices: []HostDevice{
		&fakeDevice{vendor: IDVendorTemper, product: IDProductTemper, openErr: errors.New("access denied")},
	}}

	_, err := findDevice(host, IDVendorTemper, IDProductTemper)
	require.Error(t, err)
	assert.ErrorContains(t, err, "access denied")
}
