package temper

import "golang.org/x/xerrors"

// findDevice scans the current enumeration snapshot and opens the first
// device carrying the given vendor/product pair. Enumeration order is
// whatever the host stack returns. The snapshot is discarded when the scan
// ends, whether or not a match was opened.
func findDevice(host Host, vendor, product uint16) (Handle, error) {
	devices, err := host.Devices()
	if err != nil {
		return nil, xerrors.Errorf("enumerate USB devices: %w", err)
	}
	for _, d := range devices {
		v, p, err := d.ID()
		if err != nil {
			return nil, xerrors.Errorf("inspect device: %w", err)
		}
		if v == vendor && p == product {
			return d.Open()
		}
	}
	return nil, xerrors.Errorf("device %04x:%04x: %w", vendor, product, ErrNotFound)
}
