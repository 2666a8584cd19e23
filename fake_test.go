package temper

import "errors"

// The fakes below implement the host contracts in memory and record every
// call, so tests can assert message ordering and teardown behavior without
// hardware.

type fakeHost struct {
	devices []HostDevice
	listErr error
	closed  bool
}

func (f *fakeHost) Devices() ([]HostDevice, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.devices, nil
}

func (f *fakeHost) Close() error {
	f.closed = true
	return nil
}

type fakeDevice struct {
	vendor  uint16
	product uint16
	handle  *fakeHandle
	opened  bool
	openErr error
}

func (d *fakeDevice) ID() (uint16, uint16, error) {
	return d.vendor, d.product, nil
}

func (d *fakeDevice) Open() (Handle, error) {
	if d.openErr != nil {
		return nil, d.openErr
	}
	d.opened = true
	return d.handle, nil
}

// fakeResponse scripts one inbound transfer. n overrides the reported byte
// count when nonzero.
type fakeResponse struct {
	data []byte
	n    int
	err  error
}

type fakeHandle struct {
	kernelActive    map[int]bool
	kernelActiveErr error
	claimErr        map[int]error
	releaseErr      map[int]error
	attachErr       map[int]error
	configErr       error

	sendErrAt   int // outbound call index that fails, -1 for none
	sendErr     error
	sendShortAt int // outbound call index that writes short, -1 for none

	responses []fakeResponse

	sent       [][]byte
	detached   []int
	attached   []int
	claimed    []int
	released   []int
	configured []int
	closed     int
}

func newFakeHandle() *fakeHandle {
	return &fakeHandle{
		kernelActive: map[int]bool{},
		claimErr:     map[int]error{},
		releaseErr:   map[int]error{},
		attachErr:    map[int]error{},
		sendErrAt:    -1,
		sendShortAt:  -1,
	}
}

func (f *fakeHandle) ControlTransfer(requestType, request byte, value, index uint16, data []byte, length int, timeout int) (int, error) {
	if requestType == requestTypeOut {
		call := len(f.sent)
		buf := make([]byte, length)
		copy(buf, data)
		f.sent = append(f.sent, buf)
		if call == f.sendErrAt {
			return 0, f.sendErr
		}
		if call == f.sendShortAt {
			return length - 1, nil
		}
		return length, nil
	}

	if len(f.responses) == 0 {
		return 0, errors.New("unexpected inbound transfer")
	}
	r := f.responses[0]
	f.responses = f.responses[1:]
	if r.err != nil {
		return 0, r.err
	}
	copy(data, r.data)
	if r.n != 0 {
		return r.n, nil
	}
	return len(r.data), nil
}

func (f *fakeHandle) KernelDriverActive(number int) (bool, error) {
	return f.kernelActive[number], f.kernelActiveErr
}

func (f *fakeHandle) DetachKernelDriver(number int) error {
	f.detached = append(f.detached, number)
	return nil
}

func (f *fakeHandle) AttachKernelDriver(number int) error {
	f.attached = append(f.attached, number)
	return f.attachErr[number]
}

func (f *fakeHandle) ClaimInterface(number int) error {
	if err := f.claimErr[number]; err != nil {
		return err
	}
	f.claimed = append(f.claimed, number)
	return nil
}

func (f *fakeHandle) ReleaseInterface(number int) error {
	f.released = append(f.released, number)
	return f.releaseErr[number]
}

func (f *fakeHandle) SetConfiguration(configuration int) error {
	f.configured = append(f.configured, configuration)
	return f.configErr
}

func (f *fakeHandle) Close() error {
	f.closed++
	return nil
}

// inboundReport builds a full 256-byte report starting with the given bytes.
func inboundReport(prefix ...byte) []byte {
	r := make([]byte, reportLenIn)
	copy(r, prefix)
	return r
}

// infoReport builds a device-info report with the given type word, fixed
// calibration pairs and footer.
func infoReport(b0, b1 byte) []byte {
	return inboundReport(b0, b1, 0x20, 0x10, 0x21, 0x11, 0x53)
}
