package temper

import (
	"log/slog"

	"golang.org/x/xerrors"
)

// InterfaceGuard holds exclusive userspace ownership of one numbered USB
// interface. While it is held the kernel driver, if one was bound, stays
// detached; Release hands everything back.
type InterfaceGuard struct {
	handle   Handle
	number   int
	reattach bool
	released bool
	log      *slog.Logger
}

// ClaimDeviceInterface detaches the kernel driver from the interface if one
// is bound, then claims the interface for userspace. Any failure aborts the
// acquisition and is returned; no guard exists then. Diagnostics from the
// later teardown go to log; nil discards them.
func ClaimDeviceInterface(h Handle, number int, log *slog.Logger) (*InterfaceGuard, error) {
	if log == nil {
		log = discardLogger()
	}
	g := &InterfaceGuard{handle: h, number: number, log: log}

	active, err := h.KernelDriverActive(number)
	if err != nil {
		return nil, xerrors.Errorf("query kernel driver on interface %d: %w", number, err)
	}
	if active {
		if err := h.DetachKernelDriver(number); err != nil {
			return nil, xerrors.Errorf("detach kernel driver from interface %d: %w", number, err)
		}
		g.reattach = true
	}

	if err := h.ClaimInterface(number); err != nil {
		return nil, xerrors.Errorf("claim interface %d: %w", number, err)
	}
	return g, nil
}

// Release gives the interface up and reattaches the kernel driver when one
// was bound before. Release runs during teardown, so failures are logged and
// swallowed: they must neither mask the error that triggered the unwind nor
// stop the remaining cleanup steps. Calling Release again is a no-op.
func (g *InterfaceGuard) Release() {
	if g == nil || g.released {
		return
	}
	g.released = true

	if err := g.handle.ReleaseInterface(g.number); err != nil {
		g.log.Error("release interface", "interface", g.number, "error", err)
	}
	if g.reattach {
		if err := g.handle.AttachKernelDriver(g.number); err != nil {
			g.log.Error("reattach kernel driver", "interface", g.number, "error", err)
		}
	}
}
