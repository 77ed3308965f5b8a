package ports

import "context"

// AddressLocker grants exclusive leases over addresses. Lock blocks until the
// lease is acquired or the context is done. The returned function releases
// the lease and is safe to call more than once.
type AddressLocker interface {
	Lock(ctx context.Context, address string) (unlock func(), err error)
}
