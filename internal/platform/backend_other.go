//go:build !linux

package platform

// NewBackend opens the default backend for this platform.
func NewBackend(display string) (Backend, error) {
	return nil, ErrUnsupported
}
