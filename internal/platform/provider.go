package platform

import (
	"errors"
	"fmt"
)

// Provider bundles all host backends.
type Provider struct {
	Windows Windows
	Tabs    Tabs
	Menus   Menus
	Badge   Badge
}

// ErrUnsupported is returned when no host backend is registered.
var ErrUnsupported = errors.New("no browser host backend registered")

// ErrNotFound is returned by backends for unknown window, tab or menu ids.
var ErrNotFound = errors.New("not found")

// NewProviderFunc is set by backend packages via init().
// See internal/platform/memory for the in-memory registration.
var NewProviderFunc func() (*Provider, error)

// NewProvider returns a Provider from the registered backend.
func NewProvider() (*Provider, error) {
	if NewProviderFunc == nil {
		return nil, ErrUnsupported
	}
	return NewProviderFunc()
}

// Validate checks that every backend is present.
func (p *Provider) Validate() error {
	switch {
	case p == nil:
		return fmt.Errorf("nil provider")
	case p.Windows == nil:
		return fmt.Errorf("provider: windows backend missing")
	case p.Tabs == nil:
		return fmt.Errorf("provider: tabs backend missing")
	case p.Menus == nil:
		return fmt.Errorf("provider: menus backend missing")
	case p.Badge == nil:
		return fmt.Errorf("provider: badge backend missing")
	}
	return nil
}
