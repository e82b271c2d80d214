package memory

import "github.com/mj1618/tabshuttle/internal/platform"

func init() {
	platform.NewProviderFunc = func() (*platform.Provider, error) {
		return NewBrowser().Provider(), nil
	}
}
