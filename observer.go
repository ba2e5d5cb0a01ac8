package md2deck

import (
	"fmt"
	"sync"

	"github.com/alnah/go-md2deck/internal/assets"
)

// BrowserRuntime is a browser environment that can run a script on
// every new page before its document loads. An Exporter registers
// itself as the process runtime when its browser connects.
type BrowserRuntime interface {
	InstallInitScript(source string) error
}

var (
	observerMu        sync.Mutex
	observerInstalled bool
	browserRuntime    BrowserRuntime

	// installObserver performs the actual installation; replaced in tests.
	installObserver = func(rt BrowserRuntime, source string) error {
		return rt.InstallInitScript(source)
	}
)

// SetBrowserRuntime registers the runtime EnsureBrowserObserver installs
// into. A nil rt clears the registration.
func SetBrowserRuntime(rt BrowserRuntime) {
	observerMu.Lock()
	defer observerMu.Unlock()
	browserRuntime = rt
}

// releaseBrowserRuntime drops the registration if rt is still current,
// leaving a runtime registered by someone else alone.
func releaseBrowserRuntime(rt BrowserRuntime) {
	observerMu.Lock()
	defer observerMu.Unlock()
	if browserRuntime == rt {
		browserRuntime = nil
	}
}

// EnsureBrowserObserver installs the slide observer script into the
// registered browser runtime, once per process. The first successful
// installation latches; later calls are no-ops even if the runtime
// changes. Without a registered runtime it fails with
// ErrNoBrowserRuntime and stays armed for the next call.
func EnsureBrowserObserver() error {
	observerMu.Lock()
	defer observerMu.Unlock()

	if observerInstalled {
		return nil
	}
	if browserRuntime == nil {
		return ErrNoBrowserRuntime
	}

	script, err := assets.ObserverScript()
	if err != nil {
		return fmt.Errorf("loading observer script: %w", err)
	}
	if err := installObserver(browserRuntime, script); err != nil {
		return fmt.Errorf("installing observer script: %w", err)
	}

	observerInstalled = true
	return nil
}
