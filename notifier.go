package backendapi

import "time"

// NopNotifier discards all notifications. It is the default when no notifier
// is configured, so headless use never touches a UI surface.
type NopNotifier struct{}

func (NopNotifier) ShowLoading(mask bool)                           {}
func (NopNotifier) HideLoading()                                    {}
func (NopNotifier) ShowMessage(text string, duration time.Duration) {}
