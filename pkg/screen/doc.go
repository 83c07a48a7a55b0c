// Package screen implements the permission demo screen: a view-model that
// owns the rationale dialog queue, the dialog presentation model, and a Host
// that connects both to the platform permission API.
//
// The flow mirrors a single Android activity. Buttons call Host.RequestOne or
// Host.RequestAll; every denied permission is queued once; the presenter
// renders Host.Dialogs (most recent denial on top) and routes the dialog
// buttons to Host.Confirm and Host.Dismiss.
//
// All methods must be called from the UI thread. Results of blocking platform
// requests are applied through platform.Dispatch when a dispatcher is
// registered.
package screen
