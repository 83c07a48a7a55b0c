// Package rationale tracks which denied permissions still need an explanation
// shown to the user, and supplies the text for that explanation.
//
// # Queue
//
// Queue holds permission identifiers awaiting a rationale dialog in the order
// they were denied. A denial appends the permission unless it is already
// queued; a grant never changes the queue. The presenter reads FrontToBack to
// render dialogs with the most recent denial on top, and calls DismissFront
// when the user closes the dialog that was queued first:
//
//	q := rationale.NewQueue()
//	q.RecordResult(rationale.PermissionCamera, false)
//	q.RecordResult(rationale.PermissionRecordAudio, false)
//	q.FrontToBack() // [RECORD_AUDIO, CAMERA]
//	q.DismissFront()
//	q.FrontToBack() // [RECORD_AUDIO]
//
// Queue is NOT thread-safe. It is owned by a single screen and must only be
// touched from the UI thread.
//
// # Catalog
//
// The catalog maps each of the five supported permission kinds to a fixed
// pair of texts: one for a normal denial and one for a permanent decline,
// where the user has to be sent to the app settings. Unknown identifiers yield
// ErrUnrecognizedPermission.
package rationale
