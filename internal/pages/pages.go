// Package pages maps page identifiers to their initialization routines and
// implements the panel controllers behind them. Panels never render
// themselves; they drive small view interfaces the GUI (or a test fake)
// implements. Every mutation re-fetches the collection it touched; there is
// no optimistic update anywhere in this module.
package pages

import "context"

// ListView is the render target for collection panels.
type ListView interface {
	// SetRows replaces the panel's contents wholesale.
	SetRows(rows [][]string)
	// SetPlaceholder renders the single "nothing here" row.
	SetPlaceholder(msg string)
	// SetError renders an inline failure state without clearing navigation.
	SetError(msg string)
}

// StatusView is the render target for single-result panels (validator,
// forwarder launch).
type StatusView interface {
	SetStatus(msg string)
	SetError(msg string)
}

// FormView is the render target for settings panels that edit one record.
type FormView interface {
	SetFields(fields map[string]string)
	SetError(msg string)
	Notify(msg string)
}

// ConfirmFunc asks the user before a destructive call. Deletes never run
// without it answering true.
type ConfirmFunc func(prompt string) bool

type InitFunc func(ctx context.Context)

// Registry is the dispatch table: page id -> initializer. Exactly one
// initializer runs per dispatch.
type Registry map[string]InitFunc

// Dispatch runs the initializer for pageID and reports whether one was
// registered. Unknown ids are a no-op, not an error.
func (r Registry) Dispatch(ctx context.Context, pageID string) bool {
	init, ok := r[pageID]
	if !ok {
		return false
	}
	init(ctx)
	return true
}
