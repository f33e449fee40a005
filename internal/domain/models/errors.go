// SPDX-License-Identifier: AGPL-3.0-or-later
package models

import "errors"

var (
	// ErrValidation wraps malformed input rejected at construction time:
	// a bad email address or a forbidden tag character. An ordinal day
	// above 31 is clamped by OrdinalDay, not rejected.
	ErrValidation = errors.New("validation error")

	// ErrClientNotFound is returned when a catalog lookup finds no row.
	ErrClientNotFound = errors.New("client not found")

	// ErrGroupNotFound is returned when a client group lookup finds no row.
	ErrGroupNotFound = errors.New("client group not found")

	// ErrEmailNotFound is returned when an email definition lookup finds no row.
	ErrEmailNotFound = errors.New("email not found")

	// ErrTemplateNotRendered marks the intentional non-goal: TemplateEmail
	// bodies are structurally present but never rendered.
	ErrTemplateNotRendered = errors.New("template email rendering is not implemented")

	// ErrCatalog names a database open/migration/write failure. InitDB
	// and the repositories wrap driver errors with fmt.Errorf and do not
	// wrap this sentinel.
	ErrCatalog = errors.New("catalog error")

	// ErrSmtpInit names an SMTP relay initialisation failure. Startup
	// does not test the relay connection and no code path returns this
	// error; the relay is first contacted by the first send.
	ErrSmtpInit = errors.New("smtp init error")

	// ErrSend is a per-message SMTP failure. Logged and surfaced to the
	// calling action; it never aborts the scheduler's consumer loop.
	ErrSend = errors.New("send error")
)
