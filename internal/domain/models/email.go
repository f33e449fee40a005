// SPDX-License-Identifier: AGPL-3.0-or-later
package models

import (
	"fmt"

	"github.com/btouchard/campaignd/pkg/tags"
)

// BodyVariant discriminates the two forms an Email's body can take.
type BodyVariant int

const (
	BodyPlain BodyVariant = iota
	BodyTemplate
)

// PlainEmail is a literal, already-composed subject and body.
type PlainEmail struct {
	ID      string
	Subject string
	Body    string
}

// TemplateEmail names a template source that is never rendered by this
// system; sends against it always reject. SourcePath is still validated
// for existence against the template source store so a dangling
// reference is caught early.
type TemplateEmail struct {
	ID         string
	Subject    string
	Body       string
	SourcePath string
}

// Email is a sendable message definition. Exactly one of Plain or
// Template is set, matching Variant.
type Email struct {
	ID            string
	SenderAddress string
	Tags          []string
	Variant       BodyVariant
	Plain         *PlainEmail
	Template      *TemplateEmail
}

// NewPlainEmail builds an Email with a literal plain body. It validates
// the sender address and the tag list at construction time, returning
// ErrValidation rather than panicking.
func NewPlainEmail(id, senderAddress string, tagList []string, subject, body string) (*Email, error) {
	if err := ValidateAddress(senderAddress); err != nil {
		return nil, err
	}
	if err := tags.Validate(tagList); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return &Email{
		ID:            id,
		SenderAddress: senderAddress,
		Tags:          tagList,
		Variant:       BodyPlain,
		Plain:         &PlainEmail{ID: id, Subject: subject, Body: body},
	}, nil
}

// NewTemplateEmail builds an Email whose body is a template reference.
// Sending it always fails: with ErrTemplateNotRendered, or with
// ErrValidation when a configured template source store reports the
// source missing. The type exists so the catalog schema round-trips,
// not so it can be sent.
func NewTemplateEmail(id, senderAddress string, tagList []string, subject, body, sourcePath string) (*Email, error) {
	if err := ValidateAddress(senderAddress); err != nil {
		return nil, err
	}
	if err := tags.Validate(tagList); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return &Email{
		ID:            id,
		SenderAddress: senderAddress,
		Tags:          tagList,
		Variant:       BodyTemplate,
		Template:      &TemplateEmail{ID: id, Subject: subject, Body: body, SourcePath: sourcePath},
	}, nil
}
