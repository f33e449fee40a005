// SPDX-License-Identifier: AGPL-3.0-or-later
package models

import (
	"fmt"
	"net/mail"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Client is a single email recipient.
type Client struct {
	ID      string
	Address string
}

var domainCaser = cases.Lower(language.Und)

// ValidateAddress returns ErrValidation if address is not a syntactically
// valid email address.
func ValidateAddress(address string) error {
	if strings.TrimSpace(address) == "" {
		return fmt.Errorf("%w: empty address", ErrValidation)
	}
	if _, err := mail.ParseAddress(address); err != nil {
		return fmt.Errorf("%w: invalid address %q: %v", ErrValidation, address, err)
	}
	return nil
}

// NormalizeAddress lower-cases the domain part of an address, leaving
// the local part untouched (RFC 5321 treats the local part as
// case-sensitive but the domain is not). The unique address constraint
// compares addresses case-sensitively, so without this two clients
// differing only in domain case would both be stored.
func NormalizeAddress(address string) string {
	at := strings.LastIndex(address, "@")
	if at < 0 {
		return address
	}
	return address[:at+1] + domainCaser.String(address[at+1:])
}

// ClientGroup is a named collection of clients, with a unique name.
// Membership is stored separately so a client can belong to more than
// one group.
type ClientGroup struct {
	ID   string
	Name string
}
