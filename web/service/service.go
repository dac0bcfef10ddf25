// Package service implements the ECO workflow core: identity, the change
// order state machine, the history ledger, attachments and reporting.
// Services hold an injected *gorm.DB; nothing in this package keeps global
// state.
package service

import "errors"

// Business-rule failures are sentinel errors so the HTTP layer can map them
// to distinct response codes. I/O failures are logged where they happen and
// returned wrapped.
var (
	ErrNotFound          = errors.New("record not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrDuplicateUser     = errors.New("username already exists")
	ErrWeakPassword      = errors.New("password too short")
	ErrInvalidToken      = errors.New("invalid or revoked token")
	ErrLastAdmin         = errors.New("cannot delete the last admin")
)

// TrustedActor is a bare username used by workflow operations. It carries
// get-or-create semantics and performs no credential check; callers that
// hold one are trusted (the HTTP layer only ever derives it from an
// authenticated user). Kept distinct from token-verified users on purpose.
type TrustedActor string
