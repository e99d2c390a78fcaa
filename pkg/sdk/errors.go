package reflookup

import "github.com/kailas-cloud/reflookup/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound            = domain.ErrNotFound
	ErrSessionNotFound     = domain.ErrSessionNotFound
	ErrUnknownField        = domain.ErrUnknownField
	ErrAdvancedUnavailable = domain.ErrAdvancedUnavailable
	ErrTransport           = domain.ErrTransport
)
