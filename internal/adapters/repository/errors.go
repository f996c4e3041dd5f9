package repository

import (
	"errors"

	"github.com/busfactor/guardian/internal/domain/guardian"
)

var (
	// ErrNotFound reports a person id absent from the directory. It is
	// the engine's sentinel so that callers on either side of the port
	// match with errors.Is.
	ErrNotFound = guardian.ErrNotFound

	// ErrSnapshot reports an unreadable or malformed dataset snapshot.
	ErrSnapshot = errors.New("invalid dataset snapshot")
)
