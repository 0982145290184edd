package util

import "errors"

var (
	ErrPermissionDenied   = errors.New("permission denied")
	ErrCatalogNotLoaded   = errors.New("catalog not loaded")
	ErrNothingToPublish   = errors.New("published snapshot is already up to date")
	ErrPublishingDisabled = errors.New("publishing requires a database")
)
