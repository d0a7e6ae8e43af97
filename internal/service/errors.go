package service

import (
	"net/http"

	"buildhub-state/internal/pkg/apierror"
)

var (
	ErrNotAuthenticated = apierror.New(http.StatusUnauthorized, "Not authenticated")
	ErrInvalidTheme     = apierror.New(http.StatusBadRequest, "Theme must be light or dark")
	ErrNotFound         = apierror.New(http.StatusNotFound, "Not found")
)
