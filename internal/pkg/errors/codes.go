package errors

import "net/http"

var (
	ErrFeatureNotFound = New(
		"FEATURE_NOT_FOUND",
		"No feature matches the request",
		http.StatusNotFound,
	)

	ErrDatasetNotFound = New(
		"DATASET_NOT_FOUND",
		"Dataset is not configured or not loaded",
		http.StatusNotFound,
	)

	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrInvalidEventDate = New(
		"INVALID_EVENT_DATE",
		"Invalid date, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)

	ErrInvalidGraceDays = New(
		"INVALID_GRACE_DAYS",
		"Grace days must be between 0 and 365",
		http.StatusBadRequest,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrUpstreamError = New(
		"UPSTREAM_ERROR",
		"Upstream service request failed",
		http.StatusBadGateway,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
