package http

import (
	"errors"
	"net/http"

	"github.com/ewalker114/lifelog/internal/repository"
	"github.com/ewalker114/lifelog/internal/store"
)

var errorStatusMap = map[error]int{
	errInvalidID:    http.StatusBadRequest,
	errInvalidJSON:  http.StatusBadRequest,
	errMissingName:  http.StatusBadRequest,
	ErrInvalidToken: http.StatusUnauthorized,

	repository.ErrLevelOutOfRange:   http.StatusBadRequest,
	repository.ErrEmptyTagName:      http.StatusBadRequest,
	repository.ErrInvalidMediaType:  http.StatusBadRequest,
	store.ErrConstraintViolation:    http.StatusBadRequest,
	store.ErrDuplicateTagName:       http.StatusConflict,
	store.ErrEntryNotFound:          http.StatusNotFound,
	store.ErrTagNotFound:            http.StatusNotFound,
	store.ErrMediaNotFound:          http.StatusNotFound,
	store.ErrStorageUnavailable:     http.StatusServiceUnavailable,
	store.ErrNetworkUnavailable:     http.StatusBadGateway,

	store.ErrBuildingSQLQuery:       http.StatusInternalServerError,
	store.ErrExecutingQuery:         http.StatusInternalServerError,
	store.ErrBeginningTransaction:   http.StatusInternalServerError,
	store.ErrCommittingTransaction:  http.StatusInternalServerError,
	store.ErrScanningRow:            http.StatusInternalServerError,
	store.ErrScanningRows:           http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
