package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matchwerk/tournament-scheduler/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadJSON(t *testing.T) {
	type input struct {
		Name string `json:"name"`
	}

	newRequest := func(body string) (*httptest.ResponseRecorder, *http.Request) {
		return httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	}

	t.Run("valid body", func(t *testing.T) {
		w, r := newRequest(`{"name":"Summer Cup"}`)
		var dst input
		require.NoError(t, readJSON(w, r, &dst))
		assert.Equal(t, "Summer Cup", dst.Name)
	})

	t.Run("empty body", func(t *testing.T) {
		w, r := newRequest("")
		var dst input
		err := readJSON(w, r, &dst)
		require.Error(t, err)
		assert.Equal(t, "body must not be empty", err.Error())
	})

	t.Run("malformed json", func(t *testing.T) {
		w, r := newRequest(`{"name":`)
		var dst input
		err := readJSON(w, r, &dst)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "badly-formed JSON")
	})

	t.Run("unknown field", func(t *testing.T) {
		w, r := newRequest(`{"name":"x","bogus":1}`)
		var dst input
		err := readJSON(w, r, &dst)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown key")
	})

	t.Run("wrong type", func(t *testing.T) {
		w, r := newRequest(`{"name":42}`)
		var dst input
		err := readJSON(w, r, &dst)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `incorrect JSON type for field "name"`)
	})

	t.Run("trailing value", func(t *testing.T) {
		w, r := newRequest(`{"name":"x"}{"name":"y"}`)
		var dst input
		err := readJSON(w, r, &dst)
		require.Error(t, err)
		assert.Equal(t, "body must only contain a single JSON value", err.Error())
	})
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": "x"}, http.Header{"X-Request-Id": []string{"abc"}})
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "abc", w.Header().Get("X-Request-Id"))
	assert.JSONEq(t, `{"tournament":"x"}`, w.Body.String())
	assert.True(t, strings.HasSuffix(w.Body.String(), "\n"))
}

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{services.ErrTournamentNotFound, http.StatusNotFound},
		{services.ErrTeamNotFound, http.StatusNotFound},
		{services.ErrMatchNotFound, http.StatusNotFound},
		{services.ErrNoPlayoffMatches, http.StatusNotFound},

		{services.ErrTournamentNameConflict, http.StatusConflict},
		{services.ErrTeamNameConflict, http.StatusConflict},
		{services.ErrTournamentLocked, http.StatusConflict},
		{services.ErrScheduleLocked, http.StatusConflict},
		{services.ErrGroupPhaseNotFinished, http.StatusConflict},
		{services.ErrNothingToResolve, http.StatusConflict},

		{services.ErrTournamentNameRequired, http.StatusBadRequest},
		{services.ErrTournamentInvalidGroups, http.StatusBadRequest},
		{services.ErrTournamentInvalidStatusTransition, http.StatusBadRequest},
		{services.ErrTeamNameRequired, http.StatusBadRequest},
		{services.ErrInvalidPlayoffPreset, http.StatusBadRequest},
		{services.ErrScoreNegative, http.StatusBadRequest},
		{services.ErrScoreIncomplete, http.StatusBadRequest},

		{services.ErrMatchNotResolvable, http.StatusUnprocessableEntity},
		{services.ErrNotEnoughTeams, http.StatusUnprocessableEntity},
		{services.ErrGroupTooSmall, http.StatusUnprocessableEntity},

		{services.ErrSnapshotStorageDisabled, http.StatusNotImplemented},

		{errors.New("database on fire"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/tournaments/x", nil)
			mapServiceErrorToHTTP(w, r, tc.err)
			assert.Equal(t, tc.wantStatus, w.Code)
		})
	}

	t.Run("wrapped sentinels still map", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/tournaments", nil)
		err := fmt.Errorf("%w: group C has 1", services.ErrGroupTooSmall)
		mapServiceErrorToHTTP(w, r, err)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}
