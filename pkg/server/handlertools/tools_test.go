package handlertools

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gantapp/gant/pkg/models"
)

func TestIntFromQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?page=3&size=abc", nil)

	page, err := IntFromQuery(req, "page")
	assert.NoError(t, err)
	assert.Equal(t, 3, page)

	missing, err := IntFromQuery(req, "missing")
	assert.NoError(t, err)
	assert.Equal(t, 0, missing)

	_, err = IntFromQuery(req, "size")
	assert.Error(t, err)
}

func TestDateFromQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?date_from=2025-08-15&bad=15.08.2025", nil)

	date, err := DateFromQuery(req, "date_from")
	require.NoError(t, err)
	require.NotNil(t, date)
	assert.Equal(t, time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC), *date)

	missing, err := DateFromQuery(req, "missing")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	_, err = DateFromQuery(req, "bad")
	assert.Error(t, err)
}

func TestUserIDFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	userID, err := UserIDFromRequest(req)
	assert.NoError(t, err)
	assert.Equal(t, uuid.Nil, userID)

	want := uuid.New()
	req.Header.Set(UserIDHeader, want.String())
	userID, err = UserIDFromRequest(req)
	assert.NoError(t, err)
	assert.Equal(t, want, userID)

	req.Header.Set(UserIDHeader, "not-a-uuid")
	_, err = UserIDFromRequest(req)
	assert.Error(t, err)
}

func TestRenderErrorStatusMapping(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		status int
		want   int
	}{
		{"passes through status", errors.New("boom"), http.StatusInternalServerError, http.StatusInternalServerError},
		{"not found overrides", models.NewNotFoundError("auction x"), http.StatusInternalServerError, http.StatusNotFound},
		{"bad request overrides", models.NewBadRequestError("bad page"), http.StatusInternalServerError, http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			RenderError(recorder, tc.err, tc.status)
			assert.Equal(t, tc.want, recorder.Code)
		})
	}
}
