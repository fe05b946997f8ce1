package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeformaine/codecourse/internal/domain/shared"
)

func TestWriteDomainError_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", shared.NewDomainError("classroom", "Create", shared.ErrInvalidInput, "bad name"), http.StatusBadRequest},
		{"unauthorized", shared.ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", shared.ErrNotClassroomOwner, http.StatusForbidden},
		{"not found", shared.ErrClassroomNotFound, http.StatusNotFound},
		{"already exists", shared.ErrUserAlreadyExists, http.StatusConflict},
		{"grade out of range", shared.ErrGradeOutOfRange, http.StatusBadRequest},
		{"unknown", errors.New("pool exhausted"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeDomainError(rec, tt.err)

			assert.Equal(t, tt.want, rec.Code)

			var resp JSONResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
		})
	}
}

func TestWriteDomainError_HidesInternals(t *testing.T) {
	rec := httptest.NewRecorder()
	writeDomainError(rec, errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}

func TestWriteJSON_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusCreated, map[string]string{"id": "c1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var resp JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
}

func TestDecodeJSON_RejectsUnknownFields(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest("POST", "/api/v1/classrooms", strings.NewReader(`{"name":"Period 3"}`))
	require.NoError(t, decodeJSON(r, &dst))
	assert.Equal(t, "Period 3", dst.Name)

	r = httptest.NewRequest("POST", "/api/v1/classrooms", strings.NewReader(`{"name":"x","bogus":true}`))
	assert.Error(t, decodeJSON(r, &dst))

	r = httptest.NewRequest("POST", "/api/v1/classrooms", strings.NewReader(`{`))
	assert.Error(t, decodeJSON(r, &dst))
}
