package response_test

import (
	"errors"
	"fmt"
	"hotel/shared/constant"
	"hotel/shared/failure"
	"hotel/transport/http/response"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "not found",
			err:      failure.NotFound("booking not found"),
			wantCode: http.StatusNotFound,
			wantBody: `{"error":"booking not found"}`,
		},
		{
			name:     "wrapped business rule",
			err:      fmt.Errorf("create booking: %w", failure.RoomUnavailable()),
			wantCode: http.StatusUnprocessableEntity,
			wantBody: `{"error":"` + failure.MessageRoomUnavailable + `"}`,
		},
		{
			name:     "infrastructure error is hidden",
			err:      errors.New("pq: password authentication failed for user \"hotel\""),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			response.WithError(rec, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			assert.Equal(t, constant.ContentTypeJSON, rec.Header().Get(constant.RequestHeaderContentType))
		})
	}
}

func TestWithJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithJSON(rec, http.StatusCreated, map[string]any{"room_number": "101"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"data":{"room_number":"101"}}`, rec.Body.String())
}

func TestWithJSON_Unencodable(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithJSON(rec, http.StatusOK, math.Inf(1))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCannedMessages(t *testing.T) {
	tests := []struct {
		name     string
		send     func(http.ResponseWriter)
		wantCode int
		wantMsg  string
	}{
		{name: "rate limited", send: response.WithRequestLimitExceeded, wantCode: http.StatusTooManyRequests, wantMsg: constant.ResponseErrorRequestLimitExceeded},
		{name: "shutting down", send: response.WithPreparingShutdown, wantCode: http.StatusServiceUnavailable, wantMsg: constant.ResponseErrorPrepareShutdown},
		{name: "unhealthy", send: response.WithUnhealthy, wantCode: http.StatusServiceUnavailable, wantMsg: constant.ResponseErrorUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			tt.send(rec)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, `{"message":"`+tt.wantMsg+`"}`, rec.Body.String())
		})
	}
}
