package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"thinking-of-you-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{models.ErrInvalidUser, http.StatusBadRequest},
		{models.ErrSelfPairing, http.StatusBadRequest},
		{fmt.Errorf("partner: %w", models.ErrAlreadyConnected), http.StatusBadRequest},
		{fmt.Errorf("partner: %w", models.ErrConnectionLimitReached), http.StatusBadRequest},
		{fmt.Errorf("code %q: %w", "x", models.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("code %q: %w", "x", models.ErrExpired), http.StatusGone},
		{models.ErrInvalidSubscription, http.StatusBadRequest},
		{models.ErrCodeSpaceExhausted, http.StatusServiceUnavailable},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			got, _ := errorStatus(tt.err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "valid", body: `{"userId":"u1","connectionId":"c1"}`},
		{name: "empty_body", body: ``, wantErr: errEmptyBody.Error()},
		{name: "bad_json", body: `{"userId":`, wantErr: "invalid JSON body"},
		{name: "missing_connection", body: `{"userId":"u1"}`, wantErr: "connectionId is required"},
		{name: "missing_user", body: `{"connectionId":"c1"}`, wantErr: "userId is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/thinking", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()

			var dst ThinkingRequest
			err := decodeAndValidate(rr, req, &dst)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestCustomizeRequestLimits(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/api/connection/c1",
		strings.NewReader(`{"userId":"u1","message":"`+strings.Repeat("m", 101)+`"}`))
	var dst CustomizeRequest
	assert.EqualError(t, decodeAndValidate(httptest.NewRecorder(), req, &dst), "message is too long")
}
