package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/feedbbs/services"
)

func TestFailMapsServiceErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		err    error
		status int
		code   int
	}{
		{&services.ValidationError{Field: "text", Input: " ", Reason: "must not be empty"}, http.StatusBadRequest, 40001},
		{fmt.Errorf("%w: post 3", services.ErrNotFound), http.StatusNotFound, 40401},
		{services.ErrAuthRequired, http.StatusUnauthorized, 40110},
		{services.ErrForbidden, http.StatusForbidden, 40310},
		{services.ErrConflict, http.StatusConflict, 40901},
		{errors.New("disk on fire"), http.StatusInternalServerError, 50099},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(rec)
		ctx.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

		fail(ctx, tc.err, 50099, "do things")

		assert.Equal(t, tc.status, rec.Code, tc.err.Error())
		var body struct {
			Code    int             `json:"code"`
			Message string          `json:"message"`
			Data    json.RawMessage `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, tc.code, body.Code)
		assert.NotContains(t, body.Message, "disk on fire")
	}
}

func TestPageParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for query, want := range map[string]int{"": 1, "?page=3": 3, "?page=abc": 1, "?page=-2": -2} {
		ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
		ctx.Request = httptest.NewRequest(http.MethodGet, "/posts"+query, nil)
		assert.Equal(t, want, pageParam(ctx), query)
	}
}
