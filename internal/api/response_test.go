package api

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOK(t *testing.T) {
	b, err := json.Marshal(OK(true, "deleted"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"message":"deleted","data":true,"errors":[]}`, string(b))
}

func TestFail(t *testing.T) {
	tests := []struct {
		name     string
		resp     Response[*int]
		expected string
	}{
		{
			name:     "message becomes the only error",
			resp:     Fail[*int]("not found"),
			expected: `{"success":false,"message":"not found","data":null,"errors":["not found"]}`,
		},
		{
			name:     "explicit errors are kept",
			resp:     Fail[*int]("invalid request", "email is required", "password is required"),
			expected: `{"success":false,"message":"invalid request","data":null,"errors":["email is required","password is required"]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.resp)
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(b))
		})
	}
}

func TestPathUint(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		value   string
		want    uint
		wantErr bool
	}{
		{name: "positive integer", value: "42", want: 42},
		{name: "zero", value: "0", wantErr: true},
		{name: "negative", value: "-3", wantErr: true},
		{name: "not a number", value: "abc", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Params = gin.Params{{Key: "id", Value: tt.value}}

			got, err := PathUint(c, "id")
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPathParam)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
