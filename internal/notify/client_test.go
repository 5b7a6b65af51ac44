package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testFrom = "Hitchyard Advisor <onboarding@resend.dev>"
	testTo   = "advisor@hitchyard.com"
)

func TestAuditRequestMessage(t *testing.T) {
	msg := AuditRequestMessage(testFrom, testTo, "84101")
	assert.Equal(t, testFrom, msg.From)
	assert.Equal(t, []string{testTo}, msg.To)
	assert.Equal(t, "New Performance Audit Request - 84101", msg.Subject)
	assert.Equal(t, "<p>You have a new performance audit request for zip code: <b>84101</b>.</p>", msg.HTML)
}

func TestAuditRequestMessageEscapesZip(t *testing.T) {
	msg := AuditRequestMessage(testFrom, testTo, "<x>")
	assert.Contains(t, msg.HTML, "<b>&lt;x&gt;</b>")
}

func TestSendAuditRequest(t *testing.T) {
	var got Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id":"49a3999c-0ce1-4ea6-ab68-afcd6dc2e794"}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL+"/", "re_test", testFrom, testTo, time.Second)
	res, err := c.SendAuditRequest(context.Background(), "84601")
	require.NoError(t, err)
	assert.Equal(t, "49a3999c-0ce1-4ea6-ab68-afcd6dc2e794", res.ID)
	assert.Equal(t, "New Performance Audit Request - 84601", got.Subject)
	assert.Equal(t, []string{testTo}, got.To)
}

func TestSendAuditRequestMissingKey(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "", testFrom, testTo, 0)
	_, err := c.SendAuditRequest(context.Background(), "84101")

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "Missing RESEND_API_KEY", err.Error())
	assert.ErrorIs(t, err, ErrMissingCredential)
	assert.False(t, called, "no request without credentials")
}

func TestSendAuditRequestUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"Invalid from address"}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "re_test", testFrom, testTo, time.Second)
	_, err := c.SendAuditRequest(context.Background(), "84101")

	var upErr *UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, http.StatusUnprocessableEntity, upErr.StatusCode)
	assert.Equal(t, `{"message":"Invalid from address"}`, upErr.Body)
}

func TestSendAuditRequestUnreachable(t *testing.T) {
	c := NewHTTPClient("http://127.0.0.1:1", "re_test", testFrom, testTo, 200*time.Millisecond)
	_, err := c.SendAuditRequest(context.Background(), "84101")
	assert.Error(t, err)

	var upErr *UpstreamError
	assert.False(t, errors.As(err, &upErr))
}
