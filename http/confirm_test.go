package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quantonganh/prefcenter"
	"github.com/quantonganh/prefcenter/mock"
)

func TestConfirmSuccess(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	subscriberService := new(mock.SubscriberService)
	subscriberService.On("Confirm", testToken).Return("ok", nil)
	s.SubscriberService = subscriberService

	w := getRequest(t, s, "/newsletter/confirm/"+testToken)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Thank you for confirming your subscription.")
	subscriberService.AssertExpectations(t)
}

func TestConfirmBadTokenFromBackend(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	subscriberService := new(mock.SubscriberService)
	subscriberService.On("Confirm", testToken).
		Return("", &prefcenter.RemoteError{Op: "remote.Confirm", StatusCode: http.StatusForbidden})
	s.SubscriberService = subscriberService

	w := getRequest(t, s, "/newsletter/confirm/"+testToken)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "The confirmation link has expired or is not valid.")
	assert.NotContains(t, body, "Thank you for confirming")
	assert.NotContains(t, body, "problem with our system")
}

func TestConfirmOtherBackendError(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	subscriberService := new(mock.SubscriberService)
	subscriberService.On("Confirm", testToken).
		Return("", &prefcenter.RemoteError{Op: "remote.Confirm", StatusCode: http.StatusInternalServerError})
	s.SubscriberService = subscriberService

	w := getRequest(t, s, "/newsletter/confirm/"+testToken)

	assert.Contains(t, w.Body.String(), "problem with our system")
}

func TestConfirmUnexpectedStatusBody(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	subscriberService := new(mock.SubscriberService)
	subscriberService.On("Confirm", testToken).Return("pending", nil)
	s.SubscriberService = subscriberService

	w := getRequest(t, s, "/newsletter/confirm/"+testToken)

	body := w.Body.String()
	assert.Contains(t, body, "problem with our system")
	assert.NotContains(t, body, "Thank you for confirming")
}

func TestConfirmMalformedTokenSkipsBackend(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	subscriberService := new(mock.SubscriberService)
	s.SubscriberService = subscriberService

	w := getRequest(t, s, "/newsletter/confirm/not-a-token")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "The confirmation link has expired or is not valid.")
	subscriberService.AssertNotCalled(t, "Confirm", "not-a-token")
}
