package http

import (
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	testifymock "github.com/stretchr/testify/mock"

	"github.com/quantonganh/prefcenter"
	"github.com/quantonganh/prefcenter/mock"
)

func signupForm() url.Values {
	form := url.Values{}
	form.Set("email", "dude@example.com")
	form.Set("newsletter", "firefox-tips")
	form.Set("country", "us")
	form.Set("lang", "en")
	form.Set("source_url", "https://example.com/footer")
	return form
}

func TestSignupDisplay(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.SubscriberService = new(mock.SubscriberService)

	w := getRequest(t, s, "/newsletter/signup")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="email"`)
}

func TestSignupSubscribes(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	subscriberService := new(mock.SubscriberService)
	subscriberService.On("Subscribe", "dude@example.com", "firefox-tips", prefcenter.SubscribeOptions{
		Format:    prefcenter.FormatHTML,
		Country:   "us",
		Lang:      "en",
		SourceURL: "https://example.com/footer",
	}).Return(nil)
	s.SubscriberService = subscriberService

	w := postForm(t, s, "/newsletter/signup", signupForm())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Thanks! Please check your inbox to confirm your subscription.")
	subscriberService.AssertExpectations(t)
}

func TestSignupBackendError(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	subscriberService := new(mock.SubscriberService)
	subscriberService.On("Subscribe", "dude@example.com", "firefox-tips", testifymock.Anything).
		Return(errors.New("boom"))
	s.SubscriberService = subscriberService

	w := postForm(t, s, "/newsletter/signup", signupForm())

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "We are sorry, but there was a problem with our system.")
	assert.NotContains(t, body, "Please check your inbox")
}

func TestSignupInvalidEmail(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	subscriberService := new(mock.SubscriberService)
	s.SubscriberService = subscriberService

	form := signupForm()
	form.Set("email", "not-an-address")
	w := postForm(t, s, "/newsletter/signup", form)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Enter a valid email address.")
	subscriberService.AssertNumberOfCalls(t, "Subscribe", 0)
}

func TestSignupMissingNewsletter(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	subscriberService := new(mock.SubscriberService)
	s.SubscriberService = subscriberService

	form := signupForm()
	form.Del("newsletter")
	w := postForm(t, s, "/newsletter/signup", form)

	assert.Contains(t, w.Body.String(), "This field is required.")
	subscriberService.AssertNumberOfCalls(t, "Subscribe", 0)
}
