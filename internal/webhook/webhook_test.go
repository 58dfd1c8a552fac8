package webhook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoBot struct{ calls int }

func (e *echoBot) Handle(_ context.Context, sender, body string) string {
	e.calls++
	return sender + " dijo: " + body
}

func post(t *testing.T, h http.Handler, from, body string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"From": {from}, "Body": {body}}
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestWebhook_RepliesWithEscapedTwiML(t *testing.T) {
	bot := &echoBot{}
	r := chi.NewRouter()
	RegisterRoutes(r, Options{Bot: bot})

	rr := post(t, r, "whatsapp:+573001112233", "gasto <5> & más")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/xml")

	body := rr.Body.String()
	assert.True(t, strings.HasPrefix(body, "<?xml"))
	assert.Contains(t, body, "<Response><Message>whatsapp:+573001112233 dijo: gasto &lt;5&gt; &amp; más</Message></Response>")
	assert.Equal(t, 1, bot.calls)
}

func TestWebhook_RateLimitPerSender(t *testing.T) {
	bot := &echoBot{}
	r := chi.NewRouter()
	RegisterRoutes(r, Options{Bot: bot, PerSecond: 0.001, Burst: 2})

	for i := 0; i < 2; i++ {
		assert.NotContains(t, post(t, r, "p1", "hola").Body.String(), msgSlowDown)
	}
	assert.Contains(t, post(t, r, "p1", "hola").Body.String(), msgSlowDown)
	assert.NotContains(t, post(t, r, "p2", "hola").Body.String(), msgSlowDown, "other senders keep their own bucket")
	assert.Equal(t, 3, bot.calls)
}

func TestSenderLimiter_SweepsIdleBuckets(t *testing.T) {
	l := newSenderLimiter(1, 1)
	now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	assert.True(t, l.allow("p1", now))
	assert.False(t, l.allow("p1", now))

	later := now.Add(time.Hour)
	assert.True(t, l.allow("p2", later))
	assert.Len(t, l.buckets, 1)
}

func TestSenderLimiter_Disabled(t *testing.T) {
	l := newSenderLimiter(0, 0)
	assert.Nil(t, l)
	assert.True(t, l.allow("p1", time.Now()))
}
