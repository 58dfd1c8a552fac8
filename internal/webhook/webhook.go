// Package webhook recibe los mensajes de Twilio (form POST) y responde TwiML.
package webhook

import (
	"context"
	"encoding/xml"
	"net/http"
	"strings"
	"sync"
	"time"

	"finca-digital/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

const msgSlowDown = "⏳ Vas muy rápido. Espera un momento y vuelve a escribir."

// Responder es el bot: texto entrante + remitente → texto de respuesta.
type Responder interface {
	Handle(ctx context.Context, sender, body string) string
}

type Options struct {
	Bot       Responder
	Logger    logger.Logger
	PerSecond float64 // <= 0 desactiva el límite
	Burst     int
}

func RegisterRoutes(r chi.Router, opts Options) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	h := &handler{
		bot:     opts.Bot,
		log:     log.With(map[string]any{"component": "webhook"}),
		limiter: newSenderLimiter(opts.PerSecond, opts.Burst),
	}
	r.Post("/webhook", h.receive)
}

type twiml struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

type handler struct {
	bot     Responder
	log     logger.Logger
	limiter *senderLimiter
}

// receive godoc
// @Summary Mensaje entrante de WhatsApp
// @Description Webhook de Twilio. Recibe Body y From como formulario y responde TwiML con el texto del bot.
// @Tags webhook
// @Accept x-www-form-urlencoded
// @Produce xml
// @Param Body formData string true "Texto del mensaje"
// @Param From formData string true "Remitente (whatsapp:+57...)"
// @Success 200 {string} string "TwiML"
// @Failure 400 {string} string "bad request"
// @Router /webhook [post]
func (h *handler) receive(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	body := strings.TrimSpace(r.PostForm.Get("Body"))
	from := strings.TrimSpace(r.PostForm.Get("From"))

	start := time.Now()
	var reply string
	if !h.limiter.allow(from, start) {
		h.log.Warn("sender rate limited", map[string]any{"sender": from})
		reply = msgSlowDown
	} else {
		reply = h.bot.Handle(r.Context(), from, body)
	}

	h.log.Info("message handled", map[string]any{
		"sender":      from,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	writeTwiML(w, reply)
}

func writeTwiML(w http.ResponseWriter, msg string) {
	out, err := xml.Marshal(twiml{Message: msg})
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(xml.Header))
	_, _ = w.Write(out)
}

// senderLimiter mantiene un token bucket por remitente. Los buckets inactivos
// se purgan al pasar por allow.
type senderLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	ttl     time.Duration
	buckets map[string]*bucket
	sweep   time.Time
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

func newSenderLimiter(perSecond float64, burst int) *senderLimiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &senderLimiter{
		limit:   rate.Limit(perSecond),
		burst:   burst,
		ttl:     10 * time.Minute,
		buckets: make(map[string]*bucket),
	}
}

func (l *senderLimiter) allow(sender string, now time.Time) bool {
	if l == nil {
		return true
	}
	if sender == "" {
		sender = "unknown"
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.sweep) > l.ttl {
		for k, b := range l.buckets {
			if now.Sub(b.seen) > l.ttl {
				delete(l.buckets, k)
			}
		}
		l.sweep = now
	}

	b, ok := l.buckets[sender]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[sender] = b
	}
	b.seen = now
	return b.lim.AllowN(now, 1)
}
