package router

import (
	"net/http"

	"finca-digital/internal/adapters/auth/accesskey"
	sessionmem "finca-digital/internal/adapters/sessions/memory"
	mem "finca-digital/internal/adapters/storage/memory"
	"finca-digital/internal/bot"
	"finca-digital/internal/conversation"
	_ "finca-digital/internal/docs"
	"finca-digital/internal/domain/animals"
	"finca-digital/internal/domain/farms"
	"finca-digital/internal/domain/records"
	"finca-digital/internal/domain/reports"
	"finca-digital/internal/gateway"
	"finca-digital/internal/middleware"
	"finca-digital/internal/platform/logger"
	"finca-digital/internal/platform/metrics"
	"finca-digital/internal/webhook"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	// Repos: si falta alguno se usa el store en memoria completo (modo dev).
	Farms    farms.Repository
	Animals  animals.Repository
	Records  records.Repository
	Resetter gateway.Resetter

	// Sessions: nil = mapa en memoria sin vencimiento.
	Sessions conversation.Store

	AdminPhones []string
	FreeText    bool

	RatePerSecond float64
	RateBurst     int

	Logger  logger.Logger
	Metrics *metrics.Metrics
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	if opts.Farms == nil || opts.Animals == nil || opts.Records == nil {
		st := mem.NewStore()
		opts.Farms, opts.Animals, opts.Records, opts.Resetter = st.Farms(), st.Animals(), st.Records(), st
		log.Warn("using in-memory storage", nil)
	}
	if opts.Sessions == nil {
		opts.Sessions = sessionmem.New(0)
	}

	// Services por módulo
	farmsSvc := farms.NewService(opts.Farms)
	animalsSvc := animals.NewService(opts.Animals)
	recordsSvc := records.NewService(opts.Records)

	gw := gateway.New(gateway.Options{
		Farms:    farmsSvc,
		Animals:  animalsSvc,
		Records:  recordsSvc,
		Resetter: opts.Resetter,
		Logger:   log,
		Metrics:  opts.Metrics,
	})
	reportsSvc := reports.NewService(gw)

	b := bot.New(bot.Options{
		Gateway: gw,
		Reports: reportsSvc,
		Conversation: conversation.NewMachine(conversation.Options{
			Store:    opts.Sessions,
			Gateway:  gw,
			Logger:   log,
			Metrics:  opts.Metrics,
			FreeText: opts.FreeText,
		}),
		AdminPhones: opts.AdminPhones,
		Logger:      log,
		Metrics:     opts.Metrics,
	})

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(opts.Metrics.Instrument)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", opts.Metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	webhook.RegisterRoutes(r, webhook.Options{
		Bot:       b,
		Logger:    log,
		PerSecond: opts.RatePerSecond,
		Burst:     opts.RateBurst,
	})

	// Lecturas del tablero: clave secreta por finca.
	r.Route("/farm", func(fr chi.Router) {
		fr.Use(middleware.AuthContext(accesskey.NewVerifier(farmsSvc)))
		fr.Use(middleware.RequireFarm)

		animals.RegisterRoutes(fr, animalsSvc)
		records.RegisterRoutes(fr, recordsSvc)
		reports.RegisterRoutes(fr, reportsSvc)
	})

	return r
}
