package records

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"finca-digital/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/records", listRecordsHandler(svc))
}

type recordResponse struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"`
	Kind        Kind      `json:"kind"`
	Action      string    `json:"action"`
	Detail      string    `json:"detail"`
	Place       string    `json:"place,omitempty"`
	Quantity    *float64  `json:"quantity,omitempty"`
	Value       float64   `json:"value"`
	Unit        string    `json:"unit,omitempty"`
	Observation string    `json:"observation,omitempty"`
	LaborDays   *int      `json:"labor_days,omitempty"`
	UserID      string    `json:"user_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// listRecordsHandler godoc
// @Summary Listar registros de actividades
// @Description Lista el libro de actividades de la finca entre dos fechas (YYYY-MM-DD). Sin fechas devuelve los últimos 7 días.
// @Tags records
// @Produce json
// @Param X-Access-Key header string true "Clave secreta de la finca"
// @Param from query string false "Fecha inicial YYYY-MM-DD"
// @Param to query string false "Fecha final YYYY-MM-DD"
// @Success 200 {array} recordResponse
// @Failure 400 {string} string "from/to inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /farm/records [get]
func listRecordsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		from, to, err := ParseRangeQuery(r, svc.now())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		items, err := svc.List(r.Context(), claims.FarmID, from, to)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]recordResponse, 0, len(items))
		for _, rec := range items {
			out = append(out, recordResponse{
				ID:          rec.ID,
				Date:        rec.Date.Format(time.DateOnly),
				Kind:        rec.Kind,
				Action:      rec.Action,
				Detail:      rec.Detail,
				Place:       rec.Place,
				Quantity:    rec.Quantity,
				Value:       rec.Value,
				Unit:        rec.Unit,
				Observation: rec.Observation,
				LaborDays:   rec.LaborDays,
				UserID:      rec.UserID,
				CreatedAt:   rec.CreatedAt,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// ParseRangeQuery lee ?from=&to= (YYYY-MM-DD). Por defecto: últimos 7 días hasta hoy.
func ParseRangeQuery(r *http.Request, now time.Time) (time.Time, time.Time, error) {
	to := DateOf(now)
	from := to.AddDate(0, 0, -7)

	if v := strings.TrimSpace(r.URL.Query().Get("from")); v != "" {
		t, err := time.Parse(time.DateOnly, v)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("from must be YYYY-MM-DD")
		}
		from = t
	}
	if v := strings.TrimSpace(r.URL.Query().Get("to")); v != "" {
		t, err := time.Parse(time.DateOnly, v)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("to must be YYYY-MM-DD")
		}
		to = t
	}
	return from, to, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
