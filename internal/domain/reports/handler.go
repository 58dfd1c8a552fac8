package reports

import (
	"encoding/json"
	"net/http"
	"time"

	"finca-digital/internal/domain/records"
	"finca-digital/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/report", getReportHandler(svc))
}

type reportResponse struct {
	From         string  `json:"from"`
	To           string  `json:"to"`
	Income       float64 `json:"income"`
	Expenses     float64 `json:"expenses"`
	LaborCost    float64 `json:"labor_cost"`
	TotalExpense float64 `json:"total_expense"`
	Balance      float64 `json:"balance"`
	Text         string  `json:"text"`
}

// getReportHandler godoc
// @Summary Reporte financiero y de actividades
// @Description Resume el libro de la finca en el rango (YYYY-MM-DD). Sin fechas usa los últimos 7 días.
// @Tags reports
// @Produce json
// @Param X-Access-Key header string true "Clave secreta de la finca"
// @Param from query string false "Fecha inicial YYYY-MM-DD"
// @Param to query string false "Fecha final YYYY-MM-DD"
// @Success 200 {object} reportResponse
// @Failure 400 {string} string "from/to inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /farm/report [get]
func getReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		from, to, err := records.ParseRangeQuery(r, svc.now())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		rng := Between(from, to)

		rows, err := svc.src.List(r.Context(), claims.FarmID, rng.From, rng.To)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		s := Summarize(rows)

		writeJSON(w, http.StatusOK, reportResponse{
			From:         rng.From.Format(time.DateOnly),
			To:           rng.To.Format(time.DateOnly),
			Income:       s.Income,
			Expenses:     s.Expenses,
			LaborCost:    s.LaborCost,
			TotalExpense: s.TotalExpense(),
			Balance:      s.Balance(),
			Text:         Render(rng, rows),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
