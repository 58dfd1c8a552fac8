package animals

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"finca-digital/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/inventory", listInventoryHandler(svc))
	r.Get("/animals/{tag}", getAnimalHandler(svc))
}

type animalResponse struct {
	ExternalID   string   `json:"external_id"`
	Tag          string   `json:"tag"`
	Species      Species  `json:"species"`
	Category     string   `json:"category,omitempty"`
	Weight       *float64 `json:"weight,omitempty"`
	Pen          string   `json:"pen,omitempty"`
	Status       Status   `json:"status"`
	Notes        string   `json:"notes,omitempty"`
	RegisteredOn string   `json:"registered_on"`
}

type healthEventResponse struct {
	Type        HealthType `json:"type"`
	Treatment   string     `json:"treatment"`
	Date        string     `json:"date"`
	Observation string     `json:"observation,omitempty"`
}

type profileResponse struct {
	Animal  animalResponse        `json:"animal"`
	History []healthEventResponse `json:"history"`
}

// listInventoryHandler godoc
// @Summary Inventario de animales activos
// @Description Lista los animales activos de la finca ordenados por especie y marca. Autenticación: header `X-Access-Key` con la clave secreta de la finca.
// @Tags animals
// @Produce json
// @Param X-Access-Key header string true "Clave secreta de la finca"
// @Success 200 {array} animalResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /farm/inventory [get]
func listInventoryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.Inventory(r.Context(), claims.FarmID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]animalResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAnimalResponse(a))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getAnimalHandler godoc
// @Summary Estado de un animal
// @Description Devuelve el animal por marca/arete con su historial de sanidad.
// @Tags animals
// @Produce json
// @Param X-Access-Key header string true "Clave secreta de la finca"
// @Param tag path string true "Marca o arete"
// @Success 200 {object} profileResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "animal not found"
// @Router /farm/animals/{tag} [get]
func getAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.Profile(r.Context(), claims.FarmID, chi.URLParam(r, "tag"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "animal not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		hist := make([]healthEventResponse, 0, len(p.History))
		for _, e := range p.History {
			hist = append(hist, healthEventResponse{
				Type:        e.Type,
				Treatment:   e.Treatment,
				Date:        e.Date.Format(time.DateOnly),
				Observation: e.Observation,
			})
		}
		writeJSON(w, http.StatusOK, profileResponse{Animal: toAnimalResponse(p.Animal), History: hist})
	}
}

func toAnimalResponse(a Animal) animalResponse {
	return animalResponse{
		ExternalID:   a.ExternalID,
		Tag:          a.Tag,
		Species:      a.Species,
		Category:     a.Category,
		Weight:       a.Weight,
		Pen:          a.Pen,
		Status:       a.Status,
		Notes:        a.Notes,
		RegisteredOn: a.RegisteredOn.Format(time.DateOnly),
	}
}

// writeJSON está duplicado en handlers de distintos módulos (animals/records/reports)
// para no crear un paquete de helpers compartidos todavía.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
