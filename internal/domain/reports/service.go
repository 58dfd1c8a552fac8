// Package reports agrega el libro de actividades de una finca en un resumen de texto.
package reports

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"finca-digital/internal/domain/records"
)

var ErrInvalidInput = errors.New("invalid input")

// Source es lo único que necesita el reporte: leer registros en un rango.
type Source interface {
	List(ctx context.Context, farmID string, from, to time.Time) ([]records.Record, error)
}

type Service struct {
	src Source
	now func() time.Time
}

func NewService(src Source) *Service {
	return &Service{
		src: src,
		now: time.Now,
	}
}

// Generate lee el rango y devuelve el reporte formateado. Sin registros devuelve un aviso, no error.
func (s *Service) Generate(ctx context.Context, farmID string, rng Range) (string, error) {
	if strings.TrimSpace(farmID) == "" {
		return "", ErrInvalidInput
	}
	rows, err := s.src.List(ctx, farmID, rng.From, rng.To)
	if err != nil {
		return "", err
	}
	return Render(rng, rows), nil
}

// Request interpreta "reporte ..." relativo a hoy.
func (s *Service) Request(text string) Range {
	return ParseRequest(text, s.now())
}

func (s *Service) Summary(ctx context.Context, farmID string, rng Range) (Summary, error) {
	if strings.TrimSpace(farmID) == "" {
		return Summary{}, ErrInvalidInput
	}
	rows, err := s.src.List(ctx, farmID, rng.From, rng.To)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(rows), nil
}

// crops separa producción vegetal de animal por substring en el detalle.
var crops = []string{"maíz", "papa", "arroz", "cacao", "café", "yuca", "plátano", "frijol", "trigo", "cebolla", "fruta", "citricos"}

// Summarize es puro: particiona y suma sin tocar el almacenamiento.
func Summarize(rows []records.Record) Summary {
	var s Summary
	for _, r := range rows {
		if r.LaborDays != nil && *r.LaborDays > 0 && r.Value > 0 {
			s.LaborCost += r.Value
		}
		switch r.Kind {
		case records.KindProduction:
			if r.Value > 0 {
				s.Income += r.Value
			}
			if isCrop(r.Detail) {
				s.Vegetal = append(s.Vegetal, r)
			} else {
				s.Animal = append(s.Animal, r)
			}
		case records.KindExpense:
			if r.Value > 0 {
				s.Expenses += r.Value
			}
			s.Spend = append(s.Spend, r)
		default:
			s.Other = append(s.Other, r)
		}
	}
	return s
}

func isCrop(detail string) bool {
	d := strings.ToLower(detail)
	for _, c := range crops {
		if strings.Contains(d, c) {
			return true
		}
	}
	return false
}

var rangeRe = regexp.MustCompile(`(?i)reporte.*?del\s+(\d{1,2})/(\d{1,2})\s+al\s+(\d{1,2})/(\d{1,2})`)

// ParseRequest: "reporte del DD/MM al DD/MM" (año en curso) o una frecuencia por palabra clave.
// Una fecha inválida cae a la frecuencia.
func ParseRequest(text string, today time.Time) Range {
	msg := strings.ToLower(text)
	if m := rangeRe.FindStringSubmatch(msg); m != nil {
		from, ok1 := dayMonth(m[1], m[2], today.Year())
		to, ok2 := dayMonth(m[3], m[4], today.Year())
		if ok1 && ok2 {
			return Between(from, to)
		}
	}

	f := Weekly
	switch {
	case strings.Contains(msg, "diario"):
		f = Daily
	case strings.Contains(msg, "mensual"):
		f = Monthly
	case strings.Contains(msg, "quincenal"):
		f = Biweekly
	}
	return ForFrequency(f, today)
}

func dayMonth(d, m string, year int) (time.Time, bool) {
	day, err1 := strconv.Atoi(d)
	month, err2 := strconv.Atoi(m)
	if err1 != nil || err2 != nil || month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normaliza 31/02 a marzo
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

func upper(s string) string { return strings.ToUpper(s) }
