package conversation

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var errNotANumber = errors.New("not a number")

// maxLaborDays acota los jornales de un solo registro.
const maxLaborDays = 10000

var (
	dotThousands   = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)
	commaThousands = regexp.MustCompile(`^\d{1,3}(,\d{3})+$`)
)

// parseAmount acepta "60000", "60.000", "1,500,000", "2,5" y "$ 60.000".
// Rechaza negativos.
func parseAmount(text string) (float64, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, " ", "")
	switch {
	case s == "":
		return 0, errNotANumber
	case dotThousands.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
	case commaThousands.MatchString(s):
		s = strings.ReplaceAll(s, ",", "")
	case strings.Count(s, ",") == 1 && !strings.Contains(s, "."):
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotANumber
	}
	return v, nil
}

// parseLaborDays trunca decimales ("2.5" → 2). Más de maxLaborDays no es un número válido.
func parseLaborDays(text string) (int, error) {
	v, err := parseAmount(text)
	if err != nil {
		return 0, err
	}
	if v > maxLaborDays {
		return 0, errNotANumber
	}
	return int(v), nil
}

func joinNonEmpty(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
