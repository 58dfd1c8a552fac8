// Package extract recupera datos estructurados de animales (especie, marca,
// categoría, corral, peso) desde texto libre usando palabras clave y regex.
//
// Gramática, en orden:
//   - especie: alguna palabra porcina gana sobre las bovinas; sin palabra = sin especie
//   - arete:   (arete|chapeta) <dígitos>
//   - marca:   marca <[a-z0-9-]+>, en mayúsculas; si hay marca, pisa al arete
//   - categoría: primera entrada del vocabulario que aparezca como substring
//   - corral:  (corral|lugar) <alfanumérico>, en mayúsculas
//   - peso:    peso <n> (kg|kilo|kilos)
//
// En lotes, cada "marca X" es una mención independiente y el peso se busca solo
// en el tramo de texto entre esa marca y la siguiente.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"finca-digital/internal/domain/animals"
)

// TagSource distingue de dónde salió el código del animal.
type TagSource int

const (
	SourceEarTag TagSource = iota // arete/chapeta numérico
	SourceBrand                   // marca alfanumérica
)

var (
	porcineWords = []string{"cerdo", "lechón", "cerda", "verraco", "lechon", "lechones", "cochino"}
	bovineWords  = []string{"vaca", "toro", "ternero", "ternera", "novillo", "novilla", "buey", "ganado"}

	// el orden importa: gana la primera que aparezca como substring.
	categories = []string{"lechón", "cerda", "verraco", "ceba", "toro", "ternera", "ternero", "novillo", "vaquilla", "engorda", "lechera"}

	// prefijos de external_id por (origen, especie). Especie vacía = default.
	prefixes = map[TagSource]map[animals.Species]string{
		SourceEarTag: {animals.SpeciesPorcine: "C-", "": "V-"},
		SourceBrand:  {animals.SpeciesPorcine: "C-", "": "V-M-"},
	}

	earTagRe = regexp.MustCompile(`(?:arete|chapeta)\s+(\d+)`)
	brandRe  = regexp.MustCompile(`(?i)marca\s+([a-z0-9-]+)`)
	penRe    = regexp.MustCompile(`(?i)(?:corral|lugar)\s+([a-z0-9]+)`)
	weightRe = regexp.MustCompile(`(?i)peso\s*(\d+(?:\.\d+)?)\s*(?:kg|kilos|kilo)`)
	anyTagRe = regexp.MustCompile(`(?i)(?:marca|arete|chapeta)\s+([a-z0-9-]+)`)
)

// Result es la mejor suposición sobre el animal mencionado en un texto.
type Result struct {
	Species    animals.Species // "" si no hay palabra clave
	ExternalID string
	Tag        string
	Category   string
	Pen        string
	Weight     *float64
}

// Extract analiza un mensaje que describe un solo animal.
func Extract(text string) Result {
	msg := strings.ToLower(text)
	var out Result

	out.Species = Species(msg)

	if m := earTagRe.FindStringSubmatch(msg); m != nil {
		out.Tag = m[1]
		out.ExternalID = ExternalID(out.Species, m[1], SourceEarTag)
	}
	if m := brandRe.FindStringSubmatch(msg); m != nil {
		code := strings.ToUpper(m[1])
		out.Tag = code
		out.ExternalID = ExternalID(out.Species, code, SourceBrand)
	}

	out.Category = Category(msg)

	if m := penRe.FindStringSubmatch(msg); m != nil {
		out.Pen = strings.ToUpper(m[1])
	}
	out.Weight = firstWeight(msg)
	return out
}

// Species infiere la especie por palabras clave; porcino tiene prioridad.
func Species(text string) animals.Species {
	msg := strings.ToLower(text)
	if containsAny(msg, porcineWords) {
		return animals.SpeciesPorcine
	}
	if containsAny(msg, bovineWords) {
		return animals.SpeciesBovine
	}
	return ""
}

// Category devuelve la primera categoría del vocabulario presente en el texto.
func Category(text string) string {
	msg := strings.ToLower(text)
	for _, c := range categories {
		if strings.Contains(msg, c) {
			return c
		}
	}
	return ""
}

// ExternalID arma el identificador único: prefijo fijo por tabla + código.
func ExternalID(sp animals.Species, tag string, src TagSource) string {
	table := prefixes[src]
	prefix, ok := table[sp]
	if !ok {
		prefix = table[""]
	}
	return prefix + strings.ToUpper(strings.TrimSpace(tag))
}

// Mention es una marca encontrada en un texto de lote, con su peso si lo trae.
type Mention struct {
	Tag    string
	Weight *float64
}

// Brands devuelve todas las menciones "marca X" en orden, sin repetir marca.
// El peso de cada marca se busca solo entre esa marca y la siguiente.
func Brands(text string) []Mention {
	idx := brandRe.FindAllStringSubmatchIndex(text, -1)
	if len(idx) == 0 {
		return nil
	}

	out := make([]Mention, 0, len(idx))
	pos := map[string]int{}
	for i, m := range idx {
		tag := strings.ToUpper(text[m[2]:m[3]])

		end := len(text)
		if i+1 < len(idx) {
			end = idx[i+1][0]
		}
		w := firstWeight(text[m[3]:end])

		if j, seen := pos[tag]; seen {
			if out[j].Weight == nil {
				out[j].Weight = w
			}
			continue
		}
		pos[tag] = len(out)
		out = append(out, Mention{Tag: tag, Weight: w})
	}
	return out
}

// Tags es un atajo de Brands que solo devuelve los códigos.
func Tags(text string) []string {
	ms := Brands(text)
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.Tag)
	}
	return out
}

// WeightMention busca en cualquier texto un "peso N kg" y una marca/arete.
// Lo usa el libro de actividades para actualizar pesos de paso.
func WeightMention(text string) (tag string, kg float64, ok bool) {
	w := firstWeight(text)
	if w == nil {
		return "", 0, false
	}
	m := anyTagRe.FindStringSubmatch(text)
	if m == nil {
		return "", 0, false
	}
	return strings.ToUpper(m[1]), *w, true
}

func firstWeight(text string) *float64 {
	m := weightRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &v
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
