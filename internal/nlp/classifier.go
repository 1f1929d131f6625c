// Package nlp implementa la clasificación de texto libre contra un
// vocabulario fijo mediante contención de substrings y similitud difusa.
package nlp

import "strings"

// similarityThreshold es el corte de similitud difusa para aceptar un sinónimo.
const similarityThreshold = 0.7

// Synonyms mapea cada término canónico a sus variantes aceptadas. Las claves
// de categoría y las de yes/no son disjuntas y viven en la misma tabla.
var Synonyms = map[string][]string{
	"website":    {"web", "site", "page", "store", "landing", "portfolio", "shop"},
	"app":        {"application", "mobile", "android", "ios", "software"},
	"bot":        {"assistant", "chatbot", "automation"},
	"automation": {"auto", "script", "process"},
	"yes":        {"ok", "sure", "yep", "alright", "yeah"},
	"no":         {"nope", "none", "nah", "never"},
}

// categoryOrder fija el orden de evaluación: la primera categoría que
// coincide gana.
var categoryOrder = []string{"website", "app", "bot", "automation"}

// Normalize pasa a minúsculas y elimina todo lo que no sea [a-z0-9 espacio].
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ', r == '\t', r == '\n':
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// Ratio calcula una similitud 0–1 basada en subsecuencia común más larga:
// 2*LCS(a,b) / (len(a)+len(b)).
func Ratio(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	lcs := prev[len(b)]
	return 2 * float64(lcs) / float64(len(a)+len(b))
}

// DetectCategory clasifica texto libre en una categoría de proyecto.
// Nunca falla: si nada coincide devuelve "unknown".
func DetectCategory(text string) string {
	t := Normalize(text)
	for _, key := range categoryOrder {
		for _, v := range append(append([]string{}, Synonyms[key]...), key) {
			if strings.Contains(t, v) || Ratio(t, v) > similarityThreshold {
				return key
			}
		}
	}
	return "unknown"
}

// DetectYesNo clasifica una respuesta afirmativa o negativa.
// Devuelve "" cuando no hay coincidencia: el llamador debe repreguntar en
// lugar de asumir un valor. Si el texto contiene sinónimos de ambos, gana
// "yes" por orden de evaluación.
func DetectYesNo(text string) string {
	t := Normalize(text)
	for _, key := range []string{"yes", "no"} {
		for _, v := range append(append([]string{}, Synonyms[key]...), key) {
			if strings.Contains(t, v) {
				return key
			}
		}
	}
	return ""
}
