// Package pricing calcula el presupuesto estimado a partir de las respuestas
// recolectadas. Todas las constantes son datos de configuración.
package pricing

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"duobot/internal/domain"
	"duobot/internal/nlp"
)

// BasePrice asocia una palabra clave de categoría/subtipo a un precio base.
// El orden importa: gana la primera coincidencia.
type BasePrice struct {
	Keyword string `yaml:"keyword"`
	Price   int    `yaml:"price"`
}

// Surcharge es un recargo aditivo por feature reconocido.
type Surcharge struct {
	Keyword string `yaml:"keyword"`
	Price   int    `yaml:"price"`
}

// Table contiene todos los datos de tarifa.
type Table struct {
	Base              []BasePrice `yaml:"base"`
	FallbackBase      int         `yaml:"fallback_base"`
	Features          []Surcharge `yaml:"features"`
	NoLogoSurcharge   int         `yaml:"no_logo_surcharge"`
	NoSocialSurcharge int         `yaml:"no_social_surcharge"`
	UrgencyPercent    int         `yaml:"urgency_percent"` // se aplica solo al precio base
}

// DefaultTable reproduce la tarifa original en INR.
func DefaultTable() Table {
	return Table{
		Base: []BasePrice{
			{Keyword: "landing", Price: 4000},
			{Keyword: "portfolio", Price: 8000},
			{Keyword: "ecommerce", Price: 25000},
			{Keyword: "app", Price: 50000},
			{Keyword: "automation", Price: 15000},
			{Keyword: "bot", Price: 12000},
			{Keyword: "website", Price: 10000},
		},
		FallbackBase: 8000,
		Features: []Surcharge{
			{Keyword: "login", Price: 1500},
			{Keyword: "payment", Price: 2500},
			{Keyword: "ai", Price: 4000},
			{Keyword: "dashboard", Price: 3000},
		},
		NoLogoSurcharge:   2000,
		NoSocialSurcharge: 1500,
		UrgencyPercent:    10,
	}
}

// LoadTable lee una tarifa alternativa desde un archivo YAML. Campos en cero
// se completan con los valores por defecto.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, err
	}
	t := DefaultTable()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Table{}, err
	}
	return t, nil
}

// Estimator es una función pura de Answers a costo entero.
type Estimator struct {
	table Table
}

// NewEstimator crea un estimador con la tarifa dada.
func NewEstimator(table Table) *Estimator {
	return &Estimator{table: table}
}

// Estimate devuelve el costo estimado. Determinista: las mismas respuestas
// producen siempre el mismo costo.
func (e *Estimator) Estimate(a domain.Answers) int {
	base := e.table.FallbackBase
	// Normalizamos para que "E-Commerce" coincida con la clave "ecommerce".
	proj := nlp.Normalize(a.Category)
	sub := nlp.Normalize(a.Subtype)
	for _, bp := range e.table.Base {
		if strings.Contains(proj, bp.Keyword) || strings.Contains(sub, bp.Keyword) {
			base = bp.Price
			break
		}
	}

	addons := 0
	for _, f := range a.Features {
		f = strings.ToLower(f)
		for _, s := range e.table.Features {
			if strings.Contains(f, s.Keyword) {
				addons += s.Price
			}
		}
	}
	if !a.HasLogo {
		addons += e.table.NoLogoSurcharge
	}
	if !a.HasSocial {
		addons += e.table.NoSocialSurcharge
	}

	if a.Urgent {
		base = base * (100 + e.table.UrgencyPercent) / 100
	}
	return base + addons
}
