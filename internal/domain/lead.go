package domain

import "time"

// Lead es el registro persistido de una consulta de ventas completada.
// Se crea una sola vez al llegar al resumen y no se actualiza después.
type Lead struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Project         string    `json:"project"`
	Subtype         string    `json:"subtype,omitempty"`
	Details         string    `json:"details,omitempty"` // features seleccionados, separados por coma
	Budget          string    `json:"budget,omitempty"`
	Contact         string    `json:"contact,omitempty"`
	HasLogo         bool      `json:"has_logo"`
	HasSocial       bool      `json:"has_social"`
	ContainsPayment bool      `json:"contains_payment"`
	Urgent          bool      `json:"urgent"`
	DomainName      string    `json:"domain_name,omitempty"`
	DomainAvailable string    `json:"domain_available"` // "yes" / "no" / "unknown"
	EstimatedCost   int       `json:"estimated_cost"`
	CreatedAt       time.Time `json:"created_at"`
}
