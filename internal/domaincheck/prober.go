// Package domaincheck sondea disponibilidad de dominios con una única
// resolución DNS. Heurística barata: si el nombre no resuelve, se reporta
// como disponible. Un fallo transitorio del resolver es indistinguible de un
// dominio libre; es un falso positivo conocido y aceptado, sin reintentos.
package domaincheck

import (
	"context"
	"net"
	"strings"
	"time"
)

// DefaultTLDs es el conjunto de extensiones consultadas cuando el cliente no
// especifica ninguna.
var DefaultTLDs = []string{".com", ".in", ".net", ".org", ".co"}

// Resolver abstrae la resolución DNS para poder simularla en tests.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// Prober ejecuta sondas DNS con un timeout corto fijo.
type Prober struct {
	resolver Resolver
	timeout  time.Duration
}

// NewProber crea un Prober con el resolver del sistema.
func NewProber(timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Prober{resolver: net.DefaultResolver, timeout: timeout}
}

// NewProberWithResolver permite inyectar un resolver alternativo.
func NewProberWithResolver(resolver Resolver, timeout time.Duration) *Prober {
	p := NewProber(timeout)
	p.resolver = resolver
	return p
}

// Probe intenta resolver el nombre una sola vez. Cualquier error de
// resolución se interpreta como "disponible".
func (p *Prober) Probe(ctx context.Context, name string) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	addrs, err := p.resolver.LookupHost(ctx, name)
	if err != nil {
		return true
	}
	return len(addrs) == 0
}

// CheckAll sondea base+tld para cada extensión pedida y devuelve los
// resultados en el mismo orden.
func (p *Prober) CheckAll(ctx context.Context, base string, tlds []string) []Result {
	base = strings.ToLower(strings.TrimSpace(base))
	if len(tlds) == 0 {
		tlds = DefaultTLDs
	}
	results := make([]Result, 0, len(tlds))
	for _, tld := range tlds {
		if !strings.HasPrefix(tld, ".") {
			tld = "." + tld
		}
		name := base + tld
		results = append(results, Result{
			TLD:       tld,
			Domain:    name,
			Available: p.Probe(ctx, name),
		})
	}
	return results
}

// Result es la disponibilidad observada de un candidato.
type Result struct {
	TLD       string `json:"tld"`
	Domain    string `json:"domain"`
	Available bool   `json:"available"`
}
