package tenant

import (
	"net"
	"strings"
	"sync"
)

// ======================================================
// RESOLUÇÃO DE TENANT POR HOSTNAME
// ======================================================

// Resolution é o resultado de resolver um hostname.
// Todo hostname resolve para alguma tupla válida; hosts
// desconhecidos degradam para o domínio principal.
type Resolution struct {
	Subdomain    string `json:"subdomain,omitempty"`
	IsMainDomain bool   `json:"is_main_domain"`
	SalonSlug    string `json:"salon_slug,omitempty"`
}

// Labels que nunca são slug de salão.
var reservedLabels = map[string]bool{
	"www":        true,
	"app":        true,
	"api":        true,
	"admin":      true,
	"staging":    true,
	"bellagenda": true,
}

// IsReservedLabel diz se um label não pode ser usado como
// subdomínio de salão.
func IsReservedLabel(label string) bool {
	return reservedLabels[strings.ToLower(label)]
}

type Resolver struct {
	devHost    string
	prodDomain string

	mu   sync.Mutex
	last map[string]Resolution
}

func NewResolver(devHost, prodDomain string) *Resolver {
	return &Resolver{
		devHost:    strings.ToLower(devHost),
		prodDomain: strings.ToLower(prodDomain),
		last:       make(map[string]Resolution),
	}
}

// Resolve é determinística e nunca falha: hostname → tupla.
func (r *Resolver) Resolve(hostname string) Resolution {
	host := normalizeHost(hostname)

	// 1. Host de desenvolvimento (com ou sem alias app.)
	if host == r.devHost || host == "app."+r.devHost {
		return Resolution{IsMainDomain: true}
	}

	// 2. <label>.<dev-host> → label é o slug
	if suffix := "." + r.devHost; strings.HasSuffix(host, suffix) {
		label := strings.TrimSuffix(host, suffix)
		if label != "" && !strings.Contains(label, ".") {
			return Resolution{Subdomain: label, SalonSlug: label}
		}
	}

	// 3. Produção: domínio nu ou www.
	if host == r.prodDomain || host == "www."+r.prodDomain {
		return Resolution{IsMainDomain: true}
	}

	// 4. Produção: primeiro label vira slug, exceto reservados.
	labels := strings.Split(host, ".")
	if len(labels) >= 3 && labels[0] != "" && !reservedLabels[labels[0]] {
		return Resolution{Subdomain: labels[0], SalonSlug: labels[0]}
	}

	// 5. Default seguro: domínio principal, sem tenant.
	return Resolution{IsMainDomain: true}
}

// Observe memoiza por hostname e informa se a tupla mudou de
// valor desde a última observação — só nesse caso o caller deve
// recarregar dados dependentes do tenant.
func (r *Resolver) Observe(hostname string) (Resolution, bool) {
	res := r.Resolve(hostname)

	r.mu.Lock()
	defer r.mu.Unlock()

	prev, seen := r.last[normalizeHost(hostname)]
	r.last[normalizeHost(hostname)] = res

	changed := !seen || prev != res
	return res, changed
}

// IsAppDomain sinaliza o subdomínio de marketing "app.<host>",
// que tem página própria e não passa por resolução de tenant.
func (r *Resolver) IsAppDomain(hostname string) bool {
	host := normalizeHost(hostname)
	return strings.HasPrefix(host, "app.")
}

func normalizeHost(hostname string) string {
	host := strings.ToLower(strings.TrimSpace(hostname))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.TrimSuffix(host, ".")
}
