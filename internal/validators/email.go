package validators

import (
	"net"
	"strings"
)

// IsEmailDomainValid aceita o e-mail se o domínio depois do "@"
// resolve (MX ou, na falta, A/AAAA). Não valida caixa de entrada,
// só barra domínio digitado errado no cadastro.
func IsEmailDomainValid(email string) bool {
	email = strings.TrimSpace(email)

	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}

	host := strings.ToLower(email[at+1:])
	if host == "" || strings.ContainsAny(host, " \t") {
		return false
	}

	if mx, err := net.LookupMX(host); err == nil && len(mx) > 0 {
		return true
	}

	ips, err := net.LookupIP(host)
	return err == nil && len(ips) > 0
}
