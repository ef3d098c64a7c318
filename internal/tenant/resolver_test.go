package tenant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestResolver() *Resolver {
	return NewResolver("localhost", "bellagenda.com.br")
}

func TestResolve(t *testing.T) {
	r := newTestResolver()

	cases := []struct {
		name string
		host string
		want Resolution
	}{
		{
			name: "dev host nu",
			host: "localhost",
			want: Resolution{IsMainDomain: true},
		},
		{
			name: "dev host com porta",
			host: "localhost:3000",
			want: Resolution{IsMainDomain: true},
		},
		{
			name: "alias app no dev",
			host: "app.localhost",
			want: Resolution{IsMainDomain: true},
		},
		{
			name: "slug no dev",
			host: "beleza.localhost",
			want: Resolution{Subdomain: "beleza", SalonSlug: "beleza"},
		},
		{
			name: "slug no dev com porta",
			host: "beleza.localhost:8080",
			want: Resolution{Subdomain: "beleza", SalonSlug: "beleza"},
		},
		{
			name: "producao nua",
			host: "bellagenda.com.br",
			want: Resolution{IsMainDomain: true},
		},
		{
			name: "producao www",
			host: "www.bellagenda.com.br",
			want: Resolution{IsMainDomain: true},
		},
		{
			name: "slug em producao",
			host: "beleza.bellagenda.com.br",
			want: Resolution{Subdomain: "beleza", SalonSlug: "beleza"},
		},
		{
			name: "label reservado nao vira slug",
			host: "api.bellagenda.com.br",
			want: Resolution{IsMainDomain: true},
		},
		{
			name: "label admin reservado",
			host: "admin.bellagenda.com.br",
			want: Resolution{IsMainDomain: true},
		},
		{
			name: "maiusculas normalizadas",
			host: "BELEZA.Bellagenda.COM.BR",
			want: Resolution{Subdomain: "beleza", SalonSlug: "beleza"},
		},
		{
			name: "ponto final ignorado",
			host: "bellagenda.com.br.",
			want: Resolution{IsMainDomain: true},
		},
		{
			name: "host vazio cai no dominio principal",
			host: "",
			want: Resolution{IsMainDomain: true},
		},
		{
			name: "host desconhecido cai no dominio principal",
			host: "outro-site.com",
			want: Resolution{IsMainDomain: true},
		},
		{
			name: "host malformado cai no dominio principal",
			host: "...",
			want: Resolution{IsMainDomain: true},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, r.Resolve(tc.host))
		})
	}
}

func TestObserveReportsChangeOnlyWhenValueChanges(t *testing.T) {
	r := newTestResolver()

	// Primeira observação de um host sempre conta como mudança.
	res, changed := r.Observe("beleza.localhost")
	assert.True(t, changed)
	assert.Equal(t, "beleza", res.SalonSlug)

	// Mesmo host, mesma tupla: sem mudança.
	res, changed = r.Observe("beleza.localhost")
	assert.False(t, changed)
	assert.Equal(t, "beleza", res.SalonSlug)

	// Outro host tem memo próprio.
	_, changed = r.Observe("localhost")
	assert.True(t, changed)

	_, changed = r.Observe("localhost")
	assert.False(t, changed)
}

func TestObserveNormalizesHostKey(t *testing.T) {
	r := newTestResolver()

	_, changed := r.Observe("beleza.localhost")
	assert.True(t, changed)

	// Variações de caixa e porta são o mesmo host observado.
	_, changed = r.Observe("BELEZA.localhost:3000")
	assert.False(t, changed)
}

func TestIsAppDomain(t *testing.T) {
	r := newTestResolver()

	assert.True(t, r.IsAppDomain("app.bellagenda.com.br"))
	assert.True(t, r.IsAppDomain("app.localhost:3000"))
	assert.False(t, r.IsAppDomain("bellagenda.com.br"))
	assert.False(t, r.IsAppDomain("beleza.bellagenda.com.br"))
}
