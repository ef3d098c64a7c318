package wizard

import (
	"context"
	"time"

	domain "github.com/gretellmoreno/bellagenda-api/internal/domain/appointment"
	"github.com/gretellmoreno/bellagenda-api/internal/httperr"
)

// Backend é o que o Store precisa do cache Redis.
type Backend interface {
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any, ttl time.Duration)
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) bool
	Delete(ctx context.Context, keys ...string)
}

// Store persiste rascunhos no Redis entre requisições. O TTL faz
// o papel do "fechar sem salvar": rascunho abandonado expira.
type Store struct {
	cache Backend
	ttl   time.Duration
}

const (
	draftKeyPrefix   = "wizard:draft:"
	submitLockPrefix = "wizard:submit:"

	submitLockTTL = 30 * time.Second
)

func NewStore(c Backend) *Store {
	return &Store{
		cache: c,
		ttl:   time.Hour,
	}
}

func (s *Store) Save(ctx context.Context, d *Draft) {
	s.cache.Set(ctx, draftKeyPrefix+d.ID, d, s.ttl)
}

func (s *Store) Get(ctx context.Context, id string) (*Draft, error) {
	var d Draft
	if !s.cache.Get(ctx, draftKeyPrefix+id, &d) {
		return nil, httperr.ErrBusiness("draft_not_found")
	}
	if d.Assignments == nil {
		d.Assignments = make(map[domain.ServiceID]domain.ProfessionalID)
	}
	return &d, nil
}

func (s *Store) Delete(ctx context.Context, id string) {
	s.cache.Delete(ctx, draftKeyPrefix+id)
}

// AcquireSubmitLock garante um único submit em voo por rascunho.
// O guard em memória do Draft não atravessa requisições: cada uma
// recarrega uma cópia própria do Redis, então o lock mora lá,
// atômico via SETNX.
func (s *Store) AcquireSubmitLock(ctx context.Context, id string) bool {
	return s.cache.SetNX(ctx, submitLockPrefix+id, 1, submitLockTTL)
}

// ReleaseSubmitLock libera o lock após falha, permitindo nova
// tentativa. Em caso de sucesso o lock não é liberado: o rascunho
// salvo já está Submitted e o TTL cuida do resto.
func (s *Store) ReleaseSubmitLock(ctx context.Context, id string) {
	s.cache.Delete(ctx, submitLockPrefix+id)
}
