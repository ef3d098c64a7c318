package wizard

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/gretellmoreno/bellagenda-api/internal/httperr"
	"github.com/gretellmoreno/bellagenda-api/internal/models"
)

// fakeBackend simula o Redis em memória, com o mesmo round-trip
// JSON: cada Get devolve uma cópia independente do rascunho, como
// acontece entre requisições reais.
type fakeBackend struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{data: make(map[string][]byte)}
}

func (f *fakeBackend) Get(_ context.Context, key string, dest any) bool {
	f.mu.Lock()
	raw, ok := f.data[key]
	f.mu.Unlock()
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (f *fakeBackend) Set(_ context.Context, key string, value any, _ time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	f.mu.Lock()
	f.data[key] = raw
	f.mu.Unlock()
}

func (f *fakeBackend) SetNX(_ context.Context, key string, value any, _ time.Duration) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[key]; ok {
		return false
	}
	f.data[key] = raw
	return true
}

func (f *fakeBackend) Delete(_ context.Context, keys ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.data, k)
	}
}

func savedSubmittableDraft(t *testing.T, store *Store) string {
	t.Helper()
	ctx := context.Background()

	d := NewDraft(10, Defaults{Date: "2025-03-10", Time: "10:00"})
	assert.NoError(t, d.ToggleService(ctx, new(MockGateway), corteService()))
	d.SelectProfessional(7)
	store.Save(ctx, d)
	return d.ID
}

// submitViaStore reproduz o caminho de uma requisição de submit:
// recarrega o rascunho, disputa o lock, submete e persiste.
func submitViaStore(ctx context.Context, store *Store, id string, gw Gateway) error {
	d, err := store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !store.AcquireSubmitLock(ctx, d.ID) {
		return httperr.ErrBusiness("submission_in_flight")
	}
	_, err = d.Submit(ctx, gw)
	store.Save(ctx, d)
	if err != nil {
		store.ReleaseSubmitLock(ctx, d.ID)
	}
	return err
}

// Duas requisições simultâneas recarregam cópias independentes do
// rascunho; o guard em memória não as enxerga — quem garante uma
// única criação é o lock atômico do Store.
func TestSubmitAcrossStoreReloadCreatesOnce(t *testing.T) {
	store := NewStore(newFakeBackend())
	ctx := context.Background()
	id := savedSubmittableDraft(t, store)

	gw := new(MockGateway)
	gw.On("CreateAppointment", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { time.Sleep(30 * time.Millisecond) }).
		Return(&models.Appointment{ID: 1}, nil)

	var wg sync.WaitGroup
	var okCount, blockedCount int
	var mu sync.Mutex

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := submitViaStore(ctx, store, id, gw)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				okCount++
			} else if httperr.IsBusiness(err, "submission_in_flight") {
				blockedCount++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, okCount)
	assert.Equal(t, 1, blockedCount)
	gw.AssertNumberOfCalls(t, "CreateAppointment", 1)
}

// Falha libera o lock e o rascunho persistido segue aberto para
// nova tentativa.
func TestSubmitLockReleasedOnFailureAllowsRetry(t *testing.T) {
	store := NewStore(newFakeBackend())
	ctx := context.Background()
	id := savedSubmittableDraft(t, store)

	gw := new(MockGateway)
	gw.On("CreateAppointment", mock.Anything, mock.Anything).
		Return(nil, assert.AnError).Once()
	gw.On("CreateAppointment", mock.Anything, mock.Anything).
		Return(&models.Appointment{ID: 1}, nil).Once()

	assert.Error(t, submitViaStore(ctx, store, id, gw))
	assert.NoError(t, submitViaStore(ctx, store, id, gw))
	gw.AssertNumberOfCalls(t, "CreateAppointment", 2)
}

// Depois do sucesso o rascunho persistido está Submitted: mesmo
// com o lock expirado, um novo submit é rejeitado pelo guard.
func TestSubmittedDraftRejectsResubmitAfterLockExpiry(t *testing.T) {
	store := NewStore(newFakeBackend())
	ctx := context.Background()
	id := savedSubmittableDraft(t, store)

	gw := new(MockGateway)
	gw.On("CreateAppointment", mock.Anything, mock.Anything).
		Return(&models.Appointment{ID: 1}, nil)

	assert.NoError(t, submitViaStore(ctx, store, id, gw))

	// Simula a expiração do TTL do lock.
	store.ReleaseSubmitLock(ctx, id)

	err := submitViaStore(ctx, store, id, gw)
	assert.True(t, httperr.IsBusiness(err, "submission_in_flight"))
	gw.AssertNumberOfCalls(t, "CreateAppointment", 1)
}
