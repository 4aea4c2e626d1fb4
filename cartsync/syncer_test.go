package cartsync

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Waggeh13/Perfume/cart"
	"github.com/Waggeh13/Perfume/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockBackend struct {
	mu        sync.Mutex
	pullItems []domain.LineItem
	pullErr   error
	pullGate  chan struct{} // when set, FetchCart blocks until closed
	pulls     int
	pushes    [][]domain.LineItem
	pushErr   error
}

func (m *mockBackend) FetchCart(context.Context) ([]domain.LineItem, error) {
	m.mu.Lock()
	gate := m.pullGate
	m.mu.Unlock()
	if gate != nil {
		<-gate
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.pulls++
	if m.pullErr != nil {
		return nil, m.pullErr
	}
	return domain.CopyItems(m.pullItems), nil
}

func (m *mockBackend) SyncCart(_ context.Context, items []domain.LineItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pushErr != nil {
		return m.pushErr
	}
	m.pushes = append(m.pushes, domain.CopyItems(items))
	return nil
}

func (m *mockBackend) pushCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pushes)
}

func (m *mockBackend) lastPush() []domain.LineItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.pushes) == 0 {
		return nil
	}
	return m.pushes[len(m.pushes)-1]
}

var velour = cart.Product{ID: 1, Name: "Velour Mist", Price: 7200, Size: "100ml"}
var eclat = cart.Product{ID: 2, Name: "Eclat d'Aube", Price: 8300, Size: "100ml"}

const testDebounce = 20 * time.Millisecond

func newTestSyncer(t *testing.T) (*Syncer, *cart.Store, *mockBackend) {
	t.Helper()
	backend := &mockBackend{}
	store := cart.NewStore()
	return New(backend, store, testDebounce, nil), store, backend
}

func TestLoginPullReplacesCart(t *testing.T) {
	syncer, store, backend := newTestSyncer(t)
	backend.pullItems = []domain.LineItem{
		{ProductID: 3, Name: "Whispered Iris", UnitPrice: 9000, Quantity: 2},
	}

	syncer.HandleAuthChange(true)

	require.Eventually(t, func() bool {
		return syncer.State() == StateAuthenticatedIdle
	}, 2*time.Second, 5*time.Millisecond)
	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, int64(3), items[0].ProductID)

	// Applying remote state is not a local mutation: no push follows.
	time.Sleep(3 * testDebounce)
	assert.Zero(t, backend.pushCount())
}

func TestPullFailureLeavesLocalCartUntouched(t *testing.T) {
	syncer, store, backend := newTestSyncer(t)
	require.NoError(t, store.AddItem(velour, 2))
	backend.pullErr = assert.AnError

	syncer.HandleAuthChange(true)

	require.Eventually(t, func() bool {
		return syncer.State() == StateAuthenticatedIdle
	}, 2*time.Second, 5*time.Millisecond)
	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, velour.ID, items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestMutationBurstCoalescesIntoOnePush(t *testing.T) {
	syncer, store, backend := newTestSyncer(t)
	syncer.HandleAuthChange(true)
	require.Eventually(t, func() bool {
		return syncer.State() == StateAuthenticatedIdle
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, store.AddItem(velour, 1))
	require.NoError(t, store.AddItem(velour, 1))
	store.SetQuantity(velour.ID, 5)
	assert.Equal(t, StatePushPending, syncer.State())

	require.Eventually(t, func() bool {
		return backend.pushCount() == 1
	}, 2*time.Second, 5*time.Millisecond)

	// Only the latest merged state was transmitted.
	pushed := backend.lastPush()
	require.Len(t, pushed, 1)
	assert.Equal(t, 5, pushed[0].Quantity)

	time.Sleep(3 * testDebounce)
	assert.Equal(t, 1, backend.pushCount())
	assert.Equal(t, StateAuthenticatedIdle, syncer.State())
}

func TestLogoutCancelsPendingPush(t *testing.T) {
	syncer, store, backend := newTestSyncer(t)
	syncer.HandleAuthChange(true)
	require.Eventually(t, func() bool {
		return syncer.State() == StateAuthenticatedIdle
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, store.AddItem(velour, 1))
	assert.Equal(t, StatePushPending, syncer.State())

	syncer.HandleAuthChange(false)
	assert.Equal(t, StateAnonymous, syncer.State())

	time.Sleep(4 * testDebounce)
	assert.Zero(t, backend.pushCount(), "no network call may fire for a cancelled push")
}

func TestStalePullSupersededByLocalMutation(t *testing.T) {
	syncer, store, backend := newTestSyncer(t)
	gate := make(chan struct{})
	backend.pullGate = gate
	backend.pullItems = []domain.LineItem{
		{ProductID: 9, Name: "Remote Relic", UnitPrice: 100, Quantity: 7},
	}

	syncer.HandleAuthChange(true)
	assert.Equal(t, StatePulling, syncer.State())

	// The user edits the cart while the pull is still in flight.
	require.NoError(t, store.AddItem(velour, 1))

	// The pull resolves late; its result must not clobber the local edit.
	close(gate)
	require.Eventually(t, func() bool {
		return backend.pushCount() == 1
	}, 2*time.Second, 5*time.Millisecond)

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, velour.ID, items[0].ProductID)
	assert.Equal(t, velour.ID, backend.lastPush()[0].ProductID)
}

func TestEmptyCartPushSkipped(t *testing.T) {
	syncer, store, backend := newTestSyncer(t)
	syncer.HandleAuthChange(true)
	require.Eventually(t, func() bool {
		return syncer.State() == StateAuthenticatedIdle
	}, 2*time.Second, 5*time.Millisecond)

	// Clearing is a mutation, but an empty cart is never posted.
	require.NoError(t, store.AddItem(velour, 1))
	store.Clear()

	time.Sleep(4 * testDebounce)
	assert.Zero(t, backend.pushCount())
	assert.Equal(t, StateAuthenticatedIdle, syncer.State())
}

func TestAnonymousMutationsNeverSync(t *testing.T) {
	syncer, store, backend := newTestSyncer(t)

	require.NoError(t, store.AddItem(velour, 1))
	require.NoError(t, store.AddItem(eclat, 2))

	time.Sleep(4 * testDebounce)
	assert.Zero(t, backend.pushCount())
	assert.Zero(t, backend.pulls)
	assert.Equal(t, StateAnonymous, syncer.State())
}

func TestPushFailureIsNonFatal(t *testing.T) {
	syncer, store, backend := newTestSyncer(t)
	backend.pushErr = assert.AnError
	syncer.HandleAuthChange(true)
	require.Eventually(t, func() bool {
		return syncer.State() == StateAuthenticatedIdle
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, store.AddItem(velour, 1))
	require.Eventually(t, func() bool {
		return syncer.State() == StateAuthenticatedIdle
	}, 2*time.Second, 5*time.Millisecond)

	// Local state stays authoritative and the next mutation tries again.
	backend.mu.Lock()
	backend.pushErr = nil
	backend.mu.Unlock()
	require.NoError(t, store.AddItem(eclat, 1))
	require.Eventually(t, func() bool {
		return backend.pushCount() == 1
	}, 2*time.Second, 5*time.Millisecond)
	assert.Len(t, backend.lastPush(), 2)
}
