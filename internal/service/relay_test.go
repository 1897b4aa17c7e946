package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conversor/webhook-relay/internal/domain"
	"github.com/conversor/webhook-relay/internal/store"
	"github.com/conversor/webhook-relay/internal/testutil"
)

type mockConversionSender struct {
	calls   int
	lastArg *domain.Conversion
	eventID string
	err     error
}

func (m *mockConversionSender) Send(_ context.Context, conv *domain.Conversion, _ string) (string, error) {
	m.calls++
	m.lastArg = conv
	return m.eventID, m.err
}

type mockOrderSender struct {
	calls   int
	lastArg domain.OrderRecord
	err     error
}

func (m *mockOrderSender) Send(_ context.Context, order domain.OrderRecord) error {
	m.calls++
	m.lastArg = order
	return m.err
}

func newTestRelay(conv *mockConversionSender, orders *mockOrderSender) (*Relay, *store.MemoryStore) {
	st := store.NewMemoryStore(time.Hour)
	return NewRelay(st, conv, orders, "NivoPay", "website"), st
}

func TestRelayProcessApproved(t *testing.T) {
	conv := &mockConversionSender{eventID: "purchase_t1_1"}
	orders := &mockOrderSender{}
	relay, st := newTestRelay(conv, orders)

	outcome, err := relay.Process(context.Background(), testutil.ApprovedPayload())
	require.NoError(t, err)

	assert.True(t, outcome.Approved)
	assert.Equal(t, "t1", outcome.TransactionID)
	assert.Equal(t, "purchase_t1_1", outcome.EventID)

	assert.Equal(t, 1, conv.calls)
	require.NotNil(t, conv.lastArg)
	assert.Equal(t, "a@b.com", conv.lastArg.Customer.Email)

	assert.Equal(t, 1, orders.calls)
	assert.Equal(t, domain.OrderStatusPaid, orders.lastArg.Status)
	assert.Equal(t, "pix", orders.lastArg.PaymentMethod)

	record, err := st.Get(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusCompleted, record.Status)
	assert.Equal(t, int64(1000), record.Amount)
}

func TestRelayProcessNotApproved(t *testing.T) {
	conv := &mockConversionSender{}
	orders := &mockOrderSender{}
	relay, st := newTestRelay(conv, orders)

	payload := testutil.ApprovedPayload()
	payload.Status = "pending"

	outcome, err := relay.Process(context.Background(), payload)
	require.NoError(t, err)

	assert.False(t, outcome.Approved)
	assert.Zero(t, conv.calls, "conversion sender must not run for unapproved payments")
	assert.Zero(t, orders.calls, "order sender must not run for unapproved payments")

	record, err := st.Get(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "pending", record.Status, "raw status persisted for unapproved payments")
}

func TestRelayProcessEmptyStatusPersistsPending(t *testing.T) {
	relay, st := newTestRelay(&mockConversionSender{}, &mockOrderSender{})

	payload := testutil.ApprovedPayload()
	payload.Status = ""

	_, err := relay.Process(context.Background(), payload)
	require.NoError(t, err)

	record, err := st.Get(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPending, record.Status)
}

func TestRelayProcessMissingTransactionID(t *testing.T) {
	conv := &mockConversionSender{}
	relay, _ := newTestRelay(conv, &mockOrderSender{})

	payload := testutil.ApprovedPayload()
	payload.ID = ""
	payload.ExternalID = ""

	_, err := relay.Process(context.Background(), payload)
	assert.ErrorIs(t, err, domain.ErrMissingTransactionID)
	assert.Zero(t, conv.calls)
}

func TestRelayProcessInvalidCustomer(t *testing.T) {
	conv := &mockConversionSender{}
	orders := &mockOrderSender{}
	relay, _ := newTestRelay(conv, orders)

	payload := testutil.ApprovedPayload()
	payload.Customer.Email = ""

	_, err := relay.Process(context.Background(), payload)
	assert.ErrorIs(t, err, domain.ErrMissingCustomer)
	assert.Zero(t, conv.calls, "no outbound call may follow a mapping failure")
	assert.Zero(t, orders.calls)
}

func TestRelayProcessOrderFailureDoesNotAffectOutcome(t *testing.T) {
	conv := &mockConversionSender{eventID: "purchase_t1_1"}
	orders := &mockOrderSender{err: errors.New("order-tracking down")}
	relay, _ := newTestRelay(conv, orders)

	outcome, err := relay.Process(context.Background(), testutil.ApprovedPayload())
	require.NoError(t, err)
	assert.True(t, outcome.Approved)
	assert.Equal(t, "purchase_t1_1", outcome.EventID)
	assert.Equal(t, 1, conv.calls, "conversion still dispatched after order failure")
}

func TestRelayProcessConversionFailure(t *testing.T) {
	conv := &mockConversionSender{err: errors.New("ads api timeout")}
	orders := &mockOrderSender{}
	relay, _ := newTestRelay(conv, orders)

	_, err := relay.Process(context.Background(), testutil.ApprovedPayload())
	require.Error(t, err)
	assert.Equal(t, 1, orders.calls, "order send already happened and is not rolled back")
}

type failingStore struct{}

func (failingStore) Set(context.Context, string, domain.StatusRecord) error {
	return errors.New("store down")
}
func (failingStore) Get(context.Context, string) (*domain.StatusRecord, error) {
	return nil, domain.ErrNotFound
}
func (failingStore) PurgeExpired(context.Context, time.Time) (int, error) { return 0, nil }
func (failingStore) Close() error                                         { return nil }

func TestRelayProcessStoreFailureIsNotFatal(t *testing.T) {
	conv := &mockConversionSender{eventID: "purchase_t1_1"}
	relay := NewRelay(failingStore{}, conv, &mockOrderSender{}, "NivoPay", "website")

	outcome, err := relay.Process(context.Background(), testutil.ApprovedPayload())
	require.NoError(t, err)
	assert.True(t, outcome.Approved)
}
