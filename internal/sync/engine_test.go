package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kiranapos/internal/core/apperror"
	"kiranapos/internal/core/id"
	"kiranapos/internal/domain/outbox"
)

// queueFake is an in-memory outbox.Repository for engine tests.
type queueFake struct {
	entries []outbox.Entry
	nextID  int64
}

func (q *queueFake) add(kind outbox.OpKind, payload string) int64 {
	q.nextID++
	q.entries = append(q.entries, outbox.Entry{
		ID:         q.nextID,
		OpID:       id.New(),
		EntityType: outbox.EntityItem,
		EntityID:   id.New().String(),
		Kind:       kind,
		Payload:    []byte(payload),
		Status:     outbox.StatusPending,
		CreatedAt:  time.Now(),
	})
	return q.nextID
}

func (q *queueFake) get(entryID int64) *outbox.Entry {
	for i := range q.entries {
		if q.entries[i].ID == entryID {
			return &q.entries[i]
		}
	}
	return nil
}

func (q *queueFake) Enqueue(ctx context.Context, op outbox.Op) (*outbox.Entry, error) {
	entryID := q.add(op.Kind, string(op.Payload))
	return q.get(entryID), nil
}

func (q *queueFake) byStatus(status outbox.Status, limit int) []outbox.Entry {
	var out []outbox.Entry
	for _, e := range q.entries {
		if e.Status == status {
			out = append(out, e)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

func (q *queueFake) GetPending(ctx context.Context, limit int) ([]outbox.Entry, error) {
	return q.byStatus(outbox.StatusPending, limit), nil
}

func (q *queueFake) GetFailed(ctx context.Context, limit int) ([]outbox.Entry, error) {
	return q.byStatus(outbox.StatusFailed, limit), nil
}

func (q *queueFake) GetByID(ctx context.Context, entryID int64) (*outbox.Entry, error) {
	if e := q.get(entryID); e != nil {
		return e, nil
	}
	return nil, apperror.NewNotFound("outbox entry", entryID)
}

func (q *queueFake) MarkAttempt(ctx context.Context, entryID int64) error {
	q.get(entryID).Attempts++
	return nil
}

func (q *queueFake) MarkDone(ctx context.Context, entryID int64) error {
	q.get(entryID).Status = outbox.StatusDone
	return nil
}

func (q *queueFake) MarkFailed(ctx context.Context, entryID int64, reason string) error {
	e := q.get(entryID)
	e.Status = outbox.StatusFailed
	e.LastError = &reason
	return nil
}

func (q *queueFake) ResetToPending(ctx context.Context, entryID int64) error {
	e := q.get(entryID)
	if e.Status == outbox.StatusFailed {
		e.Status = outbox.StatusPending
		e.LastError = nil
	}
	return nil
}

func (q *queueFake) ResetAllFailed(ctx context.Context) (int64, error) {
	var n int64
	for i := range q.entries {
		if q.entries[i].Status == outbox.StatusFailed {
			q.entries[i].Status = outbox.StatusPending
			q.entries[i].LastError = nil
			n++
		}
	}
	return n, nil
}

func (q *queueFake) ClearDone(ctx context.Context) (int64, error) { return 0, nil }
func (q *queueFake) ClearAll(ctx context.Context) (int64, error)  { return 0, nil }

func (q *queueFake) PendingCount(ctx context.Context) (int64, error) {
	return int64(len(q.byStatus(outbox.StatusPending, len(q.entries)))), nil
}

func (q *queueFake) FailedCount(ctx context.Context) (int64, error) {
	return int64(len(q.byStatus(outbox.StatusFailed, len(q.entries)))), nil
}

func (q *queueFake) Recent(ctx context.Context, limit int) ([]outbox.Entry, error) {
	return nil, nil
}

var _ outbox.Repository = (*queueFake)(nil)

// remoteFake records applied envelopes and can be programmed to reject.
type remoteFake struct {
	applied []*Envelope
	errOn   map[string]error  // entity id -> transport error
	nackOn  map[string]string // entity id -> rejection message
}

func (r *remoteFake) Apply(ctx context.Context, env *Envelope) (ApplyResult, error) {
	r.applied = append(r.applied, env)
	if err, ok := r.errOn[env.EntityID]; ok {
		return ApplyResult{}, err
	}
	if msg, ok := r.nackOn[env.EntityID]; ok {
		return ApplyResult{OK: false, Message: msg}, nil
	}
	return ApplyResult{OK: true}, nil
}

func newTestEngine(q *queueFake, r RemoteAPI) *Engine {
	return NewEngine(q, r, NewCodec("test-device"), Config{BatchSize: 10})
}

func TestSyncOnceDrainsInOrder(t *testing.T) {
	q := &queueFake{}
	q.add(outbox.OpUpsert, `{"n":1}`)
	q.add(outbox.OpUpsert, `{"n":2}`)
	q.add(outbox.OpDelete, `{}`)
	remote := &remoteFake{}
	e := newTestEngine(q, remote)

	result, err := e.SyncOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Synced)
	assert.Equal(t, 0, result.Failed)

	require.Len(t, remote.applied, 3)
	assert.JSONEq(t, `{"n":1}`, string(remote.applied[0].Payload))
	assert.JSONEq(t, `{"n":2}`, string(remote.applied[1].Payload))
	assert.Equal(t, "test-device", remote.applied[0].DeviceID)

	for _, entry := range q.entries {
		assert.Equal(t, outbox.StatusDone, entry.Status)
		assert.Equal(t, 1, entry.Attempts)
	}
}

func TestSyncSkippedWithoutRemote(t *testing.T) {
	q := &queueFake{}
	q.add(outbox.OpUpsert, `{"n":1}`)
	e := newTestEngine(q, nil)

	result, err := e.SyncOnce(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Skipped)

	// Entries stay queued, untouched.
	assert.Equal(t, outbox.StatusPending, q.entries[0].Status)
	assert.Equal(t, 0, q.entries[0].Attempts)
}

func TestTransportErrorMarksFailed(t *testing.T) {
	q := &queueFake{}
	okID := q.add(outbox.OpUpsert, `{"n":1}`)
	badID := q.add(outbox.OpUpsert, `{"n":2}`)
	remote := &remoteFake{errOn: map[string]error{
		q.get(badID).EntityID: errors.New("connection reset"),
	}}
	e := newTestEngine(q, remote)

	result, err := e.SyncOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Synced)
	assert.Equal(t, 1, result.Failed)

	assert.Equal(t, outbox.StatusDone, q.get(okID).Status)

	failed := q.get(badID)
	assert.Equal(t, outbox.StatusFailed, failed.Status)
	require.NotNil(t, failed.LastError)
	assert.Equal(t, "connection reset", *failed.LastError)
	// The attempt was stamped before the send.
	assert.Equal(t, 1, failed.Attempts)
}

func TestRemoteRejectionMarksFailed(t *testing.T) {
	q := &queueFake{}
	entryID := q.add(outbox.OpUpsert, `{"n":1}`)
	remote := &remoteFake{nackOn: map[string]string{
		q.get(entryID).EntityID: "schema mismatch",
	}}
	e := newTestEngine(q, remote)

	result, err := e.SyncOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, "schema mismatch", *q.get(entryID).LastError)
}

func TestMalformedPayloadFailsWithoutNetwork(t *testing.T) {
	q := &queueFake{}
	entryID := q.add(outbox.OpUpsert, `{not json`)
	remote := &remoteFake{}
	e := newTestEngine(q, remote)

	result, err := e.SyncOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Empty(t, remote.applied, "undecodable entry must never reach the remote")
	assert.Equal(t, outbox.StatusFailed, q.get(entryID).Status)
}

func TestSyncAllRetriesFailedAfterPending(t *testing.T) {
	q := &queueFake{}
	failedID := q.add(outbox.OpUpsert, `{"n":1}`)
	q.get(failedID).Status = outbox.StatusFailed
	q.add(outbox.OpUpsert, `{"n":2}`)
	e := newTestEngine(q, &remoteFake{})

	result, err := e.SyncAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Synced)
	assert.Equal(t, outbox.StatusDone, q.get(failedID).Status)
}

func TestFailedStaysFailedUntilReset(t *testing.T) {
	q := &queueFake{}
	entryID := q.add(outbox.OpUpsert, `{"n":1}`)
	q.get(entryID).Status = outbox.StatusFailed
	e := newTestEngine(q, &remoteFake{})

	// A pending-only pass does not touch it.
	result, err := e.SyncOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Synced)
	assert.Equal(t, outbox.StatusFailed, q.get(entryID).Status)

	require.NoError(t, e.RetryEntry(context.Background(), entryID))
	assert.Equal(t, outbox.StatusPending, q.get(entryID).Status)
	// The retry queued a trigger for the background loop.
	assert.Len(t, e.triggerCh, 1)
}

func TestResetFailed(t *testing.T) {
	q := &queueFake{}
	a := q.add(outbox.OpUpsert, `{"n":1}`)
	b := q.add(outbox.OpUpsert, `{"n":2}`)
	q.get(a).Status = outbox.StatusFailed
	q.get(b).Status = outbox.StatusFailed
	e := newTestEngine(q, &remoteFake{})

	n, err := e.ResetFailed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, outbox.StatusPending, q.get(a).Status)
	assert.Equal(t, outbox.StatusPending, q.get(b).Status)
}

func TestTriggerCoalesces(t *testing.T) {
	e := newTestEngine(&queueFake{}, nil)

	e.Trigger()
	e.Trigger()
	e.Trigger()

	assert.Len(t, e.triggerCh, 1, "bursts collapse into one signal")
}

func TestCodecRejectsUnknownKinds(t *testing.T) {
	c := NewCodec("dev")

	_, err := c.Decode(&outbox.Entry{
		EntityType: "WIDGET",
		Kind:       outbox.OpUpsert,
		Payload:    []byte(`{}`),
	})
	assert.Error(t, err)

	_, err = c.Decode(&outbox.Entry{
		EntityType: outbox.EntityItem,
		Kind:       "EXPLODE",
		Payload:    []byte(`{}`),
	})
	assert.Error(t, err)

	env, err := c.Decode(&outbox.Entry{
		EntityType: outbox.EntityItem,
		EntityID:   "abc",
		Kind:       outbox.OpUpsert,
		Payload:    []byte(`{"a":1}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "dev", env.DeviceID)
	assert.Equal(t, "ITEM", env.EntityType)
	assert.Equal(t, "UPSERT", env.OpKind)
}

func TestPreview(t *testing.T) {
	e := &outbox.Entry{
		EntityType: outbox.EntityTransaction,
		EntityID:   "t-1",
		Kind:       outbox.OpCreateSale,
		Payload:    []byte(`{"x":1}`),
	}
	assert.Equal(t, "CREATE_SALE TRANSACTION t-1 (7 bytes)", Preview(e))
}
