package audit

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careledger/registry/pkg/logger"
	"github.com/careledger/registry/pkg/types"
)

func testRecord(event types.AuditEvent, actor types.Principal, patientID uint64) types.AuditRecord {
	return types.AuditRecord{
		Event:     event,
		Actor:     actor,
		PatientID: patientID,
		Timestamp: time.Now().UTC(),
	}
}

func TestIndexer_DeliversAndIndexes(t *testing.T) {
	idx := NewIndexer(16, nil, logger.New("error"))

	idx.Emit(testRecord(types.EventDoctorRegistered, "admin", 0))
	idx.Emit(testRecord(types.EventPatientRegistered, "dr_gregory", 1))
	idx.Emit(testRecord(types.EventDiseaseAdded, "dr_gregory", 1))
	idx.Close()

	entries := idx.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, types.EventDoctorRegistered, entries[0].Event)
	assert.Equal(t, types.EventDiseaseAdded, entries[2].Event)
	for _, entry := range entries {
		assert.NotEmpty(t, entry.ID)
		assert.NotEmpty(t, entry.Signature)
	}

	assert.Len(t, idx.EntriesByActor("dr_gregory"), 2)
	assert.Len(t, idx.EntriesByActor("admin"), 1)
	assert.Empty(t, idx.EntriesByActor("stranger"))

	assert.Len(t, idx.EntriesByEvent(types.EventDiseaseAdded), 1)
	assert.Empty(t, idx.EntriesByEvent(types.EventMedicineAdded))

	assert.Len(t, idx.EntriesForPatient(1), 2)
	assert.Empty(t, idx.EntriesForPatient(9))
}

func TestIndexer_VerifyIntegrity(t *testing.T) {
	idx := NewIndexer(16, nil, logger.New("error"))

	idx.Emit(testRecord(types.EventPrescriptionAdded, "dr_gregory", 1))
	idx.Close()

	entries := idx.Entries()
	require.Len(t, entries, 1)

	ok, err := idx.VerifyIntegrity(entries[0].ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = idx.VerifyIntegrity("no-such-entry")
	assert.Equal(t, types.ErrCodeNotFound, types.CodeOf(err))

	// A tampered field invalidates the stored signature
	entries[0].Detail = "forged"
	ok, err = idx.VerifyIntegrity(entries[0].ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIndexer_EmitNeverBlocksWhenFull(t *testing.T) {
	// No consumer goroutine: the channel fills and stays full, so the
	// second record must be dropped rather than block the caller
	idx := &Indexer{
		records: make(chan types.AuditRecord, 1),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{Name: "test_dropped_total"}),
		logger:  logger.New("error"),
	}

	done := make(chan struct{})
	go func() {
		idx.Emit(testRecord(types.EventDiseaseAdded, "dr_gregory", 1))
		idx.Emit(testRecord(types.EventRecordAdded, "dr_gregory", 1))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a full buffer")
	}
	assert.Equal(t, float64(1), testutil.ToFloat64(idx.dropped))
}

func TestIndexer_MetricsCountIndexedRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	idx := NewIndexer(16, reg, logger.New("error"))

	idx.Emit(testRecord(types.EventDiseaseAdded, "dr_gregory", 1))
	idx.Emit(testRecord(types.EventDiseaseAdded, "dr_gregory", 1))
	idx.Close()

	assert.Equal(t, float64(2), testutil.ToFloat64(idx.indexed.WithLabelValues(string(types.EventDiseaseAdded))))
}

func TestIndexer_CloseIsIdempotent(t *testing.T) {
	idx := NewIndexer(16, nil, logger.New("error"))
	idx.Close()
	idx.Close()
	assert.Empty(t, idx.Entries())
}
