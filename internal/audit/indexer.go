package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/careledger/registry/pkg/logger"
	"github.com/careledger/registry/pkg/types"
)

// Entry is one indexed audit record with its integrity signature
type Entry struct {
	ID        string `json:"id"`
	types.AuditRecord
	Signature string `json:"signature"`
}

// Indexer consumes the registry's fire-after-commit audit records and keeps
// them queryable. Emit never blocks: when the buffer is full the record is
// dropped and counted, since delivery is best-effort by contract.
type Indexer struct {
	mu      sync.RWMutex
	entries []*Entry
	byActor map[types.Principal][]*Entry
	byEvent map[types.AuditEvent][]*Entry

	records chan types.AuditRecord
	done    chan struct{}
	stopped sync.Once
	dropped prometheus.Counter
	indexed *prometheus.CounterVec
	logger  *logger.Logger
}

// NewIndexer creates an audit indexer with the given buffer size and starts
// its consumer goroutine. Metrics registration is optional; pass nil to
// skip it.
func NewIndexer(bufferSize int, reg prometheus.Registerer, log *logger.Logger) *Indexer {
	if bufferSize <= 0 {
		bufferSize = 1024
	}
	if log == nil {
		log = logger.New("info")
	}

	idx := &Indexer{
		byActor: make(map[types.Principal][]*Entry),
		byEvent: make(map[types.AuditEvent][]*Entry),
		records: make(chan types.AuditRecord, bufferSize),
		done:    make(chan struct{}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "registry_audit_records_dropped_total",
			Help: "Audit records dropped because the indexer buffer was full",
		}),
		indexed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_audit_records_indexed_total",
			Help: "Audit records indexed, by event kind",
		}, []string{"event"}),
		logger: log,
	}

	if reg != nil {
		reg.MustRegister(idx.dropped, idx.indexed)
	}

	go idx.run()
	return idx
}

// Emit implements types.AuditEmitter
func (idx *Indexer) Emit(record types.AuditRecord) {
	select {
	case idx.records <- record:
	default:
		idx.dropped.Inc()
		idx.logger.WithFields(map[string]interface{}{
			"event": string(record.Event),
			"actor": string(record.Actor),
		}).Warn("Audit buffer full, record dropped")
	}
}

// Close stops the consumer after draining buffered records
func (idx *Indexer) Close() {
	idx.stopped.Do(func() {
		close(idx.records)
		<-idx.done
	})
}

func (idx *Indexer) run() {
	defer close(idx.done)
	for record := range idx.records {
		idx.index(record)
	}
}

func (idx *Indexer) index(record types.AuditRecord) {
	entry := &Entry{
		ID:          uuid.New().String(),
		AuditRecord: record,
	}
	entry.Signature = signEntry(entry)

	idx.mu.Lock()
	idx.entries = append(idx.entries, entry)
	idx.byActor[record.Actor] = append(idx.byActor[record.Actor], entry)
	idx.byEvent[record.Event] = append(idx.byEvent[record.Event], entry)
	idx.mu.Unlock()

	idx.indexed.WithLabelValues(string(record.Event)).Inc()
}

// Entries returns all indexed entries in arrival order
func (idx *Indexer) Entries() []*Entry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return append([]*Entry(nil), idx.entries...)
}

// EntriesByActor returns entries emitted for mutations by the given principal
func (idx *Indexer) EntriesByActor(actor types.Principal) []*Entry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return append([]*Entry(nil), idx.byActor[actor]...)
}

// EntriesByEvent returns entries of one event kind
func (idx *Indexer) EntriesByEvent(event types.AuditEvent) []*Entry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return append([]*Entry(nil), idx.byEvent[event]...)
}

// EntriesForPatient returns entries referencing the given patient id
func (idx *Indexer) EntriesForPatient(patientID uint64) []*Entry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var out []*Entry
	for _, entry := range idx.entries {
		if entry.PatientID == patientID {
			out = append(out, entry)
		}
	}
	return out
}

// VerifyIntegrity recomputes an entry's signature and compares it with the
// stored one
func (idx *Indexer) VerifyIntegrity(entryID string) (bool, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	for _, entry := range idx.entries {
		if entry.ID == entryID {
			return entry.Signature == signEntry(entry), nil
		}
	}
	return false, types.NewNotFoundError("audit entry %s does not exist", entryID)
}

// signEntry generates a SHA-256 integrity signature over the entry's stable
// fields, excluding the signature itself
func signEntry(entry *Entry) string {
	input := fmt.Sprintf("%s|%s|%s|%d|%d|%d|%s|%d",
		entry.ID,
		entry.Event,
		entry.Actor,
		entry.DoctorID,
		entry.PatientID,
		entry.MedicineID,
		entry.Detail,
		entry.Timestamp.UnixNano(),
	)
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])
}
