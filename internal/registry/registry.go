package registry

import (
	"sync"
	"time"

	"github.com/careledger/registry/pkg/logger"
	"github.com/careledger/registry/pkg/types"
)

// assignment identifies one doctor-patient access grant
type assignment struct {
	DoctorID  uint64
	PatientID uint64
}

// Service is the aggregate root for the permissioned care registry. It owns
// the entity tables, the doctor-patient assignment relation, the per-patient
// prescription ledger and the administrator identity.
//
// A single mutex serializes every operation; each operation validates all of
// its preconditions before the first write, so a failed call never leaves
// partial state behind. One audit record is emitted after each committed
// mutation, and the emit never blocks the operation.
type Service struct {
	mu sync.Mutex

	admin     types.Principal
	doctors   map[uint64]*types.Doctor
	patients  map[uint64]*types.Patient
	medicines map[uint64]*types.Medicine

	// granted doctor-patient pairs; absent key means not granted
	assignments map[assignment]bool

	// append-only prescription sequence per patient, duplicates allowed
	prescriptions map[uint64][]uint64

	// membership sets kept consistent with the ordered slices on Patient
	diseaseSets map[uint64]map[string]struct{}
	recordSets  map[uint64]map[string]struct{}

	emitter types.AuditEmitter
	logger  *logger.Logger
}

// New creates a registry service with the given bootstrap administrator.
// The emitter may be nil, in which case audit records are only logged.
func New(admin types.Principal, emitter types.AuditEmitter, log *logger.Logger) (*Service, error) {
	if admin == "" {
		return nil, types.NewInvalidInputError("bootstrap admin principal must not be empty")
	}
	if log == nil {
		log = logger.New("info")
	}

	return &Service{
		admin:         admin,
		doctors:       make(map[uint64]*types.Doctor),
		patients:      make(map[uint64]*types.Patient),
		medicines:     make(map[uint64]*types.Medicine),
		assignments:   make(map[assignment]bool),
		prescriptions: make(map[uint64][]uint64),
		diseaseSets:   make(map[uint64]map[string]struct{}),
		recordSets:    make(map[uint64]map[string]struct{}),
		emitter:       emitter,
		logger:        log,
	}, nil
}

// Admin returns the current administrator principal
func (s *Service) Admin() types.Principal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.admin
}

// emit publishes one audit record for a committed mutation. Called with the
// service lock held, after all writes for the operation are in place.
func (s *Service) emit(record types.AuditRecord) {
	record.Timestamp = time.Now()

	s.logger.WithFields(map[string]interface{}{
		"event":       string(record.Event),
		"actor":       string(record.Actor),
		"doctor_id":   record.DoctorID,
		"patient_id":  record.PatientID,
		"medicine_id": record.MedicineID,
	}).Info("Registry mutation committed")

	if s.emitter != nil {
		s.emitter.Emit(record)
	}
}
