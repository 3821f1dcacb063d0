package types

import "time"

// AuditEvent identifies the kind of mutation an audit record describes
type AuditEvent string

const (
	EventDoctorRegistered           AuditEvent = "doctor_registered"
	EventDoctorUpdated              AuditEvent = "doctor_updated"
	EventDoctorDeactivated          AuditEvent = "doctor_deactivated"
	EventDoctorCertificationUpdated AuditEvent = "doctor_certification_updated"
	EventPatientRegistered          AuditEvent = "patient_registered"
	EventPatientUpdated             AuditEvent = "patient_updated"
	EventPatientDeactivated         AuditEvent = "patient_deactivated"
	EventMedicineAdded              AuditEvent = "medicine_added"
	EventMedicineUpdated            AuditEvent = "medicine_updated"
	EventMedicineDeactivated        AuditEvent = "medicine_deactivated"
	EventRecordAdded                AuditEvent = "record_added"
	EventDiseaseAdded               AuditEvent = "disease_added"
	EventPrescriptionAdded          AuditEvent = "prescription_added"
	EventAdminChanged               AuditEvent = "admin_changed"
	EventDoctorAssigned             AuditEvent = "doctor_assigned"
)

// AuditRecord is the one-way, fire-after-commit notification emitted for
// every successful mutation. The core decides what to emit; delivery and
// indexing belong to the audit collaborator.
type AuditRecord struct {
	Event      AuditEvent `json:"event"`
	Actor      Principal  `json:"actor"`
	DoctorID   uint64     `json:"doctor_id,omitempty"`
	PatientID  uint64     `json:"patient_id,omitempty"`
	MedicineID uint64     `json:"medicine_id,omitempty"`
	Detail     string     `json:"detail,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
}

// AuditEmitter receives one record per committed mutation. Implementations
// must not block the caller.
type AuditEmitter interface {
	Emit(record AuditRecord)
}
