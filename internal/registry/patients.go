package registry

import (
	"github.com/careledger/registry/pkg/types"
)

// RegisterPatient creates a new patient record. Only an active doctor may
// register a patient; the registering doctor is granted access to the new
// patient in the same operation, with no separate assignment call.
func (s *Service) RegisterPatient(caller types.Principal, doctorID, patientID uint64, identity types.Principal, name string, age int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.requireActiveDoctor(caller, doctorID, "RegisterPatient"); err != nil {
		return err
	}
	if _, ok := s.patients[patientID]; ok {
		return types.NewAlreadyExistsError("patient %d is already registered", patientID)
	}
	if identity == "" {
		return types.NewInvalidInputError("patient identity must not be empty")
	}
	if name == "" {
		return types.NewInvalidInputError("patient name must not be empty")
	}
	if age < types.MinPatientAge || age > types.MaxPatientAge {
		return types.NewInvalidInputError("patient age %d is outside the range %d-%d", age, types.MinPatientAge, types.MaxPatientAge)
	}

	s.patients[patientID] = &types.Patient{
		ID:       patientID,
		Identity: identity,
		Name:     name,
		Age:      age,
		Active:   true,
	}
	s.diseaseSets[patientID] = make(map[string]struct{})
	s.recordSets[patientID] = make(map[string]struct{})
	s.assignments[assignment{DoctorID: doctorID, PatientID: patientID}] = true

	s.emit(types.AuditRecord{
		Event:     types.EventPatientRegistered,
		Actor:     caller,
		DoctorID:  doctorID,
		PatientID: patientID,
	})
	return nil
}

// UpdatePatientDisease appends a disease label to the patient's ordered
// disease list. Requires the active-doctor rule for doctorID plus an
// assignment grant for the target patient.
func (s *Service) UpdatePatientDisease(caller types.Principal, doctorID, patientID uint64, disease string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	patient, err := s.assignedPatientMutation(caller, doctorID, patientID, "UpdatePatientDisease")
	if err != nil {
		return err
	}
	if disease == "" {
		return types.NewInvalidInputError("disease label must not be empty")
	}
	if _, ok := s.diseaseSets[patientID][disease]; ok {
		return types.NewDuplicateError("disease %q is already recorded for patient %d", disease, patientID)
	}

	patient.Diseases = append(patient.Diseases, disease)
	s.diseaseSets[patientID][disease] = struct{}{}

	s.emit(types.AuditRecord{
		Event:     types.EventDiseaseAdded,
		Actor:     caller,
		DoctorID:  doctorID,
		PatientID: patientID,
		Detail:    disease,
	})
	return nil
}

// UpdatePatientRecord appends a record content-hash to the patient's ordered
// record list. Same access shape as UpdatePatientDisease.
func (s *Service) UpdatePatientRecord(caller types.Principal, doctorID, patientID uint64, recordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	patient, err := s.assignedPatientMutation(caller, doctorID, patientID, "UpdatePatientRecord")
	if err != nil {
		return err
	}
	if recordHash == "" {
		return types.NewInvalidInputError("record hash must not be empty")
	}
	if _, ok := s.recordSets[patientID][recordHash]; ok {
		return types.NewDuplicateError("record %q is already recorded for patient %d", recordHash, patientID)
	}

	patient.RecordHashes = append(patient.RecordHashes, recordHash)
	s.recordSets[patientID][recordHash] = struct{}{}

	s.emit(types.AuditRecord{
		Event:     types.EventRecordAdded,
		Actor:     caller,
		DoctorID:  doctorID,
		PatientID: patientID,
		Detail:    recordHash,
	})
	return nil
}

// DeactivatePatient marks a patient inactive. Admin-only, terminal, and
// repeatable without additional guard.
func (s *Service) DeactivatePatient(caller types.Principal, patientID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAdmin(caller, "DeactivatePatient"); err != nil {
		return err
	}
	patient, ok := s.patients[patientID]
	if !ok {
		return types.NewNotFoundError("patient %d is not registered", patientID)
	}

	patient.Active = false

	s.emit(types.AuditRecord{
		Event:     types.EventPatientDeactivated,
		Actor:     caller,
		PatientID: patientID,
	})
	return nil
}

// ViewPatientDetails returns a copy of the patient record. Readable by the
// patient's own identity or by an assigned active doctor identified by
// doctorID.
func (s *Service) ViewPatientDetails(caller types.Principal, patientID, doctorID uint64) (*types.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	patient, ok := s.patients[patientID]
	if !ok {
		return nil, types.NewNotFoundError("patient %d is not registered", patientID)
	}
	if !s.canReadPatient(caller, patient, doctorID) {
		s.logger.Audit(string(caller), "ViewPatientDetails", false, map[string]interface{}{
			"patient_id": patientID,
			"doctor_id":  doctorID,
		})
		return nil, types.NewUnauthorizedError("caller may not read patient %d", patientID)
	}

	view := *patient
	view.Diseases = append([]string(nil), patient.Diseases...)
	view.RecordHashes = append([]string(nil), patient.RecordHashes...)
	return &view, nil
}

// assignedPatientMutation runs the shared precondition chain for doctor
// mutations on an assigned patient: active-doctor rule, patient existence,
// patient liveness, assignment grant. Returns the live patient record.
func (s *Service) assignedPatientMutation(caller types.Principal, doctorID, patientID uint64, operation string) (*types.Patient, error) {
	if _, err := s.requireActiveDoctor(caller, doctorID, operation); err != nil {
		return nil, err
	}
	patient, ok := s.patients[patientID]
	if !ok {
		return nil, types.NewNotFoundError("patient %d is not registered", patientID)
	}
	if !patient.Active {
		return nil, types.NewInactiveError("patient %d has been deactivated", patientID)
	}
	if err := s.requireAssigned(doctorID, patientID, operation); err != nil {
		return nil, err
	}
	return patient, nil
}
