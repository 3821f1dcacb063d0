package registry

import (
	"github.com/careledger/registry/pkg/types"
)

// PrescribeMedicine appends a medicine id to the patient's prescription
// sequence. Requires the active-doctor rule for doctorID, an assignment
// grant for the patient, and an existing, still-active medicine. Duplicate
// prescriptions are allowed; order is chronological call order.
//
// Deactivating a medicine later never invalidates entries already in the
// sequence.
func (s *Service) PrescribeMedicine(caller types.Principal, doctorID, patientID, medicineID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.assignedPatientMutation(caller, doctorID, patientID, "PrescribeMedicine"); err != nil {
		return err
	}
	medicine, ok := s.medicines[medicineID]
	if !ok {
		return types.NewNotFoundError("medicine %d is not registered", medicineID)
	}
	if !medicine.Active {
		return types.NewInactiveError("medicine %d has been deactivated", medicineID)
	}

	s.prescriptions[patientID] = append(s.prescriptions[patientID], medicineID)

	s.emit(types.AuditRecord{
		Event:      types.EventPrescriptionAdded,
		Actor:      caller,
		DoctorID:   doctorID,
		PatientID:  patientID,
		MedicineID: medicineID,
	})
	return nil
}

// ViewPrescribedMedicines returns the patient's full prescription sequence
// in chronological order. Readable by the patient's own identity or by an
// assigned active doctor identified by doctorID.
func (s *Service) ViewPrescribedMedicines(caller types.Principal, patientID, doctorID uint64) ([]uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	patient, ok := s.patients[patientID]
	if !ok {
		return nil, types.NewNotFoundError("patient %d is not registered", patientID)
	}
	if !s.canReadPatient(caller, patient, doctorID) {
		s.logger.Audit(string(caller), "ViewPrescribedMedicines", false, map[string]interface{}{
			"patient_id": patientID,
			"doctor_id":  doctorID,
		})
		return nil, types.NewUnauthorizedError("caller may not read prescriptions for patient %d", patientID)
	}

	return append([]uint64(nil), s.prescriptions[patientID]...), nil
}
