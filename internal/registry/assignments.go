package registry

import (
	"github.com/careledger/registry/pkg/types"
)

// AssignDoctorToPatient grants a doctor access to a patient. Admin-only;
// both entities must exist. Granting an already-granted pair is a no-op
// success and emits no further audit record.
func (s *Service) AssignDoctorToPatient(caller types.Principal, doctorID, patientID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAdmin(caller, "AssignDoctorToPatient"); err != nil {
		return err
	}
	if _, ok := s.doctors[doctorID]; !ok {
		return types.NewNotFoundError("doctor %d is not registered", doctorID)
	}
	if _, ok := s.patients[patientID]; !ok {
		return types.NewNotFoundError("patient %d is not registered", patientID)
	}

	key := assignment{DoctorID: doctorID, PatientID: patientID}
	if s.assignments[key] {
		return nil
	}
	s.assignments[key] = true

	s.emit(types.AuditRecord{
		Event:     types.EventDoctorAssigned,
		Actor:     caller,
		DoctorID:  doctorID,
		PatientID: patientID,
	})
	return nil
}

// IsGranted reports whether the doctor holds an access grant for the
// patient. Unknown pairs default to false.
func (s *Service) IsGranted(doctorID, patientID uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assignments[assignment{DoctorID: doctorID, PatientID: patientID}]
}
