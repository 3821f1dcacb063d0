package registry

import (
	"github.com/careledger/registry/pkg/types"
)

// Access rules. Every public operation runs exactly one of these before
// touching state; a denial aborts the call with no writes. All helpers
// expect the service lock to be held.

// requireAdmin enforces the admin rule: caller must be the current
// administrator.
func (s *Service) requireAdmin(caller types.Principal, operation string) error {
	if caller != s.admin {
		s.logger.Audit(string(caller), operation, false, map[string]interface{}{
			"reason": "caller is not the administrator",
		})
		return types.NewUnauthorizedError("operation %s requires the administrator", operation)
	}
	return nil
}

// requireActiveDoctor enforces the doctor rule for doctorID: the doctor must
// exist (NotFound surfaces before any authorization verdict), the caller
// must be its owning identity, and the doctor must still be active.
func (s *Service) requireActiveDoctor(caller types.Principal, doctorID uint64, operation string) (*types.Doctor, error) {
	doctor, ok := s.doctors[doctorID]
	if !ok {
		return nil, types.NewNotFoundError("doctor %d is not registered", doctorID)
	}
	if doctor.Identity != caller || !doctor.Active {
		s.logger.Audit(string(caller), operation, false, map[string]interface{}{
			"reason":    "caller fails the active-doctor rule",
			"doctor_id": doctorID,
		})
		return nil, types.NewUnauthorizedError("caller is not doctor %d or the doctor is inactive", doctorID)
	}
	return doctor, nil
}

// requireAssigned enforces the assignment grant between a doctor and the
// target patient.
func (s *Service) requireAssigned(doctorID, patientID uint64, operation string) error {
	if !s.assignments[assignment{DoctorID: doctorID, PatientID: patientID}] {
		s.logger.Audit("", operation, false, map[string]interface{}{
			"reason":     "doctor is not assigned to patient",
			"doctor_id":  doctorID,
			"patient_id": patientID,
		})
		return types.NewUnauthorizedError("doctor %d is not assigned to patient %d", doctorID, patientID)
	}
	return nil
}

// canReadPatient evaluates the patient-or-assigned-doctor rule: the caller
// is the patient's own identity, or the caller is the owning identity of an
// active doctor holding a grant for the patient.
func (s *Service) canReadPatient(caller types.Principal, patient *types.Patient, doctorID uint64) bool {
	if caller == patient.Identity {
		return true
	}
	doctor, ok := s.doctors[doctorID]
	if !ok {
		return false
	}
	if doctor.Identity != caller || !doctor.Active {
		return false
	}
	return s.assignments[assignment{DoctorID: doctorID, PatientID: patient.ID}]
}
