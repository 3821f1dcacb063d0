package registry

import (
	"github.com/careledger/registry/pkg/types"
)

// RegisterDoctor creates a new doctor record owned by the given identity.
// Admin-only. The id must be unoccupied and every mandatory field non-empty.
func (s *Service) RegisterDoctor(caller types.Principal, id uint64, identity types.Principal, details types.DoctorDetails, certificationHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAdmin(caller, "RegisterDoctor"); err != nil {
		return err
	}
	if _, ok := s.doctors[id]; ok {
		return types.NewAlreadyExistsError("doctor %d is already registered", id)
	}
	if identity == "" {
		return types.NewInvalidInputError("doctor identity must not be empty")
	}
	if err := validateDoctorDetails(details); err != nil {
		return err
	}
	if certificationHash == "" {
		return types.NewInvalidInputError("certification hash must not be empty")
	}

	s.doctors[id] = &types.Doctor{
		ID:                id,
		Identity:          identity,
		Name:              details.Name,
		Qualification:     details.Qualification,
		Workplace:         details.Workplace,
		CertificationHash: certificationHash,
		Active:            true,
	}

	s.emit(types.AuditRecord{
		Event:    types.EventDoctorRegistered,
		Actor:    caller,
		DoctorID: id,
		Detail:   certificationHash,
	})
	return nil
}

// UpdateDoctorDetails overwrites the mutable doctor fields. Admin-only.
// The id, owning identity and active flag are never touched.
func (s *Service) UpdateDoctorDetails(caller types.Principal, id uint64, details types.DoctorDetails) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAdmin(caller, "UpdateDoctorDetails"); err != nil {
		return err
	}
	doctor, ok := s.doctors[id]
	if !ok {
		return types.NewNotFoundError("doctor %d is not registered", id)
	}
	if err := validateDoctorDetails(details); err != nil {
		return err
	}

	doctor.Name = details.Name
	doctor.Qualification = details.Qualification
	doctor.Workplace = details.Workplace

	s.emit(types.AuditRecord{
		Event:    types.EventDoctorUpdated,
		Actor:    caller,
		DoctorID: id,
	})
	return nil
}

// UpdateDoctorCertification replaces the stored certification content-hash.
// Admin-only. Submitting the hash already on record is a hard precondition
// failure, not a silent skip.
func (s *Service) UpdateDoctorCertification(caller types.Principal, id uint64, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAdmin(caller, "UpdateDoctorCertification"); err != nil {
		return err
	}
	doctor, ok := s.doctors[id]
	if !ok {
		return types.NewNotFoundError("doctor %d is not registered", id)
	}
	if hash == "" {
		return types.NewInvalidInputError("certification hash must not be empty")
	}
	if hash == doctor.CertificationHash {
		return types.NewNoOpError("certification hash for doctor %d is unchanged", id)
	}

	doctor.CertificationHash = hash

	s.emit(types.AuditRecord{
		Event:    types.EventDoctorCertificationUpdated,
		Actor:    caller,
		DoctorID: id,
		Detail:   hash,
	})
	return nil
}

// DeactivateDoctor marks a doctor inactive. Admin-only, terminal, and
// repeatable: a second call on an already-inactive doctor succeeds again.
func (s *Service) DeactivateDoctor(caller types.Principal, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAdmin(caller, "DeactivateDoctor"); err != nil {
		return err
	}
	doctor, ok := s.doctors[id]
	if !ok {
		return types.NewNotFoundError("doctor %d is not registered", id)
	}

	doctor.Active = false

	s.emit(types.AuditRecord{
		Event:    types.EventDoctorDeactivated,
		Actor:    caller,
		DoctorID: id,
	})
	return nil
}

// ViewDoctorByID returns a copy of the doctor record. Unrestricted once
// existence is confirmed.
func (s *Service) ViewDoctorByID(caller types.Principal, id uint64) (*types.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doctor, ok := s.doctors[id]
	if !ok {
		return nil, types.NewNotFoundError("doctor %d is not registered", id)
	}

	view := *doctor
	return &view, nil
}

func validateDoctorDetails(details types.DoctorDetails) error {
	if details.Name == "" {
		return types.NewInvalidInputError("doctor name must not be empty")
	}
	if details.Qualification == "" {
		return types.NewInvalidInputError("doctor qualification must not be empty")
	}
	if details.Workplace == "" {
		return types.NewInvalidInputError("doctor workplace must not be empty")
	}
	return nil
}
