package registry

import (
	"github.com/careledger/registry/pkg/types"
)

// AddMedicine creates a new medicine record. Admin-only. The id must be
// unoccupied, every label non-empty and the price strictly positive.
func (s *Service) AddMedicine(caller types.Principal, id uint64, details types.MedicineDetails) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAdmin(caller, "AddMedicine"); err != nil {
		return err
	}
	if _, ok := s.medicines[id]; ok {
		return types.NewAlreadyExistsError("medicine %d is already registered", id)
	}
	if err := validateMedicineDetails(details); err != nil {
		return err
	}

	s.medicines[id] = &types.Medicine{
		ID:     id,
		Name:   details.Name,
		Expiry: details.Expiry,
		Dosage: details.Dosage,
		Price:  details.Price,
		Active: true,
	}

	s.emit(types.AuditRecord{
		Event:      types.EventMedicineAdded,
		Actor:      caller,
		MedicineID: id,
	})
	return nil
}

// UpdateMedicine overwrites the mutable medicine fields. Admin-only.
func (s *Service) UpdateMedicine(caller types.Principal, id uint64, details types.MedicineDetails) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAdmin(caller, "UpdateMedicine"); err != nil {
		return err
	}
	medicine, ok := s.medicines[id]
	if !ok {
		return types.NewNotFoundError("medicine %d is not registered", id)
	}
	if err := validateMedicineDetails(details); err != nil {
		return err
	}

	medicine.Name = details.Name
	medicine.Expiry = details.Expiry
	medicine.Dosage = details.Dosage
	medicine.Price = details.Price

	s.emit(types.AuditRecord{
		Event:      types.EventMedicineUpdated,
		Actor:      caller,
		MedicineID: id,
	})
	return nil
}

// DeactivateMedicine marks a medicine inactive. Admin-only, terminal, and
// repeatable. Past prescriptions referencing the medicine stay valid.
func (s *Service) DeactivateMedicine(caller types.Principal, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAdmin(caller, "DeactivateMedicine"); err != nil {
		return err
	}
	medicine, ok := s.medicines[id]
	if !ok {
		return types.NewNotFoundError("medicine %d is not registered", id)
	}

	medicine.Active = false

	s.emit(types.AuditRecord{
		Event:      types.EventMedicineDeactivated,
		Actor:      caller,
		MedicineID: id,
	})
	return nil
}

// ViewMedicine returns a copy of the medicine record. Unrestricted once
// existence is confirmed.
func (s *Service) ViewMedicine(caller types.Principal, id uint64) (*types.Medicine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	medicine, ok := s.medicines[id]
	if !ok {
		return nil, types.NewNotFoundError("medicine %d is not registered", id)
	}

	view := *medicine
	return &view, nil
}

func validateMedicineDetails(details types.MedicineDetails) error {
	if details.Name == "" {
		return types.NewInvalidInputError("medicine name must not be empty")
	}
	if details.Expiry == "" {
		return types.NewInvalidInputError("medicine expiry must not be empty")
	}
	if details.Dosage == "" {
		return types.NewInvalidInputError("medicine dosage must not be empty")
	}
	if details.Price <= 0 {
		return types.NewInvalidInputError("medicine price must be positive, got %d", details.Price)
	}
	return nil
}
