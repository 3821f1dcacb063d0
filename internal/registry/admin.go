package registry

import (
	"github.com/careledger/registry/pkg/types"
)

// TransferAdmin replaces the administrator principal. Only the current
// administrator may call it, and the new principal must be a non-empty
// identity different from the current one.
func (s *Service) TransferAdmin(caller, newAdmin types.Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAdmin(caller, "TransferAdmin"); err != nil {
		return err
	}
	if newAdmin == "" {
		return types.NewInvalidInputError("new admin principal must not be empty")
	}
	if newAdmin == s.admin {
		return types.NewInvalidInputError("new admin principal must differ from the current administrator")
	}

	previous := s.admin
	s.admin = newAdmin

	s.emit(types.AuditRecord{
		Event:  types.EventAdminChanged,
		Actor:  caller,
		Detail: string(previous) + " -> " + string(newAdmin),
	})
	return nil
}
