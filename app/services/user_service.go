package services

import (
	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/pkg/auth"
	"github.com/shashiranjanraj/vastra/pkg/faults"
)

// UserService covers account queries and permission management.
type UserService struct {
	users *repositories.UserRepository
}

func NewUserService(users *repositories.UserRepository) *UserService {
	return &UserService{users: users}
}

// Users lists every account. Restricted to holders of ADMIN or
// PERMISSIONUPDATE.
func (s *UserService) Users(viewer *models.User) ([]models.User, error) {
	if viewer == nil {
		return nil, faults.New(faults.AuthenticationRequired, "you must be signed in to do that")
	}
	if !auth.Authorize(viewer.Permissions, auth.PermAdmin, auth.PermPermissionUpdate) {
		return nil, faults.New(faults.AuthorizationDenied, "you don't have permission to do that")
	}
	users, err := s.users.All()
	if err != nil {
		return nil, faults.Wrap(faults.TransientStore, "could not load users", err)
	}
	return users, nil
}

// UpdatePermissions replaces a user's permission set. The caller needs
// ADMIN or PERMISSIONUPDATE, every tag must come from the known
// vocabulary, and the new set must be non-empty; unknown tags or an
// empty set reject the whole update.
func (s *UserService) UpdatePermissions(viewer *models.User, targetID uint, permissions []string) (*models.User, error) {
	if viewer == nil {
		return nil, faults.New(faults.AuthenticationRequired, "you must be signed in to do that")
	}
	if !auth.Authorize(viewer.Permissions, auth.PermAdmin, auth.PermPermissionUpdate) {
		return nil, faults.New(faults.AuthorizationDenied, "you don't have permission to do that")
	}

	if len(permissions) == 0 {
		return nil, faults.New(faults.Validation, "a user needs at least one permission")
	}
	for _, tag := range permissions {
		if !auth.KnownPermission(tag) {
			return nil, faults.Newf(faults.Validation, "unknown permission %q", tag)
		}
	}

	if _, err := s.users.FindByID(targetID); err != nil {
		if isNotFound(err) {
			return nil, faults.New(faults.NotFound, "user not found")
		}
		return nil, faults.Wrap(faults.TransientStore, "could not update permissions", err)
	}

	if err := s.users.UpdatePermissions(targetID, permissions); err != nil {
		return nil, faults.Wrap(faults.TransientStore, "could not update permissions", err)
	}
	return s.users.FindByID(targetID)
}
