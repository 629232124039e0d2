package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/pkg/auth"
	"github.com/shashiranjanraj/vastra/pkg/faults"
)

func TestUsersQueryIsGuarded(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(repositories.NewUserRepository(db))

	regular := createUser(t, db, "regular@example.com")
	admin := createUser(t, db, "admin@example.com", auth.PermUser, auth.PermAdmin)
	permEditor := createUser(t, db, "editor@example.com", auth.PermUser, auth.PermPermissionUpdate)

	_, err := svc.Users(nil)
	assert.True(t, faults.Is(err, faults.AuthenticationRequired))

	_, err = svc.Users(regular)
	assert.True(t, faults.Is(err, faults.AuthorizationDenied))

	all, err := svc.Users(admin)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	all, err = svc.Users(permEditor)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUpdatePermissionsGuardAndWhitelist(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(repositories.NewUserRepository(db))

	regular := createUser(t, db, "regular@example.com")
	admin := createUser(t, db, "admin@example.com", auth.PermUser, auth.PermAdmin)
	target := createUser(t, db, "target@example.com")

	_, err := svc.UpdatePermissions(nil, target.ID, []string{auth.PermAdmin})
	assert.True(t, faults.Is(err, faults.AuthenticationRequired))

	_, err = svc.UpdatePermissions(regular, target.ID, []string{auth.PermAdmin})
	assert.True(t, faults.Is(err, faults.AuthorizationDenied))

	// Unknown tags reject the whole update.
	_, err = svc.UpdatePermissions(admin, target.ID, []string{auth.PermUser, "SUPERUSER"})
	assert.True(t, faults.Is(err, faults.Validation))

	updated, err := svc.UpdatePermissions(admin, target.ID, []string{auth.PermUser, auth.PermItemDelete})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{auth.PermUser, auth.PermItemDelete}, updated.Permissions)
}

func TestUpdatePermissionsRejectsEmptySet(t *testing.T) {
	db := newTestDB(t)
	users := repositories.NewUserRepository(db)
	svc := NewUserService(users)

	admin := createUser(t, db, "admin@example.com", auth.PermUser, auth.PermAdmin)
	target := createUser(t, db, "target@example.com")

	// Neither a nil nor an empty list may wipe the set.
	_, err := svc.UpdatePermissions(admin, target.ID, nil)
	assert.True(t, faults.Is(err, faults.Validation))

	_, err = svc.UpdatePermissions(admin, target.ID, []string{})
	assert.True(t, faults.Is(err, faults.Validation))

	kept, err := users.FindByID(target.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{auth.PermUser}, kept.Permissions)
}

func TestUpdatePermissionsUnknownTarget(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(repositories.NewUserRepository(db))
	admin := createUser(t, db, "admin@example.com", auth.PermUser, auth.PermAdmin)

	_, err := svc.UpdatePermissions(admin, 9999, []string{auth.PermUser})
	assert.True(t, faults.Is(err, faults.NotFound))
}
