package auth

// Permission tags are opaque capability labels attached to users.
// The set is open-ended; these are the tags the store ships with.
const (
	PermUser             = "USER"
	PermAdmin            = "ADMIN"
	PermItemDelete       = "ITEMDELETE"
	PermPermissionUpdate = "PERMISSIONUPDATE"
)

// KnownPermissions is the whitelist accepted by the update-permissions
// mutation. Unknown tags are rejected rather than stored.
var KnownPermissions = []string{PermUser, PermAdmin, PermItemDelete, PermPermissionUpdate}

// Authorize reports whether a holder of the given permission set may
// perform an operation requiring any of the required tags (ANY-of match).
// An empty holder set always denies, which covers anonymous callers.
// Pure: no side effects, no store access.
func Authorize(held []string, required ...string) bool {
	if len(held) == 0 || len(required) == 0 {
		return false
	}
	want := make(map[string]struct{}, len(required))
	for _, r := range required {
		want[r] = struct{}{}
	}
	for _, h := range held {
		if _, ok := want[h]; ok {
			return true
		}
	}
	return false
}

// KnownPermission reports whether tag is in the shipped vocabulary.
func KnownPermission(tag string) bool {
	for _, p := range KnownPermissions {
		if p == tag {
			return true
		}
	}
	return false
}
