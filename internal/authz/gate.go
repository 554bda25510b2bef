package authz

import "github.com/cuemby/workflow-engine/internal/dberrors"

// RequireAdmin fails with ErrAuthorization unless caller holds the admin
// role, for definition-catalog writes and the admin-only catalog reads
// (every catalog read except ProcessTypes) (§4.6).
func RequireAdmin(caller Caller) error {
	if !caller.IsAdmin() {
		return dberrors.Wrapf(dberrors.ErrAuthorization, "authz: admin role required")
	}
	return nil
}

// RequireOwnerOrAdmin fails with ErrAuthorization unless caller is an
// admin or ownerUsrid matches caller.Usrid, for Case/Step/ProcessData
// access restricted to the owning user (§4.6, §8 P7).
func RequireOwnerOrAdmin(caller Caller, ownerUsrid string) error {
	if caller.IsAdmin() {
		return nil
	}
	if caller.Usrid == ownerUsrid {
		return nil
	}
	return dberrors.Wrapf(dberrors.ErrAuthorization, "authz: caller does not own this resource")
}
