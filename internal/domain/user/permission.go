package user

// CanDecide reports whether an actor may approve or reject a leave request.
// HR, admin and superusers can decide any request; a manager only decides
// requests of employees they are the designated approver for.
func CanDecide(actorRole Role, isSuperuser bool, isDesignatedApprover bool) bool {
	if isSuperuser {
		return true
	}
	switch actorRole {
	case RoleHR, RoleAdmin:
		return true
	case RoleManager:
		return isDesignatedApprover
	default:
		return false
	}
}

// IsHR reports whether the actor may perform HR-only administration
// (departments, leave types, entitlements, user management).
func IsHR(actorRole Role, isSuperuser bool) bool {
	return isSuperuser || actorRole == RoleHR || actorRole == RoleAdmin
}

// IsApprover reports whether the actor may see the approver views at all.
func IsApprover(actorRole Role, isSuperuser bool) bool {
	return isSuperuser || actorRole == RoleManager || actorRole == RoleHR || actorRole == RoleAdmin
}
