package domain

// Identity is the authenticated caller as established at the trust boundary:
// either decoded from the gateway's X-User header or from a verified bearer
// token. Roles are a snapshot taken when the token was issued.
type Identity struct {
	SubjectID string   `json:"id"`
	Roles     []string `json:"roles"`
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	for _, r := range i.Roles {
		if r == RoleAdmin {
			return true
		}
	}
	return false
}

// CanAccess implements the owner-or-admin rule for a resource owned by ownerID.
func (i Identity) CanAccess(ownerID string) bool {
	return i.IsAdmin() || i.SubjectID == ownerID
}
