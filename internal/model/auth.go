package model

type Role string

const (
	RoleGoRush Role = "gorush"
	RoleJPMC   Role = "jpmc"
	RoleMOH    Role = "moh"
)

func (r Role) Valid() bool {
	return r == RoleGoRush || r == RoleJPMC || r == RoleMOH
}

// CanUpdateGoRushStatus - only the internal logistics operator mutates the
// courier-side status.
func (r Role) CanUpdateGoRushStatus() bool {
	return r == RoleGoRush
}

// CanUpdatePharmacyStatus - partner hospital and ministry roles mutate the
// pharmacy-side status.
func (r Role) CanUpdatePharmacyStatus() bool {
	return r == RoleJPMC || r == RoleMOH
}

// TokenInfo - claims carried by a role session token.
type TokenInfo struct {
	Role Role `json:"role"`
}

type SessionDTO struct {
	Role      string `json:"role"`
	AccessKey string `json:"accessKey"`
}
