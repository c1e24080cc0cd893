package models

// NoPartnerSentinel is substituted for an absent partner id in view queries so
// that the partner branch of a predicate can never match a real row.
const NoPartnerSentinel int64 = -1

// User represents one of the two paired Telegram users.
type User struct {
	ID        int64  `json:"id" db:"user_id"`
	PartnerID *int64 `json:"partner_id" db:"partner_id"`
}

// HasPartner returns true if a partner is linked.
func (u *User) HasPartner() bool {
	return u.PartnerID != nil
}

// PartnerOrSentinel returns the partner id, or NoPartnerSentinel when no
// partner is linked.
func (u *User) PartnerOrSentinel() int64 {
	if u.PartnerID == nil {
		return NoPartnerSentinel
	}
	return *u.PartnerID
}
