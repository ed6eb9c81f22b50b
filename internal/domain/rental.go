package domain

import "time"

type RentalStatus string

const (
	RentalStatusPending  RentalStatus = "pending"
	RentalStatusApproved RentalStatus = "approved"
	RentalStatusRejected RentalStatus = "rejected"
)

// allowed status transitions; approved and rejected are terminal
var rentalTransitions = map[RentalStatus]map[RentalStatus]bool{
	RentalStatusPending:  {RentalStatusApproved: true, RentalStatusRejected: true},
	RentalStatusApproved: {},
	RentalStatusRejected: {},
}

// Valid reports whether s is one of the known statuses.
func (s RentalStatus) Valid() bool {
	_, ok := rentalTransitions[s]
	return ok
}

// IsDecision reports whether s is a status an owner may decide on.
func (s RentalStatus) IsDecision() bool {
	return s == RentalStatusApproved || s == RentalStatusRejected
}

func (s RentalStatus) CanTransition(to RentalStatus) bool {
	return rentalTransitions[s][to]
}

// RentalRole selects which side of a request a listing is filtered on.
type RentalRole string

const (
	RentalRoleRequester RentalRole = "requester"
	RentalRoleOwner     RentalRole = "owner"
)

func ParseRentalRole(s string) (RentalRole, error) {
	switch RentalRole(s) {
	case RentalRoleRequester, RentalRoleOwner:
		return RentalRole(s), nil
	default:
		return "", NewError(KindInvalidRole, "unknown role %q: must be requester or owner", s)
	}
}

type RentalRequest struct {
	ID          string `json:"id"`
	EquipmentID string `json:"equipment_id"`
	// Snapshot of the equipment at creation time, for display.
	EquipmentName     string       `json:"equipment_name"`
	EquipmentImage    string       `json:"equipment_image,omitempty"`
	RenterID          string       `json:"renter_id"`
	RenterName        string       `json:"renter_name"`
	OwnerID           string       `json:"owner_id"`
	StartDate         string       `json:"start_date"`
	EndDate           string       `json:"end_date"`
	TotalDays         int32        `json:"total_days"`
	TotalCost         int64        `json:"total_cost"`
	InsuranceAccepted bool         `json:"insurance_accepted"`
	Status            RentalStatus `json:"status"`
	CreatedAt         time.Time    `json:"created_at"`
	DecidedAt         *time.Time   `json:"decided_at,omitempty"`
}

// RentalConfirmation is what the requester sees after a request is stored.
type RentalConfirmation struct {
	Request       *RentalRequest `json:"request"`
	FormattedCost string         `json:"formatted_cost"`
	Message       string         `json:"message"`
}
