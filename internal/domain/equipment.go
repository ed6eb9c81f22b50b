package domain

import "time"

// MaxDailyRate bounds DailyRate so that pricing any valid date range fits in
// an int64.
const MaxDailyRate int64 = 10_000_000

type Equipment struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// DailyRate is in whole currency units.
	DailyRate         int64     `json:"daily_rate"`
	Location          string    `json:"location"`
	Images            []string  `json:"images"`
	AvailableFrom     string    `json:"available_from"`
	AvailableTo       string    `json:"available_to"`
	InsuranceRequired bool      `json:"insurance_required"`
	OwnerID           string    `json:"owner_id"`
	OwnerName         string    `json:"owner_name"`
	CreatedOn         time.Time `json:"created_on"`
	UpdatedOn         time.Time `json:"updated_on"`
}

// PrimaryImage returns the first image reference, or "" when there is none.
func (e *Equipment) PrimaryImage() string {
	if len(e.Images) == 0 {
		return ""
	}
	return e.Images[0]
}

// EquipmentInput carries the owner-editable fields of a listing.
type EquipmentInput struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	DailyRate         int64    `json:"daily_rate"`
	Location          string   `json:"location"`
	Images            []string `json:"images"`
	AvailableFrom     string   `json:"available_from"`
	AvailableTo       string   `json:"available_to"`
	InsuranceRequired bool     `json:"insurance_required"`
}
