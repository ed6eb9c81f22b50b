// Package legacy reads the JSON documents the browser version of the
// marketplace kept under its "equipment", "rentals" and "users" keys and
// loads them into a store.
package legacy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// flexID accepts both numeric ids (Date.now() values) and strings.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number, got %s", b)
	}
	if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
		return fmt.Errorf("id must be a whole number, got %s", n)
	}
	*f = flexID(n.String())
	return nil
}

// flexAmount accepts a whole amount either as a JSON number or as the
// display string the listing form stored ("2,500", "₹ 3,500").
type flexAmount int64

func (a *flexAmount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := parseAmount(s)
		if err != nil {
			return err
		}
		*a = flexAmount(v)
		return nil
	}

	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("amount must be a string or number, got %s", b)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) || f > math.MaxInt64 || f < math.MinInt64 {
		return fmt.Errorf("amount must be a whole number, got %s", b)
	}
	*a = flexAmount(f)
	return nil
}

func parseAmount(s string) (int64, error) {
	clean := strings.NewReplacer(",", "", "₹", "", " ", "").Replace(strings.TrimSpace(s))
	if clean == "" {
		return 0, fmt.Errorf("amount is empty")
	}
	v, err := strconv.ParseInt(clean, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return v, nil
}

type equipmentRecord struct {
	ID                flexID      `json:"id"`
	Name              string      `json:"name"`
	Description       string      `json:"description"`
	Price             *flexAmount `json:"price"`
	DailyRate         *flexAmount `json:"dailyRate"`
	Location          string      `json:"location"`
	Images            []string    `json:"images"`
	AvailableFrom     string      `json:"availableFrom"`
	AvailableTo       string      `json:"availableTo"`
	InsuranceRequired bool        `json:"insuranceRequired"`
	OwnerID           flexID      `json:"ownerId"`
	OwnerName         string      `json:"ownerName"`
}

type rentalRecord struct {
	ID                flexID      `json:"id"`
	EquipmentID       flexID      `json:"equipmentId"`
	EquipmentName     string      `json:"equipmentName"`
	EquipmentImage    string      `json:"equipmentImage"`
	StartDate         string      `json:"startDate"`
	EndDate           string      `json:"endDate"`
	TotalDays         *int32      `json:"totalDays"`
	TotalCost         *flexAmount `json:"totalCost"`
	InsuranceAccepted bool        `json:"insuranceAccepted"`
	RenterID          flexID      `json:"renterId"`
	RenterName        string      `json:"renterName"`
	OwnerID           flexID      `json:"ownerId"`
	Status            string      `json:"status"`
	CreatedAt         string      `json:"createdAt"`
}

type userRecord struct {
	ID    flexID `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type document struct {
	Equipment []json.RawMessage `json:"equipment"`
	Rentals   []json.RawMessage `json:"rentals"`
	Users     []json.RawMessage `json:"users"`
}
