package legacy

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"farmshare-backend/internal/domain"
	"farmshare-backend/internal/utils"
)

// Snapshot is a decoded and validated legacy document.
type Snapshot struct {
	Users     []domain.User
	Equipment []domain.Equipment
	Rentals   []domain.RentalRequest
}

// Decode reads a legacy document. now stamps records that carry no
// timestamps of their own. Every failure is a corrupt-state error naming the
// collection and index of the offending record.
func Decode(r io.Reader, now time.Time) (*Snapshot, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, domain.CorruptState("snapshot is not a valid document: %v", err)
	}

	snap := &Snapshot{}
	for i, raw := range doc.Users {
		u, err := decodeUser(raw)
		if err != nil {
			return nil, domain.CorruptState("users[%d]: %v", i, err)
		}
		snap.Users = append(snap.Users, u)
	}

	rates := make(map[string]int64, len(doc.Equipment))
	for i, raw := range doc.Equipment {
		e, err := decodeEquipment(raw, now)
		if err != nil {
			return nil, domain.CorruptState("equipment[%d]: %v", i, err)
		}
		rates[e.ID] = e.DailyRate
		snap.Equipment = append(snap.Equipment, e)
	}

	for i, raw := range doc.Rentals {
		rt, err := decodeRental(raw, now, rates)
		if err != nil {
			return nil, domain.CorruptState("rentals[%d]: %v", i, err)
		}
		snap.Rentals = append(snap.Rentals, rt)
	}
	return snap, nil
}

func decodeUser(raw json.RawMessage) (domain.User, error) {
	var rec userRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.User{}, err
	}
	if rec.ID == "" {
		return domain.User{}, fmt.Errorf("id is required")
	}
	return domain.User{ID: string(rec.ID), Name: strings.TrimSpace(rec.Name), Email: strings.TrimSpace(rec.Email)}, nil
}

func decodeEquipment(raw json.RawMessage, now time.Time) (domain.Equipment, error) {
	var rec equipmentRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.Equipment{}, err
	}
	if rec.ID == "" {
		return domain.Equipment{}, fmt.Errorf("id is required")
	}
	if rec.OwnerID == "" {
		return domain.Equipment{}, fmt.Errorf("equipment %s has no owner", rec.ID)
	}

	rate := rec.DailyRate
	if rate == nil {
		rate = rec.Price
	}
	if rate == nil {
		return domain.Equipment{}, fmt.Errorf("equipment %s has no price", rec.ID)
	}
	if *rate < 0 {
		return domain.Equipment{}, fmt.Errorf("equipment %s has negative price %d", rec.ID, *rate)
	}
	if int64(*rate) > domain.MaxDailyRate {
		return domain.Equipment{}, fmt.Errorf("equipment %s price %d exceeds %d", rec.ID, *rate, domain.MaxDailyRate)
	}

	from, to, err := utils.ParseRange(rec.AvailableFrom, rec.AvailableTo)
	if err != nil {
		return domain.Equipment{}, fmt.Errorf("equipment %s availability: %v", rec.ID, err)
	}

	images := rec.Images
	if images == nil {
		images = []string{}
	}
	return domain.Equipment{
		ID:                string(rec.ID),
		Name:              strings.TrimSpace(rec.Name),
		Description:       strings.TrimSpace(rec.Description),
		DailyRate:         int64(*rate),
		Location:          strings.TrimSpace(rec.Location),
		Images:            images,
		AvailableFrom:     utils.FormatDate(from),
		AvailableTo:       utils.FormatDate(to),
		InsuranceRequired: rec.InsuranceRequired,
		OwnerID:           string(rec.OwnerID),
		OwnerName:         rec.OwnerName,
		CreatedOn:         now,
		UpdatedOn:         now,
	}, nil
}

// decodeRental validates a stored request. Requests written while the
// listing form lacked a numeric rate have a null totalCost; it is rebuilt
// from the equipment in the same document.
func decodeRental(raw json.RawMessage, now time.Time, rates map[string]int64) (domain.RentalRequest, error) {
	var rec rentalRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.RentalRequest{}, err
	}
	if rec.ID == "" || rec.EquipmentID == "" || rec.RenterID == "" || rec.OwnerID == "" {
		return domain.RentalRequest{}, fmt.Errorf("id, equipmentId, renterId and ownerId are required")
	}

	status := domain.RentalStatus(rec.Status)
	if !status.Valid() {
		return domain.RentalRequest{}, fmt.Errorf("request %s has unknown status %q", rec.ID, rec.Status)
	}

	start, end, err := utils.ParseRange(rec.StartDate, rec.EndDate)
	if err != nil {
		return domain.RentalRequest{}, fmt.Errorf("request %s dates: %v", rec.ID, err)
	}

	cost, err := utils.CalculateRental(start, end, 0)
	if err != nil {
		return domain.RentalRequest{}, fmt.Errorf("request %s dates: %v", rec.ID, err)
	}
	if rec.TotalDays != nil && *rec.TotalDays >= 1 {
		cost.TotalDays = *rec.TotalDays
	}
	if rec.TotalCost != nil {
		cost.TotalCost = int64(*rec.TotalCost)
	} else {
		rate, ok := rates[string(rec.EquipmentID)]
		if !ok {
			return domain.RentalRequest{}, fmt.Errorf("request %s has no total cost and equipment %s is unknown", rec.ID, rec.EquipmentID)
		}
		// int32 days at a capped rate fits in int64
		cost.TotalCost = int64(cost.TotalDays) * rate
	}
	if cost.TotalCost < 0 {
		return domain.RentalRequest{}, fmt.Errorf("request %s has negative total cost", rec.ID)
	}

	createdAt := now
	if rec.CreatedAt != "" {
		createdAt, err = time.Parse(time.RFC3339Nano, rec.CreatedAt)
		if err != nil {
			return domain.RentalRequest{}, fmt.Errorf("request %s has invalid createdAt %q", rec.ID, rec.CreatedAt)
		}
		createdAt = createdAt.UTC()
	}

	return domain.RentalRequest{
		ID:                string(rec.ID),
		EquipmentID:       string(rec.EquipmentID),
		EquipmentName:     rec.EquipmentName,
		EquipmentImage:    rec.EquipmentImage,
		RenterID:          string(rec.RenterID),
		RenterName:        rec.RenterName,
		OwnerID:           string(rec.OwnerID),
		StartDate:         utils.FormatDate(start),
		EndDate:           utils.FormatDate(end),
		TotalDays:         cost.TotalDays,
		TotalCost:         cost.TotalCost,
		InsuranceAccepted: rec.InsuranceAccepted,
		Status:            status,
		CreatedAt:         createdAt,
	}, nil
}
