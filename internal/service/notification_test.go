package service

import (
	"context"
	"strings"
	"testing"

	"farmshare-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleRequest() *domain.RentalRequest {
	return &domain.RentalRequest{
		ID:                "01HQ7Z8M1X2Y3Z4A5B6C7D8E9F",
		EquipmentName:     "John Deere Tractor",
		RenterID:          renter.ID,
		RenterName:        renter.Name,
		OwnerID:           owner.ID,
		StartDate:         "2024-03-10",
		EndDate:           "2024-03-13",
		TotalDays:         3,
		TotalCost:         7500,
		InsuranceAccepted: true,
		Status:            domain.RentalStatusPending,
	}
}

func TestEmailNotifier_NotifyRentalRequested(t *testing.T) {
	ctx := context.Background()
	sender := new(MockEmailSender)
	n := NewEmailNotifier(sender, "")

	var body string
	sender.On("Send", mock.Anything, owner.Email, owner.Name, "New rental request: John Deere Tractor", mock.Anything).
		Run(func(args mock.Arguments) { body = args.String(4) }).
		Return(nil)

	require.NoError(t, n.NotifyRentalRequested(ctx, sampleRequest(), &owner))
	assert.Contains(t, body, "Jane Smith would like to rent your John Deere Tractor from 2024-03-10 to 2024-03-13 (3 days, ₹7,500)")
	assert.Contains(t, body, "insurance")
	assert.Contains(t, body, "The FarmShare Team")
	sender.AssertExpectations(t)
}

func TestEmailNotifier_NotifyRentalDecided(t *testing.T) {
	ctx := context.Background()
	sender := new(MockEmailSender)
	n := NewEmailNotifier(sender, "Krishi Rent")

	rt := sampleRequest()
	rt.Status = domain.RentalStatusApproved
	sender.On("Send", mock.Anything, renter.Email, renter.Name, "Rental request approved: John Deere Tractor",
		mock.MatchedBy(func(body string) bool {
			return strings.Contains(body, "has been approved") && strings.Contains(body, "The Krishi Rent Team")
		})).Return(nil)

	require.NoError(t, n.NotifyRentalDecided(ctx, rt, &renter))
	sender.AssertExpectations(t)

	// users without an address are skipped
	require.NoError(t, n.NotifyRentalDecided(ctx, rt, &domain.User{ID: "9", Name: "No Mail"}))
	sender.AssertNumberOfCalls(t, "Send", 1)
}
