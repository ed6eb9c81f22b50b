package service

import (
	"context"
	"fmt"
	"strings"

	"farmshare-backend/internal/domain"
	"farmshare-backend/internal/utils"
)

type emailNotifier struct {
	sender  EmailSender
	appName string
}

func NewEmailNotifier(sender EmailSender, appName string) Notifier {
	if appName == "" {
		appName = "FarmShare"
	}
	return &emailNotifier{sender: sender, appName: appName}
}

func (n *emailNotifier) NotifyRentalRequested(ctx context.Context, rt *domain.RentalRequest, owner *domain.User) error {
	if owner.Email == "" {
		return nil
	}
	subject := fmt.Sprintf("New rental request: %s", rt.EquipmentName)

	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", owner.Name)
	fmt.Fprintf(&b, "%s would like to rent your %s from %s to %s (%d days, %s).\n",
		rt.RenterName, rt.EquipmentName, rt.StartDate, rt.EndDate, rt.TotalDays, utils.FormatAmount(rt.TotalCost))
	if rt.InsuranceAccepted {
		b.WriteString("The renter has accepted the insurance terms.\n")
	}
	fmt.Fprintf(&b, "\nPlease approve or reject request %s.\n\nBest regards,\nThe %s Team", rt.ID, n.appName)

	return n.sender.Send(ctx, owner.Email, owner.Name, subject, b.String())
}

func (n *emailNotifier) NotifyRentalDecided(ctx context.Context, rt *domain.RentalRequest, renter *domain.User) error {
	if renter.Email == "" {
		return nil
	}
	subject := fmt.Sprintf("Rental request %s: %s", rt.Status, rt.EquipmentName)
	body := fmt.Sprintf("Hello %s,\n\nYour request to rent %s from %s to %s has been %s.\n\nBest regards,\nThe %s Team",
		renter.Name, rt.EquipmentName, rt.StartDate, rt.EndDate, rt.Status, n.appName)

	return n.sender.Send(ctx, renter.Email, renter.Name, subject, body)
}
