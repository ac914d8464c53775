package models

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionType string

const (
	SubscriptionBasic   SubscriptionType = "basic"
	SubscriptionPremium SubscriptionType = "premium"
)

// UserSubscription records a purchased subscription to one auction's
// details. Payment processing itself happens outside this system; only the
// external payment id and the amount are kept.
type UserSubscription struct {
	UUID             uuid.UUID        `json:"uuid"`
	UserID           uuid.UUID        `json:"user_id"`
	AuctionID        string           `json:"auction_id"`
	SubscriptionType SubscriptionType `json:"subscription_type"`
	PurchaseDate     time.Time        `json:"purchase_date"`
	ExpiresAt        *time.Time       `json:"expires_at,omitempty"`
	IsActive         bool             `json:"is_active"`
	PaymentID        string           `json:"payment_id,omitempty"`
	AmountPaid       string           `json:"amount_paid,omitempty"`
}

// PurchaseSubscriptionRequest is the payload for the purchase endpoint.
type PurchaseSubscriptionRequest struct {
	AuctionID        string           `json:"auction_id"        validate:"required"`
	SubscriptionType SubscriptionType `json:"subscription_type" validate:"required,oneof=basic premium"`
	PaymentMethod    string           `json:"payment_method"    validate:"required"`
}

type PurchaseSubscriptionResponse struct {
	SubscriptionID uuid.UUID `json:"subscription_id"`
	PaymentID      string    `json:"payment_id,omitempty"`
	Status         string    `json:"status"`
	AmountCHF      string    `json:"amount_chf"`
	Message        string    `json:"message"`
}

// PriceTable is the subscription price list exposed to clients.
type PriceTable struct {
	Currency   string `json:"currency"`
	BasicCHF   string `json:"basic"`
	PremiumCHF string `json:"premium"`
}
