package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestSubscriptionIsActive(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		sub      Subscription
		expected bool
	}{
		{"active in window", Subscription{Status: SubscriptionStatusActive, EndDate: timePtr(now.Add(time.Hour))}, true},
		{"active past end", Subscription{Status: SubscriptionStatusActive, EndDate: timePtr(now.Add(-time.Hour))}, false},
		{"active ending exactly now", Subscription{Status: SubscriptionStatusActive, EndDate: timePtr(now)}, false},
		{"active without end date", Subscription{Status: SubscriptionStatusActive}, false},
		{"pending", Subscription{Status: SubscriptionStatusPending, EndDate: timePtr(now.Add(time.Hour))}, false},
		{"cancelled before end", Subscription{Status: SubscriptionStatusCancelled, EndDate: timePtr(now.Add(time.Hour))}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.sub.IsActive(now))
		})
	}
}

func TestSubscriptionDaysRemaining(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	sub := Subscription{Status: SubscriptionStatusActive, EndDate: timePtr(now.Add(30 * 24 * time.Hour))}
	assert.Equal(t, 30, sub.DaysRemaining(now))

	sub.EndDate = timePtr(now.Add(36 * time.Hour))
	assert.Equal(t, 1, sub.DaysRemaining(now))

	sub.EndDate = timePtr(now.Add(6 * time.Hour))
	assert.Equal(t, 0, sub.DaysRemaining(now))

	sub.Status = SubscriptionStatusExpired
	sub.EndDate = timePtr(now.Add(30 * 24 * time.Hour))
	assert.Equal(t, 0, sub.DaysRemaining(now))
}

func TestSubscriptionIsTerminal(t *testing.T) {
	assert.True(t, (&Subscription{Status: SubscriptionStatusCancelled}).IsTerminal())
	assert.True(t, (&Subscription{Status: SubscriptionStatusExpired}).IsTerminal())
	assert.False(t, (&Subscription{Status: SubscriptionStatusActive}).IsTerminal())
	assert.False(t, (&Subscription{Status: SubscriptionStatusPending}).IsTerminal())
}

func TestPlanIsPaid(t *testing.T) {
	free := SubscriptionPlan{Price: decimal.Zero, DurationDays: 36500}
	pro := SubscriptionPlan{Price: decimal.NewFromInt(499), DurationDays: 30}

	assert.False(t, free.IsPaid())
	assert.True(t, pro.IsPaid())
	assert.Equal(t, 30*24*time.Hour, pro.Duration())
}

func TestUserHasProEntitlement(t *testing.T) {
	now := time.Now()

	assert.False(t, (&User{}).HasProEntitlement(now))
	assert.True(t, (&User{IsPro: true}).HasProEntitlement(now))
	assert.True(t, (&User{IsPro: true, ProValidity: timePtr(now.Add(time.Hour))}).HasProEntitlement(now))
	assert.False(t, (&User{IsPro: true, ProValidity: timePtr(now.Add(-time.Hour))}).HasProEntitlement(now))
}

func TestSubscriptionViewJSON(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	sub := &Subscription{
		ID:        uuid.New(),
		Status:    SubscriptionStatusActive,
		StartDate: timePtr(now),
		EndDate:   timePtr(now.Add(10 * 24 * time.Hour)),
	}

	data, err := json.Marshal(NewSubscriptionView(sub, nil, now))
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "active", body["status"])
	assert.Equal(t, float64(10), body["days_remaining"])
	assert.Equal(t, true, body["is_active_now"])
	assert.NotContains(t, body, "plan")
}

func TestIsValidPaymentMethod(t *testing.T) {
	assert.True(t, IsValidPaymentMethod(PaymentMethodBkash))
	assert.True(t, IsValidPaymentMethod(PaymentMethodAccountBalance))
	assert.False(t, IsValidPaymentMethod("razorpay"))
}
