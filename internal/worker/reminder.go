package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"referral-bot/internal/i18n"
	"referral-bot/internal/ledger"
)

// Reminder periodically pings admins about withdrawal requests that have been
// sitting in REQUESTED for too long. A redis key per payment keeps every
// request down to one reminder per day.
type Reminder struct {
	Ledger   *ledger.Ledger
	Redis    *redis.Client
	Bot      *telego.Bot
	AdminIDs []int64
	Currency string
	After    time.Duration
	Log      *logrus.Logger
}

func NewReminder(lg *ledger.Ledger, rdb *redis.Client, bot *telego.Bot, adminIDs []int64, currency string, after time.Duration, log *logrus.Logger) *Reminder {
	return &Reminder{
		Ledger:   lg,
		Redis:    rdb,
		Bot:      bot,
		AdminIDs: adminIDs,
		Currency: currency,
		After:    after,
		Log:      log,
	}
}

func (r *Reminder) Start() {
	ticker := time.NewTicker(1 * time.Hour)
	r.Log.Info("withdrawal reminder worker started")

	// Run once at start
	r.remindStaleWithdrawals()

	for range ticker.C {
		r.remindStaleWithdrawals()
	}
}

func (r *Reminder) remindStaleWithdrawals() {
	ctx := context.Background()

	stale, err := r.Ledger.StaleRequests(ctx, time.Now().Add(-r.After))
	if err != nil {
		r.Log.WithError(err).Error("failed to query stale withdrawal requests")
		return
	}

	for _, payment := range stale {
		key := fmt.Sprintf("withdraw_reminded_%d", payment.ID)
		exists, _ := r.Redis.Exists(ctx, key).Result()
		if exists != 0 {
			continue
		}

		text := fmt.Sprintf(i18n.T("withdraw_reminder", "en"),
			payment.ID,
			fmt.Sprintf("%s %d.%02d", r.Currency, payment.AmountCents/100, payment.AmountCents%100),
			payment.RequestedAt.UTC().Format(time.RFC3339))

		delivered := false
		for _, adminID := range r.AdminIDs {
			if _, err := r.Bot.SendMessage(ctx, tu.Message(tu.ID(adminID), text)); err == nil {
				delivered = true
			}
		}
		if delivered {
			r.Redis.Set(ctx, key, "true", 24*time.Hour)
			r.Log.WithField("payment_id", payment.ID).Info("sent stale withdrawal reminder")
		}
	}
}
