package bot

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"referral-bot/internal/i18n"
	"referral-bot/internal/ledger"
)

// Admin commands. Gated on the configured admin id list; replies are kept in
// English since the operators run the bot in English.

func (b *Bot) requireAdmin(c *th.Context, update telego.Update) (int64, bool) {
	message := update.Message
	if message == nil || message.From == nil {
		return 0, false
	}
	userID := message.From.ID
	if !b.Cfg.IsAdmin(userID) {
		b.send(c.Context(), userID, i18n.T("unauthorized", userLang(message.From)))
		return 0, false
	}
	return userID, true
}

// handleApproveReferral handles "/approve_referral <referral_id> [points]".
func (b *Bot) handleApproveReferral(ctx *th.Context, update telego.Update) error {
	adminID, ok := b.requireAdmin(ctx, update)
	if !ok {
		return nil
	}
	c := ctx.Context()

	args := commandArgs(update.Message.Text)
	if len(args) < 1 {
		b.send(c, adminID, "Usage: /approve_referral <referral_id> [points]")
		return nil
	}
	referralID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		b.send(c, adminID, "Usage: /approve_referral <referral_id> [points]")
		return nil
	}
	points := b.Cfg.PointsPerReferral
	if len(args) > 1 {
		points, err = strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			b.send(c, adminID, "Usage: /approve_referral <referral_id> [points]")
			return nil
		}
	}

	err = b.Ledger.ApproveReferral(c, referralID, points)
	switch {
	case err == nil:
		b.send(c, adminID, fmt.Sprintf("✅ Referral #%d approved, %d points awarded.", referralID, points))
	case errors.Is(err, ledger.ErrNotFound):
		b.send(c, adminID, fmt.Sprintf("Referral #%d not found.", referralID))
	case errors.Is(err, ledger.ErrAlreadyApproved):
		b.send(c, adminID, fmt.Sprintf("Referral #%d is already approved.", referralID))
	case errors.Is(err, ledger.ErrAlreadyRejected):
		b.send(c, adminID, fmt.Sprintf("Referral #%d was rejected and cannot be approved.", referralID))
	case errors.Is(err, ledger.ErrInvalidPoints):
		b.send(c, adminID, "Points must be positive and within the per-approval limit.")
	default:
		b.send(c, adminID, fmt.Sprintf(i18n.T("error", "en"), err))
	}
	return nil
}

// handleRejectReferral handles "/reject_referral <referral_id>".
func (b *Bot) handleRejectReferral(ctx *th.Context, update telego.Update) error {
	adminID, ok := b.requireAdmin(ctx, update)
	if !ok {
		return nil
	}
	c := ctx.Context()

	args := commandArgs(update.Message.Text)
	if len(args) < 1 {
		b.send(c, adminID, "Usage: /reject_referral <referral_id>")
		return nil
	}
	referralID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		b.send(c, adminID, "Usage: /reject_referral <referral_id>")
		return nil
	}

	err = b.Ledger.RejectReferral(c, referralID)
	switch {
	case err == nil:
		b.send(c, adminID, fmt.Sprintf("✅ Referral #%d rejected.", referralID))
	case errors.Is(err, ledger.ErrNotFound):
		b.send(c, adminID, fmt.Sprintf("Referral #%d not found.", referralID))
	case errors.Is(err, ledger.ErrAlreadyRejected):
		b.send(c, adminID, fmt.Sprintf("Referral #%d is already rejected.", referralID))
	case errors.Is(err, ledger.ErrAlreadyApproved):
		b.send(c, adminID, fmt.Sprintf("Referral #%d is approved and cannot be rejected.", referralID))
	default:
		b.send(c, adminID, fmt.Sprintf(i18n.T("error", "en"), err))
	}
	return nil
}

// handleMarkPaid handles "/mark_paid <payment_id> [note...]".
func (b *Bot) handleMarkPaid(ctx *th.Context, update telego.Update) error {
	adminID, ok := b.requireAdmin(ctx, update)
	if !ok {
		return nil
	}
	c := ctx.Context()

	args := commandArgs(update.Message.Text)
	if len(args) < 1 {
		b.send(c, adminID, "Usage: /mark_paid <payment_id> [note]")
		return nil
	}
	paymentID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		b.send(c, adminID, "Usage: /mark_paid <payment_id> [note]")
		return nil
	}
	note := strings.Join(args[1:], " ")

	err = b.Ledger.MarkPaid(c, paymentID, note)
	switch {
	case err == nil:
		b.send(c, adminID, fmt.Sprintf(i18n.T("marked_paid", "en"), paymentID))
	case errors.Is(err, ledger.ErrNotFound):
		b.send(c, adminID, fmt.Sprintf("Payment #%d not found.", paymentID))
	case errors.Is(err, ledger.ErrAlreadyProcessed):
		b.send(c, adminID, fmt.Sprintf("Payment #%d is already settled.", paymentID))
	default:
		b.send(c, adminID, fmt.Sprintf(i18n.T("error", "en"), err))
	}
	return nil
}

// handleRejectWithdrawal handles "/reject_withdrawal <payment_id> [note...]".
func (b *Bot) handleRejectWithdrawal(ctx *th.Context, update telego.Update) error {
	adminID, ok := b.requireAdmin(ctx, update)
	if !ok {
		return nil
	}
	c := ctx.Context()

	args := commandArgs(update.Message.Text)
	if len(args) < 1 {
		b.send(c, adminID, "Usage: /reject_withdrawal <payment_id> [note]")
		return nil
	}
	paymentID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		b.send(c, adminID, "Usage: /reject_withdrawal <payment_id> [note]")
		return nil
	}
	note := strings.Join(args[1:], " ")

	err = b.Ledger.RejectWithdrawal(c, paymentID, note)
	switch {
	case err == nil:
		b.send(c, adminID, fmt.Sprintf("✅ Payment #%d rejected.", paymentID))
	case errors.Is(err, ledger.ErrNotFound):
		b.send(c, adminID, fmt.Sprintf("Payment #%d not found.", paymentID))
	case errors.Is(err, ledger.ErrAlreadyProcessed):
		b.send(c, adminID, fmt.Sprintf("Payment #%d is already settled.", paymentID))
	default:
		b.send(c, adminID, fmt.Sprintf(i18n.T("error", "en"), err))
	}
	return nil
}

func (b *Bot) handleExportCSV(ctx *th.Context, update telego.Update) error {
	adminID, ok := b.requireAdmin(ctx, update)
	if !ok {
		return nil
	}
	c := ctx.Context()

	b.send(c, adminID, i18n.T("working", "en"))
	path, err := b.Exporter.WriteUsers(c)
	if err != nil {
		b.send(c, adminID, fmt.Sprintf(i18n.T("error", "en"), err))
		return nil
	}
	b.send(c, adminID, fmt.Sprintf(i18n.T("csv_exported", "en"), filepath.Base(path)))
	return nil
}
