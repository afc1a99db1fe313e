package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"referral-bot/internal/campaign"
	"referral-bot/internal/i18n"
	"referral-bot/internal/ledger"
	"referral-bot/internal/models"
	"referral-bot/internal/phone"
	"referral-bot/internal/session"
)

func userLang(user *telego.User) string {
	if user == nil {
		return "en"
	}
	return i18n.Lang(user.LanguageCode)
}

func (b *Bot) handleStart(ctx *th.Context, update telego.Update) error {
	message := update.Message
	if message == nil || message.From == nil {
		return nil
	}
	c := ctx.Context()
	lang := userLang(message.From)
	userID := message.From.ID

	// Deep-link payload: /start <code>
	var deepLinkCode string
	if parts := strings.Fields(message.Text); len(parts) > 1 {
		deepLinkCode = parts[1]
	}
	if deepLinkCode != "" {
		b.registerReferral(c, userID, lang, deepLinkCode)
	}

	_, err := b.Ledger.CodeForUser(c, userID)
	if err == nil {
		b.sendWithMarkup(c, userID, i18n.T("already_has_code", lang), codeKeyboard(lang, b.Cfg.GroupChatID != 0))
		b.sendWithMarkup(c, userID, i18n.T("optional_enter_code", lang), referralKeyboard(lang))
		return nil
	}
	if !errors.Is(err, ledger.ErrNotFound) {
		b.send(c, userID, fmt.Sprintf(i18n.T("error", lang), "try again later"))
		return nil
	}

	b.sendWithMarkup(c, userID, i18n.T("start", lang), sharePhoneKeyboard(lang))
	return nil
}

// handleMessage is the catch-all for contact sharing and text answers to a
// pending conversation step.
func (b *Bot) handleMessage(ctx *th.Context, update telego.Update) error {
	message := update.Message
	if message == nil || message.From == nil {
		return nil
	}
	if message.Contact != nil {
		return b.handleContact(ctx, update)
	}
	if message.Text == "" || strings.HasPrefix(message.Text, "/") {
		return nil
	}

	c := ctx.Context()
	userID := message.From.ID
	lang := userLang(message.From)

	state, err := b.Sessions.Get(c, userID)
	if err != nil {
		b.Log.WithError(err).WithField("user_id", userID).Error("failed to load session state")
		return nil
	}
	if state == nil {
		return nil
	}

	switch state.Step {
	case session.StepAwaitingReferralCode:
		_ = b.Sessions.Clear(c, userID)
		b.registerReferral(c, userID, lang, message.Text)
	case session.StepAwaitingMethodDetails:
		_ = b.Sessions.Clear(c, userID)
		b.saveMethodAndMaybeWithdraw(c, message.From, lang, state, message.Text)
	}
	return nil
}

func (b *Bot) handleContact(ctx *th.Context, update telego.Update) error {
	message := update.Message
	c := ctx.Context()
	lang := userLang(message.From)
	userID := message.From.ID
	contact := message.Contact

	if contact.UserID != userID {
		b.send(c, userID, i18n.T("share_own_number", lang))
		return nil
	}

	phoneE164 := phone.E164(contact.PhoneNumber, b.Cfg.DefaultRegion)
	if phoneE164 == "" {
		b.send(c, userID, i18n.T("invalid_number", lang))
		return nil
	}
	region := phone.Region(contact.PhoneNumber, b.Cfg.DefaultRegion)

	code, err := b.Ledger.AssignOrGetCode(c, userID, phoneE164, region, region)
	if err != nil {
		b.send(c, userID, fmt.Sprintf(i18n.T("error", lang), "could not generate your code, try again"))
		return nil
	}

	b.sendWithMarkup(c, userID,
		fmt.Sprintf(i18n.T("phone_verified", lang), region, code),
		codeKeyboard(lang, b.Cfg.GroupChatID != 0))
	b.sendWithMarkup(c, userID, i18n.T("enter_inviter_code", lang), referralKeyboard(lang))

	if b.Cfg.GroupChatID != 0 {
		if invite, err := b.createOneTimeInvite(c, b.Cfg.GroupChatID, userID); err == nil {
			b.send(c, userID, fmt.Sprintf(i18n.T("group_access", lang), b.Cfg.InviteTTLHours, invite))
		} else {
			b.send(c, userID, i18n.T("group_invite_fail", lang))
		}
	}
	return nil
}

// registerReferral runs the registration flow and renders the structured
// outcome. Rejections are expected control flow.
func (b *Bot) registerReferral(c context.Context, userID int64, lang, rawCode string) {
	camp, err := b.Campaigns.ActiveCampaignForUser(c, userID)
	if errors.Is(err, campaign.ErrNoActiveCampaign) {
		b.send(c, userID, i18n.T("campaign_inactive", lang))
		return
	}
	if err != nil {
		b.send(c, userID, fmt.Sprintf(i18n.T("error", lang), "try again later"))
		return
	}

	_, approved, err := b.Ledger.RegisterReferralWithMembership(c, camp.ID, userID, rawCode, b)
	switch {
	case err == nil:
		if approved {
			b.send(c, userID, i18n.T("referral_approved_now", lang))
		} else {
			b.send(c, userID, i18n.T("referral_done", lang))
			if camp.GroupChatID != 0 {
				b.send(c, userID, i18n.T("join_group_for_points", lang))
			}
		}
	case errors.Is(err, ledger.ErrInvalidCode), errors.Is(err, ledger.ErrNotFound):
		b.send(c, userID, i18n.T("invalid_referral", lang))
	case errors.Is(err, ledger.ErrSelfReferral):
		b.send(c, userID, i18n.T("self_referral", lang))
	case errors.Is(err, ledger.ErrAlreadyReferred):
		b.send(c, userID, i18n.T("already_referred", lang))
	case errors.Is(err, ledger.ErrReciprocalBlocked):
		b.send(c, userID, i18n.T("reciprocal_blocked", lang))
	case errors.Is(err, ledger.ErrCampaignInactive):
		b.send(c, userID, i18n.T("campaign_inactive", lang))
	default:
		b.send(c, userID, fmt.Sprintf(i18n.T("error", lang), "try again later"))
	}
}

func (b *Bot) handleCallback(ctx *th.Context, update telego.Update) error {
	cb := update.CallbackQuery
	if cb == nil {
		return nil
	}
	c := ctx.Context()
	defer b.answerCallback(c, cb.ID)

	lang := i18n.Lang(cb.From.LanguageCode)
	userID := cb.From.ID
	cmd := ParseCallback(cb.Data)

	switch cmd.Kind {
	case KindRememberCode:
		code, err := b.Ledger.CodeForUser(c, userID)
		if err != nil {
			b.send(c, userID, i18n.T("mycode_missing", lang))
			return nil
		}
		b.send(c, userID, fmt.Sprintf(i18n.T("mycode_has", lang), code))

	case KindEnterReferral:
		if err := b.Sessions.Set(c, userID, session.State{Step: session.StepAwaitingReferralCode}); err != nil {
			b.Log.WithError(err).WithField("user_id", userID).Error("failed to save session state")
			return nil
		}
		b.send(c, userID, i18n.T("referral_prompt", lang))

	case KindGroupLink:
		b.sendGroupLink(c, userID, lang)

	case KindAffiliateLink:
		code, err := b.Ledger.CodeForUser(c, userID)
		if err != nil {
			b.send(c, userID, i18n.T("mycode_missing", lang))
			return nil
		}
		b.send(c, userID, fmt.Sprintf(i18n.T("your_affiliate_link", lang), b.affiliateLink(code)))

	case KindPickMethod:
		// Carry over a withdrawal amount parked by /withdraw, if any.
		var amount int64
		if prev, err := b.Sessions.Get(c, userID); err == nil && prev != nil {
			amount = prev.AmountCents
		}
		err := b.Sessions.Set(c, userID, session.State{
			Step:        session.StepAwaitingMethodDetails,
			MethodType:  cmd.MethodType,
			AmountCents: amount,
		})
		if err != nil {
			b.Log.WithError(err).WithField("user_id", userID).Error("failed to save session state")
			return nil
		}
		b.send(c, userID, fmt.Sprintf(i18n.T("enter_method_details", lang), cmd.MethodType))
	}
	return nil
}

func (b *Bot) sendGroupLink(c context.Context, userID int64, lang string) {
	groupChatID := b.Cfg.GroupChatID
	if camp, err := b.Campaigns.ActiveCampaignForUser(c, userID); err == nil && camp.GroupChatID != 0 {
		groupChatID = camp.GroupChatID
	}
	if groupChatID == 0 {
		b.send(c, userID, i18n.T("group_missing", lang))
		return
	}
	if b.isBanned(c, groupChatID, userID) {
		b.send(c, userID, i18n.T("banned", lang))
		return
	}
	invite, err := b.createOneTimeInvite(c, groupChatID, userID)
	if err != nil {
		b.send(c, userID, i18n.T("group_invite_fail", lang))
		return
	}
	b.send(c, userID, fmt.Sprintf(i18n.T("group_access", lang), b.Cfg.InviteTTLHours, invite))
}

func (b *Bot) handleMyCode(ctx *th.Context, update telego.Update) error {
	message := update.Message
	if message == nil || message.From == nil {
		return nil
	}
	c := ctx.Context()
	lang := userLang(message.From)
	code, err := b.Ledger.CodeForUser(c, message.From.ID)
	if err != nil {
		b.send(c, message.From.ID, i18n.T("mycode_missing", lang))
		return nil
	}
	b.send(c, message.From.ID, fmt.Sprintf(i18n.T("mycode_has", lang), code))
	return nil
}

func (b *Bot) handleMyLink(ctx *th.Context, update telego.Update) error {
	message := update.Message
	if message == nil || message.From == nil {
		return nil
	}
	c := ctx.Context()
	lang := userLang(message.From)
	code, err := b.Ledger.CodeForUser(c, message.From.ID)
	if err != nil {
		b.send(c, message.From.ID, i18n.T("mycode_missing", lang))
		return nil
	}
	b.send(c, message.From.ID, fmt.Sprintf(i18n.T("your_affiliate_link", lang), b.affiliateLink(code)))
	return nil
}

func (b *Bot) handleMyPoints(ctx *th.Context, update telego.Update) error {
	message := update.Message
	if message == nil || message.From == nil {
		return nil
	}
	c := ctx.Context()
	lang := userLang(message.From)
	points, err := b.Ledger.UserPoints(c, message.From.ID)
	if err != nil {
		b.send(c, message.From.ID, fmt.Sprintf(i18n.T("error", lang), "try again later"))
		return nil
	}
	b.send(c, message.From.ID, fmt.Sprintf(i18n.T("your_points", lang), points))
	return nil
}

func (b *Bot) handleBalance(ctx *th.Context, update telego.Update) error {
	message := update.Message
	if message == nil || message.From == nil {
		return nil
	}
	c := ctx.Context()
	lang := userLang(message.From)
	userID := message.From.ID

	camp, err := b.Campaigns.ActiveCampaignForUser(c, userID)
	if errors.Is(err, campaign.ErrNoActiveCampaign) {
		b.send(c, userID, i18n.T("no_balance", lang))
		return nil
	}
	if err != nil {
		b.send(c, userID, fmt.Sprintf(i18n.T("error", lang), "try again later"))
		return nil
	}

	balances, err := b.Ledger.ComputeBalances(c, userID, camp.ID, camp.CommissionCents)
	if err != nil {
		b.send(c, userID, fmt.Sprintf(i18n.T("error", lang), "try again later"))
		return nil
	}
	if balances.ApprovedCount == 0 && balances.GrossCents == 0 {
		b.send(c, userID, i18n.T("no_balance", lang))
		return nil
	}

	body := fmt.Sprintf(i18n.T("balance_body", lang),
		balances.ApprovedCount,
		formatMoney(camp.CommissionCents, camp.Currency),
		formatMoney(balances.GrossCents, camp.Currency),
		formatMoney(balances.PaidCents, camp.Currency),
		formatMoney(balances.PendingCents, camp.Currency),
		formatMoney(balances.Available(), camp.Currency))
	b.send(c, userID, i18n.T("balance_header", lang)+"\n"+body)
	return nil
}

func (b *Bot) handleWithdraw(ctx *th.Context, update telego.Update) error {
	message := update.Message
	if message == nil || message.From == nil {
		return nil
	}
	c := ctx.Context()
	lang := userLang(message.From)
	userID := message.From.ID

	camp, err := b.Campaigns.ActiveCampaignForUser(c, userID)
	if errors.Is(err, campaign.ErrNoActiveCampaign) {
		b.send(c, userID, i18n.T("no_balance", lang))
		return nil
	}
	if err != nil {
		b.send(c, userID, fmt.Sprintf(i18n.T("error", lang), "try again later"))
		return nil
	}

	balances, err := b.Ledger.ComputeBalances(c, userID, camp.ID, camp.CommissionCents)
	if err != nil {
		b.send(c, userID, fmt.Sprintf(i18n.T("error", lang), "try again later"))
		return nil
	}

	requested := balances.Available()
	if args := commandArgs(message.Text); len(args) > 0 {
		requested, err = parseAmountCents(args[0])
		if err != nil {
			b.send(c, userID, i18n.T("invalid_amount", lang))
			return nil
		}
	}
	if requested <= 0 {
		b.send(c, userID, i18n.T("insufficient_funds", lang))
		return nil
	}

	method, err := b.Ledger.DefaultMethod(c, userID)
	if errors.Is(err, ledger.ErrNotFound) {
		// Park the amount and collect a payout method first.
		if err := b.Sessions.Set(c, userID, session.State{
			Step:        session.StepChoosingMethod,
			AmountCents: requested,
		}); err != nil {
			b.Log.WithError(err).WithField("user_id", userID).Error("failed to save session state")
		}
		b.send(c, userID, i18n.T("no_methods", lang))
		b.sendWithMarkup(c, userID, i18n.T("choose_method", lang), payoutMethodsKeyboard())
		return nil
	}
	if err != nil {
		b.send(c, userID, fmt.Sprintf(i18n.T("error", lang), "try again later"))
		return nil
	}

	b.createWithdrawal(c, userID, lang, requested, method.ID, camp)
	return nil
}

func (b *Bot) createWithdrawal(c context.Context, userID int64, lang string, amountCents, methodID int64, camp *models.Campaign) {
	_, notice, err := b.Ledger.CreateWithdrawal(c, userID, amountCents, methodID, camp)
	switch {
	case err == nil:
		b.send(c, userID, fmt.Sprintf(i18n.T("withdraw_created", lang), formatMoney(amountCents, camp.Currency)))
		b.notifyWithdraw(c, notice)
	case errors.Is(err, ledger.ErrInvalidAmount):
		b.send(c, userID, i18n.T("invalid_amount", lang))
	case errors.Is(err, ledger.ErrBelowMinimum):
		b.send(c, userID, fmt.Sprintf(i18n.T("below_minimum", lang), formatMoney(camp.MinWithdrawCents, camp.Currency)))
	case errors.Is(err, ledger.ErrInsufficientFunds):
		b.send(c, userID, i18n.T("insufficient_funds", lang))
	default:
		b.send(c, userID, fmt.Sprintf(i18n.T("error", lang), "try again later"))
	}
}

// saveMethodAndMaybeWithdraw stores the payout account the user just typed
// and completes a parked withdrawal when one is pending.
func (b *Bot) saveMethodAndMaybeWithdraw(c context.Context, from *telego.User, lang string, state *session.State, details string) {
	userID := from.ID
	method, err := b.Ledger.SetDefaultMethod(c, userID, state.MethodType, map[string]string{"value": strings.TrimSpace(details)})
	if err != nil {
		b.send(c, userID, fmt.Sprintf(i18n.T("error", lang), "could not save the method"))
		return
	}
	b.send(c, userID, i18n.T("method_saved", lang))

	if state.AmountCents <= 0 {
		return
	}
	camp, err := b.Campaigns.ActiveCampaignForUser(c, userID)
	if err != nil {
		b.send(c, userID, fmt.Sprintf(i18n.T("error", lang), "try again later"))
		return
	}
	b.createWithdrawal(c, userID, lang, state.AmountCents, method.ID, camp)
}

// handleCancelWithdraw lets a user cancel their own pending request:
// "/cancel_withdrawal <payment_id>".
func (b *Bot) handleCancelWithdraw(ctx *th.Context, update telego.Update) error {
	message := update.Message
	if message == nil || message.From == nil {
		return nil
	}
	c := ctx.Context()
	lang := userLang(message.From)
	userID := message.From.ID

	args := commandArgs(message.Text)
	if len(args) < 1 {
		b.send(c, userID, i18n.T("invalid_amount", lang))
		return nil
	}
	paymentID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		b.send(c, userID, i18n.T("invalid_amount", lang))
		return nil
	}

	payment, err := b.Ledger.Payment(c, paymentID)
	if errors.Is(err, ledger.ErrNotFound) || (err == nil && payment.UserID != userID) {
		b.send(c, userID, fmt.Sprintf(i18n.T("error", lang), "request not found"))
		return nil
	}
	if err != nil {
		b.send(c, userID, fmt.Sprintf(i18n.T("error", lang), "try again later"))
		return nil
	}

	err = b.Ledger.CancelWithdrawal(c, paymentID, "canceled by user")
	switch {
	case err == nil:
		b.send(c, userID, i18n.T("withdraw_canceled", lang))
	case errors.Is(err, ledger.ErrAlreadyProcessed):
		b.send(c, userID, i18n.T("already_processed", lang))
	default:
		b.send(c, userID, fmt.Sprintf(i18n.T("error", lang), "try again later"))
	}
	return nil
}

func (b *Bot) notifyWithdraw(c context.Context, notice *ledger.WithdrawalNotice) {
	details := notice.MethodDetails["value"]
	if details != "" {
		details = "[" + details + "]"
	}
	text := fmt.Sprintf(i18n.T("admin_withdraw_notice", "en"),
		notice.UserID,
		formatMoney(notice.AmountCents, notice.Currency),
		notice.MethodType,
		details,
		notice.PaymentID)
	b.notifyAdmins(c, text)
}
