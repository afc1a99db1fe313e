package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/sirupsen/logrus"

	"referral-bot/internal/campaign"
	"referral-bot/internal/config"
	"referral-bot/internal/export"
	"referral-bot/internal/ledger"
	"referral-bot/internal/session"
)

// Bot is the chat transport adapter. It decodes commands and callbacks,
// calls into the ledger, and renders structured outcomes as messages. No
// business rule lives here.
type Bot struct {
	Instance  *telego.Bot
	Ledger    *ledger.Ledger
	Campaigns *campaign.Resolver
	Sessions  *session.Store
	Exporter  *export.Exporter
	Cfg       *config.Config
	Log       *logrus.Logger
}

func NewBot(cfg *config.Config, lg *ledger.Ledger, campaigns *campaign.Resolver, sessions *session.Store, exporter *export.Exporter, log *logrus.Logger) (*Bot, error) {
	tgBot, err := telego.NewBot(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	return &Bot{
		Instance:  tgBot,
		Ledger:    lg,
		Campaigns: campaigns,
		Sessions:  sessions,
		Exporter:  exporter,
		Cfg:       cfg,
		Log:       log,
	}, nil
}

func (b *Bot) Start() {
	updates, _ := b.Instance.UpdatesViaLongPolling(context.Background(), nil)

	handler, _ := th.NewBotHandler(b.Instance, updates)

	handler.Handle(b.handleStart, th.CommandEqual("start"))

	handler.Handle(b.handleMyCode, th.CommandEqual("mycode"))
	handler.Handle(b.handleMyCode, th.CommandEqual("micodigo"))

	handler.Handle(b.handleMyLink, th.CommandEqual("mylink"))

	handler.Handle(b.handleMyPoints, th.CommandEqual("mypoints"))
	handler.Handle(b.handleMyPoints, th.CommandEqual("mispuntos"))

	handler.Handle(b.handleBalance, th.CommandEqual("balance"))
	handler.Handle(b.handleBalance, th.CommandEqual("misganancias"))

	handler.Handle(b.handleWithdraw, th.CommandEqual("withdraw"))
	handler.Handle(b.handleWithdraw, th.CommandEqual("cobrar"))

	handler.Handle(b.handleCancelWithdraw, th.CommandEqual("cancel_withdrawal"))

	handler.Handle(b.handleApproveReferral, th.CommandEqual("approve_referral"))
	handler.Handle(b.handleRejectReferral, th.CommandEqual("reject_referral"))
	handler.Handle(b.handleMarkPaid, th.CommandEqual("mark_paid"))
	handler.Handle(b.handleRejectWithdrawal, th.CommandEqual("reject_withdrawal"))
	handler.Handle(b.handleExportCSV, th.CommandEqual("exportcsv"))

	handler.Handle(b.handleCallback, th.AnyCallbackQuery())

	// Catch-all: contact sharing and session-driven text input.
	handler.Handle(b.handleMessage, th.AnyMessage())

	handler.Start()
}

// send is the common reply helper; delivery failures are logged, not fatal.
func (b *Bot) send(ctx context.Context, chatID int64, text string) {
	_, err := b.Instance.SendMessage(ctx, tu.Message(tu.ID(chatID), text))
	if err != nil {
		b.Log.WithError(err).WithField("chat_id", chatID).Warn("failed to send message")
	}
}

func (b *Bot) sendWithMarkup(ctx context.Context, chatID int64, text string, markup telego.ReplyMarkup) {
	_, err := b.Instance.SendMessage(ctx, tu.Message(tu.ID(chatID), text).WithReplyMarkup(markup))
	if err != nil {
		b.Log.WithError(err).WithField("chat_id", chatID).Warn("failed to send message")
	}
}

func (b *Bot) answerCallback(ctx context.Context, callbackID string) {
	_ = b.Instance.AnswerCallbackQuery(ctx, tu.CallbackQuery(callbackID))
}

// notifyAdmins DMs every configured admin. Errors are ignored: an admin who
// never started the bot cannot receive DMs.
func (b *Bot) notifyAdmins(ctx context.Context, text string) {
	for _, adminID := range b.Cfg.AdminIDs {
		_, _ = b.Instance.SendMessage(ctx, tu.Message(tu.ID(adminID), text))
	}
}

// affiliateLink builds the deep link that carries the user's code.
func (b *Bot) affiliateLink(code string) string {
	return fmt.Sprintf("https://t.me/%s?start=%s", b.Cfg.BotUsername, code)
}

// createOneTimeInvite creates a single-use invite link with an expiry.
// Requires the bot to be a group admin with invite permissions.
func (b *Bot) createOneTimeInvite(ctx context.Context, groupChatID, userID int64) (string, error) {
	expires := time.Now().Add(time.Duration(b.Cfg.InviteTTLHours) * time.Hour).Unix()
	link, err := b.Instance.CreateChatInviteLink(ctx, &telego.CreateChatInviteLinkParams{
		ChatID:      tu.ID(groupChatID),
		Name:        fmt.Sprintf("one-use-%d", userID),
		ExpireDate:  expires,
		MemberLimit: 1,
	})
	if err != nil {
		return "", err
	}
	return link.InviteLink, nil
}

// IsMember implements ledger.MembershipChecker against the Telegram API.
func (b *Bot) IsMember(ctx context.Context, groupChatID, userID int64) (bool, error) {
	member, err := b.Instance.GetChatMember(ctx, &telego.GetChatMemberParams{
		ChatID: tu.ID(groupChatID),
		UserID: userID,
	})
	if err != nil {
		return false, err
	}
	switch member.MemberStatus() {
	case telego.MemberStatusCreator, telego.MemberStatusAdministrator, telego.MemberStatusMember:
		return true, nil
	}
	return false, nil
}

func (b *Bot) isBanned(ctx context.Context, groupChatID, userID int64) bool {
	member, err := b.Instance.GetChatMember(ctx, &telego.GetChatMemberParams{
		ChatID: tu.ID(groupChatID),
		UserID: userID,
	})
	if err != nil {
		return false
	}
	return member.MemberStatus() == telego.MemberStatusBanned
}

// formatMoney renders minor units as "CUR 12.34".
func formatMoney(cents int64, currency string) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%s %d.%02d", sign, currency, cents/100, cents%100)
}

// parseAmountCents accepts "10", "10.50" or "10,50" in major units.
func parseAmountCents(text string) (int64, error) {
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	if text == "" {
		return 0, fmt.Errorf("empty amount")
	}
	if strings.Contains(text, ".") {
		value, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return 0, err
		}
		return int64(value*100 + 0.5), nil
	}
	major, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, err
	}
	return major * 100, nil
}

// commandArgs splits "/cmd a b c" into its arguments.
func commandArgs(text string) []string {
	parts := strings.Fields(text)
	if len(parts) <= 1 {
		return nil
	}
	return parts[1:]
}
