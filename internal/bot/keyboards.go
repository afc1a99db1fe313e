package bot

import (
	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"referral-bot/internal/i18n"
	"referral-bot/internal/models"
)

func sharePhoneKeyboard(lang string) *telego.ReplyKeyboardMarkup {
	return tu.Keyboard(
		tu.KeyboardRow(
			tu.KeyboardButton(i18n.T("btn_share_phone", lang)).WithRequestContact(),
		),
	).WithResizeKeyboard().WithOneTimeKeyboard()
}

func codeKeyboard(lang string, withGroup bool) *telego.InlineKeyboardMarkup {
	rows := []([]telego.InlineKeyboardButton){
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton(i18n.T("btn_remember", lang)).WithCallbackData("remember_code"),
		),
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton(i18n.T("btn_affiliate_link", lang)).WithCallbackData("get_affiliate_link"),
		),
	}
	if withGroup {
		rows = append(rows, tu.InlineKeyboardRow(
			tu.InlineKeyboardButton(i18n.T("btn_group_link", lang)).WithCallbackData("get_group_link"),
		))
	}
	return tu.InlineKeyboard(rows...)
}

func referralKeyboard(lang string) *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton(i18n.T("btn_referral", lang)).WithCallbackData("enter_referral"),
		),
	)
}

func payoutMethodsKeyboard() *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("PayPal 💵").WithCallbackData("pm:"+models.MethodPaypal),
		),
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("Binance Pay ID 🚀").WithCallbackData("pm:"+models.MethodBinancePay),
		),
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("USDT (TRC20) 🪙").WithCallbackData("pm:"+models.MethodUSDTTRC20),
		),
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("SINPE Móvil 🇨🇷").WithCallbackData("pm:"+models.MethodSINPE),
		),
	)
}
