package i18n

import (
	"strings"
)

// Lang derives the reply language from the Telegram language code. Spanish
// speakers get Spanish, everyone else English.
func Lang(languageCode string) string {
	if strings.HasPrefix(strings.ToLower(languageCode), "es") {
		return "es"
	}
	return "en"
}

// texts maps key -> lang -> template. Templates use fmt verbs; callers
// format with fmt.Sprintf. Missing languages fall back to English.
var texts = map[string]map[string]string{
	"start": {
		"en": "Hello 👋\nTo get your unique code, tap the button and share your phone number.",
		"es": "Hola 👋\nPara obtener tu código único, toca el botón y comparte tu número de teléfono.",
	},
	"already_has_code": {
		"en": "You already have a code assigned. Tap the button to see it or enter a referral code:",
		"es": "Ya tienes un código asignado. Toca el botón para verlo o ingresa un código de referido:",
	},
	"optional_enter_code": {
		"en": "Optional: if someone invited you, enter their code below 👇",
		"es": "Opcional: si alguien te invitó, ingresa su código aquí 👇",
	},
	"share_own_number": {
		"en": "⚠️ Please tap *Share my phone number*. Do not send an address-book contact.",
		"es": "⚠️ Toca *Compartir mi número de teléfono*. No envíes un contacto de tu agenda.",
	},
	"invalid_number": {
		"en": "⚠️ Invalid number. Tap the button again and share your phone.",
		"es": "⚠️ Número inválido. Toca el botón de nuevo y comparte tu teléfono.",
	},
	"phone_verified": {
		"en": "✅ Phone verified.\n🌎 Country detected: %s\n🔑 Your unique code: %s",
		"es": "✅ Teléfono verificado.\n🌎 País detectado: %s\n🔑 Tu código único: %s",
	},
	"enter_inviter_code": {
		"en": "If you were invited, enter your inviter's code:",
		"es": "Si te invitaron, ingresa el código de quien te refirió:",
	},
	"mycode_has": {
		"en": "🔑 Your code is: %s",
		"es": "🔑 Tu código es: %s",
	},
	"mycode_missing": {
		"en": "You don't have a code yet. Use /start and share your phone.",
		"es": "Aún no tienes código. Usa /start y comparte tu teléfono.",
	},
	"your_affiliate_link": {
		"en": "🔗 Your affiliate link:\n%s",
		"es": "🔗 Tu link de referido:\n%s",
	},
	"referral_prompt": {
		"en": "Enter the code of the person who invited you (e.g. CR-AB12-CD34):",
		"es": "Escribe el código de quien te invitó (ej. CR-AB12-CD34):",
	},
	"invalid_referral": {
		"en": "❌ Invalid code. Check and try again.",
		"es": "❌ Código inválido. Verifica y vuelve a intentarlo.",
	},
	"self_referral": {
		"en": "❌ You cannot use your own code.",
		"es": "❌ No puedes usar tu propio código.",
	},
	"already_referred": {
		"en": "ℹ️ You already registered a referral code in this campaign.",
		"es": "ℹ️ Ya registraste un código de referido en esta campaña.",
	},
	"reciprocal_blocked": {
		"en": "❌ Reciprocal referrals are not allowed in this campaign.",
		"es": "❌ Los referidos recíprocos no están permitidos en esta campaña.",
	},
	"campaign_inactive": {
		"en": "ℹ️ This campaign is no longer active.",
		"es": "ℹ️ Esta campaña ya no está activa.",
	},
	"referral_done": {
		"en": "🎉 Done! Your referral has been registered. Thanks for participating.",
		"es": "🎉 ¡Listo! Tu referido fue registrado. Gracias por participar.",
	},
	"referral_approved_now": {
		"en": "🎉 Referral registered and approved — you are a confirmed group member!",
		"es": "🎉 ¡Referido registrado y aprobado — eres miembro confirmado del grupo!",
	},
	"join_group_for_points": {
		"en": "❗️ Join the main group to get your referral approved.",
		"es": "❗️ Únete al grupo principal para que tu referido sea aprobado.",
	},
	"group_access": {
		"en": "🟢 Group access (expires in %dh, 1 use):\n%s",
		"es": "🟢 Acceso al grupo (vence en %dh, 1 uso):\n%s",
	},
	"group_invite_fail": {
		"en": "ℹ️ Could not create an invite link. Make sure the bot is an admin of the group.",
		"es": "ℹ️ No pude crear un enlace. Asegúrate de que el bot sea admin del grupo.",
	},
	"group_missing": {
		"en": "ℹ️ No group is configured for this campaign.",
		"es": "ℹ️ No hay grupo configurado para esta campaña.",
	},
	"banned": {
		"en": "🚫 You are banned from this group. Please contact an administrator.",
		"es": "🚫 Estás baneado del grupo. Por favor contacta a un administrador.",
	},
	"your_points": {
		"en": "🏅 Your points: %d",
		"es": "🏅 Tus puntos: %d",
	},
	"balance_header": {
		"en": "💼 Your balance",
		"es": "💼 Tu balance",
	},
	"balance_body": {
		"en": "Approved referrals: %d\nCommission per referral: %s\nGross earned: %s\nPaid out: %s\nPending withdrawals: %s\n\nAvailable now: %s",
		"es": "Referidos aprobados: %d\nComisión por referido: %s\nBruto ganado: %s\nPagado: %s\nRetiros pendientes: %s\n\nDisponible ahora: %s",
	},
	"no_balance": {
		"en": "You have no earnings yet.",
		"es": "Aún no tienes ganancias.",
	},
	"invalid_amount": {
		"en": "Please provide a valid amount.",
		"es": "Por favor indica un monto válido.",
	},
	"below_minimum": {
		"en": "The minimum withdrawal is %s.",
		"es": "El retiro mínimo es %s.",
	},
	"insufficient_funds": {
		"en": "Insufficient available balance.",
		"es": "Saldo disponible insuficiente.",
	},
	"no_methods": {
		"en": "You don't have a payout method yet. Let's add one.",
		"es": "No tienes un método de cobro aún. Vamos a agregar uno.",
	},
	"choose_method": {
		"en": "Choose a payout method:",
		"es": "Elige un método de cobro:",
	},
	"enter_method_details": {
		"en": "Send the details for %s (e.g., email, ID, or account).",
		"es": "Envía los datos para %s (por ejemplo, correo, ID o cuenta).",
	},
	"method_saved": {
		"en": "✅ Method saved and set as default.",
		"es": "✅ Método guardado y establecido como predeterminado.",
	},
	"withdraw_created": {
		"en": "✅ Withdrawal request created for %s. We will notify admins to process it.",
		"es": "✅ Solicitud de retiro creada por %s. Notificaremos a los admins para procesarlo.",
	},
	"withdraw_canceled": {
		"en": "✅ Withdrawal request canceled.",
		"es": "✅ Solicitud de retiro cancelada.",
	},
	"already_processed": {
		"en": "ℹ️ This request was already processed.",
		"es": "ℹ️ Esta solicitud ya fue procesada.",
	},
	"unauthorized": {
		"en": "❌ Unauthorized",
		"es": "❌ No autorizado",
	},
	"working": {
		"en": "⏳ Working…",
		"es": "⏳ Trabajando…",
	},
	"csv_exported": {
		"en": "📤 CSV exported:\n- %s",
		"es": "📤 CSV exportado:\n- %s",
	},
	"error": {
		"en": "⚠️ Error: %s",
		"es": "⚠️ Error: %s",
	},
	"marked_paid": {
		"en": "✅ Payment #%d marked as PAID.",
		"es": "✅ Pago #%d marcado como PAID.",
	},
	"admin_withdraw_notice": {
		"en": "📥 New withdrawal request\nUser: %d\nAmount: %s\nMethod: %s %s\nPayment ID: %d",
		"es": "📥 Nueva solicitud de retiro\nUsuario: %d\nMonto: %s\nMétodo: %s %s\nID de pago: %d",
	},
	"withdraw_reminder": {
		"en": "⏰ Withdrawal #%d for %s is still REQUESTED since %s.",
		"es": "⏰ El retiro #%d por %s sigue en REQUESTED desde %s.",
	},
	"btn_share_phone": {
		"en": "📱 Share my phone number",
		"es": "📱 Compartir mi número",
	},
	"btn_remember": {
		"en": "🔑 Remember my code",
		"es": "🔑 Recordar mi código",
	},
	"btn_referral": {
		"en": "🎁 Enter referral code",
		"es": "🎁 Ingresar código de referido",
	},
	"btn_group_link": {
		"en": "🟢 Get group link",
		"es": "🟢 Obtener enlace del grupo",
	},
	"btn_affiliate_link": {
		"en": "🔗 My affiliate link",
		"es": "🔗 Mi link de referido",
	},
}

// T returns the template for a key in the given language, falling back to
// English, then to the key itself.
func T(key, lang string) string {
	entry, ok := texts[key]
	if !ok {
		return key
	}
	if msg, ok := entry[lang]; ok {
		return msg
	}
	if msg, ok := entry["en"]; ok {
		return msg
	}
	return key
}
