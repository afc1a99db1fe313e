package bot

import (
	"strings"

	"referral-bot/internal/models"
)

// Kind enumerates the callback commands the transport understands. Callback
// data is decoded exactly once, here; nothing downstream parses free-form
// strings.
type Kind int

const (
	KindUnknown Kind = iota
	KindRememberCode
	KindEnterReferral
	KindGroupLink
	KindAffiliateLink
	KindPickMethod
)

type Command struct {
	Kind       Kind
	MethodType string
}

// ParseCallback decodes raw callback data into the closed command set.
func ParseCallback(data string) Command {
	switch data {
	case "remember_code":
		return Command{Kind: KindRememberCode}
	case "enter_referral":
		return Command{Kind: KindEnterReferral}
	case "get_group_link":
		return Command{Kind: KindGroupLink}
	case "get_affiliate_link":
		return Command{Kind: KindAffiliateLink}
	}
	if method, ok := strings.CutPrefix(data, "pm:"); ok && knownMethod(method) {
		return Command{Kind: KindPickMethod, MethodType: method}
	}
	return Command{Kind: KindUnknown}
}

func knownMethod(method string) bool {
	switch method {
	case models.MethodPaypal, models.MethodBinancePay, models.MethodUSDTTRC20, models.MethodSINPE:
		return true
	}
	return false
}
