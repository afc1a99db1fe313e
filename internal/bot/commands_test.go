package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"referral-bot/internal/models"
)

func TestParseCallback(t *testing.T) {
	cases := []struct {
		data string
		want Command
	}{
		{"remember_code", Command{Kind: KindRememberCode}},
		{"enter_referral", Command{Kind: KindEnterReferral}},
		{"get_group_link", Command{Kind: KindGroupLink}},
		{"get_affiliate_link", Command{Kind: KindAffiliateLink}},
		{"pm:" + models.MethodPaypal, Command{Kind: KindPickMethod, MethodType: models.MethodPaypal}},
		{"pm:" + models.MethodSINPE, Command{Kind: KindPickMethod, MethodType: models.MethodSINPE}},
		{"pm:NotAMethod", Command{Kind: KindUnknown}},
		{"pm:", Command{Kind: KindUnknown}},
		{"something_else", Command{Kind: KindUnknown}},
		{"", Command{Kind: KindUnknown}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseCallback(tc.data), "data %q", tc.data)
	}
}

func TestParseAmountCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"10", 1000},
		{"10.50", 1050},
		{"10,50", 1050},
		{"0.05", 5},
		{" 25 ", 2500},
	}
	for _, tc := range cases {
		got, err := parseAmountCents(tc.in)
		assert.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}

	for _, bad := range []string{"", "abc", "10.5.0"} {
		_, err := parseAmountCents(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "USD 12.34", formatMoney(1234, "USD"))
	assert.Equal(t, "USD 0.05", formatMoney(5, "USD"))
	assert.Equal(t, "CRC 100.00", formatMoney(10000, "CRC"))
	assert.Equal(t, "-USD 1.00", formatMoney(-100, "USD"))
}

func TestCommandArgs(t *testing.T) {
	assert.Nil(t, commandArgs("/withdraw"))
	assert.Equal(t, []string{"10.50"}, commandArgs("/withdraw 10.50"))
	assert.Equal(t, []string{"7", "paid", "today"}, commandArgs("/mark_paid 7 paid today"))
}
