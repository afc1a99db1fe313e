package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestE164(t *testing.T) {
	cases := []struct {
		raw    string
		region string
		want   string
	}{
		{"+50688887777", "CR", "+50688887777"},
		{"88887777", "CR", "+50688887777"},
		{" 8888-7777 ", "CR", "+50688887777"},
		{"+14155552671", "CR", "+14155552671"},
		{"abc", "CR", ""},
		{"123", "CR", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, E164(tc.raw, tc.region), "input %q", tc.raw)
	}
}

func TestRegion(t *testing.T) {
	assert.Equal(t, "CR", Region("+50688887777", ""))
	assert.Equal(t, "US", Region("+14155552671", ""))
	assert.Equal(t, "CR", Region("88887777", "CR"))
	assert.Equal(t, "UNKN", Region("", "CR"))
}
