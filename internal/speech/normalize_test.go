package speech

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeForSpeech(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "bold", in: "**Bold**", want: "Bold"},
		{name: "bold inline", in: "The **battery** is great", want: "The battery is great"},
		{name: "stars", in: "⭐️⭐️⭐️", want: "star star star "},
		{name: "bare star without selector is kept", in: "⭐", want: "⭐"},
		{name: "table row", in: "| a | b |", want: ",  a ,  b , "},
		{name: "table separator", in: "|---|---|", want: ",    ,    , "},
		{name: "hyphen", in: "Wi-Fi 6E", want: "Wi Fi 6E"},
		{name: "backticks", in: "`USB-C`", want: "USB C"},
		{name: "h2 heading", in: "## Summary\nText", want: " Summary. Text"},
		{name: "h3 heading keeps one hash", in: "### Specs\n", want: "# Specs. "},
		{name: "h1 heading", in: "# Title\n", want: " Title. "},
		{name: "list item", in: "* Long battery\n* Bright screen\n", want: "Long battery. Bright screen. "},
		{name: "link", in: "see [The Verge](https://www.theverge.com/review)", want: "see The Verge"},
		{name: "heading without trailing newline is left alone", in: "## End", want: "## End"},
		{
			name: "bold inside list item",
			in:   "* **Battery**: 2 days\n",
			want: "Battery: 2 days. ",
		},
		{
			name: "rating line",
			in:   "**Rating**: ⭐️⭐️⭐️⭐️ - Very Good\n",
			want: "Rating: star star star star    Very Good\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeForSpeech(tt.in))
		})
	}
}

func TestNormalizeForSpeech_IdempotentOnPlainText(t *testing.T) {
	inputs := []string{
		"",
		"A perfectly ordinary sentence.",
		"Battery life is excellent, and the screen is bright.\nSecond line.",
		"star star star ",
	}

	for _, in := range inputs {
		once := NormalizeForSpeech(in)
		assert.Equal(t, in, once)
		assert.Equal(t, once, NormalizeForSpeech(once))
	}
}
