package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Harmonybod/Event-Ticketing-System/internal/utils"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"+251911000000", "+251911000000", false},
		{" +251 911 000 000 ", "+251911000000", false},
		{"+1 (555) 123-4567", "+15551234567", false},
		{"+123456", "+123456", false},
		{"0911000000", "", true},       // no country code
		{"+12345", "", true},           // too short
		{"+1234567890123456", "", true}, // too long
		{"+2519a1000000", "", true},    // letters
		{"", "", true},
	}

	for _, tc := range cases {
		got, err := utils.NormalizePhone(tc.in)
		if tc.wantErr {
			assert.Error(t, err, "input %q", tc.in)
		} else {
			assert.NoError(t, err, "input %q", tc.in)
			assert.Equal(t, tc.want, got)
		}
	}
}
