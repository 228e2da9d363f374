package utils

import "testing"

func TestParseIntDefault(t *testing.T) {
	cases := []struct {
		in   string
		def  int
		want int
	}{
		{"50", 100, 50},
		{" 7 ", 100, 7},
		{"0", 100, 0},
		{"", 100, 100},
		{"abc", 100, 100},
		{"-5", 100, 100},
		{"3.5", 100, 100},
	}
	for _, tc := range cases {
		if got := ParseIntDefault(tc.in, tc.def); got != tc.want {
			t.Errorf("ParseIntDefault(%q, %d) = %d, want %d", tc.in, tc.def, got, tc.want)
		}
	}
}
