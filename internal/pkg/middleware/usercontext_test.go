package middleware

import (
	"strconv"
	"testing"
)

func TestParseSessionUserID(t *testing.T) {
	cases := []struct {
		name   string
		value  interface{}
		wantID uint
		wantOK bool
	}{
		{"decimal string", "7", 7, true},
		{"login round trip", strconv.FormatUint(uint64(4093), 10), 4093, true},
		{"raw uint", uint(12), 12, true},
		{"nil", nil, 0, false},
		{"empty string", "", 0, false},
		{"non numeric", "abc", 0, false},
		{"zero string", "0", 0, false},
		{"zero uint", uint(0), 0, false},
		{"unexpected type", 3.14, 0, false},
	}

	for _, tc := range cases {
		id, ok := parseSessionUserID(tc.value)
		if ok != tc.wantOK {
			t.Fatalf("%s: ok = %v, want %v", tc.name, ok, tc.wantOK)
		}
		if id != tc.wantID {
			t.Fatalf("%s: id = %d, want %d", tc.name, id, tc.wantID)
		}
	}
}
