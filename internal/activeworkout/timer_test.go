package activeworkout

import "testing"

func TestFormatElapsed(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{0, "0:00"},
		{59, "0:59"},
		{60, "1:00"},
		{90, "1:30"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{3661, "1:01:01"},
		{7322, "2:02:02"},
	}
	for _, tc := range cases {
		if got := FormatElapsed(tc.seconds); got != tc.want {
			t.Fatalf("FormatElapsed(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}
