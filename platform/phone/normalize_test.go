package phone

import "testing"

func TestNormalizeLocal(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"010-1234-5678", "01012345678"},
		{"+82 10 1234 5678", "01012345678"},
		{"01012345678", "01012345678"},
		{"  010 1234 5678  ", "01012345678"},
		{"821012345678", "01012345678"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeLocal(tc.in); got != tc.want {
			t.Fatalf("NormalizeLocal(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeE164(t *testing.T) {
	if got := NormalizeE164("010-1234-5678"); got != "+821012345678" {
		t.Fatalf("NormalizeE164 = %q, want +821012345678", got)
	}
	// unparseable input passes through trimmed
	if got := NormalizeE164(" not-a-number "); got != "not-a-number" {
		t.Fatalf("NormalizeE164 passthrough = %q", got)
	}
}

func TestMask(t *testing.T) {
	if got := Mask("01012345678"); got != "010-****-5678" {
		t.Fatalf("Mask = %q, want 010-****-5678", got)
	}
	if got := Mask("1234"); got != "1234" {
		t.Fatalf("short input should pass through, got %q", got)
	}
}
