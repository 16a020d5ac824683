package mfa

import "testing"

func TestMaskContact(t *testing.T) {
	cases := map[string]string{
		"+919876543210": "+91****543210",
		"9876543210":    "987****543210",
		"12345678":      "****5678",
		"123":           "****",
		"asha@mail.com": "a***@mail.com",
		"@mail.com":     "***@mail.com",
	}
	for in, want := range cases {
		if got := MaskContact(in); got != want {
			t.Errorf("MaskContact(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMaskNationalID(t *testing.T) {
	if got := maskNationalID("123456789012"); got != "********9012" {
		t.Fatalf("got %q", got)
	}
	if got := maskNationalID("12"); got != "**" {
		t.Fatalf("got %q", got)
	}
}
