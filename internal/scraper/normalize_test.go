package scraper

import "testing"

func TestNormalizeID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain digits", in: "9999999", want: "9999999"},
		{name: "punctuation stripped", in: "US-12,345", want: "us12345"},
		{name: "mixed case and spaces", in: "Patent US 9,999,999", want: "patentus9999999"},
		{name: "empty", in: "", want: ""},
		{name: "only punctuation", in: "--,,..", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeID(tt.in); got != tt.want {
				t.Fatalf("NormalizeID(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIDIdempotent(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"US-12,345", "abc DEF 123", "", "9,999,999"} {
		once := NormalizeID(in)
		if twice := NormalizeID(once); twice != once {
			t.Fatalf("NormalizeID not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalizedPrefixStrippedMatching(t *testing.T) {
	t.Parallel()

	// "US-12,345" with the country prefix stripped must compare equal to "12345".
	if NormalizeID(StripUSPrefix("US-12,345")) != NormalizeID("12345") {
		t.Fatal("prefix-stripped normalized IDs should match")
	}
}

func TestStripUSPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "US9999999", want: "9999999"},
		{in: "us9999999", want: "9999999"},
		{in: "9999999", want: "9999999"},
		{in: "EP123", want: "EP123"},
		{in: "US", want: ""},
		{in: "U", want: "U"},
	}
	for _, tt := range tests {
		if got := StripUSPrefix(tt.in); got != tt.want {
			t.Fatalf("StripUSPrefix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
