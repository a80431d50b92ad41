package roster

import "testing"

func TestLetterToIndex(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"A", 0},
		{"B", 1},
		{"Z", 25},
		{"AA", 26},
		{"AB", 27},
		{"AZ", 51},
		{"BA", 52},
		{"ZZ", 701},
		{"AAA", 702},
		{"ZZZ", MaxColumnIndex},
		{"ZZZZZZZZZZZZZZZZZZZZ", -1},
		{"a", 0},
		{"ab", 27},
		{" C ", 2},
		{"", -1},
		{"A1", -1},
		{"$A", -1},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := LetterToIndex(tt.in); got != tt.want {
				t.Errorf("LetterToIndex(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestIndexToLetter(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "A"},
		{25, "Z"},
		{26, "AA"},
		{27, "AB"},
		{701, "ZZ"},
		{702, "AAA"},
		{-1, ""},
	}

	for _, tt := range tests {
		if got := IndexToLetter(tt.in); got != tt.want {
			t.Errorf("IndexToLetter(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestColumnRoundTrip(t *testing.T) {
	for n := 0; n <= 700; n++ {
		letter := IndexToLetter(n)
		if got := LetterToIndex(letter); got != n {
			t.Fatalf("LetterToIndex(IndexToLetter(%d)) = %d (letter %q)", n, got, letter)
		}
	}

	// every one- and two-letter reference maps back to itself
	const alpha = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	for _, a := range alpha {
		if got := IndexToLetter(LetterToIndex(string(a))); got != string(a) {
			t.Fatalf("round trip %q = %q", string(a), got)
		}
		for _, b := range alpha {
			ref := string(a) + string(b)
			if got := IndexToLetter(LetterToIndex(ref)); got != ref {
				t.Fatalf("round trip %q = %q", ref, got)
			}
		}
	}
}
