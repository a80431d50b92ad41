package roster

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Grid
	}{
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "single row no newline",
			input: "a,b,c",
			want:  Grid{{"a", "b", "c"}},
		},
		{
			name:  "trailing newline adds no row",
			input: "a,b\nc,d\n",
			want:  Grid{{"a", "b"}, {"c", "d"}},
		},
		{
			name:  "crlf row breaks",
			input: "a,b\r\nc,d\r\n",
			want:  Grid{{"a", "b"}, {"c", "d"}},
		},
		{
			name:  "mixed line endings",
			input: "a\r\nb\nc",
			want:  Grid{{"a"}, {"b"}, {"c"}},
		},
		{
			name:  "blank line kept as empty row",
			input: "a\n\nb",
			want:  Grid{{"a"}, {""}, {"b"}},
		},
		{
			name:  "trailing empty field",
			input: "a,",
			want:  Grid{{"a", ""}},
		},
		{
			name:  "quoted delimiter",
			input: `"Doe, Jane",CAP`,
			want:  Grid{{"Doe, Jane", "CAP"}},
		},
		{
			name:  "quoted newline",
			input: "\"line1\nline2\",x\ny",
			want:  Grid{{"line1\nline2", "x"}, {"y"}},
		},
		{
			name:  "escaped quote",
			input: `"say ""hi""",b`,
			want:  Grid{{`say "hi"`, "b"}},
		},
		{
			name:  "empty quoted field",
			input: `a,"",b`,
			want:  Grid{{"a", "", "b"}},
		},
		{
			name:  "unterminated quote still emitted",
			input: `a,"open field`,
			want:  Grid{{"a", "open field"}},
		},
		{
			name:  "quote inside unquoted field is literal",
			input: `5'11",x`,
			want:  Grid{{`5'11"`, "x"}},
		},
		{
			name:  "unicode content",
			input: "Müller,Ünal\n",
			want:  Grid{{"Müller", "Ünal"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Tokenize() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenizeDelimited_Tab(t *testing.T) {
	got := TokenizeDelimited("Room\tName\n12\tJane Doe", '\t')
	want := Grid{{"Room", "Name"}, {"12", "Jane Doe"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TokenizeDelimited() mismatch (-want +got):\n%s", diff)
	}
}
