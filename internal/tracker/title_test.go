package tracker

import "testing"

func TestParseTopicHeading(t *testing.T) {
	cases := []struct {
		name   string
		raw    string
		want   Heading
		wantOK bool
	}{
		{
			name:   "local and original",
			raw:    "Матрица / The Matrix [1999, США, фантастика, BDRip 1080p]",
			want:   Heading{Title: "Матрица", OriginalTitle: "The Matrix", Year: "1999"},
			wantOK: true,
		},
		{
			name:   "local only",
			raw:    "Брат [1997, Россия, драма, DVDRip]",
			want:   Heading{Title: "Брат", Year: "1997"},
			wantOK: true,
		},
		{
			name:   "parenthesized extra dropped",
			raw:    "Матрица / The Matrix (режиссёрская версия) [1999, BDRip]",
			want:   Heading{Title: "Матрица", OriginalTitle: "The Matrix", Year: "1999"},
			wantOK: true,
		},
		{
			name: "no bracketed year",
			raw:  "Объявление форума: правила раздела",
		},
		{
			name: "empty",
			raw:  "   ",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseTopicHeading(tc.raw)
			if ok != tc.wantOK {
				t.Fatalf("ok=%v, want %v", ok, tc.wantOK)
			}
			if got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestQualityFromHeading(t *testing.T) {
	raw := "Матрица / The Matrix [1999, США, фантастика, BDRip 1080p]"
	if got := QualityFromHeading(raw); got != "BDRip 1080p" {
		t.Fatalf("got %q", got)
	}
	if got := QualityFromHeading("no brackets here"); got != "" {
		t.Fatalf("expected empty quality, got %q", got)
	}
	if got := QualityFromHeading("[2001]"); got != "" {
		t.Fatalf("expected empty quality for single-item bracket, got %q", got)
	}
}
