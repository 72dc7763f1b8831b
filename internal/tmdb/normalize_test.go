package tmdb

import "testing"

func TestFlatten(t *testing.T) {
	movie := &Movie{
		ID:            603,
		Title:         "Матрица",
		OriginalTitle: "The Matrix",
		Overview:      "overview",
		VoteAverage:   8.2,
		ReleaseDate:   "1999-03-31",
		PosterPath:    "/abc.jpg",
		Genres: []Genre{
			{ID: 28, Name: "боевик"},
			{ID: 0, Name: "  "},
			{ID: 878, Name: "фантастика"},
		},
		ProductionCountries: []Country{
			{ISO: "US", Name: "United States of America"},
			{ISO: "XX", Name: ""},
		},
		Credits: Credits{
			Cast: []CastMember{
				{Name: "Keanu Reeves"},
				{Name: "Laurence Fishburne"},
			},
			Crew: []CrewMember{
				{Name: "Lana Wachowski", Job: "Director"},
				{Name: "Bill Pope", Job: "Director of Photography"},
				{Name: "Lilly Wachowski", Job: "Director"},
			},
		},
	}

	title := Flatten(movie, "https://image.tmdb.org/t/p/w500")
	if title.ID != 603 {
		t.Fatalf("unexpected id: %d", title.ID)
	}
	if title.Genres != "боевик, фантастика" {
		t.Fatalf("unexpected genres: %q", title.Genres)
	}
	if title.Countries != "United States of America" {
		t.Fatalf("unexpected countries: %q", title.Countries)
	}
	if title.Directors != "Lana Wachowski, Lilly Wachowski" {
		t.Fatalf("unexpected directors: %q", title.Directors)
	}
	if title.Actors != "Keanu Reeves, Laurence Fishburne" {
		t.Fatalf("unexpected actors: %q", title.Actors)
	}
	if title.PosterURL != "https://image.tmdb.org/t/p/w500/abc.jpg" {
		t.Fatalf("unexpected poster url: %q", title.PosterURL)
	}
}

func TestFlattenCastTruncatesBeforeFiltering(t *testing.T) {
	cast := make([]CastMember, 12)
	for i := range cast {
		cast[i] = CastMember{Name: "Actor", Order: i}
	}
	cast[3].Name = " "

	movie := &Movie{ID: 1, Credits: Credits{Cast: cast}}
	title := Flatten(movie, "")
	// Ten billed slots minus the blank one inside the window.
	want := "Actor, Actor, Actor, Actor, Actor, Actor, Actor, Actor, Actor"
	if title.Actors != want {
		t.Fatalf("unexpected actors: %q", title.Actors)
	}
}

func TestFlattenEmptyPoster(t *testing.T) {
	title := Flatten(&Movie{ID: 1}, "https://image.tmdb.org/t/p/w500")
	if title.PosterURL != "" {
		t.Fatalf("expected empty poster url, got %q", title.PosterURL)
	}
}
