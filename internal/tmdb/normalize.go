package tmdb

import (
	"strings"

	"github.com/zetronik/tv-movies-parser/internal/store"
)

const topBilledCast = 10

// Flatten converts a details payload into the stored row shape. Name lists
// collapse to comma-separated strings; people and genres without a name are
// dropped. The cast keeps the first ten billed entries.
func Flatten(movie *Movie, imageBaseURL string) *store.Title {
	return &store.Title{
		ID:            movie.ID,
		Title:         strings.TrimSpace(movie.Title),
		OriginalTitle: strings.TrimSpace(movie.OriginalTitle),
		Overview:      strings.TrimSpace(movie.Overview),
		Rating:        movie.VoteAverage,
		ReleaseDate:   strings.TrimSpace(movie.ReleaseDate),
		PosterURL:     posterURL(movie.PosterPath, imageBaseURL),
		Genres:        joinGenres(movie.Genres),
		Countries:     joinCountries(movie.ProductionCountries),
		Directors:     joinDirectors(movie.Credits.Crew),
		Actors:        joinCast(movie.Credits.Cast),
	}
}

func posterURL(path, imageBaseURL string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	return strings.TrimRight(imageBaseURL, "/") + path
}

func joinGenres(genres []Genre) string {
	names := make([]string, 0, len(genres))
	for _, genre := range genres {
		if name := strings.TrimSpace(genre.Name); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

func joinCountries(countries []Country) string {
	names := make([]string, 0, len(countries))
	for _, country := range countries {
		if name := strings.TrimSpace(country.Name); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

func joinDirectors(crew []CrewMember) string {
	var names []string
	for _, member := range crew {
		if member.Job != "Director" {
			continue
		}
		if name := strings.TrimSpace(member.Name); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

// joinCast truncates to the top billed entries before filtering empty names,
// so a blank entry inside the top ten costs a slot.
func joinCast(cast []CastMember) string {
	if len(cast) > topBilledCast {
		cast = cast[:topBilledCast]
	}
	var names []string
	for _, member := range cast {
		if name := strings.TrimSpace(member.Name); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}
