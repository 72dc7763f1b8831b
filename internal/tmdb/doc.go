// Package tmdb fetches localized movie details from the TMDB API and
// flattens them into the stored catalog shape.
package tmdb
