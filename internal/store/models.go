package store

// Title is a catalog entry keyed by the upstream metadata service id. Rows
// are fully replaced on every refresh; there is no partial update path.
type Title struct {
	ID            int64
	Title         string
	OriginalTitle string
	Overview      string
	Rating        float64
	ReleaseDate   string
	PosterURL     string
	Genres        string
	Countries     string
	Directors     string
	Actors        string
}

// Year returns the four-character year prefix of the release date, or ""
// when the date is absent or malformed.
func (t *Title) Year() string {
	if len(t.ReleaseDate) < 4 {
		return ""
	}
	return t.ReleaseDate[:4]
}

// Release is one discoverable download of a title. The (TitleID, MagnetLink)
// pair is unique; rediscovery never updates an existing row.
type Release struct {
	ID          int64
	TitleID     int64
	TopicTitle  string
	SizeGB      float64
	Quality     string
	FileFormat  string
	Translation string
	MagnetLink  string
	Seeds       int
	Leeches     int
}

// Stats summarizes store contents for the status surface.
type Stats struct {
	Titles                int64
	Releases              int64
	TitlesWithoutReleases int64
}
