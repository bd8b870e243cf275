package entities

// Filters narrows a search. All fields are optional.
type Filters struct {
	Author   string `json:"author"`
	Year     string `json:"year"`
	Language string `json:"language"`
}

// IsZero reports whether no filter is set.
func (f Filters) IsZero() bool {
	return f == Filters{}
}

// SearchState is the snapshot of the search view saved before showing details.
type SearchState struct {
	Query    string  `json:"query"`
	Filters  Filters `json:"filters"`
	Results  []Book  `json:"results"`
	Page     int     `json:"page"`
	NumFound int     `json:"numFound"`
}

// Work is the extended metadata of an OpenLibrary work.
type Work struct {
	Key         string   `json:"key"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Subjects    []string `json:"subjects,omitempty"`
}
