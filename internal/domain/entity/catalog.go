package entity

// MaxCatalogPage bounds deep paging so upstream offsets stay small.
const MaxCatalogPage = 10000

// CatalogQuery describes one catalog page request. A non-empty Search takes
// precedence over every structured filter.
type CatalogQuery struct {
	Page      int
	Search    string
	Platform  string
	Genre     string
	Year      int
	Developer string
	Mode      string
}

// HasFilters reports whether any structured filter is set.
func (q CatalogQuery) HasFilters() bool {
	return q.Platform != "" || q.Genre != "" || q.Year != 0 || q.Developer != "" || q.Mode != ""
}

type CatalogItem struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"image_url"`
}

// CatalogPage is one page of catalog results.
type CatalogPage struct {
	Page    int           `json:"page"`
	Search  string        `json:"search,omitempty"`
	Items   []CatalogItem `json:"items"`
	HasNext bool          `json:"has_next"`
}

// Suggestion is an autocomplete entry.
type Suggestion struct {
	Name  string `json:"name"`
	ID    int64  `json:"id"`
	Image string `json:"image"`
}
