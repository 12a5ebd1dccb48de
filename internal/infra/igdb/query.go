package igdb

import (
	"strconv"
	"strings"
	"time"

	"gamecatalog/internal/domain/entity"
)

// Field sets requested per endpoint.
var (
	gameDetailFields = []string{
		"name", "summary", "total_rating", "total_rating_count",
		"genres.name", "game_modes.name", "platforms.name", "cover.url",
		"first_release_date", "involved_companies.company.name", "involved_companies.developer",
	}
	catalogFields = []string{
		"name", "cover.url", "total_rating", "aggregated_rating",
		"platforms.name", "genres.name", "game_modes.name",
		"first_release_date", "involved_companies.company.name",
	}
	suggestionFields = []string{"name", "id", "cover.url"}
	facetFields      = []string{"id", "name"}
	nameFields       = []string{"name"}
)

const (
	ratingSignalFilter = "total_rating != null | aggregated_rating != null"
	suggestionLimit    = 10
	facetLimit         = 200
)

// facetEndpoints maps a facet kind to the endpoint listing its values.
var facetEndpoints = map[entity.FacetKind]string{
	entity.FacetKindPlatform:  "platforms",
	entity.FacetKindGenre:     "genres",
	entity.FacetKindMode:      "game_modes",
	entity.FacetKindDeveloper: "companies",
}

// query is an apicalypse request body. Empty parts are omitted.
type query struct {
	fields []string
	search string
	where  []string
	sort   string
	limit  int
	offset int
}

func (q query) String() string {
	var b strings.Builder

	if q.search != "" {
		b.WriteString(`search "` + q.search + `"; `)
	}
	b.WriteString("fields " + strings.Join(q.fields, ", ") + "; ")
	if len(q.where) > 0 {
		b.WriteString("where " + strings.Join(q.where, " & ") + "; ")
	}
	if q.sort != "" {
		b.WriteString("sort " + q.sort + "; ")
	}
	if q.limit > 0 {
		b.WriteString("limit " + strconv.Itoa(q.limit) + "; ")
	}
	if q.offset > 0 {
		b.WriteString("offset " + strconv.Itoa(q.offset) + "; ")
	}

	return strings.TrimSpace(b.String())
}

// sanitize drops double quotes, which would terminate a string literal in the query.
func sanitize(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), `"`, "")
}

func gameByIDQuery(id int64, fields []string) query {
	return query{
		fields: fields,
		where:  []string{"id = " + strconv.FormatInt(id, 10)},
	}
}

// catalogQuery builds the listing request for one page. A search term wins over
// structured filters; without filters only games carrying a rating signal are listed.
func catalogQuery(q entity.CatalogQuery, pageSize int) query {
	page := min(max(q.Page, 1), entity.MaxCatalogPage)

	out := query{
		fields: catalogFields,
		limit:  pageSize,
		offset: (page - 1) * pageSize,
	}

	if term := sanitize(q.Search); term != "" {
		out.search = term

		return out
	}

	out.sort = "name asc"

	if v := sanitize(q.Platform); v != "" {
		out.where = append(out.where, `platforms.name = "`+v+`"`)
	}
	if v := sanitize(q.Genre); v != "" {
		out.where = append(out.where, `genres.name = "`+v+`"`)
	}
	if v := sanitize(q.Mode); v != "" {
		out.where = append(out.where, `game_modes.name = "`+v+`"`)
	}
	if v := sanitize(q.Developer); v != "" {
		out.where = append(out.where, `involved_companies.company.name = "`+v+`"`)
	}
	if q.Year != 0 {
		start := time.Date(q.Year, time.January, 1, 0, 0, 0, 0, time.UTC).Unix()
		end := time.Date(q.Year, time.December, 31, 23, 59, 59, 0, time.UTC).Unix()
		out.where = append(out.where,
			"first_release_date >= "+strconv.FormatInt(start, 10)+
				" & first_release_date <= "+strconv.FormatInt(end, 10))
	}
	if len(out.where) == 0 {
		out.where = []string{ratingSignalFilter}
	}

	return out
}

func suggestionQuery(term string) query {
	return query{
		fields: suggestionFields,
		where:  []string{`name ~ *"` + term + `"*`},
		sort:   "total_rating_count desc",
		limit:  suggestionLimit,
	}
}

func facetQuery() query {
	return query{
		fields: facetFields,
		limit:  facetLimit,
	}
}
