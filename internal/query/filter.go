// Package query compiles raw, user-supplied media filter and sort input into
// a parameterized query plan. User input only ever reaches the statement as
// bound values; identifiers come from fixed whitelists.
package query

import (
	"math"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/Klir-FH/MRP/internal/model"
)

// Table aliases the plan's predicates and sort columns refer to. The media
// repository builds its FROM clause with the same aliases.
const (
	MediaAlias = "m"
	StatsAlias = "s"
)

// SortKey is one of the whitelisted sort keys.
type SortKey string

const (
	SortTitle SortKey = "title"
	SortYear  SortKey = "year"
	SortScore SortKey = "score"
)

// SortOrder is the sort direction.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// sortColumns maps sort keys to column identifiers. Nothing else may appear
// in the ORDER BY clause.
var sortColumns = map[SortKey]string{
	SortTitle: MediaAlias + ".title",
	SortYear:  MediaAlias + ".release_year",
	SortScore: StatsAlias + ".avg_score",
}

// RawFilter is the unparsed search input as it arrives from a caller.
// Every field is optional.
type RawFilter struct {
	Query          string
	Genre          string
	Type           string
	Year           string
	AgeRestriction string
	MinScore       string
	SortBy         string
	SortOrder      string
	ViewerID       *int64
}

// Plan is the compiled form of a RawFilter: independent predicates that are
// AND-combined, exactly one resolved sort, and the optional viewer.
type Plan struct {
	Predicates []sq.Sqlizer
	Genre      *string
	Sort       SortKey
	Order      SortOrder
	ViewerID   *int64
}

// Build turns raw filter input into a Plan. Values that fail to parse are
// dropped; Build never fails.
func Build(raw RawFilter) Plan {
	plan := Plan{
		Sort:     ResolveSortKey(raw.SortBy),
		Order:    ResolveSortOrder(raw.SortOrder),
		ViewerID: raw.ViewerID,
	}

	if q := strings.TrimSpace(raw.Query); q != "" {
		plan.Predicates = append(plan.Predicates,
			sq.ILike{MediaAlias + ".title": "%" + EscapeLike(q) + "%"})
	}

	if g := strings.TrimSpace(raw.Genre); g != "" {
		genre := g
		plan.Genre = &genre
		plan.Predicates = append(plan.Predicates, sq.Expr(`EXISTS (
			SELECT 1 FROM media_entry_genres fg
			JOIN genres gf ON gf.id = fg.genre_id
			WHERE fg.media_entry_id = `+MediaAlias+`.id AND gf.name = ?)`, genre))
	}

	if t, ok := model.ParseMediaType(raw.Type); ok {
		plan.Predicates = append(plan.Predicates, sq.Eq{MediaAlias + ".type": int(t)})
	}

	if y := strings.TrimSpace(raw.Year); y != "" {
		plan.Predicates = append(plan.Predicates, sq.Eq{MediaAlias + ".release_year": y})
	}

	if age, err := strconv.Atoi(strings.TrimSpace(raw.AgeRestriction)); err == nil {
		plan.Predicates = append(plan.Predicates, sq.LtOrEq{MediaAlias + ".age_restriction": age})
	}

	if minScore, ok := parseScore(raw.MinScore); ok {
		plan.Predicates = append(plan.Predicates, sq.GtOrEq{StatsAlias + ".avg_score": minScore})
	}

	return plan
}

// Where returns the plan's predicates as a single conjunction.
func (p Plan) Where() sq.And {
	return sq.And(p.Predicates)
}

// OrderBy returns the ORDER BY terms for the plan. Score sorting keeps
// entries without ratings last in both directions; media id breaks ties.
func (p Plan) OrderBy() []string {
	col, ok := sortColumns[p.Sort]
	if !ok {
		col = sortColumns[SortTitle]
	}
	dir := "ASC"
	if p.Order == SortDesc {
		dir = "DESC"
	}

	term := col + " " + dir
	if p.Sort == SortScore {
		term += " NULLS LAST"
	}
	return []string{term, MediaAlias + ".id ASC"}
}

// ResolveSortKey maps free-form input onto the whitelist, defaulting to title.
func ResolveSortKey(s string) SortKey {
	key := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := sortColumns[key]; ok {
		return key
	}
	return SortTitle
}

// ResolveSortOrder maps free-form input onto asc/desc, defaulting to asc.
func ResolveSortOrder(s string) SortOrder {
	if strings.EqualFold(strings.TrimSpace(s), string(SortDesc)) {
		return SortDesc
	}
	return SortAsc
}

// EscapeLike escapes the LIKE metacharacters so s matches literally.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func parseScore(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
