package query

import (
	"strings"
	"testing"

	sq "github.com/Masterminds/squirrel"
)

func render(t *testing.T, p Plan) (string, []interface{}) {
	t.Helper()
	sql, args, err := sq.Select("m.id").
		From("media_entries m").
		Where(p.Where()).
		OrderBy(p.OrderBy()...).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		t.Fatalf("ToSql() error: %v", err)
	}
	return sql, args
}

func TestBuild_EmptyFilter(t *testing.T) {
	p := Build(RawFilter{})
	if len(p.Predicates) != 0 {
		t.Errorf("predicates = %d, want 0", len(p.Predicates))
	}
	if p.Sort != SortTitle || p.Order != SortAsc {
		t.Errorf("sort = %s %s, want title asc", p.Sort, p.Order)
	}
	if p.Genre != nil {
		t.Errorf("genre = %q, want nil", *p.Genre)
	}
}

func TestBuild_DropsMalformedValues(t *testing.T) {
	tests := []struct {
		name string
		raw  RawFilter
	}{
		{"non-numeric type", RawFilter{Type: "movies!"}},
		{"unknown type code", RawFilter{Type: "7"}},
		{"non-numeric age", RawFilter{AgeRestriction: "eighteen"}},
		{"fractional age", RawFilter{AgeRestriction: "16.5"}},
		{"non-numeric min score", RawFilter{MinScore: "four"}},
		{"NaN min score", RawFilter{MinScore: "NaN"}},
		{"infinite min score", RawFilter{MinScore: "+Inf"}},
		{"blank query", RawFilter{Query: "   "}},
		{"blank year", RawFilter{Year: " "}},
		{"blank genre", RawFilter{Genre: "\t"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Build(tt.raw)
			if len(p.Predicates) != 0 {
				sql, args := render(t, p)
				t.Errorf("expected no predicates, got %q %v", sql, args)
			}
		})
	}
}

func TestBuild_AllFiltersAreBound(t *testing.T) {
	viewer := int64(7)
	p := Build(RawFilter{
		Query:          "matrix",
		Genre:          "Action",
		Type:           "0",
		Year:           "1999",
		AgeRestriction: "16",
		MinScore:       "4.0",
		SortBy:         "score",
		SortOrder:      "desc",
		ViewerID:       &viewer,
	})

	if len(p.Predicates) != 6 {
		t.Fatalf("predicates = %d, want 6", len(p.Predicates))
	}
	if p.Genre == nil || *p.Genre != "Action" {
		t.Errorf("genre = %v, want Action", p.Genre)
	}
	if p.ViewerID == nil || *p.ViewerID != 7 {
		t.Errorf("viewer = %v, want 7", p.ViewerID)
	}

	sql, args := render(t, p)
	for _, fragment := range []string{
		"m.title ILIKE $1",
		"gf.name = $2",
		"m.type = $3",
		"m.release_year = $4",
		"m.age_restriction <= $5",
		"s.avg_score >= $6",
		"ORDER BY s.avg_score DESC NULLS LAST, m.id ASC",
	} {
		if !strings.Contains(sql, fragment) {
			t.Errorf("sql missing %q:\n%s", fragment, sql)
		}
	}

	want := []interface{}{"%matrix%", "Action", 0, "1999", 16, 4.0}
	if len(args) != len(want) {
		t.Fatalf("args = %v, want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("args[%d] = %#v, want %#v", i, args[i], want[i])
		}
	}
}

func TestBuild_TypeByName(t *testing.T) {
	p := Build(RawFilter{Type: "Series"})
	_, args := render(t, p)
	if len(args) != 1 || args[0] != 1 {
		t.Errorf("args = %v, want [1]", args)
	}
}

func TestResolveSortKey(t *testing.T) {
	tests := []struct {
		input string
		want  SortKey
	}{
		{"title", SortTitle},
		{"year", SortYear},
		{"score", SortScore},
		{"SCORE", SortScore},
		{" year ", SortYear},
		{"", SortTitle},
		{"rating", SortTitle},
		{"title; DROP TABLE media_entries;--", SortTitle},
		{"m.id", SortTitle},
		{"(SELECT 1)", SortTitle},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ResolveSortKey(tt.input); got != tt.want {
				t.Errorf("ResolveSortKey(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolveSortOrder(t *testing.T) {
	tests := []struct {
		input string
		want  SortOrder
	}{
		{"asc", SortAsc},
		{"desc", SortDesc},
		{"DESC", SortDesc},
		{"", SortAsc},
		{"descending", SortAsc},
		{"desc; DELETE FROM ratings", SortAsc},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ResolveSortOrder(tt.input); got != tt.want {
				t.Errorf("ResolveSortOrder(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestOrderBy_OnlyWhitelistedColumns(t *testing.T) {
	adversarial := []string{
		"title", "year", "score", "", "1; DROP TABLE users", "avg_score DESC, (SELECT pg_sleep(10))",
	}
	allowed := map[string]bool{"m.title": true, "m.release_year": true, "s.avg_score": true}

	for _, sortBy := range adversarial {
		for _, order := range []string{"asc", "desc", "sideways"} {
			p := Build(RawFilter{SortBy: sortBy, SortOrder: order})
			terms := p.OrderBy()
			if len(terms) != 2 {
				t.Fatalf("OrderBy() = %v, want 2 terms", terms)
			}
			col := strings.Fields(terms[0])[0]
			if !allowed[col] {
				t.Errorf("sortBy=%q resolved to column %q", sortBy, col)
			}
			if terms[1] != "m.id ASC" {
				t.Errorf("tie-break term = %q, want m.id ASC", terms[1])
			}
		}
	}
}

func TestOrderBy_ScoreNullsLastBothDirections(t *testing.T) {
	for _, order := range []string{"asc", "desc"} {
		p := Build(RawFilter{SortBy: "score", SortOrder: order})
		if !strings.HasSuffix(p.OrderBy()[0], "NULLS LAST") {
			t.Errorf("order %s: %q does not end with NULLS LAST", order, p.OrderBy()[0])
		}
	}
}

func TestBuild_UserInputNeverInSQLText(t *testing.T) {
	evil := `x') OR 1=1; DROP TABLE media_entries;--`
	p := Build(RawFilter{Query: evil, Genre: evil, Year: evil, SortBy: evil, SortOrder: evil})
	sql, _ := render(t, p)
	if strings.Contains(sql, "DROP TABLE") {
		t.Errorf("user input leaked into SQL text:\n%s", sql)
	}
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"100%", `100\%`},
		{"a_b", `a\_b`},
		{`back\slash`, `back\\slash`},
	}
	for _, tt := range tests {
		if got := EscapeLike(tt.input); got != tt.want {
			t.Errorf("EscapeLike(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
