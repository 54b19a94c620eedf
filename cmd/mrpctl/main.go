// Command mrpctl runs catalog operations directly against the database,
// bypassing the HTTP API. It reads the same configuration as the server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/rs/zerolog"

	"github.com/Klir-FH/MRP/internal/config"
	"github.com/Klir-FH/MRP/internal/db"
	"github.com/Klir-FH/MRP/internal/query"
	"github.com/Klir-FH/MRP/internal/repository"
	"github.com/Klir-FH/MRP/internal/service"
)

type cli struct {
	app     *kingpin.Application
	timeout *time.Duration

	search struct {
		cmd       *kingpin.CmdClause
		query     *string
		genre     *string
		typ       *string
		year      *string
		age       *string
		minScore  *string
		sortBy    *string
		sortOrder *string
		viewer    *int64
	}
	recommend struct {
		cmd      *kingpin.CmdClause
		user     *int64
		strategy *string
		limit    *int
	}
	setGenres struct {
		cmd    *kingpin.CmdClause
		media  *int64
		owner  *int64
		genres *[]string
	}
	stats struct {
		cmd *kingpin.CmdClause
		ids *[]int64
	}
	leaderboard struct {
		cmd   *kingpin.CmdClause
		limit *int
	}
}

func newCLI() *cli {
	c := &cli{app: kingpin.New("mrpctl", "MRP media catalog operator tool.")}
	c.timeout = c.app.Flag("timeout", "overall operation timeout").Default("30s").Duration()

	s := c.app.Command("search", "search media entries")
	c.search.cmd = s
	c.search.query = s.Flag("query", "title substring").String()
	c.search.genre = s.Flag("genre", "exact genre name").String()
	c.search.typ = s.Flag("type", "media type: movie, series, game or 0..2").String()
	c.search.year = s.Flag("year", "release year").String()
	c.search.age = s.Flag("age", "maximum age restriction").String()
	c.search.minScore = s.Flag("min-score", "minimum average score").String()
	c.search.sortBy = s.Flag("sort", "sort key").Default("title").Enum("title", "year", "score")
	c.search.sortOrder = s.Flag("order", "sort direction").Default("asc").Enum("asc", "desc")
	c.search.viewer = s.Flag("viewer", "user id for like/favorite flags").Int64()

	r := c.app.Command("recommend", "rank unseen media for a user")
	c.recommend.cmd = r
	c.recommend.user = r.Flag("user", "user id").Required().Int64()
	c.recommend.strategy = r.Flag("strategy", "ranking strategy").Default("content").Enum("content", "genre")
	c.recommend.limit = r.Flag("limit", "maximum results").Default("20").Int()

	g := c.app.Command("set-genres", "replace the genres of a media entry")
	c.setGenres.cmd = g
	c.setGenres.media = g.Arg("media-id", "media entry id").Required().Int64()
	c.setGenres.genres = g.Arg("genres", "genre names; none clears them").Strings()
	c.setGenres.owner = g.Flag("as-owner", "act as this owner instead of bypassing ownership").Int64()

	st := c.app.Command("stats", "aggregate stats for the given ids, or catalog totals")
	c.stats.cmd = st
	c.stats.ids = st.Arg("ids", "media entry ids").Int64List()

	l := c.app.Command("leaderboard", "most active raters")
	c.leaderboard.cmd = l
	c.leaderboard.limit = l.Flag("limit", "maximum results").Default("20").Int()

	return c
}

func main() {
	c := newCLI()
	command := kingpin.MustParse(c.app.Parse(os.Args[1:]))

	cfg, err := config.Load()
	c.app.FatalIfError(err, "load configuration")

	ctx, cancel := context.WithTimeout(context.Background(), *c.timeout)
	defer cancel()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	pool, err := db.NewPool(ctx, cfg.Database, log)
	c.app.FatalIfError(err, "connect to database")
	defer pool.Close()

	out, err := c.run(ctx, command, services{
		search:    service.NewSearchService(repository.NewMediaRepo(pool)),
		stats:     service.NewStatsService(repository.NewStatsRepo(pool)),
		genres:    service.NewGenreService(repository.NewGenreRepo(pool), repository.NewMediaRepo(pool)),
		recommend: service.NewRecommendationService(repository.NewRecommendationRepo(pool), cfg.Recommend),
		users:     service.NewUserService(repository.NewUserRepo(pool)),
	})
	c.app.FatalIfError(err, "%s", command)
	c.app.FatalIfError(printJSON(os.Stdout, out), "write output")
}

type services struct {
	search    *service.SearchService
	stats     *service.StatsService
	genres    *service.GenreService
	recommend *service.RecommendationService
	users     *service.UserService
}

func (c *cli) run(ctx context.Context, command string, svc services) (any, error) {
	switch command {
	case c.search.cmd.FullCommand():
		return svc.search.Search(ctx, c.searchFilter())

	case c.recommend.cmd.FullCommand():
		strategy := service.ParseStrategy(*c.recommend.strategy)
		return svc.recommend.Recommend(ctx, *c.recommend.user, strategy, *c.recommend.limit)

	case c.setGenres.cmd.FullCommand():
		var owner *int64
		if *c.setGenres.owner > 0 {
			owner = c.setGenres.owner
		}
		return svc.genres.SetGenres(ctx, *c.setGenres.media, owner, *c.setGenres.genres)

	case c.stats.cmd.FullCommand():
		if len(*c.stats.ids) == 0 {
			return svc.stats.Catalog(ctx)
		}
		return svc.stats.GetBulk(ctx, *c.stats.ids, nil)

	case c.leaderboard.cmd.FullCommand():
		return svc.users.Leaderboard(ctx, *c.leaderboard.limit)
	}
	return nil, fmt.Errorf("unknown command %q", command)
}

func (c *cli) searchFilter() query.RawFilter {
	f := query.RawFilter{
		Query:          *c.search.query,
		Genre:          *c.search.genre,
		Type:           *c.search.typ,
		Year:           *c.search.year,
		AgeRestriction: *c.search.age,
		MinScore:       *c.search.minScore,
		SortBy:         *c.search.sortBy,
		SortOrder:      *c.search.sortOrder,
	}
	if *c.search.viewer > 0 {
		f.ViewerID = c.search.viewer
	}
	return f
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
