//go:build integration || !unit

package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"review_dashboard/internal/adapters/feed"
	httpserver "review_dashboard/internal/adapters/http_server"
	redisad "review_dashboard/internal/adapters/redis"
	"review_dashboard/internal/app"
	"review_dashboard/internal/domain"
	mysqlrepo "review_dashboard/internal/storage/mysql"
)

// ---------- helpers ----------

func migrationsDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return filepath.Join("..", "..", "migrations")
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := migrationsDir()

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)
	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("dockertest unavailable: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker not reachable: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=reviews",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/reviews?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

// fakeFeedServer publishes two platform feeds; the others are missing.
func fakeFeedServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/platforms/talabat/reviews", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": "t-1", "rating": 5, "comment": "Excellent", "date": "2024-03-01", "location": "Marina", "brand": "Cafe", "reviewer": "Ana"},
			{"id": "t-2", "rating": 2, "comment": "Late", "date": "2024-02-14", "location": "JBR", "brand": "Express", "reviewer": "Bob"},
			{"id": "t-bad", "rating": 7, "comment": "broken", "date": "2024-02-14"},
		})
	})
	mux.HandleFunc("/platforms/noon/reviews", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"reviews": []map[string]any{
			{"review_id": "n-1", "score": "4", "text": "Tasty", "created_at": "2024-03-05T18:30:00Z", "branch": "Marina", "brand": "Premium", "author": "Cy"},
		}})
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

// ---------- the test ----------

func TestHTTP_EndToEnd_IngestThenDashboard(t *testing.T) {
	db := startMySQL(t)
	ctx := context.Background()

	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = cache.Close() })

	repo := mysqlrepo.New(db)
	client, err := feed.New(fakeFeedServer(t).URL, "k", 100)
	if err != nil {
		t.Fatalf("feed client: %v", err)
	}

	// ingest every registered platform
	ing := app.NewIngestionService(client, repo, cache)
	rep, err := ing.IngestAll(ctx, domain.DefaultRegistry().Keys())
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if rep.Fetched != 4 || rep.Stored != 3 || rep.Skipped != 1 {
		t.Fatalf("unexpected report: %+v", rep)
	}

	// serve from MySQL through the cache
	src := app.NewCachedSource(repo, cache, time.Minute)
	now := func() time.Time { return time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC) }
	dash := app.NewDashboardService(src, domain.DefaultRegistry(), app.DashboardOptions{TrendMonths: 3, TopLimit: 3, Now: now})
	if err := dash.Reload(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !mr.Exists(redisad.KeyPrefix + app.SnapshotCacheKey) {
		t.Fatalf("expected snapshot to be cached")
	}

	srv := httpserver.New(5 * time.Second)
	srv.MountHandlers(&httpserver.Handlers{D: dash})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	res, err := http.Get(ts.URL + "/v1/dashboard")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}
	var ov app.Overview
	if err := json.NewDecoder(res.Body).Decode(&ov); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ov.Status != app.StatusOK || ov.Total != 3 {
		t.Fatalf("unexpected overview: %+v", ov)
	}
	if ov.Ratings[0].Platform != "talabat" || ov.Ratings[0].ReviewCount != 2 || ov.Ratings[0].AverageRating != 3.5 {
		t.Fatalf("unexpected talabat rating: %+v", ov.Ratings[0])
	}
	if ov.Sentiment.Positive != 2 || ov.Sentiment.Negative != 1 {
		t.Fatalf("unexpected sentiment: %+v", ov.Sentiment)
	}

	res2, err := http.Get(ts.URL + "/v1/reviews?location=Marina")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res2.Body.Close()
	var list app.ReviewList
	if err := json.NewDecoder(res2.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if list.Matched != 2 || list.Items[0].ID != "n-1" || list.Items[1].ID != "t-1" {
		t.Fatalf("unexpected list: %+v", list)
	}
}
