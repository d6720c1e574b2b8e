//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"github.com/AlexSkos/drinkmap/internal/domain"
	mysqlrepo "github.com/AlexSkos/drinkmap/internal/storage/mysql"
)

func TestRepo_MySQL_UpsertAndList(t *testing.T) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=drinkmap",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/drinkmap?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC", hostPort)

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

	repo := mysqlrepo.New(db)
	ctx := context.Background()

	if err := repo.Migrate(ctx); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	batch := []domain.Fountain{
		{ID: "node/1", Lat: 39.4700, Lng: -0.3760, Title: "Font de la Plaça", Note: "access: yes"},
		{ID: "way/2", Lat: 39.4800, Lng: -0.3900, Title: "Drinking fountain", PhotoKey: "node_2.jpg"},
	}
	if err := repo.UpsertFountains(ctx, batch); err != nil {
		t.Fatalf("UpsertFountains: %v", err)
	}

	// Upserting again with changed fields must refresh, not duplicate.
	batch[0].Title = "Font renovada"
	if err := repo.UpsertFountains(ctx, batch[:1]); err != nil {
		t.Fatalf("UpsertFountains (refresh): %v", err)
	}

	got, err := repo.ListFountains(ctx)
	if err != nil {
		t.Fatalf("ListFountains: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 fountains, got %d", len(got))
	}
	if got[0].ID != "node/1" || got[0].Title != "Font renovada" {
		t.Errorf("refresh not applied: %+v", got[0])
	}
	if got[1].PhotoKey != "node_2.jpg" {
		t.Errorf("photo key not round-tripped: %+v", got[1])
	}
	if got[0].Note != "access: yes" || got[1].Note != "" {
		t.Errorf("notes mismatched: %q / %q", got[0].Note, got[1].Note)
	}
}
