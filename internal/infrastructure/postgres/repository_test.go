package postgres_test

import (
	"context"
	"fmt"

	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
)

func startPostgres(ctx context.Context) (*pgcontainer.PostgresContainer, string, error) {
	container, err := pgcontainer.Run(ctx, "postgres:17.6-alpine3.22",
		pgcontainer.BasicWaitStrategies(),
		pgcontainer.WithInitScripts("migrations/01_schema.up.sql"),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("container.ConnectionString: %w", err)
	}

	return container, connStr, nil
}
