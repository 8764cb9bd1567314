package http

import (
	"github.com/nats-io/nats.go"
	"github.com/samirrijal/roadwatch/internal/adapters/postgres"
	"github.com/samirrijal/roadwatch/internal/adapters/valkey"
	"github.com/samirrijal/roadwatch/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Submissions *usecases.SubmissionService
	NATS        *nats.Conn
	DB          *postgres.DB
	Cache       *valkey.Cache
}
