package httpapi

import (
	"database/sql"
	"time"

	"jobtracker/internal/events"
)

type Deps struct {
	DB *sql.DB

	// Hub, when set, receives a jobs_updated event for every change.
	Hub *events.Hub

	// Now stamps audit fields; defaults to time.Now.
	Now func() time.Time
}
