package test

import (
	"log"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"bookingapp/internal/adapter/database/sqlite"
)

// InitTestDB opens a private in-memory database with the schema applied.
// A single connection keeps the shared-cache database alive and visible.
func InitTestDB() *sqlite.DB {
	db, err := sqlite.NewDB(sqlite.Config{
		Path:         "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		MaxOpenConns: 1,
		QueryLogger:  zerolog.Nop(),
	})

	if err != nil {
		log.Fatal(err)
	}

	return db
}
