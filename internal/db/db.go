package db

import (
	"context"
	"database/sql"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

func New(addr string, maxOpenConns, maxIdleConns int, maxIdleTime string) (*sql.DB, error) {
	db, err := sql.Open("postgres", addr)

	if err != nil {
		return nil, err
	}

	// Passing a value less than or equal to 0 means no limit.
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)

	maxIdleDuration, err := time.ParseDuration(maxIdleTime)
	if err != nil {
		return nil, err
	}
	db.SetConnMaxIdleTime(maxIdleDuration)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	err = db.PingContext(ctx)

	if err != nil {
		return nil, err
	}

	return db, nil
}

func GenerateULID() string {
	entropy := rand.New(rand.NewSource(time.Now().UnixNano()))

	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)

	return id.String()
}
