package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Repository struct {
	Locations LocationStoreInterface
	Works     WorkReaderInterface
}

func New(pool *pgxpool.Pool, rdb *redis.Client) *Repository {
	return &Repository{
		Locations: NewLocationStore(rdb),
		Works:     NewWorkReader(pool),
	}
}
