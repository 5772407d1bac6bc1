package repository

import "github.com/jackc/pgx/v5/pgxpool"

type Repository struct {
	WorkRepo WorkRepositoryInterface
	BidRepo  BidRepositoryInterface
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{
		WorkRepo: NewWorkRepository(pool),
		BidRepo:  NewBidRepository(pool),
	}
}
