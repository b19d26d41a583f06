package postgres

import (
	"github.com/satsbridge/marketplace-service/internal/domain"
	"github.com/satsbridge/marketplace-service/internal/infrastructure/postgres/repository"
	"gorm.io/gorm"
)

// Store bundles the marketplace repositories over one gorm handle and
// implements domain.TxStore. RunAtomic rebinds the bundle to a transaction so
// every repository call inside the closure shares it; the escrow manager's
// transitions (status change + fund movement + listing/dispute writes) go
// through it and commit or roll back as a unit.
type Store struct {
	db       *gorm.DB
	listings *repository.DefaultListingRepository
	escrows  *repository.DefaultEscrowRepository
	disputes *repository.DefaultDisputeRepository
	ledger   *repository.DefaultLedgerRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:       db,
		listings: repository.NewDefaultListingRepository(db),
		escrows:  repository.NewDefaultEscrowRepository(db),
		disputes: repository.NewDefaultDisputeRepository(db),
		ledger:   repository.NewDefaultLedgerRepository(db),
	}
}

func (s *Store) Listings() domain.ListingRepository { return s.listings }
func (s *Store) Escrows() domain.EscrowRepository   { return s.escrows }
func (s *Store) Disputes() domain.DisputeRepository { return s.disputes }
func (s *Store) Ledger() domain.LedgerRepository    { return s.ledger }

func (s *Store) RunAtomic(fn func(domain.Stores) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
