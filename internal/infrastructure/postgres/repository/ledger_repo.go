package repository

import (
	"errors"
	"fmt"

	"github.com/satsbridge/marketplace-service/internal/domain"
	"github.com/satsbridge/marketplace-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

// DefaultLedgerRepository keeps microSTX balances. It is only ever mutated
// through the escrow manager's transitions, always inside the transaction
// that carries the rest of the state change.
type DefaultLedgerRepository struct {
	db *gorm.DB
}

func NewDefaultLedgerRepository(db *gorm.DB) *DefaultLedgerRepository {
	return &DefaultLedgerRepository{db: db}
}

func (r *DefaultLedgerRepository) GetBalance(address string) (uint64, error) {
	var accountModel models.AccountModel
	if err := r.db.First(&accountModel, "address = ?", address).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return accountModel.Balance, nil
}

func (r *DefaultLedgerRepository) Transfer(from, to string, amount uint64) error {
	if amount == 0 {
		return nil
	}
	fromBalance, err := r.GetBalance(from)
	if err != nil {
		return err
	}
	if fromBalance < amount {
		return fmt.Errorf("account %s holds %d, needs %d: %w", from, fromBalance, amount, domain.ErrInsufficientFunds)
	}
	if err := r.setBalance(from, fromBalance-amount); err != nil {
		return err
	}
	toBalance, err := r.GetBalance(to)
	if err != nil {
		return err
	}
	return r.setBalance(to, toBalance+amount)
}

func (r *DefaultLedgerRepository) Credit(address string, amount uint64) error {
	balance, err := r.GetBalance(address)
	if err != nil {
		return err
	}
	return r.setBalance(address, balance+amount)
}

func (r *DefaultLedgerRepository) setBalance(address string, balance uint64) error {
	var accountModel models.AccountModel
	err := r.db.First(&accountModel, "address = ?", address).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return r.db.Create(&models.AccountModel{Address: address, Balance: balance}).Error
	case err != nil:
		return err
	default:
		return r.db.Model(&models.AccountModel{}).
			Where("address = ?", address).
			Update("balance", balance).Error
	}
}
