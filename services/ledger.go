package services

import (
	"errors"
	"fmt"

	"superfan/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerService owns the append-only points ledger and the lazily created
// wallet records derived from it.
type LedgerService struct {
	db *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{db: db}
}

// Append writes one immutable delta and moves the cached wallet projection in
// the same transaction. Business validation happens before this call; Append
// itself fails only on storage errors.
func (s *LedgerService) Append(tx *gorm.DB, userID, clubID uint, delta int64, reason, refID string) error {
	entry := models.LedgerEntry{
		UserID: userID,
		ClubID: clubID,
		Delta:  delta,
		Reason: reason,
		RefID:  refID,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("%w: append ledger entry: %v", ErrStore, err)
	}

	if _, err := s.GetOrCreatePointWallet(tx, userID, clubID); err != nil {
		return err
	}
	if err := tx.Model(&models.PointWallet{}).
		Where("user_id = ? AND club_id = ?", userID, clubID).
		Update("balance", gorm.Expr("balance + ?", delta)).Error; err != nil {
		return fmt.Errorf("%w: move wallet cache: %v", ErrStore, err)
	}
	return nil
}

// GetOrCreateUser resolves a user by code, creating the row on first sight.
// Insert-ignore plus re-read keeps concurrent first deliveries convergent.
func (s *LedgerService) GetOrCreateUser(tx *gorm.DB, userCode string) (*models.User, error) {
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_code"}},
		DoNothing: true,
	}).Create(&models.User{UserCode: userCode, IsActive: true})
	if res.Error != nil {
		return nil, fmt.Errorf("%w: create user: %v", ErrStore, res.Error)
	}

	var user models.User
	if err := tx.Where("user_code = ?", userCode).First(&user).Error; err != nil {
		return nil, fmt.Errorf("%w: load user: %v", ErrStore, err)
	}
	return &user, nil
}

func (s *LedgerService) GetOrCreateHouseAccount(tx *gorm.DB, userID uint) (*models.HouseAccount, error) {
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&models.HouseAccount{UserID: userID})
	if res.Error != nil {
		return nil, fmt.Errorf("%w: create house account: %v", ErrStore, res.Error)
	}

	var account models.HouseAccount
	if err := tx.Where("user_id = ?", userID).First(&account).Error; err != nil {
		return nil, fmt.Errorf("%w: load house account: %v", ErrStore, err)
	}
	return &account, nil
}

func (s *LedgerService) GetOrCreatePointWallet(tx *gorm.DB, userID, clubID uint) (*models.PointWallet, error) {
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "club_id"}},
		DoNothing: true,
	}).Create(&models.PointWallet{UserID: userID, ClubID: clubID})
	if res.Error != nil {
		return nil, fmt.Errorf("%w: create point wallet: %v", ErrStore, res.Error)
	}

	var wallet models.PointWallet
	if err := tx.Where("user_id = ? AND club_id = ?", userID, clubID).First(&wallet).Error; err != nil {
		return nil, fmt.Errorf("%w: load point wallet: %v", ErrStore, err)
	}
	return &wallet, nil
}

// CurrentBalance sums the ledger. This is the authoritative balance; the
// wallet row is only a cache of it.
func (s *LedgerService) CurrentBalance(userID, clubID uint) (int64, error) {
	var balance int64
	err := s.db.Model(&models.LedgerEntry{}).
		Where("user_id = ? AND club_id = ?", userID, clubID).
		Select("COALESCE(SUM(delta), 0)").
		Scan(&balance).Error
	if err != nil {
		return 0, fmt.Errorf("%w: sum ledger: %v", ErrStore, err)
	}
	return balance, nil
}

func (s *LedgerService) CachedBalance(userID, clubID uint) (int64, error) {
	var wallet models.PointWallet
	err := s.db.Where("user_id = ? AND club_id = ?", userID, clubID).First(&wallet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: load point wallet: %v", ErrStore, err)
	}
	return wallet.Balance, nil
}
