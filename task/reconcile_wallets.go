package tasks

import (
	"log"

	"superfan/models"

	"gorm.io/gorm"
)

// ReconcileWalletBalances recomputes every cached wallet balance from the
// ledger and reports how many rows had drifted. The ledger is the source of
// truth; the wallet row is only a projection of it.
func ReconcileWalletBalances(db *gorm.DB) (int64, error) {
	var wallets []models.PointWallet
	if err := db.Find(&wallets).Error; err != nil {
		return 0, err
	}

	var corrected int64
	for i := range wallets {
		w := &wallets[i]

		var sum int64
		if err := db.Model(&models.LedgerEntry{}).
			Where("user_id = ? AND club_id = ?", w.UserID, w.ClubID).
			Select("COALESCE(SUM(delta), 0)").
			Scan(&sum).Error; err != nil {
			return corrected, err
		}
		if sum == w.Balance {
			continue
		}

		if err := db.Model(&models.PointWallet{}).
			Where("id = ?", w.ID).
			Update("balance", sum).Error; err != nil {
			return corrected, err
		}
		log.Printf("⚠️ wallet user=%d club=%d cache drift corrected: %d -> %d", w.UserID, w.ClubID, w.Balance, sum)
		corrected++
	}
	return corrected, nil
}
