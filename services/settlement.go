package services

import (
	"errors"
	"fmt"
	"time"

	"superfan/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettlementBreakdown splits one gross payment. The invariant
// GrossCents == PlatformFeeCents + ReserveDeltaCents + UpfrontCents holds
// exactly for every breakdown: the fee is rounded, the reserve is an exact
// peg multiple, and upfront absorbs the remainder.
type SettlementBreakdown struct {
	GrossCents        int64 `json:"gross_cents"`
	PlatformFeeCents  int64 `json:"platform_fee_cents"`
	ReserveDeltaCents int64 `json:"reserve_delta_cents"`

	// UpfrontCents may be negative when the fee plus the reserve for a heavily
	// bonused purchase exceed gross; the weekly aggregate nets it against
	// other purchases. Payout policy for a negative week lives downstream.
	UpfrontCents int64 `json:"upfront_cents"`
}

// SettlementCalculator computes what the platform keeps, reserves and
// forwards for each completed purchase, and folds the result into the
// per-club weekly aggregate.
type SettlementCalculator struct {
	platformFeeBps  int64
	unitSettleCents int64
}

func NewSettlementCalculator(platformFeeBps, unitSettleCents int64) *SettlementCalculator {
	return &SettlementCalculator{
		platformFeeBps:  platformFeeBps,
		unitSettleCents: unitSettleCents,
	}
}

// Breakdown splits grossCents for a purchase that created totalPoints of
// redemption liability. The platform fee uses banker's rounding so repeated
// small purchases drift neither up nor down.
func (s *SettlementCalculator) Breakdown(grossCents, totalPoints int64) SettlementBreakdown {
	fee := decimal.NewFromInt(grossCents).
		Mul(decimal.NewFromInt(s.platformFeeBps)).
		Div(decimal.NewFromInt(10000)).
		RoundBank(0).
		IntPart()
	reserve := s.ReserveDelta(totalPoints)

	return SettlementBreakdown{
		GrossCents:        grossCents,
		PlatformFeeCents:  fee,
		ReserveDeltaCents: reserve,
		UpfrontCents:      grossCents - fee - reserve,
	}
}

// ReserveDelta is the cost, at the internal settlement peg, of the point
// liability a purchase creates. It is money set aside, not revenue.
func (s *SettlementCalculator) ReserveDelta(totalPoints int64) int64 {
	return totalPoints * s.unitSettleCents
}

// Fold adds one breakdown into the club's weekly aggregate as a single
// upsert-increment statement, so concurrent purchases in the same week never
// lose increments. The week is the ISO week of the event's processing time.
func (s *SettlementCalculator) Fold(tx *gorm.DB, clubID uint, b SettlementBreakdown, at time.Time) error {
	year, week := at.UTC().ISOWeek()
	stat := models.WeeklyUpfrontStat{
		ClubID:            clubID,
		Year:              year,
		Week:              week,
		GrossCents:        b.GrossCents,
		PlatformFeeCents:  b.PlatformFeeCents,
		ReserveDeltaCents: b.ReserveDeltaCents,
		UpfrontCents:      b.UpfrontCents,
	}

	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "club_id"}, {Name: "year"}, {Name: "week"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"gross_cents":         gorm.Expr("gross_cents + ?", b.GrossCents),
			"platform_fee_cents":  gorm.Expr("platform_fee_cents + ?", b.PlatformFeeCents),
			"reserve_delta_cents": gorm.Expr("reserve_delta_cents + ?", b.ReserveDeltaCents),
			"upfront_cents":       gorm.Expr("upfront_cents + ?", b.UpfrontCents),
		}),
	}).Create(&stat).Error
	if err != nil {
		return fmt.Errorf("%w: fold weekly upfront stats: %v", ErrStore, err)
	}
	return nil
}

// WeeklyTotals reads the aggregate for one club week. A missing row is an
// empty week, not an error.
func (s *SettlementCalculator) WeeklyTotals(db *gorm.DB, clubID uint, year, week int) (models.WeeklyUpfrontStat, error) {
	var stat models.WeeklyUpfrontStat
	err := db.Where("club_id = ? AND year = ? AND week = ?", clubID, year, week).First(&stat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.WeeklyUpfrontStat{ClubID: clubID, Year: year, Week: week}, nil
	}
	if err != nil {
		return stat, fmt.Errorf("%w: load weekly upfront stats: %v", ErrStore, err)
	}
	return stat, nil
}
