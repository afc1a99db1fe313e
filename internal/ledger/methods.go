package ledger

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"referral-bot/internal/models"
)

// SetDefaultMethod upserts the user's payout account for a method type and
// makes it the single default. Clearing the other defaults happens in the
// same transaction as the upsert.
func (l *Ledger) SetDefaultMethod(ctx context.Context, userID int64, methodType string, details map[string]string) (*models.PayoutMethod, error) {
	payload, err := json.Marshal(details)
	if err != nil {
		return nil, err
	}

	var method models.PayoutMethod
	err = l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUser(tx, userID); err != nil {
			return err
		}
		upsert := models.PayoutMethod{
			UserID:      userID,
			MethodType:  methodType,
			DetailsJSON: string(payload),
			IsDefault:   true,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "method_type"}},
			DoUpdates: clause.AssignmentColumns([]string{"details_json", "is_default"}),
		}).Create(&upsert).Error
		if err != nil {
			return err
		}
		err = tx.Model(&models.PayoutMethod{}).
			Where("user_id = ? AND method_type <> ?", userID, methodType).
			Update("is_default", false).Error
		if err != nil {
			return err
		}
		// Re-read: on conflict-update the upsert does not report the row id.
		return tx.Where("user_id = ? AND method_type = ?", userID, methodType).First(&method).Error
	})
	if err != nil {
		l.log.WithError(err).WithField("user_id", userID).Error("failed to save payout method")
		return nil, err
	}
	return &method, nil
}

// DefaultMethod returns the user's default payout method.
func (l *Ledger) DefaultMethod(ctx context.Context, userID int64) (*models.PayoutMethod, error) {
	var method models.PayoutMethod
	err := l.db.WithContext(ctx).
		Where("user_id = ? AND is_default = ?", userID, true).
		Order("id DESC").
		First(&method).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		l.log.WithError(err).WithField("user_id", userID).Error("failed to load default payout method")
		return nil, err
	}
	return &method, nil
}

// MethodsForUser lists the user's payout methods, default first.
func (l *Ledger) MethodsForUser(ctx context.Context, userID int64) ([]models.PayoutMethod, error) {
	var methods []models.PayoutMethod
	err := l.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, id DESC").
		Find(&methods).Error
	if err != nil {
		l.log.WithError(err).WithField("user_id", userID).Error("failed to list payout methods")
		return nil, err
	}
	return methods, nil
}

// MethodDetails decodes the opaque details payload.
func MethodDetails(m *models.PayoutMethod) map[string]string {
	details := map[string]string{}
	if m == nil || m.DetailsJSON == "" {
		return details
	}
	_ = json.Unmarshal([]byte(m.DetailsJSON), &details)
	return details
}
