package ledger

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"referral-bot/internal/models"
)

const codeAttempts = 5

// AssignOrGetCode is idempotent: an already-coded user gets the same code
// back, and a phone bound to another user yields that owner's code (phone
// ownership is first-come, codes are never reassigned). Otherwise a fresh
// code is generated with a bounded retry against the unique index on
// users.code.
func (l *Ledger) AssignOrGetCode(ctx context.Context, userID int64, phoneE164, prefix, countryCode string) (string, error) {
	var user models.User
	err := l.db.WithContext(ctx).First(&user, userID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		l.log.WithError(err).WithField("user_id", userID).Error("failed to load user for code assignment")
		return "", err
	}
	if err == nil && user.Code != "" {
		return user.Code, nil
	}

	if owner, err := l.userByPhone(ctx, phoneE164); err != nil {
		return "", err
	} else if owner != nil && owner.ID != userID {
		return owner.Code, nil
	}

	for attempt := 0; attempt < codeAttempts; attempt++ {
		code := buildRandomCode(prefix)
		candidate := models.User{
			ID:          userID,
			Code:        code,
			Phone:       &phoneE164,
			CountryCode: countryCode,
		}
		err := l.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"code", "phone", "country_code"}),
		}).Create(&candidate).Error
		if err == nil {
			return code, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Which constraint lost? A code collision retries with a fresh
			// code; a phone collision means someone else claimed the phone
			// between our read and the write.
			if strings.Contains(strings.ToLower(err.Error()), "phone") {
				owner, lookupErr := l.userByPhone(ctx, phoneE164)
				if lookupErr != nil {
					return "", lookupErr
				}
				if owner != nil {
					return owner.Code, nil
				}
			}
			continue
		}
		l.log.WithError(err).WithFields(logrus.Fields{
			"user_id": userID,
			"attempt": attempt,
		}).Error("failed to persist referral code")
		return "", err
	}
	return "", ErrCodeSpaceExhausted
}

// FindUserByCode resolves a normalized code to its owner.
func (l *Ledger) FindUserByCode(ctx context.Context, code string) (int64, error) {
	var user models.User
	err := l.db.WithContext(ctx).Where("code = ?", NormalizeCode(code)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		l.log.WithError(err).Error("failed to look up code owner")
		return 0, err
	}
	return user.ID, nil
}

// CodeForUser returns the user's assigned code, or ErrNotFound if the user
// has no code yet.
func (l *Ledger) CodeForUser(ctx context.Context, userID int64) (string, error) {
	var user models.User
	err := l.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		l.log.WithError(err).WithField("user_id", userID).Error("failed to load user code")
		return "", err
	}
	if user.Code == "" {
		return "", ErrNotFound
	}
	return user.Code, nil
}

func (l *Ledger) userByPhone(ctx context.Context, phoneE164 string) (*models.User, error) {
	if phoneE164 == "" {
		return nil, nil
	}
	var user models.User
	err := l.db.WithContext(ctx).Where("phone = ?", phoneE164).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		l.log.WithError(err).Error("failed to look up phone owner")
		return nil, err
	}
	return &user, nil
}
