package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"referral-bot/internal/models"
)

// WithdrawalNotice is the payload the transport adapter delivers to the
// administrators after a withdrawal request is created.
type WithdrawalNotice struct {
	PaymentID     int64
	Reference     string
	UserID        int64
	AmountCents   int64
	Currency      string
	MethodType    string
	MethodDetails map[string]string
}

// CreateWithdrawal validates the amount against a freshly computed balance
// and inserts a REQUESTED payment. For point-backed campaigns the equivalent
// point cost (floor of amount over commission) is deducted through the
// points ledger in the same transaction.
//
// The balance is re-derived from committed state at request time; two
// concurrent requests can each pass the check and jointly exceed the
// available balance. Accepted limitation, see DESIGN.md.
func (l *Ledger) CreateWithdrawal(ctx context.Context, userID int64, amountCents int64, methodID int64, camp *models.Campaign) (*models.Payment, *WithdrawalNotice, error) {
	if amountCents <= 0 {
		return nil, nil, ErrInvalidAmount
	}
	if amountCents < camp.MinWithdrawCents {
		return nil, nil, ErrBelowMinimum
	}

	var method models.PayoutMethod
	err := l.db.WithContext(ctx).First(&method, methodID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && method.UserID != userID) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		l.log.WithError(err).WithField("method_id", methodID).Error("failed to load payout method")
		return nil, nil, err
	}

	var pointCost int64
	if camp.RewardType == models.RewardTypePoints && camp.CommissionCents > 0 {
		pointCost = amountCents / camp.CommissionCents
	}
	payment := models.Payment{
		Reference:   uuid.New().String(),
		UserID:      userID,
		AmountCents: amountCents,
		Status:      models.PaymentStatusRequested,
		MethodID:    methodID,
		PointCost:   pointCost,
		RequestedAt: time.Now().UTC(),
	}
	err = l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := &Ledger{db: tx, log: l.log}
		balances, err := inner.ComputeBalances(ctx, userID, camp.ID, camp.CommissionCents)
		if err != nil {
			return err
		}
		if amountCents > balances.Available() {
			return ErrInsufficientFunds
		}

		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		if pointCost > 0 {
			if err := addPoints(tx, userID, nil, -pointCost, models.PointsReasonWithdrawal); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientFunds) {
			return nil, nil, err
		}
		l.log.WithError(err).WithFields(logrus.Fields{
			"user_id":      userID,
			"amount_cents": amountCents,
			"method_id":    methodID,
		}).Error("failed to create withdrawal request")
		return nil, nil, err
	}

	l.log.WithFields(logrus.Fields{
		"user_id":      userID,
		"amount_cents": amountCents,
		"payment_id":   payment.ID,
	}).Info("withdrawal request created")

	notice := &WithdrawalNotice{
		PaymentID:     payment.ID,
		Reference:     payment.Reference,
		UserID:        userID,
		AmountCents:   amountCents,
		Currency:      camp.Currency,
		MethodType:    method.MethodType,
		MethodDetails: MethodDetails(&method),
	}
	return &payment, notice, nil
}

// MarkPaid settles a payment. The conditional update restricted to
// non-terminal statuses makes a second call a rejection: processed_at is
// stamped exactly once and the balance is never re-validated here.
func (l *Ledger) MarkPaid(ctx context.Context, paymentID int64, note string) error {
	return l.settle(ctx, paymentID, models.PaymentStatusPaid, note)
}

// RejectWithdrawal settles a payment as REJECTED.
func (l *Ledger) RejectWithdrawal(ctx context.Context, paymentID int64, note string) error {
	return l.settle(ctx, paymentID, models.PaymentStatusRejected, note)
}

// CancelWithdrawal settles a payment as CANCELED.
func (l *Ledger) CancelWithdrawal(ctx context.Context, paymentID int64, note string) error {
	return l.settle(ctx, paymentID, models.PaymentStatusCanceled, note)
}

// settle moves a payment to a terminal status. REJECTED and CANCELED refund
// the point cost deducted at creation in the same transaction, so a user
// whose request never pays out gets the points back.
func (l *Ledger) settle(ctx context.Context, paymentID int64, status, note string) error {
	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":       status,
		"processed_at": &now,
	}
	if note != "" {
		updates["note"] = note
	}
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		err := tx.First(&payment, paymentID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		res := tx.Model(&models.Payment{}).
			Where("id = ? AND status IN ?", paymentID,
				[]string{models.PaymentStatusRequested, models.PaymentStatusApproved}).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyProcessed
		}

		refund := status == models.PaymentStatusRejected || status == models.PaymentStatusCanceled
		if refund && payment.PointCost > 0 {
			return addPoints(tx, payment.UserID, nil, payment.PointCost, models.PointsReasonWithdrawalReverted)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrAlreadyProcessed) {
			return err
		}
		l.log.WithError(err).WithFields(logrus.Fields{
			"payment_id": paymentID,
			"status":     status,
		}).Error("failed to settle payment")
		return err
	}

	l.log.WithFields(logrus.Fields{
		"payment_id": paymentID,
		"status":     status,
	}).Info("payment settled")
	return nil
}

// Payment loads a single payment row.
func (l *Ledger) Payment(ctx context.Context, paymentID int64) (*models.Payment, error) {
	var payment models.Payment
	err := l.db.WithContext(ctx).First(&payment, paymentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		l.log.WithError(err).WithField("payment_id", paymentID).Error("failed to load payment")
		return nil, err
	}
	return &payment, nil
}

// StaleRequests lists REQUESTED payments older than the cutoff, used by the
// reminder worker.
func (l *Ledger) StaleRequests(ctx context.Context, olderThan time.Time) ([]models.Payment, error) {
	var payments []models.Payment
	err := l.db.WithContext(ctx).
		Where("status = ? AND requested_at < ?", models.PaymentStatusRequested, olderThan).
		Order("requested_at ASC").
		Find(&payments).Error
	if err != nil {
		l.log.WithError(err).Error("failed to list stale withdrawal requests")
		return nil, err
	}
	return payments, nil
}
