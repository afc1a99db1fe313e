package ledger

import (
	"errors"
)

// Business-rule rejections are expected control flow; callers discriminate
// them with errors.Is and must not log them as errors. A race lost at the
// store constraint reports the same sentinel as the synchronous rejection.
var (
	ErrInvalidCode       = errors.New("invalid referral code")
	ErrSelfReferral      = errors.New("self referral not allowed")
	ErrAlreadyReferred   = errors.New("referee already referred in campaign")
	ErrReciprocalBlocked = errors.New("reciprocal referral not allowed")
	ErrCampaignInactive  = errors.New("campaign is not active")
	ErrAlreadyApproved   = errors.New("referral already approved")
	ErrAlreadyRejected   = errors.New("referral already rejected")
	ErrInvalidPoints     = errors.New("points out of range")

	ErrInvalidAmount     = errors.New("invalid amount")
	ErrBelowMinimum      = errors.New("amount below campaign minimum")
	ErrInsufficientFunds = errors.New("insufficient available balance")
	ErrAlreadyProcessed  = errors.New("payment already processed")

	ErrNotFound           = errors.New("not found")
	ErrCodeSpaceExhausted = errors.New("could not allocate a unique code")
)
