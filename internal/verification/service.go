// Package verification runs the referral verification state machine: one
// pending record per referee, finalized exactly once by fraud score, with
// admin override as the sole reverse path out of blocked.
package verification

import (
	"context"
	"log/slog"
	"time"

	"refguard/internal/audit"
	"refguard/internal/events"
	"refguard/internal/ledger"
	"refguard/internal/referrer"
	"refguard/internal/verification/metrics"
	"refguard/internal/verification/models"
	"refguard/internal/verification/ports"
	"refguard/pkg/domain"
	dErrors "refguard/pkg/domain-errors"
)

// MaturityAge is the minimum account age before a record may finalize.
const MaturityAge = 7 * 24 * time.Hour

// paidConversionAction is the ledger action type guarding paid-conversion
// stat increments against redelivery. Not a checklist item.
const paidConversionAction domain.ItemKey = "paidConversion"

// Service coordinates record lifecycle, scoring, and finalization.
type Service struct {
	records   ports.RecordStore
	referrers referrer.Store
	scorer    ports.Scorer
	ledger    ledger.Store
	audit     ports.AuditPublisher
	bus       *events.Bus
	metrics   *metrics.Metrics
	logger    *slog.Logger
	nowFn     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.nowFn = now }
}

// New creates the verification service.
func New(
	records ports.RecordStore,
	referrers referrer.Store,
	scorer ports.Scorer,
	ledgerStore ledger.Store,
	auditPublisher ports.AuditPublisher,
	bus *events.Bus,
	opts ...Option,
) (*Service, error) {
	if records == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "record store is required")
	}
	if referrers == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "referrer store is required")
	}
	if scorer == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "scorer is required")
	}
	if ledgerStore == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "ledger store is required")
	}
	if auditPublisher == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "audit publisher is required")
	}
	if bus == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "event bus is required")
	}

	s := &Service{
		records:   records,
		referrers: referrers,
		scorer:    scorer,
		ledger:    ledgerStore,
		audit:     auditPublisher,
		bus:       bus,
		logger:    slog.Default(),
		nowFn:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CreateVerification opens a pending record at referral-code redemption and
// bumps the referrer's referred/pending counters.
func (s *Service) CreateVerification(ctx context.Context, userID, referrerID domain.UserID, code string, signup time.Time) (*models.VerificationRecord, error) {
	if userID.IsEmpty() || referrerID.IsEmpty() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "user and referrer ids are required")
	}
	if userID == referrerID {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "self-referral is not allowed")
	}

	now := s.nowFn().UTC()
	if signup.IsZero() {
		signup = now
	}
	rec := models.NewRecord(userID, referrerID, code, signup, now)
	if err := s.records.Create(ctx, rec); err != nil {
		return nil, err
	}

	if err := s.referrers.Apply(ctx, referrerID, referrer.Delta{Referred: 1, Pending: 1}); err != nil {
		s.logger.ErrorContext(ctx, "referrer stats update failed",
			"referrer_id", referrerID,
			"error", err,
		)
	}
	s.emitAudit(ctx, audit.Event{
		UserID:     userID,
		ReferrerID: referrerID,
		Action:     audit.ActionVerificationCreated,
	})
	s.bus.Publish(events.Event{
		Type:       events.TypeVerificationCreated,
		UserID:     userID,
		ReferrerID: referrerID,
		OccurredAt: now,
	})
	s.metrics.IncrementRecordsCreated()

	s.logger.InfoContext(ctx, "verification record created",
		"user_id", userID,
		"referrer_id", referrerID,
	)
	return rec, nil
}

// Get returns the record for a user.
func (s *Service) Get(ctx context.Context, userID domain.UserID) (*models.VerificationRecord, error) {
	return s.records.Get(ctx, userID)
}

// ReferrerStats returns the aggregate counters for a referrer.
func (s *Service) ReferrerStats(ctx context.Context, referrerID domain.UserID) (*referrer.Stats, error) {
	return s.referrers.Get(ctx, referrerID)
}

// HandleCompletion is invoked after checklist progress and by the maturity
// sweep. It finalizes the record when, and only when, every gate holds:
// still pending, not deleted, not parked for review, event checklist
// complete, account old enough. Anything short of that is a quiet no-op;
// a later event or sweep pass will land here again.
func (s *Service) HandleCompletion(ctx context.Context, userID domain.UserID) error {
	rec, err := s.records.Get(ctx, userID)
	if dErrors.HasCode(err, dErrors.CodeNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if rec.Status != models.StatusPending || rec.Deleted {
		return nil
	}
	if rec.HasFlag(models.FlagFlaggedForReview) {
		// Parked for manual review. No automatic exit.
		return nil
	}
	if !rec.EventItemsComplete() {
		return nil
	}
	now := s.nowFn().UTC()
	if rec.AccountAge(now) < MaturityAge {
		return nil
	}

	// Age gate passed; record it on the checklist before finalizing.
	if _, err := s.records.CompleteItem(ctx, userID, domain.ItemAccountAge, now); err != nil {
		return err
	}

	return s.finalize(ctx, rec, now)
}

// RefreshFraud recomputes the provisional fraud score after checklist
// progress so the admin surface sees a current number mid-verification. It
// is advisory only: finalization always rescores, and records that are
// settled, deleted, or parked for review are left untouched.
func (s *Service) RefreshFraud(ctx context.Context, userID domain.UserID) error {
	rec, err := s.records.Get(ctx, userID)
	if dErrors.HasCode(err, dErrors.CodeNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if rec.Status != models.StatusPending || rec.Deleted || rec.HasFlag(models.FlagFlaggedForReview) {
		return nil
	}

	result, err := s.scorer.Score(ctx, rec)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "fraud scoring failed")
	}
	if _, err := s.records.SetFraudScore(ctx, userID, result.Total, result.Flags); err != nil {
		return err
	}
	return nil
}

func (s *Service) finalize(ctx context.Context, rec *models.VerificationRecord, now time.Time) error {
	result, err := s.scorer.Score(ctx, rec)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "fraud scoring failed")
	}

	outcome := Decide(result)
	switch outcome.Decision {
	case DecisionFlag:
		if err := s.records.FlagForReview(ctx, rec.UserID, outcome.Score, outcome.Flags, now); err != nil {
			return err
		}
		s.emitAudit(ctx, audit.Event{
			UserID:     rec.UserID,
			ReferrerID: rec.ReferrerID,
			Action:     audit.ActionReferralFlagged,
			Reason:     outcome.Reason,
			Score:      outcome.Score,
			Flags:      outcome.Flags,
		})
		s.bus.Publish(events.Event{
			Type:       events.TypeReferralFlagged,
			UserID:     rec.UserID,
			ReferrerID: rec.ReferrerID,
			Score:      outcome.Score,
			Flags:      outcome.Flags,
			Reason:     outcome.Reason,
			OccurredAt: now,
		})
		s.metrics.IncrementOutcome(string(DecisionFlag))
		s.logger.WarnContext(ctx, "referral flagged for review",
			"user_id", rec.UserID,
			"fraud_score", outcome.Score,
			"fraud_flags", outcome.Flags,
		)
		return nil

	case DecisionBlock:
		applied, err := s.records.Finalize(ctx, rec.UserID, ports.FinalizeParams{
			Blocked:       true,
			BlockedReason: outcome.Reason,
			FraudScore:    outcome.Score,
			FraudFlags:    outcome.Flags,
			At:            now,
		})
		if err != nil || !applied {
			return err
		}
		s.applyReferrerDelta(ctx, rec.ReferrerID, referrer.Delta{Blocked: 1, Pending: -1})
		s.emitAudit(ctx, audit.Event{
			UserID:     rec.UserID,
			ReferrerID: rec.ReferrerID,
			Action:     audit.ActionReferralBlocked,
			Reason:     outcome.Reason,
			Score:      outcome.Score,
			Flags:      outcome.Flags,
		})
		s.bus.Publish(events.Event{
			Type:       events.TypeReferralBlocked,
			UserID:     rec.UserID,
			ReferrerID: rec.ReferrerID,
			Score:      outcome.Score,
			Flags:      outcome.Flags,
			Reason:     outcome.Reason,
			OccurredAt: now,
		})
		s.metrics.IncrementOutcome(string(DecisionBlock))
		s.logger.WarnContext(ctx, "referral blocked",
			"user_id", rec.UserID,
			"fraud_score", outcome.Score,
			"fraud_flags", outcome.Flags,
		)
		return nil

	default:
		applied, err := s.records.Finalize(ctx, rec.UserID, ports.FinalizeParams{
			Verified:   true,
			FraudScore: outcome.Score,
			FraudFlags: outcome.Flags,
			At:         now,
		})
		if err != nil || !applied {
			return err
		}
		s.applyReferrerDelta(ctx, rec.ReferrerID, referrer.Delta{Verified: 1, Pending: -1})
		s.emitAudit(ctx, audit.Event{
			UserID:     rec.UserID,
			ReferrerID: rec.ReferrerID,
			Action:     audit.ActionReferralVerified,
			Score:      outcome.Score,
			Flags:      outcome.Flags,
		})
		s.bus.Publish(events.Event{
			Type:       events.TypeReferralVerified,
			UserID:     rec.UserID,
			ReferrerID: rec.ReferrerID,
			Score:      outcome.Score,
			OccurredAt: now,
		})
		s.metrics.IncrementOutcome(string(DecisionVerify))
		s.logger.InfoContext(ctx, "referral verified",
			"user_id", rec.UserID,
			"referrer_id", rec.ReferrerID,
			"fraud_score", outcome.Score,
		)
		return nil
	}
}

// OverrideFraud reverses a block by admin decision. The record must be
// blocked; overriding anything else is a conflict.
func (s *Service) OverrideFraud(ctx context.Context, userID domain.UserID, adminID domain.AdminID, reason, requestID string) (*models.VerificationRecord, error) {
	if reason == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "override reason is required")
	}

	rec, err := s.records.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if rec.Status != models.StatusBlocked {
		return nil, dErrors.New(dErrors.CodeConflict, "only blocked records can be overridden")
	}

	now := s.nowFn().UTC()
	applied, err := s.records.Override(ctx, userID, ports.OverrideParams{Reason: reason, At: now})
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, dErrors.New(dErrors.CodeConflict, "record left blocked state concurrently")
	}

	s.applyReferrerDelta(ctx, rec.ReferrerID, referrer.Delta{Verified: 1, Blocked: -1})
	s.emitAudit(ctx, audit.Event{
		UserID:     userID,
		ReferrerID: rec.ReferrerID,
		Action:     audit.ActionFraudOverride,
		Reason:     reason,
		PriorScore: rec.FraudScore,
		PriorFlags: rec.FraudFlags,
		ActorID:    adminID.String(),
		RequestID:  requestID,
	})
	s.bus.Publish(events.Event{
		Type:       events.TypeReferralVerified,
		UserID:     userID,
		ReferrerID: rec.ReferrerID,
		Reason:     reason,
		OccurredAt: now,
	})
	s.metrics.IncrementOverride()

	s.logger.InfoContext(ctx, "fraud block overridden",
		"user_id", userID,
		"admin_id", adminID,
		"prior_score", rec.FraudScore,
	)
	return s.records.Get(ctx, userID)
}

// MarkDeleted soft-deletes a record on account deletion. The record and its
// audit trail survive; event processing stops touching it.
func (s *Service) MarkDeleted(ctx context.Context, userID domain.UserID) error {
	rec, err := s.records.Get(ctx, userID)
	if dErrors.HasCode(err, dErrors.CodeNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if rec.Deleted {
		return nil
	}

	now := s.nowFn().UTC()
	if err := s.records.MarkDeleted(ctx, userID, now); err != nil {
		return err
	}
	if rec.Status == models.StatusPending {
		s.applyReferrerDelta(ctx, rec.ReferrerID, referrer.Delta{Pending: -1})
	}
	s.emitAudit(ctx, audit.Event{
		UserID:     userID,
		ReferrerID: rec.ReferrerID,
		Action:     audit.ActionRecordDeleted,
	})
	return nil
}

// RecordPaidConversion bumps the referrer's paid-conversion counter when a
// referee converts to a paid plan. Guarded by the ledger so billing-event
// redelivery cannot double count.
func (s *Service) RecordPaidConversion(ctx context.Context, userID domain.UserID, invoiceID domain.ActionID) error {
	rec, err := s.records.Get(ctx, userID)
	if dErrors.HasCode(err, dErrors.CodeNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if rec.Deleted {
		return nil
	}

	counted, _, err := s.ledger.MarkCounted(ctx, userID, paidConversionAction, invoiceID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "record paid conversion in ledger")
	}
	if !counted {
		return nil
	}
	return s.referrers.Apply(ctx, rec.ReferrerID, referrer.Delta{PaidConversions: 1})
}

func (s *Service) applyReferrerDelta(ctx context.Context, referrerID domain.UserID, delta referrer.Delta) {
	if err := s.referrers.Apply(ctx, referrerID, delta); err != nil {
		s.logger.ErrorContext(ctx, "referrer stats update failed",
			"referrer_id", referrerID,
			"error", err,
		)
	}
}

func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	event.Timestamp = s.nowFn().UTC()
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "audit emit failed",
			"user_id", event.UserID,
			"action", event.Action,
			"error", err,
		)
	}
}
