package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"cashlog/backend/internal/cache"
	"cashlog/backend/internal/domain"
	"cashlog/backend/internal/ledger"
	"cashlog/backend/internal/report"
	"cashlog/backend/internal/store"
	"cashlog/backend/internal/xid"
)

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

const summaryCacheTTL = 2 * time.Minute

type Service struct {
	repo      store.Repository
	summaries cache.SummaryCache
}

func New(repo store.Repository, summaries cache.SummaryCache) *Service {
	if summaries == nil {
		summaries = cache.NoopSummaryCache{}
	}

	return &Service{
		repo:      repo,
		summaries: summaries,
	}
}

func canRecordCash(role string) bool {
	return role == domain.RoleReception || role == domain.RoleAdmin
}

func canVerify(role string) bool {
	return role == domain.RoleAccountant || role == domain.RoleAdmin
}

func (s *Service) CreateEntry(ctx context.Context, req domain.EntryCreateRequest) (domain.EntryResponse, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || !canRecordCash(actor.Role) {
		return domain.EntryResponse{}, fmt.Errorf("reception role required")
	}

	req.ShiftID = strings.TrimSpace(req.ShiftID)
	req.Particulars = strings.TrimSpace(req.Particulars)
	req.PaymentMode = strings.ToLower(strings.TrimSpace(req.PaymentMode))
	req.EntryType = strings.ToLower(strings.TrimSpace(req.EntryType))
	if req.EntryType == "" {
		req.EntryType = domain.EntryTypeNormal
	}

	if req.ShiftID == "" || req.Particulars == "" {
		return domain.EntryResponse{}, store.ErrInvalidRecord
	}
	if req.Amount < 1 {
		return domain.EntryResponse{}, store.ErrInvalidRecord
	}
	if !domain.IsValidPaymentMode(req.PaymentMode) || !domain.IsValidEntryType(req.EntryType) {
		return domain.EntryResponse{}, store.ErrInvalidRecord
	}
	if req.EntryType == domain.EntryTypeExpense && req.IsRefund {
		return domain.EntryResponse{}, store.ErrInvalidRecord
	}

	shift, err := s.repo.GetShiftByID(ctx, req.ShiftID)
	if err != nil {
		return domain.EntryResponse{}, err
	}

	entry := domain.CashEntry{
		ID:           xid.New("entry"),
		ShiftID:      shift.ID,
		InvoiceNo:    strings.TrimSpace(req.InvoiceNo),
		CustomerName: strings.TrimSpace(req.CustomerName),
		Particulars:  req.Particulars,
		Amount:       req.Amount,
		IsRefund:     req.IsRefund,
		PaymentMode:  req.PaymentMode,
		EntryType:    req.EntryType,
		Remarks:      strings.TrimSpace(req.Remarks),
		CreatedBy:    actor.Username,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.repo.CreateEntry(ctx, entry)
	if err != nil {
		return domain.EntryResponse{}, err
	}

	entries, err := s.repo.ListEntriesByShift(ctx, shift.ID)
	if err != nil {
		return domain.EntryResponse{}, err
	}

	s.logAudit(ctx, "entry_create", "entry", created.ID, fmt.Sprintf("shift=%s,amount=%d,mode=%s,type=%s,refund=%t", shift.ID, created.Amount, created.PaymentMode, created.EntryType, created.IsRefund))
	s.invalidateSummary(ctx, shift.Date)

	return domain.EntryResponse{
		Entry:          *created,
		RunningBalance: ledger.RunningBalance(shift.OpeningBalance, entries),
	}, nil
}

func (s *Service) ListEntries(ctx context.Context, shiftID string) (domain.EntryListResponse, error) {
	shiftID = strings.TrimSpace(shiftID)
	if shiftID == "" {
		return domain.EntryListResponse{}, store.ErrInvalidRecord
	}

	shift, err := s.repo.GetShiftByID(ctx, shiftID)
	if err != nil {
		return domain.EntryListResponse{}, err
	}
	entries, err := s.repo.ListEntriesByShift(ctx, shiftID)
	if err != nil {
		return domain.EntryListResponse{}, err
	}

	return domain.EntryListResponse{
		Entries:        entries,
		OpeningBalance: shift.OpeningBalance,
		RunningBalance: ledger.RunningBalance(shift.OpeningBalance, entries),
	}, nil
}

// OpenShift carries the prior shift's counted cash forward as the new opening
// balance. The physical count wins over the computed balance when both exist:
// the drawer holds what was counted, not what the books expected.
func (s *Service) OpenShift(ctx context.Context, req domain.ShiftOpenRequest) (domain.ShiftResponse, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || !canRecordCash(actor.Role) {
		return domain.ShiftResponse{}, fmt.Errorf("reception role required")
	}

	req.ShiftType = strings.ToLower(strings.TrimSpace(req.ShiftType))
	if !domain.IsValidShiftType(req.ShiftType) {
		return domain.ShiftResponse{}, store.ErrInvalidRecord
	}
	date := strings.TrimSpace(req.Date)
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		return domain.ShiftResponse{}, store.ErrInvalidRecord
	}

	opening := int64(0)
	prior, err := s.repo.GetLatestFinalizedShift(ctx)
	switch {
	case err == nil:
		if prior.PhysicalCash != nil {
			opening = *prior.PhysicalCash
		} else {
			opening = prior.SystemClosingBalance
		}
	case errors.Is(err, store.ErrNotFound):
		// First shift ever starts from zero.
	default:
		return domain.ShiftResponse{}, err
	}

	shift := domain.ShiftClosing{
		ID:             xid.New("shift"),
		ShiftType:      req.ShiftType,
		Date:           date,
		OpeningBalance: opening,
		Status:         domain.ShiftStatusOpen,
		OpenedBy:       actor.Username,
		OpenedAt:       time.Now().UTC(),
	}
	saved, err := s.repo.CreateShift(ctx, shift)
	if err != nil {
		return domain.ShiftResponse{}, err
	}

	s.logAudit(ctx, "shift_open", "shift", saved.ID, fmt.Sprintf("type=%s,date=%s,opening=%d", saved.ShiftType, saved.Date, saved.OpeningBalance))
	s.invalidateSummary(ctx, saved.Date)

	return domain.ShiftResponse{Shift: *saved}, nil
}

func (s *Service) GetCurrentShift(ctx context.Context) (domain.ShiftResponse, error) {
	shift, err := s.repo.GetOpenShift(ctx)
	if err != nil {
		return domain.ShiftResponse{}, err
	}
	return domain.ShiftResponse{Shift: *shift}, nil
}

func (s *Service) GetShift(ctx context.Context, id string) (domain.ShiftResponse, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.ShiftResponse{}, store.ErrInvalidRecord
	}
	shift, err := s.repo.GetShiftByID(ctx, id)
	if err != nil {
		return domain.ShiftResponse{}, err
	}
	return domain.ShiftResponse{Shift: *shift}, nil
}

func (s *Service) ListShifts(ctx context.Context, status string, limit int) (domain.ShiftListResponse, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != "" {
		switch status {
		case domain.ShiftStatusOpen, domain.ShiftStatusClosed, domain.ShiftStatusPending, domain.ShiftStatusApproved, domain.ShiftStatusRejected:
		default:
			return domain.ShiftListResponse{}, store.ErrInvalidRecord
		}
	}
	if limit < 1 {
		limit = 100
	}
	shifts, err := s.repo.ListShifts(ctx, status, limit)
	if err != nil {
		return domain.ShiftListResponse{}, err
	}
	return domain.ShiftListResponse{Shifts: shifts}, nil
}

// CloseShift finalizes the shift against the physical count and records the
// matching cash handover in one step. The physical count and a handover
// recipient are both mandatory, and the recipient must be a cash-handling
// user who can later confirm receipt; a non-zero difference is allowed only
// with an explanation.
func (s *Service) CloseShift(ctx context.Context, req domain.ShiftCloseRequest) (domain.ShiftCloseResponse, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || !canRecordCash(actor.Role) {
		return domain.ShiftCloseResponse{}, fmt.Errorf("reception role required")
	}

	req.ShiftID = strings.TrimSpace(req.ShiftID)
	req.HandoverToUser = strings.ToLower(strings.TrimSpace(req.HandoverToUser))
	req.Remarks = strings.TrimSpace(req.Remarks)
	if req.ShiftID == "" || req.PhysicalCash == nil || req.HandoverToUser == "" {
		return domain.ShiftCloseResponse{}, store.ErrInvalidRecord
	}
	if req.HandoverToUser == strings.ToLower(actor.Username) {
		return domain.ShiftCloseResponse{}, store.ErrInvalidRecord
	}

	recipient, err := s.repo.GetUser(ctx, req.HandoverToUser)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.ShiftCloseResponse{}, store.ErrInvalidRecord
		}
		return domain.ShiftCloseResponse{}, err
	}
	if !recipient.Active || !canRecordCash(recipient.Role) {
		return domain.ShiftCloseResponse{}, store.ErrInvalidRecord
	}

	shift, err := s.repo.GetShiftByID(ctx, req.ShiftID)
	if err != nil {
		return domain.ShiftCloseResponse{}, err
	}
	if shift.Status != domain.ShiftStatusOpen {
		return domain.ShiftCloseResponse{}, store.ErrInvalidState
	}

	entries, err := s.repo.ListEntriesByShift(ctx, shift.ID)
	if err != nil {
		return domain.ShiftCloseResponse{}, err
	}

	totals := ledger.Aggregate(entries)
	systemClosing := ledger.SystemClosing(shift.OpeningBalance, totals)
	difference, matchStatus := ledger.Reconcile(systemClosing, *req.PhysicalCash)
	if matchStatus == domain.MatchStatusMismatched && req.Remarks == "" {
		return domain.ShiftCloseResponse{}, store.ErrInvalidRecord
	}

	closedAt := time.Now().UTC()
	closed := *shift
	closed.TotalCollections = totals.Collections
	closed.TotalRefunds = totals.Refunds
	closed.TotalPOS = totals.POS
	closed.TotalDirect = totals.Direct
	closed.TotalExpenses = totals.Expenses
	closed.SystemClosingBalance = systemClosing
	closed.PhysicalCash = req.PhysicalCash
	closed.Difference = &difference
	closed.MatchStatus = matchStatus
	closed.ClosedBy = actor.Username
	closed.ClosedAt = &closedAt
	closed.Remarks = req.Remarks

	// Shift close and handover land together or not at all; the store does
	// both under one lock/transaction.
	saved, handover, err := s.repo.CloseShift(ctx, closed, domain.CashHandover{
		ID:             xid.New("handover"),
		ShiftID:        closed.ID,
		FromUser:       actor.Username,
		ToUser:         recipient.Username,
		HandoverAmount: *req.PhysicalCash,
		Timestamp:      closedAt,
	})
	if err != nil {
		return domain.ShiftCloseResponse{}, err
	}

	s.logAudit(ctx, "shift_close", "shift", saved.ID, fmt.Sprintf("system=%d,physical=%d,diff=%d,match=%s,handover_to=%s", systemClosing, *req.PhysicalCash, difference, matchStatus, recipient.Username))
	s.invalidateSummary(ctx, saved.Date)

	return domain.ShiftCloseResponse{Shift: *saved, Handover: *handover}, nil
}

func (s *Service) ApproveShift(ctx context.Context, id string) (domain.ShiftResponse, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || !canVerify(actor.Role) {
		return domain.ShiftResponse{}, fmt.Errorf("accountant role required")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.ShiftResponse{}, store.ErrInvalidRecord
	}

	saved, err := s.repo.SetShiftStatus(ctx, id, domain.ShiftStatusPending, domain.ShiftStatusApproved, actor.Username, "")
	if err != nil {
		return domain.ShiftResponse{}, err
	}

	s.logAudit(ctx, "shift_approve", "shift", saved.ID, fmt.Sprintf("date=%s", saved.Date))
	s.invalidateSummary(ctx, saved.Date)
	return domain.ShiftResponse{Shift: *saved}, nil
}

func (s *Service) RejectShift(ctx context.Context, id string, req domain.ShiftRejectRequest) (domain.ShiftResponse, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || !canVerify(actor.Role) {
		return domain.ShiftResponse{}, fmt.Errorf("accountant role required")
	}
	id = strings.TrimSpace(id)
	req.Remarks = strings.TrimSpace(req.Remarks)
	if id == "" || req.Remarks == "" {
		return domain.ShiftResponse{}, store.ErrInvalidRecord
	}

	saved, err := s.repo.SetShiftStatus(ctx, id, domain.ShiftStatusPending, domain.ShiftStatusRejected, actor.Username, req.Remarks)
	if err != nil {
		return domain.ShiftResponse{}, err
	}

	s.logAudit(ctx, "shift_reject", "shift", saved.ID, req.Remarks)
	s.invalidateSummary(ctx, saved.Date)
	return domain.ShiftResponse{Shift: *saved}, nil
}

// ReopenShift returns a rejected shift to the open state so the reception
// user can correct its entries and close it again.
func (s *Service) ReopenShift(ctx context.Context, id string) (domain.ShiftResponse, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || !canRecordCash(actor.Role) {
		return domain.ShiftResponse{}, fmt.Errorf("reception role required")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.ShiftResponse{}, store.ErrInvalidRecord
	}

	saved, err := s.repo.SetShiftStatus(ctx, id, domain.ShiftStatusRejected, domain.ShiftStatusOpen, "", "")
	if err != nil {
		return domain.ShiftResponse{}, err
	}

	s.logAudit(ctx, "shift_reopen", "shift", saved.ID, fmt.Sprintf("date=%s", saved.Date))
	s.invalidateSummary(ctx, saved.Date)
	return domain.ShiftResponse{Shift: *saved}, nil
}

func (s *Service) RecordHandover(ctx context.Context, req domain.HandoverCreateRequest) (domain.HandoverResponse, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || !canRecordCash(actor.Role) {
		return domain.HandoverResponse{}, fmt.Errorf("reception role required")
	}

	req.ShiftID = strings.TrimSpace(req.ShiftID)
	req.ToUser = strings.ToLower(strings.TrimSpace(req.ToUser))
	if req.ShiftID == "" || req.ToUser == "" {
		return domain.HandoverResponse{}, store.ErrInvalidRecord
	}
	if req.ToUser == strings.ToLower(actor.Username) {
		return domain.HandoverResponse{}, store.ErrInvalidRecord
	}

	recipient, err := s.repo.GetUser(ctx, req.ToUser)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.HandoverResponse{}, store.ErrInvalidRecord
		}
		return domain.HandoverResponse{}, err
	}
	// The recipient takes over the drawer, so they must be a cash-handling
	// user: the confirm step is gated to those roles.
	if !recipient.Active || !canRecordCash(recipient.Role) {
		return domain.HandoverResponse{}, store.ErrInvalidRecord
	}

	shift, err := s.repo.GetShiftByID(ctx, req.ShiftID)
	if err != nil {
		return domain.HandoverResponse{}, err
	}

	// The amount handed over is the counted cash if a count was taken,
	// otherwise the system balance.
	expected := shift.SystemClosingBalance
	if shift.PhysicalCash != nil {
		expected = *shift.PhysicalCash
	}
	if req.Amount == 0 {
		req.Amount = expected
	}
	if req.Amount != expected {
		return domain.HandoverResponse{}, store.ErrInvalidRecord
	}

	handover, err := s.repo.CreateHandover(ctx, domain.CashHandover{
		ID:             xid.New("handover"),
		ShiftID:        shift.ID,
		FromUser:       actor.Username,
		ToUser:         recipient.Username,
		HandoverAmount: req.Amount,
		SignatureRef:   strings.TrimSpace(req.SignatureRef),
		PhotoRef:       strings.TrimSpace(req.PhotoRef),
		Timestamp:      time.Now().UTC(),
	})
	if err != nil {
		return domain.HandoverResponse{}, err
	}

	s.logAudit(ctx, "handover_record", "handover", handover.ID, fmt.Sprintf("shift=%s,to=%s,amount=%d", shift.ID, recipient.Username, req.Amount))
	return domain.HandoverResponse{Handover: *handover}, nil
}

// ConfirmHandover is the receiving side's acknowledgement. Only the named
// recipient (or an admin) may confirm, and only once.
func (s *Service) ConfirmHandover(ctx context.Context, id string) (domain.HandoverResponse, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return domain.HandoverResponse{}, fmt.Errorf("authentication required")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.HandoverResponse{}, store.ErrInvalidRecord
	}

	handover, err := s.repo.GetHandoverByID(ctx, id)
	if err != nil {
		return domain.HandoverResponse{}, err
	}
	if actor.Role != domain.RoleAdmin && !strings.EqualFold(handover.ToUser, actor.Username) {
		return domain.HandoverResponse{}, fmt.Errorf("handover recipient required")
	}

	confirmed, err := s.repo.ConfirmHandover(ctx, id, time.Now().UTC())
	if err != nil {
		return domain.HandoverResponse{}, err
	}

	s.logAudit(ctx, "handover_confirm", "handover", confirmed.ID, fmt.Sprintf("from=%s,amount=%d", confirmed.FromUser, confirmed.HandoverAmount))
	return domain.HandoverResponse{Handover: *confirmed}, nil
}

func (s *Service) ListHandovers(ctx context.Context, date string, limit int) (domain.HandoverListResponse, error) {
	date = strings.TrimSpace(date)
	if date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return domain.HandoverListResponse{}, store.ErrInvalidRecord
		}
	}
	if limit < 1 {
		limit = 100
	}
	handovers, err := s.repo.ListHandovers(ctx, date, limit)
	if err != nil {
		return domain.HandoverListResponse{}, err
	}
	return domain.HandoverListResponse{Handovers: handovers}, nil
}

// LockDay seals a date once every shift on it is approved. After locking, no
// entries, closings or status changes are accepted for that date.
func (s *Service) LockDay(ctx context.Context, date string) (domain.DayLockResponse, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || !canVerify(actor.Role) {
		return domain.DayLockResponse{}, fmt.Errorf("accountant role required")
	}
	date = strings.TrimSpace(date)
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return domain.DayLockResponse{}, store.ErrInvalidRecord
	}

	// Precheck so the caller learns which shifts block the lock. The store
	// re-validates under its own lock before writing.
	shifts, err := s.repo.ListShiftsByDate(ctx, date)
	if err != nil {
		return domain.DayLockResponse{}, err
	}
	var unapproved []string
	for _, shift := range shifts {
		if shift.Status != domain.ShiftStatusApproved {
			unapproved = append(unapproved, fmt.Sprintf("%s (%s)", shift.ID, shift.Status))
		}
	}
	if len(unapproved) > 0 {
		return domain.DayLockResponse{}, fmt.Errorf("%w: shifts not approved: %s", store.ErrInvalidState, strings.Join(unapproved, ", "))
	}

	lock, err := s.repo.CreateDayLock(ctx, domain.DayLock{
		Date:     date,
		LockedBy: actor.Username,
		LockedAt: time.Now().UTC(),
	})
	if err != nil {
		return domain.DayLockResponse{}, err
	}

	s.logAudit(ctx, "day_lock", "day", date, fmt.Sprintf("locked_by=%s", actor.Username))
	s.invalidateSummary(ctx, date)
	return domain.DayLockResponse{Lock: *lock}, nil
}

func (s *Service) GetDailySummary(ctx context.Context, date string) (domain.DailySummary, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		return domain.DailySummary{}, store.ErrInvalidRecord
	}

	key := summaryCacheKey(date)
	if cached, hit, err := s.summaries.Get(ctx, key); err == nil && hit {
		return *cached, nil
	} else if err != nil {
		log.Printf("[service] WARN: summary cache read failed date=%s: %v", date, err)
	}

	shifts, err := s.repo.ListShiftsByDate(ctx, date)
	if err != nil {
		return domain.DailySummary{}, err
	}

	summary := domain.DailySummary{Date: date, Shifts: shifts}
	for _, shift := range shifts {
		summary.Opening += shift.OpeningBalance
		summary.TotalCollections += shift.TotalCollections
		summary.TotalPOS += shift.TotalPOS
		summary.TotalDirect += shift.TotalDirect
		summary.TotalRefunds += shift.TotalRefunds
		summary.TotalExpenses += shift.TotalExpenses
		summary.Closing += shift.SystemClosingBalance
	}

	if _, err := s.repo.GetDayLock(ctx, date); err == nil {
		summary.Locked = true
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.DailySummary{}, err
	}

	if err := s.summaries.Set(ctx, key, &summary, summaryCacheTTL); err != nil {
		log.Printf("[service] WARN: summary cache write failed date=%s: %v", date, err)
	}

	return summary, nil
}

// DailyReport bundles the day summary with every shift and raw entry
// for the date so the caller can render it as CSV or PDF.
func (s *Service) DailyReport(ctx context.Context, date string) (report.DailyReport, error) {
	summary, err := s.GetDailySummary(ctx, date)
	if err != nil {
		return report.DailyReport{}, err
	}

	entries, err := s.repo.ListEntriesByDate(ctx, summary.Date)
	if err != nil {
		return report.DailyReport{}, err
	}

	return report.DailyReport{
		Summary: summary,
		Shifts:  summary.Shifts,
		Entries: entries,
	}, nil
}

func (s *Service) ListAuditLogs(ctx context.Context, date string, limit int) ([]domain.AuditLog, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || !canVerify(actor.Role) {
		return nil, fmt.Errorf("accountant role required")
	}
	if limit < 1 {
		limit = 100
	}

	var from time.Time
	if strings.TrimSpace(date) == "" {
		from = time.Now().UTC().Add(-24 * time.Hour)
	} else {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, store.ErrInvalidRecord
		}
		from = parsed.UTC()
	}
	to := from.Add(24 * time.Hour)

	return s.repo.ListAuditLogs(ctx, from, to, limit)
}

func (s *Service) CreateReceptionist(ctx context.Context, req domain.ReceptionistCreateRequest) (domain.ReceptionistUser, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.ReceptionistUser{}, fmt.Errorf("admin role required")
	}

	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	if req.Username == "" || len(req.Password) < 8 {
		return domain.ReceptionistUser{}, store.ErrInvalidRecord
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.ReceptionistUser{}, err
	}

	user := domain.UserAccount{
		Username:  req.Username,
		Password:  string(hash),
		Role:      domain.RoleReception,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return domain.ReceptionistUser{}, err
	}

	s.logAudit(ctx, "user_create", "user", user.Username, "role=reception")
	return domain.ReceptionistUser{
		Username:  user.Username,
		Role:      user.Role,
		Active:    user.Active,
		CreatedAt: user.CreatedAt,
	}, nil
}

func (s *Service) ListReceptionists(ctx context.Context) ([]domain.ReceptionistUser, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.ReceptionistUser, 0, len(users))
	for _, user := range users {
		if user.Role != domain.RoleReception || !user.Active {
			continue
		}
		result = append(result, domain.ReceptionistUser{
			Username:  user.Username,
			Role:      user.Role,
			Active:    user.Active,
			CreatedAt: user.CreatedAt,
		})
	}
	return result, nil
}

func summaryCacheKey(date string) string {
	return "summary:" + date
}

func (s *Service) invalidateSummary(ctx context.Context, date string) {
	if err := s.summaries.Invalidate(ctx, summaryCacheKey(date)); err != nil {
		log.Printf("[service] WARN: summary cache invalidate failed date=%s: %v", date, err)
	}
}

func (s *Service) logAudit(ctx context.Context, action string, entityType string, entityID string, detail string) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		actor = domain.Actor{Username: "system", Role: "system"}
	}

	if err := s.repo.CreateAuditLog(ctx, domain.AuditLog{
		ID:            xid.New("audit"),
		ActorUsername: actor.Username,
		ActorRole:     actor.Role,
		Action:        action,
		EntityType:    entityType,
		EntityID:      entityID,
		Detail:        detail,
		CreatedAt:     time.Now().UTC(),
	}); err != nil {
		log.Printf("[audit] WARN: failed to write audit log action=%s entity=%s/%s: %v", action, entityType, entityID, err)
	}
}
