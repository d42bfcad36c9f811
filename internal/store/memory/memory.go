package memory

import (
	"context"
	"log"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"cashlog/backend/internal/domain"
	"cashlog/backend/internal/store"
	"cashlog/backend/internal/xid"
)

type Store struct {
	mu              sync.RWMutex
	entriesByShift  map[string][]domain.CashEntry
	shiftsByID      map[string]domain.ShiftClosing
	openShiftID     string
	lastFinalizedID string
	handoversByID   map[string]domain.CashHandover
	dayLocksByDate  map[string]domain.DayLock
	auditLogs       []domain.AuditLog
	usersByUsername map[string]domain.UserAccount
}

// seedUsers builds the initial in-memory accounts for dev/demo mode.
// Credentials come from SEED_ADMIN_PASSWORD, SEED_RECEPTION_PASSWORD and
// SEED_ACCOUNTANT_PASSWORD. If unset, hardcoded dev defaults are used with a
// warning printed to stdout. These credentials are never used in production
// (the backend uses PostgreSQL when DATABASE_URL is set).
func seedUsers() map[string]domain.UserAccount {
	adminPwd := envOr("SEED_ADMIN_PASSWORD", "admin123")
	receptionPwd := envOr("SEED_RECEPTION_PASSWORD", "reception123")
	accountantPwd := envOr("SEED_ACCOUNTANT_PASSWORD", "accountant123")
	if os.Getenv("SEED_ADMIN_PASSWORD") == "" || os.Getenv("SEED_RECEPTION_PASSWORD") == "" || os.Getenv("SEED_ACCOUNTANT_PASSWORD") == "" {
		log.Println("[memory-store] WARNING: using default dev credentials. Set SEED_ADMIN_PASSWORD, SEED_RECEPTION_PASSWORD and SEED_ACCOUNTANT_PASSWORD to override.")
	}

	now := time.Now().UTC()
	users := map[string]domain.UserAccount{}
	for _, u := range []struct {
		username string
		password string
		role     string
	}{
		{"admin", adminPwd, domain.RoleAdmin},
		{"mohammed", receptionPwd, domain.RoleReception},
		{"ibrahim", receptionPwd, domain.RoleReception},
		{"fatima", receptionPwd, domain.RoleReception},
		{"ahmad", accountantPwd, domain.RoleAccountant},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("[memory-store] failed to hash seed password for %s: %v", u.username, err)
		}
		users[u.username] = domain.UserAccount{
			Username:  u.username,
			Password:  string(hash),
			Role:      u.role,
			Active:    true,
			CreatedAt: now,
		}
	}
	return users
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func New() *Store {
	return &Store{
		entriesByShift:  make(map[string][]domain.CashEntry),
		shiftsByID:      make(map[string]domain.ShiftClosing),
		handoversByID:   make(map[string]domain.CashHandover),
		dayLocksByDate:  make(map[string]domain.DayLock),
		auditLogs:       make([]domain.AuditLog, 0, 128),
		usersByUsername: make(map[string]domain.UserAccount),
	}
}

// NewSeeded returns a store preloaded with demo accounts and one approved
// prior-day shift, so a freshly opened shift has a balance to carry forward.
func NewSeeded() *Store {
	s := New()
	s.usersByUsername = seedUsers()

	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	closedAt := time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 22, 0, 0, 0, time.UTC)
	physical := int64(202424)
	diff := int64(0)
	seed := domain.ShiftClosing{
		ID:                   xid.New("shift"),
		ShiftType:            domain.ShiftTypeEvening,
		Date:                 yesterday.Format("2006-01-02"),
		OpeningBalance:       190000,
		TotalCollections:     15424,
		TotalRefunds:         2000,
		TotalExpenses:        1000,
		SystemClosingBalance: 202424,
		PhysicalCash:         &physical,
		Difference:           &diff,
		MatchStatus:          domain.MatchStatusMatched,
		Status:               domain.ShiftStatusApproved,
		OpenedBy:             "fatima",
		OpenedAt:             closedAt.Add(-8 * time.Hour),
		ClosedBy:             "fatima",
		ClosedAt:             &closedAt,
		VerifiedBy:           "ahmad",
		VerifiedAt:           &closedAt,
	}
	s.shiftsByID[seed.ID] = seed
	s.lastFinalizedID = seed.ID
	return s
}

func (s *Store) CreateEntry(_ context.Context, entry domain.CashEntry) (*domain.CashEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	shift, exists := s.shiftsByID[entry.ShiftID]
	if !exists {
		return nil, store.ErrNotFound
	}
	if shift.Status != domain.ShiftStatusOpen {
		return nil, store.ErrInvalidState
	}
	if _, locked := s.dayLocksByDate[shift.Date]; locked {
		return nil, store.ErrDayLocked
	}

	if entry.ID == "" {
		entry.ID = xid.New("entry")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	entry.Date = shift.Date
	entry.Seq = int64(len(s.entriesByShift[entry.ShiftID])) + 1

	s.entriesByShift[entry.ShiftID] = append(s.entriesByShift[entry.ShiftID], entry)
	created := entry
	return &created, nil
}

func (s *Store) ListEntriesByShift(_ context.Context, shiftID string) ([]domain.CashEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.entriesByShift[shiftID]
	result := make([]domain.CashEntry, len(entries))
	copy(result, entries)
	return result, nil
}

func (s *Store) ListEntriesByDate(_ context.Context, date string) ([]domain.CashEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.CashEntry, 0, 64)
	for shiftID, entries := range s.entriesByShift {
		shift, exists := s.shiftsByID[shiftID]
		if !exists || shift.Date != date {
			continue
		}
		result = append(result, entries...)
	}
	slices.SortFunc(result, func(a, b domain.CashEntry) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return cmpString(a.ID, b.ID)
		}
		if a.CreatedAt.Before(b.CreatedAt) {
			return -1
		}
		return 1
	})
	return result, nil
}

func (s *Store) CreateShift(_ context.Context, shift domain.ShiftClosing) (*domain.ShiftClosing, error) {
	if !domain.IsValidShiftType(shift.ShiftType) || strings.TrimSpace(shift.Date) == "" {
		return nil, store.ErrInvalidRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.openShiftID != "" {
		return nil, store.ErrInvalidState
	}
	if _, locked := s.dayLocksByDate[shift.Date]; locked {
		return nil, store.ErrDayLocked
	}
	if shift.ID == "" {
		shift.ID = xid.New("shift")
	}
	if shift.OpenedAt.IsZero() {
		shift.OpenedAt = time.Now().UTC()
	}
	shift.Status = domain.ShiftStatusOpen
	shift.PhysicalCash = nil
	shift.Difference = nil
	shift.MatchStatus = ""
	shift.ClosedBy = ""
	shift.ClosedAt = nil
	shift.VerifiedBy = ""
	shift.VerifiedAt = nil

	s.shiftsByID[shift.ID] = shift
	s.openShiftID = shift.ID
	created := shift
	return &created, nil
}

func (s *Store) GetShiftByID(_ context.Context, id string) (*domain.ShiftClosing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	shift, exists := s.shiftsByID[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyShift := cloneShift(shift)
	return &copyShift, nil
}

func (s *Store) GetOpenShift(_ context.Context) (*domain.ShiftClosing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.openShiftID == "" {
		return nil, store.ErrNotFound
	}
	shift, exists := s.shiftsByID[s.openShiftID]
	if !exists || shift.Status != domain.ShiftStatusOpen {
		return nil, store.ErrNotFound
	}
	copyShift := cloneShift(shift)
	return &copyShift, nil
}

func (s *Store) GetLatestFinalizedShift(_ context.Context) (*domain.ShiftClosing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.lastFinalizedID == "" {
		return nil, store.ErrNotFound
	}
	shift, exists := s.shiftsByID[s.lastFinalizedID]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyShift := cloneShift(shift)
	return &copyShift, nil
}

func (s *Store) ListShiftsByDate(_ context.Context, date string) ([]domain.ShiftClosing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.ShiftClosing, 0, 4)
	for _, shift := range s.shiftsByID {
		if shift.Date != date {
			continue
		}
		result = append(result, cloneShift(shift))
	}
	sortShifts(result)
	return result, nil
}

func (s *Store) ListShifts(_ context.Context, status string, limit int) ([]domain.ShiftClosing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.ShiftClosing, 0, len(s.shiftsByID))
	for _, shift := range s.shiftsByID {
		if status != "" && shift.Status != status {
			continue
		}
		result = append(result, cloneShift(shift))
	}
	slices.SortFunc(result, func(a, b domain.ShiftClosing) int {
		if a.OpenedAt.Equal(b.OpenedAt) {
			return cmpString(b.ID, a.ID)
		}
		if a.OpenedAt.After(b.OpenedAt) {
			return -1
		}
		return 1
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// CloseShift finalizes the shift and records its handover in one step; either
// both are written or neither is.
func (s *Store) CloseShift(_ context.Context, closed domain.ShiftClosing, handover domain.CashHandover) (*domain.ShiftClosing, *domain.CashHandover, error) {
	if strings.TrimSpace(handover.ToUser) == "" {
		return nil, nil, store.ErrInvalidRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	shift, exists := s.shiftsByID[closed.ID]
	if !exists {
		return nil, nil, store.ErrNotFound
	}
	if shift.Status != domain.ShiftStatusOpen {
		return nil, nil, store.ErrInvalidState
	}
	if _, locked := s.dayLocksByDate[shift.Date]; locked {
		return nil, nil, store.ErrDayLocked
	}

	shift.TotalCollections = closed.TotalCollections
	shift.TotalRefunds = closed.TotalRefunds
	shift.TotalPOS = closed.TotalPOS
	shift.TotalDirect = closed.TotalDirect
	shift.TotalExpenses = closed.TotalExpenses
	shift.SystemClosingBalance = closed.SystemClosingBalance
	shift.PhysicalCash = closed.PhysicalCash
	shift.Difference = closed.Difference
	shift.MatchStatus = closed.MatchStatus
	shift.ClosedBy = closed.ClosedBy
	shift.ClosedAt = closed.ClosedAt
	shift.Remarks = closed.Remarks
	shift.Status = domain.ShiftStatusPending

	handover.ShiftID = shift.ID
	if handover.ID == "" {
		handover.ID = xid.New("handover")
	}
	if handover.Timestamp.IsZero() {
		handover.Timestamp = time.Now().UTC()
	}
	handover.Confirmed = false
	handover.ConfirmedAt = nil

	s.shiftsByID[shift.ID] = shift
	s.handoversByID[handover.ID] = handover
	if s.openShiftID == shift.ID {
		s.openShiftID = ""
	}
	s.lastFinalizedID = shift.ID
	copyShift := cloneShift(shift)
	copyHandover := handover
	return &copyShift, &copyHandover, nil
}

func (s *Store) SetShiftStatus(_ context.Context, id string, from string, to string, verifiedBy string, remarks string) (*domain.ShiftClosing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	shift, exists := s.shiftsByID[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	if shift.Status != from {
		return nil, store.ErrInvalidState
	}
	if _, locked := s.dayLocksByDate[shift.Date]; locked {
		return nil, store.ErrDayLocked
	}

	shift.Status = to
	if remarks != "" {
		shift.Remarks = remarks
	}
	switch to {
	case domain.ShiftStatusApproved, domain.ShiftStatusRejected:
		now := time.Now().UTC()
		shift.VerifiedBy = verifiedBy
		shift.VerifiedAt = &now
	case domain.ShiftStatusOpen:
		// Reopening a rejected shift: the prior count and verdict are stale
		// and must be retaken at the next close.
		if s.openShiftID != "" {
			return nil, store.ErrInvalidState
		}
		shift.PhysicalCash = nil
		shift.Difference = nil
		shift.MatchStatus = ""
		shift.ClosedBy = ""
		shift.ClosedAt = nil
		shift.VerifiedBy = ""
		shift.VerifiedAt = nil
		s.openShiftID = shift.ID
	}
	s.shiftsByID[id] = shift
	copyShift := cloneShift(shift)
	return &copyShift, nil
}

func (s *Store) CreateHandover(_ context.Context, handover domain.CashHandover) (*domain.CashHandover, error) {
	if strings.TrimSpace(handover.ShiftID) == "" || strings.TrimSpace(handover.ToUser) == "" {
		return nil, store.ErrInvalidRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.shiftsByID[handover.ShiftID]; !exists {
		return nil, store.ErrNotFound
	}
	if handover.ID == "" {
		handover.ID = xid.New("handover")
	}
	if handover.Timestamp.IsZero() {
		handover.Timestamp = time.Now().UTC()
	}
	handover.Confirmed = false
	handover.ConfirmedAt = nil

	s.handoversByID[handover.ID] = handover
	created := handover
	return &created, nil
}

func (s *Store) GetHandoverByID(_ context.Context, id string) (*domain.CashHandover, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	handover, exists := s.handoversByID[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyHandover := handover
	return &copyHandover, nil
}

func (s *Store) ListHandovers(_ context.Context, date string, limit int) ([]domain.CashHandover, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.CashHandover, 0, len(s.handoversByID))
	for _, handover := range s.handoversByID {
		if date != "" {
			shift, exists := s.shiftsByID[handover.ShiftID]
			if !exists || shift.Date != date {
				continue
			}
		}
		result = append(result, handover)
	}
	slices.SortFunc(result, func(a, b domain.CashHandover) int {
		if a.Timestamp.Equal(b.Timestamp) {
			return cmpString(b.ID, a.ID)
		}
		if a.Timestamp.After(b.Timestamp) {
			return -1
		}
		return 1
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *Store) ConfirmHandover(_ context.Context, id string, at time.Time) (*domain.CashHandover, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	handover, exists := s.handoversByID[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	if handover.Confirmed {
		return nil, store.ErrInvalidState
	}
	if at.IsZero() {
		at = time.Now().UTC()
	}
	handover.Confirmed = true
	handover.ConfirmedAt = &at

	s.handoversByID[id] = handover
	copyHandover := handover
	return &copyHandover, nil
}

func (s *Store) CreateDayLock(_ context.Context, lock domain.DayLock) (*domain.DayLock, error) {
	if strings.TrimSpace(lock.Date) == "" {
		return nil, store.ErrInvalidRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, locked := s.dayLocksByDate[lock.Date]; locked {
		return nil, store.ErrInvalidState
	}
	found := false
	for _, shift := range s.shiftsByID {
		if shift.Date != lock.Date {
			continue
		}
		found = true
		if shift.Status != domain.ShiftStatusApproved {
			return nil, store.ErrInvalidState
		}
	}
	if !found {
		return nil, store.ErrInvalidState
	}
	if lock.LockedAt.IsZero() {
		lock.LockedAt = time.Now().UTC()
	}

	s.dayLocksByDate[lock.Date] = lock
	created := lock
	return &created, nil
}

func (s *Store) GetDayLock(_ context.Context, date string) (*domain.DayLock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lock, exists := s.dayLocksByDate[date]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyLock := lock
	return &copyLock, nil
}

func (s *Store) CreateAuditLog(_ context.Context, entry domain.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = xid.New("audit")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	s.auditLogs = append(s.auditLogs, entry)
	return nil
}

func (s *Store) ListAuditLogs(_ context.Context, from time.Time, to time.Time, limit int) ([]domain.AuditLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.AuditLog, 0, 64)
	for _, entry := range s.auditLogs {
		if entry.CreatedAt.Before(from) || !entry.CreatedAt.Before(to) {
			continue
		}
		result = append(result, entry)
	}
	slices.SortFunc(result, func(a, b domain.AuditLog) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return cmpString(b.ID, a.ID)
		}
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		return 1
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *Store) CreateUser(_ context.Context, user domain.UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	username := strings.ToLower(strings.TrimSpace(user.Username))
	if username == "" || strings.TrimSpace(user.Password) == "" {
		return store.ErrInvalidRecord
	}
	if _, exists := s.usersByUsername[username]; exists {
		return store.ErrInvalidRecord
	}
	user.Username = username
	if user.Role == "" {
		user.Role = domain.RoleReception
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.Active = true
	s.usersByUsername[user.Username] = user
	return nil
}

func (s *Store) GetUser(_ context.Context, username string) (*domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.usersByUsername[strings.ToLower(strings.TrimSpace(username))]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyUser := user
	return &copyUser, nil
}

func (s *Store) ListUsers(_ context.Context) ([]domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.UserAccount, 0, len(s.usersByUsername))
	for _, user := range s.usersByUsername {
		users = append(users, user)
	}
	slices.SortFunc(users, func(a, b domain.UserAccount) int {
		return cmpString(a.Username, b.Username)
	})
	return users, nil
}

func (s *Store) UpdateUserPassword(_ context.Context, username string, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || strings.TrimSpace(password) == "" {
		return store.ErrInvalidRecord
	}
	user, exists := s.usersByUsername[username]
	if !exists {
		return store.ErrNotFound
	}
	user.Password = password
	s.usersByUsername[username] = user
	return nil
}

func sortShifts(shifts []domain.ShiftClosing) {
	rank := map[string]int{
		domain.ShiftTypeMorning: 0,
		domain.ShiftTypeEvening: 1,
		domain.ShiftTypeNight:   2,
	}
	slices.SortFunc(shifts, func(a, b domain.ShiftClosing) int {
		if a.Date != b.Date {
			return cmpString(a.Date, b.Date)
		}
		if rank[a.ShiftType] != rank[b.ShiftType] {
			return rank[a.ShiftType] - rank[b.ShiftType]
		}
		if a.OpenedAt.Before(b.OpenedAt) {
			return -1
		}
		if a.OpenedAt.After(b.OpenedAt) {
			return 1
		}
		return cmpString(a.ID, b.ID)
	})
}

func cmpString(a string, b string) int {
	if a == b {
		return 0
	}
	if a < b {
		return -1
	}
	return 1
}

func cloneShift(src domain.ShiftClosing) domain.ShiftClosing {
	dup := src
	if src.PhysicalCash != nil {
		v := *src.PhysicalCash
		dup.PhysicalCash = &v
	}
	if src.Difference != nil {
		v := *src.Difference
		dup.Difference = &v
	}
	if src.ClosedAt != nil {
		t := *src.ClosedAt
		dup.ClosedAt = &t
	}
	if src.VerifiedAt != nil {
		t := *src.VerifiedAt
		dup.VerifiedAt = &t
	}
	return dup
}
