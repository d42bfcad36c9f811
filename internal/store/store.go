package store

import (
	"context"
	"errors"
	"time"

	"cashlog/backend/internal/domain"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidRecord = errors.New("invalid record")
	ErrInvalidState  = errors.New("invalid state")
	ErrDayLocked     = errors.New("day locked")
)

type Repository interface {
	CreateEntry(ctx context.Context, entry domain.CashEntry) (*domain.CashEntry, error)
	ListEntriesByShift(ctx context.Context, shiftID string) ([]domain.CashEntry, error)
	ListEntriesByDate(ctx context.Context, date string) ([]domain.CashEntry, error)
	CreateShift(ctx context.Context, shift domain.ShiftClosing) (*domain.ShiftClosing, error)
	GetShiftByID(ctx context.Context, id string) (*domain.ShiftClosing, error)
	GetOpenShift(ctx context.Context) (*domain.ShiftClosing, error)
	GetLatestFinalizedShift(ctx context.Context) (*domain.ShiftClosing, error)
	ListShiftsByDate(ctx context.Context, date string) ([]domain.ShiftClosing, error)
	ListShifts(ctx context.Context, status string, limit int) ([]domain.ShiftClosing, error)
	CloseShift(ctx context.Context, closed domain.ShiftClosing, handover domain.CashHandover) (*domain.ShiftClosing, *domain.CashHandover, error)
	SetShiftStatus(ctx context.Context, id string, from string, to string, verifiedBy string, remarks string) (*domain.ShiftClosing, error)
	CreateHandover(ctx context.Context, handover domain.CashHandover) (*domain.CashHandover, error)
	GetHandoverByID(ctx context.Context, id string) (*domain.CashHandover, error)
	ListHandovers(ctx context.Context, date string, limit int) ([]domain.CashHandover, error)
	ConfirmHandover(ctx context.Context, id string, at time.Time) (*domain.CashHandover, error)
	CreateDayLock(ctx context.Context, lock domain.DayLock) (*domain.DayLock, error)
	GetDayLock(ctx context.Context, date string) (*domain.DayLock, error)
	CreateAuditLog(ctx context.Context, entry domain.AuditLog) error
	ListAuditLogs(ctx context.Context, from time.Time, to time.Time, limit int) ([]domain.AuditLog, error)
	CreateUser(ctx context.Context, user domain.UserAccount) error
	GetUser(ctx context.Context, username string) (*domain.UserAccount, error)
	ListUsers(ctx context.Context) ([]domain.UserAccount, error)
	UpdateUserPassword(ctx context.Context, username string, password string) error
}
