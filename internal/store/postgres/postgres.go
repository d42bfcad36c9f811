package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"cashlog/backend/internal/domain"
	"cashlog/backend/internal/store"
	"cashlog/backend/internal/xid"
)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

const shiftColumns = `id, shift_type, date, opening_balance, total_collections, total_refunds,
	total_pos, total_direct, total_expenses, system_closing_balance, physical_cash,
	difference, match_status, status, opened_by, opened_at, closed_by, closed_at,
	verified_by, verified_at, remarks`

const entryColumns = `id, shift_id, date, seq, invoice_no, customer_name, particulars, amount,
	is_refund, payment_mode, entry_type, remarks, created_by, created_at`

func (s *Store) CreateEntry(ctx context.Context, entry domain.CashEntry) (*domain.CashEntry, error) {
	if entry.ID == "" {
		entry.ID = xid.New("entry")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var shiftStatus, shiftDate string
	err = tx.QueryRowContext(ctx, `
		SELECT status, date FROM shifts WHERE id = $1 FOR UPDATE
	`, entry.ShiftID).Scan(&shiftStatus, &shiftDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	if shiftStatus != domain.ShiftStatusOpen {
		return nil, store.ErrInvalidState
	}
	if locked, err := dayLockedTx(ctx, tx, shiftDate); err != nil {
		return nil, err
	} else if locked {
		return nil, store.ErrDayLocked
	}

	entry.Date = shiftDate
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0) + 1 FROM cash_entries WHERE shift_id = $1
	`, entry.ShiftID).Scan(&entry.Seq)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO cash_entries (
			id, shift_id, date, seq, invoice_no, customer_name, particulars, amount,
			is_refund, payment_mode, entry_type, remarks, created_by, created_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`, entry.ID, entry.ShiftID, entry.Date, entry.Seq, nullIfEmpty(entry.InvoiceNo), nullIfEmpty(entry.CustomerName),
		entry.Particulars, entry.Amount, entry.IsRefund, entry.PaymentMode, entry.EntryType,
		nullIfEmpty(entry.Remarks), entry.CreatedBy, entry.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	created := entry
	return &created, nil
}

func (s *Store) ListEntriesByShift(ctx context.Context, shiftID string) ([]domain.CashEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+entryColumns+`
		FROM cash_entries
		WHERE shift_id = $1
		ORDER BY seq ASC
	`, shiftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (s *Store) ListEntriesByDate(ctx context.Context, date string) ([]domain.CashEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+entryColumns+`
		FROM cash_entries
		WHERE date = $1
		ORDER BY created_at ASC, seq ASC
	`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (s *Store) CreateShift(ctx context.Context, shift domain.ShiftClosing) (*domain.ShiftClosing, error) {
	if !domain.IsValidShiftType(shift.ShiftType) || strings.TrimSpace(shift.Date) == "" {
		return nil, store.ErrInvalidRecord
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

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if locked, err := dayLockedTx(ctx, tx, shift.Date); err != nil {
		return nil, err
	} else if locked {
		return nil, store.ErrDayLocked
	}

	var openCount int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM shifts WHERE status = 'open'`).Scan(&openCount); err != nil {
		return nil, err
	}
	if openCount > 0 {
		return nil, store.ErrInvalidState
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO shifts (
			id, shift_type, date, opening_balance, total_collections, total_refunds,
			total_pos, total_direct, total_expenses, system_closing_balance, physical_cash,
			difference, match_status, status, opened_by, opened_at, closed_by, closed_at,
			verified_by, verified_at, remarks
		)
		VALUES ($1,$2,$3,$4,0,0,0,0,0,0,NULL,NULL,NULL,$5,$6,$7,NULL,NULL,NULL,NULL,NULL)
	`, shift.ID, shift.ShiftType, shift.Date, shift.OpeningBalance, shift.Status, shift.OpenedBy, shift.OpenedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrInvalidRecord
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	saved := shift
	return &saved, nil
}

func (s *Store) GetShiftByID(ctx context.Context, id string) (*domain.ShiftClosing, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+shiftColumns+` FROM shifts WHERE id = $1
	`, id)
	shift, err := scanShift(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return shift, nil
}

func (s *Store) GetOpenShift(ctx context.Context) (*domain.ShiftClosing, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+shiftColumns+` FROM shifts WHERE status = 'open' LIMIT 1
	`)
	shift, err := scanShift(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return shift, nil
}

func (s *Store) GetLatestFinalizedShift(ctx context.Context) (*domain.ShiftClosing, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+shiftColumns+`
		FROM shifts
		WHERE closed_at IS NOT NULL
		ORDER BY closed_at DESC
		LIMIT 1
	`)
	shift, err := scanShift(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return shift, nil
}

func (s *Store) ListShiftsByDate(ctx context.Context, date string) ([]domain.ShiftClosing, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+shiftColumns+`
		FROM shifts
		WHERE date = $1
		ORDER BY CASE shift_type WHEN 'morning' THEN 0 WHEN 'evening' THEN 1 ELSE 2 END, opened_at ASC
	`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanShifts(rows)
}

func (s *Store) ListShifts(ctx context.Context, status string, limit int) ([]domain.ShiftClosing, error) {
	if limit < 1 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+shiftColumns+`
		FROM shifts
		WHERE ($1 = '' OR status = $1)
		ORDER BY opened_at DESC
		LIMIT $2
	`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanShifts(rows)
}

// CloseShift updates the shift and inserts its handover in one transaction,
// so a failure on either side leaves the shift open.
func (s *Store) CloseShift(ctx context.Context, closed domain.ShiftClosing, handover domain.CashHandover) (*domain.ShiftClosing, *domain.CashHandover, error) {
	if strings.TrimSpace(handover.ToUser) == "" {
		return nil, nil, store.ErrInvalidRecord
	}
	if handover.ID == "" {
		handover.ID = xid.New("handover")
	}
	if handover.Timestamp.IsZero() {
		handover.Timestamp = time.Now().UTC()
	}
	handover.ShiftID = closed.ID
	handover.Confirmed = false
	handover.ConfirmedAt = nil

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var date string
	if err := tx.QueryRowContext(ctx, `SELECT date FROM shifts WHERE id = $1`, closed.ID).Scan(&date); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, store.ErrNotFound
		}
		return nil, nil, err
	}
	if locked, err := dayLockedTx(ctx, tx, date); err != nil {
		return nil, nil, err
	} else if locked {
		return nil, nil, store.ErrDayLocked
	}

	row := tx.QueryRowContext(ctx, `
		UPDATE shifts
		SET total_collections = $2, total_refunds = $3, total_pos = $4, total_direct = $5,
			total_expenses = $6, system_closing_balance = $7, physical_cash = $8,
			difference = $9, match_status = $10, status = 'pending', closed_by = $11,
			closed_at = $12, remarks = $13
		WHERE id = $1 AND status = 'open'
		RETURNING `+shiftColumns+`
	`, closed.ID, closed.TotalCollections, closed.TotalRefunds, closed.TotalPOS, closed.TotalDirect,
		closed.TotalExpenses, closed.SystemClosingBalance, closed.PhysicalCash, closed.Difference,
		closed.MatchStatus, closed.ClosedBy, nullTime(closed.ClosedAt), nullIfEmpty(closed.Remarks))
	shift, err := scanShift(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// The row exists but is not open.
			return nil, nil, store.ErrInvalidState
		}
		return nil, nil, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO handovers (
			id, shift_id, from_user, to_user, amount, signature_ref, photo_ref,
			created_at, confirmed, confirmed_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,false,NULL)
	`, handover.ID, handover.ShiftID, handover.FromUser, handover.ToUser, handover.HandoverAmount,
		nullIfEmpty(handover.SignatureRef), nullIfEmpty(handover.PhotoRef), handover.Timestamp)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	saved := handover
	return shift, &saved, nil
}

func (s *Store) SetShiftStatus(ctx context.Context, id string, from string, to string, verifiedBy string, remarks string) (*domain.ShiftClosing, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var date string
	if err := tx.QueryRowContext(ctx, `SELECT date FROM shifts WHERE id = $1`, id).Scan(&date); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	if locked, err := dayLockedTx(ctx, tx, date); err != nil {
		return nil, err
	} else if locked {
		return nil, store.ErrDayLocked
	}

	var row *sql.Row
	switch to {
	case domain.ShiftStatusOpen:
		// Reopening a rejected shift: the prior count and verdict are stale
		// and must be retaken at the next close. Only one shift may be open
		// at a time.
		var openCount int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM shifts WHERE status = 'open'`).Scan(&openCount); err != nil {
			return nil, err
		}
		if openCount > 0 {
			return nil, store.ErrInvalidState
		}
		row = tx.QueryRowContext(ctx, `
			UPDATE shifts
			SET status = $3, physical_cash = NULL, difference = NULL, match_status = NULL,
				closed_by = NULL, closed_at = NULL, verified_by = NULL, verified_at = NULL,
				remarks = COALESCE(NULLIF($4, ''), remarks)
			WHERE id = $1 AND status = $2
			RETURNING `+shiftColumns+`
		`, id, from, to, remarks)
	case domain.ShiftStatusApproved, domain.ShiftStatusRejected:
		row = tx.QueryRowContext(ctx, `
			UPDATE shifts
			SET status = $3, verified_by = $5, verified_at = now(),
				remarks = COALESCE(NULLIF($4, ''), remarks)
			WHERE id = $1 AND status = $2
			RETURNING `+shiftColumns+`
		`, id, from, to, remarks, verifiedBy)
	default:
		row = tx.QueryRowContext(ctx, `
			UPDATE shifts
			SET status = $3, remarks = COALESCE(NULLIF($4, ''), remarks)
			WHERE id = $1 AND status = $2
			RETURNING `+shiftColumns+`
		`, id, from, to, remarks)
	}

	shift, err := scanShift(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrInvalidState
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return shift, nil
}

func (s *Store) CreateHandover(ctx context.Context, handover domain.CashHandover) (*domain.CashHandover, error) {
	if strings.TrimSpace(handover.ShiftID) == "" || strings.TrimSpace(handover.ToUser) == "" {
		return nil, store.ErrInvalidRecord
	}
	if handover.ID == "" {
		handover.ID = xid.New("handover")
	}
	if handover.Timestamp.IsZero() {
		handover.Timestamp = time.Now().UTC()
	}
	handover.Confirmed = false
	handover.ConfirmedAt = nil

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO handovers (
			id, shift_id, from_user, to_user, amount, signature_ref, photo_ref,
			created_at, confirmed, confirmed_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,false,NULL)
	`, handover.ID, handover.ShiftID, handover.FromUser, handover.ToUser, handover.HandoverAmount,
		nullIfEmpty(handover.SignatureRef), nullIfEmpty(handover.PhotoRef), handover.Timestamp)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	created := handover
	return &created, nil
}

func (s *Store) GetHandoverByID(ctx context.Context, id string) (*domain.CashHandover, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, shift_id, from_user, to_user, amount, signature_ref, photo_ref,
			created_at, confirmed, confirmed_at
		FROM handovers
		WHERE id = $1
	`, id)
	handover, err := scanHandover(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return handover, nil
}

func (s *Store) ListHandovers(ctx context.Context, date string, limit int) ([]domain.CashHandover, error) {
	if limit < 1 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT h.id, h.shift_id, h.from_user, h.to_user, h.amount, h.signature_ref,
			h.photo_ref, h.created_at, h.confirmed, h.confirmed_at
		FROM handovers h
		JOIN shifts s ON s.id = h.shift_id
		WHERE ($1 = '' OR s.date = $1)
		ORDER BY h.created_at DESC
		LIMIT $2
	`, date, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	handovers := make([]domain.CashHandover, 0, limit)
	for rows.Next() {
		handover, err := scanHandover(rows)
		if err != nil {
			return nil, err
		}
		handovers = append(handovers, *handover)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return handovers, nil
}

func (s *Store) ConfirmHandover(ctx context.Context, id string, at time.Time) (*domain.CashHandover, error) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	row := s.db.QueryRowContext(ctx, `
		UPDATE handovers
		SET confirmed = true, confirmed_at = $2
		WHERE id = $1 AND confirmed = false
		RETURNING id, shift_id, from_user, to_user, amount, signature_ref, photo_ref,
			created_at, confirmed, confirmed_at
	`, id, at)
	handover, err := scanHandover(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			var exists bool
			if probeErr := s.db.QueryRowContext(ctx, `SELECT true FROM handovers WHERE id = $1`, id).Scan(&exists); probeErr == nil {
				return nil, store.ErrInvalidState
			}
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return handover, nil
}

func (s *Store) CreateDayLock(ctx context.Context, lock domain.DayLock) (*domain.DayLock, error) {
	if strings.TrimSpace(lock.Date) == "" {
		return nil, store.ErrInvalidRecord
	}
	if lock.LockedAt.IsZero() {
		lock.LockedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var total, notApproved int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status <> 'approved')
		FROM shifts
		WHERE date = $1
	`, lock.Date).Scan(&total, &notApproved)
	if err != nil {
		return nil, err
	}
	if total == 0 || notApproved > 0 {
		return nil, store.ErrInvalidState
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO day_locks (date, locked_by, locked_at)
		VALUES ($1,$2,$3)
	`, lock.Date, lock.LockedBy, lock.LockedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrInvalidState
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	created := lock
	return &created, nil
}

func (s *Store) GetDayLock(ctx context.Context, date string) (*domain.DayLock, error) {
	var lock domain.DayLock
	err := s.db.QueryRowContext(ctx, `
		SELECT date, locked_by, locked_at FROM day_locks WHERE date = $1
	`, date).Scan(&lock.Date, &lock.LockedBy, &lock.LockedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	lock.LockedAt = lock.LockedAt.UTC()
	return &lock, nil
}

func (s *Store) CreateAuditLog(ctx context.Context, entry domain.AuditLog) error {
	if entry.ID == "" {
		entry.ID = xid.New("audit")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_logs (id, actor_username, actor_role, action, entity_type, entity_id, detail, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, entry.ID, entry.ActorUsername, entry.ActorRole, entry.Action, entry.EntityType, entry.EntityID, entry.Detail, entry.CreatedAt)
	return err
}

func (s *Store) ListAuditLogs(ctx context.Context, from time.Time, to time.Time, limit int) ([]domain.AuditLog, error) {
	if limit < 1 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, actor_username, actor_role, action, entity_type, entity_id, detail, created_at
		FROM audit_logs
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at DESC
		LIMIT $3
	`, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]domain.AuditLog, 0, limit)
	for rows.Next() {
		var entry domain.AuditLog
		if err := rows.Scan(&entry.ID, &entry.ActorUsername, &entry.ActorRole, &entry.Action, &entry.EntityType, &entry.EntityID, &entry.Detail, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entry.CreatedAt = entry.CreatedAt.UTC()
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

func (s *Store) CreateUser(ctx context.Context, user domain.UserAccount) error {
	user.Username = strings.ToLower(strings.TrimSpace(user.Username))
	if user.Username == "" || strings.TrimSpace(user.Password) == "" {
		return store.ErrInvalidRecord
	}
	if user.Role == "" {
		user.Role = domain.RoleReception
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_users (username, password, role, active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,now())
	`, user.Username, user.Password, user.Role, user.Active, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrInvalidRecord
		}
		return err
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, username string) (*domain.UserAccount, error) {
	var user domain.UserAccount
	err := s.db.QueryRowContext(ctx, `
		SELECT username, password, role, active, created_at
		FROM app_users
		WHERE username = $1
	`, strings.ToLower(strings.TrimSpace(username))).Scan(&user.Username, &user.Password, &user.Role, &user.Active, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	user.CreatedAt = user.CreatedAt.UTC()
	return &user, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.UserAccount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, password, role, active, created_at
		FROM app_users
		ORDER BY username
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.UserAccount, 0, 16)
	for rows.Next() {
		var user domain.UserAccount
		if err := rows.Scan(&user.Username, &user.Password, &user.Role, &user.Active, &user.CreatedAt); err != nil {
			return nil, err
		}
		user.CreatedAt = user.CreatedAt.UTC()
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) UpdateUserPassword(ctx context.Context, username string, password string) error {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || strings.TrimSpace(password) == "" {
		return store.ErrInvalidRecord
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE app_users SET password = $2, updated_at = now() WHERE username = $1
	`, username, password)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShift(row rowScanner) (*domain.ShiftClosing, error) {
	var shift domain.ShiftClosing
	var physicalCash, difference sql.NullInt64
	var matchStatus, closedBy, verifiedBy, remarks sql.NullString
	var closedAt, verifiedAt sql.NullTime

	err := row.Scan(
		&shift.ID, &shift.ShiftType, &shift.Date, &shift.OpeningBalance,
		&shift.TotalCollections, &shift.TotalRefunds, &shift.TotalPOS, &shift.TotalDirect,
		&shift.TotalExpenses, &shift.SystemClosingBalance, &physicalCash, &difference,
		&matchStatus, &shift.Status, &shift.OpenedBy, &shift.OpenedAt, &closedBy, &closedAt,
		&verifiedBy, &verifiedAt, &remarks,
	)
	if err != nil {
		return nil, err
	}

	shift.OpenedAt = shift.OpenedAt.UTC()
	if physicalCash.Valid {
		v := physicalCash.Int64
		shift.PhysicalCash = &v
	}
	if difference.Valid {
		v := difference.Int64
		shift.Difference = &v
	}
	if matchStatus.Valid {
		shift.MatchStatus = matchStatus.String
	}
	if closedBy.Valid {
		shift.ClosedBy = closedBy.String
	}
	if closedAt.Valid {
		at := closedAt.Time.UTC()
		shift.ClosedAt = &at
	}
	if verifiedBy.Valid {
		shift.VerifiedBy = verifiedBy.String
	}
	if verifiedAt.Valid {
		at := verifiedAt.Time.UTC()
		shift.VerifiedAt = &at
	}
	if remarks.Valid {
		shift.Remarks = remarks.String
	}
	return &shift, nil
}

func scanShifts(rows *sql.Rows) ([]domain.ShiftClosing, error) {
	shifts := make([]domain.ShiftClosing, 0, 8)
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, *shift)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return shifts, nil
}

func scanEntries(rows *sql.Rows) ([]domain.CashEntry, error) {
	entries := make([]domain.CashEntry, 0, 64)
	for rows.Next() {
		var entry domain.CashEntry
		var invoiceNo, customerName, remarks sql.NullString
		err := rows.Scan(
			&entry.ID, &entry.ShiftID, &entry.Date, &entry.Seq, &invoiceNo, &customerName,
			&entry.Particulars, &entry.Amount, &entry.IsRefund, &entry.PaymentMode,
			&entry.EntryType, &remarks, &entry.CreatedBy, &entry.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		entry.CreatedAt = entry.CreatedAt.UTC()
		if invoiceNo.Valid {
			entry.InvoiceNo = invoiceNo.String
		}
		if customerName.Valid {
			entry.CustomerName = customerName.String
		}
		if remarks.Valid {
			entry.Remarks = remarks.String
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func scanHandover(row rowScanner) (*domain.CashHandover, error) {
	var handover domain.CashHandover
	var signatureRef, photoRef sql.NullString
	var confirmedAt sql.NullTime

	err := row.Scan(
		&handover.ID, &handover.ShiftID, &handover.FromUser, &handover.ToUser,
		&handover.HandoverAmount, &signatureRef, &photoRef, &handover.Timestamp,
		&handover.Confirmed, &confirmedAt,
	)
	if err != nil {
		return nil, err
	}

	handover.Timestamp = handover.Timestamp.UTC()
	if signatureRef.Valid {
		handover.SignatureRef = signatureRef.String
	}
	if photoRef.Valid {
		handover.PhotoRef = photoRef.String
	}
	if confirmedAt.Valid {
		at := confirmedAt.Time.UTC()
		handover.ConfirmedAt = &at
	}
	return &handover, nil
}

func dayLockedTx(ctx context.Context, tx *sql.Tx, date string) (bool, error) {
	var locked bool
	err := tx.QueryRowContext(ctx, `SELECT true FROM day_locks WHERE date = $1`, date).Scan(&locked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return locked, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}

func nullIfEmpty(val string) any {
	if val == "" {
		return nil
	}
	return val
}

func nullTime(val *time.Time) any {
	if val == nil {
		return nil
	}
	return val.UTC()
}
