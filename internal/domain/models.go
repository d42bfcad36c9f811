package domain

import "time"

// Monetary amounts are whole currency units stored as int64; the currency has
// no fractional minor units in this deployment.

type CashEntry struct {
	ID           string    `json:"id"`
	ShiftID      string    `json:"shift_id"`
	Date         string    `json:"date"`
	Seq          int64     `json:"seq"`
	InvoiceNo    string    `json:"invoice_no,omitempty"`
	CustomerName string    `json:"customer_name,omitempty"`
	Particulars  string    `json:"particulars"`
	Amount       int64     `json:"amount"`
	IsRefund     bool      `json:"is_refund"`
	PaymentMode  string    `json:"payment_mode"`
	EntryType    string    `json:"entry_type"`
	Remarks      string    `json:"remarks,omitempty"`
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
}

type EntryCreateRequest struct {
	ShiftID      string `json:"shift_id"`
	InvoiceNo    string `json:"invoice_no,omitempty"`
	CustomerName string `json:"customer_name,omitempty"`
	Particulars  string `json:"particulars"`
	Amount       int64  `json:"amount"`
	IsRefund     bool   `json:"is_refund"`
	PaymentMode  string `json:"payment_mode"`
	EntryType    string `json:"entry_type"`
	Remarks      string `json:"remarks,omitempty"`
}

type EntryResponse struct {
	Entry          CashEntry `json:"entry"`
	RunningBalance int64     `json:"running_balance"`
}

type EntryListResponse struct {
	Entries        []CashEntry `json:"entries"`
	OpeningBalance int64       `json:"opening_balance"`
	RunningBalance int64       `json:"running_balance"`
}

type ShiftClosing struct {
	ID                   string     `json:"id"`
	ShiftType            string     `json:"shift_type"`
	Date                 string     `json:"date"`
	OpeningBalance       int64      `json:"opening_balance"`
	TotalCollections     int64      `json:"total_collections"`
	TotalRefunds         int64      `json:"total_refunds"`
	TotalPOS             int64      `json:"total_pos"`
	TotalDirect          int64      `json:"total_direct"`
	TotalExpenses        int64      `json:"total_expenses"`
	SystemClosingBalance int64      `json:"system_closing_balance"`
	PhysicalCash         *int64     `json:"physical_cash,omitempty"`
	Difference           *int64     `json:"difference,omitempty"`
	MatchStatus          string     `json:"match_status,omitempty"`
	Status               string     `json:"status"`
	OpenedBy             string     `json:"opened_by"`
	OpenedAt             time.Time  `json:"opened_at"`
	ClosedBy             string     `json:"closed_by,omitempty"`
	ClosedAt             *time.Time `json:"closed_at,omitempty"`
	VerifiedBy           string     `json:"verified_by,omitempty"`
	VerifiedAt           *time.Time `json:"verified_at,omitempty"`
	Remarks              string     `json:"remarks,omitempty"`
}

type ShiftOpenRequest struct {
	ShiftType string `json:"shift_type"`
	Date      string `json:"date"`
}

type ShiftCloseRequest struct {
	ShiftID        string `json:"shift_id"`
	PhysicalCash   *int64 `json:"physical_cash"`
	HandoverToUser string `json:"handover_to_user"`
	Remarks        string `json:"remarks,omitempty"`
}

type ShiftRejectRequest struct {
	Remarks string `json:"remarks"`
}

type ShiftResponse struct {
	Shift ShiftClosing `json:"shift"`
}

type ShiftCloseResponse struct {
	Shift    ShiftClosing `json:"shift"`
	Handover CashHandover `json:"handover"`
}

type ShiftListResponse struct {
	Shifts []ShiftClosing `json:"shifts"`
}

type CashHandover struct {
	ID             string     `json:"id"`
	ShiftID        string     `json:"shift_id"`
	FromUser       string     `json:"from_user"`
	ToUser         string     `json:"to_user"`
	HandoverAmount int64      `json:"handover_amount"`
	SignatureRef   string     `json:"signature_ref,omitempty"`
	PhotoRef       string     `json:"photo_ref,omitempty"`
	Timestamp      time.Time  `json:"timestamp"`
	Confirmed      bool       `json:"confirmed"`
	ConfirmedAt    *time.Time `json:"confirmed_at,omitempty"`
}

type HandoverCreateRequest struct {
	ShiftID      string `json:"shift_id"`
	ToUser       string `json:"to_user"`
	Amount       int64  `json:"amount"`
	SignatureRef string `json:"signature_ref,omitempty"`
	PhotoRef     string `json:"photo_ref,omitempty"`
}

type HandoverResponse struct {
	Handover CashHandover `json:"handover"`
}

type HandoverListResponse struct {
	Handovers []CashHandover `json:"handovers"`
}

type DayLock struct {
	Date     string    `json:"date"`
	LockedBy string    `json:"locked_by"`
	LockedAt time.Time `json:"locked_at"`
}

type DayLockResponse struct {
	Lock DayLock `json:"lock"`
}

type DailySummary struct {
	Date             string         `json:"date"`
	Opening          int64          `json:"opening"`
	TotalCollections int64          `json:"total_collections"`
	TotalPOS         int64          `json:"total_pos"`
	TotalDirect      int64          `json:"total_direct"`
	TotalRefunds     int64          `json:"total_refunds"`
	TotalExpenses    int64          `json:"total_expenses"`
	Closing          int64          `json:"closing"`
	Locked           bool           `json:"locked"`
	Shifts           []ShiftClosing `json:"shifts"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expires_at"`
}

type Actor struct {
	Username string
	Role     string
}

type ReceptionistCreateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ReceptionistUser struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// UserAccount is an internal persistence model for auth credentials.
type UserAccount struct {
	Username  string
	Password  string
	Role      string
	Active    bool
	CreatedAt time.Time
}

type AuditLog struct {
	ID            string    `json:"id"`
	ActorUsername string    `json:"actor_username"`
	ActorRole     string    `json:"actor_role"`
	Action        string    `json:"action"`
	EntityType    string    `json:"entity_type"`
	EntityID      string    `json:"entity_id"`
	Detail        string    `json:"detail"`
	CreatedAt     time.Time `json:"created_at"`
}

const (
	ShiftTypeMorning = "morning"
	ShiftTypeEvening = "evening"
	ShiftTypeNight   = "night"
)

const (
	PaymentModeCash   = "cash"
	PaymentModePOS    = "pos"
	PaymentModeDirect = "direct"
)

const (
	EntryTypeNormal  = "normal"
	EntryTypeExpense = "expense"
)

const (
	ShiftStatusOpen     = "open"
	ShiftStatusClosed   = "closed"
	ShiftStatusPending  = "pending"
	ShiftStatusApproved = "approved"
	ShiftStatusRejected = "rejected"
)

const (
	MatchStatusMatched    = "matched"
	MatchStatusMismatched = "mismatched"
)

const (
	RoleReception  = "reception"
	RoleAccountant = "accountant"
	RoleAdmin      = "admin"
)

func IsValidShiftType(t string) bool {
	return t == ShiftTypeMorning || t == ShiftTypeEvening || t == ShiftTypeNight
}

func IsValidPaymentMode(m string) bool {
	return m == PaymentModeCash || m == PaymentModePOS || m == PaymentModeDirect
}

func IsValidEntryType(t string) bool {
	return t == EntryTypeNormal || t == EntryTypeExpense
}
