package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"cashlog/backend/internal/domain"
	"cashlog/backend/internal/store"
	"cashlog/backend/internal/store/memory"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	repo := memory.New()
	for _, u := range []struct {
		username string
		role     string
	}{
		{"mohammed", domain.RoleReception},
		{"ibrahim", domain.RoleReception},
		{"ahmad", domain.RoleAccountant},
		{"admin", domain.RoleAdmin},
	} {
		err := repo.CreateUser(context.Background(), domain.UserAccount{
			Username: u.username,
			Password: "x-not-used-x",
			Role:     u.role,
		})
		if err != nil {
			t.Fatalf("seed user %s: %v", u.username, err)
		}
	}
	return New(repo, nil)
}

func receptionCtx(username string) context.Context {
	return WithActor(context.Background(), domain.Actor{Username: username, Role: domain.RoleReception})
}

func accountantCtx() context.Context {
	return WithActor(context.Background(), domain.Actor{Username: "ahmad", Role: domain.RoleAccountant})
}

func int64p(v int64) *int64 {
	return &v
}

func mustOpenShift(t *testing.T, svc *Service, ctx context.Context) domain.ShiftClosing {
	t.Helper()
	resp, err := svc.OpenShift(ctx, domain.ShiftOpenRequest{ShiftType: domain.ShiftTypeMorning})
	if err != nil {
		t.Fatalf("open shift failed: %v", err)
	}
	return resp.Shift
}

func mustCreateEntry(t *testing.T, svc *Service, ctx context.Context, shiftID string, amount int64, mode string, entryType string, refund bool) {
	t.Helper()
	_, err := svc.CreateEntry(ctx, domain.EntryCreateRequest{
		ShiftID:     shiftID,
		Particulars: "test entry",
		Amount:      amount,
		PaymentMode: mode,
		EntryType:   entryType,
		IsRefund:    refund,
	})
	if err != nil {
		t.Fatalf("create entry failed: %v", err)
	}
}

func TestCreateEntryValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := receptionCtx("mohammed")
	shift := mustOpenShift(t, svc, ctx)

	cases := []struct {
		name string
		req  domain.EntryCreateRequest
	}{
		{"zero amount", domain.EntryCreateRequest{ShiftID: shift.ID, Particulars: "x", Amount: 0, PaymentMode: "cash", EntryType: "normal"}},
		{"negative amount", domain.EntryCreateRequest{ShiftID: shift.ID, Particulars: "x", Amount: -100, PaymentMode: "cash", EntryType: "normal"}},
		{"blank particulars", domain.EntryCreateRequest{ShiftID: shift.ID, Particulars: "  ", Amount: 100, PaymentMode: "cash", EntryType: "normal"}},
		{"bad payment mode", domain.EntryCreateRequest{ShiftID: shift.ID, Particulars: "x", Amount: 100, PaymentMode: "cheque", EntryType: "normal"}},
		{"refund expense", domain.EntryCreateRequest{ShiftID: shift.ID, Particulars: "x", Amount: 100, PaymentMode: "cash", EntryType: "expense", IsRefund: true}},
	}
	for _, tc := range cases {
		if _, err := svc.CreateEntry(ctx, tc.req); !errors.Is(err, store.ErrInvalidRecord) {
			t.Errorf("%s: expected ErrInvalidRecord, got %v", tc.name, err)
		}
	}
}

func TestCreateEntryRequiresReceptionRole(t *testing.T) {
	svc := newTestService(t)
	shift := mustOpenShift(t, svc, receptionCtx("mohammed"))

	_, err := svc.CreateEntry(accountantCtx(), domain.EntryCreateRequest{
		ShiftID:     shift.ID,
		Particulars: "x",
		Amount:      100,
		PaymentMode: "cash",
		EntryType:   "normal",
	})
	if err == nil {
		t.Fatalf("expected accountant to be refused entry creation")
	}
}

func TestShiftTotalsSampleScenario(t *testing.T) {
	svc := newTestService(t)
	ctx := receptionCtx("mohammed")

	// Prior shift establishes the 202424 carry.
	first := mustOpenShift(t, svc, ctx)
	mustCreateEntry(t, svc, ctx, first.ID, 202424, "cash", "normal", false)
	_, err := svc.CloseShift(ctx, domain.ShiftCloseRequest{
		ShiftID:        first.ID,
		PhysicalCash:   int64p(202424),
		HandoverToUser: "ibrahim",
	})
	if err != nil {
		t.Fatalf("close first shift failed: %v", err)
	}

	second := mustOpenShift(t, svc, ctx)
	if second.OpeningBalance != 202424 {
		t.Fatalf("expected opening 202424, got %d", second.OpeningBalance)
	}

	mustCreateEntry(t, svc, ctx, second.ID, 15000, "cash", "normal", false)
	mustCreateEntry(t, svc, ctx, second.ID, 25000, "pos", "normal", false)
	mustCreateEntry(t, svc, ctx, second.ID, 8000, "cash", "normal", true)
	mustCreateEntry(t, svc, ctx, second.ID, 500, "cash", "expense", false)
	mustCreateEntry(t, svc, ctx, second.ID, 18000, "direct", "normal", false)

	listed, err := svc.ListEntries(ctx, second.ID)
	if err != nil {
		t.Fatalf("list entries failed: %v", err)
	}
	if listed.RunningBalance != 251924 {
		t.Fatalf("expected running balance 251924, got %d", listed.RunningBalance)
	}

	closed, err := svc.CloseShift(ctx, domain.ShiftCloseRequest{
		ShiftID:        second.ID,
		PhysicalCash:   int64p(251924),
		HandoverToUser: "ibrahim",
	})
	if err != nil {
		t.Fatalf("close second shift failed: %v", err)
	}

	shift := closed.Shift
	if shift.SystemClosingBalance != 251924 {
		t.Errorf("system closing = %d, want 251924", shift.SystemClosingBalance)
	}
	if shift.TotalCollections != 58000 || shift.TotalRefunds != 8000 || shift.TotalPOS != 25000 || shift.TotalDirect != 18000 || shift.TotalExpenses != 500 {
		t.Errorf("totals = %+v, want collections=58000 refunds=8000 pos=25000 direct=18000 expenses=500", shift)
	}
	if shift.MatchStatus != domain.MatchStatusMatched || shift.Difference == nil || *shift.Difference != 0 {
		t.Errorf("expected matched close with zero difference, got %s %v", shift.MatchStatus, shift.Difference)
	}
	if shift.Status != domain.ShiftStatusPending {
		t.Errorf("expected pending status after close, got %s", shift.Status)
	}
	if closed.Handover.ToUser != "ibrahim" || closed.Handover.HandoverAmount != 251924 {
		t.Errorf("handover = %+v, want to=ibrahim amount=251924", closed.Handover)
	}
	if closed.Handover.Confirmed {
		t.Errorf("handover must start unconfirmed")
	}
}

func TestCloseShiftRequiresPhysicalCash(t *testing.T) {
	svc := newTestService(t)
	ctx := receptionCtx("mohammed")
	shift := mustOpenShift(t, svc, ctx)

	_, err := svc.CloseShift(ctx, domain.ShiftCloseRequest{
		ShiftID:        shift.ID,
		HandoverToUser: "ibrahim",
	})
	if !errors.Is(err, store.ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord without physical cash, got %v", err)
	}
}

func TestCloseShiftRequiresHandoverRecipient(t *testing.T) {
	svc := newTestService(t)
	ctx := receptionCtx("mohammed")
	shift := mustOpenShift(t, svc, ctx)

	_, err := svc.CloseShift(ctx, domain.ShiftCloseRequest{
		ShiftID:      shift.ID,
		PhysicalCash: int64p(0),
	})
	if !errors.Is(err, store.ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord without recipient, got %v", err)
	}

	_, err = svc.CloseShift(ctx, domain.ShiftCloseRequest{
		ShiftID:        shift.ID,
		PhysicalCash:   int64p(0),
		HandoverToUser: "nobody",
	})
	if !errors.Is(err, store.ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord for unknown recipient, got %v", err)
	}

	_, err = svc.CloseShift(ctx, domain.ShiftCloseRequest{
		ShiftID:        shift.ID,
		PhysicalCash:   int64p(0),
		HandoverToUser: "mohammed",
	})
	if !errors.Is(err, store.ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord for self handover, got %v", err)
	}
}

func TestCloseShiftMismatchRequiresRemarks(t *testing.T) {
	svc := newTestService(t)
	ctx := receptionCtx("mohammed")
	shift := mustOpenShift(t, svc, ctx)
	mustCreateEntry(t, svc, ctx, shift.ID, 247000, "cash", "normal", false)

	_, err := svc.CloseShift(ctx, domain.ShiftCloseRequest{
		ShiftID:        shift.ID,
		PhysicalCash:   int64p(246500),
		HandoverToUser: "ibrahim",
	})
	if !errors.Is(err, store.ErrInvalidRecord) {
		t.Fatalf("expected mismatch without remarks to be rejected, got %v", err)
	}

	closed, err := svc.CloseShift(ctx, domain.ShiftCloseRequest{
		ShiftID:        shift.ID,
		PhysicalCash:   int64p(246500),
		HandoverToUser: "ibrahim",
		Remarks:        "short 500, till drawer jammed during evening rush",
	})
	if err != nil {
		t.Fatalf("mismatch close with remarks failed: %v", err)
	}
	if closed.Shift.MatchStatus != domain.MatchStatusMismatched {
		t.Errorf("expected mismatched status, got %s", closed.Shift.MatchStatus)
	}
	if closed.Shift.Difference == nil || *closed.Shift.Difference != -500 {
		t.Errorf("expected difference -500, got %v", closed.Shift.Difference)
	}
}

func TestCloseShiftTwiceRejected(t *testing.T) {
	svc := newTestService(t)
	ctx := receptionCtx("mohammed")
	shift := mustOpenShift(t, svc, ctx)

	req := domain.ShiftCloseRequest{
		ShiftID:        shift.ID,
		PhysicalCash:   int64p(0),
		HandoverToUser: "ibrahim",
	}
	if _, err := svc.CloseShift(ctx, req); err != nil {
		t.Fatalf("first close failed: %v", err)
	}
	if _, err := svc.CloseShift(ctx, req); !errors.Is(err, store.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on double close, got %v", err)
	}
}

func TestOpeningBalanceCarriesPhysicalCount(t *testing.T) {
	svc := newTestService(t)
	ctx := receptionCtx("mohammed")
	shift := mustOpenShift(t, svc, ctx)
	mustCreateEntry(t, svc, ctx, shift.ID, 247000, "cash", "normal", false)

	_, err := svc.CloseShift(ctx, domain.ShiftCloseRequest{
		ShiftID:        shift.ID,
		PhysicalCash:   int64p(246500),
		HandoverToUser: "ibrahim",
		Remarks:        "short 500",
	})
	if err != nil {
		t.Fatalf("close failed: %v", err)
	}

	next := mustOpenShift(t, svc, ctx)
	if next.OpeningBalance != 246500 {
		t.Fatalf("expected counted cash 246500 carried forward, got %d", next.OpeningBalance)
	}
}

func TestApproveIdempotence(t *testing.T) {
	svc := newTestService(t)
	rctx := receptionCtx("mohammed")
	actx := accountantCtx()
	shift := mustOpenShift(t, svc, rctx)
	if _, err := svc.CloseShift(rctx, domain.ShiftCloseRequest{ShiftID: shift.ID, PhysicalCash: int64p(0), HandoverToUser: "ibrahim"}); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	if _, err := svc.ApproveShift(actx, shift.ID); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if _, err := svc.ApproveShift(actx, shift.ID); !errors.Is(err, store.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on double approve, got %v", err)
	}
}

func TestApproveRequiresAccountantRole(t *testing.T) {
	svc := newTestService(t)
	rctx := receptionCtx("mohammed")
	shift := mustOpenShift(t, svc, rctx)
	if _, err := svc.CloseShift(rctx, domain.ShiftCloseRequest{ShiftID: shift.ID, PhysicalCash: int64p(0), HandoverToUser: "ibrahim"}); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	if _, err := svc.ApproveShift(rctx, shift.ID); err == nil {
		t.Fatalf("expected reception approve to be refused")
	}
}

func TestRejectRequiresRemarksAndReopenAllowsCorrection(t *testing.T) {
	svc := newTestService(t)
	rctx := receptionCtx("mohammed")
	actx := accountantCtx()
	shift := mustOpenShift(t, svc, rctx)
	if _, err := svc.CloseShift(rctx, domain.ShiftCloseRequest{ShiftID: shift.ID, PhysicalCash: int64p(0), HandoverToUser: "ibrahim"}); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	if _, err := svc.RejectShift(actx, shift.ID, domain.ShiftRejectRequest{}); !errors.Is(err, store.ErrInvalidRecord) {
		t.Fatalf("expected reject without remarks to fail, got %v", err)
	}

	rejected, err := svc.RejectShift(actx, shift.ID, domain.ShiftRejectRequest{Remarks: "collections missing invoice refs"})
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if rejected.Shift.Status != domain.ShiftStatusRejected {
		t.Fatalf("expected rejected status, got %s", rejected.Shift.Status)
	}

	reopened, err := svc.ReopenShift(rctx, shift.ID)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if reopened.Shift.Status != domain.ShiftStatusOpen {
		t.Fatalf("expected open status, got %s", reopened.Shift.Status)
	}
	if reopened.Shift.PhysicalCash != nil || reopened.Shift.MatchStatus != "" {
		t.Fatalf("expected stale count cleared on reopen")
	}

	mustCreateEntry(t, svc, rctx, shift.ID, 1200, "cash", "normal", false)
}

func TestLockDayRequiresAllApproved(t *testing.T) {
	svc := newTestService(t)
	rctx := receptionCtx("mohammed")
	actx := accountantCtx()
	shift := mustOpenShift(t, svc, rctx)
	date := shift.Date
	if _, err := svc.CloseShift(rctx, domain.ShiftCloseRequest{ShiftID: shift.ID, PhysicalCash: int64p(0), HandoverToUser: "ibrahim"}); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	if _, err := svc.LockDay(actx, date); !errors.Is(err, store.ErrInvalidState) {
		t.Fatalf("expected lock with pending shift to fail, got %v", err)
	}

	if _, err := svc.ApproveShift(actx, shift.ID); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	lock, err := svc.LockDay(actx, date)
	if err != nil {
		t.Fatalf("lock failed: %v", err)
	}
	if lock.Lock.Date != date || lock.Lock.LockedBy != "ahmad" {
		t.Fatalf("lock = %+v, want date=%s locked_by=ahmad", lock.Lock, date)
	}

	// Day is sealed: no more shifts or locks on this date.
	if _, err := svc.LockDay(actx, date); !errors.Is(err, store.ErrInvalidState) {
		t.Fatalf("expected double lock to fail, got %v", err)
	}
	if _, err := svc.OpenShift(rctx, domain.ShiftOpenRequest{ShiftType: domain.ShiftTypeEvening, Date: date}); !errors.Is(err, store.ErrDayLocked) {
		t.Fatalf("expected open on locked day to fail, got %v", err)
	}
}

func TestLockDayRequiresAccountantRole(t *testing.T) {
	svc := newTestService(t)
	date := time.Now().UTC().Format("2006-01-02")
	if _, err := svc.LockDay(receptionCtx("mohammed"), date); err == nil {
		t.Fatalf("expected reception lock to be refused")
	}
}

func TestHandoverConfirmedByRecipientOnly(t *testing.T) {
	svc := newTestService(t)
	rctx := receptionCtx("mohammed")
	shift := mustOpenShift(t, svc, rctx)
	closed, err := svc.CloseShift(rctx, domain.ShiftCloseRequest{ShiftID: shift.ID, PhysicalCash: int64p(0), HandoverToUser: "ibrahim"})
	if err != nil {
		t.Fatalf("close failed: %v", err)
	}

	if _, err := svc.ConfirmHandover(rctx, closed.Handover.ID); err == nil {
		t.Fatalf("expected sender confirm to be refused")
	}

	confirmed, err := svc.ConfirmHandover(receptionCtx("ibrahim"), closed.Handover.ID)
	if err != nil {
		t.Fatalf("recipient confirm failed: %v", err)
	}
	if !confirmed.Handover.Confirmed || confirmed.Handover.ConfirmedAt == nil {
		t.Fatalf("expected confirmed handover, got %+v", confirmed.Handover)
	}

	if _, err := svc.ConfirmHandover(receptionCtx("ibrahim"), closed.Handover.ID); !errors.Is(err, store.ErrInvalidState) {
		t.Fatalf("expected double confirm to fail, got %v", err)
	}
}

func TestRecordHandoverAmountMustMatchShift(t *testing.T) {
	svc := newTestService(t)
	rctx := receptionCtx("mohammed")
	shift := mustOpenShift(t, svc, rctx)
	mustCreateEntry(t, svc, rctx, shift.ID, 5000, "cash", "normal", false)
	if _, err := svc.CloseShift(rctx, domain.ShiftCloseRequest{ShiftID: shift.ID, PhysicalCash: int64p(5000), HandoverToUser: "ibrahim"}); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	if _, err := svc.RecordHandover(rctx, domain.HandoverCreateRequest{ShiftID: shift.ID, ToUser: "ibrahim", Amount: 4000}); !errors.Is(err, store.ErrInvalidRecord) {
		t.Fatalf("expected amount mismatch to be rejected, got %v", err)
	}

	resp, err := svc.RecordHandover(rctx, domain.HandoverCreateRequest{ShiftID: shift.ID, ToUser: "ibrahim"})
	if err != nil {
		t.Fatalf("record handover failed: %v", err)
	}
	if resp.Handover.HandoverAmount != 5000 {
		t.Fatalf("expected derived amount 5000, got %d", resp.Handover.HandoverAmount)
	}
}

func TestDailySummaryAggregatesShifts(t *testing.T) {
	svc := newTestService(t)
	rctx := receptionCtx("mohammed")

	shift := mustOpenShift(t, svc, rctx)
	mustCreateEntry(t, svc, rctx, shift.ID, 15000, "cash", "normal", false)
	mustCreateEntry(t, svc, rctx, shift.ID, 25000, "pos", "normal", false)
	mustCreateEntry(t, svc, rctx, shift.ID, 500, "cash", "expense", false)
	if _, err := svc.CloseShift(rctx, domain.ShiftCloseRequest{ShiftID: shift.ID, PhysicalCash: int64p(39500), HandoverToUser: "ibrahim"}); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	summary, err := svc.GetDailySummary(context.Background(), shift.Date)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if summary.TotalCollections != 40000 || summary.TotalPOS != 25000 || summary.TotalExpenses != 500 {
		t.Fatalf("summary totals = %+v", summary)
	}
	if summary.Closing != 39500 {
		t.Fatalf("expected closing 39500, got %d", summary.Closing)
	}
	if summary.Locked {
		t.Fatalf("expected unlocked day")
	}
	if len(summary.Shifts) != 1 {
		t.Fatalf("expected 1 shift in summary, got %d", len(summary.Shifts))
	}
}

func TestSecondOpenShiftRejectedWhileOneOpen(t *testing.T) {
	svc := newTestService(t)
	ctx := receptionCtx("mohammed")
	mustOpenShift(t, svc, ctx)

	if _, err := svc.OpenShift(ctx, domain.ShiftOpenRequest{ShiftType: domain.ShiftTypeEvening}); !errors.Is(err, store.ErrInvalidState) {
		t.Fatalf("expected second open shift to fail, got %v", err)
	}
}

func TestCreateReceptionistAdminOnly(t *testing.T) {
	svc := newTestService(t)
	adminCtx := WithActor(context.Background(), domain.Actor{Username: "admin", Role: domain.RoleAdmin})

	if _, err := svc.CreateReceptionist(receptionCtx("mohammed"), domain.ReceptionistCreateRequest{Username: "newuser", Password: "longenough1"}); err == nil {
		t.Fatalf("expected non-admin create to be refused")
	}
	if _, err := svc.CreateReceptionist(adminCtx, domain.ReceptionistCreateRequest{Username: "newuser", Password: "short"}); !errors.Is(err, store.ErrInvalidRecord) {
		t.Fatalf("expected short password to be rejected, got %v", err)
	}

	created, err := svc.CreateReceptionist(adminCtx, domain.ReceptionistCreateRequest{Username: "Newuser", Password: "longenough1"})
	if err != nil {
		t.Fatalf("create receptionist failed: %v", err)
	}
	if created.Username != "newuser" || created.Role != domain.RoleReception {
		t.Fatalf("created = %+v", created)
	}

	listed, err := svc.ListReceptionists(context.Background())
	if err != nil {
		t.Fatalf("list receptionists failed: %v", err)
	}
	found := false
	for _, u := range listed {
		if u.Username == "newuser" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected newuser in receptionist list")
	}
}

func TestHandoverRecipientMustHandleCash(t *testing.T) {
	svc := newTestService(t)
	rctx := receptionCtx("mohammed")
	shift := mustOpenShift(t, svc, rctx)

	// An accountant never confirms receipt of a drawer, so handing over to one
	// would strand the handover unconfirmed forever.
	if _, err := svc.CloseShift(rctx, domain.ShiftCloseRequest{ShiftID: shift.ID, PhysicalCash: int64p(0), HandoverToUser: "ahmad"}); !errors.Is(err, store.ErrInvalidRecord) {
		t.Fatalf("expected close with accountant recipient to be rejected, got %v", err)
	}
	if _, err := svc.RecordHandover(rctx, domain.HandoverCreateRequest{ShiftID: shift.ID, ToUser: "ahmad"}); !errors.Is(err, store.ErrInvalidRecord) {
		t.Fatalf("expected handover to accountant to be rejected, got %v", err)
	}

	closed, err := svc.CloseShift(rctx, domain.ShiftCloseRequest{ShiftID: shift.ID, PhysicalCash: int64p(0), HandoverToUser: "ibrahim"})
	if err != nil {
		t.Fatalf("close to reception recipient failed: %v", err)
	}
	if _, err := svc.ConfirmHandover(receptionCtx("ibrahim"), closed.Handover.ID); err != nil {
		t.Fatalf("recipient confirm failed: %v", err)
	}
}

func TestCreateEntryRejectedAfterClose(t *testing.T) {
	svc := newTestService(t)
	rctx := receptionCtx("mohammed")
	shift := mustOpenShift(t, svc, rctx)
	if _, err := svc.CloseShift(rctx, domain.ShiftCloseRequest{ShiftID: shift.ID, PhysicalCash: int64p(0), HandoverToUser: "ibrahim"}); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	_, err := svc.CreateEntry(rctx, domain.EntryCreateRequest{
		ShiftID:     shift.ID,
		Particulars: "late walk-in",
		Amount:      3000,
		PaymentMode: domain.PaymentModeCash,
		EntryType:   domain.EntryTypeNormal,
	})
	if !errors.Is(err, store.ErrInvalidState) {
		t.Fatalf("expected entry against pending shift to fail with invalid state, got %v", err)
	}
}

func TestApproveStampsVerifierAndReopenClearsIt(t *testing.T) {
	svc := newTestService(t)
	rctx := receptionCtx("mohammed")
	actx := accountantCtx()

	shift := mustOpenShift(t, svc, rctx)
	if _, err := svc.CloseShift(rctx, domain.ShiftCloseRequest{ShiftID: shift.ID, PhysicalCash: int64p(0), HandoverToUser: "ibrahim"}); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	approved, err := svc.ApproveShift(actx, shift.ID)
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if approved.Shift.VerifiedBy != "ahmad" || approved.Shift.VerifiedAt == nil {
		t.Fatalf("expected verifier stamp on approve, got by=%q at=%v", approved.Shift.VerifiedBy, approved.Shift.VerifiedAt)
	}

	second := mustOpenShiftType(t, svc, rctx, domain.ShiftTypeEvening)
	if _, err := svc.CloseShift(rctx, domain.ShiftCloseRequest{ShiftID: second.ID, PhysicalCash: int64p(0), HandoverToUser: "ibrahim"}); err != nil {
		t.Fatalf("close second failed: %v", err)
	}
	rejected, err := svc.RejectShift(actx, second.ID, domain.ShiftRejectRequest{Remarks: "till count retaken too late"})
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if rejected.Shift.VerifiedBy != "ahmad" || rejected.Shift.VerifiedAt == nil {
		t.Fatalf("expected verifier stamp on reject, got by=%q at=%v", rejected.Shift.VerifiedBy, rejected.Shift.VerifiedAt)
	}

	reopened, err := svc.ReopenShift(rctx, second.ID)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if reopened.Shift.VerifiedBy != "" || reopened.Shift.VerifiedAt != nil {
		t.Fatalf("expected verifier stamp cleared on reopen, got by=%q at=%v", reopened.Shift.VerifiedBy, reopened.Shift.VerifiedAt)
	}
}

func mustOpenShiftType(t *testing.T, svc *Service, ctx context.Context, shiftType string) domain.ShiftClosing {
	t.Helper()
	resp, err := svc.OpenShift(ctx, domain.ShiftOpenRequest{ShiftType: shiftType})
	if err != nil {
		t.Fatalf("open shift failed: %v", err)
	}
	return resp.Shift
}
