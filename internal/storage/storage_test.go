package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"forecourt/internal/auth"
	"forecourt/internal/core"
	"forecourt/internal/listing"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testSale(day int) core.DailySale {
	return core.DailySale{
		Date:        core.NewDate(2026, 3, day),
		FuelGallons: 1200.5,
		FuelRevenue: core.Money{Cents: 420000},
		InsideSales: core.Money{Cents: 98000},
		CardTotal:   core.Money{Cents: 300000},
		CashTotal:   core.Money{Cents: 218000},
		Status:      core.SaleDraft,
	}
}

func TestSaleCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateSale(ctx, testSale(1))
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("created sale has no id")
	}
	if created.Date.String() != "2026-03-01" {
		t.Fatalf("date = %s", created.Date)
	}
	if created.CreatedAt.IsZero() {
		t.Fatal("created_at not set")
	}

	created.Status = core.SaleFinal
	created.Notes = "closed by owner"
	updated, err := repo.UpdateSale(ctx, created)
	if err != nil {
		t.Fatalf("UpdateSale: %v", err)
	}
	if updated.Status != core.SaleFinal || updated.Notes != "closed by owner" {
		t.Fatalf("update not applied: %+v", updated)
	}

	if err := repo.DeleteSale(ctx, created.ID); err != nil {
		t.Fatalf("DeleteSale: %v", err)
	}
	if _, err := repo.GetSale(ctx, created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("GetSale after delete: %v", err)
	}
	if err := repo.DeleteSale(ctx, created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}

func TestSaleDuplicateDate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.CreateSale(ctx, testSale(2)); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := repo.CreateSale(ctx, testSale(2)); !errors.Is(err, core.ErrDuplicateDate) {
		t.Fatalf("duplicate date error = %v", err)
	}
}

func TestListSales(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for day := 1; day <= 5; day++ {
		s := testSale(day)
		if day%2 == 0 {
			s.Status = core.SaleFinal
			s.Notes = "reconciled"
		}
		if _, err := repo.CreateSale(ctx, s); err != nil {
			t.Fatalf("seed day %d: %v", day, err)
		}
	}

	defaults := listing.Defaults{PerPage: 50, SortField: "date", SortDirection: listing.Descending}
	base := listing.ParseQuery(nil, defaults)

	page, err := repo.ListSales(ctx, base)
	if err != nil {
		t.Fatalf("ListSales: %v", err)
	}
	if page.Total != 5 || len(page.Data) != 5 {
		t.Fatalf("total = %d, rows = %d", page.Total, len(page.Data))
	}
	// Default sort is date descending.
	if page.Data[0].Date.String() != "2026-03-05" {
		t.Fatalf("first row date = %s", page.Data[0].Date)
	}

	filtered, err := repo.ListSales(ctx, base.WithFilter("status", string(core.SaleFinal)))
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if filtered.Total != 2 {
		t.Fatalf("final sales = %d, want 2", filtered.Total)
	}

	searched, err := repo.ListSales(ctx, base.WithSearch("reconc"))
	if err != nil {
		t.Fatalf("searched list: %v", err)
	}
	if searched.Total != 2 {
		t.Fatalf("search hits = %d, want 2", searched.Total)
	}

	ranged, err := repo.ListSales(ctx, base.WithDateRange(core.NewDate(2026, 3, 2), core.NewDate(2026, 3, 4)))
	if err != nil {
		t.Fatalf("ranged list: %v", err)
	}
	if ranged.Total != 3 {
		t.Fatalf("ranged total = %d, want 3", ranged.Total)
	}

	// A page past the end clamps onto the last page instead of
	// returning an empty view.
	far := base
	far.Page = 9
	clamped, err := repo.ListSales(ctx, far)
	if err != nil {
		t.Fatalf("clamped list: %v", err)
	}
	if clamped.CurrentPage != 1 || len(clamped.Data) != 5 {
		t.Fatalf("clamped page = %d with %d rows", clamped.CurrentPage, len(clamped.Data))
	}
}

func TestSnapshotUniquePerPeriod(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	snap := core.StockSnapshot{
		Family:   core.FamilyLottery,
		ItemName: "Gold Rush $5",
		Date:     core.NewDate(2026, 3, 1),
		Shift:    core.ShiftMorning,
		Start:    30,
		Added:    10,
	}
	if _, err := repo.CreateSnapshot(ctx, snap); err != nil {
		t.Fatalf("first snapshot: %v", err)
	}
	if _, err := repo.CreateSnapshot(ctx, snap); err == nil {
		t.Fatal("duplicate period snapshot accepted")
	}
	// Same item, other shift is a distinct period.
	snap.Shift = core.ShiftEvening
	if _, err := repo.CreateSnapshot(ctx, snap); err != nil {
		t.Fatalf("evening snapshot: %v", err)
	}

	all, err := repo.SnapshotsByFamily(ctx, core.FamilyLottery)
	if err != nil {
		t.Fatalf("SnapshotsByFamily: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("snapshots = %d, want 2", len(all))
	}
}

func TestCategoryOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i, name := range []string{"Marlboro", "Camel", "Newport"} {
		if _, err := repo.CreateCategory(ctx, core.StockCategory{
			Family:   core.FamilySmoke,
			Name:     name,
			Position: 2 - i,
		}); err != nil {
			t.Fatalf("create category %s: %v", name, err)
		}
	}

	order, err := repo.CategoryOrder(ctx, core.FamilySmoke)
	if err != nil {
		t.Fatalf("CategoryOrder: %v", err)
	}
	want := []string{"Newport", "Camel", "Marlboro"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestBatchLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	batch, err := repo.CreateBatch(ctx, "/data/imports/20260301", []string{"a.sft", "b.sft"})
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	if batch.Status != core.BatchPending {
		t.Fatalf("new batch status = %s", batch.Status)
	}

	files, err := repo.BatchFiles(ctx, batch.ID)
	if err != nil {
		t.Fatalf("BatchFiles: %v", err)
	}
	if len(files) != 2 || files[0].Status != core.FilePending {
		t.Fatalf("files = %+v", files)
	}

	if err := repo.SetFileResult(ctx, files[0].ID, core.FileOK, "", 7); err != nil {
		t.Fatalf("SetFileResult ok: %v", err)
	}
	if err := repo.SetFileResult(ctx, files[1].ID, core.FileError, "unreadable header", 0); err != nil {
		t.Fatalf("SetFileResult error: %v", err)
	}
	if err := repo.SetBatchStatus(ctx, batch.ID, core.BatchDone); err != nil {
		t.Fatalf("SetBatchStatus: %v", err)
	}

	batch, err = repo.GetBatch(ctx, batch.ID)
	if err != nil {
		t.Fatalf("GetBatch: %v", err)
	}
	if batch.Status != core.BatchDone || batch.CompletedAt.IsZero() {
		t.Fatalf("finished batch = %+v", batch)
	}

	files, err = repo.BatchFiles(ctx, batch.ID)
	if err != nil {
		t.Fatalf("BatchFiles after results: %v", err)
	}
	if files[0].SaleID != 7 || files[1].Message != "unreadable header" {
		t.Fatalf("file results = %+v", files)
	}
}

func TestUsers(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	n, err := repo.CountUsers(ctx)
	if err != nil || n != 0 {
		t.Fatalf("CountUsers = %d, %v", n, err)
	}

	created, err := repo.CreateUser(ctx, auth.User{Username: "pat", PasswordHash: "x", Role: auth.RoleOwner})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, err := repo.CreateUser(ctx, auth.User{Username: "pat", PasswordHash: "y", Role: auth.RoleCashier}); err == nil {
		t.Fatal("duplicate username accepted")
	}

	byName, err := repo.GetUserByUsername(ctx, "pat")
	if err != nil || byName.ID != created.ID {
		t.Fatalf("GetUserByUsername = %+v, %v", byName, err)
	}

	if err := repo.UpdatePassword(ctx, created.ID, "z"); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}
	updated, err := repo.GetUser(ctx, created.ID)
	if err != nil || updated.PasswordHash != "z" {
		t.Fatalf("after password update = %+v, %v", updated, err)
	}
}
