package repository

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equipinspect/internal/domain"
	"equipinspect/internal/testutil"
)

func TestEquipmentRepository_ListFilterSearchOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewEquipmentRepository(db)
	ctx := context.Background()

	for _, e := range []domain.Equipment{
		{SerialNumber: "B-2", EquipmentType: "Bulldozer", Model: "D6", Status: domain.EquipmentActive},
		{SerialNumber: "A-1", EquipmentType: "Excavator", Model: "CAT 320", Status: domain.EquipmentMaintenance},
		{SerialNumber: "A-2", EquipmentType: "Excavator", Model: "CAT 330", Status: domain.EquipmentActive},
	} {
		e := e
		require.NoError(t, repo.Create(ctx, &e))
	}

	page, err := repo.List(ctx, ParseListQuery(url.Values{}))
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, []string{"B-2", "A-1", "A-2"}, serials(page.Items))

	page, err = repo.List(ctx, ParseListQuery(url.Values{"status": {"active"}, "ordering": {"-serial_number"}}))
	require.NoError(t, err)
	assert.Equal(t, []string{"B-2", "A-2"}, serials(page.Items))
	assert.EqualValues(t, 2, page.Total)

	page, err = repo.List(ctx, ParseListQuery(url.Values{"search": {"cat"}}))
	require.NoError(t, err)
	assert.Equal(t, []string{"A-1", "A-2"}, serials(page.Items))

	page, err = repo.List(ctx, ParseListQuery(url.Values{"limit": {"2"}, "page": {"2"}}))
	require.NoError(t, err)
	assert.Equal(t, []string{"A-2"}, serials(page.Items))
	assert.Equal(t, 2, page.TotalPages())

	active, err := repo.ListByStatus(ctx, domain.EquipmentActive)
	require.NoError(t, err)
	assert.Equal(t, []string{"B-2", "A-2"}, serials(active))
}

func serials(items []domain.Equipment) []string {
	out := make([]string, 0, len(items))
	for _, e := range items {
		out = append(out, e.SerialNumber)
	}
	return out
}

func TestEquipmentRepository_DeleteCascades(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.Seed(t, db)
	ctx := context.Background()

	caption := "front"
	require.NoError(t, db.Create(&domain.DailyInspection{
		ReportID: f.Report.ID, ItemID: f.Items[0].ID, InspectionDate: f.Report.StartDate, Status: domain.StatusGood,
	}).Error)
	require.NoError(t, db.Create(&domain.ReportNote{ReportID: f.Report.ID, NoteText: "ok"}).Error)
	require.NoError(t, db.Create(&domain.ReportAttachment{
		ReportID: f.Report.ID, FilePath: "inspection_attachments/2024/01/01/a.jpg", Caption: &caption,
	}).Error)

	files, err := NewEquipmentRepository(db).Delete(ctx, f.Equipment.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"inspection_attachments/2024/01/01/a.jpg"}, files)

	for _, model := range []any{&domain.InspectionReport{}, &domain.DailyInspection{}, &domain.ReportNote{}, &domain.ReportAttachment{}} {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		assert.Zero(t, n, "%T", model)
	}

	_, err = NewEquipmentRepository(db).Delete(ctx, f.Equipment.ID)
	assert.True(t, IsNotFound(err))
}

func TestPersonnelRepository_DeleteRemovesSupervisedReports(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.Seed(t, db)
	ctx := context.Background()

	_, err := NewPersonnelRepository(db).Delete(ctx, f.Supervisor.ID)
	require.NoError(t, err)

	ok, err := NewReportRepository(db).Exists(ctx, f.Report.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = NewPersonnelRepository(db).Exists(ctx, f.Operator.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPersonnelRepository_EmployeeNumberTaken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.Seed(t, db)
	repo := NewPersonnelRepository(db)
	ctx := context.Background()

	taken, err := repo.EmployeeNumberTaken(ctx, "OP-1", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.EmployeeNumberTaken(ctx, "OP-1", f.Operator.ID)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestChecklistRepository_ReorderSkipsUnknown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.Seed(t, db)
	repo := NewChecklistRepository(db)
	ctx := context.Background()

	n, err := repo.Reorder(ctx, []ItemOrder{
		{ItemID: f.Items[0].ID, SortOrder: 30},
		{ItemID: 9999, SortOrder: 1},
		{ItemID: f.Items[2].ID, SortOrder: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	items, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, f.Items[1].ID, items[0].ID)
	assert.Equal(t, f.Items[2].ID, items[1].ID)
	assert.Equal(t, f.Items[0].ID, items[2].ID)
}

func TestChecklistRepository_GetOrCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewChecklistRepository(db)
	ctx := context.Background()

	item, created, err := repo.GetOrCreate(ctx, "Brakes", 4)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 4, item.SortOrder)

	again, created, err := repo.GetOrCreate(ctx, "Brakes", 9)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, item.ID, again.ID)
	assert.Equal(t, 4, again.SortOrder)
}

func TestReportRepository_OverlappingAndDetail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.Seed(t, db)
	repo := NewReportRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&domain.DailyInspection{
		ReportID: f.Report.ID, ItemID: f.Items[1].ID, InspectionDate: f.Report.StartDate, Status: domain.StatusNotGood,
	}).Error)
	require.NoError(t, db.Create(&domain.DailyInspection{
		ReportID: f.Report.ID, ItemID: f.Items[0].ID, InspectionDate: f.Report.StartDate, Status: domain.StatusGood,
	}).Error)

	got, err := repo.Overlapping(ctx, domain.NewDate(2024, time.January, 7), domain.NewDate(2024, time.January, 13))
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].Equipment)
	assert.Equal(t, "EX-001", got[0].Equipment.SerialNumber)
	require.Len(t, got[0].DailyData, 2)
	assert.Equal(t, f.Items[0].ID, got[0].DailyData[0].ItemID)
	require.NotNil(t, got[0].DailyData[0].Item)

	got, err = repo.Overlapping(ctx, domain.NewDate(2024, time.January, 8), domain.NewDate(2024, time.January, 14))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEquipmentRepository_SearchMatchesWildcardsLiterally(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewEquipmentRepository(db)
	ctx := context.Background()

	for _, e := range []domain.Equipment{
		{SerialNumber: "SN_01", EquipmentType: "Crane", Model: "100%", Status: domain.EquipmentActive},
		{SerialNumber: "SNX02", EquipmentType: "Crane", Model: "C9", Status: domain.EquipmentActive},
		{SerialNumber: `SN\03`, EquipmentType: "Crane", Model: "C9", Status: domain.EquipmentActive},
	} {
		e := e
		require.NoError(t, repo.Create(ctx, &e))
	}

	for term, want := range map[string][]string{
		"_":    {"SN_01"},
		"%":    {"SN_01"},
		"sn_0": {"SN_01"},
		`\`:    {`SN\03`},
		"sn":   {"SN_01", "SNX02", `SN\03`},
	} {
		page, err := repo.List(ctx, ParseListQuery(url.Values{"search": {term}, "ordering": {"serial_number"}}))
		require.NoError(t, err, term)
		assert.ElementsMatch(t, want, serials(page.Items), "search=%q", term)
	}
}

func TestReportRepository_ListSearchByOperatorName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.Seed(t, db)
	repo := NewReportRepository(db)

	page, err := repo.List(context.Background(), ParseListQuery(url.Values{"search": {"JOHN"}}))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.NotNil(t, page.Items[0].Operator)
	assert.Equal(t, "John Operator", page.Items[0].Operator.FullName)

	page, err = repo.List(context.Background(), ParseListQuery(url.Values{"search": {"nobody"}}))
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestDailyInspectionRepository_BulkCreateIsAtomic(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.Seed(t, db)
	repo := NewDailyInspectionRepository(db)
	ctx := context.Background()

	day := f.Report.StartDate
	rows := []domain.DailyInspection{
		{ReportID: f.Report.ID, ItemID: f.Items[0].ID, InspectionDate: day, Status: domain.StatusGood},
		{ReportID: f.Report.ID, ItemID: f.Items[0].ID, InspectionDate: day, Status: domain.StatusNotGood},
	}
	err := repo.BulkCreate(ctx, rows)
	require.Error(t, err)
	assert.True(t, IsDuplicate(err))

	var n int64
	require.NoError(t, db.Model(&domain.DailyInspection{}).Count(&n).Error)
	assert.Zero(t, n)

	rows = []domain.DailyInspection{
		{ReportID: f.Report.ID, ItemID: f.Items[0].ID, InspectionDate: day, Status: domain.StatusGood},
		{ReportID: f.Report.ID, ItemID: f.Items[1].ID, InspectionDate: day, Status: domain.StatusNotGood},
	}
	require.NoError(t, repo.BulkCreate(ctx, rows))
	require.NotNil(t, rows[1].Item)
	assert.Equal(t, "Hydraulic hoses", rows[1].Item.Description)
}

func TestDailyInspectionRepository_ListDefaultOrderAndSearch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.Seed(t, db)
	repo := NewDailyInspectionRepository(db)
	ctx := context.Background()

	d1, d2 := f.Report.StartDate, f.Report.StartDate.AddDays(1)
	require.NoError(t, repo.BulkCreate(ctx, []domain.DailyInspection{
		{ReportID: f.Report.ID, ItemID: f.Items[1].ID, InspectionDate: d1, Status: domain.StatusGood},
		{ReportID: f.Report.ID, ItemID: f.Items[0].ID, InspectionDate: d1, Status: domain.StatusGood},
		{ReportID: f.Report.ID, ItemID: f.Items[0].ID, InspectionDate: d2, Status: domain.StatusNotGood},
	}))

	page, err := repo.List(ctx, ParseListQuery(url.Values{}))
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, d2.String(), page.Items[0].InspectionDate.String())
	assert.Equal(t, f.Items[0].ID, page.Items[1].ItemID)
	assert.Equal(t, f.Items[1].ID, page.Items[2].ItemID)
	require.NotNil(t, page.Items[0].Item)

	page, err = repo.List(ctx, ParseListQuery(url.Values{"search": {"hydraulic"}}))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, f.Items[1].ID, page.Items[0].ItemID)

	page, err = repo.List(ctx, ParseListQuery(url.Values{"search": {"r-001"}, "status": {"not_good"}}))
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	ranged, err := repo.ListByDateRange(ctx, d2, d2)
	require.NoError(t, err)
	assert.Len(t, ranged, 1)

	taken, err := repo.Taken(ctx, DailyKey{ReportID: f.Report.ID, ItemID: f.Items[0].ID, Date: d1}, 0)
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestTokenRepository_DeleteExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	accounts := NewAccountRepository(db)
	tokens := NewTokenRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	a := &domain.Account{Username: "alice", PasswordHash: "x", IsActive: true}
	b := &domain.Account{Username: "bob", PasswordHash: "x", IsActive: true}
	require.NoError(t, accounts.Create(ctx, a))
	require.NoError(t, accounts.Create(ctx, b))

	past := now.Add(-time.Hour)
	require.NoError(t, tokens.Create(ctx, &domain.AuthToken{AccountID: a.ID, JTI: "old", IssuedAt: now, ExpiresAt: &past}))
	require.NoError(t, tokens.Create(ctx, &domain.AuthToken{AccountID: b.ID, JTI: "live", IssuedAt: now}))

	removed, err := tokens.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"old"}, removed)

	_, err = tokens.GetByJTI(ctx, "old")
	assert.True(t, IsNotFound(err))

	jti, err := tokens.DeleteByAccount(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "live", jti)

	jti, err = tokens.DeleteByAccount(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, jti)
}

func TestAccountRepository_CreateKeepsInactiveFlag(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	a := &domain.Account{Username: " carol ", Email: "Carol@Example.com", PasswordHash: "x"}
	require.NoError(t, repo.Create(ctx, a))

	got, err := repo.GetByUsername(ctx, "carol")
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Equal(t, "carol@example.com", got.Email)
}
