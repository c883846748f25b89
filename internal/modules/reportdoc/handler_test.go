package reportdoc

import (
	"bytes"
	"encoding/json"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"equipinspect/internal/domain"
	"equipinspect/internal/repository"
	"equipinspect/internal/testutil"
)

func setupTestRouter(t *testing.T, opts Options) (*gin.Engine, testutil.Fixture) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	f := testutil.Seed(t, db)

	entries := []domain.DailyInspection{
		{ReportID: f.Report.ID, ItemID: f.Items[0].ID, InspectionDate: domain.NewDate(2024, time.January, 1), Status: domain.StatusGood},
		{ReportID: f.Report.ID, ItemID: f.Items[1].ID, InspectionDate: domain.NewDate(2024, time.January, 2), Status: domain.StatusNotGood},
	}
	require.NoError(t, db.Create(&entries).Error)
	require.NoError(t, db.Create(&domain.ReportNote{ReportID: f.Report.ID, NoteText: "Hydraulic leak on boom"}).Error)

	svc := NewService(repository.NewReportRepository(db), repository.NewChecklistRepository(db), NewRenderer(opts), nil)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api"))
	return r, f
}

func reportPath(id int64, suffix string) string {
	return "/api/reports/" + strconv.FormatInt(id, 10) + "/" + suffix
}

func TestPDFData(t *testing.T) {
	r, f := setupTestRouter(t, Options{})

	rr := testutil.DoJSON(t, r, http.MethodGet, reportPath(f.Report.ID, "pdf-data/"), nil, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var doc struct {
		Report struct {
			ReportNumber string `json:"report_number"`
			Equipment    struct {
				SerialNumber string `json:"serial_number"`
			} `json:"equipment"`
			Operator struct {
				Name string `json:"name"`
			} `json:"operator"`
		} `json:"report"`
		Dates  []string `json:"dates"`
		Matrix []struct {
			ItemID      int64              `json:"item_id"`
			DailyStatus map[string]*string `json:"daily_status"`
		} `json:"inspection_matrix"`
		Notes   []map[string]any `json:"notes"`
		Summary Summary          `json:"summary"`
	}
	testutil.Decode(t, rr, &doc)

	assert.Equal(t, "R-001", doc.Report.ReportNumber)
	assert.Equal(t, "EX-001", doc.Report.Equipment.SerialNumber)
	assert.Equal(t, "John Operator", doc.Report.Operator.Name)
	require.Len(t, doc.Dates, 7)
	assert.Equal(t, "2024-01-01", doc.Dates[0])
	require.Len(t, doc.Matrix, 3)

	for _, row := range doc.Matrix {
		assert.Len(t, row.DailyStatus, 7)
	}
	require.NotNil(t, doc.Matrix[0].DailyStatus["2024-01-01"])
	assert.Equal(t, "good", *doc.Matrix[0].DailyStatus["2024-01-01"])
	assert.Nil(t, doc.Matrix[0].DailyStatus["2024-01-02"])
	require.NotNil(t, doc.Matrix[1].DailyStatus["2024-01-02"])
	assert.Equal(t, "not_good", *doc.Matrix[1].DailyStatus["2024-01-02"])
	assert.Len(t, doc.Notes, 1)
	assert.Equal(t, Summary{TotalChecklistItems: 3, TotalInspectionDays: 7, TotalNotes: 1}, doc.Summary)
}

func TestPDF(t *testing.T) {
	r, f := setupTestRouter(t, Options{})

	rr := testutil.DoJSON(t, r, http.MethodGet, reportPath(f.Report.ID, "pdf/"), nil, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	disposition, params, err := mime.ParseMediaType(rr.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "attachment", disposition)
	assert.Equal(t, "inspection_report_R-001_2024-01-01.pdf", params["filename"])
	assert.True(t, bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF")))
}

func TestPDF_RenderFailure(t *testing.T) {
	r, f := setupTestRouter(t, Options{FontPath: filepath.Join(t.TempDir(), "missing.ttf")})

	rr := testutil.DoJSON(t, r, http.MethodGet, reportPath(f.Report.ID, "pdf/"), nil, "")
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	env := testutil.Decode(t, rr, nil)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Message, "Failed to generate PDF: ")
}

func TestXLSX(t *testing.T) {
	r, f := setupTestRouter(t, Options{})

	rr := testutil.DoJSON(t, r, http.MethodGet, reportPath(f.Report.ID, "xlsx/"), nil, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, xlsxContentType, rr.Header().Get("Content-Type"))

	book, err := excelize.OpenReader(bytes.NewReader(rr.Body.Bytes()))
	require.NoError(t, err)
	defer book.Close()

	// 7 info rows, a blank row, then the header row.
	header, err := book.GetCellValue(matrixSheet, "C9")
	require.NoError(t, err)
	assert.Equal(t, "Monday\n01/01", header)

	mark, err := book.GetCellValue(matrixSheet, "C10")
	require.NoError(t, err)
	assert.Equal(t, "✓", mark)

	mark, err = book.GetCellValue(matrixSheet, "D11")
	require.NoError(t, err)
	assert.Equal(t, "✗", mark)

	note, err := book.GetCellValue(notesSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Hydraulic leak on boom", note)
}

func TestReportDocuments_NotFound(t *testing.T) {
	r, _ := setupTestRouter(t, Options{})
	for _, suffix := range []string{"pdf-data/", "pdf/", "xlsx/"} {
		rr := testutil.DoJSON(t, r, http.MethodGet, reportPath(999, suffix), nil, "")
		assert.Equal(t, http.StatusNotFound, rr.Code, suffix)
	}
	rr := testutil.DoJSON(t, r, http.MethodGet, "/api/reports/abc/pdf/", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	var out map[string]any
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
}
