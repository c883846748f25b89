package inspection

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"equipinspect/internal/pkg/storage"
	"equipinspect/internal/pkg/validator"
	"equipinspect/internal/repository"
	"equipinspect/internal/testutil"
)

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func newTestHandler(t *testing.T, db *gorm.DB, store storage.Storage) *Handler {
	t.Helper()

	reports := repository.NewReportRepository(db)
	daily := repository.NewDailyInspectionRepository(db)
	return NewHandler(
		NewReportService(reports, daily,
			repository.NewEquipmentRepository(db),
			repository.NewPersonnelRepository(db),
			store, nil),
		NewDailyService(daily, reports, repository.NewChecklistRepository(db), nil),
		NewNoteService(repository.NewNoteRepository(db), reports),
		NewAttachmentService(repository.NewAttachmentRepository(db), reports, store, nil),
	)
}

func setupTestRouter(t *testing.T) (*gin.Engine, testutil.Fixture, storage.Storage) {
	t.Helper()
	validator.Init()

	db := testutil.SetupTestDB(t)
	f := testutil.Seed(t, db)
	store, err := storage.NewLocal(t.TempDir(), "/media")
	require.NoError(t, err)

	r := gin.New()
	newTestHandler(t, db, store).RegisterRoutes(r.Group("/api"))
	return r, f, store
}

func reportPath(id int64, suffix string) string {
	return "/api/inspection-reports/" + strconv.FormatInt(id, 10) + "/" + suffix
}

func TestReports_CreateValidatesReferencesAndDates(t *testing.T) {
	r, f, _ := setupTestRouter(t)

	body := map[string]any{
		"report_number":      "R-002",
		"equipment":          f.Equipment.ID,
		"operator":           9999,
		"supervisor":         f.Supervisor.ID,
		"start_date":         "2024-02-07",
		"end_date":           "2024-02-01",
		"working_hours_from": "08:00",
		"working_hours_to":   "17:00:00",
	}
	rr := testutil.DoJSON(t, r, http.MethodPost, "/api/inspection-reports/", body, "")
	require.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
	env := testutil.Decode(t, rr, nil)
	assert.Equal(t, `Invalid pk "9999" - object does not exist.`, env.Error.Details["operator"])
	assert.Equal(t, msgEndBeforeStart, env.Error.Details["end_date"])

	body["operator"] = f.Operator.ID
	body["end_date"] = "2024-02-13"
	rr = testutil.DoJSON(t, r, http.MethodPost, "/api/inspection-reports/", body, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var out struct {
		Report struct {
			ID             int64  `json:"report_id"`
			EquipmentInfo  string `json:"equipment_info"`
			OperatorName   string `json:"operator_name"`
			SupervisorName string `json:"supervisor_name"`
			HoursFrom      string `json:"working_hours_from"`
			Daily          []any  `json:"daily_inspection_data"`
			Notes          []any  `json:"report_notes"`
		} `json:"inspection_report"`
	}
	testutil.Decode(t, rr, &out)
	assert.Equal(t, "Excavator - EX-001", out.Report.EquipmentInfo)
	assert.Equal(t, "John Operator", out.Report.OperatorName)
	assert.Equal(t, "Jane Supervisor", out.Report.SupervisorName)
	assert.Equal(t, "08:00:00", out.Report.HoursFrom)
	assert.NotNil(t, out.Report.Daily)
	assert.NotNil(t, out.Report.Notes)
}

func TestReports_ListRepresentation(t *testing.T) {
	r, _, _ := setupTestRouter(t)

	rr := testutil.DoJSON(t, r, http.MethodGet, "/api/inspection-reports/?search=ex-001", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var out struct {
		Reports []map[string]any `json:"inspection_reports"`
	}
	testutil.Decode(t, rr, &out)
	require.Len(t, out.Reports, 1)
	assert.Equal(t, "R-001", out.Reports[0]["report_number"])
	assert.Equal(t, "Excavator - EX-001", out.Reports[0]["equipment_info"])
	assert.NotContains(t, out.Reports[0], "daily_inspection_data")
}

func TestReports_DailyDataMissingReport(t *testing.T) {
	r, _, _ := setupTestRouter(t)

	rr := testutil.DoJSON(t, r, http.MethodGet, reportPath(4242, "daily_data/"), nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDaily_UniqueSet(t *testing.T) {
	r, f, _ := setupTestRouter(t)

	body := map[string]any{
		"report": f.Report.ID, "item": f.Items[0].ID,
		"inspection_date": "2024-01-02", "status": "good",
	}
	rr := testutil.DoJSON(t, r, http.MethodPost, "/api/daily-inspection-data/", body, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var created struct {
		Row struct {
			ItemDescription string `json:"item_description"`
		} `json:"daily_inspection"`
	}
	testutil.Decode(t, rr, &created)
	assert.Equal(t, "Engine oil level", created.Row.ItemDescription)

	rr = testutil.DoJSON(t, r, http.MethodPost, "/api/daily-inspection-data/", body, "")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	env := testutil.Decode(t, rr, nil)
	assert.Equal(t, msgDailyNotUnique, env.Error.Details["non_field_errors"])
}

func TestDaily_PutReplacesWholeRow(t *testing.T) {
	r, f, _ := setupTestRouter(t)

	body := map[string]any{
		"report": f.Report.ID, "item": f.Items[0].ID,
		"inspection_date": "2024-01-02", "status": "good",
	}
	rr := testutil.DoJSON(t, r, http.MethodPost, "/api/daily-inspection-data/", body, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created struct {
		Row struct {
			ID int64 `json:"inspection_data_id"`
		} `json:"daily_inspection"`
	}
	testutil.Decode(t, rr, &created)
	path := "/api/daily-inspection-data/" + strconv.FormatInt(created.Row.ID, 10) + "/"

	delete(body, "status")
	rr = testutil.DoJSON(t, r, http.MethodPut, path, body, "")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	env := testutil.Decode(t, rr, nil)
	assert.Equal(t, "This field is required.", env.Error.Details["status"])

	rr = testutil.DoJSON(t, r, http.MethodPatch, path, map[string]any{"inspection_date": "2024-01-03"}, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var patched struct {
		Row struct {
			Status string `json:"status"`
		} `json:"daily_inspection"`
	}
	testutil.Decode(t, rr, &patched)
	assert.Equal(t, "good", patched.Row.Status, "patch keeps fields it does not name")
}

func TestDaily_BulkCreateAllOrNothing(t *testing.T) {
	r, f, _ := setupTestRouter(t)

	entries := []map[string]any{
		{"report": f.Report.ID, "item": f.Items[0].ID, "inspection_date": "2024-01-01", "status": "good"},
		{"report": f.Report.ID, "item": f.Items[1].ID, "inspection_date": "2024-01-01", "status": "broken"},
	}
	rr := testutil.DoJSON(t, r, http.MethodPost, "/api/daily-inspection-data/bulk_create/", entries, "")
	require.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())

	rr = testutil.DoJSON(t, r, http.MethodGet, "/api/daily-inspection-data/", nil, "")
	var list struct {
		Rows []any `json:"daily_inspection_data"`
	}
	testutil.Decode(t, rr, &list)
	assert.Empty(t, list.Rows)

	entries[1]["status"] = "not_good"
	rr = testutil.DoJSON(t, r, http.MethodPost, "/api/daily-inspection-data/bulk_create/", entries, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created struct {
		Rows []map[string]any `json:"daily_inspection_data"`
	}
	testutil.Decode(t, rr, &created)
	assert.Len(t, created.Rows, 2)

	rr = testutil.DoJSON(t, r, http.MethodPost, "/api/daily-inspection-data/bulk_create/", `{"report":1}`, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDaily_ByDateRange(t *testing.T) {
	r, f, _ := setupTestRouter(t)

	for _, day := range []string{"2024-01-01", "2024-01-03", "2024-01-05"} {
		body := map[string]any{"report": f.Report.ID, "item": f.Items[0].ID, "inspection_date": day, "status": "good"}
		rr := testutil.DoJSON(t, r, http.MethodPost, "/api/daily-inspection-data/", body, "")
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	rr := testutil.DoJSON(t, r, http.MethodGet, "/api/daily-inspection-data/by_date_range/?start_date=2024-01-01", nil, "")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	env := testutil.Decode(t, rr, nil)
	assert.Equal(t, "Both start_date and end_date are required", env.Error.Message)

	rr = testutil.DoJSON(t, r, http.MethodGet, "/api/daily-inspection-data/by_date_range/?start_date=01/01/2024&end_date=2024-01-03", nil, "")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	env = testutil.Decode(t, rr, nil)
	assert.Equal(t, "Invalid date format. Use YYYY-MM-DD", env.Error.Message)

	rr = testutil.DoJSON(t, r, http.MethodGet, "/api/daily-inspection-data/by_date_range/?start_date=2024-01-01&end_date=2024-01-03", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var out struct {
		Rows []any `json:"daily_inspection_data"`
	}
	testutil.Decode(t, rr, &out)
	assert.Len(t, out.Rows, 2)
}

func TestNotes_CRUD(t *testing.T) {
	r, f, _ := setupTestRouter(t)

	rr := testutil.DoJSON(t, r, http.MethodPost, "/api/report-notes/", map[string]any{"report": f.Report.ID, "note_text": "Leak on boom"}, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var out struct {
		Note struct {
			ID int64 `json:"note_id"`
		} `json:"report_note"`
	}
	testutil.Decode(t, rr, &out)

	path := "/api/report-notes/" + strconv.FormatInt(out.Note.ID, 10) + "/"
	rr = testutil.DoJSON(t, r, http.MethodPatch, path, map[string]any{"report": 777}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = testutil.DoJSON(t, r, http.MethodGet, reportPath(f.Report.ID, ""), nil, "")
	var detail struct {
		Report struct {
			Notes []map[string]any `json:"report_notes"`
		} `json:"inspection_report"`
	}
	testutil.Decode(t, rr, &detail)
	require.Len(t, detail.Report.Notes, 1)
	assert.Equal(t, "Leak on boom", detail.Report.Notes[0]["note_text"])
}

func upload(t *testing.T, h http.Handler, reportID int64, name string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("report", strconv.FormatInt(reportID, 10)))
	require.NoError(t, mw.WriteField("caption", "Front view"))
	if content != nil {
		fw, err := mw.CreateFormFile(fileField, name)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/report-attachments/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestAttachments_UploadDownloadDelete(t *testing.T) {
	r, f, store := setupTestRouter(t)

	rr := upload(t, r, f.Report.ID, "front.png", nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = upload(t, r, f.Report.ID, "notes.txt", []byte("plain text"))
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = upload(t, r, f.Report.ID, "front.png", pngHeader)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var out struct {
		Attachment struct {
			ID       int64  `json:"attachment_id"`
			FilePath string `json:"file_path"`
			FileURL  string `json:"file_url"`
			Caption  string `json:"caption"`
		} `json:"report_attachment"`
	}
	testutil.Decode(t, rr, &out)
	assert.Contains(t, out.Attachment.FilePath, "inspection_attachments/")
	assert.Equal(t, "/media/"+out.Attachment.FilePath, out.Attachment.FileURL)
	assert.Equal(t, "Front view", out.Attachment.Caption)

	path := "/api/report-attachments/" + strconv.FormatInt(out.Attachment.ID, 10) + "/"
	rr = testutil.DoJSON(t, r, http.MethodGet, path+"download/", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	assert.Equal(t, pngHeader, rr.Body.Bytes())

	rr = testutil.DoJSON(t, r, http.MethodDelete, path, nil, "")
	require.Equal(t, http.StatusNoContent, rr.Code)

	_, err := store.Get(t.Context(), out.Attachment.FilePath)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestReports_DeleteRemovesAttachmentFiles(t *testing.T) {
	r, f, store := setupTestRouter(t)

	rr := upload(t, r, f.Report.ID, "front.png", pngHeader)
	require.Equal(t, http.StatusCreated, rr.Code)
	var out struct {
		Attachment struct {
			FilePath string `json:"file_path"`
		} `json:"report_attachment"`
	}
	testutil.Decode(t, rr, &out)

	rr = testutil.DoJSON(t, r, http.MethodDelete, reportPath(f.Report.ID, ""), nil, "")
	require.Equal(t, http.StatusNoContent, rr.Code)

	_, err := store.Get(t.Context(), out.Attachment.FilePath)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	rr = testutil.DoJSON(t, r, http.MethodGet, reportPath(f.Report.ID, ""), nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
