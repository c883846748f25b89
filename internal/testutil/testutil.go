// Package testutil holds helpers shared by package tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"equipinspect/internal/database"
	"equipinspect/internal/domain"
)

// SetupTestDB returns a migrated in-memory SQLite database private to t.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())

	db, err := database.Connect(dsn, database.Options{}, nil)
	require.NoError(t, err, "connect test database")
	require.NoError(t, database.Migrate(db), "migrate test database")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Fixture is a minimal set of related rows.
type Fixture struct {
	Equipment  domain.Equipment
	Operator   domain.Personnel
	Supervisor domain.Personnel
	Items      []domain.ChecklistItem
	Report     domain.InspectionReport
}

// Seed inserts one equipment unit, an operator, a supervisor, three checklist
// items and a report covering 2024-01-01..2024-01-07.
func Seed(t *testing.T, db *gorm.DB) Fixture {
	t.Helper()

	f := Fixture{
		Equipment:  domain.Equipment{SerialNumber: "EX-001", EquipmentType: "Excavator", Model: "CAT 320", Status: domain.EquipmentActive},
		Operator:   domain.Personnel{FullName: "John Operator", Role: domain.RoleOperator, EmployeeNumber: "OP-1"},
		Supervisor: domain.Personnel{FullName: "Jane Supervisor", Role: domain.RoleSupervisor, EmployeeNumber: "SV-1"},
	}
	require.NoError(t, db.Create(&f.Equipment).Error)
	require.NoError(t, db.Create(&f.Operator).Error)
	require.NoError(t, db.Create(&f.Supervisor).Error)

	for i, desc := range []string{"Engine oil level", "Hydraulic hoses", "Tracks and rollers"} {
		item := domain.ChecklistItem{Description: desc, SortOrder: i + 1}
		require.NoError(t, db.Create(&item).Error)
		f.Items = append(f.Items, item)
	}

	f.Report = domain.InspectionReport{
		ReportNumber:     "R-001",
		EquipmentID:      f.Equipment.ID,
		OperatorID:       f.Operator.ID,
		SupervisorID:     f.Supervisor.ID,
		StartDate:        domain.NewDate(2024, time.January, 1),
		EndDate:          domain.NewDate(2024, time.January, 7),
		WorkingHoursFrom: domain.NewClockTime(8, 0, 0),
		WorkingHoursTo:   domain.NewClockTime(17, 0, 0),
	}
	require.NoError(t, db.Omit("Equipment", "Operator", "Supervisor").Create(&f.Report).Error)
	return f
}

// DoJSON performs a request against h and returns the recorder.
func DoJSON(t *testing.T, h http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// Envelope is the JSON shape every API response uses.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details,omitempty"`
	} `json:"error,omitempty"`
}

// Decode parses the envelope and unmarshals data into out when out is non-nil.
func Decode(t *testing.T, w *httptest.ResponseRecorder, out any) Envelope {
	t.Helper()

	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	if out != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, out), "data: %s", string(env.Data))
	}
	return env
}

func init() {
	gin.SetMode(gin.TestMode)
}
