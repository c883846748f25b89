package checklist

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"

	"equipinspect/internal/pkg/validator"
	"equipinspect/internal/repository"
	"equipinspect/internal/testutil"
)

type itemList struct {
	Items []struct {
		ID          int64  `json:"item_id"`
		Description string `json:"item_description"`
		SortOrder   int    `json:"sort_order"`
	} `json:"checklist_items"`
}

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	validator.Init()

	db := testutil.SetupTestDB(t)
	h := NewHandler(NewService(repository.NewChecklistRepository(db), nil))
	r := gin.New()
	h.RegisterRoutes(r.Group("/api"))
	return r
}

func createItem(t *testing.T, r http.Handler, desc string, order int) int64 {
	t.Helper()
	rr := testutil.DoJSON(t, r, http.MethodPost, "/api/checklist-items/",
		map[string]any{"item_description": desc, "sort_order": order}, "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("create %q: expected 201, got %d: %s", desc, rr.Code, rr.Body.String())
	}
	var out struct {
		Item struct {
			ID int64 `json:"item_id"`
		} `json:"checklist_item"`
	}
	testutil.Decode(t, rr, &out)
	return out.Item.ID
}

func TestChecklistEndpoints_ListInSortOrder(t *testing.T) {
	r := setupTestRouter(t)
	createItem(t, r, "Tracks", 3)
	createItem(t, r, "Oil", 1)
	createItem(t, r, "Hoses", 2)

	rr := testutil.DoJSON(t, r, http.MethodGet, "/api/checklist-items/", nil, "")
	var list itemList
	testutil.Decode(t, rr, &list)
	if len(list.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(list.Items))
	}
	for i, want := range []string{"Oil", "Hoses", "Tracks"} {
		if list.Items[i].Description != want {
			t.Fatalf("position %d: want %q, got %q", i, want, list.Items[i].Description)
		}
	}
}

func TestChecklistEndpoints_SortOrderRequired(t *testing.T) {
	r := setupTestRouter(t)

	rr := testutil.DoJSON(t, r, http.MethodPost, "/api/checklist-items/",
		map[string]any{"item_description": "Oil"}, "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	env := testutil.Decode(t, rr, nil)
	if _, ok := env.Error.Details["sort_order"]; !ok {
		t.Fatalf("expected sort_order error, got %v", env.Error.Details)
	}
}

func TestChecklistEndpoints_Reorder(t *testing.T) {
	r := setupTestRouter(t)
	a := createItem(t, r, "A", 1)
	b := createItem(t, r, "B", 2)

	body := map[string]any{"item_orders": []map[string]any{
		{"item_id": a, "sort_order": 2},
		{"item_id": b, "sort_order": 1},
		{"item_id": 9999, "sort_order": 0},
	}}
	rr := testutil.DoJSON(t, r, http.MethodPost, "/api/checklist-items/reorder/", body, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("reorder: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var out struct {
		Message string `json:"message"`
		Updated int    `json:"updated"`
	}
	testutil.Decode(t, rr, &out)
	if out.Message != "Items reordered successfully" || out.Updated != 2 {
		t.Fatalf("unexpected reorder result: %+v", out)
	}

	rr = testutil.DoJSON(t, r, http.MethodGet, "/api/checklist-items/", nil, "")
	var list itemList
	testutil.Decode(t, rr, &list)
	if list.Items[0].ID != b || list.Items[1].ID != a {
		t.Fatalf("unexpected order after reorder: %+v", list.Items)
	}
}

func TestChecklistEndpoints_PatchAndDelete(t *testing.T) {
	r := setupTestRouter(t)
	id := createItem(t, r, "Oil", 1)
	path := "/api/checklist-items/" + strconv.FormatInt(id, 10) + "/"

	rr := testutil.DoJSON(t, r, http.MethodPatch, path, map[string]any{"item_description": ""}, "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("blank patch: expected 400, got %d", rr.Code)
	}

	rr = testutil.DoJSON(t, r, http.MethodPatch, path, map[string]any{"sort_order": 7}, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("patch: expected 200, got %d", rr.Code)
	}

	rr = testutil.DoJSON(t, r, http.MethodDelete, path, nil, "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rr.Code)
	}
	rr = testutil.DoJSON(t, r, http.MethodGet, path, nil, "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", rr.Code)
	}
}
