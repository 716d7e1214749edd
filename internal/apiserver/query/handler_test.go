package query

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"village-admin/internal/shared/model"
	"village-admin/internal/shared/storage"
	"village-admin/internal/shared/storage/memstore"
)

func setupMux(t *testing.T) (*http.ServeMux, *memstore.Store) {
	t.Helper()

	store := memstore.NewStore()
	if err := store.EnsureSequence(context.Background(), storage.SeqQueries, 0); err != nil {
		t.Fatalf("EnsureSequence: %v", err)
	}

	mux := http.NewServeMux()
	NewHandler(store, store).RegisterRoutes(mux)
	return mux, store
}

func doRequest(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

// TestCreateAndListByUsername 测试提交咨询与按用户名查询
func TestCreateAndListByUsername(t *testing.T) {
	mux, _ := setupMux(t)

	rec := doRequest(mux, "POST", "/createQuery", `{"username":"ravi","matter":"water supply"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	doRequest(mux, "POST", "/createQuery", `{"username":"sita","matter":"electricity"}`)

	t.Run("缺少用户名参数", func(t *testing.T) {
		rec := doRequest(mux, "GET", "/queries", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		var resp map[string]string
		json.NewDecoder(rec.Body).Decode(&resp)
		if resp["error"] != "Username query parameter is required" {
			t.Errorf("error = %q", resp["error"])
		}
	})

	t.Run("按用户名过滤", func(t *testing.T) {
		rec := doRequest(mux, "GET", "/queries?username=ravi", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var list []*model.Query
		json.NewDecoder(rec.Body).Decode(&list)
		if len(list) != 1 || list[0].Matter != "water supply" {
			t.Errorf("list = %+v", list)
		}
	})

	t.Run("管理端列出全部", func(t *testing.T) {
		rec := doRequest(mux, "GET", "/admin/queries", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var list []*model.Query
		json.NewDecoder(rec.Body).Decode(&list)
		if len(list) != 2 {
			t.Errorf("len = %d, want 2", len(list))
		}
	})
}

// TestRespond 测试管理员答复咨询
func TestRespond(t *testing.T) {
	mux, store := setupMux(t)
	doRequest(mux, "POST", "/createQuery", `{"username":"ravi","matter":"water supply"}`)

	rec := doRequest(mux, "PUT", "/admin/respondQuery/1", `{"response":"tanker arranged"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	list, _ := store.ListQueries(context.Background())
	if list[0].AdminResponse != "tanker arranged" {
		t.Errorf("admin_response = %q", list[0].AdminResponse)
	}

	t.Run("不存在的咨询", func(t *testing.T) {
		rec := doRequest(mux, "PUT", "/admin/respondQuery/99", `{"response":"x"}`)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("非法 id", func(t *testing.T) {
		rec := doRequest(mux, "PUT", "/admin/respondQuery/abc", `{"response":"x"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}
