package auth

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
	if err := store.EnsureSequence(context.Background(), storage.SeqUsers, 0); err != nil {
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

// TestSignup 测试村民注册
func TestSignup(t *testing.T) {
	mux, store := setupMux(t)

	rec := doRequest(mux, "POST", "/signup", `{"username":"ravi","password":"secret","name":"Ravi"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp map[string]string
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["message"] != "User registered successfully. Awaiting activation." {
		t.Errorf("message = %q", resp["message"])
	}

	// 注册后账号待激活、类型 user、id 从 1 开始
	user, err := store.GetUserByUsername(context.Background(), "ravi")
	if err != nil || user == nil {
		t.Fatalf("GetUserByUsername: user=%v err=%v", user, err)
	}
	if user.ID != 1 {
		t.Errorf("ID = %d, want 1", user.ID)
	}
	if user.Activation != model.ActivationPending {
		t.Errorf("Activation = %d, want %d", user.Activation, model.ActivationPending)
	}
	if user.UserType != model.UserTypeUser {
		t.Errorf("UserType = %q, want %q", user.UserType, model.UserTypeUser)
	}
	if user.Password == "secret" {
		t.Error("password stored in plaintext")
	}
}

// TestSignup_DuplicateUsername 测试用户名冲突
func TestSignup_DuplicateUsername(t *testing.T) {
	mux, _ := setupMux(t)

	doRequest(mux, "POST", "/signup", `{"username":"ravi","password":"secret"}`)
	rec := doRequest(mux, "POST", "/signup", `{"username":"ravi","password":"other"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var resp map[string]string
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["error"] != "Try using different username" {
		t.Errorf("error = %q", resp["error"])
	}
}

// TestSignup_MissingFields 测试缺少必填字段
func TestSignup_MissingFields(t *testing.T) {
	mux, _ := setupMux(t)

	tests := []struct {
		name string
		body string
	}{
		{"缺少密码", `{"username":"ravi"}`},
		{"缺少用户名", `{"password":"secret"}`},
		{"无效 JSON", `{invalid}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(mux, "POST", "/signup", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

// TestLogin 测试登录各分支
func TestLogin(t *testing.T) {
	mux, store := setupMux(t)
	ctx := context.Background()

	// 预置一个已激活用户和一个待激活用户
	hash, _ := HashPassword("secret")
	store.CreateUser(ctx, &model.User{
		ID: 1, Username: "active", Password: hash,
		Activation: model.ActivationActive, UserType: model.UserTypeUser,
	})
	store.CreateUser(ctx, &model.User{
		ID: 2, Username: "pending", Password: hash,
		Activation: model.ActivationPending, UserType: model.UserTypeUser,
	})

	t.Run("登录成功", func(t *testing.T) {
		rec := doRequest(mux, "POST", "/login", `{"username":"active","password":"secret"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var resp loginResponse
		json.NewDecoder(rec.Body).Decode(&resp)
		if !resp.Success {
			t.Error("Success = false, want true")
		}
		if resp.UserType != model.UserTypeUser {
			t.Errorf("UserType = %q, want %q", resp.UserType, model.UserTypeUser)
		}
	})

	t.Run("未激活账号返回200但success为false", func(t *testing.T) {
		rec := doRequest(mux, "POST", "/login", `{"username":"pending","password":"secret"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var resp loginResponse
		json.NewDecoder(rec.Body).Decode(&resp)
		if resp.Success {
			t.Error("Success = true, want false")
		}
		if resp.Message != "Account not activated" {
			t.Errorf("Message = %q", resp.Message)
		}
	})

	// 密码错误与用户不存在必须返回完全相同的响应
	t.Run("凭据错误不区分原因", func(t *testing.T) {
		wrongPass := doRequest(mux, "POST", "/login", `{"username":"active","password":"wrong"}`)
		noUser := doRequest(mux, "POST", "/login", `{"username":"ghost","password":"secret"}`)

		if wrongPass.Code != http.StatusUnauthorized {
			t.Errorf("wrong password status = %d, want 401", wrongPass.Code)
		}
		if noUser.Code != http.StatusUnauthorized {
			t.Errorf("unknown user status = %d, want 401", noUser.Code)
		}
		if wrongPass.Body.String() != noUser.Body.String() {
			t.Errorf("responses differ: %q vs %q", wrongPass.Body.String(), noUser.Body.String())
		}
	})

	t.Run("缺少字段", func(t *testing.T) {
		rec := doRequest(mux, "POST", "/login", `{"username":"active"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

// TestSignup_SequenceNotInitialized 测试计数器未预置时注册失败
func TestSignup_SequenceNotInitialized(t *testing.T) {
	store := memstore.NewStore()
	mux := http.NewServeMux()
	NewHandler(store, store).RegisterRoutes(mux)

	rec := doRequest(mux, "POST", "/signup", `{"username":"ravi","password":"secret"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}
