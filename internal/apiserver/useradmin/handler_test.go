package useradmin

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

const testSeedAdminID = 19

func setupMux(t *testing.T) (*http.ServeMux, *memstore.Store) {
	t.Helper()

	store := memstore.NewStore()
	if err := store.EnsureSequence(context.Background(), storage.SeqUsers, 0); err != nil {
		t.Fatalf("EnsureSequence: %v", err)
	}

	mux := http.NewServeMux()
	NewHandler(store, store, testSeedAdminID).RegisterRoutes(mux)
	return mux, store
}

func doRequest(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func addUser(t *testing.T, store *memstore.Store, u *model.User) {
	t.Helper()
	if err := store.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser(%d): %v", u.ID, err)
	}
}

// TestActivateUser 测试激活审批
func TestActivateUser(t *testing.T) {
	mux, store := setupMux(t)
	addUser(t, store, &model.User{ID: 1, Username: "ravi", Activation: model.ActivationPending, UserType: model.UserTypeUser})

	rec := doRequest(mux, "POST", "/activate-user", `{"user_id":1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	user, _ := store.GetUserByUsername(context.Background(), "ravi")
	if user.Activation != model.ActivationActive {
		t.Errorf("Activation = %d, want %d", user.Activation, model.ActivationActive)
	}

	t.Run("不存在的用户", func(t *testing.T) {
		rec := doRequest(mux, "POST", "/activate-user", `{"user_id":99}`)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

// TestDeactivateUser 测试注销：删除记录，且无论是否删到都返回成功
func TestDeactivateUser(t *testing.T) {
	mux, store := setupMux(t)
	addUser(t, store, &model.User{ID: 1, Username: "ravi", UserType: model.UserTypeUser})

	rec := doRequest(mux, "POST", "/deactivate-user", `{"user_id":1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if user, _ := store.GetUserByUsername(context.Background(), "ravi"); user != nil {
		t.Error("user still exists after deactivation")
	}

	// 再次注销同一 id 仍然返回成功
	rec = doRequest(mux, "POST", "/deactivate-user", `{"user_id":1}`)
	if rec.Code != http.StatusOK {
		t.Errorf("repeat status = %d, want 200", rec.Code)
	}
}

// TestPendingUsers 测试待激活列表，空集返回 404
func TestPendingUsers(t *testing.T) {
	mux, store := setupMux(t)

	rec := doRequest(mux, "GET", "/pending-users", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("empty status = %d, want 404", rec.Code)
	}
	var resp map[string]string
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["message"] != "No pending users found" {
		t.Errorf("message = %q", resp["message"])
	}

	addUser(t, store, &model.User{ID: 1, Username: "ravi", Activation: model.ActivationPending, UserType: model.UserTypeUser})
	addUser(t, store, &model.User{ID: 2, Username: "sita", Activation: model.ActivationActive, UserType: model.UserTypeUser})

	rec = doRequest(mux, "GET", "/pending-users", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var users []*model.User
	json.NewDecoder(rec.Body).Decode(&users)
	if len(users) != 1 || users[0].Username != "ravi" {
		t.Errorf("pending users = %+v, want only ravi", users)
	}
}

// TestAddAdmin 测试新增管理员
func TestAddAdmin(t *testing.T) {
	mux, store := setupMux(t)

	rec := doRequest(mux, "POST", "/add-admin", `{"username":"boss","password":"secret","name":"Boss"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	// 管理员创建即激活
	user, _ := store.GetUserByUsername(context.Background(), "boss")
	if user == nil {
		t.Fatal("admin not created")
	}
	if user.Activation != model.ActivationActive {
		t.Errorf("Activation = %d, want %d", user.Activation, model.ActivationActive)
	}
	if user.UserType != model.UserTypeAdmin {
		t.Errorf("UserType = %q, want %q", user.UserType, model.UserTypeAdmin)
	}

	t.Run("用户名冲突", func(t *testing.T) {
		rec := doRequest(mux, "POST", "/add-admin", `{"username":"boss","password":"other"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		var resp map[string]string
		json.NewDecoder(rec.Body).Decode(&resp)
		if resp["error"] != "Username already exists" {
			t.Errorf("error = %q", resp["error"])
		}
	})
}

// TestRemoveAdmin 测试删除管理员：仅限 admin 类型
func TestRemoveAdmin(t *testing.T) {
	mux, store := setupMux(t)
	addUser(t, store, &model.User{ID: 1, Username: "boss", UserType: model.UserTypeAdmin})
	addUser(t, store, &model.User{ID: 2, Username: "ravi", UserType: model.UserTypeUser})

	rec := doRequest(mux, "POST", "/remove-admin", `{"user_id":1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	// 普通用户不能按管理员删除
	rec = doRequest(mux, "POST", "/remove-admin", `{"user_id":2}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var resp map[string]string
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["message"] != "Admin not found or not an admin" {
		t.Errorf("message = %q", resp["message"])
	}
}

// TestAdminUsers 测试管理员列表排除种子管理员
func TestAdminUsers(t *testing.T) {
	mux, store := setupMux(t)
	addUser(t, store, &model.User{ID: testSeedAdminID, Username: "seed", UserType: model.UserTypeAdmin})
	addUser(t, store, &model.User{ID: 1, Username: "boss", UserType: model.UserTypeAdmin})

	rec := doRequest(mux, "GET", "/admin/users", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var admins []*model.User
	json.NewDecoder(rec.Body).Decode(&admins)
	if len(admins) != 1 || admins[0].Username != "boss" {
		t.Errorf("admins = %+v, want only boss", admins)
	}
}

// TestAdminContacts 测试管理员联系方式投影
func TestAdminContacts(t *testing.T) {
	mux, store := setupMux(t)
	addUser(t, store, &model.User{
		ID: 1, Username: "boss", Name: "Boss", Phone: "12345",
		JobTitle: "Sarpanch", UserType: model.UserTypeAdmin,
	})

	rec := doRequest(mux, "GET", "/admins", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var contacts []map[string]string
	json.NewDecoder(rec.Body).Decode(&contacts)
	if len(contacts) != 1 {
		t.Fatalf("contacts = %+v, want 1", contacts)
	}
	c := contacts[0]
	if c["name"] != "Boss" || c["phone"] != "12345" || c["job_title"] != "Sarpanch" {
		t.Errorf("contact = %+v", c)
	}
	if _, ok := c["username"]; ok {
		t.Error("contact projection leaked username")
	}
}

// TestUsers 测试已激活用户列表不泄露密码与激活状态
func TestUsers(t *testing.T) {
	mux, store := setupMux(t)
	addUser(t, store, &model.User{
		ID: 1, Username: "ravi", Name: "Ravi", Password: "hash",
		Activation: model.ActivationActive, UserType: model.UserTypeUser,
	})
	addUser(t, store, &model.User{ID: 2, Username: "pending", Activation: model.ActivationPending, UserType: model.UserTypeUser})

	rec := doRequest(mux, "GET", "/users", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var users []map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&users)
	if len(users) != 1 {
		t.Fatalf("users = %+v, want 1", users)
	}
	for _, key := range []string{"password", "activation", "user_type"} {
		if _, ok := users[0][key]; ok {
			t.Errorf("projection leaked %q", key)
		}
	}
}

// TestRemoveUser 测试删除普通用户：仅限 user 类型
func TestRemoveUser(t *testing.T) {
	mux, store := setupMux(t)
	addUser(t, store, &model.User{ID: 1, Username: "boss", UserType: model.UserTypeAdmin})

	rec := doRequest(mux, "POST", "/remove-user", `{"user_id":1}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var resp map[string]string
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["message"] != "User not found or not a user" {
		t.Errorf("message = %q", resp["message"])
	}
}

// TestProfile 测试个人资料查看与更新
func TestProfile(t *testing.T) {
	mux, store := setupMux(t)
	addUser(t, store, &model.User{ID: 1, Username: "ravi", Name: "Ravi", UserType: model.UserTypeUser})

	t.Run("缺少参数", func(t *testing.T) {
		rec := doRequest(mux, "GET", "/user/profile", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("用户不存在", func(t *testing.T) {
		rec := doRequest(mux, "GET", "/user/profile?username=ghost", "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("查看资料", func(t *testing.T) {
		rec := doRequest(mux, "GET", "/user/profile?username=ravi", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		// json:"-" 保证密码不出现在响应中
		if strings.Contains(rec.Body.String(), "password") {
			t.Error("profile response leaked password field")
		}
	})

	t.Run("更新资料", func(t *testing.T) {
		rec := doRequest(mux, "PUT", "/user/profile/update",
			`{"username":"ravi","name":"Ravi Kumar","phone":"98765","address":"Village","jobTitle":"Farmer","email":"ravi@example.com"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		user, _ := store.GetUserByUsername(context.Background(), "ravi")
		if user.Name != "Ravi Kumar" || user.Phone != "98765" || user.JobTitle != "Farmer" {
			t.Errorf("profile = %+v", user)
		}
	})

	t.Run("更新不存在的用户", func(t *testing.T) {
		rec := doRequest(mux, "PUT", "/user/profile/update", `{"username":"ghost","name":"X"}`)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}
