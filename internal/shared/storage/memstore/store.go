// Package memstore 实现基于内存的 PersistentStore
//
// 用于 Handler 单元测试，不依赖外部 MongoDB。
// 唯一键和序列契约与 mongostore 保持一致：
//   - username / crop_name / (place_id, crop_id) / id 冲突返回 ErrDuplicate
//   - NextSequence 未预置时返回 ErrSequenceNotInitialized
package memstore

import (
	"context"
	"sort"
	"sync"

	"village-admin/internal/shared/model"
	"village-admin/internal/shared/storage"
)

// Store 内存存储
type Store struct {
	mu sync.Mutex

	counters      map[string]int64
	users         map[int64]*model.User
	announcements map[int64]*model.Announcement
	suggestions   map[int64]*model.Suggestion
	queries       map[int64]*model.Query
	places        map[int64]*model.Place
	crops         map[int64]*model.Crop
	prices        map[int64]*model.Price
}

// NewStore 创建空的内存存储（无预置计数器）
func NewStore() *Store {
	return &Store{
		counters:      make(map[string]int64),
		users:         make(map[int64]*model.User),
		announcements: make(map[int64]*model.Announcement),
		suggestions:   make(map[int64]*model.Suggestion),
		queries:       make(map[int64]*model.Query),
		places:        make(map[int64]*model.Place),
		crops:         make(map[int64]*model.Crop),
		prices:        make(map[int64]*model.Price),
	}
}

// Close 实现 PersistentStore
func (s *Store) Close() error { return nil }

// AddPlace 测试辅助：直接写入地点参考数据
func (s *Store) AddPlace(p *model.Place) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.places[p.ID] = &cp
}

var _ storage.PersistentStore = (*Store)(nil)

// ============================================================================
// SequenceStore
// ============================================================================

func (s *Store) NextSequence(_ context.Context, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.counters[name]
	if !ok {
		return 0, storage.ErrSequenceNotInitialized
	}
	current++
	s.counters[name] = current
	return current, nil
}

func (s *Store) EnsureSequence(_ context.Context, name string, start int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.counters[name]; !ok {
		s.counters[name] = start
	}
	return nil
}

// ============================================================================
// UserStore
// ============================================================================

func (s *Store) CreateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; ok {
		return storage.ErrDuplicate
	}
	for _, u := range s.users {
		if u.Username == user.Username {
			return storage.ErrDuplicate
		}
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Store) UpdateUserActivation(_ context.Context, id int64, activation int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	u.Activation = activation
	return nil
}

func (s *Store) UpdateUserProfile(_ context.Context, username string, p model.ProfileUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			u.Name = p.Name
			u.Phone = p.Phone
			u.Address = p.Address
			u.JobTitle = p.JobTitle
			u.Email = p.Email
			return nil
		}
	}
	return storage.ErrNotFound
}

func (s *Store) DeleteUser(_ context.Context, id int64, userType model.UserType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok || (userType != "" && u.UserType != userType) {
		return storage.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *Store) ListPendingUsers(_ context.Context) ([]*model.User, error) {
	return s.listUsers(func(u *model.User) bool {
		return u.Activation == model.ActivationPending
	}), nil
}

func (s *Store) ListActiveUsers(_ context.Context) ([]*model.User, error) {
	return s.listUsers(func(u *model.User) bool {
		return u.UserType == model.UserTypeUser && u.Activation == model.ActivationActive
	}), nil
}

func (s *Store) ListAdmins(_ context.Context, excludeID int64) ([]*model.User, error) {
	return s.listUsers(func(u *model.User) bool {
		return u.UserType == model.UserTypeAdmin && !(excludeID > 0 && u.ID == excludeID)
	}), nil
}

func (s *Store) ListAdminContacts(_ context.Context) ([]*model.AdminContact, error) {
	admins := s.listUsers(func(u *model.User) bool {
		return u.UserType == model.UserTypeAdmin
	})

	contacts := []*model.AdminContact{}
	for _, u := range admins {
		contacts = append(contacts, &model.AdminContact{Name: u.Name, Phone: u.Phone, JobTitle: u.JobTitle})
	}
	return contacts, nil
}

func (s *Store) listUsers(match func(*model.User) bool) []*model.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []*model.User{}
	for _, u := range s.users {
		if match(u) {
			cp := *u
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// ============================================================================
// AnnouncementStore
// ============================================================================

func (s *Store) CreateAnnouncement(_ context.Context, a *model.Announcement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.announcements[a.ID]; ok {
		return storage.ErrDuplicate
	}
	cp := *a
	s.announcements[a.ID] = &cp
	return nil
}

func (s *Store) ListAnnouncements(_ context.Context) ([]*model.Announcement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []*model.Announcement{}
	for _, a := range s.announcements {
		cp := *a
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (s *Store) UpdateAnnouncement(_ context.Context, id int64, title, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.announcements[id]
	if !ok {
		return storage.ErrNotFound
	}
	a.Title = title
	a.Content = content
	return nil
}

func (s *Store) DeleteAnnouncement(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.announcements[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.announcements, id)
	return nil
}

// ============================================================================
// SuggestionStore
// ============================================================================

func (s *Store) CreateSuggestion(_ context.Context, sg *model.Suggestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.suggestions[sg.ID]; ok {
		return storage.ErrDuplicate
	}
	cp := *sg
	s.suggestions[sg.ID] = &cp
	return nil
}

func (s *Store) ListSuggestions(_ context.Context) ([]*model.Suggestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []*model.Suggestion{}
	for _, sg := range s.suggestions {
		cp := *sg
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (s *Store) RespondSuggestion(_ context.Context, id int64, response string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sg, ok := s.suggestions[id]
	if !ok {
		return storage.ErrNotFound
	}
	sg.Response = response
	return nil
}

// ============================================================================
// QueryStore
// ============================================================================

func (s *Store) CreateQuery(_ context.Context, q *model.Query) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.queries[q.ID]; ok {
		return storage.ErrDuplicate
	}
	cp := *q
	s.queries[q.ID] = &cp
	return nil
}

func (s *Store) ListQueries(_ context.Context) ([]*model.Query, error) {
	return s.listQueries(""), nil
}

func (s *Store) ListQueriesByUsername(_ context.Context, username string) ([]*model.Query, error) {
	return s.listQueries(username), nil
}

func (s *Store) listQueries(username string) []*model.Query {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []*model.Query{}
	for _, q := range s.queries {
		if username == "" || q.Username == username {
			cp := *q
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Time.After(result[j].Time) })
	return result
}

func (s *Store) RespondQuery(_ context.Context, id int64, response string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.queries[id]
	if !ok {
		return storage.ErrNotFound
	}
	q.AdminResponse = response
	return nil
}

// ============================================================================
// MarketStore
// ============================================================================

func (s *Store) ListPlaces(_ context.Context) ([]*model.Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []*model.Place{}
	for _, p := range s.places {
		cp := *p
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *Store) CreateCrop(_ context.Context, c *model.Crop) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.crops[c.ID]; ok {
		return storage.ErrDuplicate
	}
	for _, existing := range s.crops {
		if existing.CropName == c.CropName {
			return storage.ErrDuplicate
		}
	}
	cp := *c
	s.crops[c.ID] = &cp
	return nil
}

func (s *Store) ListCrops(_ context.Context) ([]*model.Crop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []*model.Crop{}
	for _, c := range s.crops {
		cp := *c
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *Store) UpdateCrop(_ context.Context, id int64, cropName string, avgPrice model.FlexValue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.crops[id]
	if !ok {
		return storage.ErrNotFound
	}
	c.CropName = cropName
	c.AvgPrice = avgPrice
	return nil
}

func (s *Store) UpdateCropAvgPrice(_ context.Context, id int64, avgPrice model.FlexValue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.crops[id]
	if !ok {
		return storage.ErrNotFound
	}
	c.AvgPrice = avgPrice
	return nil
}

func (s *Store) CreatePrice(_ context.Context, p *model.Price) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.prices[p.ID]; ok {
		return storage.ErrDuplicate
	}
	for _, existing := range s.prices {
		if existing.PlaceID == p.PlaceID && existing.CropID == p.CropID {
			return storage.ErrDuplicate
		}
	}
	cp := *p
	s.prices[p.ID] = &cp
	return nil
}

func (s *Store) UpdatePrice(_ context.Context, id int64, price model.FlexValue, monthYear string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.prices[id]
	if !ok {
		return storage.ErrNotFound
	}
	p.Price = price
	p.MonthYear = monthYear
	return nil
}

func (s *Store) CropsForPlace(_ context.Context, placeID int64) ([]*model.CropPriceRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := []*model.CropPriceRow{}
	for _, p := range s.prices {
		if p.PlaceID != placeID {
			continue
		}
		row := &model.CropPriceRow{
			ID:        p.ID,
			Price:     p.Price,
			MonthYear: p.MonthYear,
			CropName:  "Unknown",
			AvgPrice:  model.FlexNumber(0),
		}
		if c, ok := s.crops[p.CropID]; ok {
			row.CropName = c.CropName
			// avg_price 为 null 时保持 0 兜底，与聚合投影的 $ifNull 一致
			if !c.AvgPrice.IsZero() {
				row.AvgPrice = c.AvgPrice
			}
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}
