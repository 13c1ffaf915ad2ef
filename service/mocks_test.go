package service

import (
	"gorm.io/gorm"

	"github.com/boyuanitsm/fort/models"
	"github.com/boyuanitsm/fort/search"
	"github.com/boyuanitsm/fort/update"
	"github.com/boyuanitsm/fort/utils"
)

// sentEvent captures one Notifier.Send call
type sentEvent struct {
	op      update.Operation
	kind    update.ResourceKind
	payload update.Keyed
}

type mockNotifier struct {
	events []sentEvent
}

func (m *mockNotifier) Send(op update.Operation, kind update.ResourceKind, payload update.Keyed) {
	m.events = append(m.events, sentEvent{op: op, kind: kind, payload: payload})
}

type mockSearcher struct {
	saved   map[int64]interface{}
	deleted []int64
	hits    []int64
	total   uint64
	err     error
}

func newMockSearcher() *mockSearcher {
	return &mockSearcher{saved: make(map[int64]interface{})}
}

func (m *mockSearcher) Save(id int64, doc interface{}) error {
	if m.err != nil {
		return m.err
	}
	m.saved[id] = doc
	return nil
}

func (m *mockSearcher) Delete(id int64) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockSearcher) Search(q search.Query, page utils.Pageable) ([]int64, uint64, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	return m.hits, m.total, nil
}

type mockGroupRepo struct {
	groups map[int64]*models.SecurityGroup
	nextID int64
}

func newMockGroupRepo() *mockGroupRepo {
	return &mockGroupRepo{groups: make(map[int64]*models.SecurityGroup), nextID: 1}
}

func (m *mockGroupRepo) Save(group *models.SecurityGroup) error {
	if group.ID == 0 {
		group.ID = m.nextID
		m.nextID++
	}
	stored := *group
	m.groups[group.ID] = &stored
	return nil
}

func (m *mockGroupRepo) FindByID(id int64) (*models.SecurityGroup, error) {
	group, ok := m.groups[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return group, nil
}

func (m *mockGroupRepo) FindByIDs(ids []int64) ([]models.SecurityGroup, error) {
	result := make([]models.SecurityGroup, 0, len(ids))
	for _, id := range ids {
		if group, ok := m.groups[id]; ok {
			result = append(result, *group)
		}
	}
	return result, nil
}

func (m *mockGroupRepo) FindAll(page utils.Pageable) ([]models.SecurityGroup, int64, error) {
	result := make([]models.SecurityGroup, 0, len(m.groups))
	for _, group := range m.groups {
		result = append(result, *group)
	}
	return result, int64(len(m.groups)), nil
}

func (m *mockGroupRepo) FindAllByAppID(page utils.Pageable, appID int64) ([]models.SecurityGroup, int64, error) {
	result := []models.SecurityGroup{}
	for _, group := range m.groups {
		if group.AppID == appID {
			result = append(result, *group)
		}
	}
	return result, int64(len(result)), nil
}

func (m *mockGroupRepo) FindByAppAndName(appID int64, name string) (*models.SecurityGroup, error) {
	for _, group := range m.groups {
		if group.AppID == appID && group.Name == name {
			return group, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGroupRepo) Delete(id int64) error {
	if _, ok := m.groups[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.groups, id)
	return nil
}

type mockAppRepo struct {
	apps   map[int64]*models.SecurityApp
	nextID int64
}

func newMockAppRepo() *mockAppRepo {
	return &mockAppRepo{apps: make(map[int64]*models.SecurityApp), nextID: 1}
}

func (m *mockAppRepo) Save(app *models.SecurityApp) error {
	if app.ID == 0 {
		app.ID = m.nextID
		m.nextID++
	}
	stored := *app
	m.apps[app.ID] = &stored
	return nil
}

func (m *mockAppRepo) FindByID(id int64) (*models.SecurityApp, error) {
	app, ok := m.apps[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return app, nil
}

func (m *mockAppRepo) FindByIDs(ids []int64) ([]models.SecurityApp, error) {
	result := make([]models.SecurityApp, 0, len(ids))
	for _, id := range ids {
		if app, ok := m.apps[id]; ok {
			result = append(result, *app)
		}
	}
	return result, nil
}

func (m *mockAppRepo) FindAll(page utils.Pageable) ([]models.SecurityApp, int64, error) {
	result := make([]models.SecurityApp, 0, len(m.apps))
	for _, app := range m.apps {
		result = append(result, *app)
	}
	return result, int64(len(m.apps)), nil
}

func (m *mockAppRepo) FindByAppName(name string) (*models.SecurityApp, error) {
	for _, app := range m.apps {
		if app.AppName == name {
			return app, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAppRepo) FindByAppKey(appKey string) (*models.SecurityApp, error) {
	for _, app := range m.apps {
		if app.AppKey == appKey {
			return app, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAppRepo) Delete(id int64) error {
	if _, ok := m.apps[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.apps, id)
	return nil
}

type mockUserRepo struct {
	users  map[int64]*models.SecurityUser
	nextID int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*models.SecurityUser), nextID: 1}
}

func (m *mockUserRepo) Save(user *models.SecurityUser) error {
	if user.ID == 0 {
		user.ID = m.nextID
		m.nextID++
	}
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) FindByID(id int64) (*models.SecurityUser, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (m *mockUserRepo) FindByIDs(ids []int64) ([]models.SecurityUser, error) {
	result := make([]models.SecurityUser, 0, len(ids))
	for _, id := range ids {
		if user, ok := m.users[id]; ok {
			result = append(result, *user)
		}
	}
	return result, nil
}

func (m *mockUserRepo) FindAll(page utils.Pageable) ([]models.SecurityUser, int64, error) {
	result := make([]models.SecurityUser, 0, len(m.users))
	for _, user := range m.users {
		result = append(result, *user)
	}
	return result, int64(len(m.users)), nil
}

func (m *mockUserRepo) FindAllByAppID(page utils.Pageable, appID int64) ([]models.SecurityUser, int64, error) {
	result := []models.SecurityUser{}
	for _, user := range m.users {
		if user.AppID == appID {
			result = append(result, *user)
		}
	}
	return result, int64(len(result)), nil
}

func (m *mockUserRepo) FindByAppAndLogin(appID int64, login string) (*models.SecurityUser, error) {
	for _, user := range m.users {
		if user.AppID == appID && user.Login == login {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Delete(id int64) error {
	if _, ok := m.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.users, id)
	return nil
}

type mockLoginEventRepo struct {
	events []*models.SecurityLoginEvent
}

func (m *mockLoginEventRepo) Save(event *models.SecurityLoginEvent) error {
	event.ID = int64(len(m.events) + 1)
	m.events = append(m.events, event)
	return nil
}

func (m *mockLoginEventRepo) FindAll(page utils.Pageable) ([]models.SecurityLoginEvent, int64, error) {
	result := make([]models.SecurityLoginEvent, 0, len(m.events))
	for _, event := range m.events {
		result = append(result, *event)
	}
	return result, int64(len(m.events)), nil
}

func (m *mockLoginEventRepo) FindAllByUserID(page utils.Pageable, userID int64) ([]models.SecurityLoginEvent, int64, error) {
	result := []models.SecurityLoginEvent{}
	for _, event := range m.events {
		if event.UserID == userID {
			result = append(result, *event)
		}
	}
	return result, int64(len(result)), nil
}

func (m *mockLoginEventRepo) FindBySt(st string) (*models.SecurityLoginEvent, error) {
	for _, event := range m.events {
		if event.St == st {
			return event, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
