package service

import (
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/boyuanitsm/fort/models"
	"github.com/boyuanitsm/fort/update"
	"github.com/boyuanitsm/fort/utils"
)

func groupFixture(t *testing.T) (*GroupService, *mockGroupRepo, *mockSearcher, *mockNotifier) {
	t.Helper()
	repo := newMockGroupRepo()
	searcher := newMockSearcher()
	notifier := &mockNotifier{}
	return NewGroupService(repo, searcher, notifier), repo, searcher, notifier
}

func TestGroupService_SaveCreateSendsPostEvent(t *testing.T) {
	svc, repo, searcher, notifier := groupFixture(t)
	app := &models.SecurityApp{ID: 3, AppName: "demo", AppKey: "demo-key"}

	saved, err := svc.Save(NewRequestContext(app), &models.SecurityGroup{Name: "admins"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.ID == 0 {
		t.Error("expected an assigned id")
	}
	if saved.AppID != app.ID {
		t.Errorf("expected group stamped with app %d, got %d", app.ID, saved.AppID)
	}

	if _, ok := repo.groups[saved.ID]; !ok {
		t.Error("group was not persisted")
	}
	if _, ok := searcher.saved[saved.ID]; !ok {
		t.Error("group was not mirrored to the search index")
	}

	if len(notifier.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(notifier.events))
	}
	event := notifier.events[0]
	if event.op != update.OperationPost {
		t.Errorf("expected POST, got %q", event.op)
	}
	if event.kind != update.KindSecurityGroup {
		t.Errorf("expected SECURITY_GROUP, got %q", event.kind)
	}
	if event.payload.GetAppKey() != "demo-key" {
		t.Errorf("expected payload routed by 'demo-key', got %q", event.payload.GetAppKey())
	}
}

func TestGroupService_SaveUpdateSendsPutEvent(t *testing.T) {
	svc, repo, _, notifier := groupFixture(t)
	app := &models.SecurityApp{ID: 3, AppKey: "demo-key"}
	repo.Save(&models.SecurityGroup{ID: 5, Name: "admins", AppID: 3, App: app})

	saved, err := svc.Save(NewRequestContext(app), &models.SecurityGroup{ID: 5, Name: "renamed"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.Name != "renamed" {
		t.Errorf("expected name 'renamed', got %q", saved.Name)
	}

	if len(notifier.events) != 1 || notifier.events[0].op != update.OperationPut {
		t.Fatalf("expected a single PUT event, got %+v", notifier.events)
	}
}

func TestGroupService_SaveOverridesClaimedApp(t *testing.T) {
	svc, _, _, _ := groupFixture(t)
	app := &models.SecurityApp{ID: 3, AppKey: "demo-key"}

	// The payload claims another app; the resolved tenant wins.
	saved, err := svc.Save(NewRequestContext(app), &models.SecurityGroup{Name: "admins", AppID: 99})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.AppID != 3 {
		t.Errorf("expected AppID 3, got %d", saved.AppID)
	}
}

func TestGroupService_SaveWithoutRequestContextTrustsPayload(t *testing.T) {
	svc, _, _, _ := groupFixture(t)

	saved, err := svc.Save(nil, &models.SecurityGroup{Name: "admins", AppID: 42})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.AppID != 42 {
		t.Errorf("admin save should keep the payload's AppID, got %d", saved.AppID)
	}
}

func TestGroupService_FindOneMissingReturnsNil(t *testing.T) {
	svc, _, _, _ := groupFixture(t)

	group, err := svc.FindOne(99)
	if err != nil {
		t.Fatalf("FindOne: %v", err)
	}
	if group != nil {
		t.Errorf("expected nil for a missing group, got %+v", group)
	}
}

func TestGroupService_DeleteCapturesAppKeyBeforeRemoval(t *testing.T) {
	svc, repo, searcher, notifier := groupFixture(t)
	app := &models.SecurityApp{ID: 3, AppKey: "demo-key"}
	repo.Save(&models.SecurityGroup{ID: 5, Name: "admins", AppID: 3, App: app})

	if err := svc.Delete(5); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, ok := repo.groups[5]; ok {
		t.Error("group row should be gone")
	}
	if len(searcher.deleted) != 1 || searcher.deleted[0] != 5 {
		t.Errorf("expected search document 5 removed, got %v", searcher.deleted)
	}

	if len(notifier.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(notifier.events))
	}
	event := notifier.events[0]
	if event.op != update.OperationDelete {
		t.Errorf("expected DELETE, got %q", event.op)
	}
	tombstone, ok := event.payload.(update.Tombstone)
	if !ok {
		t.Fatalf("expected Tombstone payload, got %T", event.payload)
	}
	if tombstone.ID != 5 || tombstone.AppKey != "demo-key" {
		t.Errorf("tombstone should carry the pre-delete appKey, got %+v", tombstone)
	}
}

func TestGroupService_DeleteMissingReturnsNotFound(t *testing.T) {
	svc, _, _, notifier := groupFixture(t)

	err := svc.Delete(99)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected gorm.ErrRecordNotFound, got %v", err)
	}
	if len(notifier.events) != 0 {
		t.Errorf("no event should be sent for a failed delete, got %d", len(notifier.events))
	}
}

func TestGroupService_SearchLoadsHitsInOrder(t *testing.T) {
	svc, repo, searcher, _ := groupFixture(t)
	repo.Save(&models.SecurityGroup{ID: 1, Name: "admins"})
	repo.Save(&models.SecurityGroup{ID: 2, Name: "auditors"})
	searcher.hits = []int64{2, 1}
	searcher.total = 2

	groups, total, err := svc.Search("name:a*", utils.NewPageable("", ""))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if total != 2 {
		t.Errorf("expected total 2, got %d", total)
	}
	if len(groups) != 2 || groups[0].ID != 2 || groups[1].ID != 1 {
		t.Errorf("expected hits in relevance order [2 1], got %+v", groups)
	}
}

func TestGroupService_SearchRejectsBlankQuery(t *testing.T) {
	svc, _, _, _ := groupFixture(t)

	if _, _, err := svc.Search("   ", utils.NewPageable("", "")); err == nil {
		t.Error("expected a validation error for a blank query")
	}
}

func TestGroupService_MirrorFailureDoesNotFailSave(t *testing.T) {
	svc, repo, searcher, notifier := groupFixture(t)
	searcher.err = errors.New("index unavailable")
	app := &models.SecurityApp{ID: 3, AppKey: "demo-key"}

	saved, err := svc.Save(NewRequestContext(app), &models.SecurityGroup{Name: "admins"})
	if err != nil {
		t.Fatalf("save must survive a mirror failure: %v", err)
	}
	if _, ok := repo.groups[saved.ID]; !ok {
		t.Error("group was not persisted")
	}
	if len(notifier.events) != 1 {
		t.Errorf("event should still be sent, got %d", len(notifier.events))
	}
}
