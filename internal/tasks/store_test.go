package tasks

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"taskmate/internal/service"
	"taskmate/internal/testutil"
)

func newStore(t *testing.T) (*Store, *testutil.FakeService) {
	t.Helper()
	svc := testutil.NewFakeService()
	return NewStore(svc, nil), svc
}

func TestStore_ActivateLoadsOnce(t *testing.T) {
	s, svc := newStore(t)
	svc.AddTask("Buy milk", "Two liters", false)
	svc.AddTask("Walk dog", "Park", true)

	if s.Len() != 0 {
		t.Fatalf("new store should be empty, got %d", s.Len())
	}
	for i := 0; i < 3; i++ {
		if err := s.Activate(context.Background()); err != nil {
			t.Fatalf("activate: %v", err)
		}
	}
	if svc.CallCount("ListTasks") != 1 {
		t.Errorf("expected one initial load, got %d", svc.CallCount("ListTasks"))
	}
	if s.Len() != 2 || s.Tasks()[0].Title != "Buy milk" {
		t.Errorf("unexpected tasks %+v", s.Tasks())
	}

	if err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if svc.CallCount("ListTasks") != 2 {
		t.Errorf("refresh should always reload")
	}
}

func TestStore_ActivateRetriesAfterFailure(t *testing.T) {
	s, svc := newStore(t)
	svc.ListTasksErr = errors.New("connection refused")

	if err := s.Activate(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if s.Loaded() {
		t.Error("failed load must not mark the store loaded")
	}

	svc.ListTasksErr = nil
	if err := s.Activate(context.Background()); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if !s.Loaded() {
		t.Error("expected loaded after retry")
	}
}

func TestStore_AddAppendsServerRecord(t *testing.T) {
	s, svc := newStore(t)
	svc.AddTask("Existing", "x", false)
	if err := s.Activate(context.Background()); err != nil {
		t.Fatalf("activate: %v", err)
	}

	before := s.Len()
	created, err := s.Add(context.Background(), service.NewTask{Title: "Buy milk", Description: "Two liters"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if s.Len() != before+1 {
		t.Fatalf("expected length %d, got %d", before+1, s.Len())
	}
	last := s.Tasks()[s.Len()-1]
	if last.ID != created.ID || created.ID == "" {
		t.Errorf("appended id %q should match server id %q", last.ID, created.ID)
	}
}

func TestStore_UpdateOnlyTouchesMatchingRecord(t *testing.T) {
	s, svc := newStore(t)
	a := svc.AddTask("A", "a", false)
	b := svc.AddTask("B", "b", false)
	if err := s.Activate(context.Background()); err != nil {
		t.Fatalf("activate: %v", err)
	}

	if _, err := s.Update(context.Background(), b.ID, service.TaskPatch{Completed: service.Bool(true)}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got := s.Tasks()
	if !reflect.DeepEqual(got[0], a) {
		t.Errorf("unrelated record changed: %+v", got[0])
	}
	if !got[1].Completed || got[1].Title != "B" {
		t.Errorf("expected B completed, got %+v", got[1])
	}
}

func TestStore_UpdateMissingLocallyChangesNothing(t *testing.T) {
	s, svc := newStore(t)
	if err := s.Activate(context.Background()); err != nil {
		t.Fatalf("activate: %v", err)
	}
	remote := svc.AddTask("Remote only", "x", false)

	if _, err := s.Update(context.Background(), remote.ID, service.TaskPatch{Title: service.String("Y")}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("update must not insert, got %+v", s.Tasks())
	}
}

func TestStore_DeleteRemovesID(t *testing.T) {
	s, svc := newStore(t)
	a := svc.AddTask("A", "a", false)
	svc.AddTask("B", "b", false)
	if err := s.Activate(context.Background()); err != nil {
		t.Fatalf("activate: %v", err)
	}

	if err := s.Delete(context.Background(), a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := s.Get(a.ID); ok {
		t.Error("deleted id still present")
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 task left, got %d", s.Len())
	}
}

func TestStore_FailuresLeaveStateUnchanged(t *testing.T) {
	s, svc := newStore(t)
	a := svc.AddTask("A", "a", false)
	if err := s.Activate(context.Background()); err != nil {
		t.Fatalf("activate: %v", err)
	}
	before := s.Tasks()

	boom := errors.New("boom")
	svc.CreateTaskErr = boom
	svc.UpdateTaskErr = boom
	svc.DeleteTaskErr = boom

	if _, err := s.Add(context.Background(), service.NewTask{Title: "X", Description: "x"}); !errors.Is(err, boom) {
		t.Errorf("expected add error, got %v", err)
	}
	if _, err := s.Update(context.Background(), a.ID, service.TaskPatch{Completed: service.Bool(true)}); !errors.Is(err, boom) {
		t.Errorf("expected update error, got %v", err)
	}
	if err := s.Delete(context.Background(), a.ID); !errors.Is(err, boom) {
		t.Errorf("expected delete error, got %v", err)
	}

	if !reflect.DeepEqual(before, s.Tasks()) {
		t.Errorf("state changed after failures: %+v", s.Tasks())
	}
}

func TestStore_ClearMakesNoCalls(t *testing.T) {
	s, svc := newStore(t)
	svc.AddTask("A", "a", false)
	if err := s.Activate(context.Background()); err != nil {
		t.Fatalf("activate: %v", err)
	}
	calls := svc.TotalCalls()

	s.Clear()

	if svc.TotalCalls() != calls {
		t.Error("Clear must not call the gateway")
	}
	if s.Len() != 0 || s.Loaded() {
		t.Errorf("expected empty, unloaded store")
	}
	if len(svc.ServerTasks()) != 1 {
		t.Error("server state must be untouched")
	}
}

func TestStore_TasksReturnsCopy(t *testing.T) {
	s, svc := newStore(t)
	svc.AddTask("A", "a", false)
	if err := s.Activate(context.Background()); err != nil {
		t.Fatalf("activate: %v", err)
	}
	list := s.Tasks()
	list[0].Title = "mutated"
	if s.Tasks()[0].Title != "A" {
		t.Error("caller mutation leaked into the store")
	}
}

func TestProgress(t *testing.T) {
	s, svc := newStore(t)
	if r := s.Progress().Ratio(); r != 0 {
		t.Errorf("empty ratio should be 0, got %v", r)
	}

	svc.AddTask("A", "a", true)
	svc.AddTask("B", "b", false)
	svc.AddTask("C", "c", true)
	svc.AddTask("D", "d", false)
	if err := s.Activate(context.Background()); err != nil {
		t.Fatalf("activate: %v", err)
	}

	p := s.Progress()
	if p.Completed != 2 || p.Total != 4 || p.Ratio() != 0.5 {
		t.Errorf("unexpected progress %+v ratio %v", p, p.Ratio())
	}
}
