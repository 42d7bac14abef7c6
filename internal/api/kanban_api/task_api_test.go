package kanban_api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JulianKoehler/kanban-backend/internal/model/kanban_model"
	"github.com/JulianKoehler/kanban-backend/internal/reconcile"
	"github.com/JulianKoehler/kanban-backend/internal/repository/kanban_repository"
	"github.com/gorilla/mux"
)

type fakeTaskService struct {
	err         error
	task        *kanban_model.TaskResponse
	deleted     *kanban_model.TaskDeleteResponse
	gotSubtasks []reconcile.Edit[kanban_model.SubtaskEdit]
	gotStageID  string
	gotAssignee string
}

func (f *fakeTaskService) CreateTask(_ context.Context, userID string, data kanban_model.TaskCreate, subtasks []reconcile.Edit[kanban_model.SubtaskEdit]) (*kanban_model.TaskResponse, error) {
	f.gotSubtasks = subtasks
	if f.err != nil {
		return nil, f.err
	}
	return f.task, nil
}

func (f *fakeTaskService) UpdateTask(_ context.Context, taskID, userID string, data kanban_model.TaskUpdate, subtasks []reconcile.Edit[kanban_model.SubtaskEdit]) (*kanban_model.TaskResponse, error) {
	f.gotSubtasks = subtasks
	if f.err != nil {
		return nil, f.err
	}
	return f.task, nil
}

func (f *fakeTaskService) MoveTask(_ context.Context, taskID, newStageID, userID string) (*kanban_model.TaskResponse, error) {
	f.gotStageID = newStageID
	if f.err != nil {
		return nil, f.err
	}
	return f.task, nil
}

func (f *fakeTaskService) AssignUser(_ context.Context, taskID, assigneeID, userID string) (*kanban_model.TaskResponse, error) {
	f.gotAssignee = assigneeID
	if f.err != nil {
		return nil, f.err
	}
	return f.task, nil
}

func (f *fakeTaskService) DeleteTask(_ context.Context, taskID, userID string) (*kanban_model.TaskDeleteResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.deleted, nil
}

func taskRouter(svc TaskService) *mux.Router {
	r := mux.NewRouter()
	NewTaskHandler(svc, fakeParser{userID: "user-1"}).TaskRoutes(r)
	return r
}

func TestCreateTaskClassifiesSubtasks(t *testing.T) {
	svc := &fakeTaskService{task: &kanban_model.TaskResponse{ID: testTaskID, Title: "Ship it"}}
	payload := `{
        "title": "Ship it",
        "description": "",
        "board_id": "` + testBoardID + `",
        "stage_id": "` + testStageID + `",
        "assigned_user_id": null,
        "subtasks": [
            {"title": "Write docs", "index": 0, "is_new": true},
            {"id": "` + testTaskID + `", "title": "Drop me", "markedForDeletion": true}
        ]
    }`
	req := authed(httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(payload)))
	rec := httptest.NewRecorder()
	taskRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(svc.gotSubtasks) != 2 {
		t.Fatalf("expected 2 subtask edits, got %d", len(svc.gotSubtasks))
	}
	if svc.gotSubtasks[0].Kind != reconcile.KindNew {
		t.Fatalf("first subtask must classify as new, got %v", svc.gotSubtasks[0].Kind)
	}
	if svc.gotSubtasks[1].Kind != reconcile.KindDeleted {
		t.Fatalf("second subtask must classify as deleted, got %v", svc.gotSubtasks[1].Kind)
	}
}

func TestUpdateTaskNotFound(t *testing.T) {
	svc := &fakeTaskService{err: kanban_repository.ErrTaskNotFound}
	payload := `{"title":"X","description":"","board_id":"` + testBoardID + `","stage_id":"` + testStageID + `","subtasks":[]}`
	req := authed(httptest.NewRequest(http.MethodPut, "/tasks/"+testTaskID, strings.NewReader(payload)))
	rec := httptest.NewRecorder()
	taskRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestMoveTaskForwardsStage(t *testing.T) {
	svc := &fakeTaskService{task: &kanban_model.TaskResponse{ID: testTaskID}}
	req := authed(httptest.NewRequest(http.MethodPatch, "/tasks/stage/"+testTaskID,
		strings.NewReader(`{"new_stage_id":"`+testStageID+`"}`)))
	rec := httptest.NewRecorder()
	taskRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotStageID != testStageID {
		t.Fatalf("stage not forwarded, got %q", svc.gotStageID)
	}
}

func TestMoveTaskRejectsMalformedStage(t *testing.T) {
	req := authed(httptest.NewRequest(http.MethodPatch, "/tasks/stage/"+testTaskID,
		strings.NewReader(`{"new_stage_id":"nope"}`)))
	rec := httptest.NewRecorder()
	taskRouter(&fakeTaskService{}).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAssignUserForwardsAssignee(t *testing.T) {
	svc := &fakeTaskService{task: &kanban_model.TaskResponse{ID: testTaskID}}
	req := authed(httptest.NewRequest(http.MethodPatch, "/tasks/assignment/"+testTaskID,
		strings.NewReader(`{"assigned_user_id":"`+testOwnerID+`"}`)))
	rec := httptest.NewRecorder()
	taskRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotAssignee != testOwnerID {
		t.Fatalf("assignee not forwarded, got %q", svc.gotAssignee)
	}
}

func TestDeleteTaskReturnsParents(t *testing.T) {
	svc := &fakeTaskService{deleted: &kanban_model.TaskDeleteResponse{BoardID: testBoardID, StageID: testStageID}}
	rec := httptest.NewRecorder()
	taskRouter(svc).ServeHTTP(rec, authed(httptest.NewRequest(http.MethodDelete, "/tasks/"+testTaskID, nil)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body kanban_model.TaskDeleteResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body.BoardID != testBoardID || body.StageID != testStageID {
		t.Fatalf("unexpected parents: %+v", body)
	}
}
