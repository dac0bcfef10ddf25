package service

import (
	"errors"
	"testing"

	"eco-ui/database/model"
)

func TestCreateEcoStartsAsDraft(t *testing.T) {
	users, ecos := newTestServices(t)

	id, err := ecos.CreateEco("Valve swap", "Replace the relief valve.", "stone")
	if err != nil {
		t.Fatalf("CreateEco() error = %v", err)
	}

	details, err := ecos.GetEcoDetails(id)
	if err != nil {
		t.Fatalf("GetEcoDetails() error = %v", err)
	}
	if details.Status != model.StatusDraft {
		t.Errorf("status = %s, want DRAFT", details.Status)
	}
	if details.CreatedBy != "stone" {
		t.Errorf("createdBy = %q, want stone", details.CreatedBy)
	}
	if len(details.History) != 1 || details.History[0].Action != model.ActionCreated {
		t.Errorf("history = %+v, want a single CREATED event", details.History)
	}

	// creator was implicitly created
	if _, err := users.GetOrCreateUser("stone"); err != nil {
		t.Fatal(err)
	}
}

func TestWorkflowScenario(t *testing.T) {
	_, ecos := newTestServices(t)

	id, err := ecos.CreateEco("Apollo", "desc", "Stone")
	if err != nil {
		t.Fatal(err)
	}
	if err := ecos.SubmitEco(id, "Stone", "ready"); err != nil {
		t.Fatalf("SubmitEco() error = %v", err)
	}
	if err := ecos.ApproveEco(id, "Admin", "go"); err != nil {
		t.Fatalf("ApproveEco() error = %v", err)
	}

	details, err := ecos.GetEcoDetails(id)
	if err != nil {
		t.Fatal(err)
	}
	if details.Status != model.StatusApproved {
		t.Errorf("final status = %s, want APPROVED", details.Status)
	}

	wantActions := []string{model.ActionCreated, model.ActionSubmitted, model.ActionApproved}
	if len(details.History) != len(wantActions) {
		t.Fatalf("history length = %d, want %d", len(details.History), len(wantActions))
	}
	for i, want := range wantActions {
		if details.History[i].Action != want {
			t.Errorf("history[%d].Action = %s, want %s", i, details.History[i].Action, want)
		}
	}
	if details.History[1].Comment != "ready" || details.History[2].Comment != "go" {
		t.Errorf("transition comments = %q, %q; want ready, go", details.History[1].Comment, details.History[2].Comment)
	}
	if details.History[2].Username != "Admin" {
		t.Errorf("approver = %q, want Admin", details.History[2].Username)
	}
}

func TestTransitionGuards(t *testing.T) {
	tests := []struct {
		name  string
		setup func(ecos *EcoService, id int) error
		op    func(ecos *EcoService, id int) error
	}{
		{
			name:  "approve a draft",
			setup: func(ecos *EcoService, id int) error { return nil },
			op:    func(ecos *EcoService, id int) error { return ecos.ApproveEco(id, "rev", "") },
		},
		{
			name:  "reject a draft",
			setup: func(ecos *EcoService, id int) error { return nil },
			op:    func(ecos *EcoService, id int) error { return ecos.RejectEco(id, "rev", "no") },
		},
		{
			name:  "submit twice",
			setup: func(ecos *EcoService, id int) error { return ecos.SubmitEco(id, "rev", "") },
			op:    func(ecos *EcoService, id int) error { return ecos.SubmitEco(id, "rev", "") },
		},
		{
			name: "submit after approval",
			setup: func(ecos *EcoService, id int) error {
				if err := ecos.SubmitEco(id, "rev", ""); err != nil {
					return err
				}
				return ecos.ApproveEco(id, "rev", "")
			},
			op: func(ecos *EcoService, id int) error { return ecos.SubmitEco(id, "rev", "") },
		},
		{
			name: "approve after rejection",
			setup: func(ecos *EcoService, id int) error {
				if err := ecos.SubmitEco(id, "rev", ""); err != nil {
					return err
				}
				return ecos.RejectEco(id, "rev", "no")
			},
			op: func(ecos *EcoService, id int) error { return ecos.ApproveEco(id, "rev", "") },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ecos := newTestServices(t)
			id, err := ecos.CreateEco("Guarded", "desc", "stone")
			if err != nil {
				t.Fatal(err)
			}
			if err := tt.setup(ecos, id); err != nil {
				t.Fatalf("setup error = %v", err)
			}

			before, err := ecos.GetEcoDetails(id)
			if err != nil {
				t.Fatal(err)
			}

			if err := tt.op(ecos, id); !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("op error = %v, want ErrInvalidTransition", err)
			}

			after, err := ecos.GetEcoDetails(id)
			if err != nil {
				t.Fatal(err)
			}
			if after.Status != before.Status {
				t.Errorf("status changed on refused transition: %s -> %s", before.Status, after.Status)
			}
			if len(after.History) != len(before.History) {
				t.Errorf("history grew on refused transition: %d -> %d", len(before.History), len(after.History))
			}
		})
	}
}

func TestTransitionOnMissingEco(t *testing.T) {
	_, ecos := newTestServices(t)

	if err := ecos.SubmitEco(4242, "rev", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("SubmitEco on missing id error = %v, want ErrNotFound", err)
	}
}

func TestUpdateEco(t *testing.T) {
	_, ecos := newTestServices(t)

	if err := ecos.UpdateEco(4242, "x", "y", "stone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("update of missing ECO error = %v, want ErrNotFound", err)
	}

	id, err := ecos.CreateEco("Original", "desc", "stone")
	if err != nil {
		t.Fatal(err)
	}
	if err := ecos.UpdateEco(id, "Revised", "new desc", "editor"); err != nil {
		t.Fatalf("UpdateEco() error = %v", err)
	}

	details, err := ecos.GetEcoDetails(id)
	if err != nil {
		t.Fatal(err)
	}
	if details.Title != "Revised" || details.Description != "new desc" {
		t.Errorf("update not applied: %q / %q", details.Title, details.Description)
	}
	last := details.History[len(details.History)-1]
	if last.Action != model.ActionEdited || last.Comment != "Title: Revised" {
		t.Errorf("last event = %+v, want EDITED with new title", last)
	}

	// Edits stay permitted in terminal states.
	if err := ecos.SubmitEco(id, "stone", ""); err != nil {
		t.Fatal(err)
	}
	if err := ecos.ApproveEco(id, "rev", ""); err != nil {
		t.Fatal(err)
	}
	if err := ecos.UpdateEco(id, "Post-approval", "late edit", "editor"); err != nil {
		t.Errorf("update after approval error = %v", err)
	}
}

func TestDeleteEcoCascades(t *testing.T) {
	users, ecos := newTestServices(t)
	db := ecos.db

	id, err := ecos.CreateEco("Doomed", "desc", "stone")
	if err != nil {
		t.Fatal(err)
	}
	if err := ecos.SubmitEco(id, "stone", ""); err != nil {
		t.Fatal(err)
	}
	stone, _ := users.GetOrCreateUser("stone")
	if err := db.Create(&model.Attachment{
		EcoId: id, Filename: "a.txt", MimeType: "text/plain",
		FilePath: "/nonexistent/a.txt", FileSize: 1, UploadedBy: stone.Id,
	}).Error; err != nil {
		t.Fatal(err)
	}

	if err := ecos.DeleteEco(id); err != nil {
		t.Fatalf("DeleteEco() error = %v", err)
	}

	var historyCount, attachmentCount int64
	db.Model(&model.HistoryEvent{}).Where("eco_id = ?", id).Count(&historyCount)
	db.Model(&model.Attachment{}).Where("eco_id = ?", id).Count(&attachmentCount)
	if historyCount != 0 || attachmentCount != 0 {
		t.Errorf("cascade incomplete: %d history rows, %d attachment rows", historyCount, attachmentCount)
	}

	if err := ecos.DeleteEco(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
	if _, err := ecos.GetEcoDetails(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("details after delete error = %v, want ErrNotFound", err)
	}
}

func TestListEcos(t *testing.T) {
	_, ecos := newTestServices(t)

	rocket1, err := ecos.CreateEco("Rocket nozzle", "redesign", "stone")
	if err != nil {
		t.Fatal(err)
	}
	rocket2, err := ecos.CreateEco("Fuel pump", "feeds the Rocket engine", "stone")
	if err != nil {
		t.Fatal(err)
	}
	other, err := ecos.CreateEco("Paint booth", "new colors", "mallory")
	if err != nil {
		t.Fatal(err)
	}
	if err := ecos.SubmitEco(rocket2, "stone", ""); err != nil {
		t.Fatal(err)
	}

	all, err := ecos.ListEcos(ListQuery{})
	if err != nil {
		t.Fatalf("ListEcos() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len(all) = %d, want 3", len(all))
	}
	// Newest first.
	if all[0].Id != other || all[2].Id != rocket1 {
		t.Errorf("order = [%d %d %d], want newest first", all[0].Id, all[1].Id, all[2].Id)
	}

	search, err := ecos.ListEcos(ListQuery{Search: "Rocket"})
	if err != nil {
		t.Fatal(err)
	}
	if len(search) != 2 {
		t.Fatalf("search matched %d, want 2 (title or description)", len(search))
	}
	for _, item := range search {
		if item.Id == other {
			t.Error("search returned non-matching ECO")
		}
	}

	drafts, err := ecos.ListEcos(ListQuery{Search: "Rocket", Status: string(model.StatusDraft)})
	if err != nil {
		t.Fatal(err)
	}
	if len(drafts) != 1 || drafts[0].Id != rocket1 {
		t.Errorf("combined filter = %+v, want only the draft rocket ECO", drafts)
	}

	page, err := ecos.ListEcos(ListQuery{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 1 || page[0].Id != rocket2 {
		t.Errorf("pagination returned %+v, want the second newest", page)
	}

	if page[0].CreatedBy != "stone" {
		t.Errorf("createdBy = %q, want stone", page[0].CreatedBy)
	}
}
