// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/votesecure/ballotbox/models"
	"github.com/votesecure/ballotbox/testutil"
)

var adminHeaders = map[string]string{
	"X-Admin-Key": "test-admin-key",
}

func TestCreateElection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewElectionHandler(db, testutil.GetTestConfig())

	voter := testutil.CreateTestVoter(t, db, "Alice")

	now := time.Now()
	req := testutil.MakeRequest("POST", "/elections", models.CreateElectionRequest{
		Title:       "Board Election",
		Description: "Annual board seat",
		StartDate:   now.Add(-time.Hour),
		EndDate:     now.Add(time.Hour),
		Candidates: []models.CandidateSpec{
			{Name: "Carol"},
			{Name: "Dave"},
		},
		EligibleVoters: []string{voter.VoterID},
	}, adminHeaders)
	w := httptest.NewRecorder()

	handler.CreateElection(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.ElectionWithCandidates
	testutil.AssertJSON(t, w, &resp)

	if resp.Election.Title != "Board Election" {
		t.Errorf("Expected title 'Board Election', got %q", resp.Election.Title)
	}
	if resp.Election.Status != models.StatusActive {
		t.Errorf("Expected derived status active, got %q", resp.Election.Status)
	}
	if len(resp.Candidates) != 2 {
		t.Fatalf("Expected 2 candidates, got %d", len(resp.Candidates))
	}
	if resp.Candidates[0].Name != "Carol" || resp.Candidates[1].Name != "Dave" {
		t.Errorf("Candidate order not preserved: %+v", resp.Candidates)
	}
}

func TestCreateElectionRequiresAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewElectionHandler(db, testutil.GetTestConfig())

	body := models.CreateElectionRequest{Title: "Nope"}

	t.Run("missing key", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/elections", body, nil)
		w := httptest.NewRecorder()

		handler.CreateElection(w, req)

		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("wrong key", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/elections", body, map[string]string{
			"X-Admin-Key": "wrong-key",
		})
		w := httptest.NewRecorder()

		handler.CreateElection(w, req)

		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})
}

func TestCreateElectionValidationError(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewElectionHandler(db, testutil.GetTestConfig())

	now := time.Now()
	req := testutil.MakeRequest("POST", "/elections", models.CreateElectionRequest{
		Title:       "Backwards Window",
		Description: "End precedes start",
		StartDate:   now.Add(time.Hour),
		EndDate:     now.Add(-time.Hour),
		Candidates:  []models.CandidateSpec{{Name: "Carol"}, {Name: "Dave"}},
	}, adminHeaders)
	w := httptest.NewRecorder()

	handler.CreateElection(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestListElections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewElectionHandler(db, testutil.GetTestConfig())

	testutil.CreateTestElection(t, db, models.StatusActive)
	testutil.CreateTestElection(t, db, models.StatusCompleted)

	t.Run("all", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/elections", nil, nil)
		w := httptest.NewRecorder()

		handler.ListElections(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var resp map[string][]models.Election
		testutil.AssertJSON(t, w, &resp)
		if len(resp["elections"]) != 2 {
			t.Errorf("Expected 2 elections, got %d", len(resp["elections"]))
		}
	})

	t.Run("status filter", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/elections?status=completed", nil, nil)
		w := httptest.NewRecorder()

		handler.ListElections(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var resp map[string][]models.Election
		testutil.AssertJSON(t, w, &resp)
		if len(resp["elections"]) != 1 {
			t.Errorf("Expected 1 completed election, got %d", len(resp["elections"]))
		}
	})
}

func TestGetElection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewElectionHandler(db, testutil.GetTestConfig())

	election := testutil.CreateTestElection(t, db, models.StatusActive)
	testutil.AddTestCandidate(t, db, election.ID, "Carol")

	req := testutil.MakeRequest("GET", "/elections/"+election.ID, nil, nil)
	req.SetPathValue("id", election.ID)
	w := httptest.NewRecorder()

	handler.GetElection(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ElectionWithCandidates
	testutil.AssertJSON(t, w, &resp)
	if resp.Election.ID != election.ID || len(resp.Candidates) != 1 {
		t.Errorf("Unexpected response: %+v", resp)
	}
}

func TestGetElectionNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewElectionHandler(db, testutil.GetTestConfig())

	req := testutil.MakeRequest("GET", "/elections/missing", nil, nil)
	req.SetPathValue("id", "missing")
	w := httptest.NewRecorder()

	handler.GetElection(w, req)

	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestSetStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewElectionHandler(db, testutil.GetTestConfig())

	election := testutil.CreateTestElection(t, db, models.StatusActive)

	req := testutil.MakeRequest("POST", "/elections/"+election.ID+"/status",
		models.SetStatusRequest{Status: models.StatusCompleted}, adminHeaders)
	req.SetPathValue("id", election.ID)
	w := httptest.NewRecorder()

	handler.SetStatus(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var stored string
	if err := db.QueryRow(`SELECT status FROM election WHERE id = $1`, election.ID).Scan(&stored); err != nil {
		t.Fatalf("Failed to read status: %v", err)
	}
	if stored != models.StatusCompleted {
		t.Errorf("Expected stored status completed, got %q", stored)
	}
}

func TestSetStatusInvalid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewElectionHandler(db, testutil.GetTestConfig())

	election := testutil.CreateTestElection(t, db, models.StatusActive)

	req := testutil.MakeRequest("POST", "/elections/"+election.ID+"/status",
		models.SetStatusRequest{Status: "paused"}, adminHeaders)
	req.SetPathValue("id", election.ID)
	w := httptest.NewRecorder()

	handler.SetStatus(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestDeleteElection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewElectionHandler(db, testutil.GetTestConfig())

	t.Run("without ballots", func(t *testing.T) {
		election := testutil.CreateTestElection(t, db, models.StatusUpcoming)

		req := testutil.MakeRequest("DELETE", "/elections/"+election.ID, nil, adminHeaders)
		req.SetPathValue("id", election.ID)
		w := httptest.NewRecorder()

		handler.DeleteElection(w, req)

		testutil.AssertStatus(t, w, http.StatusNoContent)
	})

	t.Run("with ballots", func(t *testing.T) {
		voter := testutil.CreateTestVoter(t, db, "Alice")
		election := testutil.CreateTestElection(t, db, models.StatusActive, voter.VoterID)
		cand := testutil.AddTestCandidate(t, db, election.ID, "Carol")
		testutil.CastTestBallot(t, db, election.ID, voter.ID, cand.ID)

		req := testutil.MakeRequest("DELETE", "/elections/"+election.ID, nil, adminHeaders)
		req.SetPathValue("id", election.ID)
		w := httptest.NewRecorder()

		handler.DeleteElection(w, req)

		testutil.AssertStatus(t, w, http.StatusConflict)
	})
}

func TestRosterEndpoints(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewElectionHandler(db, testutil.GetTestConfig())

	voter := testutil.CreateTestVoter(t, db, "Alice")
	election := testutil.CreateTestElection(t, db, models.StatusUpcoming)

	// Add
	req := testutil.MakeRequest("POST", "/elections/"+election.ID+"/voters",
		models.AddEligibleVoterRequest{VoterID: voter.VoterID}, adminHeaders)
	req.SetPathValue("id", election.ID)
	w := httptest.NewRecorder()

	handler.AddVoter(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)

	// Re-add is a 200 no-op
	req = testutil.MakeRequest("POST", "/elections/"+election.ID+"/voters",
		models.AddEligibleVoterRequest{VoterID: voter.VoterID}, adminHeaders)
	req.SetPathValue("id", election.ID)
	w = httptest.NewRecorder()

	handler.AddVoter(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var addResp models.AddEligibleVoterResponse
	testutil.AssertJSON(t, w, &addResp)
	if addResp.Added {
		t.Error("Expected added=false on re-add")
	}

	// List
	req = testutil.MakeRequest("GET", "/elections/"+election.ID+"/voters", nil, adminHeaders)
	req.SetPathValue("id", election.ID)
	w = httptest.NewRecorder()

	handler.ListVoters(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var listResp map[string][]models.EligibleVoter
	testutil.AssertJSON(t, w, &listResp)
	if len(listResp["eligible_voters"]) != 1 {
		t.Errorf("Expected 1 roster entry, got %d", len(listResp["eligible_voters"]))
	}

	// Remove
	req = testutil.MakeRequest("DELETE", "/elections/"+election.ID+"/voters/"+voter.VoterID, nil, adminHeaders)
	req.SetPathValue("id", election.ID)
	req.SetPathValue("voterID", voter.VoterID)
	w = httptest.NewRecorder()

	handler.RemoveVoter(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var removeResp models.RemoveEligibleVoterResponse
	testutil.AssertJSON(t, w, &removeResp)
	if !removeResp.Removed {
		t.Error("Expected removed=true")
	}
}

func TestAddVoterUnknownVoterID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewElectionHandler(db, testutil.GetTestConfig())

	election := testutil.CreateTestElection(t, db, models.StatusUpcoming)

	req := testutil.MakeRequest("POST", "/elections/"+election.ID+"/voters",
		models.AddEligibleVoterRequest{VoterID: "VOT000000"}, adminHeaders)
	req.SetPathValue("id", election.ID)
	w := httptest.NewRecorder()

	handler.AddVoter(w, req)

	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestCandidateEndpoints(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewElectionHandler(db, testutil.GetTestConfig())

	election := testutil.CreateTestElection(t, db, models.StatusUpcoming)

	// Add
	req := testutil.MakeRequest("POST", "/elections/"+election.ID+"/candidates",
		models.AddCandidateRequest{Name: "Carol", Description: "Incumbent"}, adminHeaders)
	req.SetPathValue("id", election.ID)
	w := httptest.NewRecorder()

	handler.AddCandidate(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)

	var cand models.Candidate
	testutil.AssertJSON(t, w, &cand)
	if cand.Name != "Carol" || cand.Position != 0 {
		t.Errorf("Unexpected candidate: %+v", cand)
	}

	// Duplicate name in the same election
	req = testutil.MakeRequest("POST", "/elections/"+election.ID+"/candidates",
		models.AddCandidateRequest{Name: "Carol"}, adminHeaders)
	req.SetPathValue("id", election.ID)
	w = httptest.NewRecorder()

	handler.AddCandidate(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)

	// Remove
	req = testutil.MakeRequest("DELETE", "/elections/"+election.ID+"/candidates/"+cand.ID, nil, adminHeaders)
	req.SetPathValue("id", election.ID)
	req.SetPathValue("candidateID", cand.ID)
	w = httptest.NewRecorder()

	handler.RemoveCandidate(w, req)

	testutil.AssertStatus(t, w, http.StatusNoContent)
}

func TestRemoveCandidateWithBallots(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewElectionHandler(db, testutil.GetTestConfig())

	voter := testutil.CreateTestVoter(t, db, "Alice")
	election := testutil.CreateTestElection(t, db, models.StatusActive, voter.VoterID)
	cand := testutil.AddTestCandidate(t, db, election.ID, "Carol")
	testutil.CastTestBallot(t, db, election.ID, voter.ID, cand.ID)

	req := testutil.MakeRequest("DELETE", "/elections/"+election.ID+"/candidates/"+cand.ID, nil, adminHeaders)
	req.SetPathValue("id", election.ID)
	req.SetPathValue("candidateID", cand.ID)
	w := httptest.NewRecorder()

	handler.RemoveCandidate(w, req)

	testutil.AssertStatus(t, w, http.StatusConflict)
}
