// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package core

import (
	"errors"
	"testing"
	"time"

	"github.com/votesecure/ballotbox/models"
	"github.com/votesecure/ballotbox/testutil"
)

func TestClassifyStatus(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  string
	}{
		{"before window", now.Add(time.Hour), now.Add(2 * time.Hour), models.StatusUpcoming},
		{"inside window", now.Add(-time.Hour), now.Add(time.Hour), models.StatusActive},
		{"at start", now, now.Add(time.Hour), models.StatusActive},
		{"after window", now.Add(-2 * time.Hour), now.Add(-time.Hour), models.StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyStatus(now, tt.start, tt.end)
			if got != tt.want {
				t.Errorf("ClassifyStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCreateElectionValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	reg := NewElectionRegistry(db)

	voter := testutil.CreateTestVoter(t, db, "Alice")
	now := time.Now()

	valid := models.CreateElectionRequest{
		Title:          "Board Election",
		Description:    "Annual board election",
		StartDate:      now.Add(-time.Hour),
		EndDate:        now.Add(time.Hour),
		Candidates:     []models.CandidateSpec{{Name: "A"}, {Name: "B"}},
		EligibleVoters: []string{voter.VoterID},
	}

	tests := []struct {
		name   string
		mutate func(*models.CreateElectionRequest)
	}{
		{"missing title", func(r *models.CreateElectionRequest) { r.Title = "  " }},
		{"missing description", func(r *models.CreateElectionRequest) { r.Description = "" }},
		{"end before start", func(r *models.CreateElectionRequest) { r.EndDate = r.StartDate.Add(-time.Minute) }},
		{"end equals start", func(r *models.CreateElectionRequest) { r.EndDate = r.StartDate }},
		{"zero dates", func(r *models.CreateElectionRequest) { r.StartDate, r.EndDate = time.Time{}, time.Time{} }},
		{"no candidates", func(r *models.CreateElectionRequest) { r.Candidates = nil }},
		{"blank candidate name", func(r *models.CreateElectionRequest) { r.Candidates = []models.CandidateSpec{{Name: " "}} }},
		{"unknown roster voter", func(r *models.CreateElectionRequest) { r.EligibleVoters = []string{"VOT000000"} }},
		{"empty roster entry", func(r *models.CreateElectionRequest) { r.EligibleVoters = []string{""} }},
		{"duplicate candidate name", func(r *models.CreateElectionRequest) {
			r.Candidates = []models.CandidateSpec{{Name: "A"}, {Name: "A"}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			req.Candidates = append([]models.CandidateSpec{}, valid.Candidates...)
			req.EligibleVoters = append([]string{}, valid.EligibleVoters...)
			tt.mutate(&req)

			_, err := reg.CreateElection(req, "admin")
			if !errors.Is(err, ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}

	// A failed creation must leave nothing behind
	var elections int
	if err := db.QueryRow("SELECT COUNT(*) FROM election").Scan(&elections); err != nil {
		t.Fatalf("Failed to count elections: %v", err)
	}
	if elections != 0 {
		t.Errorf("Expected 0 elections after failed creations, got %d", elections)
	}
}

func TestCreateElection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	reg := NewElectionRegistry(db)

	alice := testutil.CreateTestVoter(t, db, "Alice")
	bob := testutil.CreateTestVoter(t, db, "Bob")
	now := time.Now()

	created, err := reg.CreateElection(models.CreateElectionRequest{
		Title:       "Board Election",
		Description: "Annual board election",
		StartDate:   now.Add(-time.Hour),
		EndDate:     now.Add(time.Hour),
		Candidates: []models.CandidateSpec{
			{Name: "Carol", Description: "First"},
			{Name: "Dave", Description: "Second"},
		},
		// Duplicate roster entries collapse to one
		EligibleVoters: []string{alice.VoterID, bob.VoterID, alice.VoterID},
	}, "admin")
	if err != nil {
		t.Fatalf("CreateElection failed: %v", err)
	}

	if created.Election.Status != models.StatusActive {
		t.Errorf("Expected active status for in-window election, got %q", created.Election.Status)
	}
	if len(created.Candidates) != 2 {
		t.Fatalf("Expected 2 candidates, got %d", len(created.Candidates))
	}
	if created.Candidates[0].Name != "Carol" || created.Candidates[0].Position != 0 {
		t.Errorf("Candidate order not preserved: %+v", created.Candidates[0])
	}

	count, err := reg.EligibleVoterCount(created.Election.ID)
	if err != nil {
		t.Fatalf("EligibleVoterCount failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected roster of 2, got %d", count)
	}

	// Future window classifies as upcoming
	upcoming, err := reg.CreateElection(models.CreateElectionRequest{
		Title:       "Next Year",
		Description: "Future election",
		StartDate:   now.Add(24 * time.Hour),
		EndDate:     now.Add(48 * time.Hour),
		Candidates:  []models.CandidateSpec{{Name: "X"}},
	}, "admin")
	if err != nil {
		t.Fatalf("CreateElection failed: %v", err)
	}
	if upcoming.Election.Status != models.StatusUpcoming {
		t.Errorf("Expected upcoming status, got %q", upcoming.Election.Status)
	}
}

func TestSetStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	reg := NewElectionRegistry(db)

	election := testutil.CreateTestElection(t, db, models.StatusActive)

	if err := reg.SetStatus(election.ID, "paused"); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for unknown status, got %v", err)
	}
	if err := reg.SetStatus("no-such-election", models.StatusCompleted); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	// Explicit override is permitted regardless of dates
	if err := reg.SetStatus(election.ID, models.StatusCancelled); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	got, err := reg.GetElection(election.ID)
	if err != nil {
		t.Fatalf("GetElection failed: %v", err)
	}
	if got.Status != models.StatusCancelled {
		t.Errorf("Expected cancelled, got %q", got.Status)
	}
}

func TestEligibleVoterRoster(t *testing.T) {
	db := testutil.SetupTestDB(t)
	reg := NewElectionRegistry(db)

	voter := testutil.CreateTestVoter(t, db, "Alice")
	election := testutil.CreateTestElection(t, db, models.StatusActive)

	added, err := reg.AddEligibleVoter(election.ID, voter.VoterID, "admin")
	if err != nil {
		t.Fatalf("AddEligibleVoter failed: %v", err)
	}
	if !added {
		t.Error("Expected first add to return true")
	}

	// Second add is a no-op, not an error
	added, err = reg.AddEligibleVoter(election.ID, voter.VoterID, "admin")
	if err != nil {
		t.Fatalf("AddEligibleVoter failed: %v", err)
	}
	if added {
		t.Error("Expected duplicate add to return false")
	}

	// Membership query trims whitespace
	eligible, err := reg.IsVoterEligible(election.ID, "  "+voter.VoterID+" ")
	if err != nil {
		t.Fatalf("IsVoterEligible failed: %v", err)
	}
	if !eligible {
		t.Error("Expected trimmed voter ID to match roster")
	}

	roster, err := reg.ListEligibleVoters(election.ID)
	if err != nil {
		t.Fatalf("ListEligibleVoters failed: %v", err)
	}
	if len(roster) != 1 || roster[0].VoterID != voter.VoterID || roster[0].AddedBy != "admin" {
		t.Errorf("Unexpected roster: %+v", roster)
	}

	removed, err := reg.RemoveEligibleVoter(election.ID, voter.VoterID)
	if err != nil {
		t.Fatalf("RemoveEligibleVoter failed: %v", err)
	}
	if !removed {
		t.Error("Expected remove to return true")
	}
	removed, err = reg.RemoveEligibleVoter(election.ID, voter.VoterID)
	if err != nil {
		t.Fatalf("RemoveEligibleVoter failed: %v", err)
	}
	if removed {
		t.Error("Expected second remove to return false")
	}

	if _, err := reg.AddEligibleVoter("no-such-election", voter.VoterID, "admin"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAddCandidate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	reg := NewElectionRegistry(db)
	ledger := NewCandidateLedger(db)

	election := testutil.CreateTestElection(t, db, models.StatusUpcoming)
	testutil.AddTestCandidate(t, db, election.ID, "Carol")

	cand, err := reg.AddCandidate(election.ID, "Dave", "Challenger")
	if err != nil {
		t.Fatalf("AddCandidate failed: %v", err)
	}
	if cand.Position != 1 {
		t.Errorf("Expected position 1, got %d", cand.Position)
	}

	// Duplicate name within the same election is rejected
	if _, err := reg.AddCandidate(election.ID, "Dave", ""); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for duplicate name, got %v", err)
	}

	// Same name in another election is fine
	other := testutil.CreateTestElection(t, db, models.StatusUpcoming)
	if _, err := reg.AddCandidate(other.ID, "Dave", ""); err != nil {
		t.Errorf("AddCandidate in other election failed: %v", err)
	}

	candidates, err := ledger.ListForElection(election.ID)
	if err != nil {
		t.Fatalf("ListForElection failed: %v", err)
	}
	if len(candidates) != 2 || candidates[0].Name != "Carol" || candidates[1].Name != "Dave" {
		t.Errorf("Unexpected candidate order: %+v", candidates)
	}
}

func TestRemoveCandidate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	reg := NewElectionRegistry(db)

	voter := testutil.CreateTestVoter(t, db, "Alice")
	election := testutil.CreateTestElection(t, db, models.StatusActive, voter.VoterID)
	carol := testutil.AddTestCandidate(t, db, election.ID, "Carol")
	dave := testutil.AddTestCandidate(t, db, election.ID, "Dave")
	other := testutil.CreateTestElection(t, db, models.StatusActive)

	if err := reg.RemoveCandidate(election.ID, "no-such-candidate"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := reg.RemoveCandidate(other.ID, carol.ID); !errors.Is(err, ErrInvalidCandidate) {
		t.Errorf("expected ErrInvalidCandidate, got %v", err)
	}

	// A candidate with recorded ballots cannot be removed
	testutil.CastTestBallot(t, db, election.ID, voter.ID, carol.ID)
	if err := reg.RemoveCandidate(election.ID, carol.ID); !errors.Is(err, ErrCandidateHasBallots) {
		t.Errorf("expected ErrCandidateHasBallots, got %v", err)
	}

	// Ballots remain queryable and still count toward the election total
	count, err := NewBallotStore(db).CountByElection(election.ID)
	if err != nil {
		t.Fatalf("CountByElection failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 ballot after rejected removal, got %d", count)
	}

	if err := reg.RemoveCandidate(election.ID, dave.ID); err != nil {
		t.Fatalf("RemoveCandidate failed: %v", err)
	}
}

func TestDeleteElection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	reg := NewElectionRegistry(db)

	voter := testutil.CreateTestVoter(t, db, "Alice")
	election := testutil.CreateTestElection(t, db, models.StatusActive, voter.VoterID)
	carol := testutil.AddTestCandidate(t, db, election.ID, "Carol")

	// With ballots: blocked
	testutil.CastTestBallot(t, db, election.ID, voter.ID, carol.ID)
	if err := reg.DeleteElection(election.ID); !errors.Is(err, ErrElectionHasBallots) {
		t.Errorf("expected ErrElectionHasBallots, got %v", err)
	}

	// Without ballots: deleted, candidates and roster cascade
	empty := testutil.CreateTestElection(t, db, models.StatusUpcoming, voter.VoterID)
	testutil.AddTestCandidate(t, db, empty.ID, "Erin")
	if err := reg.DeleteElection(empty.ID); err != nil {
		t.Fatalf("DeleteElection failed: %v", err)
	}
	if _, err := reg.GetElection(empty.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	var candidates int
	if err := db.QueryRow("SELECT COUNT(*) FROM candidate WHERE election_id = $1", empty.ID).Scan(&candidates); err != nil {
		t.Fatalf("Failed to count candidates: %v", err)
	}
	if candidates != 0 {
		t.Errorf("Expected candidates to cascade, found %d", candidates)
	}

	if err := reg.DeleteElection("no-such-election"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListByStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	reg := NewElectionRegistry(db)

	testutil.CreateTestElection(t, db, models.StatusActive)
	testutil.CreateTestElection(t, db, models.StatusCompleted)
	testutil.CreateTestElection(t, db, models.StatusActive)

	active, err := reg.ListByStatus(models.StatusActive)
	if err != nil {
		t.Fatalf("ListByStatus failed: %v", err)
	}
	if len(active) != 2 {
		t.Errorf("Expected 2 active elections, got %d", len(active))
	}

	if _, err := reg.ListByStatus("bogus"); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}

	all, err := reg.ListElections()
	if err != nil {
		t.Fatalf("ListElections failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 elections, got %d", len(all))
	}
}
