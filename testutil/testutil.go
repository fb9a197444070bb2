// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/votesecure/ballotbox/auth"
	"github.com/votesecure/ballotbox/cliparse"
	"github.com/votesecure/ballotbox/db"
	"github.com/votesecure/ballotbox/models"
)

// SetupTestDB creates a fresh SQLite database with the full schema in a
// per-test temp directory. A single pooled connection keeps concurrent
// test writers serialized at the driver without changing the
// application-level interleavings the tests exercise.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "ballotbox_test.db") +
		"?_pragma=foreign_keys(1)&_pragma=busy_timeout(10000)"

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         4172,
		DatabaseType: "sqlite",
		AdminAPIKey:  "test-admin-key",
		IPHashSalt:   "test-ip-salt",
	}
}

// CreateTestVoter registers a voter and returns it with its token set.
func CreateTestVoter(t *testing.T, conn *sql.DB, name string) models.Voter {
	t.Helper()

	voterID, err := auth.GenerateVoterID()
	if err != nil {
		t.Fatalf("Failed to generate voter ID: %v", err)
	}
	token, err := auth.GenerateVoterToken()
	if err != nil {
		t.Fatalf("Failed to generate voter token: %v", err)
	}

	voter := models.Voter{
		ID:        uuid.NewString(),
		VoterID:   voterID,
		Name:      name,
		Token:     token,
		CreatedAt: time.Now(),
	}

	_, err = conn.Exec(`
		INSERT INTO voter (id, voter_id, name, voter_token, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, voter.ID, voter.VoterID, voter.Name, voter.Token, voter.CreatedAt)
	if err != nil {
		t.Fatalf("Failed to create test voter: %v", err)
	}

	return voter
}

// CreateTestElection creates an election whose date window matches the
// requested status (active elections are mid-window, completed ones are
// past it, upcoming ones have not started).
func CreateTestElection(t *testing.T, conn *sql.DB, status string, rosterVoterIDs ...string) models.Election {
	t.Helper()

	now := time.Now()
	var start, end time.Time
	switch status {
	case models.StatusUpcoming:
		start, end = now.Add(time.Hour), now.Add(2*time.Hour)
	case models.StatusCompleted:
		start, end = now.Add(-2*time.Hour), now.Add(-time.Hour)
	default: // active, cancelled
		start, end = now.Add(-time.Hour), now.Add(time.Hour)
	}

	election := models.Election{
		ID:          uuid.NewString(),
		Title:       "Test Election",
		Description: "A test election",
		StartDate:   start,
		EndDate:     end,
		Status:      status,
		CreatedBy:   "TestAdmin",
		CreatedAt:   now,
	}

	_, err := conn.Exec(`
		INSERT INTO election (id, title, description, start_date, end_date, status, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, election.ID, election.Title, election.Description, election.StartDate,
		election.EndDate, election.Status, election.CreatedBy, election.CreatedAt)
	if err != nil {
		t.Fatalf("Failed to create test election: %v", err)
	}

	for _, voterID := range rosterVoterIDs {
		_, err := conn.Exec(`
			INSERT INTO eligible_voter (election_id, voter_id, added_at, added_by)
			VALUES ($1, $2, $3, $4)
		`, election.ID, voterID, now, "TestAdmin")
		if err != nil {
			t.Fatalf("Failed to create roster entry: %v", err)
		}
	}

	return election
}

// AddTestCandidate appends a candidate to an election and returns it.
func AddTestCandidate(t *testing.T, conn *sql.DB, electionID, name string) models.Candidate {
	t.Helper()

	var position int
	err := conn.QueryRow(`
		SELECT COUNT(*) FROM candidate WHERE election_id = $1
	`, electionID).Scan(&position)
	if err != nil {
		t.Fatalf("Failed to count candidates: %v", err)
	}

	cand := models.Candidate{
		ID:          uuid.NewString(),
		ElectionID:  electionID,
		Name:        name,
		Description: name + " description",
		Position:    position,
	}

	_, err = conn.Exec(`
		INSERT INTO candidate (id, election_id, name, description, vote_count, position)
		VALUES ($1, $2, $3, $4, 0, $5)
	`, cand.ID, cand.ElectionID, cand.Name, cand.Description, cand.Position)
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}

	return cand
}

// CastTestBallot records a ballot directly (log, counter, voted-set),
// bypassing the engine's gates. Returns the ballot ID.
func CastTestBallot(t *testing.T, conn *sql.DB, electionID, voterInternalID, candidateID string) string {
	t.Helper()

	ballotID := uuid.NewString()
	now := time.Now()

	_, err := conn.Exec(`
		INSERT INTO ballot (id, election_id, voter_id, candidate_id, cast_at)
		VALUES ($1, $2, $3, $4, $5)
	`, ballotID, electionID, voterInternalID, candidateID, now)
	if err != nil {
		t.Fatalf("Failed to create test ballot: %v", err)
	}

	_, err = conn.Exec(`
		UPDATE candidate SET vote_count = vote_count + 1 WHERE id = $1
	`, candidateID)
	if err != nil {
		t.Fatalf("Failed to increment test counter: %v", err)
	}

	_, err = conn.Exec(`
		INSERT INTO voter_election (voter_id, election_id, voted_at)
		VALUES ($1, $2, $3)
	`, voterInternalID, electionID, now)
	if err != nil {
		t.Fatalf("Failed to update test voted-set: %v", err)
	}

	return ballotID
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
