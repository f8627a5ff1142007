package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"testing"

	"github.com/avogel/juryvote/internal/models"
)

// adminClient returns an http.Client logged in as admin via the session cookie
func adminClient(t *testing.T, serverURL string) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar failed: %v", err)
	}
	client := &http.Client{Jar: jar}

	payload, _ := json.Marshal(map[string]string{"password": testAdminPassword})
	resp, err := client.Post(serverURL+"/api/admin/login", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected login 200, got %d", resp.StatusCode)
	}
	return client
}

func clientPostJSON(t *testing.T, client *http.Client, url string, body interface{}) *http.Response {
	t.Helper()
	payload, _ := json.Marshal(body)
	resp, err := client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	return resp
}

// TestLogin_WrongPasswordHTTP tests login rejection
func TestLogin_WrongPasswordHTTP(t *testing.T) {
	server, _, _ := setupServer(t)

	resp := postJSON(t, server.URL+"/api/admin/login", map[string]string{"password": "wrong"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for wrong password, got %d", resp.StatusCode)
	}
}

// TestAdminAPI_RequiresAuth tests that protected routes reject anonymous requests
func TestAdminAPI_RequiresAuth(t *testing.T) {
	server, _, _ := setupServer(t)

	resp, err := http.Get(server.URL + "/api/admin/categories")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without session, got %d", resp.StatusCode)
	}

	resp = postJSON(t, server.URL+"/api/admin/voting-control", map[string]string{
		"categoryId": "x", "action": "start",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without session, got %d", resp.StatusCode)
	}
}

// TestLogout_HTTP tests that logout invalidates the session
func TestLogout_HTTP(t *testing.T) {
	server, _, _ := setupServer(t)
	client := adminClient(t, server.URL)

	resp := clientPostJSON(t, client, server.URL+"/api/admin/logout", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected logout 200, got %d", resp.StatusCode)
	}

	resp, err := client.Get(server.URL + "/api/admin/categories")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", resp.StatusCode)
	}
}

// TestVotingControl_HTTP tests the start/stop/complete/reset actions
func TestVotingControl_HTTP(t *testing.T) {
	server, repo, _ := setupServer(t)
	client := adminClient(t, server.URL)

	categoryID, _, _, _ := seedActiveVoting(t, repo)
	repo.SetVotingStatus(context.Background(), categoryID, models.StatusIdle)

	for _, tc := range []struct {
		action string
		want   models.VotingStatus
	}{
		{"start", models.StatusActive},
		{"stop", models.StatusIdle},
		{"complete", models.StatusCompleted},
		{"reset", models.StatusIdle},
	} {
		resp := clientPostJSON(t, client, server.URL+"/api/admin/voting-control", map[string]string{
			"categoryId": categoryID,
			"action":     tc.action,
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("action %s: expected 200, got %d", tc.action, resp.StatusCode)
		}
		var category models.Category
		decodeBody(t, resp, &category)
		if category.VotingStatus != tc.want {
			t.Errorf("action %s: expected status %q, got %q", tc.action, tc.want, category.VotingStatus)
		}
	}
}

// TestVotingControl_BadAction tests action validation
func TestVotingControl_BadAction(t *testing.T) {
	server, repo, _ := setupServer(t)
	client := adminClient(t, server.URL)
	categoryID, _, _, _ := seedActiveVoting(t, repo)

	resp := clientPostJSON(t, client, server.URL+"/api/admin/voting-control", map[string]string{
		"categoryId": categoryID,
		"action":     "pause",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown action, got %d", resp.StatusCode)
	}
}

// TestVotingControl_UnknownCategory tests the 404 mapping
func TestVotingControl_UnknownCategory(t *testing.T) {
	server, _, _ := setupServer(t)
	client := adminClient(t, server.URL)

	resp := clientPostJSON(t, client, server.URL+"/api/admin/voting-control", map[string]string{
		"categoryId": "missing",
		"action":     "start",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown category, got %d", resp.StatusCode)
	}
}

// TestCategoryCRUD_HTTP tests the admin category endpoints
func TestCategoryCRUD_HTTP(t *testing.T) {
	server, _, _ := setupServer(t)
	client := adminClient(t, server.URL)

	resp := clientPostJSON(t, client, server.URL+"/api/admin/categories", map[string]interface{}{
		"name":       "Best Performance",
		"sort_order": 1,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created models.Category
	decodeBody(t, resp, &created)
	if created.ID == "" || created.Name != "Best Performance" {
		t.Fatalf("unexpected created category: %+v", created)
	}

	resp, err := client.Get(server.URL + "/api/admin/categories")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	var categories []models.Category
	decodeBody(t, resp, &categories)
	if len(categories) != 1 {
		t.Errorf("expected 1 category listed, got %d", len(categories))
	}

	req, _ := http.NewRequest(http.MethodDelete, server.URL+"/api/admin/categories/"+created.ID, nil)
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("DELETE failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204, got %d", resp.StatusCode)
	}
}

// TestJuryQR_HTTP tests the QR image endpoint
func TestJuryQR_HTTP(t *testing.T) {
	server, repo, _ := setupServer(t)
	client := adminClient(t, server.URL)
	_, _, juryID, _ := seedActiveVoting(t, repo)

	resp, err := client.Get(server.URL + "/api/admin/jury/" + juryID + "/qr")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %q", ct)
	}
}

// TestResults_HTTP tests the results endpoint through the stack
func TestResults_HTTP(t *testing.T) {
	server, repo, _ := setupServer(t)
	client := adminClient(t, server.URL)
	categoryID, candidateID, juryID, _ := seedActiveVoting(t, repo)
	repo.UpsertVote(context.Background(), juryID, candidateID, 9)

	resp, err := client.Get(server.URL + "/api/admin/results/" + categoryID)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	var results []struct {
		CandidateID  string  `json:"candidate_id"`
		AverageScore float64 `json:"average_score"`
		TotalVotes   int     `json:"total_votes"`
	}
	decodeBody(t, resp, &results)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].AverageScore != 9 || results[0].TotalVotes != 1 {
		t.Errorf("unexpected result: %+v", results[0])
	}
}

// TestVotingStats_HTTP tests the stats endpoint
func TestVotingStats_HTTP(t *testing.T) {
	server, repo, _ := setupServer(t)
	client := adminClient(t, server.URL)
	seedActiveVoting(t, repo)

	resp, err := client.Get(server.URL + "/api/admin/voting-stats")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	var stats []struct {
		CategoryID    string `json:"category_id"`
		ExpectedVotes int    `json:"expected_votes"`
	}
	decodeBody(t, resp, &stats)
	if len(stats) != 1 {
		t.Fatalf("expected 1 stat row, got %d", len(stats))
	}
	if stats[0].ExpectedVotes != 1 {
		t.Errorf("expected 1 expected vote (1 juror x 1 candidate), got %d", stats[0].ExpectedVotes)
	}
}

// TestSessionCheck_HTTP tests the session probe endpoint
func TestSessionCheck_HTTP(t *testing.T) {
	server, _, _ := setupServer(t)

	resp, err := http.Get(server.URL + "/api/admin/session")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	var body map[string]bool
	decodeBody(t, resp, &body)
	if body["authenticated"] {
		t.Error("expected unauthenticated without cookie")
	}

	client := adminClient(t, server.URL)
	resp, err = client.Get(server.URL + "/api/admin/session")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	decodeBody(t, resp, &body)
	if !body["authenticated"] {
		t.Error("expected authenticated with session cookie")
	}
}
