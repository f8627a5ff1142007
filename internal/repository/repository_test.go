package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/avogel/juryvote/internal/models"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func mustCreateCategory(t *testing.T, repo *Repository, name string, sortOrder int) string {
	t.Helper()
	id, err := repo.CreateCategory(context.Background(), name, "", sortOrder)
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	return id
}

func mustCreateCandidate(t *testing.T, repo *Repository, categoryID, name string, sortOrder int) string {
	t.Helper()
	id, err := repo.CreateCandidate(context.Background(), categoryID, name, "", sortOrder)
	if err != nil {
		t.Fatalf("CreateCandidate failed: %v", err)
	}
	return id
}

func mustCreateJuryMember(t *testing.T, repo *Repository, name string, juryType models.JuryType, token string) string {
	t.Helper()
	id, err := repo.CreateJuryMember(context.Background(), name, juryType, token)
	if err != nil {
		t.Fatalf("CreateJuryMember failed: %v", err)
	}
	return id
}

// ==================== Categories ====================

// TestCategoryCRUD tests the category lifecycle
func TestCategoryCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id := mustCreateCategory(t, repo, "Best Performance", 1)

	category, err := repo.GetCategory(ctx, id)
	if err != nil {
		t.Fatalf("GetCategory failed: %v", err)
	}
	if category.Name != "Best Performance" {
		t.Errorf("expected name Best Performance, got %q", category.Name)
	}
	if category.VotingStatus != models.StatusIdle {
		t.Errorf("expected new category to be idle, got %q", category.VotingStatus)
	}

	if err := repo.UpdateCategory(ctx, id, "Best Act", "updated", 2); err != nil {
		t.Fatalf("UpdateCategory failed: %v", err)
	}
	category, _ = repo.GetCategory(ctx, id)
	if category.Name != "Best Act" || category.SortOrder != 2 {
		t.Errorf("update not applied: %+v", category)
	}

	if err := repo.DeleteCategory(ctx, id); err != nil {
		t.Fatalf("DeleteCategory failed: %v", err)
	}
	if _, err := repo.GetCategory(ctx, id); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

// TestCategoryNotFound tests that missing ids surface ErrNotFound
func TestCategoryNotFound(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.GetCategory(ctx, "missing"); err != ErrNotFound {
		t.Errorf("GetCategory: expected ErrNotFound, got %v", err)
	}
	if err := repo.UpdateCategory(ctx, "missing", "x", "", 0); err != ErrNotFound {
		t.Errorf("UpdateCategory: expected ErrNotFound, got %v", err)
	}
	if err := repo.DeleteCategory(ctx, "missing"); err != ErrNotFound {
		t.Errorf("DeleteCategory: expected ErrNotFound, got %v", err)
	}
	if _, _, err := repo.ActivateCategory(ctx, "missing"); err != ErrNotFound {
		t.Errorf("ActivateCategory: expected ErrNotFound, got %v", err)
	}
}

// TestListCategories_Order tests sort_order then name ordering
func TestListCategories_Order(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	mustCreateCategory(t, repo, "Zeta", 1)
	mustCreateCategory(t, repo, "Alpha", 2)
	mustCreateCategory(t, repo, "Beta", 1)

	categories, err := repo.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(categories) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(categories))
	}
	got := []string{categories[0].Name, categories[1].Name, categories[2].Name}
	want := []string{"Beta", "Zeta", "Alpha"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

// TestActivateCategory_SingleActive tests that activation forces every other
// active category back to idle
func TestActivateCategory_SingleActive(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := mustCreateCategory(t, repo, "First", 1)
	second := mustCreateCategory(t, repo, "Second", 2)

	activated, deactivated, err := repo.ActivateCategory(ctx, first)
	if err != nil {
		t.Fatalf("ActivateCategory failed: %v", err)
	}
	if activated.VotingStatus != models.StatusActive {
		t.Errorf("expected active status, got %q", activated.VotingStatus)
	}
	if len(deactivated) != 0 {
		t.Errorf("expected no deactivated categories, got %d", len(deactivated))
	}

	activated, deactivated, err = repo.ActivateCategory(ctx, second)
	if err != nil {
		t.Fatalf("second ActivateCategory failed: %v", err)
	}
	if len(deactivated) != 1 || deactivated[0].ID != first {
		t.Fatalf("expected first category to be deactivated, got %+v", deactivated)
	}
	if deactivated[0].VotingStatus != models.StatusIdle {
		t.Errorf("expected deactivated category reported as idle, got %q", deactivated[0].VotingStatus)
	}

	firstCat, _ := repo.GetCategory(ctx, first)
	if firstCat.VotingStatus != models.StatusIdle {
		t.Errorf("expected first category idle in store, got %q", firstCat.VotingStatus)
	}

	active, err := repo.GetActiveCategory(ctx)
	if err != nil {
		t.Fatalf("GetActiveCategory failed: %v", err)
	}
	if active.ID != second {
		t.Errorf("expected second category active, got %s", active.ID)
	}
}

// TestActivateCategory_Concurrent tests that racing activations still leave
// exactly one active category
func TestActivateCategory_Concurrent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ids := make([]string, 5)
	for i := range ids {
		ids[i] = mustCreateCategory(t, repo, "Cat", i)
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			repo.ActivateCategory(ctx, id)
		}(id)
	}
	wg.Wait()

	categories, err := repo.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	active := 0
	for _, c := range categories {
		if c.VotingStatus == models.StatusActive {
			active++
		}
	}
	if active != 1 {
		t.Errorf("expected exactly 1 active category after races, got %d", active)
	}
}

// TestSetVotingStatus tests plain status transitions
func TestSetVotingStatus(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id := mustCreateCategory(t, repo, "Cat", 0)

	category, err := repo.SetVotingStatus(ctx, id, models.StatusCompleted)
	if err != nil {
		t.Fatalf("SetVotingStatus failed: %v", err)
	}
	if category.VotingStatus != models.StatusCompleted {
		t.Errorf("expected completed, got %q", category.VotingStatus)
	}

	if _, err := repo.SetVotingStatus(ctx, "missing", models.StatusIdle); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// TestGetActiveCategory_NoneActive tests the empty case
func TestGetActiveCategory_NoneActive(t *testing.T) {
	repo := newTestRepo(t)

	mustCreateCategory(t, repo, "Idle", 0)
	if _, err := repo.GetActiveCategory(context.Background()); err != ErrNotFound {
		t.Errorf("expected ErrNotFound with no active category, got %v", err)
	}
}

// ==================== Candidates ====================

// TestCandidateCRUD tests the candidate lifecycle and category cascade
func TestCandidateCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	categoryID := mustCreateCategory(t, repo, "Cat", 0)
	id := mustCreateCandidate(t, repo, categoryID, "Ensemble A", 1)

	candidate, err := repo.GetCandidate(ctx, id)
	if err != nil {
		t.Fatalf("GetCandidate failed: %v", err)
	}
	if candidate.CategoryID != categoryID {
		t.Errorf("expected category %s, got %s", categoryID, candidate.CategoryID)
	}

	if err := repo.UpdateCandidate(ctx, id, "Ensemble B", "desc", 3); err != nil {
		t.Fatalf("UpdateCandidate failed: %v", err)
	}
	candidate, _ = repo.GetCandidate(ctx, id)
	if candidate.Name != "Ensemble B" {
		t.Errorf("update not applied: %+v", candidate)
	}

	// Deleting the category cascades to its candidates
	if err := repo.DeleteCategory(ctx, categoryID); err != nil {
		t.Fatalf("DeleteCategory failed: %v", err)
	}
	if _, err := repo.GetCandidate(ctx, id); err != ErrNotFound {
		t.Errorf("expected candidate to cascade with category, got %v", err)
	}
}

// ==================== Jury Members ====================

// TestJuryMemberByToken tests token lookup
func TestJuryMemberByToken(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	token := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	id := mustCreateJuryMember(t, repo, "Alex", models.JuryTypeCore, token)

	member, err := repo.GetJuryMemberByToken(ctx, token)
	if err != nil {
		t.Fatalf("GetJuryMemberByToken failed: %v", err)
	}
	if member.ID != id || member.Name != "Alex" {
		t.Errorf("unexpected member: %+v", member)
	}

	if _, err := repo.GetJuryMemberByToken(ctx, "unknown-token"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for unknown token, got %v", err)
	}
}

// TestSetAccessToken tests token rotation
func TestSetAccessToken(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	old := "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	id := mustCreateJuryMember(t, repo, "Sam", models.JuryTypeCore, old)

	fresh := "cccccccccccccccccccccccccccccccccccccccc"
	if err := repo.SetAccessToken(ctx, id, fresh); err != nil {
		t.Fatalf("SetAccessToken failed: %v", err)
	}

	if _, err := repo.GetJuryMemberByToken(ctx, old); err != ErrNotFound {
		t.Errorf("expected old token to be invalid, got %v", err)
	}
	if _, err := repo.GetJuryMemberByToken(ctx, fresh); err != nil {
		t.Errorf("expected new token to resolve, got %v", err)
	}
}

// TestCategoryAssignments tests assignment replacement semantics
func TestCategoryAssignments(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	catA := mustCreateCategory(t, repo, "A", 0)
	catB := mustCreateCategory(t, repo, "B", 1)
	id := mustCreateJuryMember(t, repo, "Kim", models.JuryTypeCategory, "dddddddddddddddddddddddddddddddddddddddd")

	if err := repo.SetCategoryAssignments(ctx, id, []string{catA, catB}); err != nil {
		t.Fatalf("SetCategoryAssignments failed: %v", err)
	}
	ids, err := repo.ListAssignedCategoryIDs(ctx, id)
	if err != nil {
		t.Fatalf("ListAssignedCategoryIDs failed: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("expected 2 assignments, got %d", len(ids))
	}

	// Replacement drops assignments not in the new set
	if err := repo.SetCategoryAssignments(ctx, id, []string{catB}); err != nil {
		t.Fatalf("replacement failed: %v", err)
	}
	ids, _ = repo.ListAssignedCategoryIDs(ctx, id)
	if len(ids) != 1 || ids[0] != catB {
		t.Errorf("expected only catB assigned, got %v", ids)
	}

	// Clearing
	if err := repo.SetCategoryAssignments(ctx, id, nil); err != nil {
		t.Fatalf("clearing failed: %v", err)
	}
	ids, _ = repo.ListAssignedCategoryIDs(ctx, id)
	if len(ids) != 0 {
		t.Errorf("expected no assignments, got %v", ids)
	}
}

// TestCountEligibleJury tests core plus assigned counting
func TestCountEligibleJury(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	catA := mustCreateCategory(t, repo, "A", 0)
	catB := mustCreateCategory(t, repo, "B", 1)

	mustCreateJuryMember(t, repo, "Core", models.JuryTypeCore, "1111111111111111111111111111111111111111")
	assigned := mustCreateJuryMember(t, repo, "Assigned", models.JuryTypeCategory, "2222222222222222222222222222222222222222")
	repo.SetCategoryAssignments(ctx, assigned, []string{catA})
	inactive := mustCreateJuryMember(t, repo, "Inactive", models.JuryTypeCore, "3333333333333333333333333333333333333333")
	repo.UpdateJuryMember(ctx, inactive, "Inactive", models.JuryTypeCore, false)

	count, err := repo.CountEligibleJury(ctx, catA)
	if err != nil {
		t.Fatalf("CountEligibleJury failed: %v", err)
	}
	if count != 2 {
		t.Errorf("catA: expected 2 eligible (core + assigned), got %d", count)
	}

	count, _ = repo.CountEligibleJury(ctx, catB)
	if count != 1 {
		t.Errorf("catB: expected 1 eligible (core only), got %d", count)
	}
}

// ==================== Votes ====================

func seedVoteFixture(t *testing.T) (*Repository, string, string, string) {
	t.Helper()
	repo := newTestRepo(t)
	categoryID := mustCreateCategory(t, repo, "Cat", 0)
	candidateID := mustCreateCandidate(t, repo, categoryID, "Entry", 0)
	juryID := mustCreateJuryMember(t, repo, "Juror", models.JuryTypeCore, "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee")
	return repo, categoryID, candidateID, juryID
}

// TestUpsertVote_InsertThenUpdate tests last-writer-wins resubmission
func TestUpsertVote_InsertThenUpdate(t *testing.T) {
	repo, categoryID, candidateID, juryID := seedVoteFixture(t)
	ctx := context.Background()

	vote, err := repo.UpsertVote(ctx, juryID, candidateID, 7)
	if err != nil {
		t.Fatalf("UpsertVote failed: %v", err)
	}
	if vote.Score != 7 {
		t.Errorf("expected score 7, got %d", vote.Score)
	}
	firstID := vote.ID

	vote, err = repo.UpsertVote(ctx, juryID, candidateID, 9)
	if err != nil {
		t.Fatalf("second UpsertVote failed: %v", err)
	}
	if vote.Score != 9 {
		t.Errorf("expected updated score 9, got %d", vote.Score)
	}
	if vote.ID != firstID {
		t.Errorf("expected resubmission to update the same row, got new id")
	}

	count, _ := repo.CountVotesForCategory(ctx, categoryID)
	if count != 1 {
		t.Errorf("expected 1 vote after resubmission, got %d", count)
	}
}

// TestUpsertVote_Concurrent tests that concurrent submissions for one pair
// collapse into a single row
func TestUpsertVote_Concurrent(t *testing.T) {
	repo, categoryID, candidateID, juryID := seedVoteFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for score := 1; score <= 10; score++ {
		wg.Add(1)
		go func(score int) {
			defer wg.Done()
			repo.UpsertVote(ctx, juryID, candidateID, score)
		}(score)
	}
	wg.Wait()

	count, err := repo.CountVotesForCategory(ctx, categoryID)
	if err != nil {
		t.Fatalf("CountVotesForCategory failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 vote row after concurrent submissions, got %d", count)
	}

	votes, _ := repo.GetVotesForJuryMember(ctx, juryID, categoryID)
	score := votes[candidateID]
	if score < 1 || score > 10 {
		t.Errorf("expected final score in [1,10], got %d", score)
	}
}

// TestGetVotesForJuryMember_ScopedToCategory tests that scores from other
// categories are excluded
func TestGetVotesForJuryMember_ScopedToCategory(t *testing.T) {
	repo, categoryID, candidateID, juryID := seedVoteFixture(t)
	ctx := context.Background()

	otherCat := mustCreateCategory(t, repo, "Other", 1)
	otherCand := mustCreateCandidate(t, repo, otherCat, "Other entry", 0)

	repo.UpsertVote(ctx, juryID, candidateID, 5)
	repo.UpsertVote(ctx, juryID, otherCand, 8)

	votes, err := repo.GetVotesForJuryMember(ctx, juryID, categoryID)
	if err != nil {
		t.Fatalf("GetVotesForJuryMember failed: %v", err)
	}
	if len(votes) != 1 {
		t.Errorf("expected 1 vote in category, got %d", len(votes))
	}
	if votes[candidateID] != 5 {
		t.Errorf("expected score 5, got %d", votes[candidateID])
	}
}

// TestGetCategoryVoteRows tests the joined result rows and their ordering
func TestGetCategoryVoteRows(t *testing.T) {
	repo, categoryID, _, juryID := seedVoteFixture(t)
	ctx := context.Background()

	second := mustCreateCandidate(t, repo, categoryID, "Another", 1)
	first, _ := repo.ListCandidates(ctx, categoryID)

	repo.UpsertVote(ctx, juryID, second, 6)
	repo.UpsertVote(ctx, juryID, first[0].ID, 9)

	rows, err := repo.GetCategoryVoteRows(ctx, categoryID)
	if err != nil {
		t.Fatalf("GetCategoryVoteRows failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].CandidateID != first[0].ID {
		t.Errorf("expected rows ordered by candidate sort order")
	}
	if rows[0].JuryMemberName != "Juror" {
		t.Errorf("expected jury member name joined, got %q", rows[0].JuryMemberName)
	}
}

// TestDeleteVotesForCategory tests the reset delete and its count
func TestDeleteVotesForCategory(t *testing.T) {
	repo, categoryID, candidateID, juryID := seedVoteFixture(t)
	ctx := context.Background()

	second := mustCreateCandidate(t, repo, categoryID, "Second", 1)
	otherCat := mustCreateCategory(t, repo, "Other", 2)
	otherCand := mustCreateCandidate(t, repo, otherCat, "Other entry", 0)

	repo.UpsertVote(ctx, juryID, candidateID, 5)
	repo.UpsertVote(ctx, juryID, second, 6)
	repo.UpsertVote(ctx, juryID, otherCand, 7)

	deleted, err := repo.DeleteVotesForCategory(ctx, categoryID)
	if err != nil {
		t.Fatalf("DeleteVotesForCategory failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 votes deleted, got %d", deleted)
	}

	// The other category's vote survives
	count, _ := repo.CountVotesForCategory(ctx, otherCat)
	if count != 1 {
		t.Errorf("expected other category vote to survive, got %d", count)
	}
}

// TestVotesCascadeWithJuryMember tests vote cleanup when a jury member is deleted
func TestVotesCascadeWithJuryMember(t *testing.T) {
	repo, categoryID, candidateID, juryID := seedVoteFixture(t)
	ctx := context.Background()

	repo.UpsertVote(ctx, juryID, candidateID, 5)
	if err := repo.DeleteJuryMember(ctx, juryID); err != nil {
		t.Fatalf("DeleteJuryMember failed: %v", err)
	}

	count, _ := repo.CountVotesForCategory(ctx, categoryID)
	if count != 0 {
		t.Errorf("expected votes to cascade with jury member, got %d", count)
	}
}
