package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/avogel/juryvote/internal/models"
)

// Repository provides data access methods
type Repository struct {
	db *sql.DB
}

// New creates a new Repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, err
	}

	// SQLite works best with a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db}

	if err := repo.migrate(); err != nil {
		return nil, err
	}

	return repo, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS categories (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT DEFAULT '',
			voting_status TEXT NOT NULL DEFAULT 'idle',
			sort_order INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS candidates (
			id TEXT PRIMARY KEY,
			category_id TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT DEFAULT '',
			sort_order INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS jury_members (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			jury_type TEXT NOT NULL DEFAULT 'category',
			access_token TEXT UNIQUE NOT NULL,
			active BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS jury_category_assignments (
			jury_member_id TEXT NOT NULL,
			category_id TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (jury_member_id, category_id),
			FOREIGN KEY (jury_member_id) REFERENCES jury_members(id) ON DELETE CASCADE,
			FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS votes (
			id TEXT PRIMARY KEY,
			jury_member_id TEXT NOT NULL,
			candidate_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (jury_member_id) REFERENCES jury_members(id) ON DELETE CASCADE,
			FOREIGN KEY (candidate_id) REFERENCES candidates(id) ON DELETE CASCADE,
			UNIQUE(jury_member_id, candidate_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_candidates_category ON candidates(category_id)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_jury_member ON votes(jury_member_id)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_candidate ON votes(candidate_id)`,
		`CREATE INDEX IF NOT EXISTS idx_jury_members_token ON jury_members(access_token)`,
		`CREATE INDEX IF NOT EXISTS idx_categories_status ON categories(voting_status)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}

// ==================== Category Methods ====================

const categoryColumns = `id, name, description, voting_status, sort_order, created_at, updated_at`

func scanCategory(row interface{ Scan(...interface{}) error }) (*models.Category, error) {
	var c models.Category
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.VotingStatus, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCategories returns all categories ordered by sort order then name
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories ORDER BY sort_order, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

// GetCategory returns a single category by id
func (r *Repository) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return c, err
}

// GetActiveCategory returns the currently active category, or ErrNotFound
func (r *Repository) GetActiveCategory(ctx context.Context) (*models.Category, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE voting_status = 'active' LIMIT 1`)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return c, err
}

// CreateCategory inserts a new category and returns its id
func (r *Repository) CreateCategory(ctx context.Context, name, description string, sortOrder int) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, description, sort_order) VALUES (?, ?, ?, ?)`,
		id, name, description, sortOrder)
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateCategory updates a category's name, description and sort order
func (r *Repository) UpdateCategory(ctx context.Context, id, name, description string, sortOrder int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, description = ?, sort_order = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		name, description, sortOrder, id)
	if err != nil {
		return err
	}
	return requireRowAffected(result)
}

// DeleteCategory deletes a category; candidates and votes cascade
func (r *Repository) DeleteCategory(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(result)
}

// SetVotingStatus sets a category's voting status and returns the updated row
func (r *Repository) SetVotingStatus(ctx context.Context, id string, status models.VotingStatus) (*models.Category, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE categories SET voting_status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, id)
	if err != nil {
		return nil, err
	}
	if err := requireRowAffected(result); err != nil {
		return nil, err
	}
	return r.GetCategory(ctx, id)
}

// ActivateCategory transitions the target category to active and every other
// active category back to idle inside a single transaction, so at most one
// category is active at any instant. Returns the activated category and the
// categories that were deactivated.
func (r *Repository) ActivateCategory(ctx context.Context, id string) (*models.Category, []models.Category, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE voting_status = 'active' AND id != ?`, id)
	if err != nil {
		return nil, nil, err
	}
	var deactivated []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			rows.Close()
			return nil, nil, err
		}
		c.VotingStatus = models.StatusIdle
		deactivated = append(deactivated, *c)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, nil, err
	}
	rows.Close()

	if _, err := tx.ExecContext(ctx,
		`UPDATE categories SET voting_status = 'idle', updated_at = CURRENT_TIMESTAMP
		 WHERE voting_status = 'active' AND id != ?`, id); err != nil {
		return nil, nil, err
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE categories SET voting_status = 'active', updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	if err != nil {
		return nil, nil, err
	}
	if err := requireRowAffected(result); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	category, err := r.GetCategory(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return category, deactivated, nil
}

// ==================== Candidate Methods ====================

const candidateColumns = `id, category_id, name, description, sort_order`

// ListCandidates returns a category's candidates ordered by sort order then name
func (r *Repository) ListCandidates(ctx context.Context, categoryID string) ([]models.Candidate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE category_id = ? ORDER BY sort_order, name`,
		categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []models.Candidate
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.CategoryID, &c.Name, &c.Description, &c.SortOrder); err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// GetCandidate returns a single candidate by id
func (r *Repository) GetCandidate(ctx context.Context, id string) (*models.Candidate, error) {
	var c models.Candidate
	err := r.db.QueryRowContext(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE id = ?`, id).
		Scan(&c.ID, &c.CategoryID, &c.Name, &c.Description, &c.SortOrder)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCandidate inserts a new candidate and returns its id
func (r *Repository) CreateCandidate(ctx context.Context, categoryID, name, description string, sortOrder int) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO candidates (id, category_id, name, description, sort_order) VALUES (?, ?, ?, ?, ?)`,
		id, categoryID, name, description, sortOrder)
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateCandidate updates a candidate's name, description and sort order
func (r *Repository) UpdateCandidate(ctx context.Context, id, name, description string, sortOrder int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE candidates SET name = ?, description = ?, sort_order = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		name, description, sortOrder, id)
	if err != nil {
		return err
	}
	return requireRowAffected(result)
}

// DeleteCandidate deletes a candidate; its votes cascade
func (r *Repository) DeleteCandidate(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM candidates WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(result)
}

// ==================== Jury Methods ====================

const juryColumns = `id, name, jury_type, access_token, active`

// ListJuryMembers returns all jury members ordered by name
func (r *Repository) ListJuryMembers(ctx context.Context) ([]models.JuryMember, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+juryColumns+` FROM jury_members ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.JuryMember
	for rows.Next() {
		var m models.JuryMember
		if err := rows.Scan(&m.ID, &m.Name, &m.JuryType, &m.AccessToken, &m.Active); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// GetJuryMember returns a single jury member by id
func (r *Repository) GetJuryMember(ctx context.Context, id string) (*models.JuryMember, error) {
	var m models.JuryMember
	err := r.db.QueryRowContext(ctx,
		`SELECT `+juryColumns+` FROM jury_members WHERE id = ?`, id).
		Scan(&m.ID, &m.Name, &m.JuryType, &m.AccessToken, &m.Active)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetJuryMemberByToken returns the jury member owning an access token
func (r *Repository) GetJuryMemberByToken(ctx context.Context, token string) (*models.JuryMember, error) {
	var m models.JuryMember
	err := r.db.QueryRowContext(ctx,
		`SELECT `+juryColumns+` FROM jury_members WHERE access_token = ?`, token).
		Scan(&m.ID, &m.Name, &m.JuryType, &m.AccessToken, &m.Active)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateJuryMember inserts a new jury member and returns its id
func (r *Repository) CreateJuryMember(ctx context.Context, name string, juryType models.JuryType, token string) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO jury_members (id, name, jury_type, access_token) VALUES (?, ?, ?, ?)`,
		id, name, juryType, token)
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateJuryMember updates a jury member's name, type and active flag
func (r *Repository) UpdateJuryMember(ctx context.Context, id, name string, juryType models.JuryType, active bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE jury_members SET name = ?, jury_type = ?, active = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		name, juryType, active, id)
	if err != nil {
		return err
	}
	return requireRowAffected(result)
}

// SetAccessToken replaces a jury member's access token
func (r *Repository) SetAccessToken(ctx context.Context, id, token string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE jury_members SET access_token = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		token, id)
	if err != nil {
		return err
	}
	return requireRowAffected(result)
}

// DeleteJuryMember deletes a jury member; assignments and votes cascade
func (r *Repository) DeleteJuryMember(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM jury_members WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(result)
}

// ListAssignedCategoryIDs returns the category ids assigned to a jury member
func (r *Repository) ListAssignedCategoryIDs(ctx context.Context, juryMemberID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category_id FROM jury_category_assignments WHERE jury_member_id = ?`, juryMemberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SetCategoryAssignments replaces a jury member's category assignments
func (r *Repository) SetCategoryAssignments(ctx context.Context, juryMemberID string, categoryIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM jury_category_assignments WHERE jury_member_id = ?`, juryMemberID); err != nil {
		return err
	}
	for _, categoryID := range categoryIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO jury_category_assignments (jury_member_id, category_id) VALUES (?, ?)`,
			juryMemberID, categoryID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// CountEligibleJury counts active jury members allowed to vote in a category
// (all active core members plus the category's assigned members)
func (r *Repository) CountEligibleJury(ctx context.Context, categoryID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM jury_members j
		 WHERE j.active = 1 AND (j.jury_type = 'core' OR EXISTS (
			SELECT 1 FROM jury_category_assignments a
			WHERE a.jury_member_id = j.id AND a.category_id = ?))`,
		categoryID).Scan(&count)
	return count, err
}

// ==================== Vote Methods ====================

// UpsertVote inserts a vote or updates the score of an existing one for the
// same (jury member, candidate) pair. The unique constraint makes concurrent
// submissions for one pair collapse into a single row, last writer wins.
func (r *Repository) UpsertVote(ctx context.Context, juryMemberID, candidateID string, score int) (*models.Vote, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO votes (id, jury_member_id, candidate_id, score) VALUES (?, ?, ?, ?)
		 ON CONFLICT(jury_member_id, candidate_id)
		 DO UPDATE SET score = excluded.score, updated_at = CURRENT_TIMESTAMP`,
		uuid.NewString(), juryMemberID, candidateID, score)
	if err != nil {
		return nil, err
	}

	var v models.Vote
	err = r.db.QueryRowContext(ctx,
		`SELECT id, jury_member_id, candidate_id, score, created_at, updated_at
		 FROM votes WHERE jury_member_id = ? AND candidate_id = ?`,
		juryMemberID, candidateID).
		Scan(&v.ID, &v.JuryMemberID, &v.CandidateID, &v.Score, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// GetVotesForJuryMember returns a jury member's scores for a category,
// keyed by candidate id
func (r *Repository) GetVotesForJuryMember(ctx context.Context, juryMemberID, categoryID string) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT v.candidate_id, v.score FROM votes v
		 JOIN candidates c ON c.id = v.candidate_id
		 WHERE v.jury_member_id = ? AND c.category_id = ?`,
		juryMemberID, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	votes := make(map[string]int)
	for rows.Next() {
		var candidateID string
		var score int
		if err := rows.Scan(&candidateID, &score); err != nil {
			return nil, err
		}
		votes[candidateID] = score
	}
	return votes, rows.Err()
}

// GetCategoryVoteRows returns every vote in a category joined with candidate
// and jury member names, ordered by candidate sort order then name
func (r *Repository) GetCategoryVoteRows(ctx context.Context, categoryID string) ([]VoteResultRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.name, j.id, j.name, v.score
		 FROM votes v
		 JOIN candidates c ON c.id = v.candidate_id
		 JOIN jury_members j ON j.id = v.jury_member_id
		 WHERE c.category_id = ?
		 ORDER BY c.sort_order, c.name, v.created_at`,
		categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []VoteResultRow
	for rows.Next() {
		var row VoteResultRow
		if err := rows.Scan(&row.CandidateID, &row.CandidateName, &row.JuryMemberID, &row.JuryMemberName, &row.Score); err != nil {
			return nil, err
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// DeleteVotesForCategory deletes all votes for every candidate in a category
// and returns the number removed
func (r *Repository) DeleteVotesForCategory(ctx context.Context, categoryID string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM votes WHERE candidate_id IN (SELECT id FROM candidates WHERE category_id = ?)`,
		categoryID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// CountVotesForCategory counts all votes across a category's candidates
func (r *Repository) CountVotesForCategory(ctx context.Context, categoryID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM votes v
		 JOIN candidates c ON c.id = v.candidate_id
		 WHERE c.category_id = ?`,
		categoryID).Scan(&count)
	return count, err
}

// requireRowAffected converts a zero-row update/delete into ErrNotFound
func requireRowAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
