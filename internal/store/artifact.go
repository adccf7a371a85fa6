package store

import (
	"database/sql"
	"fmt"

	"github.com/sandhyasneha/it-project-planner/internal/model"
)

// ArtifactStore persists generated plans. Artifacts are append-only:
// there is no update or delete.
type ArtifactStore struct {
	db *sql.DB
}

func NewArtifactStore(db *sql.DB) *ArtifactStore {
	return &ArtifactStore{db: db}
}

func scanArtifact(scanner interface{ Scan(...any) error }) (*model.Artifact, error) {
	var a model.Artifact
	err := scanner.Scan(&a.ID, &a.OwnerEmail, &a.Text, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

const artifactCols = `id, owner_email, text, created_at`

func (s *ArtifactStore) Save(ownerEmail, text string) (*model.Artifact, error) {
	result, err := s.db.Exec(
		`INSERT INTO artifacts (owner_email, text) VALUES (?, ?)`,
		ownerEmail, text,
	)
	if err != nil {
		return nil, fmt.Errorf("insert artifact: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	row := s.db.QueryRow(`SELECT `+artifactCols+` FROM artifacts WHERE id = ?`, id)
	return scanArtifact(row)
}

// ListForOwner returns the owner's artifacts in insertion order. Callers
// that want most-recent-first display reverse the slice.
func (s *ArtifactStore) ListForOwner(ownerEmail string) ([]model.Artifact, error) {
	rows, err := s.db.Query(
		`SELECT `+artifactCols+` FROM artifacts WHERE owner_email = ? ORDER BY id`,
		ownerEmail,
	)
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []model.Artifact
	for rows.Next() {
		a, err := scanArtifact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan artifact: %w", err)
		}
		artifacts = append(artifacts, *a)
	}
	return artifacts, rows.Err()
}
