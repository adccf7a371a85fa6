package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sandhyasneha/it-project-planner/internal/auth"
	"github.com/sandhyasneha/it-project-planner/internal/model"
)

// ErrDuplicateAccount indicates a registration attempt for an existing email.
var ErrDuplicateAccount = errors.New("an account with that email already exists")

// AccountStore holds registered accounts and their salted secret digests.
// It owns the credential checks: the email-domain policy and the digest
// comparison both live here so every caller fails closed the same way.
type AccountStore struct {
	db     *sql.DB
	policy auth.Policy
}

func NewAccountStore(db *sql.DB, policy auth.Policy) *AccountStore {
	return &AccountStore{db: db, policy: policy}
}

func scanAccount(scanner interface{ Scan(...any) error }) (*model.Account, error) {
	var a model.Account
	err := scanner.Scan(&a.ID, &a.Email, &a.SecretHash, &a.SecretSalt, &a.Role, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

const accountCols = `id, email, secret_hash, secret_salt, role, created_at`

// Register validates the email against the domain policy, digests the
// secret with a fresh salt, and inserts the account. Duplicate emails are
// rejected; registration does not log the account in.
func (s *AccountStore) Register(email, secret string) (*model.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.policy.Check(email); err != nil {
		return nil, err
	}

	existing, err := s.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateAccount
	}

	salt, err := auth.GenerateSalt()
	if err != nil {
		return nil, err
	}
	digest := auth.Digest(secret, salt)

	result, err := s.db.Exec(
		`INSERT INTO accounts (email, secret_hash, secret_salt) VALUES (?, ?, ?)`,
		email, digest, salt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert account: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

// Authenticate fails closed: a policy violation, a missing account, and a
// digest mismatch all reject the attempt. The stored salt makes the digest
// comparison deterministic without ever needing the plaintext secret.
func (s *AccountStore) Authenticate(email, secret string) (*model.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.policy.Check(email); err != nil {
		return nil, err
	}

	a, err := s.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, auth.ErrInvalidCredentials
	}
	if !auth.VerifySecret(secret, a.SecretSalt, a.SecretHash) {
		return nil, auth.ErrInvalidCredentials
	}
	return a, nil
}

func (s *AccountStore) GetByID(id int64) (*model.Account, error) {
	row := s.db.QueryRow(`SELECT `+accountCols+` FROM accounts WHERE id = ?`, id)
	a, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

func (s *AccountStore) GetByEmail(email string) (*model.Account, error) {
	row := s.db.QueryRow(`SELECT `+accountCols+` FROM accounts WHERE email = ?`, email)
	a, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get account by email: %w", err)
	}
	return a, nil
}

// List returns all accounts in registration order.
func (s *AccountStore) List() ([]model.Account, error) {
	rows, err := s.db.Query(`SELECT ` + accountCols + ` FROM accounts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}

// SetRole updates the account role ("user" or "admin"). The admin role
// gates the reminder broadcast.
func (s *AccountStore) SetRole(id int64, role string) error {
	if role != model.RoleUser && role != model.RoleAdmin {
		return fmt.Errorf("unknown role %q", role)
	}
	_, err := s.db.Exec(`UPDATE accounts SET role = ? WHERE id = ?`, role, id)
	if err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	return nil
}
