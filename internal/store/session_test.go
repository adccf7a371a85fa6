package store

import (
	"testing"
	"time"

	"github.com/sandhyasneha/it-project-planner/internal/auth"
)

func setupSessionStore(t *testing.T) (*SessionStore, int64) {
	t.Helper()
	db := setupTestDB(t)
	accounts := NewAccountStore(db, auth.Policy{Domain: "nttdata.com"})
	a, err := accounts.Register("alice@nttdata.com", "pw1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return NewSessionStore(db), a.ID
}

func TestSessionCreateAndGet(t *testing.T) {
	ss, accountID := setupSessionStore(t)

	sess, err := ss.Create(accountID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if len(sess.Token) != 64 {
		t.Errorf("token length = %d, want 64 hex chars", len(sess.Token))
	}

	got, err := ss.GetByToken(sess.Token)
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if got == nil || got.AccountID != accountID {
		t.Fatalf("unexpected session: %+v", got)
	}
}

func TestSessionGetUnknownToken(t *testing.T) {
	ss, _ := setupSessionStore(t)

	got, err := ss.GetByToken("nope")
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil session, got %+v", got)
	}
}

func TestSessionExpiry(t *testing.T) {
	db := setupTestDB(t)
	accounts := NewAccountStore(db, auth.Policy{Domain: "nttdata.com"})
	a, err := accounts.Register("alice@nttdata.com", "pw1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	ss := NewSessionStore(db)

	_, err = db.Exec(
		`INSERT INTO sessions (token, account_id, expires_at) VALUES (?, ?, ?)`,
		"stale-token", a.ID, time.Now().UTC().Add(-time.Hour),
	)
	if err != nil {
		t.Fatalf("insert stale session: %v", err)
	}

	got, err := ss.GetByToken("stale-token")
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if got != nil {
		t.Error("expired session should not resolve")
	}

	live, err := ss.Create(a.ID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	n, err := ss.DeleteExpired()
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if n != 1 {
		t.Errorf("removed = %d, want 1", n)
	}
	if got, _ := ss.GetByToken(live.Token); got == nil {
		t.Error("live session should survive the sweep")
	}
}

func TestSessionDelete(t *testing.T) {
	ss, accountID := setupSessionStore(t)

	sess, err := ss.Create(accountID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if err := ss.Delete(sess.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := ss.GetByToken(sess.Token)
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if got != nil {
		t.Error("session should be gone after delete")
	}
}
