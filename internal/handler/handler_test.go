package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sandhyasneha/it-project-planner/internal/auth"
	"github.com/sandhyasneha/it-project-planner/internal/database"
	"github.com/sandhyasneha/it-project-planner/internal/middleware"
	"github.com/sandhyasneha/it-project-planner/internal/model"
	"github.com/sandhyasneha/it-project-planner/internal/store"
)

type stubGenerator struct {
	plan  string
	err   error
	calls int
}

func (g *stubGenerator) Generate(ctx context.Context, description string) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return g.plan, nil
}

type testApp struct {
	auth      *AuthHandler
	plans     *PlanHandler
	generator *stubGenerator
	mux       http.Handler
}

func setupApp(t *testing.T) *testApp {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	accounts := store.NewAccountStore(db, auth.Policy{Domain: "nttdata.com"})
	sessions := store.NewSessionStore(db)
	artifacts := store.NewArtifactStore(db)
	drafts := NewDraftState()
	gen := &stubGenerator{plan: "Step 1: gather requirements"}

	ah := NewAuthHandler(accounts, sessions, drafts, logger)
	ph := NewPlanHandler(gen, artifacts, drafts, logger)

	protected := http.NewServeMux()
	protected.HandleFunc("POST /logout", ah.Logout)
	protected.HandleFunc("POST /api/plan/generate", ph.Generate)
	protected.HandleFunc("POST /api/plan/save", ph.Save)
	protected.HandleFunc("GET /api/plan/history", ph.History)
	protected.HandleFunc("GET /api/plan/export", ph.Export)
	protected.HandleFunc("GET /api/plan/export.xlsx", ph.ExportWorkbook)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /register", ah.Register)
	mux.HandleFunc("POST /login", ah.Login)
	mux.Handle("/", middleware.RequireAuth(sessions, accounts)(protected))

	return &testApp{auth: ah, plans: ph, generator: gen, mux: mux}
}

func (a *testApp) do(t *testing.T, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	a.mux.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestRegisterAndLogin(t *testing.T) {
	app := setupApp(t)

	rec := app.do(t, "POST", "/register", `{"email":"alice@nttdata.com","password":"pw1"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", rec.Code, rec.Body)
	}

	// Out-of-domain addresses are rejected.
	rec = app.do(t, "POST", "/register", `{"email":"bob@gmail.com","password":"pw2"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("gmail register status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	rec = app.do(t, "POST", "/register", `{"email":"alice@nttdata.com","password":"other"}`, nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate register status = %d, want %d", rec.Code, http.StatusConflict)
	}

	rec = app.do(t, "POST", "/login", `{"email":"alice@nttdata.com","password":"wrong"}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad login status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	rec = app.do(t, "POST", "/login", `{"email":"alice@nttdata.com","password":"pw1"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body)
	}
	sessionCookie(t, rec)
}

func TestRegisterDoesNotLogIn(t *testing.T) {
	app := setupApp(t)

	rec := app.do(t, "POST", "/register", `{"email":"carol@nttdata.com","password":"pw"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d", rec.Code)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			t.Error("register should not set a session cookie")
		}
	}
}

func TestPlanLifecycle(t *testing.T) {
	app := setupApp(t)

	app.do(t, "POST", "/register", `{"email":"alice@nttdata.com","password":"pw1"}`, nil)
	rec := app.do(t, "POST", "/login", `{"email":"alice@nttdata.com","password":"pw1"}`, nil)
	cookie := sessionCookie(t, rec)

	// Nothing generated yet, so save conflicts.
	rec = app.do(t, "POST", "/api/plan/save", "", cookie)
	if rec.Code != http.StatusConflict {
		t.Errorf("premature save status = %d, want %d", rec.Code, http.StatusConflict)
	}

	rec = app.do(t, "POST", "/api/plan/generate", `{"description":"migrate CRM to the cloud"}`, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("generate status = %d, body %s", rec.Code, rec.Body)
	}
	var genResp map[string]string
	json.Unmarshal(rec.Body.Bytes(), &genResp)
	if genResp["plan"] != "Step 1: gather requirements" {
		t.Errorf("plan = %q", genResp["plan"])
	}

	rec = app.do(t, "POST", "/api/plan/save", "", cookie)
	if rec.Code != http.StatusCreated {
		t.Fatalf("save status = %d, body %s", rec.Code, rec.Body)
	}

	// Saving is repeatable: the draft stays, and each save appends a row.
	rec = app.do(t, "POST", "/api/plan/save", "", cookie)
	if rec.Code != http.StatusCreated {
		t.Errorf("second save status = %d, want %d", rec.Code, http.StatusCreated)
	}

	rec = app.do(t, "GET", "/api/plan/history", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("history status = %d", rec.Code)
	}
	var history []model.Artifact
	json.Unmarshal(rec.Body.Bytes(), &history)
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2 after saving twice", len(history))
	}
	for _, a := range history {
		if a.Text != "Step 1: gather requirements" {
			t.Errorf("history entry = %q", a.Text)
		}
	}
}

func TestGenerateFailureKeepsHistory(t *testing.T) {
	app := setupApp(t)

	app.do(t, "POST", "/register", `{"email":"alice@nttdata.com","password":"pw1"}`, nil)
	rec := app.do(t, "POST", "/login", `{"email":"alice@nttdata.com","password":"pw1"}`, nil)
	cookie := sessionCookie(t, rec)

	app.do(t, "POST", "/api/plan/generate", `{"description":"first project"}`, cookie)
	app.do(t, "POST", "/api/plan/save", "", cookie)

	app.generator.err = errors.New("completion API: 401 Unauthorized: Incorrect API key provided")
	rec = app.do(t, "POST", "/api/plan/generate", `{"description":"second project"}`, cookie)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("failed generate status = %d, want %d", rec.Code, http.StatusBadGateway)
	}
	var errResp map[string]string
	json.Unmarshal(rec.Body.Bytes(), &errResp)
	if !strings.Contains(errResp["error"], "Incorrect API key") {
		t.Errorf("error = %q, want upstream cause preserved", errResp["error"])
	}

	rec = app.do(t, "GET", "/api/plan/history", "", cookie)
	var history []model.Artifact
	json.Unmarshal(rec.Body.Bytes(), &history)
	if len(history) != 1 {
		t.Errorf("history length = %d, want 1 after failed generation", len(history))
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	app := setupApp(t)

	app.do(t, "POST", "/register", `{"email":"alice@nttdata.com","password":"pw1"}`, nil)
	rec := app.do(t, "POST", "/login", `{"email":"alice@nttdata.com","password":"pw1"}`, nil)
	cookie := sessionCookie(t, rec)

	app.do(t, "POST", "/api/plan/save", `{"text":"plan one"}`, cookie)
	app.do(t, "POST", "/api/plan/save", `{"text":"plan two"}`, cookie)

	rec = app.do(t, "GET", "/api/plan/history", "", cookie)
	var history []model.Artifact
	json.Unmarshal(rec.Body.Bytes(), &history)
	if len(history) != 2 || history[0].Text != "plan two" || history[1].Text != "plan one" {
		t.Errorf("history = %+v, want newest first", history)
	}
}

func TestExport(t *testing.T) {
	app := setupApp(t)

	app.do(t, "POST", "/register", `{"email":"alice@nttdata.com","password":"pw1"}`, nil)
	rec := app.do(t, "POST", "/login", `{"email":"alice@nttdata.com","password":"pw1"}`, nil)
	cookie := sessionCookie(t, rec)

	rec = app.do(t, "GET", "/api/plan/export", "", cookie)
	if rec.Code != http.StatusNotFound {
		t.Errorf("empty export status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	app.do(t, "POST", "/api/plan/save", `{"text":"exported plan"}`, cookie)

	rec = app.do(t, "GET", "/api/plan/export", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	if got := rec.Body.String(); got != "exported plan" {
		t.Errorf("export body = %q", got)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "project_plan_") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	rec = app.do(t, "GET", "/api/plan/export.xlsx", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("xlsx export status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestLogoutClearsSessionAndDraft(t *testing.T) {
	app := setupApp(t)

	app.do(t, "POST", "/register", `{"email":"alice@nttdata.com","password":"pw1"}`, nil)
	rec := app.do(t, "POST", "/login", `{"email":"alice@nttdata.com","password":"pw1"}`, nil)
	cookie := sessionCookie(t, rec)

	app.do(t, "POST", "/api/plan/generate", `{"description":"short lived"}`, cookie)

	rec = app.do(t, "POST", "/logout", "", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout status = %d", rec.Code)
	}

	// The old token is dead.
	rec = app.do(t, "GET", "/api/plan/history", "", cookie)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("post-logout status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
