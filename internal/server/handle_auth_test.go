package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestRegisterRejectsNameDifferingOnlyByCase(t *testing.T) {
	r, docs := testRouter(t)
	playerClient(t, r, "Al")

	w := newClient(t, r).post("/register", url.Values{"name": {"AL"}, "password": {"x"}})
	expectRedirect(t, w, "/market", "Username already taken!")

	if n := len(loadDocument(t, docs).Players); n != 1 {
		t.Errorf("players = %d, want 1", n)
	}
}

func TestRegisterSignsIn(t *testing.T) {
	r, docs := testRouter(t)
	c := newClient(t, r)

	w := c.post("/register", url.Values{"name": {"Al"}, "password": {"secret"}, "position": {"GK"}})
	expectRedirect(t, w, "/profile", "")

	w = c.get("/profile")
	if strings.Contains(w.Body.String(), "secret") {
		t.Errorf("profile leaks password: %s", w.Body.String())
	}
	view := decode[ProfileView](t, w)
	if view.User == nil || view.User.Name != "Al" {
		t.Fatalf("user = %+v", view.User)
	}
	if view.User.Verified || view.User.Goals != 0 {
		t.Errorf("new player = %+v, want unverified with zero stats", view.User)
	}
	if view.User.Profile["position"] != "GK" {
		t.Errorf("profile = %v, want position GK", view.User.Profile)
	}

	p, err := loadDocument(t, docs).PlayerByName("Al")
	if err != nil {
		t.Fatal(err)
	}
	if p.Password != "secret" {
		t.Errorf("stored password = %q", p.Password)
	}
}

func TestRegisterJSONBody(t *testing.T) {
	r, _ := testRouter(t)
	c := newClient(t, r)

	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBufferString(`{"name":"Al","password":"pw"}`))
	req.Header.Set("Content-Type", "application/json")
	expectRedirect(t, c.do(req), "/profile", "")
}

func TestRegisterMissingName(t *testing.T) {
	r, _ := testRouter(t)
	w := newClient(t, r).post("/register", url.Values{"password": {"pw"}})
	expectRedirect(t, w, "/market", "Missing name")
}

func TestLogin(t *testing.T) {
	r, _ := testRouter(t)
	playerClient(t, r, "Al")

	tests := []struct {
		name     string
		username string
		password string
		wantPath string
		wantErr  string
	}{
		{"exact", "Al", "pw-Al", "/profile", ""},
		{"case-insensitive name", "aL", "pw-Al", "/profile", ""},
		{"wrong password", "Al", "PW-AL", "/market", "Invalid username or password"},
		{"unknown player", "Bo", "pw-Al", "/market", "Invalid username or password"},
		{"empty", "", "", "/market", "Invalid username or password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(t, r)
			w := c.post("/login", url.Values{"username": {tt.username}, "password": {tt.password}})
			expectRedirect(t, w, tt.wantPath, tt.wantErr)

			if tt.wantErr == "" {
				if w := c.get("/profile"); w.Code != http.StatusOK {
					t.Errorf("profile after login: %d", w.Code)
				}
			}
		})
	}
}

func TestLogoutDestroysSession(t *testing.T) {
	r, _ := testRouter(t)
	c := playerClient(t, r, "Al")

	expectRedirect(t, c.get("/logout"), "/", "")
	expectRedirect(t, c.get("/profile"), "/market", "Please login first")
}

func TestProfileRequiresLogin(t *testing.T) {
	r, _ := testRouter(t)
	c := newClient(t, r)

	expectRedirect(t, c.get("/profile"), "/market", "Please login first")
	expectRedirect(t, c.post("/profile/update", url.Values{"bio": {"x"}}), "/profile", "")
	expectRedirect(t, c.post("/profile/delete", nil), "/profile", "")
}

func TestAdminLogin(t *testing.T) {
	r, _ := testRouter(t)
	c := newClient(t, r)

	expectRedirect(t, c.get("/admin"), "/admin-login", "")

	view := decode[AdminLoginView](t, c.post("/admin-login", url.Values{"password": {"guess"}}))
	if view.Error != "WRONG KEY!" {
		t.Errorf("error = %q, want WRONG KEY!", view.Error)
	}
	if view.IsAdmin {
		t.Error("wrong key granted admin")
	}

	expectRedirect(t, c.post("/admin-login", url.Values{"password": {testAdminKey}}), "/admin", "")
	admin := decode[AdminView](t, c.get("/admin"))
	if !admin.IsAdmin {
		t.Error("dashboard view not flagged admin")
	}
}

func TestAdminAndPlayerShareSession(t *testing.T) {
	r, _ := testRouter(t)
	c := playerClient(t, r, "Al")
	expectRedirect(t, c.post("/admin-login", url.Values{"password": {testAdminKey}}), "/admin", "")

	view := decode[ProfileView](t, c.get("/profile"))
	if !view.IsAdmin || view.User == nil || view.User.Name != "Al" {
		t.Errorf("site = %+v", view.SiteView)
	}
}

func TestSignInIssuesFreshSessionID(t *testing.T) {
	r, _ := testRouter(t)
	c := playerClient(t, r, "Al")
	first := c.cookies[sessionCookieName].Value

	expectRedirect(t, c.post("/admin-login", url.Values{"password": {testAdminKey}}), "/admin", "")
	second := c.cookies[sessionCookieName].Value
	if second == first {
		t.Fatal("admin login kept the session id")
	}

	expectRedirect(t, c.post("/login", url.Values{"username": {"Al"}, "password": {"pw-Al"}}), "/profile", "")
	if c.cookies[sessionCookieName].Value == second {
		t.Fatal("login kept the session id")
	}
	if view := decode[ProfileView](t, c.get("/profile")); !view.IsAdmin || view.User == nil {
		t.Errorf("renewed session lost its state: %+v", view.SiteView)
	}

	tests := []struct {
		name string
		id   string
	}{
		{"before admin login", first},
		{"before player login", second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stale := newClient(t, r)
			stale.cookies[sessionCookieName] = &http.Cookie{Name: sessionCookieName, Value: tt.id}
			expectRedirect(t, stale.get("/profile"), "/market", "Please login first")
			if w := stale.post("/admin/live", url.Values{"link": {"x"}}); w.Code != http.StatusForbidden {
				t.Errorf("old id still admin: %d", w.Code)
			}
		})
	}
}
