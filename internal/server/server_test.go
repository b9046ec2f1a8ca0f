package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/portfolio"
	"github.com/Zachkp/portfolio/internal/session"
	"github.com/Zachkp/portfolio/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() config.Config {
	return config.Config{
		Port:          "0",
		ScrollSpy:     true,
		SessionTTL:    time.Minute,
		TrackVisitors: true,
		AdminUsername: "admin",
		AdminPassword: "pw",
	}
}

func setupTest(t *testing.T, cfg config.Config) (*Server, *store.Store) {
	t.Helper()
	c, err := content.Builtin("jatin")
	if err != nil {
		t.Fatalf("content: %v", err)
	}
	st, err := store.OpenMemory("salt")
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	srv, err := New(cfg, c, st)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return srv, st
}

// loadPage performs the initial GET and returns the session cookie.
func loadPage(t *testing.T, srv *Server) *http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET /: expected 200, got %d", w.Code)
	}
	for _, ck := range w.Result().Cookies() {
		if ck.Name == session.CookieName {
			return ck
		}
	}
	t.Fatal("no session cookie")
	return nil
}

func post(srv *Server, ck *http.Cookie, path string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	if ck != nil {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func viewFor(t *testing.T, srv *Server, ck *http.Cookie) *portfolio.View {
	t.Helper()
	v, ok := srv.sessions.Get(ck.Value)
	if !ok {
		t.Fatal("view not found for cookie")
	}
	return v
}

func TestHealthCheck(t *testing.T) {
	srv, _ := setupTest(t, testConfig())
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %v", body["status"])
	}
}

func TestInitialRender(t *testing.T) {
	srv, _ := setupTest(t, testConfig())
	ck := loadPage(t, srv)
	nav := viewFor(t, srv, ck).Snapshot().Nav
	if nav.Active != portfolio.About || nav.MenuOpen {
		t.Fatalf("expected {about false}, got %+v", nav)
	}
}

func TestReloadStartsOver(t *testing.T) {
	srv, _ := setupTest(t, testConfig())
	ck := loadPage(t, srv)
	post(srv, ck, "/nav/contact", nil, true)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(ck)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if got := viewFor(t, srv, ck).Snapshot().Nav.Active; got != portfolio.About {
		t.Fatalf("expected about after reload, got %s", got)
	}
}

func TestSelectEverySection(t *testing.T) {
	srv, _ := setupTest(t, testConfig())
	ck := loadPage(t, srv)
	for _, s := range portfolio.Sections() {
		for _, open := range []bool{false, true} {
			view := viewFor(t, srv, ck)
			if view.Snapshot().Nav.MenuOpen != open {
				view.ToggleMenu()
			}
			w := post(srv, ck, "/nav/"+string(s), nil, true)
			if w.Code != http.StatusOK {
				t.Fatalf("select %s: expected 200, got %d", s, w.Code)
			}
			if trigger := w.Header().Get("HX-Trigger"); !strings.Contains(trigger, s.Anchor().ID) {
				t.Errorf("select %s: trigger %q", s, trigger)
			}
			nav := view.Snapshot().Nav
			if nav.Active != s || nav.MenuOpen {
				t.Errorf("select %s (menu %v): got %+v", s, open, nav)
			}
		}
	}
}

func TestSelectProjectsWithMenuOpen(t *testing.T) {
	srv, _ := setupTest(t, testConfig())
	ck := loadPage(t, srv)
	if w := post(srv, ck, "/nav/menu", nil, true); !strings.Contains(w.Body.String(), "mobile-menu") {
		t.Fatal("menu not rendered open")
	}
	w := post(srv, ck, "/nav/projects", nil, true)
	if strings.Contains(w.Body.String(), "mobile-menu") {
		t.Fatal("menu still rendered after select")
	}
	nav := viewFor(t, srv, ck).Snapshot().Nav
	if nav != (portfolio.Navigation{Active: portfolio.Projects}) {
		t.Fatalf("expected {projects false}, got %+v", nav)
	}
}

func TestSelectUnknownSection(t *testing.T) {
	srv, _ := setupTest(t, testConfig())
	ck := loadPage(t, srv)
	w := post(srv, ck, "/nav/blog", nil, true)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if got := viewFor(t, srv, ck).Snapshot().Nav.Active; got != portfolio.About {
		t.Fatalf("active changed to %s", got)
	}
}

func TestToggleMenuParity(t *testing.T) {
	srv, _ := setupTest(t, testConfig())
	ck := loadPage(t, srv)
	for i := 1; i <= 4; i++ {
		post(srv, ck, "/nav/menu", nil, true)
		if got := viewFor(t, srv, ck).Snapshot().Nav.MenuOpen; got != (i%2 == 1) {
			t.Fatalf("after %d toggles menu open = %v", i, got)
		}
	}
}

func TestFieldInput(t *testing.T) {
	srv, _ := setupTest(t, testConfig())
	ck := loadPage(t, srv)
	for _, value := range []string{"A", "Al"} {
		w := post(srv, ck, "/contact/field/message", url.Values{"message": {value}, "name": {"ignored"}}, true)
		if w.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", w.Code)
		}
	}
	form := viewFor(t, srv, ck).Snapshot().Form
	if form != (portfolio.ContactForm{Message: "Al"}) {
		t.Fatalf("expected only message=Al, got %+v", form)
	}

	if w := post(srv, ck, "/contact/field/phone", url.Values{"phone": {"1"}}, true); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", w.Code)
	}
}

func TestSubmitLogsWithoutNavigating(t *testing.T) {
	srv, st := setupTest(t, testConfig())
	ck := loadPage(t, srv)
	post(srv, ck, "/contact/field/name", url.Values{"name": {"Ada"}}, true)

	form := url.Values{"name": {"Ada"}, "email": {"ada@example.com"}, "message": {"Hi"}}
	w := post(srv, ck, "/contact", form, true)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("Location") != "" {
		t.Fatal("submit redirected")
	}
	if !strings.Contains(w.Body.String(), submitNotice) || strings.Contains(w.Body.String(), "<html") {
		t.Fatalf("expected contact fragment with notice, got %s", w.Body.String())
	}
	if got := viewFor(t, srv, ck).Snapshot().Form; got.Name != "Ada" || got.Message != "Hi" {
		t.Fatalf("form cleared or wrong: %+v", got)
	}

	entries, err := st.RecentContacts(context.Background(), 10)
	if err != nil {
		t.Fatalf("recent contacts: %v", err)
	}
	if len(entries) != 1 || entries[0].Email != "ada@example.com" {
		t.Fatalf("unexpected contact log %+v", entries)
	}

	w = post(srv, ck, "/contact", form, false)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "<html") {
		t.Fatalf("plain post should return the full page, got %d", w.Code)
	}
}

func TestExpiredSession(t *testing.T) {
	srv, _ := setupTest(t, testConfig())
	if w := post(srv, nil, "/nav/menu", nil, false); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	w := post(srv, &http.Cookie{Name: session.CookieName, Value: "gone"}, "/nav/menu", nil, true)
	if w.Header().Get("HX-Refresh") != "true" {
		t.Fatal("expected HX-Refresh for htmx request")
	}
}

func TestViewportStream(t *testing.T) {
	srv, _ := setupTest(t, testConfig())
	ck := loadPage(t, srv)

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/viewport"
	header := http.Header{"Cookie": {ck.Name + "=" + ck.Value}}
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer conn.Close()
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("expected 101, got %d", resp.StatusCode)
	}

	if err := conn.WriteJSON(visibilityReport{Section: "nowhere", Visible: true}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := conn.WriteJSON(visibilityReport{Section: "skills", Visible: true}); err != nil {
		t.Fatalf("write: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var entrance, nav viewportMessage
	if err := conn.ReadJSON(&entrance); err != nil {
		t.Fatalf("read: %v", err)
	}
	if entrance.Type != "entrance" || entrance.Section != portfolio.Skills || entrance.Animation == nil {
		t.Fatalf("unexpected message %+v", entrance)
	}
	if entrance.Animation.FromOffsetY != 20 || entrance.Animation.Duration != 500*time.Millisecond {
		t.Fatalf("unexpected animation %+v", entrance.Animation)
	}
	if err := conn.ReadJSON(&nav); err != nil {
		t.Fatalf("read: %v", err)
	}
	if nav.Type != "nav" || nav.Active != portfolio.Skills {
		t.Fatalf("unexpected message %+v", nav)
	}
	if got := viewFor(t, srv, ck).Snapshot().Nav.Active; got != portfolio.Skills {
		t.Fatalf("scroll-spy did not update view, active = %s", got)
	}
}

func TestViewportRequiresSession(t *testing.T) {
	srv, _ := setupTest(t, testConfig())
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/viewport"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("expected dial to fail without session")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 response, got %+v", resp)
	}
}

func TestVisitorTracking(t *testing.T) {
	srv, st := setupTest(t, testConfig())
	loadPage(t, srv)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("DNT", "1")
	srv.Router().ServeHTTP(httptest.NewRecorder(), req)

	deadline := time.Now().Add(2 * time.Second)
	for {
		stats, err := st.Stats(context.Background())
		if err != nil {
			t.Fatalf("stats: %v", err)
		}
		if stats.TotalVisitors == 1 {
			break
		}
		if stats.TotalVisitors > 1 {
			t.Fatalf("DNT request was tracked: %d visits", stats.TotalVisitors)
		}
		if time.Now().After(deadline) {
			t.Fatal("visit never recorded")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestAdminLogin(t *testing.T) {
	srv, _ := setupTest(t, testConfig())

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	if w.Code != http.StatusFound {
		t.Fatalf("expected redirect to login, got %d", w.Code)
	}

	if w := post(srv, nil, "/admin/login", url.Values{"username": {"admin"}, "password": {"nope"}}, false); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	w = post(srv, nil, "/admin/login", url.Values{"username": {"admin"}, "password": {"pw"}}, false)
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	var token *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == adminCookie {
			token = ck
		}
	}
	if token == nil {
		t.Fatal("no admin cookie")
	}

	for _, path := range []string{"/admin/dashboard", "/admin/api/stats"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.AddCookie(token)
		w := httptest.NewRecorder()
		srv.Router().ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, w.Code)
		}
	}
}

func TestAdminClosedWithoutPassword(t *testing.T) {
	gin.SetMode(gin.DebugMode)
	defer gin.SetMode(gin.TestMode)

	cfg := testConfig()
	cfg.AdminPassword = ""
	srv, _ := setupTest(t, cfg)

	for _, password := range []string{"", "admin123"} {
		w := post(srv, nil, "/admin/login", url.Values{"username": {"admin"}, "password": {password}}, false)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("password %q: expected 401, got %d", password, w.Code)
		}
		for _, ck := range w.Result().Cookies() {
			if ck.Name == adminCookie && ck.Value != "" {
				t.Fatalf("password %q: admin cookie issued", password)
			}
		}
	}
}

func TestViewportKeepsClickedSection(t *testing.T) {
	srv, _ := setupTest(t, testConfig())
	ck := loadPage(t, srv)
	post(srv, ck, "/nav/contact", nil, true)

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/viewport"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Cookie": {ck.Name + "=" + ck.Value}})
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer conn.Close()

	for _, report := range []visibilityReport{
		{Section: "projects", Visible: true},
		{Section: "contact", Visible: true},
	} {
		if err := conn.WriteJSON(report); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for i := 0; i < 2; i++ {
		var msg viewportMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		if msg.Type != "entrance" {
			t.Fatalf("clicked section lost the highlight: %+v", msg)
		}
	}
	if got := viewFor(t, srv, ck).Snapshot().Nav.Active; got != portfolio.Contact {
		t.Fatalf("expected contact to stay active, got %s", got)
	}
}
