package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/crossword/assets"
	"github.com/robalobadob/crossword/internal/catalog"
	"github.com/robalobadob/crossword/internal/config"
	"github.com/robalobadob/crossword/internal/daily"
	"github.com/robalobadob/crossword/internal/session"
	"github.com/robalobadob/crossword/internal/store"
)

const testSecret = "test-secret"

func testConfig() config.Config {
	return config.Config{JWTSecret: testSecret, ClientOrigin: "http://localhost:5173", DailySalt: "salt"}
}

func newTestServer(t *testing.T, results *daily.Store) *Server {
	t.Helper()
	cat, err := catalog.Load(assets.Puzzles())
	require.NoError(t, err)
	opts := session.Options{Store: store.NewMemoryStore(), Catalog: cat}
	if results != nil {
		opts.Results = results
	}
	return New(testConfig(), cat, session.NewManager(opts), results)
}

func newDailyStore(t *testing.T) *daily.Store {
	t.Helper()
	db, err := store.OpenSQLite(filepath.Join(t.TempDir(), "srv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(context.Background(), db, assets.Migrations()))
	return daily.NewStore(db)
}

func token(t *testing.T, id string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       id,
		"username": "ann",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	ss, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return ss
}

type reqOpt func(*http.Request)

func bearer(tok string) reqOpt {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tok) }
}

func do(t *testing.T, s *Server, method, path, body string, opts ...reqOpt) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	for _, o := range opts {
		o(req)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func createTap(t *testing.T, s *Server, opts ...reqOpt) session.View {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/sessions", `{"puzzleId":"tap","mode":"solve"}`, opts...)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[session.View](t, rec)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestNotFound(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode[map[string]string](t, rec)["error"])
}

func TestPuzzles(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodGet, "/puzzles", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]puzzleSummary](t, rec)
	var ids []string
	for _, p := range list {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"bag", "stab", "tap"}, ids)

	rec = do(t, s, http.MethodGet, "/puzzles/tap", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "END", "answers stay hidden")
	d := decode[puzzleDetail](t, rec)
	assert.Equal(t, 3, d.Width)
	require.Len(t, d.Blocks, 1)
	assert.Equal(t, 1, d.Blocks[0].Row)
	assert.Equal(t, 1, d.Blocks[0].Col)
	assert.Len(t, d.Highlighted, 2)

	labels := map[string]string{}
	for _, c := range d.Clues {
		labels[c.Label] = c.Clue
	}
	assert.Equal(t, "Faucet", labels["1A"])
	assert.Equal(t, "Definite article", labels["1D"])

	rec = do(t, s, http.MethodGet, "/puzzles/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessions_Flow(t *testing.T) {
	s := newTestServer(t, nil)
	v := createTap(t, s)
	assert.Equal(t, "tap", v.PuzzleID)
	assert.NotEmpty(t, v.Owner, "guests get an anonymous owner")

	rec := do(t, s, http.MethodPost, "/sessions/"+v.ID+"/actions", `{"type":"KEYPRESS","key":"t"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[session.View](t, rec)
	assert.Equal(t, "T", got.Snapshot.Cells[0])
	assert.Equal(t, 1, got.Snapshot.Active.Col)

	rec = do(t, s, http.MethodPost, "/sessions/"+v.ID+"/actions", `{"type":"CHEAT","unit":"puzzle","isReveal":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	got = decode[session.View](t, rec)
	assert.True(t, got.Snapshot.Success)
	assert.True(t, got.Paused)

	rec = do(t, s, http.MethodGet, "/sessions/"+v.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[session.View](t, rec).Snapshot.Success)

	rec = do(t, s, http.MethodGet, "/sessions/"+v.ID+"/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	h := decode[struct {
		Actions []session.HistoryEntry `json:"actions"`
	}](t, rec)
	require.Len(t, h.Actions, 2)
	assert.EqualValues(t, "CHEAT", h.Actions[1].Kind)
}

func TestSessions_UnknownActionIsNoop(t *testing.T) {
	s := newTestServer(t, nil)
	v := createTap(t, s)
	rec := do(t, s, http.MethodPost, "/sessions/"+v.ID+"/actions", `{"type":"DANCE"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, v.Snapshot.Cells, decode[session.View](t, rec).Snapshot.Cells)
}

func TestSessions_Errors(t *testing.T) {
	s := newTestServer(t, nil)
	v := createTap(t, s)

	cases := []struct {
		name, method, path, body string
		want                     int
	}{
		{"bad json", http.MethodPost, "/sessions", `{`, http.StatusBadRequest},
		{"bad mode", http.MethodPost, "/sessions", `{"mode":"race"}`, http.StatusBadRequest},
		{"too wide", http.MethodPost, "/sessions", `{"mode":"build","width":99,"height":3}`, http.StatusBadRequest},
		{"solve without puzzle", http.MethodPost, "/sessions", `{"mode":"solve"}`, http.StatusBadRequest},
		{"unknown puzzle", http.MethodPost, "/sessions", `{"puzzleId":"zzz"}`, http.StatusNotFound},
		{"unknown session", http.MethodGet, "/sessions/missing", ``, http.StatusNotFound},
		{"malformed action", http.MethodPost, "/sessions/" + v.ID + "/actions", `{"type":"KEYPRESS"}`, http.StatusBadRequest},
		{"action on missing", http.MethodPost, "/sessions/missing/actions", `{"type":"TOGGLEKEYBOARD"}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, s, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decode[map[string]string](t, rec)["error"])
		})
	}
}

func TestSessions_Builder(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s, http.MethodPost, "/sessions", `{"mode":"build","width":4,"height":3}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	v := decode[session.View](t, rec)
	assert.Len(t, v.Snapshot.Cells, 12)

	rec = do(t, s, http.MethodPost, "/sessions/"+v.ID+"/actions", `{"type":"KEYPRESS","key":"."}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ".", decode[session.View](t, rec).Snapshot.Cells[0])
}

func TestSessions_PauseResume(t *testing.T) {
	s := newTestServer(t, nil)
	v := createTap(t, s)

	rec := do(t, s, http.MethodPost, "/sessions/"+v.ID+"/pause", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[session.View](t, rec).Paused)

	rec = do(t, s, http.MethodPost, "/sessions/"+v.ID+"/resume", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[session.View](t, rec).Paused)
}

func TestAuth_TokenSetsOwner(t *testing.T) {
	s := newTestServer(t, nil)
	v := createTap(t, s, bearer(token(t, "u-1")))
	assert.Equal(t, "u-1", v.Owner)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": "u-2"})
	bad, err := forged.SignedString([]byte("other-secret"))
	require.NoError(t, err)
	v = createTap(t, s, bearer(bad))
	assert.NotEqual(t, "u-2", v.Owner)
}

func TestAuth_GuestCookieReused(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s, http.MethodPost, "/sessions", `{"puzzleId":"tap"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	first := decode[session.View](t, rec)

	rec = do(t, s, http.MethodPost, "/sessions", `{"puzzleId":"tap"}`, func(r *http.Request) { r.AddCookie(cookies[0]) })
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, first.Owner, decode[session.View](t, rec).Owner)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s, http.MethodOptions, "/sessions", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestDaily_NewReusesSession(t *testing.T) {
	s := newTestServer(t, nil)
	auth := bearer(token(t, "u-1"))

	rec := do(t, s, http.MethodPost, "/daily/new", "", auth)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	first := decode[newRes](t, rec)
	assert.NotEmpty(t, first.SessionID)
	assert.False(t, first.Played)
	assert.Equal(t, daily.DateKey(time.Now()), first.Date)

	rec = do(t, s, http.MethodPost, "/daily/new", "", auth)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, first.SessionID, decode[newRes](t, rec).SessionID)

	rec = do(t, s, http.MethodGet, "/daily/leaderboard", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

// TestDaily_SolveReachesLeaderboard verifies a solved daily session is
// recorded once and blocks a second daily start.
func TestDaily_SolveReachesLeaderboard(t *testing.T) {
	s := newTestServer(t, newDailyStore(t))
	auth := bearer(token(t, "u-1"))

	rec := do(t, s, http.MethodPost, "/daily/new", "", auth)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	started := decode[newRes](t, rec)

	rec = do(t, s, http.MethodPost, "/sessions/"+started.SessionID+"/actions",
		`{"type":"CHEAT","unit":"puzzle","isReveal":true}`, auth)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodGet, "/daily/leaderboard?date="+started.Date, "")
	require.Equal(t, http.StatusOK, rec.Code)
	lb := decode[lbRes](t, rec)
	require.Len(t, lb.Top, 1)
	assert.Equal(t, "u-1", lb.Top[0].Player)
	assert.True(t, lb.Top[0].Cheated)

	rec = do(t, s, http.MethodPost, "/daily/new", "", auth)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[newRes](t, rec).Played)
}

func TestMetrics(t *testing.T) {
	s := newTestServer(t, nil)
	v := createTap(t, s)
	do(t, s, http.MethodPost, "/sessions/"+v.ID+"/actions", `{"type":"TOGGLEKEYBOARD"}`)

	rec := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "crossword_actions_total")
}

func TestStream(t *testing.T) {
	s := newTestServer(t, nil)
	v := createTap(t, s)
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/sessions/" + v.ID + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var frame streamFrame
	require.NoError(t, conn.ReadJSON(&frame))
	require.NotNil(t, frame.View)
	assert.Equal(t, v.ID, frame.View.ID)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"KEYPRESS","key":"T"}`)))
	frame = streamFrame{}
	require.NoError(t, conn.ReadJSON(&frame))
	require.NotNil(t, frame.View)
	assert.Equal(t, "T", frame.View.Snapshot.Cells[0])

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"CHEAT","unit":"galaxy"}`)))
	frame = streamFrame{}
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Nil(t, frame.View)
	assert.NotEmpty(t, frame.Error)
}

func TestStream_UnknownSession(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s, http.MethodGet, "/sessions/missing/ws", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
