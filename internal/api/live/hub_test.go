package live

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dashblogger/admin-console/internal/api/middleware"
	"github.com/dashblogger/admin-console/internal/core/domain"
	"github.com/dashblogger/admin-console/internal/core/mirror"
	"github.com/dashblogger/admin-console/internal/core/stats"
	"github.com/dashblogger/admin-console/internal/core/view"
)

type stubDashboard struct {
	mu       sync.Mutex
	total    int
	section  domain.Section
	filter   view.Filter
	page     int
	closed   []string
	frameErr error
}

func (s *stubDashboard) frame(withTable bool) view.Frame {
	f := view.Frame{
		Section: s.section,
		Title:   s.section.Title(),
		Filter:  s.filter,
		Stats:   stats.Summary{TotalUsers: s.total},
	}
	if withTable || s.section == domain.SectionUsers {
		f.Table = &view.Page{Page: s.page}
	}
	return f
}

func (s *stubDashboard) Frame(string, bool) view.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame(false)
}

func (s *stubDashboard) SetFilter(_ string, f view.Filter) (view.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frameErr != nil {
		return view.Frame{}, s.frameErr
	}
	s.filter = f
	return s.frame(true), nil
}

func (s *stubDashboard) GoToPage(_ string, page int) (view.Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = page
	return s.frame(true), true
}

func (s *stubDashboard) ChangePage(_ string, delta int) (view.Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page += delta
	return s.frame(true), true
}

func (s *stubDashboard) ShowSection(_ string, sec domain.Section) view.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.section = sec
	return s.frame(false)
}

func (s *stubDashboard) Shortcut(id, code string, alt, ctrl, shift bool) (view.Frame, bool) {
	sec, ok := domain.SectionForShortcut(code, alt, ctrl, shift)
	if !ok {
		return s.Frame(id, false), false
	}
	return s.ShowSection(id, sec), true
}

func (s *stubDashboard) Close(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = append(s.closed, id)
}

func (s *stubDashboard) Export(string, io.Writer) (int, error) { return 0, nil }
func (s *stubDashboard) Stats() stats.Summary                   { return stats.Summary{} }
func (s *stubDashboard) Report(stats.ReportKind) (stats.Report, error) {
	return stats.Report{}, nil
}

type countingRefresher struct {
	mu sync.Mutex
	n  int
}

func (r *countingRefresher) Refresh() {
	r.mu.Lock()
	r.n++
	r.mu.Unlock()
}

type received struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func newTestHub(t *testing.T) (*Hub, *stubDashboard, *countingRefresher, string) {
	t.Helper()
	dash := &stubDashboard{section: domain.SectionOverview}
	ref := &countingRefresher{}
	hub := NewHub(dash, ref, zerolog.Nop())

	e := echo.New()
	e.GET("/ws", hub.ServeWS, func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(middleware.KeyAdmin, &domain.User{ID: c.QueryParam("admin"), Role: domain.RoleAdmin})
			return next(c)
		}
	})
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	return hub, dash, ref, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, url, admin string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url+"?admin="+admin, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) (received, view.Frame) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg received
	require.NoError(t, conn.ReadJSON(&msg))
	var f view.Frame
	if msg.Type == "frame" {
		require.NoError(t, json.Unmarshal(msg.Data, &f))
	}
	return msg, f
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met")
}

func TestServeWS_InitialFrame(t *testing.T) {
	hub, _, _, url := newTestHub(t)
	conn := dial(t, url, "admin-1")

	msg, f := readFrame(t, conn)
	assert.Equal(t, "frame", msg.Type)
	assert.Equal(t, domain.SectionOverview, f.Section)
	assert.Nil(t, f.Table)
	waitFor(t, func() bool { return hub.Len() == 1 })
}

func TestServeWS_MissingAdmin(t *testing.T) {
	hub := NewHub(&stubDashboard{}, &countingRefresher{}, zerolog.Nop())
	e := echo.New()
	req := httptest.NewRequest("GET", "/ws", nil)
	rec := httptest.NewRecorder()
	err := hub.ServeWS(e.NewContext(req, rec))

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, 401, he.Code)
}

func TestHub_CommandsReplyWithFrames(t *testing.T) {
	_, dash, _, url := newTestHub(t)
	conn := dial(t, url, "admin-1")
	readFrame(t, conn)

	require.NoError(t, conn.WriteJSON(map[string]any{
		"type": "filter",
		"data": map[string]string{"query": "ann", "status": "premium"},
	}))
	msg, f := readFrame(t, conn)
	assert.Equal(t, "frame", msg.Type)
	assert.Equal(t, "ann", f.Filter.Query)
	require.NotNil(t, f.Table)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "page", "data": map[string]int{"delta": 1}}))
	_, f = readFrame(t, conn)
	assert.Equal(t, 1, f.Table.Page)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "section", "data": map[string]string{"section": "users"}}))
	_, f = readFrame(t, conn)
	assert.Equal(t, domain.SectionUsers, f.Section)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "shortcut", "data": map[string]any{"code": "Digit4", "alt": true}}))
	_, f = readFrame(t, conn)
	assert.Equal(t, domain.SectionAnalytics, f.Section)

	dash.mu.Lock()
	assert.Equal(t, domain.SectionAnalytics, dash.section)
	dash.mu.Unlock()
}

func TestHub_CommandErrors(t *testing.T) {
	_, _, _, url := newTestHub(t)
	conn := dial(t, url, "admin-1")
	readFrame(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	msg, _ := readFrame(t, conn)
	assert.Equal(t, "error", msg.Type)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "section", "data": map[string]string{"section": "nowhere"}}))
	msg, _ = readFrame(t, conn)
	assert.Equal(t, "error", msg.Type)
	assert.Contains(t, string(msg.Data), domain.ErrUnknownSection.Error())

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "dance"}))
	msg, _ = readFrame(t, conn)
	assert.Equal(t, "error", msg.Type)
}

func TestHub_RunPushesOnChange(t *testing.T) {
	hub, dash, ref, url := newTestHub(t)
	a := dial(t, url, "admin-1")
	b := dial(t, url, "admin-2")
	readFrame(t, a)
	readFrame(t, b)
	waitFor(t, func() bool { return hub.Len() == 2 })

	updates := make(chan mirror.Event, 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx, updates)
		close(done)
	}()

	dash.mu.Lock()
	dash.total = 7
	dash.mu.Unlock()
	updates <- mirror.Event{Change: domain.Change{Kind: domain.ChangeInsert, ID: "u1"}, Size: 7}

	_, fa := readFrame(t, a)
	_, fb := readFrame(t, b)
	assert.Equal(t, 7, fa.Stats.TotalUsers)
	assert.Equal(t, 7, fb.Stats.TotalUsers)

	ref.mu.Lock()
	assert.Equal(t, 1, ref.n)
	ref.mu.Unlock()

	cancel()
	<-done
	assert.Equal(t, 0, hub.Len())
}

func TestHub_CloseDropsAdminConnections(t *testing.T) {
	hub, _, _, url := newTestHub(t)
	a := dial(t, url, "admin-1")
	b := dial(t, url, "admin-2")
	readFrame(t, a)
	readFrame(t, b)
	waitFor(t, func() bool { return hub.Len() == 2 })

	hub.Close("admin-1")
	assert.Equal(t, 1, hub.Len())

	require.NoError(t, a.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := a.ReadMessage()
	assert.Error(t, err)
}
