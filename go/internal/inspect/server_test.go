package inspect

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/rikiki/go/internal/events"
	"github.com/mcdev12/rikiki/go/internal/i18n"
	"github.com/mcdev12/rikiki/go/internal/poll"
	"github.com/mcdev12/rikiki/go/internal/view"
)

type fakeSource struct {
	doc     *view.Document
	session *poll.Session
}

func (f *fakeSource) Document() *view.Document   { return f.doc }
func (f *fakeSource) Session() *poll.Session     { return f.session }
func (f *fakeSource) Localizer() *i18n.Localizer { return i18n.New("fr-CH") }
func (f *fakeSource) SelfID() string             { return "p1" }
func (f *fakeSource) Stopped() bool              { return false }
func (f *fakeSource) Renders() uint64            { return 2 }

func newTestServer(t *testing.T) (*httptest.Server, *events.Broadcaster, *Server) {
	t.Helper()
	doc := view.NewDocument()
	doc.Update(func() {
		n := doc.CreateElement("p", "game_status")
		n.SetText("Bidding with 3 cards, 0 tricks bid so far")
		doc.Root().AppendChild(n)
	})
	b := events.NewBroadcaster()
	s := NewServer(&fakeSource{doc: doc, session: poll.NewSession(poll.DefaultConfig())}, b, DefaultConnectionConfig()).
		WithCounters(events.NewCounters())
	ts := httptest.NewServer(s.Routes())
	t.Cleanup(ts.Close)
	return ts, b, s
}

func TestServer_Health(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))
}

func TestServer_InfoAndView(t *testing.T) {
	ts, _, s := newTestServer(t)

	resp, err := http.Get(ts.URL + "/info")
	require.NoError(t, err)
	defer resp.Body.Close()
	var info Info
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	assert.Equal(t, s.source.Session().ID.String(), info.SessionID)
	assert.Equal(t, "p1", info.SelfID)
	assert.Equal(t, "fr", info.Language)
	assert.Equal(t, int64(1000), info.DelayMS)
	assert.Equal(t, uint64(2), info.Renders)
	require.NotNil(t, info.Events)

	resp, err = http.Get(ts.URL + "/view")
	require.NoError(t, err)
	defer resp.Body.Close()
	var root view.NodeSnapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&root))
	require.Len(t, root.Children, 1)
	assert.Equal(t, "game_status", root.Children[0].ID)
	assert.Equal(t, "Bidding with 3 cards, 0 tricks bid so far", root.Children[0].Text)
}

func TestServer_CORS(t *testing.T) {
	ts, _, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/view", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestServer_ViewSocketStreamsEvents(t *testing.T) {
	ts, b, s := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/view"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var first Message
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, KindView, first.Kind)
	require.NotNil(t, first.View)
	assert.Equal(t, "body", first.View.Tag)

	require.Eventually(t, func() bool { return b.Subscribers() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, s.connections.Count())

	ev, err := events.New(s.source.Session().ID, events.TypeSnapshotRendered, events.SnapshotRenderedPayload{Summary: "s1"})
	require.NoError(t, err)
	require.NoError(t, b.Publish(context.Background(), ev))

	var second Message
	require.NoError(t, conn.ReadJSON(&second))
	assert.Equal(t, KindEvent, second.Kind)
	require.NotNil(t, second.Event)
	assert.Equal(t, ev.ID, second.Event.ID)
	assert.Equal(t, events.TypeSnapshotRendered, second.Event.Type)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	require.Eventually(t, func() bool { return s.connections.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, b.Subscribers())
}
