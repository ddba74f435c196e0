package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePosition(t *testing.T) {
	pos, err := parsePosition("2", " 5")
	require.NoError(t, err)
	assert.Equal(t, Position{Row: 2, Col: 5}, pos)

	_, err = parsePosition("x", "1")
	assert.ErrorContains(t, err, "invalid row")

	_, err = parsePosition("1", "")
	assert.ErrorContains(t, err, "invalid col")
}

func TestConfig_GameFile(t *testing.T) {
	c := &Config{GameFile: filepath.Join(t.TempDir(), "nested", "game")}

	require.NoError(t, c.LoadGameID())
	_, err := c.RequireGameID()
	assert.Error(t, err)

	require.NoError(t, c.SaveGameID("ABC123"))

	loaded := &Config{GameFile: c.GameFile}
	require.NoError(t, loaded.LoadGameID())
	id, err := loaded.RequireGameID()
	require.NoError(t, err)
	assert.Equal(t, "ABC123", id)

	// An explicit game wins over the file
	explicit := &Config{GameFile: c.GameFile, GameID: "OTHER"}
	require.NoError(t, explicit.LoadGameID())
	assert.Equal(t, "OTHER", explicit.GameID)
}

func TestOutput_GameState(t *testing.T) {
	var buf bytes.Buffer
	state := GameState{
		ID: "G1",
		Grid: Grid{
			Size: 2,
			Tiles: [][]Tile{
				{{Letter: "C", Multiplier: 1}, {Letter: "A", Multiplier: 2}},
				{{Letter: "T", Multiplier: 3}, {Letter: "S", Multiplier: 1}},
			},
		},
		Session:   Session{TeamName: "the damned", Score: 4, WordsFound: 1, Display: "9:59", Active: true},
		Selection: Selection{Path: []Position{{0, 0}, {0, 1}}, Word: "CA", Dragging: true},
	}

	NewOutput("text", &buf).Print(state)
	out := buf.String()

	assert.Contains(t, out, "Game: G1")
	assert.Contains(t, out, "Time: 9:59")
	assert.Contains(t, out, "Score: 4 (1 words)")
	assert.Contains(t, out, " 0 |[C] [A]'|")
	assert.Contains(t, out, " 1 | T \" S  |")
	assert.Contains(t, out, "Selection: CA")
}

func TestOutput_Expired(t *testing.T) {
	var buf bytes.Buffer
	NewOutput("text", &buf).Print(GameState{ID: "G1"})
	assert.Contains(t, buf.String(), "Time: over")

	buf.Reset()
	NewOutput("text", &buf).Print(GameSummary{TeamName: "the damned", FinalScore: 15, WordsFound: 1})
	assert.Equal(t, "The clock has run out.\nthe damned: 15 tears from 1 words\n", buf.String())
}

func TestOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	NewOutput("json", &buf).PrintMessage("hello")
	assert.JSONEq(t, `{"message":"hello"}`, buf.String())

	buf.Reset()
	NewOutput("json", &buf).Print(Hint{Word: "CAT", Points: 1, Path: []Position{{0, 0}}})
	assert.JSONEq(t, `{"word":"CAT","points":1,"path":[{"row":0,"col":0}]}`, buf.String())
}

func TestOutput_Hint(t *testing.T) {
	var buf bytes.Buffer
	NewOutput("text", &buf).Print(Hint{Word: "CAT", Points: 1, Path: []Position{{0, 0}, {0, 1}, {1, 2}}})
	assert.Equal(t, "CAT (1 pts): 0,0 0,1 1,2\n", buf.String())
}

func TestClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":{"code":"SESSION_EXPIRED","message":"session has expired"}}`))
	}))
	defer server.Close()

	var trace bytes.Buffer
	c := NewClient(server.URL + "/")
	c.SetTrace(&trace)

	err := c.Post("/api/v1/games/G1/selection/begin", Position{}, nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "SESSION_EXPIRED", apiErr.Code)
	assert.Equal(t, "session has expired (SESSION_EXPIRED)", err.Error())
	assert.Equal(t, "POST /api/v1/games/G1/selection/begin -> 409\n", trace.String())
}

func TestClient_PlainError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer server.Close()

	err := NewClient(server.URL).Get("/api/v1/health", nil)
	assert.ErrorContains(t, err, "HTTP 502")
}
