package sse

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/wordcrush/internal/model"
	"github.com/mcoot/wordcrush/internal/testutil"
)

// watch registers a client on the game's hub and returns it
func watch(t *testing.T, manager *HubManager, gameID model.GameID) *Client {
	t.Helper()
	hub := manager.GetOrCreateHub(gameID)
	client := NewClient(hub, "watcher")
	require.True(t, hub.Register(client))
	waitForClients(t, hub, 1)
	return client
}

// receive reads one message and splits it into event name and data
func receive(t *testing.T, client *Client) (string, string) {
	t.Helper()
	select {
	case msg := <-client.send:
		var name, data string
		for _, line := range strings.Split(strings.TrimSpace(string(msg)), "\n") {
			if v, ok := strings.CutPrefix(line, "event: "); ok {
				name = v
			}
			if v, ok := strings.CutPrefix(line, "data: "); ok {
				data += v
			}
		}
		return name, data
	case <-time.After(time.Second):
		t.Fatal("client did not receive message")
		return "", ""
	}
}

func TestBroadcaster_Events(t *testing.T) {
	grid := model.NewGrid(1)
	grid.Set(model.Position{Row: 0, Col: 0}, model.Tile{ID: 7, Letter: 'Q', Multiplier: 3})

	tests := []struct {
		name     string
		event    model.Event
		wantName string
		check    func(t *testing.T, data map[string]any)
	}{
		{
			name:     "game started",
			event:    model.Event{Type: model.EventGameStarted, GameID: "g1"},
			wantName: EventNameGameStarted,
			check: func(t *testing.T, data map[string]any) {
				assert.Equal(t, "g1", data["game_id"])
			},
		},
		{
			name:     "grid",
			event:    model.Event{Type: model.EventGridUpdated, GameID: "g1", Payload: model.GridUpdatedPayload{Grid: grid}},
			wantName: EventNameGrid,
			check: func(t *testing.T, data map[string]any) {
				assert.EqualValues(t, 1, data["size"])
				tile := data["tiles"].([]any)[0].([]any)[0].(map[string]any)
				assert.Equal(t, "tile-7", tile["id"])
				assert.Equal(t, "Q", tile["letter"])
				assert.EqualValues(t, 3, tile["multiplier"])
			},
		},
		{
			name: "selection",
			event: model.Event{Type: model.EventSelectionUpdate, GameID: "g1", Payload: model.SelectionPayload{
				Path: []model.Position{{Row: 0, Col: 0}}, Word: "Q", Dragging: true,
			}},
			wantName: EventNameSelection,
			check: func(t *testing.T, data map[string]any) {
				assert.Equal(t, "Q", data["word"])
				assert.Equal(t, true, data["dragging"])
				assert.Len(t, data["path"], 1)
			},
		},
		{
			name:     "score",
			event:    model.Event{Type: model.EventScoreUpdated, GameID: "g1", Payload: model.ScorePayload{Score: 19, WordsFound: 2}},
			wantName: EventNameScore,
			check: func(t *testing.T, data map[string]any) {
				assert.EqualValues(t, 19, data["score"])
				assert.EqualValues(t, 2, data["words_found"])
			},
		},
		{
			name:     "tick",
			event:    model.Event{Type: model.EventClockTick, GameID: "g1", Payload: model.ClockTickPayload{Remaining: 61, Display: "1:01"}},
			wantName: EventNameTick,
			check: func(t *testing.T, data map[string]any) {
				assert.EqualValues(t, 61, data["remaining"])
				assert.Equal(t, "1:01", data["display"])
			},
		},
		{
			name: "outcome",
			event: model.Event{Type: model.EventOutcome, GameID: "g1", Payload: model.OutcomePayload{Outcome: model.Outcome{
				Kind: model.OutcomeAccepted, Word: "HOUSE", Points: 15, Message: "❝HOUSE❞ +15 tears",
			}}},
			wantName: EventNameOutcome,
			check: func(t *testing.T, data map[string]any) {
				assert.Equal(t, "accepted", data["kind"])
				assert.EqualValues(t, 15, data["points"])
				assert.Equal(t, "❝HOUSE❞ +15 tears", data["message"])
			},
		},
		{
			name: "game over",
			event: model.Event{Type: model.EventGameOver, GameID: "g1", Payload: model.GameOverPayload{Summary: model.GameSummary{
				ID: "g1", TeamName: "the damned", FinalScore: 42, WordsFound: 3,
			}}},
			wantName: EventNameGameOver,
			check: func(t *testing.T, data map[string]any) {
				assert.Equal(t, "the damned", data["team_name"])
				assert.EqualValues(t, 42, data["final_score"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager := NewHubManager(testutil.NopLogger())
			defer manager.Close()
			broadcaster := NewBroadcaster(manager, testutil.NopLogger())
			client := watch(t, manager, "g1")

			broadcaster.Publish(tt.event)

			name, raw := receive(t, client)
			assert.Equal(t, tt.wantName, name)
			var data map[string]any
			require.NoError(t, json.Unmarshal([]byte(raw), &data))
			tt.check(t, data)
		})
	}
}

func TestBroadcaster_UnwatchedGameIsDropped(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	defer manager.Close()
	broadcaster := NewBroadcaster(manager, testutil.NopLogger())

	assert.NotPanics(t, func() {
		broadcaster.Publish(model.Event{Type: model.EventClockTick, GameID: "nobody", Payload: model.ClockTickPayload{}})
	})
	assert.Nil(t, manager.GetHub("nobody"))
}

func TestBroadcaster_OnlyReachesItsGame(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	defer manager.Close()
	broadcaster := NewBroadcaster(manager, testutil.NopLogger())

	mine := watch(t, manager, "mine")
	other := watch(t, manager, "other")

	broadcaster.Publish(model.Event{Type: model.EventScoreUpdated, GameID: "mine", Payload: model.ScorePayload{Score: 4}})

	name, _ := receive(t, mine)
	assert.Equal(t, EventNameScore, name)

	select {
	case msg := <-other.send:
		t.Fatalf("unexpected message for other game: %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroadcaster_UnknownEventIsLogged(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	defer manager.Close()
	logger, buf := testutil.BufferLogger()
	broadcaster := NewBroadcaster(manager, logger)
	watch(t, manager, "g1")

	broadcaster.Publish(model.Event{Type: "mystery", GameID: "g1"})

	assert.Contains(t, buf.String(), "sse unknown event type")
}
