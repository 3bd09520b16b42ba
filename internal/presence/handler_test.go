package presence

import (
	"errors"
	"sync"
	"testing"

	"github.com/auralis-home/auralis-core/internal/infrastructure/logging"
	"github.com/auralis-home/auralis-core/internal/music"
	"github.com/auralis-home/auralis-core/internal/zone"
)

// mockHub records broadcasts for inspection.
type mockHub struct {
	mu       sync.Mutex
	all      []broadcastRecord
	zoned    []broadcastRecord
	presence []presenceRecord
}

type broadcastRecord struct {
	zone  string
	event string
	data  any
}

type presenceRecord struct {
	zone     string
	revision uint64
	state    zone.State
}

func (m *mockHub) BroadcastAll(event string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.all = append(m.all, broadcastRecord{event: event, data: data})
}

func (m *mockHub) BroadcastZone(zoneID, event string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.zoned = append(m.zoned, broadcastRecord{zone: zoneID, event: event, data: data})
}

func (m *mockHub) BroadcastPresence(zoneID string, revision uint64, state zone.State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.presence = append(m.presence, presenceRecord{zone: zoneID, revision: revision, state: state})
}

// mockSender records dispatched commands.
type mockSender struct {
	mu       sync.Mutex
	commands []music.Command
	failNext bool
}

func (m *mockSender) SendControl(cmd music.Command, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext {
		m.failNext = false
		return errors.New("broker unavailable")
	}
	m.commands = append(m.commands, cmd)
	return nil
}

func newTestHandler() (*Handler, *zone.Store, *mockSender, *mockHub) {
	store := zone.NewStore([]string{"zone1", "zone2", "zone3"})
	sender := &mockSender{}
	hub := &mockHub{}
	h := NewHandler(store, sender, hub, logging.Default())
	return h, store, sender, hub
}

func TestOccupiedZoneDerivesPlay(t *testing.T) {
	h, store, sender, hub := newTestHandler()

	err := h.HandleMessage("presence/zone1", []byte(`{"present":true,"people":["alice","bob"]}`))
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	// Store updated
	st, _ := store.Get("zone1")
	if !st.Present || len(st.People) != 2 {
		t.Errorf("store state = %+v", st)
	}

	// Play command derived with people
	sender.mu.Lock()
	if len(sender.commands) != 1 {
		t.Fatalf("dispatched %d commands, want 1", len(sender.commands))
	}
	cmd := sender.commands[0]
	sender.mu.Unlock()
	if cmd.Zone != "zone1" || cmd.Action != music.ActionPlay || len(cmd.People) != 2 {
		t.Errorf("command = %+v", cmd)
	}

	// Presence fan-out with revision
	hub.mu.Lock()
	defer hub.mu.Unlock()
	if len(hub.presence) != 1 {
		t.Fatalf("presence broadcasts = %d, want 1", len(hub.presence))
	}
	if hub.presence[0].zone != "zone1" || hub.presence[0].revision != 1 {
		t.Errorf("presence broadcast = %+v", hub.presence[0])
	}
}

func TestVacantZoneDerivesStop(t *testing.T) {
	h, _, sender, _ := newTestHandler()

	err := h.HandleMessage("presence/zone2", []byte(`{"present":false,"people":[]}`))
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	sender.mu.Lock()
	defer sender.mu.Unlock()
	if len(sender.commands) != 1 || sender.commands[0].Action != music.ActionStop {
		t.Errorf("commands = %+v, want single stop", sender.commands)
	}
}

func TestPresentWithoutPeopleDerivesStop(t *testing.T) {
	h, _, sender, _ := newTestHandler()

	err := h.HandleMessage("presence/zone1", []byte(`{"present":true,"people":[]}`))
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	sender.mu.Lock()
	defer sender.mu.Unlock()
	if sender.commands[0].Action != music.ActionStop {
		t.Errorf("action = %q, want stop", sender.commands[0].Action)
	}
}

func TestUnknownZoneDropped(t *testing.T) {
	h, _, sender, hub := newTestHandler()

	err := h.HandleMessage("presence/basement", []byte(`{"present":true,"people":["alice"]}`))
	if !errors.Is(err, zone.ErrZoneNotFound) {
		t.Errorf("HandleMessage() error = %v, want ErrZoneNotFound", err)
	}

	sender.mu.Lock()
	if len(sender.commands) != 0 {
		t.Error("unknown zone must not derive a command")
	}
	sender.mu.Unlock()

	hub.mu.Lock()
	defer hub.mu.Unlock()
	if len(hub.presence) != 0 {
		t.Error("unknown zone must not broadcast presence")
	}
}

func TestMalformedPayloadDropped(t *testing.T) {
	h, store, sender, _ := newTestHandler()

	err := h.HandleMessage("presence/zone1", []byte(`{not json`))
	if err == nil {
		t.Error("HandleMessage() should return decode error")
	}

	st, _ := store.Get("zone1")
	if st.Revision != 0 {
		t.Error("malformed payload must not touch the store")
	}

	sender.mu.Lock()
	defer sender.mu.Unlock()
	if len(sender.commands) != 0 {
		t.Error("malformed payload must not derive a command")
	}
}

func TestEveryMessageMirroredToAll(t *testing.T) {
	h, _, _, hub := newTestHandler()

	h.HandleMessage("presence/zone1", []byte(`{"present":false,"people":[]}`)) //nolint:errcheck
	h.HandleMessage("music/control", []byte(`{"zone":"zone1","action":"stop"}`)) //nolint:errcheck

	hub.mu.Lock()
	defer hub.mu.Unlock()
	if len(hub.all) != 2 {
		t.Fatalf("global broadcasts = %d, want 2", len(hub.all))
	}
	raw, ok := hub.all[0].data.(RawMessage)
	if !ok {
		t.Fatalf("broadcast data type = %T", hub.all[0].data)
	}
	if raw.Topic != "presence/zone1" {
		t.Errorf("mirrored topic = %q", raw.Topic)
	}
	if hub.all[0].event != EventMQTTMessage {
		t.Errorf("event = %q, want %q", hub.all[0].event, EventMQTTMessage)
	}
}

func TestMusicControlMirroredToZone(t *testing.T) {
	h, _, sender, hub := newTestHandler()

	err := h.HandleMessage("music/control", []byte(`{"zone":"zone2","action":"play"}`))
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	hub.mu.Lock()
	if len(hub.zoned) != 1 {
		t.Fatalf("zone broadcasts = %d, want 1", len(hub.zoned))
	}
	rec := hub.zoned[0]
	hub.mu.Unlock()
	if rec.zone != "zone2" || rec.event != EventMusicControl {
		t.Errorf("zone broadcast = %+v", rec)
	}

	// Mirroring a bus command must not re-dispatch it (no echo loop).
	sender.mu.Lock()
	defer sender.mu.Unlock()
	if len(sender.commands) != 0 {
		t.Error("mirrored control message must not be re-sent")
	}
}

func TestPlaylistMirroredToZone(t *testing.T) {
	h, _, _, hub := newTestHandler()

	err := h.HandleMessage("music/playlist", []byte(`{"zone":"zone3","playlist":["a"]}`))
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	hub.mu.Lock()
	defer hub.mu.Unlock()
	if len(hub.zoned) != 1 || hub.zoned[0].event != EventPlaylistUpdate {
		t.Errorf("zone broadcasts = %+v", hub.zoned)
	}
}

func TestControlWithoutZoneDropped(t *testing.T) {
	h, _, _, hub := newTestHandler()

	err := h.HandleMessage("music/control", []byte(`{"action":"play"}`))
	if err == nil {
		t.Error("control message without zone should error")
	}

	hub.mu.Lock()
	defer hub.mu.Unlock()
	if len(hub.zoned) != 0 {
		t.Error("zoneless control message must not be mirrored to a zone")
	}
}

func TestUnrecognisedTopicDropped(t *testing.T) {
	h, _, sender, _ := newTestHandler()

	err := h.HandleMessage("lighting/zone1", []byte(`{}`))
	if err == nil {
		t.Error("unrecognised topic should error")
	}

	sender.mu.Lock()
	defer sender.mu.Unlock()
	if len(sender.commands) != 0 {
		t.Error("unrecognised topic must not derive a command")
	}
}

func TestDispatchFailureStillBroadcasts(t *testing.T) {
	h, _, sender, hub := newTestHandler()
	sender.failNext = true

	err := h.HandleMessage("presence/zone1", []byte(`{"present":true,"people":["alice"]}`))
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	// Command dispatch failed, but the state change still reaches clients.
	hub.mu.Lock()
	defer hub.mu.Unlock()
	if len(hub.presence) != 1 {
		t.Error("presence broadcast missing after dispatch failure")
	}
}

func TestRevisionIncreasesAcrossEvents(t *testing.T) {
	h, _, _, hub := newTestHandler()

	h.HandleMessage("presence/zone1", []byte(`{"present":true,"people":["alice"]}`))  //nolint:errcheck
	h.HandleMessage("presence/zone1", []byte(`{"present":false,"people":[]}`))        //nolint:errcheck
	h.HandleMessage("presence/zone2", []byte(`{"present":true,"people":["carol"]}`)) //nolint:errcheck

	hub.mu.Lock()
	defer hub.mu.Unlock()
	if hub.presence[0].revision != 1 || hub.presence[1].revision != 2 {
		t.Errorf("zone1 revisions = %d, %d, want 1, 2",
			hub.presence[0].revision, hub.presence[1].revision)
	}
	if hub.presence[2].revision != 1 {
		t.Errorf("zone2 revision = %d, want 1 (per-zone counter)", hub.presence[2].revision)
	}
}
