package conn

import (
	"testing"

	"github.com/chushi0/jp-mahjong-server/game/share"
)

func TestDecodeGameEvent_DropTile(t *testing.T) {
	payload := []byte(`{"userID":"spoofed","tile":{"type":5,"id":2}}`)
	event, err := decodeGameEvent("u1", ActionDropTile, payload)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	drop, ok := event.(*share.DropTileEvent)
	if !ok {
		t.Fatalf("expected DropTileEvent, got %T", event)
	}
	// 客户端携带的 userID 被会话身份覆盖
	if drop.GetUserID() != "u1" {
		t.Fatalf("userID must come from the session, got %q", drop.GetUserID())
	}
	if drop.Tile.Type != 5 || drop.Tile.ID != 2 {
		t.Fatalf("tile payload lost: %+v", drop.Tile)
	}
}

func TestDecodeGameEvent_PayloadFree(t *testing.T) {
	cases := []struct {
		route     string
		eventType string
	}{
		{ActionPeng, "Peng"},
		{ActionGang, "Gang"},
		{ActionBei, "Bei"},
		{ActionTsumo, "TouchHu"},
		{ActionRon, "RongHu"},
		{ActionKyuushu, "Kskh"},
		{ActionPass, "Pass"},
		{ActionReconnect, "Reconnect"},
	}
	for _, c := range cases {
		event, err := decodeGameEvent("u2", c.route, nil)
		if err != nil {
			t.Fatalf("decode %s failed: %v", c.route, err)
		}
		if event.GetEventType() != c.eventType {
			t.Fatalf("route %s expected event %s, got %s", c.route, c.eventType, event.GetEventType())
		}
		if event.GetUserID() != "u2" {
			t.Fatalf("route %s lost userID", c.route)
		}
	}
}

func TestDecodeGameEvent_Chi(t *testing.T) {
	payload := []byte(`{"tiles":[{"type":3,"id":1},{"type":4,"id":0}]}`)
	event, err := decodeGameEvent("u3", ActionChi, payload)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	chi := event.(*share.ChiEvent)
	if len(chi.Tiles) != 2 {
		t.Fatalf("chi tiles expected 2, got %d", len(chi.Tiles))
	}
}

func TestDecodeGameEvent_UnknownRoute(t *testing.T) {
	if _, err := decodeGameEvent("u1", "action.unknown", nil); err == nil {
		t.Fatalf("unknown route must fail")
	}
}

func TestDecodeGameEvent_BadPayload(t *testing.T) {
	if _, err := decodeGameEvent("u1", ActionRiichi, []byte(`{"tile":"x"}`)); err == nil {
		t.Fatalf("malformed payload must fail")
	}
}

func TestJwtRoundTrip(t *testing.T) {
	token, err := GenerateToken("user-42", "secret", 3600)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	userID, err := ParseUserID(token, "secret")
	if err != nil {
		t.Fatalf("ParseUserID failed: %v", err)
	}
	if userID != "user-42" {
		t.Fatalf("subject expected user-42, got %q", userID)
	}

	if _, err := ParseUserID(token, "wrong-secret"); err == nil {
		t.Fatalf("wrong secret must fail verification")
	}
}
