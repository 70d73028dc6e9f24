package discovery

import (
	"errors"
	"testing"
)

func TestEncodeTXT(t *testing.T) {
	info := &GameInfo{
		Name:       "Friday Arena",
		Mode:       "deathmatch",
		Players:    3,
		MaxPlayers: 16,
		Version:    "1",
	}

	records := EncodeTXT(info)

	want := []string{
		"name=Friday Arena",
		"mode=deathmatch",
		"players=3",
		"max=16",
		"v=1",
	}
	if len(records) != len(want) {
		t.Fatalf("expected %d records, got %d: %v", len(want), len(records), records)
	}
	for i, r := range want {
		if records[i] != r {
			t.Errorf("record %d: got %q, want %q", i, records[i], r)
		}
	}
}

func TestEncodeTXTDefaultPathOmitted(t *testing.T) {
	records := EncodeTXT(&GameInfo{Name: "a", Path: DefaultPath})
	for _, r := range records {
		if r == "path=/play" {
			t.Error("default path should not be advertised")
		}
	}

	records = EncodeTXT(&GameInfo{Name: "a", Path: "/game"})
	found := false
	for _, r := range records {
		if r == "path=/game" {
			found = true
		}
	}
	if !found {
		t.Error("custom path should be advertised")
	}
}

func TestDecodeTXT(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		info, err := DecodeTXT([]string{
			"name=Friday Arena",
			"mode=ctf",
			"players=8",
			"max=16",
			"v=1",
		})
		if err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if info.Name != "Friday Arena" || info.Mode != "ctf" {
			t.Errorf("unexpected info: %+v", info)
		}
		if info.Players != 8 || info.MaxPlayers != 16 {
			t.Errorf("unexpected counts: %+v", info)
		}
		if info.Path != DefaultPath {
			t.Errorf("expected default path, got %q", info.Path)
		}
	})

	t.Run("MissingName", func(t *testing.T) {
		_, err := DecodeTXT([]string{"mode=ctf"})
		if !errors.Is(err, ErrMissingRequired) {
			t.Errorf("expected ErrMissingRequired, got %v", err)
		}
	})

	t.Run("MalformedRecord", func(t *testing.T) {
		_, err := DecodeTXT([]string{"name=a", "no-equals-sign"})
		if !errors.Is(err, ErrInvalidTXTRecord) {
			t.Errorf("expected ErrInvalidTXTRecord, got %v", err)
		}
	})

	t.Run("BadPlayerCount", func(t *testing.T) {
		_, err := DecodeTXT([]string{"name=a", "players=lots"})
		if !errors.Is(err, ErrInvalidTXTRecord) {
			t.Errorf("expected ErrInvalidTXTRecord, got %v", err)
		}
	})

	t.Run("UnknownKeysIgnored", func(t *testing.T) {
		info, err := DecodeTXT([]string{"name=a", "future=stuff"})
		if err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if info.Name != "a" {
			t.Errorf("unexpected info: %+v", info)
		}
	})
}

func TestGameServerEndpoint(t *testing.T) {
	t.Run("PrefersResolvedAddress", func(t *testing.T) {
		s := &GameServer{Host: "arena.local", Port: 9000, Addresses: []string{"192.168.1.10"}, Path: "/play"}
		if got := s.Endpoint(); got != "ws://192.168.1.10:9000/play" {
			t.Errorf("unexpected endpoint: %q", got)
		}
	})

	t.Run("FallsBackToHost", func(t *testing.T) {
		s := &GameServer{Host: "arena.local", Port: 9000, Path: "/play"}
		if got := s.Endpoint(); got != "ws://arena.local:9000/play" {
			t.Errorf("unexpected endpoint: %q", got)
		}
	})

	t.Run("BracketsIPv6", func(t *testing.T) {
		s := &GameServer{Addresses: []string{"fe80::1"}, Port: 9000, Path: "/play"}
		if got := s.Endpoint(); got != "ws://[fe80::1]:9000/play" {
			t.Errorf("unexpected endpoint: %q", got)
		}
	})

	t.Run("Defaults", func(t *testing.T) {
		s := &GameServer{Host: "arena.local"}
		if got := s.Endpoint(); got != "ws://arena.local:8080/play" {
			t.Errorf("unexpected endpoint: %q", got)
		}
	})
}

func TestGameServerFull(t *testing.T) {
	if (&GameServer{Players: 3, MaxPlayers: 16}).Full() {
		t.Error("server below capacity reported full")
	}
	if !(&GameServer{Players: 16, MaxPlayers: 16}).Full() {
		t.Error("server at capacity not reported full")
	}
	if (&GameServer{Players: 99}).Full() {
		t.Error("server with no capacity limit reported full")
	}
}

func TestGameServerJoinable(t *testing.T) {
	if !(&GameServer{Players: 3, MaxPlayers: 16, Version: "1.0"}).Joinable() {
		t.Error("compatible server with room should be joinable")
	}
	if !(&GameServer{}).Joinable() {
		t.Error("server with no version or cap should be joinable")
	}
	if (&GameServer{Version: "2.0"}).Joinable() {
		t.Error("incompatible major version should not be joinable")
	}
	if (&GameServer{Players: 16, MaxPlayers: 16, Version: "1.0"}).Joinable() {
		t.Error("full server should not be joinable")
	}
}

func TestMergeAddresses(t *testing.T) {
	merged := mergeAddresses([]string{"a", "b"}, []string{"b", "c"})
	if len(merged) != 3 || merged[0] != "a" || merged[1] != "b" || merged[2] != "c" {
		t.Errorf("unexpected merge result: %v", merged)
	}
}
