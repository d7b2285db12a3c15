package tenant

import (
	"errors"
	"testing"
)

func TestRegistryGetUnknownTeam(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.Get("T_UNKNOWN"); ok {
		t.Error("expected no credential for unknown team")
	}
}

func TestRegistryPutAndGet(t *testing.T) {
	r := NewRegistry()
	r.Put(Credential{TeamID: "T1", TeamName: "Acme", BotToken: "xoxb-1"})

	cred, ok := r.Get("T1")
	if !ok {
		t.Fatal("expected credential for T1")
	}
	if cred.BotToken != "xoxb-1" || cred.TeamName != "Acme" {
		t.Errorf("unexpected credential: %+v", cred)
	}
}

func TestRegistryClientForUnknownTeam(t *testing.T) {
	r := NewRegistry()
	_, err := r.ClientFor("T_UNKNOWN")
	if !errors.Is(err, ErrNoCredential) {
		t.Fatalf("expected ErrNoCredential, got %v", err)
	}
}

func TestRegistryClientForCachesClient(t *testing.T) {
	r := NewRegistry()
	r.Put(Credential{TeamID: "T1", BotToken: "xoxb-1"})

	first, err := r.ClientFor("T1")
	if err != nil {
		t.Fatalf("ClientFor: %v", err)
	}
	second, err := r.ClientFor("T1")
	if err != nil {
		t.Fatalf("ClientFor: %v", err)
	}
	if first != second {
		t.Error("expected the cached client on repeat lookups")
	}
}

func TestRegistryPutInvalidatesCachedClient(t *testing.T) {
	r := NewRegistry()
	r.Put(Credential{TeamID: "T1", BotToken: "xoxb-1"})

	first, _ := r.ClientFor("T1")

	// Reinstall with a rotated token.
	r.Put(Credential{TeamID: "T1", BotToken: "xoxb-2"})

	second, _ := r.ClientFor("T1")
	if first == second {
		t.Error("expected a fresh client after the credential changed")
	}
}

func TestRegistryIsolatesTeams(t *testing.T) {
	r := NewRegistry()
	r.Put(Credential{TeamID: "T1", BotToken: "xoxb-1"})
	r.Put(Credential{TeamID: "T2", BotToken: "xoxb-2"})

	c1, err := r.ClientFor("T1")
	if err != nil {
		t.Fatalf("ClientFor T1: %v", err)
	}
	c2, err := r.ClientFor("T2")
	if err != nil {
		t.Fatalf("ClientFor T2: %v", err)
	}
	if c1 == c2 {
		t.Error("expected distinct clients per team")
	}
}
