package store

import (
	"context"
	"testing"
	"time"
)

func TestMemoryGetSet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory()

	if _, err := m.Get(ctx, "missing"); err != ErrNotFound {
		t.Fatalf("Get(missing) err = %v, want ErrNotFound", err)
	}
	if err := m.Set(ctx, "k", "v1"); err != nil {
		t.Fatal(err)
	}
	if err := m.Set(ctx, "k", "v2"); err != nil {
		t.Fatal(err)
	}
	got, err := m.Get(ctx, "k")
	if err != nil || got != "v2" {
		t.Fatalf("Get(k) = %q, %v", got, err)
	}
	if err := m.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Get(ctx, "k"); err != ErrNotFound {
		t.Fatalf("Get after delete err = %v", err)
	}
}

func TestMemorySetNXFirstWriterWins(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory()

	won, err := m.SetNX(ctx, "anchor", "100")
	if err != nil || !won {
		t.Fatalf("first SetNX = %v, %v", won, err)
	}
	won, err = m.SetNX(ctx, "anchor", "200")
	if err != nil || won {
		t.Fatalf("second SetNX = %v, %v", won, err)
	}
	got, _ := m.Get(ctx, "anchor")
	if got != "100" {
		t.Fatalf("anchor = %q, want first writer's value", got)
	}
}

func TestMemoryKeysGlob(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory()

	seed := []string{
		"ethereum:bridge:2022-01-01:0xaa:IN",
		"ethereum:bridge:2022-01-01:0xaa:OUT:56",
		"ethereum:bridge:2022-01-02:0xbb:IN",
		"bsc:bridge:2022-01-01:0xaa:IN",
		"ethereum:pool:2022-01-01:nusd:swap",
	}
	for _, k := range seed {
		if err := m.Set(ctx, k, "1"); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		pattern string
		want    int
	}{
		{"ethereum:bridge:*:IN", 2},
		{"*:bridge:2022-01-01:0xaa:IN", 2},
		{"ethereum:bridge:*", 3},
		{"ethereum:pool:*", 1},
		{"fantom:*", 0},
	}
	for _, tt := range tests {
		got, err := m.Keys(ctx, tt.pattern)
		if err != nil {
			t.Fatalf("Keys(%s): %v", tt.pattern, err)
		}
		if len(got) != tt.want {
			t.Errorf("Keys(%s) = %v, want %d keys", tt.pattern, got, tt.want)
		}
	}
}

func TestMemorySets(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory()

	if err := m.SAdd(ctx, "missing", "a", "b", "a"); err != nil {
		t.Fatal(err)
	}
	members, err := m.SMembers(ctx, "missing")
	if err != nil {
		t.Fatal(err)
	}
	if len(members) != 2 || members[0] != "a" || members[1] != "b" {
		t.Fatalf("SMembers = %v", members)
	}
	if err := m.SRem(ctx, "missing", "a"); err != nil {
		t.Fatal(err)
	}
	members, _ = m.SMembers(ctx, "missing")
	if len(members) != 1 || members[0] != "b" {
		t.Fatalf("SMembers after SRem = %v", members)
	}
}

func TestMemoryLists(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory()

	if err := m.RPush(ctx, "skipped", "100", "101"); err != nil {
		t.Fatal(err)
	}
	if err := m.RPush(ctx, "skipped", "102"); err != nil {
		t.Fatal(err)
	}
	got, err := m.LRange(ctx, "skipped")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"100", "101", "102"}
	if len(got) != len(want) {
		t.Fatalf("LRange = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("LRange = %v, want %v", got, want)
		}
	}
}

func TestMemoryLockExclusion(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory()

	base := time.Unix(1_700_000_000, 0)
	m.now = func() time.Time { return base }

	ok, err := m.AcquireLock(ctx, "update_prices", "a", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first acquire = %v, %v", ok, err)
	}
	ok, err = m.AcquireLock(ctx, "update_prices", "b", time.Minute)
	if err != nil || ok {
		t.Fatalf("contended acquire = %v, %v", ok, err)
	}

	// Re-entry by the same holder extends the lease.
	ok, _ = m.AcquireLock(ctx, "update_prices", "a", time.Minute)
	if !ok {
		t.Fatal("holder could not re-acquire its own lock")
	}

	// Expired locks are claimable by anyone.
	m.now = func() time.Time { return base.Add(2 * time.Minute) }
	ok, _ = m.AcquireLock(ctx, "update_prices", "b", time.Minute)
	if !ok {
		t.Fatal("expired lock was not claimable")
	}

	// Releasing someone else's lock is a no-op.
	if err := m.ReleaseLock(ctx, "update_prices", "a"); err != nil {
		t.Fatal(err)
	}
	ok, _ = m.AcquireLock(ctx, "update_prices", "c", time.Minute)
	if ok {
		t.Fatal("foreign release should not have freed the lock")
	}
	if err := m.ReleaseLock(ctx, "update_prices", "b"); err != nil {
		t.Fatal(err)
	}
	ok, _ = m.AcquireLock(ctx, "update_prices", "c", time.Minute)
	if !ok {
		t.Fatal("lock not claimable after owner release")
	}
}

func TestGlobToLike(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"ethereum:bridge:*:IN", "ethereum:bridge:%:IN"},
		{"*:pool:?", "%:pool:_"},
		{"a_b%c", `a\_b\%c`},
	}
	for _, tt := range tests {
		if got := globToLike(tt.in); got != tt.want {
			t.Errorf("globToLike(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
