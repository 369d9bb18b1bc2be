package sqlite

import (
	"testing"
	"time"

	"github.com/julianstephens/betteryou/internal/storage"
)

func TestSubscribeReceivesOwnWrites(t *testing.T) {
	store := setupTestStore(t)

	changes := make(chan storage.Change, 16)
	unsubscribe, err := store.Subscribe("local", func(c storage.Change) {
		select {
		case changes <- c:
		default:
		}
	})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer unsubscribe()

	habit := newHabit("Walk", "2025-01-01")
	if err := store.AddHabit("local", habit); err != nil {
		t.Fatal(err)
	}

	select {
	case c := <-changes:
		if !c.Matches("local") {
			t.Errorf("unexpected change %+v", c)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no change delivered after AddHabit")
	}
}

func TestSubscribeSeesOtherConnections(t *testing.T) {
	store := setupTestStore(t)

	external := make(chan struct{}, 16)
	unsubscribe, err := store.Subscribe("local", func(c storage.Change) {
		if c.Kind == storage.ChangeExternal {
			select {
			case external <- struct{}{}:
			default:
			}
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	defer unsubscribe()

	// A second store on the same file stands in for another process.
	other := NewStore(store.GetConfigPath())
	if err := other.Load(); err != nil {
		t.Fatal(err)
	}
	defer other.Close()
	if err := other.AddHabit("local", newHabit("Elsewhere", "2025-01-01")); err != nil {
		t.Fatal(err)
	}

	select {
	case <-external:
	case <-time.After(5 * time.Second):
		t.Fatal("external write was not observed")
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	store := setupTestStore(t)

	calls := make(chan storage.Change, 16)
	unsubscribe, err := store.Subscribe("local", func(c storage.Change) { calls <- c })
	if err != nil {
		t.Fatal(err)
	}
	unsubscribe()
	unsubscribe()

	if err := store.AddHabit("local", newHabit("Quiet", "2025-01-01")); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)
	if len(calls) != 0 {
		t.Errorf("received %d changes after unsubscribe", len(calls))
	}
}
