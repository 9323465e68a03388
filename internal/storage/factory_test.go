package storage

import "testing"

func TestNewStoreMemory(t *testing.T) {
	for _, kind := range []string{"", "memory"} {
		store, err := NewStore(kind, "")
		if err != nil {
			t.Fatalf("kind %q: %v", kind, err)
		}
		if _, ok := store.(*MemoryStore); !ok {
			t.Fatalf("kind %q: got %T, want *MemoryStore", kind, store)
		}
	}
}

func TestNewStoreUnknownKind(t *testing.T) {
	if _, err := NewStore("bolt", ""); err == nil {
		t.Fatalf("expected an error for an unsupported backend")
	}
}

func TestCloseIfSupportedOnMemoryStore(t *testing.T) {
	if err := CloseIfSupported(NewMemoryStore()); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestDefaultStoreKindIsSupported(t *testing.T) {
	store, err := NewStore(DefaultStoreKind(), t.TempDir()+"/tilewise.db")
	if err != nil {
		t.Fatalf("default kind %q: %v", DefaultStoreKind(), err)
	}
	if err := CloseIfSupported(store); err != nil {
		t.Fatalf("close: %v", err)
	}
}
