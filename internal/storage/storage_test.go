package storage

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestNewMemoryStorageReturnsDefaults(t *testing.T) {
	t.Parallel()

	store := NewMemoryStorage()

	got, err := store.GetSettings()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := DefaultSettings()
	if got != want {
		t.Fatalf("expected default settings %+v, got %+v", want, got)
	}
	if want.StockLength != 5000 || want.CutWidth != 2 {
		t.Fatalf("unexpected defaults: %+v", want)
	}
}

func TestSetSettingsUpdatesState(t *testing.T) {
	t.Parallel()

	store := NewMemoryStorage()
	want := Settings{StockLength: 6000, CutWidth: 3.5}
	if err := store.SetSettings(want); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.GetSettings()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestSetSettingsAllowsZeroCutWidth(t *testing.T) {
	t.Parallel()

	store := NewMemoryStorage()
	if err := store.SetSettings(Settings{StockLength: 1000, CutWidth: 0}); err != nil {
		t.Fatalf("zero cut width should be valid, got %v", err)
	}
}

func TestSetSettingsRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	testCases := []Settings{
		{StockLength: 0, CutWidth: 0},
		{StockLength: -5000, CutWidth: 2},
		{StockLength: 5000, CutWidth: -1},
		{StockLength: 100, CutWidth: 100},
		{StockLength: 100, CutWidth: 150},
	}

	for idx, tc := range testCases {
		tc := tc
		t.Run(fmt.Sprintf("case_%d", idx), func(t *testing.T) {
			store := NewMemoryStorage()
			if err := store.SetSettings(tc); !errors.Is(err, ErrInvalidSettings) {
				t.Fatalf("expected ErrInvalidSettings for %+v, got %v", tc, err)
			}
		})
	}
}

func TestMemoryStorageConcurrentAccess(t *testing.T) {
	store := NewMemoryStorage()
	var wg sync.WaitGroup

	for i := 0; i < 32; i++ {
		wg.Add(2)

		go func(offset int) {
			defer wg.Done()
			settings := Settings{StockLength: 5000 + float64(offset), CutWidth: 2}
			if err := store.SetSettings(settings); err != nil {
				t.Errorf("SetSettings failed: %v", err)
			}
		}(i)

		go func() {
			defer wg.Done()
			if _, err := store.GetSettings(); err != nil {
				t.Errorf("GetSettings failed: %v", err)
			}
		}()
	}

	wg.Wait()

	// final read should succeed
	if _, err := store.GetSettings(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
