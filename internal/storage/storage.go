package storage

import (
	"errors"
	"sync"
)

var (
	// ErrInvalidSettings indicates the provided cutting settings violate validation rules.
	ErrInvalidSettings = errors.New("stock length must be positive and cut width must be non-negative and smaller than the stock length")
)

// Settings holds the cutting parameters applied to every optimization run.
// StockLength is the length of one stock rod in millimeters; CutWidth is the
// saw kerf added to each raw part length.
type Settings struct {
	StockLength float64
	CutWidth    float64
}

var defaultSettings = Settings{
	StockLength: 5000,
	CutWidth:    2,
}

// Storage provides access to the cutting settings used by the optimizer.
type Storage interface {
	GetSettings() (Settings, error)
	SetSettings(settings Settings) error
}

// MemoryStorage keeps cutting settings in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu       sync.RWMutex
	settings Settings
}

// NewMemoryStorage initialises storage with the default cutting settings.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		settings: defaultSettings,
	}
}

// DefaultSettings returns the default cutting settings.
func DefaultSettings() Settings {
	return defaultSettings
}

// GetSettings returns the currently configured cutting settings.
func (s *MemoryStorage) GetSettings() (Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.settings, nil
}

// SetSettings validates and stores the provided cutting settings.
func (s *MemoryStorage) SetSettings(settings Settings) error {
	if err := validateSettings(settings); err != nil {
		return err
	}

	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()

	return nil
}

func validateSettings(settings Settings) error {
	if settings.StockLength <= 0 {
		return ErrInvalidSettings
	}
	if settings.CutWidth < 0 || settings.CutWidth >= settings.StockLength {
		return ErrInvalidSettings
	}
	return nil
}
