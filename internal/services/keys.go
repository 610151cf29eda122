package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/Nmk78/selection/internal/logger"
	"github.com/Nmk78/selection/internal/models"
	"github.com/Nmk78/selection/internal/repository"
)

// keyCharset uses only clear characters (no o/0/i/1/l) so printed keys
// survive being read aloud or typed from a slip of paper
const keyCharset = "23456789abcdefghjkmnpqrstuvwxyz"

const (
	keyLength      = 8
	maxKeyAttempts = 10
	maxKeyBatch    = 500
)

// KeyServiceRepository defines the repository methods needed by KeyService
type KeyServiceRepository interface {
	repository.RoomRepository
	repository.KeyRepository
}

// KeyService issues single-use ballot keys and one-time judge keys. Keys
// are stored in normalized form so lookups are case-insensitive.
type KeyService struct {
	log        logger.Logger
	repo       KeyServiceRepository
	baseURL    string
	randReader io.Reader // for testing: defaults to crypto/rand.Reader
}

// NewKeyService creates a new KeyService. baseURL is used to build the
// voting URLs embedded in QR images and may be empty if QR export is not
// needed.
func NewKeyService(log logger.Logger, repo KeyServiceRepository, baseURL string) *KeyService {
	return &KeyService{
		log:        log,
		repo:       repo,
		baseURL:    baseURL,
		randReader: rand.Reader,
	}
}

// SetRandReader sets a custom random reader (for testing)
func (s *KeyService) SetRandReader(reader io.Reader) {
	s.randReader = reader
}

// GenerateSecretKeys mints count new ballot keys for a room
func (s *KeyService) GenerateSecretKeys(ctx context.Context, roomID, count int) ([]string, error) {
	keys, err := s.generateBatch(ctx, roomID, count)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateSecretKeys(ctx, roomID, keys); err != nil {
		return nil, err
	}
	s.log.Info("Secret keys generated", "room_id", roomID, "count", len(keys))
	return keys, nil
}

// GenerateSpecialKeys mints count new judge keys for a room
func (s *KeyService) GenerateSpecialKeys(ctx context.Context, roomID, count int) ([]string, error) {
	keys, err := s.generateBatch(ctx, roomID, count)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateSpecialKeys(ctx, roomID, keys); err != nil {
		return nil, err
	}
	s.log.Info("Special keys generated", "room_id", roomID, "count", len(keys))
	return keys, nil
}

func (s *KeyService) generateBatch(ctx context.Context, roomID, count int) ([]string, error) {
	if count <= 0 || count > maxKeyBatch {
		return nil, ErrInvalidKeyCount
	}
	if _, err := s.repo.GetRoom(ctx, roomID); err != nil {
		return nil, err
	}

	keys := make([]string, 0, count)
	seen := make(map[string]bool, count)
	for len(keys) < count {
		key, err := s.uniqueKey(ctx, roomID, seen)
		if err != nil {
			return nil, err
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return keys, nil
}

// uniqueKey draws random codes until one is free in both key tables and
// the current batch. Collisions are vanishingly rare at this key length,
// so a bounded retry is enough.
func (s *KeyService) uniqueKey(ctx context.Context, roomID int, seen map[string]bool) (string, error) {
	for attempt := 0; attempt < maxKeyAttempts; attempt++ {
		key, err := s.randomKey()
		if err != nil {
			return "", err
		}
		if seen[key] {
			continue
		}
		exists, err := s.repo.KeyExists(ctx, roomID, key)
		if err != nil {
			return "", err
		}
		if !exists {
			return key, nil
		}
		s.log.Debug("Generated key already exists, retrying", "key", key, "attempt", attempt+1)
	}
	return "", ErrKeySpaceExhausted
}

func (s *KeyService) randomKey() (string, error) {
	buf := make([]byte, keyLength)
	if _, err := io.ReadFull(s.randReader, buf); err != nil {
		return "", fmt.Errorf("failed to generate random key: %w", err)
	}
	code := make([]byte, keyLength)
	for i, b := range buf {
		code[i] = keyCharset[int(b)%len(keyCharset)]
	}
	return models.NormalizeKey(string(code)), nil
}

// ListSecretKeys returns all ballot keys for a room
func (s *KeyService) ListSecretKeys(ctx context.Context, roomID int) ([]models.SecretKey, error) {
	return s.repo.ListSecretKeys(ctx, roomID)
}

// ListSpecialKeys returns all judge keys for a room
func (s *KeyService) ListSpecialKeys(ctx context.Context, roomID int) ([]models.SpecialSecretKey, error) {
	return s.repo.ListSpecialKeys(ctx, roomID)
}

// KeyQRImage renders a 256px PNG QR code pointing at the voting page with
// the key prefilled
func (s *KeyService) KeyQRImage(ctx context.Context, roomID int, key string) ([]byte, error) {
	if s.baseURL == "" {
		return nil, ErrBaseURLNotSet
	}
	normalized := models.NormalizeKey(key)
	exists, err := s.repo.KeyExists(ctx, roomID, normalized)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, repository.ErrNotFound
	}
	voteURL := fmt.Sprintf("%s/rooms/%d/vote?key=%s", strings.TrimSuffix(s.baseURL, "/"), roomID, normalized)
	return qrcode.Encode(voteURL, qrcode.Medium, 256)
}
