// api/cache/redis.go
package cache

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	logger "github.com/dev-mohitbeniwal/aegis/api/logging"
)

// RedisStore is a Store on a shared Redis instance, for deployments where
// several replicas must observe the same ACL cache. Payloads can be sealed
// with AES-GCM so cached ACLs stay unreadable on a shared Redis host.
type RedisStore struct {
	client        *redis.Client
	prefix        string
	ttl           time.Duration
	encryptionKey []byte
}

// NewRedisStore wraps an existing client. All keys are namespaced under
// prefix, entries expire after ttl (zero means no expiry), and a non-empty
// encryptionKey must be exactly 32 bytes.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration, encryptionKey []byte) (*RedisStore, error) {
	if len(encryptionKey) != 0 && len(encryptionKey) != 32 {
		return nil, fmt.Errorf("invalid encryption key length: must be 32 bytes")
	}
	return &RedisStore{
		client:        client,
		prefix:        prefix,
		ttl:           ttl,
		encryptionKey: encryptionKey,
	}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := s.client.Get(ctx, s.prefix+key).Result()
	if err == redis.Nil {
		logger.Debug("Cache key not found", zap.String("key", key))
		return nil, false, nil
	} else if err != nil {
		return nil, false, fmt.Errorf("failed to get key from cache: %w", err)
	}

	payload, err := s.decode(raw)
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, value []byte) error {
	encoded, err := s.encode(value)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, s.prefix+key, encoded, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache key: %w", err)
	}

	logger.Debug("Cache key stored", zap.String("key", key))
	return nil
}

func (s *RedisStore) Evict(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete key from cache: %w", err)
	}
	logger.Debug("Cache key deleted", zap.String("key", key))
	return nil
}

// Clear removes every key under the store's prefix. Other tenants of the
// Redis instance are untouched.
func (s *RedisStore) Clear(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete key %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}
	logger.Debug("Cache cleared", zap.String("prefix", s.prefix))
	return nil
}

func (s *RedisStore) encode(value []byte) (string, error) {
	if len(s.encryptionKey) == 0 {
		return string(value), nil
	}
	encrypted, err := s.encrypt(value)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt payload: %w", err)
	}
	return base64.StdEncoding.EncodeToString(encrypted), nil
}

func (s *RedisStore) decode(raw string) ([]byte, error) {
	if len(s.encryptionKey) == 0 {
		return []byte(raw), nil
	}
	encrypted, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}
	payload, err := s.decrypt(encrypted)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt payload: %w", err)
	}
	return payload, nil
}

func (s *RedisStore) encrypt(plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(s.encryptionKey)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func (s *RedisStore) decrypt(ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(s.encryptionKey)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	return gcm.Open(nil, nonce, ciphertext, nil)
}

var _ Store = (*RedisStore)(nil)
