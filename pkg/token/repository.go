package token

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis"
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewRepository(client *redis.Client) *redisTokenRepository {
	return &redisTokenRepository{redis: client}
}

type redisTokenRepository struct {
	redis *redis.Client
}

func refreshTokenKey(userId uint, tokenId string) string {
	return fmt.Sprintf("%d:%s", userId, tokenId)
}

func (r redisTokenRepository) SetRefreshToken(userId uint, tokenId string, expiresIn time.Duration) error {
	key := refreshTokenKey(userId, tokenId)
	if err := r.redis.Set(key, strconv.FormatUint(uint64(userId), 10), expiresIn).Err(); err != nil {
		return fmt.Errorf("could not set refresh token to redis for userId/tokenId: %d/%s: %v", userId, tokenId, err)
	}
	return nil
}

func (r redisTokenRepository) DeleteRefreshToken(userId uint, previousTokenId string) error {
	key := refreshTokenKey(userId, previousTokenId)
	result := r.redis.Del(key)
	if err := result.Err(); err != nil {
		return fmt.Errorf("could not delete refresh token to redis for userId/tokenId: %d/%s: %v", userId, previousTokenId, err)
	}
	if result.Val() < 1 {
		return fmt.Errorf("refresh token to redis for userId/tokenId: %d/%s does not exist", userId, previousTokenId)
	}
	return nil
}

func (r redisTokenRepository) DeleteRefreshTokens(userId uint) error {
	pattern := fmt.Sprintf("%d:*", userId)
	iter := r.redis.Scan(0, pattern, 5).Iterator()
	for iter.Next() {
		if err := r.redis.Del(iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete refresh token %q: %v", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan refresh tokens of user %d: %v", userId, err)
	}
	return nil
}
