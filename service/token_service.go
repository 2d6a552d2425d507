package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	// 默认 token 过期时间
	defaultTokenTTL = 7 * 24 * time.Hour
)

// TokenService 负责成员接入 token 的签发、校验与注销。
// Redis Key 设计：
// - {prefix}notice:token:{token} -> "dojoID:memberUID" (String, TTL)
// - {prefix}notice:member_tokens:{dojoID}:{memberUID} -> Set(token...) (Set, TTL)
//
// 这样可以：
// - 单 token 注销：DEL tokenKey + SREM memberSet
// - 成员全端注销：SMEMBERS memberSet 再批量 DEL tokenKey
// - 同一成员多端接入互不影响
type TokenService struct {
	rdb    *redis.Client
	prefix string
}

func NewTokenService(rdb *redis.Client, prefix string) *TokenService {
	return &TokenService{rdb: rdb, prefix: prefix}
}

func (s *TokenService) ensure() error {
	if s == nil || s.rdb == nil {
		return fmt.Errorf("redis client is nil")
	}
	return nil
}

func (s *TokenService) tokenKey(token string) string {
	return s.prefix + "notice:token:" + token
}

func (s *TokenService) memberTokensKey(dojoID uint64, memberUID string) string {
	return fmt.Sprintf("%snotice:member_tokens:%d:%s", s.prefix, dojoID, memberUID)
}

// GenerateToken 生成一个随机 token（不包含任何身份信息）。
func (s *TokenService) GenerateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// IssueToken 签发 token 并保存 token -> "dojoID:memberUID" 映射。
func (s *TokenService) IssueToken(ctx context.Context, dojoID uint64, memberUID string, ttl time.Duration) (string, error) {
	if err := s.ensure(); err != nil {
		return "", err
	}
	token, err := s.GenerateToken()
	if err != nil {
		return "", err
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, s.tokenKey(token), fmt.Sprintf("%d:%s", dojoID, memberUID), ttl)
	pipe.SAdd(ctx, s.memberTokensKey(dojoID, memberUID), token)
	// member token set 的 TTL 略大于 token TTL，方便自动清理
	pipe.Expire(ctx, s.memberTokensKey(dojoID, memberUID), ttl+24*time.Hour)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", err
	}
	return token, nil
}

// ResolveToken 根据 token 取道场与成员身份。token 不存在返回 redis.Nil。
func (s *TokenService) ResolveToken(ctx context.Context, token string) (uint64, string, error) {
	if err := s.ensure(); err != nil {
		return 0, "", err
	}
	val, err := s.rdb.Get(ctx, s.tokenKey(token)).Result()
	if err != nil {
		return 0, "", err
	}
	idPart, memberUID, ok := strings.Cut(val, ":")
	if !ok {
		return 0, "", fmt.Errorf("malformed token payload")
	}
	dojoID, err := strconv.ParseUint(idPart, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("malformed token payload: %w", err)
	}
	return dojoID, memberUID, nil
}

// RefreshTokenTTL 对 token 续期（同时延长 member token set TTL）。
func (s *TokenService) RefreshTokenTTL(ctx context.Context, token string, ttl time.Duration) error {
	if err := s.ensure(); err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	dojoID, memberUID, err := s.ResolveToken(ctx, token)
	if err != nil {
		return err
	}

	pipe := s.rdb.TxPipeline()
	pipe.Expire(ctx, s.tokenKey(token), ttl)
	pipe.Expire(ctx, s.memberTokensKey(dojoID, memberUID), ttl+24*time.Hour)
	_, err = pipe.Exec(ctx)
	return err
}

// RevokeToken 注销单个 token，并从成员的 token 集合里移除。
func (s *TokenService) RevokeToken(ctx context.Context, token string) error {
	if err := s.ensure(); err != nil {
		return err
	}
	dojoID, memberUID, err := s.ResolveToken(ctx, token)
	if err != nil {
		if err == redis.Nil {
			return nil
		}
		return err
	}

	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, s.tokenKey(token))
	pipe.SRem(ctx, s.memberTokensKey(dojoID, memberUID), token)
	_, err = pipe.Exec(ctx)
	return err
}

// ListMemberTokens 列出成员所有 token（用于全端注销）。
func (s *TokenService) ListMemberTokens(ctx context.Context, dojoID uint64, memberUID string) ([]string, error) {
	if err := s.ensure(); err != nil {
		return nil, err
	}
	return s.rdb.SMembers(ctx, s.memberTokensKey(dojoID, memberUID)).Result()
}

// RevokeAllTokensByMember 注销成员全部 token。
func (s *TokenService) RevokeAllTokensByMember(ctx context.Context, dojoID uint64, memberUID string) error {
	if err := s.ensure(); err != nil {
		return err
	}
	tokens, err := s.ListMemberTokens(ctx, dojoID, memberUID)
	if err != nil {
		// set 不存在视为没有 token
		if err == redis.Nil {
			return nil
		}
		return err
	}
	if len(tokens) == 0 {
		_ = s.rdb.Del(ctx, s.memberTokensKey(dojoID, memberUID)).Err()
		return nil
	}

	pipe := s.rdb.TxPipeline()
	for _, t := range tokens {
		pipe.Del(ctx, s.tokenKey(t))
	}
	pipe.Del(ctx, s.memberTokensKey(dojoID, memberUID))
	_, err = pipe.Exec(ctx)
	return err
}
