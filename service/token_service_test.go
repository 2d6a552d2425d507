package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func TestTokenIssueAndResolve(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := NewTokenService(rdb, "dojo_")
	ctx := context.Background()

	token, err := svc.IssueToken(ctx, 3, "u_a", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}

	dojoID, memberUID, err := svc.ResolveToken(ctx, token)
	if err != nil {
		t.Fatalf("ResolveToken: %v", err)
	}
	if dojoID != 3 || memberUID != "u_a" {
		t.Fatalf("resolved = (%d, %s), want (3, u_a)", dojoID, memberUID)
	}

	// 未知 token 透传 redis.Nil，调用方据此判定未登录
	if _, _, err := svc.ResolveToken(ctx, "deadbeef"); err != redis.Nil {
		t.Fatalf("unknown token err = %v, want redis.Nil", err)
	}
}

func TestTokenResolveSurvivesColonInMemberUID(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := NewTokenService(rdb, "")
	ctx := context.Background()

	// uid 带冒号时只切第一个分隔符
	token, err := svc.IssueToken(ctx, 5, "wx:oabc:123", 0)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	dojoID, memberUID, err := svc.ResolveToken(ctx, token)
	if err != nil {
		t.Fatalf("ResolveToken: %v", err)
	}
	if dojoID != 5 || memberUID != "wx:oabc:123" {
		t.Fatalf("resolved = (%d, %s)", dojoID, memberUID)
	}
}

func TestTokenExpiryAndRefresh(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := NewTokenService(rdb, "dojo_")
	ctx := context.Background()

	expired, err := svc.IssueToken(ctx, 1, "u_a", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	refreshed, err := svc.IssueToken(ctx, 1, "u_b", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if err := svc.RefreshTokenTTL(ctx, refreshed, 3*time.Hour); err != nil {
		t.Fatalf("RefreshTokenTTL: %v", err)
	}

	mr.FastForward(2 * time.Hour)

	if _, _, err := svc.ResolveToken(ctx, expired); err != redis.Nil {
		t.Fatalf("expired token err = %v, want redis.Nil", err)
	}
	if _, _, err := svc.ResolveToken(ctx, refreshed); err != nil {
		t.Fatalf("refreshed token should survive: %v", err)
	}
}

func TestTokenRevoke(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := NewTokenService(rdb, "dojo_")
	ctx := context.Background()

	token, err := svc.IssueToken(ctx, 1, "u_a", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if err := svc.RevokeToken(ctx, token); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}
	if _, _, err := svc.ResolveToken(ctx, token); err != redis.Nil {
		t.Fatalf("revoked token err = %v, want redis.Nil", err)
	}
	// 重复注销幂等
	if err := svc.RevokeToken(ctx, token); err != nil {
		t.Fatalf("second RevokeToken: %v", err)
	}

	tokens, err := svc.ListMemberTokens(ctx, 1, "u_a")
	if err != nil {
		t.Fatalf("ListMemberTokens: %v", err)
	}
	if len(tokens) != 0 {
		t.Fatalf("member set still holds %v", tokens)
	}
}

func TestTokenRevokeAllByMember(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := NewTokenService(rdb, "dojo_")
	ctx := context.Background()

	t1, _ := svc.IssueToken(ctx, 1, "u_a", time.Hour)
	t2, _ := svc.IssueToken(ctx, 1, "u_a", time.Hour)
	other, _ := svc.IssueToken(ctx, 1, "u_b", time.Hour)

	if err := svc.RevokeAllTokensByMember(ctx, 1, "u_a"); err != nil {
		t.Fatalf("RevokeAllTokensByMember: %v", err)
	}

	for _, token := range []string{t1, t2} {
		if _, _, err := svc.ResolveToken(ctx, token); err != redis.Nil {
			t.Fatalf("token %s still resolvable, err = %v", token, err)
		}
	}
	// 其他成员不受影响
	if _, _, err := svc.ResolveToken(ctx, other); err != nil {
		t.Fatalf("other member token: %v", err)
	}
}

func TestTokenServiceNilRedis(t *testing.T) {
	svc := NewTokenService(nil, "dojo_")
	if _, err := svc.IssueToken(context.Background(), 1, "u_a", 0); err == nil {
		t.Fatal("expected error with nil redis client")
	}
}
