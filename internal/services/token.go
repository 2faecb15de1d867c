package services

// 令牌服务即授权门：签发 HS256 访问令牌，并把 Bearer 凭证解析为
// 调用者身份（用户标识）。核心服务只消费 Resolve 的结果做归属比较。

import (
	"context"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"newsdesk/internal/config"
)

// TokenService 负责签发与校验 JWT 访问令牌。
type TokenService struct {
	cfg    config.Config
	revoke *RevocationService
}

func NewTokenService(cfg config.Config, revoke *RevocationService) *TokenService {
	return &TokenService{cfg: cfg, revoke: revoke}
}

// Issue 为用户签发带标准声明的访问令牌，返回令牌、过期时间与 jti。
func (s *TokenService) Issue(userID uint64) (string, time.Time, string, error) {
	now := time.Now()
	exp := now.Add(s.cfg.Auth.AccessTokenTTL)
	jti := uuid.NewString()
	claims := jwt.MapClaims{
		"iss": "newsdesk",
		"sub": fmt.Sprintf("%d", userID),
		"uid": userID,
		"iat": now.Unix(),
		"exp": exp.Unix(),
		"jti": jti,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Auth.Secret))
	if err != nil {
		return "", time.Time{}, "", err
	}
	return signed, exp, jti, nil
}

// Resolve 将 Bearer 凭证解析为调用者身份。签名无效、过期或 jti 已撤销
// 均返回 ErrUnauthorized；本服务从不在此之外校验凭证。
func (s *TokenService) Resolve(ctx context.Context, bearer string) (uint64, error) {
	claims, err := s.parse(bearer)
	if err != nil {
		return 0, ErrUnauthorized
	}
	if jti, _ := claims["jti"].(string); s.revoke != nil && s.revoke.IsRevoked(ctx, jti) {
		return 0, ErrUnauthorized
	}
	uid, ok := claims["uid"].(float64)
	if !ok || uid <= 0 {
		return 0, ErrUnauthorized
	}
	return uint64(uid), nil
}

// Revoke 撤销凭证对应的 jti，直至其自然过期。已失效凭证视为成功。
func (s *TokenService) Revoke(ctx context.Context, bearer string) error {
	claims, err := s.parse(bearer)
	if err != nil {
		return nil
	}
	jti, _ := claims["jti"].(string)
	exp, _ := claims["exp"].(float64)
	ttl := time.Until(time.Unix(int64(exp), 0))
	return s.revoke.Revoke(ctx, jti, ttl)
}

func (s *TokenService) parse(bearer string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(bearer, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.Auth.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}
