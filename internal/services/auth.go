package services

// 认证服务：签发与解析 HS256 访问令牌，并在 Redis 中维护邮箱验证码。
// 完整的账号体系（密码找回、第三方登录等）由外部子系统负责。

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/go-redis/redis/v8"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"newsroom/internal/config"
	"newsroom/internal/storage"
)

// ErrInvalidCredentials 登录邮箱或口令不正确。
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidToken 访问令牌缺失、过期或签名不合法。
var ErrInvalidToken = errors.New("invalid token")

// ErrCodeMismatch 邮箱验证码不存在或不匹配。
var ErrCodeMismatch = errors.New("verification code mismatch")

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const codeLength = 6

// CodeStore 验证码存取所需的最小 Redis 命令集。
type CodeStore interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// AuthService 面向 HTTP 层的登录、令牌解析与邮箱验证能力。
type AuthService struct {
	users *UserService
	codes CodeStore
	cfg   config.Config
}

func NewAuthService(users *UserService, codes CodeStore, cfg config.Config) *AuthService {
	return &AuthService{users: users, codes: codes, cfg: cfg}
}

// Login 校验邮箱与口令，签发 HS256 访问令牌。
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if !s.users.CheckPassword(u, password) {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": fmt.Sprintf("%d", u.ID),
		"iat": now.Unix(),
		"exp": now.Add(s.cfg.Auth.TokenTTL).Unix(),
		"jti": uuid.NewString(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString([]byte(s.cfg.Auth.JWTSecret))
}

// ParseToken 解析访问令牌并返回用户 id。
func (s *AuthService) ParseToken(tokenString string) (uint64, error) {
	tok, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.Auth.JWTSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !tok.Valid {
		return 0, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return 0, ErrInvalidToken
	}
	var id uint64
	if _, err := fmt.Sscanf(sub, "%d", &id); err != nil || id == 0 {
		return 0, ErrInvalidToken
	}
	return id, nil
}

// SendVerificationCode 生成验证码写入 Redis 并返回。
// 邮件投递属于外部子系统，这里仅记录审计日志。
func (s *AuthService) SendVerificationCode(ctx context.Context, userID uint64) (string, error) {
	code, err := generateCode(codeLength)
	if err != nil {
		return "", err
	}
	key := verifyKey(userID)
	if err := s.codes.Set(ctx, key, code, s.cfg.Auth.VerifyCodeTTL).Err(); err != nil {
		return "", err
	}
	log.WithFields(log.Fields{"user_id": userID}).Info("verification code issued")
	return code, nil
}

// VerifyEmail 比对验证码；一致则标记邮箱已验证并删除验证码。
func (s *AuthService) VerifyEmail(ctx context.Context, userID uint64, code string) error {
	key := verifyKey(userID)
	stored, err := s.codes.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCodeMismatch
		}
		return err
	}
	if stored == "" || stored != code {
		return ErrCodeMismatch
	}
	if err := s.users.MarkEmailVerified(ctx, userID); err != nil {
		return err
	}
	return s.codes.Del(ctx, key).Err()
}

func verifyKey(userID uint64) string { return fmt.Sprintf("verify:%d", userID) }

// generateCode 生成大写字母与数字组成的随机验证码。
func generateCode(length int) (string, error) {
	buf := make([]byte, length)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}
