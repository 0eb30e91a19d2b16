package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hitoshi/smarttime/internal/model"
)

const (
	redisSessionPrefix = "session:"
	redisValuePrefix   = "v:"
	redisFieldCreated  = "_created_at"
	redisFieldExpires  = "_expires_at"
)

// RedisSessionRepo はRedisのハッシュを使用したセッションリポジトリ。
// 1セッションを1キーに対応させ、有効期限はRedisのキー期限に任せる。
type RedisSessionRepo struct {
	client *redis.Client
}

// NewRedisClient はredis://形式のURLからクライアントを生成する。
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	return redis.NewClient(opts), nil
}

// NewRedisSessionRepo はRedisSessionRepoを生成する。
func NewRedisSessionRepo(client *redis.Client) *RedisSessionRepo {
	return &RedisSessionRepo{client: client}
}

func redisSessionKey(id string) string { return redisSessionPrefix + id }

// Create はセッションを作成する。
func (r *RedisSessionRepo) Create(ctx context.Context, session *model.Session) error {
	key := redisSessionKey(session.ID)
	fields := map[string]any{
		redisFieldCreated: session.CreatedAt.Unix(),
		redisFieldExpires: session.ExpiresAt.Unix(),
	}
	for k, v := range session.Values {
		fields[redisValuePrefix+k] = v
	}

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key, fields)
	pipe.ExpireAt(ctx, key, session.ExpiresAt)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// FindByID は指定IDのセッションを取得する。存在しない場合はnilを返す。
func (r *RedisSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	fields, err := r.client.HGetAll(ctx, redisSessionKey(id)).Result()
	if errors.Is(err, redis.Nil) || (err == nil && len(fields) == 0) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	session := &model.Session{ID: id, Values: map[string]string{}}
	for k, v := range fields {
		switch {
		case k == redisFieldCreated:
			session.CreatedAt = unixField(v)
		case k == redisFieldExpires:
			session.ExpiresAt = unixField(v)
		case strings.HasPrefix(k, redisValuePrefix):
			session.Values[strings.TrimPrefix(k, redisValuePrefix)] = v
		}
	}
	return session, nil
}

// setValueScript はキーが存在する場合だけフィールドを書き込む。
// 存在確認と書き込みを1回のスクリプト実行で行うため、その間にキーが失効して
// TTLのないハッシュが新しく作られることはない。
var setValueScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return 0
end
redis.call("HSET", KEYS[1], ARGV[1], ARGV[2])
return 1
`)

// SetValue はセッションにキーと値を保存する。
func (r *RedisSessionRepo) SetValue(ctx context.Context, id, key, value string) error {
	n, err := setValueScript.Run(ctx, r.client, []string{redisSessionKey(id)}, redisValuePrefix+key, value).Int()
	if err != nil {
		return fmt.Errorf("failed to set session value: %w", err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// DeleteValue はセッションからキーを削除する。
func (r *RedisSessionRepo) DeleteValue(ctx context.Context, id, key string) error {
	if err := r.client.HDel(ctx, redisSessionKey(id), redisValuePrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete session value: %w", err)
	}
	return nil
}

// DeleteByID はセッションを削除する。
func (r *RedisSessionRepo) DeleteByID(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, redisSessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired はRedisのキー期限で削除されるため何もしない。
func (r *RedisSessionRepo) DeleteExpired(context.Context) (int64, error) { return 0, nil }

// Ping はRedisへの疎通を確認する。
func (r *RedisSessionRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func unixField(v string) time.Time {
	sec, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}

// compile-time interface check
var _ SessionRepository = (*RedisSessionRepo)(nil)
