package session_lock

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// SessionLock 基于Redis的单写者锁
// 同一个输出文件同时只允许一个标注会话写入；锁带TTL，
// 进程异常退出后锁会自动过期，不需要人工清理。
type SessionLock struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewSessionLock 创建会话锁
func NewSessionLock(client *redis.Client, ttl time.Duration) *SessionLock {
	return &SessionLock{
		client:    client,
		keyPrefix: "annotation:lock:",
		ttl:       ttl,
	}
}

func (sl *SessionLock) key(outputPath string) string {
	return sl.keyPrefix + outputPath
}

// Acquire 尝试为输出文件加锁
// 使用Lua脚本确保原子性操作
// 脚本逻辑：
// 1. key不存在时写入持有者并设置过期时间，返回空串表示成功
// 2. 持有者是自己时仅续期（重入）
// 3. 否则返回当前持有者，便于给出明确报错
func (sl *SessionLock) Acquire(ctx context.Context, outputPath, holder string) error {
	script := redis.NewScript(
		`local current = redis.call('GET', KEYS[1])
		if current == false then
			redis.call('SET', KEYS[1], ARGV[1], 'EX', tonumber(ARGV[2]))
			return ''
		end
		if current == ARGV[1] then
			redis.call('EXPIRE', KEYS[1], tonumber(ARGV[2]))
			return ''
		end
		return current`,
	)

	result, err := script.Run(ctx, sl.client, []string{sl.key(outputPath)}, holder, int(sl.ttl.Seconds())).Result()
	if err != nil {
		return fmt.Errorf("执行Lua脚本失败: %w", err)
	}

	if owner, _ := result.(string); owner != "" {
		return fmt.Errorf("输出文件已被 '%s' 的标注会话锁定", owner)
	}

	log.Printf("[SessionLock] 成功加锁, 输出文件: %s, 持有者: %s", outputPath, holder)
	return nil
}

// Release 释放锁
// 仅当持有者匹配时删除，避免误删别的会话刚拿到的锁
func (sl *SessionLock) Release(ctx context.Context, outputPath, holder string) {
	script := redis.NewScript(
		`if redis.call('GET', KEYS[1]) == ARGV[1] then
			return redis.call('DEL', KEYS[1])
		end
		return 0`,
	)

	result, err := script.Run(ctx, sl.client, []string{sl.key(outputPath)}, holder).Result()
	if err != nil {
		log.Printf("[SessionLock] 执行Lua脚本失败: %v", err)
		return
	}

	if deleted, _ := result.(int64); deleted > 0 {
		log.Printf("[SessionLock] 成功释放锁, 输出文件: %s", outputPath)
	} else {
		log.Printf("[SessionLock] 锁已不属于 %s, 跳过释放, 输出文件: %s", holder, outputPath)
	}
}

// KeepAlive 周期性续期，直到ctx取消
// 会话等待标注员输入的时间不确定，靠续期保证锁不会中途过期
func (sl *SessionLock) KeepAlive(ctx context.Context, outputPath, holder string) {
	interval := sl.ttl / 3
	if interval < time.Second {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sl.Acquire(ctx, outputPath, holder); err != nil {
				log.Printf("[SessionLock] 续期失败: %v", err)
			}
		}
	}
}

// GetHolder 查询当前持有者，空串表示未加锁
func (sl *SessionLock) GetHolder(ctx context.Context, outputPath string) (string, error) {
	holder, err := sl.client.Get(ctx, sl.key(outputPath)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("查询锁持有者失败: %w", err)
	}
	return holder, nil
}
