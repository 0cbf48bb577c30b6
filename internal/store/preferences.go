package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/text/language"
)

const (
	offlineModeSuffix = ":offline_mode"
	languageSuffix    = ":language"
)

var ErrInvalidLanguage = errors.New("invalid language tag")

// Preferences 用户偏好：离线（本地推理）开关与界面语言
// 每个键一次 SET，后写覆盖先写
type Preferences struct {
	kv              KV
	prefix          string
	defaultLanguage string
}

func NewPreferences(kv KV, prefix, defaultLanguage string) *Preferences {
	return &Preferences{kv: kv, prefix: prefix, defaultLanguage: defaultLanguage}
}

// OfflineMode 返回 (开关, 是否存储过, err)
func (p *Preferences) OfflineMode(ctx context.Context, userID string) (bool, bool, error) {
	v, err := p.kv.Get(ctx, p.key(userID, offlineModeSuffix))
	if err != nil {
		if errors.Is(err, ErrMiss) {
			return false, false, nil
		}
		return false, false, fmt.Errorf("get offline mode: %w", err)
	}
	enabled, err := strconv.ParseBool(v)
	if err != nil {
		return false, false, fmt.Errorf("offline mode value %q: %w", v, err)
	}
	return enabled, true, nil
}

func (p *Preferences) SetOfflineMode(ctx context.Context, userID string, enabled bool) error {
	if err := p.kv.Set(ctx, p.key(userID, offlineModeSuffix), strconv.FormatBool(enabled), 0); err != nil {
		return fmt.Errorf("set offline mode: %w", err)
	}
	return nil
}

// Language 未设置时返回默认语言
func (p *Preferences) Language(ctx context.Context, userID string) (string, error) {
	v, err := p.kv.Get(ctx, p.key(userID, languageSuffix))
	if err != nil {
		if errors.Is(err, ErrMiss) {
			return p.defaultLanguage, nil
		}
		return "", fmt.Errorf("get language: %w", err)
	}
	return v, nil
}

// SetLanguage 校验并保存规范化后的 BCP 47 标签
func (p *Preferences) SetLanguage(ctx context.Context, userID, tag string) (string, error) {
	parsed, err := language.Parse(tag)
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrInvalidLanguage, tag, err)
	}
	canonical := parsed.String()
	if err := p.kv.Set(ctx, p.key(userID, languageSuffix), canonical, 0); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}
	return canonical, nil
}

func (p *Preferences) key(userID, suffix string) string {
	return p.prefix + userID + suffix
}
