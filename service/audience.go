package service

import (
	"fmt"
	"strings"

	"github.com/cydxin/notice-sdk/models"
)

// Audience 规范化后的受众声明。
type Audience struct {
	Type string   // models.AudienceAll / models.AudienceUIDs
	UIDs []string // 仅 uids 时有值；已去空去重，保持首次出现顺序
}

// ResolveAudience 校验并规范化受众声明。发布/更新在任何写入前必须先过这里。
// - all：丢弃传入的 uid 列表（全体受众走广播流，不物化收件箱）；
// - uids：列表必须非 nil；空列表合法，表示不扇出给任何人，不算错误；
// - 其他类型、或 uids 缺少列表 → ErrInvalidAudience。
func ResolveAudience(audienceType string, uids []string) (Audience, error) {
	switch audienceType {
	case models.AudienceAll:
		return Audience{Type: models.AudienceAll}, nil
	case models.AudienceUIDs:
		if uids == nil {
			return Audience{}, fmt.Errorf("%w: audience_type=uids requires a uid list", ErrInvalidAudience)
		}
		return Audience{Type: models.AudienceUIDs, UIDs: normalizeUIDs(uids)}, nil
	default:
		return Audience{}, fmt.Errorf("%w: unknown audience_type %q", ErrInvalidAudience, audienceType)
	}
}

// MaterializedUIDs 该受众应当物化收件箱的成员集合（all 恒为空）。
func (a Audience) MaterializedUIDs() []string {
	if a.Type == models.AudienceUIDs {
		return a.UIDs
	}
	return nil
}

// DiffAudience 对账差集：existing 是当前实际落库的收件箱成员，
// target 是新受众应当物化的成员。
// removed 走删除；added 与 kept 走同一条 create-or-merge 幂等路径，
// 区分它们只为结果可读。
func DiffAudience(existing, target []string) (removed, added, kept []string) {
	existing = normalizeUIDs(existing)
	target = normalizeUIDs(target)

	inTarget := make(map[string]struct{}, len(target))
	for _, uid := range target {
		inTarget[uid] = struct{}{}
	}
	inExisting := make(map[string]struct{}, len(existing))
	for _, uid := range existing {
		inExisting[uid] = struct{}{}
	}

	for _, uid := range existing {
		if _, ok := inTarget[uid]; !ok {
			removed = append(removed, uid)
		}
	}
	for _, uid := range target {
		if _, ok := inExisting[uid]; ok {
			kept = append(kept, uid)
		} else {
			added = append(added, uid)
		}
	}
	return removed, added, kept
}

// normalizeUIDs 去空白、去重，保持首次出现顺序。
func normalizeUIDs(uids []string) []string {
	seen := make(map[string]struct{}, len(uids))
	out := make([]string, 0, len(uids))
	for _, uid := range uids {
		uid = strings.TrimSpace(uid)
		if uid == "" {
			continue
		}
		if _, ok := seen[uid]; ok {
			continue
		}
		seen[uid] = struct{}{}
		out = append(out, uid)
	}
	return out
}
