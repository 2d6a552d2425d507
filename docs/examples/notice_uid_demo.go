//go:build ignore
// +build ignore

package main

import (
	"encoding/json"
	"log"

	notice "github.com/cydxin/notice-sdk"
	"github.com/cydxin/notice-sdk/service"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Example: 演示 Notice.NoticeUID 自动生成 UUID 的功能
//
// Notice.NoticeUID 会在创建时自动生成 UUID
// 无需手动设置，GORM BeforeCreate hook 会自动处理

func main() {
	// 1. 连接数据库
	dsn := "user:password@tcp(127.0.0.1:3306)/dojodb?charset=utf8mb4&parseTime=True&loc=Local"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// 2. 创建 NoticeEngine 实例
	engine := notice.NewEngine(
		notice.WithDB(db),
		notice.WithTablePrefix("dojo_"),
	)

	// 3. 发布公告（NoticeUID 会自动生成）
	log.Println("发布公告...")
	n, fanout, err := engine.NoticeService.PublishNotice(&service.PublishNoticeInput{
		DojoID:    1,
		Type:      "notice",
		Title:     "周六合同稽古",
		Body:      "周六 14:00 全员合同稽古，请自带护具",
		CreatedBy: "coach_wang",
	})
	if err != nil {
		log.Fatalf("Failed to publish notice: %v", err)
	}

	// 4. 查看生成的 ID
	log.Printf("✅ 公告发布成功！")
	log.Printf("   - 内部数据库 ID: %d (用于数据库内部引用)", n.ID)
	log.Printf("   - 外部 NoticeUID: %s (UUID，用于 API 响应)", n.NoticeUID)
	log.Printf("   - 道场 ID: %d", n.DojoID)
	log.Printf("   - 标题: %s", n.Title)
	log.Printf("   - 状态: %s", n.Status)
	if fanout != nil {
		log.Printf("   - 扇出成员数: %d", len(fanout.Delivered))
	}

	// 5. 演示：在 API 响应中使用 NoticeUID
	log.Println("\n在 API 响应中使用:")
	type NoticeResponse struct {
		NoticeUID string `json:"notice_uid"` // 使用 UUID
		Title     string `json:"title"`
		DojoID    uint64 `json:"dojo_id"`
		Status    string `json:"status"`
	}

	resp := NoticeResponse{
		NoticeUID: n.NoticeUID, // 使用外部 UUID
		Title:     n.Title,
		DojoID:    n.DojoID,
		Status:    n.Status,
	}

	jsonData, _ := json.MarshalIndent(resp, "", "  ")
	log.Printf("API Response:\n%s", string(jsonData))

	// 6. 演示：获取公告列表
	log.Println("\n获取道场公告列表...")
	items, next, err := engine.NoticeService.ListNotices(1, "", 0, 10)
	if err != nil {
		log.Fatalf("Failed to list notices: %v", err)
	}

	log.Printf("找到 %d 条公告 (next_cursor=%d):", len(items), next)
	for i, it := range items {
		log.Printf("  [%d] ID=%d, NoticeUID=%s, Title=%s",
			i+1, it.ID, it.NoticeUID, it.Title)
	}

	// 7. 重要说明
	log.Println("\n📝 重要说明:")
	log.Println("   1. Notice.ID (uint64): 内部数据库主键，收件箱镜像的 notice_id 引用它")
	log.Println("   2. Notice.NoticeUID (string): 外部 UUID，用于 API 响应和客户端")
	log.Println("   3. NoticeInbox.NoticeID 引用的是 Notice.ID (内部主键)")
	log.Println("   4. UUID 会在发布公告时自动生成，无需手动设置")
}
