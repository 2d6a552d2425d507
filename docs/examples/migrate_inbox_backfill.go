//go:build ignore
// +build ignore

package main

import (
	"log"

	notice "github.com/cydxin/notice-sdk"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Example: 演示如何运行收件箱镜像回填迁移
//
// 使用场景：
// 收件箱行镜像了公告的展示字段（标题、状态、时间窗）。如果镜像
// 因为历史故障或手工改库和公告表脱节了，运行此迁移把镜像列
// 按公告表重新刷一遍，并清掉公告已物理删除的孤儿镜像。
//
// ⚠️ 警告：孤儿镜像会被删除！
// 在生产环境运行前请务必备份数据。

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

	log.Println("开始回填收件箱镜像...")

	// 3. 运行迁移
	// 这个函数会：
	// - 按公告表刷新所有镜像列（标题、类型、状态、时间窗）
	// - 删除公告已不存在的孤儿镜像行
	if err := engine.MigrateBackfillInboxMirrors(); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("✅ 迁移完成！")
	log.Println("现在收件箱镜像与公告表一致")
	log.Println("后续的发布/编辑会通过扇出对账自动维持镜像")
}
