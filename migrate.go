package notice_sdk

import (
	"fmt"
	"log"

	"gorm.io/gorm"
)

// MigrateBackfillInboxMirrors 用公告本体重刷收件箱的镜像列，并清掉
// 公告已删除后的残留收件箱行。
// 修复镜像漂移用：比如从备份恢复、或某段时间镜像刷新逻辑有 bug 的存量数据。
// 警告：会做全表 UPDATE，请在业务低峰执行
func (e *NoticeEngine) MigrateBackfillInboxMirrors() error {
	db := e.config.DB
	inboxTable := e.config.TablePrefix + "notice_inbox" // 使用配置的表前缀
	noticeTable := e.config.TablePrefix + "notice"

	log.Printf("开始回填 %s 表的镜像列...", inboxTable)

	// 检查表是否存在
	if !db.Migrator().HasTable(inboxTable) {
		log.Printf("表 %s 不存在，跳过回填", inboxTable)
		return nil
	}
	if !db.Migrator().HasTable(noticeTable) {
		log.Printf("表 %s 不存在，跳过回填", noticeTable)
		return nil
	}

	// 验证表名格式（只允许字母、数字和下划线）
	if !isValidTableName(inboxTable) || !isValidTableName(noticeTable) {
		return fmt.Errorf("invalid table name: %s / %s", inboxTable, noticeTable)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		// 1. 按公告本体刷新全部镜像列
		log.Println("步骤 1: 刷新镜像列...")
		// MySQL/MariaDB
		res := tx.Exec(fmt.Sprintf(
			"UPDATE `%s` i JOIN `%s` n ON n.id = i.notice_id AND n.dojo_id = i.dojo_id "+
				"SET i.type = n.type, i.title = n.title, i.status = n.status, "+
				"i.start_time = n.start_time, i.end_time = n.end_time, i.send_at = n.send_at",
			inboxTable, noticeTable,
		))
		if res.Error != nil {
			return fmt.Errorf("刷新镜像列失败: %v", res.Error)
		}
		log.Printf("步骤 1 完成，刷新 %d 行", res.RowsAffected)

		// 2. 清理公告已删（含软删）的残留收件箱行
		log.Println("步骤 2: 清理残留行...")
		res = tx.Exec(fmt.Sprintf(
			"DELETE i FROM `%s` i LEFT JOIN `%s` n "+
				"ON n.id = i.notice_id AND n.dojo_id = i.dojo_id AND n.deleted_at IS NULL "+
				"WHERE n.id IS NULL",
			inboxTable, noticeTable,
		))
		if res.Error != nil {
			return fmt.Errorf("清理残留行失败: %v", res.Error)
		}
		log.Printf("步骤 2 完成，清理 %d 行", res.RowsAffected)

		log.Println("回填完成！")
		return nil
	})
}

// isValidTableName 验证表名格式，防止 SQL 注入
func isValidTableName(name string) bool {
	// 只允许字母、数字和下划线
	for _, c := range name {
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
			(c >= '0' && c <= '9') || c == '_') {
			return false
		}
	}
	return len(name) > 0 && len(name) < 64 // MySQL 表名最大 64 字符
}
