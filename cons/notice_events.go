package cons

// 统一的公告变更事件类型（event_type），用于变更信号与 WS 下行帧
const (
	EventNoticePublished = "notice.published"  // 公告发布
	EventNoticeUpdated   = "notice.updated"    // 公告更新（含受众对账）
	EventInboxDelivered  = "notice.inbox.set"  // 收件箱投递/刷新
	EventInboxRevoked    = "notice.inbox.gone" // 收件箱移除（受众摘除）
	EventFeedSnapshot    = "feed.snapshot"     // 合并流快照推送
	EventFeedRefresh     = "feed.refresh"      // 客户端请求刷新合并流
	EventError           = "error"             // 下行错误帧
)

// 扇出补偿任务的操作类型
const (
	FanoutOpUpsert = "inbox.upsert" // 重放投递（create-or-merge）
	FanoutOpDelete = "inbox.delete" // 重放摘除
)

// 合并流条目来源
const (
	FeedSourceBroadcast = "broadcast" // 广播流（audience_type=all 的公告）
	FeedSourceInbox     = "inbox"     // 个人收件箱
)

// 展示状态（仅 UI 分类，不参与投递过滤）
const (
	DisplayUpcoming = "upcoming"
	DisplayActive   = "active"
	DisplayComplete = "complete"
)
