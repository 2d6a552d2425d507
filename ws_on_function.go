package notice_sdk

import (
	"encoding/json"
	"log"

	"github.com/cydxin/notice-sdk/feed"
)

// bindWsHandlersOnMessage 将 WS 上行帧处理从 engine.go 抽出来，避免 engine.go 臃肿。
// 说明：放在包根目录（同 WsServer/engine.go 同级），
// 这样可以直接访问 Instance 与 Client 类型，避免 service 层循环依赖。
func (e *NoticeEngine) bindWsHandlersOnMessage() {
	e.WsServer.onMessage = func(client *Client, msg []byte) {
		if client == nil {
			return
		}

		var frame feed.Frame
		if err := json.Unmarshal(msg, &frame); err != nil {
			log.Printf("invalid ws frame dojo=%d member=%s: %v", client.DojoID, client.MemberUID, err)
			client.Send(feed.Error("无法解析的消息格式", ""))
			return
		}

		switch frame.Type {
		case feed.TypeRefresh:
			// 主动刷新只回当前连接，不打扰同成员的其他设备。
			// 应答带 packet_id，会污染会话缓存帧的逐字节比对，所以不回写缓存。
			snap, err := Instance.Feed.ListFeed(client.DojoID, client.MemberUID)
			if err != nil {
				log.Printf("feed refresh dojo=%d member=%s failed: %v", client.DojoID, client.MemberUID, err)
				client.Send(feed.Error("快照拉取失败，请稍后重试", frame.PacketID))
				return
			}
			down, err := feed.Snapshot(snap, frame.PacketID)
			if err != nil {
				return
			}
			client.Send(down)

		default:
			client.Send(feed.Error("未知的消息类型: "+frame.Type, frame.PacketID))
		}
	}
}
