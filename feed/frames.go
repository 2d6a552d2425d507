package feed

import (
	"encoding/json"

	"github.com/cydxin/notice-sdk/cons"
)

// WS 上行帧类型
const (
	TypeRefresh = "feed.refresh" // 拉取一份最新合并流快照
)

// Frame 成员端上行帧。
type Frame struct {
	Type     string `json:"type"`            // 帧类型：feed.refresh...
	Limit    int    `json:"limit,omitempty"` // 可选：快照条数上限
	PacketID string `json:"packet_id"`       // 可选：客户端匹配应答用的包 ID
}

// Down 下行帧。Event 取值见 cons 包。
type Down struct {
	Event    string      `json:"event"`
	PacketID string      `json:"packet_id,omitempty"`
	Data     interface{} `json:"data,omitempty"`
	Message  string      `json:"message,omitempty"`
}

// Snapshot 构造一帧合并流快照。
func Snapshot(data interface{}, packetID string) ([]byte, error) {
	return json.Marshal(Down{
		Event:    cons.EventFeedSnapshot,
		PacketID: packetID,
		Data:     data,
	})
}

// Error 构造一帧下行错误。
func Error(message, packetID string) []byte {
	b, _ := json.Marshal(Down{
		Event:    cons.EventError,
		PacketID: packetID,
		Message:  message,
	})
	return b
}
