package notice_sdk

import (
	"bytes"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/cydxin/notice-sdk/feed"
	"github.com/cydxin/notice-sdk/service"
	"github.com/gorilla/websocket"
)

const (
	// Time 写入超时时间
	writeWait = 10 * time.Second

	// Time pong超时时间
	pongWait = 60 * time.Second

	// Send 对应的ping 必须小于pong
	pingPeriod = (pongWait * 9) / 10

	// Maximum 对等端允许消息大小
	maxMessageSize = 512

	// 会话回收宽限：成员最后一个连接断开后订阅再保留这么久，给断线重连留窗口
	sessionGrace = 5 * time.Minute

	// 窗口推进扫描周期：scheduled 公告到点可见只靠时间推进，库里没有任何
	// 变更、不会有信号，必须扫出来
	windowSweepPeriod = 60 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for SDK
	},
}

// memberKey 连接归属：某道场里的某成员（多端共享一个会话）
type memberKey struct {
	DojoID    uint64
	MemberUID string
}

// Client ws和hub的连接
// 说明：Client 代表“某个具体 websocket 连接”，成员级别可复用的数据放到 MemberSession。
type Client struct {
	hub *WsServer

	// 🔗链接
	conn *websocket.Conn

	// 消息缓冲区
	send chan []byte

	// 连接归属的道场与成员
	DojoID    uint64
	MemberUID string

	Nickname string

	// session 指向成员级别共享状态（活跃订阅/快照缓存）
	session *MemberSession
}

func (c *Client) key() memberKey {
	return memberKey{DojoID: c.DojoID, MemberUID: c.MemberUID}
}

// Send 向该连接推送一帧，缓冲满直接丢弃避免阻塞
func (c *Client) Send(msg []byte) {
	select {
	case c.send <- msg:
	default:
	}
}

// MemberSession 成员级别共享状态（同一成员多设备/多连接复用）。
// 合并流的活跃订阅挂在会话而不是连接上：多端只占一份 redis 订阅；
// 最近一帧快照缓存下来，新设备一连上直接重放，不用等下一次变更。
type MemberSession struct {
	DojoID    uint64
	MemberUID string
	Nickname  string

	mu          sync.Mutex
	cancelFeed  service.CancelFunc
	subscribing bool
	detached    bool
	lastFrame   []byte

	lastSeen time.Time
}

// storeFrame 缓存最新快照帧。帧没变返回 false，调用方据此跳过推送。
func (s *MemberSession) storeFrame(frame []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if bytes.Equal(s.lastFrame, frame) {
		return false
	}
	s.lastFrame = frame
	return true
}

// replayFrame 取缓存的快照帧副本，没有则返回 nil。
func (s *MemberSession) replayFrame() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.lastFrame) == 0 {
		return nil
	}
	frame := make([]byte, len(s.lastFrame))
	copy(frame, s.lastFrame)
	return frame
}

// ensureSubscribed 给会话挂上合并流活跃订阅，已挂/正在挂则直接返回。
// 订阅失败只记日志，窗口扫描会周期性重试补挂。
func (s *MemberSession) ensureSubscribed(fs *service.FeedService, hub *WsServer) {
	if fs == nil {
		return
	}
	s.mu.Lock()
	if s.cancelFeed != nil || s.subscribing || s.detached {
		s.mu.Unlock()
		return
	}
	s.subscribing = true
	s.mu.Unlock()

	cancel, err := fs.Subscribe(s.DojoID, s.MemberUID, func(snap service.FeedSnapshot) {
		frame, err := feed.Snapshot(snap, "")
		if err != nil {
			return
		}
		if s.storeFrame(frame) {
			hub.SendToMember(s.DojoID, s.MemberUID, frame)
		}
	})

	s.mu.Lock()
	s.subscribing = false
	if err != nil {
		s.mu.Unlock()
		log.Printf("feed subscribe dojo=%d member=%s failed: %v", s.DojoID, s.MemberUID, err)
		return
	}
	if s.detached {
		// 会话已被回收，晚到的订阅立即收掉
		s.mu.Unlock()
		cancel()
		return
	}
	s.cancelFeed = cancel
	s.mu.Unlock()
}

// teardown 回收会话：摘订阅、丢缓存。之后这个 session 不再使用。
// Cancel 返回时在途回调必然已结束；回调里要拿 s.mu，所以这里不能持锁调它。
func (s *MemberSession) teardown() {
	s.mu.Lock()
	s.detached = true
	cancel := s.cancelFeed
	s.cancelFeed = nil
	s.lastFrame = nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// readPump 将消息从client (websocket 连接) 到hub管理。
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { _ = c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("readPump error: %v", err)
			}
			break
		}
		c.hub.handleMessage(c, message)
	}
}

// writePump 将消息从hub管理写到具体的client (websocket 连接)。
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			_, _ = w.Write(message)

			// 一次性发送管道剩余全部的消息，不重新走message, ok := <-c.send，提升性能
			n := len(c.send)
			for i := 0; i < n; i++ {
				_, _ = w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("writePump 写入ping失败")
				return
			}
		}
	}
}

type WsServer struct {
	clients map[*Client]bool
	// 成员 -> 该成员所有活跃的Websocket连接（支持多设备）
	memberClients map[memberKey][]*Client

	// 成员级别共享 session
	Sessions map[memberKey]*MemberSession

	// 成员 -> “延迟回收”的定时器
	gcTimers map[memberKey]*time.Timer

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	// 回调处理上行帧
	onMessage func(client *Client, msg []byte)

	// feedSvc 会话订阅与窗口扫描用，engine 在 Run 之前注入
	feedSvc *service.FeedService
}

func NewWsServer() *WsServer {
	return &WsServer{
		broadcast:     make(chan []byte),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		clients:       make(map[*Client]bool),
		memberClients: make(map[memberKey][]*Client),
		Sessions:      make(map[memberKey]*MemberSession),
		gcTimers:      make(map[memberKey]*time.Timer),
	}
}

// SetFeedService 注入合并流服务，必须在 Run 之前调用。
func (h *WsServer) SetFeedService(fs *service.FeedService) {
	h.feedSvc = fs
}

func (h *WsServer) Run() {
	sweepTicker := time.NewTicker(windowSweepPeriod)
	defer sweepTicker.Stop()

	for {
		select {
		case <-sweepTicker.C:
			// 周期扫描：不在 h.mu.Lock 下做 DB IO，避免阻塞 ws 主循环。
			h.sweepWindows()

		case client := <-h.register:
			h.mu.Lock()
			key := client.key()
			// 1) 复用/创建成员级 session
			sess := h.Sessions[key]
			if sess == nil {
				sess = &MemberSession{DojoID: client.DojoID, MemberUID: client.MemberUID, Nickname: client.Nickname, lastSeen: time.Now()}
				h.Sessions[key] = sess
			} else {
				// 更新资料（以最新连接为准）
				sess.Nickname = client.Nickname
				sess.lastSeen = time.Now()
			}
			client.session = sess

			// 2) 取消gcTimer（成员又上线了）
			if t, ok := h.gcTimers[key]; ok {
				t.Stop()
				delete(h.gcTimers, key)
			}

			h.clients[client] = true
			h.memberClients[key] = append(h.memberClients[key], client)
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)

				key := client.key()
				if conns, exists := h.memberClients[key]; exists {
					for i, conn := range conns {
						if conn == client {
							h.memberClients[key] = append(conns[:i], conns[i+1:]...)
							break
						}
					}
					// 不立刻清 session：交给 timer 决定是否回收，给断开-重连留窗口
				}

				// 3) 启动/重置回收定时器：仅当成员确实无任何连接时才摘订阅
				if t, ok := h.gcTimers[key]; ok {
					t.Stop()
				}
				h.gcTimers[key] = time.AfterFunc(sessionGrace, func() {
					// timer 回调里不要直接用 client 指针（可能已复用/已变化），用 key 查当前状态
					h.mu.Lock()
					if len(h.memberClients[key]) > 0 {
						// 成员重新上线了，不回收
						h.mu.Unlock()
						return
					}
					sess := h.Sessions[key]
					delete(h.memberClients, key)
					delete(h.Sessions, key)
					delete(h.gcTimers, key)
					h.mu.Unlock()

					// 摘订阅放在 hub 锁外：Cancel 会等在途回调结束
					if sess != nil {
						sess.teardown()
					}
				})
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			// 注意：不能在 RLock 下修改 map / close channel，否则会引发竞态/崩溃。
			var toRemove []*Client
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					toRemove = append(toRemove, client)
				}
			}
			h.mu.RUnlock()

			if len(toRemove) > 0 {
				h.mu.Lock()
				for _, client := range toRemove {
					if _, ok := h.clients[client]; !ok {
						continue
					}
					delete(h.clients, client)
					key := client.key()
					if conns, exists := h.memberClients[key]; exists {
						for i, conn := range conns {
							if conn == client {
								h.memberClients[key] = append(conns[:i], conns[i+1:]...)
								break
							}
						}
						if len(h.memberClients[key]) == 0 {
							delete(h.memberClients, key)
						}
					}
					// close 之前再确认一次，避免 panic（多处 close 的竞态）
					select {
					case <-client.send:
					default:
					}
					func() {
						defer func() { _ = recover() }()
						close(client.send)
					}()
				}
				h.mu.Unlock()
			}
		}
	}
}

// sweepWindows 重算在线成员的快照并推送变化的那部分。
// 两个职责：
//   - 投递窗口推进：到点可见的 scheduled 公告没有信号，只能扫出来；
//   - 订阅自愈：会话订阅挂掉的（比如 redis 闪断）这里补挂。
func (h *WsServer) sweepWindows() {
	if h.feedSvc == nil {
		return
	}

	h.mu.RLock()
	sessions := make([]*MemberSession, 0, len(h.Sessions))
	for key, sess := range h.Sessions {
		if sess == nil || len(h.memberClients[key]) == 0 {
			continue
		}
		sessions = append(sessions, sess)
	}
	h.mu.RUnlock()

	for _, sess := range sessions {
		sess.ensureSubscribed(h.feedSvc, h)

		snap, err := h.feedSvc.ListFeed(sess.DojoID, sess.MemberUID)
		if err != nil {
			log.Printf("window sweep dojo=%d member=%s failed: %v", sess.DojoID, sess.MemberUID, err)
			continue
		}
		frame, err := feed.Snapshot(*snap, "")
		if err != nil {
			continue
		}
		if sess.storeFrame(frame) {
			h.SendToMember(sess.DojoID, sess.MemberUID, frame)
		}
	}
}

func (h *WsServer) handleMessage(client *Client, msg []byte) {
	if h.onMessage != nil {
		h.onMessage(client, msg)
	}
}
func (h *WsServer) SetOnMessage(fn func(client *Client, msg []byte)) {
	h.onMessage = fn
}

// ServeWS 处理ws的请求
func (h *WsServer) ServeWS(w http.ResponseWriter, r *http.Request, dojoID uint64, memberUID string, extras ...string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}

	nickname := ""
	if len(extras) > 0 {
		nickname = extras[0]
	}

	key := memberKey{DojoID: dojoID, MemberUID: memberUID}

	// 复用/创建成员级 session
	h.mu.Lock()
	sess := h.Sessions[key]
	if sess == nil {
		sess = &MemberSession{DojoID: dojoID, MemberUID: memberUID, Nickname: nickname, lastSeen: time.Now()}
		h.Sessions[key] = sess
	} else {
		sess.Nickname = nickname
		sess.lastSeen = time.Now()
	}
	// cancel GC timer（成员又上线了）
	if t, ok := h.gcTimers[key]; ok {
		t.Stop()
		delete(h.gcTimers, key)
	}
	h.mu.Unlock()

	// 建连即挂会话订阅：初始快照会同步落进 lastFrame，
	// 注册完成后重放给这个连接。
	sess.ensureSubscribed(h.feedSvc, h)

	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, 256),
		DojoID:    dojoID,
		MemberUID: memberUID,
		Nickname:  nickname,
		session:   sess,
	}
	client.hub.register <- client
	log.Printf("成员连接注册: dojo=%d member=%s", dojoID, memberUID)

	go client.writePump()
	go client.readPump()

	// 重放缓存快照。storeFrame 先缓存后推送，所以这帧不会旧于
	// 注册间隙漏掉的任何更新。
	if frame := sess.replayFrame(); frame != nil {
		client.Send(frame)
	}

	// 不要 select{} 永久阻塞 handler；连接生命周期由 readPump/writePump 控制。
}

// SendToMember 向成员的全部在线连接推送一帧
func (h *WsServer) SendToMember(dojoID uint64, memberUID string, msg []byte) {
	h.mu.RLock()
	clients := h.memberClients[memberKey{DojoID: dojoID, MemberUID: memberUID}]
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.send <- msg:
		default:
			// 丢弃避免阻塞
		}
	}
}

// Broadcast 向所有在线连接推送一帧（跨道场，宿主自行斟酌使用）
func (h *WsServer) Broadcast(msg []byte) {
	h.broadcast <- msg
}
