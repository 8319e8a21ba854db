package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"ollamachat/pkg/types"
)

const wsWriteWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     allowWSOrigin,
}

// allowWSOrigin follows the CORS origin list.
func allowWSOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || !corsEnabled {
		return true
	}
	for _, o := range corsAllowedOrigins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

// wsFrame accepts both the current {"message","model_name"} shape and the
// older {"message","model"} one.
type wsFrame struct {
	Message   string `json:"message"`
	ModelName string `json:"model_name"`
	Model     string `json:"model"`
}

// chatWS godoc
// @Summary      Chat over a websocket
// @Description  Each text frame is a ChatRequest; each reply frame is a whole
// @Description  ChatResponse. A frame without a model keeps the current model.
// @Tags         chat
// @Success      101 {string} string "Switching Protocols"
// @Router       /api/chat/ws [get]
func (h *handlers) chatWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zlog.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxBodyBytes)

	lg := zlog.With().Str("path", r.URL.Path)
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		lg = lg.Str("request_id", rid)
	}
	log := lg.Logger()
	log.Debug().Msg("websocket connected")

	base := serverBaseCtx
	ctx, cancel := requestContext(r)
	defer cancel()
	go func() {
		<-ctx.Done()
		shutdown := base.Err() != nil
		if shutdown {
			// Unblocks ReadMessage and tells the peer why.
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(time.Second))
		}
		_ = conn.Close()
		log.Debug().Bool("shutdown", shutdown).Msg("websocket closed")
	}()

	for {
		mt, p, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn().Err(err).Msg("websocket read")
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}

		var f wsFrame
		var resp types.ChatResponse
		if err := json.Unmarshal(p, &f); err != nil {
			chatOutcomesTotal.WithLabelValues("ws", "bad_request").Inc()
			resp = parseFailure(err)
		} else {
			req := types.ChatRequest{Message: f.Message, ModelName: f.ModelName, HasModelName: true}
			if strings.TrimSpace(req.ModelName) == "" {
				req.ModelName = f.Model
			}
			reply, err := h.svc.Chat(ctx, req)
			countChat("ws", err)
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				log.Error().Err(err).Str("model", reply.Model).Msg("websocket chat failed")
				_, resp = chatFailure(err)
			} else {
				resp = types.ChatResponse{Response: reply.Text}
			}
		}

		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(resp); err != nil {
			log.Warn().Err(err).Msg("websocket write")
			return
		}
	}
}
