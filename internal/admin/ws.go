package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/iw2rmb/navedit/editor"
	"github.com/iw2rmb/navedit/intent"
	"github.com/iw2rmb/navedit/internal/logging"
	"github.com/iw2rmb/navedit/internal/store"
	"github.com/iw2rmb/navedit/jsondoc"
	"github.com/iw2rmb/navedit/navigation"
)

// Message types exchanged over /admin/ws.
const (
	msgEdit     = "edit"
	msgIntent   = "intent"
	msgChange   = "change"
	msgValidate = "validate"
	msgStatus   = "status"
	msgError    = "error"
)

// ClientMessage is sent by the browser.
type ClientMessage struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	Name string `json:"name,omitempty"`
}

// ChangeMessage carries the full editor text.
type ChangeMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ValidateMessage carries the strict parse verdict.
type ValidateMessage struct {
	Type   string   `json:"type"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// StatusMessage mirrors the editor's status readout.
type StatusMessage struct {
	Type     string               `json:"type"`
	FileName string               `json:"fileName"`
	Lines    int                  `json:"lines"`
	Chars    int                  `json:"chars"`
	Valid    bool                 `json:"valid"`
	Label    string               `json:"label"`
	Stats    *navigation.Stats    `json:"stats,omitempty"`
	Problems []navigation.Problem `json:"problems,omitempty"`
}

// IntentMessage acknowledges an intent.
type IntentMessage struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	// FileName and Text are set for download.
	FileName string `json:"fileName,omitempty"`
	Text     string `json:"text,omitempty"`
}

// ErrorMessage reports a rejected client message.
type ErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// wsSession is one websocket editing session. It runs a headless editor on
// a private bus so intents from one browser never reach another.
type wsSession struct {
	ctx     context.Context
	conn    *websocket.Conn
	store   *store.Store
	logger  *log.Logger
	limiter *rate.Limiter

	bus    *intent.Bus
	editor editor.Model
	report navigation.Report
	unsubs []func()

	// result of the intent being handled
	reply *IntentMessage
	err   error
}

type noHighlight struct{}

func (noHighlight) Highlight(string) [][]editor.HighlightSpan { return nil }

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	text, ok := s.load(w, r)
	if !ok {
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade", logging.FieldError, err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxDocumentBytes)

	logger := s.logger
	if sess, ok := SessionFromContext(r.Context()); ok {
		logger = logger.With(logging.FieldUser, sess.User, logging.FieldSession, sess.ID)
	}

	ctx := logging.WithLogger(r.Context(), logger)
	ws := newWSSession(ctx, conn, s.store, logger, rate.NewLimiter(rate.Limit(s.cfg.WSRate), s.cfg.WSBurst), text)
	defer ws.close()

	logger.Info("editing session opened")
	if err := ws.run(); err != nil {
		logger.Warn("editing session ended", logging.FieldError, err)
		return
	}
	logger.Info("editing session closed")
}

func newWSSession(ctx context.Context, conn *websocket.Conn, st *store.Store, logger *log.Logger, limiter *rate.Limiter, text string) *wsSession {
	ws := &wsSession{
		ctx:     ctx,
		conn:    conn,
		store:   st,
		logger:  logger,
		limiter: limiter,
		bus:     intent.New(),
	}
	ws.editor = editor.New(editor.Config{
		Value:       text,
		OnChange:    ws.onChange,
		OnValidate:  ws.onValidate,
		FileName:    nameOf(st),
		Bus:         ws.bus,
		Highlighter: noHighlight{},
		Logger:      logger,
	})
	ws.editor.Mount()
	ws.unsubs = []func(){
		ws.bus.Subscribe(intent.Save, ws.save),
		ws.bus.Subscribe(intent.Refresh, ws.refresh),
		ws.bus.Subscribe(intent.Download, ws.download),
	}
	ws.evaluate(text)
	return ws
}

func nameOf(st *store.Store) string {
	if st == nil {
		return ""
	}
	return filepath.Base(st.Path())
}

func (ws *wsSession) close() {
	ws.editor.Unmount()
	for _, unsub := range ws.unsubs {
		unsub()
	}
	ws.unsubs = nil
}

func (ws *wsSession) run() error {
	if err := ws.send(ChangeMessage{Type: msgChange, Text: ws.editor.Value()}); err != nil {
		return err
	}
	if err := ws.sendStatus(); err != nil {
		return err
	}

	for {
		var msg ClientMessage
		if err := ws.conn.ReadJSON(&msg); err != nil {
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) {
				return nil
			}
			return fmt.Errorf("read message: %w", err)
		}
		if !ws.limiter.Allow() {
			if err := ws.send(ErrorMessage{Type: msgError, Error: "rate limited"}); err != nil {
				return err
			}
			continue
		}
		if err := ws.handle(msg); err != nil {
			return err
		}
	}
}

func (ws *wsSession) handle(msg ClientMessage) error {
	ws.err = nil
	switch msg.Type {
	case msgEdit:
		ws.editor = ws.editor.Edit(msg.Text)
	case msgIntent:
		name := intent.Name(msg.Name)
		if !intent.Valid(name) {
			return ws.send(ErrorMessage{Type: msgError, Error: fmt.Sprintf("unknown intent %q", msg.Name)})
		}
		ws.logger.Debug("intent received", logging.FieldIntent, msg.Name)
		ws.reply = &IntentMessage{Type: msgIntent, Name: msg.Name, OK: true}
		if name == intent.Format {
			if ok, _ := jsondoc.Validate(ws.editor.Value()); !ok {
				ws.reply.OK = false
				ws.reply.Error = "cannot format invalid JSON"
			}
		}
		ws.bus.Publish(name)
		reply := ws.reply
		ws.reply = nil
		if ws.err != nil {
			return ws.err
		}
		if err := ws.send(reply); err != nil {
			return err
		}
	default:
		return ws.send(ErrorMessage{Type: msgError, Error: fmt.Sprintf("unknown message type %q", msg.Type)})
	}
	if ws.err != nil {
		return ws.err
	}
	return ws.sendStatus()
}

func (ws *wsSession) evaluate(text string) {
	ws.report = navigation.Evaluate(text)
	var stats *editor.Stats
	if r := ws.report.Stats; r != nil {
		stats = &editor.Stats{Categories: r.Categories, Items: r.Items, Size: r.Size}
	}
	ws.editor = ws.editor.SetInvalid(!ws.report.Valid).SetStats(stats)
}

func (ws *wsSession) onChange(text string) {
	ws.evaluate(text)
	ws.keep(ws.send(ChangeMessage{Type: msgChange, Text: text}))
}

func (ws *wsSession) onValidate(valid bool, errs []string) {
	ws.keep(ws.send(ValidateMessage{Type: msgValidate, Valid: valid, Errors: errs}))
}

// keep records the first write error raised inside a callback.
func (ws *wsSession) keep(err error) {
	if err != nil && ws.err == nil {
		ws.err = err
	}
}

func (ws *wsSession) fail(err error) {
	if ws.reply == nil {
		return
	}
	ws.reply.OK = false
	ws.reply.Error = err.Error()
}

func (ws *wsSession) save() {
	text := ws.editor.Value()
	if ok, _ := jsondoc.Validate(text); !ok {
		ws.fail(errors.New("document is not valid JSON"))
		return
	}
	if err := ws.store.Save(ws.ctx, text); err != nil {
		ws.logger.Error("save failed", logging.FieldError, err)
		ws.fail(err)
	}
}

func (ws *wsSession) refresh() {
	text, err := ws.store.Load(ws.ctx)
	if err != nil {
		ws.fail(err)
		return
	}
	ws.editor = ws.editor.SetValue(text)
	ws.evaluate(text)
	ws.keep(ws.send(ChangeMessage{Type: msgChange, Text: text}))
}

func (ws *wsSession) download() {
	if ws.reply == nil {
		return
	}
	ws.reply.FileName = nameOf(ws.store)
	ws.reply.Text = ws.editor.Value()
}

func (ws *wsSession) sendStatus() error {
	info := ws.editor.Status()
	msg := StatusMessage{
		Type:     msgStatus,
		FileName: info.FileName,
		Lines:    info.Lines,
		Chars:    info.Chars,
		Valid:    info.Valid,
		Label:    info.ValidityLabel(),
		Problems: ws.report.Problems,
	}
	if info.Stats != nil {
		msg.Stats = &navigation.Stats{Categories: info.Stats.Categories, Items: info.Stats.Items, Size: info.Stats.Size}
	}
	return ws.send(msg)
}

func (ws *wsSession) send(v any) error {
	if err := ws.conn.WriteJSON(v); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}
