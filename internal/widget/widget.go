package widget

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"portfolio-chat/internal/chatclient"
	"portfolio-chat/internal/domain"
	"portfolio-chat/internal/email"
)

const (
	DefaultDraftDelay = 1500 * time.Millisecond
	DefaultOwnerName  = "Gaurav Kumar"

	errorText         = "I'm sorry, I encountered an error. Please try again."
	emptyAnswerText   = "Sorry, I received an empty response."
	draftFormatText   = "Please format your email request as: 'email: subject | body'"
	draftMissingText  = "Please provide both subject and body for the email request."
	welcomeTextFormat = "Hi! I'm %s's AI assistant. I can help you learn about skills, projects, and experience. I can also help draft emails. What would you like to know?"
)

// RenderFunc recibe una copia del transcript cada vez que cambia con el panel abierto.
type RenderFunc func(messages []domain.Message, state State)

// Widget mantiene el transcript en memoria y delega las preguntas al proxy.
// Solo admite una petición en curso: Send fuera de StateIdle se ignora.
type Widget struct {
	mu sync.Mutex

	client     chatclient.Asker
	sessionID  string
	logger     *zap.Logger
	owner      string
	draftDelay time.Duration
	now        func() time.Time
	sleep      func(time.Duration)
	render     RenderFunc

	open     bool
	state    State
	input    string
	messages []domain.Message
}

type Option func(*Widget)

func WithLogger(logger *zap.Logger) Option {
	return func(w *Widget) {
		if logger != nil {
			w.logger = logger
		}
	}
}

func WithOwnerName(name string) Option {
	return func(w *Widget) {
		if strings.TrimSpace(name) != "" {
			w.owner = strings.TrimSpace(name)
		}
	}
}

func WithDraftDelay(d time.Duration) Option {
	return func(w *Widget) {
		if d >= 0 {
			w.draftDelay = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(w *Widget) {
		if now != nil {
			w.now = now
		}
	}
}

func WithRenderer(fn RenderFunc) Option {
	return func(w *Widget) {
		w.render = fn
	}
}

// New crea un widget cerrado y vacío; sessionID lo provee quien lo construye.
func New(client chatclient.Asker, sessionID string, opts ...Option) *Widget {
	w := &Widget{
		client:     client,
		sessionID:  sessionID,
		logger:     zap.NewNop(),
		owner:      DefaultOwnerName,
		draftDelay: DefaultDraftDelay,
		now:        time.Now,
		sleep:      time.Sleep,
		state:      StateIdle,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Widget) SessionID() string {
	return w.sessionID
}

func (w *Widget) Open() {
	w.mu.Lock()
	w.open = true
	if len(w.messages) == 0 {
		w.appendLocked("welcome", domain.SenderAI, fmt.Sprintf(welcomeTextFormat, w.owner))
	}
	w.unlockAndRender()
}

func (w *Widget) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.open = false
}

func (w *Widget) Toggle() {
	if w.IsOpen() {
		w.Close()
		return
	}
	w.Open()
}

func (w *Widget) IsOpen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.open
}

func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Widget) Input() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.input
}

// SetInput actualiza el texto pendiente. Está deshabilitado mientras hay una
// petición en curso; escribir de nuevo tras un error vuelve a StateIdle.
func (w *Widget) SetInput(text string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateSending {
		return false
	}
	if w.state == StateError {
		w.state = StateIdle
	}
	w.input = text
	return true
}

// Dismiss descarta el estado de error sin tocar el input.
func (w *Widget) Dismiss() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateError {
		w.state = StateIdle
	}
}

// CanSend refleja si el botón de enviar estaría habilitado.
func (w *Widget) CanSend() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state == StateIdle && strings.TrimSpace(w.input) != ""
}

// Messages devuelve una copia del transcript en orden de inserción.
func (w *Widget) Messages() []domain.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]domain.Message(nil), w.messages...)
}

// Submit envía el input actual.
func (w *Widget) Submit(ctx context.Context) bool {
	return w.Send(ctx, w.Input())
}

// Send añade el mensaje del usuario y despacha un borrador de correo local o
// una pregunta al proxy. Devuelve false si se ignoró.
func (w *Widget) Send(ctx context.Context, text string) bool {
	w.mu.Lock()
	if strings.TrimSpace(text) == "" || w.state != StateIdle {
		w.mu.Unlock()
		return false
	}
	w.appendLocked("user", domain.SenderUser, text)
	w.input = ""
	w.state = StateSending
	w.unlockAndRender()

	// Cerrar el panel no cancela la petición en curso.
	ctx = context.WithoutCancel(ctx)

	var (
		kind  string
		reply string
		next  = StateIdle
	)
	if draft, isCommand, err := email.ParseDraftCommand(text); isCommand {
		kind, reply = w.handleDraft(draft, err)
	} else {
		kind, reply, next = w.handleQuestion(ctx, text)
	}

	w.mu.Lock()
	w.appendLocked(kind, domain.SenderAI, reply)
	w.state = next
	w.unlockAndRender()
	return true
}

func (w *Widget) handleDraft(draft email.Draft, err error) (string, string) {
	switch {
	case errors.Is(err, email.ErrDraftFormat):
		return "error", draftFormatText
	case err != nil:
		return "error", draftMissingText
	}

	w.sleep(w.draftDelay)
	return "email", draft.Confirmation(w.owner)
}

func (w *Widget) handleQuestion(ctx context.Context, question string) (string, string, State) {
	res := w.client.Ask(ctx, domain.ChatRequest{
		Question:  question,
		SessionID: w.sessionID,
	})
	if !res.OK() {
		w.logger.Warn("chat request failed",
			zap.String("reason", string(res.Failure.Reason)),
			zap.Error(res.Failure.Err),
			zap.String("session_id", w.sessionID),
		)
		return "error", errorText, StateError
	}

	answer := res.Answer
	if answer == "" {
		answer = emptyAnswerText
	}
	return "ai", answer, StateIdle
}

func (w *Widget) appendLocked(kind string, sender domain.Sender, content string) {
	now := w.now()
	w.messages = append(w.messages, domain.Message{
		ID:        newMessageID(kind, now),
		Content:   content,
		Sender:    sender,
		Timestamp: now,
	})
}

// unlockAndRender libera el lock y notifica fuera de él para que el renderer pueda leer el widget.
func (w *Widget) unlockAndRender() {
	render := w.render
	open := w.open
	state := w.state
	snapshot := append([]domain.Message(nil), w.messages...)
	w.mu.Unlock()

	if render != nil && open {
		render(snapshot, state)
	}
}

func newMessageID(kind string, now time.Time) string {
	return fmt.Sprintf("%s_%d_%s", kind, now.UnixMilli(), strings.ReplaceAll(uuid.NewString(), "-", "")[:9])
}
