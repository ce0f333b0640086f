package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"portfolio-chat/internal/chatclient"
	"portfolio-chat/internal/config"
	"portfolio-chat/internal/domain"
	"portfolio-chat/internal/session"
	"portfolio-chat/internal/widget"
)

func main() {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("abrir almacenamiento de sesion: %v", err)
	}
	defer closeStore()

	sessionID, err := session.EnsureID(ctx, store, nil)
	if err != nil {
		log.Fatalf("obtener session id: %v", err)
	}
	logger.Debug("session ready", zap.String("session_id", sessionID), zap.String("store", cfg.SessionStore))

	printer := &transcriptPrinter{}
	w := widget.New(
		chatclient.New(cfg.ChatAPIURL, nil),
		sessionID,
		widget.WithLogger(logger),
		widget.WithOwnerName(cfg.OwnerName),
		widget.WithDraftDelay(cfg.EmailDraftDelay),
		widget.WithRenderer(printer.Render),
	)

	fmt.Println("---- Chat (/close oculta el panel, /open lo muestra, 'exit' para salir) ----")
	fmt.Println(`Try: "Tell me about the skills" or "email: subject | body"`)
	w.Open()

	for {
		fmt.Print("You > ")
		text, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			return
		}
		text = strings.TrimRight(text, "\r\n")

		switch strings.ToLower(strings.TrimSpace(text)) {
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		case "/open":
			w.Open()
			continue
		case "/close":
			w.Close()
			fmt.Println("(chat panel closed)")
			continue
		}

		if !w.SetInput(text) {
			continue
		}
		w.Submit(ctx)
	}
}

func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (session.Store, func(), error) {
	switch strings.ToLower(cfg.SessionStore) {
	case "memory":
		return session.NewMemoryStore(), func() {}, nil
	case "redis":
		client, err := session.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return session.NewRedisStore(client, ""), func() {
			if err := client.Close(); err != nil {
				logger.Warn("redis close failed", zap.Error(err))
			}
		}, nil
	case "", "file":
		return session.NewFileStore(cfg.SessionFile), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
	}
}

// transcriptPrinter imprime solo los mensajes nuevos desde el último render.
type transcriptPrinter struct {
	mu      sync.Mutex
	printed int
}

func (p *transcriptPrinter) Render(messages []domain.Message, state widget.State) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, m := range messages[p.printed:] {
		switch m.Sender {
		case domain.SenderUser:
			// El usuario ya ve lo que escribió en el prompt.
		default:
			fmt.Printf("AI > %s\n", m.Content)
		}
	}
	p.printed = len(messages)

	if state == widget.StateSending {
		fmt.Println("AI > ...")
	}
}
