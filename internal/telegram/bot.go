// Package telegram expone el mismo diálogo sobre un bot de Telegram.
// Transporte opcional: se arranca solo si hay token configurado.
package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"duobot/internal/service"
)

// Bot envuelve el cliente de telebot y enruta mensajes al ChatService.
type Bot struct {
	bot     *tele.Bot
	chatSvc *service.ChatService
	logger  *zap.Logger
}

// NewBot crea el bot con long polling.
func NewBot(token string, chatSvc *service.ChatService, logger *zap.Logger) (*Bot, error) {
	b, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, err
	}
	bot := &Bot{bot: b, chatSvc: chatSvc, logger: logger}
	b.Handle("/start", bot.handleText)
	b.Handle(tele.OnText, bot.handleText)
	return bot, nil
}

// Start bloquea atendiendo updates hasta Stop.
func (b *Bot) Start() {
	b.logger.Info("telegram bot started")
	b.bot.Start()
}

// Stop detiene el poller.
func (b *Bot) Stop() {
	b.bot.Stop()
}

func (b *Bot) handleText(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	uid := fmt.Sprintf("tg_%d", sender.ID)
	text := strings.TrimSpace(c.Text())
	if strings.HasPrefix(text, "/") {
		// Los comandos entran al diálogo como texto plano de saludo.
		text = "hello"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	reply, _ := b.chatSvc.HandleMessage(ctx, uid, sender.FirstName, text)

	return c.Send(reply.Text, optionsMarkup(reply.Options))
}

// optionsMarkup convierte las opciones sugeridas en un teclado de respuesta.
func optionsMarkup(options []string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true, OneTimeKeyboard: true}
	if len(options) == 0 {
		markup.RemoveKeyboard = true
		return markup
	}
	var rows []tele.Row
	for i := 0; i < len(options); i += 2 {
		end := i + 2
		if end > len(options) {
			end = len(options)
		}
		var row tele.Row
		for _, opt := range options[i:end] {
			row = append(row, markup.Text(opt))
		}
		rows = append(rows, row)
	}
	markup.Reply(rows...)
	return markup
}
