package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"TimezoneBot/internal/config"
	"TimezoneBot/internal/engine"
	"TimezoneBot/internal/httpserver"
	"TimezoneBot/internal/llm"
	"TimezoneBot/internal/storage"
	"TimezoneBot/internal/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if u, err := url.Parse(cfg.Database.URL); err == nil {
		log.Printf("DB host=%s port=%s db=%s", u.Hostname(), u.Port(), strings.TrimPrefix(u.Path, "/"))
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Authorized on account %s\n", bot.Self.UserName)
	cmds := []tgbotapi.BotCommand{
		{Command: "start", Description: "Help / Помощь"},
		{Command: "tz", Description: "Set your timezone (city or IANA zone)"},
		{Command: "monitor", Description: "Watch this group for times (on | off)"},
		{Command: "tzlist", Description: "Group timezones (add | remove | show)"},
		{Command: "dm", Description: "Direct messages from the bot (on | off)"},
		{Command: "mute", Description: "Stop reacting to your messages"},
		{Command: "feedback", Description: "Send feedback"},
		{Command: "delete_me", Description: "Delete my data"},
	}
	if _, err := bot.Request(tgbotapi.NewSetMyCommands(cmds...)); err != nil {
		log.Printf("setMyCommands: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	store, err := storage.New(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("store failed: %v", err)
	}
	defer store.Close()

	if err := waitForDB(context.Background(), store.Ping); err != nil {
		log.Fatalf("db not ready: %v", err)
	}
	if err := store.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("schema: %v", err)
	}

	var parser engine.Parser = engine.RegexParser{}
	if cfg.LLM.APIKey != "" {
		provider := llm.NewProvider(llm.Config{
			BaseURL:    cfg.LLM.BaseURL,
			APIKey:     cfg.LLM.APIKey,
			ChatModel:  cfg.LLM.ChatModel,
			MaxRetries: cfg.LLM.MaxRetries,
			Timeout:    cfg.LLM.Timeout,
		})
		parser = llm.NewHybrid(provider)
		log.Printf("LLM fallback enabled (model=%s)", cfg.LLM.ChatModel)
	}

	eng := engine.New(parser, store.Profiles(), store.Groups(), store.Members(), store.Events(), store, cfg.Limits.MaxTargets)
	handler := &telegram.Handler{Bot: bot, Store: store, Engine: eng}

	params := tgbotapi.Params{}
	params.AddNonEmpty("url", cfg.Telegram.SelfURL+"/webhook")
	params.AddNonEmpty("secret_token", cfg.Telegram.WebhookSecret)
	params.AddBool("drop_pending_updates", true)

	resp, err := bot.MakeRequest("setWebhook", params)
	if err != nil {
		log.Fatalf("setWebhook failed: %v", err)
	}
	if !resp.Ok {
		log.Fatalf("setWebhook rejected: %s", resp.Description)
	}

	updates := make(chan tgbotapi.Update, 100)

	for i := 0; i < cfg.Telegram.Workers; i++ {
		go func() {
			for update := range updates {
				telegram.HandleUpdate(handler, update)
			}
		}()
	}

	router := httpserver.New(cfg.Telegram.WebhookSecret, updates)
	log.Printf("HTTP server listening on :%s", cfg.Telegram.Port)
	if err := http.ListenAndServe(":"+cfg.Telegram.Port, router); err != nil {
		log.Fatalf("http server error: %v", err)
	}
}

func waitForDB(ctx context.Context, ping func(context.Context) error) error {
	backoff := []time.Duration{
		500 * time.Millisecond,
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		15 * time.Second,
	}
	for i, d := range backoff {
		c, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := ping(c)
		cancel()
		if err == nil {
			return nil
		}
		log.Printf("db ping failed (%d/%d): %v, retry in %v", i+1, len(backoff), err, d)
		time.Sleep(d)
	}
	return fmt.Errorf("database not reachable after retries")
}
