package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/shubhDEV-11/TWITTER-SELLER-2.0/internal/bot"
	"github.com/shubhDEV-11/TWITTER-SELLER-2.0/internal/config"
	"github.com/shubhDEV-11/TWITTER-SELLER-2.0/internal/payment"
	"github.com/shubhDEV-11/TWITTER-SELLER-2.0/internal/server"
	"github.com/shubhDEV-11/TWITTER-SELLER-2.0/internal/service"
	"github.com/shubhDEV-11/TWITTER-SELLER-2.0/internal/storage"
)

func main() {
	logger := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal(err)
	}
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	store, err := storage.Open(cfg.DataFile, cfg.BackupsDir)
	if err != nil {
		logger.Fatal("open store: ", err)
	}
	shop := service.NewShop(store, cfg.PricePaise)

	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		logger.Fatal("telegram: ", err)
	}
	logger.Infof("Authorized as @%s", api.Self.UserName)

	upi := payment.UPI{PayeeID: cfg.UPIID, PayeeName: cfg.PayeeName}
	b := bot.New(api, &bot.APIFileFetcher{API: api}, shop, store, upi, cfg.AdminID, cfg.AdminContact, logger)

	// Catch interrupt signals
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-c
		logger.Infof("Signal: %s", sig)
		cancel()
	}()

	var updates <-chan tgbotapi.Update
	if cfg.WebhookURL != "" {
		wh, err := tgbotapi.NewWebhook(cfg.WebhookURL + "/bot" + cfg.Token)
		if err != nil {
			logger.Fatal("webhook config: ", err)
		}
		if _, err := api.Request(wh); err != nil {
			logger.Fatal("set webhook: ", err)
		}
		ch := make(chan tgbotapi.Update, 100)
		updates = ch
		go server.New(cfg.Token, api, ch, logger).Start(ctx, ":"+cfg.Port)
		logger.Infof("Webhook: %s/bot<token>", cfg.WebhookURL)
	} else {
		// local / dev mode: long polling, health endpoint only
		if _, err := api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
			logger.Warn("delete webhook: ", err)
		}
		u := tgbotapi.NewUpdate(0)
		u.Timeout = 60
		updates = api.GetUpdatesChan(u)
		go server.New(cfg.Token, nil, nil, logger).Start(ctx, ":"+cfg.Port)
	}

	logger.Info("Bot is running…")
	b.Run(ctx, updates)
	logger.Info("Exiting...")
}
