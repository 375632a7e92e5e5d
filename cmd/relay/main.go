package main

import (
	"log"
	"strconv"

	"github.com/unisearch/api/config"
	"github.com/unisearch/api/relay"
	"github.com/unisearch/api/services/mailer"
)

func main() {
	if err := config.LoadENV(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	getEnv, err := config.Get()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if getEnv.RESEND_API_KEY == "" {
		log.Fatal("RESEND_API_KEY environment variable is not set")
	}

	from := getEnv.EMAIL_FROM
	if from == "" {
		from = "noreply@unisearch.app"
	}
	to := getEnv.EMAIL_TO
	if to == "" {
		log.Fatal("EMAIL_TO environment variable is not set")
	}

	resend := mailer.NewResendClient(getEnv.RESEND_API_KEY)
	server := relay.NewServer(resend, relay.Config{
		From: from,
		To:   to,
	})

	port := strconv.Itoa(getEnv.RELAY_PORT)
	log.Printf("Notification relay listening on port %s", port)
	if err := server.Listen(port); err != nil {
		log.Fatalf("Relay server stopped: %v", err)
	}
}
