package opsnotif

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"
)

var (
	instance *OpsNotifier
	once     sync.Once
)

// OpsNotifier posts non-critical operational alerts (orphaned channels,
// unexpected consistency repairs) to a webhook. Failures are logged and never
// propagate into the flow that raised the alert.
type OpsNotifier struct {
	webhookURL  string
	environment string
	appName     string
	mu          sync.RWMutex
}

// Init initializes the global ops notifier instance
func Init(webhookURL, environment string) {
	once.Do(func() {
		instance = &OpsNotifier{
			webhookURL:  webhookURL,
			environment: environment,
			appName:     "Modmail",
		}
	})
}

// New sends an operational alert for the given guild
func New(guildID string, message string) {
	if instance == nil {
		log.Printf("⚠️ Ops notifier not initialized, skipping notification: %s", message)
		return
	}

	instance.send(guildID, message)
}

func (n *OpsNotifier) send(guildID string, message string) {
	if n.webhookURL == "" {
		return // Ops notifications disabled
	}

	n.mu.RLock()
	defer n.mu.RUnlock()

	// Send notification asynchronously to avoid blocking
	go n.sendWebhookNotification(guildID, message)
}

func (n *OpsNotifier) sendWebhookNotification(guildID string, message string) {
	fields := []map[string]any{
		{"type": "mrkdwn", "text": fmt.Sprintf("*Service:* %s", n.appName)},
		{"type": "mrkdwn", "text": fmt.Sprintf("*Environment:* %s", n.environment)},
	}

	if guildID != "" {
		fields = append(fields, map[string]any{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Guild:* `%s`", guildID),
		})
	}

	fields = append(fields, map[string]any{
		"type": "mrkdwn",
		"text": fmt.Sprintf("*Timestamp:* %s", time.Now().Format("2006-01-02 15:04:05 UTC")),
	})

	payload := map[string]any{
		"blocks": []map[string]any{
			{
				"type":   "section",
				"fields": fields,
			},
			{
				"type": "section",
				"text": map[string]any{
					"type": "mrkdwn",
					"text": fmt.Sprintf("🚨 *Alert:*\n%s", message),
				},
			},
		},
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		log.Printf("❌ Failed to marshal ops notification payload: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "POST", n.webhookURL, strings.NewReader(string(payloadBytes)))
	if err != nil {
		log.Printf("❌ Failed to create ops notification request: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Printf("❌ Failed to send ops notification: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("❌ Ops notification failed with status: %d", resp.StatusCode)
		return
	}

	log.Printf("🚨 Ops notification sent: %s", message)
}
