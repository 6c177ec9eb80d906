package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/betatools/tracker-backend/internal/config"
	"github.com/betatools/tracker-backend/internal/models"
	"github.com/google/uuid"
)

const (
	colorRed   = 0xED4245
	colorGreen = 0x57F287
	colorGold  = 0xFEE75C
	colorBlue  = 0x5865F2
)

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color"`
	Fields      []embedField `json:"fields,omitempty"`
	Footer      struct {
		Text string `json:"text"`
	} `json:"footer"`
	Timestamp string `json:"timestamp"`
}

type webhookPayload struct {
	Embeds []embed `json:"embeds"`
}

// WebhookNotifier posts embed payloads to per-kind chat webhook URLs.
// Destinations with an empty URL are skipped.
type WebhookNotifier struct {
	client *http.Client

	reportURL   string
	approvedURL string
	rewardURL   string
	archiveURL  string
	purchaseURL string
}

func NewWebhookNotifier(cfg *config.Config) *WebhookNotifier {
	return &WebhookNotifier{
		client:      &http.Client{Timeout: 10 * time.Second},
		reportURL:   cfg.ReportWebhookURL,
		approvedURL: cfg.ApprovedWebhookURL,
		rewardURL:   cfg.RewardWebhookURL,
		archiveURL:  cfg.ArchiveWebhookURL,
		purchaseURL: cfg.PurchaseWebhookURL,
	}
}

func (n *WebhookNotifier) ReportCreated(report *models.Report) error {
	e := reportEmbed("New Bug Report: "+report.Title, colorRed, report)
	e.Footer.Text = fmt.Sprintf("Bug Report ID: %d", report.ID)
	return n.post(n.reportURL, e)
}

func (n *WebhookNotifier) ReportApproved(report *models.Report, amount int64, recipient uuid.UUID, actor uuid.UUID) error {
	reward := embed{
		Title:       "Reward!",
		Description: fmt.Sprintf("Gave **%d** point(s) to <@%s> for reporting a bug.", amount, recipient),
		Color:       colorGold,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
	reward.Fields = []embedField{
		{Name: "Bug Title", Value: report.Title},
		{Name: "Bug ID", Value: fmt.Sprintf("%d", report.ID), Inline: true},
	}
	reward.Footer.Text = "Approved by " + actor.String()
	if err := n.post(n.rewardURL, reward); err != nil {
		return err
	}

	e := reportEmbed("Approved Bug Report: "+report.Title, colorGreen, report)
	e.Footer.Text = fmt.Sprintf("Bug Report ID: %d", report.ID)
	return n.post(n.approvedURL, e)
}

func (n *WebhookNotifier) ReportDeclined(report *models.Report, actor uuid.UUID) error {
	e := reportEmbed("DECLINED", colorRed, report)
	e.Description = fmt.Sprintf("Bug Report #%d has been declined.", report.ID)
	e.Footer.Text = fmt.Sprintf("Declined by: %s - Bug Report ID: %d", actor, report.ID)
	return n.post(n.archiveURL, e)
}

func (n *WebhookNotifier) ReportFixed(report *models.Report, actor uuid.UUID) error {
	e := reportEmbed("FIXED", colorGreen, report)
	e.Footer.Text = fmt.Sprintf("Fixed by: %s - Bug Report ID: %d", actor, report.ID)
	return n.post(n.archiveURL, e)
}

func (n *WebhookNotifier) PurchaseCompleted(purchase *models.Purchase) error {
	e := embed{
		Title: "New Purchase!",
		Description: fmt.Sprintf(
			"<@%s> has bought **%s** for **%d** points\n\nIn-game Name provided: `%s`",
			purchase.UserID, purchase.ItemName, purchase.Price, purchase.IGN,
		),
		Color:     colorBlue,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	e.Footer.Text = "User ID: " + purchase.UserID.String()
	return n.post(n.purchaseURL, e)
}

func reportEmbed(title string, color int, report *models.Report) embed {
	e := embed{
		Title:     title,
		Color:     color,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	e.Fields = []embedField{
		{Name: "Reporter", Value: fmt.Sprintf("<@%s>", report.ReporterID)},
	}
	if report.OriginalReporterID != nil {
		e.Fields = append(e.Fields, embedField{Name: "Original Reporter", Value: fmt.Sprintf("<@%s>", *report.OriginalReporterID)})
	}
	e.Fields = append(e.Fields,
		embedField{Name: "Category", Value: string(report.Category), Inline: true},
		embedField{Name: "Severity", Value: string(report.Severity), Inline: true},
		embedField{Name: "Status", Value: string(report.Status), Inline: true},
		embedField{Name: "Reported At", Value: report.ReportedAt, Inline: true},
		embedField{Name: "Description", Value: report.Description},
		embedField{Name: "Steps to Reproduce", Value: report.ReproductionSteps},
	)
	return e
}

func (n *WebhookNotifier) post(url string, embeds ...embed) error {
	if url == "" {
		return nil
	}

	body, err := json.Marshal(webhookPayload{Embeds: embeds})
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	resp, err := n.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook delivery failed: status %d", resp.StatusCode)
	}
	return nil
}
