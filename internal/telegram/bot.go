package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"meal-agent/internal/config"
	"meal-agent/internal/llm"
	"meal-agent/internal/metrics"
	"meal-agent/internal/pantry"
	"meal-agent/internal/planner"
	"meal-agent/internal/report"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot wraps the Telegram API, the meal planner, and the pantry importer.
type Bot struct {
	api          *tgbotapi.BotAPI
	textGen      llm.TextGenerator
	importer     *pantry.Importer
	metricsStore *metrics.Store
	planRepo     *planner.PlanRepository
	cfg          *config.Config

	// Per-chat inventory imported via URL, used by subsequent plan requests.
	mu          sync.Mutex
	inventories map[int64][]string
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(
	cfg *config.Config,
	textGen llm.TextGenerator,
	importer *pantry.Importer,
	metricsStore *metrics.Store,
	planRepo *planner.PlanRepository,
) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	webhookURL := cfg.TelegramWebhookURL
	wh, _ := tgbotapi.NewWebhook(webhookURL)
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", webhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:          bot,
		textGen:      textGen,
		importer:     importer,
		metricsStore: metricsStore,
		planRepo:     planRepo,
		cfg:          cfg,
		inventories:  make(map[int64][]string),
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.Message == nil {
		return
	}

	isAllowed := false
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if update.Message.From.ID == id {
			isAllowed = true
			break
		}
	}

	if !isAllowed {
		log.Printf("⚠️ Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	if msg.Text == "/metrics" {
		b.handleMetricsRequest(msg)
		return
	}

	if msg.Text == "/latest" {
		b.handleLatestRequest(msg)
		return
	}

	// A URL imports a pantry inventory; anything else is a plan request.
	if strings.HasPrefix(msg.Text, "http://") || strings.HasPrefix(msg.Text, "https://") {
		b.handleImportRequest(msg)
		return
	}

	b.handlePlannerRequest(msg)
}

func (b *Bot) handleMetricsRequest(msg *tgbotapi.Message) {
	if msg.From.ID != b.cfg.AdminTelegramID {
		b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "⛔ *Access Denied*: Admin only."))
		return
	}
	b.handleMetricsCommand(msg.Chat.ID)
}

func (b *Bot) handleLatestRequest(msg *tgbotapi.Message) {
	ctx := context.Background()
	userID := fmt.Sprintf("%d", msg.From.ID)

	stored, err := b.planRepo.Latest(ctx, userID)
	if err != nil {
		log.Printf("Error fetching latest plan for user %s: %v", userID, err)
		b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "❌ Error fetching your latest plan."))
		return
	}
	if stored == nil {
		b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "No plans yet. Send me your preferences to get one!"))
		return
	}

	planText, shoppingText, err := report.FormatPlanMarkdownParts(stored.PlanData)
	if err != nil {
		log.Printf("Error formatting stored plan %d: %v", stored.ID, err)
		b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "❌ Error formatting your latest plan."))
		return
	}

	header := fmt.Sprintf("_Plan from %s, scored %.1f after %d iteration(s)_\n\n",
		stored.CreatedAt.Format("2006-01-02"), stored.OverallScore, stored.Iterations)

	reply := tgbotapi.NewMessage(msg.Chat.ID, header+planText)
	reply.ParseMode = "Markdown"
	b.api.Send(reply)

	shoppingMsg := tgbotapi.NewMessage(msg.Chat.ID, shoppingText)
	shoppingMsg.ParseMode = "Markdown"
	b.api.Send(shoppingMsg)
}

func (b *Bot) handleImportRequest(msg *tgbotapi.Message) {
	statusText := "🧺 *Importing inventory...* \n(Reading the page and extracting ingredients)"
	replyMsg := tgbotapi.NewMessage(msg.Chat.ID, statusText)
	replyMsg.ParseMode = "Markdown"
	sentMsg, err := b.api.Send(replyMsg)
	if err != nil {
		log.Printf("Failed to send initial reply: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	ingredients, err := b.importer.ImportURL(ctx, msg.Text)
	var finalText string
	if err != nil {
		log.Printf("Error importing inventory: %v", err)
		safeErr := strings.ReplaceAll(err.Error(), "`", "'")
		finalText = fmt.Sprintf("❌ *Error importing inventory:*\n```\n%v\n```", safeErr)
	} else {
		b.mu.Lock()
		b.inventories[msg.Chat.ID] = ingredients
		b.mu.Unlock()
		finalText = fmt.Sprintf("✅ *Inventory imported!* %d ingredients:\n%s\n\nNow send me your preferences to plan the week.",
			len(ingredients), strings.Join(ingredients, ", "))
	}

	edit := tgbotapi.NewEditMessageText(msg.Chat.ID, sentMsg.MessageID, finalText)
	edit.ParseMode = "Markdown"
	b.api.Send(edit)
}

func (b *Bot) handlePlannerRequest(msg *tgbotapi.Message) {
	statusText := "🧑‍🍳 *Thinking...* \n(Generating and scoring your plan)"
	replyMsg := tgbotapi.NewMessage(msg.Chat.ID, statusText)
	replyMsg.ParseMode = "Markdown"
	sentMsg, err := b.api.Send(replyMsg)
	if err != nil {
		log.Printf("Failed to send initial reply: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	log.Printf("Generating plan for request: %s", msg.Text)

	b.mu.Lock()
	inventory := b.inventories[msg.Chat.ID]
	b.mu.Unlock()

	constraints := ParseConstraints(msg.Text)
	if len(constraints.Inventory) == 0 {
		constraints.Inventory = inventory
	}

	observer := &progressObserver{bot: b, chatID: msg.Chat.ID, messageID: sentMsg.MessageID}
	p := planner.NewPlanner(b.textGen, planner.Options{
		MaxIterations:    b.cfg.MaxIterations,
		QualityThreshold: b.cfg.QualityThreshold,
	}, observer)

	result, err := p.PlanMeals(ctx, constraints)

	// Record metrics even if it errored (if we have metas)
	for _, m := range result.Metas {
		if recErr := b.metricsStore.RecordMeta(m); recErr != nil {
			log.Printf("Warning: failed to record metric for %s: %v", m.AgentName, recErr)
		}
		if m.Usage.PromptTokens > 4000 {
			alert := fmt.Sprintf("⚠️ *Context Bloat Alert*\nAgent: %s\nModel: %s\nPrompt Tokens: %d",
				m.AgentName, m.Usage.Model, m.Usage.PromptTokens)
			b.sendAdminAlert(alert)
		}
	}

	if err != nil {
		log.Printf("Error generating plan: %v", err)
		safeErr := strings.ReplaceAll(err.Error(), "`", "'")
		finalText := fmt.Sprintf("❌ *Error generating plan:*\n```\n%v\n```", safeErr)
		edit := tgbotapi.NewEditMessageText(msg.Chat.ID, sentMsg.MessageID, finalText)
		edit.ParseMode = "Markdown"
		b.api.Send(edit)
		return
	}

	userID := fmt.Sprintf("%d", msg.From.ID)
	if _, saveErr := b.planRepo.Save(ctx, userID, result); saveErr != nil {
		log.Printf("Warning: failed to save meal plan for user %s: %v", userID, saveErr)
	}

	planText, shoppingListText, err := report.FormatPlanMarkdownParts(result.Plan)
	if err != nil {
		log.Printf("Error formatting plan: %v", err)
		edit := tgbotapi.NewEditMessageText(msg.Chat.ID, sentMsg.MessageID, "❌ Error formatting the generated plan.")
		b.api.Send(edit)
		return
	}

	final := result.Evaluations[len(result.Evaluations)-1]
	planText += fmt.Sprintf("\n_Quality: %.1f/100 after %d iteration(s)_\n", final.OverallScore, len(result.Evaluations))

	edit := tgbotapi.NewEditMessageText(msg.Chat.ID, sentMsg.MessageID, planText)
	edit.ParseMode = "Markdown"
	b.api.Send(edit)

	shoppingMsg := tgbotapi.NewMessage(msg.Chat.ID, shoppingListText)
	shoppingMsg.ParseMode = "Markdown"
	b.api.Send(shoppingMsg)
}

func (b *Bot) handleMetricsCommand(chatID int64) {
	usage, err := b.metricsStore.GetDailyUsage(7)
	if err != nil {
		b.api.Send(tgbotapi.NewMessage(chatID, "❌ Error fetching metrics."))
		return
	}

	health := metrics.GetSysHealth("data")

	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent LLM Activity*\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		sb.WriteString(fmt.Sprintf("• *%s*: %d tokens (%d execs)\n", d.Date, d.TotalPrompt+d.TotalCompletion, d.TotalExecution))
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Disk Data: %s\n", health.DataDiskSize))

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ParseMode = "Markdown"
	b.api.Send(msg)
}

func (b *Bot) sendAdminAlert(text string) {
	if b.cfg.AdminTelegramID == 0 {
		return
	}
	msg := tgbotapi.NewMessage(b.cfg.AdminTelegramID, text)
	msg.ParseMode = "Markdown"
	b.api.Send(msg)
}

// progressObserver edits the status message as the planning session advances.
type progressObserver struct {
	bot       *Bot
	chatID    int64
	messageID int
}

func (o *progressObserver) IterationStarted(iteration, maxIterations int) {
	o.edit(fmt.Sprintf("🧑‍🍳 *Iteration %d/%d...* \n(Generating a plan)", iteration, maxIterations))
}

func (o *progressObserver) PlanGenerated(iteration int, mode planner.GenerationMode) {
	label := "Scoring the draft"
	if mode == planner.ModeRevision {
		label = "Scoring the revision"
	}
	o.edit(fmt.Sprintf("🧑‍🍳 *Iteration %d...* \n(%s)", iteration, label))
}

func (o *progressObserver) PlanEvaluated(iteration int, eval planner.Evaluation) {
	o.edit(fmt.Sprintf("🧑‍🍳 *Iteration %d scored %.1f/100*", iteration, eval.OverallScore))
}

func (o *progressObserver) edit(text string) {
	edit := tgbotapi.NewEditMessageText(o.chatID, o.messageID, text)
	edit.ParseMode = "Markdown"
	if _, err := o.bot.api.Send(edit); err != nil {
		log.Printf("Failed to update progress message: %v", err)
	}
}
