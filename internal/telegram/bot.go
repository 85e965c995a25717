package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"plateplanner/internal/config"
	"plateplanner/internal/grocery"
	"plateplanner/internal/planner"
	"plateplanner/internal/recipe"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Catalog is the slice of the recipe catalog the bot needs.
type Catalog interface {
	List(ctx context.Context) ([]recipe.Recipe, error)
}

// Bot wraps the Telegram API around the meal planner and grocery list.
type Bot struct {
	api     *tgbotapi.BotAPI
	log     *zap.Logger
	cfg     *config.Config
	catalog Catalog
	plans   planner.PlanStore
	checks  grocery.Store
}

// NewBot initializes the Telegram Bot and sets the webhook.
func NewBot(cfg *config.Config, log *zap.Logger, catalog Catalog, plans planner.PlanStore, checks grocery.Store) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Info("telegram bot authorized", zap.String("account", api.Self.UserName))

	wh, _ := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	resp, err := api.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Info("webhook set", zap.String("response", resp.Description))

	return &Bot{
		api:     api,
		log:     log,
		cfg:     cfg,
		catalog: catalog,
		plans:   plans,
		checks:  checks,
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

// identity maps a Telegram account onto the planner's user identity.
func identity(telegramID int64) string {
	return fmt.Sprintf("tg:%d", telegramID)
}

func (b *Bot) allowed(telegramID int64) bool {
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if telegramID == id {
			return true
		}
	}
	return false
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		b.log.Warn("failed to parse telegram update", zap.Error(err))
		return
	}

	if update.CallbackQuery != nil {
		if b.allowed(update.CallbackQuery.From.ID) {
			go b.handleCallbackQuery(update.CallbackQuery)
		}
		return
	}

	if update.Message == nil {
		return
	}
	if !b.allowed(update.Message.From.ID) {
		b.log.Warn("unauthorized telegram access attempt",
			zap.Int64("from_id", update.Message.From.ID),
			zap.String("username", update.Message.From.UserName))
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	switch {
	case strings.HasPrefix(msg.Text, "/week"):
		b.sendWeek(ctx, msg.Chat.ID, msg.From.ID)
	case strings.HasPrefix(msg.Text, "/generate"):
		b.generateWeek(ctx, msg.Chat.ID, msg.From.ID)
	case strings.HasPrefix(msg.Text, "/grocery"):
		b.sendGroceryList(ctx, msg.Chat.ID, msg.From.ID)
	case strings.HasPrefix(msg.Text, "/export"):
		b.sendExport(ctx, msg.Chat.ID, msg.From.ID)
	case strings.HasPrefix(msg.Text, "/clear"):
		b.clearChecks(ctx, msg.Chat.ID, msg.From.ID)
	default:
		b.reply(msg.Chat.ID, "Commands:\n/week — show your meal plan\n/generate — auto-fill the week\n/grocery — shopping list with check-offs\n/export — shareable list\n/clear — uncheck everything")
	}
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.log.Warn("failed to send telegram message", zap.Error(err))
	}
}

func (b *Bot) sendWeek(ctx context.Context, chatID, fromID int64) {
	p := planner.New(b.plans, identity(fromID))
	if err := p.Load(ctx); err != nil {
		b.log.Error("failed to load plan", zap.Error(err))
		b.reply(chatID, "Could not load your plan right now, try again.")
		return
	}

	week := p.Week()
	if week.Empty() {
		b.reply(chatID, "Your week is empty. Use /generate to fill it.")
		return
	}

	var sb strings.Builder
	for _, day := range planner.Days {
		sb.WriteString(strings.ToUpper(day[:1]) + day[1:])
		sb.WriteString(":\n")
		if len(week[day]) == 0 {
			sb.WriteString("  —\n")
		}
		for _, meal := range week[day] {
			fmt.Fprintf(&sb, "  %s (%d min, %d cal)\n", meal.Title, meal.CookTime, meal.Calories)
		}
	}
	b.reply(chatID, sb.String())
}

func (b *Bot) generateWeek(ctx context.Context, chatID, fromID int64) {
	catalog, err := b.catalog.List(ctx)
	if err != nil {
		b.log.Error("failed to list recipes", zap.Error(err))
		b.reply(chatID, "Could not reach the recipe catalog, try again.")
		return
	}

	p := planner.New(b.plans, identity(fromID))
	if err := p.AutoGenerate(catalog); err != nil {
		if err == planner.ErrInsufficientCatalog {
			b.reply(chatID, "Need at least 7 recipes in the catalog to generate a week.")
			return
		}
		b.reply(chatID, "Could not generate a week, try again.")
		return
	}
	if err := p.Save(ctx); err != nil {
		b.log.Error("failed to save generated plan", zap.Error(err))
		b.reply(chatID, "Generated a week but could not save it, try again.")
		return
	}
	b.sendWeek(ctx, chatID, fromID)
}

// deriveItems builds the reconciled grocery list for a Telegram user.
func (b *Bot) deriveItems(ctx context.Context, fromID int64) ([]grocery.Item, error) {
	p := planner.New(b.plans, identity(fromID))
	if err := p.Load(ctx); err != nil {
		return nil, err
	}

	rec := grocery.NewReconciler(b.checks, identity(fromID))
	if err := rec.Load(ctx); err != nil {
		return nil, err
	}
	return rec.ApplyTo(grocery.Aggregate(p.Week())), nil
}

func (b *Bot) sendGroceryList(ctx context.Context, chatID, fromID int64) {
	items, err := b.deriveItems(ctx, fromID)
	if err != nil {
		b.log.Error("failed to derive grocery list", zap.Error(err))
		b.reply(chatID, "Could not load your grocery list right now, try again.")
		return
	}
	if len(items) == 0 {
		b.reply(chatID, "No items yet — add meals to your planner first.")
		return
	}

	var sb strings.Builder
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, group := range grocery.GroupByCategory(items) {
		fmt.Fprintf(&sb, "%s:\n", group.Category)
		for _, item := range group.Items {
			mark := "◻"
			if item.Checked {
				mark = "✅"
			}
			fmt.Fprintf(&sb, "  %s %s — %s\n", mark, item.Name, strings.Join(item.Quantities, " + "))
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(mark+" "+item.Name, "toggle:"+item.Name),
			))
		}
	}

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Warn("failed to send grocery list", zap.Error(err))
	}
}

func (b *Bot) sendExport(ctx context.Context, chatID, fromID int64) {
	items, err := b.deriveItems(ctx, fromID)
	if err != nil {
		b.log.Error("failed to derive grocery list", zap.Error(err))
		b.reply(chatID, "Could not load your grocery list right now, try again.")
		return
	}
	if len(items) == 0 {
		b.reply(chatID, "Nothing to export yet.")
		return
	}
	b.reply(chatID, strings.Join(grocery.FormatLines(items), "\n"))
}

func (b *Bot) clearChecks(ctx context.Context, chatID, fromID int64) {
	rec := grocery.NewReconciler(b.checks, identity(fromID))
	if err := rec.Load(ctx); err != nil {
		b.log.Error("failed to load check state", zap.Error(err))
		b.reply(chatID, "Could not load your grocery list right now, try again.")
		return
	}
	if err := rec.ClearAll(ctx); err != nil {
		b.log.Warn("check state clear write-through failed", zap.Error(err))
		b.reply(chatID, "Cleared, but the change may not have been saved.")
		return
	}
	b.reply(chatID, "All items unchecked.")
}

func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	key, ok := strings.CutPrefix(query.Data, "toggle:")
	if !ok {
		return
	}

	rec := grocery.NewReconciler(b.checks, identity(query.From.ID))
	if err := rec.Load(ctx); err != nil {
		b.log.Error("failed to load check state", zap.Error(err))
		return
	}

	notice := "Updated " + key
	if err := rec.Toggle(ctx, grocery.NormalizeName(key)); err != nil {
		b.log.Warn("check state write-through failed", zap.Error(err))
		notice = "Updated " + key + " (not saved)"
	}

	callback := tgbotapi.NewCallback(query.ID, notice)
	if _, err := b.api.Request(callback); err != nil {
		b.log.Warn("failed to answer callback", zap.Error(err))
	}

	if query.Message != nil {
		b.sendGroceryList(ctx, query.Message.Chat.ID, query.From.ID)
	}
}
