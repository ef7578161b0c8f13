package tgbot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"

	"github.com/bigredeye/temrin/internal/config"
	lf "github.com/bigredeye/temrin/internal/logfield"
	"github.com/bigredeye/temrin/internal/models"
	"github.com/bigredeye/temrin/internal/stats"
	"github.com/bigredeye/temrin/internal/students"
)

const maxFoundStudents = 20

type Bot struct {
	bot      *tgbotapi.BotAPI
	log      *zap.Logger
	conf     *config.Config
	students *students.Service
}

func NewBot(conf *config.Config, log *zap.Logger, students *students.Service) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(conf.Telegram.BotToken)
	if err != nil {
		return nil, err
	}
	return &Bot{bot, log.With(lf.Module("tgbot")), conf, students}, nil
}

func (b *Bot) Run(ctx context.Context) {
	b.log.Info("Authorized on account", zap.String("username", b.bot.Self.UserName))

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.bot.GetUpdatesChan(u)
	defer b.bot.StopReceivingUpdates()

	for {
		select {
		case update := <-updates:
			if err := b.handleUpdate(ctx, update); err != nil {
				b.log.Error("Failed to handle update", zap.Error(err), zap.Int("update_id", update.UpdateID))
			}
		case <-ctx.Done():
			return
		}
	}
}

func (b *Bot) allowed(chatID int64) bool {
	if len(b.conf.Telegram.AllowedChats) == 0 {
		return true
	}
	return slices.Contains(b.conf.Telegram.AllowedChats, chatID)
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	if update.Message == nil || !update.Message.IsCommand() {
		return nil
	}
	chatID := update.Message.Chat.ID
	b.log.Info("Got command",
		zap.String("user", update.Message.From.UserName),
		zap.String("command", update.Message.Command()),
		lf.ChatID(chatID),
	)

	if !b.allowed(chatID) {
		b.log.Warn("Command from unknown chat", lf.ChatID(chatID))
		return nil
	}

	text := ""
	switch update.Message.Command() {
	case "stats":
		text = FormatStats(stats.Compute(b.students.List(ctx)))
	case "find":
		term := strings.TrimSpace(update.Message.CommandArguments())
		if term == "" {
			text = "Kullanım: /find <ad veya numara>"
		} else {
			text = FormatStudents(b.students.Search(ctx, term))
		}
	default:
		text = "Komutlar: /stats, /find <ad veya numara>"
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyToMessageID = update.Message.MessageID

	_, err := b.bot.Send(msg)
	return err
}

func FormatStats(class *stats.ClassStats) string {
	if class == nil {
		return "Analiz için henüz yeterli veri yok."
	}

	sb := strings.Builder{}
	fmt.Fprintf(&sb, "Toplam Öğrenci: %d\n", class.TotalStudents)
	fmt.Fprintf(&sb, "Sınıf Ortalaması: %.1f\n", class.ClassAverage)
	fmt.Fprintf(&sb, "Başarı Oranı (50+): %%%.0f\n", class.PassRate)
	fmt.Fprintf(&sb, "En Yüksek Temrin: %s\n", class.TopExercise)
	for _, e := range class.Exercises {
		fmt.Fprintf(&sb, "%s: %d\n", e.Name, e.Score)
	}
	fmt.Fprintf(&sb, "%s: %d, %s: %d",
		models.GenderMale, class.GenderCount(models.GenderMale),
		models.GenderFemale, class.GenderCount(models.GenderFemale),
	)
	return sb.String()
}

func FormatStudents(list []models.Student) string {
	if len(list) == 0 {
		return "Kayıtlı öğrenci bulunamadı."
	}

	sb := strings.Builder{}
	for i, s := range list {
		if i == maxFoundStudents {
			fmt.Fprintf(&sb, "... ve %d öğrenci daha", len(list)-maxFoundStudents)
			break
		}
		mark := "✗"
		if stats.Passed(&s) {
			mark = "✓"
		}
		fmt.Fprintf(&sb, "%s %s - %.1f %s\n", s.StudentNo, s.FullName, s.Average, mark)
	}
	return strings.TrimRight(sb.String(), "\n")
}
