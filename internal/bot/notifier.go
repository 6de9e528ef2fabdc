package bot

import (
	"context"
	"fmt"
	"html"
	"log"
	"time"

	tele "gopkg.in/telebot.v3"

	"apagon-map/internal/geo"
	"apagon-map/internal/geocode"
	"apagon-map/internal/models"
	"apagon-map/internal/mq"
)

// ReportNotifier posts report announcements to the configured channel.
type ReportNotifier struct {
	bot       *tele.Bot
	channelID int64
}

func NewReportNotifier(b *tele.Bot, channelID int64) *ReportNotifier {
	return &ReportNotifier{bot: b, channelID: channelID}
}

// NotifyReport sends one announcement and returns the Telegram message id.
func (n *ReportNotifier) NotifyReport(msg mq.ReportCreatedMsg) (int, error) {
	tmpl := msgReportPower
	if msg.PowerStatus == string(models.NoPower) {
		tmpl = msgReportNoPower
	}

	text := fmt.Sprintf(tmpl,
		html.EscapeString(msg.Description),
		geo.FormatCoord(msg.Latitude),
		geo.FormatCoord(msg.Longitude),
	)
	if msg.SectorName != "" {
		text += fmt.Sprintf(msgSectorLine, html.EscapeString(msg.SectorName))
	}
	if addr := lookupAddress(msg.Latitude, msg.Longitude); addr != "" {
		text += fmt.Sprintf(msgAddressLine, html.EscapeString(addr))
	}
	if msg.PhotoURL != "" {
		text += fmt.Sprintf(msgPhotoLine, html.EscapeString(msg.PhotoURL))
	}

	chat := &tele.Chat{ID: n.channelID}
	sent, err := n.bot.Send(chat, text, htmlOpts)
	if err != nil {
		log.Printf("[bot] failed to announce report %d: %v", msg.ReportID, err)
		return 0, err
	}
	return sent.ID, nil
}

// lookupAddress reverse-geocodes the report point; an empty string means the
// announcement goes out with coordinates only.
func lookupAddress(lat, lng float64) string {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := geocode.Reverse(ctx, lat, lng)
	if err != nil {
		log.Printf("[bot] reverse geocode failed: %v", err)
		return ""
	}
	if result == nil {
		return ""
	}
	return result.DisplayName
}
