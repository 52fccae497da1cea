package bot

import (
	"context"
	"fmt"
	"strings"

	"wayfare/internal/guard"
	"wayfare/internal/models"

	"github.com/rs/zerolog"
)

// showHostDashboard lists the host's properties with their incoming
// booking requests. Other roles get bounced back to their own menu.
func (b *Bot) showHostDashboard(ctx context.Context, chatID int64) {
	rt := b.runtime(chatID)
	snap := rt.session.Load(ctx)

	if decision := guard.Role(snap, models.RoleHost); decision.Action != guard.ActionRender {
		b.handleMainMenu(ctx, chatID, "⚠️ Кабинет хозяина доступен только владельцам жилья.")
		return
	}
	client := rt.session.Client()

	stays, err := client.Accommodations(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to list accommodations")
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	var own []models.Accommodation
	for _, stay := range stays {
		if stay.HostID == snap.User.ID {
			own = append(own, stay)
		}
	}
	if len(own) == 0 {
		b.sendMessage(chatID, "У вас пока нет объявлений о жилье.")
		return
	}

	bookings, err := client.HostBookings(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to list host bookings")
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	byStay := make(map[int64][]models.AccommodationBooking)
	for _, bk := range bookings {
		byStay[bk.AccommodationID] = append(byStay[bk.AccommodationID], bk)
	}

	var text strings.Builder
	text.WriteString("🧳 Кабинет хозяина\n\n")
	for _, stay := range own {
		text.WriteString(fmt.Sprintf("🏠 %s — %s\n", stay.Title, stay.Location))
		requests := byStay[stay.ID]
		if len(requests) == 0 {
			text.WriteString("   Заявок нет\n\n")
			continue
		}
		for _, bk := range requests {
			text.WriteString(fmt.Sprintf("   #%d: %s — %s, %d гостей, %.2f ₽ (%s)\n",
				bk.ID, displayDate(bk.CheckIn), displayDate(bk.CheckOut), bk.Guests, bk.TotalPrice, statusLabel(bk.Status)))
		}
		text.WriteString("\n")
	}
	b.sendMessage(chatID, text.String())
}

// showDriverDashboard is the transport counterpart.
func (b *Bot) showDriverDashboard(ctx context.Context, chatID int64) {
	rt := b.runtime(chatID)
	snap := rt.session.Load(ctx)

	if decision := guard.Role(snap, models.RoleDriver); decision.Action != guard.ActionRender {
		b.handleMainMenu(ctx, chatID, "⚠️ Кабинет водителя доступен только водителям.")
		return
	}
	client := rt.session.Client()

	rides, err := client.Transports(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to list transports")
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	var own []models.Transport
	for _, ride := range rides {
		if ride.DriverID == snap.User.ID {
			own = append(own, ride)
		}
	}
	if len(own) == 0 {
		b.sendMessage(chatID, "У вас пока нет объявлений о трансферах.")
		return
	}

	bookings, err := client.DriverBookings(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to list driver bookings")
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	byRide := make(map[int64][]models.TransportBooking)
	for _, bk := range bookings {
		byRide[bk.TransportID] = append(byRide[bk.TransportID], bk)
	}

	var text strings.Builder
	text.WriteString("🚙 Кабинет водителя\n\n")
	for _, ride := range own {
		text.WriteString(fmt.Sprintf("🚗 %s → %s (%s)\n", ride.From, ride.To, ride.VehicleType))
		requests := byRide[ride.ID]
		if len(requests) == 0 {
			text.WriteString("   Заявок нет\n\n")
			continue
		}
		for _, bk := range requests {
			text.WriteString(fmt.Sprintf("   #%d: %s, %d мест, %.2f ₽ (%s)\n",
				bk.ID, displayDate(bk.TravelDate), bk.Seats, bk.TotalPrice, statusLabel(bk.Status)))
		}
		text.WriteString("\n")
	}
	b.sendMessage(chatID, text.String())
}
