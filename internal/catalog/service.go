// Package catalog owns the in-memory restaurant and reservation lists,
// the filter criteria, and the booking workflow. The displayed list is
// always a pure function of (fetched restaurants, criteria, location);
// filter mutations never write back into the fetched data.
package catalog

import (
	"context"
	"sync"
	"time"

	"restaurante/internal/api"
	"restaurante/internal/events"
	"restaurante/internal/geo"
	"restaurante/internal/location"
	"restaurante/internal/metrics"
	"restaurante/internal/models"
	"restaurante/internal/tokenstore"

	"github.com/rs/zerolog"
)

// Service is the data holder behind the search and reservation screens.
type Service struct {
	client api.Client
	tokens *tokenstore.Store
	feed   *location.Feed
	bus    *events.Bus
	logger zerolog.Logger
	tz     *time.Location
	now    func() time.Time

	lastErr *events.Value[error]

	mu           sync.Mutex
	restaurants  []models.Restaurant
	reservations []models.Reservation // server order; exposed reversed
	filters      models.Filters
	position     *geo.Point

	noPeople              int
	selectedTime          models.Minutes
	selectedRestaurantID  int64
	selectedReservationID int64
}

// New builds the service and subscribes it to token and location changes:
// a token appearing triggers a fetch of both lists, a token clearing
// drops them.
func New(client api.Client, tokens *tokenstore.Store, feed *location.Feed, bus *events.Bus, tz *time.Location, logger *zerolog.Logger) *Service {
	s := &Service{
		client:       client,
		tokens:       tokens,
		feed:         feed,
		bus:          bus,
		logger:       logger.With().Str("component", "catalog").Logger(),
		tz:           tz,
		now:          time.Now,
		lastErr:      events.NewValue[error](),
		filters:      models.DefaultFilters(),
		noPeople:     models.DefaultNoPeople,
		selectedTime: models.InFiveMinutes,
	}
	if s.tz == nil {
		s.tz = time.Local
	}

	tokens.Subscribe(func(token *string) {
		if token != nil {
			ctx := context.Background()
			s.FetchRestaurants(ctx)
			s.FetchReservations(ctx)
			return
		}
		s.mu.Lock()
		s.restaurants = nil
		s.reservations = nil
		s.mu.Unlock()
	})

	if feed != nil {
		feed.Subscribe(func(p *geo.Point) {
			s.mu.Lock()
			s.position = p
			s.mu.Unlock()
		})
	}

	return s
}

// LastError returns the most recent operation failure.
func (s *Service) LastError() error {
	err, _ := s.lastErr.Current()
	return err
}

// SubscribeErrors registers fn for error slot updates.
func (s *Service) SubscribeErrors(fn func(error)) (cancel func()) {
	return s.lastErr.Subscribe(fn)
}

//
// Fetching

// FetchRestaurants replaces the catalog wholesale. Failure keeps the
// previous list.
func (s *Service) FetchRestaurants(ctx context.Context) {
	restaurants, err := s.client.GetRestaurants(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("fetch restaurants")
		s.lastErr.Publish(err)
		return
	}

	s.logger.Info().Int("count", len(restaurants)).Msg("fetched restaurants")
	s.mu.Lock()
	s.restaurants = restaurants
	s.mu.Unlock()
}

// FetchReservations replaces the reservation list wholesale. Any failure
// is treated as session expiry: the account token is cleared locally.
func (s *Service) FetchReservations(ctx context.Context) {
	reservations, err := s.client.GetReservations(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("fetch reservations, assuming expired session")
		s.lastErr.Publish(err)
		s.tokens.Remove()
		_ = s.bus.PublishJSON(events.EventSessionExpired, map[string]string{"reason": err.Error()})
		return
	}

	s.mu.Lock()
	prev := make(map[int64]models.ReservationStatus, len(s.reservations))
	for _, r := range s.reservations {
		prev[r.ID] = r.Status
	}
	s.reservations = reservations
	s.mu.Unlock()

	s.logger.Info().Int("count", len(reservations)).Msg("fetched reservations")

	for _, r := range reservations {
		old, known := prev[r.ID]
		if !known || old == r.Status {
			continue
		}
		metrics.IncStatusChange(r.Status.Name())
		_ = s.bus.PublishJSON(events.EventReservationStatusChanged, events.ReservationEventPayload{
			ReservationID: r.ID,
			RestaurantID:  r.RestaurantID,
			Status:        int(r.Status),
			StatusName:    r.Status.Name(),
			NoPeople:      r.NoPeople,
			Date:          r.Date,
			PrevStatus:    int(old),
		})
	}
}

//
// Read access

// Restaurants returns a copy of the fetched catalog.
func (s *Service) Restaurants() []models.Restaurant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Restaurant(nil), s.restaurants...)
}

// Reservations returns the fetched reservations reversed, approximating
// most-recent-first from server insertion order.
func (s *Service) Reservations() []models.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Reservation, 0, len(s.reservations))
	for i := len(s.reservations) - 1; i >= 0; i-- {
		out = append(out, s.reservations[i])
	}
	return out
}

// Filtered applies the current criteria to the catalog. All predicates
// AND together; an unset predicate passes everything, and relative order
// is preserved.
func (s *Service) Filtered() []models.Restaurant {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := make([]models.Restaurant, 0, len(s.restaurants))
	for _, r := range s.restaurants {
		if s.matches(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// matches holds the mu lock via its callers.
func (s *Service) matches(r models.Restaurant) bool {
	if len(s.filters.OnlyTypes) > 0 && !s.filters.HasType(r.FoodType) {
		return false
	}
	if s.filters.OnlyTopRated && r.AvgScore < models.TopRatedScore {
		return false
	}
	if s.filters.OnlyWithTerrace && !r.HasTerrace {
		return false
	}
	// OnlyFavorites passes everything: no favorites data source exists yet.

	// The distance predicate only runs with a known, non-origin position.
	if s.position != nil && !s.position.IsZero() {
		if geo.Distance(*s.position, r.Coordinates) > s.filters.MaxDistance {
			return false
		}
	}

	if r.AvgScore < s.filters.MinAvgScore {
		return false
	}
	if r.AvgPrice > s.filters.MaxAvgPrice {
		return false
	}
	return true
}

// SelectedRestaurant resolves the held id against the current catalog,
// nil when it matches nothing (e.g. after a refresh).
func (s *Service) SelectedRestaurant() *models.Restaurant {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.restaurants {
		if s.restaurants[i].ID == s.selectedRestaurantID {
			r := s.restaurants[i]
			return &r
		}
	}
	return nil
}

// SelectedReservation resolves the held id against the current list.
func (s *Service) SelectedReservation() *models.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.reservations {
		if s.reservations[i].ID == s.selectedReservationID {
			r := s.reservations[i]
			return &r
		}
	}
	return nil
}

// SelectedReservationID returns the held reservation id.
func (s *Service) SelectedReservationID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedReservationID
}

//
// Filter criteria

// Filters returns a copy of the current criteria.
func (s *Service) Filters() models.Filters {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.filters
	f.OnlyTypes = append([]models.FoodType(nil), s.filters.OnlyTypes...)
	return f
}

func (s *Service) SetOnlyTopRated(v bool) {
	s.mu.Lock()
	s.filters.OnlyTopRated = v
	s.mu.Unlock()
}

func (s *Service) SetOnlyWithTerrace(v bool) {
	s.mu.Lock()
	s.filters.OnlyWithTerrace = v
	s.mu.Unlock()
}

func (s *Service) SetOnlyFavorites(v bool) {
	s.mu.Lock()
	s.filters.OnlyFavorites = v
	s.mu.Unlock()
}

func (s *Service) SetMinAvgScore(v float64) {
	s.mu.Lock()
	s.filters.MinAvgScore = v
	s.mu.Unlock()
}

func (s *Service) SetMaxAvgPrice(v float64) {
	s.mu.Lock()
	s.filters.MaxAvgPrice = v
	s.mu.Unlock()
}

func (s *Service) SetMaxDistance(v float64) {
	s.mu.Lock()
	s.filters.MaxDistance = v
	s.mu.Unlock()
}

// ToggleFoodType adds ft to the selected type set, or removes it when
// already present.
func (s *Service) ToggleFoodType(ft models.FoodType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.filters.OnlyTypes {
		if t == ft {
			s.filters.OnlyTypes = append(s.filters.OnlyTypes[:i], s.filters.OnlyTypes[i+1:]...)
			return
		}
	}
	s.filters.OnlyTypes = append(s.filters.OnlyTypes, ft)
}

// ClearFilters restores every criterion to its default.
func (s *Service) ClearFilters() {
	s.mu.Lock()
	s.filters = models.DefaultFilters()
	s.mu.Unlock()
}

//
// Booking draft

// SelectRestaurant records the restaurant a booking draft targets.
func (s *Service) SelectRestaurant(id int64) {
	s.mu.Lock()
	s.selectedRestaurantID = id
	s.mu.Unlock()
}

// SetNoPeople sets the draft party size.
func (s *Service) SetNoPeople(n int) {
	s.mu.Lock()
	s.noPeople = n
	s.mu.Unlock()
}

// SetSelectedTime sets the draft minute offset.
func (s *Service) SetSelectedTime(m models.Minutes) {
	s.mu.Lock()
	s.selectedTime = m
	s.mu.Unlock()
}

// PostReservation submits the current draft: the requested time is the
// selected offset from now, formatted in the backend's layout and zone.
// On success the reservation list is refetched once and the new id
// becomes the selected reservation.
func (s *Service) PostReservation(ctx context.Context) {
	s.mu.Lock()
	restaurantID := s.selectedRestaurantID
	noPeople := s.noPeople
	offset := time.Duration(s.selectedTime) * time.Minute
	s.mu.Unlock()

	date := s.now().In(s.tz).Add(offset).Format(models.ReservationDateLayout)

	id, err := s.client.CreateReservation(ctx, restaurantID, noPeople, date)
	if err != nil {
		// No rollback: the draft stays as-is and only the error slot
		// carries the failure.
		s.logger.Error().Err(err).Int64("restaurant_id", restaurantID).Msg("post reservation")
		s.lastErr.Publish(err)
		return
	}

	s.logger.Info().Int64("reservation_id", id).Str("date", date).Msg("reservation created")
	_ = s.bus.PublishJSON(events.EventReservationCreated, events.ReservationEventPayload{
		ReservationID: id,
		RestaurantID:  restaurantID,
		NoPeople:      noPeople,
		Date:          date,
	})

	s.FetchReservations(ctx)

	s.mu.Lock()
	s.selectedReservationID = id
	s.mu.Unlock()
}

// CancelReservation withdraws a reservation; success refetches the list,
// failure only surfaces the error.
func (s *Service) CancelReservation(ctx context.Context, id int64) {
	message, err := s.client.CancelReservation(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("reservation_id", id).Msg("cancel reservation")
		s.lastErr.Publish(err)
		return
	}

	s.logger.Info().Int64("reservation_id", id).Str("message", message).Msg("reservation canceled")
	_ = s.bus.PublishJSON(events.EventReservationCanceled, events.ReservationEventPayload{
		ReservationID: id,
	})

	s.FetchReservations(ctx)
}
