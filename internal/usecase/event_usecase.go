package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/marchon-locator/internal/calendar"
	"github.com/marchon-locator/internal/domain"
	"github.com/marchon-locator/internal/layers"
	"github.com/marchon-locator/internal/usecase/dto"
)

// EventUseCase - классификация событий по дате и данные попапа
type EventUseCase struct {
	features  *FeatureSetUseCase
	catalogue *layers.Catalogue
	calendar  CalendarSettings
	logger    *zap.Logger
}

// NewEventUseCase создает EventUseCase
func NewEventUseCase(
	features *FeatureSetUseCase,
	catalogue *layers.Catalogue,
	cal CalendarSettings,
	logger *zap.Logger,
) *EventUseCase {
	return &EventUseCase{
		features:  features,
		catalogue: catalogue,
		calendar:  cal,
		logger:    logger,
	}
}

// Upcoming - будущие события по (ymd, name)
func (uc *EventUseCase) Upcoming(ctx context.Context, q dto.EventQuery) (*dto.UpcomingEventsResponse, error) {
	policy, err := uc.calendar.ResolvePolicy(q.Reference, q.Cutoff, q.GraceDays)
	if err != nil {
		return nil, err
	}

	dataset := uc.features.Resolve(q.Dataset)
	set, err := uc.features.Snapshot(ctx, dataset)
	if err != nil {
		return nil, err
	}

	events := calendar.Upcoming(set.Features, policy)
	if q.Limit > 0 && len(events) > q.Limit {
		events = events[:q.Limit]
	}

	return &dto.UpcomingEventsResponse{
		Dataset: dataset,
		Cutoff:  policy.Cutoff(),
		Events:  events,
	}, nil
}

// Classified - прошедшие и будущие события, оба списка отсортированы
func (uc *EventUseCase) Classified(ctx context.Context, q dto.EventQuery) (*dto.ClassifiedEventsResponse, error) {
	policy, err := uc.calendar.ResolvePolicy(q.Reference, q.Cutoff, q.GraceDays)
	if err != nil {
		return nil, err
	}

	dataset := uc.features.Resolve(q.Dataset)
	set, err := uc.features.Snapshot(ctx, dataset)
	if err != nil {
		return nil, err
	}

	past, future := calendar.Classify(set.Features, policy)
	uc.logger.Debug("Events classified",
		zap.String("dataset", dataset),
		zap.Int("past", len(past)),
		zap.Int("future", len(future)))

	return &dto.ClassifiedEventsResponse{
		Dataset: dataset,
		Cutoff:  policy.Cutoff(),
		Past:    calendar.SortUpcoming(past),
		Future:  calendar.SortUpcoming(future),
	}, nil
}

// FeatureDetail собирает попап: mailto, разобранную дату, метаданные
// первого события в той же локации и слои фичи
func (uc *EventUseCase) FeatureDetail(ctx context.Context, dataset, key string) (*dto.FeatureDetailResponse, error) {
	dataset = uc.features.Resolve(dataset)
	f, err := uc.features.FeatureByKey(ctx, dataset, key)
	if err != nil {
		return nil, err
	}

	resp := &dto.FeatureDetailResponse{
		FeatureResponse: dto.NewFeatureResponse(f),
		Mailto:          f.Properties.Mailto(),
		Layers:          uc.catalogue.LayersOf(f, uc.calendar.Policy()),
	}

	if f.Properties.HasEventDate() {
		if expanded, err := calendar.ExpandDate(f.Properties.EventDate); err == nil {
			resp.ExpandedDate = &expanded
		} else {
			uc.logger.Debug("Unparseable event date",
				zap.String("key", key),
				zap.String("eventDate", f.Properties.EventDate))
		}
	}

	set, err := uc.features.Snapshot(ctx, dataset)
	if err != nil {
		return nil, err
	}
	display := uc.calendar.DisplayPolicy()
	_, events := calendar.Classify(calendar.FutureFeatures(set.Features, display), display)
	location := domain.LocationFromKey(f.Key)
	if f.Properties.Location != "" {
		location = f.Properties.Location
	}
	if meta, ok := calendar.FindByLocation(events, location); ok {
		resp.EventMeta = &meta
	}

	return resp, nil
}
