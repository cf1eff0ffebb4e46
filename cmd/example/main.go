package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	backoffice "github.com/MelodiApp/melodia-backoffice-sub000"
	"github.com/MelodiApp/melodia-backoffice-sub000/catalog"
	"github.com/MelodiApp/melodia-backoffice-sub000/internal/datetime"
)

func main() {
	ctx := context.Background()

	cfg := backoffice.DefaultConfig()
	cfg.Features.Scheduling = true
	cfg.Commands.Enabled = true

	module, err := backoffice.New(cfg)
	if err != nil {
		log.Fatalf("initialise backoffice: %v", err)
	}
	svc := module.Catalog()
	handlers, err := module.Commands()
	if err != nil {
		log.Fatalf("command handlers: %v", err)
	}

	song, err := svc.CreateSong(ctx, catalog.CreateSongRequest{
		Title:  "Adios Nonino",
		Artist: "Astor Piazzolla",
	})
	if err != nil {
		log.Fatalf("create song: %v", err)
	}

	curator := "editorial"
	collection, err := svc.CreateCollection(ctx, catalog.CreateCollectionRequest{
		Title:     "Tango Essentials",
		Curator:   &curator,
		SongCount: 12,
	})
	if err != nil {
		log.Fatalf("create collection: %v", err)
	}

	// Block the collection pending a rights review.
	if _, err := svc.ChangeState(ctx, catalog.ChangeStateRequest{
		ItemID:   collection.ID,
		ItemType: catalog.ItemTypeCollection,
		NewState: "BLOCKED",
		Reason:   "rights review pending",
		Actor:    "legal@melodia",
	}); err != nil {
		log.Fatalf("block collection: %v", err)
	}

	// Queue the song for release later today via the command surface.
	releaseAt := time.Now().Add(2 * time.Minute)
	if err := handlers.ScheduleItem.Execute(ctx, backoffice.ScheduleItemCommand{
		ItemID:        song.ID,
		ItemType:      catalog.ItemTypeSong,
		ScheduledDate: datetime.InstantToLocalInput(releaseAt.Format(time.RFC3339)),
		Actor:         "ops@melodia",
	}); err != nil {
		log.Fatalf("schedule song: %v", err)
	}
	scheduled, err := svc.GetSong(ctx, song.ID)
	if err != nil {
		log.Fatalf("reload song: %v", err)
	}

	if err := handlers.PublishDue.Execute(ctx, backoffice.PublishDueCommand{}); err != nil {
		log.Fatalf("process due jobs: %v", err)
	}

	destinations, err := svc.Destinations(ctx, collection.ID, catalog.ItemTypeCollection)
	if err != nil {
		log.Fatalf("destinations: %v", err)
	}

	songHistory, err := svc.History(ctx, song.ID)
	if err != nil {
		log.Fatalf("song history: %v", err)
	}
	collectionHistory, err := svc.History(ctx, collection.ID)
	if err != nil {
		log.Fatalf("collection history: %v", err)
	}

	payload := map[string]any{
		"song": map[string]any{
			"id":              song.ID,
			"slug":            song.Slug,
			"state":           scheduled.State,
			"effective_state": scheduled.EffectiveState,
			"scheduled_at":    scheduled.ScheduledAt,
			"history":         summarizeEvents(songHistory),
		},
		"collection": map[string]any{
			"id":           collection.ID,
			"slug":         collection.Slug,
			"destinations": destinations,
			"history":      summarizeEvents(collectionHistory),
		},
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(payload); err != nil {
		log.Fatalf("encode output: %v", err)
	}
}

func summarizeEvents(events []*catalog.StateChangeEvent) []map[string]any {
	summaries := make([]map[string]any, 0, len(events))
	for _, event := range events {
		if event == nil {
			continue
		}
		summary := map[string]any{
			"recorded_at": event.RecordedAt,
			"actor":       event.Actor,
			"from":        event.PreviousState,
			"to":          event.NewState,
		}
		if event.Reason != nil {
			summary["reason"] = *event.Reason
		}
		summaries = append(summaries, summary)
	}
	return summaries
}
