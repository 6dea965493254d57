// +build ignore

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/split-the-distance/internal/domain"
)

// Publishes one trip change event and waits until the distance worker acks it.
//
//	go run scripts/test_publish.go -trip <uuid> [-location <uuid>]
func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address")
	group := flag.String("group", "trip-distance-workers", "Worker consumer group")
	trip := flag.String("trip", "", "Trip ID")
	location := flag.String("location", "", "Location ID; empty sends a member origin change")
	flag.Parse()

	tripID, err := uuid.Parse(*trip)
	if err != nil {
		log.Fatalf("Invalid trip id: %v", err)
	}

	event := domain.ChangeEvent{
		TripID:   tripID,
		Kind:     domain.EntityMember,
		EntityID: uuid.New(),
		Action:   domain.ActionOriginUpdated,
		At:       time.Now().UTC(),
	}
	if *location != "" {
		locationID, err := uuid.Parse(*location)
		if err != nil {
			log.Fatalf("Invalid location id: %v", err)
		}
		event.Kind = domain.EntityLocation
		event.EntityID = locationID
		event.Action = domain.ActionCreated
	}

	client := redis.NewClient(&redis.Options{Addr: *redisAddr})
	defer client.Close()

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	id, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: domain.StreamTripEvents,
		Values: map[string]interface{}{"data": string(data)},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("Event published\n")
	fmt.Printf("   Stream: %s\n", domain.StreamTripEvents)
	fmt.Printf("   Message ID: %s\n", id)
	fmt.Printf("   Kind: %s/%s\n", event.Kind, event.Action)

	fmt.Printf("\nWaiting for group %s to ack...\n", *group)

	timeout := time.After(30 * time.Second)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			fmt.Println("Timeout waiting for ack")
			return
		case <-ticker.C:
			groups, err := client.XInfoGroups(ctx, domain.StreamTripEvents).Result()
			if err != nil {
				continue
			}
			for _, g := range groups {
				if g.Name != *group {
					continue
				}
				if g.LastDeliveredID >= id && g.Pending == 0 {
					fmt.Printf("Acked (last delivered %s)\n", g.LastDeliveredID)
					return
				}
			}
		}
	}
}
