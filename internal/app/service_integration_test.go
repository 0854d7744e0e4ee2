package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	service "github.com/leaderrank/leaderrank/internal/app"
	"github.com/leaderrank/leaderrank/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service with full integration", t, func() {
		svc := service.New(
			service.WithWorkerCount(2),
			service.WithQueueSize(1000),
			service.WithDedupeSize(500),
		)
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		Convey("When starting the service", func() {
			err := svc.Start(ctx)

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
			})

			Convey("And the service should be running", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
			})
		})

		Convey("When processing events end-to-end", func() {
			err := svc.Start(ctx)
			So(err, ShouldBeNil)

			time.Sleep(100 * time.Millisecond)

			Convey("And enqueueing multiple events", func() {
				events := []model.Event{
					{EventID: "event-1", CustomerID: 1, Delta: 85.0, TS: time.Now()},
					{EventID: "event-2", CustomerID: 2, Delta: 90.0, TS: time.Now()},
					{EventID: "event-3", CustomerID: 1, Delta: 10.0, TS: time.Now()},
				}

				for _, event := range events {
					success := svc.Enqueue(ctx, event)
					So(success, ShouldBeTrue)
				}

				time.Sleep(500 * time.Millisecond)

				Convey("Then events should be processed", func() {
					stats := svc.GetStats()
					So(stats, ShouldNotBeNil)
				})

				Convey("And duplicate events should be detected", func() {
					duplicateEvent := events[0]
					success := svc.Enqueue(ctx, duplicateEvent)
					So(success, ShouldBeTrue)

					stats := svc.GetStats()
					So(stats, ShouldNotBeNil)
				})

				Convey("And the leaderboard should be updated", func() {
					entries, err := svc.GetByRank(ctx, 1, 10)
					So(err, ShouldBeNil)
					So(len(entries), ShouldBeGreaterThan, 0)

					for i := 1; i < len(entries); i++ {
						So(entries[i-1].Score, ShouldBeGreaterThanOrEqualTo, entries[i].Score)
					}
				})

				Convey("And individual neighbor windows should be available", func() {
					entries, err := svc.GetNeighbors(ctx, 1, 1, 1)
					So(err, ShouldBeNil)
					So(len(entries), ShouldBeGreaterThan, 0)

					found := false
					for _, e := range entries {
						if e.CustomerID == 1 {
							found = true
							So(e.Score, ShouldEqual, 95.0)
						}
					}
					So(found, ShouldBeTrue)
				})
			})
		})

		Convey("When handling high-volume events", func() {
			err := svc.Start(ctx)
			So(err, ShouldBeNil)

			time.Sleep(100 * time.Millisecond)

			Convey("And enqueueing many events concurrently", func() {
				numEvents := 100
				events := make([]model.Event, numEvents)

				for i := 0; i < numEvents; i++ {
					events[i] = model.Event{
						EventID:    fmt.Sprintf("bulk-event-%d", i),
						CustomerID: int64(i%10 + 1),
						Delta:      float64(1 + i%50),
						TS:         time.Now(),
					}
				}

				successCount := 0
				for _, event := range events {
					if svc.Enqueue(ctx, event) {
						successCount++
					}
				}

				Convey("Then most events should be enqueued successfully", func() {
					So(successCount, ShouldBeGreaterThan, numEvents/2)
				})

				time.Sleep(1 * time.Second)

				Convey("And the leaderboard should reflect the updates", func() {
					entries, err := svc.GetByRank(ctx, 1, 20)
					So(err, ShouldBeNil)
					So(len(entries), ShouldBeGreaterThan, 0)

					customerIDs := make(map[int64]bool)
					for _, entry := range entries {
						customerIDs[entry.CustomerID] = true
					}
					So(len(customerIDs), ShouldBeGreaterThan, 1)
				})
			})
		})

		Convey("When handling service lifecycle", func() {
			Convey("And starting and stopping multiple times", func() {
				err := svc.Start(ctx)
				So(err, ShouldBeNil)

				time.Sleep(100 * time.Millisecond)

				svc.Stop()

				time.Sleep(100 * time.Millisecond)

				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, false)

				err = svc.Start(ctx)
				So(err, ShouldBeNil)

				time.Sleep(100 * time.Millisecond)

				stats = svc.GetStats()
				So(stats["started"], ShouldEqual, true)
			})
		})

		Convey("When handling edge cases", func() {
			err := svc.Start(ctx)
			So(err, ShouldBeNil)

			time.Sleep(100 * time.Millisecond)

			Convey("And enqueueing events with boundary delta values", func() {
				extremeEvents := []model.Event{
					{EventID: "extreme-1", CustomerID: 99, Delta: 0.0, TS: time.Now()},
					{EventID: "extreme-2", CustomerID: 99, Delta: 1000.0, TS: time.Now()},
					{EventID: "extreme-3", CustomerID: 99, Delta: -100.0, TS: time.Now()},
				}

				for _, event := range extremeEvents {
					success := svc.Enqueue(ctx, event)
					So(success, ShouldBeTrue)
				}

				time.Sleep(500 * time.Millisecond)

				Convey("Then boundary values should be handled", func() {
					stats := svc.GetStats()
					So(stats["started"], ShouldEqual, true)
				})
			})

			Convey("And enqueueing events with very long event ids", func() {
				longID := "very-long-event-id-" + string(make([]byte, 1000))

				event := model.Event{
					EventID:    longID,
					CustomerID: 777,
					Delta:      75.0,
					TS:         time.Now(),
				}

				success := svc.Enqueue(ctx, event)
				So(success, ShouldBeTrue)

				time.Sleep(500 * time.Millisecond)

				Convey("Then long ids should be handled", func() {
					stats := svc.GetStats()
					So(stats["started"], ShouldEqual, true)
				})
			})
		})
	})
}

func TestServiceConcurrency(t *testing.T) {
	Convey("Given a service with concurrent operations", t, func() {
		svc := service.New(
			service.WithWorkerCount(4),
			service.WithQueueSize(2000),
			service.WithDedupeSize(1000),
		)
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := svc.Start(ctx)
		So(err, ShouldBeNil)

		time.Sleep(100 * time.Millisecond)

		Convey("When multiple goroutines enqueue events concurrently", func() {
			numGoroutines := 10
			eventsPerGoroutine := 50
			done := make(chan bool, numGoroutines)

			for i := 0; i < numGoroutines; i++ {
				go func(goroutineID int) {
					for j := 0; j < eventsPerGoroutine; j++ {
						event := model.Event{
							EventID:    fmt.Sprintf("concurrent-event-%d-%d", goroutineID, j),
							CustomerID: int64(goroutineID + 1),
							Delta:      float64(1 + j%50),
							TS:         time.Now(),
						}
						svc.Enqueue(ctx, event)
					}
					done <- true
				}(i)
			}

			for i := 0; i < numGoroutines; i++ {
				<-done
			}

			time.Sleep(2 * time.Second)

			Convey("Then all events should be processed", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)

				entries, err := svc.GetByRank(ctx, 1, 100)
				So(err, ShouldBeNil)
				So(len(entries), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When multiple goroutines query the leaderboard concurrently", func() {
			numGoroutines := 20
			done := make(chan bool, numGoroutines)
			errors := make(chan error, numGoroutines*20)

			for i := 0; i < numGoroutines; i++ {
				go func(goroutineID int) {
					for j := 0; j < 10; j++ {
						entries, err := svc.GetByRank(ctx, 1, 10)
						if err != nil {
							errors <- err
							continue
						}
						if entries == nil {
							errors <- fmt.Errorf("entries is nil")
							continue
						}

						if len(entries) > 0 {
							neighbors, err := svc.GetNeighbors(ctx, entries[0].CustomerID, 1, 1)
							if err != nil {
								errors <- err
								continue
							}
							if len(neighbors) == 0 {
								errors <- fmt.Errorf("neighbors is empty")
								continue
							}
						}
					}
					done <- true
				}(i)
			}

			for i := 0; i < numGoroutines; i++ {
				<-done
			}

			Convey("Then all queries should succeed", func() {
				select {
				case err := <-errors:
					So(err, ShouldBeNil)
				default:
					So(true, ShouldBeTrue)
				}
			})
		})
	})
}

func TestServiceErrorHandling(t *testing.T) {
	Convey("Given a service with error conditions", t, func() {
		svc := service.New(
			service.WithWorkerCount(1),
			service.WithQueueSize(10),
			service.WithDedupeSize(5),
		)
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := svc.Start(ctx)
		So(err, ShouldBeNil)

		time.Sleep(100 * time.Millisecond)

		Convey("When enqueueing events beyond queue capacity", func() {
			successCount := 0
			for i := 0; i < 20; i++ {
				event := model.Event{
					EventID:    fmt.Sprintf("backpressure-event-%d", i),
					CustomerID: int64(i + 1),
					Delta:      float64(1 + i),
					TS:         time.Now(),
				}
				if svc.Enqueue(ctx, event) {
					successCount++
				}
			}

			Convey("Then some events should be rejected due to backpressure", func() {
				So(successCount, ShouldBeLessThan, 20)
				So(successCount, ShouldBeGreaterThan, 0)
			})
		})

		Convey("When querying an absent customer's neighbors", func() {
			entries, err := svc.GetNeighbors(ctx, 999999, 1, 1)

			Convey("Then it should return an empty list, not an error", func() {
				So(err, ShouldBeNil)
				So(entries, ShouldBeEmpty)
			})
		})

		Convey("When querying a non-sensical rank band", func() {
			entries, err := svc.GetByRank(ctx, 500, 10)

			Convey("Then it should return an empty list, not an error", func() {
				So(err, ShouldBeNil)
				So(entries, ShouldBeEmpty)
			})
		})
	})
}

func TestServicePerformance(t *testing.T) {
	Convey("Given a service for performance testing", t, func() {
		svc := service.New(
			service.WithWorkerCount(8),
			service.WithQueueSize(10000),
			service.WithDedupeSize(5000),
		)
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := svc.Start(ctx)
		So(err, ShouldBeNil)

		time.Sleep(100 * time.Millisecond)

		Convey("When processing a large number of events", func() {
			numEvents := 1000
			start := time.Now()

			for i := 0; i < numEvents; i++ {
				event := model.Event{
					EventID:    fmt.Sprintf("perf-event-%d", i),
					CustomerID: int64(i%100 + 1),
					Delta:      float64(1 + i%50),
					TS:         time.Now(),
				}
				svc.Enqueue(ctx, event)
			}

			enqueueTime := time.Since(start)

			time.Sleep(2 * time.Second)

			Convey("Then enqueueing should be fast", func() {
				So(enqueueTime, ShouldBeLessThan, 5*time.Second)
			})

			Convey("And leaderboard queries should be fast", func() {
				start := time.Now()
				entries, err := svc.GetByRank(ctx, 1, 100)
				queryTime := time.Since(start)

				So(err, ShouldBeNil)
				So(len(entries), ShouldBeGreaterThan, 0)
				So(queryTime, ShouldBeLessThan, 100*time.Millisecond)
			})

			Convey("And neighbor queries should be fast", func() {
				start := time.Now()
				entries, err := svc.GetNeighbors(ctx, 1, 2, 2)
				queryTime := time.Since(start)

				So(err, ShouldBeNil)
				So(len(entries), ShouldBeGreaterThan, 0)
				So(queryTime, ShouldBeLessThan, 100*time.Millisecond)
			})
		})
	})
}
