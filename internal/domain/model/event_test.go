package model_test

import (
	"testing"
	"time"

	model "github.com/leaderrank/leaderrank/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestEvent(t *testing.T) {
	convey.Convey("Given an Event struct", t, func() {
		convey.Convey("When creating a new event", func() {
			eventID := "event-123"
			var customerID int64 = 456
			delta := 95.5
			ts := time.Now()

			event := model.Event{
				EventID:    eventID,
				CustomerID: customerID,
				Delta:      delta,
				TS:         ts,
			}

			convey.Convey("Then it should have the correct values", func() {
				convey.So(event.EventID, convey.ShouldEqual, eventID)
				convey.So(event.CustomerID, convey.ShouldEqual, customerID)
				convey.So(event.Delta, convey.ShouldEqual, delta)
				convey.So(event.TS, convey.ShouldEqual, ts)
			})
		})

		convey.Convey("When creating an event with zero values", func() {
			event := model.Event{}

			convey.Convey("Then it should have default values", func() {
				convey.So(event.EventID, convey.ShouldEqual, "")
				convey.So(event.CustomerID, convey.ShouldEqual, 0)
				convey.So(event.Delta, convey.ShouldEqual, 0.0)
				convey.So(event.TS, convey.ShouldEqual, time.Time{})
			})
		})

		convey.Convey("When creating an event with a negative delta", func() {
			event := model.Event{
				EventID:    "event-neg",
				CustomerID: 789,
				Delta:      -10.5,
				TS:         time.Now(),
			}

			convey.Convey("Then it should accept negative values", func() {
				convey.So(event.Delta, convey.ShouldEqual, -10.5)
			})
		})

		convey.Convey("When creating an event with a negative customer id", func() {
			event := model.Event{
				EventID:    "event-neg-id",
				CustomerID: -9223372036854775808,
				Delta:      1,
				TS:         time.Now(),
			}

			convey.Convey("Then it should accept math.MinInt64 as a customer id", func() {
				convey.So(event.CustomerID, convey.ShouldEqual, -9223372036854775808)
			})
		})

		convey.Convey("When creating an event with a past timestamp", func() {
			pastTime := time.Now().Add(-24 * time.Hour)
			event := model.Event{
				EventID:    "event-past",
				CustomerID: 222,
				Delta:      75.0,
				TS:         pastTime,
			}

			convey.Convey("Then it should accept past timestamps", func() {
				convey.So(event.TS, convey.ShouldEqual, pastTime)
			})
		})

		convey.Convey("When creating an event with a future timestamp", func() {
			futureTime := time.Now().Add(24 * time.Hour)
			event := model.Event{
				EventID:    "event-future",
				CustomerID: 333,
				Delta:      85.0,
				TS:         futureTime,
			}

			convey.Convey("Then it should accept future timestamps", func() {
				convey.So(event.TS, convey.ShouldEqual, futureTime)
			})
		})
	})
}

func TestCustomerScore(t *testing.T) {
	convey.Convey("Given a CustomerScore struct", t, func() {
		convey.Convey("When creating a new customer score", func() {
			var customerID int64 = 123
			score := 87.5

			customerScore := model.CustomerScore{
				CustomerID: customerID,
				Score:      score,
			}

			convey.Convey("Then it should have the correct values", func() {
				convey.So(customerScore.CustomerID, convey.ShouldEqual, customerID)
				convey.So(customerScore.Score, convey.ShouldEqual, score)
			})
		})

		convey.Convey("When creating a customer score with zero values", func() {
			customerScore := model.CustomerScore{}

			convey.Convey("Then it should have default values", func() {
				convey.So(customerScore.CustomerID, convey.ShouldEqual, 0)
				convey.So(customerScore.Score, convey.ShouldEqual, 0.0)
			})
		})

		convey.Convey("When creating a customer score with a negative score", func() {
			customerScore := model.CustomerScore{
				CustomerID: 456,
				Score:      -15.0,
			}

			convey.Convey("Then it should accept negative scores", func() {
				convey.So(customerScore.Score, convey.ShouldEqual, -15.0)
			})
		})

		convey.Convey("When creating a customer score with decimal precision", func() {
			customerScore := model.CustomerScore{
				CustomerID: 789,
				Score:      92.857,
			}

			convey.Convey("Then it should maintain decimal precision", func() {
				convey.So(customerScore.Score, convey.ShouldEqual, 92.857)
			})
		})
	})
}

func TestEventValidation(t *testing.T) {
	convey.Convey("Given event validation scenarios", t, func() {
		convey.Convey("When creating an event with valid data", func() {
			event := model.Event{
				EventID:    "valid-event-123",
				CustomerID: 456,
				Delta:      88.5,
				TS:         time.Now(),
			}

			convey.Convey("Then it should be a valid event", func() {
				convey.So(event.EventID, convey.ShouldNotBeEmpty)
				convey.So(event.CustomerID, convey.ShouldNotBeZeroValue)
				convey.So(event.TS, convey.ShouldNotBeZeroValue)
			})
		})

		convey.Convey("When creating multiple events", func() {
			events := []model.Event{
				{EventID: "event-1", CustomerID: 1, Delta: 90.0, TS: time.Now()},
				{EventID: "event-2", CustomerID: 2, Delta: -85.0, TS: time.Now().Add(time.Minute)},
				{EventID: "event-3", CustomerID: 3, Delta: 95.0, TS: time.Now().Add(2 * time.Minute)},
			}

			convey.Convey("Then all events should be valid", func() {
				for _, event := range events {
					convey.So(event.EventID, convey.ShouldNotBeEmpty)
					convey.So(event.CustomerID, convey.ShouldNotBeZeroValue)
					convey.So(event.TS, convey.ShouldNotBeZeroValue)
				}
			})
		})
	})
}

func TestModelEdgeCases(t *testing.T) {
	convey.Convey("Given model edge cases", t, func() {
		convey.Convey("When creating an event with a very long event id", func() {
			longEventID := "event-" + string(make([]byte, 1000))

			event := model.Event{
				EventID:    longEventID,
				CustomerID: 1,
				Delta:      50.0,
				TS:         time.Now(),
			}

			convey.Convey("Then it should handle long strings", func() {
				convey.So(len(event.EventID), convey.ShouldBeGreaterThan, 1000)
			})
		})

		convey.Convey("When creating an event with special characters in the event id", func() {
			event := model.Event{
				EventID:    "event-!@#$%^&*()",
				CustomerID: 1,
				Delta:      75.5,
				TS:         time.Now(),
			}

			convey.Convey("Then it should handle special characters", func() {
				convey.So(event.EventID, convey.ShouldContainSubstring, "!@#$%^&*()")
			})
		})

		convey.Convey("When creating an event with an extreme delta value", func() {
			event := model.Event{
				EventID:    "event-extreme",
				CustomerID: 1,
				Delta:      1e308,
				TS:         time.Now(),
			}

			convey.Convey("Then it should handle extreme values", func() {
				convey.So(event.Delta, convey.ShouldEqual, 1e308)
			})
		})
	})
}
