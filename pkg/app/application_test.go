package app

import (
	"context"
	"testing"

	"repairshop/pkg/config"
	"repairshop/pkg/kafka"
	"repairshop/pkg/logger"
)

type recordingPublisher struct {
	closed bool
}

func (p *recordingPublisher) Publish(context.Context, kafka.Message) error { return nil }
func (p *recordingPublisher) Close() error {
	p.closed = true
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   logger.ERROR,
			Format:  logger.JSON,
			Service: "test",
		}),
	}
}

func TestShutdownClosesPublisher(t *testing.T) {
	publisher := &recordingPublisher{}

	a := NewApplication(testConfig())
	a.SetPublisher(publisher)

	a.closePublisher()

	if !publisher.closed {
		t.Error("publisher not closed on shutdown")
	}
}

func TestShutdownWithoutPublisher(t *testing.T) {
	a := NewApplication(testConfig())

	// No publisher registered; shutdown must not panic.
	a.closePublisher()
}
