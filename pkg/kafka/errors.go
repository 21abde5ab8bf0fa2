package kafka

import "errors"

var (
	ErrProducerClosed = errors.New("kafka: producer is closed")
	ErrEmptyKey       = errors.New("kafka: message key is required")
	ErrEmptyValue     = errors.New("kafka: message value is required")
)
