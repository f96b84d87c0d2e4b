package kafka

import "time"

// Message is the transport-neutral shape handed to the producer. Key
// selects the partition, so events for one booking stay ordered.
type Message struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}
