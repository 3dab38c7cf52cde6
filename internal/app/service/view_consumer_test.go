package service

import "testing"

func TestViewConsumer_StopTwice(t *testing.T) {
	consumer := NewViewConsumer(nil, nil, nil)

	consumer.Stop()
	consumer.Stop()
}
