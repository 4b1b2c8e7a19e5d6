package events

type FakeSubscriber struct{}

func (FakeSubscriber) Subscribe(topic string) error { return nil }
