package events

import "io"

type Subscriber interface {
	Subscribe(topic string) error
}

type Source interface {
	Subscriber
	io.Closer
	Unsubscribe(topic string)
}

type Base struct {
	Name string
}

func (b *Base) SubscribeAll() {}

type Bus struct {
	*Base
	Source
	count int
}

func (b *Bus) Publish() {}

type ClientOptions struct {
	Retries int
}

type hidden struct{}

func helper() {
	type local struct{}
	_ = local{}
	_ = hidden{}
}

type Pair[T any] struct {
	Value T
}

type Num struct {
	int
	Pair[string]
}
