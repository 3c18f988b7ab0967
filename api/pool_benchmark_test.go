package api

import (
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
)

func BenchmarkEventSenderSubmit(b *testing.B) {
	ev := event("bench")

	b.Run("Buffered", func(b *testing.B) {
		s := NewEventSender(&fakePublisher{}, log.New(), EventSenderConfig{Workers: 4, Buffer: 1024})
		defer s.Close()

		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			s.Submit(ev)
		}
	})

	b.Run("HandoffTimeout", func(b *testing.B) {
		pub := newBlockingPublisher()
		s := NewEventSender(pub, log.New(), EventSenderConfig{Workers: 1, Buffer: 1, HandoffTimeout: time.Nanosecond})
		defer func() {
			close(pub.release)
			s.Close()
		}()
		s.Submit(ev)
		<-pub.started
		s.Submit(ev)

		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if s.Submit(ev) {
				b.Fatal("expected submit to fail after handoff timeout")
			}
		}
	})
}
