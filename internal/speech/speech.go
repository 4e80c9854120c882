// Package speech defines the speech I/O collaborator boundary.
// Recognition and synthesis mechanics live behind interfaces; the only
// logic here is the playback queue that keeps synthesis from ever
// blocking command processing.
package speech

import (
	"log"
	"time"
)

// Recognizer captures one utterance. An empty string means timeout or
// unrecognized speech.
type Recognizer interface {
	Listen(timeout, phraseLimit time.Duration) (string, error)
}

// Synthesizer turns text into audible speech.
type Synthesizer interface {
	Speak(text string) error
}

const speakQueueSize = 32

// Speaker wraps a Synthesizer with a dedicated FIFO worker. Say is
// fire-and-forget: enqueue never blocks the caller.
type Speaker struct {
	synth Synthesizer
	queue chan string
	quit  chan struct{}
	done  chan struct{}
}

func NewSpeaker(synth Synthesizer) *Speaker {
	s := &Speaker{
		synth: synth,
		queue: make(chan string, speakQueueSize),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go s.loop()
	return s
}

func (s *Speaker) Say(text string) {
	select {
	case s.queue <- text:
	default:
		log.Printf("speech queue full, dropping utterance")
	}
}

func (s *Speaker) Close() {
	close(s.quit)
	<-s.done
}

func (s *Speaker) loop() {
	defer close(s.done)
	for {
		select {
		case <-s.quit:
			return
		case text := <-s.queue:
			if err := s.synth.Speak(text); err != nil {
				log.Printf("speech synthesis failed: %v", err)
			}
		}
	}
}
