package speech

import "context"

// Speaker reads review markdown aloud.
type Speaker struct {
	synth Synthesizer
	lang  string
}

func NewSpeaker(synth Synthesizer, lang string) *Speaker {
	return &Speaker{synth: synth, lang: lang}
}

// Speak normalizes markdown and returns MP3 audio for it.
func (s *Speaker) Speak(ctx context.Context, markdown string) ([]byte, error) {
	return s.synth.Synthesize(ctx, NormalizeForSpeech(markdown), s.lang)
}
