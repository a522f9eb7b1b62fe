package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// maxChunkRunes is the longest text the translate_tts endpoint accepts.
const maxChunkRunes = 100

// ErrEmptyText is returned when there is nothing to speak.
var ErrEmptyText = errors.New("speech: no text to synthesize")

// Synthesizer turns text into MP3 audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, lang string) ([]byte, error)
}

type Config struct {
	BaseURL       string
	Lang          string
	RatePerSecond float64
	Burst         int
	Timeout       time.Duration
	HTTPClient    *http.Client
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = "https://translate.google.com"
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Lang == "" {
		c.Lang = "en"
	}
	if c.RatePerSecond <= 0 {
		c.RatePerSecond = 5
	}
	if c.Burst <= 0 {
		c.Burst = 5
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	return c
}

// GoogleTTS fetches speech from the Google Translate TTS endpoint, the
// same service gTTS uses.
type GoogleTTS struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

func NewGoogleTTS(cfg Config, logger *zap.Logger) *GoogleTTS {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &GoogleTTS{
		cfg:        cfg,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		logger:     logger.Named("tts"),
	}
}

// Synthesize splits text into endpoint-sized chunks and concatenates the
// MP3 segments in order. An empty lang uses the configured default.
func (g *GoogleTTS) Synthesize(ctx context.Context, text, lang string) ([]byte, error) {
	chunks := SplitChunks(text, maxChunkRunes)
	if len(chunks) == 0 {
		return nil, ErrEmptyText
	}
	if lang == "" {
		lang = g.cfg.Lang
	}

	start := time.Now()
	var audio bytes.Buffer
	for i, chunk := range chunks {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("speech: rate limiter: %w", err)
		}
		if err := g.fetch(ctx, &audio, chunk, lang, i, len(chunks)); err != nil {
			return nil, err
		}
	}

	g.logger.Debug("speech synthesized",
		zap.Int("chunks", len(chunks)),
		zap.Int("audio_bytes", audio.Len()),
		zap.Duration("duration", time.Since(start)),
	)

	return audio.Bytes(), nil
}

func (g *GoogleTTS) fetch(ctx context.Context, w io.Writer, chunk, lang string, idx, total int) error {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("client", "tw-ob")
	params.Set("tl", lang)
	params.Set("q", chunk)
	params.Set("idx", fmt.Sprint(idx))
	params.Set("total", fmt.Sprint(total))
	params.Set("textlen", fmt.Sprint(utf8.RuneCountInString(chunk)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.cfg.BaseURL+"/translate_tts?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("speech: build request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Referer", g.cfg.BaseURL+"/")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("speech: chunk %d/%d: %w", idx+1, total, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return fmt.Errorf("speech: chunk %d/%d: upstream %d: %s", idx+1, total, resp.StatusCode, body)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("speech: chunk %d/%d: read audio: %w", idx+1, total, err)
	}
	return nil
}

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/70.0.3538.102 Safari/537.36 Edge/18.19582"

// clauseEnds are the marks that close a chunk when followed by whitespace or
// the end of the text.
const clauseEnds = ".,;:!?…。，、；：！？"

// SplitChunks breaks text into pieces of at most limit runes. A piece ends
// after clause punctuation and otherwise at whitespace; a single word longer
// than limit is cut hard. Whitespace-only input yields no chunks.
func SplitChunks(text string, limit int) []string {
	if limit <= 0 {
		limit = maxChunkRunes
	}

	var (
		chunks  []string
		current []rune
	)
	flush := func() {
		if s := strings.TrimSpace(string(current)); s != "" {
			chunks = append(chunks, s)
		}
		current = current[:0]
	}

	for _, word := range strings.FieldsFunc(text, unicode.IsSpace) {
		w := []rune(word)
		for len(w) > limit {
			flush()
			chunks = append(chunks, string(w[:limit]))
			w = w[limit:]
		}

		need := len(w)
		if len(current) > 0 {
			need++
		}
		if len(current)+need > limit {
			flush()
		}
		if len(current) > 0 {
			current = append(current, ' ')
		}
		current = append(current, w...)

		if len(w) > 0 && strings.ContainsRune(clauseEnds, w[len(w)-1]) {
			flush()
		}
	}
	flush()

	return chunks
}
