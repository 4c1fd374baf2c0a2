package session

import (
	"context"
	"strings"

	"github.com/minios-linux/paneltrans/catalog"
	"github.com/minios-linux/paneltrans/clipboard"
	"github.com/minios-linux/paneltrans/runner"
)

// ---------------------------------------------------------------------------
// Translation
// ---------------------------------------------------------------------------

// Translate translates the source text from the source to the target
// language. It returns ErrNoLanguage or ErrNoText without running anything
// when the request cannot be built. On success the trimmed output becomes
// the result text; on failure the result text is left as it was.
func (s *Session) Translate(ctx context.Context) (<-chan Outcome, error) {
	return s.translate(ctx, false)
}

// TranslateAndPlay is Translate followed, on success, by playback of the
// result in the target language.
func (s *Session) TranslateAndPlay(ctx context.Context) (<-chan Outcome, error) {
	return s.translate(ctx, true)
}

func (s *Session) translate(ctx context.Context, play bool) (<-chan Outcome, error) {
	s.mu.Lock()
	if s.from == nil || s.to == nil {
		s.mu.Unlock()
		return nil, ErrNoLanguage
	}
	if s.source == "" {
		s.mu.Unlock()
		return nil, ErrNoText
	}
	cmd := s.tool.TranslateCommand(s.engine, s.from.Code, s.to.Code, s.source)
	target := *s.to
	s.lastReq++
	seq := s.lastReq
	s.mu.Unlock()

	s.log.Debug("translate", "seq", seq, "pair", cmd.Args[len(cmd.Args)-2], "play", play)

	out := make(chan Outcome, 1)
	results := s.runner.RunCapturing(ctx, cmd)
	go func() {
		o := s.applyTranslation(seq, <-results)
		if o.Err == nil && play {
			s.playResult(seq, target, o.Text)
		}
		out <- o
	}()
	return out, nil
}

func (s *Session) applyTranslation(seq uint64, res runner.Result) Outcome {
	if !res.OK() {
		err := &TranslationError{ExitCode: res.ExitCode, Stderr: res.Stderr, Err: res.Err}
		// The previous result stays on display; no other signal is given.
		s.log.Warn("translation failed", "seq", seq, "exit", res.ExitCode, "err", err)
		return Outcome{Err: err}
	}

	text := strings.TrimSpace(res.Stdout)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.from == nil || s.to == nil {
		s.log.Debug("dropping translation, languages were unset", "seq", seq)
		return Outcome{Text: text, Err: ErrNoLanguage}
	}
	if seq != s.lastReq {
		s.log.Debug("applying superseded translation", "seq", seq, "latest", s.lastReq)
	}
	s.result = text
	return Outcome{Text: text}
}

// playResult speaks the text this request produced, in the target language
// it was issued for, whatever later completions did to the session.
func (s *Session) playResult(seq uint64, target catalog.Language, text string) {
	if text == "" {
		s.log.Debug("skipping playback of empty translation", "seq", seq)
		return
	}
	s.mu.Lock()
	cmd := s.tool.PlayCommand(s.engine, target.Code, text)
	s.mu.Unlock()
	if err := s.runner.RunDetached(cmd); err != nil {
		s.log.Warn("playback did not start", "side", To, "err", err)
	}
}

// ---------------------------------------------------------------------------
// Playback
// ---------------------------------------------------------------------------

// Play speaks the source text in the source language (From) or the result
// text in the target language (To). Playback is fire-and-forget: only
// ErrNoLanguage and ErrNoText are reported.
func (s *Session) Play(side Side) error {
	s.mu.Lock()
	lang, text := s.from, s.source
	if side == To {
		lang, text = s.to, s.result
	}
	if lang == nil {
		s.mu.Unlock()
		return ErrNoLanguage
	}
	if text == "" {
		s.mu.Unlock()
		return ErrNoText
	}
	cmd := s.tool.PlayCommand(s.engine, lang.Code, text)
	s.mu.Unlock()

	if err := s.runner.RunDetached(cmd); err != nil {
		s.log.Warn("playback did not start", "side", side, "err", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Clipboard capture
// ---------------------------------------------------------------------------

// Capture reads src and makes it the source text. The result text is
// cleared, since it belonged to the previous source.
func (s *Session) Capture(ctx context.Context, src clipboard.Source) <-chan clipboard.Text {
	out := make(chan clipboard.Text, 1)
	texts := s.clip.ReadText(ctx, src)
	go func() {
		t := <-texts
		if t.Err == nil {
			s.mu.Lock()
			s.source = t.Value
			s.result = ""
			s.mu.Unlock()
		} else {
			s.log.Warn("clipboard read failed", "source", src, "err", t.Err)
		}
		out <- t
	}()
	return out
}

// CaptureAndTranslate reads src into the source text and translates it,
// optionally playing the translation.
func (s *Session) CaptureAndTranslate(ctx context.Context, src clipboard.Source, play bool) <-chan Outcome {
	out := make(chan Outcome, 1)
	texts := s.clip.ReadText(ctx, src)
	go func() {
		t := <-texts
		if t.Err != nil {
			s.log.Warn("clipboard read failed", "source", src, "err", t.Err)
			out <- Outcome{Err: t.Err}
			return
		}
		s.SetSourceText(t.Value)

		pending, err := s.translate(ctx, play)
		if err != nil {
			out <- Outcome{Err: err}
			return
		}
		out <- <-pending
	}()
	return out
}

// CaptureAndPlay reads src into the source text and speaks it in the
// source language without translating.
func (s *Session) CaptureAndPlay(ctx context.Context, src clipboard.Source) <-chan error {
	out := make(chan error, 1)
	captured := s.Capture(ctx, src)
	go func() {
		if t := <-captured; t.Err != nil {
			out <- t.Err
			return
		}
		out <- s.Play(From)
	}()
	return out
}
