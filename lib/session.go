package lib

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

const (
	clearScreen   = "\x1b[2J\x1b[1;1H"
	clearLine     = "\r\x1b[K"
	eraseLastChar = "\b \b"
)

type keyAction int

const (
	keySubmit keyAction = iota
	keyQuit
)

type inputChunk struct {
	data []byte
	err  error
}

type SessionOptions struct {
	Prompt string
	// Raw is set when the terminal delivers single key presses: input is
	// echoed back and lines end in "\r\n".
	Raw     bool
	History *History
	Store   HistoryStore
	Logger  zerolog.Logger
}

// Session is one interactive calculator loop. It owns its history; nothing
// is shared between sessions.
type Session struct {
	in      io.Reader
	chunks  <-chan inputChunk
	pending []byte
	readErr error
	out     io.Writer
	prompt  string
	raw     bool
	newline string
	history *History
	store   HistoryStore
	log     zerolog.Logger
}

func NewSession(in io.Reader, out io.Writer, opts SessionOptions) *Session {
	history := opts.History
	if history == nil {
		history = NewHistory(nil)
	}
	newline := "\n"
	if opts.Raw {
		newline = "\r\n"
	}
	return &Session{
		in:      in,
		out:     out,
		prompt:  opts.Prompt,
		raw:     opts.Raw,
		newline: newline,
		history: history,
		store:   opts.Store,
		log:     opts.Logger.With().Str("component", "session").Logger(),
	}
}

func (s *Session) History() *History {
	return s.history
}

// Run prompts and evaluates until the user exits, input ends or ctx is
// cancelled. Cancellation interrupts a pending read.
func (s *Session) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	s.startReader(done)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.write(s.prompt)
		input, action, err := s.readInput(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}

		if action == keyQuit {
			s.write(s.newline)
			return nil
		}

		if errors.Is(err, io.EOF) {
			if input != "" {
				s.write(s.newline)
				s.handle(ctx, input)
			}
			return nil
		}

		if s.handle(ctx, input) {
			return nil
		}
	}
}

// handle processes one submitted line and reports whether the session is over.
func (s *Session) handle(ctx context.Context, input string) bool {
	switch input {
	case "exit":
		return true
	case "clear":
		s.write(clearScreen)
		return false
	}

	result, err := Evaluate(StripWhitespace(input))
	outcome := FormatResult(result)
	if err != nil {
		outcome = "Invalid calculation"
		s.log.Debug().Str("expression", input).Err(err).Msg("evaluation failed")
		s.write("Error: " + outcome + s.newline)
	} else {
		s.log.Debug().Str("expression", input).Float64("result", result).Msg("evaluated")
		s.write("Result: " + outcome + s.newline)
	}

	if s.history.Add(input) && s.store != nil {
		entry := HistoryEntry{Expression: input, Outcome: outcome, Valid: err == nil, At: time.Now()}
		if storeErr := s.store.Append(ctx, entry); storeErr != nil {
			s.log.Warn().Err(storeErr).Str("expression", input).Msg("could not save history")
		}
	}
	return false
}

// startReader moves the blocking reads onto their own goroutine so that
// readInput can also wait on the context. A read that is still blocked when
// Run returns is abandoned; its result is dropped once done is closed.
func (s *Session) startReader(done <-chan struct{}) {
	chunks := make(chan inputChunk)
	s.chunks = chunks
	s.pending = nil
	s.readErr = nil

	go func() {
		buf := make([]byte, 256)
		for {
			n, err := s.in.Read(buf)
			c := inputChunk{data: append([]byte{}, buf[:n]...), err: err}
			if n == 0 && err == nil {
				continue
			}
			select {
			case chunks <- c:
			case <-done:
				return
			}
			if err != nil {
				return
			}
		}
	}()
}

// fill waits for the next chunk of input.
func (s *Session) fill(ctx context.Context) error {
	if s.readErr != nil {
		return s.readErr
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case c := <-s.chunks:
		s.pending = append(s.pending, c.data...)
		if c.err != nil {
			s.readErr = c.err
		}
		return nil
	}
}

func (s *Session) nextByte(ctx context.Context) (byte, error) {
	for len(s.pending) == 0 {
		if err := s.fill(ctx); err != nil {
			return 0, err
		}
	}
	b := s.pending[0]
	s.pending = s.pending[1:]
	return b, nil
}

func (s *Session) nextRune(ctx context.Context) (rune, error) {
	for {
		if len(s.pending) > 0 && (utf8.FullRune(s.pending) || s.readErr != nil) {
			r, size := utf8.DecodeRune(s.pending)
			s.pending = s.pending[size:]
			return r, nil
		}
		if err := s.fill(ctx); err != nil {
			return 0, err
		}
	}
}

func (s *Session) readInput(ctx context.Context) (string, keyAction, error) {
	input := []rune{}

	for {
		ch, err := s.nextRune(ctx)
		if err != nil {
			return string(input), keySubmit, err
		}

		switch {
		case ch == '\n' || (ch == '\r' && s.raw):
			s.write(s.newline)
			return string(input), keySubmit, nil
		case ch == 0x03 || ch == 0x04:
			return string(input), keyQuit, nil
		case ch == 0x1b:
			recalled, quit, err := s.readEscape(ctx)
			if quit {
				return string(input), keyQuit, nil
			}
			if err != nil {
				return string(input), keySubmit, err
			}
			if recalled != nil {
				input = []rune(*recalled)
				s.write(clearLine + s.prompt + *recalled)
			}
		case ch == 0x7f || ch == '\b':
			if len(input) > 0 {
				input = input[:len(input)-1]
				s.echo(eraseLastChar)
			}
		case ch < 0x20:
			// other control keys do nothing
		default:
			input = append(input, ch)
			s.echo(string(ch))
		}
	}
}

// readEscape decodes what follows an ESC byte. An ESC with nothing after it
// in the same read is the Esc key and quits. "ESC [" (CSI) and "ESC O" (SS3)
// sequences are consumed whole; only the Up and Down arrows do anything and
// return the recalled entry. An ESC followed by anything else is dropped.
func (s *Session) readEscape(ctx context.Context) (*string, bool, error) {
	if len(s.pending) == 0 {
		return nil, true, nil
	}

	var final byte
	switch s.pending[0] {
	case '[':
		s.pending = s.pending[1:]
		for {
			b, err := s.nextByte(ctx)
			if err != nil {
				return nil, false, err
			}
			// parameter and intermediate bytes run until the final byte
			if b >= 0x40 && b <= 0x7e {
				final = b
				break
			}
			if b < 0x20 || b > 0x3f {
				return nil, false, nil
			}
		}
	case 'O':
		s.pending = s.pending[1:]
		b, err := s.nextByte(ctx)
		if err != nil {
			return nil, false, err
		}
		final = b
	default:
		return nil, false, nil
	}

	var entry string
	var ok bool
	switch final {
	case 'A':
		entry, ok = s.history.Prev()
	case 'B':
		entry, ok = s.history.Next()
	}
	if !ok {
		return nil, false, nil
	}
	return &entry, false, nil
}

func (s *Session) echo(text string) {
	if s.raw {
		s.write(text)
	}
}

func (s *Session) write(text string) {
	fmt.Fprint(s.out, text)
}
