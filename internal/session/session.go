package session

import (
	"context"
	"errors"
	"io"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/DoyleJ11/hearts-client/internal/engine"
	"github.com/DoyleJ11/hearts-client/internal/policy"
	"github.com/DoyleJ11/hearts-client/internal/transport"
	"github.com/DoyleJ11/hearts-client/internal/types"
	ptypes "github.com/DoyleJ11/hearts-client/pkg/types"
)

const (
	DefaultContinueDelay = time.Second
	DefaultSendTimeout   = 3 * time.Second
)

type Msg interface{ isSessionMsg() }

type received struct{ msg types.ServerMessage }

func (received) isSessionMsg() {}

type streamClosed struct{ err error }

func (streamClosed) isSessionMsg() {}

type continuationFired struct{ gen uint64 }

func (continuationFired) isSessionMsg() {}

type getState struct{ reply chan ptypes.SessionView }

func (getState) isSessionMsg() {}

// Recorder receives finished hands and games. Failures are logged, not fatal.
type Recorder interface {
	RecordHand(ctx context.Context, sessionID, player string, number int, r engine.HandResult) error
	RecordGame(ctx context.Context, sessionID, player string, hands int, r engine.GameResult) error
}

type nopRecorder struct{}

func (nopRecorder) RecordHand(context.Context, string, string, int, engine.HandResult) error {
	return nil
}
func (nopRecorder) RecordGame(context.Context, string, string, int, engine.GameResult) error {
	return nil
}

type Options struct {
	ID            string
	Seat          int
	Identity      engine.Identity
	Policy        engine.Policy
	ContinueDelay time.Duration
	SendTimeout   time.Duration
	Recorder      Recorder
	Logger        *zap.Logger
}

// Session plays one game over one stream. Every state change happens on the goroutine
// running Run; the stream reader and the continuation timer only post into the inbox.
type Session struct {
	opts   Options
	stream transport.Stream
	inbox  chan Msg
	state  engine.Session
	cont   *Continuation
	log    *zap.Logger

	done  chan struct{}
	final ptypes.SessionView
	err   error
}

func New(stream transport.Stream, opts Options) *Session {
	if opts.ContinueDelay <= 0 {
		opts.ContinueDelay = DefaultContinueDelay
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = DefaultSendTimeout
	}
	if opts.Policy == nil {
		opts.Policy = policy.FirstLegal{}
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	s := &Session{
		opts:   opts,
		stream: stream,
		inbox:  make(chan Msg, 64),
		state:  engine.NewSession(),
		log:    opts.Logger.With(zap.Int("seat", opts.Seat), zap.String("session_id", opts.ID)),
		done:   make(chan struct{}),
	}
	s.cont = NewContinuation(opts.ContinueDelay, func(gen uint64) {
		select {
		case s.inbox <- continuationFired{gen: gen}:
		case <-s.done:
		}
	})
	return s
}

func (s *Session) ID() string { return s.opts.ID }

// Done is closed once Run has returned.
func (s *Session) Done() <-chan struct{} { return s.done }

// Err is the error Run returned. Only valid after Done is closed.
func (s *Session) Err() error { return s.err }

// Run logs in and plays until the game ends (nil) or a fatal fault occurs. It owns the
// stream and closes it on return.
func (s *Session) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		s.cont.Disarm()
		err = multierr.Append(err, s.stream.Close())
		s.err = err
		s.final = s.view(err)
		close(s.done)
	}()

	r, next, err := engine.Authenticate(s.state, s.opts.Identity)
	if err != nil {
		return err
	}
	s.state = next
	s.log.Info("sending identity", zap.String("name", s.opts.Identity.Name), zap.String("email", s.opts.Identity.Email))
	if err := s.react(ctx, r); err != nil {
		return s.fail(err)
	}

	go s.read(ctx)

	for {
		select {
		case <-ctx.Done():
			return s.fail(ctx.Err())

		case m := <-s.inbox:
			finished, err := s.handle(ctx, m)
			if err != nil {
				return s.fail(err)
			}
			if finished {
				s.log.Info("session finished", zap.String("winner", s.state.Winner), zap.Int("hands", s.state.HandsCompleted))
				return nil
			}
		}
	}
}

func (s *Session) handle(ctx context.Context, m Msg) (bool, error) {
	switch msg := m.(type) {
	case received:
		s.log.Debug("received", zap.String("res", msg.msg.Res))
		in, err := msg.msg.Inbound()
		if err != nil {
			return false, err
		}
		r, next, err := engine.Apply(ctx, s.state, in, s.opts.Policy)
		if err != nil {
			return false, err
		}
		s.state = next
		s.observe(ctx, in, r)
		if err := s.react(ctx, r); err != nil {
			return false, err
		}
		return s.state.Phase == engine.PhaseTerminal, nil

	case streamClosed:
		if msg.err == nil || errors.Is(msg.err, io.EOF) {
			return false, &engine.TransportError{Op: "stream ended by authority"}
		}
		return false, &engine.TransportError{Op: "recv", Err: msg.err}

	case continuationFired:
		if !s.cont.Accept(msg.gen) {
			s.log.Debug("dropping stale continuation", zap.Uint64("gen", msg.gen))
			return false, nil
		}
		r, next := engine.Continue(s.state)
		s.state = next
		if r.Send != nil {
			s.log.Info("continuing to next hand")
		}
		return false, s.react(ctx, r)

	case getState:
		msg.reply <- s.view(nil)
		return false, nil
	}
	return false, nil
}

func (s *Session) react(ctx context.Context, r engine.Reaction) error {
	switch r.Schedule {
	case engine.ScheduleArm:
		s.cont.Arm()
	case engine.ScheduleDisarm:
		s.cont.Disarm()
	}

	if r.Send != nil {
		if err := s.send(ctx, r.Send); err != nil {
			return err
		}
	}

	if r.End {
		endCtx, cancel := context.WithTimeout(ctx, s.opts.SendTimeout)
		defer cancel()
		if err := s.stream.CloseSend(endCtx); err != nil {
			s.log.Warn("ending stream", zap.Error(err))
		}
	}
	return nil
}

func (s *Session) send(ctx context.Context, out engine.Outbound) error {
	if s.state.Phase == engine.PhaseTerminal {
		return engine.ErrTerminal
	}
	msg, err := types.NewClientMessage(out)
	if err != nil {
		return err
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.opts.SendTimeout)
	defer cancel()
	if err := s.stream.Send(sendCtx, msg); err != nil {
		return &engine.TransportError{Op: "send " + msg.Kind(), Err: err}
	}
	s.log.Debug("sent", zap.String("kind", msg.Kind()))
	return nil
}

func (s *Session) fail(err error) error {
	_, s.state = engine.Abort(s.state)
	s.cont.Disarm()
	s.log.Error("session failed", zap.Error(err))
	return err
}

func (s *Session) read(ctx context.Context) {
	for {
		msg, err := s.stream.Recv(ctx)
		if err != nil {
			s.post(ctx, streamClosed{err: err})
			return
		}
		if !s.post(ctx, received{msg: msg}) {
			return
		}
	}
}

func (s *Session) post(ctx context.Context, m Msg) bool {
	select {
	case s.inbox <- m:
		return true
	case <-ctx.Done():
		return false
	}
}

// View returns a snapshot of the session, served by the loop while it runs and from the
// final state afterwards.
func (s *Session) View(ctx context.Context) (ptypes.SessionView, error) {
	reply := make(chan ptypes.SessionView, 1)
	select {
	case s.inbox <- getState{reply: reply}:
	case <-s.done:
		return s.final, nil
	case <-ctx.Done():
		return ptypes.SessionView{}, ctx.Err()
	}

	select {
	case v := <-reply:
		return v, nil
	case <-s.done:
		return s.final, nil
	case <-ctx.Done():
		return ptypes.SessionView{}, ctx.Err()
	}
}

func (s *Session) view(err error) ptypes.SessionView {
	st := s.state
	v := ptypes.SessionView{
		ID:             s.opts.ID,
		Seat:           s.opts.Seat,
		Name:           s.opts.Identity.Name,
		Phase:          string(st.Phase),
		HasToken:       st.HasToken,
		Hand:           cardStrings(st.Hand),
		HandsCompleted: st.HandsCompleted,
		TricksSeen:     st.TricksSeen,
		PlaysMade:      st.PlaysMade,
		Totals:         st.Totals,
		Winner:         st.Winner,
		ContinueArmed:  s.cont.Armed(),
	}
	if err != nil {
		v.Err = err.Error()
	}
	return v
}
