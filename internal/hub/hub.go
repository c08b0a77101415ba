package hub

import (
	"context"
	"sort"

	"github.com/DoyleJ11/hearts-client/pkg/types"
)

// Seat is what the hub tracks for each running session.
type Seat interface {
	ID() string
	View(ctx context.Context) (types.SessionView, error)
}

type HubMsg interface{ isHubMsg() }

type Register struct {
	Seat Seat
}

type GetSeat struct {
	ID    string
	Reply chan Seat
}

type ListSeats struct {
	Reply chan []Seat
}

type RemoveSeat struct {
	ID string
}

type ShutdownHub struct{}

func (Register) isHubMsg()    {}
func (GetSeat) isHubMsg()     {}
func (ListSeats) isHubMsg()   {}
func (RemoveSeat) isHubMsg()  {}
func (ShutdownHub) isHubMsg() {}

type Hub struct {
	inbox  chan HubMsg
	seats  map[string]Seat
	order  []string
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(parent context.Context) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		seats:  make(map[string]Seat),
		ctx:    ctx,
		cancel: cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case Register:
				id := msg.Seat.ID()
				if _, ok := h.seats[id]; !ok {
					h.order = append(h.order, id)
				}
				h.seats[id] = msg.Seat

			case GetSeat:
				msg.Reply <- h.seats[msg.ID] // May be nil

			case ListSeats:
				out := make([]Seat, 0, len(h.order))
				for _, id := range h.order {
					out = append(out, h.seats[id])
				}
				msg.Reply <- out

			case RemoveSeat:
				if _, ok := h.seats[msg.ID]; ok {
					delete(h.seats, msg.ID)
					h.order = removeID(h.order, msg.ID)
				}

			case ShutdownHub:
				clear(h.seats)
				h.order = nil
				h.cancel()
			}
		}
	}
}

// Register adds a seat; false if the hub has stopped first.
func (h *Hub) Register(ctx context.Context, s Seat) bool {
	return h.send(ctx, Register{Seat: s})
}

// Remove drops a finished seat.
func (h *Hub) Remove(ctx context.Context, id string) bool {
	return h.send(ctx, RemoveSeat{ID: id})
}

// Shutdown stops the loop. Safe to call after the hub's context is already done.
func (h *Hub) Shutdown() {
	h.send(context.Background(), ShutdownHub{})
}

// Get asks the hub for one seat; nil if unknown or the hub has stopped.
func (h *Hub) Get(ctx context.Context, id string) Seat {
	reply := make(chan Seat, 1)
	if !h.send(ctx, GetSeat{ID: id, Reply: reply}) {
		return nil
	}
	select {
	case s := <-reply:
		return s
	case <-ctx.Done():
		return nil
	case <-h.ctx.Done():
		return nil
	}
}

// List returns seats in registration order.
func (h *Hub) List(ctx context.Context) []Seat {
	reply := make(chan []Seat, 1)
	if !h.send(ctx, ListSeats{Reply: reply}) {
		return nil
	}
	select {
	case s := <-reply:
		return s
	case <-ctx.Done():
		return nil
	case <-h.ctx.Done():
		return nil
	}
}

// Views collects a snapshot from every seat, ordered by seat number.
func (h *Hub) Views(ctx context.Context) ([]types.SessionView, error) {
	seats := h.List(ctx)
	views := make([]types.SessionView, 0, len(seats))
	for _, s := range seats {
		v, err := s.View(ctx)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	sort.SliceStable(views, func(i, j int) bool { return views[i].Seat < views[j].Seat })
	return views, nil
}

func (h *Hub) send(ctx context.Context, m HubMsg) bool {
	select {
	case h.inbox <- m:
		return true
	case <-ctx.Done():
		return false
	case <-h.ctx.Done():
		return false
	}
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, have := range ids {
		if have != id {
			out = append(out, have)
		}
	}
	return out
}
